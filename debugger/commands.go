package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cmarsh-dev/rv32i-emu/disasm"
	"github.com/cmarsh-dev/rv32i-emu/vm"
)

// cmdRun starts (or restarts) execution from the current PC, running until a
// breakpoint, watchpoint, error, or program end.
func (d *Debugger) cmdRun(args []string) error {
	d.Running = true
	for !d.Program.IsDone(d.VM) {
		if stop, reason := d.ShouldBreak(); stop {
			d.Printf("Stopped (%s) at pc=0x%08x\n", reason, d.VM.Registers.PC())
			d.Running = false
			return nil
		}
		if err := d.Program.Step(d.VM); err != nil {
			d.Running = false
			return err
		}
	}
	d.Running = false
	d.Println("Program finished.")
	return nil
}

// cmdContinue resumes execution after a stop, same semantics as run but
// skips the breakpoint check on the instruction we're currently sitting on
// (so a stop at a breakpoint doesn't immediately re-trigger it).
func (d *Debugger) cmdContinue(args []string) error {
	if d.Program.IsDone(d.VM) {
		d.Println("Program already finished.")
		return nil
	}
	if err := d.Program.Step(d.VM); err != nil {
		return err
	}
	return d.cmdRun(args)
}

// cmdStep executes exactly one instruction (optionally N times).
func (d *Debugger) cmdStep(args []string) error {
	count := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid step count: %s", args[0])
		}
		count = n
	}

	for i := 0; i < count; i++ {
		if d.Program.IsDone(d.VM) {
			d.Println("Program finished.")
			return nil
		}
		if err := d.Program.Step(d.VM); err != nil {
			return err
		}
	}
	d.Printf("pc=0x%08x\n", d.VM.Registers.PC())
	return nil
}

func (d *Debugger) cmdBreak(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: break <address>")
	}
	addr, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	bp := d.Breakpoints.AddBreakpoint(addr, false, "")
	d.Printf("Breakpoint %d at 0x%08x\n", bp.ID, addr)
	return nil
}

func (d *Debugger) cmdTBreak(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: tbreak <address>")
	}
	addr, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	bp := d.Breakpoints.AddBreakpoint(addr, true, "")
	d.Printf("Temporary breakpoint %d at 0x%08x\n", bp.ID, addr)
	return nil
}

func (d *Debugger) cmdDelete(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: delete <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id: %s", args[0])
	}
	if err := d.Breakpoints.DeleteBreakpoint(id); err != nil {
		return err
	}
	d.Printf("Deleted breakpoint %d\n", id)
	return nil
}

func (d *Debugger) cmdEnable(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: enable <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id: %s", args[0])
	}
	return d.Breakpoints.EnableBreakpoint(id)
}

func (d *Debugger) cmdDisable(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: disable <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id: %s", args[0])
	}
	return d.Breakpoints.DisableBreakpoint(id)
}

func (d *Debugger) addWatch(wtype WatchType, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: watch <register|[address]>")
	}
	isReg, reg, addr, err := d.parseWatchExpression(args[0])
	if err != nil {
		return err
	}
	wp := d.Watchpoints.AddWatchpoint(wtype, args[0], addr, isReg, reg)
	if err := d.Watchpoints.InitializeWatchpoint(wp.ID, d.VM); err != nil {
		return err
	}
	d.Printf("Watchpoint %d: %s\n", wp.ID, args[0])
	return nil
}

func (d *Debugger) cmdWatch(args []string) error  { return d.addWatch(WatchWrite, args) }
func (d *Debugger) cmdRWatch(args []string) error { return d.addWatch(WatchRead, args) }
func (d *Debugger) cmdAWatch(args []string) error { return d.addWatch(WatchReadWrite, args) }

// cmdPrint resolves and prints a single register or memory word. No general
// expression grammar is supported; give a register name or an address.
func (d *Debugger) cmdPrint(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: print <register|address>")
	}
	name := strings.ToLower(args[0])
	if reg, err := vm.ParseRegisterName(name); err == nil {
		d.Printf("%s = 0x%08x (%d)\n", reg, d.VM.Registers.Get(reg), d.VM.Registers.Get(reg))
		return nil
	}
	addr, err := d.ResolveAddress(args[0])
	if err != nil {
		return fmt.Errorf("not a register or known address: %s", args[0])
	}
	val, err := d.VM.Memory.WordAt(addr)
	if err != nil {
		return err
	}
	d.Printf("[0x%08x] = 0x%08x (%d)\n", addr, val, val)
	return nil
}

// cmdExamine dumps memory starting at an address. Usage: x/NFU address,
// where N is a count, F is a format (x=hex, d=decimal; other letters are rejected),
// and U is a unit size (b=byte, h=halfword, w=word). Defaults to x/1xw.
func (d *Debugger) cmdExamine(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: x[/NFU] <address>")
	}

	count := 1
	format := byte('x')
	unit := byte('w')

	first := args[0]
	addrArg := args[0]
	if strings.HasPrefix(first, "/") {
		if len(args) < 2 {
			return fmt.Errorf("usage: x[/NFU] <address>")
		}
		spec := first[1:]
		addrArg = args[1]

		numEnd := 0
		for numEnd < len(spec) && spec[numEnd] >= '0' && spec[numEnd] <= '9' {
			numEnd++
		}
		if numEnd > 0 {
			n, err := strconv.Atoi(spec[:numEnd])
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid count in %s", first)
			}
			count = n
		}
		for _, c := range spec[numEnd:] {
			switch c {
			case 'x', 'd':
				format = byte(c)
			case 'b', 'h', 'w':
				unit = byte(c)
			default:
				return fmt.Errorf("unknown examine specifier: %c", c)
			}
		}
	}

	addr, err := d.ResolveAddress(addrArg)
	if err != nil {
		return err
	}

	width := uint32(4)
	switch unit {
	case 'b':
		width = 1
	case 'h':
		width = 2
	}

	for i := 0; i < count; i++ {
		a := addr + uint32(i)*width
		var val uint32
		var err error
		switch unit {
		case 'b':
			var b byte
			b, err = d.VM.Memory.ByteAt(a)
			val = uint32(b)
		case 'h':
			var h uint16
			h, err = d.VM.Memory.HalfwordAt(a)
			val = uint32(h)
		default:
			val, err = d.VM.Memory.WordAt(a)
		}
		if err != nil {
			return err
		}
		if format == 'd' {
			d.Printf("0x%08x: %d\n", a, int32(val))
		} else {
			d.Printf("0x%08x: 0x%0*x\n", a, width*2, val)
		}
	}
	return nil
}

func (d *Debugger) cmdInfo(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: info <registers|breakpoints|watchpoints>")
	}
	switch args[0] {
	case "registers", "reg", "r":
		return d.showRegisters()
	case "breakpoints", "break", "b":
		return d.showBreakpoints()
	case "watchpoints", "watch", "w":
		return d.showWatchpoints()
	default:
		return fmt.Errorf("unknown info topic: %s", args[0])
	}
}

func (d *Debugger) showRegisters() error {
	for i := 0; i < 32; i += 4 {
		for col := 0; col < 4 && i+col < 32; col++ {
			reg := vm.RegisterID(i + col)
			d.Printf("%-4s=0x%08x  ", reg, d.VM.Registers.Get(reg))
		}
		d.Println()
	}
	d.Printf("pc  =0x%08x\n", d.VM.Registers.PC())
	return nil
}

func (d *Debugger) showBreakpoints() error {
	bps := d.Breakpoints.GetAllBreakpoints()
	if len(bps) == 0 {
		d.Println("No breakpoints.")
		return nil
	}
	for _, bp := range bps {
		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}
		temp := ""
		if bp.Temporary {
			temp = " (temporary)"
		}
		d.Printf("%d: 0x%08x %s%s, hits=%d\n", bp.ID, bp.Address, status, temp, bp.HitCount)
	}
	return nil
}

func (d *Debugger) showWatchpoints() error {
	wps := d.Watchpoints.GetAllWatchpoints()
	if len(wps) == 0 {
		d.Println("No watchpoints.")
		return nil
	}
	for _, wp := range wps {
		status := "enabled"
		if !wp.Enabled {
			status = "disabled"
		}
		d.Printf("%d: %s %s, last=0x%08x, hits=%d\n", wp.ID, wp.Expression, status, wp.LastValue, wp.HitCount)
	}
	return nil
}

func (d *Debugger) cmdReset(args []string) error {
	d.VM.Reset()
	d.Running = false
	d.Println("Reset.")
	return nil
}

func (d *Debugger) cmdHelp(args []string) error {
	d.Println("Commands:")
	d.Println("  run, continue, step [n]")
	d.Println("  break <addr>, tbreak <addr>, delete <id>, enable <id>, disable <id>")
	d.Println("  watch <reg|[addr]>, rwatch <reg|[addr]>, awatch <reg|[addr]>")
	d.Println("  print <reg|addr>, x[/NFU] <addr>")
	d.Println("  info registers|breakpoints|watchpoints")
	d.Println("  reset, help")
	d.Println()
	d.Println("  Interactive protocol: blank line steps one instruction, 'q' quits,")
	d.Println("  '!+ <reg> <value>' sets a register, '!@ <addr> <byte>' sets a memory byte.")
	return nil
}

// disassembleAt is a small helper used by the REPL and the TUI to show the
// instruction stored at addr; kept here alongside the other inspection
// commands.
func (d *Debugger) disassembleAt(addr uint32) string {
	probe := &vm.VM{Registers: vm.NewRegisterFile()}
	probe.Registers.SetPC(addr)
	inst, err := d.Program.Peek(probe)
	if err != nil {
		return fmt.Sprintf("0x%08x: <error: %v>", addr, err)
	}
	text, err := disasm.Disassemble(inst)
	if err != nil {
		return fmt.Sprintf("0x%08x: <error: %v>", addr, err)
	}
	return fmt.Sprintf("%s: %s", d.Symbols.FormatAddress(addr), text)
}
