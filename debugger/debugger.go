// Package debugger wraps a VM and Program with the inspection and control
// surface described for interactive use: a line-oriented REPL matching the
// register/memory-poke protocol, a richer word-command layer for
// breakpoints/watchpoints/inspection, and a tcell/tview TUI over both.
package debugger

import (
	"fmt"
	"strings"

	"github.com/cmarsh-dev/rv32i-emu/vm"
)

// StepMode represents the debugger's single-step intent between prompts.
type StepMode int

const (
	StepNone   StepMode = iota // Not stepping
	StepSingle                 // Step one instruction
)

// Debugger represents the debugger state and functionality.
type Debugger struct {
	VM      *vm.VM
	Program *vm.Program

	Breakpoints *BreakpointManager
	Watchpoints *WatchpointManager
	History     *CommandHistory

	Running  bool
	StepMode StepMode

	// Symbols resolves label names to addresses and back, for display and
	// for the break/watch/print/examine commands' address arguments.
	Symbols *vm.SymbolResolver

	// Last command (for repeat on empty input).
	LastCommand string

	// Output buffer.
	Output strings.Builder
}

// NewDebugger creates a new debugger instance over machine running program.
func NewDebugger(machine *vm.VM, program *vm.Program) *Debugger {
	return &Debugger{
		VM:          machine,
		Program:     program,
		Breakpoints: NewBreakpointManager(),
		Watchpoints: NewWatchpointManager(),
		History:     NewCommandHistory(),
		Running:     false,
		StepMode:    StepNone,
		Symbols:     vm.NewSymbolResolver(nil),
	}
}

// LoadSymbols loads the symbol table for label resolution.
func (d *Debugger) LoadSymbols(symbols map[string]uint32) {
	d.Symbols = vm.NewSymbolResolver(symbols)
}

// ResolveAddress resolves a label to an address, or parses a numeric address.
func (d *Debugger) ResolveAddress(addrStr string) (uint32, error) {
	if addr, ok := d.Symbols.LookupSymbol(addrStr); ok {
		return addr, nil
	}

	var addr uint32
	if strings.HasPrefix(addrStr, "0x") || strings.HasPrefix(addrStr, "0X") {
		_, err := fmt.Sscanf(addrStr, "0x%x", &addr)
		if err != nil {
			return 0, fmt.Errorf("invalid address: %s", addrStr)
		}
	} else {
		_, err := fmt.Sscanf(addrStr, "%d", &addr)
		if err != nil {
			return 0, fmt.Errorf("invalid address: %s", addrStr)
		}
	}

	return addr, nil
}

// ExecuteCommand processes and executes a word-style debugger command (the
// richer command layer, distinct from the REPL's !+/!@ protocol).
func (d *Debugger) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)

	if cmdLine == "" {
		cmdLine = d.LastCommand
	}

	if cmdLine != "" {
		d.History.Add(cmdLine)
		d.LastCommand = cmdLine
	}

	parts := strings.Fields(cmdLine)
	if len(parts) == 0 {
		return nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	return d.handleCommand(cmd, args)
}

func (d *Debugger) handleCommand(cmd string, args []string) error {
	switch cmd {
	case "run", "r":
		return d.cmdRun(args)
	case "continue", "c":
		return d.cmdContinue(args)
	case "step", "s", "si":
		return d.cmdStep(args)

	case "break", "b":
		return d.cmdBreak(args)
	case "tbreak", "tb":
		return d.cmdTBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "enable":
		return d.cmdEnable(args)
	case "disable":
		return d.cmdDisable(args)

	case "watch", "w":
		return d.cmdWatch(args)
	case "rwatch":
		return d.cmdRWatch(args)
	case "awatch":
		return d.cmdAWatch(args)

	case "print", "p":
		return d.cmdPrint(args)
	case "x":
		return d.cmdExamine(args)
	case "info", "i":
		return d.cmdInfo(args)

	case "reset":
		return d.cmdReset(args)

	case "help", "h", "?":
		return d.cmdHelp(args)

	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// ShouldBreak checks if execution should pause at the current PC.
func (d *Debugger) ShouldBreak() (bool, string) {
	pc := d.VM.Registers.PC()

	if d.StepMode == StepSingle {
		d.StepMode = StepNone
		return true, "single step"
	}

	if bp := d.Breakpoints.GetBreakpoint(pc); bp != nil {
		if !bp.Enabled {
			return false, ""
		}
		result := d.Breakpoints.ProcessHit(pc)
		return true, fmt.Sprintf("breakpoint %d", result.ID)
	}

	if wp, changed := d.Watchpoints.CheckWatchpoints(d.VM); wp != nil && changed {
		return true, fmt.Sprintf("watchpoint %d: %s", wp.ID, wp.Expression)
	}

	return false, ""
}

// GetOutput returns and clears the output buffer.
func (d *Debugger) GetOutput() string {
	output := d.Output.String()
	d.Output.Reset()
	return output
}

// Printf writes formatted output to the output buffer.
func (d *Debugger) Printf(format string, args ...interface{}) {
	d.Output.WriteString(fmt.Sprintf(format, args...))
}

// Println writes a line to the output buffer.
func (d *Debugger) Println(args ...interface{}) {
	d.Output.WriteString(fmt.Sprintln(args...))
}

// parseWatchExpression parses a watch expression (register name or a
// bracketed memory address).
func (d *Debugger) parseWatchExpression(expr string) (isRegister bool, register int, address uint32, err error) {
	expr = strings.TrimSpace(expr)

	if strings.HasPrefix(expr, "[") && strings.HasSuffix(expr, "]") {
		addrStr := strings.TrimSuffix(strings.TrimPrefix(expr, "["), "]")
		addr, err := d.ResolveAddress(addrStr)
		if err != nil {
			return false, 0, 0, err
		}
		return false, 0, addr, nil
	}

	if reg, regErr := vm.ParseRegisterName(strings.ToLower(expr)); regErr == nil {
		return true, int(reg), 0, nil
	}

	addr, err := d.ResolveAddress(expr)
	if err != nil {
		return false, 0, 0, fmt.Errorf("invalid watch expression: %s", expr)
	}
	return false, 0, addr, nil
}
