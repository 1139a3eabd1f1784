package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/cmarsh-dev/rv32i-emu/vm"
)

// TUI is a full-screen terminal interface over a Debugger, built from
// tview primitives: a disassembly panel, a register/memory/breakpoints
// panel, an output log, and a command input line.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application

	Pages      *tview.Pages
	MainLayout *tview.Flex
	LeftPanel  *tview.Flex
	RightPanel *tview.Flex

	DisassemblyView  *tview.TextView
	RegisterView     *tview.TextView
	MemoryView       *tview.TextView
	BreakpointsView  *tview.TextView
	OutputView       *tview.TextView
	CommandInput     *tview.InputField

	MemoryAddress uint32
	Running       bool

	// preview is a second VM, one instruction ahead of Debugger.VM, used
	// to render the disassembly panel's "next after next" line without
	// disturbing the real machine's state.
	preview *vm.VM
}

// NewTUI builds a TUI over dbg using the real terminal screen.
func NewTUI(dbg *Debugger) *TUI {
	return newTUIWithApp(dbg, tview.NewApplication())
}

// NewTUIWithScreen builds a TUI over dbg using an explicit tcell.Screen,
// for tests driving a simulation screen instead of a real terminal.
func NewTUIWithScreen(dbg *Debugger, screen tcell.Screen) *TUI {
	app := tview.NewApplication().SetScreen(screen)
	return newTUIWithApp(dbg, app)
}

func newTUIWithApp(dbg *Debugger, app *tview.Application) *TUI {
	t := &TUI{
		Debugger: dbg,
		App:      app,
		Pages:    tview.NewPages(),
	}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.DisassemblyView = tview.NewTextView().SetDynamicColors(true)
	t.DisassemblyView.SetBorder(true).SetTitle(" Disassembly ")

	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.MemoryView = tview.NewTextView().SetDynamicColors(true)
	t.MemoryView.SetBorder(true).SetTitle(" Memory ")

	t.BreakpointsView = tview.NewTextView().SetDynamicColors(true)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints / Watchpoints ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ")
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	t.LeftPanel = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.DisassemblyView, 0, 1, false)

	rightTop := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, RegisterViewRows, 0, false).
		AddItem(t.MemoryView, 0, 1, false)

	t.RightPanel = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(rightTop, 0, 3, false).
		AddItem(t.BreakpointsView, 8, 0, false)

	mainContent := tview.NewFlex().
		AddItem(t.LeftPanel, 0, 2, false).
		AddItem(t.RightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.Pages.AddPage("main", t.MainLayout, true, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF5:
			go t.executeCommand("continue")
			return nil
		case tcell.KeyF9:
			go t.executeCommand("break " + fmt.Sprintf("0x%x", t.Debugger.VM.Registers.PC()))
			return nil
		case tcell.KeyF11:
			go t.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

// handleCommand is invoked by the InputField on Enter. It returns
// immediately, running the actual command (and the redraw it triggers) on a
// background goroutine so the UI thread is never blocked by a slow or
// continuous-running command.
func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	t.CommandInput.SetText("")
	go t.executeCommand(cmd)
}

func (t *TUI) executeCommand(cmd string) {
	t.Debugger.Output.Reset()

	if strings.HasPrefix(strings.TrimSpace(cmd), "!") {
		parsed, err := ParseReplCommand(cmd)
		if err != nil {
			t.WriteOutput(fmt.Sprintf("ERROR: %v\n", err))
		} else if result, err := ApplyReplCommand(parsed, t.Debugger.VM); err != nil {
			t.WriteOutput(fmt.Sprintf("ERROR: %v\n", err))
		} else if result != "" {
			t.WriteOutput(result)
		}
	} else if err := t.Debugger.ExecuteCommand(cmd); err != nil {
		t.WriteOutput(fmt.Sprintf("ERROR: %v\n", err))
	}

	t.WriteOutput(t.Debugger.GetOutput())
	t.App.QueueUpdateDraw(t.RefreshAll)
}

// WriteOutput appends text to the output log.
func (t *TUI) WriteOutput(text string) {
	if text == "" {
		return
	}
	fmt.Fprint(t.OutputView, text)
}

// RefreshAll redraws every panel from current Debugger/VM state.
func (t *TUI) RefreshAll() {
	t.UpdateDisassemblyView()
	t.UpdateRegisterView()
	t.UpdateMemoryView()
	t.UpdateBreakpointsView()
}

// UpdateDisassemblyView renders a short window of instructions around PC,
// using a preview VM stepped one instruction ahead so the "next" line
// reflects where execution will actually go (including branches), without
// mutating the real machine.
func (t *TUI) UpdateDisassemblyView() {
	t.DisassemblyView.Clear()
	pc := t.Debugger.VM.Registers.PC()

	if t.Debugger.Program.IsDone(t.Debugger.VM) {
		fmt.Fprintln(t.DisassemblyView, "[gray]program finished[-]")
		return
	}

	current := t.Debugger.disassembleAt(pc)
	marker := "[yellow]-> [-]"
	if t.Debugger.Breakpoints.HasBreakpoint(pc) {
		marker = "[red]B> [-]"
	}
	fmt.Fprintf(t.DisassemblyView, "%s0x%08x: %s\n", marker, pc, current)

	t.preview = vm.NewVMWithMemoryCapacity(t.Debugger.VM.Memory.Capacity())
	*t.preview.Registers = *t.Debugger.VM.Registers
	copyMemory(t.preview, t.Debugger.VM)

	if !t.Debugger.Program.IsDone(t.preview) {
		if err := t.Debugger.Program.Step(t.preview); err == nil {
			nextPC := t.preview.Registers.PC()
			if !t.Debugger.Program.IsDone(t.preview) {
				next := t.Debugger.disassembleAt(nextPC)
				fmt.Fprintf(t.DisassemblyView, "   0x%08x: %s\n", nextPC, next)
			}
		}
	}
}

func copyMemory(dst, src *vm.VM) {
	for addr := uint32(0); addr < src.Memory.Capacity(); addr++ {
		b, err := src.Memory.ByteAt(addr)
		if err != nil {
			break
		}
		_ = dst.Memory.SetByteAt(addr, b)
	}
}

// UpdateRegisterView shows all 32 x-registers, 8 per row, plus pc. RV32I has
// no flags register, so there is nothing else to render here.
func (t *TUI) UpdateRegisterView() {
	t.RegisterView.Clear()
	for i := 0; i < 32; i += RegisterGroupSize {
		for col := 0; col < RegisterGroupSize && i+col < 32; col++ {
			reg := vm.RegisterID(i + col)
			fmt.Fprintf(t.RegisterView, "%-4s=%08x ", reg, t.Debugger.VM.Registers.Get(reg))
		}
		fmt.Fprintln(t.RegisterView)
	}
	fmt.Fprintf(t.RegisterView, "\npc  =%08x\n", t.Debugger.VM.Registers.PC())
}

// UpdateMemoryView shows a 16x16 hex dump starting at MemoryAddress.
func (t *TUI) UpdateMemoryView() {
	t.MemoryView.Clear()
	base := t.MemoryAddress
	for row := 0; row < MemoryDisplayRows; row++ {
		rowAddr := base + uint32(row*MemoryDisplayColumns)
		if rowAddr >= t.Debugger.VM.Memory.Capacity() {
			break
		}
		fmt.Fprintf(t.MemoryView, "%08x: ", rowAddr)
		var ascii strings.Builder
		for col := 0; col < MemoryDisplayColumns; col++ {
			addr := rowAddr + uint32(col)
			b, err := t.Debugger.VM.Memory.ByteAt(addr)
			if err != nil {
				fmt.Fprint(t.MemoryView, "   ")
				ascii.WriteByte(' ')
				continue
			}
			fmt.Fprintf(t.MemoryView, "%02x ", b)
			if b >= 0x20 && b < 0x7F {
				ascii.WriteByte(b)
			} else {
				ascii.WriteByte('.')
			}
		}
		fmt.Fprintf(t.MemoryView, " %s\n", ascii.String())
	}
}

func (t *TUI) UpdateBreakpointsView() {
	t.BreakpointsView.Clear()
	for _, bp := range t.Debugger.Breakpoints.GetAllBreakpoints() {
		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}
		fmt.Fprintf(t.BreakpointsView, "#%d 0x%08x %s hits=%d\n", bp.ID, bp.Address, status, bp.HitCount)
	}
	for _, wp := range t.Debugger.Watchpoints.GetAllWatchpoints() {
		status := "enabled"
		if !wp.Enabled {
			status = "disabled"
		}
		fmt.Fprintf(t.BreakpointsView, "watch #%d %s %s hits=%d\n", wp.ID, wp.Expression, status, wp.HitCount)
	}
}

// Run starts the TUI event loop; it blocks until Stop is called.
func (t *TUI) Run() error {
	t.RefreshAll()
	t.App.SetRoot(t.Pages, true).SetFocus(t.CommandInput)
	return t.App.Run()
}

// Stop ends the TUI event loop.
func (t *TUI) Stop() {
	t.App.Stop()
}

// RunTUI is the package-level entry point used by the CLI: build a TUI over
// dbg and run it to completion.
func RunTUI(dbg *Debugger) error {
	return NewTUI(dbg).Run()
}
