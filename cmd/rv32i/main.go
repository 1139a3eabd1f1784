// Command rv32i loads a raw or ELF-32 RV32I image and runs it, optionally
// under the line-oriented debugger, the tcell/tview TUI, or with a
// read-only inspection HTTP server attached.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cmarsh-dev/rv32i-emu/api"
	"github.com/cmarsh-dev/rv32i-emu/config"
	"github.com/cmarsh-dev/rv32i-emu/debugger"
	"github.com/cmarsh-dev/rv32i-emu/elfloader"
	"github.com/cmarsh-dev/rv32i-emu/vm"
)

const (
	exitOK      = 0
	exitLoadErr = 1
	exitExecErr = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("rv32i", flag.ContinueOnError)
	debugMode := fs.Bool("debug", false, "run under the line-oriented debugger")
	tuiMode := fs.Bool("tui", false, "run under the tcell/tview debugger")
	apiAddr := fs.String("api-addr", "", "if set, also serve read-only VM state on this address")
	configPath := fs.String("config", "", "path to a TOML config file (defaults applied if absent)")
	trace := fs.Bool("trace", false, "enable the text execution tracer to stderr")
	maxSteps := fs.Uint64("max-steps", 0, "runaway-program guard; 0 uses the config default")

	if err := fs.Parse(args); err != nil {
		return exitLoadErr
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: rv32i [flags] <program>")
		fs.PrintDefaults()
		return exitLoadErr
	}
	programPath := fs.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return exitLoadErr
	}
	if *maxSteps > 0 {
		cfg.Execution.MaxSteps = *maxSteps
	}
	if *trace {
		cfg.Execution.EnableTrace = true
	}

	data, err := os.ReadFile(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load error: %v\n", err)
		return exitLoadErr
	}

	machine := vm.NewVMWithMemoryCapacity(cfg.Execution.MemoryCapacity)
	program, rodata, entry, err := loadImage(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load error: %v\n", err)
		return exitLoadErr
	}
	if len(rodata) > 0 {
		if err := machine.Memory.LoadBytes(0, rodata); err != nil {
			fmt.Fprintf(os.Stderr, "load error: %v\n", err)
			return exitLoadErr
		}
	}

	if entry == 0 {
		if e, err := parseEntry(cfg.Execution.DefaultEntry); err == nil {
			entry = e
		}
	}
	machine.Registers.SetPC(entry)

	if cfg.Execution.EnableTrace {
		machine.Tracer = vm.NewTextTracer(os.Stderr)
	}

	var apiServer *api.Server
	if *apiAddr != "" {
		apiServer = api.NewServer(*apiAddr, machine, program)
		go func() {
			if err := apiServer.Start(); err != nil {
				fmt.Fprintf(os.Stderr, "api server error: %v\n", err)
			}
		}()
	}

	switch {
	case *tuiMode:
		dbg := debugger.NewDebugger(machine, program)
		if err := debugger.RunTUI(dbg); err != nil {
			fmt.Fprintf(os.Stderr, "tui error: %v\n", err)
			return exitExecErr
		}
		return exitOK

	case *debugMode:
		dbg := debugger.NewDebugger(machine, program)
		if err := debugger.RunCLI(dbg, os.Stdin, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "debugger error: %v\n", err)
			return exitExecErr
		}
		return exitOK

	default:
		return runHeadless(machine, program, cfg.Execution.MaxSteps, apiServer)
	}
}

// runHeadless steps the program to completion, bounded by maxSteps as a
// runaway-program guard (the interpreter has no halt instruction of its
// own).
func runHeadless(machine *vm.VM, program *vm.Program, maxSteps uint64, apiServer *api.Server) int {
	var steps uint64
	for !program.IsDone(machine) {
		if maxSteps > 0 && steps >= maxSteps {
			fmt.Fprintf(os.Stderr, "execution error: exceeded max-steps (%d)\n", maxSteps)
			return exitExecErr
		}
		if apiServer != nil {
			apiServer.Lock()
		}
		err := program.Step(machine)
		if apiServer != nil {
			apiServer.Unlock()
			apiServer.NotifyStep()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "execution error: %v\n", err)
			return exitExecErr
		}
		steps++
	}
	return exitOK
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

// loadImage recognizes an ELF-32 image by its magic bytes and otherwise
// treats data as a raw flat binary loaded at address 0. For an ELF image it
// also returns the raw bytes of .rodata, which the caller loads into VM
// memory at offset 0 — the same placement rule as .text gets in Program ROM.
// The returned entry is always 0: .text is placed at ROM offset 0, not at the
// virtual address the ELF entry point refers to.
func loadImage(data []byte) (program *vm.Program, rodata []byte, entry uint32, err error) {
	if len(data) >= 4 && data[0] == 0x7F && data[1] == 'E' && data[2] == 'L' && data[3] == 'F' {
		img, err := elfloader.Parse(data)
		if err != nil {
			return nil, nil, 0, err
		}
		program := vm.NewProgram(uint32(len(img.Text)))
		for i, b := range img.Text {
			program.Write(i, b)
		}
		return program, img.Rodata, 0, nil
	}

	program = vm.NewProgram(uint32(len(data)))
	for i, b := range data {
		program.Write(i, b)
	}
	return program, nil, 0, nil
}

func parseEntry(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	n, err := strconv.ParseUint(s, 16, 32)
	return uint32(n), err
}
