package debugger

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// RunCLI drives dbg through a line-oriented REPL on in/out. Each prompt
// shows the current PC and the upcoming instruction, then reads one line:
//
//   - a line starting with "!" is parsed as a register/memory-poke command
//     and applied without advancing execution
//   - "q" quits
//   - a blank line steps exactly one instruction
//   - anything else is handed to the richer word-command layer (run, break,
//     watch, info, and so on)
func RunCLI(dbg *Debugger, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	for {
		if dbg.Program.IsDone(dbg.VM) {
			fmt.Fprintln(out, "Program finished.")
			return nil
		}

		pc := dbg.VM.Registers.PC()
		fmt.Fprintf(out, "PC: 0x%08x\n", pc)
		fmt.Fprintf(out, "Next: %s\n", dbg.disassembleAt(pc))

		fmt.Fprint(out, "(rv32i-dbg) ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				return nil
			}
			return err
		}
		trimmed := strings.TrimRight(line, "\r\n")

		switch {
		case strings.HasPrefix(strings.TrimSpace(trimmed), "!"):
			cmd, perr := ParseReplCommand(trimmed)
			if perr != nil {
				fmt.Fprintf(out, "ERROR: %v\n", perr)
				continue
			}
			result, aerr := ApplyReplCommand(cmd, dbg.VM)
			if aerr != nil {
				fmt.Fprintf(out, "ERROR: %v\n", aerr)
				continue
			}
			if result != "" {
				fmt.Fprint(out, result)
			}
		case trimmed == "q":
			return nil
		case trimmed == "":
			if err := dbg.Program.Step(dbg.VM); err != nil {
				fmt.Fprintf(out, "ERROR: %v\n", err)
			}
		default:
			if err := dbg.ExecuteCommand(trimmed); err != nil {
				fmt.Fprintf(out, "ERROR: %v\n", err)
			}
			fmt.Fprint(out, dbg.GetOutput())
		}
	}
}
