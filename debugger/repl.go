package debugger

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/cmarsh-dev/rv32i-emu/vm"
)

// replTokenKind distinguishes the handful of tokens the interactive
// register/memory-poke protocol needs.
type replTokenKind int

const (
	tokBang replTokenKind = iota
	tokPlus
	tokAt
	tokNumber
	tokIdentifier
)

type replToken struct {
	kind  replTokenKind
	num   uint32
	ident string
}

// replTokenizer scans a command line into bang/plus/at/number/identifier
// tokens, skipping whitespace and any other stray characters between them.
type replTokenizer struct {
	runes []rune
	pos   int
}

func newReplTokenizer(source string) *replTokenizer {
	return &replTokenizer{runes: []rune(strings.TrimLeft(source, " \t"))}
}

func (t *replTokenizer) next() (replToken, bool) {
	for t.pos < len(t.runes) {
		c := t.runes[t.pos]
		switch {
		case c == '!':
			t.pos++
			return replToken{kind: tokBang}, true
		case c == '+':
			t.pos++
			return replToken{kind: tokPlus}, true
		case c == '@':
			t.pos++
			return replToken{kind: tokAt}, true
		case unicode.IsDigit(c):
			start := t.pos
			for t.pos < len(t.runes) && unicode.IsDigit(t.runes[t.pos]) {
				t.pos++
			}
			n, _ := strconv.ParseUint(string(t.runes[start:t.pos]), 10, 32)
			return replToken{kind: tokNumber, num: uint32(n)}, true
		case unicode.IsLetter(c):
			start := t.pos
			for t.pos < len(t.runes) && !unicode.IsSpace(t.runes[t.pos]) {
				t.pos++
			}
			return replToken{kind: tokIdentifier, ident: string(t.runes[start:t.pos])}, true
		default:
			t.pos++
		}
	}
	return replToken{}, false
}

// ReplCommandKind identifies which of the three protocol commands a parsed
// ReplCommand represents.
type ReplCommandKind int

const (
	ReplSetRegister ReplCommandKind = iota
	ReplSetMemory
	ReplShowMemory
)

// ReplCommand is one parsed instance of the "!"-prefixed register/memory-poke
// protocol: "!+ <reg> <value>" sets a register, "!@ <addr> <byte>" sets a
// memory byte, and bare "!@" requests a memory dump.
type ReplCommand struct {
	Kind     ReplCommandKind
	Register vm.RegisterID
	Value    uint32
	Address  uint32
	Byte     byte
}

// ParseReplCommand parses a single "!"-prefixed command line. It returns an
// error for anything that isn't a well-formed command — including a bare
// "!@ <addr>" with no following byte, which is rejected rather than treated
// as a memory dump or silently accepted with a zero byte.
func ParseReplCommand(line string) (*ReplCommand, error) {
	t := newReplTokenizer(line)

	tok, ok := t.next()
	if !ok || tok.kind != tokBang {
		return nil, fmt.Errorf("not a command: %q", line)
	}

	tok, ok = t.next()
	if !ok {
		return nil, fmt.Errorf("incomplete command: %q", line)
	}

	switch tok.kind {
	case tokPlus:
		return parseSetRegister(t, line)
	case tokAt:
		return parseSetMemory(t)
	default:
		return nil, fmt.Errorf("unrecognized command: %q", line)
	}
}

func parseSetRegister(t *replTokenizer, line string) (*ReplCommand, error) {
	regTok, ok := t.next()
	if !ok {
		return nil, fmt.Errorf("missing register in command: %q", line)
	}

	var reg vm.RegisterID
	switch regTok.kind {
	case tokIdentifier:
		r, err := vm.ParseRegisterName(regTok.ident)
		if err != nil {
			return nil, fmt.Errorf("unknown register %q", regTok.ident)
		}
		reg = r
	case tokNumber:
		r, err := vm.RegisterFromIndex(regTok.num)
		if err != nil {
			return nil, fmt.Errorf("invalid register index %d", regTok.num)
		}
		reg = r
	default:
		return nil, fmt.Errorf("missing register in command: %q", line)
	}

	valTok, ok := t.next()
	if !ok || valTok.kind != tokNumber {
		return nil, fmt.Errorf("missing value in command: %q", line)
	}

	return &ReplCommand{Kind: ReplSetRegister, Register: reg, Value: valTok.num}, nil
}

func parseSetMemory(t *replTokenizer) (*ReplCommand, error) {
	addrTok, hasAddr := t.next()
	if hasAddr && addrTok.kind != tokNumber {
		return nil, fmt.Errorf("invalid memory address token")
	}

	byteTok, hasByte := t.next()
	if hasByte && byteTok.kind != tokNumber {
		return nil, fmt.Errorf("invalid memory byte token")
	}

	if !hasAddr && !hasByte {
		return &ReplCommand{Kind: ReplShowMemory}, nil
	}

	// An address without a following byte is rejected outright: the
	// original protocol this was built from silently accepted it and
	// then crashed trying to use the missing byte.
	if !hasByte {
		return nil, fmt.Errorf("memory set command needs both an address and a byte")
	}

	return &ReplCommand{
		Kind:    ReplSetMemory,
		Address: addrTok.num,
		Byte:    byte(byteTok.num),
	}, nil
}

// ApplyReplCommand executes a parsed ReplCommand against machine. For
// ReplShowMemory it returns the rendered dump text; for the others it
// returns an empty string on success.
func ApplyReplCommand(cmd *ReplCommand, machine *vm.VM) (string, error) {
	switch cmd.Kind {
	case ReplSetRegister:
		if cmd.Register == vm.PC {
			machine.Registers.SetPC(cmd.Value)
		} else {
			machine.Registers.Set(cmd.Register, cmd.Value)
		}
		return "", nil
	case ReplSetMemory:
		if err := machine.Memory.SetByteAt(cmd.Address, cmd.Byte); err != nil {
			return "", err
		}
		return dumpMemory(machine), nil
	case ReplShowMemory:
		return dumpMemory(machine), nil
	default:
		return "", fmt.Errorf("unknown command kind")
	}
}

// dumpMemory renders the first 24 bytes of memory, four per line.
func dumpMemory(machine *vm.VM) string {
	var b strings.Builder
	limit := uint32(24)
	if machine.Memory.Capacity() < limit {
		limit = machine.Memory.Capacity()
	}
	for pos := uint32(0); pos < limit; pos++ {
		if pos > 0 && pos%4 == 0 {
			b.WriteByte('\n')
		}
		v, err := machine.Memory.ByteAt(pos)
		if err != nil {
			v = 0
		}
		fmt.Fprintf(&b, "%02d: %-18s", pos, fmt.Sprintf("0x%02x", v))
	}
	b.WriteByte('\n')
	return b.String()
}
