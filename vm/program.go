package vm

import "github.com/cmarsh-dev/rv32i-emu/rv32i"

// Program is a read-only code image (ROM) plus a watermark: the word index
// one past the last valid instruction. It is built once, from a raw binary
// or from an ELF .text section, and is logically immutable once a VM starts
// running it.
type Program struct {
	rom []byte
	end int
}

// NewProgram allocates an empty Program backed by capacity bytes of ROM.
func NewProgram(capacity uint32) *Program {
	return &Program{rom: make([]byte, capacity)}
}

// FromAsm builds a Program directly from 32-bit instruction words, writing
// word i at byte offset 4*i, and sets end to len(words).
func FromAsm(words []uint32) *Program {
	p := NewProgram(uint32(len(words)) * 4)
	for i, w := range words {
		off := i * 4
		p.rom[off] = byte(w)
		p.rom[off+1] = byte(w >> 8)
		p.rom[off+2] = byte(w >> 16)
		p.rom[off+3] = byte(w >> 24)
	}
	p.end = len(words)
	return p
}

// Write places a single byte at position pos in ROM, growing end so that
// pos falls within the valid range.
func (p *Program) Write(pos int, b byte) {
	if pos >= len(p.rom) {
		grown := make([]byte, pos+1)
		copy(grown, p.rom)
		p.rom = grown
	}
	p.rom[pos] = b
	if w := pos/4 + 1; w > p.end {
		p.end = w
	}
}

// End is the word index one past the last valid instruction.
func (p *Program) End() int {
	return p.end
}

// fetch reads the 32-bit little-endian word at byte offset addr.
func (p *Program) fetch(addr uint32) (uint32, error) {
	if int(addr)+4 > len(p.rom) {
		return 0, &MemoryError{Address: addr, Width: 4, Capacity: uint32(len(p.rom))}
	}
	return uint32(p.rom[addr]) |
		uint32(p.rom[addr+1])<<8 |
		uint32(p.rom[addr+2])<<16 |
		uint32(p.rom[addr+3])<<24, nil
}

// IsDone reports whether vm's PC has reached the program's end watermark.
func (p *Program) IsDone(vm *VM) bool {
	return vm.Registers.PC()/4 == uint32(p.end)
}

// Peek decodes the instruction at vm's current PC without executing it.
func (p *Program) Peek(vm *VM) (rv32i.Instruction, error) {
	raw, err := p.fetch(vm.Registers.PC())
	if err != nil {
		return rv32i.Instruction{}, err
	}
	return rv32i.Decode(raw)
}

// Step fetches, decodes, and executes exactly one instruction.
func (p *Program) Step(vm *VM) error {
	pc := vm.Registers.PC()
	raw, err := p.fetch(pc)
	if err != nil {
		vm.trace().OnError(pc, err)
		return err
	}
	vm.trace().OnFetch(pc, raw)

	inst, err := rv32i.Decode(raw)
	if err != nil {
		vm.trace().OnError(pc, err)
		return err
	}
	vm.trace().OnDecode(pc, inst.Opcode.String())

	if err := vm.execute(inst); err != nil {
		vm.trace().OnError(pc, err)
		return err
	}
	vm.trace().OnExecute(pc, inst.Opcode.String())
	return nil
}

// Run steps vm until Program reports it done, halting immediately on any
// error from Step.
func (p *Program) Run(vm *VM) error {
	for !p.IsDone(vm) {
		if err := p.Step(vm); err != nil {
			return err
		}
	}
	return nil
}
