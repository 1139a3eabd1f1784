package rv32i

// Builder assembles a 32-bit instruction word field by field. It is the
// mirror of Instruction: where Instruction pulls named fields out of a raw
// word, Builder packs them in. Used by tests and by anything that needs to
// synthesize instruction words programmatically rather than parse them from
// an object file.
type Builder struct {
	op   Opcode
	word uint32
}

// NewBuilder starts a word for op with the opcode bits already placed.
func NewBuilder(op Opcode) *Builder {
	return &Builder{op: op, word: OpcodeField.Pack(op.Bits())}
}

// Set packs value into part's slot. It panics if part isn't carried by op's
// format: Builder is for constructing well-formed instructions, not for
// fuzzing malformed ones.
func (b *Builder) Set(part Part, value uint32) *Builder {
	if !b.op.Format().has(part) {
		panic("rv32i: part not present in opcode's format")
	}
	b.word |= part.Pack(value)
	return b
}

// SetImmediate splits imm across the format's immediate pieces and packs
// each one. It accepts the full reassembled (not yet sign-extended) value;
// B- and J-type immediates must be even, since bit 0 is never encoded.
func (b *Builder) SetImmediate(imm int32) *Builder {
	u := uint32(imm)
	switch b.op.Format() {
	case FormatI:
		b.Set(Imm110, u&0xFFF)
	case FormatU:
		b.Set(Imm3112, (u>>12)&0xFFFFF)
	case FormatS:
		b.Set(Imm40, u&0x1F)
		b.Set(Imm115, (u>>5)&0x7F)
	case FormatB:
		b.Set(B11b, (u>>11)&0x1)
		b.Set(Imm41, (u>>1)&0xF)
		b.Set(Imm105, (u>>5)&0x3F)
		b.Set(B12b, (u>>12)&0x1)
	case FormatJ:
		b.Set(Imm1912, (u>>12)&0xFF)
		b.Set(B11j, (u>>11)&0x1)
		b.Set(Imm101, (u>>1)&0x3FF)
		b.Set(B20j, (u>>20)&0x1)
	}
	return b
}

// Word returns the assembled instruction.
func (b *Builder) Word() uint32 {
	return b.word
}
