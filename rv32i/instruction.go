package rv32i

// Instruction is an immutable decoded view of a 32-bit instruction word.
// Field access is computed lazily from Raw using the opcode's format.
type Instruction struct {
	Raw    uint32
	Opcode Opcode
	format Format
}

// Decode parses raw into an Instruction. It fails only when the low 7 bits
// don't match a recognized opcode; FENCE and ECALL/EBREAK are recognized
// here and rejected only at execution time.
func Decode(raw uint32) (Instruction, error) {
	op, err := DecodeOpcode(OpcodeField.Value(raw))
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{Raw: raw, Opcode: op, format: op.Format()}, nil
}

// Format reports the instruction's encoding shape.
func (i Instruction) Format() Format {
	return i.format
}

// Value returns the logical integer occupying part's slice of the raw word.
// It fails if part isn't carried by this instruction's format.
func (i Instruction) Value(part Part) (uint32, error) {
	if !i.format.has(part) {
		return 0, &DecodeError{Reason: "field not present in format", Raw: i.Raw}
	}
	return part.Value(i.Raw), nil
}

// Immediate reassembles and sign-extends this instruction's immediate, per
// its format's reassembly rule. Returns 0 for formats without an immediate.
func (i Instruction) Immediate() int32 {
	return i.format.Immediate(i.Raw)
}
