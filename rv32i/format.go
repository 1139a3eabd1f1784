package rv32i

import "github.com/cmarsh-dev/rv32i-emu/bitfield"

// Format is one of the six RV32I instruction encoding shapes.
type Format int

const (
	FormatR Format = iota // register-register
	FormatI                // immediate
	FormatU                // upper immediate
	FormatS                // store
	FormatB                // branch
	FormatJ                // jump
)

// Parts lists, in encoding order, the fields present in a format. Used by
// Instruction.Value to reject access to a part the format doesn't carry.
func (f Format) Parts() []Part {
	switch f {
	case FormatR:
		return []Part{OpcodeField, Dest, Funct3, Reg1, Reg2, Funct7}
	case FormatI:
		return []Part{OpcodeField, Dest, Funct3, Reg1, Imm110}
	case FormatU:
		return []Part{OpcodeField, Dest, Imm3112}
	case FormatS:
		return []Part{OpcodeField, Imm40, Funct3, Reg1, Reg2, Imm115}
	case FormatB:
		return []Part{OpcodeField, B11b, Imm41, Funct3, Reg1, Reg2, Imm105, B12b}
	case FormatJ:
		return []Part{OpcodeField, Dest, Imm1912, B11j, Imm101, B20j}
	default:
		return nil
	}
}

func (f Format) has(p Part) bool {
	for _, x := range f.Parts() {
		if x == p {
			return true
		}
	}
	return false
}

// Immediate reassembles the format's (possibly multi-piece) immediate from
// word and sign-extends it, per the RV32I reassembly rules. Formats with no
// immediate (R) return 0.
func (f Format) Immediate(word uint32) int32 {
	switch f {
	case FormatI:
		return int32(bitfield.SignExtend(Imm110.Value(word), 12))
	case FormatU:
		return int32(Imm3112.Value(word) << 12)
	case FormatS:
		imm := (Imm115.Value(word) << 5) | Imm40.Value(word)
		return int32(bitfield.SignExtend(imm, 12))
	case FormatB:
		imm := (B12b.Value(word) << 12) | (B11b.Value(word) << 11) |
			(Imm105.Value(word) << 5) | (Imm41.Value(word) << 1)
		return int32(bitfield.SignExtend(imm, 13))
	case FormatJ:
		imm := (B20j.Value(word) << 20) | (Imm1912.Value(word) << 12) |
			(B11j.Value(word) << 11) | (Imm101.Value(word) << 1)
		return int32(bitfield.SignExtend(imm, 21))
	default:
		return 0
	}
}
