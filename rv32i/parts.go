package rv32i

import "github.com/cmarsh-dev/rv32i-emu/bitfield"

// Part identifies a named bit slice inside a 32-bit instruction word.
type Part int

const (
	OpcodeField Part = iota
	Dest           // rd, bits 11:7
	Funct3         // bits 14:12
	Reg1           // rs1, bits 19:15
	Reg2           // rs2, bits 24:20
	Funct7         // bits 31:25

	Imm110 // I-type immediate, bits 31:20
	Imm3112 // U-type immediate, bits 31:12

	Imm40  // S-type immediate low, bits 11:7
	Imm115 // S-type immediate high, bits 31:25

	B11b   // B-type bit 11, bits 11:7 slot
	Imm41  // B-type imm[4:1], bits 11:8
	Imm105 // B-type imm[10:5], bits 31:25
	B12b   // B-type bit 12, bit 31

	Imm1912 // J-type imm[19:12], bits 19:12
	B11j    // J-type bit 11, bit 20
	Imm101  // J-type imm[10:1], bits 30:21
	B20j    // J-type bit 20, bit 31
)

type field struct {
	mask  uint32
	shift uint
}

// fields gives the exact mask/shift of every Part, per the bit layout table
// in the instruction-set specification. These never change across formats:
// a Part always occupies the same slot in the word regardless of which
// Format lists it.
var fields = map[Part]field{
	OpcodeField: {0x0000007F, 0},
	Dest:   {0x00000F80, 7},
	Funct3: {0x00007000, 12},
	Reg1:   {0x000F8000, 15},
	Reg2:   {0x01F00000, 20},
	Funct7: {0xFE000000, 25},

	Imm110:  {0xFFF00000, 20},
	Imm3112: {0xFFFFF000, 12},

	Imm40:  {0x00000F80, 7},
	Imm115: {0xFE000000, 25},

	B11b:   {0x00000080, 7},
	Imm41:  {0x00000F00, 8},
	Imm105: {0x7E000000, 25},
	B12b:   {0x80000000, 31},

	Imm1912: {0x000FF000, 12},
	B11j:    {0x00100000, 20},
	Imm101:  {0x7FE00000, 21},
	B20j:    {0x80000000, 31},
}

// Get returns the raw (still-shifted, masked) bits of this part within word.
func (p Part) Get(word uint32) uint32 {
	f := fields[p]
	return word & f.mask
}

// Value returns the logical integer occupying this part's slice of word.
func (p Part) Value(word uint32) uint32 {
	f := fields[p]
	return bitfield.Extract(word, f.mask, f.shift)
}

// Pack places value into this part's slot of a word under construction.
func (p Part) Pack(value uint32) uint32 {
	f := fields[p]
	return bitfield.Pack(value, f.mask, f.shift)
}
