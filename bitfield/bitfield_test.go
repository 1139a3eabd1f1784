package bitfield

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		word  uint32
		mask  uint32
		shift uint
		want  uint32
	}{
		{"opcode", 0x00d00093, 0x7F, 0, 0x13},
		{"rd", 0x00d00093, 0xF80, 7, 1},
		{"funct3", 0x00d00093, 0x7000, 12, 0},
		{"imm12", 0x00d00093, 0xFFF00000, 20, 0x00d},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.word, tt.mask, tt.shift); got != tt.want {
				t.Errorf("Extract(%#x, %#x, %d) = %#x, want %#x", tt.word, tt.mask, tt.shift, got, tt.want)
			}
		})
	}
}

func TestPack(t *testing.T) {
	word := Pack(0x13, 0x7F, 0) | Pack(1, 0xF80, 7) | Pack(0x00d, 0xFFF00000, 20)
	if want := uint32(0x00d00093); word != want {
		t.Errorf("Pack combination = %#x, want %#x", word, want)
	}
}

func TestSignExtend(t *testing.T) {
	tests := []struct {
		v, width, want uint32
	}{
		{0x7FF, 12, 0x7FF},         // max positive 12-bit value
		{0x800, 12, 0xFFFFF800},    // -2048 as 32-bit bit pattern
		{0xFFF, 12, 0xFFFFFFFF},    // -1
		{0, 12, 0},                 // zero
		{1, 1, 0xFFFFFFFF},         // single bit, set -> -1
		{0xFFFFF, 20, 0xFFFFFFFF},  // -1 in 20 bits
		{0x7FFFF, 20, 0x0007FFFF},  // max positive 20-bit value
	}
	for _, tt := range tests {
		if got := SignExtend(tt.v, uint(tt.width)); got != tt.want {
			t.Errorf("SignExtend(%#x, %d) = %#x, want %#x", tt.v, tt.width, got, tt.want)
		}
	}
}

func TestSignExtendPanicsOnOutOfRangeWidth(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for width == 0")
		}
	}()
	SignExtend(0, 0)
}
