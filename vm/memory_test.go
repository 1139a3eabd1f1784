package vm

import "testing"

func TestMemoryWordRoundTrip(t *testing.T) {
	m := NewMemoryWithCapacity(13)
	if err := m.SetWordAt(8, 4294967295); err != nil {
		t.Fatalf("SetWordAt unexpected error: %v", err)
	}
	got, err := m.WordAt(8)
	if err != nil {
		t.Fatalf("WordAt unexpected error: %v", err)
	}
	if got != 4294967295 {
		t.Errorf("WordAt(8) = %d, expected 4294967295", got)
	}

	expected := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	for k, want := range expected {
		b, err := m.ByteAt(uint32(8 + k))
		if err != nil {
			t.Fatalf("ByteAt(%d) unexpected error: %v", 8+k, err)
		}
		if b != want {
			t.Errorf("ByteAt(%d) = %#x, expected %#x", 8+k, b, want)
		}
	}
}

func TestMemoryEndianness(t *testing.T) {
	m := NewMemory()
	const addr = 16
	const v = uint32(0x11223344)
	if err := m.SetWordAt(addr, v); err != nil {
		t.Fatalf("SetWordAt unexpected error: %v", err)
	}
	for k := uint32(0); k < 4; k++ {
		b, err := m.ByteAt(addr + k)
		if err != nil {
			t.Fatalf("ByteAt unexpected error: %v", err)
		}
		want := byte(v >> (8 * k))
		if b != want {
			t.Errorf("byte %d = %#x, expected %#x", k, b, want)
		}
	}
}

func TestMemoryHalfwordRoundTrip(t *testing.T) {
	m := NewMemory()
	if err := m.SetHalfwordAt(4, 0xBEEF); err != nil {
		t.Fatalf("SetHalfwordAt unexpected error: %v", err)
	}
	got, err := m.HalfwordAt(4)
	if err != nil {
		t.Fatalf("HalfwordAt unexpected error: %v", err)
	}
	if got != 0xBEEF {
		t.Errorf("HalfwordAt(4) = %#x, expected 0xBEEF", got)
	}
}

func TestMemoryOutOfBounds(t *testing.T) {
	m := NewMemoryWithCapacity(4)
	tests := []struct {
		name string
		call func() error
	}{
		{"byte past end", func() error { return m.SetByteAt(4, 1) }},
		{"halfword overruns", func() error { return m.SetHalfwordAt(3, 1) }},
		{"word overruns", func() error { return m.SetWordAt(1, 1) }},
		{"word at exact capacity", func() error { _, err := m.WordAt(4); return err }},
	}
	for _, tt := range tests {
		if err := tt.call(); err == nil {
			t.Errorf("%s: expected MemoryError, got none", tt.name)
		}
	}
}

func TestMemoryNoPartialWriteOnFailure(t *testing.T) {
	m := NewMemoryWithCapacity(4)
	_ = m.SetWordAt(0, 0xAAAAAAAA)
	if err := m.SetWordAt(2, 0xFFFFFFFF); err == nil {
		t.Fatal("SetWordAt(2, ...) on a 4-byte memory expected error, got none")
	}
	got, err := m.WordAt(0)
	if err != nil {
		t.Fatalf("WordAt unexpected error: %v", err)
	}
	if got != 0xAAAAAAAA {
		t.Errorf("word at 0 = %#x, expected untouched 0xAAAAAAAA", got)
	}
}
