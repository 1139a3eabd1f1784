package elfloader

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildMinimalELF assembles a byte-exact ELF-32 RISC-V image with a NULL
// section, one named section ("name") holding payload, and a .shstrtab
// naming both. It exists only to give the tests a real image to parse.
func buildMinimalELF(t *testing.T, name string, payload []byte) []byte {
	t.Helper()

	const headerSize = 52
	const shentsize = 40

	strtab := append([]byte{0}, append([]byte(name+"\x00"), []byte(".shstrtab\x00")...)...)
	nameIdx := uint32(1)
	shstrtabIdx := uint32(1 + len(name) + 1)

	payloadOff := uint32(headerSize + len(strtab))
	shoff := payloadOff + uint32(len(payload))

	var buf bytes.Buffer
	buf.Write([]byte{0x7F, 'E', 'L', 'F'})
	buf.WriteByte(1) // class: 32-bit
	buf.WriteByte(1) // data: little-endian
	buf.WriteByte(1) // version
	buf.WriteByte(0) // osabi
	buf.Write(make([]byte, 8))

	u16 := func(v uint16) { var b [2]byte; binary.LittleEndian.PutUint16(b[:], v); buf.Write(b[:]) }
	u32 := func(v uint32) { var b [4]byte; binary.LittleEndian.PutUint32(b[:], v); buf.Write(b[:]) }

	u16(2)      // e_type
	u16(0xF3)   // e_machine
	u32(1)      // e_version
	u32(0x1000) // e_entry
	u32(0)      // e_phoff
	u32(shoff)  // e_shoff
	u32(0)      // e_flags
	u16(headerSize)
	u16(0) // e_phentsize
	u16(0) // e_phnum
	u16(shentsize)
	u16(3) // e_shnum
	u16(2) // e_shstrndx

	if buf.Len() != headerSize {
		t.Fatalf("header build produced %d bytes, expected %d", buf.Len(), headerSize)
	}

	buf.Write(strtab)
	buf.Write(payload)

	writeSection := func(nameIdx, typ, offset, size, align uint32) {
		u32(nameIdx)
		u32(typ)
		u32(0) // flags
		u32(0) // addr
		u32(offset)
		u32(size)
		u32(0) // link
		u32(0) // info
		u32(align)
		u32(0) // entsize
	}

	writeSection(0, 0, 0, 0, 0) // NULL section
	writeSection(nameIdx, 1, payloadOff, uint32(len(payload)), 4)
	writeSection(shstrtabIdx, 3, headerSize, uint32(len(strtab)), 1)

	return buf.Bytes()
}

func TestParseText(t *testing.T) {
	payload := []byte{0x93, 0x00, 0xd0, 0x00, 0x13, 0x81, 0xc0, 0x00, 0x23, 0x20, 0x28, 0x00}
	data := buildMinimalELF(t, ".text", payload)

	img, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse unexpected error: %v", err)
	}
	if !bytes.Equal(img.Text, payload) {
		t.Errorf("Text = %x, expected %x", img.Text, payload)
	}
	if img.Entry != 0x1000 {
		t.Errorf("Entry = %#x, expected 0x1000", img.Entry)
	}
}

func TestParseRodata(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	data := buildMinimalELF(t, ".rodata", payload)

	img, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse unexpected error: %v", err)
	}
	if !bytes.Equal(img.Rodata, payload) {
		t.Errorf("Rodata = %x, expected %x", img.Rodata, payload)
	}
}

func TestParseRejectsBadMagic(t *testing.T) {
	data := buildMinimalELF(t, ".text", []byte{0})
	data[0] = 0x00
	if _, err := Parse(data); err == nil {
		t.Error("Parse with corrupted magic expected error, got none")
	}
}

func TestParseRejectsWrongMachine(t *testing.T) {
	data := buildMinimalELF(t, ".text", []byte{0})
	data[0x12] = 0x28 // ARM, not RISC-V
	if _, err := Parse(data); err == nil {
		t.Error("Parse with wrong e_machine expected error, got none")
	}
}

func TestParseUnknownSectionIgnored(t *testing.T) {
	data := buildMinimalELF(t, ".bss", []byte{1, 2, 3, 4})
	img, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse unexpected error: %v", err)
	}
	if img.Text != nil || img.Rodata != nil {
		t.Error("unknown section name should leave Text/Rodata nil")
	}
}
