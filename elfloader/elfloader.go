// Package elfloader parses the minimal subset of ELF-32 this virtual
// machine cares about: enough of the header and section table to find
// ".text" and ".rodata" and copy their bytes out. It is a collaborator of
// the core VM, not part of it — only .text and .rodata are consumed; program
// headers and the entry point are parsed but otherwise unused.
package elfloader

import "encoding/binary"

const (
	machineRISCV    = 0xF3
	classELF32      = 1
	sectionHeaderSz = 40 // name(4) + 9 little-endian uint32 fields
	maxSectionName  = 32
)

var elfMagic = [4]byte{0x7F, 0x45, 0x4C, 0x46}

// LoadError reports a failure to recognize or parse an ELF-32 image:
// magic/class/machine mismatch, a truncated or malformed header, or a
// section whose name string cannot be resolved.
type LoadError struct {
	Reason string
}

func (e *LoadError) Error() string {
	return "elf load error: " + e.Reason
}

type header struct {
	entry     uint32
	shoff     uint32
	shentsize uint16
	shnum     uint16
	shstrndx  uint16
}

// Image is the parsed, in-memory result of an ELF-32 load: the recognized
// sections' raw bytes, keyed by name. Only ".text" and ".rodata" are ever
// populated; everything else in the section table is ignored.
type Image struct {
	Entry  uint32
	Text   []byte
	Rodata []byte
}

func isValid(data []byte) error {
	if len(data) < 0x34 {
		return &LoadError{Reason: "file too short for an ELF-32 header"}
	}
	if [4]byte(data[0:4]) != elfMagic {
		return &LoadError{Reason: "bad magic"}
	}
	if data[4] != classELF32 {
		return &LoadError{Reason: "not a 32-bit ELF"}
	}
	if data[0x12] != machineRISCV {
		return &LoadError{Reason: "not a RISC-V (e_machine != 0xF3) image"}
	}
	return nil
}

func parseHeader(data []byte) (header, error) {
	if err := isValid(data); err != nil {
		return header{}, err
	}
	return header{
		entry:     binary.LittleEndian.Uint32(data[0x18:0x1C]),
		shoff:     binary.LittleEndian.Uint32(data[0x20:0x24]),
		shentsize: binary.LittleEndian.Uint16(data[0x2E:0x30]),
		shnum:     binary.LittleEndian.Uint16(data[0x30:0x32]),
		shstrndx:  binary.LittleEndian.Uint16(data[0x32:0x34]),
	}, nil
}

type sectionHeader struct {
	typ    uint32
	offset uint32
	size   uint32
	align  uint32
}

func parseSectionHeader(entry []byte) (sectionHeader, error) {
	if len(entry) < sectionHeaderSz-4 {
		return sectionHeader{}, &LoadError{Reason: "truncated section header"}
	}
	return sectionHeader{
		typ:    binary.LittleEndian.Uint32(entry[0:4]),
		offset: binary.LittleEndian.Uint32(entry[12:16]),
		size:   binary.LittleEndian.Uint32(entry[16:20]),
		align:  binary.LittleEndian.Uint32(entry[28:32]),
	}, nil
}

// sectionName reads a NUL-terminated string of at most maxSectionName bytes
// starting at off.
func sectionName(data []byte, off uint32) (string, error) {
	if int(off) >= len(data) {
		return "", &LoadError{Reason: "section name offset out of range"}
	}
	end := int(off)
	limit := len(data)
	if int(off)+maxSectionName < limit {
		limit = int(off) + maxSectionName
	}
	for end < limit && data[end] != 0 {
		end++
	}
	if end == int(off) {
		return "", &LoadError{Reason: "empty section name"}
	}
	return string(data[off:end]), nil
}

// Parse recognizes an ELF-32 RISC-V (e_machine == 0xF3) image, walks its
// section header table via e_shoff/e_shstrndx, and extracts the raw bytes
// of ".text" and ".rodata" wherever present. Every other section is
// ignored. Both recognized sections are returned as contiguous byte slices
// starting at their section's own offset — this implementation places them
// at VM address 0 at load time, not at any virtual address the section
// header records.
func Parse(data []byte) (*Image, error) {
	hdr, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	img := &Image{Entry: hdr.entry}
	if hdr.shnum == 0 {
		return img, nil
	}

	strtabHeaderOff := uint32(hdr.shstrndx)*uint32(hdr.shentsize) + hdr.shoff
	if int(strtabHeaderOff)+sectionHeaderSz > len(data) {
		return nil, &LoadError{Reason: "section header string table index out of range"}
	}
	strtabHdr, err := parseSectionHeader(data[strtabHeaderOff+4 : strtabHeaderOff+uint32(hdr.shentsize)])
	if err != nil {
		return nil, err
	}
	namesOffset := strtabHdr.offset

	for i := uint16(1); i < hdr.shnum; i++ {
		start := uint32(i)*uint32(hdr.shentsize) + hdr.shoff
		if int(start)+int(hdr.shentsize) > len(data) {
			return nil, &LoadError{Reason: "section header out of range"}
		}
		nameIdx := binary.LittleEndian.Uint32(data[start : start+4])

		sh, err := parseSectionHeader(data[start+4 : start+uint32(hdr.shentsize)])
		if err != nil {
			return nil, err
		}

		name, err := sectionName(data, namesOffset+nameIdx)
		if err != nil {
			continue // unresolvable name: ignore the section
		}

		if int(sh.offset)+int(sh.size) > len(data) {
			return nil, &LoadError{Reason: "section " + name + " exceeds file bounds"}
		}
		bytes := data[sh.offset : sh.offset+sh.size]

		switch name {
		case ".text":
			img.Text = append([]byte(nil), bytes...)
		case ".rodata":
			img.Rodata = append([]byte(nil), bytes...)
		}
	}
	return img, nil
}
