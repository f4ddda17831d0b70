package mips

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildMinimalELF constructs a minimal little-endian MIPS32 ET_EXEC ELF
// with a single PT_LOAD segment, just enough for LoadELF to exercise its
// segment-reading path without a real toolchain-produced binary.
func buildMinimalELF(entry uint32, data []byte) []byte {
	const ehsize = 52
	const phsize = 32
	const phoff = ehsize

	buf := new(bytes.Buffer)

	ident := make([]byte, 16)
	ident[0], ident[1], ident[2], ident[3] = 0x7f, 'E', 'L', 'F'
	ident[4] = 1 // ELFCLASS32
	ident[5] = 1 // ELFDATA2LSB
	ident[6] = 1 // EV_CURRENT
	buf.Write(ident)

	le := binary.LittleEndian
	u16 := func(v uint16) { buf.Write(binary.LittleEndian.AppendUint16(nil, v)) }
	u32 := func(v uint32) { buf.Write(le.AppendUint32(nil, v)) }

	u16(2)  // e_type = ET_EXEC
	u16(8)  // e_machine = EM_MIPS
	u32(1)  // e_version
	u32(entry)
	u32(phoff)
	u32(0) // e_shoff
	u32(0) // e_flags
	u16(ehsize)
	u16(phsize)
	u16(1) // e_phnum
	u16(0) // e_shentsize
	u16(0) // e_shnum
	u16(0) // e_shstrndx

	dataOff := uint32(phoff + phsize)
	u32(1) // p_type = PT_LOAD
	u32(dataOff)
	u32(entry) // p_vaddr
	u32(entry) // p_paddr
	u32(uint32(len(data)))
	u32(uint32(len(data)))
	u32(5) // p_flags = R+X
	u32(4) // p_align

	buf.Write(data)
	return buf.Bytes()
}

func TestLoadELF(t *testing.T) {
	entry := uint32(0x4000)
	data := []byte{0xef, 0xbe, 0xad, 0xde, 0x01, 0x02, 0x03, 0x04}
	raw := buildMinimalELF(entry, data)

	prog, err := LoadELF(raw)
	if err != nil {
		t.Fatal(err)
	}
	if prog.Entry != entry {
		t.Errorf("Entry = %#x, want %#x", prog.Entry, entry)
	}
	if got := prog.Memory.ReadWord(entry); got != 0xdeadbeef {
		t.Errorf("first word = %#x, want 0xdeadbeef", got)
	}
	if got := prog.Memory.ReadByte(entry + 4); got != 0x01 {
		t.Errorf("byte at entry+4 = %#x, want 0x01", got)
	}
}

func TestLoadELFRejectsNonMIPS(t *testing.T) {
	raw := buildMinimalELF(0x1000, []byte{0})
	raw[18] = 3 // overwrite e_machine low byte to EM_386
	if _, err := LoadELF(raw); err == nil {
		t.Fatal("expected error loading non-MIPS ELF")
	}
}
