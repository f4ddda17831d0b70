package mips

import (
	"debug/elf"
	"fmt"
	"io"
	"sort"

	"github.com/zkmips/zkmips/internal/zkmips/core"
)

// Program is a loaded guest image: its entry point and the memory image
// built from the ELF's loadable segments (spec §6 "Guest executable
// format").
type Program struct {
	Entry  uint32
	Memory *Memory
	// Words is every 4-byte-aligned (address, word) pair covered by a
	// loadable segment, the fixed image chips.NewProgramChip's
	// preprocessed table is built from. Captured once at load time
	// rather than read back from Memory, since Memory is mutated by
	// execution and the program table must stay the original image.
	Words map[uint32]uint32
}

// LoadELF parses a MIPS32 little-endian ELF and materializes its
// loadable segments into a fresh Memory (spec §6: "A standard ELF
// targeting MIPS32 little-endian with a fixed entry-point symbol").
// Grounded on stdlib debug/elf, which is a complete-enough ELF reader
// that no third-party pack library improves on for this one-shot,
// read-only parse (none of the example repos load ELF binaries at all).
func LoadELF(data []byte) (*Program, error) {
	f, err := elf.NewFile(byteReaderAt(data))
	if err != nil {
		return nil, fmt.Errorf("mips: parsing ELF: %w", err)
	}
	if f.Machine != elf.EM_MIPS {
		return nil, fmt.Errorf("mips: not a MIPS ELF (machine=%s)", f.Machine)
	}
	if f.ByteOrder.String() == "BigEndian" {
		return nil, fmt.Errorf("mips: big-endian MIPS ELF not supported")
	}

	mem := NewMemory()
	words := make(map[uint32]uint32)
	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		buf := make([]byte, prog.Filesz)
		if _, err := io.ReadFull(prog.Open(), buf); err != nil {
			return nil, fmt.Errorf("mips: reading segment at 0x%x: %w", prog.Vaddr, err)
		}
		for i, b := range buf {
			mem.WriteByte(uint32(prog.Vaddr)+uint32(i), b)
		}
		// Memsz > Filesz is the segment's zero-initialized bss tail;
		// Memory already reads unmapped pages as zero, so nothing further
		// to write there.

		base := uint32(prog.Vaddr) &^ 3
		end := uint32(prog.Vaddr) + uint32(prog.Filesz)
		for addr := base; addr < end; addr += 4 {
			words[addr] = mem.ReadWord(addr)
		}
	}

	return &Program{Entry: uint32(f.Entry), Memory: mem, Words: words}, nil
}

// ProgramDigest commits to the loaded image's fixed memory contents
// (spec §4.6's proving/verifying key identity rests on "the program"
// it was set up for): every populated address/word pair, sorted by
// address so the digest doesn't depend on ELF segment iteration order.
func ProgramDigest(prog *Program) core.Digest {
	addrs := make([]uint32, 0, len(prog.Words))
	for addr := range prog.Words {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	elems := make([]core.Elem, 0, 2*len(addrs)+1)
	for _, addr := range addrs {
		elems = append(elems, core.NewElem(uint64(addr)), core.NewElem(uint64(prog.Words[addr])))
	}
	elems = append(elems, core.NewElem(uint64(prog.Entry)))
	return core.Poseidon2Hash(elems)
}

// byteReaderAt adapts a byte slice to io.ReaderAt for elf.NewFile.
type byteReaderAt []byte

func (b byteReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b)) {
		return 0, io.EOF
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.ErrUnexpectedEOF
	}
	return n, nil
}
