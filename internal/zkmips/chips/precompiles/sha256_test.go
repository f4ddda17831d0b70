package precompiles

import (
	"testing"

	"github.com/zkmips/zkmips/internal/zkmips/mips"
)

func extendedSchedule(block [16]uint32) [64]uint32 {
	var w [64]uint32
	copy(w[:16], block[:])
	mips.Sha256Extend(&w)
	return w
}

func TestShaExtendChipAcceptsRealSchedule(t *testing.T) {
	block := [16]uint32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	w := extendedSchedule(block)

	c := NewShaExtendChip()
	rows, err := c.GenerateRows([]any{mips.PrecompileEvent{
		Syscall: mips.SysShaExtend,
		Before:  append([]uint32(nil), block[:]...),
		After:   append([]uint32(nil), w[:]...),
	}})
	if err != nil {
		t.Fatalf("GenerateRows: %v", err)
	}
	cs := c.EvalConstraints(rows[0], rows[0], nil)
	for i, v := range cs {
		if !v.IsZero() {
			t.Fatalf("word %d: expected a zero constraint for a real schedule, got nonzero", i)
		}
	}
}

func TestShaExtendChipRejectsForgedSchedule(t *testing.T) {
	block := [16]uint32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	w := extendedSchedule(block)
	w[20] ^= 1 // corrupt one extended word

	c := NewShaExtendChip()
	rows, err := c.GenerateRows([]any{mips.PrecompileEvent{
		Syscall: mips.SysShaExtend,
		Before:  append([]uint32(nil), block[:]...),
		After:   append([]uint32(nil), w[:]...),
	}})
	if err != nil {
		t.Fatalf("GenerateRows: %v", err)
	}
	cs := c.EvalConstraints(rows[0], rows[0], nil)
	if cs[20].IsZero() {
		t.Fatal("expected a nonzero constraint at the corrupted word")
	}
}

func TestShaCompressChipAcceptsRealDigest(t *testing.T) {
	var hs [8]uint32
	for i := range hs {
		hs[i] = uint32(i + 1)
	}
	block := [16]uint32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	ws := extendedSchedule(block)

	before := append(append([]uint32(nil), hs[:]...), ws[:]...)
	mips.Sha256Compress(&hs, &ws)

	c := NewShaCompressChip()
	rows, err := c.GenerateRows([]any{mips.PrecompileEvent{
		Syscall: mips.SysShaCompress,
		Before:  before,
		After:   append([]uint32(nil), hs[:]...),
	}})
	if err != nil {
		t.Fatalf("GenerateRows: %v", err)
	}
	cs := c.EvalConstraints(rows[0], rows[0], nil)
	for i, v := range cs {
		if !v.IsZero() {
			t.Fatalf("digest word %d: expected a zero constraint for a real compression, got nonzero", i)
		}
	}
}

func TestShaCompressChipRejectsForgedDigest(t *testing.T) {
	var hs [8]uint32
	for i := range hs {
		hs[i] = uint32(i + 1)
	}
	block := [16]uint32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	ws := extendedSchedule(block)

	before := append(append([]uint32(nil), hs[:]...), ws[:]...)
	mips.Sha256Compress(&hs, &ws)
	hs[3] ^= 1 // claim a forged digest word

	c := NewShaCompressChip()
	rows, err := c.GenerateRows([]any{mips.PrecompileEvent{
		Syscall: mips.SysShaCompress,
		Before:  before,
		After:   append([]uint32(nil), hs[:]...),
	}})
	if err != nil {
		t.Fatalf("GenerateRows: %v", err)
	}
	cs := c.EvalConstraints(rows[0], rows[0], nil)
	if cs[3].IsZero() {
		t.Fatal("expected a nonzero constraint at the forged digest word")
	}
}

func TestShaExtendChipRejectsMalformedSnapshot(t *testing.T) {
	c := NewShaExtendChip()
	if _, err := c.GenerateRows([]any{mips.PrecompileEvent{Syscall: mips.SysShaExtend}}); err == nil {
		t.Fatal("expected an error for a missing before/after snapshot")
	}
}

func TestShaExtendChipPaddingRowIsNotReal(t *testing.T) {
	c := NewShaExtendChip()
	pad := c.PaddingRow()
	if pad.IsReal {
		t.Fatal("padding row must not be marked real")
	}
	if cs := c.EvalConstraints(pad, pad, nil); cs != nil {
		t.Fatalf("padding row must not be constrained, got %v", cs)
	}
}
