package chips

import (
	"testing"

	"github.com/zkmips/zkmips/internal/zkmips/mips"
)

func TestCPUChipClockMustIncreaseByOne(t *testing.T) {
	var c CPUChip
	rows, err := c.GenerateRows([]any{
		mips.CPUEvent{PC: 0, NextPC: 4, Shard: 1, Clock: 10, Word: 0x21},
		mips.CPUEvent{PC: 4, NextPC: 8, Shard: 1, Clock: 11, Word: 0x22},
	})
	if err != nil {
		t.Fatalf("GenerateRows: %v", err)
	}
	cs := c.EvalConstraints(rows[0], rows[1], nil)
	if !cs[len(cs)-1].IsZero() {
		t.Fatalf("expected monotone clock constraint to hold, got %v", cs)
	}
}

func TestCPUChipClockGapViolates(t *testing.T) {
	var c CPUChip
	rows, _ := c.GenerateRows([]any{
		mips.CPUEvent{PC: 0, NextPC: 4, Shard: 1, Clock: 10, Word: 0x21},
		mips.CPUEvent{PC: 8, NextPC: 12, Shard: 1, Clock: 20, Word: 0x22},
	})
	cs := c.EvalConstraints(rows[0], rows[1], nil)
	last := cs[len(cs)-1]
	if last.IsZero() {
		t.Fatal("expected a clock-gap violation")
	}
}

func TestCPUChipSendsProgramLookup(t *testing.T) {
	var c CPUChip
	rows, _ := c.GenerateRows([]any{mips.CPUEvent{PC: 0x400000, Word: 0xdeadbeef}})
	ia := rows[0].Interactions
	if len(ia) != 1 || ia[0].Bus != "program" {
		t.Fatalf("unexpected interactions: %+v", ia)
	}
	if got := ia[0].Tuple[1].Uint32(); got != 0xdeadbeef {
		t.Fatalf("program lookup word = %#x, want 0xdeadbeef", got)
	}
}

func TestCPUChipHaltMustBeBoolean(t *testing.T) {
	var c CPUChip
	pad := c.PaddingRow()
	cs := c.EvalConstraints(pad, pad, nil)
	if len(cs) != 1 || !cs[0].IsZero() {
		t.Fatalf("zero-valued is_halt column must satisfy booleanity, got %v", cs)
	}
}
