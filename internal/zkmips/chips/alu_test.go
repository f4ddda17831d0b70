package chips

import (
	"testing"

	"github.com/zkmips/zkmips/internal/zkmips/air"
	"github.com/zkmips/zkmips/internal/zkmips/mips"
)

func TestALUChipAddSubRoundTrip(t *testing.T) {
	c, err := NewALUChip("add_sub")
	if err != nil {
		t.Fatalf("NewALUChip: %v", err)
	}
	rows, err := c.GenerateRows([]any{mips.ALUEvent{A: 5, B: 7, C: 12}})
	if err != nil {
		t.Fatalf("GenerateRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if cs := c.EvalConstraints(rows[0], rows[0], nil); len(cs) != 1 || !cs[0].IsZero() {
		t.Fatalf("constraint violated: %v", cs)
	}
	if len(rows[0].Interactions) != 1 || rows[0].Interactions[0].Bus != "alu_add_sub" {
		t.Fatalf("unexpected interactions: %+v", rows[0].Interactions)
	}
}

func TestALUChipRejectsWrongResult(t *testing.T) {
	c, _ := NewALUChip("mul")
	rows, _ := c.GenerateRows([]any{mips.ALUEvent{A: 3, B: 4, C: 999}})
	cs := c.EvalConstraints(rows[0], rows[0], nil)
	if len(cs) != 1 || cs[0].IsZero() {
		t.Fatalf("expected a nonzero constraint violation, got %v", cs)
	}
}

func TestALUChipDivByZero(t *testing.T) {
	c, _ := NewALUChip("divrem")
	rows, _ := c.GenerateRows([]any{mips.ALUEvent{A: 9, B: 0, C: 0xffffffff}})
	if cs := c.EvalConstraints(rows[0], rows[0], nil); len(cs) != 1 || !cs[0].IsZero() {
		t.Fatalf("constraint violated: %v", cs)
	}
}

func TestALUChipUnknownFamily(t *testing.T) {
	if _, err := NewALUChip("not_a_family"); err == nil {
		t.Fatal("expected error for unknown family")
	}
}

func TestALUChipPaddingRowIsNotReal(t *testing.T) {
	c, _ := NewALUChip("lt")
	pad := c.PaddingRow()
	if pad.IsReal {
		t.Fatal("padding row must not be marked real")
	}
	if cs := c.EvalConstraints(pad, pad, nil); cs != nil {
		t.Fatalf("padding row must not be constrained, got %v", cs)
	}
	var _ air.Row = pad
}
