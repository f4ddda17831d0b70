package chips

import (
	"testing"

	"github.com/zkmips/zkmips/internal/zkmips/core"
	"github.com/zkmips/zkmips/internal/zkmips/mips"
)

func TestMemoryChipWidthMustBeOneTwoOrFour(t *testing.T) {
	var c MemoryChip
	for _, width := range []int{1, 2, 4} {
		rows, err := c.GenerateRows([]any{mips.MemoryAccessEvent{Addr: 0x1000, Width: width, Value: 7}})
		if err != nil {
			t.Fatalf("GenerateRows: %v", err)
		}
		cs := c.EvalConstraints(rows[0], rows[0], nil)
		if !cs[1].IsZero() {
			t.Fatalf("width %d should satisfy the width check, got %v", width, cs[1])
		}
	}

	rows, _ := c.GenerateRows([]any{mips.MemoryAccessEvent{Addr: 0x1000, Width: 3, Value: 7}})
	cs := c.EvalConstraints(rows[0], rows[0], nil)
	if cs[1].IsZero() {
		t.Fatal("width 3 must violate the width check")
	}
}

func TestGlobalChipAccumulatorReturnsToIdentity(t *testing.T) {
	acc := core.NewMultisetAccumulator()
	inits := []mips.MemoryInitEvent{{Addr: 0x10, Value: 0}}
	finals := []mips.MemoryFinalizeEvent{{Addr: 0x10, Value: 42}}

	Accumulate(acc, inits, finals)
	if acc.IsIdentity() {
		t.Fatal("accumulator should not be at identity after an unbalanced init/final pair")
	}

	// Absorbing the matching counter-events (as the next link in the
	// chain would) returns the accumulator to the identity.
	Accumulate(acc, []mips.MemoryInitEvent{{Addr: 0x10, Value: 42}}, []mips.MemoryFinalizeEvent{{Addr: 0x10, Value: 0}})
	if !acc.IsIdentity() {
		t.Fatal("expected accumulator to return to identity once sends/receives balance")
	}
}
