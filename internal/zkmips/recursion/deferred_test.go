package recursion

import (
	"errors"
	"testing"

	"github.com/zkmips/zkmips/internal/zkmips/core"
	"github.com/zkmips/zkmips/internal/zkmips/mips"
	"github.com/zkmips/zkmips/internal/zkmips/stark"
)

func TestAbsorbDeferredWithNoObligationsIsNoop(t *testing.T) {
	agg := &ReduceProof{Complete: true}
	out, err := AbsorbDeferred(agg, nil, nil, nil)
	if err != nil {
		t.Fatalf("AbsorbDeferred: %v", err)
	}
	if out != agg {
		t.Fatal("expected the same proof back when there are no obligations")
	}
}

func TestAbsorbDeferredResolvesMatchingObligation(t *testing.T) {
	vk := core.Poseidon2Hash([]core.Elem{core.One})
	program := core.Poseidon2Hash([]core.Elem{core.NewElemFromInt64(2)})
	nested := ShardToReduceProof(vk, program, stark.PublicValues{ShardIndex: 0})

	ob := mips.DeferredObligation{
		Shard:      3,
		VKeyDigest: toArray32(nested.VKDigest.Bytes()),
		PVDigest:   toArray32(PublicValuesDigest(nested).Bytes()),
	}

	agg := &ReduceProof{Complete: true}
	in := NewInterpreter()
	out, err := AbsorbDeferred(agg, []mips.DeferredObligation{ob}, []DeferredResolution{{Obligation: ob, Nested: nested}}, in)
	if err != nil {
		t.Fatalf("AbsorbDeferred: %v", err)
	}
	if !out.Complete {
		t.Fatal("expected the aggregate to remain complete once the obligation is resolved")
	}
	if len(in.SelectEvents) != 1 {
		t.Fatalf("expected AbsorbDeferred to record one select event, got %d", len(in.SelectEvents))
	}
}

func TestAbsorbDeferredRejectsMissingResolution(t *testing.T) {
	ob := mips.DeferredObligation{Shard: 1}
	agg := &ReduceProof{Complete: true}
	if _, err := AbsorbDeferred(agg, []mips.DeferredObligation{ob}, nil, nil); !errors.Is(err, ErrDeferredObligationUnfulfilled) {
		t.Fatalf("expected ErrDeferredObligationUnfulfilled, got %v", err)
	}
}

func TestAbsorbDeferredRejectsIncompleteNestedReceipt(t *testing.T) {
	vk := core.Poseidon2Hash([]core.Elem{core.One})
	program := core.Poseidon2Hash([]core.Elem{core.NewElemFromInt64(2)})
	nested := ShardToReduceProof(vk, program, stark.PublicValues{ShardIndex: 0})
	nested.Complete = false

	ob := mips.DeferredObligation{
		VKeyDigest: toArray32(nested.VKDigest.Bytes()),
		PVDigest:   toArray32(PublicValuesDigest(nested).Bytes()),
	}

	agg := &ReduceProof{Complete: true}
	_, err := AbsorbDeferred(agg, []mips.DeferredObligation{ob}, []DeferredResolution{{Obligation: ob, Nested: nested}}, nil)
	if !errors.Is(err, ErrDeferredObligationUnfulfilled) {
		t.Fatalf("expected ErrDeferredObligationUnfulfilled for an incomplete nested receipt, got %v", err)
	}
}

func toArray32(b []byte) [32]byte {
	var out [32]byte
	copy(out[:], b)
	return out
}
