package recursion

import (
	"bytes"
	"fmt"

	"github.com/zkmips/zkmips/internal/zkmips/core"
	"github.com/zkmips/zkmips/internal/zkmips/mips"
)

// PublicValuesDigest commits to the fields of a ReduceProof a
// verify-zkm-proof caller would have hashed on the guest side (spec
// §4.1 "verify-zkm-proof: records a deferred obligation to verify a
// nested receipt"), everything but the verifying-key digest itself,
// which is checked separately against the obligation's VKeyDigest.
func PublicValuesDigest(r *ReduceProof) core.Digest {
	var elems []core.Elem
	elems = append(elems, core.NewElem(r.FirstShard), core.NewElem(r.LastShard))
	elems = append(elems, r.InitialStateDigest[:]...)
	elems = append(elems, r.TerminalStateDigest[:]...)
	elems = append(elems, r.ProgramDigest[:]...)
	elems = append(elems, r.DeferredDigest[:]...)
	return core.Poseidon2Hash(elems)
}

// DeferredResolution pairs one recorded verify-zkm-proof obligation with
// the reduce proof of the receipt the guest claimed to have verified.
type DeferredResolution struct {
	Obligation mips.DeferredObligation
	Nested     *ReduceProof
}

// AbsorbDeferred checks every recorded obligation against its supplied
// resolution and folds the nested receipts' completeness into agg (spec
// §4.4 "Deferred verification": "A deferred recursion program absorbs
// these obligations and verifies each of the referenced receipts before
// declaring the aggregate proof complete"). Every obligation must appear
// exactly once in resolutions, in any order; a missing, mismatched, or
// incomplete resolution reports ErrDeferredObligationUnfulfilled.
func AbsorbDeferred(agg *ReduceProof, obligations []mips.DeferredObligation, resolutions []DeferredResolution, in *Interpreter) (*ReduceProof, error) {
	if len(obligations) == 0 {
		return agg, nil
	}
	byKey := make(map[string]*DeferredResolution, len(resolutions))
	for i := range resolutions {
		r := &resolutions[i]
		key := string(r.Obligation.VKeyDigest[:]) + string(r.Obligation.PVDigest[:])
		byKey[key] = r
	}

	complete := agg.Complete
	for _, ob := range obligations {
		key := string(ob.VKeyDigest[:]) + string(ob.PVDigest[:])
		res, ok := byKey[key]
		if !ok {
			return agg, fmt.Errorf("%w: shard %d obligation vk=%x has no supplied resolution", ErrDeferredObligationUnfulfilled, ob.Shard, ob.VKeyDigest)
		}
		nested := res.Nested
		if nested == nil || !nested.Complete {
			return agg, fmt.Errorf("%w: shard %d obligation vk=%x resolved by an incomplete receipt", ErrDeferredObligationUnfulfilled, ob.Shard, ob.VKeyDigest)
		}
		if !bytes.Equal(nested.VKDigest.Bytes(), ob.VKeyDigest[:]) {
			return agg, fmt.Errorf("%w: shard %d obligation vk=%x, resolved receipt has vk=%x", ErrDeferredObligationUnfulfilled, ob.Shard, ob.VKeyDigest, nested.VKDigest.Bytes())
		}
		pvDigest := PublicValuesDigest(nested)
		if !bytes.Equal(pvDigest.Bytes(), ob.PVDigest[:]) {
			return agg, fmt.Errorf("%w: shard %d obligation pv=%x, resolved receipt commits to pv=%x", ErrDeferredObligationUnfulfilled, ob.Shard, ob.PVDigest, pvDigest.Bytes())
		}
		if in != nil {
			in.SelectEvents = append(in.SelectEvents, SelectEvent{Cond: 1, A: 1, B: 0, Out: 1})
		}
		complete = complete && nested.Complete
	}

	out := *agg
	out.Complete = complete
	bind(&out)
	return &out, nil
}
