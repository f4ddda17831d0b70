package recursion

import (
	"fmt"

	"github.com/zkmips/zkmips/internal/zkmips/core"
	"github.com/zkmips/zkmips/internal/zkmips/stark"
)

// ReduceProof is what one node of the recursion tree emits: the
// conjunction of everything it verified, expressed in the same shape as
// a shard proof's public values plus the boundary range it now covers
// (spec §4.4 "emits one reduce proof that represents the conjunction").
type ReduceProof struct {
	VKDigest            core.Digest
	FirstShard          uint64
	LastShard           uint64
	InitialStateDigest  core.Digest
	TerminalStateDigest core.Digest
	ProgramDigest       core.Digest
	MemoryAccumulator   core.CurvePoint
	DeferredDigest      core.Digest
	Complete            bool // all deferred obligations resolved so far
	Tier                string
	// BindingDigest is a Poseidon2 commitment to every field above,
	// computed by bind when a base-layer ReduceProof is built and again
	// whenever two ReduceProofs are combined.
	BindingDigest core.Digest
}

// bindingInput flattens a ReduceProof's fields into the element sequence
// its BindingDigest is computed from.
func bindingInput(r *ReduceProof) []core.Elem {
	var elems []core.Elem
	elems = append(elems, r.VKDigest[:]...)
	elems = append(elems, core.NewElem(r.FirstShard), core.NewElem(r.LastShard))
	elems = append(elems, r.InitialStateDigest[:]...)
	elems = append(elems, r.TerminalStateDigest[:]...)
	elems = append(elems, r.ProgramDigest[:]...)
	elems = append(elems, r.DeferredDigest[:]...)
	if !r.MemoryAccumulator.Infinity {
		elems = append(elems, r.MemoryAccumulator.X[:]...)
		elems = append(elems, r.MemoryAccumulator.Y[:]...)
	}
	if r.Complete {
		elems = append(elems, core.One)
	} else {
		elems = append(elems, core.Zero)
	}
	return elems
}

// bind recomputes r.BindingDigest from its current fields.
func bind(r *ReduceProof) {
	r.BindingDigest = core.Poseidon2Hash(bindingInput(r))
}

// ShardToReduceProof lifts one verified shard proof's public values into
// the base-layer reduce-proof shape (spec §4.4 "Base layer").
func ShardToReduceProof(vkDigest core.Digest, programDigest core.Digest, pub stark.PublicValues) *ReduceProof {
	r := &ReduceProof{
		VKDigest:            vkDigest,
		FirstShard:          pub.ShardIndex,
		LastShard:           pub.ShardIndex,
		InitialStateDigest:  pub.InitialStateDigest,
		TerminalStateDigest: pub.TerminalStateDigest,
		ProgramDigest:       programDigest,
		MemoryAccumulator:   pub.MemoryAccumulator,
		DeferredDigest:      core.ZeroDigest(),
		Complete:            true,
		Tier:                "base",
	}
	bind(r)
	return r
}

// Reduce combines two adjacent reduce proofs into one, the "2-to-1"
// compression step every intermediate recursion layer performs (spec
// §4.4 "Intermediate layers ... verifies two or more reduce proofs ...
// emitting a single reduce proof"). in is the interpreter whose events
// back the recursion AIR's witness for this combination; passing nil
// skips witness recording (used by tests that only care about the
// resulting ReduceProof).
func Reduce(left, right *ReduceProof, in *Interpreter) (*ReduceProof, error) {
	if left.VKDigest != right.VKDigest {
		return nil, fmt.Errorf("recursion: %w", ErrProgramDigestMismatch)
	}
	if left.ProgramDigest != right.ProgramDigest {
		return nil, fmt.Errorf("recursion: %w", ErrProgramDigestMismatch)
	}
	if left.TerminalStateDigest != right.InitialStateDigest {
		return nil, fmt.Errorf("%w: shard %d terminal != shard %d initial", ErrShardBoundaryMismatch, left.LastShard, right.FirstShard)
	}

	merged := &ReduceProof{
		VKDigest:            left.VKDigest,
		FirstShard:          left.FirstShard,
		LastShard:           right.LastShard,
		InitialStateDigest:  left.InitialStateDigest,
		TerminalStateDigest: right.TerminalStateDigest,
		ProgramDigest:       left.ProgramDigest,
		MemoryAccumulator:   left.MemoryAccumulator.Add(right.MemoryAccumulator),
		DeferredDigest:      core.Compress2(left.DeferredDigest, right.DeferredDigest),
		Complete:            left.Complete && right.Complete,
		Tier:                "intermediate",
	}
	bind(merged)

	if in != nil {
		// Witness the Compress2 call that produced merged.DeferredDigest
		// by replaying its exact input/permute/truncate steps, so
		// RecPoseidon2Chip's recompute-and-diff check is over genuine
		// data rather than an unrelated digest.
		var state [core.Poseidon2Width]core.Elem
		copy(state[0:core.DigestWidth], left.DeferredDigest[:])
		copy(state[core.DigestWidth:], right.DeferredDigest[:])
		var input [core.Poseidon2Width]uint64
		for i, e := range state {
			input[i] = uint64(e)
		}
		core.Poseidon2Permute(&state)
		var output [core.Poseidon2Width]uint64
		for i, e := range state {
			output[i] = uint64(e)
		}
		in.Poseidon2Events = append(in.Poseidon2Events, RecPoseidon2Event{Input: input, Output: output})

		cond := uint64(0)
		if left.FirstShard < right.FirstShard {
			cond = 1
		}
		in.SelectEvents = append(in.SelectEvents, SelectEvent{
			Cond: cond, A: left.FirstShard, B: right.FirstShard, Out: merged.FirstShard,
		})
	}

	if !merged.Complete {
		return merged, fmt.Errorf("%w: unresolved deferred obligation in combined range [%d,%d]", ErrDeferredObligationUnfulfilled, merged.FirstShard, merged.LastShard)
	}
	return merged, nil
}

// CompressLayer runs one batch-or-pairwise reduction pass over a slice of
// reduce proofs, folding them left-to-right in groups of at most
// batchSize (spec §4.4 "Batch size at the first layer is a configuration
// parameter; later layers are 2-to-1" — represented here uniformly as
// "fold up to batchSize proofs per output node", which specializes to
// strict 2-to-1 when batchSize==2).
func CompressLayer(proofs []*ReduceProof, batchSize int, in *Interpreter) ([]*ReduceProof, error) {
	if batchSize < 2 {
		return nil, fmt.Errorf("recursion: batch size must be >= 2, got %d", batchSize)
	}
	var out []*ReduceProof
	for i := 0; i < len(proofs); i += batchSize {
		end := i + batchSize
		if end > len(proofs) {
			end = len(proofs)
		}
		group := proofs[i:end]
		acc := group[0]
		for _, next := range group[1:] {
			merged, err := Reduce(acc, next, in)
			if err != nil {
				return nil, err
			}
			acc = merged
		}
		out = append(out, acc)
	}
	return out, nil
}

// CompressAll runs CompressLayer repeatedly until a single reduce proof
// remains (spec §4.4 "Layers continue until one proof remains"), using
// batchSize for the first layer and strict 2-to-1 for every later layer
// (spec §4.4 "Batch size at the first layer is a configuration
// parameter; later layers are 2-to-1").
func CompressAll(proofs []*ReduceProof, firstLayerBatchSize int, in *Interpreter) (*ReduceProof, error) {
	if len(proofs) == 0 {
		return nil, fmt.Errorf("recursion: no reduce proofs to compress")
	}
	layer, err := CompressLayer(proofs, firstLayerBatchSize, in)
	if err != nil {
		return nil, fmt.Errorf("recursion: first layer: %w", err)
	}
	for len(layer) > 1 {
		layer, err = CompressLayer(layer, 2, in)
		if err != nil {
			return nil, fmt.Errorf("recursion: intermediate layer: %w", err)
		}
	}
	return layer[0], nil
}
