package recursion

import (
	"errors"
	"testing"

	"github.com/zkmips/zkmips/internal/zkmips/core"
	"github.com/zkmips/zkmips/internal/zkmips/stark"
)

func baseProof(t *testing.T, vk, program core.Digest, shard uint64, initial, terminal core.Digest) *ReduceProof {
	t.Helper()
	pub := stark.PublicValues{
		ShardIndex:          shard,
		InitialStateDigest:  initial,
		TerminalStateDigest: terminal,
		ProgramDigest:       program,
	}
	return ShardToReduceProof(vk, program, pub)
}

func TestReduceMergesAdjacentShards(t *testing.T) {
	vk := core.Poseidon2Hash([]core.Elem{core.One})
	program := core.Poseidon2Hash([]core.Elem{core.NewElemFromInt64(2)})
	mid := core.Poseidon2Hash([]core.Elem{core.NewElemFromInt64(3)})

	left := baseProof(t, vk, program, 0, core.ZeroDigest(), mid)
	right := baseProof(t, vk, program, 1, mid, core.ZeroDigest())

	merged, err := Reduce(left, right, nil)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if merged.FirstShard != 0 || merged.LastShard != 1 {
		t.Fatalf("expected merged range [0,1], got [%d,%d]", merged.FirstShard, merged.LastShard)
	}
	if !merged.Complete {
		t.Fatal("expected merged proof to stay complete when both inputs are complete")
	}
	if merged.BindingDigest == core.ZeroDigest() {
		t.Fatal("expected a non-zero binding digest")
	}
}

func TestReduceRejectsShardBoundaryMismatch(t *testing.T) {
	vk := core.Poseidon2Hash([]core.Elem{core.One})
	program := core.Poseidon2Hash([]core.Elem{core.NewElemFromInt64(2)})

	left := baseProof(t, vk, program, 0, core.ZeroDigest(), core.Poseidon2Hash([]core.Elem{core.NewElemFromInt64(9)}))
	right := baseProof(t, vk, program, 1, core.Poseidon2Hash([]core.Elem{core.NewElemFromInt64(10)}), core.ZeroDigest())

	if _, err := Reduce(left, right, nil); !errors.Is(err, ErrShardBoundaryMismatch) {
		t.Fatalf("expected ErrShardBoundaryMismatch, got %v", err)
	}
}

func TestReduceRejectsProgramDigestMismatch(t *testing.T) {
	vk := core.Poseidon2Hash([]core.Elem{core.One})
	programA := core.Poseidon2Hash([]core.Elem{core.NewElemFromInt64(2)})
	programB := core.Poseidon2Hash([]core.Elem{core.NewElemFromInt64(3)})

	left := baseProof(t, vk, programA, 0, core.ZeroDigest(), core.ZeroDigest())
	right := baseProof(t, vk, programB, 1, core.ZeroDigest(), core.ZeroDigest())

	if _, err := Reduce(left, right, nil); !errors.Is(err, ErrProgramDigestMismatch) {
		t.Fatalf("expected ErrProgramDigestMismatch, got %v", err)
	}
}

func TestCompressAllReducesToSingleProof(t *testing.T) {
	vk := core.Poseidon2Hash([]core.Elem{core.One})
	program := core.Poseidon2Hash([]core.Elem{core.NewElemFromInt64(2)})

	digests := make([]core.Digest, 5)
	for i := range digests {
		digests[i] = core.Poseidon2Hash([]core.Elem{core.NewElemFromInt64(int64(i))})
	}

	proofs := make([]*ReduceProof, 4)
	for i := 0; i < 4; i++ {
		proofs[i] = baseProof(t, vk, program, uint64(i), digests[i], digests[i+1])
	}

	final, err := CompressAll(proofs, 2, nil)
	if err != nil {
		t.Fatalf("CompressAll: %v", err)
	}
	if final.FirstShard != 0 || final.LastShard != 3 {
		t.Fatalf("expected range [0,3], got [%d,%d]", final.FirstShard, final.LastShard)
	}
	if !final.Complete {
		t.Fatal("expected the fully-compressed proof to be complete")
	}
}

func TestCompressLayerRejectsSmallBatchSize(t *testing.T) {
	if _, err := CompressLayer(nil, 1, nil); err == nil {
		t.Fatal("expected an error for batchSize < 2")
	}
}
