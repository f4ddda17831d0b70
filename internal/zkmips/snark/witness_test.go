package snark

import (
	"testing"

	"github.com/zkmips/zkmips/internal/zkmips/core"
	"github.com/zkmips/zkmips/internal/zkmips/recursion"
)

func TestFromReduceProofProducesFixedWidthLimbs(t *testing.T) {
	r := &recursion.ReduceProof{
		VKDigest:            core.Poseidon2Hash([]core.Elem{core.One}),
		FirstShard:          0,
		LastShard:           7,
		InitialStateDigest:  core.ZeroDigest(),
		TerminalStateDigest: core.Poseidon2Hash([]core.Elem{core.NewElemFromInt64(5)}),
		ProgramDigest:       core.Poseidon2Hash([]core.Elem{core.NewElemFromInt64(9)}),
		DeferredDigest:      core.ZeroDigest(),
	}

	in, err := FromReduceProof(r, []byte("hello"))
	if err != nil {
		t.Fatalf("FromReduceProof: %v", err)
	}
	if len(in.ReduceLimbs) != RecursionReduceLimbCount {
		t.Fatalf("expected %d reduce limbs, got %d", RecursionReduceLimbCount, len(in.ReduceLimbs))
	}
	if len(in.PVLimbs) != RecursionPVLimbCount {
		t.Fatalf("expected %d public-value limbs, got %d", RecursionPVLimbCount, len(in.PVLimbs))
	}
	if in.VKDigest != r.VKDigest {
		t.Fatal("expected VKDigest to be carried through unchanged")
	}
}

func TestFromReduceProofRejectsOversizedPublicValues(t *testing.T) {
	r := &recursion.ReduceProof{}
	oversized := make([]byte, MaxPublicValuesBytes+1)
	if _, err := FromReduceProof(r, oversized); err == nil {
		t.Fatal("expected an error for public values exceeding the wrap circuit's byte cap")
	}
}

func TestPublicValuesDigestForBytesMatchesWitnessPVDigest(t *testing.T) {
	data := []byte("committed public values")
	r := &recursion.ReduceProof{VKDigest: core.Poseidon2Hash([]core.Elem{core.One})}

	in, err := FromReduceProof(r, data)
	if err != nil {
		t.Fatalf("FromReduceProof: %v", err)
	}
	_, pvDigest := PublicInputs(in)

	standalone := PublicValuesDigestForBytes(data)
	if standalone.Cmp(pvDigest) != 0 {
		t.Fatal("expected PublicValuesDigestForBytes to match the digest derived from a full WitnessInput")
	}
}

func TestPublicValuesDigestForBytesIsDeterministic(t *testing.T) {
	data := []byte("same bytes twice")
	a := PublicValuesDigestForBytes(data)
	b := PublicValuesDigestForBytes(data)
	if a.Cmp(b) != 0 {
		t.Fatal("expected the same bytes to hash to the same digest")
	}
}

func TestPublicValuesDigestForBytesDiffersOnDifferentInput(t *testing.T) {
	a := PublicValuesDigestForBytes([]byte("alpha"))
	b := PublicValuesDigestForBytes([]byte("beta"))
	if a.Cmp(b) == 0 {
		t.Fatal("expected different public values to hash to different digests")
	}
}

func TestBuildAssignmentPopulatesAllFields(t *testing.T) {
	r := &recursion.ReduceProof{VKDigest: core.Poseidon2Hash([]core.Elem{core.NewElemFromInt64(3)})}
	in, err := FromReduceProof(r, []byte("pv"))
	if err != nil {
		t.Fatalf("FromReduceProof: %v", err)
	}
	circuit := BuildAssignment(in)
	if len(circuit.VKLimbs) != core.DigestWidth {
		t.Fatalf("expected %d vk limbs, got %d", core.DigestWidth, len(circuit.VKLimbs))
	}
	if len(circuit.ReduceLimbs) != RecursionReduceLimbCount {
		t.Fatalf("expected %d reduce limbs, got %d", RecursionReduceLimbCount, len(circuit.ReduceLimbs))
	}
	if len(circuit.PVLimbs) != RecursionPVLimbCount {
		t.Fatalf("expected %d pv limbs, got %d", RecursionPVLimbCount, len(circuit.PVLimbs))
	}
	if circuit.VkeyHash == nil || circuit.CommittedValuesDigest == nil {
		t.Fatal("expected both public commitments to be populated")
	}
}
