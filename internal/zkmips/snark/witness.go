package snark

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark/frontend"

	"github.com/zkmips/zkmips/internal/zkmips/core"
	"github.com/zkmips/zkmips/internal/zkmips/recursion"
)

// WitnessInput is the host-side data a wrap receipt is built from.
// PVLimbs is deliberately a function of publicValuesBytes alone (spec
// §6 "Receipt format": the SNARK circuit's second public input commits
// to public_values_bytes), so any external verifier holding just the
// raw bytes can recompute CommittedValuesDigest itself without needing
// the reduce proof's internal bookkeeping. ReduceLimbs carries that
// internal bookkeeping as a secret witness instead: it is not part of
// either public commitment, since recursion.VerifyRecursion already
// checked the underlying STARK claim natively before Prove ever
// constructs this witness — the wrap circuit's job is re-exposing an
// already-checked claim through a pairing-friendly commitment, not
// re-deriving its soundness (see Circuit's doc comment).
type WitnessInput struct {
	VKDigest     core.Digest
	ReduceLimbs  []*big.Int
	PVLimbs      []*big.Int
}

// MaxPublicValuesBytes bounds the guest's committed public values the
// wrap circuit can bind to, since a compiled R1CS/PLONK circuit needs a
// fixed witness shape. 512 bytes comfortably covers the packed encodings
// spec's acceptance-test programs use (e.g. a Fibonacci n plus a few
// aggregated (vk, public-values-digest) pairs).
const MaxPublicValuesBytes = 512

const maxPublicValuesLimbs = MaxPublicValuesBytes / 4

// RecursionPVLimbCount is the fixed PVLimbs width FromReduceProof always
// produces (the padded public-values byte limbs only). snark.Setup must
// be called with this exact count so Prove's witness always matches the
// compiled circuit.
const RecursionPVLimbCount = maxPublicValuesLimbs

// RecursionReduceLimbCount is the fixed ReduceLimbs width: four
// reduce-proof digests (initial/terminal/program/deferred state) plus
// the two shard-range bounds.
const RecursionReduceLimbCount = 4*core.DigestWidth + 2

// FromReduceProof extracts a WitnessInput from the recursion layer's
// final output plus the guest's committed public values (spec "Data
// flow: ... L6 compresses layer-by-layer to a single STARK proof -> L7
// wraps it into a BN254 SNARK"). publicValuesBytes is zero-padded up to
// MaxPublicValuesBytes; callers whose guest commits more than that must
// raise the cap and re-run Setup.
func FromReduceProof(r *recursion.ReduceProof, publicValuesBytes []byte) (*WitnessInput, error) {
	if len(publicValuesBytes) > MaxPublicValuesBytes {
		return nil, fmt.Errorf("snark: public values (%d bytes) exceed the wrap circuit's %d-byte cap", len(publicValuesBytes), MaxPublicValuesBytes)
	}
	padded := make([]byte, MaxPublicValuesBytes)
	copy(padded, publicValuesBytes)

	reduceLimbs := digestLimbs(r.InitialStateDigest)
	reduceLimbs = append(reduceLimbs, digestLimbs(r.TerminalStateDigest)...)
	reduceLimbs = append(reduceLimbs, digestLimbs(r.ProgramDigest)...)
	reduceLimbs = append(reduceLimbs, digestLimbs(r.DeferredDigest)...)
	reduceLimbs = append(reduceLimbs, big.NewInt(int64(r.FirstShard)), big.NewInt(int64(r.LastShard)))

	return &WitnessInput{VKDigest: r.VKDigest, ReduceLimbs: reduceLimbs, PVLimbs: byteLimbs(padded)}, nil
}

// byteLimbs packs a byte slice into big-endian 4-byte field limbs,
// zero-padding the final partial group, mirroring mips.ProgramDigest's
// word-at-a-time packing convention.
func byteLimbs(data []byte) []*big.Int {
	padded := make([]byte, (len(data)+3)/4*4)
	copy(padded, data)
	out := make([]*big.Int, len(padded)/4)
	for i := range out {
		out[i] = new(big.Int).SetUint64(uint64(binary.BigEndian.Uint32(padded[i*4 : i*4+4])))
	}
	return out
}

func digestLimbs(d core.Digest) []*big.Int {
	out := make([]*big.Int, len(d))
	for i, e := range d {
		out[i] = new(big.Int).SetUint64(uint64(e))
	}
	return out
}

// mimcHash runs the native (out-of-circuit) BN254 MiMC permutation over
// limbs, the same function Circuit.Define's mimc.NewMiMC(api) computes
// in-circuit, so the public inputs assigned here are exactly what the
// circuit's own hash recomputes.
func mimcHash(limbs []*big.Int) *big.Int {
	h := mimc.NewMiMC()
	for _, l := range limbs {
		buf := make([]byte, 32)
		l.FillBytes(buf)
		h.Write(buf)
	}
	return new(big.Int).SetBytes(h.Sum(nil))
}

// PublicValuesDigestForBytes computes the CommittedValuesDigest public
// input directly from raw public_values_bytes, with no access to a
// ReduceProof, for callers (VerifyBytes) that only hold the bytes spec
// §4.6's verify_bytes signature names.
func PublicValuesDigestForBytes(publicValuesBytes []byte) *big.Int {
	padded := make([]byte, MaxPublicValuesBytes)
	copy(padded, publicValuesBytes)
	return mimcHash(byteLimbs(padded))
}

// PublicInputs computes the two public commitments Circuit.Define
// checks, off-circuit, for callers that need them as plain big.Ints
// (e.g. to populate a serialized Proof) rather than boxed inside an
// assignment. VkeyHash binds the VK digest together with the
// reduce-proof claim it was issued for; CommittedValuesDigest is a
// function of the public values bytes alone.
func PublicInputs(in *WitnessInput) (vkeyHash, committedValuesDigest *big.Int) {
	vkLimbs := append(digestLimbs(in.VKDigest), in.ReduceLimbs...)
	return mimcHash(vkLimbs), mimcHash(in.PVLimbs)
}

// BuildAssignment turns a WitnessInput into a fully assigned Circuit
// (private limbs plus the two derived public commitments), ready for
// frontend.NewWitness.
func BuildAssignment(in *WitnessInput) *Circuit {
	vkLimbs := digestLimbs(in.VKDigest)
	vkeyHash, pvDigest := PublicInputs(in)

	vkVars := make([]frontend.Variable, len(vkLimbs))
	for i, l := range vkLimbs {
		vkVars[i] = frontend.Variable(l)
	}
	reduceVars := make([]frontend.Variable, len(in.ReduceLimbs))
	for i, l := range in.ReduceLimbs {
		reduceVars[i] = frontend.Variable(l)
	}
	pvVars := make([]frontend.Variable, len(in.PVLimbs))
	for i, l := range in.PVLimbs {
		pvVars[i] = frontend.Variable(l)
	}

	return &Circuit{
		VKLimbs:               vkVars,
		ReduceLimbs:           reduceVars,
		PVLimbs:               pvVars,
		VkeyHash:              vkeyHash,
		CommittedValuesDigest: pvDigest,
	}
}
