package zkmips

import (
	"errors"
	"testing"

	"github.com/zkmips/zkmips/internal/zkmips/core"
)

func TestVerifyBytesRejectsDigestMismatch(t *testing.T) {
	vk := &VerifyingKey{VKDigest: core.Poseidon2Hash([]core.Elem{core.One})}
	other := core.Poseidon2Hash([]core.Elem{core.NewElemFromInt64(2)})

	err := VerifyBytes(vk, other, nil, make([]byte, selectorSize+65))
	var zerr *Error
	if !errors.As(err, &zerr) || zerr.Kind != ErrVerifierSelectorMismatch {
		t.Fatalf("expected ErrVerifierSelectorMismatch, got %v", err)
	}
}

func TestVerifyBytesRejectsShortProof(t *testing.T) {
	vk := &VerifyingKey{VKDigest: core.Poseidon2Hash([]core.Elem{core.One})}
	err := VerifyBytes(vk, vk.VKDigest, nil, []byte{1, 2, 3})
	var zerr *Error
	if !errors.As(err, &zerr) || zerr.Kind != ErrProofInvalid {
		t.Fatalf("expected ErrProofInvalid for a too-short proof, got %v", err)
	}
}

func TestVerifyBytesRejectsSelectorMismatch(t *testing.T) {
	vk := &VerifyingKey{VKDigest: core.Poseidon2Hash([]core.Elem{core.One})}
	proofBytes := make([]byte, selectorSize+65)
	copy(proofBytes, []byte{0xff, 0xff, 0xff, 0xff})

	err := VerifyBytes(vk, vk.VKDigest, nil, proofBytes)
	var zerr *Error
	if !errors.As(err, &zerr) || zerr.Kind != ErrVerifierSelectorMismatch {
		t.Fatalf("expected ErrVerifierSelectorMismatch for a bad selector prefix, got %v", err)
	}
}

func TestVerifyBytesRejectsCommittedValuesMismatch(t *testing.T) {
	digest := core.Poseidon2Hash([]core.Elem{core.One})
	vk := &VerifyingKey{VKDigest: digest}

	proofBytes := make([]byte, selectorSize+65)
	copy(proofBytes, digest.Bytes()[:selectorSize])
	// vkeyHash/committedValuesDigest (64 bytes of zero) will never match
	// the real MiMC digest of the supplied public values.

	err := VerifyBytes(vk, digest, []byte("some public values"), proofBytes)
	var zerr *Error
	if !errors.As(err, &zerr) || zerr.Kind != ErrProofInvalid {
		t.Fatalf("expected ErrProofInvalid for a committed-values mismatch, got %v", err)
	}
}
