package zkmips

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/plonk"

	"github.com/zkmips/zkmips/internal/zkmips/config"
	"github.com/zkmips/zkmips/internal/zkmips/core"
	"github.com/zkmips/zkmips/internal/zkmips/snark"
)

// selectorSize is the receipt-format prefix width (spec §6 "Receipt
// format. A tagged byte blob: ... first 4 bytes = selector = first 4
// bytes of the verifying key's hash").
const selectorSize = 4

// EncodeWrappedReceipt serializes a ModePlonk/ModeGroth16 receipt's
// SNARK payload into the tagged byte blob spec §6 names, the format
// VerifyBytes (and an on-chain verifier) consumes: selector, the two
// public commitments, a one-byte backend tag (0 Groth16, 1 Plonk), then
// the backend's native proof encoding, which
// for Groth16 is exactly the eight 32-byte BN254 field elements the
// spec calls out and for Plonk is gnark's own KZG transcript encoding
// (grounded on
// _examples/other_examples/succinctlabs-sp1__main.go's
// proof.WriteTo(file) serialization).
func EncodeWrappedReceipt(r *Receipt) ([]byte, error) {
	if r.SNARKProof == nil {
		return nil, fmt.Errorf("zkmips: receipt has no snark proof to encode")
	}
	var buf bytes.Buffer
	buf.Write(r.VKDigest.Bytes()[:selectorSize])

	writeBigInt32(&buf, r.SNARKProof.VkeyHash)
	writeBigInt32(&buf, r.SNARKProof.CommittedValuesDigest)

	switch r.SNARKProof.Backend {
	case config.BackendGroth16:
		buf.WriteByte(0)
		if _, err := r.SNARKProof.Groth16.WriteTo(&buf); err != nil {
			return nil, fmt.Errorf("zkmips: encoding groth16 proof: %w", err)
		}
	case config.BackendPlonk:
		buf.WriteByte(1)
		if _, err := r.SNARKProof.Plonk.WriteTo(&buf); err != nil {
			return nil, fmt.Errorf("zkmips: encoding plonk proof: %w", err)
		}
	default:
		return nil, fmt.Errorf("zkmips: unknown backend %q", r.SNARKProof.Backend)
	}
	return buf.Bytes(), nil
}

// VerifyBytes checks a raw wrapped-receipt blob against a verifying key
// digest and the guest's committed public values, without requiring the
// caller to hold a deserialized Receipt (spec §4.6
// "verify_bytes(verifying_key_digest, public_values_bytes, proof_bytes)
// -> ok | ErrorKind"), the entry point an on-chain-style verifier uses.
func VerifyBytes(vk *VerifyingKey, vkeyDigest core.Digest, publicValuesBytes, proofBytes []byte) error {
	if vkeyDigest != vk.VKDigest {
		return NewError(ErrVerifierSelectorMismatch, "supplied verifying-key digest does not match verifying key")
	}
	if len(proofBytes) < selectorSize+64+1 {
		return NewError(ErrProofInvalid, "proof bytes too short")
	}

	selector := proofBytes[:selectorSize]
	expected := vkeyDigest.Bytes()[:selectorSize]
	if !bytes.Equal(selector, expected) {
		return NewError(ErrVerifierSelectorMismatch, "proof selector does not match verifying key digest")
	}
	rest := proofBytes[selectorSize:]

	vkeyHash := new(big.Int).SetBytes(rest[:32])
	committedValuesDigest := new(big.Int).SetBytes(rest[32:64])
	backendTag := rest[64]
	payload := rest[65:]

	wantCommitted := snark.PublicValuesDigestForBytes(publicValuesBytes)
	if committedValuesDigest.Cmp(wantCommitted) != 0 {
		return NewError(ErrProofInvalid, "committed values digest does not match supplied public values bytes")
	}

	proof := &snark.Proof{VkeyHash: vkeyHash, CommittedValuesDigest: committedValuesDigest}
	switch backendTag {
	case 0:
		proof.Backend = config.BackendGroth16
		proof.Groth16 = groth16.NewProof(ecc.BN254)
		if _, err := proof.Groth16.ReadFrom(bytes.NewReader(payload)); err != nil {
			return WrapError(ErrProofInvalid, "decoding groth16 proof", err)
		}
	case 1:
		proof.Backend = config.BackendPlonk
		proof.Plonk = plonk.NewProof(ecc.BN254)
		if _, err := proof.Plonk.ReadFrom(bytes.NewReader(payload)); err != nil {
			return WrapError(ErrProofInvalid, "decoding plonk proof", err)
		}
	default:
		return NewError(ErrProofInvalid, fmt.Sprintf("unknown backend tag %d", backendTag))
	}

	if err := snark.Verify(vk.SNARKVerify, proof); err != nil {
		return WrapError(ErrProofInvalid, "verifying snark wrap", err)
	}
	return nil
}

func writeBigInt32(buf *bytes.Buffer, v *big.Int) {
	var b [32]byte
	v.FillBytes(b[:])
	buf.Write(b[:])
}
