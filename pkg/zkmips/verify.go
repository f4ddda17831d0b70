package zkmips

import (
	"fmt"

	"github.com/zkmips/zkmips/internal/zkmips/recursion"
	"github.com/zkmips/zkmips/internal/zkmips/snark"
	"github.com/zkmips/zkmips/internal/zkmips/stark"
	"github.com/zkmips/zkmips/internal/zkmips/transcript"
)

// Verify checks a receipt against its verifying key (spec §4.6
// "verify(verifying_key, receipt) -> ok | ErrorKind"), dispatching on
// the receipt's mode to the matching pipeline stage's verifier.
func Verify(vk *VerifyingKey, receipt *Receipt) error {
	if receipt.VKDigest != vk.VKDigest {
		return NewError(ErrVerifierSelectorMismatch, "receipt verifying-key digest does not match")
	}

	switch receipt.Mode {
	case ModeCore:
		return verifyCore(vk, receipt)
	case ModeCompressed:
		return verifyCompressed(vk, receipt)
	case ModePlonk, ModeGroth16:
		if err := verifyCompressed(vk, receipt); err != nil {
			return err
		}
		return verifyWrapped(vk, receipt)
	default:
		return NewError(ErrInternalError, fmt.Sprintf("unknown receipt mode %q", receipt.Mode))
	}
}

func verifyCore(vk *VerifyingKey, receipt *Receipt) error {
	if len(receipt.CoreProofs) == 0 {
		return NewError(ErrProofInvalid, "core receipt carries no shard proofs")
	}
	for _, sr := range receipt.CoreProofs {
		var proof stark.ShardProof
		if err := decodeGob(sr.Proof, &proof); err != nil {
			return WrapError(ErrProofInvalid, "decoding shard proof", err)
		}
		tr := transcript.New()
		tr.AbsorbDigest("vkey", vk.VKDigest)
		if err := stark.Verify(&proof, vk.BusNames, vk.Config, tr); err != nil {
			return WrapError(ErrProofInvalid, fmt.Sprintf("shard %d", proof.Public.ShardIndex), err)
		}
	}
	return nil
}

func verifyCompressed(vk *VerifyingKey, receipt *Receipt) error {
	if receipt.CompressedProof == nil {
		return NewError(ErrProofInvalid, "receipt carries no compressed proof")
	}
	var reduce recursion.ReduceProof
	if err := decodeGob(receipt.CompressedProof.Reduce, &reduce); err != nil {
		return WrapError(ErrProofInvalid, "decoding reduce proof", err)
	}
	var proof stark.ShardProof
	if err := decodeGob(receipt.CompressedProof.STARK, &proof); err != nil {
		return WrapError(ErrProofInvalid, "decoding recursion stark proof", err)
	}
	if reduce.VKDigest != vk.VKDigest || reduce.ProgramDigest != vk.ProgramDigest {
		return NewError(ErrVerifierSelectorMismatch, "reduce proof identity does not match verifying key")
	}
	if !reduce.Complete {
		return NewError(ErrDeferredObligationUnfulfilled, "reduce proof has unresolved deferred obligations")
	}
	if err := recursion.VerifyRecursion(&reduce, &proof, vk.Config); err != nil {
		return WrapError(ErrProofInvalid, "verifying recursion stark", err)
	}
	return nil
}

func verifyWrapped(vk *VerifyingKey, receipt *Receipt) error {
	if receipt.SNARKProof == nil {
		return NewError(ErrProofInvalid, "wrapped receipt carries no snark proof")
	}
	if err := snark.Verify(vk.SNARKVerify, receipt.SNARKProof); err != nil {
		return WrapError(ErrProofInvalid, "verifying snark wrap", err)
	}
	return nil
}
