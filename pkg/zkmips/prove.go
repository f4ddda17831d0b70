package zkmips

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/zkmips/zkmips/internal/zkmips/chips"
	"github.com/zkmips/zkmips/internal/zkmips/config"
	"github.com/zkmips/zkmips/internal/zkmips/core"
	"github.com/zkmips/zkmips/internal/zkmips/mips"
	"github.com/zkmips/zkmips/internal/zkmips/recursion"
	"github.com/zkmips/zkmips/internal/zkmips/snark"
	"github.com/zkmips/zkmips/internal/zkmips/stark"
	"github.com/zkmips/zkmips/internal/zkmips/transcript"
)

// Prove executes the guest against inputStream, proves every shard, and
// reduces the result to the depth mode requests (spec §4.6
// "prove(proving_key, input_stream, mode) -> receipt", "Receipt ... Three
// flavors: core (a vector of shard proofs), compressed (a single
// recursively reduced STARK proof), wrapped (a single SNARK)").
func Prove(pk *ProvingKey, inputStream []byte, mode Mode) (*Receipt, error) {
	exec := mips.NewExecutor(pk.Config, inputStream)
	shards, err := exec.Run(pk.Program)
	if err != nil {
		return nil, WrapError(ErrInvalidExecution, "running program", err)
	}

	vkDigest := computeVKDigest(pk.ProgramDigest, pk.Config)

	shardProofs := make([]*stark.ShardProof, len(shards))
	shardResults := make([]recursion.ShardResult, len(shards))
	for i, sh := range shards {
		proof, err := proveShard(pk, sh, vkDigest)
		if err != nil {
			return nil, WrapError(ErrTraceConstraintViolation, fmt.Sprintf("proving shard %d", sh.Index), err)
		}
		shardProofs[i] = proof
		shardResults[i] = recursion.ShardResult{Proof: proof, VKDigest: vkDigest, ProgramDigest: pk.ProgramDigest}
	}

	receipt := &Receipt{VKDigest: vkDigest, PublicValues: exec.PublicValues(), Mode: mode}

	if mode == ModeCore {
		receipt.CoreProofs = make([]ShardReceipt, len(shardProofs))
		for i, p := range shardProofs {
			encoded, err := encodeGob(p)
			if err != nil {
				return nil, WrapError(ErrInternalError, "encoding shard proof", err)
			}
			receipt.CoreProofs[i] = ShardReceipt{ShardIndex: shards[i].Index, ProgramDigest: pk.ProgramDigest, Proof: encoded}
		}
		return receipt, nil
	}

	if len(exec.DeferredObligations()) > 0 {
		return nil, NewError(ErrDeferredObligationUnfulfilled, "prove does not accept nested-receipt resolutions for verify-zkm-proof obligations")
	}

	agg, err := recursion.Run(shardResults, pk.BusNames, pk.Config, nil, nil)
	if err != nil {
		return nil, WrapError(ErrShardBoundaryMismatch, "aggregating shard proofs", err)
	}

	recProof, err := recursion.ProveRecursion(agg.Proof, agg.Interpreter, pk.Config)
	if err != nil {
		return nil, WrapError(ErrTraceConstraintViolation, "proving recursion trace", err)
	}

	encodedReduce, err := encodeGob(agg.Proof)
	if err != nil {
		return nil, WrapError(ErrInternalError, "encoding reduce proof", err)
	}
	encodedSTARK, err := encodeGob(recProof)
	if err != nil {
		return nil, WrapError(ErrInternalError, "encoding recursion stark proof", err)
	}
	receipt.CompressedProof = &CompressedProof{Reduce: encodedReduce, STARK: encodedSTARK}

	if mode == ModeCompressed {
		return receipt, nil
	}

	backend := config.BackendGroth16
	if mode == ModePlonk {
		backend = config.BackendPlonk
	}
	if pk.SNARKArtifacts.Backend != backend {
		return nil, NewError(ErrInternalError, fmt.Sprintf("proving key was set up for backend %q, mode requested %q", pk.SNARKArtifacts.Backend, backend))
	}

	wrapInput, err := snark.FromReduceProof(agg.Proof, exec.PublicValues())
	if err != nil {
		return nil, WrapError(ErrInternalError, "building snark wrap witness", err)
	}
	snarkProof, err := snark.Prove(pk.SNARKArtifacts, wrapInput)
	if err != nil {
		return nil, WrapError(ErrTraceConstraintViolation, "proving snark wrap", err)
	}
	receipt.SNARKProof = snarkProof
	return receipt, nil
}

// proveShard builds one shard's chip witness and STARK proof, absorbing
// the verifying-key digest into the transcript before any challenge is
// drawn (spec §4.3 "Fiat-Shamir transcript ... seeded with the verifying
// key digest").
func proveShard(pk *ProvingKey, sh mips.Shard, vkDigest core.Digest) (*stark.ShardProof, error) {
	witness, err := pk.Machine.BuildShardWitness(chips.ToChipEvents(sh.Events))
	if err != nil {
		return nil, fmt.Errorf("building shard witness: %w", err)
	}

	acc := core.NewMultisetAccumulator()
	chips.Accumulate(acc, sh.Events.MemInit, sh.Events.MemFinal)

	pub := stark.PublicValues{
		ShardIndex:          sh.Index,
		InitialStateDigest:  stateDigest(sh.Initial),
		TerminalStateDigest: stateDigest(sh.Terminal),
		MemoryAccumulator:   acc.Sum(),
		ProgramDigest:       pk.ProgramDigest,
	}

	tr := transcript.New()
	tr.AbsorbDigest("vkey", vkDigest)
	return stark.Prove(witness, pk.BusNames, pk.Config, tr, pub)
}

// stateDigest commits to a shard boundary's full register file, the
// continuity claim the recursion layer's ShardBoundaryMismatch check
// compares across adjacent shards (spec §4.1 "terminal state becomes the
// next shard's initial state").
func stateDigest(s mips.StateSummary) core.Digest {
	elems := make([]core.Elem, 0, 36)
	elems = append(elems, core.NewElem(uint64(s.PC)))
	for _, r := range s.Regs {
		elems = append(elems, core.NewElem(uint64(r)))
	}
	elems = append(elems, core.NewElem(uint64(s.HI)), core.NewElem(uint64(s.LO)), core.NewElem(s.Clock))
	return core.Poseidon2Hash(elems)
}

func encodeGob(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
