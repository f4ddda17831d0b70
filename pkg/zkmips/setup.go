package zkmips

import (
	"github.com/zkmips/zkmips/internal/zkmips/chips"
	"github.com/zkmips/zkmips/internal/zkmips/config"
	"github.com/zkmips/zkmips/internal/zkmips/core"
	"github.com/zkmips/zkmips/internal/zkmips/mips"
	"github.com/zkmips/zkmips/internal/zkmips/snark"
)

// Setup builds the proving/verifying key pair for one program image
// (spec §4.6 "setup(program_image) -> (proving_key, verifying_key,
// vk_digest)"). It eagerly compiles and key-generates the wrap SNARK
// circuit for cfg.Backend, so a later Prove call in ModePlonk/ModeGroth16
// never pays R1CS/PLONK compilation inside the per-input-stream call.
func Setup(programImage []byte, cfg *config.Config) (*ProvingKey, *VerifyingKey, core.Digest, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, core.Digest{}, WrapError(ErrInternalError, "invalid config", err)
	}

	prog, err := mips.LoadELF(programImage)
	if err != nil {
		return nil, nil, core.Digest{}, WrapError(ErrInvalidExecution, "loading program image", err)
	}
	programDigest := mips.ProgramDigest(prog)

	machine, busNames, err := chips.NewMachine(prog.Words)
	if err != nil {
		return nil, nil, core.Digest{}, WrapError(ErrInternalError, "assembling chip machine", err)
	}

	vk := computeVKDigest(programDigest, cfg)

	artifacts, err := snark.Setup(cfg, core.DigestWidth, snark.RecursionReduceLimbCount, snark.RecursionPVLimbCount)
	if err != nil {
		return nil, nil, core.Digest{}, WrapError(ErrSetupArtifactCorrupted, "snark wrap setup", err)
	}

	pk := &ProvingKey{
		Program:        prog,
		ProgramDigest:  programDigest,
		Machine:        machine,
		BusNames:       busNames,
		Config:         cfg,
		SNARKArtifacts: artifacts,
	}
	vkey := &VerifyingKey{
		ProgramDigest: programDigest,
		VKDigest:      vk,
		BusNames:      busNames,
		Config:        cfg,
		SNARKVerify:   artifacts,
	}
	return pk, vkey, vk, nil
}

// computeVKDigest folds the program's identity together with every
// parameter that changes what counts as a valid proof for it (spec §7
// "VerifierSelectorMismatch: proof bytes prefix doesn't match the
// verifier's expected VK hash prefix" implies the VK digest must be
// sensitive to the proving configuration, not just the program).
func computeVKDigest(programDigest core.Digest, cfg *config.Config) core.Digest {
	elems := make([]core.Elem, 0, core.DigestWidth+4)
	elems = append(elems, programDigest[:]...)
	elems = append(elems,
		core.NewElemFromInt64(int64(cfg.BlowupFactor)),
		core.NewElemFromInt64(int64(cfg.NumQueries)),
		core.NewElemFromInt64(int64(cfg.ProofOfWorkBits)),
		core.NewElemFromInt64(int64(cfg.RecursionBatchSize)),
	)
	return core.Poseidon2Hash(elems)
}
