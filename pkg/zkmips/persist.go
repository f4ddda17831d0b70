package zkmips

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zkmips/zkmips/internal/zkmips/chips"
	"github.com/zkmips/zkmips/internal/zkmips/config"
	"github.com/zkmips/zkmips/internal/zkmips/core"
	"github.com/zkmips/zkmips/internal/zkmips/mips"
	"github.com/zkmips/zkmips/internal/zkmips/snark"
)

// Save persists everything Setup produced that a later process can't
// cheaply recompute on its own: the proving configuration and the
// SNARK wrap's compiled circuit plus key pair (spec §4.5's Groth16/
// Plonk setup consumes randomness a fresh Setup call can never
// reproduce, so prove/verify running as separate CLI invocations must
// share the exact artifacts one setup call produced, not a
// freshly-regenerated pair). The program image, chip machine, and
// program digest are deterministic functions of programImage and are
// recomputed by Load rather than serialized here.
func Save(dir string, pk *ProvingKey) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("zkmips: creating key dir: %w", err)
	}
	cfgBytes, err := json.MarshalIndent(pk.Config, "", "  ")
	if err != nil {
		return fmt.Errorf("zkmips: encoding config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), cfgBytes, 0o644); err != nil {
		return fmt.Errorf("zkmips: writing config: %w", err)
	}
	return snark.SaveArtifacts(filepath.Join(dir, "snark"), pk.SNARKArtifacts)
}

// Load reconstructs a ProvingKey/VerifyingKey pair for programImage
// from a directory Save wrote, without re-running SNARK key generation.
func Load(dir string, programImage []byte) (*ProvingKey, *VerifyingKey, core.Digest, error) {
	cfgBytes, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		return nil, nil, core.Digest{}, WrapError(ErrInternalError, "reading saved config", err)
	}
	cfg := &config.Config{}
	if err := json.Unmarshal(cfgBytes, cfg); err != nil {
		return nil, nil, core.Digest{}, WrapError(ErrInternalError, "decoding saved config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, core.Digest{}, WrapError(ErrInternalError, "invalid saved config", err)
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

	artifacts, err := snark.LoadArtifacts(filepath.Join(dir, "snark"))
	if err != nil {
		return nil, nil, core.Digest{}, WrapError(ErrSetupArtifactCorrupted, "loading snark artifacts", err)
	}

	vk := computeVKDigest(programDigest, cfg)
	pk := &ProvingKey{Program: prog, ProgramDigest: programDigest, Machine: machine, BusNames: busNames, Config: cfg, SNARKArtifacts: artifacts}
	vkey := &VerifyingKey{ProgramDigest: programDigest, VKDigest: vk, BusNames: busNames, Config: cfg, SNARKVerify: artifacts}
	return pk, vkey, vk, nil
}
