package snark

import (
	"math/big"
	"path/filepath"
	"testing"

	"github.com/zkmips/zkmips/internal/zkmips/config"
	"github.com/zkmips/zkmips/internal/zkmips/core"
)

func smallWitness() *WitnessInput {
	return &WitnessInput{
		VKDigest:    core.Poseidon2Hash([]core.Elem{core.One}),
		ReduceLimbs: []*big.Int{big.NewInt(1), big.NewInt(2)},
		PVLimbs:     []*big.Int{big.NewInt(3), big.NewInt(4)},
	}
}

func TestSetupProveVerifyRoundTripGroth16(t *testing.T) {
	cfg := config.DefaultConfig().WithBackend(config.BackendGroth16)
	artifacts, err := Setup(cfg, core.DigestWidth, 2, 2)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	proof, err := Prove(artifacts, smallWitness())
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if err := Verify(artifacts, proof); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestSaveLoadArtifactsRoundTrip(t *testing.T) {
	cfg := config.DefaultConfig().WithBackend(config.BackendGroth16)
	artifacts, err := Setup(cfg, core.DigestWidth, 2, 2)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "artifacts")
	if err := SaveArtifacts(dir, artifacts); err != nil {
		t.Fatalf("SaveArtifacts: %v", err)
	}

	loaded, err := LoadArtifacts(dir)
	if err != nil {
		t.Fatalf("LoadArtifacts: %v", err)
	}
	if loaded.Backend != artifacts.Backend {
		t.Fatalf("expected backend %v, got %v", artifacts.Backend, loaded.Backend)
	}
	if loaded.VKLimbCount != artifacts.VKLimbCount || loaded.ReduceLimbCount != artifacts.ReduceLimbCount || loaded.PVLimbCount != artifacts.PVLimbCount {
		t.Fatal("expected limb counts to round-trip unchanged")
	}

	proof, err := Prove(loaded, smallWitness())
	if err != nil {
		t.Fatalf("Prove with loaded artifacts: %v", err)
	}
	if err := Verify(loaded, proof); err != nil {
		t.Fatalf("Verify with loaded artifacts: %v", err)
	}
}
