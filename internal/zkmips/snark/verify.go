package snark

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/frontend"

	"github.com/zkmips/zkmips/internal/zkmips/config"
)

// Verify checks a wrapped SNARK proof against its fixed verifying key
// and the two public commitments it claims (spec §4.5's proof "suitable
// for on-chain verification"): only the two public values and the proof
// bytes are needed, not the private limbs Prove consumed.
func Verify(artifacts *ProvingArtifacts, proof *Proof) error {
	if proof.Backend != artifacts.Backend {
		return fmt.Errorf("snark: proof backend %q does not match artifacts backend %q", proof.Backend, artifacts.Backend)
	}

	// Secret limbs are irrelevant to verification but must be present
	// and correctly shaped for frontend.NewWitness to accept the
	// assignment; frontend.PublicOnly() below then strips them back out.
	publicAssignment := NewCircuit(artifacts.VKLimbCount, artifacts.ReduceLimbCount, artifacts.PVLimbCount)
	for i := range publicAssignment.VKLimbs {
		publicAssignment.VKLimbs[i] = 0
	}
	for i := range publicAssignment.ReduceLimbs {
		publicAssignment.ReduceLimbs[i] = 0
	}
	for i := range publicAssignment.PVLimbs {
		publicAssignment.PVLimbs[i] = 0
	}
	publicAssignment.VkeyHash = proof.VkeyHash
	publicAssignment.CommittedValuesDigest = proof.CommittedValuesDigest

	witness, err := frontend.NewWitness(publicAssignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("snark: building public witness: %w", err)
	}

	switch artifacts.Backend {
	case config.BackendGroth16:
		if err := groth16.Verify(proof.Groth16, artifacts.Groth16VK, witness); err != nil {
			return fmt.Errorf("snark: groth16 verify: %w", err)
		}
		return nil
	case config.BackendPlonk:
		if err := plonk.Verify(proof.Plonk, artifacts.PlonkVK, witness); err != nil {
			return fmt.Errorf("snark: plonk verify: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("snark: unknown backend %q", artifacts.Backend)
	}
}
