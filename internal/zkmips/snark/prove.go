package snark

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/frontend"

	"github.com/zkmips/zkmips/internal/zkmips/config"
)

// Proof is the backend-tagged SNARK output a wrapped receipt carries
// (spec "Receipt ... wrapped (a single SNARK)").
type Proof struct {
	Backend               config.SNARKBackend
	Groth16               groth16.Proof
	Plonk                 plonk.Proof
	VkeyHash              *big.Int
	CommittedValuesDigest *big.Int
}

// Prove runs the chosen backend's proving algorithm over in's assignment
// against the fixed circuit artifacts's keys, mirroring
// succinctlabs-sp1__main.go's prove subcommand (frontend.NewWitness,
// groth16.Prove, groth16.Verify as an immediate sanity check before the
// proof is returned).
func Prove(artifacts *ProvingArtifacts, in *WitnessInput) (*Proof, error) {
	assignment := BuildAssignment(in)
	vkeyHash, pvDigest := PublicInputs(in)

	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("snark: building witness: %w", err)
	}
	publicWitness, err := witness.Public()
	if err != nil {
		return nil, fmt.Errorf("snark: extracting public witness: %w", err)
	}

	switch artifacts.Backend {
	case config.BackendGroth16:
		proof, err := groth16.Prove(artifacts.CCS, artifacts.Groth16PK, witness)
		if err != nil {
			return nil, fmt.Errorf("snark: groth16 prove: %w", err)
		}
		if err := groth16.Verify(proof, artifacts.Groth16VK, publicWitness); err != nil {
			return nil, fmt.Errorf("snark: groth16 self-check failed: %w", err)
		}
		return &Proof{
			Backend:               artifacts.Backend,
			Groth16:               proof,
			VkeyHash:              vkeyHash,
			CommittedValuesDigest: pvDigest,
		}, nil

	case config.BackendPlonk:
		proof, err := plonk.Prove(artifacts.CCS, artifacts.PlonkPK, witness)
		if err != nil {
			return nil, fmt.Errorf("snark: plonk prove: %w", err)
		}
		if err := plonk.Verify(proof, artifacts.PlonkVK, publicWitness); err != nil {
			return nil, fmt.Errorf("snark: plonk self-check failed: %w", err)
		}
		return &Proof{
			Backend:               artifacts.Backend,
			Plonk:                 proof,
			VkeyHash:              vkeyHash,
			CommittedValuesDigest: pvDigest,
		}, nil

	default:
		return nil, fmt.Errorf("snark: unknown backend %q", artifacts.Backend)
	}
}
