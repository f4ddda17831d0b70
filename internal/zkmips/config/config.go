// Package config holds the tunable parameters of the proving pipeline,
// following the teacher's utils.Config (validated struct + functional
// With... options) generalized from a single-field STARK demo to the
// full shard/FRI/recursion/SNARK parameter set spec §6 "maximal shapes"
// and §4.3-§4.5 require.
package config

import "fmt"

// SNARKBackend selects the final wrapping proof system (spec §4.5).
type SNARKBackend string

const (
	BackendGroth16 SNARKBackend = "groth16"
	BackendPlonk   SNARKBackend = "plonk"
)

// ChipShapes caps the padded row count the executor will allow any one
// chip to reach within a shard before the shard is closed (spec §4.1
// "Sharding": "Shard ceilings are chosen so the padded height of every
// chip fits a predeclared 'shape'").
type ChipShapes map[string]int

// DefaultChipShapes returns the maximal per-chip row ceilings used when a
// caller doesn't override them. Values are powers of two, matching the
// padded-height requirement of the trace matrices (spec §3).
func DefaultChipShapes() ChipShapes {
	return ChipShapes{
		"cpu":              1 << 21,
		"add_sub":          1 << 20,
		"mul":              1 << 19,
		"divrem":           1 << 18,
		"shift_left":       1 << 18,
		"shift_right":      1 << 18,
		"bitwise":          1 << 19,
		"lt":               1 << 18,
		"clz_clo":          1 << 17,
		"memory_instr":     1 << 20,
		"branch":           1 << 19,
		"jump":             1 << 18,
		"syscall":          1 << 16,
		"global":           1 << 18,
		"sha_extend":       1 << 16,
		"sha_compress":     1 << 16,
		"keccak_sponge":    1 << 15,
		"ed_decompress":    1 << 14,
		"poseidon2_permute": 1 << 16,
	}
}

// Config is the end-to-end tunable surface of setup/execute/prove/verify
// (spec §4.6).
type Config struct {
	// FRI parameters (spec §4.3 step 5).
	BlowupFactor int // beta: LDE domain size = height * 2^BlowupFactor
	NumQueries   int // soundness-amplification query repetitions
	ProofOfWorkBits int // grind difficulty absorbed into the transcript

	// Sharding (spec §4.1, §3 "Shard").
	ChipShapes ChipShapes
	MaxCycles  uint64 // cycle budget before InvalidExecution (spec §7)

	// Deferred proofs (spec §9 Open Question 3, resolved in SPEC_FULL.md).
	MaxDeferredProofs int

	// Recursion (spec §4.4).
	RecursionBatchSize int // number of shard/reduce proofs per first-layer node

	// SNARK wrapping (spec §4.5, §6).
	Backend             SNARKBackend
	TrustedSetupPath    string
	PowersOfTauPath     string

	// Logging (SPEC_FULL.md E1).
	LogLevel string
}

// DefaultConfig mirrors the teacher's DefaultConfig constructor style.
func DefaultConfig() *Config {
	return &Config{
		BlowupFactor:       3,
		NumQueries:         80,
		ProofOfWorkBits:    16,
		ChipShapes:         DefaultChipShapes(),
		MaxCycles:          1 << 30,
		MaxDeferredProofs:  64,
		RecursionBatchSize: 2,
		Backend:            BackendGroth16,
		LogLevel:           "info",
	}
}

// Validate checks internal consistency, in the teacher's Validate style.
func (c *Config) Validate() error {
	if c.BlowupFactor < 1 {
		return fmt.Errorf("config: blowup factor must be >= 1")
	}
	if c.NumQueries <= 0 {
		return fmt.Errorf("config: num queries must be positive")
	}
	if c.ProofOfWorkBits < 0 || c.ProofOfWorkBits > 30 {
		return fmt.Errorf("config: proof-of-work bits must be in [0, 30]")
	}
	if len(c.ChipShapes) == 0 {
		return fmt.Errorf("config: chip shapes must not be empty")
	}
	for name, h := range c.ChipShapes {
		if h <= 0 || h&(h-1) != 0 {
			return fmt.Errorf("config: chip %q shape %d is not a positive power of two", name, h)
		}
	}
	if c.MaxCycles == 0 {
		return fmt.Errorf("config: max cycles must be positive")
	}
	if c.MaxDeferredProofs <= 0 {
		return fmt.Errorf("config: max deferred proofs must be positive")
	}
	if c.RecursionBatchSize < 2 {
		return fmt.Errorf("config: recursion batch size must be >= 2")
	}
	if c.Backend != BackendGroth16 && c.Backend != BackendPlonk {
		return fmt.Errorf("config: unknown SNARK backend %q", c.Backend)
	}
	return nil
}

// WithBackend sets the SNARK backend, functional-options style.
func (c *Config) WithBackend(b SNARKBackend) *Config {
	c.Backend = b
	return c
}

// WithChipShapes overrides the default chip ceilings.
func (c *Config) WithChipShapes(shapes ChipShapes) *Config {
	c.ChipShapes = shapes
	return c
}

// Clone returns a deep-enough copy for independent mutation.
func (c *Config) Clone() *Config {
	clone := *c
	clone.ChipShapes = make(ChipShapes, len(c.ChipShapes))
	for k, v := range c.ChipShapes {
		clone.ChipShapes[k] = v
	}
	return &clone
}
