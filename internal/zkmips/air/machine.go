package air

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/zkmips/zkmips/internal/zkmips/core"
)

// Machine composes a fixed set of chips into one AIR (spec §4.2 "Generic
// engine that takes a set of chips, builds per-chip trace matrices,
// enforces per-chip constraints, and runs lookup arguments across
// chips"). It is immutable after construction and safe to reuse across
// shards.
type Machine struct {
	chips []Chip
}

// NewMachine registers the chip set the machine will build traces for.
func NewMachine(chips []Chip) *Machine {
	return &Machine{chips: chips}
}

// Chips returns the registered chip set in registration order.
func (m *Machine) Chips() []Chip {
	return m.chips
}

// ShardWitness is the full set of per-chip traces for one shard, ready to
// be committed and opened by the STARK protocol layer.
type ShardWitness struct {
	Traces map[string]*ChipTrace
}

// BuildShardWitness fills every chip's trace from its slice of this
// shard's events in parallel (spec §5: "within a shard, chip trace
// generation is parallel across chips (no shared mutable state)"),
// grounded in the pack's golang.org/x/sync/errgroup usage
// (YolaYing-eonark-gpu).
func (m *Machine) BuildShardWitness(eventsByChip map[string][]any) (*ShardWitness, error) {
	traces := make(map[string]*ChipTrace, len(m.chips))
	var mu sync.Mutex
	var g errgroup.Group
	for _, chip := range m.chips {
		chip := chip
		g.Go(func() error {
			trace, err := BuildChipTrace(chip, eventsByChip[chip.Name()])
			if err != nil {
				return err
			}
			mu.Lock()
			traces[chip.Name()] = trace
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("air: building shard witness: %w", err)
	}
	return &ShardWitness{Traces: traces}, nil
}

// SelfCheck validates every chip's local constraints and every bus's
// cross-chip balance, the prover-side sanity pass spec §7 describes for
// TraceConstraintViolation / MemoryConsistencyFailure.
func (m *Machine) SelfCheck(witness *ShardWitness, busNames []string, alpha, beta core.Ext4) error {
	for _, chip := range m.chips {
		trace, ok := witness.Traces[chip.Name()]
		if !ok {
			return fmt.Errorf("air: missing trace for chip %s", chip.Name())
		}
		if err := CheckConstraints(trace); err != nil {
			return err
		}
	}
	for _, bus := range busNames {
		var columns []*LogUpColumn
		for _, chip := range m.chips {
			trace := witness.Traces[chip.Name()]
			col, err := BuildLogUpColumn(bus, trace.Interactions, alpha, beta)
			if err != nil {
				return err
			}
			columns = append(columns, col)
		}
		if err := CheckBusBalance(columns); err != nil {
			return err
		}
	}
	return nil
}
