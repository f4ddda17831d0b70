// Package air implements the generic AIR machine (spec §4.2, §9 "Chip
// polymorphism"): chips are a closed, tagged set of trace-producing,
// constraint-enforcing, bus-interacting units; the machine composes them
// without any chip knowing about any other chip directly, only through
// named lookup buses.
package air

import "github.com/zkmips/zkmips/internal/zkmips/core"

// BusKind distinguishes a chip's role on a named lookup bus (spec §3
// "Lookup bus").
type BusKind int

const (
	BusSend BusKind = iota
	BusReceive
)

// Interaction describes one row's contribution to a named bus: the tuple
// of field elements sent or received, and a multiplicity (usually 1).
type Interaction struct {
	Bus          string
	Kind         BusKind
	Tuple        []core.Elem
	Multiplicity core.Elem
}

// Row is one row of a chip's main trace, plus the chip-local "is_real" bit
// that distinguishes a live event row from a canonical padding row (spec
// §3 "Trace matrix": "padded with canonical no-op rows").
type Row struct {
	Main         []core.Elem
	IsReal       bool
	Interactions []Interaction
}

// Chip is the capability set every AIR component implements (spec §9):
// "emit columns, fill trace row from event, enforce constraints, send/
// receive on named buses." Event is `any` because each chip's event
// payload type differs (CPU events, ALU events, memory events, ...); the
// machine never inspects an event's shape itself, only hands it to the
// owning chip.
type Chip interface {
	// Name identifies the chip, used in trace/commitment diagnostics and
	// as the AIR's internal chip tag.
	Name() string

	// MainWidth is the fixed column count of this chip's main trace.
	MainWidth() int

	// PreprocessedWidth is the fixed column count of this chip's
	// preprocessed trace (0 if the chip has none).
	PreprocessedWidth() int

	// Preprocessed returns this chip's preprocessed trace, fixed at setup
	// time and independent of any particular run (spec §4.2 "Program
	// chip (preprocessed)", "Bytes chip (preprocessed)").
	Preprocessed() [][]core.Elem

	// GenerateRows consumes this chip's events for one shard and produces
	// live trace rows (not yet padded to a power of two); the AIR machine
	// pads with PaddingRow() afterwards.
	GenerateRows(events []any) ([]Row, error)

	// PaddingRow returns the canonical no-op row used to pad this chip's
	// trace up to a power of two height.
	PaddingRow() Row

	// EvalConstraints evaluates every constraint polynomial of this chip
	// at one (current, next) row pair, with the matching preprocessed
	// row if any; a valid trace makes every returned value zero (spec
	// §4.2 per-chip constraint descriptions, §4.3 step 3 "Constraint
	// combination").
	EvalConstraints(cur, next Row, preprocessedRow []core.Elem) []core.Elem
}

// BaseChip provides the embeddable defaults most chips share (no
// preprocessed columns), matching the teacher's preference for small
// composable structs over deep inheritance (spec §9).
type BaseChip struct{}

func (BaseChip) PreprocessedWidth() int      { return 0 }
func (BaseChip) Preprocessed() [][]core.Elem { return nil }
