package air

import (
	"fmt"

	"github.com/zkmips/zkmips/internal/zkmips/core"
)

// ChipTrace is one chip's fully-padded trace for one shard: the main
// column matrix, the per-row is_real flags, and the interactions each
// live row declared (used to build the lookup bus's LogUp columns).
type ChipTrace struct {
	Chip         Chip
	Main         core.Matrix
	IsReal       []bool
	Interactions [][]Interaction
}

// nextPowerOfTwo rounds n up to the nearest power of two, at least 1.
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// BuildChipTrace runs a chip's event-to-row fill and pads the result to a
// power-of-two height with the chip's canonical padding row (spec §3
// "Trace matrix": "Rows correspond to events of that chip's type in that
// shard (padded with canonical no-op rows up to a power of two)").
func BuildChipTrace(chip Chip, events []any) (*ChipTrace, error) {
	rows, err := chip.GenerateRows(events)
	if err != nil {
		return nil, fmt.Errorf("air: chip %s: %w", chip.Name(), err)
	}
	height := nextPowerOfTwo(len(rows))
	padding := chip.PaddingRow()

	main := make([][]core.Elem, height)
	isReal := make([]bool, height)
	interactions := make([][]Interaction, height)
	for i := 0; i < height; i++ {
		if i < len(rows) {
			r := rows[i]
			if len(r.Main) != chip.MainWidth() {
				return nil, fmt.Errorf("air: chip %s: row %d has width %d, want %d", chip.Name(), i, len(r.Main), chip.MainWidth())
			}
			main[i] = r.Main
			isReal[i] = r.IsReal
			interactions[i] = r.Interactions
		} else {
			main[i] = padding.Main
			isReal[i] = padding.IsReal
			interactions[i] = padding.Interactions
		}
	}

	return &ChipTrace{
		Chip:         chip,
		Main:         core.Matrix{Rows: main},
		IsReal:       isReal,
		Interactions: interactions,
	}, nil
}

// CheckConstraints evaluates every row-pair of a chip's trace against its
// own constraint set, returning the first violation found, if any (used
// by the prover to self-check before committing, per spec §7
// "TraceConstraintViolation ... surfaced rather than producing an
// unverifiable proof").
func CheckConstraints(trace *ChipTrace) error {
	height := trace.Main.Height()
	preprocessed := trace.Chip.Preprocessed()
	for i := 0; i < height; i++ {
		next := i + 1
		if next == height {
			next = 0 // wraparound row pair, standard AIR convention
		}
		cur := Row{Main: trace.Main.Rows[i], IsReal: trace.IsReal[i], Interactions: trace.Interactions[i]}
		nxt := Row{Main: trace.Main.Rows[next], IsReal: trace.IsReal[next], Interactions: trace.Interactions[next]}
		var preRow []core.Elem
		if i < len(preprocessed) {
			preRow = preprocessed[i]
		}
		for ci, v := range trace.Chip.EvalConstraints(cur, nxt, preRow) {
			if !v.IsZero() {
				return fmt.Errorf("air: chip %s row %d constraint %d violated", trace.Chip.Name(), i, ci)
			}
		}
	}
	return nil
}
