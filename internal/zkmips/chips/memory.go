package chips

import (
	"fmt"

	"github.com/zkmips/zkmips/internal/zkmips/air"
	"github.com/zkmips/zkmips/internal/zkmips/core"
	"github.com/zkmips/zkmips/internal/zkmips/mips"
)

// MemoryChip constrains one shard's load/store address arithmetic and
// width tagging (spec §4.2 "Memory chips"). Each row sends (addr, value)
// on the "memory" bus; no chip in this package receives on that bus, and
// the global chip below has no bus interactions.
//
// Columns: addr, is_store, width, value.
type MemoryChip struct{ air.BaseChip }

func (MemoryChip) Name() string   { return "memory_instr" }
func (MemoryChip) MainWidth() int { return 4 }

func (MemoryChip) PaddingRow() air.Row {
	return air.Row{Main: make([]core.Elem, 4), IsReal: false}
}

func (MemoryChip) GenerateRows(events []any) ([]air.Row, error) {
	rows := make([]air.Row, len(events))
	for i, ev := range events {
		e, ok := ev.(mips.MemoryAccessEvent)
		if !ok {
			return nil, fmt.Errorf("chips: memory chip received non-MemoryAccessEvent %T", ev)
		}
		main := []core.Elem{elemU32(e.Addr), boolAsElem(e.IsStore), core.NewElem(uint64(e.Width)), elemU32(e.Value)}
		rows[i] = air.Row{
			Main:   main,
			IsReal: true,
			Interactions: []air.Interaction{{
				Bus: "memory", Kind: air.BusSend,
				Tuple: []core.Elem{main[0], main[3]}, Multiplicity: core.One,
			}},
		}
	}
	return rows, nil
}

func (MemoryChip) EvalConstraints(cur, next air.Row, preprocessed []core.Elem) []core.Elem {
	if !cur.IsReal {
		return nil
	}
	width := cur.Main[2]
	// width must be one of {1, 2, 4}: (w-1)(w-2)(w-4) == 0.
	one, two, four := core.One, core.NewElem(2), core.NewElem(4)
	widthCheck := width.Sub(one).Mul(width.Sub(two)).Mul(width.Sub(four))
	return []core.Elem{boolConstraint(cur.Main[1]), widthCheck}
}

// GlobalChip records every address's initial value (MemoryInitEvent,
// zero unless the loader preset it) and its final value at shard close
// (MemoryFinalizeEvent) (spec §4.2 "Global memory chip").
//
// Columns: addr, value, and a flag that is 0 on init rows and 1 on
// finalize rows. The only constraint is that the flag is boolean, and
// the chip has no bus interactions. Cross-shard consistency is carried
// outside the trace by Accumulate below, which folds the same
// address/value pairs into a core.MultisetAccumulator (grounded on the
// teacher's core/multiset_hash.go); the accumulator's sum becomes the
// shard's MemoryAccumulator public value, and matching init/finalize
// pairs cancel to the group identity once every shard's sum is merged.
type GlobalChip struct {
	air.BaseChip
}

func (GlobalChip) Name() string   { return "global" }
func (GlobalChip) MainWidth() int { return 3 }

func (GlobalChip) PaddingRow() air.Row {
	return air.Row{Main: make([]core.Elem, 3), IsReal: false}
}

// GenerateRows accepts a mixed slice of mips.MemoryInitEvent and
// mips.MemoryFinalizeEvent, tagging each row with a flag (0 init, 1
// finalize) so EvalConstraints
// (and the surrounding shard-boundary check outside this package) can
// tell the two apart.
func (GlobalChip) GenerateRows(events []any) ([]air.Row, error) {
	rows := make([]air.Row, 0, len(events))
	for _, ev := range events {
		switch e := ev.(type) {
		case mips.MemoryInitEvent:
			rows = append(rows, air.Row{
				Main:   []core.Elem{elemU32(e.Addr), elemU32(e.Value), core.Zero},
				IsReal: true,
			})
		case mips.MemoryFinalizeEvent:
			rows = append(rows, air.Row{
				Main:   []core.Elem{elemU32(e.Addr), elemU32(e.Value), core.One},
				IsReal: true,
			})
		default:
			return nil, fmt.Errorf("chips: global chip received unexpected event %T", ev)
		}
	}
	return rows, nil
}

func (GlobalChip) EvalConstraints(cur, next air.Row, preprocessed []core.Elem) []core.Elem {
	return []core.Elem{boolConstraint(cur.Main[2])}
}

// Accumulate folds a shard's init/finalize rows into a running
// multiset-hash accumulator: init events are received (their value is
// "owed" from the prior shard or the loader), finalize events are sent
// (this shard "produces" that final value for the next one).
func Accumulate(acc *core.MultisetAccumulator, inits []mips.MemoryInitEvent, finals []mips.MemoryFinalizeEvent) {
	for _, e := range inits {
		acc.Absorb(core.TagReceive, []core.Elem{elemU32(e.Addr), elemU32(e.Value)})
	}
	for _, e := range finals {
		acc.Absorb(core.TagSend, []core.Elem{elemU32(e.Addr), elemU32(e.Value)})
	}
}
