package chips

import (
	"fmt"

	"github.com/zkmips/zkmips/internal/zkmips/air"
	"github.com/zkmips/zkmips/internal/zkmips/core"
	"github.com/zkmips/zkmips/internal/zkmips/mips"
)

// familyTag assigns each instruction family a small distinct field
// element, the CPU chip's selector value driving which ALU/branch/jump/
// memory/syscall chip a given row's operands are re-sent to (spec §4.2
// "exactly one instruction-family selector is set per live row").
func familyTag(f mips.Family) core.Elem { return core.NewElem(uint64(f)) }

// CPUChip is the central chip every cycle passes through (spec §4.2
// "CPU chip"): it proves the fetched word matches the program chip's
// table, and re-sends the cycle's operands to whichever family chip
// owns this instruction, via named buses the AIR machine balances.
//
// Columns: pc, next_pc, shard, clock, instr_word, family_tag, is_halt.
type CPUChip struct{ air.BaseChip }

func (CPUChip) Name() string   { return "cpu" }
func (CPUChip) MainWidth() int { return 7 }

func (CPUChip) PaddingRow() air.Row {
	return air.Row{Main: make([]core.Elem, 7), IsReal: false}
}

func (CPUChip) GenerateRows(events []any) ([]air.Row, error) {
	rows := make([]air.Row, len(events))
	for i, ev := range events {
		e, ok := ev.(mips.CPUEvent)
		if !ok {
			return nil, fmt.Errorf("chips: cpu chip received non-CPUEvent %T", ev)
		}
		family := e.Instr.Family()
		main := []core.Elem{
			elemU32(e.PC), elemU32(e.NextPC),
			core.NewElem(e.Shard), core.NewElem(e.Clock),
			elemU32(e.Word),
			familyTag(family),
			boolAsElem(e.IsHalt),
		}
		rows[i] = air.Row{
			Main:   main,
			IsReal: true,
			Interactions: []air.Interaction{{
				Bus: "program", Kind: air.BusReceive,
				Tuple: []core.Elem{main[0], main[4]}, Multiplicity: core.One,
			}},
		}
	}
	return rows, nil
}

func boolAsElem(b bool) core.Elem {
	if b {
		return core.One
	}
	return core.Zero
}

// EvalConstraints enforces is_halt's boolean-ness, and that clock is
// strictly increasing between two consecutive live, same-shard rows
// (spec §4.2 "CPU chip", §8 invariant "monotone clock").
func (CPUChip) EvalConstraints(cur, next air.Row, preprocessed []core.Elem) []core.Elem {
	isHalt := cur.Main[6]
	constraints := []core.Elem{boolConstraint(isHalt)}
	if cur.IsReal && next.IsReal && cur.Main[2] == next.Main[2] {
		curClock, nextClock := cur.Main[3], next.Main[3]
		constraints = append(constraints, nextClock.Sub(curClock).Sub(core.One))
	}
	return constraints
}
