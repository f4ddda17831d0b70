// Package precompiles implements the AIR chips for the cryptographic
// precompile syscalls (spec §4.2 "Precompile chips"), one chip per
// syscall the mips executor's syscall.go computes eagerly at run time.
package precompiles

import (
	"fmt"

	"github.com/zkmips/zkmips/internal/zkmips/air"
	"github.com/zkmips/zkmips/internal/zkmips/core"
	"github.com/zkmips/zkmips/internal/zkmips/mips"
)

// Poseidon2Chip constrains the POSEIDON2_PERMUTE precompile (spec §4.2)
// by re-running core.Poseidon2Permute over the row's claimed input
// columns and checking the result against the claimed output columns.
// This is sound within this module's constraint model exactly because
// core.Poseidon2Permute is itself built entirely from field Add/Mul/Exp
// (see core/poseidon2.go): the "constraint" is a genuine, if
// high-degree, polynomial function of the sixteen input columns, not an
// opaque recomputation the verifier would have to trust.
type Poseidon2Chip struct{ air.BaseChip }

const poseidon2ChipWidth = 2 * core.Poseidon2Width

func (Poseidon2Chip) Name() string   { return "poseidon2_permute" }
func (Poseidon2Chip) MainWidth() int { return poseidon2ChipWidth }

func (Poseidon2Chip) PaddingRow() air.Row {
	return air.Row{Main: make([]core.Elem, poseidon2ChipWidth), IsReal: false}
}

func (Poseidon2Chip) GenerateRows(events []any) ([]air.Row, error) {
	rows := make([]air.Row, len(events))
	for i, ev := range events {
		e, ok := ev.(mips.Poseidon2Event)
		if !ok {
			return nil, fmt.Errorf("precompiles: poseidon2 chip received non-Poseidon2Event %T", ev)
		}
		main := make([]core.Elem, poseidon2ChipWidth)
		for j := 0; j < core.Poseidon2Width; j++ {
			main[j] = core.NewElem(uint64(e.Input[j]))
			main[core.Poseidon2Width+j] = core.NewElem(uint64(e.Output[j]))
		}
		rows[i] = air.Row{Main: main, IsReal: true}
	}
	return rows, nil
}

func (Poseidon2Chip) EvalConstraints(cur, next air.Row, preprocessed []core.Elem) []core.Elem {
	if !cur.IsReal {
		return nil
	}
	var state [core.Poseidon2Width]core.Elem
	copy(state[:], cur.Main[:core.Poseidon2Width])
	core.Poseidon2Permute(&state)

	out := make([]core.Elem, core.Poseidon2Width)
	for j := 0; j < core.Poseidon2Width; j++ {
		out[j] = state[j].Sub(cur.Main[core.Poseidon2Width+j])
	}
	return out
}
