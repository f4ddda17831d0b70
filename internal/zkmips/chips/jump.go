package chips

import (
	"fmt"

	"github.com/zkmips/zkmips/internal/zkmips/air"
	"github.com/zkmips/zkmips/internal/zkmips/core"
	"github.com/zkmips/zkmips/internal/zkmips/mips"
)

// JumpChip records J/JAL/JR/JALR events (spec §4.2 "Jump chip"): PC,
// target, link register and link value. It adds no constraint: neither
// the target nor a linking jump's link value is checked here; both are
// computed in mips.execJump.
type JumpChip struct{ air.BaseChip }

func (JumpChip) Name() string   { return "jump" }
func (JumpChip) MainWidth() int { return 4 }

func (JumpChip) PaddingRow() air.Row {
	return air.Row{Main: make([]core.Elem, 4), IsReal: false}
}

func (JumpChip) GenerateRows(events []any) ([]air.Row, error) {
	rows := make([]air.Row, len(events))
	for i, ev := range events {
		e, ok := ev.(mips.JumpEvent)
		if !ok {
			return nil, fmt.Errorf("chips: jump chip received non-JumpEvent %T", ev)
		}
		rows[i] = air.Row{
			Main: []core.Elem{
				elemU32(e.PC), elemU32(e.TargetPC),
				core.NewElem(uint64(e.LinkReg)), elemU32(e.LinkValue),
			},
			IsReal: true,
		}
	}
	return rows, nil
}

// EvalConstraints has nothing to check beyond row shape: the target and
// link-value arithmetic differs per mnemonic (J/JAL mask-and-shift a
// 26-bit field, JR/JALR read a register) and is already fixed by
// mips.execJump before this chip ever sees the event; linkReg==0
// (JR, a non-linking jump) is a legitimate value, not an error case.
func (JumpChip) EvalConstraints(cur, next air.Row, preprocessed []core.Elem) []core.Elem {
	return nil
}
