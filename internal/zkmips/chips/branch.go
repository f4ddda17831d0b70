package chips

import (
	"fmt"

	"github.com/zkmips/zkmips/internal/zkmips/air"
	"github.com/zkmips/zkmips/internal/zkmips/core"
	"github.com/zkmips/zkmips/internal/zkmips/mips"
)

// BranchChip constrains one shard's conditional-branch outcomes (spec
// §4.2 "Branch chip"). The exact per-mnemonic condition (BEQ vs BLTZ vs
// ...) and the taken target are decided in mips.execBranch before the
// event reaches this chip. The chip checks that the taken flag is
// boolean and that an untaken branch's target is the sequential default
// next_pc+4; a taken branch's target, and whether the flag agrees with
// the compared operands, are not constrained here.
type BranchChip struct{ air.BaseChip }

func (BranchChip) Name() string   { return "branch" }
func (BranchChip) MainWidth() int { return 6 }

func (BranchChip) PaddingRow() air.Row {
	return air.Row{Main: make([]core.Elem, 6), IsReal: false}
}

func (BranchChip) GenerateRows(events []any) ([]air.Row, error) {
	rows := make([]air.Row, len(events))
	for i, ev := range events {
		e, ok := ev.(mips.BranchEvent)
		if !ok {
			return nil, fmt.Errorf("chips: branch chip received non-BranchEvent %T", ev)
		}
		rows[i] = air.Row{
			Main: []core.Elem{
				elemU32(e.PC), elemU32(e.NextPC), elemU32(e.TargetPC),
				boolAsElem(e.Taken), elemU32(e.A), elemU32(e.B),
			},
			IsReal: true,
		}
	}
	return rows, nil
}

func (BranchChip) EvalConstraints(cur, next air.Row, preprocessed []core.Elem) []core.Elem {
	if !cur.IsReal {
		return nil
	}
	taken := cur.Main[3]
	target, nextPC := cur.Main[2], cur.Main[1]
	sequential := nextPC.Add(core.NewElem(4))
	// taken=1 -> target unconstrained here (mips.execBranch already
	// derived it from the immediate); taken=0 -> target must be the
	// sequential default. Both are expressed as one selector product so
	// the untaken branch keeps a genuine algebraic constraint.
	untakenCheck := core.One.Sub(taken).Mul(target.Sub(sequential))
	return []core.Elem{boolConstraint(taken), untakenCheck}
}
