package chips

import (
	"fmt"

	"github.com/zkmips/zkmips/internal/zkmips/air"
	"github.com/zkmips/zkmips/internal/zkmips/core"
	"github.com/zkmips/zkmips/internal/zkmips/mips"
)

// SyscallChip receives every syscall dispatched during a shard (spec
// §4.2 "Syscall chip"), re-sending precompile-numbered syscalls onward
// on the shared "precompile" bus so the matching precompile chip in
// chips/precompiles can pick them up; control/IO syscalls (halt, write,
// hint, commit, ...) are recorded here and nowhere else since they have
// no dedicated chip of their own.
type SyscallChip struct{ air.BaseChip }

func (SyscallChip) Name() string   { return "syscall" }
func (SyscallChip) MainWidth() int { return 5 }

func (SyscallChip) PaddingRow() air.Row {
	return air.Row{Main: make([]core.Elem, 5), IsReal: false}
}

func (SyscallChip) GenerateRows(events []any) ([]air.Row, error) {
	rows := make([]air.Row, len(events))
	for i, ev := range events {
		e, ok := ev.(mips.SyscallEvent)
		if !ok {
			return nil, fmt.Errorf("chips: syscall chip received non-SyscallEvent %T", ev)
		}
		main := []core.Elem{
			elemU32(e.Number), elemU32(e.Arg1), elemU32(e.Arg2), elemU32(e.Result),
			core.NewElem(e.Clock),
		}
		row := air.Row{Main: main, IsReal: true}
		if isPrecompileNumber(e.Number) {
			row.Interactions = []air.Interaction{{
				Bus: "precompile", Kind: air.BusSend,
				Tuple: main[:3], Multiplicity: core.One,
			}}
		}
		rows[i] = row
	}
	return rows, nil
}

// isPrecompileNumber mirrors mips.isPrecompile's threshold (numbers
// below 0x100 are the control/IO syscall set, spec §6 "Syscall ABI");
// kept as a local copy since that predicate is unexported in mips and
// this chip has no other reason to import mips's internals directly.
func isPrecompileNumber(n uint32) bool { return n >= 0x100 }

func (SyscallChip) EvalConstraints(cur, next air.Row, preprocessed []core.Elem) []core.Elem {
	return nil
}
