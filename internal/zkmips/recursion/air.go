package recursion

import "github.com/zkmips/zkmips/internal/zkmips/air"

// NewRecursionMachine assembles the recursion AIR's fixed chip set (spec
// §4.4 "a second AIR built from recursion-specific chips") into one
// air.Machine, mirroring chips.NewMachine's role for the MIPS AIR.
// Unlike the MIPS AIR this set carries no cross-chip lookup buses: every
// recursion chip is self-contained, witnessed directly from one
// Interpreter run, so the returned bus-name list is always empty.
func NewRecursionMachine() (*air.Machine, []string) {
	registered := []air.Chip{
		BaseAluChip{},
		ExtAluChip{},
		RecMemoryChip{},
		RecPoseidon2Chip{},
		FriFoldChip{},
		BatchedFriFoldChip{},
		ExpReverseBitsChip{},
		SelectChip{},
		PublicValuesChip{},
	}
	return air.NewMachine(registered), nil
}

func toAny[T any](s []T) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
