package chips

import (
	"fmt"

	"github.com/zkmips/zkmips/internal/zkmips/air"
	"github.com/zkmips/zkmips/internal/zkmips/chips/precompiles"
	"github.com/zkmips/zkmips/internal/zkmips/mips"
)

// aluFamilies is the ordered set of ALU chip families mips.aluChipName
// dispatches to; NewMachine registers exactly one ALUChip per entry.
var aluFamilies = []string{
	"add_sub", "mul", "divrem", "shift_left", "shift_right", "bitwise", "lt", "clz_clo",
}

// NewMachine assembles the full chip set (spec §4.2) into one air.Machine
// and returns the bus names SelfCheck needs to balance, in the order
// every chip below sends or receives on them. programWords is the
// loaded ELF's fixed address->word table (mips.Program.Words), baked
// into the preprocessed program chip.
func NewMachine(programWords map[uint32]uint32) (*air.Machine, []string, error) {
	registered := []air.Chip{
		NewProgramChip(programWords),
		&BytesChip{},
		&CPUChip{},
		&MemoryChip{},
		&GlobalChip{},
		&BranchChip{},
		&JumpChip{},
		&SyscallChip{},
		precompiles.Poseidon2Chip{},
		precompiles.NewShaExtendChip(),
		precompiles.NewShaCompressChip(),
		precompiles.NewKeccakSpongeChip(),
		precompiles.NewEdDecompressChip(),
		precompiles.NewBN254Chip(),
		precompiles.NewBLS12381Chip(),
		precompiles.NewUint256MulChip(),
	}
	for _, family := range aluFamilies {
		alu, err := NewALUChip(family)
		if err != nil {
			return nil, nil, fmt.Errorf("chips: building alu chip %q: %w", family, err)
		}
		registered = append(registered, alu)
	}

	busNames := []string{"program", "bytes", "precompile"}
	return air.NewMachine(registered), busNames, nil
}

// ToChipEvents is a thin re-export so callers building a shard witness
// don't need to import mips directly just to flatten its event log.
func ToChipEvents(log *mips.EventLog) map[string][]any { return log.ToChipEvents() }
