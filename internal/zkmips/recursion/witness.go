package recursion

import (
	"github.com/zkmips/zkmips/internal/zkmips/air"
)

// EventsByChip flattens every event slice an Interpreter accumulated
// across a driver run (Interpreter.Run plus the extra events VerifyShard
// and Reduce record directly) into the map shape air.BuildShardWitness
// expects, keyed by exactly the chip names NewRecursionMachine registers.
func (in *Interpreter) EventsByChip() map[string][]any {
	return map[string][]any{
		"rec_base_alu":         toAny(in.BaseAluEvents),
		"rec_ext_alu":          toAny(in.ExtAluEvents),
		"rec_memory":           toAny(in.Touches),
		"rec_poseidon2":        toAny(in.Poseidon2Events),
		"rec_fri_fold":         toAny(in.FriFoldEvents),
		"rec_batched_fri_fold": toAny(in.BatchedFriFoldEvents),
		"rec_exp_reverse_bits": toAny(in.ExpReverseEvents),
		"rec_select":           toAny(in.SelectEvents),
		"rec_public_values":    toAny(in.PublicValueEvents),
	}
}

// BuildWitness assembles in's accumulated events into a shard witness for
// the recursion AIR, the same Machine.BuildShardWitness call chips
// .NewMachine's caller makes for the MIPS AIR (spec §4.4's recursion AIR
// reuses the STARK backend, not a bespoke one).
func (in *Interpreter) BuildWitness() (*air.Machine, *air.ShardWitness, error) {
	machine, _ := NewRecursionMachine()
	witness, err := machine.BuildShardWitness(in.EventsByChip())
	if err != nil {
		return nil, nil, err
	}
	return machine, witness, nil
}
