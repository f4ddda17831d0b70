package mips

// MemoryRecord captures one register or memory cell's access history at a
// single touch, the witness the CPU chip needs to prove strict time
// increase (spec §4.2 "CPU chip": "prev value, prev shard, prev clock plus
// a diff witness proving strict time increase").
type MemoryRecord struct {
	Addr      uint32
	Value     uint32
	PrevValue uint32
	Shard     uint64
	Clock     uint64
	PrevShard uint64
	PrevClock uint64
}

// CPUEvent is one executed cycle, the row-per-cycle unit the CPU chip
// consumes (spec §4.2 "CPU chip").
type CPUEvent struct {
	Shard      uint64
	Clock      uint64
	PC         uint32
	NextPC     uint32
	NextNextPC uint32
	Word       uint32 // the raw fetched instruction word, checked against the program chip
	Instr      Instruction
	A, B, C    uint32       // decoded operand values
	Op1, Op2, Op3 MemoryRecord // register/memory access bundles touched this cycle
	IsHalt     bool
}

// ALUEvent is a family-tagged (opcode, a, b, c) tuple sent by the CPU chip
// to the matching ALU chip (spec §4.2 "ALU chips").
type ALUEvent struct {
	Shard, Clock uint64
	Opcode       string
	A, B, C      uint32
}

// MemoryAccessEvent is one load/store's address arithmetic and byte
// touches, consumed by the memory-instructions chip (spec §4.2 "Memory
// chips").
type MemoryAccessEvent struct {
	Shard, Clock uint64
	Addr         uint32
	IsStore      bool
	Width        int // 1, 2, or 4 bytes
	Value        uint32
}

// BranchEvent/JumpEvent carry the three relevant PCs and the outcome for
// the branch/jump chips (spec §4.2 "Branch chip and jump chip").
type BranchEvent struct {
	Shard, Clock         uint64
	PC, NextPC, TargetPC uint32
	Taken                bool
	A, B                 uint32
}

type JumpEvent struct {
	Shard, Clock uint64
	PC, TargetPC uint32
	LinkReg      int
	LinkValue    uint32
}

// SyscallEvent is a syscall tuple handed from the CPU chip to the
// syscall chip, which either handles it directly or re-sends a
// precompile-specific tuple onward (spec §4.2 "Syscall chip").
type SyscallEvent struct {
	Shard, Clock uint64
	Number       uint32
	Arg1, Arg2   uint32
	Result       uint32
}

// PrecompileEvent carries every address a precompile syscall touched, so
// the matching precompile chip can constrain the memory reads/writes
// alongside the mathematical relation (spec §4.2 "Precompile chips").
// Before/After optionally carry a word-level snapshot for precompiles
// whose chip re-derives the relation itself (currently sha_extend and
// sha_compress, via mips.Sha256Extend/Sha256Compress) rather than only
// witnessing which addresses were touched; both are nil for precompiles
// still scoped to address witnessing.
type PrecompileEvent struct {
	Shard, Clock uint64
	Syscall      uint32
	Addresses    []uint32
	Before       []uint32
	After        []uint32
}

// Poseidon2Event carries a full width-16 permutation's input and output
// state, letting the poseidon2_permute chip re-run the same permutation
// over committed trace values and check equality (spec §4.2 "Poseidon2
// permutation (width-16 over the base field)"). Unlike PrecompileEvent,
// this carries the actual field state rather than just touched
// addresses, since the permutation chip needs the words themselves to
// constrain, not just where they came from.
type Poseidon2Event struct {
	Shard, Clock uint64
	Addr         uint32
	Input        [16]uint32
	Output       [16]uint32
}

// MemoryInitEvent/MemoryFinalizeEvent feed the global memory chip's
// initialization/finalization sets (spec §4.2 "Global memory chip").
type MemoryInitEvent struct {
	Addr, Value uint32
}

type MemoryFinalizeEvent struct {
	Addr, Value uint32
	Shard       uint64
	Clock       uint64
}

// EventLog accumulates every chip's events for one shard, the payload
// air.Machine.BuildShardWitness consumes keyed by chip name.
type EventLog struct {
	CPU        []CPUEvent
	ALU        map[string][]ALUEvent
	Memory     []MemoryAccessEvent
	Branch     []BranchEvent
	Jump       []JumpEvent
	Syscall    []SyscallEvent
	Precompile map[uint32][]PrecompileEvent
	Poseidon2  []Poseidon2Event
	MemInit    []MemoryInitEvent
	MemFinal   []MemoryFinalizeEvent
}

func NewEventLog() *EventLog {
	return &EventLog{
		ALU:        make(map[string][]ALUEvent),
		Precompile: make(map[uint32][]PrecompileEvent),
	}
}

// ToChipEvents flattens the log into the `map[string][]any` shape
// air.Machine.BuildShardWitness expects, one entry per chip name.
func (l *EventLog) ToChipEvents() map[string][]any {
	out := map[string][]any{
		"cpu":          toAny(l.CPU),
		"memory_instr": toAny(l.Memory),
		"branch":       toAny(l.Branch),
		"jump":         toAny(l.Jump),
		"syscall":      toAny(l.Syscall),
	}
	global := make([]any, 0, len(l.MemInit)+len(l.MemFinal))
	for _, e := range l.MemInit {
		global = append(global, e)
	}
	for _, e := range l.MemFinal {
		global = append(global, e)
	}
	out["global"] = global

	for family, events := range l.ALU {
		out[family] = toAny(events)
	}
	for number, events := range l.Precompile {
		name := PrecompileChipName(number)
		out[name] = append(out[name], toAny(events)...)
	}
	out["poseidon2_permute"] = append(out["poseidon2_permute"], toAny(l.Poseidon2)...)
	return out
}

// PrecompileChipName maps a precompile syscall number to the chip that
// constrains it (spec §4.2 "Precompile chips"), the flattening key
// ToChipEvents uses and the name chips/precompiles registers under.
func PrecompileChipName(number uint32) string {
	switch number {
	case SysShaExtend:
		return "sha_extend"
	case SysShaCompress:
		return "sha_compress"
	case SysKeccakSponge:
		return "keccak_sponge"
	case SysEdAdd, SysEdDecompress:
		return "ed_decompress"
	case SysUint256Mul:
		return "uint256_mul"
	case SysBn254Add, SysBn254Double,
		SysBn254FpAdd, SysBn254FpSub, SysBn254FpMul,
		SysBn254Fp2Add, SysBn254Fp2Sub, SysBn254Fp2Mul:
		return "bn254_precompile"
	case SysBls12381Add, SysBls12381Double, SysBls12381Decomp,
		SysBls12381FpAdd, SysBls12381FpSub, SysBls12381FpMul,
		SysBls12381Fp2Add, SysBls12381Fp2Sub, SysBls12381Fp2Mul:
		return "bls12381_precompile"
	default:
		return "precompile_other"
	}
}

func toAny[T any](s []T) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
