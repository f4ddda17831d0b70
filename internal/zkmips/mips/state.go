package mips

// State is the complete machine state the executor advances one cycle at
// a time (spec §4.1 "Fetch/decode/execute"). Register 0 is hardwired to
// zero, as in real MIPS, enforced by SetReg rather than a special case at
// every call site.
type State struct {
	Regs   [32]uint32
	HI, LO uint32

	PC, NextPC, NextNextPC uint32

	Memory *Memory

	Shard uint64
	Clock uint64

	Halted   bool
	ExitCode uint32

	// UnconstrainedDepth tracks nested enter-unconstrained regions; the
	// spec (§9 Open Question decision) treats nesting as InvalidExecution
	// rather than a silent no-op, so this only ever reaches 0 or 1.
	UnconstrainedDepth int

	// regClock and memClock track the last (shard, clock) each register/memory
	// cell was touched at, feeding the CPU chip's strict-increase witness
	// (spec §4.2 "operand-access time witnesses").
	regClock [32]clockMark
	memClock map[uint32]clockMark
}

type clockMark struct {
	Shard uint64
	Clock uint64
	Value uint32
}

func NewState(mem *Memory, entry uint32) *State {
	return &State{
		Memory:     mem,
		PC:         entry,
		NextPC:     entry + 4,
		NextNextPC: entry + 8,
		memClock:   make(map[uint32]clockMark),
	}
}

func (s *State) Reg(i int) uint32 {
	if i == 0 {
		return 0
	}
	return s.Regs[i]
}

// SetReg writes a register and returns the MemoryRecord witnessing the
// prior (shard, clock, value) at that cell, the CPU chip's access-time
// proof material.
func (s *State) SetReg(i int, v uint32) MemoryRecord {
	prev := s.regClock[i]
	rec := MemoryRecord{
		Addr: uint32(i), Value: v, PrevValue: prev.Value,
		Shard: s.Shard, Clock: s.Clock, PrevShard: prev.Shard, PrevClock: prev.Clock,
	}
	if i != 0 {
		s.Regs[i] = v
		s.regClock[i] = clockMark{Shard: s.Shard, Clock: s.Clock, Value: v}
	}
	return rec
}

// TouchMemory records a memory cell's read (write=false) or write
// (write=true) for the multiset-hash consistency argument (spec §4.2
// "Memory consistency algorithm"), returning the previous access mark.
func (s *State) TouchMemory(addr uint32, value uint32, write bool) MemoryRecord {
	prev, ok := s.memClock[addr]
	rec := MemoryRecord{
		Addr: addr, Value: value, PrevValue: prev.Value,
		Shard: s.Shard, Clock: s.Clock, PrevShard: prev.Shard, PrevClock: prev.Clock,
	}
	if !ok {
		rec.PrevValue = 0
	}
	if write {
		s.memClock[addr] = clockMark{Shard: s.Shard, Clock: s.Clock, Value: value}
	}
	return rec
}

// ScheduleBranch records this cycle's control-flow outcome: the address
// that should become PC once the delay slot (already fetched as NextPC)
// has executed. Only branches and jumps call this; for every other
// instruction NextNextPC keeps the sequential default that NewState and
// Advance queue.
func (s *State) ScheduleBranch(afterDelaySlot uint32) {
	s.NextNextPC = afterDelaySlot
}

// Advance rotates the PC/NextPC/NextNextPC pipeline by one cycle (spec
// §4.1 "the target becomes the PC after that delay slot"): whatever the
// current cycle scheduled into NextNextPC becomes the live NextPC, and a
// fresh sequential default is queued behind it.
func (s *State) Advance() {
	s.PC = s.NextPC
	s.NextPC = s.NextNextPC
	s.NextNextPC = s.NextPC + 4
}
