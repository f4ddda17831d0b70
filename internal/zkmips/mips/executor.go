package mips

import (
	"fmt"

	"github.com/zkmips/zkmips/internal/zkmips/config"
)

// Shard is one closed shard's event log plus the boundary state summaries
// the recursion layer checks for continuity (spec §4.1 "Sharding": "the
// current shard is closed, its terminal state becomes the next shard's
// initial state").
type Shard struct {
	Index    uint64
	Events   *EventLog
	Terminal StateSummary
	Initial  StateSummary
	IsFinal  bool
	ExitCode uint32 // valid only when IsFinal
}

// StateSummary is the boundary digest material passed between adjacent
// shards, checked by ShardBoundaryMismatch at the recursion layer (spec
// §7).
type StateSummary struct {
	PC     uint32
	Regs   [32]uint32
	HI, LO uint32
	Clock  uint64
}

func summarize(s *State) StateSummary {
	return StateSummary{PC: s.PC, Regs: s.Regs, HI: s.HI, LO: s.LO, Clock: s.Clock}
}

// Executor drives fetch/decode/execute/shard-cut over a loaded program
// (spec §4.1), following the teacher's VMState.ExecuteAndTrace shape:
// step the state, record events, and hand back a finished trace unit
// (here, a stream of Shards rather than one flat AET).
type Executor struct {
	cfg     *config.Config
	tracker *ShardTracker

	stdout         []byte
	publicValues   []byte
	deferredDigest []byte
	deferred       []DeferredObligation
	hints          []byte
	hintPos        int

	totalCycles uint64
	chipRows    map[string]uint64
}

func NewExecutor(cfg *config.Config, hints []byte) *Executor {
	return &Executor{
		cfg:      cfg,
		tracker:  NewShardTracker(ShardShape(cfg.ChipShapes)),
		hints:    hints,
		chipRows: make(map[string]uint64),
	}
}

func (e *Executor) PublicValues() []byte              { return e.publicValues }
func (e *Executor) Stdout() []byte                    { return e.stdout }
func (e *Executor) DeferredObligations() []DeferredObligation { return e.deferred }

// Run executes prog to completion, cutting shards per the configured
// chip shapes and returning every closed shard in order (spec §4.1
// "Sharding", "Failure semantics").
func (e *Executor) Run(prog *Program) ([]Shard, error) {
	s := NewState(prog.Memory, prog.Entry)
	var shards []Shard
	log := NewEventLog()
	shardIndex := uint64(0)
	initial := summarize(s)
	var totalCycles uint64

	for {
		if s.Halted {
			shards = append(shards, Shard{Index: shardIndex, Events: log, Terminal: summarize(s), Initial: initial, IsFinal: true, ExitCode: s.ExitCode})
			e.foldChipRows()
			e.totalCycles = totalCycles
			return shards, nil
		}
		if totalCycles >= e.cfg.MaxCycles {
			return nil, fmt.Errorf("%w: exhausted cycle budget without HALT", ErrInvalidExecution)
		}

		if e.tracker.WouldOverflow("cpu", 1) {
			shards = append(shards, Shard{Index: shardIndex, Events: log, Terminal: summarize(s), Initial: initial})
			e.foldChipRows()
			shardIndex++
			s.Shard = shardIndex
			initial = summarize(s)
			log = NewEventLog()
			e.tracker.Reset()
		}

		word := s.Memory.ReadWord(s.PC)
		decoded, err := Decode(word)
		if err != nil {
			return nil, fmt.Errorf("mips: pc=0x%08x: %w", s.PC, err)
		}

		var halt bool
		if decoded.Op == SYSCALL {
			halt, err = e.Syscall(s, log)
		} else {
			err = Execute(s, decoded, log)
		}
		if err != nil {
			return nil, fmt.Errorf("mips: pc=0x%08x op=%s: %w", s.PC, decoded.Op, err)
		}

		if !s.UnconstrainedRegion() {
			log.CPU = append(log.CPU, CPUEvent{
				Shard: s.Shard, Clock: s.Clock, PC: s.PC, NextPC: s.NextPC, NextNextPC: s.NextNextPC,
				Word: word, Instr: decoded.Op, IsHalt: halt,
			})
			e.tracker.Add("cpu", 1)
			if family := decoded.Op.Family(); family == FamilyALU {
				e.tracker.Add(aluChipName(decoded.Op), 1)
			}
		}

		s.Advance()
		s.Clock++
		totalCycles++

		if halt {
			s.Halted = true
		}
	}
}

// foldChipRows accumulates the shard tracker's current per-chip live-row
// counts into the run-wide total before the tracker resets for the next
// shard, the data ExecutionReport's ChipRows breakdown is built from.
func (e *Executor) foldChipRows() {
	for name, n := range e.tracker.Counts() {
		e.chipRows[name] += uint64(n)
	}
}

// UnconstrainedRegion reports whether the machine is currently inside an
// enter/exit-unconstrained bracket, whose events must not enter the trace
// (spec §4.1 "Unconstrained regions").
func (s *State) UnconstrainedRegion() bool { return s.UnconstrainedDepth > 0 }

// aluChipName maps an ALU-family instruction to the chip that constrains
// it (spec §4.2 "ALU chips (one per family: add/sub, mul, div/rem,
// shift-left, shift-right-arith-or-logical, bitwise, comparison,
// count-leading-ones/zeros)").
func aluChipName(op Instruction) string {
	switch op {
	case ADD, ADDU, ADDI, ADDIU, SUB, SUBU:
		return "add_sub"
	case MUL, MULT, MULTU, MADDU, MSUBU:
		return "mul"
	case DIV, DIVU:
		return "divrem"
	case SLL, SLLV:
		return "shift_left"
	case SRA, SRAV, SRL, SRLV, ROTR, ROTRV:
		return "shift_right"
	case AND, ANDI, OR, ORI, XOR, XORI, NOR:
		return "bitwise"
	case SLT, SLTI, SLTU, SLTIU:
		return "lt"
	case CLZ, CLO:
		return "clz_clo"
	default:
		return "misc"
	}
}
