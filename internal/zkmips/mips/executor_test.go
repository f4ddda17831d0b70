package mips

import (
	"testing"

	"github.com/zkmips/zkmips/internal/zkmips/config"
)

func assembleR(opcode, rs, rt, rd, shamt, funct uint32) uint32 {
	return encodeR(opcode, rs, rt, rd, shamt, funct)
}

func assembleI(opcode, rs, rt, imm uint32) uint32 {
	return encodeI(opcode, rs, rt, imm)
}

// TestExecutorRunHalts assembles a tiny program computing 5+7 into $6,
// then halts with exit code 42, exercising the full fetch/decode/
// execute/syscall loop end to end.
func TestExecutorRunHalts(t *testing.T) {
	entry := uint32(0x1000)
	mem := NewMemory()
	words := []uint32{
		assembleI(0x08, 0, 4, 5),            // ADDI $4, $0, 5
		assembleI(0x08, 0, 5, 7),            // ADDI $5, $0, 7
		assembleR(0x00, 4, 5, 6, 0, 0x20),   // ADD $6, $4, $5
		assembleI(0x08, 0, 2, uint32(SysHalt)), // ADDI $2, $0, SysHalt
		assembleI(0x08, 0, 4, 42),           // ADDI $4, $0, 42
		assembleR(0x00, 0, 0, 0, 0, 0x0c),   // SYSCALL
	}
	for i, w := range words {
		mem.WriteWord(entry+uint32(i*4), w)
	}
	prog := &Program{Entry: entry, Memory: mem}

	exec := NewExecutor(config.DefaultConfig(), nil)
	shards, err := exec.Run(prog)
	if err != nil {
		t.Fatal(err)
	}
	if len(shards) == 0 {
		t.Fatal("expected at least one shard")
	}
	final := shards[len(shards)-1]
	if !final.IsFinal {
		t.Fatal("last shard must be marked final")
	}
	if final.ExitCode != 42 {
		t.Errorf("ExitCode = %d, want 42", final.ExitCode)
	}
	if final.Terminal.Regs[6] != 12 {
		t.Errorf("$6 = %d, want 12", final.Terminal.Regs[6])
	}
	if len(final.Events.CPU) != len(words) {
		t.Errorf("CPU events = %d, want %d", len(final.Events.CPU), len(words))
	}
}

func TestExecutorRunExhaustsCycleBudget(t *testing.T) {
	entry := uint32(0x2000)
	mem := NewMemory()
	mem.WriteWord(entry, assembleR(0x00, 0, 0, 0, 0, 0x00)) // SLL $0,$0,0 (NOP), loops forever
	prog := &Program{Entry: entry, Memory: mem}

	cfg := config.DefaultConfig()
	cfg.MaxCycles = 3
	exec := NewExecutor(cfg, nil)
	if _, err := exec.Run(prog); err == nil {
		t.Fatal("expected cycle-budget exhaustion error")
	}
}
