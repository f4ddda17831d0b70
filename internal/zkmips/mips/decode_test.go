package mips

import "testing"

func encodeR(opcode, rs, rt, rd, shamt, funct uint32) uint32 {
	return opcode<<26 | rs<<21 | rt<<16 | rd<<11 | shamt<<6 | funct
}

func encodeI(opcode, rs, rt, imm uint32) uint32 {
	return opcode<<26 | rs<<21 | rt<<16 | (imm & 0xffff)
}

func TestDecodeRType(t *testing.T) {
	cases := []struct {
		word uint32
		want Instruction
	}{
		{encodeR(0, 1, 2, 3, 0, 0x20), ADD},
		{encodeR(0, 1, 2, 3, 0, 0x22), SUB},
		{encodeR(0, 1, 2, 3, 0, 0x25), OR},
		{encodeR(0, 0, 2, 3, 4, 0x00), SLL},
		{encodeR(0, 1, 2, 3, 0, 0x08), JR},
		{encodeR(0, 1, 2, 3, 0, 0x09), JALR},
		{encodeR(0x1c, 1, 2, 3, 0, 0x02), MUL},
		{encodeR(0x1c, 1, 2, 3, 0, 0x20), CLZ},
	}
	for _, c := range cases {
		got, err := Decode(c.word)
		if err != nil {
			t.Fatalf("decode 0x%08x: %v", c.word, err)
		}
		if got.Op != c.want {
			t.Errorf("word 0x%08x: got %s, want %s", c.word, got.Op, c.want)
		}
	}
}

func TestDecodeIType(t *testing.T) {
	word := encodeI(0x08, 1, 2, 0xfffc) // ADDI $2, $1, -4
	d, err := Decode(word)
	if err != nil {
		t.Fatal(err)
	}
	if d.Op != ADDI {
		t.Fatalf("got %s, want ADDI", d.Op)
	}
	if d.ImmS != -4 {
		t.Errorf("ImmS = %d, want -4", d.ImmS)
	}
}

func TestDecodeUnknownOpcode(t *testing.T) {
	_, err := Decode(0x3f << 26)
	if err == nil {
		t.Fatal("expected error for unknown opcode")
	}
}

func TestDecodeNOPIsSLL(t *testing.T) {
	d, err := Decode(0)
	if err != nil {
		t.Fatal(err)
	}
	if d.Op != SLL {
		t.Errorf("word 0 decoded as %s, want SLL", d.Op)
	}
}

func TestInstructionFamily(t *testing.T) {
	if ADD.Family() != FamilyALU {
		t.Error("ADD should be FamilyALU")
	}
	if BEQ.Family() != FamilyBranch {
		t.Error("BEQ should be FamilyBranch")
	}
	if JAL.Family() != FamilyJump {
		t.Error("JAL should be FamilyJump")
	}
	if LW.Family() != FamilyMemory {
		t.Error("LW should be FamilyMemory")
	}
}
