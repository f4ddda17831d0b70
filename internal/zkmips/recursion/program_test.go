package recursion

import "testing"

func TestInterpreterRunAddAndMul(t *testing.T) {
	p := NewProgram()
	a := p.Emit(Node{Op: OpLoadConst, Imm: Value{Base: 3}, HasImm: true})
	b := p.Emit(Node{Op: OpLoadConst, Imm: Value{Base: 4}, HasImm: true})
	sum := p.Emit(Node{Op: OpAddBase, Args: [2]Handle{a, b}})
	prod := p.Emit(Node{Op: OpMulBase, Args: [2]Handle{sum, b}})
	p.Output = prod

	in := NewInterpreter()
	out, err := in.Run(p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Base != 28 {
		t.Fatalf("expected (3+4)*4=28, got %d", out.Base)
	}
	if len(in.BaseAluEvents) != 2 {
		t.Fatalf("expected 2 base ALU events, got %d", len(in.BaseAluEvents))
	}
	if !in.BaseAluEvents[1].IsMul {
		t.Fatal("second event should be the multiplication")
	}
}

func TestInterpreterRunSelect(t *testing.T) {
	p := NewProgram()
	a := p.Emit(Node{Op: OpLoadConst, Imm: Value{Base: 11}, HasImm: true})
	b := p.Emit(Node{Op: OpLoadConst, Imm: Value{Base: 22}, HasImm: true})
	sel := p.Emit(Node{Op: OpSelect, Args: [2]Handle{a, b}, Imm: Value{Base: 1}, HasImm: true})
	p.Output = sel

	in := NewInterpreter()
	out, err := in.Run(p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Base != 11 {
		t.Fatalf("expected select(cond=1) to pick A=11, got %d", out.Base)
	}
	if len(in.SelectEvents) != 1 {
		t.Fatalf("expected 1 select event, got %d", len(in.SelectEvents))
	}
}

func TestInterpreterRunExpReverseBits(t *testing.T) {
	p := NewProgram()
	in3 := p.Emit(Node{Op: OpLoadConst, Imm: Value{Base: 0b001}, HasImm: true})
	rev := p.Emit(Node{Op: OpExpReverseBits, Args: [2]Handle{in3, in3}, Imm: Value{Base: 3}, HasImm: true})
	p.Output = rev

	in := NewInterpreter()
	out, err := in.Run(p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Base != 0b100 {
		t.Fatalf("reversing 0b001 over 3 bits should give 0b100, got %b", out.Base)
	}
}

func TestInterpreterRunRejectsUnwrittenOutput(t *testing.T) {
	p := NewProgram()
	p.Emit(Node{Op: OpLoadConst, Imm: Value{Base: 1}, HasImm: true})
	p.Output = Handle(5)

	in := NewInterpreter()
	if _, err := in.Run(p); err == nil {
		t.Fatal("expected an error for an output handle never written")
	}
}
