// Package recursion implements the recursion AIR and the layered
// aggregation driver (spec §4.4 "Recursion AIR and layered aggregation").
// A recursion program is not a subroutine call; it is a fixed piece of
// VM-style code whose own execution is the object of a second STARK
// (spec §9 "Recursive circuits as data"). This package models that
// program as an arena of tagged nodes addressed by integer handles (spec
// §9 "use tagged sum types for recursion-instruction opcodes; use an
// arena of typed nodes with integer handles for the recursive circuit
// graph (no cyclic owning references)"), and interprets it over a flat
// slot file that doubles as the RecMemoryChip's event source.
package recursion

import (
	"fmt"

	"github.com/zkmips/zkmips/internal/zkmips/core"
)

// Opcode is the closed tag set of the recursion instruction set (spec
// §4.4's chip list: base/ext ALU, memory, Poseidon2, FRI-fold,
// exp-reverse-bits, select, public-values).
type Opcode int

const (
	OpLoadConst Opcode = iota
	OpAddBase
	OpMulBase
	OpSubExt
	OpPoseidon2Compress
	OpFriFoldEven
	OpExpReverseBits
	OpSelect
	OpPublicValue
)

// Handle addresses one node in a Program's arena.
type Handle int

// Node is one instruction: an opcode plus up to two operand handles and
// an immediate payload. Using integer handles rather than pointers keeps
// the graph acyclic and trivially serializable (spec §9).
type Node struct {
	Op       Opcode
	Args     [2]Handle
	Imm      Value
	HasImm   bool
}

// Value is the tagged union of values a recursion-program slot can hold:
// either a base-field element or a degree-4 extension element. Exactly
// one of the two is meaningful, selected by IsExt.
type Value struct {
	Base  uint64
	Ext   [4]uint64
	IsExt bool
}

// Program is an arena of Nodes plus the handle of its output node, the
// "fixed piece of code" a reduce step compiles and the Interpreter below
// executes (spec §4.4, §9).
type Program struct {
	Nodes  []Node
	Output Handle
}

// NewProgram returns an empty arena.
func NewProgram() *Program {
	return &Program{}
}

// Emit appends a node and returns its handle.
func (p *Program) Emit(n Node) Handle {
	p.Nodes = append(p.Nodes, n)
	return Handle(len(p.Nodes) - 1)
}

// SlotTouch is one read or write of the interpreter's flat slot file,
// the event RecMemoryChip's trace is built from (mirrors mips's
// MemoryRecord shape, generalized from MIPS's 32-bit words to this
// program's tagged Values).
type SlotTouch struct {
	Slot    Handle
	Value   Value
	IsWrite bool
}

// Interpreter executes a Program node-by-node over a slot file (one slot
// per node, addressed by its own handle), recording every slot touch and
// every opcode-specific event so the recursion AIR's chips can be
// witnessed from a real execution trace rather than synthetic data.
type Interpreter struct {
	slots             []Value
	Touches           []SlotTouch
	BaseAluEvents     []BaseAluEvent
	ExtAluEvents      []ExtAluEvent
	Poseidon2Events   []RecPoseidon2Event
	FriFoldEvents     []FriFoldEvent
	BatchedFriFoldEvents []BatchedFriFoldEvent
	ExpReverseEvents  []ExpReverseBitsEvent
	SelectEvents      []SelectEvent
	PublicValueEvents []PublicValueEvent
}

func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

func (in *Interpreter) write(h Handle, v Value) {
	for len(in.slots) <= int(h) {
		in.slots = append(in.slots, Value{})
	}
	in.slots[h] = v
	in.Touches = append(in.Touches, SlotTouch{Slot: h, Value: v, IsWrite: true})
}

func (in *Interpreter) read(h Handle) Value {
	v := in.slots[h]
	in.Touches = append(in.Touches, SlotTouch{Slot: h, Value: v, IsWrite: false})
	return v
}

// Run executes every node of p in order, returning the output slot's
// final value.
func (in *Interpreter) Run(p *Program) (Value, error) {
	for h, n := range p.Nodes {
		self := Handle(h)
		switch n.Op {
		case OpLoadConst:
			in.write(self, n.Imm)
		case OpAddBase:
			a := in.read(n.Args[0])
			b := in.read(n.Args[1])
			c := (a.Base + b.Base)
			in.write(self, Value{Base: c})
			in.BaseAluEvents = append(in.BaseAluEvents, BaseAluEvent{A: a.Base, B: b.Base, C: c, IsMul: false})
		case OpMulBase:
			a := in.read(n.Args[0])
			b := in.read(n.Args[1])
			c := a.Base * b.Base
			in.write(self, Value{Base: c})
			in.BaseAluEvents = append(in.BaseAluEvents, BaseAluEvent{A: a.Base, B: b.Base, C: c, IsMul: true})
		case OpSubExt:
			a := in.read(n.Args[0])
			b := in.read(n.Args[1])
			var c [4]uint64
			for i := range c {
				c[i] = a.Ext[i] - b.Ext[i]
			}
			in.write(self, Value{Ext: c, IsExt: true})
			in.ExtAluEvents = append(in.ExtAluEvents, ExtAluEvent{A: a.Ext, B: b.Ext, C: c})
		case OpPublicValue:
			v := in.read(n.Args[0])
			in.write(self, v)
			in.PublicValueEvents = append(in.PublicValueEvents, PublicValueEvent{Value: v})
		case OpPoseidon2Compress:
			a := in.read(n.Args[0])
			b := in.read(n.Args[1])
			var state [core.Poseidon2Width]core.Elem
			for i := 0; i < 4; i++ {
				state[i] = core.NewElem(a.Ext[i])
				state[4+i] = core.NewElem(b.Ext[i])
			}
			var input [core.Poseidon2Width]uint64
			for i, e := range state {
				input[i] = uint64(e)
			}
			core.Poseidon2Permute(&state)
			var output [core.Poseidon2Width]uint64
			var c [4]uint64
			for i, e := range state {
				output[i] = uint64(e)
				if i < 4 {
					c[i] = uint64(e)
				}
			}
			in.write(self, Value{Ext: c, IsExt: true})
			in.Poseidon2Events = append(in.Poseidon2Events, RecPoseidon2Event{Input: input, Output: output})
		case OpFriFoldEven:
			value := in.read(n.Args[0])
			sibling := in.read(n.Args[1])
			two := core.NewElemFromInt64(2)
			twoInv, _ := two.Inv()
			var c [4]uint64
			for i := 0; i < 4; i++ {
				sum := core.NewElem(value.Ext[i]).Add(core.NewElem(sibling.Ext[i]))
				c[i] = uint64(sum.Mul(twoInv))
			}
			in.write(self, Value{Ext: c, IsExt: true})
			in.FriFoldEvents = append(in.FriFoldEvents, FriFoldEvent{Value: value.Ext, Sibling: sibling.Ext, EvenPart: c})
		case OpExpReverseBits:
			input := in.read(n.Args[0])
			width := int(n.Imm.Base)
			var reversed uint64
			for i := 0; i < width; i++ {
				if input.Base&(1<<uint(i)) != 0 {
					reversed |= 1 << uint(width-1-i)
				}
			}
			in.write(self, Value{Base: reversed})
			in.ExpReverseEvents = append(in.ExpReverseEvents, ExpReverseBitsEvent{Width: width, Input: input.Base, Reversed: reversed})
		case OpSelect:
			a := in.read(n.Args[0])
			b := in.read(n.Args[1])
			cond := n.Imm.Base
			out := b.Base
			if cond != 0 {
				out = a.Base
			}
			in.write(self, Value{Base: out})
			in.SelectEvents = append(in.SelectEvents, SelectEvent{Cond: cond, A: a.Base, B: b.Base, Out: out})
		default:
			return Value{}, fmt.Errorf("recursion: unhandled opcode %d", n.Op)
		}
	}
	if int(p.Output) >= len(in.slots) {
		return Value{}, fmt.Errorf("recursion: output handle %d never written", p.Output)
	}
	return in.slots[p.Output], nil
}
