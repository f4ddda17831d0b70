// Package chips implements the concrete air.Chip set driving this
// machine's trace (spec §4.2): the CPU chip, one chip per ALU
// instruction family, the memory/branch/jump/syscall chips, the
// preprocessed program and bytes chips, and (in chips/precompiles) the
// hash/curve/modular-arithmetic precompile chips.
package chips

import "github.com/zkmips/zkmips/internal/zkmips/core"

// ByteDecompose splits a 32-bit word into its four little-endian byte
// limbs as field elements. No chip in this package calls it: word
// columns are carried whole through elemU32 below.
func ByteDecompose(v uint32) [4]core.Elem {
	return [4]core.Elem{
		core.NewElem(uint64(v & 0xff)),
		core.NewElem(uint64((v >> 8) & 0xff)),
		core.NewElem(uint64((v >> 16) & 0xff)),
		core.NewElem(uint64((v >> 24) & 0xff)),
	}
}

// ByteRecompose is ByteDecompose's inverse, folding four byte limbs back
// into the 32-bit word they represent.
func ByteRecompose(b [4]core.Elem) uint32 {
	return b[0].Uint32() | b[1].Uint32()<<8 | b[2].Uint32()<<16 | b[3].Uint32()<<24
}

// boolConstraint is zero iff v is 0 or 1, the standard boolean-column
// enforcement used for every is_real/flag column below.
func boolConstraint(v core.Elem) core.Elem {
	return v.Mul(v.Sub(core.One))
}

// elemU32 lifts a raw uint32 into the field, used for columns that carry
// a machine word directly rather than limb-decomposed (addresses,
// clocks truncated to 32 bits, and the like).
func elemU32(v uint32) core.Elem { return core.NewElem(uint64(v)) }
