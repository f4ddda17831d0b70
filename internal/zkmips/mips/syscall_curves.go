package mips

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bn254"
)

// bn254G1Bytes/bls12381G1Bytes are each curve's uncompressed G1Affine wire
// size (2*Fp), the byte count curveAdd/curveDouble read and write per
// point. bn254's Fp is 32 bytes, bls12-381's is 48.
const (
	bn254FpBytes    = 32
	bn254G1Bytes    = 2 * bn254FpBytes
	bls12381FpBytes = 48
	bls12381G1Bytes = 2 * bls12381FpBytes
)

// bn254Add/bn254Double/bn254FpAdd/... and their bls12-381 counterparts wire
// the BN254 and BLS12-381 precompile families (spec §4.2 "BN254 and
// BLS12-381 curve add/double/decompress" and "Fp and Fp² add/sub/mul mod
// p") onto gnark-crypto's own curve and field-extension arithmetic
// (go.mod's ecc/bn254, ecc/bls12-381), the same dependency this module's
// SNARK wrap stage already compiles circuits against. Unlike edAdd's
// hand-rolled twisted-Edwards formula (Ed25519 has no pack library exposing
// bare curve arithmetic), bn254/bls12-381 are exactly the curves
// gnark-crypto is built around, so these precompiles read/write its own
// Marshal/Unmarshal wire format directly rather than the module's
// little-endian convention.
//
// Each point operand overwrites its first argument with the result,
// mirroring edAdd's in-place convention.
func bn254Add(m *Memory, p, q uint32) {
	var a, b bn254.G1Affine
	_ = a.Unmarshal(readBuffer(m, p, bn254G1Bytes))
	_ = b.Unmarshal(readBuffer(m, q, bn254G1Bytes))
	a.Add(&a, &b)
	writeBuffer(m, p, a.Marshal())
}

func bn254Double(m *Memory, p uint32) {
	var a bn254.G1Affine
	_ = a.Unmarshal(readBuffer(m, p, bn254G1Bytes))
	a.Double(&a)
	writeBuffer(m, p, a.Marshal())
}

func bn254FpAdd(m *Memory, a, b uint32) { bn254FpOp(m, a, b, bn254fpAdd) }
func bn254FpSub(m *Memory, a, b uint32) { bn254FpOp(m, a, b, bn254fpSub) }
func bn254FpMul(m *Memory, a, b uint32) { bn254FpOp(m, a, b, bn254fpMul) }

func bn254fpAdd(z, x, y *bn254.E2) { z.A0.Add(&x.A0, &y.A0) }
func bn254fpSub(z, x, y *bn254.E2) { z.A0.Sub(&x.A0, &y.A0) }
func bn254fpMul(z, x, y *bn254.E2) { z.A0.Mul(&x.A0, &y.A0) }

// bn254FpOp shares Fp arithmetic's read/compute/write shape with bn254Fp2Op
// by running the Fp element through A0 of an otherwise-unused E2, so both
// families funnel through the same four lines.
func bn254FpOp(m *Memory, a, b uint32, op func(z, x, y *bn254.E2)) {
	var x, y, z bn254.E2
	x.A0.SetBytes(readBuffer(m, a, bn254FpBytes))
	y.A0.SetBytes(readBuffer(m, b, bn254FpBytes))
	op(&z, &x, &y)
	out := z.A0.Bytes()
	writeBuffer(m, a, out[:])
}

func bn254Fp2Add(m *Memory, a, b uint32) { bn254Fp2Op(m, a, b, (*bn254.E2).Add) }
func bn254Fp2Sub(m *Memory, a, b uint32) { bn254Fp2Op(m, a, b, (*bn254.E2).Sub) }
func bn254Fp2Mul(m *Memory, a, b uint32) { bn254Fp2Op(m, a, b, (*bn254.E2).Mul) }

func bn254Fp2Op(m *Memory, a, b uint32, op func(z, x, y *bn254.E2) *bn254.E2) {
	var x, y, z bn254.E2
	buf := readBuffer(m, a, 2*bn254FpBytes)
	x.A0.SetBytes(buf[:bn254FpBytes])
	x.A1.SetBytes(buf[bn254FpBytes:])
	buf = readBuffer(m, b, 2*bn254FpBytes)
	y.A0.SetBytes(buf[:bn254FpBytes])
	y.A1.SetBytes(buf[bn254FpBytes:])
	op(&z, &x, &y)
	a0, a1 := z.A0.Bytes(), z.A1.Bytes()
	writeBuffer(m, a, append(a0[:], a1[:]...))
}

func bls12381Add(m *Memory, p, q uint32) {
	var a, b bls12381.G1Affine
	_ = a.Unmarshal(readBuffer(m, p, bls12381G1Bytes))
	_ = b.Unmarshal(readBuffer(m, q, bls12381G1Bytes))
	a.Add(&a, &b)
	writeBuffer(m, p, a.Marshal())
}

func bls12381Double(m *Memory, p uint32) {
	var a bls12381.G1Affine
	_ = a.Unmarshal(readBuffer(m, p, bls12381G1Bytes))
	a.Double(&a)
	writeBuffer(m, p, a.Marshal())
}

// bls12381Decompress recovers a G1Affine's full (x, y) pair from its
// compressed Fp-sized encoding (spec §4.2 "BLS12-381 ... decompress"),
// using gnark-crypto's own SetBytes, which already implements the
// y-recovery square root the same way edDecompress hand-rolls for
// Ed25519's field.
func bls12381Decompress(m *Memory, ptr uint32) {
	var a bls12381.G1Affine
	if _, err := a.SetBytes(readBuffer(m, ptr, bls12381FpBytes)); err != nil {
		return
	}
	writeBuffer(m, ptr, a.Marshal())
}

func bls12381FpAdd(m *Memory, a, b uint32) { bls12381FpOp(m, a, b, bls12381fpAdd) }
func bls12381FpSub(m *Memory, a, b uint32) { bls12381FpOp(m, a, b, bls12381fpSub) }
func bls12381FpMul(m *Memory, a, b uint32) { bls12381FpOp(m, a, b, bls12381fpMul) }

func bls12381fpAdd(z, x, y *bls12381.E2) { z.A0.Add(&x.A0, &y.A0) }
func bls12381fpSub(z, x, y *bls12381.E2) { z.A0.Sub(&x.A0, &y.A0) }
func bls12381fpMul(z, x, y *bls12381.E2) { z.A0.Mul(&x.A0, &y.A0) }

func bls12381FpOp(m *Memory, a, b uint32, op func(z, x, y *bls12381.E2)) {
	var x, y, z bls12381.E2
	x.A0.SetBytes(readBuffer(m, a, bls12381FpBytes))
	y.A0.SetBytes(readBuffer(m, b, bls12381FpBytes))
	op(&z, &x, &y)
	out := z.A0.Bytes()
	writeBuffer(m, a, out[:])
}

func bls12381Fp2Add(m *Memory, a, b uint32) { bls12381Fp2Op(m, a, b, (*bls12381.E2).Add) }
func bls12381Fp2Sub(m *Memory, a, b uint32) { bls12381Fp2Op(m, a, b, (*bls12381.E2).Sub) }
func bls12381Fp2Mul(m *Memory, a, b uint32) { bls12381Fp2Op(m, a, b, (*bls12381.E2).Mul) }

func bls12381Fp2Op(m *Memory, a, b uint32, op func(z, x, y *bls12381.E2) *bls12381.E2) {
	var x, y, z bls12381.E2
	buf := readBuffer(m, a, 2*bls12381FpBytes)
	x.A0.SetBytes(buf[:bls12381FpBytes])
	x.A1.SetBytes(buf[bls12381FpBytes:])
	buf = readBuffer(m, b, 2*bls12381FpBytes)
	y.A0.SetBytes(buf[:bls12381FpBytes])
	y.A1.SetBytes(buf[bls12381FpBytes:])
	op(&z, &x, &y)
	a0, a1 := z.A0.Bytes(), z.A1.Bytes()
	writeBuffer(m, a, append(a0[:], a1[:]...))
}
