package mips

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bn254"
)

func TestUint256MulModWraparound(t *testing.T) {
	m := NewMemory()
	x := new(big.Int).Lsh(big.NewInt(1), 255)
	writeBuffer(m, 0x1000, intToLEBytes(x, 32))
	writeBuffer(m, 0x2000, intToLEBytes(big.NewInt(4), 32))
	// leave the modulus word (0x2020) zero -> mod 2^256

	uint256MulMod(m, 0x1000, 0x2000)

	got := leBytesToInt(readBuffer(m, 0x1000, 32))
	want := new(big.Int).Mod(new(big.Int).Mul(x, big.NewInt(4)), uint256Modulus2to256)
	if got.Cmp(want) != 0 {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestUint256MulModWithModulus(t *testing.T) {
	m := NewMemory()
	writeBuffer(m, 0x1000, intToLEBytes(big.NewInt(7), 32))
	writeBuffer(m, 0x2000, intToLEBytes(big.NewInt(5), 32))
	writeBuffer(m, 0x2020, intToLEBytes(big.NewInt(9), 32))

	uint256MulMod(m, 0x1000, 0x2000)

	got := leBytesToInt(readBuffer(m, 0x1000, 32))
	if got.Cmp(big.NewInt(8)) != 0 { // 7*5 mod 9 == 35 mod 9 == 8
		t.Fatalf("got %s, want 8", got)
	}
}

func TestBn254AddMatchesGnarkCrypto(t *testing.T) {
	_, _, g1, _ := bn254.Generators()
	var p, q bn254.G1Affine
	p.Double(&g1)
	q.Set(&g1)

	m := NewMemory()
	writeBuffer(m, 0x1000, p.Marshal())
	writeBuffer(m, 0x2000, q.Marshal())

	bn254Add(m, 0x1000, 0x2000)

	var want bn254.G1Affine
	want.Add(&p, &q)

	var got bn254.G1Affine
	if err := got.Unmarshal(readBuffer(m, 0x1000, bn254G1Bytes)); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !got.Equal(&want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBn254DoubleMatchesGnarkCrypto(t *testing.T) {
	_, _, g1, _ := bn254.Generators()

	m := NewMemory()
	writeBuffer(m, 0x1000, g1.Marshal())
	bn254Double(m, 0x1000)

	var want bn254.G1Affine
	want.Double(&g1)

	var got bn254.G1Affine
	if err := got.Unmarshal(readBuffer(m, 0x1000, bn254G1Bytes)); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !got.Equal(&want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBn254FpAddMatchesGnarkCrypto(t *testing.T) {
	var a, b bn254.E2
	a.A0.SetUint64(3)
	b.A0.SetUint64(4)
	aBytes := a.A0.Bytes()
	bBytes := b.A0.Bytes()

	m := NewMemory()
	writeBuffer(m, 0x1000, aBytes[:])
	writeBuffer(m, 0x2000, bBytes[:])
	bn254FpAdd(m, 0x1000, 0x2000)

	var want bn254.E2
	want.A0.Add(&a.A0, &b.A0)
	wantBytes := want.A0.Bytes()

	if string(readBuffer(m, 0x1000, bn254FpBytes)) != string(wantBytes[:]) {
		t.Fatal("bn254 Fp add mismatch")
	}
}

func TestBls12381DecompressMatchesGnarkCrypto(t *testing.T) {
	_, _, g1, _ := bls12381.Generators()

	m := NewMemory()
	compressed := g1.Bytes()
	writeBuffer(m, 0x1000, compressed[:])

	bls12381Decompress(m, 0x1000)

	var got bls12381.G1Affine
	if err := got.Unmarshal(readBuffer(m, 0x1000, bls12381G1Bytes)); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !got.Equal(&g1) {
		t.Fatalf("got %v, want %v", got, g1)
	}
}

func TestBls12381Fp2MulMatchesGnarkCrypto(t *testing.T) {
	var a, b bls12381.E2
	a.A0.SetUint64(2)
	a.A1.SetUint64(3)
	b.A0.SetUint64(5)
	b.A1.SetUint64(7)

	a0, a1 := a.A0.Bytes(), a.A1.Bytes()
	b0, b1 := b.A0.Bytes(), b.A1.Bytes()

	m := NewMemory()
	writeBuffer(m, 0x1000, append(a0[:], a1[:]...))
	writeBuffer(m, 0x2000, append(b0[:], b1[:]...))
	bls12381Fp2Mul(m, 0x1000, 0x2000)

	var want bls12381.E2
	want.Mul(&a, &b)
	w0, w1 := want.A0.Bytes(), want.A1.Bytes()

	got := readBuffer(m, 0x1000, 2*bls12381FpBytes)
	wantBytes := append(w0[:], w1[:]...)
	if string(got) != string(wantBytes) {
		t.Fatal("bls12-381 Fp2 mul mismatch")
	}
}
