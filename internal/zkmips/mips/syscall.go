package mips

import (
	"fmt"
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/zkmips/zkmips/internal/zkmips/core"
)

// Syscall numbers (spec §6 "Syscall ABI"), the closed set the SYSCALL
// instruction dispatches on via register $2.
const (
	SysHalt               = 0x00
	SysWrite              = 0x02
	SysEnterUnconstrained = 0x03
	SysExitUnconstrained  = 0x04
	SysCommit             = 0x10
	SysCommitDeferred     = 0x1A
	SysVerifyProof        = 0x1B
	SysHintLen            = 0xF0
	SysHintRead           = 0xF1
	SysVerify             = 0xF2

	SysShaExtend         = 0x00300105
	SysShaCompress       = 0x00010106
	SysEdAdd             = 0x00010107
	SysEdDecompress      = 0x00000108
	SysKeccakSponge      = 0x00010109
	SysSecp256k1Add      = 0x0001010A
	SysSecp256k1Double   = 0x0000010B
	SysSecp256k1Decomp   = 0x0000010C
	SysBn254Add          = 0x0001010E
	SysBn254Double       = 0x0000010F
	SysBls12381Decomp    = 0x0000011C
	SysUint256Mul        = 0x0001011D
	SysBls12381Add       = 0x0000011E
	SysBls12381Double    = 0x0000011F
	SysBls12381FpAdd     = 0x00000120
	SysBls12381FpSub     = 0x00000121
	SysBls12381FpMul     = 0x00000122
	SysBls12381Fp2Add    = 0x00000123
	SysBls12381Fp2Sub    = 0x00000124
	SysBls12381Fp2Mul    = 0x00000125
	SysBn254FpAdd        = 0x00000126
	SysBn254FpSub        = 0x00000127
	SysBn254FpMul        = 0x00000128
	SysBn254Fp2Add       = 0x00000129
	SysBn254Fp2Sub       = 0x0000012A
	SysBn254Fp2Mul       = 0x0000012B
	SysSecp256r1Add      = 0x0001012C
	SysSecp256r1Double   = 0x0000012D
	SysSecp256r1Decomp   = 0x0000012E
	SysU256xU2048Mul     = 0x0001012F
	SysPoseidon2Permute  = 0x00000130
)

// ErrDeferredObligation flags a verify-zkm-proof syscall whose nested
// receipt was not later fulfilled by the caller (spec §7
// "DeferredObligationUnfulfilled").
var ErrDeferredObligation = fmt.Errorf("mips: deferred proof obligation")

// DeferredObligation is one verify-zkm-proof syscall's recorded demand,
// resolved by the recursion layer rather than at execution time (spec
// §4.1 "records a deferred obligation to verify a nested receipt").
type DeferredObligation struct {
	Shard      uint64
	VKeyDigest [32]byte
	PVDigest   [32]byte
}

// Syscall executes one SYSCALL instruction's dispatched number,
// mutating state/memory and appending the appropriate events (spec §4.1
// "Syscalls"). It returns (shouldHalt, error).
func (e *Executor) Syscall(s *State, log *EventLog) (bool, error) {
	number := s.Reg(2)
	a0, a1 := s.Reg(4), s.Reg(5)

	var before, after []uint32

	switch number {
	case SysHalt:
		s.ExitCode = a0
		s.Halted = true
		return true, nil
	case SysWrite:
		e.stdout = append(e.stdout, readBuffer(s.Memory, a0, a1)...)
	case SysEnterUnconstrained:
		if s.UnconstrainedDepth > 0 {
			return false, fmt.Errorf("%w: nested enter-unconstrained", ErrInvalidExecution)
		}
		s.UnconstrainedDepth++
	case SysExitUnconstrained:
		if s.UnconstrainedDepth == 0 {
			return false, fmt.Errorf("%w: exit-unconstrained without enter", ErrInvalidExecution)
		}
		s.UnconstrainedDepth--
	case SysCommit:
		e.publicValues = append(e.publicValues, readBuffer(s.Memory, a0, a1)...)
	case SysCommitDeferred:
		e.deferredDigest = append(e.deferredDigest, readBuffer(s.Memory, a0, a1)...)
		if len(e.deferred) >= e.cfg.MaxDeferredProofs {
			return false, fmt.Errorf("%w: exceeded MaxDeferredProofs", ErrInvalidExecution)
		}
	case SysVerifyProof, SysVerify:
		var vk, pv [32]byte
		copy(vk[:], readBuffer(s.Memory, a0, 32))
		copy(pv[:], readBuffer(s.Memory, a1, 32))
		e.deferred = append(e.deferred, DeferredObligation{Shard: s.Shard, VKeyDigest: vk, PVDigest: pv})
	case SysHintLen:
		s.SetReg(2, uint32(len(e.hints)-e.hintPos))
	case SysHintRead:
		n := int(a1)
		if e.hintPos+n > len(e.hints) {
			return false, fmt.Errorf("%w: hint stream exhausted", ErrInvalidExecution)
		}
		for i := 0; i < n; i++ {
			s.Memory.WriteByte(a0+uint32(i), e.hints[e.hintPos+i])
		}
		e.hintPos += n

	case SysShaExtend:
		before, after = shaExtend(s.Memory, a0)
	case SysShaCompress:
		before, after = shaCompress(s.Memory, a0, a1)
	case SysEdAdd:
		edAdd(s.Memory, a0, a1)
	case SysEdDecompress:
		edDecompress(s.Memory, a0)
	case SysKeccakSponge:
		keccakSponge(s.Memory, a0, a1)
	case SysPoseidon2Permute:
		log.Poseidon2 = append(log.Poseidon2, poseidon2PermuteMemory(s, a0))
	case SysUint256Mul:
		uint256MulMod(s.Memory, a0, a1)

	case SysBn254Add:
		bn254Add(s.Memory, a0, a1)
	case SysBn254Double:
		bn254Double(s.Memory, a0)
	case SysBn254FpAdd:
		bn254FpAdd(s.Memory, a0, a1)
	case SysBn254FpSub:
		bn254FpSub(s.Memory, a0, a1)
	case SysBn254FpMul:
		bn254FpMul(s.Memory, a0, a1)
	case SysBn254Fp2Add:
		bn254Fp2Add(s.Memory, a0, a1)
	case SysBn254Fp2Sub:
		bn254Fp2Sub(s.Memory, a0, a1)
	case SysBn254Fp2Mul:
		bn254Fp2Mul(s.Memory, a0, a1)

	case SysBls12381Add:
		bls12381Add(s.Memory, a0, a1)
	case SysBls12381Double:
		bls12381Double(s.Memory, a0)
	case SysBls12381Decomp:
		bls12381Decompress(s.Memory, a0)
	case SysBls12381FpAdd:
		bls12381FpAdd(s.Memory, a0, a1)
	case SysBls12381FpSub:
		bls12381FpSub(s.Memory, a0, a1)
	case SysBls12381FpMul:
		bls12381FpMul(s.Memory, a0, a1)
	case SysBls12381Fp2Add:
		bls12381Fp2Add(s.Memory, a0, a1)
	case SysBls12381Fp2Sub:
		bls12381Fp2Sub(s.Memory, a0, a1)
	case SysBls12381Fp2Mul:
		bls12381Fp2Mul(s.Memory, a0, a1)

	default:
		return false, fmt.Errorf("%w: unknown syscall number 0x%x", ErrInvalidExecution, number)
	}

	log.Syscall = append(log.Syscall, SyscallEvent{Shard: s.Shard, Clock: s.Clock, Number: number, Arg1: a0, Arg2: a1, Result: s.Reg(2)})
	if isPrecompile(number) {
		log.Precompile[number] = append(log.Precompile[number], PrecompileEvent{Shard: s.Shard, Clock: s.Clock, Syscall: number, Addresses: []uint32{a0, a1}, Before: before, After: after})
	}
	return false, nil
}

func isPrecompile(number uint32) bool {
	return number >= 0x100 && number != SysHintLen && number != SysHintRead && number != SysVerify
}

func readBuffer(m *Memory, addr, length uint32) []byte {
	out := make([]byte, length)
	for i := range out {
		out[i] = m.ReadByte(addr + uint32(i))
	}
	return out
}

func writeBuffer(m *Memory, addr uint32, data []byte) {
	for i, b := range data {
		m.WriteByte(addr+uint32(i), b)
	}
}

// Sha256Extend fills w[16:64] from w[0:16] via the SHA-256 message-schedule
// recurrence (spec §4.2 "SHA-256 compress/extend"). Kept as a pure function
// of a plain array, rather than inlined into shaExtend's memory-reading
// loop, so the sha_extend precompile chip can re-run the identical
// computation over committed trace columns (see ShaExtendChip).
func Sha256Extend(w *[64]uint32) {
	for i := 16; i < 64; i++ {
		s0 := rotr32(w[i-15], 7) ^ rotr32(w[i-15], 18) ^ (w[i-15] >> 3)
		s1 := rotr32(w[i-2], 17) ^ rotr32(w[i-2], 19) ^ (w[i-2] >> 10)
		w[i] = w[i-16] + s0 + w[i-7] + s1
	}
}

// shaExtend reads the 16-word message block at wPtr, extends it to the
// full 64-word schedule via Sha256Extend, writes words 16-63 back, and
// returns the before/after snapshot the sha_extend chip's event needs to
// re-derive the same schedule.
func shaExtend(m *Memory, wPtr uint32) (before, after []uint32) {
	var w [64]uint32
	for i := 0; i < 16; i++ {
		w[i] = m.ReadWord(wPtr + uint32(i*4))
	}
	before = append([]uint32(nil), w[:16]...)
	Sha256Extend(&w)
	for i := 16; i < 64; i++ {
		m.WriteWord(wPtr+uint32(i*4), w[i])
	}
	after = append([]uint32(nil), w[:]...)
	return before, after
}

func rotr32(x uint32, n uint) uint32 { return (x >> n) | (x << (32 - n)) }

var sha256K = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

// Sha256Compress runs SHA-256's 64-round compression function over hs in
// place given the (already-extended) message schedule ws. A pure function
// of two plain arrays for the same reason Sha256Extend is: ShaCompressChip
// re-runs it verbatim over committed trace columns.
func Sha256Compress(hs *[8]uint32, ws *[64]uint32) {
	a, b, c, d, e, f, g, hh := hs[0], hs[1], hs[2], hs[3], hs[4], hs[5], hs[6], hs[7]
	for i := 0; i < 64; i++ {
		s1 := rotr32(e, 6) ^ rotr32(e, 11) ^ rotr32(e, 25)
		ch := (e & f) ^ (^e & g)
		t1 := hh + s1 + ch + sha256K[i] + ws[i]
		s0 := rotr32(a, 2) ^ rotr32(a, 13) ^ rotr32(a, 22)
		maj := (a & b) ^ (a & c) ^ (b & c)
		t2 := s0 + maj
		hh, g, f, e, d, c, b, a = g, f, e, d+t1, c, b, a, t1+t2
	}
	hs[0] += a
	hs[1] += b
	hs[2] += c
	hs[3] += d
	hs[4] += e
	hs[5] += f
	hs[6] += g
	hs[7] += hh
}

// shaCompress reads the initial hash state at hPtr and the extended
// schedule at wPtr, compresses via Sha256Compress, writes the digest back,
// and returns the before/after snapshot the sha_compress chip's event
// needs: before is the initial hash words followed by the full schedule,
// after is the resulting digest words.
func shaCompress(m *Memory, hPtr, wPtr uint32) (before, after []uint32) {
	var hs [8]uint32
	for i := 0; i < 8; i++ {
		hs[i] = m.ReadWord(hPtr + uint32(i*4))
	}
	var ws [64]uint32
	for i := 0; i < 64; i++ {
		ws[i] = m.ReadWord(wPtr + uint32(i*4))
	}
	before = make([]uint32, 0, 8+64)
	before = append(before, hs[:]...)
	before = append(before, ws[:]...)

	Sha256Compress(&hs, &ws)

	for i := 0; i < 8; i++ {
		m.WriteWord(hPtr+uint32(i*4), hs[i])
	}
	after = append([]uint32(nil), hs[:]...)
	return before, after
}

// keccakSponge absorbs a variable-length input and writes a 32-byte
// Keccak-256 digest, grounded on the teacher's own choice of
// golang.org/x/crypto/sha3 for hashing (utils/channel.go).
func keccakSponge(m *Memory, ptr, length uint32) {
	data := readBuffer(m, ptr, length)
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	writeBuffer(m, ptr, h.Sum(nil))
}

// ed25519P is the field modulus 2^255-19 and ed25519D the curve's twisted
// Edwards parameter -121665/121666 mod p, the two constants the affine
// addition formula needs.
var ed25519P = mustBig("57896044618658097711785492504343953926634992332820282019728792003956564819949")

var ed25519D = computeEd25519D()

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("mips: bad constant")
	}
	return v
}

func computeEd25519D() *big.Int {
	num := big.NewInt(-121665)
	den := big.NewInt(121666)
	num.Mod(num, ed25519P)
	denInv := new(big.Int).ModInverse(den, ed25519P)
	return num.Mul(num, denInv).Mod(num, ed25519P)
}

func leBytesToInt(b []byte) *big.Int {
	rev := make([]byte, len(b))
	for i, v := range b {
		rev[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(rev)
}

func intToLEBytes(v *big.Int, n int) []byte {
	be := v.Bytes()
	out := make([]byte, n)
	for i, b := range be {
		out[len(be)-1-i] = b
	}
	return out
}

// edAdd performs Ed25519 affine point addition on two 64-byte
// little-endian (x, y) coordinate pairs (spec §4.2 "Ed25519 ... curve
// add"), overwriting the first operand with the sum. Uses the twisted
// Edwards addition law directly over math/big; there is no pack library
// exposing raw Edwards curve point arithmetic independent of a signature
// API (gnark-crypto's twisted-edwards package is scoped to its own
// BLS12-381 companion curve, not Ed25519's base field).
func edAdd(m *Memory, p, q uint32) {
	x1, y1 := leBytesToInt(readBuffer(m, p, 32)), leBytesToInt(readBuffer(m, p+32, 32))
	x2, y2 := leBytesToInt(readBuffer(m, q, 32)), leBytesToInt(readBuffer(m, q+32, 32))

	mod := ed25519P
	one := big.NewInt(1)

	x1y2 := new(big.Int).Mul(x1, y2)
	y1x2 := new(big.Int).Mul(y1, x2)
	x1x2y1y2d := new(big.Int).Mul(x1, x2)
	x1x2y1y2d.Mul(x1x2y1y2d, y1)
	x1x2y1y2d.Mul(x1x2y1y2d, y2)
	x1x2y1y2d.Mul(x1x2y1y2d, ed25519D)

	xNum := new(big.Int).Add(x1y2, y1x2)
	xDen := new(big.Int).Add(one, x1x2y1y2d)
	xDen.Mod(xDen, mod)
	xDenInv := new(big.Int).ModInverse(xDen, mod)
	x3 := xNum.Mul(xNum, xDenInv)
	x3.Mod(x3, mod)

	y1y2 := new(big.Int).Mul(y1, y2)
	x1x2 := new(big.Int).Mul(x1, x2)
	yNum := new(big.Int).Sub(y1y2, x1x2)
	yDen := new(big.Int).Sub(one, x1x2y1y2d)
	yDen.Mod(yDen, mod)
	yDenInv := new(big.Int).ModInverse(yDen, mod)
	y3 := yNum.Mul(yNum, yDenInv)
	y3.Mod(y3, mod)

	writeBuffer(m, p, intToLEBytes(x3, 32))
	writeBuffer(m, p+32, intToLEBytes(y3, 32))
}

// edDecompress recovers the x-coordinate's sign-adjusted value from a
// 32-byte compressed Ed25519 point, writing the full (x, y) pair back
// starting at ptr (spec §4.2 "Ed25519 ... decompress").
func edDecompress(m *Memory, ptr uint32) {
	compressed := readBuffer(m, ptr, 32)
	signBit := compressed[31] >> 7
	yBytes := append([]byte(nil), compressed...)
	yBytes[31] &^= 0x80
	y := leBytesToInt(yBytes)

	mod := ed25519P
	one := big.NewInt(1)
	y2 := new(big.Int).Mul(y, y)
	num := new(big.Int).Sub(y2, one)
	num.Mod(num, mod)
	den := new(big.Int).Mul(ed25519D, y2)
	den.Add(den, one)
	den.Mod(den, mod)
	denInv := new(big.Int).ModInverse(den, mod)
	x2 := num.Mul(num, denInv)
	x2.Mod(x2, mod)

	exp := new(big.Int).Add(mod, big.NewInt(3))
	exp.Div(exp, big.NewInt(8))
	x := new(big.Int).Exp(x2, exp, mod)
	if new(big.Int).Exp(x, big.NewInt(2), mod).Cmp(x2) != 0 {
		sqrtM1 := new(big.Int).Exp(big.NewInt(2), new(big.Int).Div(new(big.Int).Sub(mod, one), big.NewInt(4)), mod)
		x.Mul(x, sqrtM1)
		x.Mod(x, mod)
	}
	if uint8(x.Bit(0)) != signBit {
		x.Sub(mod, x)
	}

	writeBuffer(m, ptr, intToLEBytes(x, 32))
	writeBuffer(m, ptr+32, yBytes)
}

// poseidon2PermuteMemory applies the module's own width-16 Poseidon2
// permutation to a 16-word buffer in place, the same permutation the
// transcript and MMCS commitments use elsewhere in this module (spec
// §4.2 "Poseidon2 permutation (width-16 over the base field)"), and
// returns the input/output snapshot the poseidon2_permute chip needs to
// re-run and check the same permutation over committed trace values.
func poseidon2PermuteMemory(s *State, ptr uint32) Poseidon2Event {
	var state [core.Poseidon2Width]core.Elem
	var input [16]uint32
	for i := 0; i < core.Poseidon2Width; i++ {
		w := s.Memory.ReadWord(ptr + uint32(i*4))
		input[i] = w
		state[i] = core.NewElem(uint64(w))
	}
	core.Poseidon2Permute(&state)
	var output [16]uint32
	for i := 0; i < core.Poseidon2Width; i++ {
		output[i] = state[i].Uint32()
		s.Memory.WriteWord(ptr+uint32(i*4), output[i])
	}
	return Poseidon2Event{Shard: s.Shard, Clock: s.Clock, Addr: ptr, Input: input, Output: output}
}

// uint256Modulus2to256 is 2^256, the effective modulus uint256MulMod uses
// when the guest passes an all-zero modulus word, giving plain wraparound
// 256-bit multiplication rather than a ModInverse-style failure on a zero
// modulus.
var uint256Modulus2to256 = new(big.Int).Lsh(big.NewInt(1), 256)

// uint256MulMod computes x = (x*y) mod modulus in place (spec §4.2 "uint256
// multiply mod p"). x is a 32-byte little-endian operand at xPtr, overwritten
// with the result; yPtr points at the 64-byte buffer [y, modulus], the same
// operand-plus-modulus ABI edAdd/edDecompress use for their own fixed-width
// coordinate buffers. A zero modulus means "no modulus", i.e. multiply mod
// 2^256.
func uint256MulMod(m *Memory, xPtr, yPtr uint32) {
	x := leBytesToInt(readBuffer(m, xPtr, 32))
	y := leBytesToInt(readBuffer(m, yPtr, 32))
	mod := leBytesToInt(readBuffer(m, yPtr+32, 32))
	if mod.Sign() == 0 {
		mod = uint256Modulus2to256
	}

	result := new(big.Int).Mul(x, y)
	result.Mod(result, mod)

	writeBuffer(m, xPtr, intToLEBytes(result, 32))
}
