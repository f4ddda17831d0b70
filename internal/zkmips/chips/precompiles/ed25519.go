package precompiles

import "github.com/zkmips/zkmips/internal/zkmips/mips"

// NewEdDecompressChip witnesses the address sets the ED_ADD and
// ED_DECOMPRESS syscalls (spec §4.2 "Ed25519 add / decompress") touch;
// both flatten into the single "ed_decompress" chip name (see
// mips.PrecompileChipName). syscall.go's edAdd/edDecompress already
// perform the real twisted-Edwards point arithmetic with math/big; a
// fully constrained version would need limb-decomposed field-element
// columns and the modular-reduction argument that arithmetic depends
// on, the scope bound AddressWitnessChip's doc comment describes.
func NewEdDecompressChip() *AddressWitnessChip {
	return NewAddressWitnessChip("ed_decompress", mips.SysEdAdd, mips.SysEdDecompress)
}
