package precompiles

import "github.com/zkmips/zkmips/internal/zkmips/mips"

// NewKeccakSpongeChip witnesses the address set the KECCAK_SPONGE
// syscall (spec §4.2 "Keccak-256 sponge") touches. syscall.go's
// keccakSponge delegates the real permutation to golang.org/x/crypto/sha3
// at run time; a fully constrained AIR version would need the same
// bit-decomposed round argument SHA-256 would, out of scope here for the
// reasons AddressWitnessChip documents.
func NewKeccakSpongeChip() *AddressWitnessChip {
	return NewAddressWitnessChip("keccak_sponge", mips.SysKeccakSponge)
}
