// Package core implements the base field, its degree-4 and degree-7
// extensions, and the elliptic curve used for multiset-hashing memory
// consistency (spec §4.2, "Memory consistency algorithm").
package core

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var errZeroInverse = fmt.Errorf("core: cannot invert zero extension element")

// Modulus is the base prime p = 2^31 - 2^24 + 1, chosen for its FFT-friendly
// two-adicity (2^24 | p-1) and 31-bit width.
const Modulus uint64 = (1 << 31) - (1 << 24) + 1

// Generator is a multiplicative generator of the base field's cyclic group.
const Generator uint64 = 3

// Field is a marker type identifying the base prime field. Unlike the
// teacher's big.Int-backed Field, elements here are plain machine words:
// the field is small and fixed, so there is no benefit to a runtime modulus.
type Field struct{}

// Elem is an element of the base field, always kept in [0, Modulus).
type Elem uint32

// Zero and One are the additive and multiplicative identities.
var (
	Zero = Elem(0)
	One  = Elem(1)
)

// NewElem reduces x modulo the field modulus.
func NewElem(x uint64) Elem {
	return Elem(x % Modulus)
}

// NewElemFromInt64 reduces a signed value into the field, mapping negative
// values to their additive-inverse representative.
func NewElemFromInt64(x int64) Elem {
	m := int64(Modulus)
	x %= m
	if x < 0 {
		x += m
	}
	return Elem(x)
}

// RandomElem draws a uniformly random field element.
func RandomElem() (Elem, error) {
	max := big.NewInt(int64(Modulus))
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return Zero, fmt.Errorf("core: random element: %w", err)
	}
	return Elem(n.Uint64()), nil
}

// Add returns a+b mod p.
func (a Elem) Add(b Elem) Elem {
	s := uint64(a) + uint64(b)
	if s >= Modulus {
		s -= Modulus
	}
	return Elem(s)
}

// Sub returns a-b mod p.
func (a Elem) Sub(b Elem) Elem {
	if a >= b {
		return a - b
	}
	return Elem(uint64(a) + Modulus - uint64(b))
}

// Neg returns -a mod p.
func (a Elem) Neg() Elem {
	if a == 0 {
		return 0
	}
	return Elem(Modulus) - a
}

// Mul returns a*b mod p using 64-bit intermediate products (a,b < 2^31 so
// the product fits in 62 bits, safely below the uint64 range).
func (a Elem) Mul(b Elem) Elem {
	return Elem((uint64(a) * uint64(b)) % Modulus)
}

// Square returns a^2 mod p.
func (a Elem) Square() Elem {
	return a.Mul(a)
}

// Exp returns a^e mod p via square-and-multiply.
func (a Elem) Exp(e uint64) Elem {
	result := One
	base := a
	for e > 0 {
		if e&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		e >>= 1
	}
	return result
}

// Inv returns the multiplicative inverse via Fermat's little theorem:
// a^(p-2) = a^-1 for a != 0.
func (a Elem) Inv() (Elem, error) {
	if a == 0 {
		return Zero, fmt.Errorf("core: cannot invert zero")
	}
	return a.Exp(Modulus - 2), nil
}

// Div returns a/b mod p.
func (a Elem) Div(b Elem) (Elem, error) {
	inv, err := b.Inv()
	if err != nil {
		return Zero, fmt.Errorf("core: division: %w", err)
	}
	return a.Mul(inv), nil
}

// IsZero reports whether a is the additive identity.
func (a Elem) IsZero() bool { return a == 0 }

// Uint32 returns the canonical uint32 representative.
func (a Elem) Uint32() uint32 { return uint32(a) }

// Bytes returns the little-endian 4-byte encoding of a.
func (a Elem) Bytes() [4]byte {
	v := uint32(a)
	return [4]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

// String renders the element in decimal.
func (a Elem) String() string {
	return fmt.Sprintf("%d", uint32(a))
}
