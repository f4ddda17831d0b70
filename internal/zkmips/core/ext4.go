package core

import (
	"fmt"
	"math/big"
)

// Ext4NonResidue is the non-residue w such that x^4 - w is irreducible over
// the base field; Ext4 elements are represented as a0 + a1*x + a2*x^2 + a3*x^3
// modulo that polynomial. This is the field verifier challenges (spec §4.3,
// "z drawn from the degree-4 extension field") live in.
const Ext4NonResidue = Elem(11)

// Ext4 is a degree-4 extension of the base field.
type Ext4 [4]Elem

// ZeroExt4 and OneExt4 are the extension field's identities.
var (
	ZeroExt4 = Ext4{}
	OneExt4  = Ext4{One}
)

// NewExt4FromBase embeds a base field element into the extension.
func NewExt4FromBase(a Elem) Ext4 {
	return Ext4{a, 0, 0, 0}
}

// Add returns a+b componentwise.
func (a Ext4) Add(b Ext4) Ext4 {
	var r Ext4
	for i := range r {
		r[i] = a[i].Add(b[i])
	}
	return r
}

// Sub returns a-b componentwise.
func (a Ext4) Sub(b Ext4) Ext4 {
	var r Ext4
	for i := range r {
		r[i] = a[i].Sub(b[i])
	}
	return r
}

// Neg returns -a.
func (a Ext4) Neg() Ext4 {
	var r Ext4
	for i := range r {
		r[i] = a[i].Neg()
	}
	return r
}

// Mul multiplies two degree-4 elements modulo x^4 - Ext4NonResidue.
func (a Ext4) Mul(b Ext4) Ext4 {
	var wide [7]Elem
	for i := 0; i < 4; i++ {
		if a[i].IsZero() {
			continue
		}
		for j := 0; j < 4; j++ {
			wide[i+j] = wide[i+j].Add(a[i].Mul(b[j]))
		}
	}
	// Reduce degrees 4..6 using x^4 = Ext4NonResidue.
	for i := 6; i >= 4; i-- {
		if wide[i].IsZero() {
			continue
		}
		wide[i-4] = wide[i-4].Add(wide[i].Mul(Ext4NonResidue))
		wide[i] = Zero
	}
	return Ext4{wide[0], wide[1], wide[2], wide[3]}
}

// MulBase multiplies an extension element by a base field scalar.
func (a Ext4) MulBase(s Elem) Ext4 {
	var r Ext4
	for i := range r {
		r[i] = a[i].Mul(s)
	}
	return r
}

// IsZero reports whether every coefficient is zero.
func (a Ext4) IsZero() bool {
	return a == ZeroExt4
}

// ext4OrderMinus2 is p^4 - 2, computed once with math/big for exactness;
// exponentiating by it raises any nonzero element to its inverse since the
// extension's multiplicative group has order p^4 - 1.
var ext4OrderMinus2 = func() *big.Int {
	p := big.NewInt(int64(Modulus))
	order := new(big.Int).Exp(p, big.NewInt(4), nil)
	return order.Sub(order, big.NewInt(2))
}()

// Inv computes the multiplicative inverse via a^(p^4-2) = a^-1, using the
// extension's own squaring/multiplication (Fermat's little theorem
// generalized to the extension's multiplicative group).
func (a Ext4) Inv() (Ext4, error) {
	if a.IsZero() {
		return ZeroExt4, fmt.Errorf("core: cannot invert zero extension element")
	}
	result := OneExt4
	base := a
	bits := ext4OrderMinus2.BitLen()
	for i := bits - 1; i >= 0; i-- {
		result = result.Mul(result)
		if ext4OrderMinus2.Bit(i) == 1 {
			result = result.Mul(base)
		}
	}
	return result, nil
}

// Equal reports whether two extension elements are identical.
func (a Ext4) Equal(b Ext4) bool { return a == b }
