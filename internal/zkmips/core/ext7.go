package core

import "math/big"

// Ext7NonResidue is the non-residue w such that x^7 - w is irreducible over
// the base field. Ext7 is the field the multiset-hash elliptic curve is
// defined over (spec §4.2, GLOSSARY "Multiset hash").
const Ext7NonResidue = Elem(5)

// Ext7 is a degree-7 extension of the base field.
type Ext7 [7]Elem

// ZeroExt7 and OneExt7 are the extension field's identities.
var (
	ZeroExt7 = Ext7{}
	OneExt7  = Ext7{One}
)

// NewExt7FromBase embeds a base field element into the extension.
func NewExt7FromBase(a Elem) Ext7 {
	var r Ext7
	r[0] = a
	return r
}

// Add returns a+b componentwise.
func (a Ext7) Add(b Ext7) Ext7 {
	var r Ext7
	for i := range r {
		r[i] = a[i].Add(b[i])
	}
	return r
}

// Sub returns a-b componentwise.
func (a Ext7) Sub(b Ext7) Ext7 {
	var r Ext7
	for i := range r {
		r[i] = a[i].Sub(b[i])
	}
	return r
}

// Neg returns -a.
func (a Ext7) Neg() Ext7 {
	var r Ext7
	for i := range r {
		r[i] = a[i].Neg()
	}
	return r
}

// Mul multiplies two degree-7 elements modulo x^7 - Ext7NonResidue.
func (a Ext7) Mul(b Ext7) Ext7 {
	var wide [13]Elem
	for i := 0; i < 7; i++ {
		if a[i].IsZero() {
			continue
		}
		for j := 0; j < 7; j++ {
			wide[i+j] = wide[i+j].Add(a[i].Mul(b[j]))
		}
	}
	for i := 12; i >= 7; i-- {
		if wide[i].IsZero() {
			continue
		}
		wide[i-7] = wide[i-7].Add(wide[i].Mul(Ext7NonResidue))
		wide[i] = Zero
	}
	var r Ext7
	copy(r[:], wide[:7])
	return r
}

// MulBase multiplies an extension element by a base field scalar.
func (a Ext7) MulBase(s Elem) Ext7 {
	var r Ext7
	for i := range r {
		r[i] = a[i].Mul(s)
	}
	return r
}

// IsZero reports whether every coefficient is zero.
func (a Ext7) IsZero() bool { return a == ZeroExt7 }

// Equal reports whether two extension elements are identical.
func (a Ext7) Equal(b Ext7) bool { return a == b }

var ext7OrderMinus2 = func() *big.Int {
	p := big.NewInt(int64(Modulus))
	order := new(big.Int).Exp(p, big.NewInt(7), nil)
	return order.Sub(order, big.NewInt(2))
}()

// Inv computes the multiplicative inverse via a^(p^7-2) = a^-1.
func (a Ext7) Inv() (Ext7, error) {
	if a.IsZero() {
		return ZeroExt7, errZeroInverse
	}
	result := OneExt7
	base := a
	bits := ext7OrderMinus2.BitLen()
	for i := bits - 1; i >= 0; i-- {
		result = result.Mul(result)
		if ext7OrderMinus2.Bit(i) == 1 {
			result = result.Mul(base)
		}
	}
	return result, nil
}
