package core

import "math/big"

// CurveA and CurveB are the short-Weierstrass coefficients of the curve
// y^2 = x^3 + A*x + B defined over Ext7, chosen (per spec §4.2) so the
// multiset-hash accumulator has a well-defined group structure. This
// mirrors the teacher's CirclePoint construction in core/mersenne_field.go
// (a small algebraic group used as a commitment target) generalized from
// the circle group to a Weierstrass curve over the degree-7 extension, as
// the spec requires an elliptic curve rather than the unit circle.
var (
	CurveA = NewExt7FromBase(NewElem(2))
	CurveB = NewExt7FromBase(NewElem(3))
)

// sqrtExt7Exponent = (p^7+1)/4, used as the candidate exponent for a
// Tonelli-Shanks-free square root attempt (verified, not assumed correct).
var sqrtExt7Exponent = func() *big.Int {
	p := big.NewInt(int64(Modulus))
	order := new(big.Int).Exp(p, big.NewInt(7), nil)
	order.Add(order, big.NewInt(1))
	return order.Div(order, big.NewInt(4))
}()

// CurvePoint is a point on the multiset-hash curve, in affine coordinates
// plus an explicit infinity flag (identity of the group).
type CurvePoint struct {
	X, Y     Ext7
	Infinity bool
}

// Identity returns the point at infinity, the group's neutral element.
func Identity() CurvePoint {
	return CurvePoint{Infinity: true}
}

// Add implements the standard short-Weierstrass addition law.
func (p CurvePoint) Add(q CurvePoint) CurvePoint {
	if p.Infinity {
		return q
	}
	if q.Infinity {
		return p
	}
	if p.X.Equal(q.X) {
		if p.Y.Equal(q.Y.Neg()) {
			return Identity()
		}
		return p.double()
	}
	// slope = (qy - py) / (qx - px)
	num := q.Y.Sub(p.Y)
	den := q.X.Sub(p.X)
	denInv, err := den.Inv()
	if err != nil {
		return Identity()
	}
	lambda := num.Mul(denInv)
	x3 := lambda.Mul(lambda).Sub(p.X).Sub(q.X)
	y3 := lambda.Mul(p.X.Sub(x3)).Sub(p.Y)
	return CurvePoint{X: x3, Y: y3}
}

func (p CurvePoint) double() CurvePoint {
	if p.Infinity || p.Y.IsZero() {
		return Identity()
	}
	// slope = (3x^2 + A) / 2y
	three := NewExt7FromBase(NewElem(3))
	two := NewExt7FromBase(NewElem(2))
	num := three.Mul(p.X.Mul(p.X)).Add(CurveA)
	den := two.Mul(p.Y)
	denInv, err := den.Inv()
	if err != nil {
		return Identity()
	}
	lambda := num.Mul(denInv)
	x3 := lambda.Mul(lambda).Sub(p.X).Sub(p.X)
	y3 := lambda.Mul(p.X.Sub(x3)).Sub(p.Y)
	return CurvePoint{X: x3, Y: y3}
}

// Neg returns the additive inverse (point reflection over the x-axis).
func (p CurvePoint) Neg() CurvePoint {
	if p.Infinity {
		return p
	}
	return CurvePoint{X: p.X, Y: p.Y.Neg()}
}

// Equal reports whether two points denote the same group element.
func (p CurvePoint) Equal(q CurvePoint) bool {
	if p.Infinity || q.Infinity {
		return p.Infinity == q.Infinity
	}
	return p.X.Equal(q.X) && p.Y.Equal(q.Y)
}

// HashToCurve maps an arbitrary tuple of base-field elements to a curve
// point via try-and-increment on the curve equation, giving the encoding
// used by the memory-consistency multiset hash (spec §4.2): each
// (address, value, clock[, shard]) tuple becomes one curve point, and the
// running sums of the read-set and write-set points must coincide.
func HashToCurve(tag byte, elems []Elem) CurvePoint {
	seed := seedFromElems(tag, elems)
	x := NewExt7FromBase(seed)
	for i := 0; i < 1<<16; i++ {
		rhs := x.Mul(x).Mul(x).Add(CurveA.Mul(x)).Add(CurveB)
		if y, ok := sqrtExt7(rhs); ok {
			return CurvePoint{X: x, Y: y}
		}
		x = x.Add(OneExt7)
	}
	// Astronomically unlikely for a well-formed curve; fall back to
	// identity rather than panicking mid-proof.
	return Identity()
}

func seedFromElems(tag byte, elems []Elem) Elem {
	acc := NewElem(uint64(tag) + 1)
	mul := NewElem(1000003)
	for _, e := range elems {
		acc = acc.Mul(mul).Add(e)
	}
	return acc
}

// sqrtExt7 attempts to find y with y^2 = a, using exponentiation by
// (p^7+1)/4 when p^7 ≡ 3 (mod 4); it verifies the result rather than
// assuming that congruence holds, falling back to reporting "not found".
func sqrtExt7(a Ext7) (Ext7, bool) {
	if a.IsZero() {
		return ZeroExt7, true
	}
	exp := sqrtExt7Exponent
	result := OneExt7
	base := a
	bits := exp.BitLen()
	for i := bits - 1; i >= 0; i-- {
		result = result.Mul(result)
		if exp.Bit(i) == 1 {
			result = result.Mul(base)
		}
	}
	if result.Mul(result).Equal(a) {
		return result, true
	}
	return ZeroExt7, false
}
