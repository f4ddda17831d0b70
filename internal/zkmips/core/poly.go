package core

import "fmt"

// polyMulLinearElem multiplies a base-field polynomial (ascending
// coefficient order) by (x - root), used to build the master vanishing
// polynomial during interpolation.
func polyMulLinearElem(coeffs []Elem, root Elem) []Elem {
	n := len(coeffs)
	out := make([]Elem, n+1)
	out[0] = coeffs[0].Mul(root).Neg()
	for i := 1; i < n; i++ {
		out[i] = coeffs[i-1].Sub(coeffs[i].Mul(root))
	}
	out[n] = coeffs[n-1]
	return out
}

// polyDivLinearElem divides a base-field polynomial by (x - root) via
// synthetic division, returning the quotient and the remainder (the
// polynomial's value at root).
func polyDivLinearElem(coeffs []Elem, root Elem) ([]Elem, Elem) {
	d := len(coeffs) - 1
	if d < 0 {
		return nil, Zero
	}
	q := make([]Elem, d)
	carry := Zero
	for i := d; i >= 1; i-- {
		qi := coeffs[i].Add(carry.Mul(root))
		q[i-1] = qi
		carry = qi
	}
	remainder := coeffs[0].Add(carry.Mul(root))
	return q, remainder
}

// EvalElemPoly evaluates a base-field polynomial (ascending coefficient
// order) at x via Horner's method.
func EvalElemPoly(coeffs []Elem, x Elem) Elem {
	acc := Zero
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = acc.Mul(x).Add(coeffs[i])
	}
	return acc
}

// InterpolateElem recovers the coefficient form of the unique polynomial
// of degree < len(domain) through (domain[i], values[i]), via the
// standard master-polynomial Lagrange construction (spec §4.3 step 1,
// "low-degree extension": a column is viewed as evaluations of a
// polynomial on a subgroup H").
func InterpolateElem(domain, values []Elem) ([]Elem, error) {
	n := len(domain)
	if n != len(values) {
		return nil, fmt.Errorf("core: domain/value length mismatch (%d vs %d)", n, len(values))
	}
	master := []Elem{One}
	for _, d := range domain {
		master = polyMulLinearElem(master, d)
	}
	result := make([]Elem, n)
	for i := 0; i < n; i++ {
		quotient, _ := polyDivLinearElem(master, domain[i])
		denom := EvalElemPoly(quotient, domain[i])
		inv, err := denom.Inv()
		if err != nil {
			return nil, fmt.Errorf("core: interpolation point %d is degenerate: %w", i, err)
		}
		scale := values[i].Mul(inv)
		for k, c := range quotient {
			result[k] = result[k].Add(c.Mul(scale))
		}
	}
	return result, nil
}

// polyMulLinearExt4 multiplies an extension-field polynomial by (x -
// root) where root is a base-field domain point.
func polyMulLinearExt4(coeffs []Ext4, root Elem) []Ext4 {
	n := len(coeffs)
	out := make([]Ext4, n+1)
	out[0] = coeffs[0].MulBase(root).Neg()
	for i := 1; i < n; i++ {
		out[i] = coeffs[i-1].Sub(coeffs[i].MulBase(root))
	}
	out[n] = coeffs[n-1]
	return out
}

func polyDivLinearExt4(coeffs []Ext4, root Elem) ([]Ext4, Ext4) {
	d := len(coeffs) - 1
	if d < 0 {
		return nil, ZeroExt4
	}
	q := make([]Ext4, d)
	carry := ZeroExt4
	for i := d; i >= 1; i-- {
		qi := coeffs[i].Add(carry.MulBase(root))
		q[i-1] = qi
		carry = qi
	}
	remainder := coeffs[0].Add(carry.MulBase(root))
	return q, remainder
}

// EvalExt4Poly evaluates an extension-field polynomial at a base-field
// point via Horner's method.
func EvalExt4Poly(coeffs []Ext4, x Elem) Ext4 {
	acc := ZeroExt4
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = acc.MulBase(x).Add(coeffs[i])
	}
	return acc
}

// EvalExt4PolyAtExt evaluates an extension-field polynomial at an
// extension-field point, used for opening the composition polynomial at
// the verifier's out-of-domain challenge z (spec §4.3 step 3).
func EvalExt4PolyAtExt(coeffs []Ext4, x Ext4) Ext4 {
	acc := ZeroExt4
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = acc.Mul(x).Add(coeffs[i])
	}
	return acc
}

// InterpolateExt4 is InterpolateElem generalized to extension-field
// values over a base-field domain, used to recover the combined
// constraint polynomial C(x) before dividing by the vanishing polynomial
// (spec §4.3 step 3).
func InterpolateExt4(domain []Elem, values []Ext4) ([]Ext4, error) {
	n := len(domain)
	if n != len(values) {
		return nil, fmt.Errorf("core: domain/value length mismatch (%d vs %d)", n, len(values))
	}
	master := []Elem{One}
	for _, d := range domain {
		master = polyMulLinearElem(master, d)
	}
	result := make([]Ext4, n)
	for i := range result {
		result[i] = ZeroExt4
	}
	for i := 0; i < n; i++ {
		quotient, _ := polyDivLinearElem(master, domain[i])
		denom := EvalElemPoly(quotient, domain[i])
		inv, err := denom.Inv()
		if err != nil {
			return nil, fmt.Errorf("core: interpolation point %d is degenerate: %w", i, err)
		}
		scale := values[i].MulBase(inv)
		for k, c := range quotient {
			result[k] = result[k].Add(scale.MulBase(c))
		}
	}
	return result, nil
}

// DivideByVanishing divides an extension-field polynomial by the
// vanishing polynomial Z_H(x) = x^n - 1 of a size-n two-adic subgroup,
// assuming (and not separately checking) the remainder is zero — the
// caller is expected to have already confirmed the dividend vanishes on
// H via the AIR's own constraint self-check (spec §4.3 step 3 "the
// prover computes the quotient Q(x) = C(x) / Z_H(x)").
func DivideByVanishing(coeffs []Ext4, n int) []Ext4 {
	d := len(coeffs) - 1
	if d < n {
		return []Ext4{}
	}
	c := append([]Ext4(nil), coeffs...)
	q := make([]Ext4, d-n+1)
	for i := d; i >= n; i-- {
		q[i-n] = c[i]
		c[i-n] = c[i-n].Add(c[i])
		c[i] = ZeroExt4
	}
	return q
}
