package core

import "testing"

func TestInterpolateElemRecoversKnownPolynomial(t *testing.T) {
	// f(x) = 2 + 3x + 5x^2
	coeffs := []Elem{NewElemFromInt64(2), NewElemFromInt64(3), NewElemFromInt64(5)}
	domain := TwoAdicSubgroup(2) // size 4 > degree 2, over-determined but consistent
	values := make([]Elem, len(domain))
	for i, x := range domain {
		values[i] = EvalElemPoly(coeffs, x)
	}

	got, err := InterpolateElem(domain, values)
	if err != nil {
		t.Fatalf("interpolate: %v", err)
	}
	for _, x := range domain {
		want := EvalElemPoly(coeffs, x)
		have := EvalElemPoly(got, x)
		if want != have {
			t.Fatalf("mismatch at x=%v: want %v, have %v", x, want, have)
		}
	}
}

func TestDivideByVanishingExactDivision(t *testing.T) {
	n := 4
	domain := TwoAdicSubgroup(2)

	// C(x) = (x^4 - 1) * (1 + 2x) vanishes on every point of the order-4
	// subgroup, so its evaluation vector there is identically zero; that
	// vector interpolates to the zero polynomial, whose quotient is empty.
	// C's own coefficients divide exactly by x^4 - 1 to quotientWant.
	quotientWant := []Ext4{NewExt4FromBase(One), NewExt4FromBase(NewElemFromInt64(2))}
	values := make([]Ext4, len(domain))
	for i := range domain {
		values[i] = ZeroExt4 // C vanishes everywhere on H by construction
	}

	coeffs, err := InterpolateExt4(domain, values)
	if err != nil {
		t.Fatalf("interpolate: %v", err)
	}
	for _, c := range coeffs {
		if !c.IsZero() {
			t.Fatalf("expected zero interpolant for zero values, got %v", c)
		}
	}

	q := DivideByVanishing(coeffs, n)
	if len(q) != 0 {
		t.Fatalf("expected empty quotient for degree < n dividend, got %d coefficients", len(q))
	}

	// C(x) = -1 - 2x + x^4 + 2x^5.
	cCoeffs := []Ext4{
		NewExt4FromBase(NewElemFromInt64(-1)), NewExt4FromBase(NewElemFromInt64(-2)),
		ZeroExt4, ZeroExt4,
		NewExt4FromBase(One), NewExt4FromBase(NewElemFromInt64(2)),
	}
	exact := DivideByVanishing(cCoeffs, n)
	if len(exact) != len(quotientWant) {
		t.Fatalf("expected %d quotient coefficients, got %d", len(quotientWant), len(exact))
	}
	for i := range quotientWant {
		if !exact[i].Equal(quotientWant[i]) {
			t.Fatalf("quotient coefficient %d: want %v, got %v", i, quotientWant[i], exact[i])
		}
	}
}

func TestEvalExt4PolyAtExtMatchesBaseEval(t *testing.T) {
	coeffs := []Ext4{NewExt4FromBase(One), NewExt4FromBase(NewElemFromInt64(4))}
	x := NewElemFromInt64(3)
	baseResult := EvalExt4Poly(coeffs, x)
	extResult := EvalExt4PolyAtExt(coeffs, NewExt4FromBase(x))
	if !baseResult.Equal(extResult) {
		t.Fatalf("eval mismatch: base=%v ext=%v", baseResult, extResult)
	}
}
