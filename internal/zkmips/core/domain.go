package core

// TwoAdicGenerator returns a generator of the unique multiplicative
// subgroup of order 2^logN. Modulus-1 has 2-adicity 24 (2^24 | p-1), so
// logN must not exceed 24; this bound is checked by every caller's
// domain-size validation rather than here, matching the teacher's
// IsPowerOfTwo checks living at the call site.
func TwoAdicGenerator(logN int) Elem {
	exp := (Modulus - 1) >> uint(logN)
	return Elem(Generator).Exp(exp)
}

// TwoAdicSubgroup returns the elements {g^0, g^1, ..., g^(n-1)} of the
// order-n subgroup generated by TwoAdicGenerator(log2(n)), n = 2^logN.
func TwoAdicSubgroup(logN int) []Elem {
	n := 1 << uint(logN)
	g := TwoAdicGenerator(logN)
	points := make([]Elem, n)
	cur := One
	for i := 0; i < n; i++ {
		points[i] = cur
		cur = cur.Mul(g)
	}
	return points
}

// Coset returns shift * TwoAdicSubgroup(logN), used for the "blown up"
// low-degree extension domain offset from the evaluation domain proper
// (spec §4.3 "LDE over a coset of the multiplicative group").
func Coset(logN int, shift Elem) []Elem {
	points := TwoAdicSubgroup(logN)
	for i := range points {
		points[i] = points[i].Mul(shift)
	}
	return points
}
