package core

import "fmt"

// Matrix is a rectangular grid of base-field elements: one column per
// trace column, one row per LDE-domain point (spec §3 "Trace matrix").
type Matrix struct {
	Rows [][]Elem
}

// Height returns the number of rows.
func (m Matrix) Height() int { return len(m.Rows) }

// Width returns the number of columns, or 0 for an empty matrix.
func (m Matrix) Width() int {
	if len(m.Rows) == 0 {
		return 0
	}
	return len(m.Rows[0])
}

// MixedMatrixCommitment ("MMCS", spec §4.3 and GLOSSARY) commits to a set
// of matrices of possibly-different heights under a single Merkle root, by
// building one tree per distinct height and folding the per-height roots
// together. When a shorter matrix is opened, the queried row index is
// reduced to that matrix's height by keeping its low bits (index mod
// height); the index is not shifted to drop its low bits. This
// generalizes the teacher's
// core.MerkleTree (single flat leaf list) to the mixed-height case the
// spec requires.
type MMCS struct {
	matrices  []Matrix
	trees     []*merkleLevel
	maxHeight int
}

type merkleLevel struct {
	height int
	leaves []Digest
	levels [][]Digest // levels[0] = leaves, levels[last] = [root]
}

// NewMMCS commits to the given matrices, grouping by row count.
func NewMMCS(matrices []Matrix) (*MMCS, error) {
	if len(matrices) == 0 {
		return nil, fmt.Errorf("core: MMCS requires at least one matrix")
	}
	byHeight := map[int][]int{}
	maxHeight := 0
	for idx, m := range matrices {
		if m.Height() == 0 || m.Height()&(m.Height()-1) != 0 {
			return nil, fmt.Errorf("core: matrix %d height %d is not a power of two", idx, m.Height())
		}
		byHeight[m.Height()] = append(byHeight[m.Height()], idx)
		if m.Height() > maxHeight {
			maxHeight = m.Height()
		}
	}

	var levels []*merkleLevel
	for h, idxs := range byHeight {
		leaves := make([]Digest, h)
		for row := 0; row < h; row++ {
			var rowElems []Elem
			for _, idx := range idxs {
				rowElems = append(rowElems, matrices[idx].Rows[row]...)
			}
			leaves[row] = Poseidon2Hash(rowElems)
		}
		levels = append(levels, buildMerkleLevel(h, leaves))
	}

	return &MMCS{matrices: matrices, trees: levels, maxHeight: maxHeight}, nil
}

func buildMerkleLevel(height int, leaves []Digest) *merkleLevel {
	tiers := [][]Digest{leaves}
	cur := leaves
	for len(cur) > 1 {
		next := make([]Digest, (len(cur)+1)/2)
		for i := range next {
			l := cur[2*i]
			r := l
			if 2*i+1 < len(cur) {
				r = cur[2*i+1]
			}
			next[i] = Compress2(l, r)
		}
		tiers = append(tiers, next)
		cur = next
	}
	return &merkleLevel{height: height, leaves: leaves, levels: tiers}
}

// Root folds every per-height subtree root into one commitment digest, so
// the verifier only needs to remember a single value per matrix batch.
func (c *MMCS) Root() Digest {
	acc := ZeroDigest()
	for _, lvl := range c.trees {
		root := lvl.levels[len(lvl.levels)-1][0]
		acc = Compress2(acc, root)
	}
	return acc
}

// ZeroDigest returns the all-zero digest, used as the fold seed for Root.
func ZeroDigest() Digest { return Digest{} }

// OpeningProof is a Merkle authentication path for one queried row of one
// height-class, plus the folded siblings needed to recompute the overall
// commitment Root.
type OpeningProof struct {
	Row       []Elem
	Siblings  []Digest
	OtherRoot Digest // Compress2 seed contribution of every other height-class
}

// Open produces an opening proof for row index `index` into the matrix at
// `matrixIdx`. The row opened is index & (height-1) for that matrix's own
// height, i.e. the low bits of `index` are kept and its high bits
// dropped; for a matrix shorter than the maximum height the index is not
// shifted right first.
func (c *MMCS) Open(matrixIdx, index int) (*OpeningProof, error) {
	if matrixIdx < 0 || matrixIdx >= len(c.matrices) {
		return nil, fmt.Errorf("core: matrix index %d out of range", matrixIdx)
	}
	m := c.matrices[matrixIdx]
	lvl := c.levelForHeight(m.Height())
	if lvl == nil {
		return nil, fmt.Errorf("core: no tree for height %d", m.Height())
	}
	row := index & (m.Height() - 1)

	var siblings []Digest
	idx := row
	for level := 0; level < len(lvl.levels)-1; level++ {
		cur := lvl.levels[level]
		var sibIdx int
		if idx%2 == 0 {
			sibIdx = idx + 1
		} else {
			sibIdx = idx - 1
		}
		if sibIdx < len(cur) {
			siblings = append(siblings, cur[sibIdx])
		} else {
			siblings = append(siblings, cur[idx])
		}
		idx /= 2
	}

	other := ZeroDigest()
	for _, other2 := range c.trees {
		if other2 == lvl {
			continue
		}
		root := other2.levels[len(other2.levels)-1][0]
		other = Compress2(other, root)
	}

	return &OpeningProof{
		Row:       append([]Elem(nil), m.Rows[row]...),
		Siblings:  siblings,
		OtherRoot: other,
	}, nil
}

func (c *MMCS) levelForHeight(h int) *merkleLevel {
	for _, lvl := range c.trees {
		if lvl.height == h {
			return lvl
		}
	}
	return nil
}

// VerifyOpening recomputes the committed root from a claimed row and its
// authentication path and checks it against the expected commitment,
// combined with the other height-classes' folded root contribution.
func VerifyOpening(commitment Digest, height, index int, proof *OpeningProof) bool {
	row := index & (height - 1)
	hash := Poseidon2Hash(proof.Row)
	idx := row
	for _, sib := range proof.Siblings {
		if idx%2 == 0 {
			hash = Compress2(hash, sib)
		} else {
			hash = Compress2(sib, hash)
		}
		idx /= 2
	}
	recomputed := Compress2(proof.OtherRoot, hash)
	return recomputed.Equal(commitment)
}
