// Package fri implements the FRI low-degree test (spec §4.3 step 5,
// GLOSSARY "FRI"), adapted from the teacher's TR17-134 FRIProtocol
// (vybium-vybium-starks-vm/internal/vybium-starks-vm/protocols/fri.go) to
// this module's native Ext4 codewords, MMCS commitments, and Fiat-Shamir
// transcript instead of the teacher's big.Int field and flat Merkle tree.
package fri

import (
	"fmt"

	"github.com/zkmips/zkmips/internal/zkmips/core"
	"github.com/zkmips/zkmips/internal/zkmips/transcript"
)

// Config holds the one FRI tunable fixed per proof: how many independent
// point-queries to run. The number of folding rounds is not configured;
// it follows from the codeword length.
type Config struct {
	NumQueries int
}

// Proof is the full folding transcript: one Merkle commitment per layer
// (the final layer is sent as a bare value, not committed, since its
// codeword is constant), and one opening per queried index.
type Proof struct {
	Commitments []core.Digest
	FinalValue  core.Ext4
	Queries     []QueryProof
}

// QueryProof is one queried index's authentication path through every
// folding layer.
type QueryProof struct {
	Index    int
	Openings []LayerOpening
}

// LayerOpening carries the coset pair (f(x), f(-x)) needed to check one
// folding step, each with its own Merkle opening against that layer's
// commitment.
type LayerOpening struct {
	Value        core.Ext4
	SiblingValue core.Ext4
	ValueProof   *core.OpeningProof
	SiblingProof *core.OpeningProof
}

// prover retains every intermediate codeword so queries can be answered
// after the commit phase has already consumed the transcript.
type prover struct {
	codewords []([]core.Ext4)
	mmcs      []*core.MMCS
}

// Prove runs the commit phase (interactive folding down to a constant)
// followed immediately by NumQueries point-queries against every layer,
// matching the teacher's Prove-then-Query sequencing collapsed into one
// call since this module's Transcript plays both roles of the teacher's
// utils.Channel.
func Prove(codeword []core.Ext4, cfg Config, tr *transcript.Transcript) (*Proof, error) {
	if len(codeword) == 0 || len(codeword)&(len(codeword)-1) != 0 {
		return nil, fmt.Errorf("fri: codeword length %d is not a power of two", len(codeword))
	}

	p := &prover{}
	commitments, finalValue, err := p.commitPhase(codeword, tr)
	if err != nil {
		return nil, err
	}

	queries := make([]QueryProof, cfg.NumQueries)
	n := len(codeword)
	for q := 0; q < cfg.NumQueries; q++ {
		idx := tr.ChallengeIndex("fri-query", n)
		qp, err := p.answerQuery(idx)
		if err != nil {
			return nil, err
		}
		queries[q] = *qp
	}

	return &Proof{Commitments: commitments, FinalValue: finalValue, Queries: queries}, nil
}

// commitPhase folds the codeword in half repeatedly using a fresh
// Fiat-Shamir challenge per round, committing each intermediate codeword
// with an MMCS instance before drawing the next challenge (spec §4.3:
// "each FRI folding round commits before drawing its challenge").
func (p *prover) commitPhase(codeword []core.Ext4, tr *transcript.Transcript) ([]core.Digest, core.Ext4, error) {
	var commitments []core.Digest
	current := codeword

	for len(current) > 1 {
		m, err := commitCodeword(current)
		if err != nil {
			return nil, core.ZeroExt4, err
		}
		p.codewords = append(p.codewords, current)
		p.mmcs = append(p.mmcs, m)
		root := m.Root()
		commitments = append(commitments, root)
		tr.AbsorbDigest("fri-layer", root)

		beta := tr.ChallengeExt4("fri-fold")
		current = foldLayer(current, beta)
	}

	return commitments, current[0], nil
}

// foldLayer halves a codeword using the canonical FRI folding formula
// f_{i+1}(x^2) = (f_i(x)+f_i(-x))/2 + beta*(f_i(x)-f_i(-x))/(2x), where
// -x is the coset partner at index+n/2 in a two-adic multiplicative
// domain (spec §4.3, adapted from the teacher's foldFunction).
func foldLayer(codeword []core.Ext4, beta core.Ext4) []core.Ext4 {
	n := len(codeword)
	half := n / 2
	logN := 0
	for 1<<uint(logN) < n {
		logN++
	}
	domain := core.TwoAdicSubgroup(logN)
	two := core.NewElemFromInt64(2)
	twoInv, _ := two.Inv()

	next := make([]core.Ext4, half)
	for i := 0; i < half; i++ {
		fx := codeword[i]
		fnegx := codeword[i+half]
		x := domain[i]

		sum := fx.Add(fnegx)
		first := sum.MulBase(twoInv)

		diff := fx.Sub(fnegx)
		twoX := x.Mul(two)
		twoXInv, err := twoX.Inv()
		if err != nil {
			// x == 0 never occurs on a multiplicative subgroup.
			twoXInv = core.One
		}
		quotient := diff.MulBase(twoXInv)
		second := beta.Mul(quotient)

		next[i] = first.Add(second)
	}
	return next
}

// commitCodeword packs an Ext4 codeword's coefficients into a Matrix (4
// base-field columns) and commits it with a single-matrix MMCS.
func commitCodeword(codeword []core.Ext4) (*core.MMCS, error) {
	rows := make([][]core.Elem, len(codeword))
	for i, v := range codeword {
		rows[i] = []core.Elem{v[0], v[1], v[2], v[3]}
	}
	return core.NewMMCS([]core.Matrix{{Rows: rows}})
}

// answerQuery opens every folding layer at the coset pair that contains
// the initial index, tracking the index's reduction as the domain halves
// each round.
func (p *prover) answerQuery(index int) (*QueryProof, error) {
	openings := make([]LayerOpening, len(p.codewords))
	idx := index
	for layer := 0; layer < len(p.codewords); layer++ {
		codeword := p.codewords[layer]
		n := len(codeword)
		half := n / 2
		i := idx % half

		valueProof, err := p.mmcs[layer].Open(0, i)
		if err != nil {
			return nil, fmt.Errorf("fri: opening layer %d index %d: %w", layer, i, err)
		}
		siblingProof, err := p.mmcs[layer].Open(0, i+half)
		if err != nil {
			return nil, fmt.Errorf("fri: opening layer %d sibling %d: %w", layer, i+half, err)
		}

		openings[layer] = LayerOpening{
			Value:        rowToExt4(valueProof.Row),
			SiblingValue: rowToExt4(siblingProof.Row),
			ValueProof:   valueProof,
			SiblingProof: siblingProof,
		}
		idx = i
	}
	return &QueryProof{Index: index, Openings: openings}, nil
}

func rowToExt4(row []core.Elem) core.Ext4 {
	var e core.Ext4
	copy(e[:], row)
	return e
}

// Verify replays the same Fiat-Shamir absorptions the prover made, then
// checks every query's folding consistency layer by layer and that the
// proof's claimed final value matches the query's last fold step (spec
// §4.3 step 5, §7 "ProofInvalid ... FRI consistency").
func Verify(proof *Proof, initialLogN int, cfg Config, tr *transcript.Transcript) error {
	if len(proof.Commitments) != initialLogN {
		return fmt.Errorf("fri: expected %d layer commitments, got %d", initialLogN, len(proof.Commitments))
	}

	betas := make([]core.Ext4, initialLogN)
	for i, root := range proof.Commitments {
		tr.AbsorbDigest("fri-layer", root)
		betas[i] = tr.ChallengeExt4("fri-fold")
	}

	n := 1 << uint(initialLogN)
	for q := 0; q < cfg.NumQueries; q++ {
		idx := tr.ChallengeIndex("fri-query", n)
		if q >= len(proof.Queries) {
			return fmt.Errorf("fri: missing query proof %d", q)
		}
		query := proof.Queries[q]
		if query.Index != idx {
			return fmt.Errorf("fri: query %d index mismatch: expected %d, got %d", q, idx, query.Index)
		}
		if err := verifyQuery(query, proof.Commitments, proof.FinalValue, betas); err != nil {
			return fmt.Errorf("fri: query %d: %w", q, err)
		}
	}
	return nil
}

func verifyQuery(query QueryProof, commitments []core.Digest, finalValue core.Ext4, betas []core.Ext4) error {
	idx := query.Index
	logN := len(commitments)

	var folded core.Ext4
	for layer := 0; layer < len(query.Openings); layer++ {
		height := 1 << uint(logN-layer)
		half := height / 2
		i := idx % half

		op := query.Openings[layer]
		if !core.VerifyOpening(commitments[layer], height, i, op.ValueProof) {
			return fmt.Errorf("layer %d: merkle opening of value failed", layer)
		}
		if !core.VerifyOpening(commitments[layer], height, i+half, op.SiblingProof) {
			return fmt.Errorf("layer %d: merkle opening of sibling failed", layer)
		}
		if !op.Value.Equal(rowToExt4(op.ValueProof.Row)) || !op.SiblingValue.Equal(rowToExt4(op.SiblingProof.Row)) {
			return fmt.Errorf("layer %d: opened row disagrees with claimed value", layer)
		}

		if layer > 0 {
			if !op.Value.Equal(folded) {
				return fmt.Errorf("layer %d: folded value disagrees with next layer's opening", layer)
			}
		}

		domain := core.TwoAdicSubgroup(logN - layer)
		x := domain[i]
		two := core.NewElemFromInt64(2)
		twoInv, _ := two.Inv()

		sum := op.Value.Add(op.SiblingValue)
		first := sum.MulBase(twoInv)
		diff := op.Value.Sub(op.SiblingValue)
		twoX := x.Mul(two)
		twoXInv, err := twoX.Inv()
		if err != nil {
			twoXInv = core.One
		}
		quotient := diff.MulBase(twoXInv)
		second := betas[layer].Mul(quotient)
		folded = first.Add(second)

		idx = i
	}

	if !folded.Equal(finalValue) {
		return fmt.Errorf("final fold value disagrees with proof's claimed final value")
	}
	return nil
}
