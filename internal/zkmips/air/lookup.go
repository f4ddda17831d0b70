package air

import (
	"fmt"

	"github.com/zkmips/zkmips/internal/zkmips/core"
)

// Bus is a logical multiset of tuples, produced by sending chips and
// consumed by receiving chips (spec §3 "Lookup bus", §9 "Lookup
// arguments over chips"). The AIR machine owns every bus's LogUp
// auxiliary columns, not the chips (spec §9: "to preserve the
// single-writer invariant").
type Bus struct {
	Name string
}

// LogUpColumn is the running-sum auxiliary column for one chip's
// participation in one bus, evaluated over the degree-4 extension (spec
// §4.3 step 4 "LogUp running-sum columns"). Each row's entry is
// 1/(alpha - combine(tuple)) for a send, or -1/(alpha - combine(tuple))
// for a receive, summed cumulatively; the final cumulative values across
// every participating chip must sum to zero.
type LogUpColumn struct {
	Bus    string
	Values []core.Ext4
}

// combineTuple folds a tuple into a single extension-field value using
// challenge powers of beta, the standard "random linear combination"
// technique for turning a vector lookup into a scalar one.
func combineTuple(tuple []core.Elem, beta core.Ext4) core.Ext4 {
	acc := core.ZeroExt4
	power := core.OneExt4
	for _, e := range tuple {
		acc = acc.Add(power.MulBase(e))
		power = power.Mul(beta)
	}
	return acc
}

// BuildLogUpColumn computes the running-sum LogUp column for one chip's
// interactions on one named bus, given the Fiat-Shamir challenges alpha
// (the lookup indeterminate) and beta (the tuple-combination challenge).
func BuildLogUpColumn(busName string, interactions [][]Interaction, alpha, beta core.Ext4) (*LogUpColumn, error) {
	height := len(interactions)
	values := make([]core.Ext4, height)
	running := core.ZeroExt4
	for i := 0; i < height; i++ {
		term := core.ZeroExt4
		for _, it := range interactions[i] {
			if it.Bus != busName {
				continue
			}
			combined := combineTuple(it.Tuple, beta)
			denom := alpha.Sub(combined)
			inv, err := denom.Inv()
			if err != nil {
				return nil, fmt.Errorf("air: bus %s row %d: alpha collides with tuple encoding", busName, i)
			}
			contribution := inv.MulBase(it.Multiplicity)
			if it.Kind == BusReceive {
				contribution = contribution.Neg()
			}
			term = term.Add(contribution)
		}
		running = running.Add(term)
		values[i] = running
	}
	return &LogUpColumn{Bus: busName, Values: values}, nil
}

// FinalValue returns the column's cumulative sum at the last row, which
// must be zero across the whole bus for the proof to be sound (spec §4.3
// step 4: "their final cumulative values across all participating chips
// must cancel to zero").
func (c *LogUpColumn) FinalValue() core.Ext4 {
	if len(c.Values) == 0 {
		return core.ZeroExt4
	}
	return c.Values[len(c.Values)-1]
}

// CheckBusBalance sums every chip's final LogUp value for a bus and
// verifies the totals cancel to zero, i.e. the send-multiset equals the
// receive-multiset (spec §3 "A proof is accepted only if the
// send-multiset equals the receive-multiset").
func CheckBusBalance(columns []*LogUpColumn) error {
	if len(columns) == 0 {
		return nil
	}
	total := core.ZeroExt4
	for _, c := range columns {
		total = total.Add(c.FinalValue())
	}
	if !total.IsZero() {
		return fmt.Errorf("air: bus %s unbalanced: send-multiset != receive-multiset", columns[0].Bus)
	}
	return nil
}
