// Package report merges the per-layer averages of two strategies into one
// comparison table.
package report

import (
	"errors"
	"fmt"

	"github.com/okian/promosim/internal/domain/aggregate"
)

// Sentinel error kinds for this package.
var (
	ErrMismatchedRecords = errors.New("record sequences do not describe the same layers")
)

// Side is one strategy's averages for a layer.
type Side struct {
	RequiredSkillAverage float64 `json:"required_skill_average" yaml:"required_skill_average"`
	TotalScoreAverage    float64 `json:"total_score_average" yaml:"total_score_average"`
}

// Row places both strategies' averages for one layer side by side.
type Row struct {
	Layer     string `json:"layer" yaml:"layer"`
	Baseline  Side   `json:"baseline" yaml:"baseline"`
	Candidate Side   `json:"candidate" yaml:"candidate"`
}

// GrandTotals sums each strategy's required-skill averages across layers.
type GrandTotals struct {
	Baseline  float64 `json:"baseline" yaml:"baseline"`
	Candidate float64 `json:"candidate" yaml:"candidate"`
}

// Winner names the side with the higher total, or "tie".
func (g GrandTotals) Winner() string {
	switch {
	case g.Candidate > g.Baseline:
		return "candidate"
	case g.Baseline > g.Candidate:
		return "baseline"
	default:
		return "tie"
	}
}

// Comparison is the merged table plus grand totals.
type Comparison struct {
	Rows        []Row       `json:"rows" yaml:"rows"`
	GrandTotals GrandTotals `json:"grand_totals" yaml:"grand_totals"`
}

// Compare merges two record sequences layer by layer. Both sequences must
// list the same layers in the same order.
func Compare(baseline, candidate []aggregate.Record) (Comparison, error) {
	if len(baseline) != len(candidate) {
		return Comparison{}, fmt.Errorf("%w: %d vs %d layers", ErrMismatchedRecords, len(baseline), len(candidate))
	}
	cmp := Comparison{Rows: make([]Row, len(baseline))}
	var totalBase, totalCand float64
	for i := range baseline {
		b, c := baseline[i], candidate[i]
		if b.Layer != c.Layer {
			return Comparison{}, fmt.Errorf("%w: row %d is %q vs %q", ErrMismatchedRecords, i, b.Layer, c.Layer)
		}
		cmp.Rows[i] = Row{
			Layer:     b.Layer,
			Baseline:  Side{RequiredSkillAverage: b.RequiredSkillAverage, TotalScoreAverage: b.TotalScoreAverage},
			Candidate: Side{RequiredSkillAverage: c.RequiredSkillAverage, TotalScoreAverage: c.TotalScoreAverage},
		}
		totalBase += b.RequiredSkillAverage
		totalCand += c.RequiredSkillAverage
	}
	cmp.GrandTotals = GrandTotals{
		Baseline:  aggregate.Round2(totalBase),
		Candidate: aggregate.Round2(totalCand),
	}
	return cmp, nil
}
