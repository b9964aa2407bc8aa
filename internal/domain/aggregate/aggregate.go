// Package aggregate computes per-layer score averages from an assignment.
package aggregate

import (
	"math"

	"github.com/okian/promosim/internal/domain/model"
	"github.com/okian/promosim/internal/domain/schema"
)

// Record holds the averages for one layer. Both averages are zero when the
// layer has no members.
type Record struct {
	Layer string `json:"layer" yaml:"layer"`
	// Members is the number of individuals averaged.
	Members int `json:"members" yaml:"members"`
	// RequiredSkillAverage is the mean over members of their required-skill score.
	RequiredSkillAverage float64 `json:"required_skill_average" yaml:"required_skill_average"`
	// TotalScoreAverage is the mean over members of their total score.
	TotalScoreAverage float64 `json:"total_score_average" yaml:"total_score_average"`
}

// Summarize returns one record per layer, in layer order, with averages
// rounded to two decimals.
func Summarize(a model.Assignment, layers []schema.Layer) []Record {
	out := make([]Record, len(layers))
	for i, layer := range layers {
		members := a.Members(layer.Name)
		rec := Record{Layer: layer.Name, Members: len(members)}
		if len(members) > 0 {
			required, total := 0, 0
			for _, m := range members {
				required += m.RequiredScore(layer.RequiredSkills)
				total += m.TotalScore()
			}
			n := float64(len(members))
			rec.RequiredSkillAverage = Round2(float64(required) / n)
			rec.TotalScoreAverage = Round2(float64(total) / n)
		}
		out[i] = rec
	}
	return out
}

// Round2 rounds x to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
