// Package population generates simulated workforces with randomized skill scores.
package population

import (
	"math"
	"math/rand"
	"time"

	"github.com/okian/promosim/internal/domain/model"
	"github.com/okian/promosim/internal/domain/schema"
)

// Default generation constants.
const (
	DefaultSize     = 100
	DefaultBaseline = 50.0
	DefaultSpread   = 50.0
	minScore        = 0
	maxScore        = 100
)

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithRand sets the random source. A *rand.Rand is not safe for concurrent
// use, so a Generator built with it must not be shared across goroutines.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// WithSeed seeds a private random source for reproducible populations.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // simulation, not security
	}
}

// WithSpread sets the half-width of the perturbation range around the baseline.
func WithSpread(spread float64) Option {
	return func(g *Generator) {
		if spread >= 0 {
			g.spread = spread
		}
	}
}

// Generator draws skill scores as baseline + spread*(2u-1) with u uniform in
// [0,1), rounded and clamped to [0,100]. The draw is uniform over the range,
// not Gaussian.
type Generator struct {
	rng    *rand.Rand
	spread float64
}

// NewGenerator creates a generator. Without WithRand or WithSeed it seeds
// itself from the clock.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{spread: DefaultSpread}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // simulation, not security
	}
	return g
}

// Generate produces count individuals with ids 0..count-1. A non-positive
// count yields an empty population.
func (g *Generator) Generate(count int, baseline float64) model.Population {
	if count <= 0 {
		return model.Population{}
	}
	pop := make(model.Population, count)
	for id := range pop {
		var scores model.SkillScores
		for _, sk := range schema.Skills() {
			scores[sk] = g.draw(baseline)
		}
		pop[id] = model.Individual{ID: id, Name: model.DisplayName(id), Scores: scores}
	}
	return pop
}

func (g *Generator) draw(baseline float64) int {
	v := math.Round(baseline + g.spread*(2*g.rng.Float64()-1))
	return int(math.Max(minScore, math.Min(maxScore, v)))
}
