// Package sweep repeats seeded simulation runs and summarizes how the
// skill-based strategy fares against random promotion across them.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	service "github.com/okian/promosim/internal/app"
	"github.com/okian/promosim/internal/domain/aggregate"
	"github.com/okian/promosim/internal/domain/promotion"
	"github.com/okian/promosim/pkg/logger"
	"github.com/okian/promosim/pkg/metrics"
)

// Sentinel error kinds for this package.
var (
	ErrInvalidRuns = errors.New("sweep needs at least one run")
)

// Runner executes one simulation. *service.Service satisfies it.
type Runner interface {
	RunSimulation(ctx context.Context, mode promotion.Mode, opts ...service.RunOption) (*service.Simulation, error)
}

// Config holds the parameters of one sweep.
type Config struct {
	Mode promotion.Mode
	Runs int
	// Seed is the seed of the first run; run i uses Seed+i. Zero picks one from the clock.
	Seed int64
	// Workers bounds how many runs execute at once. Values below 1 mean 1.
	Workers int
}

// LayerMean is the mean required-skill average of one layer across runs.
type LayerMean struct {
	Layer  string  `json:"layer" yaml:"layer"`
	Random float64 `json:"random" yaml:"random"`
	Skill  float64 `json:"skill" yaml:"skill"`
}

// Wins counts the runs each strategy won by grand total.
type Wins struct {
	Random int `json:"random" yaml:"random"`
	Skill  int `json:"skill" yaml:"skill"`
	Tie    int `json:"tie" yaml:"tie"`
}

// Result summarizes a sweep.
type Result struct {
	ID              string         `json:"id" yaml:"id"`
	Mode            promotion.Mode `json:"mode" yaml:"mode"`
	Runs            int            `json:"runs" yaml:"runs"`
	FirstSeed       int64          `json:"first_seed" yaml:"first_seed"`
	MeanRandomTotal float64        `json:"mean_random_total" yaml:"mean_random_total"`
	MeanSkillTotal  float64        `json:"mean_skill_total" yaml:"mean_skill_total"`
	Layers          []LayerMean    `json:"layers" yaml:"layers"`
	Wins            Wins           `json:"wins" yaml:"wins"`
	Duration        time.Duration  `json:"duration" yaml:"duration"`
}

// Run executes cfg.Runs seeded simulations and averages them in seed order,
// so the result does not depend on cfg.Workers. It stops at the first
// failed run or when ctx is done.
func Run(ctx context.Context, runner Runner, cfg Config) (*Result, error) {
	if cfg.Runs <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRuns, cfg.Runs)
	}
	start := time.Now()
	if cfg.Seed == 0 {
		cfg.Seed = start.UnixNano()
	}

	res := &Result{
		ID:        uuid.NewString(),
		Mode:      cfg.Mode,
		Runs:      cfg.Runs,
		FirstSeed: cfg.Seed,
	}
	log := logger.Named("sweep").With(logger.String("sweep_id", res.ID))
	log.Info(ctx, "starting sweep",
		logger.String("mode", string(cfg.Mode)),
		logger.Int("runs", cfg.Runs),
		logger.Int64("first_seed", cfg.Seed),
		logger.Int("workers", cfg.Workers),
	)

	seeds := make([]int64, cfg.Runs)
	for i := range seeds {
		seeds[i] = cfg.Seed + int64(i)
	}
	sims, err := runAll(ctx, runner, cfg.Mode, seeds, cfg.Workers)
	if err != nil {
		return nil, err
	}

	var randomTotal, skillTotal float64
	var layerRandom, layerSkill []float64
	for i, sim := range sims {
		if res.Mode == "" {
			res.Mode = sim.Mode
		}

		rows := sim.Comparison.Rows
		if res.Layers == nil {
			res.Layers = make([]LayerMean, len(rows))
			layerRandom = make([]float64, len(rows))
			layerSkill = make([]float64, len(rows))
			for j, row := range rows {
				res.Layers[j].Layer = row.Layer
			}
		}
		if len(rows) != len(res.Layers) {
			return nil, fmt.Errorf("run %d: %d layers, expected %d", i, len(rows), len(res.Layers))
		}
		for j, row := range rows {
			layerRandom[j] += row.Baseline.RequiredSkillAverage
			layerSkill[j] += row.Candidate.RequiredSkillAverage
		}

		totals := sim.Comparison.GrandTotals
		randomTotal += totals.Baseline
		skillTotal += totals.Candidate
		switch totals.Winner() {
		case "candidate":
			res.Wins.Skill++
		case "baseline":
			res.Wins.Random++
		default:
			res.Wins.Tie++
		}
	}

	n := float64(cfg.Runs)
	res.MeanRandomTotal = aggregate.Round2(randomTotal / n)
	res.MeanSkillTotal = aggregate.Round2(skillTotal / n)
	for j := range res.Layers {
		res.Layers[j].Random = aggregate.Round2(layerRandom[j] / n)
		res.Layers[j].Skill = aggregate.Round2(layerSkill[j] / n)
	}
	res.Duration = time.Since(start)

	metrics.RecordSweep(string(res.Mode))
	log.Info(ctx, "sweep complete",
		logger.Float64("mean_random_total", res.MeanRandomTotal),
		logger.Float64("mean_skill_total", res.MeanSkillTotal),
		logger.Int("skill_wins", res.Wins.Skill),
		logger.Int("random_wins", res.Wins.Random),
		logger.Duration("duration", res.Duration),
	)
	return res, nil
}
