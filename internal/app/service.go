// Package service runs promotion simulations and implements the
// dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/promosim/internal/domain/aggregate"
	"github.com/okian/promosim/internal/domain/model"
	"github.com/okian/promosim/internal/domain/population"
	"github.com/okian/promosim/internal/domain/promotion"
	"github.com/okian/promosim/internal/domain/report"
	"github.com/okian/promosim/internal/domain/schema"
	"github.com/okian/promosim/pkg/logger"
	"github.com/okian/promosim/pkg/metrics"
)

// Simulation is the complete, self-contained result of one run.
type Simulation struct {
	RunID            string             `json:"run_id" yaml:"run_id"`
	Mode             promotion.Mode     `json:"mode" yaml:"mode"`
	Seed             int64              `json:"seed" yaml:"seed"`
	Layers           []schema.Layer     `json:"layers" yaml:"layers"`
	Population       model.Population   `json:"population" yaml:"population"`
	RandomAssignment model.Assignment   `json:"random_assignment" yaml:"random_assignment"`
	SkillAssignment  model.Assignment   `json:"skill_assignment" yaml:"skill_assignment"`
	RandomAverages   []aggregate.Record `json:"random_averages" yaml:"random_averages"`
	SkillAverages    []aggregate.Record `json:"skill_averages" yaml:"skill_averages"`
	Comparison       report.Comparison  `json:"comparison" yaml:"comparison"`
}

// Schema describes the skill dimensions and layers runs are evaluated against.
type Schema struct {
	Skills []schema.Skill   `json:"skills" yaml:"skills"`
	Layers []schema.Layer   `json:"layers" yaml:"layers"`
	Modes  []promotion.Mode `json:"modes" yaml:"modes"`
}

// Stats summarizes the runs served by this Service.
type Stats struct {
	Runs      map[promotion.Mode]int64 `json:"runs"`
	Failures  int64                    `json:"failures"`
	LastRunID string                   `json:"last_run_id,omitempty"`
	LastRunAt time.Time                `json:"last_run_at,omitempty"`
}

// Service owns the run configuration. Runs share no mutable state, so
// RunSimulation is safe for concurrent use; only the stats are guarded.
type Service struct {
	mu sync.RWMutex

	// Configuration
	layers         []schema.Layer
	populationSize int
	baseline       float64
	spread         float64
	defaultMode    promotion.Mode
	defaultSeed    int64

	// State
	runs      map[promotion.Mode]int64
	failures  int64
	lastRunID string
	lastRunAt time.Time

	logger  logger.Logger
	metrics *metrics.Manager
	now     func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records run metrics on m instead of the process-wide manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLayers replaces the default layer schema. Layers are validated on
// every run so a bad schema surfaces as a ConfigurationError.
func WithLayers(layers []schema.Layer) Option {
	return func(s *Service) {
		s.layers = append([]schema.Layer(nil), layers...)
	}
}

// WithPopulationSize sets the number of individuals generated per run.
func WithPopulationSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.populationSize = n
		}
	}
}

// WithBaseline sets the center of the skill score distribution.
func WithBaseline(baseline float64) Option {
	return func(s *Service) {
		s.baseline = baseline
	}
}

// WithSpread sets the half-width of the skill score distribution.
func WithSpread(spread float64) Option {
	return func(s *Service) {
		if spread >= 0 {
			s.spread = spread
		}
	}
}

// WithDefaultMode sets the mode used when a run names none.
func WithDefaultMode(mode promotion.Mode) Option {
	return func(s *Service) {
		if mode != "" {
			s.defaultMode = mode
		}
	}
}

// WithDefaultSeed fixes the seed of runs that do not pass WithSeed.
// Zero keeps clock seeding.
func WithDefaultSeed(seed int64) Option {
	return func(s *Service) {
		s.defaultSeed = seed
	}
}

// New constructs a Service with the default schema and population shape.
func New(opts ...Option) *Service {
	s := &Service{
		layers:         schema.DefaultLayers(),
		populationSize: population.DefaultSize,
		baseline:       population.DefaultBaseline,
		spread:         population.DefaultSpread,
		defaultMode:    promotion.ModeFlat,
		runs:           make(map[promotion.Mode]int64),
		metrics:        metrics.Default(),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	return s
}

// RunOption configures a single run.
type RunOption func(*runConfig)

type runConfig struct {
	seed    int64
	hasSeed bool
}

// WithSeed makes the run reproducible: the same seed and mode yield the
// same Simulation apart from RunID.
func WithSeed(seed int64) RunOption {
	return func(c *runConfig) {
		c.seed = seed
		c.hasSeed = true
	}
}

// RunSimulation generates a population, promotes it randomly and with the
// skill-based strategy for mode, and compares the two. An empty mode uses
// the service default.
func (s *Service) RunSimulation(ctx context.Context, mode promotion.Mode, opts ...RunOption) (*Simulation, error) {
	if mode == "" {
		mode = s.defaultMode
	}
	sim, err := s.run(ctx, mode, opts)
	if err != nil {
		s.recordFailure(ctx, mode, err)
		return nil, err
	}
	return sim, nil
}

func (s *Service) run(ctx context.Context, mode promotion.Mode, opts []RunOption) (*Simulation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := s.now()

	skilled, err := promotion.ForMode(mode)
	if err != nil {
		return nil, err
	}
	layers := s.Layers()
	if err := validateFor(mode, layers); err != nil {
		return nil, err
	}

	cfg := runConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	seed := s.seedFor(cfg, start)

	runID := uuid.NewString()
	log := s.logger.With(logger.String("run_id", runID), logger.String("mode", string(mode)))
	log.Debug(ctx, "starting simulation",
		logger.Int64("seed", seed),
		logger.Int("population", s.populationSize),
		logger.Int("layers", len(layers)),
	)

	// One source per run: generation first, then the random shuffle.
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // simulation, not security
	pop := population.NewGenerator(population.WithRand(rng), population.WithSpread(s.spread)).
		Generate(s.populationSize, s.baseline)

	randomAssignment := promotion.NewRandom(rng).Assign(pop, layers)
	skillAssignment := skilled.Assign(pop, layers)

	randomAverages := aggregate.Summarize(randomAssignment, layers)
	skillAverages := aggregate.Summarize(skillAssignment, layers)
	cmp, err := report.Compare(randomAverages, skillAverages)
	if err != nil {
		return nil, fmt.Errorf("compare %s against random: %w", skilled.Name(), err)
	}

	sim := &Simulation{
		RunID:            runID,
		Mode:             mode,
		Seed:             seed,
		Layers:           layers,
		Population:       pop,
		RandomAssignment: randomAssignment,
		SkillAssignment:  skillAssignment,
		RandomAverages:   randomAverages,
		SkillAverages:    skillAverages,
		Comparison:       cmp,
	}

	elapsed := s.now().Sub(start)
	s.recordSuccess(sim, elapsed)
	log.Info(ctx, "simulation complete",
		logger.Int64("seed", seed),
		logger.Float64("random_total", cmp.GrandTotals.Baseline),
		logger.Float64("skill_total", cmp.GrandTotals.Candidate),
		logger.String("winner", cmp.GrandTotals.Winner()),
		logger.Duration("elapsed", elapsed),
	)
	return sim, nil
}

func validateFor(mode promotion.Mode, layers []schema.Layer) error {
	if mode == promotion.ModeHierarchical {
		return schema.ValidateHierarchy(layers)
	}
	return schema.Validate(layers)
}

func (s *Service) seedFor(cfg runConfig, now time.Time) int64 {
	switch {
	case cfg.hasSeed:
		return cfg.seed
	case s.defaultSeed != 0:
		return s.defaultSeed
	default:
		return now.UnixNano()
	}
}

func (s *Service) recordSuccess(sim *Simulation, elapsed time.Duration) {
	s.mu.Lock()
	s.runs[sim.Mode]++
	s.lastRunID = sim.RunID
	s.lastRunAt = s.now()
	s.mu.Unlock()

	mode := string(sim.Mode)
	s.metrics.RecordSimulation(mode, float64(elapsed.Microseconds())/1000)
	s.metrics.RecordGrandTotal(mode, "random", sim.Comparison.GrandTotals.Baseline)
	s.metrics.RecordGrandTotal(mode, "skill", sim.Comparison.GrandTotals.Candidate)
	s.metrics.RecordLayerAverages(mode, "random", layerAverages(sim.RandomAverages))
	s.metrics.RecordLayerAverages(mode, "skill", layerAverages(sim.SkillAverages))
	s.metrics.RecordWin(mode, sim.Comparison.GrandTotals.Winner())
}

func (s *Service) recordFailure(ctx context.Context, mode promotion.Mode, err error) {
	s.mu.Lock()
	s.failures++
	s.mu.Unlock()

	kind := ErrorKind(err)
	s.metrics.RecordSimulationError(string(mode), kind)
	s.logger.Warn(ctx, "simulation rejected",
		logger.String("mode", string(mode)),
		logger.String("kind", kind),
		logger.Error(err),
	)
}

// ErrorKind classifies a RunSimulation error for metrics and API responses.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, schema.ErrConfiguration):
		return "configuration"
	case errors.Is(err, promotion.ErrUnknownMode):
		return "mode"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}

func layerAverages(records []aggregate.Record) []metrics.LayerAverage {
	out := make([]metrics.LayerAverage, len(records))
	for i, r := range records {
		out[i] = metrics.LayerAverage{
			Layer:                r.Layer,
			RequiredSkillAverage: r.RequiredSkillAverage,
			TotalScoreAverage:    r.TotalScoreAverage,
		}
	}
	return out
}

// Layers returns a copy of the configured layers.
func (s *Service) Layers() []schema.Layer {
	out := make([]schema.Layer, len(s.layers))
	for i, l := range s.layers {
		l.RequiredSkills = append([]schema.Skill(nil), l.RequiredSkills...)
		out[i] = l
	}
	return out
}

// DefaultMode returns the mode used when a run names none.
func (s *Service) DefaultMode() promotion.Mode { return s.defaultMode }

// Schema describes the skills, layers, and modes this service runs with.
func (s *Service) Schema(_ context.Context) Schema {
	return Schema{
		Skills: schema.Skills(),
		Layers: s.Layers(),
		Modes:  promotion.Modes(),
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make(map[promotion.Mode]int64, len(s.runs))
	for mode, n := range s.runs {
		runs[mode] = n
	}
	return Stats{
		Runs:      runs,
		Failures:  s.failures,
		LastRunID: s.lastRunID,
		LastRunAt: s.lastRunAt,
	}
}
