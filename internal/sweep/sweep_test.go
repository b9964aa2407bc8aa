package sweep_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	service "github.com/okian/promosim/internal/app"
	"github.com/okian/promosim/internal/domain/promotion"
	"github.com/okian/promosim/internal/domain/report"
	"github.com/okian/promosim/internal/sweep"
	"github.com/okian/promosim/pkg/logger"
	"github.com/okian/promosim/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// scripted returns canned comparisons in order.
type scripted struct {
	totals [][2]float64
	calls  int
	fail   error
}

func (s *scripted) RunSimulation(_ context.Context, mode promotion.Mode, _ ...service.RunOption) (*service.Simulation, error) {
	if s.fail != nil && s.calls == 1 {
		return nil, s.fail
	}
	t := s.totals[s.calls%len(s.totals)]
	s.calls++
	return &service.Simulation{
		Mode: mode,
		Comparison: report.Comparison{
			Rows: []report.Row{
				{Layer: "SE", Baseline: report.Side{RequiredSkillAverage: t[0]}, Candidate: report.Side{RequiredSkillAverage: t[1]}},
			},
			GrandTotals: report.GrandTotals{Baseline: t[0], Candidate: t[1]},
		},
	}, nil
}

func TestRun(t *testing.T) {
	Convey("Given a runner with known totals", t, func() {
		runner := &scripted{totals: [][2]float64{{100, 120}, {110, 100}, {90, 90}, {100, 131}}}
		ctx := context.Background()

		Convey("When sweeping four runs", func() {
			res, err := sweep.Run(ctx, runner, sweep.Config{Mode: promotion.ModeFlat, Runs: 4, Seed: 10})
			So(err, ShouldBeNil)

			Convey("Then means and wins should be computed across runs", func() {
				So(runner.calls, ShouldEqual, 4)
				So(res.ID, ShouldNotBeEmpty)
				So(res.FirstSeed, ShouldEqual, 10)
				So(res.MeanRandomTotal, ShouldEqual, 100.0)
				So(res.MeanSkillTotal, ShouldEqual, 110.25)
				So(res.Wins, ShouldResemble, sweep.Wins{Random: 1, Skill: 2, Tie: 1})
				So(res.Layers, ShouldResemble, []sweep.LayerMean{{Layer: "SE", Random: 100, Skill: 110.25}})
			})
		})

		Convey("When the run count is not positive", func() {
			_, err := sweep.Run(ctx, runner, sweep.Config{Mode: promotion.ModeFlat, Runs: 0})

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, sweep.ErrInvalidRuns), ShouldBeTrue)
				So(runner.calls, ShouldEqual, 0)
			})
		})

		Convey("When a run fails", func() {
			runner.fail = errors.New("boom")
			_, err := sweep.Run(ctx, runner, sweep.Config{Mode: promotion.ModeFlat, Runs: 3})

			Convey("Then the sweep should stop with that error", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "run 1")
				So(errors.Is(err, runner.fail), ShouldBeTrue)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := sweep.Run(cctx, runner, sweep.Config{Mode: promotion.ModeFlat, Runs: 3})

			Convey("Then no run should start", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(runner.calls, ShouldEqual, 0)
			})
		})
	})
}

func TestRunWithService(t *testing.T) {
	Convey("Given a real service", t, func() {
		svc := service.New(service.WithMetrics(metrics.NewManager(
			metrics.WithPrometheusRegistry(prometheus.NewRegistry()),
		)))
		ctx := context.Background()

		Convey("When sweeping the same seeds twice", func() {
			cfg := sweep.Config{Mode: promotion.ModeHierarchical, Runs: 5, Seed: 1}
			a, errA := sweep.Run(ctx, svc, cfg)
			b, errB := sweep.Run(ctx, svc, cfg)
			So(errA, ShouldBeNil)
			So(errB, ShouldBeNil)

			Convey("Then the summaries should match", func() {
				So(a.ID, ShouldNotEqual, b.ID)
				So(a.MeanSkillTotal, ShouldEqual, b.MeanSkillTotal)
				So(a.Layers, ShouldResemble, b.Layers)
				So(a.Wins.Random+a.Wins.Skill+a.Wins.Tie, ShouldEqual, 5)
				So(len(a.Layers), ShouldEqual, 5)
				So(svc.GetStats().Runs[promotion.ModeHierarchical], ShouldEqual, 10)
			})
		})
	})
}

func TestRunParallel(t *testing.T) {
	Convey("Given a real service", t, func() {
		svc := service.New(service.WithMetrics(metrics.NewManager(
			metrics.WithPrometheusRegistry(prometheus.NewRegistry()),
		)))
		ctx := context.Background()

		Convey("When the same sweep runs on one worker and on four", func() {
			serial, err := sweep.Run(ctx, svc, sweep.Config{Mode: promotion.ModeFlat, Runs: 12, Seed: 7, Workers: 1})
			So(err, ShouldBeNil)
			parallel, err := sweep.Run(ctx, svc, sweep.Config{Mode: promotion.ModeFlat, Runs: 12, Seed: 7, Workers: 4})
			So(err, ShouldBeNil)

			Convey("Then the summaries should not depend on the worker count", func() {
				So(parallel.MeanRandomTotal, ShouldEqual, serial.MeanRandomTotal)
				So(parallel.MeanSkillTotal, ShouldEqual, serial.MeanSkillTotal)
				So(parallel.Layers, ShouldResemble, serial.Layers)
				So(parallel.Wins, ShouldResemble, serial.Wins)
				So(svc.GetStats().Runs[promotion.ModeFlat], ShouldEqual, 24)
			})
		})

		Convey("When more workers than runs are requested", func() {
			res, err := sweep.Run(ctx, svc, sweep.Config{Mode: promotion.ModeHierarchical, Runs: 2, Seed: 3, Workers: 16})

			Convey("Then every run should still be summarized once", func() {
				So(err, ShouldBeNil)
				So(res.Wins.Random+res.Wins.Skill+res.Wins.Tie, ShouldEqual, 2)
			})
		})
	})
}
