package sweep

import (
	"context"
	"fmt"
	"sync"

	service "github.com/okian/promosim/internal/app"
	"github.com/okian/promosim/internal/domain/promotion"
	"github.com/okian/promosim/pkg/logger"
)

// job is one seeded run, tagged with its slot in the result slice.
type job struct {
	index int
	seed  int64
}

// runAll executes one run per seed on a fixed number of workers. Each
// worker writes only its own slots, so results come back in seed order
// whatever the interleaving. The first failure cancels the remaining runs.
func runAll(ctx context.Context, runner Runner, mode promotion.Mode, seeds []int64, workers int) ([]*service.Simulation, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(seeds) {
		workers = len(seeds)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan job)
	results := make([]*service.Simulation, len(seeds))
	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			log := logger.Named("sweep").With(logger.Int("worker", id))
			for j := range jobs {
				sim, err := runner.RunSimulation(runCtx, mode, service.WithSeed(j.seed))
				if err != nil {
					once.Do(func() {
						firstErr = fmt.Errorf("run %d: %w", j.index, err)
						cancel()
					})
					continue
				}
				results[j.index] = sim
				log.Debug(runCtx, "run finished", logger.Int("index", j.index), logger.Int64("seed", j.seed))
			}
		}(w)
	}

	sent := 0
	for i, seed := range seeds {
		if runCtx.Err() != nil {
			break
		}
		select {
		case <-runCtx.Done():
		case jobs <- job{index: i, seed: seed}:
			sent++
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("sweep stopped after %d runs: %w", sent, err)
	}
	return results, nil
}
