package cart

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ntBre/go-xtb/internal/ctxlog"
)

// RunJobs evaluates every job at coords displaced by its Steps, storing the
// energy and gradient on the job. The jobs are spread over workers
// goroutines, each with its own Program. Cancellation takes effect between
// jobs; an evaluation already running is not interrupted.
func RunJobs(ctx context.Context, jobs []*Job, coords []float64, delta float64,
	workers int, factory Factory) error {
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}
	logger := ctxlog.FromContext(ctx)
	g, ctx := errgroup.WithContext(ctx)
	queue := make(chan *Job)

	g.Go(func() error {
		defer close(queue)
		for _, job := range jobs {
			select {
			case queue <- job:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			prog, err := factory()
			if err != nil {
				return fmt.Errorf("worker %d: %w", w, err)
			}
			defer prog.Close()
			grad := make([]float64, len(coords))
			for job := range queue {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := prog.UpdateStructure(Step(coords, delta, job.Steps...), nil); err != nil {
					return fmt.Errorf("%s: %w", job.Name, err)
				}
				energy, err := prog.CalculateEnergyAndGradient(grad)
				if err != nil {
					return fmt.Errorf("%s: %w", job.Name, err)
				}
				job.Result = energy
				job.Gradient = append([]float64(nil), grad...)
				logger.Debug("finished job",
					slog.String("job", job.Name),
					slog.Any("steps", job.Steps),
					slog.Int("worker", w),
					slog.Float64("energy", energy))
			}
			return nil
		})
	}
	return g.Wait()
}
