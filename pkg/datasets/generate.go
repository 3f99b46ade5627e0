package datasets

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	"github.com/nihongo-dojo/dojo-go/pkg/errors"
	"github.com/nihongo-dojo/dojo-go/pkg/logging"
	"github.com/nihongo-dojo/dojo-go/pkg/tasks"
)

// GenerationSpec configures a dataset generation run.
type GenerationSpec struct {
	Name    string
	Version string
	Size    int
	Types   []tasks.Type
	Weights tasks.DifficultyWeights
	Seed    int64
	Workers int
}

// Generate builds a dataset of spec.Size tasks across a worker pool. Each
// worker owns a registry seeded from spec.Seed and its worker index, so runs
// are reproducible for a fixed (seed, workers) pair and workers share no
// mutable state. Worker outputs are concatenated in worker order.
func Generate(ctx context.Context, spec GenerationSpec) (*GRPODataset, error) {
	if spec.Size <= 0 {
		return nil, errors.New(errors.InvalidInput, "dataset size must be positive")
	}
	workers := spec.Workers
	if workers <= 0 {
		workers = 4
	}
	if workers > spec.Size {
		workers = spec.Size
	}

	logger := logging.GetLogger()
	logger.Info(ctx, "generating %d tasks with %d workers (seed %d)", spec.Size, workers, spec.Seed)

	results := make([][]*tasks.Task, workers)
	per := spec.Size / workers
	extra := spec.Size % workers

	p := pool.New().WithContext(ctx).WithCancelOnError()
	for w := 0; w < workers; w++ {
		worker := w
		count := per
		if worker < extra {
			count++
		}
		p.Go(func(ctx context.Context) error {
			registry := tasks.NewRegistry(spec.Seed+int64(worker)*7919, spec.Weights)
			out := make([]*tasks.Task, 0, count)
			for i := 0; i < count; i++ {
				if err := ctx.Err(); err != nil {
					return errors.Wrap(err, errors.Canceled, "generation canceled")
				}
				taskType := registry.SampleType(spec.Types)
				t, err := registry.Generate(taskType, "")
				if err != nil {
					return err
				}
				out = append(out, t)
			}
			results[worker] = out
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	d := NewGRPODataset(spec.Name, spec.Version)
	for _, out := range results {
		d.Add(out...)
	}
	logger.Info(ctx, "generated %d tasks across %d types", d.Len(), len(d.TypeDistribution()))
	return d, nil
}
