package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/hyprest/hypothesis"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if workers > 0 {
			e.workerCount = workers
		}
	}
}

// WithBatchSize sets the batch size for chunked processing
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// ConcurrentEvaluator evaluates a filter over chunks of annotations in
// parallel. Matches keep their input order.
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
}

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate returns the annotations that match filter
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter CompiledFilter, annotations []hypothesis.Annotation) ([]hypothesis.Annotation, error) {
	if len(annotations) == 0 {
		return []hypothesis.Annotation{}, nil
	}

	// Small lists are not worth the goroutines
	if len(annotations) < e.batchSize {
		return Apply(filter, annotations), nil
	}

	return e.evaluateConcurrent(ctx, filter, annotations)
}

func (e *ConcurrentEvaluator) evaluateConcurrent(ctx context.Context, filter CompiledFilter, annotations []hypothesis.Annotation) ([]hypothesis.Annotation, error) {
	chunkSize := max(len(annotations)/e.workerCount, e.batchSize)
	chunks := (len(annotations) + chunkSize - 1) / chunkSize
	results := make([][]hypothesis.Annotation, chunks)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)

	for i := range chunks {
		start := i * chunkSize
		end := min(start+chunkSize, len(annotations))

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = Apply(filter, annotations[start:end])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, r := range results {
		total += len(r)
	}
	matches := make([]hypothesis.Annotation, 0, total)
	for _, r := range results {
		matches = append(matches, r...)
	}
	return matches, nil
}

// Apply returns the annotations that match filter, in order
func Apply(filter Filter, annotations []hypothesis.Annotation) []hypothesis.Annotation {
	matches := make([]hypothesis.Annotation, 0, len(annotations))
	for _, annotation := range annotations {
		if filter.Evaluate(annotation) {
			matches = append(matches, annotation)
		}
	}
	return matches
}
