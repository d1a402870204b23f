package parser

import (
	"context"

	"github.com/nikcich/ExpenseTrackerV2/internal/logging"

	"golang.org/x/sync/errgroup"
)

// Pool defaults, overridable through configuration.
const (
	DefaultWorkers   = 4
	DefaultChunkSize = 64
)

// span is a half-open index range [lo, hi).
type span struct {
	lo, hi int
}

// ConcurrentProcessor splits index ranges into fixed-size chunks and runs
// them on at most workerCount goroutines.
type ConcurrentProcessor struct {
	logger      logging.Logger
	workerCount int
	chunkSize   int
}

// NewConcurrentProcessor creates a processor. Non-positive sizes fall back
// to the defaults.
func NewConcurrentProcessor(logger logging.Logger, workers, chunkSize int) *ConcurrentProcessor {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if workers < 1 {
		workers = DefaultWorkers
	}
	if chunkSize < 1 {
		chunkSize = DefaultChunkSize
	}
	return &ConcurrentProcessor{
		logger:      logger,
		workerCount: workers,
		chunkSize:   chunkSize,
	}
}

func (cp *ConcurrentProcessor) chunks(n int) []span {
	return split(n, cp.chunkSize)
}

// partition splits [0, n) into at most workerCount near-equal spans. It
// suits short inputs, such as the definition list, that a row-sized chunk
// would leave in a single piece.
func (cp *ConcurrentProcessor) partition(n int) []span {
	if n <= 0 {
		return nil
	}
	return split(n, (n+cp.workerCount-1)/cp.workerCount)
}

func split(n, size int) []span {
	if n <= 0 {
		return nil
	}
	out := make([]span, 0, (n+size-1)/size)
	for lo := 0; lo < n; lo += size {
		out = append(out, span{lo: lo, hi: min(lo+size, n)})
	}
	return out
}

// Run calls fn once per chunk of [0, n). fn receives the chunk's ordinal so
// it can write into a slot owned by that chunk alone; nothing else is
// shared between workers. A single chunk, or a single worker, runs inline.
// Run returns the first error any fn returned, or the context's error.
func (cp *ConcurrentProcessor) Run(ctx context.Context, n int, fn func(ctx context.Context, chunk int, s span) error) error {
	return cp.run(ctx, cp.chunks(n), fn)
}

// RunPartitioned is Run over partition(n) instead of fixed-size chunks.
func (cp *ConcurrentProcessor) RunPartitioned(ctx context.Context, n int, fn func(ctx context.Context, chunk int, s span) error) error {
	return cp.run(ctx, cp.partition(n), fn)
}

func (cp *ConcurrentProcessor) run(ctx context.Context, spans []span, fn func(context.Context, int, span) error) error {
	if len(spans) <= 1 || cp.workerCount == 1 {
		return cp.runSequential(ctx, spans, fn)
	}
	return cp.runConcurrent(ctx, spans, fn)
}

func (cp *ConcurrentProcessor) runSequential(ctx context.Context, spans []span, fn func(context.Context, int, span) error) error {
	for i, s := range spans {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx, i, s); err != nil {
			return err
		}
	}
	return nil
}

func (cp *ConcurrentProcessor) runConcurrent(ctx context.Context, spans []span, fn func(context.Context, int, span) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cp.workerCount)

	for i, s := range spans {
		i, s := i, s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i, s)
		})
	}

	err := g.Wait()

	cp.logger.Debug("Concurrent processing completed",
		logging.Field{Key: logging.FieldChunks, Value: len(spans)},
		logging.Field{Key: logging.FieldWorkers, Value: cp.workerCount})

	return err
}
