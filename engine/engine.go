package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"

	"github.com/poiesic/semfind/core"
	"github.com/poiesic/semfind/embed"
	"github.com/poiesic/semfind/search"
)

// DefaultBatchSize is the number of chunks processed between yield points.
// Cancellation takes effect within one batch's latency rather than only at
// completion.
const DefaultBatchSize = 10

// ProgressFunc receives the cumulative match count after each processed
// batch. It doubles as the batch loop's yield point.
type ProgressFunc func(countSoFar int)

// Request describes one search over a prepared chunk list.
type Request struct {
	Query     string
	Mode      core.Mode
	Chunks    []core.Chunk
	BatchSize int // 0 means DefaultBatchSize
}

// Engine runs mode matchers over chunks. Two deployments exist behind this
// contract: LocalEngine runs in the caller's goroutine, WorkerEngine proxies
// to a dedicated worker goroutine by message passing. Session logic and the
// matchers are deployment-agnostic.
type Engine interface {
	// Search runs the request's matcher over its chunks in batches,
	// checking cancel at each batch start and reporting progress after each
	// batch. When cancellation is observed the accumulated matches are
	// returned with a nil error; the caller decides what a cancelled result
	// means. A fault inside matching surfaces as core.ErrInternal.
	Search(ctx context.Context, req Request, cancel *core.CancelToken, progress ProgressFunc) ([]core.Match, error)

	// Close releases engine resources. Search after Close returns
	// core.ErrEngineClosed.
	Close() error
}

// LocalEngine is the in-process deployment: matchers run directly on the
// caller's goroutine with cooperative batch yields.
type LocalEngine struct {
	matchers map[core.Mode]search.Matcher
	logger   *slog.Logger
	closed   atomic.Bool

	semanticOpts []search.SemanticOption
	fuzzyOpts    []search.FuzzyOption
}

var _ Engine = (*LocalEngine)(nil)

// Option configures a LocalEngine.
type Option func(*LocalEngine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *LocalEngine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithSemanticOptions forwards options to the semantic matcher.
func WithSemanticOptions(opts ...search.SemanticOption) Option {
	return func(e *LocalEngine) error {
		e.semanticOpts = append(e.semanticOpts, opts...)
		return nil
	}
}

// WithFuzzyOptions forwards options to the fuzzy matcher.
func WithFuzzyOptions(opts ...search.FuzzyOption) Option {
	return func(e *LocalEngine) error {
		e.fuzzyOpts = append(e.fuzzyOpts, opts...)
		return nil
	}
}

// NewLocalEngine creates an engine with all three mode matchers wired to
// the embedder. Engines are explicitly constructed and explicitly owned;
// there is no process-global instance.
func NewLocalEngine(embedder *embed.Embedder, opts ...Option) (*LocalEngine, error) {
	if embedder == nil {
		return nil, search.ErrEmbedderRequired
	}

	e := &LocalEngine{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	semantic, err := search.NewSemanticMatcher(embedder,
		append([]search.SemanticOption{search.WithSemanticLogger(e.logger)}, e.semanticOpts...)...)
	if err != nil {
		return nil, err
	}
	fuzzy, err := search.NewFuzzyMatcher(e.fuzzyOpts...)
	if err != nil {
		return nil, err
	}

	e.matchers = map[core.Mode]search.Matcher{
		core.ModeSemantic: semantic,
		core.ModeExact:    search.NewExactMatcher(),
		core.ModeFuzzy:    fuzzy,
	}
	return e, nil
}

// Search implements Engine.
func (e *LocalEngine) Search(ctx context.Context, req Request, cancel *core.CancelToken, progress ProgressFunc) (matches []core.Match, err error) {
	if e.closed.Load() {
		return nil, core.ErrEngineClosed
	}

	matcher, ok := e.matchers[req.Mode]
	if !ok {
		return nil, fmt.Errorf("%w: %d", core.ErrUnknownMode, req.Mode)
	}

	// Matchers never throw for malformed chunks, but a fault anywhere in
	// scoring must surface as InternalFailure rather than unwind the caller.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic during batch processing", "panic", r)
			matches = nil
			err = fmt.Errorf("%w: %v", core.ErrInternal, r)
		}
	}()

	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	for start := 0; start < len(req.Chunks); start += batchSize {
		// No batch may run once cancellation is observed at its start.
		if cancel.Cancelled() {
			return matches, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		end := start + batchSize
		if end > len(req.Chunks) {
			end = len(req.Chunks)
		}

		matches = append(matches, matcher.Match(req.Chunks[start:end], req.Query)...)
		if progress != nil {
			progress(len(matches))
		}
	}

	if matcher.OrderPolicy() == search.ScoreOrder {
		sort.SliceStable(matches, func(i, j int) bool {
			if matches[i].Score != matches[j].Score {
				return matches[i].Score > matches[j].Score
			}
			return matches[i].Chunk.Index < matches[j].Chunk.Index
		})
	}

	return matches, nil
}

// Close implements Engine.
func (e *LocalEngine) Close() error {
	e.closed.Store(true)
	return nil
}
