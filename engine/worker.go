package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/semfind/core"
	"github.com/poiesic/semfind/embed"
	"github.com/poiesic/semfind/resource"
)

// WorkerEngine is the worker-offloaded deployment: searches run on a
// dedicated goroutine owned by a single-slot ants pool, and the caller talks
// to it strictly by message passing. The boundary is crash-isolated: a fault
// inside the worker's search surfaces as an error result, never as a broken
// channel or an unwound caller.
type WorkerEngine struct {
	pool   *ants.Pool
	local  *LocalEngine
	logger *slog.Logger
	closed atomic.Bool
}

var _ Engine = (*WorkerEngine)(nil)

// WorkerOption configures a WorkerEngine.
type WorkerOption func(*workerConfig) error

type workerConfig struct {
	logger     *slog.Logger
	store      *resource.Store
	engineOpts []Option
	cacheCap   int
}

// WithWorkerLogger sets a custom logger.
// Default is slog.Default().
func WithWorkerLogger(logger *slog.Logger) WorkerOption {
	return func(c *workerConfig) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithResourceStore routes the initialize step through a decoded-model
// cache so repeat startups skip JSON parsing.
func WithResourceStore(store *resource.Store) WorkerOption {
	return func(c *workerConfig) error {
		c.store = store
		return nil
	}
}

// WithEngineOptions forwards options to the inner LocalEngine.
func WithEngineOptions(opts ...Option) WorkerOption {
	return func(c *workerConfig) error {
		c.engineOpts = append(c.engineOpts, opts...)
		return nil
	}
}

// WithEmbeddingCacheCapacity sets the worker embedder's cache capacity.
func WithEmbeddingCacheCapacity(capacity int) WorkerOption {
	return func(c *workerConfig) error {
		c.cacheCap = capacity
		return nil
	}
}

// searchResult is the worker's reply to one search message.
type searchResult struct {
	matches []core.Match
	err     error
}

// NewWorkerEngine performs the initialize exchange: the resource at
// resourceLocator is loaded on the worker goroutine, and a load failure
// comes back as an error (the engine is unusable until reinitialized, per
// core.ErrResourceUnavailable) rather than a dead worker.
func NewWorkerEngine(resourceLocator string, cfg *resource.Config, opts ...WorkerOption) (*WorkerEngine, error) {
	wc := &workerConfig{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(wc); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(1, ants.WithPanicHandler(func(r any) {
		// Backstop only; per-message recovery below converts panics into
		// error replies before they reach the pool.
		wc.logger.Error("unrecovered worker panic", "panic", r)
	}))
	if err != nil {
		return nil, err
	}

	w := &WorkerEngine{pool: pool, logger: wc.logger}

	initDone := make(chan error, 1)
	err = pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				initDone <- fmt.Errorf("%w: init panic: %v", core.ErrResourceUnavailable, r)
			}
		}()

		model, err := resource.LoadCached(resourceLocator, cfg, wc.store)
		if err != nil {
			initDone <- err
			return
		}

		var embedOpts []embed.Option
		if wc.cacheCap > 0 {
			embedOpts = append(embedOpts, embed.WithCacheCapacity(wc.cacheCap))
		}
		embedder, err := embed.NewEmbedder(model, embedOpts...)
		if err != nil {
			initDone <- err
			return
		}

		local, err := NewLocalEngine(embedder,
			append([]Option{WithLogger(wc.logger)}, wc.engineOpts...)...)
		if err != nil {
			initDone <- err
			return
		}

		w.local = local
		initDone <- nil
	})
	if err != nil {
		pool.Release()
		return nil, fmt.Errorf("%w: submitting init: %w", core.ErrResourceUnavailable, err)
	}

	if err := <-initDone; err != nil {
		pool.Release()
		return nil, err
	}

	return w, nil
}

// Search implements Engine by relaying the request to the worker goroutine
// and waiting for its reply message.
func (w *WorkerEngine) Search(ctx context.Context, req Request, cancel *core.CancelToken, progress ProgressFunc) ([]core.Match, error) {
	if w.closed.Load() {
		return nil, core.ErrEngineClosed
	}

	reply := make(chan searchResult, 1)
	err := w.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				reply <- searchResult{err: fmt.Errorf("%w: worker panic: %v", core.ErrInternal, r)}
			}
		}()
		matches, err := w.local.Search(ctx, req, cancel, progress)
		reply <- searchResult{matches: matches, err: err}
	})
	if err != nil {
		return nil, fmt.Errorf("%w: submitting search: %v", core.ErrInternal, err)
	}

	select {
	case res := <-reply:
		return res.matches, res.err
	case <-ctx.Done():
		// The worker keeps draining the cancelled request on its own; the
		// cancel token stops it at the next batch boundary.
		return nil, ctx.Err()
	}
}

// Close implements Engine. Pending work is allowed to finish draining.
func (w *WorkerEngine) Close() error {
	if w.closed.Swap(true) {
		return nil
	}
	w.pool.Release()
	if w.local != nil {
		return w.local.Close()
	}
	return nil
}
