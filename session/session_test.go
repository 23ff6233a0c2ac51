package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/semfind/chunk"
	"github.com/poiesic/semfind/core"
	"github.com/poiesic/semfind/embed"
	"github.com/poiesic/semfind/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMonitor struct {
	started    []string
	progress   []int
	onProgress func(countSoFar int)
	completed  [][2]int
	cancelled  []int
	failed     []error
	moved      [][2]int
}

func (m *recordingMonitor) Start(query string) { m.started = append(m.started, query) }
func (m *recordingMonitor) Progress(n int) {
	m.progress = append(m.progress, n)
	if m.onProgress != nil {
		m.onProgress(n)
	}
}
func (m *recordingMonitor) Completed(active, total int) {
	m.completed = append(m.completed, [2]int{active, total})
}
func (m *recordingMonitor) Cancelled(discarded int) { m.cancelled = append(m.cancelled, discarded) }
func (m *recordingMonitor) Failed(err error)        { m.failed = append(m.failed, err) }
func (m *recordingMonitor) Moved(active, total int) {
	m.moved = append(m.moved, [2]int{active, total})
}

type recordingHighlighter struct {
	applied int
	actives int
	clears  int
}

func (h *recordingHighlighter) Apply(_ []core.Anchor, active bool) {
	h.applied++
	if active {
		h.actives++
	}
}
func (h *recordingHighlighter) Clear() { h.clears++ }

// scriptedEngine lets a test control the engine side of a session.
type scriptedEngine struct {
	search func(ctx context.Context, req engine.Request, cancel *core.CancelToken, progress engine.ProgressFunc) ([]core.Match, error)
}

func (e *scriptedEngine) Search(ctx context.Context, req engine.Request, cancel *core.CancelToken, progress engine.ProgressFunc) ([]core.Match, error) {
	return e.search(ctx, req, cancel, progress)
}
func (e *scriptedEngine) Close() error { return nil }

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	model, err := embed.NewModel(
		map[string]int{"cat": 0, "car": 1},
		[][]float32{{1, 0}, {0, 1}},
	)
	require.NoError(t, err)
	embedder, err := embed.NewEmbedder(model)
	require.NoError(t, err)
	eng, err := engine.NewLocalEngine(embedder)
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })

	m, err := NewManager(eng, opts...)
	require.NoError(t, err)
	return m
}

// unitPerChunk returns a chunker that seals every worded unit into its own
// chunk, so tests control the chunk count directly.
func unitPerChunk(t *testing.T) *chunk.Chunker {
	t.Helper()
	c, err := chunk.NewChunker(chunk.WithMaxWords(1))
	require.NoError(t, err)
	return c
}

func makeUnits(n int, text func(i int) string) []core.TextUnit {
	units := make([]core.TextUnit, n)
	for i := range units {
		units[i] = core.TextUnit{Text: text(i), Anchor: i}
	}
	return units
}

func TestNewManagerRequiresEngine(t *testing.T) {
	_, err := NewManager(nil)
	assert.ErrorIs(t, err, ErrEngineRequired)
}

func TestStartShortQueryLeavesIdle(t *testing.T) {
	m := newTestManager(t)
	m.SetDocument(makeUnits(3, func(i int) string { return "needle here" }))

	err := m.Start(context.Background(), "a", core.ModeExact)
	assert.ErrorIs(t, err, core.ErrInvalidQuery)
	assert.Equal(t, core.StateIdle, m.State())

	// No rate-limit token was consumed for the rejected query.
	assert.Equal(t, float64(DefaultMaxTokens), m.bucket.Tokens())
}

func TestStartRateLimited(t *testing.T) {
	m := newTestManager(t, WithAdmission(NewTokenBucket(1, time.Hour)))
	m.SetDocument(makeUnits(3, func(i int) string { return "needle here" }))

	require.NoError(t, m.Start(context.Background(), "needle", core.ModeExact))

	err := m.Start(context.Background(), "needle", core.ModeExact)
	assert.ErrorIs(t, err, core.ErrRateLimited)
}

func TestStartCompleted(t *testing.T) {
	monitor := &recordingMonitor{}
	highlighter := &recordingHighlighter{}
	m := newTestManager(t,
		WithMonitor(monitor),
		WithHighlighter(highlighter),
		WithChunker(unitPerChunk(t)),
	)
	m.SetDocument(makeUnits(5, func(i int) string {
		if i == 1 || i == 3 {
			return fmt.Sprintf("unit %d holds the needle", i)
		}
		return fmt.Sprintf("unit %d is filler", i)
	}))

	// Sanitization strips the markup before matching.
	require.NoError(t, m.Start(context.Background(), "  <needle>  ", core.ModeExact))

	assert.Equal(t, core.StateCompleted, m.State())
	require.Len(t, m.Matches(), 2)
	assert.Equal(t, 0, m.ActiveIndex())

	assert.Equal(t, []string{"needle"}, monitor.started)
	assert.Equal(t, [][2]int{{0, 2}}, monitor.completed)

	// Both matches highlighted, exactly one flagged active.
	assert.Equal(t, 2, highlighter.applied)
	assert.Equal(t, 1, highlighter.actives)
}

func TestStartNoMatches(t *testing.T) {
	monitor := &recordingMonitor{}
	m := newTestManager(t, WithMonitor(monitor))
	m.SetDocument(makeUnits(3, func(i int) string { return "plain filler text" }))

	require.NoError(t, m.Start(context.Background(), "absent", core.ModeExact))
	assert.Equal(t, core.StateCompleted, m.State())
	assert.Empty(t, m.Matches())
	assert.Equal(t, -1, m.ActiveIndex())
	assert.Equal(t, [][2]int{{-1, 0}}, monitor.completed)

	_, ok := m.Active()
	assert.False(t, ok)
}

func TestNavigationWrapAround(t *testing.T) {
	m := newTestManager(t, WithChunker(unitPerChunk(t)))
	m.SetDocument(makeUnits(5, func(i int) string {
		return fmt.Sprintf("needle number %d", i)
	}))

	require.NoError(t, m.Start(context.Background(), "needle", core.ModeExact))
	require.Len(t, m.Matches(), 5)
	require.Equal(t, 0, m.ActiveIndex())

	for want := 1; want < 5; want++ {
		assert.Equal(t, want, m.Next())
	}

	// Forward past the end wraps to the start, backward from the start
	// wraps to the end.
	assert.Equal(t, 0, m.Next())
	assert.Equal(t, 4, m.Previous())
}

func TestNavigationEmptyIsNoOp(t *testing.T) {
	m := newTestManager(t)
	assert.Equal(t, -1, m.Next())
	assert.Equal(t, -1, m.Previous())

	m.SetDocument(makeUnits(3, func(i int) string { return "filler" }))
	require.NoError(t, m.Start(context.Background(), "absent", core.ModeExact))
	assert.Equal(t, -1, m.Next())
	assert.Equal(t, -1, m.Previous())
}

func TestCancellationMidRun(t *testing.T) {
	processed := 0
	eng := &scriptedEngine{
		search: func(_ context.Context, req engine.Request, cancel *core.CancelToken, progress engine.ProgressFunc) ([]core.Match, error) {
			var matches []core.Match
			for start := 0; start < len(req.Chunks); start += 10 {
				if cancel.Cancelled() {
					return matches, nil
				}
				end := start + 10
				if end > len(req.Chunks) {
					end = len(req.Chunks)
				}
				for _, c := range req.Chunks[start:end] {
					processed++
					matches = append(matches, core.Match{Chunk: c, Score: 1, Anchors: c.Anchors()})
				}
				progress(len(matches))
			}
			return matches, nil
		},
	}

	monitor := &recordingMonitor{}
	highlighter := &recordingHighlighter{}
	m, err := NewManager(eng,
		WithMonitor(monitor),
		WithHighlighter(highlighter),
		WithChunker(unitPerChunk(t)),
	)
	require.NoError(t, err)

	monitor.onProgress = func(int) { m.Cancel() }

	m.SetDocument(makeUnits(50, func(i int) string { return fmt.Sprintf("unit %d", i) }))
	require.NoError(t, m.Start(context.Background(), "unit", core.ModeExact))

	// Cancellation was requested during the first batch's yield point; no
	// batch ran after it was observed.
	assert.Equal(t, 10, processed)
	assert.Equal(t, core.StateCancelled, m.State())

	// Partial matches are discarded; the count is only reported outward.
	assert.Empty(t, m.Matches())
	assert.Equal(t, -1, m.ActiveIndex())
	assert.Equal(t, []int{10}, monitor.cancelled)
	assert.GreaterOrEqual(t, highlighter.clears, 1)
}

func TestSupersededSessionKeepsSuccessorHighlights(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	eng := &scriptedEngine{
		search: func(_ context.Context, req engine.Request, cancel *core.CancelToken, _ engine.ProgressFunc) ([]core.Match, error) {
			calls++
			if calls == 1 {
				// First session parks mid-search until the test releases it,
				// giving the second session time to supersede and complete.
				close(started)
				<-release
				return nil, nil
			}
			c := req.Chunks[0]
			return []core.Match{{Chunk: c, Score: 1, Anchors: c.Anchors()}}, nil
		},
	}

	monitor := &recordingMonitor{}
	highlighter := &recordingHighlighter{}
	m, err := NewManager(eng,
		WithMonitor(monitor),
		WithHighlighter(highlighter),
		WithChunker(unitPerChunk(t)),
	)
	require.NoError(t, err)
	m.SetDocument(makeUnits(1, func(i int) string { return "needle" }))

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- m.Start(context.Background(), "needle", core.ModeExact)
	}()
	<-started

	require.NoError(t, m.Start(context.Background(), "needle", core.ModeExact))
	require.Equal(t, core.StateCompleted, m.State())
	require.Equal(t, 1, highlighter.applied)

	close(release)
	require.NoError(t, <-firstDone)

	// The superseded session's late cleanup must not clear the live
	// session's highlights or emit events after its Completed.
	assert.Equal(t, core.StateCompleted, m.State())
	assert.Equal(t, 1, highlighter.applied)
	assert.Equal(t, 2, highlighter.clears) // each Start's own lock-phase clear
	assert.Empty(t, monitor.cancelled)
	assert.Equal(t, [][2]int{{0, 1}}, monitor.completed)
}

func TestStartFailed(t *testing.T) {
	boom := errors.New("matcher blew up")
	eng := &scriptedEngine{
		search: func(context.Context, engine.Request, *core.CancelToken, engine.ProgressFunc) ([]core.Match, error) {
			return nil, fmt.Errorf("%w: %w", core.ErrInternal, boom)
		},
	}

	monitor := &recordingMonitor{}
	highlighter := &recordingHighlighter{}
	m, err := NewManager(eng, WithMonitor(monitor), WithHighlighter(highlighter))
	require.NoError(t, err)

	m.SetDocument(makeUnits(3, func(i int) string { return "text" }))
	err = m.Start(context.Background(), "text", core.ModeExact)
	assert.ErrorIs(t, err, core.ErrInternal)
	assert.Equal(t, core.StateFailed, m.State())
	require.Len(t, monitor.failed, 1)
	assert.GreaterOrEqual(t, highlighter.clears, 1)
}

func TestSetDocumentResetsSession(t *testing.T) {
	m := newTestManager(t, WithChunker(unitPerChunk(t)))
	m.SetDocument(makeUnits(3, func(i int) string { return "needle" }))

	require.NoError(t, m.Start(context.Background(), "needle", core.ModeExact))
	require.Equal(t, core.StateCompleted, m.State())
	require.NotEmpty(t, m.Matches())

	m.SetDocument(makeUnits(2, func(i int) string { return "other" }))
	assert.Equal(t, core.StateIdle, m.State())
	assert.Empty(t, m.Matches())
	assert.Equal(t, -1, m.ActiveIndex())
}
