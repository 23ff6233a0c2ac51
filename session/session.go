// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/poiesic/semfind/chunk"
	"github.com/poiesic/semfind/core"
	"github.com/poiesic/semfind/engine"
)

// Session holds one query's lifecycle: its ordered match list, the active
// match index and the terminal state it ended in. One session is live at a
// time; starting a new query supersedes the previous session.
type Session struct {
	Query       string
	Mode        core.Mode
	State       core.SessionState
	Matches     []core.Match
	ActiveIndex int

	cancel *core.CancelToken
}

// Manager owns the live session, the current document's text units and the
// chunk list derived from them. Chunks are built once per document and
// discarded when a new document is set.
type Manager struct {
	engine      engine.Engine
	chunker     *chunk.Chunker
	bucket      *TokenBucket
	monitor     Monitor
	highlighter Highlighter
	logger      *slog.Logger

	mu      sync.Mutex
	units   []core.TextUnit
	chunks  []core.Chunk
	chunked bool
	current *Session
}

// Option configures a Manager.
type Option func(*Manager) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// WithMonitor sets the lifecycle event sink. Nil restores the no-op monitor.
func WithMonitor(monitor Monitor) Option {
	return func(m *Manager) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		m.monitor = monitor
		return nil
	}
}

// WithHighlighter sets the highlight sink. Nil restores the no-op highlighter.
func WithHighlighter(h Highlighter) Option {
	return func(m *Manager) error {
		if h == nil {
			h = &noopHighlighter{}
		}
		m.highlighter = h
		return nil
	}
}

// WithAdmission replaces the default token bucket.
func WithAdmission(bucket *TokenBucket) Option {
	return func(m *Manager) error {
		if bucket != nil {
			m.bucket = bucket
		}
		return nil
	}
}

// WithChunker replaces the default chunker.
func WithChunker(c *chunk.Chunker) Option {
	return func(m *Manager) error {
		if c != nil {
			m.chunker = c
		}
		return nil
	}
}

// NewManager creates a session manager over the given engine. The engine is
// passed in, not constructed here: engines are explicitly owned and may be
// shared with other managers or deployed on a worker.
func NewManager(eng engine.Engine, opts ...Option) (*Manager, error) {
	if eng == nil {
		return nil, ErrEngineRequired
	}

	chunker, err := chunk.NewChunker()
	if err != nil {
		return nil, err
	}

	m := &Manager{
		engine:      eng,
		chunker:     chunker,
		bucket:      NewTokenBucket(DefaultMaxTokens, DefaultRefillWindow),
		monitor:     &noopMonitor{},
		highlighter: &noopHighlighter{},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SetDocument replaces the search target. Any running session is cancelled,
// highlights are cleared and the cached chunk list is discarded so the next
// search rebuilds it.
func (m *Manager) SetDocument(units []core.TextUnit) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.supersedeLocked()
	m.highlighter.Clear()
	m.units = units
	m.chunks = nil
	m.chunked = false
	m.current = nil
}

// Start validates and admits the query, supersedes any running session and
// runs the search to a terminal state. Validation happens before admission:
// a too-short query is rejected without consuming a rate-limit token.
//
// Cancellation is not an error: Start returns nil and leaves the session in
// StateCancelled with its partial matches discarded. Only admission
// failures, validation failures and internal faults return an error.
func (m *Manager) Start(ctx context.Context, query string, mode core.Mode) error {
	clean, err := core.ValidateQuery(query)
	if err != nil {
		return err
	}

	if !m.bucket.TryAcquire() {
		m.logger.Warn("query denied by admission control", "query", clean)
		return core.ErrRateLimited
	}

	m.mu.Lock()
	m.supersedeLocked()
	m.highlighter.Clear()
	if !m.chunked {
		m.chunks = m.chunker.Chunk(m.units)
		m.chunked = true
	}
	s := &Session{
		Query:       clean,
		Mode:        mode,
		State:       core.StateRunning,
		ActiveIndex: -1,
		cancel:      core.NewCancelToken(),
	}
	m.current = s
	chunks := m.chunks
	m.mu.Unlock()

	m.monitor.Start(clean)
	m.logger.Info("session started", "query", clean, "mode", mode, "chunks", len(chunks))

	matches, err := m.engine.Search(ctx, engine.Request{
		Query:  clean,
		Mode:   mode,
		Chunks: chunks,
	}, s.cancel, m.monitor.Progress)

	m.mu.Lock()
	defer m.mu.Unlock()

	// A superseded session still records its terminal state, but only the
	// live session may touch the shared highlight set or emit lifecycle
	// events; otherwise its late cleanup would wipe the successor's
	// just-applied highlights.
	live := m.current == s

	if err != nil {
		s.State = core.StateFailed
		s.Matches = nil
		s.ActiveIndex = -1
		if live {
			m.highlighter.Clear()
			m.monitor.Failed(err)
		}
		m.logger.Error("session failed", "query", clean, "error", err)
		return err
	}

	if s.cancel.Cancelled() {
		// Partial matches are discarded from the session's perspective; the
		// clean terminal state is all the caller sees.
		s.State = core.StateCancelled
		s.Matches = nil
		s.ActiveIndex = -1
		if live {
			m.highlighter.Clear()
			m.monitor.Cancelled(len(matches))
		}
		m.logger.Info("session cancelled", "query", clean, "discarded", len(matches))
		return nil
	}

	s.Matches = matches
	if len(matches) > 0 {
		s.ActiveIndex = 0
	}
	s.State = core.StateCompleted
	if live {
		for i, match := range matches {
			m.highlighter.Apply(match.Anchors, i == s.ActiveIndex)
		}
		m.monitor.Completed(s.ActiveIndex, len(matches))
	}
	m.logger.Info("session completed", "query", clean, "matches", len(matches))
	return nil
}

// supersedeLocked cancels a still-running session so its batch loop stops at
// the next yield point. Callers must hold m.mu.
func (m *Manager) supersedeLocked() {
	if s := m.current; s != nil && s.State == core.StateRunning {
		s.cancel.Cancel()
	}
}

// Cancel requests cooperative cancellation of the running session. It takes
// effect within one batch's latency; the session reaches StateCancelled when
// Start returns.
func (m *Manager) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.supersedeLocked()
}

// Next rotates the active match forward, wrapping past the end. Returns the
// new active index, or -1 when there are no matches (a no-op).
func (m *Manager) Next() int { return m.move(1) }

// Previous rotates the active match backward, wrapping past the start.
// Returns the new active index, or -1 when there are no matches.
func (m *Manager) Previous() int { return m.move(-1) }

func (m *Manager) move(delta int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.current
	if s == nil || len(s.Matches) == 0 {
		return -1
	}

	n := len(s.Matches)
	prev := s.ActiveIndex
	s.ActiveIndex = ((s.ActiveIndex+delta)%n + n) % n
	if s.ActiveIndex != prev {
		m.highlighter.Apply(s.Matches[prev].Anchors, false)
		m.highlighter.Apply(s.Matches[s.ActiveIndex].Anchors, true)
	}
	m.monitor.Moved(s.ActiveIndex, n)
	return s.ActiveIndex
}

// State returns the live session's state, or StateIdle when no session has
// been started since the last document change.
func (m *Manager) State() core.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return core.StateIdle
	}
	return m.current.State
}

// Matches returns the live session's match list in its mode's order.
func (m *Manager) Matches() []core.Match {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	return m.current.Matches
}

// ActiveIndex returns the live session's active match index, -1 when there
// is no session or no matches.
func (m *Manager) ActiveIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return -1
	}
	return m.current.ActiveIndex
}

// Active returns the currently active match, if any.
func (m *Manager) Active() (core.Match, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.current
	if s == nil || s.ActiveIndex < 0 {
		return core.Match{}, false
	}
	return s.Matches[s.ActiveIndex], true
}
