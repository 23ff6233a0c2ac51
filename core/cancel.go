package core

import "sync/atomic"

// CancelToken is an explicit cancellation capability passed into batch
// loops. It is checked at each yield point; once cancelled it stays
// cancelled. Safe for concurrent use, so a session running on a worker
// goroutine can be cancelled from the caller's side.
type CancelToken struct {
	cancelled atomic.Bool
}

// NewCancelToken returns a fresh, uncancelled token.
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel marks the token as cancelled.
func (t *CancelToken) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether Cancel has been called.
// A nil token is never cancelled.
func (t *CancelToken) Cancelled() bool {
	if t == nil {
		return false
	}
	return t.cancelled.Load()
}
