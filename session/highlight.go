package session

import "github.com/poiesic/semfind/core"

// Highlighter applies presentation state to match anchors. The session calls
// it but never inspects what it does; anchors stay opaque. Cancellation and
// failure both clear applied highlights actively rather than abandoning them.
type Highlighter interface {
	// Apply marks the anchors as a match, flagging whether it is the
	// currently active one.
	Apply(anchors []core.Anchor, active bool)

	// Clear removes all applied highlights.
	Clear()
}

// noopHighlighter is a no-op implementation of Highlighter
type noopHighlighter struct{}

var _ Highlighter = (*noopHighlighter)(nil)

func (n *noopHighlighter) Apply(_ []core.Anchor, _ bool) {}
func (n *noopHighlighter) Clear()                        {}
