package search

import (
	"strings"

	"github.com/poiesic/semfind/core"
)

// ExactMatcher accepts chunks containing the full query as a
// case-insensitive substring. Hits are narrowed to the individual text units
// whose own text contains the query, so highlighting is finer-grained than
// the chunk level. Results stay in document order.
type ExactMatcher struct{}

// NewExactMatcher creates an exact matcher.
func NewExactMatcher() *ExactMatcher {
	return &ExactMatcher{}
}

// Mode returns core.ModeExact.
func (m *ExactMatcher) Mode() core.Mode {
	return core.ModeExact
}

// OrderPolicy returns DocumentOrder.
func (m *ExactMatcher) OrderPolicy() OrderPolicy {
	return DocumentOrder
}

// Match tests each chunk's text for the query. On a hit, only the units
// whose own text contains the query are recorded as matched anchors; when
// the query spans a unit boundary no single unit contains it, and the whole
// chunk's anchors are kept so the highlight still lands somewhere visible.
func (m *ExactMatcher) Match(chunks []core.Chunk, query string) []core.Match {
	needle := strings.ToLower(query)
	matches := make([]core.Match, 0)

	for _, chunk := range chunks {
		if !strings.Contains(strings.ToLower(chunk.Text), needle) {
			continue
		}

		var anchors []core.Anchor
		for _, unit := range chunk.Units {
			if strings.Contains(strings.ToLower(unit.Text), needle) {
				anchors = append(anchors, unit.Anchor)
			}
		}
		if len(anchors) == 0 {
			anchors = chunk.Anchors()
		}

		matches = append(matches, core.Match{
			Chunk:   chunk,
			Score:   1,
			Anchors: anchors,
		})
	}
	return matches
}
