package search

import "github.com/poiesic/semfind/core"

// OrderPolicy declares how a matcher orders its match list. Ordering is a
// per-mode policy, not a global invariant: semantic and exact matches follow
// document order, fuzzy matches are ranked by match quality.
type OrderPolicy int

const (
	// DocumentOrder preserves chunk encounter order.
	DocumentOrder OrderPolicy = iota
	// ScoreOrder ranks matches by descending score.
	ScoreOrder
)

// Matcher is one interchangeable matching strategy applied over chunks.
// Implementations are stateless between calls: each Match invocation is pure
// given (chunks, query), so matchers can be shared across sessions.
type Matcher interface {
	// Mode identifies the strategy.
	Mode() core.Mode

	// OrderPolicy declares the ordering of the returned match list.
	OrderPolicy() OrderPolicy

	// Match applies the strategy over the chunks for the query.
	Match(chunks []core.Chunk, query string) []core.Match
}
