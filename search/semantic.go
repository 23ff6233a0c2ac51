package search

import (
	"log/slog"

	"github.com/poiesic/semfind/core"
	"github.com/poiesic/semfind/embed"
)

// SemanticMatcher accepts chunks whose embedding is close to the query
// embedding and whose composite relevance score clears the threshold.
// Results stay in document order.
type SemanticMatcher struct {
	embedder *embed.Embedder
	scorer   *Scorer
	logger   *slog.Logger
}

// SemanticOption configures a SemanticMatcher.
type SemanticOption func(*SemanticMatcher) error

// WithThreshold sets the acceptance threshold for both gates.
// Default is DefaultSimilarityThreshold.
func WithThreshold(threshold float32) SemanticOption {
	return func(m *SemanticMatcher) error {
		m.scorer = NewScorer(threshold)
		return nil
	}
}

// WithSemanticLogger sets a custom logger.
// Default is slog.Default().
func WithSemanticLogger(logger *slog.Logger) SemanticOption {
	return func(m *SemanticMatcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewSemanticMatcher creates a semantic matcher backed by the embedder.
func NewSemanticMatcher(embedder *embed.Embedder, opts ...SemanticOption) (*SemanticMatcher, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	m := &SemanticMatcher{
		embedder: embedder,
		scorer:   NewScorer(DefaultSimilarityThreshold),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Mode returns core.ModeSemantic.
func (m *SemanticMatcher) Mode() core.Mode {
	return core.ModeSemantic
}

// OrderPolicy returns DocumentOrder.
func (m *SemanticMatcher) OrderPolicy() OrderPolicy {
	return DocumentOrder
}

// Match embeds the query once, embeds each chunk through the cache-backed
// embedder, scores similarity in one batched pass and accepts chunks per
// the double gate. A chunk that cannot be embedded is skipped, never fatal;
// a query that cannot be embedded matches nothing.
func (m *SemanticMatcher) Match(chunks []core.Chunk, query string) []core.Match {
	queryVec, ok := m.embedder.Embed(query)
	if !ok {
		m.logger.Debug("query has no embedding", "query", query)
		return nil
	}

	vectors := make([][]float32, len(chunks))
	for i, chunk := range chunks {
		if v, ok := m.embedder.Embed(chunk.Text); ok {
			vectors[i] = v
		}
	}

	similarities := embed.BatchCosineSimilarity(queryVec, vectors)

	matches := make([]core.Match, 0)
	for i, chunk := range chunks {
		if vectors[i] == nil {
			continue
		}
		score, accepted := m.scorer.Accept(chunk.Text, query, similarities[i])
		if !accepted {
			continue
		}
		matches = append(matches, core.Match{
			Chunk:   chunk,
			Score:   score,
			Anchors: chunk.Anchors(),
		})
	}
	return matches
}
