package embed

import (
	"log/slog"

	"github.com/poiesic/semfind/core"
)

// Embedder turns text into mean-of-word-vector embeddings backed by a
// loaded Model, memoizing results in a bounded Cache. Embedders are
// explicitly constructed values; there is no shared global instance, so
// tests and concurrent sessions can hold independent embedders.
type Embedder struct {
	model  *Model
	cache  *Cache
	logger *slog.Logger
}

// Option configures an Embedder.
type Option func(*Embedder) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Embedder) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithCacheCapacity sets the maximum number of cached embeddings.
// Default is DefaultCacheCapacity.
func WithCacheCapacity(capacity int) Option {
	return func(e *Embedder) error {
		e.cache = NewCache(capacity)
		return nil
	}
}

// NewEmbedder creates an embedder over the given model.
func NewEmbedder(model *Model, opts ...Option) (*Embedder, error) {
	if model == nil {
		return nil, ErrModelRequired
	}

	e := &Embedder{
		model:  model,
		cache:  NewCache(DefaultCacheCapacity),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Embed returns the unit-scaled mean of the embedding rows for the text's
// vocabulary-recognized tokens. Unit scaling changes no cosine similarity
// downstream and keeps every cached vector at a consistent magnitude. The
// boolean is false when zero tokens resolve; that is an embedding miss,
// never a zero vector and never an error. Results are cached by exact text.
func (e *Embedder) Embed(text string) ([]float32, bool) {
	if cached, ok := e.cache.Get(text); ok {
		return cached, true
	}

	tokens := core.Tokenize(text)
	sum := make([]float32, e.model.Dim())
	known := 0

	for _, token := range tokens {
		row, ok := e.model.Vector(token)
		if !ok {
			continue
		}
		for i, v := range row {
			sum[i] += v
		}
		known++
	}

	if known == 0 {
		e.logger.Debug("no vocabulary tokens in text", "tokens", len(tokens))
		return nil, false
	}

	// Dividing the sum by known and scaling to unit length collapse into a
	// single normalization.
	vector := NormalizeVector(sum)
	e.cache.Put(text, vector)
	return vector, true
}

// Similarity embeds both texts and returns their cosine similarity, or 0
// when either side has no embedding.
func (e *Embedder) Similarity(a, b string) float32 {
	va, okA := e.Embed(a)
	if !okA {
		return 0
	}
	vb, okB := e.Embed(b)
	if !okB {
		return 0
	}
	return CosineSimilarity(va, vb)
}

// CacheLen returns the number of cached embeddings.
func (e *Embedder) CacheLen() int {
	return e.cache.Len()
}

// Dim returns the model's embedding dimension.
func (e *Embedder) Dim() int {
	return e.model.Dim()
}
