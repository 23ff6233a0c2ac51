package embed

import (
	"fmt"

	"github.com/poiesic/semfind/core"
)

// Model is the loaded word-embedding resource: a word to row-index
// vocabulary and a dense row matrix. Immutable after construction and safe
// for any number of concurrent readers.
type Model struct {
	vocab  map[string]int
	matrix [][]float32
	dim    int
}

// NewModel builds a model from a vocabulary and an embedding matrix.
// Every matrix row must have the same dimension. Vocabulary entries that
// point outside the matrix are rejected rather than silently dropped, since
// they indicate a corrupt resource.
func NewModel(vocab map[string]int, matrix [][]float32) (*Model, error) {
	if len(matrix) == 0 {
		return nil, fmt.Errorf("%w: empty embedding matrix", core.ErrResourceUnavailable)
	}

	dim := len(matrix[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: zero-dimensional embeddings", core.ErrResourceUnavailable)
	}
	for i, row := range matrix {
		if len(row) != dim {
			return nil, fmt.Errorf("%w: row %d has dimension %d, want %d",
				core.ErrResourceUnavailable, i, len(row), dim)
		}
	}

	for word, index := range vocab {
		if index < 0 || index >= len(matrix) {
			return nil, fmt.Errorf("%w: word %q maps to row %d outside matrix of %d rows",
				core.ErrResourceUnavailable, word, index, len(matrix))
		}
	}

	return &Model{vocab: vocab, matrix: matrix, dim: dim}, nil
}

// Dim returns the embedding dimension D.
func (m *Model) Dim() int {
	return m.dim
}

// Size returns the number of embedding rows N.
func (m *Model) Size() int {
	return len(m.matrix)
}

// VocabSize returns the number of vocabulary entries.
func (m *Model) VocabSize() int {
	return len(m.vocab)
}

// Vector returns the embedding row for a word, or false for words outside
// the vocabulary. The returned slice is shared and must not be mutated.
func (m *Model) Vector(word string) ([]float32, bool) {
	index, ok := m.vocab[word]
	if !ok {
		return nil, false
	}
	return m.matrix[index], true
}

// Vocabulary returns the word to row-index mapping. The returned map is
// shared and must not be mutated; it is exposed for serialization only.
func (m *Model) Vocabulary() map[string]int {
	return m.vocab
}

// Matrix returns the embedding rows. Shared, read-only; exposed for
// serialization only.
func (m *Model) Matrix() [][]float32 {
	return m.matrix
}
