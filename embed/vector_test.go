package embed

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVector(t *testing.T) {
	t.Run("unit length", func(t *testing.T) {
		v := NormalizeVector([]float32{3, 4})
		assert.InDelta(t, 0.6, v[0], 1e-6)
		assert.InDelta(t, 0.8, v[1], 1e-6)
	})

	t.Run("zero vector stays zero", func(t *testing.T) {
		v := NormalizeVector([]float32{0, 0, 0})
		assert.Equal(t, []float32{0, 0, 0}, v)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, NormalizeVector(nil))
	})
}

func TestCosineSimilarity(t *testing.T) {
	v := []float32{0.2, -0.7, 1.3, 0.05}

	t.Run("self similarity is one", func(t *testing.T) {
		assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-5)
	})

	t.Run("negated vector is minus one", func(t *testing.T) {
		neg := make([]float32, len(v))
		for i := range v {
			neg[i] = -v[i]
		}
		assert.InDelta(t, -1.0, CosineSimilarity(v, neg), 1e-5)
	})

	t.Run("orthogonal vectors are zero", func(t *testing.T) {
		assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	})

	t.Run("missing input is zero", func(t *testing.T) {
		assert.Zero(t, CosineSimilarity(nil, v))
		assert.Zero(t, CosineSimilarity(v, nil))
		assert.Zero(t, CosineSimilarity(nil, nil))
	})

	t.Run("dimension mismatch is zero", func(t *testing.T) {
		assert.Zero(t, CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	})

	t.Run("zero vector is zero", func(t *testing.T) {
		assert.Zero(t, CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	})
}

func TestBatchCosineSimilarity(t *testing.T) {
	t.Run("matches pairwise loop", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		dim := 50
		query := randomVector(rng, dim)
		rows := make([][]float32, 32)
		for i := range rows {
			rows[i] = randomVector(rng, dim)
		}

		batch := BatchCosineSimilarity(query, rows)
		require.Len(t, batch, len(rows))
		for i, row := range rows {
			assert.InDelta(t, CosineSimilarity(query, row), batch[i], 1e-5)
		}
	})

	t.Run("missing rows score zero", func(t *testing.T) {
		query := []float32{1, 0}
		rows := [][]float32{nil, {0, 0}, {1, 2, 3}, {1, 0}}
		scores := BatchCosineSimilarity(query, rows)
		assert.Zero(t, scores[0])
		assert.Zero(t, scores[1])
		assert.Zero(t, scores[2])
		assert.InDelta(t, 1.0, scores[3], 1e-6)
	})

	t.Run("missing query scores all zero", func(t *testing.T) {
		scores := BatchCosineSimilarity(nil, [][]float32{{1, 2}, {3, 4}})
		assert.Equal(t, []float32{0, 0}, scores)
	})
}

func randomVector(rng *rand.Rand, dim int) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = rng.Float32()*2 - 1
	}
	return v
}
