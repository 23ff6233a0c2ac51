package embed

import "math"

// NormalizeVector scales v to unit length, returning a new slice. The
// embedder normalizes every vector it caches, so cosine computations over
// cached embeddings always see consistent magnitudes. A zero vector has no
// direction and comes back as zeros.
func NormalizeVector(v []float32) []float32 {
	unit := make([]float32, len(v))

	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return unit
	}

	inv := 1 / float32(math.Sqrt(float64(sum)))
	for i, x := range v {
		unit[i] = x * inv
	}
	return unit
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value in [-1, 1]. A missing vector (nil or empty), a dimension
// mismatch or a zero vector yields 0 rather than a fault: a text that could
// not be embedded is a valid search miss, not an error.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}

// BatchCosineSimilarity computes the similarity of one query vector against
// many row vectors in a single pass, normalizing by per-row norms. It exists
// purely for throughput on large chunk batches and is numerically equivalent
// to calling CosineSimilarity per row within floating-point tolerance.
// Rows that cannot be compared (missing, mismatched, zero) score 0.
func BatchCosineSimilarity(query []float32, rows [][]float32) []float32 {
	scores := make([]float32, len(rows))
	if len(query) == 0 {
		return scores
	}

	var queryNorm float32
	for _, v := range query {
		queryNorm += v * v
	}
	if queryNorm == 0 {
		return scores
	}
	queryMag := float32(math.Sqrt(float64(queryNorm)))

	for i, row := range rows {
		if len(row) != len(query) {
			continue
		}
		var dot, rowNorm float32
		for j := range row {
			dot += query[j] * row[j]
			rowNorm += row[j] * row[j]
		}
		if rowNorm == 0 {
			continue
		}
		scores[i] = dot / (queryMag * float32(math.Sqrt(float64(rowNorm))))
	}
	return scores
}
