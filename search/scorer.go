package search

import (
	"strings"

	"github.com/poiesic/semfind/core"
)

const (
	// DefaultSimilarityThreshold is the default acceptance threshold for
	// semantic matches. Both the base cosine similarity and the composite
	// relevance score must clear it.
	DefaultSimilarityThreshold = 0.8

	verbatimBonus    = 0.2
	overlapWeight    = 0.3
	lengthPenalty    = 0.1
	orderedBonus     = 0.25
	idealLengthRatio = 5 // chunk length considered ideal at 5x the query length
)

// Scorer combines a base cosine similarity with lexical heuristics to rank
// and filter semantic matches.
type Scorer struct {
	threshold float32
}

// NewScorer creates a scorer with the given acceptance threshold.
// Thresholds <= 0 fall back to DefaultSimilarityThreshold.
func NewScorer(threshold float32) *Scorer {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &Scorer{threshold: threshold}
}

// Threshold returns the acceptance threshold.
func (s *Scorer) Threshold() float32 {
	return s.threshold
}

// Score computes the composite relevance score for a chunk given the base
// cosine similarity:
//
//	similarity
//	+ 0.2  if the chunk contains the query verbatim (case-insensitive)
//	+ 0.3 * (query-word overlap fraction)
//	- 0.1 * normalized distance from the ideal chunk length (5x query length)
//	+ 0.25 if every query term appears in order at increasing positions
func (s *Scorer) Score(chunkText, query string, similarity float32) float32 {
	score := similarity

	lowerChunk := strings.ToLower(chunkText)
	lowerQuery := strings.ToLower(query)

	if strings.Contains(lowerChunk, lowerQuery) {
		score += verbatimBonus
	}

	queryWords := uniqueTerms(core.Tokenize(query))
	if len(queryWords) > 0 {
		chunkWords := core.TokenSet(chunkText)
		overlap := 0
		for _, w := range queryWords {
			if chunkWords[w] {
				overlap++
			}
		}
		score += overlapWeight * float32(overlap) / float32(len(queryWords))
	}

	if ideal := idealLengthRatio * len(query); ideal > 0 {
		distance := len(chunkText) - ideal
		if distance < 0 {
			distance = -distance
		}
		score -= lengthPenalty * float32(distance) / float32(ideal)
	}

	if termsInOrder(lowerChunk, queryWords) {
		score += orderedBonus
	}

	return score
}

// Accept applies the double gate: a chunk is a semantic match only when both
// the base similarity and the composite score exceed the threshold. The gate
// keeps lexically unrelated chunks from sneaking in on heuristic bonuses
// alone, and vice versa.
func (s *Scorer) Accept(chunkText, query string, similarity float32) (float32, bool) {
	if similarity <= s.threshold {
		return 0, false
	}
	score := s.Score(chunkText, query, similarity)
	if score <= s.threshold {
		return 0, false
	}
	return score, true
}

// uniqueTerms drops duplicate tokens, keeping first-seen order. The overlap
// fraction and the in-order bonus are defined over distinct query words, so
// a repeated word must not inflate either side of the fraction.
func uniqueTerms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	unique := make([]string, 0, len(terms))
	for _, term := range terms {
		if seen[term] {
			continue
		}
		seen[term] = true
		unique = append(unique, term)
	}
	return unique
}

// termsInOrder reports whether every term appears in text at strictly
// increasing positions. Text is expected lowercased; an empty term list
// earns no bonus.
func termsInOrder(text string, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	pos := 0
	for _, term := range terms {
		idx := strings.Index(text[pos:], term)
		if idx < 0 {
			return false
		}
		pos += idx + len(term)
	}
	return true
}
