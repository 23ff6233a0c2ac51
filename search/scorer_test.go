package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewScorer(t *testing.T) {
	assert.InDelta(t, DefaultSimilarityThreshold, NewScorer(0).Threshold(), 1e-6)
	assert.InDelta(t, 0.6, NewScorer(0.6).Threshold(), 1e-6)
}

func TestScoreVerbatimBonus(t *testing.T) {
	s := NewScorer(0.8)
	query := "token bucket"

	with := s.Score("the Token Bucket refills over time", query, 0.5)
	without := s.Score("the bucket of tokens refills over time", query, 0.5)

	// Same overlap and ordered-terms contribution either way; the verbatim
	// match is worth an extra 0.2 minus the small length difference.
	assert.Greater(t, with, without)
}

func TestScoreOverlapFraction(t *testing.T) {
	s := NewScorer(0.8)
	query := "alpha beta gamma delta"

	full := s.Score("alpha beta gamma delta", query, 0)
	half := s.Score("alpha beta omega sigma", query, 0)
	none := s.Score("omega sigma kappa zeta", query, 0)

	assert.Greater(t, full, half)
	assert.Greater(t, half, none)
}

func TestScoreDuplicateQueryWords(t *testing.T) {
	s := NewScorer(0.8)

	// Overlap is a fraction of distinct query words: "hello hello world"
	// against a chunk holding only "hello" is 1/2, not 2/3.
	got := s.Score("hello there friends", "hello hello world", 0)
	want := float32(0.3*0.5 - 0.1*66.0/85.0)
	assert.InDelta(t, want, got, 1e-4)

	// A repeated query word needs only one occurrence in the chunk to earn
	// the in-order bonus: the term list is deduplicated before the position
	// walk.
	got = s.Score("say hello out there", "hello hello", 0)
	want = float32(0.3 + 0.25 - 0.1*36.0/55.0)
	assert.InDelta(t, want, got, 1e-4)
}

func TestScoreLengthPenalty(t *testing.T) {
	s := NewScorer(0.8)
	query := "hello" // ideal chunk length is 25 characters

	ideal := s.Score(strings.Repeat("x", 25), query, 0.5)
	tooLong := s.Score(strings.Repeat("x", 250), query, 0.5)

	assert.Greater(t, ideal, tooLong)
}

func TestScoreOrderedTermsBonus(t *testing.T) {
	s := NewScorer(0.8)
	query := "quick fox"

	ordered := s.Score("the quick brown fox jumps", query, 0)
	reversed := s.Score("the fox met someone quick", query, 0)

	// Both have full overlap; only the first earns the in-order bonus.
	assert.InDelta(t, orderedBonus, ordered-reversed, 0.05)
}

func TestTermsInOrder(t *testing.T) {
	assert.True(t, termsInOrder("the quick brown fox", []string{"quick", "fox"}))
	assert.False(t, termsInOrder("fox quick", []string{"quick", "fox"}))
	assert.False(t, termsInOrder("quick", []string{"quick", "fox"}))
	assert.False(t, termsInOrder("anything", nil))

	// Positions must be strictly increasing; one occurrence cannot satisfy
	// two terms.
	assert.False(t, termsInOrder("overlap", []string{"overlap", "overlap"}))
	assert.True(t, termsInOrder("overlap overlap", []string{"overlap", "overlap"}))
}

func TestAcceptDoubleGate(t *testing.T) {
	s := NewScorer(0.8)

	t.Run("similarity gate", func(t *testing.T) {
		// Heavy lexical bonuses cannot rescue a chunk below the base
		// similarity threshold.
		_, ok := s.Accept("token bucket token bucket", "token bucket", 0.5)
		assert.False(t, ok)
	})

	t.Run("composite gate", func(t *testing.T) {
		// High similarity alone is insufficient when the heuristics drag
		// the composite score down: a huge chunk with no lexical relation
		// to a short query takes a large length penalty.
		long := strings.Repeat("unrelated wording here ", 40)
		_, ok := s.Accept(long, "cat", 0.82)
		assert.False(t, ok)
	})

	t.Run("both gates pass", func(t *testing.T) {
		score, ok := s.Accept("the cat sat on the mat", "cat", 0.85)
		assert.True(t, ok)
		assert.Greater(t, score, float32(0.8))
	})
}
