package search

import (
	"sort"
	"strings"

	"github.com/poiesic/semfind/core"
	"github.com/xrash/smetrics"
)

const (
	// DefaultFuzzyThreshold is the minimum Jaro-Winkler score a chunk's
	// best window must reach to be accepted.
	DefaultFuzzyThreshold = 0.85

	jaroWinklerBoost      = 0.7
	jaroWinklerPrefixSize = 4
)

// FuzzyMatcher accepts chunks whose best word-window aligns approximately
// with the query under Jaro-Winkler similarity. Unlike the other modes,
// results are ranked by match quality rather than document order.
type FuzzyMatcher struct {
	threshold float64
}

// FuzzyOption configures a FuzzyMatcher.
type FuzzyOption func(*FuzzyMatcher) error

// WithFuzzyThreshold sets the acceptance threshold.
// Values outside (0, 1] fall back to DefaultFuzzyThreshold.
func WithFuzzyThreshold(threshold float64) FuzzyOption {
	return func(m *FuzzyMatcher) error {
		if threshold <= 0 || threshold > 1 {
			threshold = DefaultFuzzyThreshold
		}
		m.threshold = threshold
		return nil
	}
}

// NewFuzzyMatcher creates a fuzzy matcher.
func NewFuzzyMatcher(opts ...FuzzyOption) (*FuzzyMatcher, error) {
	m := &FuzzyMatcher{threshold: DefaultFuzzyThreshold}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Mode returns core.ModeFuzzy.
func (m *FuzzyMatcher) Mode() core.Mode {
	return core.ModeFuzzy
}

// OrderPolicy returns ScoreOrder.
func (m *FuzzyMatcher) OrderPolicy() OrderPolicy {
	return ScoreOrder
}

// Match slides a window of the query's word count across each chunk and
// scores the query against every window with Jaro-Winkler. A chunk is
// accepted when its best window clears the threshold; matches are sorted by
// score descending, ties broken by document position.
func (m *FuzzyMatcher) Match(chunks []core.Chunk, query string) []core.Match {
	needle := strings.ToLower(query)
	queryWords := len(strings.Fields(needle))
	if queryWords == 0 {
		return nil
	}

	matches := make([]core.Match, 0)
	for _, chunk := range chunks {
		best := bestWindowScore(strings.ToLower(chunk.Text), needle, queryWords)
		if best < m.threshold {
			continue
		}
		matches = append(matches, core.Match{
			Chunk:   chunk,
			Score:   float32(best),
			Anchors: chunk.Anchors(),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Chunk.Index < matches[j].Chunk.Index
	})
	return matches
}

// bestWindowScore returns the best Jaro-Winkler score of needle against
// every consecutive run of windowWords words in text. Both inputs are
// expected lowercased.
func bestWindowScore(text, needle string, windowWords int) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}
	if windowWords > len(words) {
		windowWords = len(words)
	}

	best := 0.0
	for i := 0; i+windowWords <= len(words); i++ {
		window := strings.Join(words[i:i+windowWords], " ")
		score := smetrics.JaroWinkler(needle, window, jaroWinklerBoost, jaroWinklerPrefixSize)
		if score > best {
			best = score
		}
	}
	return best
}
