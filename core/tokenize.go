package core

import "strings"

// Tokenize normalizes raw text into word tokens: lowercase, every character
// outside [a-z0-9] and whitespace removed, split on whitespace runs, tokens
// of length <= 2 dropped. Deterministic and side-effect free.
func Tokenize(text string) []string {
	normalized := normalize(text)
	fields := strings.Fields(normalized)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// TokenSet returns the tokens of text as a set.
func TokenSet(text string) map[string]bool {
	tokens := Tokenize(text)
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

// normalize lowercases text and strips every character that is neither
// [a-z0-9] nor whitespace. Whitespace is preserved so field splitting still
// sees the original word boundaries.
func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r', r == '\f', r == '\v':
			b.WriteRune(r)
		}
	}
	return b.String()
}
