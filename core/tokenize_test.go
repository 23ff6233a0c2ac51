package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "lowercases and splits",
			input: "The Quick Brown Fox",
			want:  []string{"the", "quick", "brown", "fox"},
		},
		{
			name:  "strips punctuation",
			input: "hello, world! (really)",
			want:  []string{"hello", "world", "really"},
		},
		{
			name:  "drops short tokens",
			input: "a an it the cat",
			want:  []string{"the", "cat"},
		},
		{
			name:  "keeps digits",
			input: "chapter 12 covers http2 basics",
			want:  []string{"chapter", "covers", "http2", "basics"},
		},
		{
			name:  "collapses whitespace runs",
			input: "one\t\ttwo \n three",
			want:  []string{"one", "two", "three"},
		},
		{
			name:  "non-latin characters removed",
			input: "naïve café — résumé",
			want:  []string{"nave", "caf", "rsum"},
		},
		{
			name:  "empty input",
			input: "",
			want:  []string{},
		},
		{
			name:  "only punctuation",
			input: "!?.,;:",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	input := "Tokenization must be restartable, deterministic and side-effect free."
	first := Tokenize(input)
	second := Tokenize(input)
	assert.Equal(t, first, second)
}

func TestTokenSet(t *testing.T) {
	set := TokenSet("the cat in the hat")
	assert.True(t, set["the"])
	assert.True(t, set["cat"])
	assert.True(t, set["hat"])
	assert.False(t, set["in"]) // below the minimum token length
	assert.False(t, set["dog"])
}
