package chunk

import (
	"strings"

	"github.com/poiesic/semfind/core"
)

const (
	// DefaultMaxWords is the default word-count threshold at which a chunk
	// is sealed. Smaller chunks localize highlighting better but leave the
	// embedding mean less content to work with; the useful band is roughly
	// 20 to 50 words.
	DefaultMaxWords = 30
)

// Chunker segments a document's ordered text units into bounded-size,
// anchor-preserving chunks. Chunk boundaries never split a text unit.
type Chunker struct {
	maxWords int
}

// Option configures a Chunker.
type Option func(*Chunker) error

// WithMaxWords sets the word-count threshold for sealing a chunk.
// Values < 1 fall back to DefaultMaxWords.
func WithMaxWords(maxWords int) Option {
	return func(c *Chunker) error {
		if maxWords < 1 {
			maxWords = DefaultMaxWords
		}
		c.maxWords = maxWords
		return nil
	}
}

// NewChunker creates a chunker.
func NewChunker(opts ...Option) (*Chunker, error) {
	c := &Chunker{maxWords: DefaultMaxWords}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Chunk accumulates consecutive text units into a running buffer and seals
// the buffer into a chunk whenever its cumulative word count reaches the
// threshold. A non-empty remainder is sealed as a final, possibly short,
// chunk. Units with no words still ride along so their anchors are never
// dropped: concatenating all chunk units in order reproduces the input
// sequence exactly.
func (c *Chunker) Chunk(units []core.TextUnit) []core.Chunk {
	chunks := make([]core.Chunk, 0, len(units)/2+1)

	var buffer []core.TextUnit
	words := 0

	seal := func() {
		if len(buffer) == 0 {
			return
		}
		texts := make([]string, len(buffer))
		for i, u := range buffer {
			texts[i] = u.Text
		}
		text := strings.Join(texts, " ")
		chunks = append(chunks, core.Chunk{
			Id:    core.IDFromContent(text),
			Text:  text,
			Units: buffer,
			Index: len(chunks),
		})
		buffer = nil
		words = 0
	}

	for _, unit := range units {
		buffer = append(buffer, unit)
		words += len(strings.Fields(unit.Text))
		if words >= c.maxWords {
			seal()
		}
	}
	seal()

	return chunks
}

// MaxWords returns the configured seal threshold.
func (c *Chunker) MaxWords() int {
	return c.maxWords
}
