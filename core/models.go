package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Anchor is an opaque, non-owned reference into the host document.
// The engine never inspects an anchor; it only hands anchors back to the
// highlighter so presentation state can be applied without the engine
// owning document structure.
type Anchor any

// TextUnit is a single extractable piece of the document as supplied by the
// document extractor: its plain text plus the anchor that locates it.
type TextUnit struct {
	Text   string
	Anchor Anchor
}

// Chunk is a bounded-size, anchor-preserving segment of the document.
// Chunks are the atomic unit of matching. They are rebuilt whenever a new
// search target is selected and discarded afterwards; the engine never
// mutates the units they reference.
type Chunk struct {
	Id    ID
	Text  string     // unit texts joined with single spaces
	Units []TextUnit // consumed units, in document order, never empty
	Index int        // ordinal position of the chunk in the document
}

// Anchors returns the chunk's anchors in document order.
func (c *Chunk) Anchors() []Anchor {
	anchors := make([]Anchor, len(c.Units))
	for i, u := range c.Units {
		anchors[i] = u.Anchor
	}
	return anchors
}

// Mode selects the matching strategy for a search.
type Mode int

const (
	// ModeSemantic matches via embedding cosine similarity plus lexical
	// relevance heuristics.
	ModeSemantic Mode = iota + 1
	// ModeExact matches via case-insensitive substring containment.
	ModeExact
	// ModeFuzzy matches via approximate string alignment.
	ModeFuzzy
)

// String returns the mode name as used by the CLI and logs.
func (m Mode) String() string {
	switch m {
	case ModeSemantic:
		return "semantic"
	case ModeExact:
		return "exact"
	case ModeFuzzy:
		return "fuzzy"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name. Returns ErrUnknownMode for anything that is
// not "semantic", "exact" or "fuzzy".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "semantic":
		return ModeSemantic, nil
	case "exact":
		return ModeExact, nil
	case "fuzzy":
		return ModeFuzzy, nil
	default:
		return 0, ErrUnknownMode
	}
}

// Match is a chunk accepted by a matcher, together with the mode-dependent
// subset of the chunk's anchors actually responsible for the hit.
type Match struct {
	Chunk   Chunk
	Score   float32
	Anchors []Anchor
}

// SessionState is the lifecycle state of a search session.
type SessionState int

const (
	// StateIdle is the state before a query has been admitted.
	StateIdle SessionState = iota
	// StateRunning is the state while chunks are being processed.
	StateRunning
	// StateCompleted is the terminal state of a normally finished search.
	StateCompleted
	// StateCancelled is the terminal state of a cooperatively cancelled search.
	StateCancelled
	// StateFailed is the terminal state after an internal fault.
	StateFailed
)

// String returns the state name for logs and progress events.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
