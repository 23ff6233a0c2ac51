package resource

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/poiesic/semfind/core"
	"github.com/poiesic/semfind/embed"
)

// Config constrains the dimensions of the loaded resource. Zero values
// accept whatever the payload carries; non-zero values must match the
// payload exactly or loading fails.
type Config struct {
	// Dim is the expected embedding dimension D.
	Dim int

	// Rows is the expected number of embedding rows N.
	Rows int
}

// payload is the wire shape of the embedding resource: a word to row-index
// vocabulary and the dense row matrix.
type payload struct {
	Vocabulary map[string]int `json:"vocabulary"`
	Embeddings [][]float32    `json:"embeddings"`
}

// Parse decodes a JSON resource payload and validates it against cfg.
// All failures wrap core.ErrResourceUnavailable: a bad resource is fatal to
// the engine instance until it is reinitialized.
func Parse(data []byte, cfg *Config) (*embed.Model, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: decoding payload: %w", core.ErrResourceUnavailable, err)
	}

	model, err := embed.NewModel(p.Vocabulary, p.Embeddings)
	if err != nil {
		return nil, err
	}

	if cfg != nil {
		if cfg.Dim != 0 && model.Dim() != cfg.Dim {
			return nil, fmt.Errorf("%w: payload dimension %d, configured %d",
				core.ErrResourceUnavailable, model.Dim(), cfg.Dim)
		}
		if cfg.Rows != 0 && model.Size() != cfg.Rows {
			return nil, fmt.Errorf("%w: payload has %d rows, configured %d",
				core.ErrResourceUnavailable, model.Size(), cfg.Rows)
		}
	}

	return model, nil
}

// Load reads and parses a resource file.
func Load(path string, cfg *Config) (*embed.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", core.ErrResourceUnavailable, path, err)
	}
	return Parse(data, cfg)
}

// LoadCached reads a resource file, consulting store for a previously
// decoded model keyed by the payload's content digest. On a miss the JSON is
// parsed and the decoded model stored for the next startup. A nil store
// degrades to a plain Load.
func LoadCached(path string, cfg *Config, store *Store) (*embed.Model, error) {
	if store == nil {
		return Load(path, cfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", core.ErrResourceUnavailable, path, err)
	}

	digest := Digest(data)
	if model, ok, err := store.LoadModel(digest); err == nil && ok {
		if verifyErr := verifyDims(model, cfg); verifyErr == nil {
			return model, nil
		}
		// Cached model no longer matches the configured dimensions; fall
		// through and re-parse the payload.
	}

	model, err := Parse(data, cfg)
	if err != nil {
		return nil, err
	}

	if err := store.SaveModel(digest, model); err != nil {
		// Cache write failure is not fatal; the decoded model is usable.
		store.logger.Warn("failed to cache decoded model", "err", err)
	}

	return model, nil
}

func verifyDims(model *embed.Model, cfg *Config) error {
	if cfg == nil {
		return nil
	}
	if cfg.Dim != 0 && model.Dim() != cfg.Dim {
		return fmt.Errorf("%w: cached dimension %d, configured %d",
			core.ErrResourceUnavailable, model.Dim(), cfg.Dim)
	}
	if cfg.Rows != 0 && model.Size() != cfg.Rows {
		return fmt.Errorf("%w: cached rows %d, configured %d",
			core.ErrResourceUnavailable, model.Size(), cfg.Rows)
	}
	return nil
}
