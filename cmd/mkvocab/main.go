// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// mkvocab builds the vocabulary/embeddings JSON resource consumed by
// semfind: it embeds every word of a wordlist against an OpenAI-compatible
// embedding service and writes the payload the engine loads at startup.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/urfave/cli/v2"
)

// payload mirrors the resource shape the engine expects.
type payload struct {
	Vocabulary map[string]int `json:"vocabulary"`
	Embeddings [][]float32    `json:"embeddings"`
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "mkvocab",
		Usage: "Build a semfind embedding resource from a wordlist",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "wordlist",
				Aliases:  []string{"w"},
				Usage:    "Path to a wordlist file, one word per line",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Path to write the JSON resource to",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL",
				Value: "http://localhost:11434/v1",
			},
			&cli.StringFlag{
				Name:     "embedding-model",
				Usage:    "Embedding model name",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Number of words to embed per request",
				Value: 100,
			},
		},
		Action: buildCommand,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func buildCommand(c *cli.Context) error {
	words, err := readWordlist(c.String("wordlist"))
	if err != nil {
		return fmt.Errorf("failed to read wordlist: %w", err)
	}
	if len(words) == 0 {
		return fmt.Errorf("wordlist is empty")
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication.
	token := os.Getenv("OPENAI_API_KEY")
	if token == "" {
		token = "none"
	}
	client, err := openai.New(
		openai.WithBaseURL(c.String("embedding-host")),
		openai.WithToken(token),
		openai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err != nil {
		return fmt.Errorf("failed to create embedding client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	batchSize := c.Int("batch-size")
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	ctx := context.Background()
	p := payload{
		Vocabulary: make(map[string]int, len(words)),
		Embeddings: make([][]float32, 0, len(words)),
	}

	for start := 0; start < len(words); start += batchSize {
		end := start + batchSize
		if end > len(words) {
			end = len(words)
		}
		batch := words[start:end]

		vectors, err := embedder.EmbedDocuments(ctx, batch)
		if err != nil {
			return fmt.Errorf("failed to embed batch at word %d: %w", start, err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedder returned %d vectors for %d words", len(vectors), len(batch))
		}

		for i, word := range batch {
			p.Vocabulary[word] = len(p.Embeddings)
			p.Embeddings = append(p.Embeddings, vectors[i])
		}
		fmt.Fprintf(os.Stderr, "embedded %d/%d words\n", end, len(words))
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode resource: %w", err)
	}
	if err := os.WriteFile(c.String("output"), data, 0644); err != nil {
		return fmt.Errorf("failed to write resource: %w", err)
	}

	dim := 0
	if len(p.Embeddings) > 0 {
		dim = len(p.Embeddings[0])
	}
	fmt.Fprintf(os.Stderr, "wrote %s: %d words x %d dims\n",
		c.String("output"), len(p.Embeddings), dim)
	return nil
}

// readWordlist returns the deduplicated, lowercased words of the file, one
// per line, in first-seen order. Blank lines and comments are skipped.
func readWordlist(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seen := make(map[string]bool)
	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word == "" || strings.HasPrefix(word, "#") || seen[word] {
			continue
		}
		seen[word] = true
		words = append(words, word)
	}
	return words, scanner.Err()
}
