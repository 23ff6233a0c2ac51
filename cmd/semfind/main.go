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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/semfind/chunk"
	"github.com/poiesic/semfind/core"
	"github.com/poiesic/semfind/embed"
	"github.com/poiesic/semfind/engine"
	"github.com/poiesic/semfind/resource"
	"github.com/poiesic/semfind/search"
	"github.com/poiesic/semfind/session"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "semfind",
		Usage: "In-place semantic, exact and fuzzy search over local documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search a document for passages related to a query",
				ArgsUsage: "QUERY FILE",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "resource",
						Aliases:  []string{"r"},
						Usage:    "Path to the vocabulary/embeddings JSON resource",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to a BadgerDB directory caching the decoded resource",
					},
					&cli.StringFlag{
						Name:    "mode",
						Aliases: []string{"m"},
						Usage:   "Search mode (semantic, exact, fuzzy)",
						Value:   "semantic",
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Similarity threshold for semantic mode",
						Value: float64(search.DefaultSimilarityThreshold),
					},
					&cli.Float64Flag{
						Name:  "fuzzy-threshold",
						Usage: "Alignment threshold for fuzzy mode",
						Value: search.DefaultFuzzyThreshold,
					},
					&cli.IntFlag{
						Name:  "chunk-words",
						Usage: "Word-count threshold at which chunks are sealed",
						Value: chunk.DefaultMaxWords,
					},
					&cli.BoolFlag{
						Name:  "worker",
						Usage: "Run the engine on a dedicated worker goroutine",
					},
				},
			},
			{
				Name:   "inspect",
				Usage:  "Print dimensions of an embedding resource",
				Action: inspectCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "resource",
						Aliases:  []string{"r"},
						Usage:    "Path to the vocabulary/embeddings JSON resource",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func searchCommand(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("expected QUERY and FILE arguments")
	}
	query := c.Args().Get(0)
	docPath := c.Args().Get(1)

	mode, err := core.ParseMode(c.String("mode"))
	if err != nil {
		return fmt.Errorf("invalid mode %q: %w", c.String("mode"), err)
	}

	data, err := os.ReadFile(docPath)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	units := splitUnits(string(data))
	if len(units) == 0 {
		return fmt.Errorf("document %s has no text", docPath)
	}

	var store *resource.Store
	if dbPath := c.String("db"); dbPath != "" {
		store, err = resource.OpenStore(dbPath, false)
		if err != nil {
			return fmt.Errorf("failed to open resource cache: %w", err)
		}
		defer store.Close()
	}

	eng, err := buildEngine(c, store)
	if err != nil {
		return err
	}
	defer eng.Close()

	chunker, err := chunk.NewChunker(chunk.WithMaxWords(c.Int("chunk-words")))
	if err != nil {
		return err
	}

	manager, err := session.NewManager(eng,
		session.WithChunker(chunker),
		session.WithMonitor(&consoleMonitor{out: os.Stderr}),
	)
	if err != nil {
		return err
	}
	manager.SetDocument(units)

	if err := manager.Start(context.Background(), query, mode); err != nil {
		return err
	}

	matches := manager.Matches()
	active := manager.ActiveIndex()
	for i, match := range matches {
		marker := " "
		if i == active {
			marker = ">"
		}
		fmt.Printf("%s %3d: [%0.3f] (chunk %d) %s\n",
			marker, i, match.Score, match.Chunk.Index, snippet(match.Chunk.Text, 80))
	}
	return nil
}

// buildEngine picks the deployment: in-process by default, worker-offloaded
// with --worker. Both honor the resource cache when --db is set.
func buildEngine(c *cli.Context, store *resource.Store) (engine.Engine, error) {
	semanticOpts := []search.SemanticOption{
		search.WithThreshold(float32(c.Float64("threshold"))),
	}
	fuzzyOpts := []search.FuzzyOption{
		search.WithFuzzyThreshold(c.Float64("fuzzy-threshold")),
	}
	engineOpts := []engine.Option{
		engine.WithSemanticOptions(semanticOpts...),
		engine.WithFuzzyOptions(fuzzyOpts...),
	}

	if c.Bool("worker") {
		workerOpts := []engine.WorkerOption{
			engine.WithEngineOptions(engineOpts...),
		}
		if store != nil {
			workerOpts = append(workerOpts, engine.WithResourceStore(store))
		}
		return engine.NewWorkerEngine(c.String("resource"), nil, workerOpts...)
	}

	model, err := resource.LoadCached(c.String("resource"), nil, store)
	if err != nil {
		return nil, err
	}
	embedder, err := embed.NewEmbedder(model)
	if err != nil {
		return nil, err
	}
	return engine.NewLocalEngine(embedder, engineOpts...)
}

func inspectCommand(c *cli.Context) error {
	model, err := resource.Load(c.String("resource"), nil)
	if err != nil {
		return err
	}
	fmt.Printf("vocabulary: %d words\n", model.VocabSize())
	fmt.Printf("embeddings: %d rows x %d dims\n", model.Size(), model.Dim())
	return nil
}

// splitUnits turns a plain-text document into paragraph text units. The
// paragraph ordinal stands in for a host anchor.
func splitUnits(text string) []core.TextUnit {
	var units []core.TextUnit
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(strings.ReplaceAll(para, "\n", " "))
		if para == "" {
			continue
		}
		units = append(units, core.TextUnit{Text: para, Anchor: len(units)})
	}
	return units
}

func snippet(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}

// consoleMonitor relays session lifecycle events to stderr.
type consoleMonitor struct {
	out *os.File
}

func (m *consoleMonitor) Start(query string) {
	fmt.Fprintf(m.out, "searching for %q...\n", query)
}

func (m *consoleMonitor) Progress(countSoFar int) {
	fmt.Fprintf(m.out, "  %d matches so far\n", countSoFar)
}

func (m *consoleMonitor) Completed(activeIndex, total int) {
	fmt.Fprintf(m.out, "done: %d matches (active %d)\n", total, activeIndex)
}

func (m *consoleMonitor) Cancelled(discarded int) {
	fmt.Fprintf(m.out, "cancelled: %d partial matches discarded\n", discarded)
}

func (m *consoleMonitor) Failed(err error) {
	fmt.Fprintf(m.out, "failed: %v\n", err)
}

func (m *consoleMonitor) Moved(activeIndex, total int) {
	fmt.Fprintf(m.out, "active match %d of %d\n", activeIndex+1, total)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
