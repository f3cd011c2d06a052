// Copyright 2025 Poiesic Systems
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
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/retrofit/core"
	"github.com/poiesic/retrofit/lexicon"
	"github.com/poiesic/retrofit/retrofit"
	"github.com/poiesic/retrofit/storage/badger"
	"github.com/poiesic/retrofit/vectorfile"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "retrofit",
		Usage:     "Retrofit word vectors to a semantic lexicon",
		UsageText: "retrofit -i VECTORS -l LEXICON -o OUTPUT [-n ITERATIONS]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Set logging level (debug, info, warn, error)",
				Value: "info",
			},
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Input word vectors (text file, optionally .gz or .zst, or a vector cache directory)",
			},
			&cli.StringFlag{
				Name:    "lexicon",
				Aliases: []string{"l"},
				Usage:   "Lexicon file name",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output word vectors",
			},
			&cli.IntFlag{
				Name:    "iterations",
				Aliases: []string{"n"},
				Usage:   "Number of iterations",
				Value:   retrofit.DefaultIterations,
			},
			&cli.StringFlag{
				Name:  "order",
				Usage: "Update order within an iteration (sorted, insertion)",
				Value: retrofit.OrderSorted.String(),
			},
		},
		Before: setupLogger,
		Action: runCommand,
		Commands: []*cli.Command{
			{
				Name:   "import",
				Usage:  "Load a vector file into a vector cache directory",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Input word vectors (text file, optionally .gz or .zst)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the BadgerDB vector cache directory",
						Required: true,
					},
				},
			},
		},
	}
}

// requireFlags checks the path flags of the root action. They are not marked
// Required on the app because that would also gate the import subcommand.
func requireFlags(c *cli.Context, names ...string) error {
	var missing []string
	for _, name := range names {
		if c.String(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: required flags not set: %s",
			core.ErrInvalidArgument, strings.Join(missing, ", "))
	}
	return nil
}

func runCommand(c *cli.Context) error {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	// Validate flags
	if err := requireFlags(c, "input", "lexicon", "output"); err != nil {
		return err
	}
	order, err := retrofit.ParseOrder(c.String("order"))
	if err != nil {
		return err
	}
	config := &retrofit.Config{
		Iterations: c.Int("iterations"),
		Order:      order,
	}
	if err := config.Validate(); err != nil {
		return err
	}

	vectors, err := loadVectors(ctx, c.String("input"))
	if err != nil {
		return err
	}

	graph, err := lexicon.ReadFile(c.String("lexicon"))
	if err != nil {
		return fmt.Errorf("failed to read lexicon: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Vectors: %s (%d x %d)\n", c.String("input"), vectors.Len(), vectors.Dim())
	fmt.Fprintf(os.Stderr, "Lexicon: %s (%d entries)\n", c.String("lexicon"), graph.Len())
	fmt.Fprintf(os.Stderr, "Iterations: %d, order: %s\n", config.Iterations, config.Order)
	fmt.Fprintln(os.Stderr)

	retrofitter := retrofit.NewRetrofitter(config, os.Stderr)
	result, err := retrofitter.Run(ctx, vectors, graph)
	if err != nil {
		return fmt.Errorf("retrofitting failed: %w", err)
	}

	if err := vectorfile.WriteFile(c.String("output"), result); err != nil {
		return err
	}

	slog.Info("retrofitted vectors written",
		"path", c.String("output"),
		"fingerprint", fmt.Sprintf("%016x", result.Fingerprint()))
	return nil
}

func importCommand(c *cli.Context) error {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	vectors, err := vectorfile.ReadFile(c.String("input"))
	if err != nil {
		return err
	}

	dbPath := c.String("db")
	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return fmt.Errorf("failed to open vector cache: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewTableRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	if err := repo.SaveTable(ctx, vectors); err != nil {
		return fmt.Errorf("failed to import vectors: %w", err)
	}

	slog.Info("vectors imported",
		"db", dbPath,
		"count", vectors.Len(),
		"fingerprint", fmt.Sprintf("%016x", vectors.Fingerprint()))
	return nil
}

// loadVectors reads a vector text file, or the table stored in a vector
// cache when path is a directory.
func loadVectors(ctx context.Context, path string) (*core.Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrMissingFile, path, err)
	}
	if !info.IsDir() {
		return vectorfile.ReadFile(path)
	}

	// Refuse to create a fresh database inside an arbitrary directory.
	if _, err := os.Stat(filepath.Join(path, "MANIFEST")); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s is not a vector cache", core.ErrMissingFile, path)
		}
		return nil, err
	}

	backend, err := badger.OpenBackend(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector cache: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewTableRepository(backend)
	if err != nil {
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	vectors, err := repo.LoadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vector cache %s: %w", path, err)
	}
	return vectors, nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
