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

package retrofit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/poiesic/retrofit/core"
)

// Retrofitter runs the retrofitting rounds over a vector table and a
// relation graph.
type Retrofitter struct {
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// NewRetrofitter creates a new retrofitter.
// progress: where to write progress output (typically os.Stderr); nil disables it.
func NewRetrofitter(config *Config, progress io.Writer) *Retrofitter {
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Retrofitter{
		config:   config,
		progress: progress,
		logger:   slog.Default(),
	}
}

// Retrofit runs iterations rounds in sorted order without progress output.
func Retrofit(vectors *core.Table, graph *core.Graph, iterations int) (*core.Table, error) {
	config := DefaultConfig()
	config.Iterations = iterations
	return NewRetrofitter(config, nil).Run(context.Background(), vectors, graph)
}

// step is the precomputed update of one active token.
type step struct {
	token     string
	data      []float64
	neighbors []string
}

// Run returns a new table with the retrofitted vectors. Neither vectors nor
// graph is modified. Tokens absent from the graph keep their vectors.
// The context is checked between rounds.
func (r *Retrofitter) Run(ctx context.Context, vectors *core.Table, graph *core.Graph) (*core.Table, error) {
	if err := r.config.Validate(); err != nil {
		return nil, err
	}
	if vectors == nil || vectors.Len() == 0 {
		return nil, fmt.Errorf("%w: vector table is empty", core.ErrInvalidArgument)
	}
	if graph == nil {
		graph = core.NewGraph()
	}

	current := vectors.Clone()
	iterations := r.config.Iterations
	if iterations == 0 {
		return current, nil
	}

	steps, active := r.plan(vectors, graph)
	r.logger.Debug("retrofitting",
		"tokens", vectors.Len(),
		"active", active,
		"updated", len(steps),
		"iterations", iterations,
		"order", r.config.Order.String())

	tracker := NewProgressTracker(r.progress, iterations)
	tracker.Start()

	acc := make([]float64, vectors.Dim())
	for round := 1; round <= iterations; round++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("retrofitting stopped before round %d: %w", round, err)
		}

		for _, s := range steps {
			if err := update(current, s, acc); err != nil {
				return nil, err
			}
		}

		tracker.Increment(1)
		r.logger.Debug("round complete", "round", round, "of", iterations)
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Retrofitting complete. Updated %d of %d vectors in %v\n",
		len(steps), vectors.Len(), elapsed.Round(time.Millisecond))

	return current, nil
}

// plan computes the active tokens in visiting order together with their
// neighbors restricted to the original vocabulary. Tokens left with no
// neighbors are never updated and are omitted; active counts them anyway.
func (r *Retrofitter) plan(vectors *core.Table, graph *core.Graph) (steps []step, active int) {
	tokens := vectors.Tokens()
	if r.config.Order == OrderSorted {
		slices.Sort(tokens)
	}

	for _, token := range tokens {
		if !graph.Has(token) {
			continue
		}
		active++

		var neighbors []string
		for _, n := range graph.Neighbors(token) {
			if vectors.Has(n) {
				neighbors = append(neighbors, n)
			}
		}
		if len(neighbors) == 0 {
			continue
		}

		data, _ := vectors.Get(token)
		steps = append(steps, step{token: token, data: data, neighbors: neighbors})
	}
	return steps, active
}

// update writes (k*data + sum(current[n])) / 2k into current for one token.
// acc is scratch space of the table dimension.
func update(current *core.Table, s step, acc []float64) error {
	if len(s.data) != len(acc) {
		return fmt.Errorf("%w: token %q has %d components, expected %d",
			core.ErrDimensionMismatch, s.token, len(s.data), len(acc))
	}

	k := float64(len(s.neighbors))
	for i, x := range s.data {
		acc[i] = k * x
	}
	for _, n := range s.neighbors {
		v, _ := current.Get(n)
		if len(v) != len(acc) {
			return fmt.Errorf("%w: neighbor %q of %q has %d components, expected %d",
				core.ErrDimensionMismatch, n, s.token, len(v), len(acc))
		}
		for i, x := range v {
			acc[i] += x
		}
	}
	for i := range acc {
		acc[i] /= 2 * k
	}

	return current.Set(s.token, acc)
}
