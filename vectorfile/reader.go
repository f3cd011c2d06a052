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

package vectorfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/poiesic/retrofit/core"
	"github.com/poiesic/retrofit/internal/fileio"
)

// ReadOption configures Read.
type ReadOption func(*readOptions)

type readOptions struct {
	normalize bool
}

// WithoutNormalization keeps the values exactly as written.
func WithoutNormalization() ReadOption {
	return func(o *readOptions) {
		o.normalize = false
	}
}

// Read parses a vector table from r.
//
// Blank lines are skipped. A record without values or with an unparsable
// value fails with core.ErrMalformedRecord; a record whose length differs
// from the first one fails with core.ErrDimensionMismatch. A repeated token
// replaces the earlier vector.
func Read(r io.Reader, opts ...ReadOption) (*core.Table, error) {
	options := &readOptions{normalize: true}
	for _, opt := range opts {
		opt(options)
	}

	table := core.NewTable(0)
	br := bufio.NewReader(r)
	var values []float64
	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read line %d: %w", lineNo, err)
		}

		fields := strings.Fields(strings.ToLower(line))
		if len(fields) > 0 {
			if len(fields) == 1 {
				return nil, fmt.Errorf("%w: line %d: token %q has no values",
					core.ErrMalformedRecord, lineNo, fields[0])
			}

			values = values[:0]
			for _, field := range fields[1:] {
				x, perr := strconv.ParseFloat(field, 64)
				if perr != nil {
					return nil, fmt.Errorf("%w: line %d: %w", core.ErrMalformedRecord, lineNo, perr)
				}
				values = append(values, x)
			}
			if options.normalize {
				core.NormalizeInPlace(values)
			}
			if serr := table.Set(fields[0], values); serr != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, serr)
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}
	}

	return table, nil
}

// ReadFile reads a vector table from path.
func ReadFile(path string, opts ...ReadOption) (*core.Table, error) {
	r, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	table, err := Read(r, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	slog.Default().Info("vectors read", "path", path, "count", table.Len(), "dimension", table.Dim())
	return table, nil
}
