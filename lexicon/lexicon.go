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

// Package lexicon reads relation graphs such as PPDB or WordNet synonym
// lists. Each line names a head token followed by its related tokens; every
// token is passed through core.NormalizeToken.
package lexicon

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/poiesic/retrofit/core"
	"github.com/poiesic/retrofit/internal/fileio"
)

// Read parses a relation graph from r. Lines sharing a head are merged into
// one neighbor set; blank lines are skipped.
func Read(r io.Reader) (*core.Graph, error) {
	graph := core.NewGraph()
	br := bufio.NewReader(r)
	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read line %d: %w", lineNo, err)
		}

		fields := strings.Fields(strings.ToLower(line))
		if len(fields) > 0 {
			for i, field := range fields {
				fields[i] = core.NormalizeToken(field)
			}
			graph.Merge(fields[0], fields[1:]...)
		}

		if errors.Is(err, io.EOF) {
			break
		}
	}
	return graph, nil
}

// ReadFile reads a relation graph from path.
func ReadFile(path string) (*core.Graph, error) {
	r, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	graph, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	slog.Default().Info("lexicon read", "path", path, "heads", graph.Len())
	return graph, nil
}
