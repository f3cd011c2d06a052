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
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/poiesic/retrofit/core"
	"github.com/poiesic/retrofit/internal/fileio"
)

// Write serializes table to w, one token per line in insertion order.
// Each value is written with four decimals and followed by a space.
func Write(w io.Writer, table *core.Table) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 64)
	for token, vector := range table.All() {
		buf = append(buf[:0], token...)
		buf = append(buf, ' ')
		for _, x := range vector {
			buf = strconv.AppendFloat(buf, x, 'f', 4, 64)
			buf = append(buf, ' ')
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes table to path, replacing any existing file.
func WriteFile(path string, table *core.Table) error {
	slog.Default().Info("writing vectors", "path", path, "count", table.Len())

	w, err := fileio.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Write(w, table); err != nil {
		w.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
