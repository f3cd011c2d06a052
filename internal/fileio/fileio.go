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

// Package fileio opens and creates data files, compressing or decompressing
// transparently when the path ends in .gz (gzip) or .zst (zstd).
package fileio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/poiesic/retrofit/core"
)

// Compression identifies the stream codec selected by a path suffix.
type Compression int

const (
	// None reads and writes the file as is.
	None Compression = iota
	// Gzip is selected by the ".gz" suffix.
	Gzip
	// Zstd is selected by the ".zst" suffix.
	Zstd
)

// CompressionFor returns the codec implied by the path suffix.
func CompressionFor(path string) Compression {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return Gzip
	case strings.HasSuffix(path, ".zst"):
		return Zstd
	default:
		return None
	}
}

// Open opens path for reading. Any failure to open the file is reported as
// core.ErrMissingFile.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrMissingFile, path, err)
	}

	switch CompressionFor(path) {
	case Gzip:
		zr, err := gzip.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to open gzip stream %s: %w", path, err)
		}
		return &reader{Reader: zr, closers: []func() error{zr.Close, f.Close}}, nil
	case Zstd:
		zr, err := zstd.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to open zstd stream %s: %w", path, err)
		}
		release := func() error {
			zr.Close()
			return nil
		}
		return &reader{Reader: zr, closers: []func() error{release, f.Close}}, nil
	default:
		return f, nil
	}
}

// Create creates or truncates path for writing. Close must be called to
// flush the compressor and the file.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	switch CompressionFor(path) {
	case Gzip:
		zw := gzip.NewWriter(f)
		return &writer{Writer: zw, closers: []func() error{zw.Close, f.Close}}, nil
	case Zstd:
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create zstd stream %s: %w", path, err)
		}
		return &writer{Writer: zw, closers: []func() error{zw.Close, f.Close}}, nil
	default:
		return f, nil
	}
}

type reader struct {
	io.Reader
	closers []func() error
}

func (r *reader) Close() error {
	return closeAll(r.closers)
}

type writer struct {
	io.Writer
	closers []func() error
}

func (w *writer) Close() error {
	return closeAll(w.closers)
}

// closeAll runs every closer in order and returns the first error.
func closeAll(closers []func() error) error {
	var first error
	for _, c := range closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
