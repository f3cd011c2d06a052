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

package core

import (
	"encoding/binary"
	"fmt"
	"iter"
	"math"

	"github.com/go-crypt/x/blake2b"
)

// Table is an ordered mapping from token to a fixed-length vector.
//
// The dimensionality is fixed by the first vector stored. Tokens iterate in
// insertion order; replacing the vector of a known token keeps its position.
// A Table owns its vectors: Set copies its argument and callers must treat
// slices returned by Get as read-only.
type Table struct {
	dim     int
	tokens  []string
	vectors map[string][]float64
}

// NewTable creates an empty table. The capacity is a hint.
func NewTable(capacity int) *Table {
	return &Table{
		tokens:  make([]string, 0, capacity),
		vectors: make(map[string][]float64, capacity),
	}
}

// Set stores a copy of vector under token.
// Returns ErrDimensionMismatch if the length differs from the table's dimension.
func (t *Table) Set(token string, vector []float64) error {
	if len(t.tokens) == 0 {
		t.dim = len(vector)
	} else if len(vector) != t.dim {
		return fmt.Errorf("%w: token %q has %d components, table has %d",
			ErrDimensionMismatch, token, len(vector), t.dim)
	}

	if _, ok := t.vectors[token]; !ok {
		t.tokens = append(t.tokens, token)
	}
	t.vectors[token] = append([]float64(nil), vector...)
	return nil
}

// Get returns the vector stored under token.
func (t *Table) Get(token string) ([]float64, bool) {
	v, ok := t.vectors[token]
	return v, ok
}

// Has reports whether token has a vector.
func (t *Table) Has(token string) bool {
	_, ok := t.vectors[token]
	return ok
}

// Len returns the number of tokens.
func (t *Table) Len() int {
	return len(t.tokens)
}

// Dim returns the vector dimensionality, or 0 for an empty table.
func (t *Table) Dim() int {
	return t.dim
}

// Tokens returns the tokens in insertion order.
func (t *Table) Tokens() []string {
	return append([]string(nil), t.tokens...)
}

// All iterates over tokens and vectors in insertion order.
func (t *Table) All() iter.Seq2[string, []float64] {
	return func(yield func(string, []float64) bool) {
		for _, token := range t.tokens {
			if !yield(token, t.vectors[token]) {
				return
			}
		}
	}
}

// Clone returns a deep copy sharing no storage with t.
func (t *Table) Clone() *Table {
	c := NewTable(len(t.tokens))
	c.dim = t.dim
	c.tokens = append(c.tokens, t.tokens...)
	for token, v := range t.vectors {
		c.vectors[token] = append([]float64(nil), v...)
	}
	return c
}

// Equal reports whether both tables hold the same tokens, in the same order,
// with identical vectors. Components are compared by their IEEE-754 bits, so
// a NaN equals itself and 0 differs from -0.
func (t *Table) Equal(other *Table) bool {
	if other == nil || t.dim != other.dim || len(t.tokens) != len(other.tokens) {
		return false
	}
	for i, token := range t.tokens {
		if other.tokens[i] != token {
			return false
		}
		a, b := t.vectors[token], other.vectors[token]
		for j := range a {
			if math.Float64bits(a[j]) != math.Float64bits(b[j]) {
				return false
			}
		}
	}
	return true
}

// Fingerprint returns a deterministic 64-bit BLAKE2b digest of the table's
// tokens and vector bits in insertion order.
func (t *Table) Fingerprint() uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	var buf [8]byte
	for _, token := range t.tokens {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(token)))
		h.Write(buf[:])
		h.Write([]byte(token))
		for _, x := range t.vectors[token] {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(x))
			h.Write(buf[:])
		}
	}
	return binary.LittleEndian.Uint64(h.Sum(nil))
}
