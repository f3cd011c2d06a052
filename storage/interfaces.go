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

package storage

import (
	"context"

	"github.com/poiesic/retrofit/core"
)

// TableInfo describes a stored vector table.
type TableInfo struct {
	Dim         int
	Count       int
	Fingerprint uint64
}

// VectorRecord is the stored form of one table entry.
type VectorRecord struct {
	Token  string
	Values []float64
}

// TableRepository stores a single vector table.
// Implementations must be thread-safe.
type TableRepository interface {
	// SaveTable replaces the stored table with t, preserving its order.
	SaveTable(ctx context.Context, t *core.Table) error

	// LoadTable returns the stored table in its original order.
	// Returns ErrNotFound if nothing has been stored.
	LoadTable(ctx context.Context) (*core.Table, error)

	// TableInfo returns the metadata of the stored table.
	// Returns ErrNotFound if nothing has been stored.
	TableInfo(ctx context.Context) (*TableInfo, error)

	// Close releases resources held by the repository.
	Close() error
}
