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

package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/retrofit/core"
	"github.com/poiesic/retrofit/storage"
)

// TableRepository implements storage.TableRepository for BadgerDB.
type TableRepository struct {
	backend *Backend
}

var _ storage.TableRepository = (*TableRepository)(nil)

// NewTableRepository creates a new TableRepository.
func NewTableRepository(backend *Backend) (*TableRepository, error) {
	if backend == nil || backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	return &TableRepository{
		backend: backend,
	}, nil
}

// Close releases resources. TableRepository has no resources to release;
// the backend is closed by its owner.
func (r *TableRepository) Close() error {
	return nil
}

// SaveTable replaces the stored table with t.
// Existing records are removed first; the info record is written last so an
// interrupted save is reported as missing or inconsistent on load.
func (r *TableRepository) SaveTable(ctx context.Context, t *core.Table) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	if err := r.clear(ctx); err != nil {
		return fmt.Errorf("failed to clear stored table: %w", err)
	}

	err := r.backend.WithBatch(func(wb *badger.WriteBatch) error {
		position := 0
		for token, values := range t.All() {
			if position%1024 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			record := &storage.VectorRecord{Token: token, Values: values}
			if err := wb.Set(makeVectorRecordKey(position), storage.MarshalVectorRecord(record)); err != nil {
				return err
			}
			position++
		}

		info := &storage.TableInfo{
			Dim:         t.Dim(),
			Count:       t.Len(),
			Fingerprint: t.Fingerprint(),
		}
		return wb.Set([]byte(tableInfoKey), storage.MarshalTableInfo(info))
	})
	if err != nil {
		return fmt.Errorf("failed to store table: %w", err)
	}

	r.backend.logger.Debug("table stored", "count", t.Len(), "dimension", t.Dim())
	return nil
}

// clear deletes every vector record and the info record.
func (r *TableRepository) clear(ctx context.Context) error {
	var keys [][]byte
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorRecordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		return nil
	}, false)
	if err != nil {
		return err
	}

	return r.backend.WithBatch(func(wb *badger.WriteBatch) error {
		if err := wb.Delete([]byte(tableInfoKey)); err != nil {
			return err
		}
		for i, key := range keys {
			if i%1024 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			if err := wb.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// TableInfo returns the metadata of the stored table.
func (r *TableRepository) TableInfo(ctx context.Context) (*storage.TableInfo, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var info *storage.TableInfo
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		info, err = readTableInfo(tx)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// LoadTable returns the stored table in its original order and verifies it
// against the stored fingerprint.
func (r *TableRepository) LoadTable(ctx context.Context) (*core.Table, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var table *core.Table
	var info *storage.TableInfo
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		info, err = readTableInfo(tx)
		if err != nil {
			return err
		}

		table = core.NewTable(info.Count)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if table.Len()%1024 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}

			var record *storage.VectorRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalVectorRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if err := table.Set(record.Token, record.Values); err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	if table.Len() != info.Count || table.Dim() != info.Dim {
		return nil, fmt.Errorf("%w: stored %d vectors of dimension %d, found %d of dimension %d",
			storage.ErrChecksumMismatch, info.Count, info.Dim, table.Len(), table.Dim())
	}
	if fp := table.Fingerprint(); fp != info.Fingerprint {
		return nil, fmt.Errorf("%w: expected %016x, got %016x", storage.ErrChecksumMismatch, info.Fingerprint, fp)
	}

	r.backend.logger.Debug("table loaded", "count", table.Len(), "dimension", table.Dim())
	return table, nil
}

func readTableInfo(tx *badger.Txn) (*storage.TableInfo, error) {
	item, err := tx.Get([]byte(tableInfoKey))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	var info *storage.TableInfo
	err = item.Value(func(val []byte) error {
		var err error
		info, err = storage.UnmarshalTableInfo(val)
		return err
	})
	return info, err
}
