// Package repository persists characters in a local SQLite file.
package repository

import (
	"context"

	"github.com/okian/charcache/internal/domain/model"
)

// Store provides read/write access to cached characters.
type Store interface {
	// Initialize creates the backing table if absent. Safe to call repeatedly.
	Initialize(ctx context.Context) error

	// UpsertBatch inserts or fully overwrites every record, keyed by id, in a
	// single transaction.
	UpsertBatch(ctx context.Context, records []model.Character) error

	// QueryAll returns every character ordered by id.
	QueryAll(ctx context.Context) ([]model.Character, error)
	// QueryByNameSubstring returns characters whose name contains s.
	QueryByNameSubstring(ctx context.Context, s string) ([]model.Character, error)
	// QueryByExactField returns characters whose field equals value.
	QueryByExactField(ctx context.Context, field model.Field, value string) ([]model.Character, error)
	// Filter applies every set option of opts.
	Filter(ctx context.Context, opts model.QueryOptions) ([]model.Character, error)
	// DistinctValues returns the sorted non-empty values of field.
	DistinctValues(ctx context.Context, field model.Field) ([]string, error)
	// Count returns the number of stored characters.
	Count(ctx context.Context) (int64, error)

	Close() error
}
