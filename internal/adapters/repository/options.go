package repository

import (
	gormLogger "gorm.io/gorm/logger"

	"github.com/okian/charcache/pkg/logger"
)

// Option applies a configuration option to the SQLiteStore.
type Option func(*SQLiteStore)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *SQLiteStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGormLogLevel sets the verbosity of gorm's own SQL logger.
func WithGormLogLevel(level gormLogger.LogLevel) Option {
	return func(s *SQLiteStore) {
		s.gormLogLevel = level
	}
}

// WithBatchSize caps the rows per INSERT statement inside one upsert
// transaction. SQLite limits bound parameters per statement.
func WithBatchSize(n int) Option {
	return func(s *SQLiteStore) {
		if n > 0 {
			s.batchSize = n
		}
	}
}
