package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"

	"github.com/okian/charcache/internal/domain/model"
	"github.com/okian/charcache/pkg/logger"
	"github.com/okian/charcache/pkg/metrics"
)

const defaultBatchSize = 100

// schema is applied statement by statement by Initialize.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS characters (
		id        INTEGER PRIMARY KEY,
		name      TEXT NOT NULL DEFAULT '',
		status    TEXT NOT NULL DEFAULT '',
		species   TEXT NOT NULL DEFAULT '',
		subtype   TEXT NOT NULL DEFAULT '',
		gender    TEXT NOT NULL DEFAULT '',
		origin    TEXT NOT NULL DEFAULT '',
		location  TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_characters_species ON characters(species)`,
	`CREATE INDEX IF NOT EXISTS idx_characters_location ON characters(location)`,
	`CREATE INDEX IF NOT EXISTS idx_characters_status_gender ON characters(status, gender)`,
}

// SQLiteStore is the gorm/SQLite implementation of Store. It holds one
// connection for the life of the process.
type SQLiteStore struct {
	db           *gorm.DB
	path         string
	logger       logger.Logger
	gormLogLevel gormLogger.LogLevel
	batchSize    int
	initialized  atomic.Bool
}

var _ Store = (*SQLiteStore)(nil)

// Open opens (creating if needed) the SQLite file at path. Call Initialize
// before any read or write.
func Open(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{
		path:         path,
		logger:       logger.Nop(),
		gormLogLevel: gormLogger.Warn,
		batchSize:    defaultBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	gormLog := gormLogger.New(
		log.New(os.Stderr, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  s.gormLogLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 gormLog,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrStore, path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrStore, path, err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrStore, path, err)
	}

	s.db = db
	s.logger.Debug(ctx, "store opened", logger.String("path", path))
	return s, nil
}

// Path returns the file the store was opened on.
func (s *SQLiteStore) Path() string { return s.path }

// Initialize creates the characters table and its indexes if absent.
func (s *SQLiteStore) Initialize(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range schema {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		metrics.RecordStoreError("initialize")
		return fmt.Errorf("%w: initialize: %w", ErrStore, err)
	}
	s.initialized.Store(true)
	return nil
}

// UpsertBatch writes records in one transaction. Existing rows with the same
// id have every column replaced. An empty batch is a no-op.
func (s *SQLiteStore) UpsertBatch(ctx context.Context, records []model.Character) error {
	if err := s.ready(); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	start := time.Now()

	rows := make([]model.Character, len(records))
	copy(rows, records)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).CreateInBatches(&rows, s.batchSize).Error
	})
	if err != nil {
		metrics.RecordUpsertLatency("error", metrics.SinceMillis(start))
		metrics.RecordStoreError("upsert")
		return fmt.Errorf("%w: upsert %d records: %w", ErrStore, len(records), err)
	}
	metrics.RecordUpsertLatency("ok", metrics.SinceMillis(start))
	return nil
}

// QueryAll returns every character ordered by id.
func (s *SQLiteStore) QueryAll(ctx context.Context) ([]model.Character, error) {
	return s.find(ctx, "all", func(q *gorm.DB) *gorm.DB { return q })
}

// QueryByNameSubstring matches names containing sub. Matching follows SQLite
// LIKE, so ASCII letters compare case-insensitively. LIKE wildcards in sub
// are matched literally.
func (s *SQLiteStore) QueryByNameSubstring(ctx context.Context, sub string) ([]model.Character, error) {
	return s.find(ctx, "by_name", func(q *gorm.DB) *gorm.DB {
		return whereNameContains(q, sub)
	})
}

// QueryByExactField returns characters whose field equals value.
func (s *SQLiteStore) QueryByExactField(ctx context.Context, field model.Field, value string) ([]model.Character, error) {
	col, err := field.Column()
	if err != nil {
		return nil, err
	}
	return s.find(ctx, "by_field", func(q *gorm.DB) *gorm.DB {
		return q.Where(clause.Eq{Column: clause.Column{Name: col}, Value: value})
	})
}

// Filter applies each non-empty option as an AND-ed condition.
func (s *SQLiteStore) Filter(ctx context.Context, opts model.QueryOptions) ([]model.Character, error) {
	return s.find(ctx, "filter", func(q *gorm.DB) *gorm.DB {
		if opts.NameContains != "" {
			q = whereNameContains(q, opts.NameContains)
		}
		for col, v := range map[string]string{
			"status":   opts.Status,
			"species":  opts.Species,
			"gender":   opts.Gender,
			"location": opts.Location,
		} {
			if v != "" {
				q = q.Where(clause.Eq{Column: clause.Column{Name: col}, Value: v})
			}
		}
		return q
	})
}

// DistinctValues returns the sorted distinct non-empty values of field.
func (s *SQLiteStore) DistinctValues(ctx context.Context, field model.Field) ([]string, error) {
	col, err := field.Column()
	if err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { metrics.RecordQueryLatency("distinct", metrics.SinceMillis(start)) }()

	out := make([]string, 0)
	err = s.db.WithContext(ctx).
		Model(&model.Character{}).
		Where(clause.Neq{Column: clause.Column{Name: col}, Value: ""}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: col}}).
		Distinct().
		Pluck(col, &out).Error
	if err != nil {
		metrics.RecordStoreError("distinct")
		return nil, fmt.Errorf("%w: distinct %s: %w", ErrStore, col, err)
	}
	return out, nil
}

// Count returns the number of stored characters.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Character{}).Count(&n).Error; err != nil {
		metrics.RecordStoreError("count")
		return 0, fmt.Errorf("%w: count: %w", ErrStore, err)
	}
	metrics.UpdateStoredRecords(n)
	return n, nil
}

// Close releases the underlying connection.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: close: %w", ErrStore, err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", ErrStore, err)
	}
	return nil
}

func (s *SQLiteStore) ready() error {
	if !s.initialized.Load() {
		return ErrNotInitialized
	}
	return nil
}

// find runs a character query built by scope, ordered by id.
func (s *SQLiteStore) find(ctx context.Context, op string, scope func(*gorm.DB) *gorm.DB) ([]model.Character, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { metrics.RecordQueryLatency(op, metrics.SinceMillis(start)) }()

	out := make([]model.Character, 0)
	q := scope(s.db.WithContext(ctx).Model(&model.Character{}))
	if err := q.Order("id").Find(&out).Error; err != nil {
		metrics.RecordStoreError(op)
		return nil, fmt.Errorf("%w: query %s: %w", ErrStore, op, err)
	}
	return out, nil
}

func whereNameContains(q *gorm.DB, sub string) *gorm.DB {
	return q.Where(`name LIKE ? ESCAPE '\'`, "%"+escapeLike(sub)+"%")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
