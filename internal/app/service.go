// Package service wires the catalog source and the character store into the
// sync pass and the read operations used by the shell and the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/charcache/internal/adapters/catalog"
	"github.com/okian/charcache/internal/adapters/repository"
	"github.com/okian/charcache/internal/domain/model"
	"github.com/okian/charcache/pkg/logger"
)

// DefaultPageDelay is the pause between two page requests.
const DefaultPageDelay = 200 * time.Millisecond

// Source yields one page of the remote collection.
type Source interface {
	FetchPage(ctx context.Context, page int) (catalog.PageResult, error)
}

// Service runs sync passes and answers queries over the local store.
type Service struct {
	mu sync.Mutex

	source Source
	store  repository.Store

	pageDelay time.Duration
	progress  ProgressFunc
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPageDelay sets the pause between page requests. Zero disables it.
func WithPageDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.pageDelay = d
		}
	}
}

// WithProgress registers a callback invoked after every committed page.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Service) {
		s.progress = fn
	}
}

// WithClock replaces the wall clock used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSleeper replaces the wait used for the page delay.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Service) {
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

// New constructs a Service over source and store.
func New(source Source, store repository.Store, opts ...Option) *Service {
	s := &Service{
		source:    source,
		store:     store,
		pageDelay: DefaultPageDelay,
		now:       time.Now,
		sleep:     sleepContext,
		logger:    nil, // replaced in Start when not set
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start prepares the store schema. It is safe to call more than once.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	if err := s.store.Initialize(ctx); err != nil {
		s.logger.Error(ctx, "store initialization failed", logger.Error(err))
		return err
	}

	s.started = true
	s.logger.Info(ctx, "character service started", logger.Duration("pageDelay", s.pageDelay))
	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn(context.Background(), "closing store", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "character service stopped")
}

// All returns every stored character ordered by id.
func (s *Service) All(ctx context.Context) ([]model.Character, error) {
	return s.store.QueryAll(ctx)
}

// SearchByName returns characters whose name contains sub.
func (s *Service) SearchByName(ctx context.Context, sub string) ([]model.Character, error) {
	return s.store.QueryByNameSubstring(ctx, sub)
}

// ByField returns characters whose field equals value exactly.
func (s *Service) ByField(ctx context.Context, field model.Field, value string) ([]model.Character, error) {
	return s.store.QueryByExactField(ctx, field, value)
}

// Filter returns characters matching every set option.
func (s *Service) Filter(ctx context.Context, opts model.QueryOptions) ([]model.Character, error) {
	return s.store.Filter(ctx, opts)
}

// DistinctValues lists the non-empty values of field in alphabetical order.
func (s *Service) DistinctValues(ctx context.Context, field model.Field) ([]string, error) {
	return s.store.DistinctValues(ctx, field)
}

// Count returns the number of stored characters.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
