package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/charcache/internal/adapters/catalog"
	"github.com/okian/charcache/pkg/logger"
	"github.com/okian/charcache/pkg/metrics"
)

// StopReason says why a sync pass ended.
type StopReason string

const (
	StopExhausted StopReason = "exhausted" // a page came back with no records
	StopTransport StopReason = "transport"
	StopStatus    StopReason = "status"
	StopParse     StopReason = "parse"
	StopCanceled  StopReason = "canceled"
	StopStore     StopReason = "store"
)

// SyncReport summarizes one sync pass.
type SyncReport struct {
	RunID      string     `json:"run_id"`
	Pages      int        `json:"pages"`
	Records    int        `json:"records"`
	LastPage   int        `json:"last_page"`
	Stop       StopReason `json:"stop"`
	StopDetail string     `json:"stop_detail,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}

// Duration is the wall time the pass took.
func (r SyncReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Progress is delivered after each committed page.
type Progress struct {
	RunID   string
	Page    int
	Pages   int // as advertised by the remote, 0 if unknown
	Stored  int // records in this page
	Records int // records committed so far in this pass
}

// ProgressFunc receives sync progress.
type ProgressFunc func(Progress)

// Sync runs one full pass from page 1 until the remote runs out of records or
// a page request fails. Pages are committed one transaction each, so an
// interrupted pass leaves earlier pages stored.
//
// A remote-side stop returns a nil error. A store failure returns the partial
// report and the store error. Cancellation returns ctx.Err().
func (s *Service) Sync(ctx context.Context) (SyncReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	report := SyncReport{
		RunID:     uuid.NewString(),
		StartedAt: s.now(),
	}
	log := s.logger.Named("sync")
	runField := logger.String("runID", report.RunID)

	metrics.RecordSyncStarted()
	log.Info(ctx, "sync started", runField)

	finish := func(reason StopReason, detail string) {
		report.Stop = reason
		report.StopDetail = detail
		report.FinishedAt = s.now()
		metrics.RecordSyncStop(string(reason))
	}

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			finish(StopCanceled, err.Error())
			log.Warn(ctx, "sync canceled", runField, logger.Int("page", page))
			return report, err
		}

		res, err := s.source.FetchPage(ctx, page)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				finish(StopCanceled, ctxErr.Error())
				log.Warn(ctx, "sync canceled", runField, logger.Int("page", page))
				return report, ctxErr
			}
			reason := stopReasonFor(err)
			finish(reason, err.Error())
			switch reason {
			case StopStatus:
				log.Warn(ctx, "remote refused page, stopping", runField, logger.Int("page", page), logger.Error(err))
			case StopParse:
				log.Warn(ctx, "page body unreadable, stopping", runField, logger.Int("page", page), logger.Error(err))
			default:
				log.Warn(ctx, "page request failed, stopping", runField, logger.Int("page", page), logger.Error(err))
			}
			return report, nil
		}

		if !res.HasMore {
			finish(StopExhausted, "")
			metrics.RecordSyncCompleted(report.FinishedAt)
			log.Info(ctx, "no more records, sync complete",
				runField,
				logger.Int("page", page),
				logger.Int("pages", report.Pages),
				logger.Int("records", report.Records),
				logger.Duration("took", report.Duration()),
			)
			return report, nil
		}

		if err := s.store.UpsertBatch(ctx, res.Records); err != nil {
			finish(StopStore, err.Error())
			log.Error(ctx, "storing page failed", runField, logger.Int("page", page), logger.Error(err))
			return report, fmt.Errorf("sync page %d: %w", page, err)
		}

		report.Pages++
		report.Records += len(res.Records)
		report.LastPage = page
		metrics.RecordPageFetched()
		metrics.RecordRecordsUpserted(len(res.Records))

		log.Debug(ctx, "page stored", runField, logger.Int("page", page), logger.Int("records", len(res.Records)))
		if s.progress != nil {
			s.progress(Progress{
				RunID:   report.RunID,
				Page:    page,
				Pages:   res.Info.Pages,
				Stored:  len(res.Records),
				Records: report.Records,
			})
		}

		if err := s.sleep(ctx, s.pageDelay); err != nil {
			finish(StopCanceled, err.Error())
			log.Warn(ctx, "sync canceled", runField, logger.Int("page", page))
			return report, err
		}
	}
}

func stopReasonFor(err error) StopReason {
	var pe *catalog.PageError
	if !errors.As(err, &pe) {
		return StopTransport
	}
	switch pe.Kind {
	case catalog.KindStatus:
		return StopStatus
	case catalog.KindParse:
		return StopParse
	default:
		return StopTransport
	}
}
