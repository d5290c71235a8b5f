// Package sync implements the scheduled synchronization job: fetch the token
// list, derive metrics and lifecycle statuses, reconcile against persisted
// entities, run the time-based status sweep, dispatch notifications, persist
// a run summary, and clean up stale schedule rows.
//
// A total fetch failure degrades the run instead of aborting it: the sweep
// and notification stages still execute against already-persisted data, and
// the summary reports the fetch error.
package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	gosync "sync"
	"time"

	"github.com/google/uuid"

	"github.com/ohakidev/binance-alpha-tool-sub001/internal/alpha"
	"github.com/ohakidev/binance-alpha-tool-sub001/internal/logger"
	"github.com/ohakidev/binance-alpha-tool-sub001/internal/models"
	"github.com/ohakidev/binance-alpha-tool-sub001/internal/scoring"
	"github.com/ohakidev/binance-alpha-tool-sub001/internal/storage"
)

// ErrRunInProgress is returned when a sync run is triggered while another
// run holds the run lock.
var ErrRunInProgress = errors.New("sync run already in progress")

// maxSummaryErrors bounds the error list recorded in a run summary.
const maxSummaryErrors = 5

// TokenFetcher fetches the raw token list from the external provider.
type TokenFetcher interface {
	FetchTokens(ctx context.Context) ([]alpha.TokenRecord, error)
}

// Store is the persisted-store contract the engine consumes.
type Store interface {
	GetAirdrop(symbol string) (*models.Airdrop, error)
	CreateAirdrop(a *models.Airdrop) error
	UpdateAirdrop(a *models.Airdrop) error
	MarkAirdropsClaimable(now time.Time) (int64, error)
	UpsertSchedule(sc *models.Schedule) error
	MarkSchedulesToday(now time.Time) (int64, error)
	MarkSchedulesLive(now time.Time) (int64, error)
	MarkSchedulesEnded(now time.Time) (int64, error)
	DeleteEndedSchedulesBefore(cutoff time.Time) (int64, error)
	CountSchedulesByStatus() (map[string]int, error)
	InsertSyncRun(r *models.SyncRun) error
}

// Notifier dispatches the pending notifications for one run.
type Notifier interface {
	Dispatch(ctx context.Context, discoveries []models.Airdrop) (int, []error)
}

// Config holds the engine tunables.
type Config struct {
	RunBudget     time.Duration // wall-clock budget for one run
	RetentionDays int           // ENDED schedules older than this are deleted
}

// Engine orchestrates one synchronization run.
type Engine struct {
	fetcher  TokenFetcher
	store    Store
	notifier Notifier
	cfg      Config

	mu  gosync.Mutex // run lock: overlapping triggers are rejected
	now func() time.Time
}

// New creates a sync engine.
func New(fetcher TokenFetcher, store Store, notifier Notifier, cfg Config) *Engine {
	if cfg.RunBudget <= 0 {
		cfg.RunBudget = 30 * time.Second
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 30
	}
	return &Engine{
		fetcher:  fetcher,
		store:    store,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Run executes one full sync cycle and returns its summary. A concurrent
// trigger while a run is active fails fast with ErrRunInProgress. The fetch
// error, if any, is reported inside the summary rather than returned; only
// the run lock produces a non-nil error.
func (e *Engine) Run(ctx context.Context) (models.SyncRun, error) {
	if !e.mu.TryLock() {
		return models.SyncRun{}, ErrRunInProgress
	}
	defer e.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.RunBudget)
	defer cancel()

	started := e.now()
	run := models.SyncRun{
		ID:        uuid.New().String(),
		StartedAt: started,
		Success:   true,
	}
	var runErrors []string
	recordErr := func(err error) {
		run.Errors++
		if len(runErrors) < maxSummaryErrors {
			runErrors = append(runErrors, err.Error())
		}
	}

	logger.Info("Starting sync run %s", run.ID)

	records, err := e.fetcher.FetchTokens(ctx)
	if err != nil {
		// Degraded mode: keep sweeping and notifying from persisted data.
		logger.Error("Fetch failed, continuing in degraded mode: %v", err)
		run.Success = false
		recordErr(fmt.Errorf("fetch: %w", err))
		records = nil
	}
	run.Fetched = len(records)

	var discoveries []models.Airdrop
	if len(records) > 0 {
		discoveries = e.reconcile(records, &run, recordErr)
	}

	e.sweep(&run, recordErr)

	if e.notifier != nil {
		sent, errs := e.notifier.Dispatch(ctx, discoveries)
		run.Notified = sent
		for _, err := range errs {
			logger.Warn("Notification error: %v", err)
			recordErr(err)
		}
	}

	run.Duration = e.now().Sub(started)
	run.ErrorSummary = strings.Join(runErrors, "; ")

	if err := e.store.InsertSyncRun(&run); err != nil {
		logger.Error("Failed to persist run summary: %v", err)
	}

	cutoff := e.now().AddDate(0, 0, -e.cfg.RetentionDays)
	if deleted, err := e.store.DeleteEndedSchedulesBefore(cutoff); err != nil {
		logger.Warn("Retention cleanup failed: %v", err)
	} else if deleted > 0 {
		logger.Info("Retention cleanup removed %d ended schedules", deleted)
	}

	logger.Info("Sync run %s finished in %v: fetched=%d created=%d updated=%d notified=%d errors=%d success=%v",
		run.ID, run.Duration, run.Fetched, run.Created, run.Updated, run.Notified, run.Errors, run.Success)

	return run, nil
}

// reconcile diffs the fetched records against persisted airdrops and upserts
// schedule rows. A failure on one record is logged and counted; the batch
// always continues.
func (e *Engine) reconcile(records []alpha.TokenRecord, run *models.SyncRun, recordErr func(error)) []models.Airdrop {
	now := e.now()
	var discoveries []models.Airdrop

	for _, rec := range records {
		if rec.Symbol == "" {
			continue
		}

		flags := scoring.FlagsOf(rec)
		listing := msTime(rec.ListingTime)
		end := msTime(rec.EndTime)
		status := scoring.ClassifyAirdrop(flags, listing, now)

		// Ended with no active flag: nothing left to track, keep storage bounded.
		if status == models.StatusEnded && !flags.AirdropActive && !flags.EventActive {
			continue
		}

		metrics := scoring.Normalize(rec)
		candidate := buildAirdrop(rec, metrics, status, now)

		existing, err := e.store.GetAirdrop(rec.Symbol)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			if err := e.store.CreateAirdrop(&candidate); err != nil {
				logger.Warn("Failed to create airdrop %s: %v", rec.Symbol, err)
				recordErr(err)
				break
			}
			run.Created++
			discoveries = append(discoveries, candidate)
		case err != nil:
			logger.Warn("Failed to look up airdrop %s: %v", rec.Symbol, err)
			recordErr(err)
		default:
			if !meaningfulChange(existing, &candidate) {
				break
			}
			candidate.ID = existing.ID
			candidate.CreatedAt = existing.CreatedAt
			if err := e.store.UpdateAirdrop(&candidate); err != nil {
				logger.Warn("Failed to update airdrop %s: %v", rec.Symbol, err)
				recordErr(err)
				break
			}
			run.Updated++
		}

		if listing.IsZero() {
			continue
		}
		schedule := models.Schedule{
			Symbol:      rec.Symbol,
			ListingTime: listing,
			EndTime:     end,
			Chain:       metrics.Chain,
			Status:      scoring.ClassifySchedule(flags, listing, end, now),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := e.store.UpsertSchedule(&schedule); err != nil {
			logger.Warn("Failed to upsert schedule %s@%v: %v", rec.Symbol, listing, err)
			recordErr(err)
		}
	}

	return discoveries
}

// sweep advances statuses that change purely because time has passed,
// independent of the latest fetch.
func (e *Engine) sweep(run *models.SyncRun, recordErr func(error)) {
	now := e.now()

	sweeps := []struct {
		name string
		fn   func(time.Time) (int64, error)
	}{
		{"airdrops claimable", e.store.MarkAirdropsClaimable},
		{"schedules today", e.store.MarkSchedulesToday},
		{"schedules live", e.store.MarkSchedulesLive},
		{"schedules ended", e.store.MarkSchedulesEnded},
	}
	for _, sw := range sweeps {
		n, err := sw.fn(now)
		if err != nil {
			logger.Warn("Sweep %s failed: %v", sw.name, err)
			recordErr(err)
			continue
		}
		if n > 0 {
			logger.Info("Sweep advanced %d %s", n, sw.name)
		}
	}

	if counts, err := e.store.CountSchedulesByStatus(); err == nil {
		logger.Debug("Schedule status distribution after sweep: %v", counts)
	}
}

// buildAirdrop assembles the persisted entity for one fetched record.
func buildAirdrop(rec alpha.TokenRecord, m models.Metrics, status string, now time.Time) models.Airdrop {
	name := rec.Name
	if name == "" {
		name = rec.Symbol
	}
	typ := models.TypeAirdrop
	if rec.EventActive {
		typ = models.TypeEvent
	}
	return models.Airdrop{
		Symbol:       rec.Symbol,
		Name:         name,
		Chain:        m.Chain,
		Status:       status,
		Type:         typ,
		EstValue:     estValue(m),
		Eligibility:  emptyJSONList,
		Requirements: emptyJSONList,
		ClaimStart:   msTime(rec.ListingTime),
		ClaimEnd:     msTime(rec.EndTime),
		IsActive:     rec.AirdropActive || rec.EventActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// emptyJSONList is the serialized form of an empty string list; the source
// feed carries no eligibility or requirement data, so new rows start empty.
const emptyJSONList = "[]"

// estValue is the derived per-point value estimate: last price times the
// Alpha point multiplier, rounded to 4 decimals so float jitter does not
// register as a meaningful change on every sync.
func estValue(m models.Metrics) float64 {
	v := m.Price * m.MulPoint
	if v < 0 {
		return 0
	}
	return float64(int64(v*10000+0.5)) / 10000
}

// meaningfulChange reports whether an update is worth writing: only status,
// derived value, or display name count. Everything else changing alone would
// cause needless writes and needless "updated" noise.
func meaningfulChange(existing, candidate *models.Airdrop) bool {
	return existing.Status != candidate.Status ||
		existing.EstValue != candidate.EstValue ||
		existing.Name != candidate.Name
}

func msTime(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
