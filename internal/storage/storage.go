// Package storage persists airdrops, listing schedules, and sync run
// summaries in SQLite. Each entity gets a strongly-typed set of methods;
// there is no untyped passthrough to the database.
//
// Times are stored as epoch milliseconds, matching the provider's own
// listing timestamps so window math never crosses a unit boundary.
package storage

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ohakidev/binance-alpha-tool-sub001/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema. The parent directory is created when missing.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL allows concurrent readers while a writer is active.
	// busy_timeout reduces SQLITE_BUSY errors under contention.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func msOf(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func timeOf(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// --- airdrops ---

const airdropColumns = "id, symbol, name, chain, status, type, est_value, eligibility, requirements, claim_start, claim_end, is_active, created_at, updated_at"

func scanAirdrop(row interface{ Scan(...any) error }) (*models.Airdrop, error) {
	var a models.Airdrop
	var claimStart, claimEnd, createdAt, updatedAt int64
	err := row.Scan(&a.ID, &a.Symbol, &a.Name, &a.Chain, &a.Status, &a.Type,
		&a.EstValue, &a.Eligibility, &a.Requirements,
		&claimStart, &claimEnd, &a.IsActive, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	a.ClaimStart = timeOf(claimStart)
	a.ClaimEnd = timeOf(claimEnd)
	a.CreatedAt = timeOf(createdAt)
	a.UpdatedAt = timeOf(updatedAt)
	return &a, nil
}

// GetAirdrop looks up an airdrop by its symbol. Returns ErrNotFound when the
// symbol has never been sighted.
func (s *Store) GetAirdrop(symbol string) (*models.Airdrop, error) {
	row := s.db.QueryRow("SELECT "+airdropColumns+" FROM airdrops WHERE symbol = ?", symbol)
	a, err := scanAirdrop(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get airdrop %s: %w", symbol, err)
	}
	return a, nil
}

// CreateAirdrop inserts a new airdrop row. A duplicate symbol is a
// uniqueness violation and surfaces as an error.
func (s *Store) CreateAirdrop(a *models.Airdrop) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("invalid airdrop: %w", err)
	}
	res, err := s.db.Exec(`INSERT INTO airdrops
		(symbol, name, chain, status, type, est_value, eligibility, requirements, claim_start, claim_end, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Symbol, a.Name, a.Chain, a.Status, a.Type, a.EstValue,
		a.Eligibility, a.Requirements, msOf(a.ClaimStart), msOf(a.ClaimEnd),
		a.IsActive, msOf(a.CreatedAt), msOf(a.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to create airdrop %s: %w", a.Symbol, err)
	}
	a.ID, _ = res.LastInsertId()
	return nil
}

// UpdateAirdrop rewrites the mutable fields of an existing airdrop, keyed by
// symbol. CreatedAt is never touched.
func (s *Store) UpdateAirdrop(a *models.Airdrop) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("invalid airdrop: %w", err)
	}
	res, err := s.db.Exec(`UPDATE airdrops SET
		name = ?, chain = ?, status = ?, type = ?, est_value = ?,
		eligibility = ?, requirements = ?, claim_start = ?, claim_end = ?,
		is_active = ?, updated_at = ?
		WHERE symbol = ?`,
		a.Name, a.Chain, a.Status, a.Type, a.EstValue,
		a.Eligibility, a.Requirements, msOf(a.ClaimStart), msOf(a.ClaimEnd),
		a.IsActive, msOf(a.UpdatedAt), a.Symbol)
	if err != nil {
		return fmt.Errorf("failed to update airdrop %s: %w", a.Symbol, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("airdrop %s: %w", a.Symbol, ErrNotFound)
	}
	return nil
}

// MarkAirdropsClaimable advances UPCOMING airdrops whose claim start has
// passed to CLAIMABLE. Returns the number of rows advanced.
func (s *Store) MarkAirdropsClaimable(now time.Time) (int64, error) {
	res, err := s.db.Exec(`UPDATE airdrops SET status = ?, updated_at = ?
		WHERE status = ? AND claim_start > 0 AND claim_start <= ?`,
		models.StatusClaimable, msOf(now), models.StatusUpcoming, msOf(now))
	if err != nil {
		return 0, fmt.Errorf("failed to sweep airdrops: %w", err)
	}
	return res.RowsAffected()
}

// CountAirdropsByStatus returns the airdrop count per lifecycle status.
func (s *Store) CountAirdropsByStatus() (map[string]int, error) {
	rows, err := s.db.Query("SELECT status, COUNT(*) FROM airdrops GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to count airdrops: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// --- schedules ---

const scheduleColumns = "id, symbol, listing_time, end_time, chain, status, notified, created_at, updated_at"

func scanSchedule(row interface{ Scan(...any) error }) (models.Schedule, error) {
	var sc models.Schedule
	var listing, end, createdAt, updatedAt int64
	err := row.Scan(&sc.ID, &sc.Symbol, &listing, &end, &sc.Chain, &sc.Status,
		&sc.Notified, &createdAt, &updatedAt)
	if err != nil {
		return models.Schedule{}, err
	}
	sc.ListingTime = timeOf(listing)
	sc.EndTime = timeOf(end)
	sc.CreatedAt = timeOf(createdAt)
	sc.UpdatedAt = timeOf(updatedAt)
	return sc, nil
}

// UpsertSchedule creates or replaces the schedule row for (symbol, listing
// time). Re-fetching the same pair on later syncs refreshes end time, chain,
// and status without resetting the notified flag, so a reminder already sent
// stays sent.
func (s *Store) UpsertSchedule(sc *models.Schedule) error {
	if err := sc.Validate(); err != nil {
		return fmt.Errorf("invalid schedule: %w", err)
	}
	_, err := s.db.Exec(`INSERT INTO schedules
		(symbol, listing_time, end_time, chain, status, notified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (symbol, listing_time) DO UPDATE SET
			end_time = excluded.end_time,
			chain = excluded.chain,
			status = excluded.status,
			updated_at = excluded.updated_at`,
		sc.Symbol, msOf(sc.ListingTime), msOf(sc.EndTime), sc.Chain, sc.Status,
		sc.Notified, msOf(sc.CreatedAt), msOf(sc.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert schedule %s@%d: %w", sc.Symbol, msOf(sc.ListingTime), err)
	}
	return nil
}

// GetSchedule retrieves the schedule row for (symbol, listing time).
func (s *Store) GetSchedule(symbol string, listing time.Time) (models.Schedule, error) {
	row := s.db.QueryRow("SELECT "+scheduleColumns+" FROM schedules WHERE symbol = ? AND listing_time = ?",
		symbol, msOf(listing))
	sc, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Schedule{}, ErrNotFound
	}
	if err != nil {
		return models.Schedule{}, fmt.Errorf("failed to get schedule %s: %w", symbol, err)
	}
	return sc, nil
}

func (s *Store) querySchedules(query string, args ...any) ([]models.Schedule, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var out []models.Schedule
	for rows.Next() {
		sc, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// SchedulesDueWithin returns unnotified UPCOMING/TODAY schedules whose
// listing time falls within (now, now+window].
func (s *Store) SchedulesDueWithin(now time.Time, window time.Duration) ([]models.Schedule, error) {
	return s.querySchedules("SELECT "+scheduleColumns+` FROM schedules
		WHERE notified = 0 AND status IN (?, ?) AND listing_time > ? AND listing_time <= ?
		ORDER BY listing_time`,
		models.ScheduleUpcoming, models.ScheduleToday,
		msOf(now), msOf(now.Add(window)))
}

// SchedulesJustLive returns unnotified LIVE schedules whose listing time is
// within the trailing window of now. The window bounds how long after the
// fact a "live" notice is still useful.
func (s *Store) SchedulesJustLive(now time.Time, window time.Duration) ([]models.Schedule, error) {
	return s.querySchedules("SELECT "+scheduleColumns+` FROM schedules
		WHERE notified = 0 AND status = ? AND listing_time > ? AND listing_time <= ?
		ORDER BY listing_time`,
		models.ScheduleLive, msOf(now.Add(-window)), msOf(now))
}

// MarkScheduleNotified flips the notified flag. Called only after a confirmed
// successful send.
func (s *Store) MarkScheduleNotified(id int64) error {
	res, err := s.db.Exec("UPDATE schedules SET notified = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to mark schedule %d notified: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("schedule %d: %w", id, ErrNotFound)
	}
	return nil
}

// MarkSchedulesToday advances UPCOMING schedules whose listing time falls
// later on the current UTC day to TODAY.
func (s *Store) MarkSchedulesToday(now time.Time) (int64, error) {
	// listing_time/86400000 is the UTC day ordinal of an epoch-ms timestamp.
	res, err := s.db.Exec(`UPDATE schedules SET status = ?, updated_at = ?
		WHERE status = ? AND listing_time > ? AND listing_time / 86400000 = ?`,
		models.ScheduleToday, msOf(now), models.ScheduleUpcoming,
		msOf(now), msOf(now)/86400000)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep schedules to TODAY: %w", err)
	}
	return res.RowsAffected()
}

// MarkSchedulesLive advances UPCOMING/TODAY schedules whose listing time has
// arrived to LIVE.
func (s *Store) MarkSchedulesLive(now time.Time) (int64, error) {
	res, err := s.db.Exec(`UPDATE schedules SET status = ?, updated_at = ?
		WHERE status IN (?, ?) AND listing_time <= ?`,
		models.ScheduleLive, msOf(now),
		models.ScheduleUpcoming, models.ScheduleToday, msOf(now))
	if err != nil {
		return 0, fmt.Errorf("failed to sweep schedules to LIVE: %w", err)
	}
	return res.RowsAffected()
}

// MarkSchedulesEnded moves LIVE schedules whose end time has passed to ENDED.
// Schedules without an end time stay LIVE; only an authoritative end signal
// terminates them.
func (s *Store) MarkSchedulesEnded(now time.Time) (int64, error) {
	res, err := s.db.Exec(`UPDATE schedules SET status = ?, updated_at = ?
		WHERE status = ? AND end_time > 0 AND end_time <= ?`,
		models.ScheduleEnded, msOf(now), models.ScheduleLive, msOf(now))
	if err != nil {
		return 0, fmt.Errorf("failed to sweep schedules to ENDED: %w", err)
	}
	return res.RowsAffected()
}

// DeleteEndedSchedulesBefore removes ENDED schedules whose listing time is
// older than cutoff. Returns the number of rows deleted.
func (s *Store) DeleteEndedSchedulesBefore(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec("DELETE FROM schedules WHERE status = ? AND listing_time < ?",
		models.ScheduleEnded, msOf(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to delete ended schedules: %w", err)
	}
	return res.RowsAffected()
}

// CountSchedulesByStatus returns the schedule count per status.
func (s *Store) CountSchedulesByStatus() (map[string]int, error) {
	rows, err := s.db.Query("SELECT status, COUNT(*) FROM schedules GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to count schedules: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// --- sync runs ---

// InsertSyncRun appends one run summary. Summaries are never updated.
func (s *Store) InsertSyncRun(r *models.SyncRun) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid sync run: %w", err)
	}
	_, err := s.db.Exec(`INSERT INTO sync_runs
		(id, started_at, duration_ms, fetched, created, updated, notified, errors, success, error_summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, msOf(r.StartedAt), r.Duration.Milliseconds(),
		r.Fetched, r.Created, r.Updated, r.Notified, r.Errors,
		r.Success, r.ErrorSummary)
	if err != nil {
		return fmt.Errorf("failed to insert sync run %s: %w", r.ID, err)
	}
	return nil
}

// LastSyncRun returns the most recently started run summary.
func (s *Store) LastSyncRun() (*models.SyncRun, error) {
	row := s.db.QueryRow(`SELECT id, started_at, duration_ms, fetched, created, updated, notified, errors, success, error_summary
		FROM sync_runs ORDER BY started_at DESC LIMIT 1`)

	var r models.SyncRun
	var startedAt, durationMS int64
	err := row.Scan(&r.ID, &startedAt, &durationMS, &r.Fetched, &r.Created,
		&r.Updated, &r.Notified, &r.Errors, &r.Success, &r.ErrorSummary)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last sync run: %w", err)
	}
	r.StartedAt = timeOf(startedAt)
	r.Duration = time.Duration(durationMS) * time.Millisecond
	return &r, nil
}
