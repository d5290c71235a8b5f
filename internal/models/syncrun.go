package models

import (
	"errors"
	"time"
)

// SyncRun is the append-only summary of one sync cycle. It is inserted after
// the cycle finishes and never updated afterwards.
type SyncRun struct {
	ID           string        `json:"id"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration"`
	Fetched      int           `json:"fetched"`
	Created      int           `json:"created"`
	Updated      int           `json:"updated"`
	Notified     int           `json:"notified"`
	Errors       int           `json:"errors"`
	Success      bool          `json:"success"`
	ErrorSummary string        `json:"error_summary,omitempty"`
}

// Validate checks that all sync run fields are valid.
func (r *SyncRun) Validate() error {
	if r.ID == "" {
		return errors.New("sync run ID must not be empty")
	}
	if r.StartedAt.IsZero() {
		return errors.New("sync run started at must not be zero")
	}
	if r.Duration < 0 {
		return errors.New("sync run duration must not be negative")
	}
	if r.Fetched < 0 || r.Created < 0 || r.Updated < 0 || r.Notified < 0 || r.Errors < 0 {
		return errors.New("sync run counts must not be negative")
	}
	return nil
}
