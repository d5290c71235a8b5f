package models

import (
	"errors"
	"time"
)

// Schedule statuses. Schedules move UPCOMING → TODAY → LIVE → ENDED.
const (
	ScheduleUpcoming = "UPCOMING"
	ScheduleToday    = "TODAY"
	ScheduleLive     = "LIVE"
	ScheduleEnded    = "ENDED"
)

// Schedule represents one planned listing occurrence of a token. The same
// symbol can be scheduled at several different listing times, so the
// composite (Symbol, ListingTime) is the entity's true identity and writes
// are upserts on that pair.
//
// Notified flips to true only after a confirmed notification send; it is the
// at-most-once guard for reminder and just-went-live notices.
type Schedule struct {
	ID          int64     `json:"id"`
	Symbol      string    `json:"symbol"`
	ListingTime time.Time `json:"listing_time"`
	EndTime     time.Time `json:"end_time"` // zero when the source gives no end
	Chain       string    `json:"chain"`
	Status      string    `json:"status"`
	Notified    bool      `json:"notified"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var validScheduleStatuses = map[string]bool{
	ScheduleUpcoming: true,
	ScheduleToday:    true,
	ScheduleLive:     true,
	ScheduleEnded:    true,
}

// Validate checks that all schedule fields are valid.
func (s *Schedule) Validate() error {
	if s.Symbol == "" {
		return errors.New("schedule symbol must not be empty")
	}
	if s.ListingTime.IsZero() {
		return errors.New("schedule listing time must not be zero")
	}
	if s.Chain == "" {
		return errors.New("schedule chain must not be empty")
	}
	if !validScheduleStatuses[s.Status] {
		return errors.New("schedule status must be one of UPCOMING, TODAY, LIVE, ENDED")
	}
	if !s.EndTime.IsZero() && s.EndTime.Before(s.ListingTime) {
		return errors.New("schedule end time must not precede listing time")
	}
	return nil
}
