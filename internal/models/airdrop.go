// Package models defines the core domain entities for the alpha sync tool.
// These models represent airdrop/launch-event entities, their listing
// schedules, and sync run summaries. All persisted models include built-in
// validation to ensure data integrity throughout the application.
//
// Terminology (matching Binance Alpha's own naming):
//   - Airdrop: a token distribution tracked per unique symbol. Covers both
//     classic airdrops and TGE-style launch events (distinguished by Type).
//   - Schedule: one planned listing occurrence of a token. A symbol may recur
//     at different listing times, so (Symbol, ListingTime) is the identity.
package models

import (
	"errors"
	"time"
)

// Airdrop lifecycle statuses.
const (
	StatusUpcoming  = "UPCOMING"
	StatusSnapshot  = "SNAPSHOT"
	StatusClaimable = "CLAIMABLE"
	StatusEnded     = "ENDED"
	StatusCancelled = "CANCELLED"
)

// Airdrop entity types.
const (
	TypeAirdrop = "airdrop"
	TypeEvent   = "event"
)

// Airdrop represents one tracked token distribution, keyed by its unique
// symbol. It is created on first sighting and updated in place only when a
// meaningful field changes; the sync pipeline never deletes it.
type Airdrop struct {
	ID           int64     `json:"id"`
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	Chain        string    `json:"chain"`
	Status       string    `json:"status"`
	Type         string    `json:"type"`
	EstValue     float64   `json:"est_value"`    // derived per-point value estimate
	Eligibility  string    `json:"eligibility"`  // JSON-serialized string list
	Requirements string    `json:"requirements"` // JSON-serialized string list
	ClaimStart   time.Time `json:"claim_start"`  // zero when the source gives no time
	ClaimEnd     time.Time `json:"claim_end"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var validAirdropStatuses = map[string]bool{
	StatusUpcoming:  true,
	StatusSnapshot:  true,
	StatusClaimable: true,
	StatusEnded:     true,
	StatusCancelled: true,
}

// Validate checks that all airdrop fields are valid.
func (a *Airdrop) Validate() error {
	if a.Symbol == "" {
		return errors.New("airdrop symbol must not be empty")
	}
	if a.Name == "" {
		return errors.New("airdrop name must not be empty")
	}
	if a.Chain == "" {
		return errors.New("airdrop chain must not be empty")
	}
	if !validAirdropStatuses[a.Status] {
		return errors.New("airdrop status must be one of UPCOMING, SNAPSHOT, CLAIMABLE, ENDED, CANCELLED")
	}
	if a.Type != TypeAirdrop && a.Type != TypeEvent {
		return errors.New("airdrop type must be 'airdrop' or 'event'")
	}
	if a.EstValue < 0 {
		return errors.New("airdrop est value must not be negative")
	}
	if !a.ClaimStart.IsZero() && !a.ClaimEnd.IsZero() && a.ClaimEnd.Before(a.ClaimStart) {
		return errors.New("airdrop claim end must not precede claim start")
	}
	return nil
}
