package models

import (
	"testing"
	"time"
)

func validAirdrop() Airdrop {
	return Airdrop{
		Symbol:       "AAA",
		Name:         "Alpha Token",
		Chain:        "BSC",
		Status:       StatusUpcoming,
		Type:         TypeAirdrop,
		EstValue:     1.5,
		Eligibility:  "[]",
		Requirements: "[]",
	}
}

func TestAirdropValidate(t *testing.T) {
	claimStart := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(*Airdrop)
		wantErr bool
	}{
		{"valid", func(a *Airdrop) {}, false},
		{"valid event type", func(a *Airdrop) { a.Type = TypeEvent }, false},
		{"valid with claim window", func(a *Airdrop) {
			a.ClaimStart = claimStart
			a.ClaimEnd = claimStart.Add(24 * time.Hour)
		}, false},
		{"zero claim times allowed", func(a *Airdrop) {
			a.ClaimStart = time.Time{}
			a.ClaimEnd = time.Time{}
		}, false},
		{"empty symbol", func(a *Airdrop) { a.Symbol = "" }, true},
		{"empty name", func(a *Airdrop) { a.Name = "" }, true},
		{"empty chain", func(a *Airdrop) { a.Chain = "" }, true},
		{"unknown status", func(a *Airdrop) { a.Status = "PENDING" }, true},
		{"unknown type", func(a *Airdrop) { a.Type = "bounty" }, true},
		{"negative est value", func(a *Airdrop) { a.EstValue = -0.1 }, true},
		{"claim end before start", func(a *Airdrop) {
			a.ClaimStart = claimStart
			a.ClaimEnd = claimStart.Add(-time.Hour)
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAirdrop()
			tt.mutate(&a)
			err := a.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScheduleValidate(t *testing.T) {
	listing := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	valid := func() Schedule {
		return Schedule{
			Symbol:      "AAA",
			ListingTime: listing,
			Chain:       "BSC",
			Status:      ScheduleUpcoming,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Schedule)
		wantErr bool
	}{
		{"valid", func(s *Schedule) {}, false},
		{"valid with end time", func(s *Schedule) { s.EndTime = listing.Add(time.Hour) }, false},
		{"empty symbol", func(s *Schedule) { s.Symbol = "" }, true},
		{"zero listing time", func(s *Schedule) { s.ListingTime = time.Time{} }, true},
		{"empty chain", func(s *Schedule) { s.Chain = "" }, true},
		{"unknown status", func(s *Schedule) { s.Status = "SOON" }, true},
		{"end before listing", func(s *Schedule) { s.EndTime = listing.Add(-time.Hour) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSyncRunValidate(t *testing.T) {
	valid := func() SyncRun {
		return SyncRun{
			ID:        "run-1",
			StartedAt: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			Duration:  2 * time.Second,
			Fetched:   10,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*SyncRun)
		wantErr bool
	}{
		{"valid", func(r *SyncRun) {}, false},
		{"empty id", func(r *SyncRun) { r.ID = "" }, true},
		{"zero start", func(r *SyncRun) { r.StartedAt = time.Time{} }, true},
		{"negative duration", func(r *SyncRun) { r.Duration = -time.Second }, true},
		{"negative count", func(r *SyncRun) { r.Errors = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(&r)
			err := r.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
