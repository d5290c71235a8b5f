package scoring

import (
	"time"

	"github.com/ohakidev/binance-alpha-tool-sub001/internal/alpha"
	"github.com/ohakidev/binance-alpha-tool-sub001/internal/models"
)

// Flags are the source-provided lifecycle signals of a token.
type Flags struct {
	Offline       bool
	Delisted      bool
	AirdropActive bool
	EventActive   bool
}

// FlagsOf extracts the lifecycle flags from a raw record.
func FlagsOf(rec alpha.TokenRecord) Flags {
	return Flags{
		Offline:       rec.Offline,
		Delisted:      rec.Delisted,
		AirdropActive: rec.AirdropActive,
		EventActive:   rec.EventActive,
	}
}

// ClassifyAirdrop derives the airdrop lifecycle status from the source flags
// and the listing time. Precedence, highest first:
//
//  1. offline or delisted forces ENDED regardless of time
//  2. an active airdrop/launch-event flag forces CLAIMABLE, even when the
//     claim window appears elapsed; the source flag is authoritative
//  3. a future listing time means UPCOMING
//  4. past the listing time with no active flag means ENDED
//
// A token with no listing time and no active flag is treated as UPCOMING:
// it has been sighted but not scheduled yet.
func ClassifyAirdrop(f Flags, listing time.Time, now time.Time) string {
	if f.Offline || f.Delisted {
		return models.StatusEnded
	}
	if f.AirdropActive || f.EventActive {
		return models.StatusClaimable
	}
	if listing.IsZero() || listing.After(now) {
		return models.StatusUpcoming
	}
	return models.StatusEnded
}

// ClassifySchedule derives the schedule row status from the same signals.
// The schedule runs the parallel UPCOMING → TODAY → LIVE → ENDED machine:
// an active flag or an arrived listing time means LIVE, a listing later on
// the current UTC day means TODAY, and only an elapsed end time (or the
// offline flag) terminates a LIVE schedule.
func ClassifySchedule(f Flags, listing, end time.Time, now time.Time) string {
	if f.Offline || f.Delisted {
		return models.ScheduleEnded
	}
	if f.AirdropActive || f.EventActive {
		return models.ScheduleLive
	}
	if listing.After(now) {
		if SameUTCDay(listing, now) {
			return models.ScheduleToday
		}
		return models.ScheduleUpcoming
	}
	if !end.IsZero() && !end.After(now) {
		return models.ScheduleEnded
	}
	return models.ScheduleLive
}

// SameUTCDay reports whether two instants fall on the same UTC calendar day.
func SameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
