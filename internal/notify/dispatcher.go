// Package notify decides which entities require a notification and enforces
// the at-most-once guarantee. Three independent classes exist:
//
//  1. New discovery — fires once, immediately, for airdrops created in the
//     current run with status CLAIMABLE or UPCOMING.
//  2. Upcoming reminder — fires for schedules whose listing time falls within
//     the configured look-ahead window, while still unnotified.
//  3. Just-went-live — fires for LIVE schedules within a short trailing
//     window of their listing time, while still unnotified.
//
// For the schedule classes the guarantee is carried by the persisted
// notified flag, flipped only after a confirmed successful send; a failed
// send leaves the flag untouched so the next run retries. Discovery notices
// are bounded by construction: only rows created in the current run qualify.
package notify

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ohakidev/binance-alpha-tool-sub001/internal/logger"
	"github.com/ohakidev/binance-alpha-tool-sub001/internal/models"
)

// Notification kinds.
const (
	KindDiscovery = "discovery"
	KindReminder  = "reminder"
	KindLive      = "live"
)

// Message is the structured payload handed to the outbound transport.
type Message struct {
	Kind         string
	Symbol       string
	Name         string
	Chain        string
	Status       string
	ListingTime  time.Time
	MinutesUntil int
}

// Sender is the outbound notification transport: fire-and-confirm, no
// delivery tracking beyond the returned error.
type Sender interface {
	Send(msg Message) error
}

// ScheduleStore is the slice of the persisted store the dispatcher needs.
type ScheduleStore interface {
	SchedulesDueWithin(now time.Time, window time.Duration) ([]models.Schedule, error)
	SchedulesJustLive(now time.Time, window time.Duration) ([]models.Schedule, error)
	MarkScheduleNotified(id int64) error
}

// Dispatcher evaluates the three notification classes against the store.
type Dispatcher struct {
	store      ScheduleStore
	sender     Sender
	lookAhead  time.Duration // reminder window before a listing
	liveWindow time.Duration // trailing window after a listing went live
	now        func() time.Time
}

// New creates a Dispatcher. sender may be nil, in which case Dispatch is a
// no-op that flips no flags (notifications disabled).
func New(store ScheduleStore, sender Sender, lookAhead, liveWindow time.Duration) *Dispatcher {
	return &Dispatcher{
		store:      store,
		sender:     sender,
		lookAhead:  lookAhead,
		liveWindow: liveWindow,
		now:        time.Now,
	}
}

// minutesUntil rounds the distance from now to t to whole minutes.
func minutesUntil(now, t time.Time) int {
	return int(math.Round(float64(t.Sub(now).Milliseconds()) / 60000.0))
}

// Dispatch runs all three notification classes. discoveries are the airdrops
// created in the current run. Returns the number of confirmed sends and the
// per-entity errors; an individual failure never aborts the remainder.
func (d *Dispatcher) Dispatch(ctx context.Context, discoveries []models.Airdrop) (int, []error) {
	if d.sender == nil {
		return 0, nil
	}

	sent := 0
	var errs []error
	now := d.now()

	for _, a := range discoveries {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			return sent, errs
		}
		if a.Status != models.StatusClaimable && a.Status != models.StatusUpcoming {
			continue
		}
		msg := Message{
			Kind:         KindDiscovery,
			Symbol:       a.Symbol,
			Name:         a.Name,
			Chain:        a.Chain,
			Status:       a.Status,
			ListingTime:  a.ClaimStart,
			MinutesUntil: minutesUntil(now, a.ClaimStart),
		}
		if err := d.sender.Send(msg); err != nil {
			errs = append(errs, fmt.Errorf("discovery notice for %s: %w", a.Symbol, err))
			continue
		}
		sent++
	}

	n, classErrs := d.dispatchSchedules(ctx, KindReminder, now)
	sent += n
	errs = append(errs, classErrs...)

	n, classErrs = d.dispatchSchedules(ctx, KindLive, now)
	sent += n
	errs = append(errs, classErrs...)

	return sent, errs
}

// dispatchSchedules handles the reminder and just-went-live classes, which
// share the query-send-flag shape and differ only in their window query.
func (d *Dispatcher) dispatchSchedules(ctx context.Context, kind string, now time.Time) (int, []error) {
	var (
		due []models.Schedule
		err error
	)
	switch kind {
	case KindReminder:
		due, err = d.store.SchedulesDueWithin(now, d.lookAhead)
	case KindLive:
		due, err = d.store.SchedulesJustLive(now, d.liveWindow)
	}
	if err != nil {
		return 0, []error{fmt.Errorf("querying %s schedules: %w", kind, err)}
	}

	sent := 0
	var errs []error
	for _, sc := range due {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			return sent, errs
		}
		msg := Message{
			Kind:         kind,
			Symbol:       sc.Symbol,
			Chain:        sc.Chain,
			Status:       sc.Status,
			ListingTime:  sc.ListingTime,
			MinutesUntil: minutesUntil(now, sc.ListingTime),
		}
		if err := d.sender.Send(msg); err != nil {
			// Flag stays false so the next run retries.
			errs = append(errs, fmt.Errorf("%s notice for %s: %w", kind, sc.Symbol, err))
			continue
		}
		if err := d.store.MarkScheduleNotified(sc.ID); err != nil {
			logger.Warn("Sent %s notice for %s but failed to persist flag: %v", kind, sc.Symbol, err)
			errs = append(errs, err)
			continue
		}
		sent++
	}
	return sent, errs
}
