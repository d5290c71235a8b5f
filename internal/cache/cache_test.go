package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ohakidev/binance-alpha-tool-sub001/internal/models"
)

func snapshot(symbols ...string) []models.TokenInsight {
	out := make([]models.TokenInsight, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, models.TokenInsight{Symbol: s})
	}
	return out
}

func TestGetRespectsTTL(t *testing.T) {
	clock := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	c := New(30 * time.Second)
	c.now = func() time.Time { return clock }

	if _, ok := c.Get(); ok {
		t.Fatal("empty cache reported a snapshot")
	}

	c.Set(snapshot("AAA"))
	if v, ok := c.Get(); !ok || len(v) != 1 {
		t.Fatalf("fresh snapshot missing: ok=%v v=%v", ok, v)
	}

	clock = clock.Add(29 * time.Second)
	if _, ok := c.Get(); !ok {
		t.Error("snapshot expired before TTL")
	}

	clock = clock.Add(2 * time.Second)
	if _, ok := c.Get(); ok {
		t.Error("snapshot still fresh past TTL")
	}
	if _, ok := c.GetStale(); !ok {
		t.Error("stale snapshot should survive TTL expiry")
	}
}

func TestFetchRefreshesWhenExpired(t *testing.T) {
	clock := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	c := New(30 * time.Second)
	c.now = func() time.Time { return clock }

	loads := 0
	load := func(ctx context.Context) ([]models.TokenInsight, error) {
		loads++
		return snapshot("AAA"), nil
	}

	for i := 0; i < 3; i++ {
		if _, err := c.Fetch(context.Background(), load); err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
	}
	if loads != 1 {
		t.Errorf("loads = %d, want 1 while fresh", loads)
	}

	clock = clock.Add(time.Minute)
	if _, err := c.Fetch(context.Background(), load); err != nil {
		t.Fatalf("Fetch after expiry failed: %v", err)
	}
	if loads != 2 {
		t.Errorf("loads = %d, want 2 after expiry", loads)
	}
}

func TestFetchServesStaleOnFailure(t *testing.T) {
	clock := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	c := New(30 * time.Second)
	c.now = func() time.Time { return clock }

	c.Set(snapshot("AAA", "BBB"))
	clock = clock.Add(time.Minute)

	failing := func(ctx context.Context) ([]models.TokenInsight, error) {
		return nil, errors.New("upstream down")
	}
	v, err := c.Fetch(context.Background(), failing)
	if err != nil {
		t.Fatalf("stale fallback should suppress the error, got %v", err)
	}
	if len(v) != 2 {
		t.Errorf("stale snapshot = %v", v)
	}
}

func TestFetchPropagatesErrorWhenEmpty(t *testing.T) {
	c := New(30 * time.Second)
	wantErr := errors.New("upstream down")
	_, err := c.Fetch(context.Background(), func(ctx context.Context) ([]models.TokenInsight, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}
