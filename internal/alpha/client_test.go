package alpha

import (
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const sampleBody = `{
	"code": "000000",
	"message": null,
	"data": [
		{
			"symbol": "AAA",
			"name": "Alpha Token",
			"chainId": "56",
			"chainName": "BNB Smart Chain",
			"price": "0.042",
			"percentChange24h": "-3.2",
			"volume24h": "1500000",
			"liquidity": "800000",
			"mulPoint": "2",
			"listingCex": true,
			"hasActiveAirdrop": true,
			"listingTime": 1750000000000
		},
		{
			"symbol": "BBB",
			"price": "not-a-number",
			"listingTime": 0
		}
	]
}`

func newTestClient(url string) *Client {
	return NewClient(url, 2*time.Second, ClientConfig{MaxRetries: 2, RetryDelayBase: 10 * time.Millisecond})
}

func TestFetchTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != tokenListPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	tokens, err := newTestClient(srv.URL).FetchTokens(context.Background())
	if err != nil {
		t.Fatalf("FetchTokens failed: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(tokens))
	}
	if tokens[0].Symbol != "AAA" || !tokens[0].AirdropActive || tokens[0].ListingTime != 1750000000000 {
		t.Errorf("first token = %+v", tokens[0])
	}
	// Malformed numerics pass through raw; coercion is the normalizer's job.
	if tokens[1].Price != "not-a-number" {
		t.Errorf("raw price = %q", tokens[1].Price)
	}
}

func TestFetchTokensGzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept-Encoding") != "gzip" {
			t.Errorf("gzip not requested")
		}
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(sampleBody))
		_ = gz.Close()
	}))
	defer srv.Close()

	tokens, err := newTestClient(srv.URL).FetchTokens(context.Background())
	if err != nil {
		t.Fatalf("FetchTokens with gzip failed: %v", err)
	}
	if len(tokens) != 2 || tokens[0].Symbol != "AAA" {
		t.Errorf("tokens = %+v", tokens)
	}
}

func TestFetchTokensNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchTokens(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if fe.Status != http.StatusForbidden {
		t.Errorf("Status = %d, want 403", fe.Status)
	}
}

func TestFetchTokensMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchTokens(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError for malformed payload, got %v", err)
	}
}

func TestFetchTokensProviderErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"100500","message":"system busy","data":null}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchTokens(context.Background())
	if err == nil {
		t.Fatal("expected error for provider error code")
	}
}

func TestFetchTokensRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	tokens, err := newTestClient(srv.URL).FetchTokens(context.Background())
	if err != nil {
		t.Fatalf("FetchTokens failed after retry: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if len(tokens) != 2 {
		t.Errorf("tokens = %d, want 2", len(tokens))
	}
}

func TestFetchTokensRespectsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := newTestClient(srv.URL).FetchTokens(ctx)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("fetch did not terminate promptly on deadline: %v", elapsed)
	}
}

func TestBackoffCapped(t *testing.T) {
	base := time.Second
	if d := backoff(base, 0); d != time.Second {
		t.Errorf("backoff(0) = %v", d)
	}
	if d := backoff(base, 3); d != 8*time.Second {
		t.Errorf("backoff(3) = %v", d)
	}
	if d := backoff(base, 10); d != maxBackoff {
		t.Errorf("backoff(10) = %v, want cap %v", d, maxBackoff)
	}
	if d := backoff(base, 63); d != maxBackoff {
		t.Errorf("backoff(63) = %v, want cap (no overflow)", d)
	}
}
