// Package alpha provides a client for the Binance Alpha public token list
// endpoint. It handles transport-level concerns only: request construction,
// gzip-compressed responses, timeouts, and retry with capped exponential
// backoff. Field parsing and normalization live in the scoring package.
package alpha

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const tokenListPath = "/bapi/defi/v1/public/wallet-direct/buw/wallet/cex/alpha/all/token/list"

// TokenRecord is one raw token entry as returned by the provider. Numeric
// fields arrive as strings and are untrusted; they are coerced to safe values
// by scoring.Normalize and the record is discarded after normalization.
type TokenRecord struct {
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	ChainID      string `json:"chainId"`
	ChainName    string `json:"chainName"`
	Price        string `json:"price"`
	PctChange24h string `json:"percentChange24h"`
	High24h      string `json:"high24h"`
	Low24h       string `json:"low24h"`
	Volume24h    string `json:"volume24h"`
	MarketCap    string `json:"marketCap"`
	Liquidity    string `json:"liquidity"`
	Holders      string `json:"holders"`
	MulPoint     string `json:"mulPoint"`

	Listed        bool `json:"listingCex"`
	AirdropActive bool `json:"hasActiveAirdrop"`
	EventActive   bool `json:"hasActiveLaunchEvent"`
	Offline       bool `json:"isOffline"`
	Delisted      bool `json:"isDelisted"`

	ListingTime int64 `json:"listingTime"` // epoch ms, 0 when unscheduled
	EndTime     int64 `json:"eventEndTime"`
}

// FetchError is a transport-level fetch failure: timeout, non-success status,
// or a malformed payload. The sync run treats it as degradation, not a crash.
type FetchError struct {
	Status int // HTTP status, 0 when the request never completed
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("alpha fetch failed with status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("alpha fetch failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ClientConfig holds tunables for the HTTP client.
type ClientConfig struct {
	MaxRetries     int
	RetryDelayBase time.Duration
}

// Client provides access to the Binance Alpha token list API.
type Client struct {
	apiBaseURL     string
	httpClient     *http.Client
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Alpha client with the given base URL and timeout.
func NewClient(apiBaseURL string, timeout time.Duration, cfg ClientConfig) *Client {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelayBase <= 0 {
		cfg.RetryDelayBase = time.Second
	}
	return &Client{
		apiBaseURL:     apiBaseURL,
		httpClient:     &http.Client{Timeout: timeout},
		maxRetries:     cfg.MaxRetries,
		retryDelayBase: cfg.RetryDelayBase,
	}
}

// FetchTokens retrieves the full Alpha token list. It returns raw records;
// every failure mode (network, non-2xx, bad envelope) surfaces as *FetchError.
func (c *Client) FetchTokens(ctx context.Context) ([]TokenRecord, error) {
	resp, err := c.doRequest(ctx, c.apiBaseURL+tokenListPath)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := decodeBody(resp)
	if err != nil {
		return nil, &FetchError{Status: resp.StatusCode, Err: err}
	}

	var envelope struct {
		Code    string        `json:"code"`
		Message string        `json:"message"`
		Data    []TokenRecord `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &FetchError{Status: resp.StatusCode, Err: fmt.Errorf("malformed payload: %w", err)}
	}
	if envelope.Code != "" && envelope.Code != "000000" {
		return nil, &FetchError{Status: resp.StatusCode, Err: fmt.Errorf("provider error code %s: %s", envelope.Code, envelope.Message)}
	}

	return envelope.Data, nil
}

// decodeBody reads the response body, decompressing it when the provider
// answers with Content-Encoding: gzip. The transport's automatic
// decompression is bypassed because we request gzip explicitly.
func decodeBody(resp *http.Response) ([]byte, error) {
	reader := io.Reader(resp.Body)
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("bad gzip body: %w", err)
		}
		defer gz.Close()
		reader = gz
	}
	return io.ReadAll(reader)
}

// doRequest performs the GET with retry on transient failures. Backoff is
// exponential (base × 2^attempt) and respects context cancellation, so a
// caller deadline terminates the fetch promptly.
func (c *Client) doRequest(ctx context.Context, url string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, &FetchError{Err: ctx.Err()}
			case <-time.After(backoff(c.retryDelayBase, attempt-1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, &FetchError{Err: err}
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Accept-Encoding", "gzip")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, &FetchError{Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
		}

		return resp, nil
	}

	return nil, &FetchError{Err: fmt.Errorf("max retries exceeded: %w", lastErr)}
}

const maxBackoff = 30 * time.Second

// backoff returns base × 2^n, capped at maxBackoff.
func backoff(base time.Duration, n int) time.Duration {
	if n < 0 {
		return base
	}
	if n > 20 {
		return maxBackoff
	}
	d := base * time.Duration(1<<n)
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}
