package scoring

import (
	"testing"

	"github.com/ohakidev/binance-alpha-tool-sub001/internal/alpha"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"plain", "12.5", 12.5},
		{"integer", "7", 7},
		{"negative", "-3.25", -3.25},
		{"scientific", "1e3", 1000},
		{"whitespace", "  4.5 ", 4.5},
		{"empty", "", 0},
		{"null literal", "null", 0},
		{"garbage", "abc", 0},
		{"trailing garbage", "12x", 0},
		{"nan", "NaN", 0},
		{"inf", "+Inf", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFloat(tt.in); got != tt.want {
				t.Errorf("parseFloat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveChain(t *testing.T) {
	tests := []struct {
		name    string
		chainID string
		raw     string
		want    string
	}{
		{"known id wins", "56", "whatever", "BSC"},
		{"eth id", "1", "", "ETH"},
		{"bnb alias", "", "BNB Smart Chain", "BSC"},
		{"bsc alias", "", "bsc-mainnet", "BSC"},
		{"binance alias", "", "Binance Chain", "BSC"},
		{"sol alias", "", "Solana", "SOL"},
		{"arb alias", "", "Arbitrum One", "ARB"},
		{"matic alias", "", "Matic Network", "POLYGON"},
		{"unknown passes through", "", "Sui", "Sui"},
		{"both absent defaults", "", "", "BSC"},
		{"unknown id falls to name", "99999", "base mainnet", "BASE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveChain(tt.chainID, tt.raw); got != tt.want {
				t.Errorf("ResolveChain(%q, %q) = %q, want %q", tt.chainID, tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeMalformedRecord(t *testing.T) {
	// A record full of junk must still produce safe zeroed metrics.
	rec := alpha.TokenRecord{
		Symbol:       "JUNK",
		Price:        "not-a-number",
		PctChange24h: "",
		High24h:      "null",
		Low24h:       "NaN",
		Volume24h:    "12,000",
		MarketCap:    "∞",
		Liquidity:    "-",
		Holders:      "many",
		MulPoint:     "",
	}

	m := Normalize(rec)
	if m.Symbol != "JUNK" {
		t.Errorf("Symbol = %q, want JUNK", m.Symbol)
	}
	if m.Chain != "BSC" {
		t.Errorf("Chain = %q, want default BSC", m.Chain)
	}
	for name, v := range map[string]float64{
		"Price": m.Price, "PctChange24h": m.PctChange24h, "High24h": m.High24h,
		"Low24h": m.Low24h, "Volume24h": m.Volume24h, "MarketCap": m.MarketCap,
		"Liquidity": m.Liquidity, "Holders": m.Holders, "MulPoint": m.MulPoint,
	} {
		if v != 0 {
			t.Errorf("%s = %v, want 0 for malformed input", name, v)
		}
	}
}

func TestNormalizeWellFormedRecord(t *testing.T) {
	rec := alpha.TokenRecord{
		Symbol:       "GOOD",
		Name:         "Good Token",
		ChainID:      "56",
		Price:        "0.042",
		PctChange24h: "-3.2",
		High24h:      "0.05",
		Low24h:       "0.04",
		Volume24h:    "1500000",
		Liquidity:    "800000",
		Holders:      "12000",
		MulPoint:     "2",
	}

	m := Normalize(rec)
	if m.Price != 0.042 || m.PctChange24h != -3.2 || m.Volume24h != 1500000 {
		t.Errorf("unexpected metrics: %+v", m)
	}
	if m.Chain != "BSC" {
		t.Errorf("Chain = %q, want BSC", m.Chain)
	}
	if m.MulPoint != 2 {
		t.Errorf("MulPoint = %v, want 2", m.MulPoint)
	}
}
