// Package scoring holds the pure derivation logic of the pipeline: metric
// normalization, stability scoring, and lifecycle classification. Nothing in
// this package performs I/O or keeps state; identical input always yields
// identical output.
package scoring

import (
	"math"
	"strconv"
	"strings"

	"github.com/ohakidev/binance-alpha-tool-sub001/internal/alpha"
	"github.com/ohakidev/binance-alpha-tool-sub001/internal/models"
)

// chainByID maps known numeric chain identifiers to canonical names.
var chainByID = map[string]string{
	"1":     "ETH",
	"10":    "OP",
	"56":    "BSC",
	"137":   "POLYGON",
	"8453":  "BASE",
	"42161": "ARB",
	"501":   "SOL",
}

// chainAliases maps lowercase name substrings to canonical names, checked in
// order so the more specific aliases win.
var chainAliases = []struct {
	substr string
	name   string
}{
	{"bnb", "BSC"},
	{"bsc", "BSC"},
	{"binance", "BSC"},
	{"arb", "ARB"},
	{"base", "BASE"},
	{"matic", "POLYGON"},
	{"poly", "POLYGON"},
	{"sol", "SOL"},
	{"opt", "OP"},
	{"erc", "ETH"},
	{"eth", "ETH"},
}

// defaultChain is used when the source provides neither an identifier nor a
// name. Alpha listings overwhelmingly live on BNB Chain.
const defaultChain = "BSC"

// ResolveChain maps a raw (identifier, name) pair to a canonical chain name.
// A known numeric identifier wins; otherwise the lowercased name is matched
// against substring aliases; an unrecognized name passes through unchanged.
func ResolveChain(chainID, chainName string) string {
	if name, ok := chainByID[chainID]; ok {
		return name
	}
	if chainName == "" {
		return defaultChain
	}
	lower := strings.ToLower(chainName)
	for _, alias := range chainAliases {
		if strings.Contains(lower, alias.substr) {
			return alias.name
		}
	}
	return chainName
}

// parseFloat coerces an untrusted numeric string to a finite float64. Empty,
// non-numeric, NaN, and infinite inputs all yield 0; it never fails.
func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Normalize converts one raw token record into numeric-safe metrics. Parse
// failures default to 0 and the chain is resolved to its canonical name.
func Normalize(rec alpha.TokenRecord) models.Metrics {
	return models.Metrics{
		Symbol:       rec.Symbol,
		Name:         rec.Name,
		Chain:        ResolveChain(rec.ChainID, rec.ChainName),
		Price:        parseFloat(rec.Price),
		PctChange24h: parseFloat(rec.PctChange24h),
		High24h:      parseFloat(rec.High24h),
		Low24h:       parseFloat(rec.Low24h),
		Volume24h:    parseFloat(rec.Volume24h),
		MarketCap:    parseFloat(rec.MarketCap),
		Liquidity:    parseFloat(rec.Liquidity),
		Holders:      parseFloat(rec.Holders),
		MulPoint:     parseFloat(rec.MulPoint),
	}
}
