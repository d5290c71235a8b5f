package models

// Risk levels, ordered from least to most risky.
const (
	RiskLow      = "LOW"
	RiskMedium   = "MEDIUM"
	RiskHigh     = "HIGH"
	RiskVeryHigh = "VERY_HIGH"
)

// Price trends over the trailing 24 hours.
const (
	TrendUp     = "UP"
	TrendDown   = "DOWN"
	TrendStable = "STABLE"
)

// Metrics is the numeric-safe view of one raw token record. Every field is a
// finite float64; parse failures in the source payload coerce to 0.
type Metrics struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Chain        string  `json:"chain"` // canonical chain name
	Price        float64 `json:"price"`
	PctChange24h float64 `json:"pct_change_24h"`
	High24h      float64 `json:"high_24h"`
	Low24h       float64 `json:"low_24h"`
	Volume24h    float64 `json:"volume_24h"`
	MarketCap    float64 `json:"market_cap"`
	Liquidity    float64 `json:"liquidity"`
	Holders      float64 `json:"holders"`
	MulPoint     float64 `json:"mul_point"`
}

// ScoreResult is the derived stability assessment for one token. It is a pure
// function of Metrics: identical input always yields an identical result.
type ScoreResult struct {
	StabilityScore  float64 `json:"stability_score"`  // 0–100
	RiskLevel       string  `json:"risk_level"`       // LOW..VERY_HIGH
	VolatilityIndex float64 `json:"volatility_index"` // >= 0
	SpreadBps       float64 `json:"spread_bps"`       // >= 0
	Trend           string  `json:"trend"`            // UP/DOWN/STABLE
}

// TokenInsight is the read-API view of one token: its normalized metrics,
// stability assessment, and current lifecycle status. Served from the
// stale-fallback cache.
type TokenInsight struct {
	Symbol  string      `json:"symbol"`
	Name    string      `json:"name"`
	Chain   string      `json:"chain"`
	Status  string      `json:"status"`
	Metrics Metrics     `json:"metrics"`
	Score   ScoreResult `json:"score"`
}
