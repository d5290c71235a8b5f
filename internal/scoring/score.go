package scoring

import (
	"math"

	"github.com/ohakidev/binance-alpha-tool-sub001/internal/models"
)

// The stability score uses the 100-minus-penalties formulation: start from a
// base of 100, subtract tiered penalties for 24h swing and intraday range,
// add tiered bonuses for volume and liquidity depth, then clamp to [0,100].
//
// Penalties and bonuses are independent and additive, which keeps the score
// monotonic: holding everything else fixed, a larger price swing can only
// lower the score and deeper liquidity can only raise it.
const baseScore = 100.0

// spreadRiskyBps is the spread above which a LOW risk rating degrades to
// MEDIUM regardless of score. 1500 bps is a 15% intraday range.
const spreadRiskyBps = 1500.0

// trendThresholdPct is the 24h move beyond which trend is UP/DOWN.
const trendThresholdPct = 2.5

// Score derives the stability assessment for one normalized token.
func Score(m models.Metrics) models.ScoreResult {
	score := baseScore
	score -= swingPenalty(math.Abs(m.PctChange24h))
	score -= rangePenalty(rangeRatio(m))
	score += volumeBonus(m.Volume24h)
	score += liquidityBonus(m.Liquidity)

	// Baseline 1× point multiplier marks established listings; boosted
	// multipliers flag promotional (and typically younger) tokens.
	if m.MulPoint == 1 {
		score += 2
	}

	score = clamp(score, 0, 100)

	spread := SpreadBps(m.High24h, m.Low24h, m.Price)
	volatility := math.Max(0, 0.6*math.Abs(m.PctChange24h)+0.4*rangeRatio(m)*100)

	return models.ScoreResult{
		StabilityScore:  score,
		RiskLevel:       riskLevel(score, spread),
		VolatilityIndex: volatility,
		SpreadBps:       spread,
		Trend:           trend(m.PctChange24h),
	}
}

// SpreadBps returns the intraday high-low range normalized to last price, in
// basis points. Non-positive prices and inverted ranges clamp to 0.
func SpreadBps(high, low, price float64) float64 {
	if price <= 0 {
		return 0
	}
	return math.Max(0, (high-low)/price*10000)
}

// rangeRatio is the intraday high-low range relative to last price.
func rangeRatio(m models.Metrics) float64 {
	if m.Price <= 0 {
		return 0
	}
	return math.Max(0, (m.High24h-m.Low24h)/m.Price)
}

// swingPenalty tiers on the magnitude of the 24h percentage change.
func swingPenalty(absPct float64) float64 {
	switch {
	case absPct > 50:
		return 40
	case absPct > 30:
		return 30
	case absPct > 20:
		return 20
	case absPct > 10:
		return 10
	case absPct > 5:
		return 5
	default:
		return 0
	}
}

// rangePenalty tiers on the intraday range ratio.
func rangePenalty(ratio float64) float64 {
	switch {
	case ratio > 0.5:
		return 25
	case ratio > 0.3:
		return 15
	case ratio > 0.15:
		return 8
	case ratio > 0.05:
		return 3
	default:
		return 0
	}
}

// volumeBonus tiers on traded 24h volume in USD.
func volumeBonus(volume float64) float64 {
	switch {
	case volume >= 10_000_000:
		return 10
	case volume >= 1_000_000:
		return 6
	case volume >= 100_000:
		return 3
	default:
		return 0
	}
}

// liquidityBonus tiers on liquidity depth in USD.
func liquidityBonus(liquidity float64) float64 {
	switch {
	case liquidity >= 5_000_000:
		return 10
	case liquidity >= 1_000_000:
		return 6
	case liquidity >= 100_000:
		return 3
	default:
		return 0
	}
}

// riskLevel steps on the stability score, with a spread override: a wide
// intraday spread keeps an otherwise calm token out of the LOW bucket.
func riskLevel(score, spreadBps float64) string {
	var level string
	switch {
	case score >= 75:
		level = models.RiskLow
	case score >= 50:
		level = models.RiskMedium
	case score >= 25:
		level = models.RiskHigh
	default:
		level = models.RiskVeryHigh
	}
	if level == models.RiskLow && spreadBps > spreadRiskyBps {
		level = models.RiskMedium
	}
	return level
}

func trend(pctChange float64) string {
	switch {
	case pctChange > trendThresholdPct:
		return models.TrendUp
	case pctChange < -trendThresholdPct:
		return models.TrendDown
	default:
		return models.TrendStable
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
