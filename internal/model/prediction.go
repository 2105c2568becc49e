package model

import "time"

// Trend classifies the indicator-derived market direction.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// Recommendation is the action derived from trend and confidence.
type Recommendation string

const (
	RecStrongBuy  Recommendation = "strong_buy"
	RecBuy        Recommendation = "buy"
	RecHold       Recommendation = "hold"
	RecSell       Recommendation = "sell"
	RecStrongSell Recommendation = "strong_sell"
)

// PriceTargets holds projected prices for three horizons.
type PriceTargets struct {
	ShortTerm  float64 `json:"short_term"`
	MediumTerm float64 `json:"medium_term"`
	LongTerm   float64 `json:"long_term"`
}

// KeyLevels holds support and resistance levels, nearest first.
type KeyLevels struct {
	Support    []float64 `json:"support"`
	Resistance []float64 `json:"resistance"`
}

// Prediction is the complete result of one analysis request. Constructed
// once, immutable afterwards, never persisted server-side.
type Prediction struct {
	Trend          Trend          `json:"trend"`
	Confidence     float64        `json:"confidence"` // integer-valued, clamped to [5,95]
	Recommendation Recommendation `json:"recommendation"`
	PriceTargets   PriceTargets   `json:"price_targets"`
	KeyLevels      KeyLevels      `json:"key_levels"`
	Analysis       string         `json:"analysis"`
	Risks          []string       `json:"risks"`
	Opportunities  []string       `json:"opportunities"`
	Fallback       bool           `json:"fallback"`
	Timestamp      time.Time      `json:"timestamp"`
}

// MarketSummary carries aggregate totals into prompt assembly. Either field
// may be zero when the global-stats fetch failed.
type MarketSummary struct {
	TotalMarketCapUSD float64 `json:"total_market_cap_usd"`
	TotalVolumeUSD    float64 `json:"total_volume_usd"`
}
