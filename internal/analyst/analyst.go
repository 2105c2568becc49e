package analyst

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/NikolayViktorovich/crypto-dashboard/internal/calculator"
	"github.com/NikolayViktorovich/crypto-dashboard/internal/metrics"
	"github.com/NikolayViktorovich/crypto-dashboard/internal/model"
)

const (
	analysisMaxChars = 500
	truncationMarker = "..."
	fallbackAnalysis = "AI analysis is temporarily unavailable. Technical indicators are used for a baseline assessment."
)

var successRisks = []string{
	"High market volatility",
	"Regulatory risks",
	"Market correlation",
}

var successOpportunities = []string{
	"Technical indicators show growth potential",
	"Strong fundamentals",
	"Favorable market conditions",
}

var fallbackRisks = []string{"AI analysis temporarily unavailable"}

var fallbackOpportunities = []string{"Do your own research before acting"}

// Analyst produces predictions for the dashboard. The generation backend is
// optional: without one every analysis resolves to the indicator-only
// fallback.
type Analyst struct {
	gen     Generator
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time

	// Seeded source for the target perturbation, replacing the reference's
	// unseeded randomness so tests are reproducible. Guarded because
	// rand.Rand is not safe for concurrent use.
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates an Analyst. gen may be nil when no backend is configured.
// seed 0 selects a time-based seed.
func New(gen Generator, m *metrics.Metrics, logger *slog.Logger, seed int64) *Analyst {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Analyst{
		gen:     gen,
		metrics: m,
		logger:  logger,
		now:     time.Now,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Analyze builds the full prediction for one coin. It may suspend on network
// I/O but never returns an error: any backend failure resolves to the
// fallback construction.
func (a *Analyst) Analyze(ctx context.Context, coin model.CoinSnapshot, history *model.PriceSeries, summary model.MarketSummary) model.Prediction {
	a.metrics.AnalysesTotal.Inc()

	var prices []float64
	if history != nil {
		prices = history.Prices()
	}
	ind := calculator.Compute(prices)

	text, err := a.generate(ctx, BuildAnalysisPrompt(coin, history, ind, summary))
	if err != nil {
		a.logger.Warn("generation backend failed, using fallback", "coin", coin.ID, "error", err)
		a.metrics.FallbacksTotal.Inc()
		return a.fallback(coin, ind)
	}

	trend := determineTrend(ind)
	confidence := calculateConfidence(ind)
	return model.Prediction{
		Trend:          trend,
		Confidence:     confidence,
		Recommendation: recommend(trend, confidence),
		PriceTargets: model.PriceTargets{
			ShortTerm:  coin.CurrentPrice * (1 + a.perturb(0.05)),
			MediumTerm: coin.CurrentPrice * (1 + a.perturb(0.10)),
			LongTerm:   coin.CurrentPrice * (1 + a.perturb(0.15)),
		},
		KeyLevels: model.KeyLevels{
			Support:    supportLevels(coin.CurrentPrice),
			Resistance: resistanceLevels(coin.CurrentPrice),
		},
		Analysis:      truncate(text),
		Risks:         successRisks,
		Opportunities: successOpportunities,
		Timestamp:     a.now(),
	}
}

// QuickInsight produces the short chat-panel text. On backend failure it
// returns a templated analysis derived from the 24h change.
func (a *Analyst) QuickInsight(ctx context.Context, coin model.CoinSnapshot) (text string, fromFallback bool) {
	out, err := a.generate(ctx, BuildInsightPrompt(coin))
	if err != nil {
		a.logger.Warn("insight generation failed, using template", "coin", coin.ID, "error", err)
		return templatedInsight(coin, a.now()), true
	}
	return out, false
}

func (a *Analyst) generate(ctx context.Context, prompt string) (string, error) {
	if a.gen == nil {
		return "", fmt.Errorf("no generation backend configured")
	}
	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("empty generation result")
	}
	return text, nil
}

// fallback is the deterministic construction used whenever the generation
// backend fails: fixed target multipliers, fixed narrative, fallback lists.
func (a *Analyst) fallback(coin model.CoinSnapshot, ind model.TechnicalIndicators) model.Prediction {
	trend := determineTrend(ind)
	confidence := calculateConfidence(ind)
	return model.Prediction{
		Trend:          trend,
		Confidence:     confidence,
		Recommendation: recommend(trend, confidence),
		PriceTargets: model.PriceTargets{
			ShortTerm:  coin.CurrentPrice * 1.05,
			MediumTerm: coin.CurrentPrice * 1.15,
			LongTerm:   coin.CurrentPrice * 1.25,
		},
		KeyLevels: model.KeyLevels{
			Support:    supportLevels(coin.CurrentPrice),
			Resistance: resistanceLevels(coin.CurrentPrice),
		},
		Analysis:      fallbackAnalysis,
		Risks:         fallbackRisks,
		Opportunities: fallbackOpportunities,
		Fallback:      true,
		Timestamp:     a.now(),
	}
}

// determineTrend scores the indicators: RSI vs 50, MACD vs its signal line,
// SMA20 vs SMA50, each contributing +1/-1. Above +1 is bullish, below -1 is
// bearish. Independent of any generated text.
func determineTrend(ind model.TechnicalIndicators) model.Trend {
	score := 0
	if ind.RSI > 50 {
		score++
	} else if ind.RSI < 50 {
		score--
	}
	if ind.MACD.Value > ind.MACD.Signal {
		score++
	} else if ind.MACD.Value < ind.MACD.Signal {
		score--
	}
	if ind.MovingAverages.SMA20 > ind.MovingAverages.SMA50 {
		score++
	} else if ind.MovingAverages.SMA20 < ind.MovingAverages.SMA50 {
		score--
	}

	switch {
	case score > 1:
		return model.TrendBullish
	case score < -1:
		return model.TrendBearish
	default:
		return model.TrendNeutral
	}
}

// calculateConfidence starts at 50, adds 20 for an RSI extreme and 15 for a
// meaningful histogram, clamped to [5,95].
func calculateConfidence(ind model.TechnicalIndicators) float64 {
	confidence := 50.0
	if ind.RSI > 70 || ind.RSI < 30 {
		confidence += 20
	}
	if math.Abs(ind.MACD.Histogram) > 0.01 {
		confidence += 15
	}
	return math.Min(95, math.Max(5, confidence))
}

func recommend(trend model.Trend, confidence float64) model.Recommendation {
	switch {
	case trend == model.TrendBullish && confidence > 70:
		return model.RecStrongBuy
	case trend == model.TrendBullish:
		return model.RecBuy
	case trend == model.TrendBearish && confidence > 70:
		return model.RecStrongSell
	case trend == model.TrendBearish:
		return model.RecSell
	default:
		return model.RecHold
	}
}

// supportLevels returns three levels at 5%, 10% and 15% below price.
func supportLevels(price float64) []float64 {
	levels := make([]float64, 0, 3)
	for i := 1; i <= 3; i++ {
		levels = append(levels, price*(1-float64(i)*0.05))
	}
	return levels
}

// resistanceLevels returns three levels at 5%, 10% and 15% above price.
func resistanceLevels(price float64) []float64 {
	levels := make([]float64, 0, 3)
	for i := 1; i <= 3; i++ {
		levels = append(levels, price*(1+float64(i)*0.05))
	}
	return levels
}

// perturb draws a uniform value in [-band, band).
func (a *Analyst) perturb(band float64) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rng.Float64()*2*band - band
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= analysisMaxChars {
		return text + truncationMarker
	}
	return string(runes[:analysisMaxChars]) + truncationMarker
}

// templatedInsight is the chat-panel fallback: a fixed-shape analysis driven
// only by the 24h change.
func templatedInsight(coin model.CoinSnapshot, now time.Time) string {
	change := coin.PriceChange24h

	trend := "neutral"
	if change > 0 {
		trend = "bullish"
	} else if change < 0 {
		trend = "bearish"
	}

	recommendation := "HOLD"
	if change > 10 {
		recommendation = "BUY"
	} else if change < -10 {
		recommendation = "SELL"
	}

	rationale := "The market is consolidating."
	if change > 5 {
		rationale = "Positive momentum points to buyer interest."
	} else if change < -5 {
		rationale = "The correction may present an entry opportunity."
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Analysis of %s (%s):\n\n", coin.Name, strings.ToUpper(coin.Symbol)))
	b.WriteString("TECHNICAL VIEW:\n")
	b.WriteString(fmt.Sprintf("- Trend: %s\n", trend))
	b.WriteString(fmt.Sprintf("- Price: $%v\n", coin.CurrentPrice))
	b.WriteString(fmt.Sprintf("- 24h change: %v%%\n\n", change))
	b.WriteString(fmt.Sprintf("RECOMMENDATION: %s\n\n", recommendation))
	b.WriteString(fmt.Sprintf("RATIONALE:\n%s\n\n", rationale))
	b.WriteString("RISKS:\n- Crypto market volatility\n- Broad market correlation\n\n")
	b.WriteString(fmt.Sprintf("Updated: %s", now.Format("2006-01-02 15:04")))
	return b.String()
}
