// Package calculator computes technical indicators from an ordered price
// series. Every function is pure and total: degenerate inputs (empty or
// short series, zero denominators) yield defined defaults, never an error.
package calculator

import "github.com/NikolayViktorovich/crypto-dashboard/internal/model"

// Compute derives the full indicator set from an ordered price series.
// Deterministic for a fixed input.
func Compute(prices []float64) model.TechnicalIndicators {
	return model.TechnicalIndicators{
		RSI:            CalculateRSI(prices, DefaultRSIPeriod),
		MACD:           CalculateMACD(prices),
		MovingAverages: CalculateMovingAverages(prices),
		Volatility:     CalculateVolatility(prices),
	}
}
