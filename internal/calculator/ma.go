package calculator

import "github.com/NikolayViktorovich/crypto-dashboard/internal/model"

// CalculateSMA computes the simple mean of the last min(period, len) prices.
// Never averages more points than exist; an empty series yields 0.
func CalculateSMA(prices []float64, period int) float64 {
	if len(prices) == 0 || period <= 0 {
		return 0
	}
	n := period
	if len(prices) < n {
		n = len(prices)
	}
	sum := 0.0
	for i := len(prices) - n; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(n)
}

// CalculateMovingAverages returns the 20/50/200 simple moving averages.
func CalculateMovingAverages(prices []float64) model.MovingAverages {
	return model.MovingAverages{
		SMA20:  CalculateSMA(prices, 20),
		SMA50:  CalculateSMA(prices, 50),
		SMA200: CalculateSMA(prices, 200),
	}
}
