package calculator

// CalculateEMA computes an exponential moving average with multiplier
// 2/(period+1), seeded from the first price and applied across every
// remaining point. A series shorter than the period yields the last price
// unchanged.
func CalculateEMA(prices []float64, period int) float64 {
	if len(prices) == 0 {
		return 0
	}
	if len(prices) < period {
		return prices[len(prices)-1]
	}

	multiplier := 2 / float64(period+1)
	ema := prices[0]
	for i := 1; i < len(prices); i++ {
		ema = (prices[i]-ema)*multiplier + ema
	}
	return ema
}
