package calculator

// DefaultRSIPeriod is the lookback used by Compute.
const DefaultRSIPeriod = 14

// CalculateRSI computes the Relative Strength Index over the first `period`
// consecutive price deltas. Returns 50 (neutral) when fewer than period+1
// prices are available, so sparse data never signals a false extreme.
// Returns 100 when no losses were observed in the window.
//
// Note: only the first `period` deltas are examined, not a trailing window
// over the whole series. Charting packages usually do the latter; this form
// is kept for parity with the reference behavior.
func CalculateRSI(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return 50
	}

	var gains, losses float64
	for i := 1; i <= period; i++ {
		diff := prices[i] - prices[i-1]
		if diff >= 0 {
			gains += diff
		} else {
			losses -= diff
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
