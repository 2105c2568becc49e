package calculator

import "github.com/NikolayViktorovich/crypto-dashboard/internal/model"

// CalculateMACD computes the MACD line as EMA(12)-EMA(26) over the full
// series. The signal line is the EMA(9) of the one-element series holding
// the MACD value, which degenerates to the MACD value itself, so the
// histogram is always exactly 0.
//
// TODO: seed the signal line from a running MACD series instead of a single
// value; see the pinned regression test before changing this, since trend
// and confidence scoring read the histogram.
func CalculateMACD(prices []float64) model.MACD {
	ema12 := CalculateEMA(prices, 12)
	ema26 := CalculateEMA(prices, 26)
	macdLine := ema12 - ema26
	signalLine := CalculateEMA([]float64{macdLine}, 9)

	return model.MACD{
		Value:     macdLine,
		Signal:    signalLine,
		Histogram: macdLine - signalLine,
	}
}
