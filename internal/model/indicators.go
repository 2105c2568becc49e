package model

// MACD holds the MACD line, its signal line and their difference.
type MACD struct {
	Value     float64 `json:"value"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// MovingAverages holds simple moving averages over the last 20/50/200 prices.
type MovingAverages struct {
	SMA20  float64 `json:"sma_20"`
	SMA50  float64 `json:"sma_50"`
	SMA200 float64 `json:"sma_200"`
}

// TechnicalIndicators holds all computed technical indicators. It is a pure
// function of a price series: same input, same output, no external state.
type TechnicalIndicators struct {
	RSI            float64        `json:"rsi"`
	MACD           MACD           `json:"macd"`
	MovingAverages MovingAverages `json:"moving_averages"`
	Volatility     float64        `json:"volatility"` // annualized stddev of simple returns
}
