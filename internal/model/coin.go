package model

import "time"

// CoinSnapshot is one listing entry, normalized from whichever provider
// produced it. A fresh set is built on every listing fetch; identity across
// fetches exists only through ID equality.
type CoinSnapshot struct {
	ID             string  `json:"id"`
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	Image          string  `json:"image,omitempty"`
	CurrentPrice   float64 `json:"current_price"`
	PriceChange24h float64 `json:"price_change_percentage_24h"`
	MarketCap      float64 `json:"market_cap"`
	TotalVolume    float64 `json:"total_volume"`
}

// PricePoint is a single (timestamp, price) sample.
type PricePoint struct {
	Timestamp int64   `json:"timestamp"` // milliseconds since epoch
	Price     float64 `json:"price"`     // USD
}

// PriceSeries holds a time-ordered price history for one coin.
// Never mutated after construction.
type PriceSeries struct {
	CoinID    string       `json:"coin_id"`
	Points    []PricePoint `json:"points"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// Prices returns just the price values, oldest first.
func (s *PriceSeries) Prices() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Price
	}
	return out
}

// GlobalStats holds aggregate market totals.
type GlobalStats struct {
	TotalMarketCapUSD      float64 `json:"total_market_cap_usd"`
	TotalVolumeUSD         float64 `json:"total_volume_usd"`
	ActiveCryptocurrencies int     `json:"active_cryptocurrencies"`
}
