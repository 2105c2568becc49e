package market

import (
	"context"
	"time"

	"github.com/NikolayViktorovich/crypto-dashboard/internal/model"
)

// MockProvider returns controllable fixed data for development and testing.
type MockProvider struct {
	Coins  []model.CoinSnapshot
	Series *model.PriceSeries
	Stats  *model.GlobalStats
	Err    error
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) ListCoins(_ context.Context, limit int) ([]model.CoinSnapshot, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Coins != nil {
		if len(m.Coins) > limit {
			return m.Coins[:limit], nil
		}
		return m.Coins, nil
	}
	return generateMockCoins(limit), nil
}

func (m *MockProvider) PriceHistory(_ context.Context, coinID string, days int) (*model.PriceSeries, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Series != nil {
		return m.Series, nil
	}
	return generateMockSeries(coinID, days), nil
}

func (m *MockProvider) GlobalStats(_ context.Context) (*model.GlobalStats, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Stats != nil {
		return m.Stats, nil
	}
	return &model.GlobalStats{
		TotalMarketCapUSD:      2.4e12,
		TotalVolumeUSD:         9.8e10,
		ActiveCryptocurrencies: 12000,
	}, nil
}

func generateMockCoins(n int) []model.CoinSnapshot {
	base := []model.CoinSnapshot{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: 63000, PriceChange24h: 1.8, MarketCap: 1.2e12, TotalVolume: 3.1e10},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum", CurrentPrice: 3100, PriceChange24h: -0.7, MarketCap: 3.8e11, TotalVolume: 1.4e10},
		{ID: "solana", Symbol: "sol", Name: "Solana", CurrentPrice: 145, PriceChange24h: 3.2, MarketCap: 6.5e10, TotalVolume: 2.9e9},
	}
	if n < len(base) {
		return base[:n]
	}
	return base
}

func generateMockSeries(coinID string, days int) *model.PriceSeries {
	now := time.Now()
	points := make([]model.PricePoint, days)
	for i := 0; i < days; i++ {
		p := 100 * (1 + float64(i-days/2)*0.002)
		points[i] = model.PricePoint{
			Timestamp: now.AddDate(0, 0, -(days - i)).UnixMilli(),
			Price:     p,
		}
	}
	return &model.PriceSeries{CoinID: coinID, Points: points, FetchedAt: now}
}
