package market

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/NikolayViktorovich/crypto-dashboard/internal/model"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGecko implements Provider using the public CoinGecko v3 API.
// No credentials required.
type CoinGecko struct {
	baseURL string
	client  *apiClient
}

// NewCoinGecko creates a CoinGecko provider. baseURL may be empty to use the
// public endpoint; it is overridable for tests.
func NewCoinGecko(baseURL, proxyURL string, logger *slog.Logger) *CoinGecko {
	if baseURL == "" {
		baseURL = coingeckoBaseURL
	}
	return &CoinGecko{
		baseURL: baseURL,
		// Public CoinGecko allows roughly 30 calls/min.
		client: newAPIClient(proxyURL, 0.5, logger),
	}
}

func (g *CoinGecko) Name() string { return "coingecko" }

type cgMarketEntry struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	Image                    string  `json:"image"`
	CurrentPrice             float64 `json:"current_price"`
	MarketCap                float64 `json:"market_cap"`
	TotalVolume              float64 `json:"total_volume"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
}

func (g *CoinGecko) ListCoins(ctx context.Context, limit int) ([]model.CoinSnapshot, error) {
	endpoint := fmt.Sprintf(
		"%s/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=%d&page=1&sparkline=false",
		g.baseURL, limit)

	var entries []cgMarketEntry
	if err := g.client.getJSON(ctx, endpoint, nil, &entries); err != nil {
		return nil, fmt.Errorf("coingecko listing: %w", err)
	}

	coins := make([]model.CoinSnapshot, len(entries))
	for i, e := range entries {
		coins[i] = model.CoinSnapshot{
			ID:             e.ID,
			Symbol:         e.Symbol,
			Name:           e.Name,
			Image:          e.Image,
			CurrentPrice:   e.CurrentPrice,
			PriceChange24h: e.PriceChangePercentage24h,
			MarketCap:      e.MarketCap,
			TotalVolume:    e.TotalVolume,
		}
	}
	return coins, nil
}

// cgMarketChart is the market_chart response: arrays of [timestamp_ms, value].
type cgMarketChart struct {
	Prices [][2]float64 `json:"prices"`
}

func (g *CoinGecko) PriceHistory(ctx context.Context, coinID string, days int) (*model.PriceSeries, error) {
	if coinID == "" {
		return nil, fmt.Errorf("coingecko history: empty coin id")
	}
	endpoint := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d",
		g.baseURL, url.PathEscape(coinID), days)

	var chart cgMarketChart
	if err := g.client.getJSON(ctx, endpoint, nil, &chart); err != nil {
		return nil, fmt.Errorf("coingecko history: %w", err)
	}

	points := make([]model.PricePoint, len(chart.Prices))
	for i, p := range chart.Prices {
		points[i] = model.PricePoint{Timestamp: int64(p[0]), Price: p[1]}
	}
	return &model.PriceSeries{
		CoinID:    coinID,
		Points:    points,
		FetchedAt: time.Now(),
	}, nil
}

type cgGlobalResponse struct {
	Data struct {
		TotalMarketCap         map[string]float64 `json:"total_market_cap"`
		TotalVolume            map[string]float64 `json:"total_volume"`
		ActiveCryptocurrencies int                `json:"active_cryptocurrencies"`
	} `json:"data"`
}

func (g *CoinGecko) GlobalStats(ctx context.Context) (*model.GlobalStats, error) {
	var resp cgGlobalResponse
	if err := g.client.getJSON(ctx, g.baseURL+"/global", nil, &resp); err != nil {
		return nil, fmt.Errorf("coingecko global: %w", err)
	}
	return &model.GlobalStats{
		TotalMarketCapUSD:      resp.Data.TotalMarketCap["usd"],
		TotalVolumeUSD:         resp.Data.TotalVolume["usd"],
		ActiveCryptocurrencies: resp.Data.ActiveCryptocurrencies,
	}, nil
}
