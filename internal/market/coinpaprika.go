package market

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/NikolayViktorovich/crypto-dashboard/internal/model"
)

const coinpaprikaBaseURL = "https://api.coinpaprika.com/v1"

// Coinpaprika implements Provider using the public Coinpaprika API.
// No credentials required. Listings carry no image URLs; the service layer
// fills those in from a second source when one is configured.
type Coinpaprika struct {
	baseURL string
	client  *apiClient
}

// NewCoinpaprika creates a Coinpaprika provider. baseURL may be empty to use
// the public endpoint.
func NewCoinpaprika(baseURL, proxyURL string, logger *slog.Logger) *Coinpaprika {
	if baseURL == "" {
		baseURL = coinpaprikaBaseURL
	}
	return &Coinpaprika{
		baseURL: baseURL,
		client:  newAPIClient(proxyURL, 0.5, logger),
	}
}

func (p *Coinpaprika) Name() string { return "coinpaprika" }

type paprikaTicker struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Rank   int    `json:"rank"`
	Quotes map[string]struct {
		Price            float64 `json:"price"`
		Volume24h        float64 `json:"volume_24h"`
		MarketCap        float64 `json:"market_cap"`
		PercentChange24h float64 `json:"percent_change_24h"`
	} `json:"quotes"`
}

func (p *Coinpaprika) ListCoins(ctx context.Context, limit int) ([]model.CoinSnapshot, error) {
	endpoint := fmt.Sprintf("%s/tickers?quotes=USD&limit=%d", p.baseURL, limit)

	var tickers []paprikaTicker
	if err := p.client.getJSON(ctx, endpoint, nil, &tickers); err != nil {
		return nil, fmt.Errorf("coinpaprika listing: %w", err)
	}

	coins := make([]model.CoinSnapshot, 0, limit)
	for _, t := range tickers {
		if len(coins) == limit {
			break
		}
		usd := t.Quotes["USD"]
		coins = append(coins, model.CoinSnapshot{
			ID:             t.ID,
			Symbol:         t.Symbol,
			Name:           t.Name,
			CurrentPrice:   usd.Price,
			PriceChange24h: usd.PercentChange24h,
			MarketCap:      usd.MarketCap,
			TotalVolume:    usd.Volume24h,
		})
	}
	return coins, nil
}

type paprikaHistoricalPoint struct {
	Timestamp string  `json:"timestamp"`
	Price     float64 `json:"price"`
}

func (p *Coinpaprika) PriceHistory(ctx context.Context, coinID string, days int) (*model.PriceSeries, error) {
	if coinID == "" {
		return nil, fmt.Errorf("coinpaprika history: empty coin id")
	}
	start := time.Now().AddDate(0, 0, -days).UTC().Format("2006-01-02")
	endpoint := fmt.Sprintf("%s/tickers/%s/historical?start=%s&interval=1d",
		p.baseURL, url.PathEscape(coinID), start)

	var raw []paprikaHistoricalPoint
	if err := p.client.getJSON(ctx, endpoint, nil, &raw); err != nil {
		return nil, fmt.Errorf("coinpaprika history: %w", err)
	}

	points := make([]model.PricePoint, 0, len(raw))
	for _, r := range raw {
		ts, err := time.Parse(time.RFC3339, r.Timestamp)
		if err != nil {
			continue // skip malformed timestamps, keep the rest
		}
		points = append(points, model.PricePoint{Timestamp: ts.UnixMilli(), Price: r.Price})
	}
	return &model.PriceSeries{
		CoinID:    coinID,
		Points:    points,
		FetchedAt: time.Now(),
	}, nil
}

type paprikaGlobal struct {
	MarketCapUSD          float64 `json:"market_cap_usd"`
	Volume24hUSD          float64 `json:"volume_24h_usd"`
	CryptocurrenciesCount int     `json:"cryptocurrencies_number"`
}

func (p *Coinpaprika) GlobalStats(ctx context.Context) (*model.GlobalStats, error) {
	var g paprikaGlobal
	if err := p.client.getJSON(ctx, p.baseURL+"/global", nil, &g); err != nil {
		return nil, fmt.Errorf("coinpaprika global: %w", err)
	}
	return &model.GlobalStats{
		TotalMarketCapUSD:      g.MarketCapUSD,
		TotalVolumeUSD:         g.Volume24hUSD,
		ActiveCryptocurrencies: g.CryptocurrenciesCount,
	}, nil
}
