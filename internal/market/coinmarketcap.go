package market

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/NikolayViktorovich/crypto-dashboard/internal/model"
)

const coinmarketcapBaseURL = "https://pro-api.coinmarketcap.com"

// CoinMarketCap implements Provider using the CoinMarketCap Pro API.
// Requires an API key; every operation fails immediately without one.
type CoinMarketCap struct {
	baseURL string
	apiKey  string
	client  *apiClient
}

// NewCoinMarketCap creates a CoinMarketCap provider. baseURL may be empty to
// use the production endpoint.
func NewCoinMarketCap(baseURL, apiKey, proxyURL string, logger *slog.Logger) *CoinMarketCap {
	if baseURL == "" {
		baseURL = coinmarketcapBaseURL
	}
	return &CoinMarketCap{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  newAPIClient(proxyURL, 0.5, logger),
	}
}

func (c *CoinMarketCap) Name() string { return "coinmarketcap" }

func (c *CoinMarketCap) headers() map[string]string {
	return map[string]string{"X-CMC_PRO_API_KEY": c.apiKey}
}

type cmcQuote struct {
	Price            float64 `json:"price"`
	Volume24h        float64 `json:"volume_24h"`
	PercentChange24h float64 `json:"percent_change_24h"`
	MarketCap        float64 `json:"market_cap"`
}

type cmcListingEntry struct {
	ID     int                 `json:"id"`
	Name   string              `json:"name"`
	Symbol string              `json:"symbol"`
	Slug   string              `json:"slug"`
	Quote  map[string]cmcQuote `json:"quote"`
}

type cmcListingResponse struct {
	Data []cmcListingEntry `json:"data"`
}

func (c *CoinMarketCap) ListCoins(ctx context.Context, limit int) ([]model.CoinSnapshot, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	endpoint := fmt.Sprintf("%s/v1/cryptocurrency/listings/latest?limit=%d", c.baseURL, limit)

	var resp cmcListingResponse
	if err := c.client.getJSON(ctx, endpoint, c.headers(), &resp); err != nil {
		return nil, fmt.Errorf("coinmarketcap listing: %w", err)
	}

	coins := make([]model.CoinSnapshot, 0, len(resp.Data))
	for _, e := range resp.Data {
		usd := e.Quote["USD"]
		coins = append(coins, model.CoinSnapshot{
			ID:             strconv.Itoa(e.ID),
			Symbol:         e.Symbol,
			Name:           e.Name,
			Image:          fmt.Sprintf("https://coinmarketcap.com/currencies/%s/logo.png", e.Slug),
			CurrentPrice:   usd.Price,
			PriceChange24h: usd.PercentChange24h,
			MarketCap:      usd.MarketCap,
			TotalVolume:    usd.Volume24h,
		})
	}
	if len(coins) > limit {
		coins = coins[:limit]
	}
	return coins, nil
}

type cmcQuoteResponse struct {
	Data map[string]cmcListingEntry `json:"data"`
}

// PriceHistory on the CoinMarketCap free tier has no historical endpoint, so
// this returns a single-point series from the latest quote. Downstream
// indicator math treats the short series with its defined defaults.
func (c *CoinMarketCap) PriceHistory(ctx context.Context, coinID string, days int) (*model.PriceSeries, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if coinID == "" {
		return nil, fmt.Errorf("coinmarketcap history: empty coin id")
	}
	endpoint := fmt.Sprintf("%s/v1/cryptocurrency/quotes/latest?id=%s", c.baseURL, url.QueryEscape(coinID))

	var resp cmcQuoteResponse
	if err := c.client.getJSON(ctx, endpoint, c.headers(), &resp); err != nil {
		return nil, fmt.Errorf("coinmarketcap history: %w", err)
	}
	entry, ok := resp.Data[coinID]
	if !ok {
		return nil, fmt.Errorf("coinmarketcap history: coin %s not found", coinID)
	}

	return &model.PriceSeries{
		CoinID: coinID,
		Points: []model.PricePoint{
			{Timestamp: time.Now().UnixMilli(), Price: entry.Quote["USD"].Price},
		},
		FetchedAt: time.Now(),
	}, nil
}

type cmcGlobalResponse struct {
	Data struct {
		ActiveCryptocurrencies int `json:"active_cryptocurrencies"`
		Quote                  map[string]struct {
			TotalMarketCap float64 `json:"total_market_cap"`
			TotalVolume24h float64 `json:"total_volume_24h"`
		} `json:"quote"`
	} `json:"data"`
}

func (c *CoinMarketCap) GlobalStats(ctx context.Context) (*model.GlobalStats, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	endpoint := c.baseURL + "/v1/global-metrics/quotes/latest"

	var resp cmcGlobalResponse
	if err := c.client.getJSON(ctx, endpoint, c.headers(), &resp); err != nil {
		return nil, fmt.Errorf("coinmarketcap global: %w", err)
	}
	usd := resp.Data.Quote["USD"]
	return &model.GlobalStats{
		TotalMarketCapUSD:      usd.TotalMarketCap,
		TotalVolumeUSD:         usd.TotalVolume24h,
		ActiveCryptocurrencies: resp.Data.ActiveCryptocurrencies,
	}, nil
}
