// Package market fetches listings, price history and global stats from
// interchangeable upstream data providers and normalizes their payloads to
// the internal schema at the boundary, so nothing downstream branches on
// provider identity.
package market

import (
	"context"
	"errors"

	"github.com/NikolayViktorovich/crypto-dashboard/internal/model"
)

// ErrMissingAPIKey is returned when a provider requiring credentials is used
// without them. Not retried.
var ErrMissingAPIKey = errors.New("market: api key not configured")

// Provider defines the interface for fetching normalized market data.
type Provider interface {
	// ListCoins returns the top coins by market cap, at most limit entries.
	ListCoins(ctx context.Context, limit int) ([]model.CoinSnapshot, error)

	// PriceHistory returns the price series for one coin over the last
	// `days` days, ordered oldest first.
	PriceHistory(ctx context.Context, coinID string, days int) (*model.PriceSeries, error)

	// GlobalStats returns aggregate market totals.
	GlobalStats(ctx context.Context) (*model.GlobalStats, error)

	Name() string
}
