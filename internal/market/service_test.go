package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/NikolayViktorovich/crypto-dashboard/internal/metrics"
	"github.com/NikolayViktorovich/crypto-dashboard/internal/model"
)

// funcProvider lets a test fail individual operations independently.
type funcProvider struct {
	list   func(ctx context.Context, limit int) ([]model.CoinSnapshot, error)
	hist   func(ctx context.Context, coinID string, days int) (*model.PriceSeries, error)
	global func(ctx context.Context) (*model.GlobalStats, error)
}

func (f *funcProvider) Name() string { return "func" }

func (f *funcProvider) ListCoins(ctx context.Context, limit int) ([]model.CoinSnapshot, error) {
	return f.list(ctx, limit)
}

func (f *funcProvider) PriceHistory(ctx context.Context, coinID string, days int) (*model.PriceSeries, error) {
	return f.hist(ctx, coinID, days)
}

func (f *funcProvider) GlobalStats(ctx context.Context) (*model.GlobalStats, error) {
	return f.global(ctx)
}

func newTestService(p Provider, imageSource Provider, ttl time.Duration) *Service {
	cache := NewSnapshotCache(ttl)
	m := metrics.New(prometheus.NewRegistry())
	return NewService(p, imageSource, cache, m, discardLogger(), 10, 30)
}

func TestOverview_FetchesAndCaches(t *testing.T) {
	calls := 0
	p := &funcProvider{
		list: func(ctx context.Context, limit int) ([]model.CoinSnapshot, error) {
			calls++
			return []model.CoinSnapshot{{ID: "bitcoin", Symbol: "btc", Image: "x"}}, nil
		},
		global: func(ctx context.Context) (*model.GlobalStats, error) {
			return &model.GlobalStats{TotalMarketCapUSD: 2.4e12}, nil
		},
	}
	svc := newTestService(p, nil, time.Minute)

	coins, global, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(coins) != 1 || global == nil || global.TotalMarketCapUSD != 2.4e12 {
		t.Fatalf("bad overview: coins=%d global=%+v", len(coins), global)
	}

	// Second call inside the TTL hits the cache, not the provider.
	if _, _, err := svc.Overview(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", calls)
	}
}

func TestOverview_GlobalFailureIsBestEffort(t *testing.T) {
	p := &funcProvider{
		list: func(ctx context.Context, limit int) ([]model.CoinSnapshot, error) {
			return []model.CoinSnapshot{{ID: "bitcoin"}}, nil
		},
		global: func(ctx context.Context) (*model.GlobalStats, error) {
			return nil, errors.New("upstream down")
		},
	}
	svc := newTestService(p, nil, time.Minute)

	coins, global, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("listing must succeed despite global failure: %v", err)
	}
	if len(coins) != 1 {
		t.Fatalf("expected listing, got %d coins", len(coins))
	}
	if global != nil {
		t.Fatalf("expected nil global with empty cache, got %+v", global)
	}
}

func TestOverview_ServesStaleOnListingFailure(t *testing.T) {
	failing := errors.New("upstream down")
	p := &funcProvider{
		list: func(ctx context.Context, limit int) ([]model.CoinSnapshot, error) {
			return nil, failing
		},
		global: func(ctx context.Context) (*model.GlobalStats, error) {
			return nil, failing
		},
	}
	// Zero TTL: the primed snapshot is immediately stale, forcing a refetch.
	svc := newTestService(p, nil, 0)
	svc.cache.SetListing([]model.CoinSnapshot{{ID: "bitcoin", Symbol: "btc"}})

	coins, _, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("expected stale snapshot, got error: %v", err)
	}
	if len(coins) != 1 || coins[0].ID != "bitcoin" {
		t.Fatalf("expected stale snapshot, got %+v", coins)
	}
}

func TestOverview_FailsWithEmptyCache(t *testing.T) {
	failing := errors.New("upstream down")
	p := &funcProvider{
		list: func(ctx context.Context, limit int) ([]model.CoinSnapshot, error) {
			return nil, failing
		},
		global: func(ctx context.Context) (*model.GlobalStats, error) {
			return nil, failing
		},
	}
	svc := newTestService(p, nil, time.Minute)

	if _, _, err := svc.Overview(context.Background()); !errors.Is(err, failing) {
		t.Fatalf("expected listing error, got %v", err)
	}
}

func TestOverview_FillsMissingImages(t *testing.T) {
	p := &funcProvider{
		list: func(ctx context.Context, limit int) ([]model.CoinSnapshot, error) {
			return []model.CoinSnapshot{
				{ID: "btc-bitcoin", Symbol: "BTC"},
				{ID: "eth-ethereum", Symbol: "ETH", Image: "already-set"},
			}, nil
		},
		global: func(ctx context.Context) (*model.GlobalStats, error) {
			return &model.GlobalStats{}, nil
		},
	}
	imgSource := &MockProvider{Coins: []model.CoinSnapshot{
		{ID: "bitcoin", Symbol: "btc", Image: "https://img/btc.png"},
	}}
	svc := newTestService(p, imgSource, time.Minute)

	coins, _, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coins[0].Image != "https://img/btc.png" {
		t.Fatalf("image not merged by symbol: %+v", coins[0])
	}
	if coins[1].Image != "already-set" {
		t.Fatalf("existing image overwritten: %+v", coins[1])
	}
}

func TestCoin_CacheThenFetch(t *testing.T) {
	p := &MockProvider{Coins: []model.CoinSnapshot{{ID: "bitcoin", Symbol: "btc"}}}
	svc := newTestService(p, nil, time.Minute)

	coin, err := svc.Coin(context.Background(), "bitcoin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coin.ID != "bitcoin" {
		t.Fatalf("bad coin: %+v", coin)
	}

	if _, err := svc.Coin(context.Background(), "dogecoin"); err == nil {
		t.Fatal("expected error for coin outside the listing")
	}
}

func TestHistoryWindow_Override(t *testing.T) {
	var gotDays int
	p := &funcProvider{
		hist: func(ctx context.Context, coinID string, days int) (*model.PriceSeries, error) {
			gotDays = days
			return &model.PriceSeries{CoinID: coinID}, nil
		},
	}
	svc := newTestService(p, nil, time.Minute)

	if _, err := svc.History(context.Background(), "bitcoin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotDays != 30 {
		t.Fatalf("expected configured window 30, got %d", gotDays)
	}

	if _, err := svc.HistoryWindow(context.Background(), "bitcoin", 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotDays != 7 {
		t.Fatalf("expected override 7, got %d", gotDays)
	}
}

func TestRefresh_PrimesCache(t *testing.T) {
	p := &MockProvider{}
	svc := newTestService(p, nil, time.Minute)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	coins, fresh := svc.cache.Listing()
	if !fresh || len(coins) == 0 {
		t.Fatalf("cache not primed: fresh=%v len=%d", fresh, len(coins))
	}

	summary := svc.MarketSummary()
	if summary.TotalMarketCapUSD == 0 {
		t.Fatal("expected global totals after refresh")
	}
}

func TestMarketSummary_EmptyCache(t *testing.T) {
	svc := newTestService(&MockProvider{}, nil, time.Minute)
	if got := svc.MarketSummary(); got != (model.MarketSummary{}) {
		t.Fatalf("expected zero summary, got %+v", got)
	}
}
