package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func unthrottle(c *apiClient) {
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	c.retryDelay = time.Millisecond
}

func TestCoinGecko_ListCoins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/markets" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("per_page"); got != "2" {
			t.Errorf("expected per_page=2, got %s", got)
		}
		w.Write([]byte(`[
			{"id":"bitcoin","symbol":"btc","name":"Bitcoin","image":"https://img/btc.png",
			 "current_price":63000.5,"market_cap":1200000000000,"total_volume":31000000000,
			 "price_change_percentage_24h":1.8},
			{"id":"ethereum","symbol":"eth","name":"Ethereum","image":"https://img/eth.png",
			 "current_price":3100,"market_cap":380000000000,"total_volume":14000000000,
			 "price_change_percentage_24h":-0.7}
		]`))
	}))
	defer srv.Close()

	g := NewCoinGecko(srv.URL, "", discardLogger())
	unthrottle(g.client)

	coins, err := g.ListCoins(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(coins) != 2 {
		t.Fatalf("expected 2 coins, got %d", len(coins))
	}
	btc := coins[0]
	if btc.ID != "bitcoin" || btc.Symbol != "btc" || btc.CurrentPrice != 63000.5 {
		t.Fatalf("bad normalization: %+v", btc)
	}
	if btc.PriceChange24h != 1.8 || btc.Image != "https://img/btc.png" {
		t.Fatalf("bad normalization: %+v", btc)
	}
}

func TestCoinGecko_PriceHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/bitcoin/market_chart" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"prices":[[1700000000000,42000.1],[1700086400000,42350.7]]}`))
	}))
	defer srv.Close()

	g := NewCoinGecko(srv.URL, "", discardLogger())
	unthrottle(g.client)

	series, err := g.PriceHistory(context.Background(), "bitcoin", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.CoinID != "bitcoin" || len(series.Points) != 2 {
		t.Fatalf("bad series: %+v", series)
	}
	if series.Points[0].Timestamp != 1700000000000 || series.Points[0].Price != 42000.1 {
		t.Fatalf("bad first point: %+v", series.Points[0])
	}
}

func TestCoinGecko_PriceHistoryEmptyID(t *testing.T) {
	g := NewCoinGecko("http://unused", "", discardLogger())
	if _, err := g.PriceHistory(context.Background(), "", 30); err == nil {
		t.Fatal("expected error for empty coin id")
	}
}

func TestCoinGecko_GlobalStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{
			"total_market_cap":{"usd":2400000000000},
			"total_volume":{"usd":98000000000},
			"active_cryptocurrencies":12000}}`))
	}))
	defer srv.Close()

	g := NewCoinGecko(srv.URL, "", discardLogger())
	unthrottle(g.client)

	stats, err := g.GlobalStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalMarketCapUSD != 2.4e12 || stats.TotalVolumeUSD != 9.8e10 {
		t.Fatalf("bad stats: %+v", stats)
	}
	if stats.ActiveCryptocurrencies != 12000 {
		t.Fatalf("bad count: %d", stats.ActiveCryptocurrencies)
	}
}

func TestCoinMarketCap_RequiresAPIKey(t *testing.T) {
	c := NewCoinMarketCap("http://unused", "", "", discardLogger())

	if _, err := c.ListCoins(context.Background(), 10); err != ErrMissingAPIKey {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if _, err := c.PriceHistory(context.Background(), "1", 30); err != ErrMissingAPIKey {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if _, err := c.GlobalStats(context.Background()); err != ErrMissingAPIKey {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestCoinMarketCap_ListCoins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-CMC_PRO_API_KEY"); got != "test-key" {
			t.Errorf("api key header missing, got %q", got)
		}
		w.Write([]byte(`{"data":[
			{"id":1,"name":"Bitcoin","symbol":"BTC","slug":"bitcoin",
			 "quote":{"USD":{"price":63000,"volume_24h":31000000000,
			 "percent_change_24h":1.8,"market_cap":1200000000000}}}
		]}`))
	}))
	defer srv.Close()

	c := NewCoinMarketCap(srv.URL, "test-key", "", discardLogger())
	unthrottle(c.client)

	coins, err := c.ListCoins(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(coins) != 1 {
		t.Fatalf("expected 1 coin, got %d", len(coins))
	}
	btc := coins[0]
	if btc.ID != "1" || btc.Symbol != "BTC" || btc.CurrentPrice != 63000 {
		t.Fatalf("bad normalization: %+v", btc)
	}
	if btc.Image != "https://coinmarketcap.com/currencies/bitcoin/logo.png" {
		t.Fatalf("bad image url: %s", btc.Image)
	}
}

func TestCoinMarketCap_PriceHistorySinglePoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"1":{"id":1,"name":"Bitcoin","symbol":"BTC","slug":"bitcoin",
			"quote":{"USD":{"price":63000}}}}}`))
	}))
	defer srv.Close()

	c := NewCoinMarketCap(srv.URL, "test-key", "", discardLogger())
	unthrottle(c.client)

	series, err := c.PriceHistory(context.Background(), "1", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series.Points) != 1 || series.Points[0].Price != 63000 {
		t.Fatalf("expected single latest-quote point, got %+v", series.Points)
	}
}

func TestCoinpaprika_ListCoins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":"btc-bitcoin","name":"Bitcoin","symbol":"BTC","rank":1,
			 "quotes":{"USD":{"price":63000,"volume_24h":31000000000,
			 "market_cap":1200000000000,"percent_change_24h":1.8}}},
			{"id":"eth-ethereum","name":"Ethereum","symbol":"ETH","rank":2,
			 "quotes":{"USD":{"price":3100,"volume_24h":14000000000,
			 "market_cap":380000000000,"percent_change_24h":-0.7}}}
		]`))
	}))
	defer srv.Close()

	p := NewCoinpaprika(srv.URL, "", discardLogger())
	unthrottle(p.client)

	coins, err := p.ListCoins(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(coins) != 1 {
		t.Fatalf("limit not applied, got %d coins", len(coins))
	}
	if coins[0].ID != "btc-bitcoin" || coins[0].Image != "" {
		t.Fatalf("bad normalization: %+v", coins[0])
	}
}

func TestCoinpaprika_PriceHistorySkipsMalformedTimestamps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"timestamp":"2024-01-01T00:00:00Z","price":42000},
			{"timestamp":"not-a-time","price":1},
			{"timestamp":"2024-01-02T00:00:00Z","price":42350}
		]`))
	}))
	defer srv.Close()

	p := NewCoinpaprika(srv.URL, "", discardLogger())
	unthrottle(p.client)

	series, err := p.PriceHistory(context.Background(), "btc-bitcoin", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series.Points) != 2 {
		t.Fatalf("expected malformed point skipped, got %d points", len(series.Points))
	}
	if series.Points[1].Price != 42350 {
		t.Fatalf("bad points: %+v", series.Points)
	}
}

func TestCoinpaprika_GlobalStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"market_cap_usd":2400000000000,"volume_24h_usd":98000000000,
			"cryptocurrencies_number":9000}`))
	}))
	defer srv.Close()

	p := NewCoinpaprika(srv.URL, "", discardLogger())
	unthrottle(p.client)

	stats, err := p.GlobalStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalMarketCapUSD != 2.4e12 || stats.ActiveCryptocurrencies != 9000 {
		t.Fatalf("bad stats: %+v", stats)
	}
}
