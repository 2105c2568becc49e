package market

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/NikolayViktorovich/crypto-dashboard/internal/metrics"
	"github.com/NikolayViktorovich/crypto-dashboard/internal/model"
)

// Service orchestrates provider fetches behind the snapshot cache. Listing
// and global-stats fetches run concurrently; a failed listing fetch falls
// back to the stale cached snapshot when one exists.
type Service struct {
	provider    Provider
	imageSource Provider // optional second listing source used only for images
	cache       *SnapshotCache
	metrics     *metrics.Metrics
	logger      *slog.Logger

	topN        int
	historyDays int
}

// NewService wires a provider, an optional image source and the injected
// snapshot cache.
func NewService(provider, imageSource Provider, cache *SnapshotCache, m *metrics.Metrics, logger *slog.Logger, topN, historyDays int) *Service {
	return &Service{
		provider:    provider,
		imageSource: imageSource,
		cache:       cache,
		metrics:     m,
		logger:      logger,
		topN:        topN,
		historyDays: historyDays,
	}
}

func (s *Service) ProviderName() string { return s.provider.Name() }

// Coin resolves a coin by ID, from the cached snapshot when possible and
// from a fresh listing fetch otherwise.
func (s *Service) Coin(ctx context.Context, id string) (model.CoinSnapshot, error) {
	if coin, ok := s.cache.Coin(id); ok {
		return coin, nil
	}
	coins, _, err := s.Overview(ctx)
	if err != nil {
		return model.CoinSnapshot{}, err
	}
	for _, c := range coins {
		if c.ID == id {
			return c, nil
		}
	}
	return model.CoinSnapshot{}, fmt.Errorf("coin %q not in the current listing", id)
}

// Overview returns the top-coin listing and global stats. Both fetches are
// fired concurrently and both are awaited. Global stats are best-effort and
// may come back nil when their fetch fails; the listing is required but a
// stale cached snapshot is served when the live fetch fails.
func (s *Service) Overview(ctx context.Context) ([]model.CoinSnapshot, *model.GlobalStats, error) {
	if coins, fresh := s.cache.Listing(); fresh {
		s.metrics.CacheHits.Inc()
		global, _ := s.cache.Global()
		return coins, global, nil
	}

	type listingResult struct {
		coins []model.CoinSnapshot
		err   error
	}
	type globalResult struct {
		stats *model.GlobalStats
		err   error
	}

	listingCh := make(chan listingResult, 1)
	globalCh := make(chan globalResult, 1)

	go func() {
		start := time.Now()
		coins, err := s.provider.ListCoins(ctx, s.topN)
		s.observe("listing", start, err)
		listingCh <- listingResult{coins, err}
	}()
	go func() {
		start := time.Now()
		stats, err := s.provider.GlobalStats(ctx)
		s.observe("global", start, err)
		globalCh <- globalResult{stats, err}
	}()

	listing := <-listingCh
	global := <-globalCh

	if global.err != nil {
		s.logger.Warn("global stats fetch failed", "provider", s.provider.Name(), "error", global.err)
	} else {
		s.cache.SetGlobal(global.stats)
	}

	if listing.err != nil {
		if stale, _ := s.cache.Listing(); stale != nil {
			s.logger.Warn("listing fetch failed, serving stale snapshot",
				"provider", s.provider.Name(), "error", listing.err)
			s.metrics.StaleServed.Inc()
			cachedGlobal, _ := s.cache.Global()
			return stale, cachedGlobal, nil
		}
		return nil, nil, fmt.Errorf("listing fetch: %w", listing.err)
	}

	coins := listing.coins
	s.fillMissingImages(ctx, coins)
	s.cache.SetListing(coins)

	if global.err != nil {
		cachedGlobal, _ := s.cache.Global()
		return coins, cachedGlobal, nil
	}
	return coins, global.stats, nil
}

// History fetches the price series for one coin over the configured window.
func (s *Service) History(ctx context.Context, coinID string) (*model.PriceSeries, error) {
	return s.HistoryWindow(ctx, coinID, s.historyDays)
}

// HistoryWindow fetches the price series over an explicit day window.
// days <= 0 falls back to the configured window.
func (s *Service) HistoryWindow(ctx context.Context, coinID string, days int) (*model.PriceSeries, error) {
	if days <= 0 {
		days = s.historyDays
	}
	start := time.Now()
	series, err := s.provider.PriceHistory(ctx, coinID, days)
	s.observe("history", start, err)
	if err != nil {
		return nil, err
	}
	return series, nil
}

// Refresh re-fetches the snapshot regardless of cache freshness. Used by the
// background refresher to keep the cache warm.
func (s *Service) Refresh(ctx context.Context) error {
	coins, err := s.provider.ListCoins(ctx, s.topN)
	if err != nil {
		return fmt.Errorf("refresh listing: %w", err)
	}
	s.fillMissingImages(ctx, coins)
	s.cache.SetListing(coins)

	if stats, err := s.provider.GlobalStats(ctx); err != nil {
		s.logger.Warn("refresh global stats failed", "error", err)
	} else {
		s.cache.SetGlobal(stats)
	}
	return nil
}

// MarketSummary exposes the cached totals for prompt assembly. Zero values
// when nothing has been fetched yet.
func (s *Service) MarketSummary() model.MarketSummary {
	stats, _ := s.cache.Global()
	if stats == nil {
		return model.MarketSummary{}
	}
	return model.MarketSummary{
		TotalMarketCapUSD: stats.TotalMarketCapUSD,
		TotalVolumeUSD:    stats.TotalVolumeUSD,
	}
}

// fillMissingImages is the best-effort merge of two listing sources: coins
// lacking an image URL get one from the secondary source, matched by symbol.
// Any failure here is logged and ignored.
func (s *Service) fillMissingImages(ctx context.Context, coins []model.CoinSnapshot) {
	if s.imageSource == nil {
		return
	}
	missing := false
	for _, c := range coins {
		if c.Image == "" {
			missing = true
			break
		}
	}
	if !missing {
		return
	}

	secondary, err := s.imageSource.ListCoins(ctx, s.topN)
	if err != nil {
		s.logger.Warn("image source listing failed", "provider", s.imageSource.Name(), "error", err)
		return
	}
	bySymbol := make(map[string]string, len(secondary))
	for _, c := range secondary {
		if c.Image != "" {
			bySymbol[strings.ToLower(c.Symbol)] = c.Image
		}
	}
	for i := range coins {
		if coins[i].Image == "" {
			coins[i].Image = bySymbol[strings.ToLower(coins[i].Symbol)]
		}
	}
}

func (s *Service) observe(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.UpstreamRequests.WithLabelValues(s.provider.Name(), operation, outcome).Inc()
	s.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
}
