package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/NikolayViktorovich/crypto-dashboard/internal/analyst"
	"github.com/NikolayViktorovich/crypto-dashboard/internal/chat"
	"github.com/NikolayViktorovich/crypto-dashboard/internal/config"
	"github.com/NikolayViktorovich/crypto-dashboard/internal/logger"
	"github.com/NikolayViktorovich/crypto-dashboard/internal/market"
	"github.com/NikolayViktorovich/crypto-dashboard/internal/metrics"
	"github.com/NikolayViktorovich/crypto-dashboard/internal/refresher"
	"github.com/NikolayViktorovich/crypto-dashboard/internal/server"
)

func main() {
	_ = godotenv.Load(".env")

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("config validation", "error", err)
		os.Exit(1)
	}

	log := logger.New("crypto-dashboard", cfg.Log.Level, cfg.Log.Format)
	log.Info("starting", "addr", cfg.Server.Addr, "provider", cfg.Market.Provider)

	m := metrics.New(prometheus.DefaultRegisterer)

	provider := buildProvider(cfg.Market.Provider, cfg, log)
	var imageSource market.Provider
	if cfg.Market.ImageSource != "" && cfg.Market.ImageSource != cfg.Market.Provider {
		imageSource = buildProvider(cfg.Market.ImageSource, cfg, log)
	}

	cache := market.NewSnapshotCache(time.Duration(cfg.Market.CacheTTLSeconds) * time.Second)
	svc := market.NewService(provider, imageSource, cache, m, log,
		cfg.Market.TopN, cfg.Market.HistoryDays)

	gen := buildGenerator(cfg, log)
	an := analyst.New(gen, m, log, cfg.AI.Seed)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ref := refresher.New(ctx, svc, log)
	if err := ref.Start(cfg.Market.RefreshCron); err != nil {
		log.Error("start refresher", "error", err)
		os.Exit(1)
	}
	defer ref.Stop()
	go ref.RunNow()

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.New(svc, an, chat.NewStore(0), log).Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	go func() {
		log.Info("http server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server", "error", err)
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}

	log.Info("shutdown signal received, stopping")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "error", err)
	}
	log.Info("stopped")
}

func buildProvider(name string, cfg *config.Config, log *slog.Logger) market.Provider {
	switch name {
	case "coinmarketcap":
		return market.NewCoinMarketCap(cfg.Market.BaseURL, cfg.Market.APIKey, cfg.Proxy, log)
	case "coinpaprika":
		return market.NewCoinpaprika(cfg.Market.BaseURL, cfg.Proxy, log)
	case "mock":
		return &market.MockProvider{}
	default:
		return market.NewCoinGecko(cfg.Market.BaseURL, cfg.Proxy, log)
	}
}

// buildGenerator wires the configured text-generation backend. A missing key
// or no backend at all yields nil: the analyst then serves indicator-only
// fallbacks, which is the defined degradation, not an error.
func buildGenerator(cfg *config.Config, log *slog.Logger) analyst.Generator {
	switch cfg.AI.Backend {
	case "openai":
		gen, err := analyst.NewOpenAIClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, cfg.Proxy)
		if err != nil {
			log.Warn("openai backend unavailable", "error", err)
			return nil
		}
		return gen
	case "huggingface":
		gen, err := analyst.NewHuggingFaceClient(cfg.AI.APIKey, cfg.Proxy, cfg.AI.Models, log)
		if err != nil {
			log.Warn("huggingface backend unavailable", "error", err)
			return nil
		}
		return gen
	default:
		log.Info("no generation backend configured, analyses use fallback only")
		return nil
	}
}
