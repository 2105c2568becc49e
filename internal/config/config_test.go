package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file must load defaults, got %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr default: %s", cfg.Server.Addr)
	}
	if cfg.Market.Provider != "coingecko" || cfg.Market.TopN != 10 {
		t.Errorf("market defaults: %+v", cfg.Market)
	}
	if cfg.Market.CacheTTLSeconds != 60 || cfg.Market.RefreshCron == "" {
		t.Errorf("cache defaults: %+v", cfg.Market)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("log default: %+v", cfg.Log)
	}
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
market:
  provider: coinpaprika
  top_n: 25
ai:
  backend: openai
  model: gpt-4o
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":9090" || cfg.Market.Provider != "coinpaprika" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Market.TopN != 25 || cfg.AI.Model != "gpt-4o" {
		t.Errorf("file values not applied: %+v", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
market:
  provider: coingecko
`)
	t.Setenv("MARKET_PROVIDER", "coinmarketcap")
	t.Setenv("COINMARKETCAP_API_KEY", "cmc-key")
	t.Setenv("CACHE_TTL_SECONDS", "120")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Market.Provider != "coinmarketcap" || cfg.Market.APIKey != "cmc-key" {
		t.Errorf("env overrides not applied: %+v", cfg.Market)
	}
	if cfg.Market.CacheTTLSeconds != 120 {
		t.Errorf("ttl override not applied: %d", cfg.Market.CacheTTLSeconds)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, _ := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		return cfg
	}

	if err := base().Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}

	cfg := base()
	cfg.Market.Provider = "coinmarketcap"
	if err := cfg.Validate(); err == nil {
		t.Error("coinmarketcap without a key must fail validation")
	}
	cfg.Market.APIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Errorf("coinmarketcap with a key must validate: %v", err)
	}

	cfg = base()
	cfg.Market.Provider = "binance"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown provider must fail validation")
	}

	cfg = base()
	cfg.AI.Backend = "llama"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown backend must fail validation")
	}

	cfg = base()
	cfg.Market.TopN = 0
	if err := cfg.Validate(); err == nil {
		t.Error("non-positive top_n must fail validation")
	}
}
