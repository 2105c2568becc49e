package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Market struct {
		Provider        string `yaml:"provider"` // coingecko | coinmarketcap | coinpaprika | mock
		BaseURL         string `yaml:"base_url"`
		APIKey          string `yaml:"api_key"`
		ImageSource     string `yaml:"image_source"` // optional secondary listing source for images
		TopN            int    `yaml:"top_n"`
		HistoryDays     int    `yaml:"history_days"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
		RefreshCron     string `yaml:"refresh_cron"`
	} `yaml:"market"`
	AI struct {
		Backend string   `yaml:"backend"` // openai | huggingface | "" (fallback only)
		BaseURL string   `yaml:"base_url"`
		APIKey  string   `yaml:"api_key"`
		Model   string   `yaml:"model"`
		Models  []string `yaml:"models"` // hugging face fallback chain
		Seed    int64    `yaml:"seed"`   // 0 = time-based
	} `yaml:"ai"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("MARKET_PROVIDER"); v != "" {
		cfg.Market.Provider = v
	}
	if v := os.Getenv("COINMARKETCAP_API_KEY"); v != "" {
		cfg.Market.APIKey = v
	}
	if v := os.Getenv("AI_BACKEND"); v != "" {
		cfg.AI.Backend = v
	}
	if v := os.Getenv("HUGGINGFACE_API_KEY"); v != "" && cfg.AI.Backend == "huggingface" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.AI.Backend != "huggingface" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Market.CacheTTLSeconds = n
		}
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Market.Provider == "" {
		cfg.Market.Provider = "coingecko"
	}
	if cfg.Market.TopN == 0 {
		cfg.Market.TopN = 10
	}
	if cfg.Market.HistoryDays == 0 {
		cfg.Market.HistoryDays = 30
	}
	if cfg.Market.CacheTTLSeconds == 0 {
		cfg.Market.CacheTTLSeconds = 60
	}
	if cfg.Market.RefreshCron == "" {
		cfg.Market.RefreshCron = "0 */5 * * * *"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4"
	}

	return cfg, nil
}

// Validate checks that the configuration is coherent. A provider that needs
// credentials fails here, before any request is made.
func (c *Config) Validate() error {
	switch c.Market.Provider {
	case "coingecko", "coinpaprika", "mock":
	case "coinmarketcap":
		if c.Market.APIKey == "" {
			return fmt.Errorf("market.api_key is required for the coinmarketcap provider")
		}
	default:
		return fmt.Errorf("unknown market.provider %q", c.Market.Provider)
	}

	switch c.Market.ImageSource {
	case "", "coingecko", "coinpaprika", "mock":
	case "coinmarketcap":
		if c.Market.APIKey == "" {
			return fmt.Errorf("market.api_key is required for the coinmarketcap image source")
		}
	default:
		return fmt.Errorf("unknown market.image_source %q", c.Market.ImageSource)
	}

	switch c.AI.Backend {
	case "", "openai", "huggingface":
	default:
		return fmt.Errorf("unknown ai.backend %q", c.AI.Backend)
	}

	if c.Market.TopN <= 0 {
		return fmt.Errorf("market.top_n must be positive")
	}
	if c.Market.HistoryDays <= 0 {
		return fmt.Errorf("market.history_days must be positive")
	}
	return nil
}
