// Package config loads application configuration from a YAML file with
// environment-variable overrides and sensible defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr        string `yaml:"addr"`         // HTTP API, default :8000
		MetricsAddr string `yaml:"metrics_addr"` // standalone metrics, empty = served on Addr
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"` // debug|info|warn|error
	} `yaml:"log"`

	Provider struct {
		BaseURL    string `yaml:"base_url"`
		APIKey     string `yaml:"api_key"`
		ClientCode string `yaml:"client_code"`
		PIN        string `yaml:"pin"`
		TOTPSecret string `yaml:"totp_secret"`
	} `yaml:"provider"`

	// External is the optional fundamentals/sentiment data service; when
	// base_url is empty those sub-scores stay at their neutral baselines.
	External struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"external"`

	Redis struct {
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		TTL      time.Duration `yaml:"ttl"` // report cache lifetime
	} `yaml:"redis"`

	SQLitePath string `yaml:"sqlite_path"`

	Scoring struct {
		LegacyThresholds bool `yaml:"legacy_thresholds"` // 80/60/40 instead of 70/50/40
	} `yaml:"scoring"`

	Watchlist struct {
		Tickers []string `yaml:"tickers"`
		Cron    string   `yaml:"cron"` // 6-field spec with seconds
		Workers int      `yaml:"workers"`
	} `yaml:"watchlist"`

	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
}

// Load reads config from a YAML file (missing file is fine), then applies
// environment variable overrides, then defaults.
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
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Server.MetricsAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PROVIDER_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("PROVIDER_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("PROVIDER_CLIENT_CODE"); v != "" {
		cfg.Provider.ClientCode = v
	}
	if v := os.Getenv("PROVIDER_PIN"); v != "" {
		cfg.Provider.PIN = v
	}
	if v := os.Getenv("PROVIDER_TOTP_SECRET"); v != "" {
		cfg.Provider.TOTPSecret = v
	}
	if v := os.Getenv("EXTERNAL_BASE_URL"); v != "" {
		cfg.External.BaseURL = v
	}
	if v := os.Getenv("EXTERNAL_API_KEY"); v != "" {
		cfg.External.APIKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	if v := os.Getenv("WATCH_TICKERS"); v != "" {
		cfg.Watchlist.Tickers = splitList(v)
	}
	if v := os.Getenv("WATCH_CRON"); v != "" {
		cfg.Watchlist.Cron = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = 5 * time.Minute
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = "data/bars.db"
	}
	if cfg.Watchlist.Cron == "" {
		cfg.Watchlist.Cron = "0 */15 * * * *" // every 15 minutes
	}
	if cfg.Watchlist.Workers == 0 {
		cfg.Watchlist.Workers = 4
	}

	return cfg, nil
}

// Validate checks fields that have no workable default.
func (c *Config) Validate() error {
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is required")
	}
	if c.Provider.APIKey == "" {
		return fmt.Errorf("provider.api_key is required")
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
