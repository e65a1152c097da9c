// AngelaMos | 2026
// config.go

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App     AppConfig     `koanf:"app"`
	API     APIConfig     `koanf:"api"`
	Storage StorageConfig `koanf:"storage"`
	Tiers   TiersConfig   `koanf:"tiers"`
	Market  MarketConfig  `koanf:"market"`
	Demo    DemoConfig    `koanf:"demo"`
	Log     LogConfig     `koanf:"log"`
	Otel    OtelConfig    `koanf:"otel"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type APIConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

type StorageConfig struct {
	Path       string `koanf:"path"`
	Passphrase string `koanf:"passphrase"`
}

// TiersConfig carries the feature gating table and the showcase override.
// OverrideAll forces every capability open and exists for demo
// deployments only; it is configuration, not product behavior.
type TiersConfig struct {
	OverrideAll bool              `koanf:"override_all"`
	Features    map[string]string `koanf:"features"`
}

type MarketConfig struct {
	PollInterval time.Duration `koanf:"poll_interval"`
	PollBurst    int           `koanf:"poll_burst"`
}

type DemoConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "TradeSignal",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"api.base_url": "http://localhost:8000",
		"api.timeout":  "30s",

		"storage.path":       defaultStoragePath(),
		"storage.passphrase": "",

		"tiers.override_all": false,

		"market.poll_interval": "5s",
		"market.poll_burst":    1,

		"demo.host": "127.0.0.1",
		"demo.port": 8000,

		"log.level":  "info",
		"log.format": "text",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "tradesignal-client",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"TRADESIGNAL_API_URL":     "api.base_url",
	"TRADESIGNAL_API_TIMEOUT": "api.timeout",
	"TRADESIGNAL_STORAGE":     "storage.path",
	"TRADESIGNAL_PASSPHRASE":  "storage.passphrase",
	"TRADESIGNAL_TIER_UNLOCK": "tiers.override_all",
	"ENVIRONMENT":             "app.environment",
	"LOG_LEVEL":               "log.level",
	"LOG_FORMAT":              "log.format",
	"OTEL_ENDPOINT":           "otel.endpoint",
	"OTEL_SERVICE_NAME":       "otel.service_name",
	"OTEL_ENABLED":            "otel.enabled",
	"OTEL_INSECURE":           "otel.insecure",
	"OTEL_SAMPLE_RATE":        "otel.sample_rate",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

func validate(c *Config) error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}

	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}

	if c.Market.PollInterval <= 0 {
		return fmt.Errorf("market.poll_interval must be positive")
	}

	if c.App.Environment == "production" {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
		if c.Tiers.OverrideAll {
			return fmt.Errorf("tiers.override_all cannot be set in production")
		}
	}

	return nil
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tradesignal/tokens.bin"
	}
	return filepath.Join(home, ".tradesignal", "tokens.bin")
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (d *DemoConfig) Address() string {
	return fmt.Sprintf("%s:%d", d.Host, d.Port)
}
