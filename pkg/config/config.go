package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load() // .env file is optional

	if err := env.Parse(cfg); err != nil {
		return err // Return error if environment variable parsing fails
	}

	return nil
}

// Config holds the configuration for the simulator.
type Config struct {
	App       AppConfig       `envPrefix:"APP_"`
	Market    MarketConfig    `envPrefix:"MARKET_"`
	Feed      FeedConfig      `envPrefix:"FEED_"`
	Publisher PublisherConfig `envPrefix:"PUBLISHER_"`
}

// AppConfig holds the application-level settings.
type AppConfig struct {
	Name     string `env:"NAME" envDefault:"stock-trading-simulator"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Ticks    int    `env:"TICKS" envDefault:"100"`
}

// MarketConfig describes the fixed instrument set for a simulation run.
// Instruments is a comma-separated list of SYMBOL:PRICE pairs,
// e.g. "AAPL:170.00,GOOG:3000.00,MSFT:330.00".
type MarketConfig struct {
	Instruments string `env:"INSTRUMENTS" envDefault:"AAPL:170.00,GOOG:3000.00,MSFT:330.00"`
}

// FeedConfig holds the price feed settings.
type FeedConfig struct {
	// HistoryDir, when set, is searched for <SYMBOL>.csv files to replay.
	HistoryDir string `env:"HISTORY_DIR" envDefault:""`
	// Window is the number of bars exposed to chart viewers.
	Window int `env:"WINDOW" envDefault:"100"`
	// Seed seeds the synthetic price model. Zero means time-seeded.
	Seed int64 `env:"SEED" envDefault:"0"`
}

// PublisherConfig holds the Kafka trade stream settings.
type PublisherConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Brokers []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC" envDefault:"trades"`
}

// ParseInstruments expands the Instruments string into symbol -> starting price.
func (c MarketConfig) ParseInstruments() (map[string]decimal.Decimal, []string, error) {
	prices := make(map[string]decimal.Decimal)
	var symbols []string

	for _, pair := range strings.Split(c.Instruments, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		sym, raw, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, nil, fmt.Errorf("invalid instrument entry %q, want SYMBOL:PRICE", pair)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, nil, fmt.Errorf("invalid starting price for %s: %w", sym, err)
		}
		sym = strings.ToUpper(strings.TrimSpace(sym))
		prices[sym] = price
		symbols = append(symbols, sym)
	}

	if len(symbols) == 0 {
		return nil, nil, fmt.Errorf("no instruments configured")
	}
	return prices, symbols, nil
}
