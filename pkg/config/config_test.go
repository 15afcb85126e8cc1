package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, Load(cfg))

	assert.Equal(t, "stock-trading-simulator", cfg.App.Name)
	assert.Equal(t, 100, cfg.App.Ticks)
	assert.Equal(t, "trades", cfg.Publisher.Topic)
	assert.False(t, cfg.Publisher.Enabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_TICKS", "500")
	t.Setenv("MARKET_INSTRUMENTS", "TSLA:250.00")
	t.Setenv("PUBLISHER_BROKERS", "k1:9092,k2:9092")

	cfg := &Config{}
	require.NoError(t, Load(cfg))

	assert.Equal(t, 500, cfg.App.Ticks)
	assert.Equal(t, "TSLA:250.00", cfg.Market.Instruments)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Publisher.Brokers)
}

func TestParseInstruments(t *testing.T) {
	mc := MarketConfig{Instruments: "aapl:170.00, GOOG:3000 ,MSFT:330.50"}

	prices, symbols, err := mc.ParseInstruments()
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL", "GOOG", "MSFT"}, symbols)
	assert.True(t, prices["AAPL"].Equal(decimal.RequireFromString("170.00")))
	assert.True(t, prices["GOOG"].Equal(decimal.RequireFromString("3000")))
	assert.True(t, prices["MSFT"].Equal(decimal.RequireFromString("330.50")))
}

func TestParseInstrumentsErrors(t *testing.T) {
	_, _, err := MarketConfig{Instruments: ""}.ParseInstruments()
	assert.Error(t, err, "empty set")

	_, _, err = MarketConfig{Instruments: "AAPL"}.ParseInstruments()
	assert.Error(t, err, "missing price")

	_, _, err = MarketConfig{Instruments: "AAPL:abc"}.ParseInstruments()
	assert.Error(t, err, "bad price")
}
