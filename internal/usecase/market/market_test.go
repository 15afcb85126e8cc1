package market

import (
	"testing"

	marketv1 "github.com/Divyam-Gupta2006/stock-trading-simulator/internal/domain/market/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New([]string{"AAPL", "MSFT", "AAPL"}, map[string]decimal.Decimal{
		"AAPL": decimal.RequireFromString("150.00"),
	})

	assert.Equal(t, []string{"AAPL", "MSFT"}, m.Symbols(), "duplicates collapse, order kept")
	require.NotNil(t, m.Book("AAPL"))
	require.NotNil(t, m.Book("MSFT"))
	assert.Nil(t, m.Book("NOPE"))

	p, ok := m.LastPrice("AAPL")
	require.True(t, ok)
	assert.True(t, p.Equal(decimal.RequireFromString("150.00")))

	p, ok = m.LastPrice("MSFT")
	require.True(t, ok)
	assert.True(t, p.Equal(decimal.NewFromInt(10)), "missing initial price falls back to default")
}

func TestMarket_SetLastPrice(t *testing.T) {
	m := New([]string{"AAPL"}, nil)

	m.SetLastPrice("AAPL", decimal.RequireFromString("12.34"))
	p, ok := m.LastPrice("AAPL")
	require.True(t, ok)
	assert.True(t, p.Equal(decimal.RequireFromString("12.34")))

	// unknown symbols are ignored, not registered
	m.SetLastPrice("NOPE", decimal.NewFromInt(1))
	_, ok = m.LastPrice("NOPE")
	assert.False(t, ok)
}

func TestMarket_Depth(t *testing.T) {
	m := New([]string{"AAPL"}, nil)

	require.NoError(t, m.Book("AAPL").Add(marketv1.NewOrder(1, "T1", "AAPL",
		marketv1.SideBuy, marketv1.OrderKindLimit, decimal.RequireFromString("9.00"), 5)))
	require.NoError(t, m.Book("AAPL").Add(marketv1.NewOrder(2, "T1", "AAPL",
		marketv1.SideBuy, marketv1.OrderKindLimit, decimal.RequireFromString("9.50"), 5)))

	depth := m.Depth("AAPL", marketv1.SideBuy, 0)
	require.Len(t, depth, 2)
	assert.True(t, depth[0].Price.Equal(decimal.RequireFromString("9.50")), "best bid first")

	assert.Nil(t, m.Depth("NOPE", marketv1.SideBuy, 0))
}

func TestMarket_PricesReturnsCopy(t *testing.T) {
	m := New([]string{"AAPL"}, nil)

	prices := m.Prices()
	prices["AAPL"] = decimal.NewFromInt(999)

	p, _ := m.LastPrice("AAPL")
	assert.True(t, p.Equal(decimal.NewFromInt(10)))
}
