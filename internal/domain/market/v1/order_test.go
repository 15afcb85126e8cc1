package marketv1

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	o := NewOrder(7, "T1", "AAPL", SideBuy, OrderKindLimit, decimal.RequireFromString("101.50"), 25)

	assert.Equal(t, int64(7), o.ID)
	assert.Equal(t, "T1", o.TraderID)
	assert.Equal(t, "AAPL", o.Symbol)
	assert.Equal(t, int64(25), o.Original)
	assert.Equal(t, int64(25), o.Remaining)
	assert.False(t, o.Filled())
	assert.True(t, o.IsBuy())
	assert.True(t, o.HasPrice())
	assert.NotZero(t, o.Timestamp)
}

func TestOrder_Fill(t *testing.T) {
	o := NewOrder(1, "T1", "AAPL", SideSell, OrderKindLimit, decimal.RequireFromString("100"), 10)

	require.NoError(t, o.Fill(4))
	assert.Equal(t, int64(6), o.Remaining)

	require.NoError(t, o.Fill(6))
	assert.True(t, o.Filled())
	assert.Equal(t, int64(10), o.Original, "original never changes")
}

func TestOrder_FillRejectsInvalidQuantities(t *testing.T) {
	o := NewOrder(1, "T1", "AAPL", SideSell, OrderKindLimit, decimal.RequireFromString("100"), 10)

	assert.ErrorIs(t, o.Fill(0), ErrInvalidFillQuantity)
	assert.ErrorIs(t, o.Fill(-3), ErrInvalidFillQuantity)
	assert.ErrorIs(t, o.Fill(11), ErrInvalidFillQuantity)
	assert.Equal(t, int64(10), o.Remaining, "failed fills must not mutate")
}

func TestOrder_MarketHasNoPrice(t *testing.T) {
	o := NewOrder(1, "T1", "AAPL", SideBuy, OrderKindMarket, decimal.Decimal{}, 10)
	assert.False(t, o.HasPrice())
}

func TestSide(t *testing.T) {
	assert.Equal(t, "BUY", SideBuy.String())
	assert.Equal(t, "SELL", SideSell.String())
	assert.Equal(t, SideSell, SideBuy.Opposite())
	assert.Equal(t, SideBuy, SideSell.Opposite())
}

func TestOrderKind(t *testing.T) {
	assert.Equal(t, "LIMIT", OrderKindLimit.String())
	assert.Equal(t, "MARKET", OrderKindMarket.String())
}
