package orderbook

import (
	"fmt"
	"testing"

	marketv1 "github.com/Divyam-Gupta2006/stock-trading-simulator/internal/domain/market/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to create a resting limit order with a specific id.
func createTestOrder(id int64, side marketv1.Side, price string, qty int64) *marketv1.Order {
	return marketv1.NewOrder(id, "trader", "AAPL", side, marketv1.OrderKindLimit,
		decimal.RequireFromString(price), qty)
}

func TestNewBook(t *testing.T) {
	b := NewBook("AAPL")

	assert.NotNil(t, b)
	assert.Equal(t, "AAPL", b.Symbol())
	assert.Equal(t, 0, b.Len())

	_, ok := b.TopBid()
	assert.False(t, ok)
	_, ok = b.TopAsk()
	assert.False(t, ok)
}

func TestBook_AddAndTop(t *testing.T) {
	b := NewBook("AAPL")

	require.NoError(t, b.Add(createTestOrder(1, marketv1.SideBuy, "100.00", 10)))
	require.NoError(t, b.Add(createTestOrder(2, marketv1.SideBuy, "101.00", 5)))
	require.NoError(t, b.Add(createTestOrder(3, marketv1.SideSell, "103.00", 7)))
	require.NoError(t, b.Add(createTestOrder(4, marketv1.SideSell, "102.00", 3)))

	bid, ok := b.TopBid()
	require.True(t, ok)
	assert.Equal(t, int64(2), bid.ID) // highest bid first

	ask, ok := b.TopAsk()
	require.True(t, ok)
	assert.Equal(t, int64(4), ask.ID) // lowest ask first

	assert.Equal(t, 4, b.Len())
	assert.NoError(t, b.Validate())
}

func TestBook_PriceTimePriority(t *testing.T) {
	b := NewBook("AAPL")

	early := createTestOrder(1, marketv1.SideSell, "100.00", 10)
	late := createTestOrder(2, marketv1.SideSell, "100.00", 10)
	late.Timestamp = early.Timestamp + 1

	// insert out of arrival order, priority must still be by timestamp
	require.NoError(t, b.Add(late))
	require.NoError(t, b.Add(early))

	ask, ok := b.TopAsk()
	require.True(t, ok)
	assert.Equal(t, int64(1), ask.ID)
}

func TestBook_TimestampTieBrokenByInsertion(t *testing.T) {
	b := NewBook("AAPL")

	first := createTestOrder(1, marketv1.SideBuy, "100.00", 10)
	second := createTestOrder(2, marketv1.SideBuy, "100.00", 10)
	second.Timestamp = first.Timestamp

	require.NoError(t, b.Add(first))
	require.NoError(t, b.Add(second))

	bid, ok := b.TopBid()
	require.True(t, ok)
	assert.Equal(t, int64(1), bid.ID)
}

func TestBook_SamePriceDifferentScale(t *testing.T) {
	b := NewBook("AAPL")

	require.NoError(t, b.Add(createTestOrder(1, marketv1.SideSell, "101", 10)))
	require.NoError(t, b.Add(createTestOrder(2, marketv1.SideSell, "101.00", 5)))

	// both orders should land on one price level
	entries := b.Snapshot(marketv1.SideSell, 0)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].OrderID)
	assert.Equal(t, int64(2), entries[1].OrderID)
	assert.NoError(t, b.Validate())
}

func TestBook_SnapshotBestToWorst(t *testing.T) {
	b := NewBook("AAPL")

	require.NoError(t, b.Add(createTestOrder(1, marketv1.SideSell, "102.00", 1)))
	require.NoError(t, b.Add(createTestOrder(2, marketv1.SideSell, "100.00", 2)))
	require.NoError(t, b.Add(createTestOrder(3, marketv1.SideSell, "101.00", 3)))
	require.NoError(t, b.Add(createTestOrder(4, marketv1.SideBuy, "99.00", 4)))
	require.NoError(t, b.Add(createTestOrder(5, marketv1.SideBuy, "98.00", 5)))

	asks := b.Snapshot(marketv1.SideSell, 0)
	require.Len(t, asks, 3)
	assert.Equal(t, []int64{2, 3, 1}, []int64{asks[0].OrderID, asks[1].OrderID, asks[2].OrderID})

	bids := b.Snapshot(marketv1.SideBuy, 1)
	require.Len(t, bids, 1)
	assert.Equal(t, int64(4), bids[0].OrderID)
	assert.Equal(t, int64(4), bids[0].Remaining)
}

func TestBook_Cancel(t *testing.T) {
	b := NewBook("AAPL")

	require.NoError(t, b.Add(createTestOrder(1, marketv1.SideBuy, "100.00", 10)))
	require.NoError(t, b.Add(createTestOrder(2, marketv1.SideBuy, "100.00", 10)))

	assert.True(t, b.Cancel(1))
	assert.Equal(t, 1, b.Len())

	bid, ok := b.TopBid()
	require.True(t, ok)
	assert.Equal(t, int64(2), bid.ID)

	// cancelling an absent id is a no-op
	assert.False(t, b.Cancel(1))
	assert.False(t, b.Cancel(42))
	assert.NoError(t, b.Validate())
}

func TestBook_CancelLastOrderDropsLevel(t *testing.T) {
	b := NewBook("AAPL")

	require.NoError(t, b.Add(createTestOrder(1, marketv1.SideSell, "100.00", 10)))
	require.NoError(t, b.Add(createTestOrder(2, marketv1.SideSell, "101.00", 10)))

	assert.True(t, b.Cancel(1))

	ask, ok := b.TopAsk()
	require.True(t, ok)
	assert.Equal(t, int64(2), ask.ID)
	assert.NoError(t, b.Validate())
}

func TestBook_DuplicateIDRejected(t *testing.T) {
	b := NewBook("AAPL")

	require.NoError(t, b.Add(createTestOrder(1, marketv1.SideBuy, "100.00", 10)))
	err := b.Add(createTestOrder(1, marketv1.SideBuy, "101.00", 10))

	assert.ErrorIs(t, err, marketv1.ErrDuplicateOrder)
	assert.Equal(t, 1, b.Len())
}

func TestBook_RejectsInvalidOrders(t *testing.T) {
	b := NewBook("AAPL")

	assert.Error(t, b.Add(nil))
	assert.Error(t, b.Add(createTestOrder(1, marketv1.SideBuy, "0", 10)))

	empty := createTestOrder(2, marketv1.SideBuy, "100.00", 10)
	empty.Remaining = 0
	assert.Error(t, b.Add(empty))
}

func TestBook_TotalVolume(t *testing.T) {
	b := NewBook("AAPL")

	require.NoError(t, b.Add(createTestOrder(1, marketv1.SideSell, "100.00", 10)))
	require.NoError(t, b.Add(createTestOrder(2, marketv1.SideSell, "101.00", 20)))
	require.NoError(t, b.Add(createTestOrder(3, marketv1.SideBuy, "99.00", 5)))

	assert.Equal(t, int64(30), b.TotalVolume(marketv1.SideSell))
	assert.Equal(t, int64(5), b.TotalVolume(marketv1.SideBuy))
}

func TestBook_RestingOrderRetrievalOrder(t *testing.T) {
	b := NewBook("AAPL")

	// a pile of sell limits in shuffled price order
	prices := []string{"105.00", "101.00", "103.00", "101.00", "102.00", "104.00", "101.00"}
	for i, p := range prices {
		require.NoError(t, b.Add(createTestOrder(int64(i+1), marketv1.SideSell, p, 1)))
	}

	entries := b.Snapshot(marketv1.SideSell, 0)
	require.Len(t, entries, len(prices))
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		cmp := prev.Price.Cmp(cur.Price)
		require.LessOrEqual(t, cmp, 0, "asks must be sorted ascending")
		if cmp == 0 {
			require.Less(t, prev.OrderID, cur.OrderID, "equal prices must keep arrival order")
		}
	}
}

func BenchmarkBook_AddCancel(b *testing.B) {
	book := NewBook("AAPL")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := int64(i + 1)
		price := fmt.Sprintf("%d.00", 100+i%50)
		_ = book.Add(createTestOrder(id, marketv1.SideBuy, price, 10))
		if i%2 == 0 {
			book.Cancel(id)
		}
	}
}
