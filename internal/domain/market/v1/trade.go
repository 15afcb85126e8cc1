package marketv1

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Trade records an execution between a buy and a sell order.
// Trades are immutable once created and append-only in the trade log.
type Trade struct {
	ID          int64           `json:"id"`
	BuyOrderID  int64           `json:"buyOrderID"`
	SellOrderID int64           `json:"sellOrderID"`
	Symbol      string          `json:"symbol"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	Timestamp   int64           `json:"timestamp"`
}

// NewTrade creates a trade with the given allocator-provided id.
func NewTrade(id, buyOrderID, sellOrderID int64, symbol string, price decimal.Decimal, quantity int64) *Trade {
	return &Trade{
		ID:          id,
		BuyOrderID:  buyOrderID,
		SellOrderID: sellOrderID,
		Symbol:      symbol,
		Price:       price,
		Quantity:    quantity,
		Timestamp:   time.Now().UnixNano(),
	}
}

func (t *Trade) String() string {
	return fmt.Sprintf("Trade{id=%d %s %d @ %s (%d<->%d)}",
		t.ID, t.Symbol, t.Quantity, t.Price.String(), t.BuyOrderID, t.SellOrderID)
}
