package marketv1

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Side represents the order side: buy or sell.
type Side uint8

const (
	// SideBuy represents a buy order.
	SideBuy Side = iota
	// SideSell represents a sell order.
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Opposite returns the opposite side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// OrderKind represents the order kind: limit or market.
type OrderKind uint8

const (
	// OrderKindLimit represents a limit order with a price.
	OrderKindLimit OrderKind = iota
	// OrderKindMarket represents a market order with no price.
	OrderKindMarket
)

func (k OrderKind) String() string {
	switch k {
	case OrderKindLimit:
		return "LIMIT"
	case OrderKindMarket:
		return "MARKET"
	default:
		return "UNKNOWN"
	}
}

// Order represents a single order. Identity fields never change after
// construction; only Remaining decreases as fills are applied.
type Order struct {
	ID        int64           `json:"id"`
	TraderID  string          `json:"traderID"`
	Symbol    string          `json:"symbol"`
	Side      Side            `json:"side"`
	Kind      OrderKind       `json:"kind"`
	Price     decimal.Decimal `json:"price"` // meaningful only for limit orders
	Original  int64           `json:"original"`
	Remaining int64           `json:"remaining"`
	Timestamp int64           `json:"timestamp"` // UnixNano at submission, matching tie-break
	Sequence  int64           `json:"sequence"`  // insertion order within the book, breaks timestamp ties
}

// NewOrder creates an order with the given allocator-provided id.
// Price is ignored for market orders.
func NewOrder(id int64, traderID, symbol string, side Side, kind OrderKind, price decimal.Decimal, quantity int64) *Order {
	return &Order{
		ID:        id,
		TraderID:  traderID,
		Symbol:    symbol,
		Side:      side,
		Kind:      kind,
		Price:     price,
		Original:  quantity,
		Remaining: quantity,
		Timestamp: time.Now().UnixNano(),
	}
}

// Fill reduces the remaining quantity by qty. Over-reduction is an
// invariant violation and fails, it never clamps.
func (o *Order) Fill(qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: fill of %d on order %d", ErrInvalidFillQuantity, qty, o.ID)
	}
	if qty > o.Remaining {
		return fmt.Errorf("%w: fill of %d exceeds remaining %d on order %d", ErrInvalidFillQuantity, qty, o.Remaining, o.ID)
	}
	o.Remaining -= qty
	return nil
}

// Filled checks if the order is fully filled.
func (o *Order) Filled() bool {
	return o.Remaining == 0
}

// IsBuy checks if the order is on the buy side.
func (o *Order) IsBuy() bool {
	return o.Side == SideBuy
}

// HasPrice reports whether the order carries a price of its own.
func (o *Order) HasPrice() bool {
	return o.Kind == OrderKindLimit
}

func (o *Order) String() string {
	return fmt.Sprintf("Order{id=%d trader=%s %s %s %s x%d rem=%d}",
		o.ID, o.TraderID, o.Side, o.Kind, o.Symbol, o.Original, o.Remaining)
}
