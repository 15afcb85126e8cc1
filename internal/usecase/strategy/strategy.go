// Package strategy defines the pluggable trading policy contract and the
// built-in implementations.
package strategy

import (
	marketv1 "github.com/Divyam-Gupta2006/stock-trading-simulator/internal/domain/market/v1"
	portfoliov1 "github.com/Divyam-Gupta2006/stock-trading-simulator/internal/domain/portfolio/v1"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/internal/usecase/orderbook"
	"github.com/shopspring/decimal"
)

// MarketView is the read-only projection of market state a strategy observes.
type MarketView interface {
	LastPrice(symbol string) (decimal.Decimal, bool)
	Depth(symbol string, side marketv1.Side, n int) []orderbook.BookEntry
	Symbols() []string
}

// Strategy observes the market, the invoking trader and the tick number, and
// emits zero or more orders to submit. Implementations must not mutate market
// or portfolio state; returned orders may leave ID zero for the simulator to
// assign.
type Strategy interface {
	GenerateOrders(view MarketView, trader *portfoliov1.Trader, tick int64) []*marketv1.Order
}
