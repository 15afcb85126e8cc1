package strategy

import (
	marketv1 "github.com/Divyam-Gupta2006/stock-trading-simulator/internal/domain/market/v1"
	portfoliov1 "github.com/Divyam-Gupta2006/stock-trading-simulator/internal/domain/portfolio/v1"
	"github.com/shopspring/decimal"
)

// MeanReversion leans against the latest move on one instrument: a drop
// triggers a buy limit just below the new price, a rise triggers a sell limit
// just above it, but only while holding a position to unload.
type MeanReversion struct {
	symbol   string
	offset   decimal.Decimal
	quantity int64

	lastSeen decimal.Decimal
	primed   bool
}

// NewMeanReversion creates the strategy for symbol with the default limit
// offset of 0.05 and order quantity of 10.
func NewMeanReversion(symbol string) *MeanReversion {
	return &MeanReversion{
		symbol:   symbol,
		offset:   decimal.NewFromFloat(0.05),
		quantity: 10,
	}
}

// GenerateOrders implements Strategy. The first observation only records the
// price.
func (s *MeanReversion) GenerateOrders(view MarketView, trader *portfoliov1.Trader, tick int64) []*marketv1.Order {
	price, ok := view.LastPrice(s.symbol)
	if !ok {
		return nil
	}
	if !s.primed {
		s.lastSeen = price
		s.primed = true
		return nil
	}

	var orders []*marketv1.Order
	switch price.Cmp(s.lastSeen) {
	case -1:
		// price dropped, bid below it
		limit := price.Sub(s.offset)
		if limit.IsPositive() {
			orders = append(orders, marketv1.NewOrder(0, trader.ID, s.symbol,
				marketv1.SideBuy, marketv1.OrderKindLimit, limit, s.quantity))
		}
	case 1:
		// price rose, offer above it while holding inventory
		if trader.Portfolio.Position(s.symbol) != nil {
			limit := price.Add(s.offset)
			orders = append(orders, marketv1.NewOrder(0, trader.ID, s.symbol,
				marketv1.SideSell, marketv1.OrderKindLimit, limit, s.quantity))
		}
	}
	s.lastSeen = price
	return orders
}
