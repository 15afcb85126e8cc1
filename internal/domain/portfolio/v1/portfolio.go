package portfoliov1

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Position holds a signed quantity and its volume-weighted average cost.
type Position struct {
	Quantity int64           `json:"quantity"`
	AvgPrice decimal.Decimal `json:"avgPrice"`
}

func (p *Position) String() string {
	return fmt.Sprintf("Position{qty=%d avg=%s}", p.Quantity, p.AvgPrice.String())
}

// Portfolio is a per-trader cash and position ledger. It is pure bookkeeping
// with no knowledge of the book; the matching engine mutates it during
// settlement and nothing else does.
type Portfolio struct {
	cash      decimal.Decimal
	positions map[string]*Position
}

// NewPortfolio creates a portfolio with the given starting cash.
func NewPortfolio(initialCash decimal.Decimal) *Portfolio {
	return &Portfolio{
		cash:      initialCash,
		positions: make(map[string]*Position),
	}
}

// Cash returns the current cash balance.
func (p *Portfolio) Cash() decimal.Decimal {
	return p.cash
}

// ChangeCash adjusts the cash balance by delta.
func (p *Portfolio) ChangeCash(delta decimal.Decimal) {
	p.cash = p.cash.Add(delta)
}

// Position returns the position for symbol, nil if flat.
func (p *Portfolio) Position(symbol string) *Position {
	return p.positions[symbol]
}

// Positions returns a copy of the position map for read-only viewers.
func (p *Portfolio) Positions() map[string]Position {
	out := make(map[string]Position, len(p.positions))
	for sym, pos := range p.positions {
		out[sym] = *pos
	}
	return out
}

// ApplyFill updates the position for symbol by the signed quantityDelta at
// tradePrice. Same-direction fills blend into a volume-weighted average cost.
// Reducing keeps the old basis; crossing through zero restarts the basis at
// tradePrice for the residual signed quantity. A position reaching exactly
// zero is removed from the map.
func (p *Portfolio) ApplyFill(symbol string, quantityDelta int64, tradePrice decimal.Decimal) {
	pos, ok := p.positions[symbol]
	if !ok {
		if quantityDelta == 0 {
			return
		}
		p.positions[symbol] = &Position{Quantity: quantityDelta, AvgPrice: tradePrice}
		return
	}

	oldQty := pos.Quantity
	newQty := oldQty + quantityDelta

	switch {
	case newQty == 0:
		delete(p.positions, symbol)
	case (oldQty > 0) == (newQty > 0):
		if (oldQty > 0) == (quantityDelta > 0) {
			// adding to a long or a short: weighted average of old cost and fill
			oldCost := pos.AvgPrice.Mul(decimal.NewFromInt(absInt64(oldQty)))
			newCost := tradePrice.Mul(decimal.NewFromInt(absInt64(quantityDelta)))
			combinedQty := decimal.NewFromInt(absInt64(oldQty) + absInt64(quantityDelta))
			pos.AvgPrice = oldCost.Add(newCost).Div(combinedQty)
		}
		// reducing toward zero keeps the old basis
		pos.Quantity = newQty
	default:
		// crossed through zero: residual quantity is newly opened at tradePrice
		pos.Quantity = newQty
		pos.AvgPrice = tradePrice
	}
}

func absInt64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func (p *Portfolio) String() string {
	return fmt.Sprintf("Portfolio{cash=%s positions=%v}", p.cash.String(), p.positions)
}
