// Package market maps the fixed instrument set of a simulation to order
// books and last observed prices.
package market

import (
	marketv1 "github.com/Divyam-Gupta2006/stock-trading-simulator/internal/domain/market/v1"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/internal/usecase/orderbook"
	"github.com/shopspring/decimal"
)

// defaultStartPrice backs instruments registered without a starting price.
var defaultStartPrice = decimal.NewFromInt(10)

// Market is the registry of instrument symbol -> order book and -> last
// traded/observed price. The instrument set is fixed at construction for the
// simulation's lifetime.
//
// Only the price feed updates the last price; trade executions do not move it
// until the next tick. The mark price and the trade print are deliberately
// decoupled.
type Market struct {
	books      map[string]*orderbook.Book
	lastPrices map[string]decimal.Decimal
	symbols    []string
}

// New creates a market for the given symbols with their starting prices.
// Symbols missing from initialPrices start at the default price.
func New(symbols []string, initialPrices map[string]decimal.Decimal) *Market {
	m := &Market{
		books:      make(map[string]*orderbook.Book, len(symbols)),
		lastPrices: make(map[string]decimal.Decimal, len(symbols)),
	}
	for _, sym := range symbols {
		if _, dup := m.books[sym]; dup {
			continue
		}
		m.books[sym] = orderbook.NewBook(sym)
		price, ok := initialPrices[sym]
		if !ok {
			price = defaultStartPrice
		}
		m.lastPrices[sym] = price
		m.symbols = append(m.symbols, sym)
	}
	return m
}

// Book returns the order book for symbol, nil if the symbol is unknown.
func (m *Market) Book(symbol string) *orderbook.Book {
	return m.books[symbol]
}

// SetLastPrice records the most recent observed price for symbol.
func (m *Market) SetLastPrice(symbol string, price decimal.Decimal) {
	if _, ok := m.books[symbol]; !ok {
		return
	}
	m.lastPrices[symbol] = price
}

// LastPrice returns the most recent observed price for symbol.
func (m *Market) LastPrice(symbol string) (decimal.Decimal, bool) {
	p, ok := m.lastPrices[symbol]
	return p, ok
}

// Symbols returns the instrument set in registration order.
func (m *Market) Symbols() []string {
	out := make([]string, len(m.symbols))
	copy(out, m.symbols)
	return out
}

// Depth projects up to n resting orders on one side of symbol's book,
// best-to-worst, for read-only viewers. Unknown symbols yield nil.
func (m *Market) Depth(symbol string, side marketv1.Side, n int) []orderbook.BookEntry {
	book, ok := m.books[symbol]
	if !ok {
		return nil
	}
	return book.Snapshot(side, n)
}

// Prices returns a copy of the last-price map for snapshot viewers.
func (m *Market) Prices() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(m.lastPrices))
	for sym, p := range m.lastPrices {
		out[sym] = p
	}
	return out
}
