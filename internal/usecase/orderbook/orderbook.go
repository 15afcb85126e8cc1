// Package orderbook holds the per-instrument two-sided priority structure of
// resting orders. The book only stores what is handed to it: matching and
// removal of filled orders are driven by the engine.
package orderbook

import (
	"container/heap"
	"fmt"
	"sort"

	marketv1 "github.com/Divyam-Gupta2006/stock-trading-simulator/internal/domain/market/v1"
	"github.com/shopspring/decimal"
)

// priceScale fixes the number of decimal places used to key price levels, so
// 101, 101.0 and 101.00 land on the same level.
const priceScale = 6

// level is a FIFO queue of resting orders at one price.
type level struct {
	price  decimal.Decimal
	orders []*marketv1.Order
}

// BookEntry is one resting order projected for snapshot viewers.
type BookEntry struct {
	Price     decimal.Decimal `json:"price"`
	Remaining int64           `json:"remaining"`
	OrderID   int64           `json:"orderID"`
}

// Book is a per-instrument order book: bid side ordered by price descending,
// ask side by price ascending, with (timestamp, insertion sequence) breaking
// price ties. Price heaps give O(log n) insert and O(1) best-price peek; an
// id index gives cancel without scanning a side.
//
// Invariant: an order is present in a side's level queue iff it is present in
// the index, while resting.
type Book struct {
	symbol string

	bidHeap *maxPriceHeap
	askHeap *minPriceHeap

	bids map[string]*level // price key -> FIFO queue
	asks map[string]*level

	index     map[int64]*marketv1.Order // order id -> resting order
	insertSeq int64
}

// NewBook creates an empty book for symbol.
func NewBook(symbol string) *Book {
	bidHeap := &maxPriceHeap{}
	askHeap := &minPriceHeap{}
	heap.Init(bidHeap)
	heap.Init(askHeap)

	return &Book{
		symbol:  symbol,
		bidHeap: bidHeap,
		askHeap: askHeap,
		bids:    make(map[string]*level),
		asks:    make(map[string]*level),
		index:   make(map[int64]*marketv1.Order),
	}
}

// Symbol returns the instrument this book belongs to.
func (b *Book) Symbol() string {
	return b.symbol
}

func priceKey(p decimal.Decimal) string {
	return p.StringFixed(priceScale)
}

// Add inserts a resting order into the appropriate side.
func (b *Book) Add(o *marketv1.Order) error {
	if o == nil {
		return fmt.Errorf("order cannot be nil")
	}
	if o.Remaining <= 0 {
		return fmt.Errorf("order %d has no remaining quantity", o.ID)
	}
	if !o.Price.IsPositive() {
		return fmt.Errorf("order %d price must be positive, got %s", o.ID, o.Price)
	}
	if _, exists := b.index[o.ID]; exists {
		return fmt.Errorf("%w: %d", marketv1.ErrDuplicateOrder, o.ID)
	}

	b.insertSeq++
	o.Sequence = b.insertSeq

	key := priceKey(o.Price)
	levels := b.sideLevels(o.Side)
	lvl, exists := levels[key]
	if !exists {
		lvl = &level{price: o.Price}
		levels[key] = lvl
		if o.IsBuy() {
			heap.Push(b.bidHeap, o.Price)
		} else {
			heap.Push(b.askHeap, o.Price)
		}
	}
	lvl.insert(o)
	b.index[o.ID] = o

	return nil
}

// insert places o into the queue keeping (timestamp, sequence) order. New
// orders almost always append, so scan from the tail.
func (l *level) insert(o *marketv1.Order) {
	i := len(l.orders)
	for i > 0 {
		prev := l.orders[i-1]
		if prev.Timestamp < o.Timestamp ||
			(prev.Timestamp == o.Timestamp && prev.Sequence < o.Sequence) {
			break
		}
		i--
	}
	l.orders = append(l.orders, nil)
	copy(l.orders[i+1:], l.orders[i:])
	l.orders[i] = o
}

func (l *level) remove(o *marketv1.Order) bool {
	for i, cur := range l.orders {
		if cur == o {
			l.orders = append(l.orders[:i], l.orders[i+1:]...)
			return true
		}
	}
	return false
}

func (b *Book) sideLevels(s marketv1.Side) map[string]*level {
	if s == marketv1.SideBuy {
		return b.bids
	}
	return b.asks
}

// Cancel removes a resting order by id. Cancelling an absent id is a no-op.
func (b *Book) Cancel(id int64) bool {
	o, ok := b.index[id]
	if !ok {
		return false
	}
	b.removeResting(o)
	return true
}

// Remove takes a resting order out of the book. The engine calls this once a
// resting order is fully filled.
func (b *Book) Remove(o *marketv1.Order) {
	if _, ok := b.index[o.ID]; !ok {
		return
	}
	b.removeResting(o)
}

func (b *Book) removeResting(o *marketv1.Order) {
	key := priceKey(o.Price)
	levels := b.sideLevels(o.Side)
	lvl, ok := levels[key]
	if ok && lvl.remove(o) && len(lvl.orders) == 0 {
		delete(levels, key)
		b.dropPrice(o.Side, o.Price)
	}
	delete(b.index, o.ID)
}

// dropPrice removes a now-empty price level from its heap.
func (b *Book) dropPrice(s marketv1.Side, p decimal.Decimal) {
	if s == marketv1.SideBuy {
		for i, v := range *b.bidHeap {
			if v.Equal(p) {
				heap.Remove(b.bidHeap, i)
				return
			}
		}
		return
	}
	for i, v := range *b.askHeap {
		if v.Equal(p) {
			heap.Remove(b.askHeap, i)
			return
		}
	}
}

// TopBid returns the highest-priority resting buy order without removing it.
func (b *Book) TopBid() (*marketv1.Order, bool) {
	if b.bidHeap.Len() == 0 {
		return nil, false
	}
	lvl := b.bids[priceKey((*b.bidHeap)[0])]
	return lvl.orders[0], true
}

// TopAsk returns the highest-priority resting sell order without removing it.
func (b *Book) TopAsk() (*marketv1.Order, bool) {
	if b.askHeap.Len() == 0 {
		return nil, false
	}
	lvl := b.asks[priceKey((*b.askHeap)[0])]
	return lvl.orders[0], true
}

// Get returns the resting order with the given id, nil if not resting.
func (b *Book) Get(id int64) *marketv1.Order {
	return b.index[id]
}

// Len returns the number of resting orders on both sides.
func (b *Book) Len() int {
	return len(b.index)
}

// Snapshot projects up to n resting orders on the given side, best-to-worst
// in (price, timestamp, sequence) priority. n <= 0 returns the whole side.
func (b *Book) Snapshot(side marketv1.Side, n int) []BookEntry {
	levels := b.sideLevels(side)

	prices := make([]decimal.Decimal, 0, len(levels))
	for _, lvl := range levels {
		prices = append(prices, lvl.price)
	}
	if side == marketv1.SideBuy {
		sort.Slice(prices, func(i, j int) bool { return prices[i].GreaterThan(prices[j]) })
	} else {
		sort.Slice(prices, func(i, j int) bool { return prices[i].LessThan(prices[j]) })
	}

	var entries []BookEntry
	for _, p := range prices {
		for _, o := range levels[priceKey(p)].orders {
			entries = append(entries, BookEntry{
				Price:     o.Price,
				Remaining: o.Remaining,
				OrderID:   o.ID,
			})
			if n > 0 && len(entries) == n {
				return entries
			}
		}
	}
	return entries
}

// TotalVolume sums the remaining quantity resting on the given side.
func (b *Book) TotalVolume(side marketv1.Side) int64 {
	var total int64
	for _, lvl := range b.sideLevels(side) {
		for _, o := range lvl.orders {
			total += o.Remaining
		}
	}
	return total
}

// Validate checks the level/index invariant, for tests.
func (b *Book) Validate() error {
	seen := 0
	for _, levels := range []map[string]*level{b.bids, b.asks} {
		for key, lvl := range levels {
			if len(lvl.orders) == 0 {
				return fmt.Errorf("empty level %s retained", key)
			}
			for _, o := range lvl.orders {
				if b.index[o.ID] != o {
					return fmt.Errorf("order %d in level %s missing from index", o.ID, key)
				}
				seen++
			}
		}
	}
	if seen != len(b.index) {
		return fmt.Errorf("index holds %d orders, levels hold %d", len(b.index), seen)
	}
	return nil
}
