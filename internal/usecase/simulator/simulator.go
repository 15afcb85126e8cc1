// Package simulator drives the tick loop: advance the price feed, run the
// registered strategies, forward their orders to the matching engine and
// collect the resulting trades.
package simulator

import (
	"context"
	"sync"

	marketv1 "github.com/Divyam-Gupta2006/stock-trading-simulator/internal/domain/market/v1"
	portfoliov1 "github.com/Divyam-Gupta2006/stock-trading-simulator/internal/domain/portfolio/v1"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/internal/usecase/engine"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/internal/usecase/feed"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/internal/usecase/market"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/internal/usecase/orderbook"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/internal/usecase/strategy"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/pkg/logger"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/pkg/sequence"
	"github.com/shopspring/decimal"
)

// TradePublisher receives every trade drained from the engine. Implementations
// must tolerate being called on the simulator's goroutine.
type TradePublisher interface {
	PublishTrade(ctx context.Context, trade *marketv1.Trade) error
}

// registration pairs a trader with its optional strategy. A slice keeps
// registration order stable: strategies run in the order traders were
// registered, and later strategies in a tick observe the book state left by
// earlier ones.
type registration struct {
	trader   *portfoliov1.Trader
	strategy strategy.Strategy
}

// Simulator owns the tick loop and the trader registry. A single mutex
// serializes ticks, manual submissions and snapshot queries, so a GUI or
// test harness may call in from any goroutine.
type Simulator struct {
	mu sync.Mutex

	market   *market.Market
	feed     *feed.Feed
	engine   *engine.Engine
	orderIDs *sequence.Sequence
	logger   *logger.Logger

	publisher TradePublisher

	registrations []registration
	traders       map[string]*portfoliov1.Trader
	tradeLog      []*marketv1.Trade
	tick          int64
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithPublisher streams every collected trade to p.
func WithPublisher(p TradePublisher) Option {
	return func(s *Simulator) {
		s.publisher = p
	}
}

// New creates a simulator. orderIDs allocates ids for orders submitted
// without one (the strategy path); inject a fresh allocator per simulation
// for deterministic tests.
func New(m *market.Market, f *feed.Feed, e *engine.Engine, orderIDs *sequence.Sequence, log *logger.Logger, opts ...Option) *Simulator {
	s := &Simulator{
		market:   m,
		feed:     f,
		engine:   e,
		orderIDs: orderIDs,
		logger:   log,
		traders:  make(map[string]*portfoliov1.Trader),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterTrader adds a trader and, optionally, a strategy invoked for it
// every tick. Traders must be registered before orders are submitted on
// their behalf or settlement skips their side.
func (s *Simulator) RegisterTrader(t *portfoliov1.Trader, strat strategy.Strategy) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.traders[t.ID] = t
	s.registrations = append(s.registrations, registration{trader: t, strategy: strat})
}

// Submit forwards an order to the matching engine. This is the manual
// (GUI/CLI) entry point; it shares the engine with tick-driven submissions.
// Orders with a zero id get one from the allocator.
func (s *Simulator) Submit(o *marketv1.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submit(o)
}

func (s *Simulator) submit(o *marketv1.Order) error {
	if o.ID == 0 {
		o.ID = s.orderIDs.Next()
	}
	if err := s.engine.Submit(o, s.traders); err != nil {
		return err
	}
	s.collectTrades()
	return nil
}

// Cancel removes a resting order from the symbol's book.
func (s *Simulator) Cancel(symbol string, orderID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Cancel(symbol, orderID)
}

// RunTicks advances the simulation n ticks. Each tick, in strict order:
// every instrument's feed advances and its fresh price lands in the market,
// then each registered strategy runs in registration order with its orders
// submitted synchronously, then newly generated trades are appended to the
// log.
func (s *Simulator) RunTicks(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < n; i++ {
		s.tick++

		s.feed.AdvanceAll()
		for _, sym := range s.market.Symbols() {
			if price, ok := s.feed.LastPrice(sym); ok {
				s.market.SetLastPrice(sym, price)
			}
		}

		for _, reg := range s.registrations {
			if reg.strategy == nil {
				continue
			}
			orders := reg.strategy.GenerateOrders(s.market, reg.trader, s.tick)
			for _, o := range orders {
				if err := s.submit(o); err != nil {
					s.logger.Error(err,
						logger.Field{Key: "traderID", Value: reg.trader.ID},
						logger.Field{Key: "tick", Value: s.tick},
					)
				}
			}
		}

		s.collectTrades()
	}
}

// collectTrades drains the engine into the append-only trade log and streams
// each trade to the publisher when one is wired. Callers hold s.mu.
func (s *Simulator) collectTrades() {
	trades := s.engine.DrainTrades()
	if len(trades) == 0 {
		return
	}
	s.tradeLog = append(s.tradeLog, trades...)

	if s.publisher != nil {
		ctx := context.Background()
		for _, t := range trades {
			// best-effort stream, failures are logged by the publisher
			_ = s.publisher.PublishTrade(ctx, t)
		}
	}
}

// Tick returns the current tick number.
func (s *Simulator) Tick() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Trades returns a copy of the full trade log.
func (s *Simulator) Trades() []*marketv1.Trade {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*marketv1.Trade, len(s.tradeLog))
	copy(out, s.tradeLog)
	return out
}

// LastPrices returns a copy of the per-instrument last prices.
func (s *Simulator) LastPrices() map[string]decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.market.Prices()
}

// Depth returns up to n resting orders on one side of symbol's book,
// best-to-worst.
func (s *Simulator) Depth(symbol string, side marketv1.Side, n int) []orderbook.BookEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.market.Depth(symbol, side, n)
}

// Window returns up to the last n OHLC bars for symbol, for chart viewers.
func (s *Simulator) Window(symbol string, n int) []feed.Bar {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feed.Window(symbol, n)
}

// PortfolioSnapshot returns a trader's cash and positions as copies, or
// false for an unknown trader.
func (s *Simulator) PortfolioSnapshot(traderID string) (decimal.Decimal, map[string]portfoliov1.Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.traders[traderID]
	if !ok {
		return decimal.Decimal{}, nil, false
	}
	return t.Portfolio.Cash(), t.Portfolio.Positions(), true
}
