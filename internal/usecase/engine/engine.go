// Package engine executes submitted orders against a market's books,
// producing trades and settling them into trader portfolios.
package engine

import (
	"fmt"

	marketv1 "github.com/Divyam-Gupta2006/stock-trading-simulator/internal/domain/market/v1"
	portfoliov1 "github.com/Divyam-Gupta2006/stock-trading-simulator/internal/domain/portfolio/v1"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/internal/usecase/market"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/internal/usecase/orderbook"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/pkg/logger"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/pkg/sequence"
	"github.com/shopspring/decimal"
)

// Engine is the matching engine. All calls into one instance must be
// serialized by the caller: the book, portfolio maps and trade buffer are
// mutated in multi-step sequences with no internal atomicity.
type Engine struct {
	market   *market.Market
	tradeIDs *sequence.Sequence
	logger   *logger.Logger

	trades []*marketv1.Trade // executed since the last drain
}

// New creates an engine over the given market. tradeIDs allocates trade ids;
// inject a fresh allocator per simulation for deterministic tests.
func New(m *market.Market, tradeIDs *sequence.Sequence, log *logger.Logger) *Engine {
	return &Engine{
		market:   m,
		tradeIDs: tradeIDs,
		logger:   log,
	}
}

// Submit attempts immediate execution of o against the resting book, then
// rests any unfilled limit remainder. The unfilled remainder of a market
// order is discarded, never queued. Settlement applies to every trader id
// present in traders; sides owned by unregistered ids are skipped.
func (e *Engine) Submit(o *marketv1.Order, traders map[string]*portfoliov1.Trader) error {
	book := e.market.Book(o.Symbol)
	if book == nil {
		return fmt.Errorf("%w: %s", marketv1.ErrUnknownInstrument, o.Symbol)
	}

	if o.Kind == marketv1.OrderKindMarket {
		if err := e.matchMarket(o, book, traders); err != nil {
			return err
		}
		if !o.Filled() {
			// deliberate simplification: leftover liquidity demand evaporates
			e.logger.Info("market order leftover discarded",
				logger.Field{Key: "orderID", Value: o.ID},
				logger.Field{Key: "symbol", Value: o.Symbol},
				logger.Field{Key: "leftover", Value: o.Remaining},
			)
		}
		return nil
	}

	if err := e.matchLimit(o, book, traders); err != nil {
		return err
	}
	if !o.Filled() {
		return book.Add(o)
	}
	return nil
}

// Cancel removes a resting order from the symbol's book. Cancelling an id
// that is not resting is a no-op.
func (e *Engine) Cancel(symbol string, orderID int64) error {
	book := e.market.Book(symbol)
	if book == nil {
		return fmt.Errorf("%w: %s", marketv1.ErrUnknownInstrument, symbol)
	}
	if book.Cancel(orderID) {
		e.logger.Debug("order cancelled",
			logger.Field{Key: "orderID", Value: orderID},
			logger.Field{Key: "symbol", Value: symbol},
		)
	}
	return nil
}

// DrainTrades returns the trades executed since the last drain and clears
// the buffer.
func (e *Engine) DrainTrades() []*marketv1.Trade {
	out := e.trades
	e.trades = nil
	return out
}

func (e *Engine) matchMarket(o *marketv1.Order, book *orderbook.Book, traders map[string]*portfoliov1.Trader) error {
	for !o.Filled() {
		resting, ok := e.topOpposing(o, book)
		if !ok {
			return nil
		}
		if err := e.execute(o, resting, book, traders); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) matchLimit(o *marketv1.Order, book *orderbook.Book, traders map[string]*portfoliov1.Trader) error {
	for !o.Filled() {
		resting, ok := e.topOpposing(o, book)
		if !ok {
			return nil
		}
		if !marketable(o, resting) {
			return nil
		}
		if err := e.execute(o, resting, book, traders); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) topOpposing(o *marketv1.Order, book *orderbook.Book) (*marketv1.Order, bool) {
	if o.IsBuy() {
		return book.TopAsk()
	}
	return book.TopBid()
}

// marketable reports whether the resting order's price crosses the incoming
// limit price: an ask at or below a buy limit, a bid at or above a sell limit.
func marketable(incoming, resting *marketv1.Order) bool {
	if incoming.IsBuy() {
		return resting.Price.LessThanOrEqual(incoming.Price)
	}
	return resting.Price.GreaterThanOrEqual(incoming.Price)
}

// execute pairs the incoming order with the best resting one: quantity is the
// minimum of both remainders, price is the maker's (the side already resting
// before this submission). A priceless market order always takes the resting
// limit's price.
func (e *Engine) execute(incoming, resting *marketv1.Order, book *orderbook.Book, traders map[string]*portfoliov1.Trader) error {
	qty := incoming.Remaining
	if resting.Remaining < qty {
		qty = resting.Remaining
	}

	price := resting.Price
	if !resting.HasPrice() {
		price = incoming.Price
	}

	buy, sell := incoming, resting
	if !incoming.IsBuy() {
		buy, sell = resting, incoming
	}

	if err := buy.Fill(qty); err != nil {
		return err
	}
	if err := sell.Fill(qty); err != nil {
		return err
	}

	trade := marketv1.NewTrade(e.tradeIDs.Next(), buy.ID, sell.ID, incoming.Symbol, price, qty)
	e.trades = append(e.trades, trade)

	e.settle(trade, buy, sell, traders)

	if resting.Filled() {
		book.Remove(resting)
	}

	e.logger.Debug("trade executed",
		logger.Field{Key: "tradeID", Value: trade.ID},
		logger.Field{Key: "symbol", Value: trade.Symbol},
		logger.Field{Key: "price", Value: price.String()},
		logger.Field{Key: "quantity", Value: qty},
	)
	return nil
}

// settle books both sides of a trade into the owning portfolios. A trader id
// with no registered portfolio is skipped; callers are expected to register
// traders before submitting on their behalf.
func (e *Engine) settle(t *marketv1.Trade, buy, sell *marketv1.Order, traders map[string]*portfoliov1.Trader) {
	total := t.Price.Mul(decimal.NewFromInt(t.Quantity))

	if buyer, ok := traders[buy.TraderID]; ok {
		buyer.Portfolio.ApplyFill(t.Symbol, t.Quantity, t.Price)
		buyer.Portfolio.ChangeCash(total.Neg())
	} else {
		e.logger.Warn("settlement skipped, unregistered buyer",
			logger.Field{Key: "traderID", Value: buy.TraderID},
			logger.Field{Key: "tradeID", Value: t.ID},
		)
	}

	if seller, ok := traders[sell.TraderID]; ok {
		seller.Portfolio.ApplyFill(t.Symbol, -t.Quantity, t.Price)
		seller.Portfolio.ChangeCash(total)
	} else {
		e.logger.Warn("settlement skipped, unregistered seller",
			logger.Field{Key: "traderID", Value: sell.TraderID},
			logger.Field{Key: "tradeID", Value: t.ID},
		)
	}
}
