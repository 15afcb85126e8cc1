package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	marketv1 "github.com/Divyam-Gupta2006/stock-trading-simulator/internal/domain/market/v1"
	portfoliov1 "github.com/Divyam-Gupta2006/stock-trading-simulator/internal/domain/portfolio/v1"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/internal/usecase/engine"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/internal/usecase/feed"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/internal/usecase/market"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/internal/usecase/simulator"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/internal/usecase/strategy"
	tradepublisher "github.com/Divyam-Gupta2006/stock-trading-simulator/internal/usecase/trade-publisher"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/pkg/config"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/pkg/logger"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/pkg/sequence"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	config.MustLoad(cfg)

	l, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)))
	if err != nil {
		panic(err)
	}
	log = l
}

func main() {
	defer log.Sync()

	runID := ulid.Make().String()
	log.Info("simulation starting",
		logger.Field{Key: "runID", Value: runID},
		logger.Field{Key: "ticks", Value: cfg.App.Ticks},
	)

	initialPrices, symbols, err := cfg.Market.ParseInstruments()
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}

	seed := cfg.Feed.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	mkt := market.New(symbols, initialPrices)
	priceFeed := feed.New(initialPrices, rng, log)

	if cfg.Feed.HistoryDir != "" {
		for _, sym := range symbols {
			path := filepath.Join(cfg.Feed.HistoryDir, sym+".csv")
			if _, statErr := os.Stat(path); statErr != nil {
				continue
			}
			if err := priceFeed.LoadCSV(sym, path); err != nil {
				log.Error(err, logger.Field{Key: "symbol", Value: sym})
			}
		}
	}

	orderIDs := sequence.New()
	tradeIDs := sequence.New()
	matching := engine.New(mkt, tradeIDs, log)

	var opts []simulator.Option
	var publisher *tradepublisher.Publisher
	if cfg.Publisher.Enabled {
		publisher = tradepublisher.NewPublisher(cfg.Publisher, log)
		defer publisher.Close()
		opts = append(opts, simulator.WithPublisher(publisher))
	}

	sim := simulator.New(mkt, priceFeed, matching, orderIDs, log, opts...)

	// two demo traders: one running the mean-reversion strategy on the first
	// instrument, one passive liquidity provider
	alice := portfoliov1.NewTrader("T1", "Alice", portfoliov1.NewPortfolio(decimal.NewFromInt(100_000)))
	bob := portfoliov1.NewTrader("T2", "Bob", portfoliov1.NewPortfolio(decimal.NewFromInt(100_000)))
	sim.RegisterTrader(alice, strategy.NewMeanReversion(symbols[0]))
	sim.RegisterTrader(bob, nil)

	// seed some resting liquidity so early ticks have something to match
	start := initialPrices[symbols[0]]
	ask := start.Add(decimal.NewFromInt(1))
	if err := sim.Submit(marketv1.NewOrder(0, bob.ID, symbols[0],
		marketv1.SideSell, marketv1.OrderKindLimit, ask, 50)); err != nil {
		log.Error(err)
	}

	sim.RunTicks(cfg.App.Ticks)

	log.Info("simulation finished",
		logger.Field{Key: "runID", Value: runID},
		logger.Field{Key: "trades", Value: len(sim.Trades())},
	)

	for sym, price := range sim.LastPrices() {
		fmt.Printf("%-6s %s\n", sym, price.StringFixed(2))
	}
	for _, t := range []*portfoliov1.Trader{alice, bob} {
		cash, positions, _ := sim.PortfolioSnapshot(t.ID)
		fmt.Printf("%s: cash=%s positions=%v\n", t.Name, cash.StringFixed(2), positions)
	}
}
