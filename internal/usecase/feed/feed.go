// Package feed advances per-instrument prices tick by tick. An instrument
// replays loaded historical bars until the cursor reaches the end, then (or
// when no history was loaded) runs a bounded stochastic model: mean reversion
// toward a noisy trend, a GARCH-like variance process, short-memory AR noise
// and rare heavy-tailed jumps. Emitted prices are always finite, positive and
// floored at a minimum.
package feed

import (
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/Divyam-Gupta2006/stock-trading-simulator/pkg/logger"
	"github.com/shopspring/decimal"
)

// Model parameters for the synthetic price process.
const (
	meanReversionRate = 0.0005
	trendNoiseScale   = 0.0002
	garchOmega        = 1e-6
	garchAlpha        = 0.08
	garchBeta         = 0.90
	arPhi             = 0.15
	jumpProb          = 0.012
	jumpScale         = 0.04
	minPrice          = 0.01

	initialVariance = 0.0004
	varianceFloor   = 1e-8
	varianceCap     = 0.5

	priceScale = 6
)

// Bar is one OHLC bar, either ingested from history or synthesized for the
// chart window.
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// instrumentState bundles the replay cursor and the synthetic-process state
// for one instrument. Replay is active iff cursor < len(bars).
type instrumentState struct {
	bars   []Bar
	cursor int

	last     float64 // last emitted price
	variance float64
	trend    float64
	ar       float64
}

// Feed evolves prices for a fixed set of instruments. The random source is
// injected so simulations can be made reproducible; all calls into one Feed
// must be serialized by the caller.
type Feed struct {
	rng    *rand.Rand
	logger *logger.Logger

	states     map[string]*instrumentState
	symbols    []string
	lastPrices map[string]decimal.Decimal
	ticks      int64
}

// New creates a feed seeded with starting prices per instrument.
func New(initial map[string]decimal.Decimal, rng *rand.Rand, log *logger.Logger) *Feed {
	f := &Feed{
		rng:        rng,
		logger:     log,
		states:     make(map[string]*instrumentState, len(initial)),
		lastPrices: make(map[string]decimal.Decimal, len(initial)),
	}
	for sym, price := range initial {
		p := price.InexactFloat64()
		f.states[sym] = &instrumentState{
			last:     p,
			variance: initialVariance,
			trend:    p,
		}
		f.lastPrices[sym] = price
		f.symbols = append(f.symbols, sym)
	}
	return f
}

// AdvanceAll moves every known instrument one bar/tick forward.
func (f *Feed) AdvanceAll() {
	for _, sym := range f.symbols {
		f.Advance(sym)
	}
	f.ticks++
}

// Advance moves symbol exactly one bar/tick forward and updates its last
// price. Unknown symbols are ignored.
func (f *Feed) Advance(symbol string) {
	st, ok := f.states[symbol]
	if !ok {
		return
	}

	if st.cursor < len(st.bars) {
		f.replayStep(symbol, st)
		return
	}
	f.syntheticStep(symbol, st)
}

// replayStep emits the next historical close and nudges the variance upward
// proportionally to the realized move, so a replay-to-synthetic handoff keeps
// a plausible volatility regime.
func (f *Feed) replayStep(symbol string, st *instrumentState) {
	next := st.bars[st.cursor].Close
	st.cursor++

	move := math.Abs(next - st.last)
	st.variance = math.Min(varianceCap, st.variance*0.995+move*1e-4)
	st.last = next
	f.commit(symbol, st, next)
}

func (f *Feed) syntheticStep(symbol string, st *instrumentState) {
	shock := f.rng.NormFloat64()
	retShock := shock * math.Sqrt(st.variance)

	// AR micro-noise
	st.ar = arPhi*st.ar + 0.08*f.rng.NormFloat64()*math.Sqrt(st.variance)

	// trend drifts with small multiplicative noise
	st.trend *= 1.0 + trendNoiseScale*f.rng.NormFloat64()

	reversion := meanReversionRate * (st.trend - st.last) / math.Max(st.last, minPrice)

	pctReturn := reversion + retShock + st.ar

	// occasional heavy jump, inflating variance with its magnitude
	if f.rng.Float64() < jumpProb {
		heavy := math.Abs(f.rng.NormFloat64()) + 0.2
		sign := 1.0
		if f.rng.Intn(2) == 0 {
			sign = -1.0
		}
		jump := sign * heavy * jumpScale
		pctReturn += jump
		st.variance = math.Min(varianceCap, st.variance+0.5*math.Abs(jump))
	}

	next := st.last * (1.0 + pctReturn)

	if math.IsNaN(next) || math.IsInf(next, 0) || next < minPrice {
		// numeric instability is recovered internally, never surfaced
		next = math.Max(minPrice, st.last*(1.0+f.rng.NormFloat64()*0.001))
	}

	newVariance := garchOmega + garchAlpha*pctReturn*pctReturn + garchBeta*st.variance
	st.variance = math.Max(varianceFloor, math.Min(newVariance, varianceCap))

	st.last = next
	f.commit(symbol, st, next)
}

func (f *Feed) commit(symbol string, st *instrumentState, price float64) {
	f.lastPrices[symbol] = decimal.NewFromFloat(price).Round(priceScale)
}

// LastPrice returns the most recently emitted price for symbol.
func (f *Feed) LastPrice(symbol string) (decimal.Decimal, bool) {
	p, ok := f.lastPrices[symbol]
	return p, ok
}

// Symbols returns every instrument the feed knows about.
func (f *Feed) Symbols() []string {
	out := make([]string, len(f.symbols))
	copy(out, f.symbols)
	return out
}

// ReplayIndex returns the current replay cursor for symbol.
func (f *Feed) ReplayIndex(symbol string) int {
	if st, ok := f.states[symbol]; ok {
		return st.cursor
	}
	return 0
}

// HistoryLen returns the number of loaded historical bars for symbol.
func (f *Feed) HistoryLen(symbol string) int {
	if st, ok := f.states[symbol]; ok {
		return len(st.bars)
	}
	return 0
}

// ResetReplay rewinds or forwards the replay cursor, clamped to the loaded
// history.
func (f *Feed) ResetReplay(symbol string, toIndex int) {
	st, ok := f.states[symbol]
	if !ok {
		return
	}
	if toIndex < 0 {
		toIndex = 0
	}
	if toIndex > len(st.bars) {
		toIndex = len(st.bars)
	}
	st.cursor = toIndex
}

// Window returns up to the last n bars for charting. While replaying it
// slices the real history up to the cursor; once synthetic it fabricates a
// jittered window around the last price, deterministic over short spans so
// the chart does not flicker.
func (f *Feed) Window(symbol string, n int) []Bar {
	st, ok := f.states[symbol]
	if !ok || n <= 0 {
		return nil
	}

	if len(st.bars) > 0 {
		end := st.cursor
		if end > len(st.bars) {
			end = len(st.bars)
		}
		start := end - n
		if start < 0 {
			start = 0
		}
		if end <= start {
			return nil
		}
		out := make([]Bar, end-start)
		copy(out, st.bars[start:end])
		return out
	}

	return f.syntheticWindow(symbol, st, n)
}

func (f *Feed) syntheticWindow(symbol string, st *instrumentState, n int) []Bar {
	if n > 100 {
		n = 100
	}

	h := fnv.New64a()
	h.Write([]byte(symbol))
	seed := int64(h.Sum64()) ^ (time.Now().UnixMilli() / 60000)
	r := rand.New(rand.NewSource(seed))

	now := time.Now()
	out := make([]Bar, n)
	for i := range out {
		base := st.last * (1.0 - 0.004 + r.Float64()*0.008)
		open := base
		closeP := base * (1.0 - 0.002 + r.Float64()*0.004)
		high := math.Max(open, closeP) * (1.0 + r.Float64()*0.003)
		low := math.Min(open, closeP) * (1.0 - r.Float64()*0.003)
		out[i] = Bar{
			Timestamp: now.Add(-time.Duration(n-i) * time.Hour),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closeP,
			Volume:    float64(100 + r.Intn(900)),
		}
	}
	return out
}
