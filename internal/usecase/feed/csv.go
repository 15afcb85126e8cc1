package feed

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	marketv1 "github.com/Divyam-Gupta2006/stock-trading-simulator/internal/domain/market/v1"
	"github.com/Divyam-Gupta2006/stock-trading-simulator/pkg/logger"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order when parsing a bar's date column.
var dateLayouts = []string{
	"02-01-2006",
	"02/01/2006",
	"01/02/2006",
	"2006-01-02",
	"Jan 02, 2006",
}

// LoadCSV ingests an Investing.com-style CSV for symbol. Expected columns:
// Date,Price,Open,High,Low,Vol (extra columns ignored). Rows are listed
// newest first and get reversed to chronological order. Malformed rows are
// skipped with a diagnostic; a file yielding zero valid rows is an error.
//
// Loading history (re)arms the replay cursor at the start and seeds the last
// price from the final close.
func (f *Feed) LoadCSV(symbol, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open history for %s", symbol)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return errors.Wrapf(err, "read history for %s", symbol)
	}
	if len(records) < 2 {
		return errors.Errorf("empty history file %s", path)
	}

	var bars []Bar
	for i, rec := range records[1:] { // skip header
		lineno := i + 2
		bar, err := parseBarRow(rec)
		if err != nil {
			f.logger.Warn("skipping history row",
				logger.Field{Key: "symbol", Value: symbol},
				logger.Field{Key: "path", Value: path},
				logger.Field{Key: "line", Value: lineno},
				logger.Field{Key: "reason", Value: err.Error()},
			)
			continue
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return errors.Errorf("no valid rows parsed from %s", path)
	}

	// newest first on disk, chronological in memory
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}

	st, ok := f.states[symbol]
	if !ok {
		st = &instrumentState{variance: initialVariance}
		f.states[symbol] = st
		f.symbols = append(f.symbols, symbol)
	}
	st.bars = bars
	st.cursor = 0

	last := bars[len(bars)-1].Close
	st.last = last
	if st.trend == 0 {
		st.trend = last
	}
	f.lastPrices[symbol] = decimal.NewFromFloat(last).Round(priceScale)

	f.logger.Info("history loaded",
		logger.Field{Key: "symbol", Value: symbol},
		logger.Field{Key: "bars", Value: len(bars)},
	)
	return nil
}

func parseBarRow(rec []string) (Bar, error) {
	if len(rec) < 6 {
		return Bar{}, fmt.Errorf("%w: want 6 columns, got %d", marketv1.ErrMalformedHistoryRow, len(rec))
	}

	fields := make([]string, len(rec))
	for i, raw := range rec {
		fields[i] = strings.Trim(strings.TrimSpace(raw), `"`)
	}

	ts, err := parseBarDate(fields[0])
	if err != nil {
		return Bar{}, err
	}

	closeP, err := parsePrice(fields[1])
	if err != nil {
		return Bar{}, err
	}
	open, err := parsePrice(fields[2])
	if err != nil {
		return Bar{}, err
	}
	high, err := parsePrice(fields[3])
	if err != nil {
		return Bar{}, err
	}
	low, err := parsePrice(fields[4])
	if err != nil {
		return Bar{}, err
	}

	return Bar{
		Timestamp: ts,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closeP,
		Volume:    parseVolume(fields[5]),
	}, nil
}

func parseBarDate(s string) (time.Time, error) {
	s = strings.TrimPrefix(s, "\ufeff")
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date %q", marketv1.ErrMalformedHistoryRow, s)
}

func parsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unparseable price %q", marketv1.ErrMalformedHistoryRow, s)
	}
	return v, nil
}

// parseVolume handles "9.42M", "12K", "1,234" and "-". Unparseable volumes
// degrade to zero rather than dropping the bar.
func parseVolume(s string) float64 {
	s = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if s == "" || s == "-" {
		return 0
	}

	mult := 1.0
	switch {
	case strings.HasSuffix(s, "K"):
		mult, s = 1e3, s[:len(s)-1]
	case strings.HasSuffix(s, "M"):
		mult, s = 1e6, s[:len(s)-1]
	case strings.HasSuffix(s, "B"):
		mult, s = 1e9, s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v * mult
}
