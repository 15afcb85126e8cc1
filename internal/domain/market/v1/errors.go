package marketv1

import "errors"

var (
	// ErrUnknownInstrument rejects a submit or cancel referencing a symbol
	// with no registered book. The order never enters a book.
	ErrUnknownInstrument = errors.New("unknown instrument")
	// ErrInvalidFillQuantity marks an attempt to reduce an order's remaining
	// quantity below zero or by more than currently remaining.
	ErrInvalidFillQuantity = errors.New("invalid fill quantity")
	// ErrDuplicateOrder rejects inserting an order id already resting in a book.
	ErrDuplicateOrder = errors.New("duplicate order id")
	// ErrMalformedHistoryRow classifies an unparseable historical bar row.
	// Ingestion skips the row and continues.
	ErrMalformedHistoryRow = errors.New("malformed history row")
)
