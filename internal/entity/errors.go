package entity

import "errors"

var (
	// ErrInvalidHandle is returned for blank author handles.
	ErrInvalidHandle = errors.New("invalid author handle")

	// ErrInvalidDateRange is returned when start is after end.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrSymbolNotFound is returned when the price source knows no such symbol.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrSourceUnavailable wraps failures of external collaborators.
	ErrSourceUnavailable = errors.New("source unavailable")
)
