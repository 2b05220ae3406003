package usecase

import "errors"

var (
	// ErrInvalidSymbol rejects tickers outside ^[A-Z]{1,5}(\.[A-Z]{1,3})?$.
	ErrInvalidSymbol = errors.New("invalid stock symbol format")
	ErrEmptyQuery    = errors.New("query parameter required")
)
