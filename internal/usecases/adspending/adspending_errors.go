package adspending

import "errors"

var (
	ErrStoreIDRequired    = errors.New("store ID is required")
	ErrStoreNotFound      = errors.New("store not found")
	ErrUnknownProvider    = errors.New("unknown ad provider")
	ErrInvalidDate        = errors.New("ad spend date is required")
	ErrNegativeSpend      = errors.New("ad spend cannot be negative")
	ErrSpendOutOfRange    = errors.New("ad spend out of range")
	ErrCurrencyConversion = errors.New("ad spend currency conversion failed")
	ErrDatabaseOperation  = errors.New("database operation error")
)
