package insighting

import "errors"

var (
	ErrStoreIDRequired    = errors.New("store ID is required")
	ErrStoreNotFound      = errors.New("store not found")
	ErrInvalidDateRange   = errors.New("start date must not be after end date")
	ErrDateRangeTooLarge  = errors.New("date range exceeds the maximum allowed")
	ErrInvalidChannel     = errors.New("invalid channel")
	ErrSKURequired        = errors.New("sku is required for product metrics")
	ErrCurrencyConversion = errors.New("report currency conversion failed")
)
