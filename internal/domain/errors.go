package domain

import "errors"

// Domain errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInternalError     = errors.New("internal error")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrExpenseNotFound   = errors.New("expense not found")
	ErrIncomeNotFound    = errors.New("income not found")
	ErrPortfolioNotFound = errors.New("portfolio not found")
	ErrAssetNotFound     = errors.New("asset not found")
	ErrSettingsNotFound  = errors.New("settings not found")
	ErrNameRequired      = errors.New("name is required")
	ErrNameTooLong       = errors.New("name exceeds maximum length")

	// ErrRateNotFound is returned when a currency code has no entry in an
	// exchange-rate table. Conversions fail loudly rather than passing the
	// raw amount through, since a silently unconverted amount understates
	// aggregates without any visible sign of it.
	ErrRateNotFound = errors.New("exchange rate not found")

	// ErrInvalidAmount is returned when a numeric field fails to parse.
	// Amounts travel as decimal strings; a bad string is never coerced to zero.
	ErrInvalidAmount = errors.New("invalid amount")

	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrInvalidLanguage = errors.New("invalid language code")
)

// Validation constants
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 255
	MaxSymbolLength      = 20
)
