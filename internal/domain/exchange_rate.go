package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRateTable is a point-in-time snapshot of exchange rates, all
// expressed relative to Base: each rate is units of the keyed currency
// per one unit of the base currency. The table is fetched fresh per
// base-currency selection and never mutated in place.
type ExchangeRateTable struct {
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	FetchedAt time.Time                  `json:"fetchedAt"`
}

// RateFor returns the rate for a currency code relative to the base.
// The base currency itself maps to 1 whether or not the map carries an
// explicit entry for it.
func (t *ExchangeRateTable) RateFor(code string) (decimal.Decimal, bool) {
	if code == t.Base {
		return decimal.NewFromInt(1), true
	}
	rate, ok := t.Rates[code]
	return rate, ok
}
