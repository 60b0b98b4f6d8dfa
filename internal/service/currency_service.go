package service

import (
	"fmt"

	"github.com/moneta-app/moneta-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// CurrencyService converts amounts between currencies using a
// point-in-time exchange-rate table anchored at a base currency.
type CurrencyService struct{}

// NewCurrencyService creates a new CurrencyService
func NewCurrencyService() *CurrencyService {
	return &CurrencyService{}
}

// Convert converts amount from one currency to another using the given
// rate table. Rates are units of the keyed currency per 1 unit of the
// table's base, so converting X to the base divides by X's rate and
// converting out of the base multiplies by the target's rate. When
// neither endpoint is the base the conversion triangulates through it.
//
// A currency with no rate in the table is domain.ErrRateNotFound; the
// amount is never passed through unconverted.
func (s *CurrencyService) Convert(amount decimal.Decimal, from, to string, table *domain.ExchangeRateTable) (decimal.Decimal, error) {
	// Identity short-circuit avoids needless precision loss
	if from == to {
		return amount, nil
	}
	if table == nil {
		return decimal.Zero, fmt.Errorf("%w: no rate table", domain.ErrRateNotFound)
	}

	fromRate, ok := table.RateFor(from)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s (base %s)", domain.ErrRateNotFound, from, table.Base)
	}
	toRate, ok := table.RateFor(to)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s (base %s)", domain.ErrRateNotFound, to, table.Base)
	}

	return amount.Div(fromRate).Mul(toRate), nil
}
