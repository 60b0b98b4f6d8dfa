// Package rates fetches point-in-time exchange-rate snapshots from an
// external provider. Tables are fetched fresh per base currency and are
// never cached beyond the request that asked for them.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/moneta-app/moneta-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Provider returns the latest exchange-rate table for a base currency.
type Provider interface {
	Latest(ctx context.Context, base string) (*domain.ExchangeRateTable, error)
}

// HTTPProvider fetches rates from a frankfurter-style latest-rates API:
// GET {baseURL}/latest?base=XXX -> {"base":"XXX","rates":{"EUR":0.9,...}}
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProvider creates an HTTPProvider for the given API base URL
func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Latest fetches the current rate table for the given base currency.
// Numeric fields are decoded as decimal strings; a value that fails to
// parse is domain.ErrInvalidAmount, never a silent zero.
func (p *HTTPProvider) Latest(ctx context.Context, base string) (*domain.ExchangeRateTable, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	if len(base) != 3 {
		return nil, fmt.Errorf("%w: base currency must be a 3-letter code", domain.ErrInvalidCurrency)
	}

	url := fmt.Sprintf("%s/latest?base=%s", p.baseURL, base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch exchange rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exchange rate provider returned status %d", resp.StatusCode)
	}

	var raw struct {
		Base  string                     `json:"base"`
		Rates map[string]json.RawMessage `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode exchange rates: %w", err)
	}
	if raw.Base == "" {
		raw.Base = base
	}

	table := &domain.ExchangeRateTable{
		Base:      strings.ToUpper(raw.Base),
		Rates:     make(map[string]decimal.Decimal, len(raw.Rates)),
		FetchedAt: time.Now().UTC(),
	}
	for code, value := range raw.Rates {
		rate, err := parseRate(value)
		if err != nil {
			return nil, fmt.Errorf("%w: rate for %s: %s", domain.ErrInvalidAmount, code, value)
		}
		table.Rates[strings.ToUpper(code)] = rate
	}

	return table, nil
}

// parseRate coerces a rate value that may arrive as a JSON number or as
// a decimal string (wire-format safety for arbitrary precision).
func parseRate(value json.RawMessage) (decimal.Decimal, error) {
	s := strings.TrimSpace(string(value))
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(value, &s); err != nil {
			return decimal.Zero, err
		}
	}
	return decimal.NewFromString(s)
}
