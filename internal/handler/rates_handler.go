package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/moneta-app/moneta-backend/internal/domain"
	"github.com/moneta-app/moneta-backend/internal/rates"
	"github.com/moneta-app/moneta-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// RatesHandler exposes the latest exchange-rate table
type RatesHandler struct {
	ratesProvider   rates.Provider
	settingsService *service.SettingsService
}

// NewRatesHandler creates a new RatesHandler
func NewRatesHandler(ratesProvider rates.Provider, settingsService *service.SettingsService) *RatesHandler {
	return &RatesHandler{
		ratesProvider:   ratesProvider,
		settingsService: settingsService,
	}
}

// ExchangeRatesResponse represents a rate table in API responses
type ExchangeRatesResponse struct {
	Base      string            `json:"base"`
	Rates     map[string]string `json:"rates"`
	FetchedAt string            `json:"fetchedAt"`
}

func toExchangeRatesResponse(table *domain.ExchangeRateTable) ExchangeRatesResponse {
	resp := ExchangeRatesResponse{
		Base:      table.Base,
		Rates:     make(map[string]string, len(table.Rates)),
		FetchedAt: table.FetchedAt.Format(time.RFC3339),
	}
	for code, rate := range table.Rates {
		resp.Rates[code] = rate.String()
	}
	return resp
}

// GetRates handles GET /api/v1/exchange-rates. The base defaults to the
// configured main currency and can be overridden with ?base=.
func (h *RatesHandler) GetRates(c echo.Context) error {
	base := strings.ToUpper(strings.TrimSpace(c.QueryParam("base")))
	if base == "" {
		settings, err := h.settingsService.GetSettings()
		if err != nil {
			log.Error().Err(err).Msg("Failed to load settings for exchange rates")
			return NewInternalError(c, "Failed to fetch exchange rates")
		}
		base = settings.MainCurrency
	}
	if len(base) != 3 {
		return NewValidationError(c, "base must be a 3-letter currency code", nil)
	}

	table, err := h.ratesProvider.Latest(c.Request().Context(), base)
	if err != nil {
		log.Error().Err(err).Str("base", base).Msg("Failed to fetch exchange rates")
		return NewUpstreamError(c, "Exchange rate provider is unavailable")
	}

	return c.JSON(http.StatusOK, toExchangeRatesResponse(table))
}
