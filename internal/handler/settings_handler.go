package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/moneta-app/moneta-backend/internal/domain"
	"github.com/moneta-app/moneta-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// SettingsHandler handles settings-related HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// UpdateSettingsRequest represents the update settings request body
type UpdateSettingsRequest struct {
	MainCurrency *string `json:"mainCurrency,omitempty"`
	Language     *string `json:"language,omitempty"`
}

// SettingsResponse represents the settings in API responses
type SettingsResponse struct {
	MainCurrency string `json:"mainCurrency"`
	Language     string `json:"language"`
	UpdatedAt    string `json:"updatedAt"`
}

func toSettingsResponse(settings *domain.Settings) SettingsResponse {
	return SettingsResponse{
		MainCurrency: settings.MainCurrency,
		Language:     settings.Language,
		UpdatedAt:    settings.UpdatedAt.Format(time.RFC3339),
	}
}

// GetSettings handles GET /api/v1/settings
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	settings, err := h.settingsService.GetSettings()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get settings")
		return NewInternalError(c, "Failed to get settings")
	}

	return c.JSON(http.StatusOK, toSettingsResponse(settings))
}

// UpdateSettings handles PUT /api/v1/settings
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	var req UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	settings, err := h.settingsService.UpdateSettings(service.UpdateSettingsInput{
		MainCurrency: req.MainCurrency,
		Language:     req.Language,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCurrency):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "mainCurrency", Message: "Unsupported currency code"},
			})
		case errors.Is(err, domain.ErrInvalidLanguage):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "language", Message: "Unsupported language code"},
			})
		}
		log.Error().Err(err).Msg("Failed to update settings")
		return NewInternalError(c, "Failed to update settings")
	}

	return c.JSON(http.StatusOK, toSettingsResponse(settings))
}

// GetCurrencies handles GET /api/v1/settings/currencies
func (h *SettingsHandler) GetCurrencies(c echo.Context) error {
	return c.JSON(http.StatusOK, h.settingsService.GetSupportedCurrencies())
}

// GetLanguages handles GET /api/v1/settings/languages
func (h *SettingsHandler) GetLanguages(c echo.Context) error {
	return c.JSON(http.StatusOK, h.settingsService.GetSupportedLanguages())
}
