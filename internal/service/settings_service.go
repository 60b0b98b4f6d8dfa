package service

import (
	"errors"
	"strings"

	"github.com/moneta-app/moneta-backend/internal/domain"
	"github.com/moneta-app/moneta-backend/internal/websocket"
)

// SupportedCurrencies is the catalogue of currencies the app can use as
// the main currency.
var SupportedCurrencies = []domain.Currency{
	{Code: "USD", Name: "US Dollar", Symbol: "$"},
	{Code: "EUR", Name: "Euro", Symbol: "€"},
	{Code: "GBP", Name: "British Pound", Symbol: "£"},
	{Code: "BRL", Name: "Brazilian Real", Symbol: "R$"},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥"},
	{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥"},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$"},
	{Code: "AUD", Name: "Australian Dollar", Symbol: "A$"},
	{Code: "CHF", Name: "Swiss Franc", Symbol: "CHF"},
	{Code: "INR", Name: "Indian Rupee", Symbol: "₹"},
}

// SupportedLanguages is the catalogue of UI languages.
var SupportedLanguages = []domain.Language{
	{Code: "en", Name: "English", NativeName: "English"},
	{Code: "pt-BR", Name: "Portuguese (Brazil)", NativeName: "Português (Brasil)"},
}

// SettingsService handles application settings business logic
type SettingsService struct {
	settingsRepo   domain.SettingsRepository
	eventPublisher websocket.EventPublisher
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingsRepo domain.SettingsRepository) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *SettingsService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *SettingsService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// GetSettings returns the settings singleton, creating it with defaults
// on first access.
func (s *SettingsService) GetSettings() (*domain.Settings, error) {
	settings, err := s.settingsRepo.Get()
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, domain.ErrSettingsNotFound) {
		return nil, err
	}

	return s.settingsRepo.Create(&domain.Settings{
		MainCurrency: domain.DefaultMainCurrency,
		Language:     domain.DefaultLanguage,
	})
}

// UpdateSettingsInput holds the input for updating settings
type UpdateSettingsInput struct {
	MainCurrency *string
	Language     *string
}

// UpdateSettings updates the settings singleton with validation against
// the supported catalogues.
func (s *SettingsService) UpdateSettings(input UpdateSettingsInput) (*domain.Settings, error) {
	settings, err := s.GetSettings()
	if err != nil {
		return nil, err
	}

	if input.MainCurrency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*input.MainCurrency))
		if !SupportedCurrency(currency) {
			return nil, domain.ErrInvalidCurrency
		}
		settings.MainCurrency = currency
	}

	if input.Language != nil {
		language := strings.TrimSpace(*input.Language)
		if !SupportedLanguage(language) {
			return nil, domain.ErrInvalidLanguage
		}
		settings.Language = language
	}

	updated, err := s.settingsRepo.Update(settings)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.SettingsUpdated(updated))
	return updated, nil
}

// GetSupportedCurrencies returns the currency catalogue
func (s *SettingsService) GetSupportedCurrencies() []domain.Currency {
	return SupportedCurrencies
}

// GetSupportedLanguages returns the language catalogue
func (s *SettingsService) GetSupportedLanguages() []domain.Language {
	return SupportedLanguages
}

// SupportedCurrency reports whether code is in the currency catalogue
func SupportedCurrency(code string) bool {
	for _, c := range SupportedCurrencies {
		if c.Code == code {
			return true
		}
	}
	return false
}

// SupportedLanguage reports whether code is in the language catalogue
func SupportedLanguage(code string) bool {
	for _, l := range SupportedLanguages {
		if l.Code == code {
			return true
		}
	}
	return false
}
