package domain

import "time"

// Settings is a singleton row: exactly one record with ID 1.
type Settings struct {
	ID           int32     `json:"id"`
	MainCurrency string    `json:"mainCurrency"`
	Language     string    `json:"language"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

const (
	DefaultMainCurrency = "USD"
	DefaultLanguage     = "en"
)

type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type Language struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"nativeName"`
}

type SettingsRepository interface {
	Get() (*Settings, error)
	Create(settings *Settings) (*Settings, error)
	Update(settings *Settings) (*Settings, error)
}
