package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AssetType string

const (
	AssetTypeStock  AssetType = "stock"
	AssetTypeCrypto AssetType = "crypto"
	AssetTypeFund   AssetType = "fund"
	AssetTypeETF    AssetType = "etf"
	AssetTypeBond   AssetType = "bond"
	AssetTypeFII    AssetType = "fii"
	AssetTypeOther  AssetType = "other"
)

// ValidAssetType reports whether t is one of the known asset types.
func ValidAssetType(t AssetType) bool {
	switch t {
	case AssetTypeStock, AssetTypeCrypto, AssetTypeFund, AssetTypeETF,
		AssetTypeBond, AssetTypeFII, AssetTypeOther:
		return true
	}
	return false
}

// Asset is a single holding. CurrentPrice is present-or-absent, not
// present-or-zero: a missing market price leaves the derived value,
// gain/loss and gain/loss percent undefined rather than zero.
type Asset struct {
	ID            int32            `json:"id"`
	PortfolioID   int32            `json:"portfolioId"`
	Symbol        string           `json:"symbol"`
	Name          string           `json:"name"`
	AssetType     AssetType        `json:"assetType"`
	Quantity      decimal.Decimal  `json:"quantity"`
	PurchasePrice decimal.Decimal  `json:"purchasePrice"`
	PurchaseDate  time.Time        `json:"purchaseDate"`
	CurrentPrice  *decimal.Decimal `json:"currentPrice,omitempty"`
	Currency      string           `json:"currency"`
	Notes         *string          `json:"notes,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

type Portfolio struct {
	ID          int32     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Assets      []*Asset  `json:"assets"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type UpdateAssetData struct {
	Symbol        *string
	Name          *string
	AssetType     *AssetType
	Quantity      *decimal.Decimal
	PurchasePrice *decimal.Decimal
	PurchaseDate  *time.Time
	CurrentPrice  *decimal.Decimal
	Currency      *string
	Notes         *string
}

type PortfolioRepository interface {
	Create(portfolio *Portfolio) (*Portfolio, error)
	GetByID(id int32) (*Portfolio, error)
	GetAll() ([]*Portfolio, error)
	Update(id int32, name *string, description *string) (*Portfolio, error)
	Delete(id int32) error
}

type AssetRepository interface {
	Create(asset *Asset) (*Asset, error)
	GetByID(id int32) (*Asset, error)
	GetByPortfolio(portfolioID int32) ([]*Asset, error)
	GetAll() ([]*Asset, error)
	Update(id int32, data *UpdateAssetData) (*Asset, error)
	Delete(id int32) error
}
