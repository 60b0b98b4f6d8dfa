package service

import (
	"strings"
	"time"

	"github.com/moneta-app/moneta-backend/internal/domain"
	"github.com/moneta-app/moneta-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// InvestmentService handles portfolio and asset business logic
type InvestmentService struct {
	portfolioRepo  domain.PortfolioRepository
	assetRepo      domain.AssetRepository
	eventPublisher websocket.EventPublisher
}

// NewInvestmentService creates a new InvestmentService
func NewInvestmentService(portfolioRepo domain.PortfolioRepository, assetRepo domain.AssetRepository) *InvestmentService {
	return &InvestmentService{
		portfolioRepo: portfolioRepo,
		assetRepo:     assetRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *InvestmentService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *InvestmentService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CreatePortfolio creates a new portfolio with validation
func (s *InvestmentService) CreatePortfolio(name string, description *string) (*domain.Portfolio, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, domain.ErrNameRequired
	}
	if len(trimmed) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	portfolio, err := s.portfolioRepo.Create(&domain.Portfolio{
		Name:        trimmed,
		Description: trimToNil(description),
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.PortfolioCreated(portfolio))
	return portfolio, nil
}

// GetPortfolios retrieves all portfolios with their assets
func (s *InvestmentService) GetPortfolios() ([]*domain.Portfolio, error) {
	return s.portfolioRepo.GetAll()
}

// GetPortfolioByID retrieves a portfolio by ID with its assets
func (s *InvestmentService) GetPortfolioByID(id int32) (*domain.Portfolio, error) {
	return s.portfolioRepo.GetByID(id)
}

// UpdatePortfolio updates an existing portfolio with validation
func (s *InvestmentService) UpdatePortfolio(id int32, name *string, description *string) (*domain.Portfolio, error) {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, domain.ErrNameRequired
		}
		if len(trimmed) > domain.MaxNameLength {
			return nil, domain.ErrNameTooLong
		}
		name = &trimmed
	}

	portfolio, err := s.portfolioRepo.Update(id, name, description)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.PortfolioUpdated(portfolio))
	return portfolio, nil
}

// DeletePortfolio deletes a portfolio and its assets
func (s *InvestmentService) DeletePortfolio(id int32) error {
	if err := s.portfolioRepo.Delete(id); err != nil {
		return err
	}

	s.publishEvent(websocket.PortfolioDeleted(map[string]int32{"id": id}))
	return nil
}

// CreateAssetInput holds the input for creating an asset
type CreateAssetInput struct {
	PortfolioID   int32
	Symbol        string
	Name          string
	AssetType     domain.AssetType
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal
	PurchaseDate  *time.Time
	CurrentPrice  *decimal.Decimal
	Currency      string
	Notes         *string
}

// CreateAsset creates a new asset in a portfolio with validation
func (s *InvestmentService) CreateAsset(input CreateAssetInput) (*domain.Asset, error) {
	symbol := strings.ToUpper(strings.TrimSpace(input.Symbol))
	if symbol == "" {
		return nil, domain.ErrNameRequired
	}
	if len(symbol) > domain.MaxSymbolLength {
		return nil, domain.ErrNameTooLong
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	assetType := input.AssetType
	if assetType == "" {
		assetType = domain.AssetTypeOther
	}
	if !domain.ValidAssetType(assetType) {
		return nil, domain.ErrInvalidInput
	}

	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if input.PurchasePrice.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if input.CurrentPrice != nil && input.CurrentPrice.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = domain.DefaultMainCurrency
	}
	if len(currency) != 3 {
		return nil, domain.ErrInvalidCurrency
	}

	// Validate portfolio exists
	if _, err := s.portfolioRepo.GetByID(input.PortfolioID); err != nil {
		return nil, domain.ErrPortfolioNotFound
	}

	purchaseDate := time.Now().UTC().Truncate(24 * time.Hour)
	if input.PurchaseDate != nil {
		purchaseDate = *input.PurchaseDate
	}

	asset, err := s.assetRepo.Create(&domain.Asset{
		PortfolioID:   input.PortfolioID,
		Symbol:        symbol,
		Name:          name,
		AssetType:     assetType,
		Quantity:      input.Quantity,
		PurchasePrice: input.PurchasePrice,
		PurchaseDate:  purchaseDate,
		CurrentPrice:  input.CurrentPrice,
		Currency:      currency,
		Notes:         trimToNil(input.Notes),
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.AssetCreated(asset))
	return asset, nil
}

// GetAssetByID retrieves an asset by ID
func (s *InvestmentService) GetAssetByID(id int32) (*domain.Asset, error) {
	return s.assetRepo.GetByID(id)
}

// UpdateAsset updates an existing asset with validation
func (s *InvestmentService) UpdateAsset(id int32, data *domain.UpdateAssetData) (*domain.Asset, error) {
	if data.Symbol != nil {
		symbol := strings.ToUpper(strings.TrimSpace(*data.Symbol))
		if symbol == "" {
			return nil, domain.ErrNameRequired
		}
		if len(symbol) > domain.MaxSymbolLength {
			return nil, domain.ErrNameTooLong
		}
		data.Symbol = &symbol
	}

	if data.Name != nil {
		trimmed := strings.TrimSpace(*data.Name)
		if trimmed == "" {
			return nil, domain.ErrNameRequired
		}
		if len(trimmed) > domain.MaxNameLength {
			return nil, domain.ErrNameTooLong
		}
		data.Name = &trimmed
	}

	if data.AssetType != nil && !domain.ValidAssetType(*data.AssetType) {
		return nil, domain.ErrInvalidInput
	}

	if data.Quantity != nil && data.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if data.PurchasePrice != nil && data.PurchasePrice.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if data.CurrentPrice != nil && data.CurrentPrice.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	if data.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*data.Currency))
		if len(currency) != 3 {
			return nil, domain.ErrInvalidCurrency
		}
		data.Currency = &currency
	}

	asset, err := s.assetRepo.Update(id, data)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.AssetUpdated(asset))
	return asset, nil
}

// DeleteAsset deletes an asset by ID
func (s *InvestmentService) DeleteAsset(id int32) error {
	if err := s.assetRepo.Delete(id); err != nil {
		return err
	}

	s.publishEvent(websocket.AssetDeleted(map[string]int32{"id": id}))
	return nil
}

// AssetMetrics are the derived figures for a single asset. TotalCost is
// always defined. The remaining fields require a current market price:
// when the asset has none they are nil, which is not the same as zero.
type AssetMetrics struct {
	TotalCost       decimal.Decimal  `json:"totalCost"`
	CurrentValue    *decimal.Decimal `json:"currentValue,omitempty"`
	GainLoss        *decimal.Decimal `json:"gainLoss,omitempty"`
	GainLossPercent *decimal.Decimal `json:"gainLossPercent,omitempty"`
}

// ComputeAssetMetrics derives cost, value and gain/loss for one asset.
func (s *InvestmentService) ComputeAssetMetrics(asset *domain.Asset) *AssetMetrics {
	metrics := &AssetMetrics{
		TotalCost: asset.Quantity.Mul(asset.PurchasePrice),
	}

	if asset.CurrentPrice == nil {
		return metrics
	}

	value := asset.Quantity.Mul(*asset.CurrentPrice)
	gainLoss := value.Sub(metrics.TotalCost)
	metrics.CurrentValue = &value
	metrics.GainLoss = &gainLoss

	// A free acquisition has no meaningful percent return
	if !metrics.TotalCost.IsZero() {
		pct := gainLoss.Div(metrics.TotalCost).Mul(oneHundredPct)
		metrics.GainLossPercent = &pct
	}

	return metrics
}

// PortfolioTotals aggregate a set of assets. Cost includes every asset;
// value and gain/loss cover only assets that have a market price, with
// PricedAssets reporting how many that is. GainLossPercent carries the
// same zero-cost guard as the per-asset metric and is nil when no asset
// is priced.
type PortfolioTotals struct {
	TotalCost       decimal.Decimal  `json:"totalCost"`
	TotalValue      decimal.Decimal  `json:"totalValue"`
	GainLoss        decimal.Decimal  `json:"gainLoss"`
	GainLossPercent *decimal.Decimal `json:"gainLossPercent,omitempty"`
	AssetsCount     int              `json:"assetsCount"`
	PricedAssets    int              `json:"pricedAssets"`
}

// ComputePortfolioTotals folds asset metrics into portfolio totals.
func (s *InvestmentService) ComputePortfolioTotals(assets []*domain.Asset) *PortfolioTotals {
	totals := &PortfolioTotals{
		TotalCost:  decimal.Zero,
		TotalValue: decimal.Zero,
		GainLoss:   decimal.Zero,
	}

	for _, asset := range assets {
		m := s.ComputeAssetMetrics(asset)
		totals.TotalCost = totals.TotalCost.Add(m.TotalCost)
		totals.AssetsCount++
		if m.CurrentValue != nil {
			totals.TotalValue = totals.TotalValue.Add(*m.CurrentValue)
			totals.GainLoss = totals.GainLoss.Add(*m.GainLoss)
			totals.PricedAssets++
		}
	}

	if totals.PricedAssets > 0 && !totals.TotalCost.IsZero() {
		pct := totals.GainLoss.Div(totals.TotalCost).Mul(oneHundredPct)
		totals.GainLossPercent = &pct
	}

	return totals
}
