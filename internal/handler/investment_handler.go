package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/moneta-app/moneta-backend/internal/domain"
	"github.com/moneta-app/moneta-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// InvestmentHandler handles portfolio and asset HTTP requests
type InvestmentHandler struct {
	investmentService *service.InvestmentService
}

// NewInvestmentHandler creates a new InvestmentHandler
func NewInvestmentHandler(investmentService *service.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{
		investmentService: investmentService,
	}
}

// PortfolioRequest represents the create/update portfolio request body
type PortfolioRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// CreateAssetRequest represents the create asset request body
type CreateAssetRequest struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	AssetType     string  `json:"assetType"`
	Quantity      string  `json:"quantity"`
	PurchasePrice string  `json:"purchasePrice"`
	PurchaseDate  *string `json:"purchaseDate,omitempty"`
	CurrentPrice  *string `json:"currentPrice,omitempty"`
	Currency      string  `json:"currency"`
	Notes         *string `json:"notes,omitempty"`
}

// UpdateAssetRequest represents the update asset request body
type UpdateAssetRequest struct {
	Symbol        *string `json:"symbol,omitempty"`
	Name          *string `json:"name,omitempty"`
	AssetType     *string `json:"assetType,omitempty"`
	Quantity      *string `json:"quantity,omitempty"`
	PurchasePrice *string `json:"purchasePrice,omitempty"`
	PurchaseDate  *string `json:"purchaseDate,omitempty"`
	CurrentPrice  *string `json:"currentPrice,omitempty"`
	Currency      *string `json:"currency,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// AssetResponse represents an asset with derived metrics in API responses
type AssetResponse struct {
	ID              int32   `json:"id"`
	PortfolioID     int32   `json:"portfolioId"`
	Symbol          string  `json:"symbol"`
	Name            string  `json:"name"`
	AssetType       string  `json:"assetType"`
	Quantity        string  `json:"quantity"`
	PurchasePrice   string  `json:"purchasePrice"`
	PurchaseDate    string  `json:"purchaseDate"`
	CurrentPrice    *string `json:"currentPrice,omitempty"`
	Currency        string  `json:"currency"`
	Notes           *string `json:"notes,omitempty"`
	TotalCost       string  `json:"totalCost"`
	CurrentValue    *string `json:"currentValue,omitempty"`
	GainLoss        *string `json:"gainLoss,omitempty"`
	GainLossPercent *string `json:"gainLossPercent,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// PortfolioResponse represents a portfolio with its assets and totals
type PortfolioResponse struct {
	ID              int32           `json:"id"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	Assets          []AssetResponse `json:"assets"`
	TotalCost       string          `json:"totalCost"`
	TotalValue      string          `json:"totalValue"`
	GainLoss        string          `json:"gainLoss"`
	GainLossPercent *string         `json:"gainLossPercent,omitempty"`
	AssetsCount     int             `json:"assetsCount"`
	PricedAssets    int             `json:"pricedAssets"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
}

func (h *InvestmentHandler) toAssetResponse(asset *domain.Asset) AssetResponse {
	metrics := h.investmentService.ComputeAssetMetrics(asset)

	resp := AssetResponse{
		ID:            asset.ID,
		PortfolioID:   asset.PortfolioID,
		Symbol:        asset.Symbol,
		Name:          asset.Name,
		AssetType:     string(asset.AssetType),
		Quantity:      asset.Quantity.String(),
		PurchasePrice: asset.PurchasePrice.StringFixed(2),
		PurchaseDate:  asset.PurchaseDate.Format("2006-01-02"),
		Currency:      asset.Currency,
		Notes:         asset.Notes,
		TotalCost:     metrics.TotalCost.StringFixed(2),
		CreatedAt:     asset.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     asset.UpdatedAt.Format(time.RFC3339),
	}
	if asset.CurrentPrice != nil {
		currentPrice := asset.CurrentPrice.StringFixed(2)
		resp.CurrentPrice = &currentPrice
	}
	if metrics.CurrentValue != nil {
		currentValue := metrics.CurrentValue.StringFixed(2)
		resp.CurrentValue = &currentValue
	}
	if metrics.GainLoss != nil {
		gainLoss := metrics.GainLoss.StringFixed(2)
		resp.GainLoss = &gainLoss
	}
	if metrics.GainLossPercent != nil {
		gainLossPercent := metrics.GainLossPercent.StringFixed(2)
		resp.GainLossPercent = &gainLossPercent
	}
	return resp
}

func (h *InvestmentHandler) toPortfolioResponse(portfolio *domain.Portfolio) PortfolioResponse {
	assets := make([]AssetResponse, 0, len(portfolio.Assets))
	for _, asset := range portfolio.Assets {
		assets = append(assets, h.toAssetResponse(asset))
	}

	totals := h.investmentService.ComputePortfolioTotals(portfolio.Assets)

	resp := PortfolioResponse{
		ID:           portfolio.ID,
		Name:         portfolio.Name,
		Description:  portfolio.Description,
		Assets:       assets,
		TotalCost:    totals.TotalCost.StringFixed(2),
		TotalValue:   totals.TotalValue.StringFixed(2),
		GainLoss:     totals.GainLoss.StringFixed(2),
		AssetsCount:  totals.AssetsCount,
		PricedAssets: totals.PricedAssets,
		CreatedAt:    portfolio.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    portfolio.UpdatedAt.Format(time.RFC3339),
	}
	if totals.GainLossPercent != nil {
		pct := totals.GainLossPercent.StringFixed(2)
		resp.GainLossPercent = &pct
	}
	return resp
}

// CreatePortfolio handles POST /api/v1/portfolios
func (h *InvestmentHandler) CreatePortfolio(c echo.Context) error {
	var req PortfolioRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	portfolio, err := h.investmentService.CreatePortfolio(req.Name, req.Description)
	if err != nil {
		return h.portfolioErrorResponse(c, err, "Failed to create portfolio")
	}

	log.Info().Int32("portfolio_id", portfolio.ID).Str("name", portfolio.Name).Msg("Portfolio created")

	return c.JSON(http.StatusCreated, h.toPortfolioResponse(portfolio))
}

// GetPortfolios handles GET /api/v1/portfolios
func (h *InvestmentHandler) GetPortfolios(c echo.Context) error {
	portfolios, err := h.investmentService.GetPortfolios()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list portfolios")
		return NewInternalError(c, "Failed to list portfolios")
	}

	resp := make([]PortfolioResponse, 0, len(portfolios))
	for _, portfolio := range portfolios {
		resp = append(resp, h.toPortfolioResponse(portfolio))
	}

	return c.JSON(http.StatusOK, resp)
}

// GetPortfolio handles GET /api/v1/portfolios/:id
func (h *InvestmentHandler) GetPortfolio(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid portfolio ID", nil)
	}

	portfolio, err := h.investmentService.GetPortfolioByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrPortfolioNotFound) {
			return NewNotFoundError(c, "Portfolio not found")
		}
		log.Error().Err(err).Int32("portfolio_id", id).Msg("Failed to get portfolio")
		return NewInternalError(c, "Failed to get portfolio")
	}

	return c.JSON(http.StatusOK, h.toPortfolioResponse(portfolio))
}

// UpdatePortfolio handles PUT /api/v1/portfolios/:id
func (h *InvestmentHandler) UpdatePortfolio(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid portfolio ID", nil)
	}

	var req struct {
		Name        *string `json:"name,omitempty"`
		Description *string `json:"description,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	portfolio, err := h.investmentService.UpdatePortfolio(id, req.Name, req.Description)
	if err != nil {
		return h.portfolioErrorResponse(c, err, "Failed to update portfolio")
	}

	return c.JSON(http.StatusOK, h.toPortfolioResponse(portfolio))
}

// DeletePortfolio handles DELETE /api/v1/portfolios/:id
func (h *InvestmentHandler) DeletePortfolio(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid portfolio ID", nil)
	}

	if err := h.investmentService.DeletePortfolio(id); err != nil {
		if errors.Is(err, domain.ErrPortfolioNotFound) {
			return NewNotFoundError(c, "Portfolio not found")
		}
		log.Error().Err(err).Int32("portfolio_id", id).Msg("Failed to delete portfolio")
		return NewInternalError(c, "Failed to delete portfolio")
	}

	return c.NoContent(http.StatusNoContent)
}

// CreateAsset handles POST /api/v1/portfolios/:id/assets
func (h *InvestmentHandler) CreateAsset(c echo.Context) error {
	portfolioID, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid portfolio ID", nil)
	}

	var req CreateAssetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		return NewValidationError(c, "Invalid quantity", []ValidationError{
			{Field: "quantity", Message: "Must be a valid decimal number"},
		})
	}
	purchasePrice, err := decimal.NewFromString(req.PurchasePrice)
	if err != nil {
		return NewValidationError(c, "Invalid purchasePrice", []ValidationError{
			{Field: "purchasePrice", Message: "Must be a valid decimal number"},
		})
	}
	currentPrice, err := parseOptionalDecimal(req.CurrentPrice)
	if err != nil {
		return NewValidationError(c, "Invalid currentPrice", []ValidationError{
			{Field: "currentPrice", Message: "Must be a valid decimal number"},
		})
	}

	var purchaseDate *time.Time
	if req.PurchaseDate != nil && *req.PurchaseDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.PurchaseDate)
		if err != nil {
			return NewValidationError(c, "Invalid purchaseDate", []ValidationError{
				{Field: "purchaseDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		purchaseDate = &parsed
	}

	asset, err := h.investmentService.CreateAsset(service.CreateAssetInput{
		PortfolioID:   portfolioID,
		Symbol:        req.Symbol,
		Name:          req.Name,
		AssetType:     domain.AssetType(req.AssetType),
		Quantity:      quantity,
		PurchasePrice: purchasePrice,
		PurchaseDate:  purchaseDate,
		CurrentPrice:  currentPrice,
		Currency:      req.Currency,
		Notes:         req.Notes,
	})
	if err != nil {
		return h.assetErrorResponse(c, err, "Failed to create asset")
	}

	log.Info().Int32("asset_id", asset.ID).Str("symbol", asset.Symbol).Msg("Asset created")

	return c.JSON(http.StatusCreated, h.toAssetResponse(asset))
}

// GetAsset handles GET /api/v1/assets/:id
func (h *InvestmentHandler) GetAsset(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid asset ID", nil)
	}

	asset, err := h.investmentService.GetAssetByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrAssetNotFound) {
			return NewNotFoundError(c, "Asset not found")
		}
		log.Error().Err(err).Int32("asset_id", id).Msg("Failed to get asset")
		return NewInternalError(c, "Failed to get asset")
	}

	return c.JSON(http.StatusOK, h.toAssetResponse(asset))
}

// UpdateAsset handles PUT /api/v1/assets/:id
func (h *InvestmentHandler) UpdateAsset(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid asset ID", nil)
	}

	var req UpdateAssetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	data := &domain.UpdateAssetData{
		Symbol:   req.Symbol,
		Name:     req.Name,
		Currency: req.Currency,
		Notes:    req.Notes,
	}

	if req.AssetType != nil {
		assetType := domain.AssetType(*req.AssetType)
		data.AssetType = &assetType
	}
	if data.Quantity, err = parseOptionalDecimal(req.Quantity); err != nil {
		return NewValidationError(c, "Invalid quantity", []ValidationError{
			{Field: "quantity", Message: "Must be a valid decimal number"},
		})
	}
	if data.PurchasePrice, err = parseOptionalDecimal(req.PurchasePrice); err != nil {
		return NewValidationError(c, "Invalid purchasePrice", []ValidationError{
			{Field: "purchasePrice", Message: "Must be a valid decimal number"},
		})
	}
	if data.CurrentPrice, err = parseOptionalDecimal(req.CurrentPrice); err != nil {
		return NewValidationError(c, "Invalid currentPrice", []ValidationError{
			{Field: "currentPrice", Message: "Must be a valid decimal number"},
		})
	}
	if req.PurchaseDate != nil && *req.PurchaseDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.PurchaseDate)
		if err != nil {
			return NewValidationError(c, "Invalid purchaseDate", []ValidationError{
				{Field: "purchaseDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		data.PurchaseDate = &parsed
	}

	asset, err := h.investmentService.UpdateAsset(id, data)
	if err != nil {
		return h.assetErrorResponse(c, err, "Failed to update asset")
	}

	return c.JSON(http.StatusOK, h.toAssetResponse(asset))
}

// DeleteAsset handles DELETE /api/v1/assets/:id
func (h *InvestmentHandler) DeleteAsset(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid asset ID", nil)
	}

	if err := h.investmentService.DeleteAsset(id); err != nil {
		if errors.Is(err, domain.ErrAssetNotFound) {
			return NewNotFoundError(c, "Asset not found")
		}
		log.Error().Err(err).Int32("asset_id", id).Msg("Failed to delete asset")
		return NewInternalError(c, "Failed to delete asset")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *InvestmentHandler) portfolioErrorResponse(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 100 characters or less"},
		})
	case errors.Is(err, domain.ErrPortfolioNotFound):
		return NewNotFoundError(c, "Portfolio not found")
	}
	log.Error().Err(err).Msg(fallback)
	return NewInternalError(c, fallback)
}

func (h *InvestmentHandler) assetErrorResponse(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "symbol", Message: "Symbol and name are required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "symbol", Message: "Symbol or name exceeds maximum length"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "quantity", Message: "Quantity must be positive and prices non-negative"},
		})
	case errors.Is(err, domain.ErrInvalidCurrency):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "currency", Message: "Must be a 3-letter currency code"},
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, "Validation failed", nil)
	case errors.Is(err, domain.ErrPortfolioNotFound):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "portfolioId", Message: "Portfolio not found"},
		})
	case errors.Is(err, domain.ErrAssetNotFound):
		return NewNotFoundError(c, "Asset not found")
	}
	log.Error().Err(err).Msg(fallback)
	return NewInternalError(c, fallback)
}
