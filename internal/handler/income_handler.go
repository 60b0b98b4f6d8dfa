package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/moneta-app/moneta-backend/internal/domain"
	"github.com/moneta-app/moneta-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// IncomeHandler handles income-related HTTP requests
type IncomeHandler struct {
	incomeService *service.IncomeService
}

// NewIncomeHandler creates a new IncomeHandler
func NewIncomeHandler(incomeService *service.IncomeService) *IncomeHandler {
	return &IncomeHandler{
		incomeService: incomeService,
	}
}

// CreateIncomeRequest represents the create income request body
type CreateIncomeRequest struct {
	Name       string  `json:"name"`
	Amount     string  `json:"amount"`
	IncomeType string  `json:"incomeType"`
	IsActive   *bool   `json:"isActive,omitempty"`
	StartDate  *string `json:"startDate,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	Currency   string  `json:"currency"`
	IsGross    bool    `json:"isGross"`
	TaxRate    *string `json:"taxRate,omitempty"`
	OtherFees  *string `json:"otherFees,omitempty"`
}

// UpdateIncomeRequest represents the update income request body
type UpdateIncomeRequest struct {
	Name       *string `json:"name,omitempty"`
	Amount     *string `json:"amount,omitempty"`
	IncomeType *string `json:"incomeType,omitempty"`
	IsActive   *bool   `json:"isActive,omitempty"`
	StartDate  *string `json:"startDate,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	Currency   *string `json:"currency,omitempty"`
	IsGross    *bool   `json:"isGross,omitempty"`
	TaxRate    *string `json:"taxRate,omitempty"`
	OtherFees  *string `json:"otherFees,omitempty"`
}

// IncomeResponse represents an income stream in API responses
type IncomeResponse struct {
	ID         int32   `json:"id"`
	Name       string  `json:"name"`
	Amount     string  `json:"amount"`
	NetAmount  string  `json:"netAmount"`
	IncomeType string  `json:"incomeType"`
	IsActive   bool    `json:"isActive"`
	StartDate  *string `json:"startDate,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	Currency   string  `json:"currency"`
	IsGross    bool    `json:"isGross"`
	TaxRate    *string `json:"taxRate,omitempty"`
	OtherFees  *string `json:"otherFees,omitempty"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

// PaginatedIncomesResponse represents paginated income streams in API responses
type PaginatedIncomesResponse struct {
	Items      []IncomeResponse `json:"items"`
	TotalCount int64            `json:"totalCount"`
	HasMore    bool             `json:"hasMore"`
}

func toIncomeResponse(income *domain.Income) IncomeResponse {
	resp := IncomeResponse{
		ID:         income.ID,
		Name:       income.Name,
		Amount:     income.Amount.StringFixed(2),
		NetAmount:  income.NetAmount().StringFixed(2),
		IncomeType: string(income.IncomeType),
		IsActive:   income.IsActive,
		Notes:      income.Notes,
		Currency:   income.Currency,
		IsGross:    income.IsGross,
		CreatedAt:  income.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  income.UpdatedAt.Format(time.RFC3339),
	}
	if income.StartDate != nil {
		startDate := income.StartDate.Format("2006-01-02")
		resp.StartDate = &startDate
	}
	if income.TaxRate != nil {
		taxRate := income.TaxRate.StringFixed(2)
		resp.TaxRate = &taxRate
	}
	if income.OtherFees != nil {
		otherFees := income.OtherFees.StringFixed(2)
		resp.OtherFees = &otherFees
	}
	return resp
}

// CreateIncome handles POST /api/v1/incomes
func (h *IncomeHandler) CreateIncome(c echo.Context) error {
	var req CreateIncomeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	var startDate *time.Time
	if req.StartDate != nil && *req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return NewValidationError(c, "Invalid startDate", []ValidationError{
				{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		startDate = &parsed
	}

	taxRate, err := parseOptionalDecimal(req.TaxRate)
	if err != nil {
		return NewValidationError(c, "Invalid taxRate", []ValidationError{
			{Field: "taxRate", Message: "Must be a valid decimal number"},
		})
	}
	otherFees, err := parseOptionalDecimal(req.OtherFees)
	if err != nil {
		return NewValidationError(c, "Invalid otherFees", []ValidationError{
			{Field: "otherFees", Message: "Must be a valid decimal number"},
		})
	}

	income, err := h.incomeService.CreateIncome(service.CreateIncomeInput{
		Name:       req.Name,
		Amount:     amount,
		IncomeType: domain.IncomeType(req.IncomeType),
		IsActive:   req.IsActive,
		StartDate:  startDate,
		Notes:      req.Notes,
		Currency:   req.Currency,
		IsGross:    req.IsGross,
		TaxRate:    taxRate,
		OtherFees:  otherFees,
	})
	if err != nil {
		return h.incomeErrorResponse(c, err, "Failed to create income")
	}

	log.Info().Int32("income_id", income.ID).Str("name", income.Name).Msg("Income created")

	return c.JSON(http.StatusCreated, toIncomeResponse(income))
}

// GetIncomes handles GET /api/v1/incomes
func (h *IncomeHandler) GetIncomes(c echo.Context) error {
	var isActive *bool
	if v := c.QueryParam("isActive"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return NewValidationError(c, "Invalid isActive", nil)
		}
		isActive = &parsed
	}

	var limit, offset int32
	if v := c.QueryParam("limit"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 32)
		if err != nil || parsed < 0 {
			return NewValidationError(c, "Invalid limit", nil)
		}
		limit = int32(parsed)
	}
	if v := c.QueryParam("offset"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 32)
		if err != nil || parsed < 0 {
			return NewValidationError(c, "Invalid offset", nil)
		}
		offset = int32(parsed)
	}

	result, err := h.incomeService.GetIncomes(isActive, limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list incomes")
		return NewInternalError(c, "Failed to list incomes")
	}

	items := make([]IncomeResponse, 0, len(result.Items))
	for _, income := range result.Items {
		items = append(items, toIncomeResponse(income))
	}

	return c.JSON(http.StatusOK, PaginatedIncomesResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		HasMore:    result.HasMore,
	})
}

// GetIncome handles GET /api/v1/incomes/:id
func (h *IncomeHandler) GetIncome(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid income ID", nil)
	}

	income, err := h.incomeService.GetIncomeByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrIncomeNotFound) {
			return NewNotFoundError(c, "Income not found")
		}
		log.Error().Err(err).Int32("income_id", id).Msg("Failed to get income")
		return NewInternalError(c, "Failed to get income")
	}

	return c.JSON(http.StatusOK, toIncomeResponse(income))
}

// UpdateIncome handles PUT /api/v1/incomes/:id
func (h *IncomeHandler) UpdateIncome(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid income ID", nil)
	}

	var req UpdateIncomeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	data := &domain.UpdateIncomeData{
		Name:     req.Name,
		IsActive: req.IsActive,
		Notes:    req.Notes,
		Currency: req.Currency,
		IsGross:  req.IsGross,
	}

	if req.Amount != nil {
		parsed, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return NewValidationError(c, "Invalid amount", []ValidationError{
				{Field: "amount", Message: "Must be a valid decimal number"},
			})
		}
		data.Amount = &parsed
	}
	if req.IncomeType != nil {
		incomeType := domain.IncomeType(*req.IncomeType)
		data.IncomeType = &incomeType
	}
	if req.StartDate != nil && *req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return NewValidationError(c, "Invalid startDate", []ValidationError{
				{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		data.StartDate = &parsed
	}

	data.TaxRate, err = parseOptionalDecimal(req.TaxRate)
	if err != nil {
		return NewValidationError(c, "Invalid taxRate", []ValidationError{
			{Field: "taxRate", Message: "Must be a valid decimal number"},
		})
	}
	data.OtherFees, err = parseOptionalDecimal(req.OtherFees)
	if err != nil {
		return NewValidationError(c, "Invalid otherFees", []ValidationError{
			{Field: "otherFees", Message: "Must be a valid decimal number"},
		})
	}

	income, err := h.incomeService.UpdateIncome(id, data)
	if err != nil {
		return h.incomeErrorResponse(c, err, "Failed to update income")
	}

	return c.JSON(http.StatusOK, toIncomeResponse(income))
}

// DeleteIncome handles DELETE /api/v1/incomes/:id
func (h *IncomeHandler) DeleteIncome(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid income ID", nil)
	}

	if err := h.incomeService.DeleteIncome(id); err != nil {
		if errors.Is(err, domain.ErrIncomeNotFound) {
			return NewNotFoundError(c, "Income not found")
		}
		log.Error().Err(err).Int32("income_id", id).Msg("Failed to delete income")
		return NewInternalError(c, "Failed to delete income")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *IncomeHandler) incomeErrorResponse(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 100 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrInvalidCurrency):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "currency", Message: "Must be a 3-letter currency code"},
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, "Validation failed", nil)
	case errors.Is(err, domain.ErrIncomeNotFound):
		return NewNotFoundError(c, "Income not found")
	}
	log.Error().Err(err).Msg(fallback)
	return NewInternalError(c, fallback)
}

func parseOptionalDecimal(s *string) (*decimal.Decimal, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	parsed, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
