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

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
	}
}

// CreateExpenseRequest represents the create expense request body
type CreateExpenseRequest struct {
	Amount         string  `json:"amount"`
	Description    string  `json:"description"`
	Notes          *string `json:"notes,omitempty"`
	Date           *string `json:"date,omitempty"`
	CategoryID     int32   `json:"categoryId"`
	IsRecurring    bool    `json:"isRecurring"`
	RecurrenceRule *string `json:"recurrenceRule,omitempty"`
	IsPaid         *bool   `json:"isPaid,omitempty"`
}

// UpdateExpenseRequest represents the update expense request body
type UpdateExpenseRequest struct {
	Amount         *string `json:"amount,omitempty"`
	Description    *string `json:"description,omitempty"`
	Notes          *string `json:"notes,omitempty"`
	Date           *string `json:"date,omitempty"`
	CategoryID     *int32  `json:"categoryId,omitempty"`
	IsRecurring    *bool   `json:"isRecurring,omitempty"`
	RecurrenceRule *string `json:"recurrenceRule,omitempty"`
}

// SetPaidRequest represents the mark paid/unpaid request body
type SetPaidRequest struct {
	IsPaid bool `json:"isPaid"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID             int32             `json:"id"`
	Amount         string            `json:"amount"`
	Description    string            `json:"description"`
	Notes          *string           `json:"notes,omitempty"`
	Date           string            `json:"date"`
	CategoryID     int32             `json:"categoryId"`
	Category       *CategoryResponse `json:"category,omitempty"`
	IsRecurring    bool              `json:"isRecurring"`
	RecurrenceRule *string           `json:"recurrenceRule,omitempty"`
	IsPaid         bool              `json:"isPaid"`
	PaidAt         *string           `json:"paidAt,omitempty"`
	CreatedAt      string            `json:"createdAt"`
	UpdatedAt      string            `json:"updatedAt"`
}

// PaginatedExpensesResponse represents paginated expenses in API responses
type PaginatedExpensesResponse struct {
	Items      []ExpenseResponse `json:"items"`
	TotalCount int64             `json:"totalCount"`
	HasMore    bool              `json:"hasMore"`
}

// ExpenseSummaryResponse represents the monthly expense summary
type ExpenseSummaryResponse struct {
	TotalAmount  string `json:"totalAmount"`
	PaidAmount   string `json:"paidAmount"`
	UnpaidAmount string `json:"unpaidAmount"`
	TotalCount   int    `json:"totalCount"`
	PaidCount    int    `json:"paidCount"`
	UnpaidCount  int    `json:"unpaidCount"`
}

func toExpenseResponse(expense *domain.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ID:             expense.ID,
		Amount:         expense.Amount.StringFixed(2),
		Description:    expense.Description,
		Notes:          expense.Notes,
		Date:           expense.Date.Format("2006-01-02"),
		CategoryID:     expense.CategoryID,
		IsRecurring:    expense.IsRecurring,
		RecurrenceRule: expense.RecurrenceRule,
		IsPaid:         expense.IsPaid,
		CreatedAt:      expense.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      expense.UpdatedAt.Format(time.RFC3339),
	}
	if expense.Category != nil {
		category := toCategoryResponse(expense.Category)
		resp.Category = &category
	}
	if expense.PaidAt != nil {
		paidAt := expense.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}
	return resp
}

// CreateExpense handles POST /api/v1/expenses
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		date = &parsed
	}

	expense, err := h.expenseService.CreateExpense(service.CreateExpenseInput{
		Amount:         amount,
		Description:    req.Description,
		Notes:          req.Notes,
		Date:           date,
		CategoryID:     req.CategoryID,
		IsRecurring:    req.IsRecurring,
		RecurrenceRule: req.RecurrenceRule,
		IsPaid:         req.IsPaid,
	})
	if err != nil {
		return h.expenseErrorResponse(c, err, "Failed to create expense")
	}

	log.Info().Int32("expense_id", expense.ID).Str("description", expense.Description).Msg("Expense created")

	return c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

// GetExpenses handles GET /api/v1/expenses
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	filters, err := parseExpenseFilters(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	result, err := h.expenseService.GetExpenses(filters)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list expenses")
		return NewInternalError(c, "Failed to list expenses")
	}

	items := make([]ExpenseResponse, 0, len(result.Items))
	for _, expense := range result.Items {
		items = append(items, toExpenseResponse(expense))
	}

	return c.JSON(http.StatusOK, PaginatedExpensesResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		HasMore:    result.HasMore,
	})
}

// GetExpense handles GET /api/v1/expenses/:id
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	expense, err := h.expenseService.GetExpenseByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Int32("expense_id", id).Msg("Failed to get expense")
		return NewInternalError(c, "Failed to get expense")
	}

	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// UpdateExpense handles PUT /api/v1/expenses/:id
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	var req UpdateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	var amount *decimal.Decimal
	if req.Amount != nil {
		parsed, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return NewValidationError(c, "Invalid amount", []ValidationError{
				{Field: "amount", Message: "Must be a valid decimal number"},
			})
		}
		amount = &parsed
	}

	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		date = &parsed
	}

	expense, err := h.expenseService.UpdateExpense(id, service.UpdateExpenseInput{
		Amount:         amount,
		Description:    req.Description,
		Notes:          req.Notes,
		Date:           date,
		CategoryID:     req.CategoryID,
		IsRecurring:    req.IsRecurring,
		RecurrenceRule: req.RecurrenceRule,
	})
	if err != nil {
		return h.expenseErrorResponse(c, err, "Failed to update expense")
	}

	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// SetPaid handles PATCH /api/v1/expenses/:id/paid
func (h *ExpenseHandler) SetPaid(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	var req SetPaidRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	expense, err := h.expenseService.SetExpensePaid(id, req.IsPaid)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Int32("expense_id", id).Msg("Failed to set expense paid status")
		return NewInternalError(c, "Failed to set expense paid status")
	}

	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// DeleteExpense handles DELETE /api/v1/expenses/:id
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if err := h.expenseService.DeleteExpense(id); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Int32("expense_id", id).Msg("Failed to delete expense")
		return NewInternalError(c, "Failed to delete expense")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetMonthlySummary handles GET /api/v1/expenses/summary/:year/:month
func (h *ExpenseHandler) GetMonthlySummary(c echo.Context) error {
	year, month, err := parseYearMonthParams(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	summary, err := h.expenseService.GetMonthlySummary(year, month)
	if err != nil {
		log.Error().Err(err).Int("year", year).Int("month", month).Msg("Failed to get expense summary")
		return NewInternalError(c, "Failed to get expense summary")
	}

	return c.JSON(http.StatusOK, ExpenseSummaryResponse{
		TotalAmount:  summary.TotalAmount.StringFixed(2),
		PaidAmount:   summary.PaidAmount.StringFixed(2),
		UnpaidAmount: summary.UnpaidAmount.StringFixed(2),
		TotalCount:   summary.TotalCount,
		PaidCount:    summary.PaidCount,
		UnpaidCount:  summary.UnpaidCount,
	})
}

func (h *ExpenseHandler) expenseErrorResponse(c echo.Context, err error, fallback string) error {
	if errors.Is(err, domain.ErrNameRequired) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description is required"},
		})
	}
	if errors.Is(err, domain.ErrNameTooLong) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description must be 255 characters or less"},
		})
	}
	if errors.Is(err, domain.ErrInvalidAmount) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	}
	if errors.Is(err, domain.ErrCategoryNotFound) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categoryId", Message: "Category not found"},
		})
	}
	if errors.Is(err, domain.ErrExpenseNotFound) {
		return NewNotFoundError(c, "Expense not found")
	}
	log.Error().Err(err).Msg(fallback)
	return NewInternalError(c, fallback)
}

func parseExpenseFilters(c echo.Context) (*domain.ExpenseFilters, error) {
	filters := &domain.ExpenseFilters{}

	if v := c.QueryParam("categoryId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return nil, errors.New("invalid categoryId")
		}
		categoryID := int32(id)
		filters.CategoryID = &categoryID
	}
	if v := c.QueryParam("startDate"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, errors.New("invalid startDate")
		}
		filters.StartDate = &parsed
	}
	if v := c.QueryParam("endDate"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, errors.New("invalid endDate")
		}
		filters.EndDate = &parsed
	}
	if v := c.QueryParam("minAmount"); v != "" {
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return nil, errors.New("invalid minAmount")
		}
		filters.MinAmount = &parsed
	}
	if v := c.QueryParam("maxAmount"); v != "" {
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return nil, errors.New("invalid maxAmount")
		}
		filters.MaxAmount = &parsed
	}
	if v := c.QueryParam("isRecurring"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("invalid isRecurring")
		}
		filters.IsRecurring = &parsed
	}
	if v := c.QueryParam("isPaid"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("invalid isPaid")
		}
		filters.IsPaid = &parsed
	}
	if v := c.QueryParam("search"); v != "" {
		filters.Search = &v
	}
	if v := c.QueryParam("sortBy"); v != "" {
		sortBy := domain.ExpenseSortBy(v)
		if sortBy != domain.ExpenseSortByDate && sortBy != domain.ExpenseSortByAmount {
			return nil, errors.New("sortBy must be one of: date, amount")
		}
		filters.SortBy = sortBy
	}
	if v := c.QueryParam("sortDesc"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("invalid sortDesc")
		}
		filters.SortDesc = parsed
	}
	if v := c.QueryParam("limit"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 32)
		if err != nil || parsed < 0 {
			return nil, errors.New("invalid limit")
		}
		filters.Limit = int32(parsed)
	}
	if v := c.QueryParam("offset"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 32)
		if err != nil || parsed < 0 {
			return nil, errors.New("invalid offset")
		}
		filters.Offset = int32(parsed)
	}

	return filters, nil
}

func parseYearMonthParams(c echo.Context) (int, int, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2100 {
		return 0, 0, errors.New("year must be between 2000 and 2100")
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, errors.New("month must be between 1 and 12")
	}
	return year, month, nil
}
