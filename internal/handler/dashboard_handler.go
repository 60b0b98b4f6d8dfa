package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/moneta-app/moneta-backend/internal/domain"
	"github.com/moneta-app/moneta-backend/internal/rates"
	"github.com/moneta-app/moneta-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// DashboardHandler handles the dashboard summary endpoint
type DashboardHandler struct {
	dashboardService *service.DashboardService
	settingsService  *service.SettingsService
	ratesProvider    rates.Provider
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(
	dashboardService *service.DashboardService,
	settingsService *service.SettingsService,
	ratesProvider rates.Provider,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		settingsService:  settingsService,
		ratesProvider:    ratesProvider,
	}
}

// CategorySpendingResponse is one top-category row in the summary
type CategorySpendingResponse struct {
	Category         CategoryResponse `json:"category"`
	TotalAmount      string           `json:"totalAmount"`
	Percentage       string           `json:"percentage"`
	TransactionCount int64            `json:"transactionCount"`
}

// AllocationSliceResponse is one asset-type slice of the portfolio
type AllocationSliceResponse struct {
	AssetType  string `json:"assetType"`
	TotalValue string `json:"totalValue"`
	Percentage string `json:"percentage"`
}

// MonthTotalResponse is one point of the monthly expense trend
type MonthTotalResponse struct {
	Month       string `json:"month"`
	TotalAmount string `json:"totalAmount"`
}

// DashboardSummaryResponse represents the dashboard summary in API responses.
// All cross-currency amounts are expressed in the main currency.
type DashboardSummaryResponse struct {
	MainCurrency           string                     `json:"mainCurrency"`
	TotalExpensesThisMonth string                     `json:"totalExpensesThisMonth"`
	TotalExpensesLastMonth string                     `json:"totalExpensesLastMonth"`
	ExpenseChangePercent   *string                    `json:"expenseChangePercent,omitempty"`
	TotalPortfolioValue    string                     `json:"totalPortfolioValue"`
	TotalPortfolioCost     string                     `json:"totalPortfolioCost"`
	NetWorth               string                     `json:"netWorth"`
	TotalMonthlyIncome     string                     `json:"totalMonthlyIncome"`
	IncomeStreamsCount     int                        `json:"incomeStreamsCount"`
	TopCategories          []CategorySpendingResponse `json:"topCategories"`
	RecentExpenses         []ExpenseResponse          `json:"recentExpenses"`
	PortfolioAllocation    []AllocationSliceResponse  `json:"portfolioAllocation"`
	MonthlyExpenseTrend    []MonthTotalResponse       `json:"monthlyExpenseTrend"`
}

func toDashboardSummaryResponse(summary *domain.DashboardSummary, mainCurrency string) DashboardSummaryResponse {
	resp := DashboardSummaryResponse{
		MainCurrency:           mainCurrency,
		TotalExpensesThisMonth: summary.TotalExpensesThisMonth.StringFixed(2),
		TotalExpensesLastMonth: summary.TotalExpensesLastMonth.StringFixed(2),
		TotalPortfolioValue:    summary.TotalPortfolioValue.StringFixed(2),
		TotalPortfolioCost:     summary.TotalPortfolioCost.StringFixed(2),
		NetWorth:               summary.NetWorth.StringFixed(2),
		TotalMonthlyIncome:     summary.TotalMonthlyIncome.StringFixed(2),
		IncomeStreamsCount:     summary.IncomeStreamsCount,
		TopCategories:          make([]CategorySpendingResponse, 0, len(summary.TopCategories)),
		RecentExpenses:         make([]ExpenseResponse, 0, len(summary.RecentExpenses)),
		PortfolioAllocation:    make([]AllocationSliceResponse, 0, len(summary.PortfolioAllocation)),
		MonthlyExpenseTrend:    make([]MonthTotalResponse, 0, len(summary.MonthlyExpenseTrend)),
	}
	if summary.ExpenseChangePercent != nil {
		pct := summary.ExpenseChangePercent.StringFixed(2)
		resp.ExpenseChangePercent = &pct
	}
	for _, spending := range summary.TopCategories {
		resp.TopCategories = append(resp.TopCategories, CategorySpendingResponse{
			Category:         toCategoryResponse(spending.Category),
			TotalAmount:      spending.TotalAmount.StringFixed(2),
			Percentage:       spending.Percentage.StringFixed(2),
			TransactionCount: spending.TransactionCount,
		})
	}
	for _, expense := range summary.RecentExpenses {
		resp.RecentExpenses = append(resp.RecentExpenses, toExpenseResponse(expense))
	}
	for _, slice := range summary.PortfolioAllocation {
		resp.PortfolioAllocation = append(resp.PortfolioAllocation, AllocationSliceResponse{
			AssetType:  string(slice.AssetType),
			TotalValue: slice.TotalValue.StringFixed(2),
			Percentage: slice.Percentage.StringFixed(2),
		})
	}
	for _, point := range summary.MonthlyExpenseTrend {
		resp.MonthlyExpenseTrend = append(resp.MonthlyExpenseTrend, MonthTotalResponse{
			Month:       point.Month,
			TotalAmount: point.TotalAmount.StringFixed(2),
		})
	}
	return resp
}

// GetSummary handles GET /api/v1/dashboard/summary. Optional year and
// month query parameters pin the summary to a past month; both default
// to the current month.
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	asOf := time.Now().UTC()

	if v := c.QueryParam("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil || year < 2000 || year > 2100 {
			return NewValidationError(c, "year must be between 2000 and 2100", nil)
		}
		month := int(asOf.Month())
		if mv := c.QueryParam("month"); mv != "" {
			month, err = strconv.Atoi(mv)
			if err != nil || month < 1 || month > 12 {
				return NewValidationError(c, "month must be between 1 and 12", nil)
			}
		}
		asOf = time.Date(year, time.Month(month), 15, 0, 0, 0, 0, time.UTC)
	} else if c.QueryParam("month") != "" {
		return NewValidationError(c, "month requires year", nil)
	}

	settings, err := h.settingsService.GetSettings()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load settings for dashboard")
		return NewInternalError(c, "Failed to build dashboard summary")
	}

	table, err := h.ratesProvider.Latest(c.Request().Context(), settings.MainCurrency)
	if err != nil {
		log.Error().Err(err).Str("base", settings.MainCurrency).Msg("Failed to fetch exchange rates")
		return NewUpstreamError(c, "Exchange rate provider is unavailable")
	}

	summary, err := h.dashboardService.Summarize(asOf, settings.MainCurrency, table)
	if err != nil {
		if errors.Is(err, domain.ErrRateNotFound) {
			log.Error().Err(err).Msg("Rate table missing a currency used by stored data")
			return NewUpstreamError(c, "Exchange rate missing for a stored currency")
		}
		log.Error().Err(err).Msg("Failed to build dashboard summary")
		return NewInternalError(c, "Failed to build dashboard summary")
	}

	return c.JSON(http.StatusOK, toDashboardSummaryResponse(summary, settings.MainCurrency))
}
