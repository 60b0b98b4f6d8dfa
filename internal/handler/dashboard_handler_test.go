package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/moneta-app/moneta-backend/internal/domain"
	"github.com/moneta-app/moneta-backend/internal/service"
	"github.com/moneta-app/moneta-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

type dashboardFixture struct {
	handler      *DashboardHandler
	expenseRepo  *testutil.MockExpenseRepository
	assetRepo    *testutil.MockAssetRepository
	incomeRepo   *testutil.MockIncomeRepository
	settingsRepo *testutil.MockSettingsRepository
	rates        *testutil.MockRatesProvider
}

func newDashboardFixture() *dashboardFixture {
	expenseRepo := testutil.NewMockExpenseRepository()
	assetRepo := testutil.NewMockAssetRepository()
	incomeRepo := testutil.NewMockIncomeRepository()
	portfolioRepo := testutil.NewMockPortfolioRepository()
	settingsRepo := testutil.NewMockSettingsRepository()

	currencyService := service.NewCurrencyService()
	incomeService := service.NewIncomeService(incomeRepo, currencyService)
	investmentService := service.NewInvestmentService(portfolioRepo, assetRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	dashboardService := service.NewDashboardService(expenseRepo, assetRepo, incomeService, investmentService, currencyService)

	rates := testutil.NewMockRatesProvider(&domain.ExchangeRateTable{
		Base: "USD",
		Rates: map[string]decimal.Decimal{
			"EUR": decimal.RequireFromString("0.9"),
		},
		FetchedAt: time.Now().UTC(),
	})

	return &dashboardFixture{
		handler:      NewDashboardHandler(dashboardService, settingsService, rates),
		expenseRepo:  expenseRepo,
		assetRepo:    assetRepo,
		incomeRepo:   incomeRepo,
		settingsRepo: settingsRepo,
		rates:        rates,
	}
}

func TestGetSummary_Success(t *testing.T) {
	e := echo.New()
	fx := newDashboardFixture()

	fx.incomeRepo.AddIncome(&domain.Income{
		ID:       1,
		Name:     "Salary",
		Amount:   decimal.RequireFromString("5000.00"),
		IsActive: true,
		Currency: "USD",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := fx.handler.GetSummary(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response DashboardSummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	// Settings are created on first access with USD as the default
	if response.MainCurrency != "USD" {
		t.Errorf("Expected main currency USD, got %s", response.MainCurrency)
	}

	if response.TotalMonthlyIncome != "5000.00" {
		t.Errorf("Expected monthly income '5000.00', got %s", response.TotalMonthlyIncome)
	}

	if response.IncomeStreamsCount != 1 {
		t.Errorf("Expected 1 income stream, got %d", response.IncomeStreamsCount)
	}

	if len(response.MonthlyExpenseTrend) != 6 {
		t.Errorf("Expected 6 trend points, got %d", len(response.MonthlyExpenseTrend))
	}
}

func TestGetSummary_ProviderDown(t *testing.T) {
	e := echo.New()
	fx := newDashboardFixture()
	fx.rates.Err = errors.New("connection refused")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := fx.handler.GetSummary(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", rec.Code)
	}
}

func TestGetSummary_MissingRateFailsLoudly(t *testing.T) {
	e := echo.New()
	fx := newDashboardFixture()

	// A GBP stream has no rate in the table
	fx.incomeRepo.AddIncome(&domain.Income{
		ID:       1,
		Name:     "Consulting",
		Amount:   decimal.RequireFromString("1000.00"),
		IsActive: true,
		Currency: "GBP",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := fx.handler.GetSummary(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", rec.Code)
	}
}

func TestGetSummary_MonthWithoutYear(t *testing.T) {
	e := echo.New()
	fx := newDashboardFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary?month=5", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := fx.handler.GetSummary(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
