package service

import (
	"errors"
	"testing"
	"time"

	"github.com/moneta-app/moneta-backend/internal/domain"
	"github.com/moneta-app/moneta-backend/internal/testutil"
)

func newDashboardFixture(t *testing.T) (*DashboardService, *testutil.MockExpenseRepository, *testutil.MockIncomeRepository, *testutil.MockAssetRepository) {
	t.Helper()
	expenseRepo := testutil.NewMockExpenseRepository()
	incomeRepo := testutil.NewMockIncomeRepository()
	assetRepo := testutil.NewMockAssetRepository()
	portfolioRepo := testutil.NewMockPortfolioRepository()

	currency := NewCurrencyService()
	incomeService := NewIncomeService(incomeRepo, currency)
	investments := NewInvestmentService(portfolioRepo, assetRepo)

	svc := NewDashboardService(expenseRepo, assetRepo, incomeService, investments, currency)
	return svc, expenseRepo, incomeRepo, assetRepo
}

var asOf = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func TestSummarize_ExpenseTotalsAndChange(t *testing.T) {
	svc, expenseRepo, _, _ := newDashboardFixture(t)

	expenseRepo.AddExpense(&domain.Expense{ID: 1, Amount: dec("300"), Description: "rent", Date: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), CategoryID: 1})
	expenseRepo.AddExpense(&domain.Expense{ID: 2, Amount: dec("200"), Description: "food", Date: time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC), CategoryID: 1})

	summary, err := svc.Summarize(asOf, "USD", usdTable())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if summary.TotalExpensesThisMonth.StringFixed(2) != "300.00" {
		t.Errorf("Expected this month 300.00, got %s", summary.TotalExpensesThisMonth.StringFixed(2))
	}
	if summary.TotalExpensesLastMonth.StringFixed(2) != "200.00" {
		t.Errorf("Expected last month 200.00, got %s", summary.TotalExpensesLastMonth.StringFixed(2))
	}
	// (300 - 200) / 200 * 100 = 50
	if summary.ExpenseChangePercent == nil || summary.ExpenseChangePercent.StringFixed(2) != "50.00" {
		t.Errorf("Expected change percent 50.00, got %v", summary.ExpenseChangePercent)
	}
}

func TestSummarize_NoBaselineMonthMeansNoChangePercent(t *testing.T) {
	svc, expenseRepo, _, _ := newDashboardFixture(t)

	expenseRepo.AddExpense(&domain.Expense{ID: 1, Amount: dec("300"), Description: "rent", Date: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), CategoryID: 1})

	summary, err := svc.Summarize(asOf, "USD", usdTable())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if summary.ExpenseChangePercent != nil {
		t.Errorf("Expected change percent to be undefined with an empty last month, got %v", summary.ExpenseChangePercent)
	}
}

func TestSummarize_PortfolioConvertedToMainCurrency(t *testing.T) {
	svc, _, _, assetRepo := newDashboardFixture(t)

	// 10 shares at 175 USD, and a 3000 EUR position priced at 3300 EUR
	assetRepo.AddAsset(&domain.Asset{ID: 1, AssetType: domain.AssetTypeETF, Quantity: dec("10"), PurchasePrice: dec("150"), CurrentPrice: decPtr("175"), Currency: "USD"})
	assetRepo.AddAsset(&domain.Asset{ID: 2, AssetType: domain.AssetTypeStock, Quantity: dec("1"), PurchasePrice: dec("3000"), CurrentPrice: decPtr("3300"), Currency: "EUR"})

	summary, err := svc.Summarize(asOf, "USD", usdTable())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// 1750 + 3300/0.9 = 1750 + 3666.67 = 5416.67
	if summary.TotalPortfolioValue.StringFixed(2) != "5416.67" {
		t.Errorf("Expected portfolio value 5416.67, got %s", summary.TotalPortfolioValue.StringFixed(2))
	}
	// 1500 + 3000/0.9 = 1500 + 3333.33 = 4833.33
	if summary.TotalPortfolioCost.StringFixed(2) != "4833.33" {
		t.Errorf("Expected portfolio cost 4833.33, got %s", summary.TotalPortfolioCost.StringFixed(2))
	}
	if summary.NetWorth.StringFixed(2) != summary.TotalPortfolioValue.StringFixed(2) {
		t.Errorf("Expected net worth to equal portfolio value")
	}
}

func TestSummarize_UnpricedAssetExcludedFromValue(t *testing.T) {
	svc, _, _, assetRepo := newDashboardFixture(t)

	assetRepo.AddAsset(&domain.Asset{ID: 1, AssetType: domain.AssetTypeETF, Quantity: dec("10"), PurchasePrice: dec("150"), CurrentPrice: decPtr("175"), Currency: "USD"})
	assetRepo.AddAsset(&domain.Asset{ID: 2, AssetType: domain.AssetTypeBond, Quantity: dec("5"), PurchasePrice: dec("200"), Currency: "USD"})

	summary, err := svc.Summarize(asOf, "USD", usdTable())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if summary.TotalPortfolioValue.StringFixed(2) != "1750.00" {
		t.Errorf("Expected value 1750.00 excluding the unpriced asset, got %s", summary.TotalPortfolioValue.StringFixed(2))
	}
	if summary.TotalPortfolioCost.StringFixed(2) != "2500.00" {
		t.Errorf("Expected cost 2500.00 including the unpriced asset, got %s", summary.TotalPortfolioCost.StringFixed(2))
	}
}

func TestSummarize_AllocationFallsBackToCost(t *testing.T) {
	svc, _, _, assetRepo := newDashboardFixture(t)

	assetRepo.AddAsset(&domain.Asset{ID: 1, AssetType: domain.AssetTypeETF, Quantity: dec("10"), PurchasePrice: dec("150"), CurrentPrice: decPtr("175"), Currency: "USD"})
	// Unpriced bond still shows up in the allocation at cost
	assetRepo.AddAsset(&domain.Asset{ID: 2, AssetType: domain.AssetTypeBond, Quantity: dec("5"), PurchasePrice: dec("50"), Currency: "USD"})

	summary, err := svc.Summarize(asOf, "USD", usdTable())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(summary.PortfolioAllocation) != 2 {
		t.Fatalf("Expected 2 allocation slices, got %d", len(summary.PortfolioAllocation))
	}

	byType := make(map[domain.AssetType]*domain.AllocationSlice)
	for _, slice := range summary.PortfolioAllocation {
		byType[slice.AssetType] = slice
	}

	etf := byType[domain.AssetTypeETF]
	bond := byType[domain.AssetTypeBond]
	if etf == nil || bond == nil {
		t.Fatal("Expected ETF and bond slices")
	}
	if etf.TotalValue.StringFixed(2) != "1750.00" {
		t.Errorf("Expected ETF slice 1750.00, got %s", etf.TotalValue.StringFixed(2))
	}
	if bond.TotalValue.StringFixed(2) != "250.00" {
		t.Errorf("Expected bond slice 250.00 at cost, got %s", bond.TotalValue.StringFixed(2))
	}
	// 1750 / 2000 = 87.5%
	if etf.Percentage.StringFixed(2) != "87.50" {
		t.Errorf("Expected ETF share 87.50, got %s", etf.Percentage.StringFixed(2))
	}
}

func TestSummarize_IncomeAcrossCurrencies(t *testing.T) {
	svc, _, incomeRepo, _ := newDashboardFixture(t)

	incomeRepo.AddIncome(&domain.Income{ID: 1, Name: "Job", Amount: dec("5000"), IncomeType: domain.IncomeTypeSalary, IsActive: true, Currency: "USD"})
	incomeRepo.AddIncome(&domain.Income{ID: 2, Name: "EU contract", Amount: dec("3000"), IncomeType: domain.IncomeTypeFreelance, IsActive: true, Currency: "EUR"})

	summary, err := svc.Summarize(asOf, "USD", usdTable())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if summary.TotalMonthlyIncome.StringFixed(2) != "8333.33" {
		t.Errorf("Expected income 8333.33, got %s", summary.TotalMonthlyIncome.StringFixed(2))
	}
	if summary.IncomeStreamsCount != 2 {
		t.Errorf("Expected 2 income streams, got %d", summary.IncomeStreamsCount)
	}
}

func TestSummarize_MissingRateFailsWholeSummary(t *testing.T) {
	svc, _, _, assetRepo := newDashboardFixture(t)

	assetRepo.AddAsset(&domain.Asset{ID: 1, AssetType: domain.AssetTypeStock, Quantity: dec("1"), PurchasePrice: dec("100"), Currency: "GBP"})

	_, err := svc.Summarize(asOf, "USD", usdTable())
	if !errors.Is(err, domain.ErrRateNotFound) {
		t.Errorf("Expected ErrRateNotFound, got %v", err)
	}
}

func TestSummarize_TopCategoriesWithShares(t *testing.T) {
	svc, expenseRepo, _, _ := newDashboardFixture(t)

	food := &domain.Category{ID: 1, Name: "Food"}
	rent := &domain.Category{ID: 2, Name: "Rent"}
	aug := func(day int) time.Time { return time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC) }

	expenseRepo.AddExpense(&domain.Expense{ID: 1, Amount: dec("300"), Description: "groceries", Date: aug(2), CategoryID: 1, Category: food})
	expenseRepo.AddExpense(&domain.Expense{ID: 2, Amount: dec("100"), Description: "takeout", Date: aug(9), CategoryID: 1, Category: food})
	expenseRepo.AddExpense(&domain.Expense{ID: 3, Amount: dec("600"), Description: "rent", Date: aug(1), CategoryID: 2, Category: rent})

	summary, err := svc.Summarize(asOf, "USD", usdTable())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(summary.TopCategories) != 2 {
		t.Fatalf("Expected 2 top categories, got %d", len(summary.TopCategories))
	}

	top := summary.TopCategories[0]
	if top.Category.Name != "Rent" {
		t.Errorf("Expected 'Rent' first, got %s", top.Category.Name)
	}
	if top.Percentage.StringFixed(2) != "60.00" {
		t.Errorf("Expected rent share 60.00, got %s", top.Percentage.StringFixed(2))
	}
	if summary.TopCategories[1].Percentage.StringFixed(2) != "40.00" {
		t.Errorf("Expected food share 40.00, got %s", summary.TopCategories[1].Percentage.StringFixed(2))
	}
}

func TestSummarize_MonthlyTrendOldestFirst(t *testing.T) {
	svc, expenseRepo, _, _ := newDashboardFixture(t)

	expenseRepo.AddExpense(&domain.Expense{ID: 1, Amount: dec("100"), Description: "march", Date: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), CategoryID: 1})
	expenseRepo.AddExpense(&domain.Expense{ID: 2, Amount: dec("200"), Description: "august", Date: time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC), CategoryID: 1})

	summary, err := svc.Summarize(asOf, "USD", usdTable())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(summary.MonthlyExpenseTrend) != 6 {
		t.Fatalf("Expected 6 trend points, got %d", len(summary.MonthlyExpenseTrend))
	}
	if summary.MonthlyExpenseTrend[0].Month != "2026-03" {
		t.Errorf("Expected trend to start at 2026-03, got %s", summary.MonthlyExpenseTrend[0].Month)
	}
	if summary.MonthlyExpenseTrend[5].Month != "2026-08" {
		t.Errorf("Expected trend to end at 2026-08, got %s", summary.MonthlyExpenseTrend[5].Month)
	}
	if summary.MonthlyExpenseTrend[0].TotalAmount.StringFixed(2) != "100.00" {
		t.Errorf("Expected March total 100.00, got %s", summary.MonthlyExpenseTrend[0].TotalAmount.StringFixed(2))
	}
	if summary.MonthlyExpenseTrend[3].TotalAmount.StringFixed(2) != "0.00" {
		t.Errorf("Expected June total 0.00, got %s", summary.MonthlyExpenseTrend[3].TotalAmount.StringFixed(2))
	}
}

func TestSummarize_RecentExpensesNewestFirst(t *testing.T) {
	svc, expenseRepo, _, _ := newDashboardFixture(t)

	for i := 1; i <= 7; i++ {
		expenseRepo.AddExpense(&domain.Expense{
			ID:          int32(i),
			Amount:      dec("10"),
			Description: "e",
			Date:        time.Date(2026, 8, i, 0, 0, 0, 0, time.UTC),
			CategoryID:  1,
		})
	}

	summary, err := svc.Summarize(asOf, "USD", usdTable())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(summary.RecentExpenses) != 5 {
		t.Fatalf("Expected 5 recent expenses, got %d", len(summary.RecentExpenses))
	}
	if summary.RecentExpenses[0].ID != 7 {
		t.Errorf("Expected newest expense first, got ID %d", summary.RecentExpenses[0].ID)
	}
}

func TestSummarize_RecentSameDayOrderedByCreation(t *testing.T) {
	svc, expenseRepo, _, _ := newDashboardFixture(t)

	day := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	// A backdated entry recorded later outranks an older record of the
	// same day regardless of ID order
	expenseRepo.AddExpense(&domain.Expense{
		ID: 1, Amount: dec("10"), Description: "entered first", Date: day,
		CategoryID: 1, CreatedAt: time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC),
	})
	expenseRepo.AddExpense(&domain.Expense{
		ID: 2, Amount: dec("20"), Description: "entered later", Date: day,
		CategoryID: 1, CreatedAt: time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC),
	})

	summary, err := svc.Summarize(asOf, "USD", usdTable())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(summary.RecentExpenses) != 2 {
		t.Fatalf("Expected 2 recent expenses, got %d", len(summary.RecentExpenses))
	}
	if summary.RecentExpenses[0].ID != 2 {
		t.Errorf("Expected most recently recorded expense first, got ID %d", summary.RecentExpenses[0].ID)
	}
}
