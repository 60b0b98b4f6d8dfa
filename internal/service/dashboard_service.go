package service

import (
	"time"

	"github.com/moneta-app/moneta-backend/internal/domain"
	"github.com/moneta-app/moneta-backend/internal/util"
	"github.com/shopspring/decimal"
)

const (
	topCategoriesLimit = 5
	recentExpenseLimit = 5
	expenseTrendMonths = 6
)

// DashboardService folds expenses, income streams and portfolio assets
// into the dashboard summary
type DashboardService struct {
	expenseRepo   domain.ExpenseRepository
	assetRepo     domain.AssetRepository
	incomeService *IncomeService
	investments   *InvestmentService
	currency      *CurrencyService
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	expenseRepo domain.ExpenseRepository,
	assetRepo domain.AssetRepository,
	incomeService *IncomeService,
	investments *InvestmentService,
	currency *CurrencyService,
) *DashboardService {
	return &DashboardService{
		expenseRepo:   expenseRepo,
		assetRepo:     assetRepo,
		incomeService: incomeService,
		investments:   investments,
		currency:      currency,
	}
}

// Summarize computes the dashboard summary as of the given instant.
// Cross-currency figures are converted into mainCurrency using the rate
// table; a missing rate fails the whole summary instead of producing a
// partial one.
func (s *DashboardService) Summarize(asOf time.Time, mainCurrency string, table *domain.ExchangeRateTable) (*domain.DashboardSummary, error) {
	year, month := asOf.Year(), int(asOf.Month())

	// 1. Expense totals for this month and last
	thisMonth, err := s.expenseRepo.SumForMonth(year, month)
	if err != nil {
		return nil, err
	}

	lastYear, lastMonth := util.PreviousMonth(year, month)
	prevMonth, err := s.expenseRepo.SumForMonth(lastYear, lastMonth)
	if err != nil {
		return nil, err
	}

	// 2. Month-over-month change, undefined when there is no baseline
	var changePercent *decimal.Decimal
	if !prevMonth.IsZero() {
		pct := thisMonth.Sub(prevMonth).Div(prevMonth).Mul(oneHundredPct)
		changePercent = &pct
	}

	// 3. Portfolio totals and allocation in the main currency
	assets, err := s.assetRepo.GetAll()
	if err != nil {
		return nil, err
	}
	portfolioValue, portfolioCost, allocation, err := s.foldAssets(assets, mainCurrency, table)
	if err != nil {
		return nil, err
	}

	// 4. Monthly income across active streams
	income, err := s.incomeService.TotalMonthlyIncome(table, mainCurrency)
	if err != nil {
		return nil, err
	}

	// 5. Top spending categories for the month
	topCategories, err := s.topCategories(year, month)
	if err != nil {
		return nil, err
	}

	// 6. Recent activity
	recent, err := s.expenseRepo.GetRecent(recentExpenseLimit)
	if err != nil {
		return nil, err
	}

	// 7. Expense trend over the trailing months
	trend, err := s.expenseTrend(year, month)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardSummary{
		TotalExpensesThisMonth: thisMonth,
		TotalExpensesLastMonth: prevMonth,
		ExpenseChangePercent:   changePercent,
		TotalPortfolioValue:    portfolioValue,
		TotalPortfolioCost:     portfolioCost,
		NetWorth:               portfolioValue,
		TotalMonthlyIncome:     income.Total,
		IncomeStreamsCount:     income.StreamsCount,
		TopCategories:          topCategories,
		RecentExpenses:         recent,
		PortfolioAllocation:    allocation,
		MonthlyExpenseTrend:    trend,
	}, nil
}

// foldAssets converts every asset into the main currency and aggregates
// totals plus the allocation breakdown by asset type. Cost is summed for
// every asset; value covers only assets carrying a market price. The
// allocation uses cost as a stand-in value for unpriced assets so each
// holding still shows up in the breakdown.
func (s *DashboardService) foldAssets(assets []*domain.Asset, mainCurrency string, table *domain.ExchangeRateTable) (decimal.Decimal, decimal.Decimal, []*domain.AllocationSlice, error) {
	totalValue := decimal.Zero
	totalCost := decimal.Zero
	byType := make(map[domain.AssetType]decimal.Decimal)

	for _, asset := range assets {
		m := s.investments.ComputeAssetMetrics(asset)

		cost, err := s.currency.Convert(m.TotalCost, asset.Currency, mainCurrency, table)
		if err != nil {
			return decimal.Zero, decimal.Zero, nil, err
		}
		totalCost = totalCost.Add(cost)

		allocationValue := cost
		if m.CurrentValue != nil {
			value, err := s.currency.Convert(*m.CurrentValue, asset.Currency, mainCurrency, table)
			if err != nil {
				return decimal.Zero, decimal.Zero, nil, err
			}
			totalValue = totalValue.Add(value)
			allocationValue = value
		}

		byType[asset.AssetType] = byType[asset.AssetType].Add(allocationValue)
	}

	allocationTotal := decimal.Zero
	for _, v := range byType {
		allocationTotal = allocationTotal.Add(v)
	}

	allocation := make([]*domain.AllocationSlice, 0, len(byType))
	for _, assetType := range []domain.AssetType{
		domain.AssetTypeStock, domain.AssetTypeCrypto, domain.AssetTypeFund,
		domain.AssetTypeETF, domain.AssetTypeBond, domain.AssetTypeFII,
		domain.AssetTypeOther,
	} {
		value, ok := byType[assetType]
		if !ok {
			continue
		}
		percentage := decimal.Zero
		if !allocationTotal.IsZero() {
			percentage = value.Div(allocationTotal).Mul(oneHundredPct)
		}
		allocation = append(allocation, &domain.AllocationSlice{
			AssetType:  assetType,
			TotalValue: value,
			Percentage: percentage,
		})
	}

	return totalValue, totalCost, allocation, nil
}

// topCategories derives each top category's share of the month's spend
func (s *DashboardService) topCategories(year, month int) ([]*domain.CategorySpending, error) {
	rows, err := s.expenseRepo.TopCategoriesForMonth(year, month, topCategoriesLimit)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.TotalAmount)
	}

	categories := make([]*domain.CategorySpending, 0, len(rows))
	for _, row := range rows {
		percentage := decimal.Zero
		if !total.IsZero() {
			percentage = row.TotalAmount.Div(total).Mul(oneHundredPct)
		}
		categories = append(categories, &domain.CategorySpending{
			Category:         row.Category,
			TotalAmount:      row.TotalAmount,
			Percentage:       percentage,
			TransactionCount: row.TransactionCount,
		})
	}

	return categories, nil
}

// expenseTrend returns monthly totals for the trailing window ending at
// the given month, oldest first
func (s *DashboardService) expenseTrend(year, month int) ([]*domain.MonthTotal, error) {
	trend := make([]*domain.MonthTotal, 0, expenseTrendMonths)

	y, m := year, month
	for i := 0; i < expenseTrendMonths-1; i++ {
		y, m = util.PreviousMonth(y, m)
	}

	for i := 0; i < expenseTrendMonths; i++ {
		total, err := s.expenseRepo.SumForMonth(y, m)
		if err != nil {
			return nil, err
		}
		trend = append(trend, &domain.MonthTotal{
			Month:       util.FormatYearMonth(y, m),
			TotalAmount: total,
		})

		m++
		if m > 12 {
			m = 1
			y++
		}
	}

	return trend, nil
}
