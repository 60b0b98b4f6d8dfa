package domain

import "github.com/shopspring/decimal"

// CategorySpending is one category's share of a month's spend.
type CategorySpending struct {
	Category         *Category       `json:"category"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	Percentage       decimal.Decimal `json:"percentage"`
	TransactionCount int64           `json:"transactionCount"`
}

// AllocationSlice is the total value held in one asset type.
type AllocationSlice struct {
	AssetType  AssetType       `json:"assetType"`
	TotalValue decimal.Decimal `json:"totalValue"`
	Percentage decimal.Decimal `json:"percentage"`
}

// MonthTotal is one point of the monthly expense trend, Month formatted
// as "YYYY-MM".
type MonthTotal struct {
	Month       string          `json:"month"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// DashboardSummary is the full dashboard fold. All cross-currency
// figures are expressed in the user's main currency. Nil pointer fields
// mean "not applicable", which is distinct from zero: the change percent
// is nil when last month had no expenses at all.
type DashboardSummary struct {
	TotalExpensesThisMonth decimal.Decimal     `json:"totalExpensesThisMonth"`
	TotalExpensesLastMonth decimal.Decimal     `json:"totalExpensesLastMonth"`
	ExpenseChangePercent   *decimal.Decimal    `json:"expenseChangePercent,omitempty"`
	TotalPortfolioValue    decimal.Decimal     `json:"totalPortfolioValue"`
	TotalPortfolioCost     decimal.Decimal     `json:"totalPortfolioCost"`
	NetWorth               decimal.Decimal     `json:"netWorth"`
	TotalMonthlyIncome     decimal.Decimal     `json:"totalMonthlyIncome"`
	IncomeStreamsCount     int                 `json:"incomeStreamsCount"`
	TopCategories          []*CategorySpending `json:"topCategories"`
	RecentExpenses         []*Expense          `json:"recentExpenses"`
	PortfolioAllocation    []*AllocationSlice  `json:"portfolioAllocation"`
	MonthlyExpenseTrend    []*MonthTotal       `json:"monthlyExpenseTrend"`
}
