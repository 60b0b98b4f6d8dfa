package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, categoryHandler *CategoryHandler, expenseHandler *ExpenseHandler, incomeHandler *IncomeHandler, investmentHandler *InvestmentHandler, settingsHandler *SettingsHandler, dashboardHandler *DashboardHandler, ratesHandler *RatesHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Category routes
	categories := api.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Expense routes
	expenses := api.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/summary/:year/:month", expenseHandler.GetMonthlySummary)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.PATCH("/:id/paid", expenseHandler.SetPaid)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Income routes
	incomes := api.Group("/incomes")
	incomes.POST("", incomeHandler.CreateIncome)
	incomes.GET("", incomeHandler.GetIncomes)
	incomes.GET("/:id", incomeHandler.GetIncome)
	incomes.PUT("/:id", incomeHandler.UpdateIncome)
	incomes.DELETE("/:id", incomeHandler.DeleteIncome)

	// Portfolio routes
	portfolios := api.Group("/portfolios")
	portfolios.POST("", investmentHandler.CreatePortfolio)
	portfolios.GET("", investmentHandler.GetPortfolios)
	portfolios.GET("/:id", investmentHandler.GetPortfolio)
	portfolios.PUT("/:id", investmentHandler.UpdatePortfolio)
	portfolios.DELETE("/:id", investmentHandler.DeletePortfolio)
	portfolios.POST("/:id/assets", investmentHandler.CreateAsset)

	// Asset routes
	assets := api.Group("/assets")
	assets.GET("/:id", investmentHandler.GetAsset)
	assets.PUT("/:id", investmentHandler.UpdateAsset)
	assets.DELETE("/:id", investmentHandler.DeleteAsset)

	// Settings routes
	settings := api.Group("/settings")
	settings.GET("", settingsHandler.GetSettings)
	settings.PUT("", settingsHandler.UpdateSettings)
	settings.GET("/currencies", settingsHandler.GetCurrencies)
	settings.GET("/languages", settingsHandler.GetLanguages)

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.GET("/summary", dashboardHandler.GetSummary)

	// Exchange rate routes
	api.GET("/exchange-rates", ratesHandler.GetRates)

	// WebSocket endpoint
	e.GET("/ws", wsHandler.HandleWS)
}
