package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/moneta-app/moneta-backend/internal/domain"
	"github.com/moneta-app/moneta-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[int32]*domain.Category
	NextID     int32
	CreateFn   func(category *domain.Category) (*domain.Category, error)
	DeleteFn   func(id int32) error
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int32]*domain.Category),
		NextID:     1,
	}
}

// Create creates a new category
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	if m.CreateFn != nil {
		return m.CreateFn(category)
	}
	category.ID = m.NextID
	m.NextID++
	category.CreatedAt = time.Now().UTC()
	m.Categories[category.ID] = category
	return category, nil
}

// GetByID retrieves a category by ID
func (m *MockCategoryRepository) GetByID(id int32) (*domain.Category, error) {
	if category, ok := m.Categories[id]; ok {
		return category, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetAll retrieves all categories sorted by name
func (m *MockCategoryRepository) GetAll() ([]*domain.Category, error) {
	categories := make([]*domain.Category, 0, len(m.Categories))
	for _, category := range m.Categories {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

// Update updates an existing category
func (m *MockCategoryRepository) Update(id int32, name, color, icon *string) (*domain.Category, error) {
	category, ok := m.Categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	if name != nil {
		category.Name = *name
	}
	if color != nil {
		category.Color = *color
	}
	if icon != nil {
		category.Icon = icon
	}
	return category, nil
}

// Delete deletes a category by ID
func (m *MockCategoryRepository) Delete(id int32) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(id)
	}
	if _, ok := m.Categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(m.Categories, id)
	return nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	m.Categories[category.ID] = category
	if category.ID >= m.NextID {
		m.NextID = category.ID + 1
	}
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses      map[int32]*domain.Expense
	NextID        int32
	CreateFn      func(expense *domain.Expense) (*domain.Expense, error)
	SumForMonthFn func(year, month int) (decimal.Decimal, error)
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[int32]*domain.Expense),
		NextID:   1,
	}
}

// Create creates a new expense
func (m *MockExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	if m.CreateFn != nil {
		return m.CreateFn(expense)
	}
	expense.ID = m.NextID
	m.NextID++
	now := time.Now().UTC()
	expense.CreatedAt = now
	expense.UpdatedAt = now
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// GetByID retrieves an expense by ID
func (m *MockExpenseRepository) GetByID(id int32) (*domain.Expense, error) {
	if expense, ok := m.Expenses[id]; ok {
		return expense, nil
	}
	return nil, domain.ErrExpenseNotFound
}

// List retrieves expenses matching the filters with pagination
func (m *MockExpenseRepository) List(filters *domain.ExpenseFilters) (*domain.PaginatedExpenses, error) {
	matched := make([]*domain.Expense, 0, len(m.Expenses))
	for _, e := range m.Expenses {
		if !matchesFilters(e, filters) {
			continue
		}
		matched = append(matched, e)
	}

	sort.Slice(matched, func(i, j int) bool {
		var less bool
		if filters.SortBy == domain.ExpenseSortByAmount {
			less = matched[i].Amount.LessThan(matched[j].Amount)
		} else {
			less = matched[i].Date.Before(matched[j].Date)
		}
		if filters.SortDesc {
			return !less
		}
		return less
	})

	total := int64(len(matched))
	start := int(filters.Offset)
	if start > len(matched) {
		start = len(matched)
	}
	end := start + int(filters.Limit)
	if end > len(matched) {
		end = len(matched)
	}

	return &domain.PaginatedExpenses{
		Items:      matched[start:end],
		TotalCount: total,
		HasMore:    int64(end) < total,
	}, nil
}

func matchesFilters(e *domain.Expense, f *domain.ExpenseFilters) bool {
	if f.CategoryID != nil && e.CategoryID != *f.CategoryID {
		return false
	}
	if f.StartDate != nil && e.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && e.Date.After(*f.EndDate) {
		return false
	}
	if f.MinAmount != nil && e.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && e.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	if f.IsRecurring != nil && e.IsRecurring != *f.IsRecurring {
		return false
	}
	if f.IsPaid != nil && e.IsPaid != *f.IsPaid {
		return false
	}
	if f.Search != nil && !strings.Contains(strings.ToLower(e.Description), strings.ToLower(*f.Search)) {
		return false
	}
	return true
}

// Update updates an existing expense
func (m *MockExpenseRepository) Update(id int32, data *domain.UpdateExpenseData) (*domain.Expense, error) {
	expense, ok := m.Expenses[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	if data.Amount != nil {
		expense.Amount = *data.Amount
	}
	if data.Description != nil {
		expense.Description = *data.Description
	}
	if data.Notes != nil {
		expense.Notes = data.Notes
	}
	if data.Date != nil {
		expense.Date = *data.Date
	}
	if data.CategoryID != nil {
		expense.CategoryID = *data.CategoryID
	}
	if data.IsRecurring != nil {
		expense.IsRecurring = *data.IsRecurring
	}
	if data.RecurrenceRule != nil {
		expense.RecurrenceRule = data.RecurrenceRule
	}
	expense.UpdatedAt = time.Now().UTC()
	return expense, nil
}

// Delete deletes an expense by ID
func (m *MockExpenseRepository) Delete(id int32) error {
	if _, ok := m.Expenses[id]; !ok {
		return domain.ErrExpenseNotFound
	}
	delete(m.Expenses, id)
	return nil
}

// SetPaid sets the paid status and payment time of an expense
func (m *MockExpenseRepository) SetPaid(id int32, paid bool, paidAt *time.Time) (*domain.Expense, error) {
	expense, ok := m.Expenses[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	expense.IsPaid = paid
	expense.PaidAt = paidAt
	expense.UpdatedAt = time.Now().UTC()
	return expense, nil
}

// GetForMonth retrieves all expenses dated within the given month
func (m *MockExpenseRepository) GetForMonth(year, month int) ([]*domain.Expense, error) {
	expenses := make([]*domain.Expense, 0)
	for _, e := range m.Expenses {
		if e.Date.Year() == year && int(e.Date.Month()) == month {
			expenses = append(expenses, e)
		}
	}
	sort.Slice(expenses, func(i, j int) bool {
		return expenses[i].Date.Before(expenses[j].Date)
	})
	return expenses, nil
}

// SumForMonth sums expense amounts for the given month
func (m *MockExpenseRepository) SumForMonth(year, month int) (decimal.Decimal, error) {
	if m.SumForMonthFn != nil {
		return m.SumForMonthFn(year, month)
	}
	total := decimal.Zero
	for _, e := range m.Expenses {
		if e.Date.Year() == year && int(e.Date.Month()) == month {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

// TopCategoriesForMonth aggregates expenses by category for the month
func (m *MockExpenseRepository) TopCategoriesForMonth(year, month int, limit int) ([]*domain.CategorySpendingRow, error) {
	type agg struct {
		category *domain.Category
		total    decimal.Decimal
		count    int64
	}
	byCategory := make(map[int32]*agg)
	for _, e := range m.Expenses {
		if e.Date.Year() != year || int(e.Date.Month()) != month {
			continue
		}
		a, ok := byCategory[e.CategoryID]
		if !ok {
			a = &agg{category: e.Category, total: decimal.Zero}
			byCategory[e.CategoryID] = a
		}
		a.total = a.total.Add(e.Amount)
		a.count++
	}

	rows := make([]*domain.CategorySpendingRow, 0, len(byCategory))
	for _, a := range byCategory {
		rows = append(rows, &domain.CategorySpendingRow{
			Category:         a.category,
			TotalAmount:      a.total,
			TransactionCount: a.count,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].TotalAmount.GreaterThan(rows[j].TotalAmount)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// GetRecent retrieves the most recently dated expenses
func (m *MockExpenseRepository) GetRecent(limit int) ([]*domain.Expense, error) {
	expenses := make([]*domain.Expense, 0, len(m.Expenses))
	for _, e := range m.Expenses {
		expenses = append(expenses, e)
	}
	sort.Slice(expenses, func(i, j int) bool {
		if expenses[i].Date.Equal(expenses[j].Date) {
			if expenses[i].CreatedAt.Equal(expenses[j].CreatedAt) {
				return expenses[i].ID > expenses[j].ID
			}
			return expenses[i].CreatedAt.After(expenses[j].CreatedAt)
		}
		return expenses[i].Date.After(expenses[j].Date)
	})
	if len(expenses) > limit {
		expenses = expenses[:limit]
	}
	return expenses, nil
}

// AddExpense adds an expense to the mock repository (helper for tests)
func (m *MockExpenseRepository) AddExpense(expense *domain.Expense) {
	m.Expenses[expense.ID] = expense
	if expense.ID >= m.NextID {
		m.NextID = expense.ID + 1
	}
}

// MockIncomeRepository is a mock implementation of domain.IncomeRepository
type MockIncomeRepository struct {
	Incomes     map[int32]*domain.Income
	NextID      int32
	GetActiveFn func() ([]*domain.Income, error)
}

// NewMockIncomeRepository creates a new MockIncomeRepository
func NewMockIncomeRepository() *MockIncomeRepository {
	return &MockIncomeRepository{
		Incomes: make(map[int32]*domain.Income),
		NextID:  1,
	}
}

// Create creates a new income stream
func (m *MockIncomeRepository) Create(income *domain.Income) (*domain.Income, error) {
	income.ID = m.NextID
	m.NextID++
	now := time.Now().UTC()
	income.CreatedAt = now
	income.UpdatedAt = now
	m.Incomes[income.ID] = income
	return income, nil
}

// GetByID retrieves an income stream by ID
func (m *MockIncomeRepository) GetByID(id int32) (*domain.Income, error) {
	if income, ok := m.Incomes[id]; ok {
		return income, nil
	}
	return nil, domain.ErrIncomeNotFound
}

// List retrieves income streams with optional active filter and pagination
func (m *MockIncomeRepository) List(isActive *bool, limit, offset int32) (*domain.PaginatedIncomes, error) {
	matched := make([]*domain.Income, 0, len(m.Incomes))
	for _, income := range m.Incomes {
		if isActive != nil && income.IsActive != *isActive {
			continue
		}
		matched = append(matched, income)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID < matched[j].ID
	})

	total := int64(len(matched))
	start := int(offset)
	if start > len(matched) {
		start = len(matched)
	}
	end := start + int(limit)
	if end > len(matched) {
		end = len(matched)
	}

	return &domain.PaginatedIncomes{
		Items:      matched[start:end],
		TotalCount: total,
		HasMore:    int64(end) < total,
	}, nil
}

// Update updates an existing income stream
func (m *MockIncomeRepository) Update(id int32, data *domain.UpdateIncomeData) (*domain.Income, error) {
	income, ok := m.Incomes[id]
	if !ok {
		return nil, domain.ErrIncomeNotFound
	}
	if data.Name != nil {
		income.Name = *data.Name
	}
	if data.Amount != nil {
		income.Amount = *data.Amount
	}
	if data.IncomeType != nil {
		income.IncomeType = *data.IncomeType
	}
	if data.IsActive != nil {
		income.IsActive = *data.IsActive
	}
	if data.StartDate != nil {
		income.StartDate = data.StartDate
	}
	if data.Notes != nil {
		income.Notes = data.Notes
	}
	if data.Currency != nil {
		income.Currency = *data.Currency
	}
	if data.IsGross != nil {
		income.IsGross = *data.IsGross
	}
	if data.TaxRate != nil {
		income.TaxRate = data.TaxRate
	}
	if data.OtherFees != nil {
		income.OtherFees = data.OtherFees
	}
	income.UpdatedAt = time.Now().UTC()
	return income, nil
}

// Delete deletes an income stream by ID
func (m *MockIncomeRepository) Delete(id int32) error {
	if _, ok := m.Incomes[id]; !ok {
		return domain.ErrIncomeNotFound
	}
	delete(m.Incomes, id)
	return nil
}

// GetActive retrieves all active income streams
func (m *MockIncomeRepository) GetActive() ([]*domain.Income, error) {
	if m.GetActiveFn != nil {
		return m.GetActiveFn()
	}
	incomes := make([]*domain.Income, 0)
	for _, income := range m.Incomes {
		if income.IsActive {
			incomes = append(incomes, income)
		}
	}
	sort.Slice(incomes, func(i, j int) bool {
		return incomes[i].ID < incomes[j].ID
	})
	return incomes, nil
}

// AddIncome adds an income stream to the mock repository (helper for tests)
func (m *MockIncomeRepository) AddIncome(income *domain.Income) {
	m.Incomes[income.ID] = income
	if income.ID >= m.NextID {
		m.NextID = income.ID + 1
	}
}

// MockPortfolioRepository is a mock implementation of domain.PortfolioRepository
type MockPortfolioRepository struct {
	Portfolios map[int32]*domain.Portfolio
	NextID     int32
	DeleteFn   func(id int32) error
}

// NewMockPortfolioRepository creates a new MockPortfolioRepository
func NewMockPortfolioRepository() *MockPortfolioRepository {
	return &MockPortfolioRepository{
		Portfolios: make(map[int32]*domain.Portfolio),
		NextID:     1,
	}
}

// Create creates a new portfolio
func (m *MockPortfolioRepository) Create(portfolio *domain.Portfolio) (*domain.Portfolio, error) {
	portfolio.ID = m.NextID
	m.NextID++
	now := time.Now().UTC()
	portfolio.CreatedAt = now
	portfolio.UpdatedAt = now
	if portfolio.Assets == nil {
		portfolio.Assets = []*domain.Asset{}
	}
	m.Portfolios[portfolio.ID] = portfolio
	return portfolio, nil
}

// GetByID retrieves a portfolio by ID
func (m *MockPortfolioRepository) GetByID(id int32) (*domain.Portfolio, error) {
	if portfolio, ok := m.Portfolios[id]; ok {
		return portfolio, nil
	}
	return nil, domain.ErrPortfolioNotFound
}

// GetAll retrieves all portfolios
func (m *MockPortfolioRepository) GetAll() ([]*domain.Portfolio, error) {
	portfolios := make([]*domain.Portfolio, 0, len(m.Portfolios))
	for _, portfolio := range m.Portfolios {
		portfolios = append(portfolios, portfolio)
	}
	sort.Slice(portfolios, func(i, j int) bool {
		return portfolios[i].ID < portfolios[j].ID
	})
	return portfolios, nil
}

// Update updates an existing portfolio
func (m *MockPortfolioRepository) Update(id int32, name *string, description *string) (*domain.Portfolio, error) {
	portfolio, ok := m.Portfolios[id]
	if !ok {
		return nil, domain.ErrPortfolioNotFound
	}
	if name != nil {
		portfolio.Name = *name
	}
	if description != nil {
		portfolio.Description = description
	}
	portfolio.UpdatedAt = time.Now().UTC()
	return portfolio, nil
}

// Delete deletes a portfolio by ID
func (m *MockPortfolioRepository) Delete(id int32) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(id)
	}
	if _, ok := m.Portfolios[id]; !ok {
		return domain.ErrPortfolioNotFound
	}
	delete(m.Portfolios, id)
	return nil
}

// AddPortfolio adds a portfolio to the mock repository (helper for tests)
func (m *MockPortfolioRepository) AddPortfolio(portfolio *domain.Portfolio) {
	m.Portfolios[portfolio.ID] = portfolio
	if portfolio.ID >= m.NextID {
		m.NextID = portfolio.ID + 1
	}
}

// MockAssetRepository is a mock implementation of domain.AssetRepository
type MockAssetRepository struct {
	Assets   map[int32]*domain.Asset
	NextID   int32
	GetAllFn func() ([]*domain.Asset, error)
}

// NewMockAssetRepository creates a new MockAssetRepository
func NewMockAssetRepository() *MockAssetRepository {
	return &MockAssetRepository{
		Assets: make(map[int32]*domain.Asset),
		NextID: 1,
	}
}

// Create creates a new asset
func (m *MockAssetRepository) Create(asset *domain.Asset) (*domain.Asset, error) {
	asset.ID = m.NextID
	m.NextID++
	now := time.Now().UTC()
	asset.CreatedAt = now
	asset.UpdatedAt = now
	m.Assets[asset.ID] = asset
	return asset, nil
}

// GetByID retrieves an asset by ID
func (m *MockAssetRepository) GetByID(id int32) (*domain.Asset, error) {
	if asset, ok := m.Assets[id]; ok {
		return asset, nil
	}
	return nil, domain.ErrAssetNotFound
}

// GetByPortfolio retrieves all assets in a portfolio
func (m *MockAssetRepository) GetByPortfolio(portfolioID int32) ([]*domain.Asset, error) {
	assets := make([]*domain.Asset, 0)
	for _, asset := range m.Assets {
		if asset.PortfolioID == portfolioID {
			assets = append(assets, asset)
		}
	}
	sort.Slice(assets, func(i, j int) bool {
		return assets[i].ID < assets[j].ID
	})
	return assets, nil
}

// GetAll retrieves all assets across portfolios
func (m *MockAssetRepository) GetAll() ([]*domain.Asset, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn()
	}
	assets := make([]*domain.Asset, 0, len(m.Assets))
	for _, asset := range m.Assets {
		assets = append(assets, asset)
	}
	sort.Slice(assets, func(i, j int) bool {
		return assets[i].ID < assets[j].ID
	})
	return assets, nil
}

// Update updates an existing asset
func (m *MockAssetRepository) Update(id int32, data *domain.UpdateAssetData) (*domain.Asset, error) {
	asset, ok := m.Assets[id]
	if !ok {
		return nil, domain.ErrAssetNotFound
	}
	if data.Symbol != nil {
		asset.Symbol = *data.Symbol
	}
	if data.Name != nil {
		asset.Name = *data.Name
	}
	if data.AssetType != nil {
		asset.AssetType = *data.AssetType
	}
	if data.Quantity != nil {
		asset.Quantity = *data.Quantity
	}
	if data.PurchasePrice != nil {
		asset.PurchasePrice = *data.PurchasePrice
	}
	if data.PurchaseDate != nil {
		asset.PurchaseDate = *data.PurchaseDate
	}
	if data.CurrentPrice != nil {
		asset.CurrentPrice = data.CurrentPrice
	}
	if data.Currency != nil {
		asset.Currency = *data.Currency
	}
	if data.Notes != nil {
		asset.Notes = data.Notes
	}
	asset.UpdatedAt = time.Now().UTC()
	return asset, nil
}

// Delete deletes an asset by ID
func (m *MockAssetRepository) Delete(id int32) error {
	if _, ok := m.Assets[id]; !ok {
		return domain.ErrAssetNotFound
	}
	delete(m.Assets, id)
	return nil
}

// AddAsset adds an asset to the mock repository (helper for tests)
func (m *MockAssetRepository) AddAsset(asset *domain.Asset) {
	m.Assets[asset.ID] = asset
	if asset.ID >= m.NextID {
		m.NextID = asset.ID + 1
	}
}

// MockSettingsRepository is a mock implementation of domain.SettingsRepository
type MockSettingsRepository struct {
	Settings *domain.Settings
	GetFn    func() (*domain.Settings, error)
}

// NewMockSettingsRepository creates a new MockSettingsRepository
func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{}
}

// Get retrieves the settings singleton
func (m *MockSettingsRepository) Get() (*domain.Settings, error) {
	if m.GetFn != nil {
		return m.GetFn()
	}
	if m.Settings == nil {
		return nil, domain.ErrSettingsNotFound
	}
	return m.Settings, nil
}

// Create creates the settings singleton
func (m *MockSettingsRepository) Create(settings *domain.Settings) (*domain.Settings, error) {
	settings.ID = 1
	now := time.Now().UTC()
	settings.CreatedAt = now
	settings.UpdatedAt = now
	m.Settings = settings
	return settings, nil
}

// Update updates the settings singleton
func (m *MockSettingsRepository) Update(settings *domain.Settings) (*domain.Settings, error) {
	if m.Settings == nil {
		return nil, domain.ErrSettingsNotFound
	}
	settings.UpdatedAt = time.Now().UTC()
	m.Settings = settings
	return settings, nil
}

// MockRatesProvider is a mock implementation of rates.Provider
type MockRatesProvider struct {
	Table *domain.ExchangeRateTable
	Err   error
}

// NewMockRatesProvider creates a provider that always returns the table
func NewMockRatesProvider(table *domain.ExchangeRateTable) *MockRatesProvider {
	return &MockRatesProvider{Table: table}
}

// Latest returns the configured table or error
func (m *MockRatesProvider) Latest(ctx context.Context, base string) (*domain.ExchangeRateTable, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Table, nil
}

// MockEventPublisher records published events for assertions
type MockEventPublisher struct {
	Events []websocket.Event
	mu     sync.Mutex
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{
		Events: make([]websocket.Event, 0),
	}
}

// Publish records the event
func (m *MockEventPublisher) Publish(event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}
