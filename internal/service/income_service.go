package service

import (
	"strings"
	"time"

	"github.com/moneta-app/moneta-backend/internal/domain"
	"github.com/moneta-app/moneta-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// IncomeService handles income stream business logic
type IncomeService struct {
	incomeRepo     domain.IncomeRepository
	currency       *CurrencyService
	eventPublisher websocket.EventPublisher
}

// NewIncomeService creates a new IncomeService
func NewIncomeService(incomeRepo domain.IncomeRepository, currency *CurrencyService) *IncomeService {
	return &IncomeService{
		incomeRepo: incomeRepo,
		currency:   currency,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *IncomeService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *IncomeService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CreateIncomeInput holds the input for creating an income stream
type CreateIncomeInput struct {
	Name       string
	Amount     decimal.Decimal
	IncomeType domain.IncomeType
	IsActive   *bool
	StartDate  *time.Time
	Notes      *string
	Currency   string
	IsGross    bool
	TaxRate    *decimal.Decimal
	OtherFees  *decimal.Decimal
}

// CreateIncome creates a new income stream with validation
func (s *IncomeService) CreateIncome(input CreateIncomeInput) (*domain.Income, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	incomeType := input.IncomeType
	if incomeType == "" {
		incomeType = domain.IncomeTypeOther
	}
	if !domain.ValidIncomeType(incomeType) {
		return nil, domain.ErrInvalidInput
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = domain.DefaultMainCurrency
	}
	if len(currency) != 3 {
		return nil, domain.ErrInvalidCurrency
	}

	if err := validateDeductions(input.IsGross, input.TaxRate, input.OtherFees); err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	income, err := s.incomeRepo.Create(&domain.Income{
		Name:       name,
		Amount:     input.Amount,
		IncomeType: incomeType,
		IsActive:   isActive,
		StartDate:  input.StartDate,
		Notes:      trimToNil(input.Notes),
		Currency:   currency,
		IsGross:    input.IsGross,
		TaxRate:    input.TaxRate,
		OtherFees:  input.OtherFees,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.IncomeCreated(income))
	return income, nil
}

// GetIncomes retrieves income streams with optional active filter
func (s *IncomeService) GetIncomes(isActive *bool, limit, offset int32) (*domain.PaginatedIncomes, error) {
	if limit <= 0 {
		limit = domain.DefaultExpensePageSize
	}
	if limit > domain.MaxExpensePageSize {
		limit = domain.MaxExpensePageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.incomeRepo.List(isActive, limit, offset)
}

// GetIncomeByID retrieves an income stream by ID
func (s *IncomeService) GetIncomeByID(id int32) (*domain.Income, error) {
	return s.incomeRepo.GetByID(id)
}

// UpdateIncome updates an existing income stream with validation
func (s *IncomeService) UpdateIncome(id int32, data *domain.UpdateIncomeData) (*domain.Income, error) {
	if data.Name != nil {
		trimmed := strings.TrimSpace(*data.Name)
		if trimmed == "" {
			return nil, domain.ErrNameRequired
		}
		if len(trimmed) > domain.MaxNameLength {
			return nil, domain.ErrNameTooLong
		}
		data.Name = &trimmed
	}

	if data.Amount != nil && data.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if data.IncomeType != nil && !domain.ValidIncomeType(*data.IncomeType) {
		return nil, domain.ErrInvalidInput
	}

	if data.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*data.Currency))
		if len(currency) != 3 {
			return nil, domain.ErrInvalidCurrency
		}
		data.Currency = &currency
	}

	if data.TaxRate != nil && (data.TaxRate.IsNegative() || data.TaxRate.GreaterThan(oneHundredPct)) {
		return nil, domain.ErrInvalidInput
	}
	if data.OtherFees != nil && data.OtherFees.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	income, err := s.incomeRepo.Update(id, data)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.IncomeUpdated(income))
	return income, nil
}

// DeleteIncome deletes an income stream by ID
func (s *IncomeService) DeleteIncome(id int32) error {
	if err := s.incomeRepo.Delete(id); err != nil {
		return err
	}

	s.publishEvent(websocket.IncomeDeleted(map[string]int32{"id": id}))
	return nil
}

// MonthlyIncomeTotal is the sum of active income streams expressed in
// the main currency, with the number of streams that contributed.
type MonthlyIncomeTotal struct {
	Total        decimal.Decimal
	StreamsCount int
}

// TotalMonthlyIncome sums the net amount of all active income streams,
// converting each into mainCurrency via the given rate table. A stream
// whose currency has no rate fails the whole computation rather than
// being silently skipped.
func (s *IncomeService) TotalMonthlyIncome(table *domain.ExchangeRateTable, mainCurrency string) (*MonthlyIncomeTotal, error) {
	incomes, err := s.incomeRepo.GetActive()
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, income := range incomes {
		converted, err := s.currency.Convert(income.NetAmount(), income.Currency, mainCurrency, table)
		if err != nil {
			return nil, err
		}
		total = total.Add(converted)
	}

	return &MonthlyIncomeTotal{
		Total:        total,
		StreamsCount: len(incomes),
	}, nil
}

var oneHundredPct = decimal.NewFromInt(100)

func validateDeductions(isGross bool, taxRate, otherFees *decimal.Decimal) error {
	if !isGross {
		return nil
	}
	if taxRate != nil && (taxRate.IsNegative() || taxRate.GreaterThan(oneHundredPct)) {
		return domain.ErrInvalidInput
	}
	if otherFees != nil && otherFees.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}
