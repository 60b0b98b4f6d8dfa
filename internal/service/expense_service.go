package service

import (
	"strings"
	"time"

	"github.com/moneta-app/moneta-backend/internal/domain"
	"github.com/moneta-app/moneta-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// ExpenseService handles expense-related business logic
type ExpenseService struct {
	expenseRepo    domain.ExpenseRepository
	categoryRepo   domain.CategoryRepository
	eventPublisher websocket.EventPublisher
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository, categoryRepo domain.CategoryRepository) *ExpenseService {
	return &ExpenseService{
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ExpenseService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ExpenseService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CreateExpenseInput holds the input for creating an expense
type CreateExpenseInput struct {
	Amount         decimal.Decimal
	Description    string
	Notes          *string
	Date           *time.Time
	CategoryID     int32
	IsRecurring    bool
	RecurrenceRule *string
	IsPaid         *bool
}

// CreateExpense creates a new expense with validation
func (s *ExpenseService) CreateExpense(input CreateExpenseInput) (*domain.Expense, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrNameRequired
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrNameTooLong
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	// Validate category exists
	if _, err := s.categoryRepo.GetByID(input.CategoryID); err != nil {
		return nil, domain.ErrCategoryNotFound
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if input.Date != nil {
		date = *input.Date
	}

	isPaid := true
	if input.IsPaid != nil {
		isPaid = *input.IsPaid
	}

	var paidAt *time.Time
	if isPaid {
		now := time.Now().UTC()
		paidAt = &now
	}

	expense, err := s.expenseRepo.Create(&domain.Expense{
		Amount:         input.Amount,
		Description:    description,
		Notes:          trimToNil(input.Notes),
		Date:           date,
		CategoryID:     input.CategoryID,
		IsRecurring:    input.IsRecurring,
		RecurrenceRule: input.RecurrenceRule,
		IsPaid:         isPaid,
		PaidAt:         paidAt,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.ExpenseCreated(expense))
	return expense, nil
}

// GetExpenses retrieves expenses with optional filters and pagination
func (s *ExpenseService) GetExpenses(filters *domain.ExpenseFilters) (*domain.PaginatedExpenses, error) {
	if filters == nil {
		filters = &domain.ExpenseFilters{}
	}
	if filters.Limit <= 0 {
		filters.Limit = domain.DefaultExpensePageSize
	}
	if filters.Limit > domain.MaxExpensePageSize {
		filters.Limit = domain.MaxExpensePageSize
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	if filters.SortBy == "" {
		filters.SortBy = domain.ExpenseSortByDate
		filters.SortDesc = true
	}

	return s.expenseRepo.List(filters)
}

// GetExpenseByID retrieves an expense by ID
func (s *ExpenseService) GetExpenseByID(id int32) (*domain.Expense, error) {
	return s.expenseRepo.GetByID(id)
}

// UpdateExpenseInput holds the input for updating an expense
type UpdateExpenseInput struct {
	Amount         *decimal.Decimal
	Description    *string
	Notes          *string
	Date           *time.Time
	CategoryID     *int32
	IsRecurring    *bool
	RecurrenceRule *string
}

// UpdateExpense updates an existing expense with validation
func (s *ExpenseService) UpdateExpense(id int32, input UpdateExpenseInput) (*domain.Expense, error) {
	var description *string
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed == "" {
			return nil, domain.ErrNameRequired
		}
		if len(trimmed) > domain.MaxDescriptionLength {
			return nil, domain.ErrNameTooLong
		}
		description = &trimmed
	}

	if input.Amount != nil && input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(*input.CategoryID); err != nil {
			return nil, domain.ErrCategoryNotFound
		}
	}

	expense, err := s.expenseRepo.Update(id, &domain.UpdateExpenseData{
		Amount:         input.Amount,
		Description:    description,
		Notes:          trimToNil(input.Notes),
		Date:           input.Date,
		CategoryID:     input.CategoryID,
		IsRecurring:    input.IsRecurring,
		RecurrenceRule: input.RecurrenceRule,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.ExpenseUpdated(expense))
	return expense, nil
}

// SetExpensePaid marks an expense as paid or unpaid. Marking paid stamps
// the payment time; marking unpaid clears it.
func (s *ExpenseService) SetExpensePaid(id int32, paid bool) (*domain.Expense, error) {
	var paidAt *time.Time
	if paid {
		now := time.Now().UTC()
		paidAt = &now
	}

	expense, err := s.expenseRepo.SetPaid(id, paid, paidAt)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.ExpenseUpdated(expense))
	return expense, nil
}

// DeleteExpense deletes an expense by ID
func (s *ExpenseService) DeleteExpense(id int32) error {
	if err := s.expenseRepo.Delete(id); err != nil {
		return err
	}

	s.publishEvent(websocket.ExpenseDeleted(map[string]int32{"id": id}))
	return nil
}

// GetMonthlySummary partitions one month's expenses into paid and unpaid
// totals and counts.
func (s *ExpenseService) GetMonthlySummary(year, month int) (*domain.ExpenseSummary, error) {
	expenses, err := s.expenseRepo.GetForMonth(year, month)
	if err != nil {
		return nil, err
	}

	summary := &domain.ExpenseSummary{
		TotalAmount:  decimal.Zero,
		PaidAmount:   decimal.Zero,
		UnpaidAmount: decimal.Zero,
	}
	for _, e := range expenses {
		summary.TotalAmount = summary.TotalAmount.Add(e.Amount)
		summary.TotalCount++
		if e.IsPaid {
			summary.PaidAmount = summary.PaidAmount.Add(e.Amount)
			summary.PaidCount++
		} else {
			summary.UnpaidAmount = summary.UnpaidAmount.Add(e.Amount)
			summary.UnpaidCount++
		}
	}

	return summary, nil
}

func trimToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
