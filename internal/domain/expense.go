package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID             int32           `json:"id"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	Notes          *string         `json:"notes,omitempty"`
	Date           time.Time       `json:"date"`
	CategoryID     int32           `json:"categoryId"`
	Category       *Category       `json:"category,omitempty"`
	IsRecurring    bool            `json:"isRecurring"`
	RecurrenceRule *string         `json:"recurrenceRule,omitempty"`
	IsPaid         bool            `json:"isPaid"`
	PaidAt         *time.Time      `json:"paidAt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ExpenseSortBy selects the sort column for expense listings.
type ExpenseSortBy string

const (
	ExpenseSortByDate   ExpenseSortBy = "date"
	ExpenseSortByAmount ExpenseSortBy = "amount"
)

type ExpenseFilters struct {
	CategoryID  *int32
	StartDate   *time.Time
	EndDate     *time.Time
	MinAmount   *decimal.Decimal
	MaxAmount   *decimal.Decimal
	IsRecurring *bool
	IsPaid      *bool
	Search      *string
	SortBy      ExpenseSortBy
	SortDesc    bool
	Limit       int32
	Offset      int32
}

const (
	DefaultExpensePageSize = 20
	MaxExpensePageSize     = 100
)

type PaginatedExpenses struct {
	Items      []*Expense `json:"items"`
	TotalCount int64      `json:"totalCount"`
	HasMore    bool       `json:"hasMore"`
}

type UpdateExpenseData struct {
	Amount         *decimal.Decimal
	Description    *string
	Notes          *string
	Date           *time.Time
	CategoryID     *int32
	IsRecurring    *bool
	RecurrenceRule *string
}

// ExpenseSummary partitions one month's expenses into paid and unpaid.
type ExpenseSummary struct {
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	PaidAmount   decimal.Decimal `json:"paidAmount"`
	UnpaidAmount decimal.Decimal `json:"unpaidAmount"`
	TotalCount   int             `json:"totalCount"`
	PaidCount    int             `json:"paidCount"`
	UnpaidCount  int             `json:"unpaidCount"`
}

// CategorySpendingRow is an aggregation row as returned by the repository.
// The share percentage is derived in the service layer.
type CategorySpendingRow struct {
	Category         *Category
	TotalAmount      decimal.Decimal
	TransactionCount int64
}

type ExpenseRepository interface {
	Create(expense *Expense) (*Expense, error)
	GetByID(id int32) (*Expense, error)
	List(filters *ExpenseFilters) (*PaginatedExpenses, error)
	Update(id int32, data *UpdateExpenseData) (*Expense, error)
	Delete(id int32) error
	SetPaid(id int32, paid bool, paidAt *time.Time) (*Expense, error)
	GetForMonth(year, month int) ([]*Expense, error)
	SumForMonth(year, month int) (decimal.Decimal, error)
	TopCategoriesForMonth(year, month int, limit int) ([]*CategorySpendingRow, error)
	GetRecent(limit int) ([]*Expense, error)
}
