package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moneta-app/moneta-backend/internal/domain"
	"github.com/moneta-app/moneta-backend/internal/util"
	"github.com/shopspring/decimal"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

var _ domain.ExpenseRepository = (*ExpenseRepository)(nil)

const expenseColumns = `
	e.id, e.amount, e.description, e.notes, e.date, e.category_id,
	e.is_recurring, e.recurrence_rule, e.is_paid, e.paid_at,
	e.created_at, e.updated_at,
	c.id, c.name, c.color, c.icon, c.created_at
`

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	expense := &domain.Expense{}
	category := &domain.Category{}
	err := row.Scan(
		&expense.ID,
		&expense.Amount,
		&expense.Description,
		&expense.Notes,
		&expense.Date,
		&expense.CategoryID,
		&expense.IsRecurring,
		&expense.RecurrenceRule,
		&expense.IsPaid,
		&expense.PaidAt,
		&expense.CreatedAt,
		&expense.UpdatedAt,
		&category.ID,
		&category.Name,
		&category.Color,
		&category.Icon,
		&category.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	expense.Category = category
	return expense, nil
}

// Create creates a new expense
func (r *ExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	ctx := context.Background()

	query := `
		WITH inserted AS (
			INSERT INTO expenses (amount, description, notes, date, category_id,
				is_recurring, recurrence_rule, is_paid, paid_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING *
		)
		SELECT ` + expenseColumns + `
		FROM inserted e
		JOIN categories c ON c.id = e.category_id
	`

	created, err := scanExpense(r.pool.QueryRow(ctx, query,
		expense.Amount,
		expense.Description,
		expense.Notes,
		expense.Date,
		expense.CategoryID,
		expense.IsRecurring,
		expense.RecurrenceRule,
		expense.IsPaid,
		expense.PaidAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	return created, nil
}

// GetByID retrieves an expense by ID with its category
func (r *ExpenseRepository) GetByID(id int32) (*domain.Expense, error) {
	ctx := context.Background()

	query := `
		SELECT ` + expenseColumns + `
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.id = $1
	`

	expense, err := scanExpense(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to get expense %d: %w", id, err)
	}
	return expense, nil
}

// List retrieves expenses matching the filters with pagination
func (r *ExpenseRepository) List(filters *domain.ExpenseFilters) (*domain.PaginatedExpenses, error) {
	ctx := context.Background()

	where := make([]string, 0, 8)
	args := make([]interface{}, 0, 10)

	addArg := func(clause string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filters.CategoryID != nil {
		addArg("e.category_id = $%d", *filters.CategoryID)
	}
	if filters.StartDate != nil {
		addArg("e.date >= $%d", *filters.StartDate)
	}
	if filters.EndDate != nil {
		addArg("e.date <= $%d", *filters.EndDate)
	}
	if filters.MinAmount != nil {
		addArg("e.amount >= $%d", *filters.MinAmount)
	}
	if filters.MaxAmount != nil {
		addArg("e.amount <= $%d", *filters.MaxAmount)
	}
	if filters.IsRecurring != nil {
		addArg("e.is_recurring = $%d", *filters.IsRecurring)
	}
	if filters.IsPaid != nil {
		addArg("e.is_paid = $%d", *filters.IsPaid)
	}
	if filters.Search != nil {
		addArg("e.description ILIKE $%d", "%"+*filters.Search+"%")
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM expenses e %s`, whereClause)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count expenses: %w", err)
	}

	sortColumn := "e.date"
	if filters.SortBy == domain.ExpenseSortByAmount {
		sortColumn = "e.amount"
	}
	direction := "ASC"
	if filters.SortDesc {
		direction = "DESC"
	}

	args = append(args, filters.Limit, filters.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		%s
		ORDER BY %s %s, e.id %s
		LIMIT $%d OFFSET $%d
	`, expenseColumns, whereClause, sortColumn, direction, direction, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.PaginatedExpenses{
		Items:      expenses,
		TotalCount: total,
		HasMore:    int64(filters.Offset)+int64(len(expenses)) < total,
	}, nil
}

// Update updates an existing expense, only touching provided fields
func (r *ExpenseRepository) Update(id int32, data *domain.UpdateExpenseData) (*domain.Expense, error) {
	ctx := context.Background()

	query := `
		WITH updated AS (
			UPDATE expenses
			SET amount = COALESCE($2, amount),
			    description = COALESCE($3, description),
			    notes = COALESCE($4, notes),
			    date = COALESCE($5, date),
			    category_id = COALESCE($6, category_id),
			    is_recurring = COALESCE($7, is_recurring),
			    recurrence_rule = COALESCE($8, recurrence_rule),
			    updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + expenseColumns + `
		FROM updated e
		JOIN categories c ON c.id = e.category_id
	`

	expense, err := scanExpense(r.pool.QueryRow(ctx, query,
		id,
		data.Amount,
		data.Description,
		data.Notes,
		data.Date,
		data.CategoryID,
		data.IsRecurring,
		data.RecurrenceRule,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to update expense %d: %w", id, err)
	}
	return expense, nil
}

// Delete deletes an expense by ID
func (r *ExpenseRepository) Delete(id int32) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// SetPaid sets the paid status and payment time of an expense
func (r *ExpenseRepository) SetPaid(id int32, paid bool, paidAt *time.Time) (*domain.Expense, error) {
	ctx := context.Background()

	query := `
		WITH updated AS (
			UPDATE expenses
			SET is_paid = $2, paid_at = $3, updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + expenseColumns + `
		FROM updated e
		JOIN categories c ON c.id = e.category_id
	`

	expense, err := scanExpense(r.pool.QueryRow(ctx, query, id, paid, paidAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to set paid on expense %d: %w", id, err)
	}
	return expense, nil
}

// GetForMonth retrieves all expenses dated within the given month
func (r *ExpenseRepository) GetForMonth(year, month int) ([]*domain.Expense, error) {
	ctx := context.Background()
	start, end := util.MonthRange(year, month)

	query := `
		SELECT ` + expenseColumns + `
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.date >= $1 AND e.date < $2
		ORDER BY e.date
	`

	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query month expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// SumForMonth sums expense amounts for the given month
func (r *ExpenseRepository) SumForMonth(year, month int) (decimal.Decimal, error) {
	ctx := context.Background()
	start, end := util.MonthRange(year, month)

	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE date >= $1 AND date < $2
	`, start, end).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum month expenses: %w", err)
	}
	return total, nil
}

// TopCategoriesForMonth aggregates the month's expenses by category,
// highest spend first
func (r *ExpenseRepository) TopCategoriesForMonth(year, month int, limit int) ([]*domain.CategorySpendingRow, error) {
	ctx := context.Background()
	start, end := util.MonthRange(year, month)

	query := `
		SELECT c.id, c.name, c.color, c.icon, c.created_at,
		       SUM(e.amount) AS total, COUNT(*) AS cnt
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.date >= $1 AND e.date < $2
		GROUP BY c.id, c.name, c.color, c.icon, c.created_at
		ORDER BY total DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top categories: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.CategorySpendingRow, 0)
	for rows.Next() {
		category := &domain.Category{}
		row := &domain.CategorySpendingRow{Category: category}
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Color,
			&category.Icon,
			&category.CreatedAt,
			&row.TotalAmount,
			&row.TransactionCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan category spending: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// GetRecent retrieves the most recently dated expenses
func (r *ExpenseRepository) GetRecent(limit int) ([]*domain.Expense, error) {
	ctx := context.Background()

	query := `
		SELECT ` + expenseColumns + `
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		ORDER BY e.date DESC, e.created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}
