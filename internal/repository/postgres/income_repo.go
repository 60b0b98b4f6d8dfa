package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moneta-app/moneta-backend/internal/domain"
)

// IncomeRepository implements domain.IncomeRepository using PostgreSQL
type IncomeRepository struct {
	pool *pgxpool.Pool
}

// NewIncomeRepository creates a new IncomeRepository
func NewIncomeRepository(pool *pgxpool.Pool) *IncomeRepository {
	return &IncomeRepository{pool: pool}
}

var _ domain.IncomeRepository = (*IncomeRepository)(nil)

const incomeColumns = `
	id, name, amount, income_type, is_active, start_date, notes,
	currency, is_gross, tax_rate, other_fees, created_at, updated_at
`

func scanIncome(row pgx.Row) (*domain.Income, error) {
	income := &domain.Income{}
	err := row.Scan(
		&income.ID,
		&income.Name,
		&income.Amount,
		&income.IncomeType,
		&income.IsActive,
		&income.StartDate,
		&income.Notes,
		&income.Currency,
		&income.IsGross,
		&income.TaxRate,
		&income.OtherFees,
		&income.CreatedAt,
		&income.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return income, nil
}

// Create creates a new income stream
func (r *IncomeRepository) Create(income *domain.Income) (*domain.Income, error) {
	ctx := context.Background()

	query := `
		INSERT INTO incomes (name, amount, income_type, is_active, start_date,
			notes, currency, is_gross, tax_rate, other_fees)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + incomeColumns

	created, err := scanIncome(r.pool.QueryRow(ctx, query,
		income.Name,
		income.Amount,
		income.IncomeType,
		income.IsActive,
		income.StartDate,
		income.Notes,
		income.Currency,
		income.IsGross,
		income.TaxRate,
		income.OtherFees,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create income: %w", err)
	}
	return created, nil
}

// GetByID retrieves an income stream by ID
func (r *IncomeRepository) GetByID(id int32) (*domain.Income, error) {
	ctx := context.Background()

	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE id = $1`

	income, err := scanIncome(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrIncomeNotFound
		}
		return nil, fmt.Errorf("failed to get income %d: %w", id, err)
	}
	return income, nil
}

// List retrieves income streams with optional active filter and pagination
func (r *IncomeRepository) List(isActive *bool, limit, offset int32) (*domain.PaginatedIncomes, error) {
	ctx := context.Background()

	whereClause := ""
	countArgs := []interface{}{}
	if isActive != nil {
		whereClause = "WHERE is_active = $1"
		countArgs = append(countArgs, *isActive)
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM incomes %s`, whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count incomes: %w", err)
	}

	args := append(countArgs, limit, offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM incomes
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, incomeColumns, whereClause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query incomes: %w", err)
	}
	defer rows.Close()

	incomes := make([]*domain.Income, 0)
	for rows.Next() {
		income, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		incomes = append(incomes, income)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.PaginatedIncomes{
		Items:      incomes,
		TotalCount: total,
		HasMore:    int64(offset)+int64(len(incomes)) < total,
	}, nil
}

// Update updates an existing income stream, only touching provided fields
func (r *IncomeRepository) Update(id int32, data *domain.UpdateIncomeData) (*domain.Income, error) {
	ctx := context.Background()

	query := `
		UPDATE incomes
		SET name = COALESCE($2, name),
		    amount = COALESCE($3, amount),
		    income_type = COALESCE($4, income_type),
		    is_active = COALESCE($5, is_active),
		    start_date = COALESCE($6, start_date),
		    notes = COALESCE($7, notes),
		    currency = COALESCE($8, currency),
		    is_gross = COALESCE($9, is_gross),
		    tax_rate = COALESCE($10, tax_rate),
		    other_fees = COALESCE($11, other_fees),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + incomeColumns

	income, err := scanIncome(r.pool.QueryRow(ctx, query,
		id,
		data.Name,
		data.Amount,
		data.IncomeType,
		data.IsActive,
		data.StartDate,
		data.Notes,
		data.Currency,
		data.IsGross,
		data.TaxRate,
		data.OtherFees,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrIncomeNotFound
		}
		return nil, fmt.Errorf("failed to update income %d: %w", id, err)
	}
	return income, nil
}

// Delete deletes an income stream by ID
func (r *IncomeRepository) Delete(id int32) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM incomes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete income %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrIncomeNotFound
	}
	return nil
}

// GetActive retrieves all active income streams
func (r *IncomeRepository) GetActive() ([]*domain.Income, error) {
	ctx := context.Background()

	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE is_active ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active incomes: %w", err)
	}
	defer rows.Close()

	incomes := make([]*domain.Income, 0)
	for rows.Next() {
		income, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		incomes = append(incomes, income)
	}
	return incomes, rows.Err()
}
