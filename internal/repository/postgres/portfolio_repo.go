package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moneta-app/moneta-backend/internal/domain"
)

// PortfolioRepository implements domain.PortfolioRepository using PostgreSQL
type PortfolioRepository struct {
	pool      *pgxpool.Pool
	assetRepo *AssetRepository
}

// NewPortfolioRepository creates a new PortfolioRepository
func NewPortfolioRepository(pool *pgxpool.Pool) *PortfolioRepository {
	return &PortfolioRepository{
		pool:      pool,
		assetRepo: NewAssetRepository(pool),
	}
}

var _ domain.PortfolioRepository = (*PortfolioRepository)(nil)

const portfolioColumns = `id, name, description, created_at, updated_at`

func scanPortfolio(row pgx.Row) (*domain.Portfolio, error) {
	portfolio := &domain.Portfolio{}
	err := row.Scan(
		&portfolio.ID,
		&portfolio.Name,
		&portfolio.Description,
		&portfolio.CreatedAt,
		&portfolio.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return portfolio, nil
}

// Create creates a new portfolio
func (r *PortfolioRepository) Create(portfolio *domain.Portfolio) (*domain.Portfolio, error) {
	ctx := context.Background()

	query := `
		INSERT INTO portfolios (name, description)
		VALUES ($1, $2)
		RETURNING ` + portfolioColumns

	created, err := scanPortfolio(r.pool.QueryRow(ctx, query, portfolio.Name, portfolio.Description))
	if err != nil {
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}
	created.Assets = []*domain.Asset{}
	return created, nil
}

// GetByID retrieves a portfolio by ID with its assets
func (r *PortfolioRepository) GetByID(id int32) (*domain.Portfolio, error) {
	ctx := context.Background()

	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE id = $1`

	portfolio, err := scanPortfolio(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPortfolioNotFound
		}
		return nil, fmt.Errorf("failed to get portfolio %d: %w", id, err)
	}

	assets, err := r.assetRepo.GetByPortfolio(id)
	if err != nil {
		return nil, err
	}
	portfolio.Assets = assets
	return portfolio, nil
}

// GetAll retrieves all portfolios with their assets
func (r *PortfolioRepository) GetAll() ([]*domain.Portfolio, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `SELECT `+portfolioColumns+` FROM portfolios ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios: %w", err)
	}
	defer rows.Close()

	portfolios := make([]*domain.Portfolio, 0)
	byID := make(map[int32]*domain.Portfolio)
	for rows.Next() {
		portfolio, err := scanPortfolio(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		portfolio.Assets = []*domain.Asset{}
		portfolios = append(portfolios, portfolio)
		byID[portfolio.ID] = portfolio
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	assets, err := r.assetRepo.GetAll()
	if err != nil {
		return nil, err
	}
	for _, asset := range assets {
		if portfolio, ok := byID[asset.PortfolioID]; ok {
			portfolio.Assets = append(portfolio.Assets, asset)
		}
	}

	return portfolios, nil
}

// Update updates an existing portfolio, only touching provided fields
func (r *PortfolioRepository) Update(id int32, name *string, description *string) (*domain.Portfolio, error) {
	ctx := context.Background()

	query := `
		UPDATE portfolios
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + portfolioColumns

	portfolio, err := scanPortfolio(r.pool.QueryRow(ctx, query, id, name, description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPortfolioNotFound
		}
		return nil, fmt.Errorf("failed to update portfolio %d: %w", id, err)
	}

	assets, err := r.assetRepo.GetByPortfolio(id)
	if err != nil {
		return nil, err
	}
	portfolio.Assets = assets
	return portfolio, nil
}

// Delete deletes a portfolio by ID. Assets cascade at the schema level.
func (r *PortfolioRepository) Delete(id int32) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM portfolios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPortfolioNotFound
	}
	return nil
}
