package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moneta-app/moneta-backend/internal/domain"
)

// AssetRepository implements domain.AssetRepository using PostgreSQL
type AssetRepository struct {
	pool *pgxpool.Pool
}

// NewAssetRepository creates a new AssetRepository
func NewAssetRepository(pool *pgxpool.Pool) *AssetRepository {
	return &AssetRepository{pool: pool}
}

var _ domain.AssetRepository = (*AssetRepository)(nil)

const assetColumns = `
	id, portfolio_id, symbol, name, asset_type, quantity, purchase_price,
	purchase_date, current_price, currency, notes, created_at, updated_at
`

func scanAsset(row pgx.Row) (*domain.Asset, error) {
	asset := &domain.Asset{}
	err := row.Scan(
		&asset.ID,
		&asset.PortfolioID,
		&asset.Symbol,
		&asset.Name,
		&asset.AssetType,
		&asset.Quantity,
		&asset.PurchasePrice,
		&asset.PurchaseDate,
		&asset.CurrentPrice,
		&asset.Currency,
		&asset.Notes,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return asset, nil
}

// Create creates a new asset
func (r *AssetRepository) Create(asset *domain.Asset) (*domain.Asset, error) {
	ctx := context.Background()

	query := `
		INSERT INTO assets (portfolio_id, symbol, name, asset_type, quantity,
			purchase_price, purchase_date, current_price, currency, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + assetColumns

	created, err := scanAsset(r.pool.QueryRow(ctx, query,
		asset.PortfolioID,
		asset.Symbol,
		asset.Name,
		asset.AssetType,
		asset.Quantity,
		asset.PurchasePrice,
		asset.PurchaseDate,
		asset.CurrentPrice,
		asset.Currency,
		asset.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}
	return created, nil
}

// GetByID retrieves an asset by ID
func (r *AssetRepository) GetByID(id int32) (*domain.Asset, error) {
	ctx := context.Background()

	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`

	asset, err := scanAsset(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to get asset %d: %w", id, err)
	}
	return asset, nil
}

// GetByPortfolio retrieves all assets in a portfolio
func (r *AssetRepository) GetByPortfolio(portfolioID int32) ([]*domain.Asset, error) {
	ctx := context.Background()

	query := `SELECT ` + assetColumns + ` FROM assets WHERE portfolio_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio assets: %w", err)
	}
	defer rows.Close()

	return collectAssets(rows)
}

// GetAll retrieves all assets across portfolios
func (r *AssetRepository) GetAll() ([]*domain.Asset, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `SELECT `+assetColumns+` FROM assets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	return collectAssets(rows)
}

func collectAssets(rows pgx.Rows) ([]*domain.Asset, error) {
	assets := make([]*domain.Asset, 0)
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

// Update updates an existing asset, only touching provided fields
func (r *AssetRepository) Update(id int32, data *domain.UpdateAssetData) (*domain.Asset, error) {
	ctx := context.Background()

	query := `
		UPDATE assets
		SET symbol = COALESCE($2, symbol),
		    name = COALESCE($3, name),
		    asset_type = COALESCE($4, asset_type),
		    quantity = COALESCE($5, quantity),
		    purchase_price = COALESCE($6, purchase_price),
		    purchase_date = COALESCE($7, purchase_date),
		    current_price = COALESCE($8, current_price),
		    currency = COALESCE($9, currency),
		    notes = COALESCE($10, notes),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + assetColumns

	asset, err := scanAsset(r.pool.QueryRow(ctx, query,
		id,
		data.Symbol,
		data.Name,
		data.AssetType,
		data.Quantity,
		data.PurchasePrice,
		data.PurchaseDate,
		data.CurrentPrice,
		data.Currency,
		data.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to update asset %d: %w", id, err)
	}
	return asset, nil
}

// Delete deletes an asset by ID
func (r *AssetRepository) Delete(id int32) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete asset %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAssetNotFound
	}
	return nil
}
