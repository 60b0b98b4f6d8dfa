package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moneta-app/moneta-backend/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

var _ domain.CategoryRepository = (*CategoryRepository)(nil)

// Create creates a new category
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	ctx := context.Background()

	query := `
		INSERT INTO categories (name, color, icon)
		VALUES ($1, $2, $3)
		RETURNING id, name, color, icon, created_at
	`

	created := &domain.Category{}
	err := r.pool.QueryRow(ctx, query, category.Name, category.Color, category.Icon).Scan(
		&created.ID,
		&created.Name,
		&created.Color,
		&created.Icon,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return created, nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(id int32) (*domain.Category, error) {
	ctx := context.Background()

	query := `
		SELECT id, name, color, icon, created_at
		FROM categories
		WHERE id = $1
	`

	category := &domain.Category{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Color,
		&category.Icon,
		&category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category %d: %w", id, err)
	}
	return category, nil
}

// GetAll retrieves all categories sorted by name
func (r *CategoryRepository) GetAll() ([]*domain.Category, error) {
	ctx := context.Background()

	query := `
		SELECT id, name, color, icon, created_at
		FROM categories
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		category := &domain.Category{}
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Color,
			&category.Icon,
			&category.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// Update updates an existing category, only touching provided fields
func (r *CategoryRepository) Update(id int32, name, color, icon *string) (*domain.Category, error) {
	ctx := context.Background()

	query := `
		UPDATE categories
		SET name = COALESCE($2, name),
		    color = COALESCE($3, color),
		    icon = COALESCE($4, icon)
		WHERE id = $1
		RETURNING id, name, color, icon, created_at
	`

	category := &domain.Category{}
	err := r.pool.QueryRow(ctx, query, id, name, color, icon).Scan(
		&category.ID,
		&category.Name,
		&category.Color,
		&category.Icon,
		&category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update category %d: %w", id, err)
	}
	return category, nil
}

// Delete deletes a category by ID
func (r *CategoryRepository) Delete(id int32) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}
