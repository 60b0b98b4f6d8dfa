package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moneta-app/moneta-backend/internal/domain"
)

// SettingsRepository implements domain.SettingsRepository using PostgreSQL
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

var _ domain.SettingsRepository = (*SettingsRepository)(nil)

const settingsColumns = `id, main_currency, language, created_at, updated_at`

func scanSettings(row pgx.Row) (*domain.Settings, error) {
	settings := &domain.Settings{}
	err := row.Scan(
		&settings.ID,
		&settings.MainCurrency,
		&settings.Language,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// Get retrieves the settings singleton
func (r *SettingsRepository) Get() (*domain.Settings, error) {
	ctx := context.Background()

	settings, err := scanSettings(r.pool.QueryRow(ctx,
		`SELECT `+settingsColumns+` FROM settings WHERE id = 1`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

// Create creates the settings singleton. A concurrent first access is
// resolved by the conflict clause so both callers see the same row.
func (r *SettingsRepository) Create(settings *domain.Settings) (*domain.Settings, error) {
	ctx := context.Background()

	query := `
		INSERT INTO settings (id, main_currency, language)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET id = settings.id
		RETURNING ` + settingsColumns

	created, err := scanSettings(r.pool.QueryRow(ctx, query, settings.MainCurrency, settings.Language))
	if err != nil {
		return nil, fmt.Errorf("failed to create settings: %w", err)
	}
	return created, nil
}

// Update updates the settings singleton
func (r *SettingsRepository) Update(settings *domain.Settings) (*domain.Settings, error) {
	ctx := context.Background()

	query := `
		UPDATE settings
		SET main_currency = $1, language = $2, updated_at = NOW()
		WHERE id = 1
		RETURNING ` + settingsColumns

	updated, err := scanSettings(r.pool.QueryRow(ctx, query, settings.MainCurrency, settings.Language))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return updated, nil
}
