package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ausmass_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const settingNotFoundMsg = "Kategorie-Einstellung nicht gefunden"

// CategorySetting represents the catalog database model. The offer title,
// description, tax rate and unit price feed the quote positions of the
// Bexio export.
type CategorySetting struct {
	ID               uuid.UUID
	Category         string
	OfferTitle       string
	OfferDescription *string
	TaxRate          float64
	UnitPrice        float64
	IsActive         bool
	Scope            *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ListFilter narrows the catalog listing.
type ListFilter struct {
	Scope  *string
	Active *bool
}

// Repository provides database operations for category settings.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const settingColumns = `id, category, offer_title, offer_description, tax_rate, unit_price, is_active, scope, created_at, updated_at`

func scanSetting(row pgx.Row) (*CategorySetting, error) {
	var s CategorySetting
	err := row.Scan(&s.ID, &s.Category, &s.OfferTitle, &s.OfferDescription,
		&s.TaxRate, &s.UnitPrice, &s.IsActive, &s.Scope, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new catalog entry and returns the stored row.
func (r *Repository) Create(ctx context.Context, s *CategorySetting) (*CategorySetting, error) {
	query := `
		INSERT INTO category_settings (category, offer_title, offer_description, tax_rate, unit_price, is_active, scope)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + settingColumns

	created, err := scanSetting(r.pool.QueryRow(ctx, query,
		s.Category, s.OfferTitle, s.OfferDescription, s.TaxRate, s.UnitPrice, s.IsActive, s.Scope))
	if err != nil {
		return nil, fmt.Errorf("failed to create category setting: %w", err)
	}
	return created, nil
}

// GetByID retrieves one catalog entry.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*CategorySetting, error) {
	query := `SELECT ` + settingColumns + ` FROM category_settings WHERE id = $1`

	s, err := scanSetting(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(settingNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category setting: %w", err)
	}
	return s, nil
}

// List retrieves catalog entries ordered by category, optionally filtered
// by scope and active flag.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]CategorySetting, error) {
	query := `SELECT ` + settingColumns + ` FROM category_settings`
	var (
		conditions []string
		args       []any
	)
	if filter.Scope != nil {
		args = append(args, *filter.Scope)
		conditions = append(conditions, fmt.Sprintf("scope = $%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)))
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY category ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list category settings: %w", err)
	}
	defer rows.Close()

	var settings []CategorySetting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category setting: %w", err)
		}
		settings = append(settings, *s)
	}
	return settings, rows.Err()
}

// Update overwrites a catalog entry and returns the stored row.
func (r *Repository) Update(ctx context.Context, s *CategorySetting) (*CategorySetting, error) {
	query := `
		UPDATE category_settings
		SET category = $2, offer_title = $3, offer_description = $4, tax_rate = $5,
		    unit_price = $6, is_active = $7, scope = $8, updated_at = now()
		WHERE id = $1
		RETURNING ` + settingColumns

	updated, err := scanSetting(r.pool.QueryRow(ctx, query,
		s.ID, s.Category, s.OfferTitle, s.OfferDescription, s.TaxRate, s.UnitPrice, s.IsActive, s.Scope))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(settingNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update category setting: %w", err)
	}
	return updated, nil
}

// Delete removes a catalog entry.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM category_settings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category setting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(settingNotFoundMsg)
	}
	return nil
}
