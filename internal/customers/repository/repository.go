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

const customerNotFoundMsg = "Kunde nicht gefunden"

// Customer represents the customer database model.
type Customer struct {
	ID        uuid.UUID
	Name      string
	Company   string
	Email     string
	Phone     string
	Address   string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides database operations for customers.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new customers repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const customerColumns = `id, name, company, email, phone, address, notes, created_at, updated_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Company, &c.Email, &c.Phone, &c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new customer and returns the stored row.
func (r *Repository) Create(ctx context.Context, c *Customer) (*Customer, error) {
	query := `
		INSERT INTO customers (name, company, email, phone, address, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + customerColumns

	created, err := scanCustomer(r.pool.QueryRow(ctx, query,
		c.Name, c.Company, c.Email, c.Phone, c.Address, c.Notes))
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return created, nil
}

// GetByID retrieves a customer by its id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	c, err := scanCustomer(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(customerNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

// List retrieves customers ordered by name; search filters over name,
// company and email.
func (r *Repository) List(ctx context.Context, search string) ([]Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`
	var args []any
	if search != "" {
		query += ` WHERE name ILIKE $1 OR company ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

// Update overwrites a customer's fields and returns the stored row.
func (r *Repository) Update(ctx context.Context, c *Customer) (*Customer, error) {
	query := `
		UPDATE customers
		SET name = $2, company = $3, email = $4, phone = $5, address = $6, notes = $7, updated_at = now()
		WHERE id = $1
		RETURNING ` + customerColumns

	updated, err := scanCustomer(r.pool.QueryRow(ctx, query,
		c.ID, c.Name, c.Company, c.Email, c.Phone, c.Address, c.Notes))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(customerNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return updated, nil
}

// Delete removes a customer.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(customerNotFoundMsg)
	}
	return nil
}
