package service

import (
	"context"
	"strings"

	"ausmass_backend/internal/customers/repository"
	"ausmass_backend/internal/customers/transport"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
)

// defaultPhoneRegion is used when a phone number carries no country prefix.
const defaultPhoneRegion = "CH"

// Service provides customer management operations.
type Service struct {
	repo *repository.Repository
}

// New creates a new customers service.
func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new customer.
func (s *Service) Create(ctx context.Context, req transport.CreateCustomerRequest) (*transport.CustomerResponse, error) {
	customer := &repository.Customer{
		Name:    strings.TrimSpace(req.Name),
		Company: strings.TrimSpace(req.Company),
		Email:   strings.TrimSpace(req.Email),
		Phone:   NormalizePhone(req.Phone),
		Address: strings.TrimSpace(req.Address),
		Notes:   req.Notes,
	}

	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		return nil, err
	}
	return toResponse(created), nil
}

// GetByID returns one customer.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.CustomerResponse, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(customer), nil
}

// List returns customers, optionally filtered by a search term.
func (s *Service) List(ctx context.Context, search string) ([]transport.CustomerResponse, error) {
	customers, err := s.repo.List(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}

	responses := make([]transport.CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, *toResponse(&customers[i]))
	}
	return responses, nil
}

// Update applies the non-nil fields of the request to a customer.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateCustomerRequest) (*transport.CustomerResponse, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		customer.Name = strings.TrimSpace(*req.Name)
	}
	if req.Company != nil {
		customer.Company = strings.TrimSpace(*req.Company)
	}
	if req.Email != nil {
		customer.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		customer.Phone = NormalizePhone(*req.Phone)
	}
	if req.Address != nil {
		customer.Address = strings.TrimSpace(*req.Address)
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}

	updated, err := s.repo.Update(ctx, customer)
	if err != nil {
		return nil, err
	}
	return toResponse(updated), nil
}

// Delete removes a customer.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// NormalizePhone formats a phone number as E.164 when it parses; input that
// does not parse is stored as typed.
func NormalizePhone(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	parsed, err := phonenumbers.Parse(trimmed, defaultPhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return trimmed
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}

func toResponse(c *repository.Customer) *transport.CustomerResponse {
	return &transport.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Company:   c.Company,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
