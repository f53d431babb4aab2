package service

import (
	"context"
	"strings"

	"ausmass_backend/internal/catalog/repository"
	"ausmass_backend/internal/catalog/transport"

	"github.com/google/uuid"
)

// Service provides catalog management operations.
type Service struct {
	repo *repository.Repository
}

// New creates a new catalog service.
func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new catalog entry. Entries are active by default.
func (s *Service) Create(ctx context.Context, req transport.CreateCategorySettingRequest) (*transport.CategorySettingResponse, error) {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	setting := &repository.CategorySetting{
		Category:         strings.TrimSpace(req.Category),
		OfferTitle:       strings.TrimSpace(req.OfferTitle),
		OfferDescription: req.OfferDescription,
		TaxRate:          req.TaxRate,
		UnitPrice:        req.UnitPrice,
		IsActive:         active,
		Scope:            req.Scope,
	}

	created, err := s.repo.Create(ctx, setting)
	if err != nil {
		return nil, err
	}
	return toResponse(created), nil
}

// GetByID returns one catalog entry.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.CategorySettingResponse, error) {
	setting, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(setting), nil
}

// List returns catalog entries matching the filter.
func (s *Service) List(ctx context.Context, filter repository.ListFilter) ([]transport.CategorySettingResponse, error) {
	settings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.CategorySettingResponse, 0, len(settings))
	for i := range settings {
		responses = append(responses, *toResponse(&settings[i]))
	}
	return responses, nil
}

// Update applies the non-nil fields of the request to a catalog entry.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateCategorySettingRequest) (*transport.CategorySettingResponse, error) {
	setting, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Category != nil {
		setting.Category = strings.TrimSpace(*req.Category)
	}
	if req.OfferTitle != nil {
		setting.OfferTitle = strings.TrimSpace(*req.OfferTitle)
	}
	if req.OfferDescription != nil {
		setting.OfferDescription = req.OfferDescription
	}
	if req.TaxRate != nil {
		setting.TaxRate = *req.TaxRate
	}
	if req.UnitPrice != nil {
		setting.UnitPrice = *req.UnitPrice
	}
	if req.IsActive != nil {
		setting.IsActive = *req.IsActive
	}
	if req.Scope != nil {
		setting.Scope = req.Scope
	}

	updated, err := s.repo.Update(ctx, setting)
	if err != nil {
		return nil, err
	}
	return toResponse(updated), nil
}

// Delete removes a catalog entry.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func toResponse(s *repository.CategorySetting) *transport.CategorySettingResponse {
	return &transport.CategorySettingResponse{
		ID:               s.ID,
		Category:         s.Category,
		OfferTitle:       s.OfferTitle,
		OfferDescription: s.OfferDescription,
		TaxRate:          s.TaxRate,
		UnitPrice:        s.UnitPrice,
		IsActive:         s.IsActive,
		Scope:            s.Scope,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}
