// Package transport defines request and response shapes for the category
// settings catalog.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateCategorySettingRequest is the request body for creating a catalog
// entry.
type CreateCategorySettingRequest struct {
	Category         string  `json:"category" validate:"required,min=1,max=200"`
	OfferTitle       string  `json:"offerTitle" validate:"required,min=1,max=200"`
	OfferDescription *string `json:"offerDescription,omitempty" validate:"omitempty,max=4000"`
	TaxRate          float64 `json:"taxRate" validate:"gte=0,lte=100"`
	UnitPrice        float64 `json:"unitPrice" validate:"gte=0"`
	IsActive         *bool   `json:"isActive,omitempty"`
	Scope            *string `json:"scope,omitempty" validate:"omitempty,oneof=innen aussen"`
}

// UpdateCategorySettingRequest is the request body for updating a catalog
// entry. Nil fields are left unchanged.
type UpdateCategorySettingRequest struct {
	Category         *string  `json:"category,omitempty" validate:"omitempty,min=1,max=200"`
	OfferTitle       *string  `json:"offerTitle,omitempty" validate:"omitempty,min=1,max=200"`
	OfferDescription *string  `json:"offerDescription,omitempty" validate:"omitempty,max=4000"`
	TaxRate          *float64 `json:"taxRate,omitempty" validate:"omitempty,gte=0,lte=100"`
	UnitPrice        *float64 `json:"unitPrice,omitempty" validate:"omitempty,gte=0"`
	IsActive         *bool    `json:"isActive,omitempty"`
	Scope            *string  `json:"scope,omitempty" validate:"omitempty,oneof=innen aussen"`
}

// CategorySettingResponse is the response body for a catalog entry.
type CategorySettingResponse struct {
	ID               uuid.UUID `json:"id"`
	Category         string    `json:"category"`
	OfferTitle       string    `json:"offerTitle"`
	OfferDescription *string   `json:"offerDescription,omitempty"`
	TaxRate          float64   `json:"taxRate"`
	UnitPrice        float64   `json:"unitPrice"`
	IsActive         bool      `json:"isActive"`
	Scope            *string   `json:"scope,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
