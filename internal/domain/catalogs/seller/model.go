// Package seller provides the seller registry.
package seller

import (
	"context"
	"strings"

	"pdv/internal/core/apperror"
	"pdv/internal/core/cpf"
	"pdv/internal/core/entity"
)

// Seller is a salesperson that can be credited with a sale.
type Seller struct {
	entity.BaseEntity

	Name   string `db:"name" json:"name"`
	Phone  string `db:"phone" json:"phone"`
	Active bool   `db:"active" json:"active"`
}

// NewSeller creates an active seller.
func NewSeller(name, phone string) *Seller {
	return &Seller{
		BaseEntity: entity.NewBaseEntity(),
		Name:       name,
		Phone:      phone,
		Active:     true,
	}
}

// Normalize trims the name and strips phone punctuation.
func (s *Seller) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Phone = cpf.Digits(s.Phone)
}

// Validate implements entity.Validatable interface.
func (s *Seller) Validate(_ context.Context) error {
	if s.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if s.Phone != "" {
		if n := len(s.Phone); n < 10 || n > 11 {
			return apperror.NewValidation("phone must have 10 or 11 digits").WithDetail("field", "phone")
		}
	}
	return nil
}
