// Package client provides the client registry.
// Clients are identified by a unique CPF stored as 11 digits.
package client

import (
	"context"
	"strings"
	"time"

	"pdv/internal/core/apperror"
	"pdv/internal/core/cpf"
	"pdv/internal/core/entity"
)

// Client is a registered customer.
type Client struct {
	entity.BaseEntity

	CPF       string    `db:"cpf" json:"cpf"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	BirthDate time.Time `db:"birth_date" json:"birthDate"`
}

// NewClient creates a client record.
func NewClient(cpfValue, name, phone string, birthDate time.Time) *Client {
	return &Client{
		BaseEntity: entity.NewBaseEntity(),
		CPF:        cpfValue,
		Name:       name,
		Phone:      phone,
		BirthDate:  birthDate,
	}
}

// Normalize strips CPF and phone punctuation and upper-cases the name.
func (c *Client) Normalize() {
	c.CPF = cpf.Digits(c.CPF)
	c.Phone = cpf.Digits(c.Phone)
	c.Name = strings.ToUpper(strings.TrimSpace(c.Name))
	if !c.BirthDate.IsZero() {
		y, m, d := c.BirthDate.Date()
		c.BirthDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
}

// Validate implements entity.Validatable interface.
func (c *Client) Validate(_ context.Context) error {
	if !cpf.Valid(c.CPF) {
		return apperror.NewInvalidCPF(c.CPF)
	}
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if n := len(cpf.Digits(c.Phone)); n < 10 || n > 11 {
		return apperror.NewValidation("phone must have 10 or 11 digits").WithDetail("field", "phone")
	}
	if c.BirthDate.IsZero() {
		return apperror.NewValidation("birth date is required").WithDetail("field", "birthDate")
	}
	if c.BirthDate.After(time.Now()) {
		return apperror.NewValidation("birth date cannot be in the future").WithDetail("field", "birthDate")
	}
	return nil
}

// MaskedCPF returns the CPF as 000.000.000-00.
func (c *Client) MaskedCPF() string {
	return cpf.Mask(c.CPF)
}
