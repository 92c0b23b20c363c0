// Package product provides the product catalog.
// Products carry a unique code, an upper-cased description and the current
// cost and sale price. Sales snapshot code and description at the time of sale.
package product

import (
	"context"
	"slices"
	"strings"

	"pdv/internal/core/apperror"
	"pdv/internal/core/entity"
	"pdv/internal/core/types"
)

// Sizes are the apparel sizes accepted on a sale line.
var Sizes = []string{"8", "10", "12", "14", "16", "PP", "P", "M", "G", "GG", "XG"}

// apparelKeyword marks descriptions that require a size on every sale line.
const apparelKeyword = "camiseta"

// Product is a sellable item.
type Product struct {
	entity.BaseEntity

	Code        string      `db:"code" json:"code"`
	Description string      `db:"description" json:"description"`
	Cost        types.Money `db:"cost" json:"cost"`
	SalePrice   types.Money `db:"sale_price" json:"salePrice"`
	Active      bool        `db:"active" json:"active"`
}

// NewProduct creates an active product.
func NewProduct(code, description string, cost, salePrice types.Money) *Product {
	return &Product{
		BaseEntity:  entity.NewBaseEntity(),
		Code:        code,
		Description: description,
		Cost:        cost,
		SalePrice:   salePrice,
		Active:      true,
	}
}

// Normalize trims the code and upper-cases the description.
func (p *Product) Normalize() {
	p.Code = strings.TrimSpace(p.Code)
	p.Description = strings.ToUpper(strings.TrimSpace(p.Description))
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(_ context.Context) error {
	if strings.TrimSpace(p.Code) == "" {
		return apperror.NewValidation("code is required").WithDetail("field", "code")
	}
	if strings.TrimSpace(p.Description) == "" {
		return apperror.NewValidation("description is required").WithDetail("field", "description")
	}
	if p.Cost.IsNegative() {
		return apperror.NewValidation("cost cannot be negative").WithDetail("field", "cost")
	}
	if p.SalePrice.IsNegative() {
		return apperror.NewValidation("sale price cannot be negative").WithDetail("field", "salePrice")
	}
	return nil
}

// RequiresSize reports whether sale lines of this product must carry a size.
func (p *Product) RequiresSize() bool {
	return RequiresSize(p.Description)
}

// RequiresSize reports whether a description names an apparel item.
func RequiresSize(description string) bool {
	return strings.Contains(strings.ToLower(description), apparelKeyword)
}

// ValidSize reports whether s is one of Sizes.
func ValidSize(s string) bool {
	return slices.Contains(Sizes, s)
}

// DescriptionWithSize returns the description stored on a sale line.
func DescriptionWithSize(description, size string) string {
	if size == "" {
		return description
	}
	return description + " - Tam: " + size
}
