package builder

import (
	"pdv/internal/core/apperror"
	"pdv/internal/core/id"
	"pdv/internal/core/types"
	"pdv/internal/domain/catalogs/product"
)

// ItemsState is the second step: at least one line is required.
type ItemsState struct {
	party PartyState
	lines []Line
}

func (ItemsState) Step() Step { return StepItems }
func (ItemsState) sealed()    {}

// Lines returns a copy of the current lines.
func (s ItemsState) Lines() []Line {
	return append([]Line(nil), s.lines...)
}

// Subtotal is the sum of line totals.
func (s ItemsState) Subtotal() types.Money {
	return subtotal(s.lines)
}

// AddItem appends a new line. The same product added twice yields two lines.
func (s ItemsState) AddItem(in ItemInput) (ItemsState, error) {
	p := in.Product
	if id.IsNil(p.ID) {
		return s, apperror.NewValidation("select a product").WithDetail("field", "productId")
	}
	if !p.Active {
		return s, apperror.NewValidation("product is inactive").WithDetail("productId", p.ID.String())
	}
	if !in.Quantity.IsPositive() {
		return s, apperror.NewValidation("quantity must be greater than zero").WithDetail("field", "quantity")
	}
	if !types.IsIntegral(in.Quantity) {
		return s, apperror.NewValidation("quantity must be a whole number").WithDetail("field", "quantity")
	}
	if in.UnitPrice.IsNegative() {
		return s, apperror.NewValidation("unit price cannot be negative").WithDetail("field", "unitPrice")
	}

	size := ""
	if product.RequiresSize(p.Description) {
		if in.Size == "" {
			return s, apperror.NewBusinessRule(apperror.CodeSizeRequired, "select a size for this product").
				WithDetail("productId", p.ID.String())
		}
		if !product.ValidSize(in.Size) {
			return s, apperror.NewValidation("unknown size").
				WithDetail("size", in.Size).
				WithDetail("allowed", product.Sizes)
		}
		size = in.Size
	}

	price := types.Cents(in.UnitPrice)
	line := Line{
		ProductID:          p.ID,
		ProductCode:        p.Code,
		ProductDescription: product.DescriptionWithSize(p.Description, size),
		Size:               size,
		Quantity:           in.Quantity,
		UnitPrice:          price,
		Total:              types.Cents(in.Quantity.Mul(price)),
	}

	next := s
	next.lines = append(s.Lines(), line)
	return next, nil
}

// RemoveItem deletes the line at index.
func (s ItemsState) RemoveItem(index int) (ItemsState, error) {
	if index < 0 || index >= len(s.lines) {
		return s, apperror.NewValidation("item index out of range").WithDetail("index", index)
	}
	lines := make([]Line, 0, len(s.lines)-1)
	lines = append(lines, s.lines[:index]...)
	lines = append(lines, s.lines[index+1:]...)

	next := s
	next.lines = lines
	return next, nil
}

// Back returns to the party step keeping the selection.
func (s ItemsState) Back() PartyState {
	return s.party
}

// Next advances to the settlement step with no discount and no payments.
func (s ItemsState) Next() (SettlementState, error) {
	if len(s.lines) == 0 {
		return SettlementState{}, apperror.NewValidation("add at least one item").WithDetail("field", "items")
	}
	return SettlementState{items: s, discount: types.Zero()}, nil
}

func subtotal(lines []Line) types.Money {
	sum := types.Zero()
	for _, l := range lines {
		sum = sum.Add(l.Total)
	}
	return sum
}
