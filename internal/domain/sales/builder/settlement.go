package builder

import (
	"pdv/internal/core/apperror"
	"pdv/internal/core/types"
	"pdv/internal/domain/payment"
)

// SettlementState is the last step: discount and payment split.
type SettlementState struct {
	items    ItemsState
	discount types.Money
	payments payment.Settlement
}

func (SettlementState) Step() Step { return StepSettlement }
func (SettlementState) sealed()    {}

// Subtotal is the sum of line totals.
func (s SettlementState) Subtotal() types.Money {
	return s.items.Subtotal()
}

// Discount returns the current discount.
func (s SettlementState) Discount() types.Money {
	return s.discount
}

// Total is subtotal minus discount, never below zero.
func (s SettlementState) Total() types.Money {
	return types.NonNegative(s.Subtotal().Sub(s.discount))
}

// Payments returns the current settlement.
func (s SettlementState) Payments() payment.Settlement {
	return s.payments
}

// WithDiscount sets the discount. Values outside [0, subtotal] are rejected.
func (s SettlementState) WithDiscount(d types.Money) (SettlementState, error) {
	d = types.Cents(d)
	if d.IsNegative() {
		return s, apperror.NewValidation("discount cannot be negative").WithDetail("field", "discount")
	}
	if d.GreaterThan(s.Subtotal()) {
		return s, apperror.NewBusinessRule(apperror.CodeDiscountExceedsSubtotal, "discount cannot exceed the subtotal").
			WithDetail("discount", d.StringFixed(2)).
			WithDetail("subtotal", s.Subtotal().StringFixed(2))
	}
	s.discount = d
	s.payments = s.payments.Rebalance(s.Total())
	return s, nil
}

// TogglePayment selects or deselects a payment method.
func (s SettlementState) TogglePayment(m payment.Method) (SettlementState, error) {
	p, err := s.payments.Toggle(m, s.Total())
	if err != nil {
		return s, err
	}
	s.payments = p
	return s, nil
}

// SetPaymentAmount edits one amount and rebalances the others.
func (s SettlementState) SetPaymentAmount(index int, amount types.Money) (SettlementState, error) {
	p, err := s.payments.SetAmount(index, amount, s.Total())
	if err != nil {
		return s, err
	}
	s.payments = p
	return s, nil
}

// SetCardTerms sets à vista or parcelado on a card entry.
func (s SettlementState) SetCardTerms(index int, t payment.CardType, installments int) (SettlementState, error) {
	p, err := s.payments.SetCardTerms(index, t, installments)
	if err != nil {
		return s, err
	}
	s.payments = p
	return s, nil
}

// WithPayments replaces the settlement with entries submitted as a whole.
func (s SettlementState) WithPayments(entries []payment.Entry) SettlementState {
	s.payments = payment.New(entries...)
	return s
}

// Back returns to the items step. Discount and payments are dropped because
// they depend on the lines.
func (s SettlementState) Back() ItemsState {
	return s.items
}

// Finalize validates the settlement and produces the draft to persist.
func (s SettlementState) Finalize() (Draft, error) {
	total := s.Total()

	// Amounts are stored in cents, so the check runs on what gets persisted.
	entries := s.payments.Entries()
	for i := range entries {
		entries[i].Amount = types.Cents(entries[i].Amount)
		if entries[i].Method != payment.CreditCard {
			entries[i].PaymentType = ""
			entries[i].Installments = 0
		}
	}
	if err := payment.Validate(entries, total); err != nil {
		return Draft{}, err
	}

	client, _ := s.items.party.Client()
	seller, _ := s.items.party.Seller()

	return Draft{
		Client:   client,
		Seller:   seller,
		Lines:    s.items.Lines(),
		Subtotal: types.Cents(s.Subtotal()),
		Discount: s.discount,
		Total:    types.Cents(total),
		Payments: entries,
	}, nil
}
