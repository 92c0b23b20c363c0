package payment

import (
	"fmt"

	"github.com/shopspring/decimal"

	"pdv/internal/core/apperror"
	"pdv/internal/core/types"
)

// Entry is one payment method allocation.
// PaymentType and Installments are only meaningful for CreditCard.
type Entry struct {
	Method       Method      `json:"method"`
	Amount       types.Money `json:"amount"`
	PaymentType  CardType    `json:"payment_type,omitempty"`
	Installments int         `json:"installments,omitempty"`
}

// InstallmentValue is the amount of each card installment.
func (e Entry) InstallmentValue() types.Money {
	if e.Installments <= 1 {
		return e.Amount
	}
	return types.Cents(e.Amount.Div(decimal.NewFromInt(int64(e.Installments))))
}

// Settlement is an ordered, immutable list of payment entries.
// Every operation returns a new Settlement.
type Settlement struct {
	entries []Entry
}

// New builds a settlement from entries as submitted (no balancing).
func New(entries ...Entry) Settlement {
	return Settlement{entries: append([]Entry(nil), entries...)}
}

// Entries returns a copy of the entries.
func (s Settlement) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Len returns the number of entries.
func (s Settlement) Len() int { return len(s.entries) }

// Index returns the position of method m, or -1.
func (s Settlement) Index(m Method) int {
	for i, e := range s.entries {
		if e.Method == m {
			return i
		}
	}
	return -1
}

// Has reports whether method m is selected.
func (s Settlement) Has(m Method) bool { return s.Index(m) >= 0 }

// Toggle removes m if selected, otherwise appends it. The first method
// selected receives the whole total and later ones start at zero. A new card
// entry starts as à vista in one installment.
func (s Settlement) Toggle(m Method, total types.Money) (Settlement, error) {
	if !m.Valid() {
		return s, apperror.NewValidation("unknown payment method").WithDetail("method", string(m))
	}

	if i := s.Index(m); i >= 0 {
		next := make([]Entry, 0, len(s.entries)-1)
		next = append(next, s.entries[:i]...)
		next = append(next, s.entries[i+1:]...)
		if len(next) == 1 {
			next[0].Amount = types.Cents(total)
		}
		return Settlement{entries: next}, nil
	}

	e := Entry{Method: m, Amount: types.Zero()}
	if len(s.entries) == 0 {
		e.Amount = types.Cents(total)
	}
	if m == CreditCard {
		e.PaymentType = AVista
		e.Installments = 1
	}
	next := append(s.Entries(), e)
	return Settlement{entries: next}, nil
}

// SetAmount edits the amount at index and rebalances the other entries:
// with one other entry it receives max(0, total - amount); with several the
// remainder is split evenly between them. A lone entry always holds the total.
func (s Settlement) SetAmount(index int, amount, total types.Money) (Settlement, error) {
	if err := s.checkIndex(index); err != nil {
		return s, err
	}
	if amount.IsNegative() {
		return s, apperror.NewValidation("payment amount cannot be negative").WithDetail("index", index)
	}

	next := s.Entries()
	if len(next) == 1 {
		next[0].Amount = types.Cents(total)
		return Settlement{entries: next}, nil
	}

	next[index].Amount = types.Cents(amount)
	others := len(next) - 1
	share := total.Sub(amount)
	if others > 1 {
		share = share.Div(decimal.NewFromInt(int64(others)))
	}
	share = types.Cents(types.NonNegative(share))
	for i := range next {
		if i != index {
			next[i].Amount = share
		}
	}
	return Settlement{entries: next}, nil
}

// Rebalance keeps a lone entry equal to total after the total changed.
// Split settlements are left as entered.
func (s Settlement) Rebalance(total types.Money) Settlement {
	if len(s.entries) != 1 {
		return s
	}
	next := s.Entries()
	next[0].Amount = types.Cents(total)
	return Settlement{entries: next}
}

// SetCardTerms sets the card mode of the entry at index. À vista always means
// one installment; parcelado without an explicit count starts at two.
func (s Settlement) SetCardTerms(index int, paymentType CardType, installments int) (Settlement, error) {
	if err := s.checkIndex(index); err != nil {
		return s, err
	}
	if s.entries[index].Method != CreditCard {
		return s, apperror.NewValidation("card terms apply only to credit card payments").WithDetail("index", index)
	}
	if !paymentType.Valid() {
		return s, apperror.NewValidation("unknown card payment type").WithDetail("paymentType", string(paymentType))
	}

	next := s.Entries()
	switch paymentType {
	case AVista:
		installments = 1
	case Parcelado:
		if installments == 0 {
			installments = MinParcelado
		}
		if installments < 1 || installments > MaxInstallments {
			return s, apperror.NewValidation(fmt.Sprintf("installments must be between 1 and %d", MaxInstallments)).
				WithDetail("index", index)
		}
	}
	next[index].PaymentType = paymentType
	next[index].Installments = installments
	return Settlement{entries: next}, nil
}

// Sum returns the total of all entries.
func (s Settlement) Sum() types.Money {
	sum := types.Zero()
	for _, e := range s.entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// CashAmount returns the part paid in cash (dinheiro).
func (s Settlement) CashAmount() types.Money {
	return CashAmount(s.entries)
}

// CashAmount sums the dinheiro entries of a stored payment list.
func CashAmount(entries []Entry) types.Money {
	sum := types.Zero()
	for _, e := range entries {
		if e.Method == Cash {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}

// Validate checks the settlement against the sale total.
func (s Settlement) Validate(total types.Money) error {
	return Validate(s.entries, total)
}

// Validate checks stored or submitted entries against the sale total.
func Validate(entries []Entry, total types.Money) error {
	if len(entries) == 0 {
		return apperror.NewValidation("at least one payment method is required").WithDetail("field", "paymentMethods")
	}

	seen := make(map[Method]bool, len(entries))
	sum := types.Zero()
	for i, e := range entries {
		if !e.Method.Valid() {
			return apperror.NewValidation("unknown payment method").
				WithDetail("index", i).
				WithDetail("method", string(e.Method))
		}
		if seen[e.Method] {
			return apperror.NewValidation("payment method selected twice").
				WithDetail("index", i).
				WithDetail("method", string(e.Method))
		}
		seen[e.Method] = true
		if e.Amount.IsNegative() {
			return apperror.NewValidation("payment amount cannot be negative").WithDetail("index", i)
		}
		if e.Method == CreditCard {
			if err := validateCardTerms(i, e); err != nil {
				return err
			}
		}
		sum = sum.Add(e.Amount)
	}

	if !types.WithinTolerance(sum, total) {
		return apperror.NewPaymentMismatch(types.Cents(sum).StringFixed(2), types.Cents(total).StringFixed(2))
	}
	return nil
}

func validateCardTerms(index int, e Entry) error {
	switch e.PaymentType {
	case AVista:
		if e.Installments != 1 {
			return cardTermsErr(index, "à vista card payment must have exactly 1 installment")
		}
	case Parcelado:
		if e.Installments < MinParcelado || e.Installments > MaxInstallments {
			return cardTermsErr(index, fmt.Sprintf("installment plan needs %d to %d installments", MinParcelado, MaxInstallments))
		}
	case "":
		return cardTermsErr(index, "select à vista or parcelado for the credit card payment")
	default:
		return cardTermsErr(index, "unknown card payment type")
	}
	return nil
}

func cardTermsErr(index int, msg string) error {
	return apperror.NewBusinessRule(apperror.CodeCardTermsRequired, msg).WithDetail("index", index)
}

func (s Settlement) checkIndex(index int) error {
	if index < 0 || index >= len(s.entries) {
		return apperror.NewValidation("payment index out of range").WithDetail("index", index)
	}
	return nil
}
