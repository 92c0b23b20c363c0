// Package cashregister tracks the cash drawer: one session is open at a time,
// its expected cash grows with cash payments, and closing records the counted
// amount and the difference.
package cashregister

import (
	"time"

	"pdv/internal/core/apperror"
	"pdv/internal/core/entity"
	"pdv/internal/core/types"
	"pdv/internal/domain/sales"
)

// Status of a drawer session.
type Status string

const (
	StatusOpen   Status = "aberto"
	StatusClosed Status = "fechado"
)

// CashRegister is one drawer session.
type CashRegister struct {
	entity.BaseEntity

	OpeningDate    time.Time   `db:"opening_date" json:"openingDate"`
	InitialAmount  types.Money `db:"initial_amount" json:"initialAmount"`
	ExpectedAmount types.Money `db:"expected_amount" json:"expectedAmount"`
	Status         Status      `db:"status" json:"status"`
	OpenedBy       string      `db:"opened_by" json:"openedBy"`

	ClosingDate  *time.Time   `db:"closing_date" json:"closingDate,omitempty"`
	ActualAmount *types.Money `db:"actual_amount" json:"actualAmount,omitempty"`
	// Difference is actual minus expected: positive is surplus, negative shortage
	Difference *types.Money `db:"difference" json:"difference,omitempty"`
	ClosedBy   string       `db:"closed_by" json:"closedBy,omitempty"`
	Notes      string       `db:"notes" json:"notes,omitempty"`
}

// newRegister opens a session with the float counted into the drawer.
func newRegister(openedAt time.Time, initial types.Money, openedBy string) *CashRegister {
	initial = types.Cents(initial)
	return &CashRegister{
		BaseEntity:     entity.NewBaseEntity(),
		OpeningDate:    openedAt,
		InitialAmount:  initial,
		ExpectedAmount: initial,
		Status:         StatusOpen,
		OpenedBy:       openedBy,
	}
}

// IsOpen reports whether the session still accepts sales.
func (r *CashRegister) IsOpen() bool {
	return r.Status == StatusOpen
}

// close records the count. A closed session cannot be closed again.
func (r *CashRegister) close(closedAt time.Time, expected, actual types.Money, closedBy, notes string) error {
	if !r.IsOpen() {
		return apperror.NewConflict(apperror.CodeCashRegisterNotOpen, "cash register is already closed").
			WithDetail("id", r.ID.String())
	}
	expected = types.Cents(expected)
	actual = types.Cents(actual)
	diff := actual.Sub(expected)

	r.ExpectedAmount = expected
	r.ClosingDate = &closedAt
	r.ActualAmount = &actual
	r.Difference = &diff
	r.ClosedBy = closedBy
	r.Notes = notes
	r.Status = StatusClosed
	r.Touch()
	return nil
}

// ExpectedAmount is the float plus every cash (dinheiro) payment of the given
// sales. Pix, card and exchange payments never reach the drawer.
func ExpectedAmount(initial types.Money, ss []*sales.Sale) types.Money {
	total := initial
	for _, s := range ss {
		total = total.Add(s.CashAmount())
	}
	return types.Cents(total)
}

// SalesSince keeps the sales dated at or after t.
func SalesSince(ss []*sales.Sale, t time.Time) []*sales.Sale {
	out := make([]*sales.Sale, 0, len(ss))
	for _, s := range ss {
		if !s.SaleDate.Before(t) {
			out = append(out, s)
		}
	}
	return out
}
