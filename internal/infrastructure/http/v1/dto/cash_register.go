package dto

import (
	"time"

	"pdv/internal/core/types"
	"pdv/internal/domain/cashregister"
)

// OpenCashRegisterRequest starts a drawer session.
type OpenCashRegisterRequest struct {
	InitialAmount types.Money `json:"initialAmount"`
}

// CloseCashRegisterRequest closes the open session with the counted cash.
type CloseCashRegisterRequest struct {
	ActualAmount types.Money `json:"actualAmount"`
	Notes        string      `json:"notes" binding:"omitempty,max=500"`
}

// CashRegisterResponse is a drawer session.
type CashRegisterResponse struct {
	ID             string       `json:"id"`
	Status         string       `json:"status"`
	OpeningDate    time.Time    `json:"openingDate"`
	InitialAmount  types.Money  `json:"initialAmount"`
	ExpectedAmount types.Money  `json:"expectedAmount"`
	OpenedBy       string       `json:"openedBy"`
	ClosingDate    *time.Time   `json:"closingDate,omitempty"`
	ActualAmount   *types.Money `json:"actualAmount,omitempty"`
	Difference     *types.Money `json:"difference,omitempty"`
	ClosedBy       string       `json:"closedBy,omitempty"`
	Notes          string       `json:"notes,omitempty"`
}

// FromCashRegister maps a drawer session.
func FromCashRegister(r *cashregister.CashRegister) CashRegisterResponse {
	return CashRegisterResponse{
		ID:             r.ID.String(),
		Status:         string(r.Status),
		OpeningDate:    r.OpeningDate,
		InitialAmount:  r.InitialAmount,
		ExpectedAmount: r.ExpectedAmount,
		OpenedBy:       r.OpenedBy,
		ClosingDate:    r.ClosingDate,
		ActualAmount:   r.ActualAmount,
		Difference:     r.Difference,
		ClosedBy:       r.ClosedBy,
		Notes:          r.Notes,
	}
}

// CurrentCashRegisterResponse tells whether a session is open.
type CurrentCashRegisterResponse struct {
	Open     bool                  `json:"open"`
	Register *CashRegisterResponse `json:"register,omitempty"`
}
