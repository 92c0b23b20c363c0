package cashregister

import (
	"context"

	"pdv/internal/core/id"
	"pdv/internal/domain"
)

// Repository defines drawer session storage.
type Repository interface {
	// Create stores a new open session. A second open session is rejected
	// with CodeCashRegisterAlreadyOpen.
	Create(ctx context.Context, r *CashRegister) error

	// GetOpen returns the open session or a not found error.
	GetOpen(ctx context.Context) (*CashRegister, error)

	GetByID(ctx context.Context, registerID id.ID) (*CashRegister, error)

	// Close persists the closing fields. It only matches a session whose
	// stored status is still open and returns CodeCashRegisterNotOpen otherwise.
	Close(ctx context.Context, r *CashRegister) error

	// List returns sessions by opening date, newest first.
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*CashRegister], error)
}
