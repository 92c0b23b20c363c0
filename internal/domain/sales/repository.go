package sales

import (
	"context"
	"time"

	"pdv/internal/core/id"
	"pdv/internal/domain"
)

// Repository defines operations for sales and their items.
type Repository interface {
	Create(ctx context.Context, sale *Sale) error
	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)
	// Delete removes the sale and its items.
	Delete(ctx context.Context, saleID id.ID) error

	SaveItems(ctx context.Context, saleID id.ID, items []SaleItem) error
	GetItems(ctx context.Context, saleID id.ID) ([]SaleItem, error)
	GetItemsBySaleIDs(ctx context.Context, saleIDs []id.ID) ([]SaleItem, error)

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error)

	// MaxCodeForPeriod returns the highest code with the YYYYMM prefix, or "".
	MaxCodeForPeriod(ctx context.Context, period time.Time) (string, error)
}

// ListFilter for filtering sales. Search matches client name, CPF or code.
type ListFilter struct {
	domain.ListFilter

	ClientID *id.ID
	SellerID *id.ID
	DateFrom *time.Time
	DateTo   *time.Time
}
