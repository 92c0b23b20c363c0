package client

import (
	"context"

	"pdv/internal/core/id"
	"pdv/internal/domain"
)

// Repository defines client-specific data access.
// List treats ListFilter.Search as a case-insensitive match on name or CPF digits.
type Repository interface {
	domain.CatalogRepository[*Client]

	ExistsByCPF(ctx context.Context, cpf string, excludeID id.ID) (bool, error)
	FindByCPF(ctx context.Context, cpf string) (*Client, error)
}
