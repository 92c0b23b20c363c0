package product

import (
	"context"

	"pdv/internal/core/id"
	"pdv/internal/domain"
)

// Repository defines product-specific data access.
type Repository interface {
	domain.CatalogRepository[*Product]

	// ExistsByCode reports whether another product (id != excludeID) uses code.
	ExistsByCode(ctx context.Context, code string, excludeID id.ID) (bool, error)

	// GetByIDs loads products by id; missing ids are skipped.
	GetByIDs(ctx context.Context, ids []id.ID) ([]*Product, error)

	// CountActive returns the number of active products.
	CountActive(ctx context.Context) (int64, error)
}
