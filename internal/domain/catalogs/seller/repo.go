package seller

import (
	"pdv/internal/domain"
)

// Repository defines seller data access.
type Repository interface {
	domain.CatalogRepository[*Seller]
}
