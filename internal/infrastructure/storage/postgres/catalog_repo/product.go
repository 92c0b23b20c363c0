package catalog_repo

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"pdv/internal/core/id"
	"pdv/internal/domain/catalogs/product"
	"pdv/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

var _ product.Repository = (*ProductRepo)(nil)

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: newBaseCatalogRepo(txm, baseConfig[*product.Product]{
			TableName:    productsTable,
			SelectCols:   postgres.ExtractDBColumns[product.Product](),
			NewFn:        func() *product.Product { return &product.Product{} },
			SearchFn:     productSearch,
			ActiveCol:    "active",
			DefaultOrder: "description ASC",
		}),
	}
}

// productSearch matches code or description, and the sale price when the
// term is a number ("29,9" and "29.9" both match 29.90).
func productSearch(term string) squirrel.Sqlizer {
	pattern := "%" + term + "%"
	or := squirrel.Or{
		squirrel.ILike{"code": pattern},
		squirrel.ILike{"description": pattern},
	}
	if price, err := decimal.NewFromString(strings.ReplaceAll(term, ",", ".")); err == nil {
		or = append(or, squirrel.Expr("sale_price::text LIKE ?", price.String()+"%"))
	}
	return or
}

// ExistsByCode implements product.Repository.
func (r *ProductRepo) ExistsByCode(ctx context.Context, code string, excludeID id.ID) (bool, error) {
	return r.ExistsBy(ctx, "code", code, excludeID)
}

// CountActive implements product.Repository.
func (r *ProductRepo) CountActive(ctx context.Context) (int64, error) {
	return r.Count(ctx, squirrel.Eq{"active": true})
}
