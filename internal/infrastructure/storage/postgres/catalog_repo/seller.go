package catalog_repo

import (
	"pdv/internal/domain/catalogs/seller"
	"pdv/internal/infrastructure/storage/postgres"
)

const sellersTable = "sellers"

// SellerRepo implements seller.Repository.
type SellerRepo struct {
	*BaseCatalogRepo[*seller.Seller]
}

var _ seller.Repository = (*SellerRepo)(nil)

// NewSellerRepo creates a new seller repository.
func NewSellerRepo(txm *postgres.TxManager) *SellerRepo {
	return &SellerRepo{
		BaseCatalogRepo: newBaseCatalogRepo(txm, baseConfig[*seller.Seller]{
			TableName:    sellersTable,
			SelectCols:   postgres.ExtractDBColumns[seller.Seller](),
			NewFn:        func() *seller.Seller { return &seller.Seller{} },
			SearchCols:   []string{"name"},
			ActiveCol:    "active",
			DefaultOrder: "name ASC",
		}),
	}
}
