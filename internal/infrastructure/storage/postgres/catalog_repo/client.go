package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"pdv/internal/core/cpf"
	"pdv/internal/core/id"
	"pdv/internal/domain/catalogs/client"
	"pdv/internal/infrastructure/storage/postgres"
)

const clientsTable = "clients"

// ClientRepo implements client.Repository.
type ClientRepo struct {
	*BaseCatalogRepo[*client.Client]
}

var _ client.Repository = (*ClientRepo)(nil)

// NewClientRepo creates a new client repository.
func NewClientRepo(txm *postgres.TxManager) *ClientRepo {
	return &ClientRepo{
		BaseCatalogRepo: newBaseCatalogRepo(txm, baseConfig[*client.Client]{
			TableName:    clientsTable,
			SelectCols:   postgres.ExtractDBColumns[client.Client](),
			NewFn:        func() *client.Client { return &client.Client{} },
			SearchFn:     clientSearch,
			DefaultOrder: "name ASC",
		}),
	}
}

// clientSearch matches the name, or the CPF when the term has digits.
// CPFs are stored as digits only, so a masked term still matches.
func clientSearch(term string) squirrel.Sqlizer {
	or := squirrel.Or{squirrel.ILike{"name": "%" + term + "%"}}
	if digits := cpf.Digits(term); digits != "" {
		or = append(or, squirrel.Like{"cpf": "%" + digits + "%"})
	}
	return or
}

// ExistsByCPF implements client.Repository.
func (r *ClientRepo) ExistsByCPF(ctx context.Context, value string, excludeID id.ID) (bool, error) {
	return r.ExistsBy(ctx, "cpf", value, excludeID)
}

// FindByCPF implements client.Repository.
func (r *ClientRepo) FindByCPF(ctx context.Context, value string) (*client.Client, error) {
	return r.FindOne(ctx, r.baseSelect().Where(squirrel.Eq{"cpf": value}).Limit(1), value)
}
