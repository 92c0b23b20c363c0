package document_repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pdv/internal/core/apperror"
	"pdv/internal/core/cpf"
	"pdv/internal/core/id"
	"pdv/internal/domain"
	"pdv/internal/domain/sales"
	"pdv/internal/infrastructure/storage/postgres"
)

const (
	salesTable     = "sales"
	saleItemsTable = "sale_items"
)

// SaleRepo implements sales.Repository.
type SaleRepo struct {
	*BaseDocumentRepo[*sales.Sale]
	itemCols []string
}

var _ sales.Repository = (*SaleRepo)(nil)

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txm *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			salesTable,
			postgres.ExtractDBColumns[sales.Sale](),
			func() *sales.Sale { return &sales.Sale{} },
			"sale_date DESC, code DESC",
		),
		itemCols: postgres.ExtractDBColumns[sales.SaleItem](),
	}
}

// Create implements sales.Repository.
func (r *SaleRepo) Create(ctx context.Context, sale *sales.Sale) error {
	if err := r.insert(ctx, sale); err != nil {
		if postgres.IsUniqueViolation(err, "sales_code_key") {
			return apperror.NewDuplicate("sale", "code", sale.Code).WithCause(err)
		}
		return err
	}
	return nil
}

// SaveItems implements sales.Repository. Existing items are replaced.
func (r *SaleRepo) SaveItems(ctx context.Context, saleID id.ID, items []sales.SaleItem) error {
	querier := r.querier(ctx)

	if _, err := querier.Exec(ctx, "DELETE FROM "+saleItemsTable+" WHERE sale_id = $1", saleID); err != nil {
		return fmt.Errorf("delete existing items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	q := r.Builder().Insert(saleItemsTable).Columns(r.itemCols...)
	for i := range items {
		items[i].SaleID = saleID
		row := postgres.StructToMap(items[i])
		values := make([]any, len(r.itemCols))
		for j, col := range r.itemCols {
			values[j] = row[col]
		}
		q = q.Values(values...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}
	return nil
}

// GetItems implements sales.Repository.
func (r *SaleRepo) GetItems(ctx context.Context, saleID id.ID) ([]sales.SaleItem, error) {
	return r.GetItemsBySaleIDs(ctx, []id.ID{saleID})
}

// GetItemsBySaleIDs implements sales.Repository.
func (r *SaleRepo) GetItemsBySaleIDs(ctx context.Context, saleIDs []id.ID) ([]sales.SaleItem, error) {
	if len(saleIDs) == 0 {
		return nil, nil
	}

	sql, args, err := r.Builder().
		Select(r.itemCols...).
		From(saleItemsTable).
		Where(squirrel.Eq{"sale_id": saleIDs}).
		OrderBy("sale_id", "line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []sales.SaleItem
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return items, nil
}

// List implements sales.Repository.
func (r *SaleRepo) List(ctx context.Context, filter sales.ListFilter) (domain.ListResult[*sales.Sale], error) {
	q := r.baseSelect()

	if filter.ClientID != nil {
		q = q.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}
	if filter.SellerID != nil {
		q = q.Where(squirrel.Eq{"seller_id": *filter.SellerID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"sale_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"sale_date": *filter.DateTo})
	}
	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		or := squirrel.Or{
			squirrel.ILike{"client_name": "%" + term + "%"},
			squirrel.Like{"code": "%" + term + "%"},
		}
		if digits := cpf.Digits(term); digits != "" {
			or = append(or, squirrel.Like{"client_cpf": "%" + digits + "%"})
		}
		q = q.Where(or)
	}

	return r.page(ctx, q, filter.ListFilter)
}

// MaxCodeForPeriod implements sales.Repository.
func (r *SaleRepo) MaxCodeForPeriod(ctx context.Context, period time.Time) (string, error) {
	sql, args, err := r.Builder().
		Select("COALESCE(MAX(code), '')").
		From(salesTable).
		Where(squirrel.Like{"code": period.Format("200601") + "%"}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build query: %w", err)
	}

	var code string
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&code); err != nil {
		return "", fmt.Errorf("max code: %w", err)
	}
	return code, nil
}
