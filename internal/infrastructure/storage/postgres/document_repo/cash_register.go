package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"pdv/internal/core/apperror"
	"pdv/internal/domain"
	"pdv/internal/domain/cashregister"
	"pdv/internal/infrastructure/storage/postgres"
)

const (
	cashRegistersTable = "cash_registers"

	// oneOpenIndex is the partial unique index on status = 'aberto'.
	oneOpenIndex = "cash_registers_one_open"
)

// CashRegisterRepo implements cashregister.Repository.
type CashRegisterRepo struct {
	*BaseDocumentRepo[*cashregister.CashRegister]
}

var _ cashregister.Repository = (*CashRegisterRepo)(nil)

// NewCashRegisterRepo creates a new cash register repository.
func NewCashRegisterRepo(txm *postgres.TxManager) *CashRegisterRepo {
	return &CashRegisterRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			cashRegistersTable,
			postgres.ExtractDBColumns[cashregister.CashRegister](),
			func() *cashregister.CashRegister { return &cashregister.CashRegister{} },
			"opening_date DESC",
		),
	}
}

// Create implements cashregister.Repository.
func (r *CashRegisterRepo) Create(ctx context.Context, reg *cashregister.CashRegister) error {
	if err := r.insert(ctx, reg); err != nil {
		if postgres.IsUniqueViolation(err, oneOpenIndex) {
			return apperror.NewConflict(apperror.CodeCashRegisterAlreadyOpen, "a cash register is already open").WithCause(err)
		}
		return err
	}
	return nil
}

// GetOpen implements cashregister.Repository.
func (r *CashRegisterRepo) GetOpen(ctx context.Context) (*cashregister.CashRegister, error) {
	return r.findOne(ctx,
		r.baseSelect().Where(squirrel.Eq{"status": cashregister.StatusOpen}).Limit(1),
		string(cashregister.StatusOpen))
}

// Close implements cashregister.Repository.
func (r *CashRegisterRepo) Close(ctx context.Context, reg *cashregister.CashRegister) error {
	sql, args, err := r.Builder().
		Update(cashRegistersTable).
		Set("status", reg.Status).
		Set("expected_amount", reg.ExpectedAmount).
		Set("closing_date", reg.ClosingDate).
		Set("actual_amount", reg.ActualAmount).
		Set("difference", reg.Difference).
		Set("closed_by", reg.ClosedBy).
		Set("notes", reg.Notes).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": reg.ID}).
		Where(squirrel.Eq{"status": cashregister.StatusOpen}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build close: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("close cash register: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConflict(apperror.CodeCashRegisterNotOpen, "cash register is not open").
			WithDetail("id", reg.ID.String())
	}
	return nil
}

// List implements cashregister.Repository.
func (r *CashRegisterRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*cashregister.CashRegister], error) {
	return r.page(ctx, r.baseSelect(), filter)
}
