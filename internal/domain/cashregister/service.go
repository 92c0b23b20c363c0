package cashregister

import (
	"context"
	"fmt"
	"time"

	"pdv/internal/core/apperror"
	appctx "pdv/internal/core/context"
	"pdv/internal/core/id"
	"pdv/internal/core/tx"
	"pdv/internal/core/types"
	"pdv/internal/domain"
	"pdv/internal/domain/audit"
	"pdv/internal/domain/sales"
	"pdv/pkg/logger"
)

// SaleLister lists stored sales; sales.Service satisfies it.
type SaleLister interface {
	List(ctx context.Context, filter sales.ListFilter) (domain.ListResult[*sales.Sale], error)
}

// Service opens, reconciles and closes drawer sessions.
// Open and Close require the shop passphrase.
type Service struct {
	repo      Repository
	sales     SaleLister
	txManager tx.Manager
	gate      domain.Gate
	audit     audit.Recorder
	now       func() time.Time
}

// ServiceConfig holds the dependencies of Service.
type ServiceConfig struct {
	Repo      Repository
	Sales     SaleLister
	TxManager tx.Manager
	Gate      domain.Gate
	Audit     audit.Recorder
	Now       func() time.Time
}

// NewService creates a new cash register service.
func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		repo:      cfg.Repo,
		sales:     cfg.Sales,
		txManager: cfg.TxManager,
		gate:      cfg.Gate,
		audit:     cfg.Audit,
		now:       cfg.Now,
	}
	if s.txManager == nil {
		s.txManager = tx.Noop{}
	}
	if s.audit == nil {
		s.audit = audit.Nop{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Open starts a drawer session with the given float.
func (s *Service) Open(ctx context.Context, passphrase string, initial types.Money) (*CashRegister, error) {
	if err := s.gate.Check(passphrase); err != nil {
		return nil, err
	}
	if initial.IsNegative() {
		return nil, apperror.NewValidation("initial amount cannot be negative").WithDetail("field", "initialAmount")
	}

	reg := newRegister(s.now(), initial, appctx.GetUserName(ctx))

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		open, err := s.repo.GetOpen(ctx)
		if err != nil && !apperror.IsNotFound(err) {
			return err
		}
		if open != nil {
			return alreadyOpen(open)
		}
		if err := s.repo.Create(ctx, reg); err != nil {
			return err
		}
		return s.audit.Record(ctx, "cash_register", reg.ID, audit.ActionOpen, reg)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "cash register opened",
		"id", reg.ID,
		"initial", reg.InitialAmount.StringFixed(2))
	return reg, nil
}

// Expected computes the live expected amount of an open session.
func (s *Service) Expected(ctx context.Context, reg *CashRegister) (types.Money, error) {
	filter := sales.ListFilter{DateFrom: &reg.OpeningDate}
	res, err := s.sales.List(ctx, filter)
	if err != nil {
		return types.Zero(), fmt.Errorf("list sales since opening: %w", err)
	}
	return ExpectedAmount(reg.InitialAmount, SalesSince(res.Items, reg.OpeningDate)), nil
}

// Current returns the open session with its expected amount refreshed.
func (s *Service) Current(ctx context.Context) (*CashRegister, error) {
	reg, err := s.repo.GetOpen(ctx)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, notOpen()
		}
		return nil, err
	}
	expected, err := s.Expected(ctx, reg)
	if err != nil {
		return nil, err
	}
	reg.ExpectedAmount = expected
	return reg, nil
}

// Close records the counted amount and closes the open session.
func (s *Service) Close(ctx context.Context, passphrase string, actual types.Money, notes string) (*CashRegister, error) {
	if err := s.gate.Check(passphrase); err != nil {
		return nil, err
	}
	if actual.IsNegative() {
		return nil, apperror.NewValidation("actual amount cannot be negative").WithDetail("field", "actualAmount")
	}

	var reg *CashRegister
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		reg, err = s.Current(ctx)
		if err != nil {
			return err
		}
		if err := reg.close(s.now(), reg.ExpectedAmount, actual, appctx.GetUserName(ctx), notes); err != nil {
			return err
		}
		if err := s.repo.Close(ctx, reg); err != nil {
			return err
		}
		return s.audit.Record(ctx, "cash_register", reg.ID, audit.ActionClose, reg)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "cash register closed",
		"id", reg.ID,
		"expected", reg.ExpectedAmount.StringFixed(2),
		"actual", reg.ActualAmount.StringFixed(2),
		"difference", reg.Difference.StringFixed(2))
	return reg, nil
}

// GetByID returns a session as stored.
func (s *Service) GetByID(ctx context.Context, registerID id.ID) (*CashRegister, error) {
	reg, err := s.repo.GetByID(ctx, registerID)
	if err != nil && apperror.IsNotFound(err) {
		return nil, apperror.NewNotFound("cash register", registerID.String())
	}
	return reg, err
}

// List returns the session history, newest first.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*CashRegister], error) {
	return s.repo.List(ctx, filter)
}

func alreadyOpen(open *CashRegister) error {
	return apperror.NewConflict(apperror.CodeCashRegisterAlreadyOpen, "a cash register is already open").
		WithDetail("id", open.ID.String()).
		WithDetail("openingDate", open.OpeningDate)
}

func notOpen() error {
	return apperror.NewConflict(apperror.CodeCashRegisterNotOpen, "no cash register is open")
}
