package sales

import (
	"context"
	"fmt"
	"time"

	"pdv/internal/core/apperror"
	appctx "pdv/internal/core/context"
	"pdv/internal/core/id"
	"pdv/internal/core/numerator"
	"pdv/internal/core/tx"
	"pdv/internal/core/types"
	"pdv/internal/domain"
	"pdv/internal/domain/audit"
	"pdv/internal/domain/catalogs/client"
	"pdv/internal/domain/catalogs/product"
	"pdv/internal/domain/catalogs/seller"
	"pdv/internal/domain/payment"
	"pdv/internal/domain/sales/builder"
	"pdv/pkg/logger"
)

// ClientSource loads clients for the party step.
type ClientSource interface {
	GetByID(ctx context.Context, clientID id.ID) (*client.Client, error)
}

// SellerSource loads sellers for the party step.
type SellerSource interface {
	GetByID(ctx context.Context, sellerID id.ID) (*seller.Seller, error)
}

// ProductSource loads products for the items step.
type ProductSource interface {
	GetByID(ctx context.Context, productID id.ID) (*product.Product, error)
}

// Service provides business operations for sales.
type Service struct {
	repo      Repository
	txManager tx.Manager
	numerator numerator.Generator
	gate      domain.Gate
	audit     audit.Recorder
	clients   ClientSource
	sellers   SellerSource
	products  ProductSource
	hooks     *domain.HookRegistry[*Sale]
	now       func() time.Time
}

// ServiceConfig holds the dependencies of Service.
type ServiceConfig struct {
	Repo      Repository
	TxManager tx.Manager
	Numerator numerator.Generator
	Gate      domain.Gate
	Audit     audit.Recorder
	Clients   ClientSource
	Sellers   SellerSource
	Products  ProductSource
	// Now defaults to time.Now
	Now func() time.Time
}

// NewService creates a new sales service.
func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		repo:      cfg.Repo,
		txManager: cfg.TxManager,
		numerator: cfg.Numerator,
		gate:      cfg.Gate,
		audit:     cfg.Audit,
		clients:   cfg.Clients,
		sellers:   cfg.Sellers,
		products:  cfg.Products,
		hooks:     domain.NewHookRegistry[*Sale](),
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

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Sale] {
	return s.hooks
}

// CheckoutItem is one requested line. UnitPrice defaults to the product's
// current sale price.
type CheckoutItem struct {
	ProductID id.ID
	Size      string
	Quantity  types.Quantity
	UnitPrice *types.Money
}

// CheckoutInput is a whole sale submitted at once.
type CheckoutInput struct {
	ClientID id.ID
	SellerID id.ID
	Items    []CheckoutItem
	Discount types.Money
	Payments []payment.Entry
}

// Checkout runs the builder steps with data loaded from the registries and
// persists the resulting sale.
func (s *Service) Checkout(ctx context.Context, in CheckoutInput) (*Sale, error) {
	draft, err := s.Build(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, draft)
}

// Build runs the builder steps without persisting anything.
func (s *Service) Build(ctx context.Context, in CheckoutInput) (builder.Draft, error) {
	party := builder.NewSession()

	if id.IsNil(in.ClientID) {
		return builder.Draft{}, apperror.NewValidation("select a client").WithDetail("field", "clientId")
	}
	c, err := s.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return builder.Draft{}, err
	}
	party = party.WithClient(builder.ClientRef{ID: c.ID, Name: c.Name, CPF: c.CPF})

	if !id.IsNil(in.SellerID) {
		sl, err := s.sellers.GetByID(ctx, in.SellerID)
		if err != nil {
			return builder.Draft{}, err
		}
		party, err = party.WithSeller(builder.SellerRef{ID: sl.ID, Name: sl.Name, Active: sl.Active})
		if err != nil {
			return builder.Draft{}, err
		}
	}

	items, err := party.Next()
	if err != nil {
		return builder.Draft{}, err
	}

	for i, it := range in.Items {
		if id.IsNil(it.ProductID) {
			return builder.Draft{}, apperror.NewValidation("select a product").WithDetail("index", i)
		}
		p, err := s.products.GetByID(ctx, it.ProductID)
		if err != nil {
			return builder.Draft{}, err
		}
		price := p.SalePrice
		if it.UnitPrice != nil {
			price = *it.UnitPrice
		}
		items, err = items.AddItem(builder.ItemInput{
			Product: builder.ProductRef{
				ID:          p.ID,
				Code:        p.Code,
				Description: p.Description,
				SalePrice:   p.SalePrice,
				Active:      p.Active,
			},
			Size:      it.Size,
			Quantity:  it.Quantity,
			UnitPrice: price,
		})
		if err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				return builder.Draft{}, appErr.WithDetail("index", i)
			}
			return builder.Draft{}, err
		}
	}

	settlement, err := items.Next()
	if err != nil {
		return builder.Draft{}, err
	}
	settlement, err = settlement.WithDiscount(in.Discount)
	if err != nil {
		return builder.Draft{}, err
	}
	return settlement.WithPayments(in.Payments).Finalize()
}

// Create assigns the next code of the month and stores the sale with its
// items in one transaction.
func (s *Service) Create(ctx context.Context, draft builder.Draft) (*Sale, error) {
	now := s.now()

	var sale *Sale
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		code, err := s.numerator.GetNextNumber(ctx, numerator.SaleCode, now)
		if err != nil {
			return fmt.Errorf("generate sale code: %w", err)
		}

		sale = NewSale(draft, code, now, appctx.GetUserName(ctx))
		if err := s.hooks.Run(ctx, domain.BeforeCreate, sale); err != nil {
			return err
		}

		if err := s.repo.Create(ctx, sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		if err := s.repo.SaveItems(ctx, sale.ID, sale.Items); err != nil {
			return fmt.Errorf("save sale items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.hooks.Run(ctx, domain.AfterCreate, sale); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "sale created",
		"id", sale.ID,
		"code", sale.Code,
		"total", sale.Total.StringFixed(2))

	return sale, nil
}

// GetByID retrieves a sale with its items.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	sale, err := s.repo.GetByID(ctx, saleID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("sale", saleID.String())
		}
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	sale.Items = items

	return sale, nil
}

// List retrieves sales without items.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error) {
	return s.repo.List(ctx, filter)
}

// ListWithItems loads every sale matching filter together with its items.
func (s *Service) ListWithItems(ctx context.Context, filter ListFilter) ([]*Sale, []SaleItem, error) {
	filter.Limit = 0
	filter.Offset = 0
	res, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	if len(res.Items) == 0 {
		return res.Items, nil, nil
	}

	ids := make([]id.ID, len(res.Items))
	for i, sale := range res.Items {
		ids[i] = sale.ID
	}
	items, err := s.repo.GetItemsBySaleIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("get items: %w", err)
	}

	bySale := make(map[id.ID][]SaleItem, len(res.Items))
	for _, it := range items {
		bySale[it.SaleID] = append(bySale[it.SaleID], it)
	}
	for _, sale := range res.Items {
		sale.Items = bySale[sale.ID]
	}
	return res.Items, items, nil
}

// Delete checks the passphrase and removes the sale with its items. The
// deleted sale is kept in the audit log.
func (s *Service) Delete(ctx context.Context, passphrase string, saleID id.ID) error {
	if err := s.gate.Check(passphrase); err != nil {
		return err
	}

	sale, err := s.GetByID(ctx, saleID)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.hooks.Run(ctx, domain.BeforeDelete, sale); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, saleID); err != nil {
			return fmt.Errorf("delete sale: %w", err)
		}
		return s.audit.Record(ctx, "sale", saleID, audit.ActionDelete, sale)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "sale deleted", "id", saleID, "code", sale.Code)
	return nil
}

// SyncCodeCounter aligns the counter of period with the highest stored code,
// for databases filled before the counter existed.
func (s *Service) SyncCodeCounter(ctx context.Context, period time.Time) (int64, error) {
	maxCode, err := s.repo.MaxCodeForPeriod(ctx, period)
	if err != nil {
		return 0, err
	}
	if maxCode == "" {
		return 0, nil
	}
	_, seq, err := ParseSaleCode(maxCode)
	if err != nil {
		return 0, err
	}
	if err := s.numerator.SetNextNumber(ctx, numerator.SaleCode, period, seq); err != nil {
		return 0, err
	}
	return seq, nil
}
