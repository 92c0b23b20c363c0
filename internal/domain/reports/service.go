package reports

import (
	"context"
	"fmt"
	"time"

	"pdv/internal/core/id"
	"pdv/internal/domain/catalogs/product"
	"pdv/internal/domain/sales"
)

// DefaultTopProducts is the number of products listed by the summary.
const DefaultTopProducts = 5

// SalesSource loads sales with their items; sales.Service satisfies it.
type SalesSource interface {
	ListWithItems(ctx context.Context, filter sales.ListFilter) ([]*sales.Sale, []sales.SaleItem, error)
}

// ProductSource loads current product data; product.Service satisfies it.
type ProductSource interface {
	GetByIDs(ctx context.Context, ids []id.ID) ([]*product.Product, error)
	CountActive(ctx context.Context) (int64, error)
}

// Service fetches report data and runs the aggregations.
type Service struct {
	sales    SalesSource
	products ProductSource
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithNow sets the clock used for "today" and "this month". The returned time
// carries the business location; the default is time.Now.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new reports service.
func NewService(salesSrc SalesSource, products ProductSource, opts ...Option) *Service {
	s := &Service{sales: salesSrc, products: products, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// load fetches the sales of the filter. The range and search are applied
// again in memory so the result never depends on how the storage widened them.
func (s *Service) load(ctx context.Context, f Filter) ([]*sales.Sale, []sales.SaleItem, error) {
	from, to := f.Range.From, f.Range.To
	ss, items, err := s.sales.ListWithItems(ctx, sales.ListFilter{
		ClientID: f.ClientID,
		SellerID: f.SellerID,
		DateFrom: &from,
		DateTo:   &to,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("load sales: %w", err)
	}

	ss = f.Range.FilterSales(ss)
	if f.Search != "" {
		kept := ss[:0:0]
		for _, sale := range ss {
			if MatchSearch(sale, f.Search) {
				kept = append(kept, sale)
			}
		}
		ss = kept
	}
	return ss, items, nil
}

func (s *Service) productsFor(ctx context.Context, items []sales.SaleItem) ([]*product.Product, error) {
	seen := make(map[id.ID]struct{})
	var ids []id.ID
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	ps, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return ps, nil
}

// Clients returns the by-client report.
func (s *Service) Clients(ctx context.Context, f Filter) ([]ClientStat, error) {
	ss, items, err := s.load(ctx, f)
	if err != nil {
		return nil, err
	}
	return ByClient(ss, items), nil
}

// Products returns the by-product report, narrowed by f.ProductSearch.
func (s *Service) Products(ctx context.Context, f Filter) ([]ProductStat, error) {
	ss, items, err := s.load(ctx, f)
	if err != nil {
		return nil, err
	}
	ps, err := s.productsFor(ctx, items)
	if err != nil {
		return nil, err
	}
	return FilterProducts(ByProduct(ss, items, ps), f.ProductSearch), nil
}

// Sellers returns the by-seller report.
func (s *Service) Sellers(ctx context.Context, f Filter) (SellerReport, error) {
	ss, items, err := s.load(ctx, f)
	if err != nil {
		return SellerReport{}, err
	}
	return BySeller(ss, items), nil
}

// Payments returns the by-payment-method report.
func (s *Service) Payments(ctx context.Context, f Filter) (PaymentReport, error) {
	ss, _, err := s.load(ctx, f)
	if err != nil {
		return PaymentReport{}, err
	}
	return ByPaymentMethod(ss), nil
}

// Summary returns the summary with the top products.
func (s *Service) Summary(ctx context.Context, f Filter) (SummaryReport, error) {
	ss, items, err := s.load(ctx, f)
	if err != nil {
		return SummaryReport{}, err
	}
	ps, err := s.productsFor(ctx, items)
	if err != nil {
		return SummaryReport{}, err
	}
	return Summary(ss, items, ps, DefaultTopProducts), nil
}

// Period returns the chronological listing.
func (s *Service) Period(ctx context.Context, f Filter) (PeriodReport, error) {
	ss, items, err := s.load(ctx, f)
	if err != nil {
		return PeriodReport{}, err
	}
	return Period(ss, items), nil
}

// Dashboard returns the home screen figures over all sales.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	ss, items, err := s.sales.ListWithItems(ctx, sales.ListFilter{})
	if err != nil {
		return Dashboard{}, fmt.Errorf("load sales: %w", err)
	}
	active, err := s.products.CountActive(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("count products: %w", err)
	}
	return BuildDashboard(s.now(), active, ss, items), nil
}
