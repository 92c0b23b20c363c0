package sales

import (
	"context"
	"errors"
	"maps"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdv/internal/core/apperror"
	appctx "pdv/internal/core/context"
	"pdv/internal/core/id"
	"pdv/internal/core/numerator"
	"pdv/internal/core/security"
	"pdv/internal/core/types"
	"pdv/internal/domain"
	"pdv/internal/domain/audit"
	"pdv/internal/domain/catalogs/client"
	"pdv/internal/domain/catalogs/product"
	"pdv/internal/domain/catalogs/seller"
	"pdv/internal/domain/payment"
	"pdv/internal/domain/sales/builder"
)

func m(s string) types.Money { return types.MustMoney(s) }

func ptr[T any](v T) *T { return &v }

// memRepo keeps sales in maps; memTx restores them when fn fails.
type memRepo struct {
	sales     map[id.ID]*Sale
	items     map[id.ID][]SaleItem
	failItems bool
}

func newMemRepo() *memRepo {
	return &memRepo{sales: map[id.ID]*Sale{}, items: map[id.ID][]SaleItem{}}
}

func (r *memRepo) Create(_ context.Context, s *Sale) error {
	cp := *s
	cp.Items = nil
	r.sales[s.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, saleID id.ID) (*Sale, error) {
	s, ok := r.sales[saleID]
	if !ok {
		return nil, apperror.NewNotFound("sale", saleID)
	}
	cp := *s
	return &cp, nil
}

func (r *memRepo) Delete(_ context.Context, saleID id.ID) error {
	delete(r.items, saleID)
	delete(r.sales, saleID)
	return nil
}

func (r *memRepo) SaveItems(_ context.Context, saleID id.ID, items []SaleItem) error {
	if r.failItems {
		return errors.New("connection reset")
	}
	r.items[saleID] = append([]SaleItem(nil), items...)
	return nil
}

func (r *memRepo) GetItems(_ context.Context, saleID id.ID) ([]SaleItem, error) {
	return r.items[saleID], nil
}

func (r *memRepo) GetItemsBySaleIDs(_ context.Context, ids []id.ID) ([]SaleItem, error) {
	var out []SaleItem
	for _, sid := range ids {
		out = append(out, r.items[sid]...)
	}
	return out, nil
}

func (r *memRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*Sale], error) {
	var out []*Sale
	for _, s := range r.sales {
		cp := *s
		out = append(out, &cp)
	}
	return domain.ListResult[*Sale]{Items: out, TotalCount: int64(len(out))}, nil
}

func (r *memRepo) MaxCodeForPeriod(_ context.Context, period time.Time) (string, error) {
	prefix := period.Format("200601")
	best := ""
	for _, s := range r.sales {
		if s.Code[:6] == prefix && s.Code > best {
			best = s.Code
		}
	}
	return best, nil
}

type memTx struct{ repo *memRepo }

func (t memTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sales := maps.Clone(t.repo.sales)
	items := maps.Clone(t.repo.items)
	if err := fn(ctx); err != nil {
		t.repo.sales, t.repo.items = sales, items
		return err
	}
	return nil
}

type recorder struct{ entries []audit.Action }

func (r *recorder) Record(_ context.Context, _ string, _ id.ID, action audit.Action, _ any) error {
	r.entries = append(r.entries, action)
	return nil
}

type lookup[T any] map[id.ID]T

func (l lookup[T]) GetByID(_ context.Context, key id.ID) (T, error) {
	v, ok := l[key]
	if !ok {
		var zero T
		return zero, apperror.NewNotFound("entity", key)
	}
	return v, nil
}

type fixture struct {
	svc      *Service
	repo     *memRepo
	audit    *recorder
	clock    *time.Time
	client   *client.Client
	seller   *seller.Seller
	inactive *seller.Seller
	caneca   *product.Product
	chaveiro *product.Product
	camiseta *product.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gate, err := security.NewPassphraseGate("", "2244")
	require.NoError(t, err)

	f := &fixture{
		repo:     newMemRepo(),
		audit:    &recorder{},
		clock:    ptr(time.Date(2026, 10, 18, 14, 30, 0, 0, time.UTC)),
		client:   client.NewClient("52998224725", "MARIA", "11987654321", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)),
		seller:   seller.NewSeller("Ana", ""),
		inactive: seller.NewSeller("Bruno", ""),
		caneca:   product.NewProduct("001", "CANECA", m("4"), m("10")),
		chaveiro: product.NewProduct("002", "CHAVEIRO", m("1"), m("5")),
		camiseta: product.NewProduct("003", "CAMISETA", m("15"), m("39.90")),
	}
	f.inactive.Active = false

	f.svc = NewService(ServiceConfig{
		Repo:      f.repo,
		TxManager: memTx{repo: f.repo},
		Numerator: &numerator.MockGenerator{},
		Gate:      gate,
		Audit:     f.audit,
		Clients:   lookup[*client.Client]{f.client.ID: f.client},
		Sellers:   lookup[*seller.Seller]{f.seller.ID: f.seller, f.inactive.ID: f.inactive},
		Products: lookup[*product.Product]{
			f.caneca.ID:   f.caneca,
			f.chaveiro.ID: f.chaveiro,
			f.camiseta.ID: f.camiseta,
		},
		Now: func() time.Time { return *f.clock },
	})
	return f
}

func (f *fixture) input() CheckoutInput {
	return CheckoutInput{
		ClientID: f.client.ID,
		SellerID: f.seller.ID,
		Items: []CheckoutItem{
			{ProductID: f.caneca.ID, Quantity: m("2")},
			{ProductID: f.chaveiro.ID, Quantity: m("1"), UnitPrice: ptr(m("5"))},
		},
		Payments: []payment.Entry{{Method: payment.Cash, Amount: m("25")}},
	}
}

func TestCheckout_PersistsSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "u1", Name: "Operador"})

	sale, err := f.svc.Checkout(ctx, f.input())
	require.NoError(t, err)

	assert.Equal(t, "202610000001", sale.Code)
	assert.Equal(t, "25.00", sale.Subtotal.StringFixed(2))
	assert.Equal(t, "25.00", sale.Total.StringFixed(2))
	assert.Equal(t, "MARIA", sale.ClientName)
	assert.Equal(t, "52998224725", sale.ClientCPF)
	require.NotNil(t, sale.SellerID)
	assert.Equal(t, f.seller.ID, *sale.SellerID)
	assert.Equal(t, "Ana", sale.SellerName)
	assert.Equal(t, "Operador", sale.CreatedBy)

	stored, err := f.svc.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "CANECA", stored.Items[0].ProductDescription)
	assert.Equal(t, "20.00", stored.Items[0].Total.StringFixed(2))
	assert.Equal(t, 2, stored.Items[1].LineNo)

	// Renaming the product later does not touch the sale.
	f.caneca.Description = "CANECA GRANDE"
	stored, err = f.svc.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANECA", stored.Items[0].ProductDescription)
}

func TestCheckout_CodesPerMonth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var codes []string
	for range 3 {
		sale, err := f.svc.Checkout(ctx, f.input())
		require.NoError(t, err)
		codes = append(codes, sale.Code)
	}
	assert.Equal(t, []string{"202610000001", "202610000002", "202610000003"}, codes)

	*f.clock = time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)
	sale, err := f.svc.Checkout(ctx, f.input())
	require.NoError(t, err)
	assert.Equal(t, "202611000001", sale.Code)
}

func TestCheckout_ItemFailureRollsBackSale(t *testing.T) {
	f := newFixture(t)
	f.repo.failItems = true

	_, err := f.svc.Checkout(context.Background(), f.input())
	require.Error(t, err)

	assert.Empty(t, f.repo.sales)
	assert.Empty(t, f.repo.items)
}

func TestCheckout_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(in *CheckoutInput)
		code   string
	}{
		{"missing client", func(in *CheckoutInput) { in.ClientID = id.ID{} }, apperror.CodeValidation},
		{"unknown client", func(in *CheckoutInput) { in.ClientID = id.New() }, apperror.CodeNotFound},
		{"missing seller", func(in *CheckoutInput) { in.SellerID = id.ID{} }, apperror.CodeValidation},
		{"inactive seller", func(in *CheckoutInput) { in.SellerID = f.inactive.ID }, apperror.CodeValidation},
		{"no items", func(in *CheckoutInput) { in.Items = nil }, apperror.CodeValidation},
		{"apparel without size", func(in *CheckoutInput) {
			in.Items = append(in.Items, CheckoutItem{ProductID: f.camiseta.ID, Quantity: m("1")})
		}, apperror.CodeSizeRequired},
		{"discount above subtotal", func(in *CheckoutInput) { in.Discount = m("30") }, apperror.CodeDiscountExceedsSubtotal},
		{"payments do not match", func(in *CheckoutInput) {
			in.Payments = []payment.Entry{{Method: payment.Cash, Amount: m("20")}}
		}, apperror.CodePaymentMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.input()
			tt.mutate(&in)
			_, err := f.svc.Checkout(ctx, in)
			assert.True(t, apperror.HasCode(err, tt.code), "got %v", err)
		})
	}
	assert.Empty(t, f.repo.sales)
}

func TestCheckout_DiscountSplitPayment(t *testing.T) {
	f := newFixture(t)

	in := f.input()
	in.Discount = m("5")
	in.Payments = []payment.Entry{
		{Method: payment.Pix, Amount: m("10")},
		{Method: payment.CreditCard, Amount: m("10"), PaymentType: payment.AVista, Installments: 1},
	}

	sale, err := f.svc.Checkout(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "20.00", sale.Total.StringFixed(2))
	assert.True(t, sale.CashAmount().IsZero())
	assert.Equal(t, payment.Pix, sale.PrimaryPaymentMethod())
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sale, err := f.svc.Checkout(ctx, f.input())
	require.NoError(t, err)

	err = f.svc.Delete(ctx, "wrong", sale.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidPassphrase))
	assert.Len(t, f.repo.sales, 1)

	require.NoError(t, f.svc.Delete(ctx, "2244", sale.ID))
	assert.Empty(t, f.repo.sales)
	assert.Empty(t, f.repo.items)
	assert.Equal(t, []audit.Action{audit.ActionDelete}, f.audit.entries)

	err = f.svc.Delete(ctx, "2244", sale.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestSyncCodeCounter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	period := *f.clock

	seq, err := f.svc.SyncCodeCounter(ctx, period)
	require.NoError(t, err)
	assert.Zero(t, seq)

	legacy := NewSale(mustDraft(t, f), "202610000041", period, "")
	require.NoError(t, f.repo.Create(ctx, legacy))

	seq, err = f.svc.SyncCodeCounter(ctx, period)
	require.NoError(t, err)
	assert.EqualValues(t, 41, seq)

	sale, err := f.svc.Checkout(ctx, f.input())
	require.NoError(t, err)
	assert.Equal(t, "202610000042", sale.Code)
}

func mustDraft(t *testing.T, f *fixture) builder.Draft {
	t.Helper()
	d, err := f.svc.Build(context.Background(), f.input())
	require.NoError(t, err)
	return d
}

func TestParseSaleCode(t *testing.T) {
	period, seq, err := ParseSaleCode("202602000123")
	require.NoError(t, err)
	assert.Equal(t, 2026, period.Year())
	assert.Equal(t, time.February, period.Month())
	assert.EqualValues(t, 123, seq)

	for _, bad := range []string{"", "2026020001", "202613000001", "202602000000", "20260200012x"} {
		_, _, err := ParseSaleCode(bad)
		assert.Error(t, err, bad)
	}
}

func TestBuildReceipt(t *testing.T) {
	f := newFixture(t)

	in := f.input()
	in.Payments = []payment.Entry{
		{Method: payment.Cash, Amount: m("10")},
		{Method: payment.CreditCard, Amount: m("15"), PaymentType: payment.Parcelado, Installments: 3},
	}
	sale, err := f.svc.Checkout(context.Background(), in)
	require.NoError(t, err)

	r := BuildReceipt(sale)
	assert.Equal(t, "529.982.247-25", r.ClientCPF)
	require.Len(t, r.Lines, 2)
	require.Len(t, r.Payments, 2)
	assert.Equal(t, "Dinheiro", r.Payments[0].Label)
	assert.Equal(t, "Parcelado", r.Payments[1].Terms)
	assert.Equal(t, "5.00", r.Payments[1].InstallmentValue.StringFixed(2))
}
