package reports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdv/internal/core/id"
	"pdv/internal/core/types"
	"pdv/internal/domain/catalogs/product"
	"pdv/internal/domain/payment"
	"pdv/internal/domain/sales"
)

func m(s string) types.Money { return types.MustMoney(s) }

var day = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

type saleOpt func(*sales.Sale)

func withSeller(sid id.ID, name string) saleOpt {
	return func(s *sales.Sale) { s.SellerID = &sid; s.SellerName = name }
}

func paid(entries ...payment.Entry) saleOpt {
	return func(s *sales.Sale) { s.PaymentMethods = entries }
}

func newSale(clientID id.ID, clientName, total string, at time.Time, opts ...saleOpt) *sales.Sale {
	s := &sales.Sale{
		Code:           at.Format("200601") + "000001",
		SaleDate:       at,
		ClientID:       clientID,
		ClientName:     clientName,
		ClientCPF:      "52998224725",
		Total:          m(total),
		Subtotal:       m(total),
		Discount:       types.Zero(),
		PaymentMethods: []payment.Entry{{Method: payment.Cash, Amount: m(total)}},
	}
	s.ID = id.New()
	for _, o := range opts {
		o(s)
	}
	return s
}

func item(saleID, productID id.ID, qty, total string) sales.SaleItem {
	q, t := m(qty), m(total)
	return sales.SaleItem{
		ID:        id.New(),
		SaleID:    saleID,
		ProductID: productID,
		Quantity:  q,
		UnitPrice: types.Cents(t.Div(q)),
		Total:     t,
	}
}

func TestByProduct_MarginWithCurrentCost(t *testing.T) {
	p := product.NewProduct("001", "CANECA", m("5"), m("10"))
	s1 := newSale(id.New(), "MARIA", "30", day)
	s2 := newSale(id.New(), "JOÃO", "20", day)
	outside := newSale(id.New(), "JOÃO", "100", day)

	items := []sales.SaleItem{
		item(s1.ID, p.ID, "3", "30"),
		item(s2.ID, p.ID, "2", "20"),
		item(outside.ID, p.ID, "10", "100"),
	}

	got := ByProduct([]*sales.Sale{s1, s2}, items, []*product.Product{p})
	require.Len(t, got, 1)
	st := got[0]
	assert.Equal(t, "5", st.TotalQuantity.String())
	assert.Equal(t, "50.00", st.TotalRevenue.StringFixed(2))
	assert.Equal(t, "10.00", st.AvgPrice.StringFixed(2))
	assert.Equal(t, "25.00", st.GrossMargin.StringFixed(2))
	assert.Equal(t, "50.00", st.GrossMarginPercent.StringFixed(2))
	assert.True(t, st.CostKnown)
}

func TestByProduct_DeletedProduct(t *testing.T) {
	s := newSale(id.New(), "MARIA", "10", day)
	it := item(s.ID, id.New(), "1", "10")
	it.ProductCode, it.ProductDescription = "009", "ANTIGO"

	got := ByProduct([]*sales.Sale{s}, []sales.SaleItem{it}, nil)
	require.Len(t, got, 1)
	assert.False(t, got[0].CostKnown)
	assert.Equal(t, "ANTIGO", got[0].Description)
	assert.Equal(t, "100.00", got[0].GrossMarginPercent.StringFixed(2))
}

func TestByClient(t *testing.T) {
	maria, joao := id.New(), id.New()
	ss := []*sales.Sale{
		newSale(maria, "MARIA", "10", day, paid(payment.Entry{Method: payment.Pix, Amount: m("10")})),
		newSale(joao, "JOÃO", "100", day),
		newSale(maria, "MARIA", "20", day),
	}
	items := []sales.SaleItem{
		item(ss[0].ID, id.New(), "1", "10"),
		item(ss[2].ID, id.New(), "4", "20"),
	}

	got := ByClient(ss, items)
	require.Len(t, got, 2)

	assert.Equal(t, joao, got[0].ClientID)
	assert.Equal(t, maria, got[1].ClientID)
	assert.Equal(t, 2, got[1].SalesCount)
	assert.Equal(t, "30.00", got[1].TotalValue.StringFixed(2))
	assert.Equal(t, "5", got[1].TotalItems.String())
	assert.Equal(t, "15.00", got[1].AvgTicket.StringFixed(2))
	assert.Equal(t, payment.Pix, got[1].MostUsedPayment, "tie goes to the first method seen")
}

func TestBySeller_NoSellerLast(t *testing.T) {
	ana, bruno := id.New(), id.New()
	c1, c2 := id.New(), id.New()
	ss := []*sales.Sale{
		newSale(c1, "MARIA", "500", day),
		newSale(c1, "MARIA", "50", day, withSeller(ana, "Ana")),
		newSale(c2, "JOÃO", "70", day, withSeller(bruno, "Bruno")),
		newSale(c2, "JOÃO", "30", day, withSeller(ana, "Ana")),
	}

	r := BySeller(ss, nil)
	require.Len(t, r.Sellers, 3)
	assert.Equal(t, "Bruno", r.Sellers[0].SellerName)
	assert.Equal(t, "Ana", r.Sellers[1].SellerName)
	assert.Equal(t, NoSellerKey, r.Sellers[2].SellerKey)
	assert.Equal(t, NoSellerName, r.Sellers[2].SellerName)

	assert.Equal(t, 2, r.Sellers[1].ClientCount)
	assert.Equal(t, "40.00", r.Sellers[1].AvgTicket.StringFixed(2))

	require.NotNil(t, r.TopSeller)
	assert.Equal(t, "Bruno", r.TopSeller.SellerName)
	assert.Equal(t, 2, r.SellerCount)
	assert.Equal(t, 4, r.SalesCount)
	assert.Equal(t, "650.00", r.TotalValue.StringFixed(2))
}

func TestBySeller_OnlyNoSeller(t *testing.T) {
	r := BySeller([]*sales.Sale{newSale(id.New(), "MARIA", "10", day)}, nil)
	assert.Nil(t, r.TopSeller)
	assert.Zero(t, r.SellerCount)
}

func TestByPaymentMethod(t *testing.T) {
	ss := []*sales.Sale{
		newSale(id.New(), "A", "50", day, paid(
			payment.Entry{Method: payment.Cash, Amount: m("30")},
			payment.Entry{Method: payment.Pix, Amount: m("20")},
		)),
		newSale(id.New(), "B", "150", day, paid(
			payment.Entry{Method: payment.CreditCard, Amount: m("100"), PaymentType: payment.Parcelado, Installments: 3},
			payment.Entry{Method: payment.Pix, Amount: m("50")},
		)),
		newSale(id.New(), "C", "50", day, paid(
			payment.Entry{Method: payment.CreditCard, Amount: m("50"), PaymentType: payment.AVista, Installments: 1},
		)),
	}

	r := ByPaymentMethod(ss)
	assert.Equal(t, "250.00", r.Total.StringFixed(2))
	assert.Equal(t, 5, r.Count)
	require.Len(t, r.Methods, 3)

	assert.Equal(t, payment.Cash, r.Methods[0].Method)
	assert.Equal(t, "12.00", r.Methods[0].Percentage.StringFixed(2))

	assert.Equal(t, payment.Pix, r.Methods[1].Method)
	assert.Equal(t, 2, r.Methods[1].Count)
	assert.Equal(t, "70.00", r.Methods[1].Total.StringFixed(2))

	card := r.Methods[2]
	assert.Equal(t, payment.CreditCard, card.Method)
	assert.Equal(t, 1, card.AVistaCount)
	assert.Equal(t, 1, card.ParceladoCount)
	assert.Equal(t, "60.00", card.Percentage.StringFixed(2))
}

func TestSummaryAndPeriod(t *testing.T) {
	products := make([]*product.Product, 7)
	for i := range products {
		products[i] = product.NewProduct(string(rune('A'+i)), "P", m("1"), m("10"))
	}

	late := newSale(id.New(), "B", "60", day.Add(time.Hour))
	early := newSale(id.New(), "A", "40", day.Add(-time.Hour))
	early.Discount = m("5")
	late.Code = "202610000002"

	var items []sales.SaleItem
	for i, p := range products {
		items = append(items, item(late.ID, p.ID, "1", fmt.Sprint(10-i)))
	}
	items = append(items, item(early.ID, products[0].ID, "2", "40"))

	s := Summary([]*sales.Sale{late, early}, items, products, DefaultTopProducts)
	assert.Equal(t, 2, s.SalesCount)
	assert.Equal(t, "100.00", s.TotalValue.StringFixed(2))
	assert.Equal(t, "50.00", s.AvgTicket.StringFixed(2))
	assert.Equal(t, "5.00", s.TotalDiscount.StringFixed(2))
	assert.Equal(t, "9", s.TotalItems.String())
	require.Len(t, s.TopProducts, 5)
	assert.Equal(t, products[0].ID, s.TopProducts[0].ProductID)

	p := Period([]*sales.Sale{late, early}, items)
	require.Len(t, p.Rows, 2)
	assert.Equal(t, early.ID, p.Rows[0].SaleID)
	assert.Equal(t, "2", p.Rows[0].ItemCount.String())
	assert.Equal(t, "7", p.Rows[1].ItemCount.String())
	assert.Equal(t, "9", p.TotalItems.String())
}

func TestAggregations_AreIdempotent(t *testing.T) {
	ana := id.New()
	p := product.NewProduct("001", "CANECA", m("5"), m("10"))
	ss := []*sales.Sale{
		newSale(id.New(), "MARIA", "10", day, withSeller(ana, "Ana")),
		newSale(id.New(), "JOÃO", "10", day),
		newSale(id.New(), "ANA", "10", day, withSeller(id.New(), "Bia")),
	}
	items := []sales.SaleItem{item(ss[0].ID, p.ID, "1", "10"), item(ss[1].ID, p.ID, "1", "10")}

	assert.Equal(t, ByClient(ss, items), ByClient(ss, items))
	assert.Equal(t, ByProduct(ss, items, []*product.Product{p}), ByProduct(ss, items, []*product.Product{p}))
	assert.Equal(t, BySeller(ss, items), BySeller(ss, items))
	assert.Equal(t, ByPaymentMethod(ss), ByPaymentMethod(ss))
	assert.Equal(t, Summary(ss, items, nil, 5), Summary(ss, items, nil, 5))
	assert.Equal(t, Period(ss, items), Period(ss, items))
}

func TestDateRange(t *testing.T) {
	r, err := ParseDateRange("2026-10-01", "2026-10-18", time.UTC)
	require.NoError(t, err)

	assert.True(t, r.Contains(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2026, 10, 18, 23, 59, 59, int(999*time.Millisecond), time.UTC)))
	assert.False(t, r.Contains(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2026, 9, 30, 23, 59, 59, 0, time.UTC)))

	_, err = ParseDateRange("", "2026-10-18", time.UTC)
	assert.Error(t, err)
	_, err = ParseDateRange("2026-10-18", "2026-10-01", time.UTC)
	assert.Error(t, err)
	_, err = ParseDateRange("18/10/2026", "2026-10-18", time.UTC)
	assert.Error(t, err)
}

func TestMatchSearch(t *testing.T) {
	s := newSale(id.New(), "MARIA SOUZA", "10", day)
	assert.True(t, MatchSearch(s, ""))
	assert.True(t, MatchSearch(s, "souza"))
	assert.True(t, MatchSearch(s, "529.982"))
	assert.True(t, MatchSearch(s, "202610"))
	assert.False(t, MatchSearch(s, "joão"))
}

func TestBuildDashboard(t *testing.T) {
	now := day
	ss := []*sales.Sale{
		newSale(id.New(), "A", "10", now.Add(-time.Hour)),
		newSale(id.New(), "B", "20", now.AddDate(0, 0, -3)),
		newSale(id.New(), "C", "40", now.AddDate(0, -1, 0)),
	}
	items := []sales.SaleItem{
		item(ss[0].ID, id.New(), "2", "10"),
		item(ss[1].ID, id.New(), "1", "20"),
		item(ss[2].ID, id.New(), "5", "40"),
	}

	d := BuildDashboard(now, 12, ss, items)
	assert.EqualValues(t, 12, d.ActiveProducts)
	assert.Equal(t, 3, d.SalesCount)
	assert.Equal(t, "70.00", d.TotalValue.StringFixed(2))
	assert.Equal(t, 1, d.TodayCount)
	assert.Equal(t, "10.00", d.TodayValue.StringFixed(2))
	assert.Equal(t, "30.00", d.MonthValue.StringFixed(2))
	assert.Equal(t, "3", d.MonthItems.String())
}

type fakeSales struct {
	sales []*sales.Sale
	items []sales.SaleItem
	calls []sales.ListFilter
}

func (f *fakeSales) ListWithItems(_ context.Context, filter sales.ListFilter) ([]*sales.Sale, []sales.SaleItem, error) {
	f.calls = append(f.calls, filter)
	return f.sales, f.items, nil
}

type fakeProducts []*product.Product

func (f fakeProducts) GetByIDs(_ context.Context, _ []id.ID) ([]*product.Product, error) {
	return f, nil
}

func (f fakeProducts) CountActive(_ context.Context) (int64, error) { return int64(len(f)), nil }

func TestService_FiltersRangeAndSearch(t *testing.T) {
	p := product.NewProduct("001", "CANECA", m("5"), m("10"))
	inside := newSale(id.New(), "MARIA", "30", day)
	otherClient := newSale(id.New(), "JOÃO", "20", day)
	outside := newSale(id.New(), "MARIA", "99", day.AddDate(0, 0, 1))

	src := &fakeSales{
		sales: []*sales.Sale{inside, otherClient, outside},
		items: []sales.SaleItem{item(inside.ID, p.ID, "3", "30"), item(outside.ID, p.ID, "1", "99")},
	}
	svc := NewService(src, fakeProducts{p})

	f := Filter{Range: NewDateRange(day, day), Search: "maria"}
	got, err := svc.Products(context.Background(), f)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "30.00", got[0].TotalRevenue.StringFixed(2))

	require.Len(t, src.calls, 1)
	assert.Equal(t, f.Range.From, *src.calls[0].DateFrom)
	assert.Equal(t, f.Range.To, *src.calls[0].DateTo)

	period, err := svc.Period(context.Background(), Filter{Range: NewDateRange(day, day)})
	require.NoError(t, err)
	assert.Equal(t, 2, period.SalesCount)
}

func TestByProduct_KeepsSoldSnapshot(t *testing.T) {
	p := product.NewProduct("001-NEW", "CAMISETA VERDE", m("15"), m("39.90"))
	s := newSale(id.New(), "MARIA", "79.80", day)
	it := item(s.ID, p.ID, "2", "79.80")
	it.ProductCode, it.ProductDescription = "001", "CAMISETA AZUL - Tam: M"

	got := ByProduct([]*sales.Sale{s}, []sales.SaleItem{it}, []*product.Product{p})
	require.Len(t, got, 1)
	assert.Equal(t, "001", got[0].ProductCode)
	assert.Equal(t, "CAMISETA AZUL - Tam: M", got[0].Description)
	assert.True(t, got[0].CostKnown)
	assert.Equal(t, "49.80", got[0].GrossMargin.StringFixed(2))
}

func TestByProduct_MostUsedPayment(t *testing.T) {
	p := product.NewProduct("001", "CANECA", m("5"), m("10"))
	pixSale := func() *sales.Sale {
		return newSale(id.New(), "MARIA", "10", day, paid(payment.Entry{Method: payment.Pix, Amount: m("10")}))
	}
	ss := []*sales.Sale{
		newSale(id.New(), "JOÃO", "10", day),
		pixSale(),
		pixSale(),
	}
	items := []sales.SaleItem{
		item(ss[0].ID, p.ID, "1", "10"),
		item(ss[0].ID, p.ID, "1", "10"),
		item(ss[0].ID, p.ID, "1", "10"),
		item(ss[1].ID, p.ID, "1", "10"),
		item(ss[2].ID, p.ID, "1", "10"),
	}

	got := ByProduct(ss, items, []*product.Product{p})
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].SalesCount)
	assert.Equal(t, payment.Pix, got[0].MostUsedPayment, "a sale counts once however many lines it has")
}

func TestFilterProducts(t *testing.T) {
	stats := []ProductStat{
		{ProductCode: "CAM001", Description: "CAMISETA BÁSICA - Tam: M"},
		{ProductCode: "BON001", Description: "BONÉ ABA RETA"},
	}

	assert.Len(t, FilterProducts(stats, ""), 2)
	assert.Len(t, FilterProducts(stats, "  "), 2)

	got := FilterProducts(stats, "bon")
	require.Len(t, got, 1)
	assert.Equal(t, "BON001", got[0].ProductCode)

	got = FilterProducts(stats, "básica")
	require.Len(t, got, 1)
	assert.Equal(t, "CAM001", got[0].ProductCode)

	assert.Empty(t, FilterProducts(stats, "calça"))
	assert.Len(t, stats, 2, "input untouched")
}

func TestService_ProductSearch(t *testing.T) {
	caneca := product.NewProduct("001", "CANECA", m("5"), m("10"))
	bone := product.NewProduct("002", "BONÉ", m("10"), m("30"))
	s := newSale(id.New(), "MARIA", "40", day)
	first, second := item(s.ID, caneca.ID, "1", "10"), item(s.ID, bone.ID, "1", "30")
	first.ProductCode, first.ProductDescription = "001", "CANECA"
	second.ProductCode, second.ProductDescription = "002", "BONÉ"

	svc := NewService(&fakeSales{sales: []*sales.Sale{s}, items: []sales.SaleItem{first, second}}, fakeProducts{caneca, bone})

	got, err := svc.Products(context.Background(), Filter{Range: NewDateRange(day, day), ProductSearch: "caneca"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, caneca.ID, got[0].ProductID)
}

func TestService_DashboardUsesConfiguredClock(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2026, 10, 18, 23, 30, 0, 0, brt)

	tonight := newSale(id.New(), "MARIA", "10", time.Date(2026, 10, 18, 20, 0, 0, 0, brt))
	// 01:00 UTC on the 18th, still the 17th locally.
	yesterday := newSale(id.New(), "JOÃO", "20", time.Date(2026, 10, 17, 22, 0, 0, 0, brt))
	src := &fakeSales{sales: []*sales.Sale{tonight, yesterday}}

	svc := NewService(src, fakeProducts{}, WithNow(func() time.Time { return now }))
	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, d.TodayCount)
	assert.Equal(t, "10.00", d.TodayValue.StringFixed(2))

	utc := NewService(src, fakeProducts{}, WithNow(func() time.Time { return now.UTC() }))
	d, err = utc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, d.TodayCount, "in UTC it is already the 19th")
}
