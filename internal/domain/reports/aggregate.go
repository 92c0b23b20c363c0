package reports

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pdv/internal/core/id"
	"pdv/internal/core/types"
	"pdv/internal/domain/catalogs/product"
	"pdv/internal/domain/payment"
	"pdv/internal/domain/sales"
)

var hundred = decimal.NewFromInt(100)

// quantities sums item quantities per sale, keeping only the given sales.
func quantities(ss []*sales.Sale, items []sales.SaleItem) map[id.ID]types.Quantity {
	q := make(map[id.ID]types.Quantity, len(ss))
	for _, s := range ss {
		q[s.ID] = types.Zero()
	}
	for _, it := range items {
		if cur, ok := q[it.SaleID]; ok {
			q[it.SaleID] = cur.Add(it.Quantity)
		}
	}
	return q
}

func avg(total types.Money, count int) types.Money {
	return types.Cents(types.SafeDiv(total, decimal.NewFromInt(int64(count))))
}

func byValueDesc(a, b types.Money) int {
	return b.Cmp(a)
}

// ByClient groups sales by client, highest total first. Groups with equal
// totals keep the order in which their first sale appears.
func ByClient(ss []*sales.Sale, items []sales.SaleItem) []ClientStat {
	qty := quantities(ss, items)

	type group struct {
		stat    ClientStat
		methods map[payment.Method]int
		order   []payment.Method
	}
	groups := make(map[id.ID]*group)
	var order []id.ID

	for _, s := range ss {
		g, ok := groups[s.ClientID]
		if !ok {
			g = &group{
				stat: ClientStat{
					ClientID:   s.ClientID,
					ClientName: s.ClientName,
					ClientCPF:  s.ClientCPF,
					TotalValue: types.Zero(),
					TotalItems: types.Zero(),
				},
				methods: make(map[payment.Method]int),
			}
			groups[s.ClientID] = g
			order = append(order, s.ClientID)
		}
		g.stat.SalesCount++
		g.stat.TotalValue = g.stat.TotalValue.Add(s.Total)
		g.stat.TotalItems = g.stat.TotalItems.Add(qty[s.ID])

		if m := s.PrimaryPaymentMethod(); m != "" {
			if _, seen := g.methods[m]; !seen {
				g.order = append(g.order, m)
			}
			g.methods[m]++
		}
	}

	out := make([]ClientStat, 0, len(order))
	for _, key := range order {
		g := groups[key]
		g.stat.AvgTicket = avg(g.stat.TotalValue, g.stat.SalesCount)
		g.stat.MostUsedPayment = mode(g.order, g.methods)
		out = append(out, g.stat)
	}

	slices.SortStableFunc(out, func(a, b ClientStat) int {
		return byValueDesc(a.TotalValue, b.TotalValue)
	})
	return out
}

// mode returns the most frequent method; ties go to the first seen.
func mode(order []payment.Method, counts map[payment.Method]int) payment.Method {
	var best payment.Method
	bestCount := 0
	for _, m := range order {
		if counts[m] > bestCount {
			best, bestCount = m, counts[m]
		}
	}
	return best
}

// ByProduct groups the items of the given sales by product, highest revenue
// first. Code and description come from the first item sold; the catalog only
// supplies the current cost used for margins.
func ByProduct(ss []*sales.Sale, items []sales.SaleItem, products []*product.Product) []ProductStat {
	inRange := make(map[id.ID]*sales.Sale, len(ss))
	for _, s := range ss {
		inRange[s.ID] = s
	}
	catalog := make(map[id.ID]*product.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}

	type group struct {
		stat    ProductStat
		sales   map[id.ID]struct{}
		methods map[payment.Method]int
		order   []payment.Method
	}
	groups := make(map[id.ID]*group)
	var order []id.ID
	for _, it := range items {
		sale, ok := inRange[it.SaleID]
		if !ok {
			continue
		}
		g, ok := groups[it.ProductID]
		if !ok {
			g = &group{
				stat: ProductStat{
					ProductID:     it.ProductID,
					ProductCode:   it.ProductCode,
					Description:   it.ProductDescription,
					TotalQuantity: types.Zero(),
					TotalRevenue:  types.Zero(),
					Cost:          types.Zero(),
				},
				sales:   make(map[id.ID]struct{}),
				methods: make(map[payment.Method]int),
			}
			if p, found := catalog[it.ProductID]; found {
				g.stat.Cost = p.Cost
				g.stat.CostKnown = true
			}
			groups[it.ProductID] = g
			order = append(order, it.ProductID)
		}
		g.stat.TotalQuantity = g.stat.TotalQuantity.Add(it.Quantity)
		g.stat.TotalRevenue = g.stat.TotalRevenue.Add(it.Total)

		// A sale counts once per product even when the product is on several lines.
		if _, counted := g.sales[sale.ID]; counted {
			continue
		}
		g.sales[sale.ID] = struct{}{}
		if m := sale.PrimaryPaymentMethod(); m != "" {
			if _, seen := g.methods[m]; !seen {
				g.order = append(g.order, m)
			}
			g.methods[m]++
		}
	}

	out := make([]ProductStat, 0, len(order))
	for _, key := range order {
		g := groups[key]
		st := g.stat
		st.SalesCount = len(g.sales)
		st.MostUsedPayment = mode(g.order, g.methods)
		st.AvgPrice = types.Cents(types.SafeDiv(st.TotalRevenue, st.TotalQuantity))
		st.GrossMargin = types.Cents(st.TotalRevenue.Sub(st.Cost.Mul(st.TotalQuantity)))
		st.GrossMarginPercent = types.Cents(types.SafeDiv(st.GrossMargin, st.TotalRevenue).Mul(hundred))
		out = append(out, st)
	}

	slices.SortStableFunc(out, func(a, b ProductStat) int {
		return byValueDesc(a.TotalRevenue, b.TotalRevenue)
	})
	return out
}

// FilterProducts keeps the stats whose code or description contains term,
// ignoring case. An empty term keeps everything.
func FilterProducts(stats []ProductStat, term string) []ProductStat {
	term = strings.ToUpper(strings.TrimSpace(term))
	if term == "" {
		return stats
	}
	kept := stats[:0:0]
	for _, st := range stats {
		if strings.Contains(strings.ToUpper(st.ProductCode), term) ||
			strings.Contains(strings.ToUpper(st.Description), term) {
			kept = append(kept, st)
		}
	}
	return kept
}

// BySeller groups sales by seller. Sales without a seller form their own
// group, listed last and never chosen as top seller.
func BySeller(ss []*sales.Sale, items []sales.SaleItem) SellerReport {
	qty := quantities(ss, items)

	type group struct {
		stat    SellerStat
		clients map[id.ID]struct{}
	}
	groups := make(map[string]*group)
	var order []string
	report := SellerReport{TotalValue: types.Zero()}

	for _, s := range ss {
		key, name := NoSellerKey, NoSellerName
		if s.SellerID != nil {
			key, name = s.SellerID.String(), s.SellerName
		}
		g, ok := groups[key]
		if !ok {
			g = &group{
				stat: SellerStat{
					SellerKey:  key,
					SellerID:   s.SellerID,
					SellerName: name,
					TotalValue: types.Zero(),
					TotalItems: types.Zero(),
				},
				clients: make(map[id.ID]struct{}),
			}
			groups[key] = g
			order = append(order, key)
		}
		g.stat.SalesCount++
		g.stat.TotalValue = g.stat.TotalValue.Add(s.Total)
		g.stat.TotalItems = g.stat.TotalItems.Add(qty[s.ID])
		g.clients[s.ClientID] = struct{}{}

		report.SalesCount++
		report.TotalValue = report.TotalValue.Add(s.Total)
	}

	report.Sellers = make([]SellerStat, 0, len(order))
	for _, key := range order {
		g := groups[key]
		g.stat.ClientCount = len(g.clients)
		g.stat.AvgTicket = avg(g.stat.TotalValue, g.stat.SalesCount)
		report.Sellers = append(report.Sellers, g.stat)
		if key != NoSellerKey {
			report.SellerCount++
		}
	}

	slices.SortStableFunc(report.Sellers, func(a, b SellerStat) int {
		aNone, bNone := a.SellerKey == NoSellerKey, b.SellerKey == NoSellerKey
		if aNone != bNone {
			if aNone {
				return 1
			}
			return -1
		}
		return byValueDesc(a.TotalValue, b.TotalValue)
	})

	if len(report.Sellers) > 0 && report.Sellers[0].SellerKey != NoSellerKey {
		top := report.Sellers[0]
		report.TopSeller = &top
	}
	return report
}

// ByPaymentMethod totals every payment entry of the sales per method.
func ByPaymentMethod(ss []*sales.Sale) PaymentReport {
	stats := make(map[payment.Method]*PaymentStat)
	var extra []payment.Method
	report := PaymentReport{Total: types.Zero()}

	for _, s := range ss {
		for _, e := range s.PaymentMethods {
			st, ok := stats[e.Method]
			if !ok {
				st = &PaymentStat{Method: e.Method, Label: e.Method.Label(), Total: types.Zero()}
				stats[e.Method] = st
				if !e.Method.Valid() {
					extra = append(extra, e.Method)
				}
			}
			st.Count++
			st.Total = st.Total.Add(e.Amount)
			if e.Method == payment.CreditCard {
				switch e.PaymentType {
				case payment.AVista:
					st.AVistaCount++
				case payment.Parcelado:
					st.ParceladoCount++
				}
			}
			report.Count++
			report.Total = report.Total.Add(e.Amount)
		}
	}

	for _, m := range append(slices.Clone(payment.Methods), extra...) {
		st, ok := stats[m]
		if !ok {
			continue
		}
		st.Percentage = types.Cents(types.SafeDiv(st.Total, report.Total).Mul(hundred))
		report.Methods = append(report.Methods, *st)
	}
	return report
}

// Summary aggregates the sales and lists the topN products by revenue.
func Summary(ss []*sales.Sale, items []sales.SaleItem, products []*product.Product, topN int) SummaryReport {
	qty := quantities(ss, items)
	r := SummaryReport{
		TotalValue:    types.Zero(),
		TotalItems:    types.Zero(),
		TotalDiscount: types.Zero(),
	}
	for _, s := range ss {
		r.SalesCount++
		r.TotalValue = r.TotalValue.Add(s.Total)
		r.TotalDiscount = r.TotalDiscount.Add(s.Discount)
		r.TotalItems = r.TotalItems.Add(qty[s.ID])
	}
	r.AvgTicket = avg(r.TotalValue, r.SalesCount)

	top := ByProduct(ss, items, products)
	if topN >= 0 && len(top) > topN {
		top = top[:topN]
	}
	r.TopProducts = top
	return r
}

// Period lists the sales oldest first with their item counts.
func Period(ss []*sales.Sale, items []sales.SaleItem) PeriodReport {
	qty := quantities(ss, items)
	r := PeriodReport{
		Rows:       make([]PeriodRow, 0, len(ss)),
		TotalValue: types.Zero(),
		TotalItems: types.Zero(),
	}
	for _, s := range ss {
		r.Rows = append(r.Rows, PeriodRow{
			SaleID:     s.ID,
			Code:       s.Code,
			SaleDate:   s.SaleDate,
			ClientName: s.ClientName,
			ClientCPF:  s.ClientCPF,
			SellerName: s.SellerName,
			ItemCount:  qty[s.ID],
			Total:      s.Total,
		})
		r.SalesCount++
		r.TotalValue = r.TotalValue.Add(s.Total)
		r.TotalItems = r.TotalItems.Add(qty[s.ID])
	}
	r.AvgTicket = avg(r.TotalValue, r.SalesCount)

	slices.SortStableFunc(r.Rows, func(a, b PeriodRow) int {
		if c := a.SaleDate.Compare(b.SaleDate); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
	return r
}

// BuildDashboard computes the home screen figures as of now.
func BuildDashboard(now time.Time, activeProducts int64, ss []*sales.Sale, items []sales.SaleItem) Dashboard {
	qty := quantities(ss, items)
	today := NewDateRange(now, now)
	y, m, _ := now.Date()
	month := NewDateRange(
		time.Date(y, m, 1, 0, 0, 0, 0, now.Location()),
		time.Date(y, m+1, 0, 0, 0, 0, 0, now.Location()),
	)

	d := Dashboard{
		ActiveProducts: activeProducts,
		TotalValue:     types.Zero(),
		TodayValue:     types.Zero(),
		MonthValue:     types.Zero(),
		MonthItems:     types.Zero(),
	}
	for _, s := range ss {
		d.SalesCount++
		d.TotalValue = d.TotalValue.Add(s.Total)
		if today.Contains(s.SaleDate) {
			d.TodayCount++
			d.TodayValue = d.TodayValue.Add(s.Total)
		}
		if month.Contains(s.SaleDate) {
			d.MonthValue = d.MonthValue.Add(s.Total)
			d.MonthItems = d.MonthItems.Add(qty[s.ID])
		}
	}
	return d
}
