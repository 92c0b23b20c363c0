// Package reports derives sales reports. The aggregation functions are pure:
// they only look at the slices they are given and return the same result for
// the same input. Service fetches the data and calls them.
package reports

import (
	"time"

	"pdv/internal/core/id"
	"pdv/internal/core/types"
	"pdv/internal/domain/payment"
)

// Filter selects the sales a report covers.
type Filter struct {
	Range    DateRange
	ClientID *id.ID
	SellerID *id.ID
	// Search matches client name, CPF or sale code
	Search string
	// ProductSearch matches product code or description in the by-product report.
	ProductSearch string
}

// --- By client ---

// ClientStat aggregates the sales of one client.
type ClientStat struct {
	ClientID        id.ID          `json:"clientId"`
	ClientName      string         `json:"clientName"`
	ClientCPF       string         `json:"clientCpf"`
	SalesCount      int            `json:"salesCount"`
	TotalValue      types.Money    `json:"totalValue"`
	TotalItems      types.Quantity `json:"totalItems"`
	AvgTicket       types.Money    `json:"avgTicket"`
	MostUsedPayment payment.Method `json:"mostUsedPayment"`
}

// --- By product ---

// ProductStat aggregates the items sold of one product.
type ProductStat struct {
	ProductID     id.ID          `json:"productId"`
	ProductCode   string         `json:"productCode"`
	Description   string         `json:"description"`
	TotalQuantity types.Quantity `json:"totalQuantity"`
	TotalRevenue  types.Money    `json:"totalRevenue"`
	AvgPrice      types.Money    `json:"avgPrice"`
	SalesCount    int            `json:"salesCount"`
	// MostUsedPayment is the most frequent first payment method among the
	// sales containing the product.
	MostUsedPayment payment.Method `json:"mostUsedPayment"`
	// Cost is the product's current cost; CostKnown is false when the
	// product no longer exists and margins assume zero cost.
	Cost               types.Money `json:"cost"`
	CostKnown          bool        `json:"costKnown"`
	GrossMargin        types.Money `json:"grossMargin"`
	GrossMarginPercent types.Money `json:"grossMarginPercent"`
}

// --- By seller ---

// NoSellerKey groups sales recorded without a seller.
const (
	NoSellerKey  = "no_seller"
	NoSellerName = "Sem vendedor"
)

// SellerStat aggregates the sales of one seller.
type SellerStat struct {
	SellerKey   string         `json:"sellerKey"`
	SellerID    *id.ID         `json:"sellerId,omitempty"`
	SellerName  string         `json:"sellerName"`
	SalesCount  int            `json:"salesCount"`
	TotalValue  types.Money    `json:"totalValue"`
	TotalItems  types.Quantity `json:"totalItems"`
	ClientCount int            `json:"clientCount"`
	AvgTicket   types.Money    `json:"avgTicket"`
}

// SellerReport lists sellers by value with the "no seller" group last.
type SellerReport struct {
	Sellers []SellerStat `json:"sellers"`
	// TopSeller is the best real seller; nil when no sale has a seller
	TopSeller   *SellerStat `json:"topSeller,omitempty"`
	SellerCount int         `json:"sellerCount"`
	SalesCount  int         `json:"salesCount"`
	TotalValue  types.Money `json:"totalValue"`
}

// --- By payment method ---

// PaymentStat aggregates one payment method over all sales.
type PaymentStat struct {
	Method     payment.Method `json:"method"`
	Label      string         `json:"label"`
	Count      int            `json:"count"`
	Total      types.Money    `json:"total"`
	Percentage types.Money    `json:"percentage"`
	// Card split, only for cartao_credito
	AVistaCount    int `json:"aVistaCount,omitempty"`
	ParceladoCount int `json:"parceladoCount,omitempty"`
}

// PaymentReport lists methods in display order.
type PaymentReport struct {
	Methods []PaymentStat `json:"methods"`
	Total   types.Money   `json:"total"`
	Count   int           `json:"count"`
}

// --- Summary and period ---

// SummaryReport is the plain aggregate of the filtered sales.
type SummaryReport struct {
	SalesCount    int            `json:"salesCount"`
	TotalValue    types.Money    `json:"totalValue"`
	TotalItems    types.Quantity `json:"totalItems"`
	AvgTicket     types.Money    `json:"avgTicket"`
	TotalDiscount types.Money    `json:"totalDiscount"`
	TopProducts   []ProductStat  `json:"topProducts"`
}

// PeriodRow is one sale in the period listing.
type PeriodRow struct {
	SaleID     id.ID          `json:"saleId"`
	Code       string         `json:"code"`
	SaleDate   time.Time      `json:"saleDate"`
	ClientName string         `json:"clientName"`
	ClientCPF  string         `json:"clientCpf"`
	SellerName string         `json:"sellerName,omitempty"`
	ItemCount  types.Quantity `json:"itemCount"`
	Total      types.Money    `json:"total"`
}

// PeriodReport lists sales chronologically with totals.
type PeriodReport struct {
	Rows       []PeriodRow    `json:"rows"`
	SalesCount int            `json:"salesCount"`
	TotalValue types.Money    `json:"totalValue"`
	TotalItems types.Quantity `json:"totalItems"`
	AvgTicket  types.Money    `json:"avgTicket"`
}

// --- Dashboard ---

// Dashboard holds the home screen figures.
type Dashboard struct {
	ActiveProducts int64          `json:"activeProducts"`
	SalesCount     int            `json:"salesCount"`
	TotalValue     types.Money    `json:"totalValue"`
	TodayCount     int            `json:"todayCount"`
	TodayValue     types.Money    `json:"todayValue"`
	MonthValue     types.Money    `json:"monthValue"`
	MonthItems     types.Quantity `json:"monthItems"`
}
