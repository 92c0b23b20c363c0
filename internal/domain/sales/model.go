// Package sales records finished sales. A sale and its items are written in
// one transaction and never updated afterwards; client, seller and product
// data are copied onto the records so history does not change when the
// registries do.
package sales

import (
	"fmt"
	"strconv"
	"time"

	"pdv/internal/core/entity"
	"pdv/internal/core/id"
	"pdv/internal/core/types"
	"pdv/internal/domain/payment"
	"pdv/internal/domain/sales/builder"
)

// Sale is a persisted sale with snapshot fields.
type Sale struct {
	entity.BaseEntity

	// Code is YYYYMM followed by a 6-digit counter restarting monthly
	Code     string    `db:"code" json:"code"`
	SaleDate time.Time `db:"sale_date" json:"saleDate"`

	ClientID   id.ID  `db:"client_id" json:"clientId"`
	ClientName string `db:"client_name" json:"clientName"`
	ClientCPF  string `db:"client_cpf" json:"clientCpf"`

	SellerID   *id.ID `db:"seller_id" json:"sellerId,omitempty"`
	SellerName string `db:"seller_name" json:"sellerName,omitempty"`

	Subtotal types.Money `db:"subtotal" json:"subtotal"`
	Discount types.Money `db:"discount" json:"discount"`
	Total    types.Money `db:"total" json:"total"`

	PaymentMethods []payment.Entry `db:"payment_methods" json:"paymentMethods"`

	CreatedBy string `db:"created_by" json:"createdBy,omitempty"`

	Items []SaleItem `db:"-" json:"items,omitempty"`
}

// SaleItem is one line of a sale.
type SaleItem struct {
	ID     id.ID `db:"id" json:"id"`
	SaleID id.ID `db:"sale_id" json:"saleId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID          id.ID  `db:"product_id" json:"productId"`
	ProductCode        string `db:"product_code" json:"productCode"`
	ProductDescription string `db:"product_description" json:"productDescription"`
	Size               string `db:"size" json:"size,omitempty"`

	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice types.Money    `db:"unit_price" json:"unitPrice"`
	Total     types.Money    `db:"total" json:"total"`
}

// NewSale builds the records to persist from a finished builder session.
func NewSale(d builder.Draft, code string, saleDate time.Time, createdBy string) *Sale {
	s := &Sale{
		BaseEntity:     entity.NewBaseEntity(),
		Code:           code,
		SaleDate:       saleDate,
		ClientID:       d.Client.ID,
		ClientName:     d.Client.Name,
		ClientCPF:      d.Client.CPF,
		Subtotal:       d.Subtotal,
		Discount:       d.Discount,
		Total:          d.Total,
		PaymentMethods: append([]payment.Entry(nil), d.Payments...),
		CreatedBy:      createdBy,
	}
	if !id.IsNil(d.Seller.ID) {
		sellerID := d.Seller.ID
		s.SellerID = &sellerID
		s.SellerName = d.Seller.Name
	}

	s.Items = make([]SaleItem, 0, len(d.Lines))
	for i, l := range d.Lines {
		s.Items = append(s.Items, SaleItem{
			ID:                 id.New(),
			SaleID:             s.ID,
			LineNo:             i + 1,
			ProductID:          l.ProductID,
			ProductCode:        l.ProductCode,
			ProductDescription: l.ProductDescription,
			Size:               l.Size,
			Quantity:           l.Quantity,
			UnitPrice:          l.UnitPrice,
			Total:              l.Total,
		})
	}
	return s
}

// CashAmount is the part of the sale paid in cash.
func (s *Sale) CashAmount() types.Money {
	return payment.CashAmount(s.PaymentMethods)
}

// PrimaryPaymentMethod is the first payment method of the sale.
func (s *Sale) PrimaryPaymentMethod() payment.Method {
	if len(s.PaymentMethods) == 0 {
		return ""
	}
	return s.PaymentMethods[0].Method
}

// ItemQuantity sums item quantities.
func (s *Sale) ItemQuantity() types.Quantity {
	q := types.Zero()
	for _, it := range s.Items {
		q = q.Add(it.Quantity)
	}
	return q
}

const (
	codePeriodLen = 6
	codeSeqLen    = 6
)

// ParseSaleCode splits a sale code into its month and counter.
func ParseSaleCode(code string) (time.Time, int64, error) {
	if len(code) != codePeriodLen+codeSeqLen {
		return time.Time{}, 0, fmt.Errorf("sale code %q: want %d digits", code, codePeriodLen+codeSeqLen)
	}
	period, err := time.Parse("200601", code[:codePeriodLen])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("sale code %q: bad period: %w", code, err)
	}
	seq, err := strconv.ParseInt(code[codePeriodLen:], 10, 64)
	if err != nil || seq < 1 {
		return time.Time{}, 0, fmt.Errorf("sale code %q: bad sequence", code)
	}
	return period, seq, nil
}
