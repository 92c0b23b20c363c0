package dto

import (
	"time"

	"pdv/internal/core/apperror"
	"pdv/internal/core/cpf"
	"pdv/internal/core/id"
	"pdv/internal/core/types"
	"pdv/internal/domain/payment"
	"pdv/internal/domain/sales"
)

// --- Checkout ---

// CheckoutItemRequest is one sale line. UnitPrice defaults to the product's
// sale price.
type CheckoutItemRequest struct {
	ProductID string         `json:"productId" binding:"required,uuid"`
	Size      string         `json:"size" binding:"omitempty,max=4"`
	Quantity  types.Quantity `json:"quantity"`
	UnitPrice *types.Money   `json:"unitPrice"`
}

// PaymentRequest is one payment entry.
type PaymentRequest struct {
	Method       string      `json:"method" binding:"required,oneof=dinheiro pix cartao_credito troca"`
	Amount       types.Money `json:"amount"`
	PaymentType  string      `json:"payment_type" binding:"omitempty,oneof=a_vista parcelado"`
	Installments int         `json:"installments" binding:"omitempty,min=1,max=10"`
}

// CheckoutRequest submits a whole sale.
type CheckoutRequest struct {
	ClientID string                `json:"clientId" binding:"required,uuid"`
	SellerID string                `json:"sellerId" binding:"omitempty,uuid"`
	Items    []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount types.Money           `json:"discount"`
	Payments []PaymentRequest      `json:"payments" binding:"required,min=1,dive"`
}

// ToDomain converts the request into service input.
func (r *CheckoutRequest) ToDomain() (sales.CheckoutInput, error) {
	clientID, err := id.Parse(r.ClientID)
	if err != nil {
		return sales.CheckoutInput{}, apperror.NewValidation("invalid id format").WithDetail("field", "clientId")
	}
	in := sales.CheckoutInput{
		ClientID: clientID,
		Discount: r.Discount,
		Items:    make([]sales.CheckoutItem, 0, len(r.Items)),
		Payments: make([]payment.Entry, 0, len(r.Payments)),
	}
	if sellerID, err := ParseOptionalID("sellerId", r.SellerID); err != nil {
		return sales.CheckoutInput{}, err
	} else if sellerID != nil {
		in.SellerID = *sellerID
	}

	for i, it := range r.Items {
		productID, err := id.Parse(it.ProductID)
		if err != nil {
			return sales.CheckoutInput{}, apperror.NewValidation("invalid id format").
				WithDetail("field", "productId").
				WithDetail("index", i)
		}
		in.Items = append(in.Items, sales.CheckoutItem{
			ProductID: productID,
			Size:      it.Size,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	for _, p := range r.Payments {
		in.Payments = append(in.Payments, payment.Entry{
			Method:       payment.Method(p.Method),
			Amount:       p.Amount,
			PaymentType:  payment.CardType(p.PaymentType),
			Installments: p.Installments,
		})
	}
	return in, nil
}

// --- Sale responses ---

// SaleItemResponse is one stored line.
type SaleItemResponse struct {
	LineNo             int            `json:"lineNo"`
	ProductID          string         `json:"productId"`
	ProductCode        string         `json:"productCode"`
	ProductDescription string         `json:"productDescription"`
	Size               string         `json:"size,omitempty"`
	Quantity           types.Quantity `json:"quantity"`
	UnitPrice          types.Money    `json:"unitPrice"`
	Total              types.Money    `json:"total"`
}

// PaymentResponse is one stored payment with its display label.
type PaymentResponse struct {
	Method       payment.Method   `json:"method"`
	Label        string           `json:"label"`
	Amount       types.Money      `json:"amount"`
	PaymentType  payment.CardType `json:"payment_type,omitempty"`
	Installments int              `json:"installments,omitempty"`
}

// SaleResponse is a stored sale. Items are present on single-sale reads.
type SaleResponse struct {
	ID         string             `json:"id"`
	Code       string             `json:"code"`
	SaleDate   time.Time          `json:"saleDate"`
	ClientID   string             `json:"clientId"`
	ClientName string             `json:"clientName"`
	ClientCPF  string             `json:"clientCpf"`
	SellerID   *string            `json:"sellerId,omitempty"`
	SellerName string             `json:"sellerName,omitempty"`
	Subtotal   types.Money        `json:"subtotal"`
	Discount   types.Money        `json:"discount"`
	Total      types.Money        `json:"total"`
	Payments   []PaymentResponse  `json:"payments"`
	Items      []SaleItemResponse `json:"items,omitempty"`
	CreatedBy  string             `json:"createdBy,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// FromSale maps a sale with whatever items it carries.
func FromSale(s *sales.Sale) SaleResponse {
	resp := SaleResponse{
		ID:         s.ID.String(),
		Code:       s.Code,
		SaleDate:   s.SaleDate,
		ClientID:   s.ClientID.String(),
		ClientName: s.ClientName,
		ClientCPF:  cpf.Mask(s.ClientCPF),
		SellerName: s.SellerName,
		Subtotal:   s.Subtotal,
		Discount:   s.Discount,
		Total:      s.Total,
		Payments:   make([]PaymentResponse, 0, len(s.PaymentMethods)),
		CreatedBy:  s.CreatedBy,
		CreatedAt:  s.CreatedAt,
	}
	if s.SellerID != nil {
		v := s.SellerID.String()
		resp.SellerID = &v
	}
	for _, p := range s.PaymentMethods {
		resp.Payments = append(resp.Payments, PaymentResponse{
			Method:       p.Method,
			Label:        p.Method.Label(),
			Amount:       p.Amount,
			PaymentType:  p.PaymentType,
			Installments: p.Installments,
		})
	}
	for _, it := range s.Items {
		resp.Items = append(resp.Items, SaleItemResponse{
			LineNo:             it.LineNo,
			ProductID:          it.ProductID.String(),
			ProductCode:        it.ProductCode,
			ProductDescription: it.ProductDescription,
			Size:               it.Size,
			Quantity:           it.Quantity,
			UnitPrice:          it.UnitPrice,
			Total:              it.Total,
		})
	}
	return resp
}

// SaleListQuery filters the sales history.
type SaleListQuery struct {
	ListQuery
	ClientID string `form:"clientId" binding:"omitempty,uuid"`
	SellerID string `form:"sellerId" binding:"omitempty,uuid"`
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

// ToFilter builds the repository filter. Dates are whole days in loc.
func (q SaleListQuery) ToFilter(loc *time.Location) (sales.ListFilter, error) {
	f := sales.ListFilter{ListFilter: q.ListQuery.ToFilter()}
	var err error
	if f.ClientID, err = ParseOptionalID("clientId", q.ClientID); err != nil {
		return f, err
	}
	if f.SellerID, err = ParseOptionalID("sellerId", q.SellerID); err != nil {
		return f, err
	}
	if q.DateFrom != "" {
		t, err := time.ParseInLocation(DateLayout, q.DateFrom, loc)
		if err != nil {
			return f, apperror.NewValidation("date_from must be YYYY-MM-DD")
		}
		f.DateFrom = &t
	}
	if q.DateTo != "" {
		t, err := time.ParseInLocation(DateLayout, q.DateTo, loc)
		if err != nil {
			return f, apperror.NewValidation("date_to must be YYYY-MM-DD")
		}
		end := t.AddDate(0, 0, 1).Add(-time.Millisecond)
		f.DateTo = &end
	}
	return f, nil
}
