package sales

import (
	"time"

	"pdv/internal/core/cpf"
	"pdv/internal/core/types"
	"pdv/internal/domain/payment"
)

// Receipt holds the values printed on a sale receipt. Layout is left to the
// caller.
type Receipt struct {
	Code       string           `json:"code"`
	Date       time.Time        `json:"date"`
	ClientName string           `json:"clientName"`
	ClientCPF  string           `json:"clientCpf"`
	SellerName string           `json:"sellerName,omitempty"`
	Lines      []ReceiptLine    `json:"lines"`
	Subtotal   types.Money      `json:"subtotal"`
	Discount   types.Money      `json:"discount"`
	Total      types.Money      `json:"total"`
	Payments   []ReceiptPayment `json:"payments"`
}

// ReceiptLine is one printed item.
type ReceiptLine struct {
	Description string         `json:"description"`
	Quantity    types.Quantity `json:"quantity"`
	UnitPrice   types.Money    `json:"unitPrice"`
	Total       types.Money    `json:"total"`
}

// ReceiptPayment is one printed payment with its card terms.
type ReceiptPayment struct {
	Label            string      `json:"label"`
	Amount           types.Money `json:"amount"`
	Terms            string      `json:"terms,omitempty"`
	Installments     int         `json:"installments,omitempty"`
	InstallmentValue types.Money `json:"installmentValue"`
}

// BuildReceipt renders the receipt values of a sale loaded with its items.
func BuildReceipt(s *Sale) Receipt {
	r := Receipt{
		Code:       s.Code,
		Date:       s.SaleDate,
		ClientName: s.ClientName,
		ClientCPF:  cpf.Mask(s.ClientCPF),
		SellerName: s.SellerName,
		Subtotal:   s.Subtotal,
		Discount:   s.Discount,
		Total:      s.Total,
		Lines:      make([]ReceiptLine, 0, len(s.Items)),
		Payments:   make([]ReceiptPayment, 0, len(s.PaymentMethods)),
	}
	for _, it := range s.Items {
		r.Lines = append(r.Lines, ReceiptLine{
			Description: it.ProductDescription,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		})
	}
	for _, p := range s.PaymentMethods {
		rp := ReceiptPayment{Label: p.Method.Label(), Amount: p.Amount}
		if p.Method == payment.CreditCard {
			rp.Terms = p.PaymentType.Label()
			rp.Installments = p.Installments
			rp.InstallmentValue = p.InstallmentValue()
		}
		r.Payments = append(r.Payments, rp)
	}
	return r
}
