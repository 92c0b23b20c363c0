// Package payment implements the settlement of a sale total across one or
// more payment methods.
package payment

// Method identifies how (part of) a sale was paid.
type Method string

const (
	Cash       Method = "dinheiro"
	Pix        Method = "pix"
	CreditCard Method = "cartao_credito"
	Exchange   Method = "troca"
)

// Methods lists every method in display order.
var Methods = []Method{Cash, Pix, CreditCard, Exchange}

// Valid reports whether m is a known method.
func (m Method) Valid() bool {
	switch m {
	case Cash, Pix, CreditCard, Exchange:
		return true
	}
	return false
}

// Label is the name printed on receipts and reports.
func (m Method) Label() string {
	switch m {
	case Cash:
		return "Dinheiro"
	case Pix:
		return "PIX"
	case CreditCard:
		return "Cartão de Crédito"
	case Exchange:
		return "Troca"
	}
	return string(m)
}

// CardType is the credit card settlement mode.
type CardType string

const (
	AVista    CardType = "a_vista"
	Parcelado CardType = "parcelado"
)

// Valid reports whether t is a known card type.
func (t CardType) Valid() bool {
	return t == AVista || t == Parcelado
}

// Label is the receipt label of the card type.
func (t CardType) Label() string {
	switch t {
	case AVista:
		return "À vista"
	case Parcelado:
		return "Parcelado"
	}
	return string(t)
}

// Installment bounds. The selector offers 1..MaxInstallments; a parcelado
// entry needs at least MinParcelado.
const (
	MaxInstallments = 10
	MinParcelado    = 2
)
