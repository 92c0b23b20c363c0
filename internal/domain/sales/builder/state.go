// Package builder models the three-step sale session: choosing the parties,
// assembling the item lines and settling the payment.
//
// Each step is its own type. Transitions are value methods that return a new
// state and never modify the receiver, so an earlier state can be kept and
// resumed (the Back transitions rely on this).
package builder

import (
	"pdv/internal/core/id"
	"pdv/internal/core/types"
	"pdv/internal/domain/payment"
)

// Step identifies the variant of a State.
type Step int

const (
	StepParty Step = iota + 1
	StepItems
	StepSettlement
)

func (s Step) String() string {
	switch s {
	case StepParty:
		return "party"
	case StepItems:
		return "items"
	case StepSettlement:
		return "settlement"
	}
	return "unknown"
}

// State is implemented by PartyState, ItemsState and SettlementState only.
type State interface {
	Step() Step
	sealed()
}

// ClientRef is the client data copied onto the sale.
type ClientRef struct {
	ID   id.ID
	Name string
	CPF  string
}

// SellerRef is the seller data copied onto the sale.
type SellerRef struct {
	ID     id.ID
	Name   string
	Active bool
}

// ProductRef is the product data needed to add a line.
type ProductRef struct {
	ID          id.ID
	Code        string
	Description string
	SalePrice   types.Money
	Active      bool
}

// ItemInput is one "add item" action.
type ItemInput struct {
	Product   ProductRef
	Size      string
	Quantity  types.Quantity
	UnitPrice types.Money
}

// Line is an item line with its computed total.
type Line struct {
	ProductID          id.ID
	ProductCode        string
	ProductDescription string
	Size               string
	Quantity           types.Quantity
	UnitPrice          types.Money
	Total              types.Money
}

// Draft is the finished session, ready to be persisted.
type Draft struct {
	Client   ClientRef
	Seller   SellerRef
	Lines    []Line
	Subtotal types.Money
	Discount types.Money
	Total    types.Money
	Payments []payment.Entry
}

// CashAmount is the part of the draft paid in cash.
func (d Draft) CashAmount() types.Money {
	return payment.CashAmount(d.Payments)
}
