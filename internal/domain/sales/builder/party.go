package builder

import (
	"pdv/internal/core/apperror"
)

// PartyState is the first step: a client and an active seller must be chosen.
type PartyState struct {
	client *ClientRef
	seller *SellerRef
}

// NewSession starts an empty sale session.
func NewSession() PartyState {
	return PartyState{}
}

func (PartyState) Step() Step { return StepParty }
func (PartyState) sealed()    {}

// Client returns the selected client.
func (s PartyState) Client() (ClientRef, bool) {
	if s.client == nil {
		return ClientRef{}, false
	}
	return *s.client, true
}

// Seller returns the selected seller.
func (s PartyState) Seller() (SellerRef, bool) {
	if s.seller == nil {
		return SellerRef{}, false
	}
	return *s.seller, true
}

// WithClient selects the client.
func (s PartyState) WithClient(c ClientRef) PartyState {
	s.client = &c
	return s
}

// WithSeller selects the seller. Inactive sellers cannot be chosen.
func (s PartyState) WithSeller(sl SellerRef) (PartyState, error) {
	if !sl.Active {
		return s, apperror.NewValidation("seller is inactive").
			WithDetail("field", "sellerId").
			WithDetail("sellerId", sl.ID.String())
	}
	s.seller = &sl
	return s, nil
}

// Next advances to the items step.
func (s PartyState) Next() (ItemsState, error) {
	if s.client == nil {
		return ItemsState{}, apperror.NewValidation("select a client").WithDetail("field", "clientId")
	}
	if s.seller == nil {
		return ItemsState{}, apperror.NewValidation("select a seller").WithDetail("field", "sellerId")
	}
	return ItemsState{party: s}, nil
}
