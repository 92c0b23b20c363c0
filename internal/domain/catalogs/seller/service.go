package seller

import (
	"context"

	"pdv/internal/core/apperror"
	"pdv/internal/core/id"
	"pdv/internal/core/tx"
	"pdv/internal/domain"
)

// Service provides business logic for the seller registry.
// All mutations require the shop passphrase.
type Service struct {
	*domain.CatalogService[*Seller]
	repo Repository
	gate domain.Gate
}

// NewService creates a new seller service.
func NewService(repo Repository, txm tx.Manager, gate domain.Gate) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Seller]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "seller",
	})

	svc := &Service{CatalogService: base, repo: repo, gate: gate}

	normalize := func(_ context.Context, s *Seller) error {
		s.Normalize()
		return nil
	}
	base.Hooks().OnBeforeCreate(normalize)
	base.Hooks().OnBeforeUpdate(normalize)

	return svc
}

// Create checks the passphrase and stores the seller.
func (s *Service) Create(ctx context.Context, passphrase string, sl *Seller) error {
	if err := s.gate.Check(passphrase); err != nil {
		return err
	}
	return s.CatalogService.Create(ctx, sl)
}

// Update checks the passphrase and saves the seller.
func (s *Service) Update(ctx context.Context, passphrase string, sl *Seller) error {
	if err := s.gate.Check(passphrase); err != nil {
		return err
	}
	return s.CatalogService.Update(ctx, sl)
}

// Delete checks the passphrase and removes the seller.
func (s *Service) Delete(ctx context.Context, passphrase string, sellerID id.ID) error {
	if err := s.gate.Check(passphrase); err != nil {
		return err
	}
	return s.CatalogService.Delete(ctx, sellerID)
}

// ListActive returns the sellers offered when starting a sale.
func (s *Service) ListActive(ctx context.Context) ([]*Seller, error) {
	filter := domain.DefaultListFilter()
	filter.ActiveOnly = true
	filter.OrderBy = "name"
	filter.Limit = 0
	res, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

// GetActive loads a seller and rejects inactive ones.
func (s *Service) GetActive(ctx context.Context, sellerID id.ID) (*Seller, error) {
	sl, err := s.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if !sl.Active {
		return nil, apperror.NewValidation("seller is inactive").WithDetail("sellerId", sellerID.String())
	}
	return sl, nil
}
