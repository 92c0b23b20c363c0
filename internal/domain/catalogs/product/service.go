package product

import (
	"context"

	"pdv/internal/core/apperror"
	"pdv/internal/core/id"
	"pdv/internal/core/tx"
	"pdv/internal/domain"
)

// Service provides business logic for the product catalog.
// Create, Update and Delete require the shop passphrase.
type Service struct {
	*domain.CatalogService[*Product]
	repo Repository
	gate domain.Gate
}

// NewService creates a new product service.
func NewService(repo Repository, txm tx.Manager, gate domain.Gate) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		gate:           gate,
	}

	base.Hooks().OnBeforeCreate(svc.prepare)
	base.Hooks().OnBeforeUpdate(svc.prepare)

	return svc
}

func (s *Service) prepare(ctx context.Context, p *Product) error {
	p.Normalize()
	if p.Code == "" {
		return nil
	}
	exists, err := s.repo.ExistsByCode(ctx, p.Code, p.ID)
	if err != nil {
		return err
	}
	if exists {
		return apperror.NewDuplicate("product", "code", p.Code)
	}
	return nil
}

// Create checks the passphrase and stores a new product.
func (s *Service) Create(ctx context.Context, passphrase string, p *Product) error {
	if err := s.gate.Check(passphrase); err != nil {
		return err
	}
	return s.CatalogService.Create(ctx, p)
}

// Update checks the passphrase and saves the product.
func (s *Service) Update(ctx context.Context, passphrase string, p *Product) error {
	if err := s.gate.Check(passphrase); err != nil {
		return err
	}
	return s.CatalogService.Update(ctx, p)
}

// Delete checks the passphrase and removes the product.
func (s *Service) Delete(ctx context.Context, passphrase string, productID id.ID) error {
	if err := s.gate.Check(passphrase); err != nil {
		return err
	}
	return s.CatalogService.Delete(ctx, productID)
}

// ListActive returns the products offered by the sale item picker.
func (s *Service) ListActive(ctx context.Context, search string) ([]*Product, error) {
	filter := domain.DefaultListFilter()
	filter.ActiveOnly = true
	filter.Search = search
	filter.Limit = 0
	res, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

// GetByIDs loads several products at once (reports use the current cost).
func (s *Service) GetByIDs(ctx context.Context, ids []id.ID) ([]*Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.repo.GetByIDs(ctx, ids)
}

// CountActive returns the number of active products.
func (s *Service) CountActive(ctx context.Context) (int64, error) {
	return s.repo.CountActive(ctx)
}
