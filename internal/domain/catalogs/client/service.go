package client

import (
	"context"

	"pdv/internal/core/apperror"
	"pdv/internal/core/cpf"
	"pdv/internal/core/id"
	"pdv/internal/core/tx"
	"pdv/internal/domain"
)

// Service provides business logic for the client registry.
// Only Delete is passphrase-gated; operators register clients at the counter.
type Service struct {
	*domain.CatalogService[*Client]
	repo Repository
	gate domain.Gate
}

// NewService creates a new client service.
func NewService(repo Repository, txm tx.Manager, gate domain.Gate) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Client]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "client",
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

// prepare normalizes the record and rejects a CPF owned by another client.
func (s *Service) prepare(ctx context.Context, c *Client) error {
	c.Normalize()
	if !cpf.Valid(c.CPF) {
		return apperror.NewInvalidCPF(c.CPF)
	}
	exists, err := s.repo.ExistsByCPF(ctx, c.CPF, c.ID)
	if err != nil {
		return err
	}
	if exists {
		return apperror.NewDuplicate("client", "cpf", cpf.Mask(c.CPF))
	}
	return nil
}

// Delete checks the passphrase and removes the client.
// Past sales keep the client's name and CPF snapshot.
func (s *Service) Delete(ctx context.Context, passphrase string, clientID id.ID) error {
	if err := s.gate.Check(passphrase); err != nil {
		return err
	}
	return s.CatalogService.Delete(ctx, clientID)
}

// FindByCPF accepts a masked or unmasked CPF.
func (s *Service) FindByCPF(ctx context.Context, value string) (*Client, error) {
	digits := cpf.Digits(value)
	if !cpf.Valid(digits) {
		return nil, apperror.NewInvalidCPF(value)
	}
	c, err := s.repo.FindByCPF(ctx, digits)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("client", cpf.Mask(digits))
		}
		return nil, err
	}
	return c, nil
}

// Search matches name or CPF.
func (s *Service) Search(ctx context.Context, term string, limit int) ([]*Client, error) {
	filter := domain.DefaultListFilter()
	filter.Search = term
	if limit > 0 {
		filter.Limit = limit
	}
	filter.OrderBy = "name"
	res, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}
