package seller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdv/internal/core/apperror"
	"pdv/internal/core/id"
	"pdv/internal/core/security"
	"pdv/internal/core/tx"
	"pdv/internal/domain"
)

type memRepo struct {
	items map[id.ID]*Seller
}

func (r *memRepo) Create(_ context.Context, s *Seller) error {
	cp := *s
	r.items[s.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, sid id.ID) (*Seller, error) {
	s, ok := r.items[sid]
	if !ok {
		return nil, apperror.NewNotFound("seller", sid)
	}
	cp := *s
	return &cp, nil
}

func (r *memRepo) Update(_ context.Context, s *Seller) error {
	cp := *s
	r.items[s.ID] = &cp
	return nil
}

func (r *memRepo) Delete(_ context.Context, sid id.ID) error {
	delete(r.items, sid)
	return nil
}

func (r *memRepo) List(_ context.Context, f domain.ListFilter) (domain.ListResult[*Seller], error) {
	var out []*Seller
	for _, s := range r.items {
		if f.ActiveOnly && !s.Active {
			continue
		}
		out = append(out, s)
	}
	return domain.ListResult[*Seller]{Items: out, TotalCount: int64(len(out))}, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	gate, err := security.NewPassphraseGate("", "2244")
	require.NoError(t, err)
	return NewService(&memRepo{items: map[id.ID]*Seller{}}, tx.Noop{}, gate)
}

func TestService_Lifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	s := NewSeller(" Ana ", "(11) 3333-4444")
	assert.True(t, apperror.HasCode(svc.Create(ctx, "", s), apperror.CodeInvalidPassphrase))
	require.NoError(t, svc.Create(ctx, "2244", s))
	assert.Equal(t, "Ana", s.Name)
	assert.Equal(t, "1133334444", s.Phone)

	got, err := svc.GetActive(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	s.Active = false
	require.NoError(t, svc.Update(ctx, "2244", s))

	_, err = svc.GetActive(ctx, s.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, svc.Delete(ctx, "2244", s.ID))
	_, err = svc.GetByID(ctx, s.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_Create_EmptyName(t *testing.T) {
	svc := newTestService(t)
	err := svc.Create(context.Background(), "2244", NewSeller("  ", ""))
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}
