package product

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdv/internal/core/apperror"
	"pdv/internal/core/id"
	"pdv/internal/core/security"
	"pdv/internal/core/tx"
	"pdv/internal/core/types"
	"pdv/internal/domain"
)

type memRepo struct {
	items map[id.ID]*Product
}

func newMemRepo() *memRepo { return &memRepo{items: map[id.ID]*Product{}} }

func (r *memRepo) Create(_ context.Context, p *Product) error {
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, pid id.ID) (*Product, error) {
	p, ok := r.items[pid]
	if !ok {
		return nil, apperror.NewNotFound("product", pid)
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) Update(_ context.Context, p *Product) error {
	if _, ok := r.items[p.ID]; !ok {
		return apperror.NewNotFound("product", p.ID)
	}
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *memRepo) Delete(_ context.Context, pid id.ID) error {
	delete(r.items, pid)
	return nil
}

func (r *memRepo) List(_ context.Context, f domain.ListFilter) (domain.ListResult[*Product], error) {
	var out []*Product
	for _, p := range r.items {
		if f.ActiveOnly && !p.Active {
			continue
		}
		if f.Search != "" && !strings.Contains(p.Description, strings.ToUpper(f.Search)) {
			continue
		}
		out = append(out, p)
	}
	return domain.ListResult[*Product]{Items: out, TotalCount: int64(len(out))}, nil
}

func (r *memRepo) ExistsByCode(_ context.Context, code string, excludeID id.ID) (bool, error) {
	for _, p := range r.items {
		if p.Code == code && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) GetByIDs(_ context.Context, ids []id.ID) ([]*Product, error) {
	var out []*Product
	for _, pid := range ids {
		if p, ok := r.items[pid]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, p := range r.items {
		if p.Active {
			n++
		}
	}
	return n, nil
}

func newTestService(t *testing.T) (*Service, *memRepo) {
	t.Helper()
	gate, err := security.NewPassphraseGate("", "2244")
	require.NoError(t, err)
	repo := newMemRepo()
	return NewService(repo, tx.Noop{}, gate), repo
}

func TestService_Create_NormalizesDescription(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	p := NewProduct(" 001 ", "camiseta básica", types.MustMoney("20"), types.MustMoney("49.90"))
	require.NoError(t, svc.Create(ctx, "2244", p))

	stored := repo.items[p.ID]
	assert.Equal(t, "001", stored.Code)
	assert.Equal(t, "CAMISETA BÁSICA", stored.Description)
	assert.True(t, stored.RequiresSize())
}

func TestService_Create_WrongPassphrase(t *testing.T) {
	svc, repo := newTestService(t)

	p := NewProduct("001", "caneca", types.MustMoney("5"), types.MustMoney("15"))
	err := svc.Create(context.Background(), "1234", p)

	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidPassphrase))
	assert.Empty(t, repo.items)
}

func TestService_Create_DuplicateCode(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "2244", NewProduct("001", "caneca", types.Zero(), types.MustMoney("15"))))
	err := svc.Create(ctx, "2244", NewProduct("001", "boné", types.Zero(), types.MustMoney("30")))

	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))
}

func TestService_Update_SameCodeAllowed(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p := NewProduct("001", "caneca", types.Zero(), types.MustMoney("15"))
	require.NoError(t, svc.Create(ctx, "2244", p))

	p.SalePrice = types.MustMoney("17.50")
	require.NoError(t, svc.Update(ctx, "2244", p))
}

func TestService_Create_NegativePrice(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Create(context.Background(), "2244", NewProduct("002", "caneca", types.Zero(), types.MustMoney("-1")))
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestService_ListActive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	active := NewProduct("001", "caneca", types.Zero(), types.MustMoney("15"))
	inactive := NewProduct("002", "caneca velha", types.Zero(), types.MustMoney("10"))
	inactive.Active = false
	require.NoError(t, svc.Create(ctx, "2244", active))
	require.NoError(t, svc.Create(ctx, "2244", inactive))

	got, err := svc.ListActive(ctx, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, active.ID, got[0].ID)
}

func TestService_Delete(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	p := NewProduct("001", "caneca", types.Zero(), types.MustMoney("15"))
	require.NoError(t, svc.Create(ctx, "2244", p))

	assert.Error(t, svc.Delete(ctx, "", p.ID))
	require.NoError(t, svc.Delete(ctx, "2244", p.ID))
	assert.Empty(t, repo.items)

	err := svc.Delete(ctx, "2244", p.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestSizes(t *testing.T) {
	assert.True(t, ValidSize("GG"))
	assert.True(t, ValidSize("8"))
	assert.False(t, ValidSize("XXL"))
	assert.False(t, ValidSize(""))
	assert.True(t, RequiresSize("CAMISETA POLO"))
	assert.False(t, RequiresSize("BERMUDA"))
	assert.Equal(t, "CAMISETA - Tam: M", DescriptionWithSize("CAMISETA", "M"))
	assert.Equal(t, "CANECA", DescriptionWithSize("CANECA", ""))
}
