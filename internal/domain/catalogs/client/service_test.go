package client

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdv/internal/core/apperror"
	"pdv/internal/core/id"
	"pdv/internal/core/security"
	"pdv/internal/core/tx"
	"pdv/internal/domain"
)

type memRepo struct {
	items map[id.ID]*Client
}

func (r *memRepo) Create(_ context.Context, c *Client) error {
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, cid id.ID) (*Client, error) {
	c, ok := r.items[cid]
	if !ok {
		return nil, apperror.NewNotFound("client", cid)
	}
	cp := *c
	return &cp, nil
}

func (r *memRepo) Update(_ context.Context, c *Client) error {
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *memRepo) Delete(_ context.Context, cid id.ID) error {
	delete(r.items, cid)
	return nil
}

func (r *memRepo) List(_ context.Context, f domain.ListFilter) (domain.ListResult[*Client], error) {
	var out []*Client
	term := strings.ToUpper(f.Search)
	for _, c := range r.items {
		if term != "" && !strings.Contains(c.Name, term) && !strings.Contains(c.CPF, term) {
			continue
		}
		out = append(out, c)
	}
	return domain.ListResult[*Client]{Items: out, TotalCount: int64(len(out))}, nil
}

func (r *memRepo) ExistsByCPF(_ context.Context, value string, excludeID id.ID) (bool, error) {
	for _, c := range r.items {
		if c.CPF == value && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) FindByCPF(_ context.Context, value string) (*Client, error) {
	for _, c := range r.items {
		if c.CPF == value {
			return c, nil
		}
	}
	return nil, apperror.NewNotFound("client", value)
}

func newTestService(t *testing.T) (*Service, *memRepo) {
	t.Helper()
	gate, err := security.NewPassphraseGate("", "2244")
	require.NoError(t, err)
	repo := &memRepo{items: map[id.ID]*Client{}}
	return NewService(repo, tx.Noop{}, gate), repo
}

var birth = time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)

func TestService_Create(t *testing.T) {
	svc, repo := newTestService(t)

	c := NewClient("529.982.247-25", "  maria souza ", "(11) 98765-4321", birth)
	require.NoError(t, svc.Create(context.Background(), c))

	stored := repo.items[c.ID]
	assert.Equal(t, "52998224725", stored.CPF)
	assert.Equal(t, "MARIA SOUZA", stored.Name)
	assert.Equal(t, "11987654321", stored.Phone)
	assert.Equal(t, "529.982.247-25", stored.MaskedCPF())
}

func TestService_Create_InvalidCPF(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, value := range []string{"111.111.111-11", "529.982.247-26", "123"} {
		err := svc.Create(ctx, NewClient(value, "joão", "11987654321", birth))
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidCPF), value)
	}
}

func TestService_Create_DuplicateCPF(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, NewClient("52998224725", "maria", "11987654321", birth)))
	err := svc.Create(ctx, NewClient("529.982.247-25", "outra maria", "11987654321", birth))

	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))
}

func TestService_Create_MissingFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	err := svc.Create(ctx, NewClient("52998224725", "", "11987654321", birth))
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	err = svc.Create(ctx, NewClient("52998224725", "maria", "123", birth))
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	err = svc.Create(ctx, NewClient("52998224725", "maria", "11987654321", time.Time{}))
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestService_Delete_RequiresPassphrase(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	c := NewClient("52998224725", "maria", "11987654321", birth)
	require.NoError(t, svc.Create(ctx, c))

	err := svc.Delete(ctx, "0000", c.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidPassphrase))
	assert.Len(t, repo.items, 1)

	require.NoError(t, svc.Delete(ctx, "2244", c.ID))
	assert.Empty(t, repo.items)
}

func TestService_FindByCPF(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	c := NewClient("52998224725", "maria", "11987654321", birth)
	require.NoError(t, svc.Create(ctx, c))

	got, err := svc.FindByCPF(ctx, "529.982.247-25")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = svc.FindByCPF(ctx, "111.444.777-35")
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.FindByCPF(ctx, "000.000.000-00")
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidCPF))
}

func TestService_Search(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, NewClient("52998224725", "maria", "11987654321", birth)))
	require.NoError(t, svc.Create(ctx, NewClient("11144477735", "joão", "11987654321", birth)))

	got, err := svc.Search(ctx, "mar", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "MARIA", got[0].Name)

	got, err = svc.Search(ctx, "111444", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "JOÃO", got[0].Name)
}
