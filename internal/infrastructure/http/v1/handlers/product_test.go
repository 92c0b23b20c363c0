package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdv/internal/core/apperror"
	"pdv/internal/core/id"
	"pdv/internal/core/security"
	"pdv/internal/core/tx"
	"pdv/internal/domain"
	"pdv/internal/domain/catalogs/product"
	"pdv/internal/infrastructure/http/v1/dto"
	"pdv/internal/infrastructure/http/v1/handlers"
	"pdv/internal/infrastructure/http/v1/middleware"
)

type productRepo struct {
	items map[id.ID]*product.Product
}

func (r *productRepo) Create(_ context.Context, p *product.Product) error {
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *productRepo) GetByID(_ context.Context, pid id.ID) (*product.Product, error) {
	p, ok := r.items[pid]
	if !ok {
		return nil, apperror.NewNotFound("product", pid)
	}
	cp := *p
	return &cp, nil
}

func (r *productRepo) Update(_ context.Context, p *product.Product) error {
	cur, ok := r.items[p.ID]
	if !ok {
		return apperror.NewNotFound("product", p.ID)
	}
	if cur.Version != p.Version {
		return apperror.NewConcurrentModification("product", p.ID)
	}
	p.Touch()
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *productRepo) Delete(_ context.Context, pid id.ID) error {
	delete(r.items, pid)
	return nil
}

func (r *productRepo) List(_ context.Context, f domain.ListFilter) (domain.ListResult[*product.Product], error) {
	var out []*product.Product
	for _, p := range r.items {
		if f.ActiveOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return domain.ListResult[*product.Product]{Items: out, TotalCount: int64(len(out)), Limit: f.Limit}, nil
}

func (r *productRepo) ExistsByCode(_ context.Context, code string, excludeID id.ID) (bool, error) {
	for _, p := range r.items {
		if p.Code == code && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *productRepo) GetByIDs(context.Context, []id.ID) ([]*product.Product, error) {
	return nil, nil
}

func (r *productRepo) CountActive(context.Context) (int64, error) {
	return int64(len(r.items)), nil
}

func newProductEngine(t *testing.T) (*gin.Engine, *productRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	gate, err := security.NewPassphraseGate("", "2244")
	require.NoError(t, err)

	repo := &productRepo{items: map[id.ID]*product.Product{}}
	svc := product.NewService(repo, tx.Noop{}, gate)
	h := handlers.NewProductHandler(handlers.NewBaseHandler(nil), svc)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	g := r.Group("/products")
	g.GET("", h.List)
	g.GET("/sizes", h.Sizes)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	return r, repo
}

func send(r http.Handler, method, path, body, passphrase string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if passphrase != "" {
		req.Header.Set(middleware.HeaderPassphrase, passphrase)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestProductHandler_CreateRequiresPassphrase(t *testing.T) {
	r, repo := newProductEngine(t)
	body := `{"code":"001","description":"camiseta polo","cost":"20","salePrice":"49.90"}`

	w := send(r, http.MethodPost, "/products", body, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeInvalidPassphrase)
	assert.Empty(t, repo.items)

	w = send(r, http.MethodPost, "/products", body, "2244")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.ProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CAMISETA POLO", resp.Description)
	assert.True(t, resp.RequiresSize)
	assert.Equal(t, "49.9", resp.SalePrice.String())
}

func TestProductHandler_DuplicateCode(t *testing.T) {
	r, _ := newProductEngine(t)
	body := `{"code":"001","description":"bermuda","salePrice":"10"}`

	require.Equal(t, http.StatusCreated, send(r, http.MethodPost, "/products", body, "2244").Code)
	w := send(r, http.MethodPost, "/products", body, "2244")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeDuplicate)
}

func TestProductHandler_ValidationDetails(t *testing.T) {
	r, _ := newProductEngine(t)

	w := send(r, http.MethodPost, "/products", `{"code":""}`, "2244")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"description"`)
}

func TestProductHandler_UpdateOptimisticLock(t *testing.T) {
	r, _ := newProductEngine(t)

	w := send(r, http.MethodPost, "/products", `{"code":"002","description":"vestido","salePrice":"80"}`, "2244")
	require.Equal(t, http.StatusCreated, w.Code)
	var created dto.ProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = send(r, http.MethodPut, "/products/"+created.ID, `{"salePrice":"75","version":1}`, "2244")
	require.Equal(t, http.StatusOK, w.Code)
	var updated dto.ProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "75", updated.SalePrice.String())
	assert.Equal(t, 2, updated.Version)

	w = send(r, http.MethodPut, "/products/"+created.ID, `{"salePrice":"70","version":1}`, "2244")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeConcurrentModification)
}

func TestProductHandler_GetAndDelete(t *testing.T) {
	r, repo := newProductEngine(t)

	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodGet, "/products/not-a-uuid", "", "").Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodGet, "/products/"+id.New().String(), "", "").Code)

	p := product.NewProduct("003", "SAIA", domainMoney("10"), domainMoney("30"))
	repo.items[p.ID] = p

	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/products/"+p.ID.String(), "", "").Code)
	assert.Equal(t, http.StatusForbidden, send(r, http.MethodDelete, "/products/"+p.ID.String(), "", "0000").Code)
	assert.Equal(t, http.StatusNoContent, send(r, http.MethodDelete, "/products/"+p.ID.String(), "", "2244").Code)
	assert.Empty(t, repo.items)
}

func TestProductHandler_ListAndSizes(t *testing.T) {
	r, repo := newProductEngine(t)
	p := product.NewProduct("004", "BONE", domainMoney("5"), domainMoney("15"))
	repo.items[p.ID] = p

	w := send(r, http.MethodGet, "/products?limit=10", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.ListResponse[dto.ProductResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Items, 1)
	assert.EqualValues(t, 1, list.TotalCount)

	w = send(r, http.MethodGet, "/products/sizes", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"GG"`)
}
