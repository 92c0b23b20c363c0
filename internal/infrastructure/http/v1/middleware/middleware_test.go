package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdv/internal/core/apperror"
	appctx "pdv/internal/core/context"
	"pdv/internal/core/security"
	"pdv/internal/infrastructure/storage/postgres"
)

type stubAuthenticator struct {
	users map[string]*appctx.UserContext
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*appctx.UserContext, error) {
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, apperror.NewUnauthorized("session expired")
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(), Recovery())
	return r
}

func do(r http.Handler, method, path, token, body string, headers ...string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	r.ServeHTTP(w, req)
	return w
}

func authStub() stubAuthenticator {
	return stubAuthenticator{users: map[string]*appctx.UserContext{
		"admin-token":  {UserID: "u1", Name: "Admin", Role: string(security.RoleAdmin)},
		"viewer-token": {UserID: "u2", Name: "Viewer", Role: string(security.RoleViewer)},
	}}
}

func TestAuth(t *testing.T) {
	r := newEngine()
	r.GET("/me", Auth(authStub()), func(c *gin.Context) {
		c.String(http.StatusOK, appctx.GetUserName(c.Request.Context()))
	})

	w := do(r, http.MethodGet, "/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/me", "bogus", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "session expired")

	w = do(r, http.MethodGet, "/me", "admin-token", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Admin", w.Body.String())
}

func TestRequirePermission(t *testing.T) {
	r := newEngine()
	r.Use(Auth(authStub()))
	r.GET("/sales", RequirePermission(security.ResourceSales, security.ActionRead), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.DELETE("/sales/1", RequirePermission(security.ResourceSales, security.ActionDelete), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/sales", "viewer-token", "").Code)

	w := do(r, http.MethodDelete, "/sales/1", "viewer-token", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeForbidden)

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/sales/1", "admin-token", "").Code)
}

func TestRequireRole(t *testing.T) {
	r := newEngine()
	r.Use(Auth(authStub()))
	r.GET("/users", RequireRole(security.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/users", "viewer-token", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/users", "admin-token", "").Code)
}

func TestErrorHandler_HidesInternalErrors(t *testing.T) {
	r := newEngine()
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: connection refused"))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("nil map")
	})

	w := do(r, http.MethodGet, "/boom", "", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")

	w = do(r, http.MethodGet, "/panic", "", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeInternal)
}

type memIdempotency struct {
	mu      sync.Mutex
	entries map[string]*postgres.IdempotencyReplay
	pending map[string]bool
	hashes  map[string]string
}

func newMemIdempotency() *memIdempotency {
	return &memIdempotency{
		entries: map[string]*postgres.IdempotencyReplay{},
		pending: map[string]bool{},
		hashes:  map[string]string{},
	}
}

func (m *memIdempotency) AcquireKey(_ context.Context, key, _, _, hash string) (*postgres.IdempotencyReplay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.hashes[key]; ok && h != hash {
		return nil, apperror.NewIdempotencyMismatch(key)
	}
	if e, ok := m.entries[key]; ok {
		return e, nil
	}
	if m.pending[key] {
		return nil, apperror.NewIdempotencyConflict(key)
	}
	m.pending[key] = true
	m.hashes[key] = hash
	return nil, nil
}

func (m *memIdempotency) CompleteKey(_ context.Context, key string, status int, ct string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, key)
	m.entries[key] = &postgres.IdempotencyReplay{StatusCode: status, ContentType: ct, Body: append([]byte(nil), body...)}
	return nil
}

func (m *memIdempotency) ReleaseKey(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, key)
	delete(m.hashes, key)
	return nil
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	store := newMemIdempotency()
	calls := 0

	r := newEngine()
	r.Use(Idempotency(store))
	r.POST("/sales", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"code": "202601000001"})
	})

	first := do(r, http.MethodPost, "/sales", "", `{"total":"10"}`, HeaderIdempotencyKey, "k1")
	require.Equal(t, http.StatusCreated, first.Code)

	second := do(r, http.MethodPost, "/sales", "", `{"total":"10"}`, HeaderIdempotencyKey, "k1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replay"))
	assert.Equal(t, 1, calls)

	mismatch := do(r, http.MethodPost, "/sales", "", `{"total":"11"}`, HeaderIdempotencyKey, "k1")
	assert.Equal(t, http.StatusConflict, mismatch.Code)
}

func TestIdempotency_ReleasesKeyOnClientError(t *testing.T) {
	store := newMemIdempotency()
	calls := 0

	r := newEngine()
	r.Use(Idempotency(store))
	r.POST("/sales", func(c *gin.Context) {
		calls++
		if calls == 1 {
			_ = c.Error(apperror.NewPaymentMismatch("5.00", "10.00"))
			c.Abort()
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	w := do(r, http.MethodPost, "/sales", "", `{"total":"10"}`, HeaderIdempotencyKey, "k2")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(r, http.MethodPost, "/sales", "", `{"total":"10"}`, HeaderIdempotencyKey, "k2")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 2, calls)
}

func TestIdempotency_IgnoresRequestsWithoutKey(t *testing.T) {
	store := newMemIdempotency()
	r := newEngine()
	r.Use(Idempotency(store))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	do(r, http.MethodPost, "/x", "", `{}`)
	assert.Empty(t, store.entries)
	assert.Empty(t, store.pending)
}

func TestSetupValidator_CPFTag(t *testing.T) {
	SetupValidator()
	r := newEngine()
	type req struct {
		CPF string `json:"cpf" binding:"required,cpf"`
	}
	r.POST("/c", func(c *gin.Context) {
		var body req
		if err := c.ShouldBindJSON(&body); err != nil {
			details := ValidationDetails(err)
			require.Len(t, details, 1)
			c.JSON(http.StatusBadRequest, details)
			return
		}
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/c", "", `{"cpf":"529.982.247-25"}`).Code)

	w := do(r, http.MethodPost, "/c", "", `{"cpf":"111.111.111-11"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"cpf"`)
}
