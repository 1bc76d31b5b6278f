package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fjod/xpawto-store/internal/domain"
	"github.com/fjod/xpawto-store/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingProducts fails every catalog read.
type failingProducts struct {
	*repository.MemoryStore
}

func (f *failingProducts) ListProducts(context.Context) ([]domain.Product, error) {
	return nil, errors.New("database is locked")
}

func TestCartSessionMiddleware(t *testing.T) {
	var seen string
	handler := CartSessionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = getCartSession(r.Context())
	}))

	t.Run("header wins over cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(CartSessionHeader, testSession)
		req.AddCookie(&http.Cookie{Name: CartSessionCookie, Value: uuid.NewString()})
		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, testSession, seen)
	})

	t.Run("invalid id is replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(CartSessionHeader, "../../etc")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.NotEqual(t, "../../etc", seen)
		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		assert.Equal(t, seen, recorder.Header().Get(CartSessionHeader))
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = getRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", recorder.Header().Get("X-Request-ID"))

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.NotEqual(t, "req-42", seen)
}

func TestAdminAuthMiddleware(t *testing.T) {
	handler := AdminAuthMiddleware("admin", "elitepets2025")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("admin", "elitepets2025")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("root", "elitepets2025")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
