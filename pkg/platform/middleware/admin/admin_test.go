package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"contactledger/internal/platform/logger"
)

func TestRequireAdminToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("matching token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/identities", nil)
		req.Header.Set("X-Admin-Token", "secret")
		rr := httptest.NewRecorder()
		RequireAdminToken("secret", logger.Discard())(next).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("wrong token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/identities", nil)
		req.Header.Set("X-Admin-Token", "guess")
		rr := httptest.NewRecorder()
		RequireAdminToken("secret", logger.Discard())(next).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unset token disables the route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/identities", nil)
		rr := httptest.NewRecorder()
		RequireAdminToken("", logger.Discard())(next).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
