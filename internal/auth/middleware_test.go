package auth_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var (
		gotID    int64
		gotEmail string
	)
	protected := auth.Middleware(issuer, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = auth.GetAdminID(r.Context())
		gotEmail, _ = auth.GetEmail(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("ValidToken", func(t *testing.T) {
		token, _, err := issuer.Generate(7, "admin@unq.edu.ar")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(7), gotID)
		assert.Equal(t, "admin@unq.edu.ar", gotEmail)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("NotBearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Basic YWRtaW46YWRtaW4=")
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer nope")
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "unauthorized")
	})
}
