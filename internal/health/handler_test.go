package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/health"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func serve(t *testing.T, h *health.Handler, path string) (int, health.HealthResponse) {
	t.Helper()
	router := chi.NewRouter()
	h.RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var resp health.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHealth(t *testing.T) {
	down := health.NewHandler(pingerFunc(func(context.Context) error { return errors.New("dial tcp: refused") }))
	up := health.NewHandler(pingerFunc(func(context.Context) error { return nil }))

	t.Run("LivenessIgnoresDatabase", func(t *testing.T) {
		code, resp := serve(t, down, "/health")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", resp.Status)
	})

	t.Run("Ready", func(t *testing.T) {
		code, resp := serve(t, up, "/ready")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ready", resp.Status)
	})

	t.Run("NotReadyWhenDatabaseDown", func(t *testing.T) {
		code, resp := serve(t, down, "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unavailable", resp.Status)
		assert.Contains(t, resp.Error, "refused")
	})
}
