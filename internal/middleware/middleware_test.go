package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/middleware"

	"github.com/stretchr/testify/assert"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusTeapot)
	_, _ = w.Write([]byte("hi"))
})

func TestCORS(t *testing.T) {
	t.Run("AllowedOrigin", func(t *testing.T) {
		h := middleware.CORS([]string{"http://localhost:3000"})(ok)
		req := httptest.NewRequest(http.MethodGet, "/student", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("ForeignOrigin", func(t *testing.T) {
		h := middleware.CORS([]string{"http://localhost:3000"})(ok)
		req := httptest.NewRequest(http.MethodGet, "/student", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("AnyOriginWhenUnconfigured", func(t *testing.T) {
		h := middleware.CORS(nil)(ok)
		req := httptest.NewRequest(http.MethodGet, "/student", nil)
		req.Header.Set("Origin", "http://anything.example")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, "http://anything.example", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Preflight", func(t *testing.T) {
		h := middleware.CORS(nil)(ok)
		req := httptest.NewRequest(http.MethodOptions, "/student", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	w := httptest.NewRecorder()
	middleware.RequestLogger(logger)(ok).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/matter", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Contains(t, buf.String(), `"path":"/matter"`)
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"bytes":2`)
}
