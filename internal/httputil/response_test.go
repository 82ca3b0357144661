package httputil_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithServiceError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"Validation", apperr.Invalid("student", "email", "is not a valid email"), http.StatusBadRequest, "validation"},
		{"AlreadyRegistered", apperr.AlreadyRegistered("email", "a@b.com"), http.StatusBadRequest, "email"},
		{"NotEnrolled", &apperr.NotEnrolledError{CommissionID: 1, StudentIDs: []int64{2}}, http.StatusBadRequest, "enrollment"},
		{"NotFound", apperr.NotFound("project", 9), http.StatusNotFound, "not_found"},
		{"Owner", apperr.ErrProjectAlreadyHasAnOwner, http.StatusBadRequest, "owner"},
		{"Duplicate", apperr.ErrDuplicateRepository, http.StatusBadRequest, "duplicate"},
		{"External", apperr.External("github", "not found", nil), http.StatusBadRequest, "external"},
		{"Credentials", apperr.ErrInvalidCredentials, http.StatusUnauthorized, "credentials"},
		{"Unexpected", errors.New("db down"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			w := httptest.NewRecorder()

			httputil.RespondWithServiceError(w, req, logger, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var body httputil.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantKind, body.Kind)
			assert.NotEmpty(t, body.Error)
		})
	}

	t.Run("UnexpectedErrorIsNotLeaked", func(t *testing.T) {
		w := httptest.NewRecorder()
		httputil.RespondWithServiceError(w, httptest.NewRequest(http.MethodGet, "/", nil), logger, errors.New("pq: password authentication failed"))
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("ValidationFieldsAreReturned", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := apperr.NewFields("student").Check("firstName", "must not contain digits").Err()
		httputil.RespondWithServiceError(w, httptest.NewRequest(http.MethodPost, "/", nil), logger, err)

		var body httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "must not contain digits", body.Fields["firstName"])
	})
}

func TestDecode(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"api"}`))
	require.NoError(t, httputil.Decode(req, &dst))
	assert.Equal(t, "api", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"api","extra":1}`))
	assert.ErrorIs(t, httputil.Decode(req, &dst), apperr.ErrValidation)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.ErrorIs(t, httputil.Decode(req, &dst), apperr.ErrValidation)
}

func TestIDParam(t *testing.T) {
	var (
		got    int64
		gotErr error
	)
	router := chi.NewRouter()
	router.Get("/student/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = httputil.IDParam(r, "id")
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/student/42", nil))
	require.NoError(t, gotErr)
	assert.Equal(t, int64(42), got)

	for _, raw := range []string{"abc", "0", "-3"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/student/"+raw, nil))
		assert.ErrorIs(t, gotErr, apperr.ErrValidation, raw)
	}
}
