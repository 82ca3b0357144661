package admin

import (
	"log/slog"
	"net/http"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service Service, validate *validator.Validate, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validate,
		logger:   logger,
	}
}

// RegisterRoutes mounts login openly and the rest behind authMiddleware.
// Creating the first admin needs no token.
func (h *Handler) RegisterRoutes(router chi.Router, authMiddleware func(http.Handler) http.Handler) {
	router.Post("/admin/login", h.Login)
	router.With(h.authUnlessEmpty(authMiddleware)).Post("/admin", h.CreateAdmin)

	router.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/admin", h.GetAllAdmins)
		r.Get("/admin/{id}", h.GetAdmin)
		r.Put("/admin/{id}", h.UpdateAdmin)
		r.Delete("/admin/{id}", h.DeleteAdmin)
	})
}

// authUnlessEmpty applies authMiddleware once at least one admin exists.
func (h *Handler) authUnlessEmpty(authMiddleware func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		protected := authMiddleware(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			exists, err := h.service.Any(r.Context())
			if err != nil {
				httputil.RespondWithServiceError(w, r, h.logger, err)
				return
			}
			if exists {
				protected.ServeHTTP(w, r)
				return
			}
			h.logger.InfoContext(r.Context(), "no admins registered, allowing bootstrap")
			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := httputil.Decode(r, &req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, apperr.FromValidator("admin", err))
		return
	}

	h.logger.InfoContext(r.Context(), "creating admin", "email", req.Email)
	admin, err := h.service.Create(r.Context(), req)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusCreated, admin)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, apperr.FromValidator("login", err))
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetAllAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.service.GetAll(r.Context())
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, admins)
}

func (h *Handler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	admin, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, admin)
}

func (h *Handler) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	var req Request
	if err := httputil.Decode(r, &req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, apperr.FromValidator("admin", err))
		return
	}

	admin, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, admin)
}

func (h *Handler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "deleting admin", "id", id)
	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
