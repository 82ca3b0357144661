package deployinstance

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

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/deployinstance", h.CreateDeployInstance)
	router.Get("/deployinstance", h.GetAllDeployInstances)
	router.Get("/deployinstance/{id}", h.GetDeployInstance)
	router.Put("/deployinstance/{id}", h.UpdateDeployInstance)
	router.Delete("/deployinstance/{id}", h.DeleteDeployInstance)
}

func (h *Handler) CreateDeployInstance(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := httputil.Decode(r, &req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, apperr.FromValidator("deployinstance", err))
		return
	}

	h.logger.InfoContext(r.Context(), "creating deploy instance", "name", req.Name)
	instance, err := h.service.Create(r.Context(), req)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, instance)
}

func (h *Handler) GetAllDeployInstances(w http.ResponseWriter, r *http.Request) {
	instances, err := h.service.GetAll(r.Context())
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, instances)
}

func (h *Handler) GetDeployInstance(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	instance, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, instance)
}

func (h *Handler) UpdateDeployInstance(w http.ResponseWriter, r *http.Request) {
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
		httputil.RespondWithServiceError(w, r, h.logger, apperr.FromValidator("deployinstance", err))
		return
	}

	h.logger.InfoContext(r.Context(), "updating deploy instance", "id", id, "name", req.Name)
	instance, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, instance)
}

func (h *Handler) DeleteDeployInstance(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "deleting deploy instance", "id", id)
	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
