package group

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
	router.Post("/group", h.CreateGroup)
	router.Get("/group", h.GetAllGroups)
	router.Get("/group/{id}", h.GetGroup)
	router.Put("/group/{id}", h.UpdateGroup)
	router.Delete("/group/{id}", h.DeleteGroup)
	router.Post("/group/{id}/member/{studentId}", h.AddMember)
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, apperr.FromValidator("group", err))
		return
	}

	h.logger.InfoContext(r.Context(), "creating group", "name", req.Name, "commission_id", req.CommissionID, "members", len(req.Members))
	group, err := h.service.Create(r.Context(), req)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusCreated, group)
}

func (h *Handler) GetAllGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.GetAll(r.Context())
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, groups)
}

func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	group, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, group)
}

func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	var req UpdateRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, apperr.FromValidator("group", err))
		return
	}

	group, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, group)
}

func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "deleting group", "id", id)
	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	studentID, err := httputil.IDParam(r, "studentId")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	group, err := h.service.AddMember(r.Context(), id, studentID)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, group)
}
