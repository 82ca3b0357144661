package teacher

import (
	"log/slog"
	"net/http"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/httputil"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/person"

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
	router.Post("/teacher", h.CreateTeacher)
	router.Get("/teacher", h.GetAllTeachers)
	router.Get("/teacher/{id}", h.GetTeacher)
	router.Put("/teacher/{id}", h.UpdateTeacher)
	router.Delete("/teacher/{id}", h.DeleteTeacher)
	router.Post("/teacher/{id}/project/{projectId}", h.AddProject)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (person.Request, bool) {
	var req person.Request
	if err := httputil.Decode(r, &req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return req, false
	}
	if err := h.validate.Struct(&req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, apperr.FromValidator(entity, err))
		return req, false
	}
	return req, true
}

func (h *Handler) CreateTeacher(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "creating teacher", "email", req.Email)
	teacher, err := h.service.Create(r.Context(), req)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusCreated, teacher)
}

func (h *Handler) GetAllTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.service.GetAll(r.Context())
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, teachers)
}

func (h *Handler) GetTeacher(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	teacher, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, teacher)
}

func (h *Handler) UpdateTeacher(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "updating teacher", "id", id, "email", req.Email)
	teacher, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, teacher)
}

func (h *Handler) DeleteTeacher(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "deleting teacher", "id", id)
	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddProject(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	projectID, err := httputil.IDParam(r, "projectId")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "adding project to teacher", "id", id, "project_id", projectID)
	teacher, err := h.service.AddProject(r.Context(), id, projectID)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, teacher)
}
