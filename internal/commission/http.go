package commission

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
	router.Post("/commission", h.CreateCommission)
	router.Get("/commission", h.GetAllCommissions)
	router.Get("/commission/{id}", h.GetCommission)
	router.Put("/commission/{id}", h.UpdateCommission)
	router.Delete("/commission/{id}", h.DeleteCommission)
	router.Post("/commission/{id}/student/{studentId}", h.EnrollStudent)
	router.Post("/commission/{id}/teacher/{teacherId}", h.AddTeacher)
}

func (h *Handler) CreateCommission(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := httputil.Decode(r, &req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, apperr.FromValidator("commission", err))
		return
	}

	h.logger.InfoContext(r.Context(), "creating commission", "matter", req.Matter, "year", req.Year)
	commission, err := h.service.Create(r.Context(), req)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, commission)
}

func (h *Handler) GetAllCommissions(w http.ResponseWriter, r *http.Request) {
	commissions, err := h.service.GetAll(r.Context())
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, commissions)
}

func (h *Handler) GetCommission(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	commission, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, commission)
}

func (h *Handler) UpdateCommission(w http.ResponseWriter, r *http.Request) {
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
		httputil.RespondWithServiceError(w, r, h.logger, apperr.FromValidator("commission", err))
		return
	}

	h.logger.InfoContext(r.Context(), "updating commission", "id", id, "matter", req.Matter, "year", req.Year)
	commission, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, commission)
}

func (h *Handler) DeleteCommission(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "deleting commission", "id", id)
	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) EnrollStudent(w http.ResponseWriter, r *http.Request) {
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

	commission, err := h.service.EnrollStudent(r.Context(), id, studentID)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, commission)
}

func (h *Handler) AddTeacher(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	teacherID, err := httputil.IDParam(r, "teacherId")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "adding teacher to commission", "id", id, "teacher_id", teacherID)
	commission, err := h.service.AddTeacher(r.Context(), id, teacherID)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, commission)
}
