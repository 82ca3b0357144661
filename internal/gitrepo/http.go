package gitrepo

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
	router.Post("/repository", h.CreateRepository)
	router.Get("/repository", h.GetAllRepositories)
	router.Get("/repository/{id}", h.GetRepository)
	router.Put("/repository/{id}", h.ResyncRepository)
	router.Delete("/repository/{id}", h.DeleteRepository)
	router.Post("/project/{id}/repository", h.AddToProject)
}

// projectRepositoryRequest is the body of POST /project/{id}/repository.
type projectRepositoryRequest struct {
	Owner string `json:"owner" validate:"required"`
	Name  string `json:"name" validate:"required,githubname"`
}

func (h *Handler) CreateRepository(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	h.create(w, r, req)
}

func (h *Handler) AddToProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := httputil.IDParam(r, "id")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	var body projectRepositoryRequest
	if err := httputil.Decode(r, &body); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	h.create(w, r, CreateRequest{Owner: body.Owner, Name: body.Name, ProjectID: projectID})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, req CreateRequest) {
	if err := h.validate.Struct(&req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, apperr.FromValidator("repository", err))
		return
	}

	h.logger.InfoContext(r.Context(), "mirroring repository", "owner", req.Owner, "name", req.Name, "project_id", req.ProjectID)
	repo, err := h.service.Create(r.Context(), req)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusCreated, repo)
}

func (h *Handler) GetAllRepositories(w http.ResponseWriter, r *http.Request) {
	repos, err := h.service.GetAll(r.Context())
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, repos)
}

func (h *Handler) GetRepository(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	repo, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, repo)
}

func (h *Handler) ResyncRepository(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "resyncing repository", "id", id)
	repo, err := h.service.Resync(r.Context(), id)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, repo)
}

func (h *Handler) DeleteRepository(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "deleting repository", "id", id)
	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
