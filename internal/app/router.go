package app

import (
	"log/slog"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/admin"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/auth"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/commission"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/db"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/deployinstance"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/events"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/gitrepo"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/group"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/health"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/matter"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/metrics"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/middleware"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/project"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/student"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/teacher"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/validation"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/uptrace/bun"
)

// Dependencies are the collaborators NewRouter wires into every handler.
type Dependencies struct {
	DB          *bun.DB
	Gateway     gitrepo.Gateway
	Publisher   events.Publisher
	Tokens      *auth.TokenIssuer
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	CORSOrigins []string
}

// NewRouter builds every repository, service and handler and mounts their routes.
func NewRouter(d Dependencies) chi.Router {
	if d.Publisher == nil {
		d.Publisher = events.Noop()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewMock()
	}

	tx := db.NewTransactor(d.DB)
	validate := validation.New()

	projectRepo := project.NewRepository(d.DB, d.Metrics)
	projectService := project.NewService(projectRepo, tx, d.Publisher, d.Logger, d.Metrics)

	studentRepo := student.NewRepository(d.DB, d.Metrics)
	teacherRepo := teacher.NewRepository(d.DB, d.Metrics)
	studentService := student.NewService(studentRepo, teacherRepo, projectService, tx, d.Publisher, d.Logger, d.Metrics)
	teacherService := teacher.NewService(teacherRepo, studentRepo, projectService, tx, d.Publisher, d.Logger, d.Metrics)

	adminService := admin.NewService(admin.NewRepository(d.DB, d.Metrics), d.Tokens, d.Publisher, d.Logger, d.Metrics)

	matterService := matter.NewService(matter.NewRepository(d.DB, d.Metrics), d.Publisher, d.Logger, d.Metrics)
	commissionService := commission.NewService(
		commission.NewRepository(d.DB, d.Metrics),
		matterService, studentService, teacherService,
		tx, d.Publisher, d.Logger, d.Metrics,
	)
	groupService := group.NewService(group.NewRepository(d.DB, d.Metrics), commissionService, tx, d.Publisher, d.Logger, d.Metrics)

	repositoryService := gitrepo.NewService(gitrepo.NewStore(d.DB, d.Metrics), d.Gateway, projectService, tx, d.Publisher, d.Logger, d.Metrics)
	deployService := deployinstance.NewService(deployinstance.NewRepository(d.DB, d.Metrics), d.Publisher, d.Logger, d.Metrics)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(d.CORSOrigins))

	health.NewHandler(d.DB).RegisterRoutes(r)

	student.NewHandler(studentService, validate, d.Logger).RegisterRoutes(r)
	teacher.NewHandler(teacherService, validate, d.Logger).RegisterRoutes(r)
	admin.NewHandler(adminService, validate, d.Logger).RegisterRoutes(r, auth.Middleware(d.Tokens, d.Logger))
	matter.NewHandler(matterService, validate, d.Logger).RegisterRoutes(r)
	commission.NewHandler(commissionService, validate, d.Logger).RegisterRoutes(r)
	group.NewHandler(groupService, validate, d.Logger).RegisterRoutes(r)
	project.NewHandler(projectService, validate, d.Logger).RegisterRoutes(r)
	gitrepo.NewHandler(repositoryService, validate, d.Logger).RegisterRoutes(r)
	deployinstance.NewHandler(deployService, validate, d.Logger).RegisterRoutes(r)

	return r
}
