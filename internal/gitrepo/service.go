package gitrepo

import (
	"context"
	"log/slog"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/db"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/events"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/metrics"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/validation"
)

// Gateway reads repository data from GitHub.
type Gateway interface {
	FetchRepository(ctx context.Context, owner, name string) (*Repository, error)
	FetchIssues(ctx context.Context, owner, name string) ([]Issue, error)
	FetchPullRequests(ctx context.Context, owner, name string) ([]PullRequest, error)
	FetchTags(ctx context.Context, owner, name string) ([]Tag, error)
	FetchBranches(ctx context.Context, owner, name string) ([]Branch, error)
	FetchCommits(ctx context.Context, owner, name string) ([]Commit, error)
}

// Projects is the slice of the project service this package depends on.
type Projects interface {
	Exists(ctx context.Context, id int64) (bool, error)
	// AddRepository applies the duplicate-name guard of the project and binds repo to it.
	AddRepository(ctx context.Context, projectID int64, repo *Repository) error
	// RenameRepository applies the same guard when repo is renamed to name.
	RenameRepository(ctx context.Context, projectID int64, repo *Repository, name string) error
}

type freshReadsKey struct{}

// WithFreshReads marks ctx so the Gateway skips cached responses.
func WithFreshReads(ctx context.Context) context.Context {
	return context.WithValue(ctx, freshReadsKey{}, true)
}

// FreshReads reports whether ctx was marked by WithFreshReads.
func FreshReads(ctx context.Context) bool {
	fresh, _ := ctx.Value(freshReadsKey{}).(bool)
	return fresh
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Repository, error)
	GetAll(ctx context.Context) ([]Repository, error)
	GetByID(ctx context.Context, id int64) (*Repository, error)
	Resync(ctx context.Context, id int64) (*Repository, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	store     Store
	gateway   Gateway
	projects  Projects
	tx        db.TxRunner
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewService(store Store, gateway Gateway, projects Projects, tx db.TxRunner, publisher events.Publisher, logger *slog.Logger, m *metrics.Metrics) Service {
	return &service{
		store:     store,
		gateway:   gateway,
		projects:  projects,
		tx:        tx,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Repository, error) {
	if err := apperr.NewFields("repository").
		Check("name", validation.GithubName(req.Name)).
		Check("owner", blank(req.Owner)).
		Err(); err != nil {
		return nil, err
	}

	exists, err := s.projects.Exists(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("project", req.ProjectID)
	}

	repo, err := s.fetch(ctx, req.Owner, req.Name)
	if err != nil {
		return nil, err
	}

	registered, err := s.store.Exists(ctx, repo.ID)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, apperr.AlreadyRegistered("repository", repo.Name)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.projects.AddRepository(ctx, req.ProjectID, repo); err != nil {
			return err
		}
		return s.store.Create(ctx, repo)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "repository mirrored",
		"repository_id", repo.ID,
		"project_id", repo.ProjectID,
		"issues", len(repo.Issues),
		"commits", len(repo.Commits),
	)
	s.metrics.RecordEntityCreated(ctx, "repository")
	events.Emit(ctx, s.publisher, s.logger, events.RepositorySynced, syncedPayload(repo))
	return repo, nil
}

func (s *service) GetAll(ctx context.Context) ([]Repository, error) {
	return s.store.GetAll(ctx)
}

func (s *service) GetByID(ctx context.Context, id int64) (*Repository, error) {
	return s.store.GetByID(ctx, id)
}

// Resync fetches the repository again, bypassing cached responses, and replaces
// every mirrored collection.
func (s *service) Resync(ctx context.Context, id int64) (*Repository, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fresh, err := s.fetch(WithFreshReads(ctx), current.Owner, current.Name)
	if err != nil {
		return nil, err
	}
	if err := current.SetID(fresh.ID); err != nil {
		return nil, err
	}
	if fresh.Name != current.Name {
		if err := s.projects.RenameRepository(ctx, current.ProjectID, current, fresh.Name); err != nil {
			return nil, err
		}
	}
	if err := current.SetName(fresh.Name); err != nil {
		return nil, err
	}
	current.Owner, current.URL = fresh.Owner, fresh.URL
	current.Attach(fresh.Issues, fresh.PullRequests, fresh.Tags, fresh.Branches, fresh.Commits)

	if err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.store.Replace(ctx, current)
	}); err != nil {
		return nil, err
	}

	events.Emit(ctx, s.publisher, s.logger, events.RepositorySynced, syncedPayload(current))
	return current, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.RecordEntityDeleted(ctx, "repository")
	events.Emit(ctx, s.publisher, s.logger, events.RepositoryDeleted, map[string]int64{"id": id})
	return nil
}

// fetch reads the repository and its collections one call at a time.
func (s *service) fetch(ctx context.Context, owner, name string) (*Repository, error) {
	fetched, err := s.gateway.FetchRepository(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	repo, err := NewRepository(fetched.ID, fetched.Owner, fetched.Name, fetched.URL)
	if err != nil {
		return nil, err
	}

	issues, err := s.gateway.FetchIssues(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	pulls, err := s.gateway.FetchPullRequests(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	tags, err := s.gateway.FetchTags(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	branches, err := s.gateway.FetchBranches(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	commits, err := s.gateway.FetchCommits(ctx, owner, name)
	if err != nil {
		return nil, err
	}

	repo.Attach(issues, pulls, tags, branches, commits)
	return repo, nil
}

func syncedPayload(repo *Repository) map[string]interface{} {
	return map[string]interface{}{
		"id":           repo.ID,
		"name":         repo.Name,
		"owner":        repo.Owner,
		"projectId":    repo.ProjectID,
		"issues":       len(repo.Issues),
		"pullRequests": len(repo.PullRequests),
		"tags":         len(repo.Tags),
		"branches":     len(repo.Branches),
		"commits":      len(repo.Commits),
	}
}
