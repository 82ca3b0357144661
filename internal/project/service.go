package project

import (
	"context"
	"log/slog"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/db"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/events"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/gitrepo"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/metrics"
)

type Service interface {
	Create(ctx context.Context, req ProjectRequest) (*Project, error)
	GetAll(ctx context.Context) ([]Project, error)
	GetByID(ctx context.Context, id int64) (*Project, error)
	Update(ctx context.Context, id int64, req ProjectRequest) (*Project, error)
	Delete(ctx context.Context, id int64) error
	AssignOwner(ctx context.Context, id int64, owner Owner) (*Project, error)
	ListByOwner(ctx context.Context, owner Owner) ([]Project, error)
	DeleteByOwner(ctx context.Context, owner Owner) error
	Exists(ctx context.Context, id int64) (bool, error)
	AddRepository(ctx context.Context, id int64, repo *gitrepo.Repository) error
	RenameRepository(ctx context.Context, id int64, repo *gitrepo.Repository, name string) error
}

type service struct {
	repo      Repository
	tx        db.TxRunner
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewService(repo Repository, tx db.TxRunner, publisher events.Publisher, logger *slog.Logger, m *metrics.Metrics) Service {
	return &service{
		repo:      repo,
		tx:        tx,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
	}
}

func (s *service) Create(ctx context.Context, req ProjectRequest) (*Project, error) {
	project, err := NewProject(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.metrics.RecordEntityCreated(ctx, "project")
	events.Emit(ctx, s.publisher, s.logger, events.ProjectCreated, project)
	return project, nil
}

func (s *service) GetAll(ctx context.Context) ([]Project, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetByID(ctx context.Context, id int64) (*Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id int64, req ProjectRequest) (*Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := project.SetName(req.Name); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.RecordEntityDeleted(ctx, "project")
	return nil
}

// AssignOwner checks the in-memory guard first, then lets the conditional
// update settle races between concurrent claims.
func (s *service) AssignOwner(ctx context.Context, id int64, owner Owner) (*Project, error) {
	var project *Project
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		project, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := project.AssignTo(owner); err != nil {
			return err
		}
		return s.repo.SetOwner(ctx, id, owner)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "project owner assigned", "project_id", id, "owner_type", owner.Type, "owner_id", owner.ID)
	events.Emit(ctx, s.publisher, s.logger, events.ProjectOwnerAssigned, map[string]interface{}{
		"projectId": id,
		"owner":     owner,
	})
	return project, nil
}

func (s *service) ListByOwner(ctx context.Context, owner Owner) ([]Project, error) {
	return s.repo.ListByOwner(ctx, owner)
}

func (s *service) DeleteByOwner(ctx context.Context, owner Owner) error {
	return s.repo.DeleteByOwner(ctx, owner)
}

func (s *service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// AddRepository binds repo to the project unless the project already holds a
// repository with the same name. The caller persists repo.
func (s *service) AddRepository(ctx context.Context, id int64, repo *gitrepo.Repository) error {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := project.AddRepository(*repo); err != nil {
		return err
	}
	repo.ProjectID = project.ID
	return nil
}

// RenameRepository checks that repo can take name without clashing with a sibling.
// The caller applies and persists the new name.
func (s *service) RenameRepository(ctx context.Context, id int64, repo *gitrepo.Repository, name string) error {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return project.CheckRename(repo.ID, name)
}
