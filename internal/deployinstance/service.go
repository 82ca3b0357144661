package deployinstance

import (
	"context"
	"log/slog"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/events"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/metrics"
)

type Service interface {
	Create(ctx context.Context, req Request) (*DeployInstance, error)
	GetAll(ctx context.Context) ([]DeployInstance, error)
	GetByID(ctx context.Context, id int64) (*DeployInstance, error)
	Update(ctx context.Context, id int64, req Request) (*DeployInstance, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo      Repository
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger, m *metrics.Metrics) Service {
	return &service{repo: repo, publisher: publisher, logger: logger, metrics: m}
}

func (s *service) Create(ctx context.Context, req Request) (*DeployInstance, error) {
	instance, err := NewDeployInstance(req.Name, req.URL, req.Comment)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, instance); err != nil {
		return nil, err
	}

	s.metrics.RecordEntityCreated(ctx, "deployinstance")
	events.Emit(ctx, s.publisher, s.logger, events.DeployInstanceCreated, instance)
	return instance, nil
}

func (s *service) GetAll(ctx context.Context) ([]DeployInstance, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetByID(ctx context.Context, id int64) (*DeployInstance, error) {
	return s.repo.GetByID(ctx, id)
}

// Update validates the whole request first so a bad field leaves the stored instance untouched.
func (s *service) Update(ctx context.Context, id int64, req Request) (*DeployInstance, error) {
	instance, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := NewDeployInstance(req.Name, req.URL, req.Comment)
	if err != nil {
		return nil, err
	}
	instance.Name, instance.URL, instance.Comment = next.Name, next.URL, next.Comment

	if err := s.repo.Update(ctx, instance); err != nil {
		return nil, err
	}
	return instance, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.RecordEntityDeleted(ctx, "deployinstance")
	return nil
}
