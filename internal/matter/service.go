package matter

import (
	"context"
	"errors"
	"log/slog"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/events"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/metrics"
)

type Service interface {
	Create(ctx context.Context, req Request) (*Matter, error)
	GetAll(ctx context.Context) ([]Matter, error)
	GetByID(ctx context.Context, id int64) (*Matter, error)
	Update(ctx context.Context, id int64, req Request) (*Matter, error)
	Delete(ctx context.Context, id int64) error
	// FindOrCreate resolves a matter by name, creating it when absent.
	FindOrCreate(ctx context.Context, name string) (*Matter, error)
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

func (s *service) Create(ctx context.Context, req Request) (*Matter, error) {
	matter, err := NewMatter(req.Name)
	if err != nil {
		return nil, err
	}
	taken, err := s.repo.NameExists(ctx, matter.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.AlreadyRegistered("name", matter.Name)
	}
	if err := s.insert(ctx, matter); err != nil {
		return nil, err
	}
	return matter, nil
}

func (s *service) GetAll(ctx context.Context) ([]Matter, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetByID(ctx context.Context, id int64) (*Matter, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id int64, req Request) (*Matter, error) {
	matter, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := matter.SetName(req.Name); err != nil {
		return nil, err
	}
	taken, err := s.repo.NameExists(ctx, matter.Name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.AlreadyRegistered("name", matter.Name)
	}
	if err := s.repo.Update(ctx, matter); err != nil {
		return nil, err
	}
	return matter, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.RecordEntityDeleted(ctx, "matter")
	return nil
}

func (s *service) FindOrCreate(ctx context.Context, name string) (*Matter, error) {
	candidate, err := NewMatter(name)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(ctx, candidate.Name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	if err := s.insert(ctx, candidate); err != nil {
		return nil, err
	}
	return candidate, nil
}

func (s *service) insert(ctx context.Context, matter *Matter) error {
	if err := s.repo.Create(ctx, matter); err != nil {
		return err
	}
	s.metrics.RecordEntityCreated(ctx, "matter")
	events.Emit(ctx, s.publisher, s.logger, events.MatterCreated, matter)
	return nil
}
