package admin

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/auth"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/events"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/metrics"
)

type Service interface {
	Create(ctx context.Context, req Request) (*Admin, error)
	GetAll(ctx context.Context) ([]Admin, error)
	GetByID(ctx context.Context, id int64) (*Admin, error)
	Update(ctx context.Context, id int64, req Request) (*Admin, error)
	Delete(ctx context.Context, id int64) error
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	// Any reports whether at least one admin is registered.
	Any(ctx context.Context) (bool, error)
}

type service struct {
	repo      Repository
	tokens    *auth.TokenIssuer
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewService(repo Repository, tokens *auth.TokenIssuer, publisher events.Publisher, logger *slog.Logger, m *metrics.Metrics) Service {
	return &service{
		repo:      repo,
		tokens:    tokens,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
	}
}

func (s *service) Create(ctx context.Context, req Request) (*Admin, error) {
	admin, err := NewAdmin(req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.checkEmail(ctx, admin.Email, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.metrics.RecordEntityCreated(ctx, "admin")
	events.Emit(ctx, s.publisher, s.logger, events.AdminCreated, map[string]interface{}{
		"id":    admin.ID,
		"email": admin.Email,
	})
	return admin, nil
}

func (s *service) GetAll(ctx context.Context) ([]Admin, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetByID(ctx context.Context, id int64) (*Admin, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id int64, req Request) (*Admin, error) {
	admin, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Validate both fields before touching the entity.
	next, err := NewAdmin(req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.checkEmail(ctx, next.Email, id); err != nil {
		return nil, err
	}
	admin.Email, admin.Password = next.Email, next.Password

	if err := s.repo.Update(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.RecordEntityDeleted(ctx, "admin")
	return nil
}

func (s *service) Any(ctx context.Context) (bool, error) {
	return s.repo.Any(ctx)
}

// Login answers ErrInvalidCredentials for unknown emails and wrong passwords alike.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	admin, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}
	if !admin.CheckPassword(req.Password) {
		s.logger.InfoContext(ctx, "admin login rejected", "admin_id", admin.ID)
		return nil, apperr.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Generate(admin.ID, admin.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{AccessToken: token, ExpiresAt: expiresAt, Admin: admin}, nil
}

func (s *service) checkEmail(ctx context.Context, email string, excludeID int64) error {
	taken, err := s.repo.EmailExists(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.AlreadyRegistered("email", email)
	}
	return nil
}
