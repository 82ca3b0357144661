package group

import (
	"context"
	"log/slog"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/db"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/events"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/metrics"
)

// Enrollment answers whether students belong to a commission. Implemented by the
// commission service; an unknown commission yields a not-found error.
type Enrollment interface {
	CheckEnrollment(ctx context.Context, commissionID int64, studentIDs []int64) error
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Group, error)
	GetAll(ctx context.Context) ([]Group, error)
	GetByID(ctx context.Context, id int64) (*Group, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*Group, error)
	Delete(ctx context.Context, id int64) error
	AddMember(ctx context.Context, id, studentID int64) (*Group, error)
}

type service struct {
	repo       Repository
	enrollment Enrollment
	tx         db.TxRunner
	publisher  events.Publisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

func NewService(repo Repository, enrollment Enrollment, tx db.TxRunner, publisher events.Publisher, logger *slog.Logger, m *metrics.Metrics) Service {
	return &service{
		repo:       repo,
		enrollment: enrollment,
		tx:         tx,
		publisher:  publisher,
		logger:     logger,
		metrics:    m,
	}
}

// Create refuses the group when any initial member is not enrolled in the commission.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Group, error) {
	group, err := NewGroup(req.Name, req.CommissionID)
	if err != nil {
		return nil, err
	}
	members := Unique(req.Members)
	if err := s.enrollment.CheckEnrollment(ctx, req.CommissionID, members); err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, group); err != nil {
			return err
		}
		return s.repo.AddMembers(ctx, group.ID, members...)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordEntityCreated(ctx, "group")
	events.Emit(ctx, s.publisher, s.logger, events.GroupCreated, map[string]interface{}{
		"id":           group.ID,
		"commissionId": group.CommissionID,
		"members":      members,
	})
	return s.repo.GetByID(ctx, group.ID)
}

func (s *service) GetAll(ctx context.Context) ([]Group, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetByID(ctx context.Context, id int64) (*Group, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (*Group, error) {
	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := group.SetName(req.Name); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.RecordEntityDeleted(ctx, "group")
	return nil
}

func (s *service) AddMember(ctx context.Context, id, studentID int64) (*Group, error) {
	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group.HasMember(studentID) {
		return group, nil
	}
	if err := s.enrollment.CheckEnrollment(ctx, group.CommissionID, []int64{studentID}); err != nil {
		return nil, err
	}
	if err := s.repo.AddMembers(ctx, id, studentID); err != nil {
		return nil, err
	}

	events.Emit(ctx, s.publisher, s.logger, events.GroupMemberAdded, map[string]int64{
		"groupId":   id,
		"studentId": studentID,
	})
	return s.repo.GetByID(ctx, id)
}
