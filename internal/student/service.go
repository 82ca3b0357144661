package student

import (
	"context"
	"log/slog"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/db"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/events"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/metrics"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/person"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/project"
)

// EmailOwner reports whether an email is taken by another kind of account.
type EmailOwner interface {
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
}

// Projects is the slice of the project service students use.
type Projects interface {
	AssignOwner(ctx context.Context, id int64, owner project.Owner) (*project.Project, error)
	ListByOwner(ctx context.Context, owner project.Owner) ([]project.Project, error)
	DeleteByOwner(ctx context.Context, owner project.Owner) error
}

type Service interface {
	Create(ctx context.Context, req person.Request) (*Student, error)
	GetAll(ctx context.Context) ([]Student, error)
	GetByID(ctx context.Context, id int64) (*Student, error)
	Update(ctx context.Context, id int64, req person.Request) (*Student, error)
	Delete(ctx context.Context, id int64) error
	AddProject(ctx context.Context, id, projectID int64) (*Student, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type service struct {
	repo      Repository
	teachers  EmailOwner
	projects  Projects
	tx        db.TxRunner
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewService(repo Repository, teachers EmailOwner, projects Projects, tx db.TxRunner, publisher events.Publisher, logger *slog.Logger, m *metrics.Metrics) Service {
	return &service{
		repo:      repo,
		teachers:  teachers,
		projects:  projects,
		tx:        tx,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
	}
}

func (s *service) Create(ctx context.Context, req person.Request) (*Student, error) {
	student, err := NewStudent(req.FirstName, req.LastName, req.Email)
	if err != nil {
		return nil, err
	}
	if err := s.checkEmail(ctx, student.Email, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, err
	}

	s.metrics.RecordEntityCreated(ctx, "student")
	events.Emit(ctx, s.publisher, s.logger, events.StudentCreated, student)
	return student, nil
}

func (s *service) GetAll(ctx context.Context) ([]Student, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetByID(ctx context.Context, id int64) (*Student, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	student.Projects, err = s.projects.ListByOwner(ctx, student.AsOwner())
	if err != nil {
		return nil, err
	}
	return student, nil
}

func (s *service) Update(ctx context.Context, id int64, req person.Request) (*Student, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := student.Apply(entity, req); err != nil {
		return nil, err
	}
	if err := s.checkEmail(ctx, student.Email, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// Delete removes the student together with every project it owns.
func (s *service) Delete(ctx context.Context, id int64) error {
	owner := project.Owner{Type: project.OwnerStudent, ID: id}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.projects.DeleteByOwner(ctx, owner); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.metrics.RecordEntityDeleted(ctx, "student")
	events.Emit(ctx, s.publisher, s.logger, events.StudentDeleted, map[string]int64{"id": id})
	return nil
}

func (s *service) AddProject(ctx context.Context, id, projectID int64) (*Student, error) {
	student, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.projects.AssignOwner(ctx, projectID, student.AsOwner())
	if err != nil {
		return nil, err
	}
	if err := student.AddProject(student.AsOwner(), p); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// checkEmail enforces that email is unique across students and teachers.
func (s *service) checkEmail(ctx context.Context, email string, excludeID int64) error {
	taken, err := s.repo.EmailExists(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if !taken && s.teachers != nil {
		if taken, err = s.teachers.EmailExists(ctx, email, 0); err != nil {
			return err
		}
	}
	if taken {
		return apperr.AlreadyRegistered("email", email)
	}
	return nil
}
