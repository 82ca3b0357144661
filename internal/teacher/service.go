package teacher

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

// Projects is the slice of the project service teachers use.
type Projects interface {
	AssignOwner(ctx context.Context, id int64, owner project.Owner) (*project.Project, error)
	ListByOwner(ctx context.Context, owner project.Owner) ([]project.Project, error)
	DeleteByOwner(ctx context.Context, owner project.Owner) error
}

type Service interface {
	Create(ctx context.Context, req person.Request) (*Teacher, error)
	GetAll(ctx context.Context) ([]Teacher, error)
	GetByID(ctx context.Context, id int64) (*Teacher, error)
	Update(ctx context.Context, id int64, req person.Request) (*Teacher, error)
	Delete(ctx context.Context, id int64) error
	AddProject(ctx context.Context, id, projectID int64) (*Teacher, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type service struct {
	repo      Repository
	students  EmailOwner
	projects  Projects
	tx        db.TxRunner
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewService(repo Repository, students EmailOwner, projects Projects, tx db.TxRunner, publisher events.Publisher, logger *slog.Logger, m *metrics.Metrics) Service {
	return &service{
		repo:      repo,
		students:  students,
		projects:  projects,
		tx:        tx,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
	}
}

func (s *service) Create(ctx context.Context, req person.Request) (*Teacher, error) {
	teacher, err := NewTeacher(req.FirstName, req.LastName, req.Email)
	if err != nil {
		return nil, err
	}
	if err := s.checkEmail(ctx, teacher.Email, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, teacher); err != nil {
		return nil, err
	}

	s.metrics.RecordEntityCreated(ctx, "teacher")
	events.Emit(ctx, s.publisher, s.logger, events.TeacherCreated, teacher)
	return teacher, nil
}

func (s *service) GetAll(ctx context.Context) ([]Teacher, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetByID(ctx context.Context, id int64) (*Teacher, error) {
	teacher, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	teacher.Projects, err = s.projects.ListByOwner(ctx, teacher.AsOwner())
	if err != nil {
		return nil, err
	}
	return teacher, nil
}

func (s *service) Update(ctx context.Context, id int64, req person.Request) (*Teacher, error) {
	teacher, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := teacher.Apply(entity, req); err != nil {
		return nil, err
	}
	if err := s.checkEmail(ctx, teacher.Email, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, teacher); err != nil {
		return nil, err
	}
	return teacher, nil
}

// Delete removes the teacher together with every project it owns.
func (s *service) Delete(ctx context.Context, id int64) error {
	owner := project.Owner{Type: project.OwnerTeacher, ID: id}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.projects.DeleteByOwner(ctx, owner); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.metrics.RecordEntityDeleted(ctx, "teacher")
	events.Emit(ctx, s.publisher, s.logger, events.TeacherDeleted, map[string]int64{"id": id})
	return nil
}

func (s *service) AddProject(ctx context.Context, id, projectID int64) (*Teacher, error) {
	teacher, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.projects.AssignOwner(ctx, projectID, teacher.AsOwner())
	if err != nil {
		return nil, err
	}
	if err := teacher.AddProject(teacher.AsOwner(), p); err != nil {
		return nil, err
	}
	return teacher, nil
}

func (s *service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// checkEmail enforces that email is unique across teachers and students.
func (s *service) checkEmail(ctx context.Context, email string, excludeID int64) error {
	taken, err := s.repo.EmailExists(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if !taken && s.students != nil {
		if taken, err = s.students.EmailExists(ctx, email, 0); err != nil {
			return err
		}
	}
	if taken {
		return apperr.AlreadyRegistered("email", email)
	}
	return nil
}
