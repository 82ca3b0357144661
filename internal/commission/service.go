package commission

import (
	"context"
	"log/slog"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/db"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/events"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/group"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/matter"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/metrics"
)

type Matters interface {
	FindOrCreate(ctx context.Context, name string) (*matter.Matter, error)
}

// Lookup reports whether an entity with id exists.
type Lookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service interface {
	Create(ctx context.Context, req Request) (*Commission, error)
	GetAll(ctx context.Context) ([]Commission, error)
	GetByID(ctx context.Context, id int64) (*Commission, error)
	Update(ctx context.Context, id int64, req Request) (*Commission, error)
	Delete(ctx context.Context, id int64) error
	EnrollStudent(ctx context.Context, id, studentID int64) (*Commission, error)
	AddTeacher(ctx context.Context, id, teacherID int64) (*Commission, error)
	// CheckEnrollment fails unless every student in studentIDs is enrolled in commission id.
	CheckEnrollment(ctx context.Context, id int64, studentIDs []int64) error
}

type service struct {
	repo      Repository
	matters   Matters
	students  Lookup
	teachers  Lookup
	tx        db.TxRunner
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewService(repo Repository, matters Matters, students, teachers Lookup, tx db.TxRunner, publisher events.Publisher, logger *slog.Logger, m *metrics.Metrics) Service {
	return &service{
		repo:      repo,
		matters:   matters,
		students:  students,
		teachers:  teachers,
		tx:        tx,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
	}
}

func (s *service) Create(ctx context.Context, req Request) (*Commission, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var commission *Commission
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		m, err := s.matters.FindOrCreate(ctx, req.Matter)
		if err != nil {
			return err
		}
		commission, err = NewCommission(req.Year, req.FourMonthPeriod, m)
		if err != nil {
			return err
		}
		return s.repo.Create(ctx, commission)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordEntityCreated(ctx, "commission")
	events.Emit(ctx, s.publisher, s.logger, events.CommissionCreated, commission)
	return commission, nil
}

func (s *service) GetAll(ctx context.Context) ([]Commission, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetByID(ctx context.Context, id int64) (*Commission, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id int64, req Request) (*Commission, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var commission *Commission
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		commission, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		m, err := s.matters.FindOrCreate(ctx, req.Matter)
		if err != nil {
			return err
		}
		if err := commission.SetYear(req.Year); err != nil {
			return err
		}
		if err := commission.SetFourMonthPeriod(req.FourMonthPeriod); err != nil {
			return err
		}
		if err := commission.SetMatter(m); err != nil {
			return err
		}
		return s.repo.Update(ctx, commission)
	})
	if err != nil {
		return nil, err
	}
	return commission, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.RecordEntityDeleted(ctx, "commission")
	return nil
}

func (s *service) EnrollStudent(ctx context.Context, id, studentID int64) (*Commission, error) {
	if err := s.mustExist(ctx, id, "student", s.students, studentID); err != nil {
		return nil, err
	}
	if err := s.repo.AddStudent(ctx, id, studentID); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "student enrolled", "commission_id", id, "student_id", studentID)
	events.Emit(ctx, s.publisher, s.logger, events.CommissionEnrolled, map[string]int64{
		"commissionId": id,
		"studentId":    studentID,
	})
	return s.repo.GetByID(ctx, id)
}

func (s *service) AddTeacher(ctx context.Context, id, teacherID int64) (*Commission, error) {
	if err := s.mustExist(ctx, id, "teacher", s.teachers, teacherID); err != nil {
		return nil, err
	}
	if err := s.repo.AddTeacher(ctx, id, teacherID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) CheckEnrollment(ctx context.Context, id int64, studentIDs []int64) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("commission", id)
	}
	enrolled, err := s.repo.EnrolledAmong(ctx, id, studentIDs)
	if err != nil {
		return err
	}
	return group.CheckEnrollment(id, studentIDs, enrolled)
}

// mustExist checks the commission and the entity about to be linked to it.
func (s *service) mustExist(ctx context.Context, id int64, entity string, lookup Lookup, entityID int64) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("commission", id)
	}
	exists, err = lookup.Exists(ctx, entityID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound(entity, entityID)
	}
	return nil
}

func validateRequest(req Request) error {
	fields := apperr.NewFields("commission").
		Check("year", yearRule(req.Year)).
		Check("fourMonthPeriod", periodRule(req.FourMonthPeriod))
	if req.Matter == "" {
		fields.Check("matter", "must not be blank")
	}
	return fields.Err()
}
