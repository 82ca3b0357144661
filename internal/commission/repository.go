package commission

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/db"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/metrics"

	"github.com/uptrace/bun"
)

const table = "commissions"

type Repository interface {
	Create(ctx context.Context, commission *Commission) error
	GetAll(ctx context.Context) ([]Commission, error)
	GetByID(ctx context.Context, id int64) (*Commission, error)
	Update(ctx context.Context, commission *Commission) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	AddStudent(ctx context.Context, id, studentID int64) error
	AddTeacher(ctx context.Context, id, teacherID int64) error
	// EnrolledAmong returns the subset of studentIDs enrolled in the commission.
	EnrolledAmong(ctx context.Context, id int64, studentIDs []int64) ([]int64, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(database *bun.DB, m *metrics.Metrics) Repository {
	return &repository{db: database, metrics: m}
}

func (r *repository) Create(ctx context.Context, commission *Commission) error {
	start := time.Now()
	_, err := db.Conn(ctx, r.db).NewInsert().Model(commission).Returning("*").Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "insert", table, time.Since(start), err)
	return err
}

func (r *repository) GetAll(ctx context.Context) ([]Commission, error) {
	start := time.Now()
	commissions := make([]Commission, 0)
	err := db.Conn(ctx, r.db).NewSelect().
		Model(&commissions).
		Relation("Matter").
		Order("c.year DESC", "c.id ASC").
		Scan(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)
	return commissions, err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Commission, error) {
	start := time.Now()
	commission := new(Commission)
	err := db.Conn(ctx, r.db).NewSelect().
		Model(commission).
		Relation("Matter").
		Relation("Students").
		Relation("Teachers").
		Relation("Groups").
		Where("c.id = ?", id).
		Scan(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("commission", id)
		}
		return nil, err
	}
	return commission, nil
}

func (r *repository) Update(ctx context.Context, commission *Commission) error {
	start := time.Now()
	result, err := db.Conn(ctx, r.db).NewUpdate().
		Model(commission).
		Column("year", "four_month_period", "matter_id").
		WherePK().
		Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "update", table, time.Since(start), err)
	return notFoundIfNoRows(result, err, commission.ID)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	result, err := db.Conn(ctx, r.db).NewDelete().
		Model((*Commission)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "delete", table, time.Since(start), err)
	return notFoundIfNoRows(result, err, id)
}

func (r *repository) Exists(ctx context.Context, id int64) (bool, error) {
	start := time.Now()
	exists, err := db.Conn(ctx, r.db).NewSelect().
		Model((*Commission)(nil)).
		Where("id = ?", id).
		Exists(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)
	return exists, err
}

func (r *repository) AddStudent(ctx context.Context, id, studentID int64) error {
	start := time.Now()
	_, err := db.Conn(ctx, r.db).NewInsert().
		Model(&CommissionStudent{CommissionID: id, StudentID: studentID}).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "insert", "commission_students", time.Since(start), err)
	return err
}

func (r *repository) AddTeacher(ctx context.Context, id, teacherID int64) error {
	start := time.Now()
	_, err := db.Conn(ctx, r.db).NewInsert().
		Model(&CommissionTeacher{CommissionID: id, TeacherID: teacherID}).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "insert", "commission_teachers", time.Since(start), err)
	return err
}

func (r *repository) EnrolledAmong(ctx context.Context, id int64, studentIDs []int64) ([]int64, error) {
	enrolled := make([]int64, 0, len(studentIDs))
	if len(studentIDs) == 0 {
		return enrolled, nil
	}

	start := time.Now()
	err := db.Conn(ctx, r.db).NewSelect().
		Model((*CommissionStudent)(nil)).
		Column("student_id").
		Where("commission_id = ?", id).
		Where("student_id IN (?)", bun.In(studentIDs)).
		Scan(ctx, &enrolled)
	r.metrics.Database.RecordQuery(ctx, "select", "commission_students", time.Since(start), err)
	return enrolled, err
}

func notFoundIfNoRows(result sql.Result, err error, id int64) error {
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return apperr.NotFound("commission", id)
	}
	return nil
}
