package student

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

const table = "students"

type Repository interface {
	Create(ctx context.Context, student *Student) error
	GetAll(ctx context.Context) ([]Student, error)
	GetByID(ctx context.Context, id int64) (*Student, error)
	Update(ctx context.Context, student *Student) error
	Delete(ctx context.Context, id int64) error
	// EmailExists reports whether another student than excludeID uses email.
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(database *bun.DB, m *metrics.Metrics) Repository {
	return &repository{db: database, metrics: m}
}

func (r *repository) Create(ctx context.Context, student *Student) error {
	start := time.Now()
	_, err := db.Conn(ctx, r.db).NewInsert().Model(student).Returning("*").Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "insert", table, time.Since(start), err)
	if db.IsUniqueViolation(err) {
		return apperr.AlreadyRegistered("email", student.Email)
	}
	return err
}

func (r *repository) GetAll(ctx context.Context) ([]Student, error) {
	start := time.Now()
	students := make([]Student, 0)
	err := db.Conn(ctx, r.db).NewSelect().Model(&students).Order("s.id ASC").Scan(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)
	return students, err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Student, error) {
	start := time.Now()
	student := new(Student)
	err := db.Conn(ctx, r.db).NewSelect().Model(student).Where("s.id = ?", id).Scan(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("student", id)
		}
		return nil, err
	}
	return student, nil
}

func (r *repository) Update(ctx context.Context, student *Student) error {
	start := time.Now()
	student.UpdatedAt = time.Now()
	result, err := db.Conn(ctx, r.db).NewUpdate().
		Model(student).
		Column("first_name", "last_name", "email", "updated_at").
		WherePK().
		Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "update", table, time.Since(start), err)
	if db.IsUniqueViolation(err) {
		return apperr.AlreadyRegistered("email", student.Email)
	}
	return notFoundIfNoRows(result, err, student.ID)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	result, err := db.Conn(ctx, r.db).NewDelete().
		Model((*Student)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "delete", table, time.Since(start), err)
	return notFoundIfNoRows(result, err, id)
}

func (r *repository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	start := time.Now()
	q := db.Conn(ctx, r.db).NewSelect().
		Model((*Student)(nil)).
		Where("email = ?", email)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	exists, err := q.Exists(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)
	return exists, err
}

func (r *repository) Exists(ctx context.Context, id int64) (bool, error) {
	start := time.Now()
	exists, err := db.Conn(ctx, r.db).NewSelect().
		Model((*Student)(nil)).
		Where("id = ?", id).
		Exists(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)
	return exists, err
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
		return apperr.NotFound("student", id)
	}
	return nil
}
