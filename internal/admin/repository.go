package admin

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

const table = "admins"

type Repository interface {
	Create(ctx context.Context, admin *Admin) error
	GetAll(ctx context.Context) ([]Admin, error)
	GetByID(ctx context.Context, id int64) (*Admin, error)
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	Update(ctx context.Context, admin *Admin) error
	Delete(ctx context.Context, id int64) error
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
	Any(ctx context.Context) (bool, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(database *bun.DB, m *metrics.Metrics) Repository {
	return &repository{db: database, metrics: m}
}

func (r *repository) Create(ctx context.Context, admin *Admin) error {
	start := time.Now()
	_, err := db.Conn(ctx, r.db).NewInsert().Model(admin).Returning("*").Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "insert", table, time.Since(start), err)
	if db.IsUniqueViolation(err) {
		return apperr.AlreadyRegistered("email", admin.Email)
	}
	return err
}

func (r *repository) GetAll(ctx context.Context) ([]Admin, error) {
	start := time.Now()
	admins := make([]Admin, 0)
	err := db.Conn(ctx, r.db).NewSelect().Model(&admins).Order("a.id ASC").Scan(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)
	return admins, err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Admin, error) {
	return r.getBy(ctx, "a.id = ?", id)
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	return r.getBy(ctx, "a.email = ?", email)
}

func (r *repository) getBy(ctx context.Context, where string, arg interface{}) (*Admin, error) {
	start := time.Now()
	admin := new(Admin)
	err := db.Conn(ctx, r.db).NewSelect().Model(admin).Where(where, arg).Scan(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("admin", arg)
		}
		return nil, err
	}
	return admin, nil
}

func (r *repository) Update(ctx context.Context, admin *Admin) error {
	start := time.Now()
	admin.UpdatedAt = time.Now()
	result, err := db.Conn(ctx, r.db).NewUpdate().
		Model(admin).
		Column("email", "password", "updated_at").
		WherePK().
		Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "update", table, time.Since(start), err)
	if db.IsUniqueViolation(err) {
		return apperr.AlreadyRegistered("email", admin.Email)
	}
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.NotFound("admin", admin.ID)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	result, err := db.Conn(ctx, r.db).NewDelete().
		Model((*Admin)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "delete", table, time.Since(start), err)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.NotFound("admin", id)
	}
	return nil
}

func (r *repository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	start := time.Now()
	q := db.Conn(ctx, r.db).NewSelect().
		Model((*Admin)(nil)).
		Where("email = ?", email)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	exists, err := q.Exists(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)
	return exists, err
}

func (r *repository) Any(ctx context.Context) (bool, error) {
	start := time.Now()
	exists, err := db.Conn(ctx, r.db).NewSelect().Model((*Admin)(nil)).Exists(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)
	return exists, err
}
