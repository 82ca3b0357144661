package matter

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

const table = "matters"

type Repository interface {
	Create(ctx context.Context, matter *Matter) error
	GetAll(ctx context.Context) ([]Matter, error)
	GetByID(ctx context.Context, id int64) (*Matter, error)
	GetByName(ctx context.Context, name string) (*Matter, error)
	Update(ctx context.Context, matter *Matter) error
	Delete(ctx context.Context, id int64) error
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(database *bun.DB, m *metrics.Metrics) Repository {
	return &repository{db: database, metrics: m}
}

func (r *repository) Create(ctx context.Context, matter *Matter) error {
	start := time.Now()
	_, err := db.Conn(ctx, r.db).NewInsert().Model(matter).Returning("*").Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "insert", table, time.Since(start), err)
	if db.IsUniqueViolation(err) {
		return apperr.AlreadyRegistered("name", matter.Name)
	}
	return err
}

func (r *repository) GetAll(ctx context.Context) ([]Matter, error) {
	start := time.Now()
	matters := make([]Matter, 0)
	err := db.Conn(ctx, r.db).NewSelect().Model(&matters).Order("m.name ASC").Scan(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)
	return matters, err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Matter, error) {
	return r.getBy(ctx, "m.id = ?", id)
}

func (r *repository) GetByName(ctx context.Context, name string) (*Matter, error) {
	return r.getBy(ctx, "m.name = ?", name)
}

func (r *repository) getBy(ctx context.Context, where string, arg interface{}) (*Matter, error) {
	start := time.Now()
	matter := new(Matter)
	err := db.Conn(ctx, r.db).NewSelect().Model(matter).Where(where, arg).Scan(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("matter", arg)
		}
		return nil, err
	}
	return matter, nil
}

func (r *repository) Update(ctx context.Context, matter *Matter) error {
	start := time.Now()
	result, err := db.Conn(ctx, r.db).NewUpdate().
		Model(matter).
		Column("name").
		WherePK().
		Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "update", table, time.Since(start), err)
	if db.IsUniqueViolation(err) {
		return apperr.AlreadyRegistered("name", matter.Name)
	}
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.NotFound("matter", matter.ID)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	result, err := db.Conn(ctx, r.db).NewDelete().
		Model((*Matter)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "delete", table, time.Since(start), err)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.NotFound("matter", id)
	}
	return nil
}

func (r *repository) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	start := time.Now()
	q := db.Conn(ctx, r.db).NewSelect().
		Model((*Matter)(nil)).
		Where("name = ?", name)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	exists, err := q.Exists(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)
	return exists, err
}
