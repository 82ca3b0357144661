package project

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

const table = "projects"

type Repository interface {
	Create(ctx context.Context, project *Project) error
	GetAll(ctx context.Context) ([]Project, error)
	GetByID(ctx context.Context, id int64) (*Project, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id int64) error
	// SetOwner stores owner unless another owner already holds the project.
	SetOwner(ctx context.Context, id int64, owner Owner) error
	ListByOwner(ctx context.Context, owner Owner) ([]Project, error)
	DeleteByOwner(ctx context.Context, owner Owner) error
	Exists(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(database *bun.DB, m *metrics.Metrics) Repository {
	return &repository{db: database, metrics: m}
}

func (r *repository) Create(ctx context.Context, project *Project) error {
	start := time.Now()
	_, err := db.Conn(ctx, r.db).NewInsert().Model(project).Returning("*").Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "insert", table, time.Since(start), err)
	return err
}

func (r *repository) GetAll(ctx context.Context) ([]Project, error) {
	start := time.Now()
	var projects []Project
	err := db.Conn(ctx, r.db).NewSelect().
		Model(&projects).
		Relation("Repositories").
		Order("p.id ASC").
		Scan(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)
	return projects, err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Project, error) {
	start := time.Now()
	project := new(Project)
	err := db.Conn(ctx, r.db).NewSelect().
		Model(project).
		Relation("Repositories").
		Where("p.id = ?", id).
		Scan(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("project", id)
		}
		return nil, err
	}
	return project, nil
}

func (r *repository) Update(ctx context.Context, project *Project) error {
	start := time.Now()
	project.UpdatedAt = time.Now()
	result, err := db.Conn(ctx, r.db).NewUpdate().
		Model(project).
		Column("name", "updated_at").
		WherePK().
		Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "update", table, time.Since(start), err)
	return notFoundIfNoRows(result, err, project.ID)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	result, err := db.Conn(ctx, r.db).NewDelete().
		Model((*Project)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "delete", table, time.Since(start), err)
	return notFoundIfNoRows(result, err, id)
}

func (r *repository) SetOwner(ctx context.Context, id int64, owner Owner) error {
	start := time.Now()
	result, err := db.Conn(ctx, r.db).NewUpdate().
		Model((*Project)(nil)).
		Set("owner_type = ?", owner.Type).
		Set("owner_id = ?", owner.ID).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		WhereGroup(" AND ", func(q *bun.UpdateQuery) *bun.UpdateQuery {
			return q.Where("owner_id IS NULL").
				WhereOr("owner_type = ? AND owner_id = ?", owner.Type, owner.ID)
		}).
		Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "update", table, time.Since(start), err)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.ErrProjectAlreadyHasAnOwner
	}
	return nil
}

func (r *repository) ListByOwner(ctx context.Context, owner Owner) ([]Project, error) {
	start := time.Now()
	projects := make([]Project, 0)
	err := db.Conn(ctx, r.db).NewSelect().
		Model(&projects).
		Relation("Repositories").
		Where("p.owner_type = ?", owner.Type).
		Where("p.owner_id = ?", owner.ID).
		Order("p.id ASC").
		Scan(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)
	return projects, err
}

func (r *repository) DeleteByOwner(ctx context.Context, owner Owner) error {
	start := time.Now()
	_, err := db.Conn(ctx, r.db).NewDelete().
		Model((*Project)(nil)).
		Where("owner_type = ?", owner.Type).
		Where("owner_id = ?", owner.ID).
		Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "delete", table, time.Since(start), err)
	return err
}

func (r *repository) Exists(ctx context.Context, id int64) (bool, error) {
	start := time.Now()
	exists, err := db.Conn(ctx, r.db).NewSelect().
		Model((*Project)(nil)).
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
		return apperr.NotFound("project", id)
	}
	return nil
}
