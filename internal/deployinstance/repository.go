package deployinstance

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

const table = "deploy_instances"

type Repository interface {
	Create(ctx context.Context, instance *DeployInstance) error
	GetAll(ctx context.Context) ([]DeployInstance, error)
	GetByID(ctx context.Context, id int64) (*DeployInstance, error)
	Update(ctx context.Context, instance *DeployInstance) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(database *bun.DB, m *metrics.Metrics) Repository {
	return &repository{db: database, metrics: m}
}

func (r *repository) Create(ctx context.Context, instance *DeployInstance) error {
	start := time.Now()
	_, err := db.Conn(ctx, r.db).NewInsert().Model(instance).Returning("*").Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "insert", table, time.Since(start), err)
	return err
}

func (r *repository) GetAll(ctx context.Context) ([]DeployInstance, error) {
	start := time.Now()
	instances := make([]DeployInstance, 0)
	err := db.Conn(ctx, r.db).NewSelect().Model(&instances).Order("d.id ASC").Scan(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)
	return instances, err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*DeployInstance, error) {
	start := time.Now()
	instance := new(DeployInstance)
	err := db.Conn(ctx, r.db).NewSelect().Model(instance).Where("d.id = ?", id).Scan(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("deployinstance", id)
		}
		return nil, err
	}
	return instance, nil
}

func (r *repository) Update(ctx context.Context, instance *DeployInstance) error {
	start := time.Now()
	result, err := db.Conn(ctx, r.db).NewUpdate().
		Model(instance).
		Column("name", "url", "comment").
		WherePK().
		Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "update", table, time.Since(start), err)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.NotFound("deployinstance", instance.ID)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	result, err := db.Conn(ctx, r.db).NewDelete().
		Model((*DeployInstance)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "delete", table, time.Since(start), err)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.NotFound("deployinstance", id)
	}
	return nil
}
