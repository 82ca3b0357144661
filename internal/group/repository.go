package group

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

const table = "groups"

type Repository interface {
	Create(ctx context.Context, group *Group) error
	GetAll(ctx context.Context) ([]Group, error)
	GetByID(ctx context.Context, id int64) (*Group, error)
	Update(ctx context.Context, group *Group) error
	Delete(ctx context.Context, id int64) error
	AddMembers(ctx context.Context, id int64, studentIDs ...int64) error
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(database *bun.DB, m *metrics.Metrics) Repository {
	return &repository{db: database, metrics: m}
}

func (r *repository) Create(ctx context.Context, group *Group) error {
	start := time.Now()
	_, err := db.Conn(ctx, r.db).NewInsert().Model(group).Returning("*").Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "insert", table, time.Since(start), err)
	return err
}

func (r *repository) GetAll(ctx context.Context) ([]Group, error) {
	start := time.Now()
	groups := make([]Group, 0)
	err := db.Conn(ctx, r.db).NewSelect().
		Model(&groups).
		Relation("Members").
		Order("g.id ASC").
		Scan(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)
	return groups, err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Group, error) {
	start := time.Now()
	group := new(Group)
	err := db.Conn(ctx, r.db).NewSelect().
		Model(group).
		Relation("Members").
		Where("g.id = ?", id).
		Scan(ctx)
	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("group", id)
		}
		return nil, err
	}
	return group, nil
}

func (r *repository) Update(ctx context.Context, group *Group) error {
	start := time.Now()
	result, err := db.Conn(ctx, r.db).NewUpdate().
		Model(group).
		Column("name").
		WherePK().
		Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "update", table, time.Since(start), err)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.NotFound("group", group.ID)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	result, err := db.Conn(ctx, r.db).NewDelete().
		Model((*Group)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "delete", table, time.Since(start), err)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.NotFound("group", id)
	}
	return nil
}

func (r *repository) AddMembers(ctx context.Context, id int64, studentIDs ...int64) error {
	if len(studentIDs) == 0 {
		return nil
	}
	members := make([]Member, 0, len(studentIDs))
	for _, sid := range studentIDs {
		members = append(members, Member{GroupID: id, StudentID: sid})
	}

	start := time.Now()
	_, err := db.Conn(ctx, r.db).NewInsert().
		Model(&members).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	r.metrics.Database.RecordQuery(ctx, "insert", "group_members", time.Since(start), err)
	return err
}
