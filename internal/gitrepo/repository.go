package gitrepo

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

const table = "repositories"

type Store interface {
	// Create inserts the repository row and every mirrored child.
	Create(ctx context.Context, repo *Repository) error
	GetAll(ctx context.Context) ([]Repository, error)
	GetByID(ctx context.Context, id int64) (*Repository, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// Replace overwrites the row and swaps the mirrored children for repo's.
	Replace(ctx context.Context, repo *Repository) error
	Delete(ctx context.Context, id int64) error
}

type store struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewStore(database *bun.DB, m *metrics.Metrics) Store {
	return &store{db: database, metrics: m}
}

func (s *store) Create(ctx context.Context, repo *Repository) error {
	start := time.Now()
	_, err := db.Conn(ctx, s.db).NewInsert().Model(repo).Exec(ctx)
	s.metrics.Database.RecordQuery(ctx, "insert", table, time.Since(start), err)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.AlreadyRegistered("repository", repo.Name)
		}
		return err
	}
	return s.insertChildren(ctx, repo)
}

func (s *store) insertChildren(ctx context.Context, repo *Repository) error {
	conn := db.Conn(ctx, s.db)
	children := []struct {
		table string
		model interface{}
		size  int
	}{
		{"issues", &repo.Issues, len(repo.Issues)},
		{"pull_requests", &repo.PullRequests, len(repo.PullRequests)},
		{"tags", &repo.Tags, len(repo.Tags)},
		{"branches", &repo.Branches, len(repo.Branches)},
		{"commits", &repo.Commits, len(repo.Commits)},
	}
	for _, c := range children {
		if c.size == 0 {
			continue
		}
		start := time.Now()
		_, err := conn.NewInsert().Model(c.model).Exec(ctx)
		s.metrics.Database.RecordQuery(ctx, "insert", c.table, time.Since(start), err)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *store) GetAll(ctx context.Context) ([]Repository, error) {
	start := time.Now()
	repos := make([]Repository, 0)
	err := db.Conn(ctx, s.db).NewSelect().
		Model(&repos).
		Order("r.id ASC").
		Scan(ctx)
	s.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)
	return repos, err
}

func (s *store) GetByID(ctx context.Context, id int64) (*Repository, error) {
	start := time.Now()
	repo := new(Repository)
	err := db.Conn(ctx, s.db).NewSelect().
		Model(repo).
		Relation("Issues").
		Relation("PullRequests").
		Relation("Tags").
		Relation("Branches").
		Relation("Commits").
		Where("r.id = ?", id).
		Scan(ctx)
	s.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("repository", id)
		}
		return nil, err
	}
	return repo, nil
}

func (s *store) Exists(ctx context.Context, id int64) (bool, error) {
	start := time.Now()
	exists, err := db.Conn(ctx, s.db).NewSelect().
		Model((*Repository)(nil)).
		Where("id = ?", id).
		Exists(ctx)
	s.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)
	return exists, err
}

func (s *store) Replace(ctx context.Context, repo *Repository) error {
	conn := db.Conn(ctx, s.db)

	for _, model := range []interface{}{(*Issue)(nil), (*PullRequest)(nil), (*Tag)(nil), (*Branch)(nil), (*Commit)(nil)} {
		start := time.Now()
		_, err := conn.NewDelete().Model(model).Where("repository_id = ?", repo.ID).Exec(ctx)
		s.metrics.Database.RecordQuery(ctx, "delete", "repository_children", time.Since(start), err)
		if err != nil {
			return err
		}
	}

	start := time.Now()
	repo.SyncedAt = time.Now()
	result, err := conn.NewUpdate().
		Model(repo).
		Column("name", "owner", "url", "synced_at").
		WherePK().
		Exec(ctx)
	s.metrics.Database.RecordQuery(ctx, "update", table, time.Since(start), err)
	if err := notFoundIfNoRows(result, err, repo.ID); err != nil {
		return err
	}

	return s.insertChildren(ctx, repo)
}

func (s *store) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	result, err := db.Conn(ctx, s.db).NewDelete().
		Model((*Repository)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	s.metrics.Database.RecordQuery(ctx, "delete", table, time.Since(start), err)
	return notFoundIfNoRows(result, err, id)
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
		return apperr.NotFound("repository", id)
	}
	return nil
}
