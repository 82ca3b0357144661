package student_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/db"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/events"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/metrics"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/person"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/project"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/student"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	nextID   int64
	students map[int64]student.Student
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{students: map[int64]student.Student{}}
}

func (r *memoryRepo) Create(_ context.Context, s *student.Student) error {
	r.nextID++
	s.ID = r.nextID
	r.students[s.ID] = *s
	return nil
}

func (r *memoryRepo) GetAll(context.Context) ([]student.Student, error) {
	out := make([]student.Student, 0, len(r.students))
	for _, s := range r.students {
		out = append(out, s)
	}
	return out, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (*student.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, apperr.NotFound("student", id)
	}
	return &s, nil
}

func (r *memoryRepo) Update(_ context.Context, s *student.Student) error {
	r.students[s.ID] = *s
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.students[id]; !ok {
		return apperr.NotFound("student", id)
	}
	delete(r.students, id)
	return nil
}

func (r *memoryRepo) EmailExists(_ context.Context, email string, excludeID int64) (bool, error) {
	for id, s := range r.students {
		if s.Email == email && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.students[id]
	return ok, nil
}

type emailSet map[string]bool

func (e emailSet) EmailExists(_ context.Context, email string, _ int64) (bool, error) {
	return e[email], nil
}

type memoryProjects struct {
	projects map[int64]*project.Project
	deleted  []project.Owner
}

func (m *memoryProjects) AssignOwner(_ context.Context, id int64, owner project.Owner) (*project.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, apperr.NotFound("project", id)
	}
	if err := p.AssignTo(owner); err != nil {
		return nil, err
	}
	return p, nil
}

func (m *memoryProjects) ListByOwner(_ context.Context, owner project.Owner) ([]project.Project, error) {
	var out []project.Project
	for _, p := range m.projects {
		if o, ok := p.Owner(); ok && o == owner {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memoryProjects) DeleteByOwner(_ context.Context, owner project.Owner) error {
	m.deleted = append(m.deleted, owner)
	return nil
}

func newService(teachers emailSet, projects *memoryProjects) (student.Service, *memoryRepo, *events.Recorder) {
	repo := newMemoryRepo()
	recorder := &events.Recorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := student.NewService(repo, teachers, projects, db.NoTx{}, recorder, logger, metrics.NewMock())
	return svc, repo, recorder
}

func TestStudentService(t *testing.T) {
	ctx := context.Background()
	german := person.Request{FirstName: "German", LastName: "Greco", Email: "german@gmail.com"}

	t.Run("Create_PublishesEvent", func(t *testing.T) {
		svc, _, recorder := newService(emailSet{}, &memoryProjects{})

		s, err := svc.Create(ctx, german)
		require.NoError(t, err)
		assert.Equal(t, int64(1), s.ID)
		assert.Equal(t, []string{events.StudentCreated}, recorder.Types())
	})

	t.Run("Create_DuplicateEmail", func(t *testing.T) {
		svc, _, _ := newService(emailSet{}, &memoryProjects{})
		_, err := svc.Create(ctx, german)
		require.NoError(t, err)

		dup := german
		dup.Email = "GERMAN@gmail.com"
		_, err = svc.Create(ctx, dup)
		assert.ErrorIs(t, err, apperr.ErrAlreadyRegistered)
	})

	t.Run("Create_EmailUsedByTeacher", func(t *testing.T) {
		svc, _, recorder := newService(emailSet{"german@gmail.com": true}, &memoryProjects{})

		_, err := svc.Create(ctx, german)
		assert.ErrorIs(t, err, apperr.ErrAlreadyRegistered)
		assert.Empty(t, recorder.Events)
	})

	t.Run("Create_InvalidName", func(t *testing.T) {
		svc, _, _ := newService(emailSet{}, &memoryProjects{})

		bad := german
		bad.FirstName = "German2"
		_, err := svc.Create(ctx, bad)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("Update_KeepingOwnEmail", func(t *testing.T) {
		svc, repo, _ := newService(emailSet{}, &memoryProjects{})
		s, err := svc.Create(ctx, german)
		require.NoError(t, err)

		req := german
		req.LastName = "Ventura"
		updated, err := svc.Update(ctx, s.ID, req)
		require.NoError(t, err)
		assert.Equal(t, "Ventura", updated.LastName)
		assert.Equal(t, "Ventura", repo.students[s.ID].LastName)
	})

	t.Run("Update_InvalidLeavesStoredStudent", func(t *testing.T) {
		svc, repo, _ := newService(emailSet{}, &memoryProjects{})
		s, err := svc.Create(ctx, german)
		require.NoError(t, err)

		_, err = svc.Update(ctx, s.ID, person.Request{FirstName: "Pepe", LastName: "L#", Email: "pepe@gmail.com"})
		assert.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, "German", repo.students[s.ID].FirstName)
	})

	t.Run("Update_NotFound", func(t *testing.T) {
		svc, _, _ := newService(emailSet{}, &memoryProjects{})
		_, err := svc.Update(ctx, 99, german)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("Delete_RemovesOwnedProjects", func(t *testing.T) {
		projects := &memoryProjects{}
		svc, repo, recorder := newService(emailSet{}, projects)
		s, err := svc.Create(ctx, german)
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, s.ID))
		assert.Empty(t, repo.students)
		assert.Equal(t, []project.Owner{{Type: project.OwnerStudent, ID: s.ID}}, projects.deleted)
		assert.Equal(t, []string{events.StudentCreated, events.StudentDeleted}, recorder.Types())
	})

	t.Run("AddProject", func(t *testing.T) {
		projects := &memoryProjects{projects: map[int64]*project.Project{
			1: {ID: 1, Name: "api"},
			2: {ID: 2, Name: "web", OwnerType: project.OwnerTeacher, OwnerID: 8},
		}}
		svc, _, _ := newService(emailSet{}, projects)
		s, err := svc.Create(ctx, german)
		require.NoError(t, err)

		got, err := svc.AddProject(ctx, s.ID, 1)
		require.NoError(t, err)
		require.Len(t, got.Projects, 1)
		assert.Equal(t, "api", got.Projects[0].Name)

		_, err = svc.AddProject(ctx, s.ID, 2)
		assert.ErrorIs(t, err, apperr.ErrProjectAlreadyHasAnOwner)

		_, err = svc.AddProject(ctx, s.ID, 3)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}
