package group_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/db"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/events"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/group"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/metrics"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/student"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roster maps commission ids to their enrolled students.
type roster map[int64][]int64

func (r roster) CheckEnrollment(_ context.Context, commissionID int64, studentIDs []int64) error {
	enrolled, ok := r[commissionID]
	if !ok {
		return apperr.NotFound("commission", commissionID)
	}
	return group.CheckEnrollment(commissionID, studentIDs, enrolled)
}

type memoryRepo struct {
	nextID int64
	groups map[int64]*group.Group
}

func (r *memoryRepo) Create(_ context.Context, g *group.Group) error {
	r.nextID++
	g.ID = r.nextID
	stored := *g
	r.groups[g.ID] = &stored
	return nil
}

func (r *memoryRepo) GetAll(context.Context) ([]group.Group, error) {
	out := make([]group.Group, 0, len(r.groups))
	for _, g := range r.groups {
		out = append(out, *g)
	}
	return out, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (*group.Group, error) {
	g, ok := r.groups[id]
	if !ok {
		return nil, apperr.NotFound("group", id)
	}
	copied := *g
	copied.Members = append([]student.Student(nil), g.Members...)
	return &copied, nil
}

func (r *memoryRepo) Update(_ context.Context, g *group.Group) error {
	r.groups[g.ID].Name = g.Name
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.groups[id]; !ok {
		return apperr.NotFound("group", id)
	}
	delete(r.groups, id)
	return nil
}

func (r *memoryRepo) AddMembers(_ context.Context, id int64, studentIDs ...int64) error {
	g := r.groups[id]
	for _, sid := range studentIDs {
		if !g.HasMember(sid) {
			g.Members = append(g.Members, student.Student{ID: sid})
		}
	}
	return nil
}

func newGroupService(r roster) (group.Service, *memoryRepo, *events.Recorder) {
	repo := &memoryRepo{groups: map[int64]*group.Group{}}
	recorder := &events.Recorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return group.NewService(repo, r, db.NoTx{}, recorder, logger, metrics.NewMock()), repo, recorder
}

func TestGroupService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("EnrolledMembers", func(t *testing.T) {
		svc, _, recorder := newGroupService(roster{1: {10, 11, 12}})

		g, err := svc.Create(ctx, group.CreateRequest{Name: "Alpha", CommissionID: 1, Members: []int64{10, 11, 10}})
		require.NoError(t, err)
		assert.Len(t, g.Members, 2)
		assert.Equal(t, []string{events.GroupCreated}, recorder.Types())
	})

	t.Run("WithoutMembers", func(t *testing.T) {
		svc, _, _ := newGroupService(roster{1: nil})

		g, err := svc.Create(ctx, group.CreateRequest{Name: "Alpha", CommissionID: 1})
		require.NoError(t, err)
		assert.Empty(t, g.Members)
	})

	t.Run("MemberNotEnrolled", func(t *testing.T) {
		svc, repo, _ := newGroupService(roster{1: {10}})

		_, err := svc.Create(ctx, group.CreateRequest{Name: "Alpha", CommissionID: 1, Members: []int64{10, 20}})
		var notEnrolled *apperr.NotEnrolledError
		require.ErrorAs(t, err, &notEnrolled)
		assert.Equal(t, []int64{20}, notEnrolled.StudentIDs)
		assert.Empty(t, repo.groups)
	})

	t.Run("UnknownCommission", func(t *testing.T) {
		svc, _, _ := newGroupService(roster{})

		_, err := svc.Create(ctx, group.CreateRequest{Name: "Alpha", CommissionID: 5})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("BlankName", func(t *testing.T) {
		svc, _, _ := newGroupService(roster{1: nil})

		_, err := svc.Create(ctx, group.CreateRequest{Name: " ", CommissionID: 1})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestGroupService_AddMember(t *testing.T) {
	ctx := context.Background()
	svc, _, recorder := newGroupService(roster{1: {10, 11}})
	g, err := svc.Create(ctx, group.CreateRequest{Name: "Alpha", CommissionID: 1, Members: []int64{10}})
	require.NoError(t, err)

	got, err := svc.AddMember(ctx, g.ID, 11)
	require.NoError(t, err)
	assert.True(t, got.HasMember(11))

	t.Run("AlreadyMemberIsNoop", func(t *testing.T) {
		before := len(recorder.Events)
		got, err := svc.AddMember(ctx, g.ID, 10)
		require.NoError(t, err)
		assert.Len(t, got.Members, 2)
		assert.Len(t, recorder.Events, before)
	})

	t.Run("NotEnrolled", func(t *testing.T) {
		_, err := svc.AddMember(ctx, g.ID, 99)
		assert.ErrorIs(t, err, apperr.ErrStudentsNotEnrolled)
	})

	t.Run("UnknownGroup", func(t *testing.T) {
		_, err := svc.AddMember(ctx, 404, 10)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}
