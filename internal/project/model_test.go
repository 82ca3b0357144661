package project_test

import (
	"testing"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/gitrepo"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/project"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProject(t *testing.T) {
	p, err := project.NewProject("unq-pds_api")
	require.NoError(t, err)
	assert.Equal(t, "unq-pds_api", p.Name)

	for _, name := range []string{"", "  ", "my project", "api!"} {
		_, err := project.NewProject(name)
		assert.ErrorIs(t, err, apperr.ErrValidation, name)
	}
}

func TestProjectSetName(t *testing.T) {
	p, err := project.NewProject("api")
	require.NoError(t, err)

	assert.Error(t, p.SetName("bad name"))
	assert.Equal(t, "api", p.Name)
	require.NoError(t, p.SetName("web"))
	assert.Equal(t, "web", p.Name)
}

func TestAssignTo(t *testing.T) {
	alice := project.Owner{Type: project.OwnerStudent, ID: 1}
	bob := project.Owner{Type: project.OwnerStudent, ID: 2}
	teacherOne := project.Owner{Type: project.OwnerTeacher, ID: 1}

	p := &project.Project{ID: 10, Name: "api"}
	_, owned := p.Owner()
	assert.False(t, owned)

	require.NoError(t, p.AssignTo(alice))
	got, owned := p.Owner()
	require.True(t, owned)
	assert.Equal(t, alice, got)

	assert.NoError(t, p.AssignTo(alice))
	assert.ErrorIs(t, p.AssignTo(bob), apperr.ErrProjectAlreadyHasAnOwner)
	assert.ErrorIs(t, p.AssignTo(teacherOne), apperr.ErrProjectAlreadyHasAnOwner)

	got, _ = p.Owner()
	assert.Equal(t, alice, got)
}

func TestAddRepository(t *testing.T) {
	p := &project.Project{ID: 3, Name: "api"}

	require.NoError(t, p.AddRepository(gitrepo.Repository{ID: 100, Name: "backend"}))
	require.Len(t, p.Repositories, 1)
	assert.Equal(t, int64(3), p.Repositories[0].ProjectID)
	assert.True(t, p.HasRepository("backend"))

	err := p.AddRepository(gitrepo.Repository{ID: 101, Name: "backend"})
	assert.ErrorIs(t, err, apperr.ErrDuplicateRepository)
	assert.Len(t, p.Repositories, 1)

	require.NoError(t, p.AddRepository(gitrepo.Repository{ID: 102, Name: "frontend"}))
	assert.Len(t, p.Repositories, 2)
}

func TestCheckRename(t *testing.T) {
	p := &project.Project{ID: 3, Name: "tp"}
	require.NoError(t, p.AddRepository(gitrepo.Repository{ID: 100, Name: "backend"}))
	require.NoError(t, p.AddRepository(gitrepo.Repository{ID: 101, Name: "frontend"}))

	assert.ErrorIs(t, p.CheckRename(100, "frontend"), apperr.ErrDuplicateRepository)
	assert.NoError(t, p.CheckRename(100, "backend"))
	assert.NoError(t, p.CheckRename(100, "backend-v2"))
}
