package project

import (
	"time"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/gitrepo"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/validation"

	"github.com/uptrace/bun"
)

type OwnerType string

const (
	OwnerStudent OwnerType = "student"
	OwnerTeacher OwnerType = "teacher"
)

// Owner identifies the student or teacher holding a project.
type Owner struct {
	Type OwnerType `json:"type"`
	ID   int64     `json:"id"`
}

type Project struct {
	bun.BaseModel `bun:"table:projects,alias:p"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	OwnerType OwnerType `bun:"owner_type,nullzero" json:"ownerType,omitempty"`
	OwnerID   int64     `bun:"owner_id,nullzero" json:"ownerId,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`

	Repositories []gitrepo.Repository `bun:"rel:has-many,join:id=project_id" json:"repositories"`
}

func NewProject(name string) (*Project, error) {
	if err := apperr.NewFields("project").Check("name", validation.GithubName(name)).Err(); err != nil {
		return nil, err
	}
	return &Project{Name: name}, nil
}

func (p *Project) SetName(name string) error {
	if msg := validation.GithubName(name); msg != "" {
		return apperr.Invalid("project", "name", msg)
	}
	p.Name = name
	return nil
}

// Owner returns the current owner, if any.
func (p *Project) Owner() (Owner, bool) {
	if p.OwnerType == "" || p.OwnerID == 0 {
		return Owner{}, false
	}
	return Owner{Type: p.OwnerType, ID: p.OwnerID}, true
}

// AssignTo records o as the owner. Assigning the current owner again is a no-op.
func (p *Project) AssignTo(o Owner) error {
	if current, ok := p.Owner(); ok && current != o {
		return apperr.ErrProjectAlreadyHasAnOwner
	}
	p.OwnerType, p.OwnerID = o.Type, o.ID
	return nil
}

func (p *Project) HasRepository(name string) bool {
	for _, r := range p.Repositories {
		if r.Name == name {
			return true
		}
	}
	return false
}

// AddRepository appends r unless a repository with the same name is already present.
func (p *Project) AddRepository(r gitrepo.Repository) error {
	if p.HasRepository(r.Name) {
		return apperr.ErrDuplicateRepository
	}
	r.ProjectID = p.ID
	p.Repositories = append(p.Repositories, r)
	return nil
}

// CheckRename fails when another repository of the project is already called name.
func (p *Project) CheckRename(repoID int64, name string) error {
	for _, r := range p.Repositories {
		if r.ID != repoID && r.Name == name {
			return apperr.ErrDuplicateRepository
		}
	}
	return nil
}

// Portfolio is the project-holding capability embedded by students and teachers.
type Portfolio struct {
	Projects []Project `json:"projects,omitempty"`
}

// AddProject claims p for owner and lists it in the portfolio.
func (pf *Portfolio) AddProject(owner Owner, p *Project) error {
	if err := p.AssignTo(owner); err != nil {
		return err
	}
	for _, existing := range pf.Projects {
		if existing.ID == p.ID {
			return nil
		}
	}
	pf.Projects = append(pf.Projects, *p)
	return nil
}

type ProjectRequest struct {
	Name string `json:"name" validate:"required"`
}
