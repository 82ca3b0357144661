package student

import (
	"time"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/person"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/project"

	"github.com/uptrace/bun"
)

const entity = "student"

type Student struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	ID int64 `bun:"id,pk,autoincrement" json:"id"`
	person.Person
	project.Portfolio `bun:"-"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

func NewStudent(firstName, lastName, email string) (*Student, error) {
	p, err := person.New(entity, firstName, lastName, email)
	if err != nil {
		return nil, err
	}
	return &Student{Person: p}, nil
}

// AsOwner is the project owner reference for this student.
func (s *Student) AsOwner() project.Owner {
	return project.Owner{Type: project.OwnerStudent, ID: s.ID}
}

func (s *Student) SetFirstName(v string) error { return s.Person.SetFirstName(entity, v) }

func (s *Student) SetLastName(v string) error { return s.Person.SetLastName(entity, v) }

func (s *Student) SetEmail(v string) error { return s.Person.SetEmail(entity, v) }
