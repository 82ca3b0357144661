package teacher

import (
	"time"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/person"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/project"

	"github.com/uptrace/bun"
)

const entity = "teacher"

type Teacher struct {
	bun.BaseModel `bun:"table:teachers,alias:t"`

	ID int64 `bun:"id,pk,autoincrement" json:"id"`
	person.Person
	project.Portfolio `bun:"-"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

func NewTeacher(firstName, lastName, email string) (*Teacher, error) {
	p, err := person.New(entity, firstName, lastName, email)
	if err != nil {
		return nil, err
	}
	return &Teacher{Person: p}, nil
}

// AsOwner is the project owner reference for this teacher.
func (t *Teacher) AsOwner() project.Owner {
	return project.Owner{Type: project.OwnerTeacher, ID: t.ID}
}

func (t *Teacher) SetFirstName(v string) error { return t.Person.SetFirstName(entity, v) }

func (t *Teacher) SetLastName(v string) error { return t.Person.SetLastName(entity, v) }

func (t *Teacher) SetEmail(v string) error { return t.Person.SetEmail(entity, v) }
