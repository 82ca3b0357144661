package matter

import (
	"strings"
	"time"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/validation"

	"github.com/uptrace/bun"
)

// Matter is a subject taught in one or more commissions.
type Matter struct {
	bun.BaseModel `bun:"table:matters,alias:m"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,unique,notnull" json:"name"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

func NewMatter(name string) (*Matter, error) {
	m := &Matter{}
	if err := m.SetName(name); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Matter) SetName(name string) error {
	if validation.IsBlank(name) {
		return apperr.Invalid("matter", "name", "must not be blank")
	}
	m.Name = strings.TrimSpace(name)
	return nil
}

type Request struct {
	Name string `json:"name" validate:"required"`
}
