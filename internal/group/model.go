package group

import (
	"sort"
	"strings"
	"time"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/student"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/validation"

	"github.com/uptrace/bun"
)

// Group is a set of students working together inside one commission.
type Group struct {
	bun.BaseModel `bun:"table:groups,alias:g"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	Name         string    `bun:"name,notnull" json:"name"`
	CommissionID int64     `bun:"commission_id,notnull" json:"commissionId"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`

	Members []student.Student `bun:"m2m:group_members,join:Group=Student" json:"members"`
}

// Member links a student to a group.
type Member struct {
	bun.BaseModel `bun:"table:group_members,alias:gm"`

	GroupID   int64            `bun:"group_id,pk"`
	Group     *Group           `bun:"rel:belongs-to,join:group_id=id"`
	StudentID int64            `bun:"student_id,pk"`
	Student   *student.Student `bun:"rel:belongs-to,join:student_id=id"`
}

func NewGroup(name string, commissionID int64) (*Group, error) {
	fields := apperr.NewFields("group")
	if validation.IsBlank(name) {
		fields.Check("name", "must not be blank")
	}
	if commissionID <= 0 {
		fields.Check("commissionId", "must be positive")
	}
	if err := fields.Err(); err != nil {
		return nil, err
	}
	return &Group{Name: strings.TrimSpace(name), CommissionID: commissionID}, nil
}

func (g *Group) SetName(name string) error {
	if validation.IsBlank(name) {
		return apperr.Invalid("group", "name", "must not be blank")
	}
	g.Name = strings.TrimSpace(name)
	return nil
}

func (g *Group) HasMember(studentID int64) bool {
	for _, m := range g.Members {
		if m.ID == studentID {
			return true
		}
	}
	return false
}

// CheckEnrollment fails with a NotEnrolledError listing every requested id
// missing from enrolled.
func CheckEnrollment(commissionID int64, requested, enrolled []int64) error {
	in := make(map[int64]struct{}, len(enrolled))
	for _, id := range enrolled {
		in[id] = struct{}{}
	}

	var missing []int64
	seen := make(map[int64]struct{}, len(requested))
	for _, id := range requested {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := in[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return &apperr.NotEnrolledError{CommissionID: commissionID, StudentIDs: missing}
}

// Unique returns ids without duplicates, keeping first-seen order.
func Unique(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

type CreateRequest struct {
	Name         string  `json:"name" validate:"required"`
	CommissionID int64   `json:"commissionId" validate:"required,gt=0"`
	Members      []int64 `json:"members" validate:"dive,gt=0"`
}

type UpdateRequest struct {
	Name string `json:"name" validate:"required"`
}
