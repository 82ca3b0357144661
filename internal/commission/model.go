package commission

import (
	"time"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/group"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/matter"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/student"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/teacher"

	"github.com/uptrace/bun"
)

const MinYear = 2000

type Period string

const (
	FirstPeriod  Period = "FIRST_PERIOD"
	SecondPeriod Period = "SECOND_PERIOD"
)

func (p Period) Valid() bool {
	return p == FirstPeriod || p == SecondPeriod
}

// Commission is one offering of a matter in a given year and four-month period.
type Commission struct {
	bun.BaseModel `bun:"table:commissions,alias:c"`

	ID              int64          `bun:"id,pk,autoincrement" json:"id"`
	Year            int            `bun:"year,notnull" json:"year"`
	FourMonthPeriod Period         `bun:"four_month_period,notnull" json:"fourMonthPeriod"`
	MatterID        int64          `bun:"matter_id,notnull" json:"matterId"`
	Matter          *matter.Matter `bun:"rel:belongs-to,join:matter_id=id" json:"matter,omitempty"`
	CreatedAt       time.Time      `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`

	Students []student.Student `bun:"m2m:commission_students,join:Commission=Student" json:"students"`
	Teachers []teacher.Teacher `bun:"m2m:commission_teachers,join:Commission=Teacher" json:"teachers"`
	Groups   []group.Group     `bun:"rel:has-many,join:id=commission_id" json:"groups"`
}

type CommissionStudent struct {
	bun.BaseModel `bun:"table:commission_students,alias:cs"`

	CommissionID int64            `bun:"commission_id,pk"`
	Commission   *Commission      `bun:"rel:belongs-to,join:commission_id=id"`
	StudentID    int64            `bun:"student_id,pk"`
	Student      *student.Student `bun:"rel:belongs-to,join:student_id=id"`
}

type CommissionTeacher struct {
	bun.BaseModel `bun:"table:commission_teachers,alias:ct"`

	CommissionID int64            `bun:"commission_id,pk"`
	Commission   *Commission      `bun:"rel:belongs-to,join:commission_id=id"`
	TeacherID    int64            `bun:"teacher_id,pk"`
	Teacher      *teacher.Teacher `bun:"rel:belongs-to,join:teacher_id=id"`
}

func NewCommission(year int, period Period, m *matter.Matter) (*Commission, error) {
	fields := apperr.NewFields("commission").
		Check("year", yearRule(year)).
		Check("fourMonthPeriod", periodRule(period))
	if m == nil || m.ID <= 0 {
		fields.Check("matter", "must be an existing matter")
	}
	if err := fields.Err(); err != nil {
		return nil, err
	}
	return &Commission{Year: year, FourMonthPeriod: period, MatterID: m.ID, Matter: m}, nil
}

func (c *Commission) SetYear(year int) error {
	if msg := yearRule(year); msg != "" {
		return apperr.Invalid("commission", "year", msg)
	}
	c.Year = year
	return nil
}

func (c *Commission) SetFourMonthPeriod(period Period) error {
	if msg := periodRule(period); msg != "" {
		return apperr.Invalid("commission", "fourMonthPeriod", msg)
	}
	c.FourMonthPeriod = period
	return nil
}

func (c *Commission) SetMatter(m *matter.Matter) error {
	if m == nil || m.ID <= 0 {
		return apperr.Invalid("commission", "matter", "must be an existing matter")
	}
	c.MatterID, c.Matter = m.ID, m
	return nil
}

// IsEnrolled reports whether the loaded student list contains studentID.
func (c *Commission) IsEnrolled(studentID int64) bool {
	for _, s := range c.Students {
		if s.ID == studentID {
			return true
		}
	}
	return false
}

func yearRule(year int) string {
	if year < MinYear {
		return "must be 2000 or later"
	}
	return ""
}

func periodRule(p Period) string {
	if !p.Valid() {
		return "must be FIRST_PERIOD or SECOND_PERIOD"
	}
	return ""
}

type Request struct {
	Year            int    `json:"year" validate:"required,gte=2000"`
	FourMonthPeriod Period `json:"fourMonthPeriod" validate:"required,oneof=FIRST_PERIOD SECOND_PERIOD"`
	Matter          string `json:"matter" validate:"required"`
}
