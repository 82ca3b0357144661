// Package schema lists every persisted model in foreign-key order.
package schema

import (
	"context"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/admin"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/commission"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/db"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/deployinstance"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/gitrepo"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/group"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/matter"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/project"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/student"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/teacher"

	"github.com/uptrace/bun"
)

const (
	fkRepository = `("repository_id") REFERENCES "repositories" ("id") ON DELETE CASCADE`
	fkStudent    = `("student_id") REFERENCES "students" ("id") ON DELETE CASCADE`
	fkCommission = `("commission_id") REFERENCES "commissions" ("id") ON DELETE CASCADE`
)

// Tables is every table, referenced tables first.
func Tables() []db.Table {
	return []db.Table{
		{Model: (*matter.Matter)(nil)},
		{Model: (*student.Student)(nil)},
		{Model: (*teacher.Teacher)(nil)},
		{Model: (*admin.Admin)(nil)},
		{Model: (*project.Project)(nil)},
		{Model: (*gitrepo.Repository)(nil), ForeignKeys: []string{
			`("project_id") REFERENCES "projects" ("id") ON DELETE CASCADE`,
		}},
		{Model: (*gitrepo.Issue)(nil), ForeignKeys: []string{fkRepository}},
		{Model: (*gitrepo.PullRequest)(nil), ForeignKeys: []string{fkRepository}},
		{Model: (*gitrepo.Tag)(nil), ForeignKeys: []string{fkRepository}},
		{Model: (*gitrepo.Branch)(nil), ForeignKeys: []string{fkRepository}},
		{Model: (*gitrepo.Commit)(nil), ForeignKeys: []string{fkRepository}},
		{Model: (*commission.Commission)(nil), ForeignKeys: []string{
			`("matter_id") REFERENCES "matters" ("id") ON DELETE CASCADE`,
		}},
		{Model: (*commission.CommissionStudent)(nil), ForeignKeys: []string{fkCommission, fkStudent}},
		{Model: (*commission.CommissionTeacher)(nil), ForeignKeys: []string{
			fkCommission,
			`("teacher_id") REFERENCES "teachers" ("id") ON DELETE CASCADE`,
		}},
		{Model: (*group.Group)(nil), ForeignKeys: []string{fkCommission}},
		{Model: (*group.Member)(nil), ForeignKeys: []string{
			`("group_id") REFERENCES "groups" ("id") ON DELETE CASCADE`,
			fkStudent,
		}},
		{Model: (*deployinstance.DeployInstance)(nil)},
	}
}

// TableNames lists the tables in Tables order.
func TableNames() []string {
	return []string{
		"matters", "students", "teachers", "admins", "projects",
		"repositories", "issues", "pull_requests", "tags", "branches", "commits",
		"commissions", "commission_students", "commission_teachers",
		"groups", "group_members", "deploy_instances",
	}
}

// Register makes the many-to-many join models known to bun. Must run before
// any query touching Commission.Students, Commission.Teachers or Group.Members.
func Register(database *bun.DB) {
	database.RegisterModel(
		(*commission.CommissionStudent)(nil),
		(*commission.CommissionTeacher)(nil),
		(*group.Member)(nil),
	)
}

// Migrate registers the join models and creates every table.
func Migrate(ctx context.Context, database *bun.DB) error {
	Register(database)
	return db.RunMigrations(ctx, database, Tables()...)
}
