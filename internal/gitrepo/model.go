package gitrepo

import (
	"time"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/validation"

	"github.com/uptrace/bun"
)

// Repository mirrors a GitHub repository attached to a project. ID is the GitHub id.
type Repository struct {
	bun.BaseModel `bun:"table:repositories,alias:r"`

	ID        int64     `bun:"id,pk" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Owner     string    `bun:"owner,notnull" json:"owner"`
	URL       string    `bun:"url,notnull" json:"url"`
	ProjectID int64     `bun:"project_id,notnull" json:"projectId"`
	SyncedAt  time.Time `bun:"synced_at,notnull,default:current_timestamp" json:"syncedAt"`

	Issues       []Issue       `bun:"rel:has-many,join:id=repository_id" json:"issues"`
	PullRequests []PullRequest `bun:"rel:has-many,join:id=repository_id" json:"pullRequests"`
	Tags         []Tag         `bun:"rel:has-many,join:id=repository_id" json:"tags"`
	Branches     []Branch      `bun:"rel:has-many,join:id=repository_id" json:"branches"`
	Commits      []Commit      `bun:"rel:has-many,join:id=repository_id" json:"commits"`
}

func NewRepository(id int64, owner, name, url string) (*Repository, error) {
	fields := apperr.NewFields("repository").
		Check("name", validation.GithubName(name)).
		Check("owner", blank(owner))
	if id <= 0 {
		fields.Check("id", "must be positive")
	}
	if err := fields.Err(); err != nil {
		return nil, err
	}
	return &Repository{ID: id, Owner: owner, Name: name, URL: url}, nil
}

func (r *Repository) SetName(name string) error {
	if msg := validation.GithubName(name); msg != "" {
		return apperr.Invalid("repository", "name", msg)
	}
	r.Name = name
	return nil
}

// SetID assigns the GitHub id. Once set, the id can not change.
func (r *Repository) SetID(id int64) error {
	switch {
	case id <= 0:
		return apperr.Invalid("repository", "id", "must be positive")
	case r.ID != 0 && r.ID != id:
		return apperr.Invalid("repository", "id", "is immutable once assigned")
	}
	r.ID = id
	return nil
}

// Attach sets the mirrored collections and points every child at this repository.
func (r *Repository) Attach(issues []Issue, pulls []PullRequest, tags []Tag, branches []Branch, commits []Commit) {
	for i := range issues {
		issues[i].RepositoryID = r.ID
	}
	for i := range pulls {
		pulls[i].RepositoryID = r.ID
	}
	for i := range tags {
		tags[i].RepositoryID = r.ID
	}
	for i := range branches {
		branches[i].RepositoryID = r.ID
	}
	for i := range commits {
		commits[i].RepositoryID = r.ID
	}
	r.Issues, r.PullRequests, r.Tags, r.Branches, r.Commits = issues, pulls, tags, branches, commits
}

func blank(s string) string {
	if validation.IsBlank(s) {
		return "must not be blank"
	}
	return ""
}

type Issue struct {
	bun.BaseModel `bun:"table:issues,alias:i"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	RepositoryID int64     `bun:"repository_id,notnull" json:"-"`
	GithubID     int64     `bun:"github_id,notnull" json:"githubId"`
	Number       int       `bun:"number,notnull" json:"number"`
	Title        string    `bun:"title,notnull" json:"title"`
	State        string    `bun:"state,notnull" json:"state"`
	URL          string    `bun:"url" json:"url"`
	Author       string    `bun:"author" json:"author"`
	CreatedAt    time.Time `bun:"created_at" json:"createdAt"`
}

type PullRequest struct {
	bun.BaseModel `bun:"table:pull_requests,alias:pr"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	RepositoryID int64     `bun:"repository_id,notnull" json:"-"`
	GithubID     int64     `bun:"github_id,notnull" json:"githubId"`
	Number       int       `bun:"number,notnull" json:"number"`
	Title        string    `bun:"title,notnull" json:"title"`
	State        string    `bun:"state,notnull" json:"state"`
	URL          string    `bun:"url" json:"url"`
	Author       string    `bun:"author" json:"author"`
	CreatedAt    time.Time `bun:"created_at" json:"createdAt"`
}

type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:t"`

	ID           int64  `bun:"id,pk,autoincrement" json:"id"`
	RepositoryID int64  `bun:"repository_id,notnull" json:"-"`
	Name         string `bun:"name,notnull" json:"name"`
	CommitSHA    string `bun:"commit_sha" json:"commitSha"`
	ZipURL       string `bun:"zip_url" json:"zipUrl"`
	TarURL       string `bun:"tar_url" json:"tarUrl"`
}

type Branch struct {
	bun.BaseModel `bun:"table:branches,alias:b"`

	ID           int64  `bun:"id,pk,autoincrement" json:"id"`
	RepositoryID int64  `bun:"repository_id,notnull" json:"-"`
	Name         string `bun:"name,notnull" json:"name"`
	CommitSHA    string `bun:"commit_sha" json:"commitSha"`
	Protected    bool   `bun:"protected,notnull,default:false" json:"protected"`
}

type Commit struct {
	bun.BaseModel `bun:"table:commits,alias:c"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	RepositoryID int64     `bun:"repository_id,notnull" json:"-"`
	SHA          string    `bun:"sha,notnull" json:"sha"`
	Message      string    `bun:"message" json:"message"`
	Author       string    `bun:"author" json:"author"`
	AuthorEmail  string    `bun:"author_email" json:"authorEmail"`
	URL          string    `bun:"url" json:"url"`
	CommittedAt  time.Time `bun:"committed_at" json:"committedAt"`
}

// CreateRequest asks for a GitHub repository to be mirrored into a project.
type CreateRequest struct {
	Owner     string `json:"owner" validate:"required"`
	Name      string `json:"name" validate:"required,githubname"`
	ProjectID int64  `json:"projectId" validate:"required,gt=0"`
}
