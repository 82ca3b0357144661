package deployinstance

import (
	"html"
	"strings"
	"time"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/validation"

	"github.com/microcosm-cc/bluemonday"
	"github.com/uptrace/bun"
)

var commentPolicy = bluemonday.StrictPolicy()

// DeployInstance records where a project is deployed.
type DeployInstance struct {
	bun.BaseModel `bun:"table:deploy_instances,alias:d"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	URL       string    `bun:"url,notnull" json:"url"`
	Comment   string    `bun:"comment,notnull" json:"comment"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

func NewDeployInstance(name, url, comment string) (*DeployInstance, error) {
	comment = sanitize(comment)
	if err := apperr.NewFields("deployinstance").
		Check("name", nameRule(name)).
		Check("url", urlRule(url)).
		Check("comment", commentRule(comment)).
		Err(); err != nil {
		return nil, err
	}
	return &DeployInstance{Name: name, URL: url, Comment: comment}, nil
}

func (d *DeployInstance) SetName(name string) error {
	if msg := nameRule(name); msg != "" {
		return apperr.Invalid("deployinstance", "name", msg)
	}
	d.Name = name
	return nil
}

func (d *DeployInstance) SetURL(url string) error {
	if msg := urlRule(url); msg != "" {
		return apperr.Invalid("deployinstance", "url", msg)
	}
	d.URL = url
	return nil
}

// SetComment strips any markup before checking the comment is not blank.
func (d *DeployInstance) SetComment(comment string) error {
	comment = sanitize(comment)
	if msg := commentRule(comment); msg != "" {
		return apperr.Invalid("deployinstance", "comment", msg)
	}
	d.Comment = comment
	return nil
}

// sanitize drops tags and keeps the visible text, so "R&D" stays "R&D".
func sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(commentPolicy.Sanitize(s)))
}

func nameRule(name string) string {
	switch {
	case validation.IsBlank(name):
		return "must not be blank"
	case !validation.IsLettersAndSpaces(name):
		return "may only contain letters and spaces"
	}
	return ""
}

func urlRule(url string) string {
	if !validation.IsAbsoluteURL(url) {
		return "must be an absolute url"
	}
	return ""
}

func commentRule(comment string) string {
	if validation.IsBlank(comment) {
		return "must not be blank"
	}
	return ""
}

type Request struct {
	Name    string `json:"name" validate:"required,lettersspaces"`
	URL     string `json:"url" validate:"required,absurl"`
	Comment string `json:"comment" validate:"required"`
}
