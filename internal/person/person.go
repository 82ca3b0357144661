// Package person holds the identity fields shared by students and teachers.
package person

import (
	"strings"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/validation"
)

// Person is embedded by Student and Teacher; its columns are flattened into theirs.
type Person struct {
	FirstName string `bun:"first_name,notnull" json:"firstName"`
	LastName  string `bun:"last_name,notnull" json:"lastName"`
	Email     string `bun:"email,unique,notnull" json:"email"`
}

// New validates every field and reports all violations at once.
func New(entity, firstName, lastName, email string) (Person, error) {
	email = normalizeEmail(email)
	err := apperr.NewFields(entity).
		Check("firstName", validation.PersonName(firstName)).
		Check("lastName", validation.PersonName(lastName)).
		Check("email", validation.Email(email)).
		Err()
	if err != nil {
		return Person{}, err
	}
	return Person{FirstName: firstName, LastName: lastName, Email: email}, nil
}

// Setters name entity in their validation errors, as New does.
func (p *Person) SetFirstName(entity, v string) error {
	if msg := validation.PersonName(v); msg != "" {
		return apperr.Invalid(entity, "firstName", msg)
	}
	p.FirstName = v
	return nil
}

func (p *Person) SetLastName(entity, v string) error {
	if msg := validation.PersonName(v); msg != "" {
		return apperr.Invalid(entity, "lastName", msg)
	}
	p.LastName = v
	return nil
}

func (p *Person) SetEmail(entity, v string) error {
	v = normalizeEmail(v)
	if msg := validation.Email(v); msg != "" {
		return apperr.Invalid(entity, "email", msg)
	}
	p.Email = v
	return nil
}

// Apply replaces all three fields, or none of them when any is invalid.
func (p *Person) Apply(entity string, req Request) error {
	next, err := New(entity, req.FirstName, req.LastName, req.Email)
	if err != nil {
		return err
	}
	*p = next
	return nil
}

func normalizeEmail(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// Request is the create/update body for students and teachers.
type Request struct {
	FirstName string `json:"firstName" validate:"required,personname"`
	LastName  string `json:"lastName" validate:"required,personname"`
	Email     string `json:"email" validate:"required,email"`
}
