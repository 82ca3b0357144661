// Package apperr defines the error taxonomy shared by services and handlers.
// Every error returned by a service either matches one of the kinds below with
// errors.Is or is an unexpected infrastructure failure.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrValidation               = errors.New("validation failed")
	ErrAlreadyRegistered        = errors.New("already registered")
	ErrNotFound                 = errors.New("not found")
	ErrExternalService          = errors.New("external service error")
	ErrProjectAlreadyHasAnOwner = errors.New("project already has an owner")
	ErrDuplicateRepository      = errors.New("repository already added to project")
	ErrStudentsNotEnrolled      = errors.New("students not enrolled in commission")
	ErrInvalidCredentials       = errors.New("invalid email or password")
)

// ValidationError carries one message per offending field.
type ValidationError struct {
	Entity string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Fields accumulates field violations for an entity under construction.
type Fields struct {
	entity string
	fields map[string]string
}

func NewFields(entity string) *Fields {
	return &Fields{entity: entity, fields: map[string]string{}}
}

// Check records msg for field unless msg is empty. The first violation per field wins.
func (f *Fields) Check(field, msg string) *Fields {
	if msg == "" {
		return f
	}
	if _, ok := f.fields[field]; !ok {
		f.fields[field] = msg
	}
	return f
}

// Err returns a *ValidationError when any field failed, nil otherwise.
func (f *Fields) Err() error {
	if len(f.fields) == 0 {
		return nil
	}
	return &ValidationError{Entity: f.entity, Fields: f.fields}
}

// Invalid builds a single-field validation error.
func Invalid(entity, field, msg string) error {
	return &ValidationError{Entity: entity, Fields: map[string]string{field: msg}}
}

// FromValidator converts go-playground validator failures on a request body.
func FromValidator(entity string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Invalid(entity, "body", err.Error())
	}
	fields := NewFields(entity)
	for _, fe := range verrs {
		fields.Check(fe.Field(), fmt.Sprintf("failed on the '%s' rule", fe.Tag()))
	}
	return fields.Err()
}

// AlreadyRegisteredError reports a uniqueness conflict on Kind ("email", "name", "repository").
type AlreadyRegisteredError struct {
	Kind  string
	Value string
}

func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("%s %q is already registered", e.Kind, e.Value)
}

func (e *AlreadyRegisteredError) Is(target error) bool {
	return target == ErrAlreadyRegistered
}

func AlreadyRegistered(kind, value string) error {
	return &AlreadyRegisteredError{Kind: kind, Value: value}
}

type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %v not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NotFound(entity string, id any) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ExternalServiceError wraps a failed call to a third-party API.
type ExternalServiceError struct {
	Service string
	Message string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Service, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Service, e.Message)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

func (e *ExternalServiceError) Is(target error) bool {
	return target == ErrExternalService
}

func External(service, message string, err error) error {
	return &ExternalServiceError{Service: service, Message: message, Err: err}
}

// NotEnrolledError lists the students that are not part of a commission.
type NotEnrolledError struct {
	CommissionID int64
	StudentIDs   []int64
}

func (e *NotEnrolledError) Error() string {
	return fmt.Sprintf("students %v are not enrolled in commission %d", e.StudentIDs, e.CommissionID)
}

func (e *NotEnrolledError) Is(target error) bool {
	return target == ErrStudentsNotEnrolled
}
