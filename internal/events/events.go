// Package events defines the domain event envelope published after successful writes.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	StudentCreated        = "student.created"
	StudentDeleted        = "student.deleted"
	TeacherCreated        = "teacher.created"
	TeacherDeleted        = "teacher.deleted"
	AdminCreated          = "admin.created"
	MatterCreated         = "matter.created"
	CommissionCreated     = "commission.created"
	CommissionEnrolled    = "commission.enrolled"
	GroupCreated          = "group.created"
	GroupMemberAdded      = "group.member_added"
	ProjectCreated        = "project.created"
	ProjectOwnerAssigned  = "project.owner_assigned"
	RepositorySynced      = "repository.synced"
	RepositoryDeleted     = "repository.deleted"
	DeployInstanceCreated = "deployinstance.created"
)

type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

func New(eventType string, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher delivers events to a broker. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type noop struct{}

// Noop discards every event.
func Noop() Publisher { return noop{} }

func (noop) Publish(context.Context, Event) error { return nil }
func (noop) Close() error                         { return nil }

// Recorder keeps published events in memory; used by tests.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.Events = append(r.Events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Types returns the type of every recorded event in publish order.
func (r *Recorder) Types() []string {
	types := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		types = append(types, e.Type)
	}
	return types
}

// Emit publishes an event built from eventType and payload. Delivery failures are
// logged and swallowed: the write that produced the event has already committed.
func Emit(ctx context.Context, p Publisher, logger *slog.Logger, eventType string, payload interface{}) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, New(eventType, payload)); err != nil {
		logger.WarnContext(ctx, "failed to publish event", "type", eventType, "error", err)
	}
}
