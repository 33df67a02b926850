package events

import (
	"context"
	"time"
)

// Routing keys of the change events published on the exchange.
const (
	ProjectCreated = "project.created"
	ProjectUpdated = "project.updated"
	ProjectDeleted = "project.deleted"
	DatasetAdded   = "dataset.added"
)

// Event is the JSON body of every published message.
type Event struct {
	Type      string `json:"type"`
	ProjectID string `json:"project_id"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

func NewEvent(eventType, projectID string, data any) Event {
	return Event{
		Type:      eventType,
		ProjectID: projectID,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Data:      data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
