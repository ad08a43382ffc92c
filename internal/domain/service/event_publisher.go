package service

import (
	"context"
	"time"
)

// ExportEvent is published after an export transition commits.
type ExportEvent struct {
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	ExportID   string    `json:"export_id"`
	ExporterID string    `json:"exporter_id"`
	Action     string    `json:"action"`
	OldStatus  string    `json:"old_status,omitempty"`
	NewStatus  string    `json:"new_status"`
	ActorID    string    `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishExportEvent publishes a committed export transition to downstream consumers
	PublishExportEvent(ctx context.Context, event *ExportEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
