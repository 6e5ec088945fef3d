package ports

import (
	"context"
	"time"
)

// AuditInput is the DTO passed from the catalogue services to the audit pipeline.
type AuditInput struct {
	EntityType string
	EntityID   int64
	Action     string
	ActorID    int64
	ActorEmail string
	Timestamp  time.Time
}

// AuditService records catalogue mutations.
type AuditService interface {
	Process(ctx context.Context, in AuditInput) error
}

// AuditSink is where catalogue services hand off mutations without waiting
// for persistence; the queue dispatcher implements it.
type AuditSink interface {
	Enqueue(in AuditInput)
}

// AuditRepository defines persistence for the audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, in AuditInput) error
	FindByEntity(ctx context.Context, entityType string, entityID int64) ([]AuditInput, error)
}
