package domain

import "time"

// Audit actions recorded for catalogue mutations.
const (
	AuditCreated = "created"
	AuditUpdated = "updated"
	AuditDeleted = "deleted"
)

// AuditEvent is a record of a mutation applied to a catalogue entity.
type AuditEvent struct {
	EntityType string    `bson:"entity_type"`
	EntityID   int64     `bson:"entity_id"`
	Action     string    `bson:"action"`
	ActorID    int64     `bson:"actor_id"`
	ActorEmail string    `bson:"actor_email"`
	Timestamp  time.Time `bson:"timestamp"`
}
