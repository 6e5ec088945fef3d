package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cosechaencope/marketplace/internal/core/domain"
	"github.com/cosechaencope/marketplace/internal/core/ports"
)

const auditCollection = "audit_events"

type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

func (r *AuditRepository) Insert(ctx context.Context, in ports.AuditInput) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, domain.AuditEvent{
		EntityType: in.EntityType,
		EntityID:   in.EntityID,
		Action:     in.Action,
		ActorID:    in.ActorID,
		ActorEmail: in.ActorEmail,
		Timestamp:  in.Timestamp,
	})
	return err
}

func (r *AuditRepository) FindByEntity(ctx context.Context, entityType string, entityID int64) ([]ports.AuditInput, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx,
		bson.M{"entity_type": entityType, "entity_id": entityID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []domain.AuditEvent
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}

	out := make([]ports.AuditInput, 0, len(events))
	for _, e := range events {
		out = append(out, ports.AuditInput{
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Action:     e.Action,
			ActorID:    e.ActorID,
			ActorEmail: e.ActorEmail,
			Timestamp:  e.Timestamp,
		})
	}
	return out, nil
}
