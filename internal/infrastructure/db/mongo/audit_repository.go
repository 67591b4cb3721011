package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/usermgmt/accounts-api/internal/core/domain"
	"github.com/usermgmt/accounts-api/internal/core/ports"
)

const auditCollection = "audit_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

// EnsureIndexes creates the lookup indexes used when reviewing a principal's
// history. Safe to call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(auditCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "subject_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "action", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{
			Keys:    bson.D{{Key: "occurred_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32((180 * 24 * time.Hour).Seconds())),
		},
	})
	return err
}

// Insert appends an audit event to the audit_events collection.
func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	_, err := r.coll.InsertOne(ctx, auditDocument(event, time.Now()))
	return err
}

func auditDocument(event *domain.AuditEvent, recordedAt time.Time) bson.M {
	doc := bson.M{
		"action":      string(event.Action),
		"kind":        string(event.Kind),
		"subject_id":  int64(event.SubjectID),
		"username":    event.Username,
		"occurred_at": event.OccurredAt.UTC(),
		"recorded_at": recordedAt.UTC(),
	}
	if event.ActorRole != "" {
		doc["actor"] = bson.M{
			"id":   int64(event.ActorID),
			"role": string(event.ActorRole),
		}
	}
	if event.Detail != "" {
		doc["detail"] = event.Detail
	}
	return doc
}
