package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// FailedNotificationRepository は送信できなかった通知を再送用に保存する。
type FailedNotificationRepository struct {
	collection *mongo.Collection
}

func NewFailedNotificationRepository(db *mongo.Database, name string) *FailedNotificationRepository {
	return &FailedNotificationRepository{collection: db.Collection(name)}
}

// Record stores one failed notification with status "pending".
func (r *FailedNotificationRepository) Record(ctx context.Context, target string, payload map[string]any, cause error, attempts int) error {
	now := time.Now().UTC()
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	doc := bson.M{
		"target":      target,
		"payload":     payload,
		"error":       message,
		"attempts":    attempts,
		"status":      "pending",
		"createdAt":   now,
		"lastTriedAt": now,
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}
