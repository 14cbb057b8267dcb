package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/nasam-site/internal/public/domain"
)

// SubmissionRepository stores visitor reviews and contact messages.
type SubmissionRepository struct {
	reviews  *mongo.Collection
	contacts *mongo.Collection
}

func NewSubmissionRepository(db *mongo.Database, names CollectionNames) *SubmissionRepository {
	return &SubmissionRepository{
		reviews:  db.Collection(names.Reviews),
		contacts: db.Collection(names.ContactMessages),
	}
}

// SaveReview は未承認レビューとして保存する。公開には管理画面での承認が必要。
func (r *SubmissionRepository) SaveReview(ctx context.Context, review *domain.ReviewSubmission) error {
	id := primitive.NewObjectID()
	doc := bson.M{
		"_id":         id,
		"name":        review.Name,
		"category":    review.Category,
		"comment":     review.Comment,
		"rating":      review.Rating,
		"is_approved": false,
		"createdAt":   review.CreatedAt,
	}
	if _, err := r.reviews.InsertOne(ctx, doc); err != nil {
		return err
	}
	review.ID = id.Hex()
	return nil
}

// SaveContact stores a contact message. Messages are never read back by the site.
func (r *SubmissionRepository) SaveContact(ctx context.Context, message *domain.ContactMessage) error {
	id := primitive.NewObjectID()
	doc := bson.M{
		"_id":       id,
		"name":      message.Name,
		"email":     message.Email,
		"phone":     message.Phone,
		"message":   message.Message,
		"createdAt": message.CreatedAt,
	}
	if _, err := r.contacts.InsertOne(ctx, doc); err != nil {
		return err
	}
	message.ID = id.Hex()
	return nil
}
