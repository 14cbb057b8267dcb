package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes は公開ページの並び順と承認済みレビューの検索に使うインデックスを作成する。
func EnsureIndexes(ctx context.Context, db *mongo.Database, names CollectionNames) error {
	indexes := map[string][]mongo.IndexModel{
		names.HeroPhotos: {
			{Keys: bson.D{{Key: "order", Value: 1}}, Options: options.Index().SetName("idx_heroPhoto_order")},
		},
		names.Projects: {
			{Keys: bson.D{{Key: "order", Value: 1}}, Options: options.Index().SetName("idx_project_order")},
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetName("idx_project_slug").SetSparse(true)},
		},
		names.Reviews: {
			{
				Keys:    bson.D{{Key: "is_approved", Value: 1}, {Key: "rating", Value: -1}},
				Options: options.Index().SetName("idx_review_approved_rating"),
			},
		},
		names.ContactMessages: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("idx_contact_createdAt")},
		},
		names.FailedNotifications: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("idx_failed_createdAt")},
		},
	}
	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("%s のインデックス作成に失敗: %w", collection, err)
		}
	}
	return nil
}

// DropContent removes every content collection. Visitor submissions are kept.
func DropContent(ctx context.Context, db *mongo.Database, names CollectionNames) error {
	for _, name := range []string{names.SiteContent, names.HeroPhotos, names.Categories, names.Projects, names.Reviews} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("コレクション %s の削除に失敗: %w", name, err)
		}
	}
	return nil
}
