package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	adminapp "github.com/sngm3741/nasam-site/internal/admin/application"
	"github.com/sngm3741/nasam-site/internal/content"
)

// contentDocument は Mongo ドキュメントをコンテンツ型へ変換できる型。
type contentDocument[T any] interface {
	toContent() T
}

// CollectionRepository implements adminapp.Repository for one collection.
type CollectionRepository[T any, D contentDocument[T]] struct {
	collection *mongo.Collection
	fields     func(T) bson.M
	now        func() time.Time
}

func newCollectionRepository[T any, D contentDocument[T]](db *mongo.Database, name string, fields func(T) bson.M) *CollectionRepository[T, D] {
	return &CollectionRepository[T, D]{
		collection: db.Collection(name),
		fields:     fields,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// NewHeroPhotoRepository binds the heroPhotos collection.
func NewHeroPhotoRepository(db *mongo.Database, name string) *CollectionRepository[content.HeroPhoto, HeroPhotoDocument] {
	return newCollectionRepository[content.HeroPhoto, HeroPhotoDocument](db, name, heroPhotoFields)
}

// NewCategoryRepository binds the serviceCategories collection.
func NewCategoryRepository(db *mongo.Database, name string) *CollectionRepository[content.Category, CategoryDocument] {
	return newCollectionRepository[content.Category, CategoryDocument](db, name, categoryFields)
}

// NewProjectRepository binds the projects collection.
func NewProjectRepository(db *mongo.Database, name string) *CollectionRepository[content.Project, ProjectDocument] {
	return newCollectionRepository[content.Project, ProjectDocument](db, name, projectFields)
}

// List は opts.SortField が指定されていればその順で、なければ格納順で返す。
func (r *CollectionRepository[T, D]) List(ctx context.Context, opts adminapp.ListOptions) ([]T, error) {
	return r.find(ctx, bson.M{}, opts)
}

func (r *CollectionRepository[T, D]) find(ctx context.Context, filter bson.M, opts adminapp.ListOptions) ([]T, error) {
	findOpts := options.Find()
	if opts.SortField != "" {
		direction := 1
		if opts.Descending {
			direction = -1
		}
		findOpts.SetSort(bson.D{{Key: opts.SortField, Value: direction}})
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	for cursor.Next(ctx) {
		var doc D
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		items = append(items, doc.toContent())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CollectionRepository[T, D]) Get(ctx context.Context, id string) (*T, error) {
	var doc D
	if err := r.collection.FindOne(ctx, idFilter(id)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, adminapp.ErrNotFound
		}
		return nil, err
	}
	item := doc.toContent()
	return &item, nil
}

// Create inserts item under a new ObjectID and returns its hex form.
func (r *CollectionRepository[T, D]) Create(ctx context.Context, item T) (string, error) {
	id := primitive.NewObjectID()
	now := r.now()
	doc := r.fields(item)
	doc["_id"] = id
	doc["updatedAt"] = now
	if _, ok := doc["createdAt"]; !ok {
		doc["createdAt"] = now
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return id.Hex(), nil
}

// Update はフィールドを $set で上書きする。対象が存在しなければ ErrNotFound。
func (r *CollectionRepository[T, D]) Update(ctx context.Context, id string, item T) error {
	fields := r.fields(item)
	fields["updatedAt"] = r.now()
	result, err := r.collection.UpdateOne(ctx, idFilter(id), bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return adminapp.ErrNotFound
	}
	return nil
}

func (r *CollectionRepository[T, D]) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, idFilter(id))
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return adminapp.ErrNotFound
	}
	return nil
}

// ReviewRepository adds moderation and the public approved-only query to the reviews collection.
type ReviewRepository struct {
	*CollectionRepository[content.Review, ReviewDocument]
}

func NewReviewRepository(db *mongo.Database, name string) *ReviewRepository {
	return &ReviewRepository{newCollectionRepository[content.Review, ReviewDocument](db, name, reviewFields)}
}

// SetApproval は is_approved を書き込み、旧フィールド approved を削除する。
func (r *ReviewRepository) SetApproval(ctx context.Context, id string, approved bool) error {
	update := bson.M{
		"$set":   bson.M{"is_approved": approved, "updatedAt": r.now()},
		"$unset": bson.M{"approved": ""},
	}
	result, err := r.collection.UpdateOne(ctx, idFilter(id), update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return adminapp.ErrNotFound
	}
	return nil
}

// Approved returns at most limit approved reviews, highest rating first.
func (r *ReviewRepository) Approved(ctx context.Context, limit int) ([]content.Review, error) {
	return r.find(ctx, approvedFilter(), adminapp.ListOptions{SortField: "rating", Descending: true, Limit: limit})
}
