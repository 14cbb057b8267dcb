package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	adminapp "github.com/sngm3741/nasam-site/internal/admin/application"
	"github.com/sngm3741/nasam-site/internal/content"
)

// CollectionNames maps each store collection to its MongoDB collection name.
type CollectionNames struct {
	SiteContent         string
	HeroPhotos          string
	Categories          string
	Projects            string
	Reviews             string
	ContactMessages     string
	FailedNotifications string
}

// DefaultCollectionNames returns the collection names used by the site.
func DefaultCollectionNames() CollectionNames {
	return CollectionNames{
		SiteContent:         "siteContent",
		HeroPhotos:          "heroPhotos",
		Categories:          "serviceCategories",
		Projects:            "projects",
		Reviews:             "reviews",
		ContactMessages:     "contactMessages",
		FailedNotifications: "failed_notifications",
	}
}

// ContentRepository は公開ページ用の読み出しと、管理画面のシングルトン編集を提供する。
type ContentRepository struct {
	siteContent   *mongo.Collection
	HeroPhotoRepo *CollectionRepository[content.HeroPhoto, HeroPhotoDocument]
	CategoryRepo  *CollectionRepository[content.Category, CategoryDocument]
	ProjectRepo   *CollectionRepository[content.Project, ProjectDocument]
	ReviewRepo    *ReviewRepository
	now           func() time.Time
}

// NewContentRepository binds every content collection of db.
func NewContentRepository(db *mongo.Database, names CollectionNames) *ContentRepository {
	return &ContentRepository{
		siteContent:   db.Collection(names.SiteContent),
		HeroPhotoRepo: NewHeroPhotoRepository(db, names.HeroPhotos),
		CategoryRepo:  NewCategoryRepository(db, names.Categories),
		ProjectRepo:   NewProjectRepository(db, names.Projects),
		ReviewRepo:    NewReviewRepository(db, names.Reviews),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func findSingleton[D any](ctx context.Context, collection *mongo.Collection, id content.Section) (*D, error) {
	var doc D
	if err := collection.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (r *ContentRepository) Company(ctx context.Context) (*content.Company, error) {
	doc, err := findSingleton[CompanyDocument](ctx, r.siteContent, content.SectionCompany)
	if err != nil || doc == nil {
		return nil, err
	}
	c := doc.toContent()
	return &c, nil
}

func (r *ContentRepository) Branding(ctx context.Context) (*content.Branding, error) {
	doc, err := findSingleton[BrandingDocument](ctx, r.siteContent, content.SectionBranding)
	if err != nil || doc == nil {
		return nil, err
	}
	b := doc.toContent()
	return &b, nil
}

func (r *ContentRepository) Hero(ctx context.Context) (*content.Hero, error) {
	doc, err := findSingleton[HeroDocument](ctx, r.siteContent, content.SectionHero)
	if err != nil || doc == nil {
		return nil, err
	}
	h := doc.toContent()
	return &h, nil
}

func (r *ContentRepository) HeroPhotos(ctx context.Context) ([]content.HeroPhoto, error) {
	return r.HeroPhotoRepo.List(ctx, adminapp.ListOptions{SortField: "order"})
}

func (r *ContentRepository) Categories(ctx context.Context) ([]content.Category, error) {
	return r.CategoryRepo.List(ctx, adminapp.ListOptions{})
}

func (r *ContentRepository) Projects(ctx context.Context) ([]content.Project, error) {
	return r.ProjectRepo.List(ctx, adminapp.ListOptions{SortField: "order"})
}

func (r *ContentRepository) Reviews(ctx context.Context, limit int) ([]content.Review, error) {
	return r.ReviewRepo.Approved(ctx, limit)
}

// saveSingleton は既存フィールドを残したまま指定フィールドを上書きする (upsert)。
func (r *ContentRepository) saveSingleton(ctx context.Context, id content.Section, fields bson.M) error {
	fields["updatedAt"] = r.now()
	_, err := r.siteContent.UpdateOne(ctx, bson.M{"_id": string(id)}, bson.M{"$set": fields}, options.Update().SetUpsert(true))
	return err
}

func (r *ContentRepository) SaveCompany(ctx context.Context, company content.Company) error {
	return r.saveSingleton(ctx, content.SectionCompany, companyFields(company))
}

func (r *ContentRepository) SaveBranding(ctx context.Context, branding content.Branding) error {
	return r.saveSingleton(ctx, content.SectionBranding, brandingFields(branding))
}

func (r *ContentRepository) SaveHero(ctx context.Context, hero content.Hero) error {
	return r.saveSingleton(ctx, content.SectionHero, heroFields(hero))
}

// Ping checks connectivity for the health endpoint.
func (r *ContentRepository) Ping(ctx context.Context) error {
	return r.siteContent.Database().Client().Ping(ctx, nil)
}
