package application

import (
	"context"
	"errors"
	"time"

	"github.com/sngm3741/nasam-site/internal/content"
)

var (
	// ErrNotFound is returned when the addressed document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnsupportedCommand is returned when a command does not apply to the collection.
	ErrUnsupportedCommand = errors.New("command not supported for this collection")
)

// SectionRepository はシングルトンドキュメント (company / branding / hero) の読み書きポート。
// ドキュメントが存在しない場合、読み出しは (nil, nil) を返す。保存はマージ書き込み。
type SectionRepository interface {
	Company(ctx context.Context) (*content.Company, error)
	Branding(ctx context.Context) (*content.Branding, error)
	Hero(ctx context.Context) (*content.Hero, error)
	SaveCompany(ctx context.Context, company content.Company) error
	SaveBranding(ctx context.Context, branding content.Branding) error
	SaveHero(ctx context.Context, hero content.Hero) error
}

// ListOptions controls ordering of a collection listing. An empty SortField means store order.
type ListOptions struct {
	SortField  string
	Descending bool
	Limit      int
}

// Repository is the CRUD port of one collection.
type Repository[T any] interface {
	List(ctx context.Context, opts ListOptions) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, item T) (string, error)
	Update(ctx context.Context, id string, item T) error
	Delete(ctx context.Context, id string) error
}

// ReviewRepository adds moderation to the review collection.
type ReviewRepository interface {
	Repository[content.Review]
	SetApproval(ctx context.Context, id string, approved bool) error
}

// Invalidator drops the cached public content after a write.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// TokenStore keeps single-use confirmation tokens.
type TokenStore interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Take(ctx context.Context, key string) ([]byte, error)
}
