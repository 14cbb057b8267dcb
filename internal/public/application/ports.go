package application

import (
	"context"
	"errors"
	"time"

	"github.com/sngm3741/nasam-site/internal/content"
	"github.com/sngm3741/nasam-site/internal/public/domain"
)

var (
	// ErrSpam is returned when the honeypot field was filled in.
	ErrSpam = errors.New("spam detected")
	// ErrCaptchaFailed is returned when the reCAPTCHA token is missing or rejected.
	ErrCaptchaFailed = errors.New("captcha verification failed")
)

// ContentSource はドキュメントストアからサイトコンテンツを読み出すポート。
// シングルトンが存在しない場合は (nil, nil) を返す。
type ContentSource interface {
	Company(ctx context.Context) (*content.Company, error)
	Branding(ctx context.Context) (*content.Branding, error)
	Hero(ctx context.Context) (*content.Hero, error)
	HeroPhotos(ctx context.Context) ([]content.HeroPhoto, error)
	Categories(ctx context.Context) ([]content.Category, error)
	// Projects returns projects ordered by their order field ascending.
	Projects(ctx context.Context) ([]content.Project, error)
	// Reviews returns at most limit approved reviews, highest rating first.
	Reviews(ctx context.Context, limit int) ([]content.Review, error)
}

// SnapshotCache stores encoded content snapshots.
type SnapshotCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SubmissionRepository は訪問者の投稿を保存するポート。保存時に ID を設定する。
type SubmissionRepository interface {
	SaveReview(ctx context.Context, review *domain.ReviewSubmission) error
	SaveContact(ctx context.Context, message *domain.ContactMessage) error
}

// CaptchaVerifier verifies a reCAPTCHA token.
type CaptchaVerifier interface {
	Enabled() bool
	Verify(ctx context.Context, token, remoteIP string) error
}

// SubmissionNotifier は投稿受付を管理者と送信者に知らせる。
type SubmissionNotifier interface {
	NotifyReview(ctx context.Context, review domain.ReviewSubmission) error
	NotifyContact(ctx context.Context, message domain.ContactMessage) error
}

// SubmitReviewCommand is the raw review form input.
type SubmitReviewCommand struct {
	Name         string
	Category     string
	Comment      string
	Rating       int
	Honeypot     string
	CaptchaToken string
	RemoteIP     string
}

// SubmitContactCommand is the raw contact form input.
type SubmitContactCommand struct {
	Name         string
	Email        string
	Phone        string
	Message      string
	Honeypot     string
	CaptchaToken string
	RemoteIP     string
}
