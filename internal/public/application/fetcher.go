package application

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sngm3741/nasam-site/internal/content"
)

// DefaultPublicReviewLimit は公開ページで取得するレビューの上限。
const DefaultPublicReviewLimit = 12

// FetchResult is the outcome of one fetch. Content is nil when no store is configured.
type FetchResult struct {
	Content  *content.Partial
	Failures map[content.Section]error
}

// Fetcher reads every section from the store concurrently.
type Fetcher struct {
	source      ContentSource
	logger      *zap.Logger
	reviewLimit int
}

// NewFetcher は source が nil でも構わない (ストア未設定)。
func NewFetcher(source ContentSource, logger *zap.Logger, reviewLimit int) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reviewLimit <= 0 {
		reviewLimit = DefaultPublicReviewLimit
	}
	return &Fetcher{source: source, logger: logger, reviewLimit: reviewLimit}
}

// Configured reports whether a store is attached.
func (f *Fetcher) Configured() bool {
	return f != nil && f.source != nil
}

// Fetch は 7 セクションを並行に読み出す。個々の失敗は警告ログを出してそのセクションを nil のままにし、
// 全読み出しの完了後に結果を組み立てる。
func (f *Fetcher) Fetch(ctx context.Context) FetchResult {
	if !f.Configured() {
		f.logger.Warn("コンテンツストアが未設定のため既定コンテンツを使用します")
		return FetchResult{}
	}

	var (
		mu       sync.Mutex
		partial  content.Partial
		failures = make(map[content.Section]error)
	)
	read := func(section content.Section, load func(context.Context) error) func() error {
		return func() error {
			if err := load(ctx); err != nil {
				f.logger.Warn("セクションの取得に失敗", zap.String("section", string(section)), zap.Error(err))
				mu.Lock()
				failures[section] = err
				mu.Unlock()
			}
			return nil
		}
	}

	var g errgroup.Group
	g.Go(read(content.SectionCompany, func(ctx context.Context) error {
		v, err := f.source.Company(ctx)
		mu.Lock()
		partial.Company = v
		mu.Unlock()
		return err
	}))
	g.Go(read(content.SectionBranding, func(ctx context.Context) error {
		v, err := f.source.Branding(ctx)
		mu.Lock()
		partial.Branding = v
		mu.Unlock()
		return err
	}))
	g.Go(read(content.SectionHero, func(ctx context.Context) error {
		v, err := f.source.Hero(ctx)
		mu.Lock()
		partial.Hero = v
		mu.Unlock()
		return err
	}))
	g.Go(read(content.SectionHeroPhotos, func(ctx context.Context) error {
		v, err := f.source.HeroPhotos(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		partial.HeroPhotos = nonNilSlice(v)
		mu.Unlock()
		return nil
	}))
	g.Go(read(content.SectionCategories, func(ctx context.Context) error {
		v, err := f.source.Categories(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		partial.Categories = nonNilSlice(v)
		mu.Unlock()
		return nil
	}))
	g.Go(read(content.SectionProjects, func(ctx context.Context) error {
		v, err := f.source.Projects(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		partial.Projects = nonNilSlice(v)
		mu.Unlock()
		return nil
	}))
	g.Go(read(content.SectionReviews, func(ctx context.Context) error {
		v, err := f.source.Reviews(ctx, f.reviewLimit)
		if err != nil {
			return err
		}
		mu.Lock()
		partial.Reviews = nonNilSlice(v)
		mu.Unlock()
		return nil
	}))
	_ = g.Wait()

	// 失敗したシングルトンは部分的な値を持ち込まない
	for section := range failures {
		switch section {
		case content.SectionCompany:
			partial.Company = nil
		case content.SectionBranding:
			partial.Branding = nil
		case content.SectionHero:
			partial.Hero = nil
		}
	}

	return FetchResult{Content: &partial, Failures: failures}
}

// nonNilSlice marks a successfully read collection as present even when it has no items.
func nonNilSlice[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
