package application

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sngm3741/nasam-site/internal/content"
)

const (
	// SnapshotKey はマージ済みコンテンツを保存するキャッシュキー。
	SnapshotKey        = "content:snapshot"
	DefaultSnapshotTTL = 5 * time.Minute
)

// SiteServiceConfig wires the SiteService.
type SiteServiceConfig struct {
	Fetcher *Fetcher
	Cache   SnapshotCache
	TTL     time.Duration
	// Preloaded が設定されている場合はストアを参照せず、この内容をデフォルトとマージして返す。
	Preloaded *content.Partial
	Logger    *zap.Logger
}

// SiteService serves the merged site content, backed by a snapshot cache.
type SiteService struct {
	fetcher   *Fetcher
	cache     SnapshotCache
	ttl       time.Duration
	preloaded *content.Partial
	logger    *zap.Logger
	group     singleflight.Group
}

// NewSiteService constructs a SiteService.
func NewSiteService(cfg SiteServiceConfig) *SiteService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = NewFetcher(nil, logger, 0)
	}
	return &SiteService{
		fetcher:   fetcher,
		cache:     cfg.Cache,
		ttl:       ttl,
		preloaded: cfg.Preloaded,
		logger:    logger,
	}
}

// Content returns the merged content. Cache failures are logged and otherwise ignored.
func (s *SiteService) Content(ctx context.Context) (content.Content, error) {
	if err := ctx.Err(); err != nil {
		return content.Content{}, err
	}
	if s.preloaded != nil {
		return publicContent(s.preloaded), nil
	}
	if cached, ok := s.readSnapshot(ctx); ok {
		return cached, nil
	}
	v, err, _ := s.group.Do(SnapshotKey, func() (any, error) {
		return s.Refresh(ctx)
	})
	if err != nil {
		return content.Content{}, err
	}
	return v.(content.Content), nil
}

// Refresh はストアから再取得してスナップショットを上書きする。
func (s *SiteService) Refresh(ctx context.Context) (content.Content, error) {
	if s.preloaded != nil {
		return publicContent(s.preloaded), nil
	}
	result := s.fetcher.Fetch(ctx)
	if err := ctx.Err(); err != nil {
		return content.Content{}, err
	}
	merged := publicContent(result.Content)
	// 一部のセクションが失敗した結果は短時間で再取得できるようキャッシュしない
	if len(result.Failures) == 0 && result.Content != nil {
		s.writeSnapshot(ctx, merged)
	}
	return merged, nil
}

// Invalidate drops the cached snapshot so the next request re-fetches.
func (s *SiteService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, SnapshotKey); err != nil {
		s.logger.Warn("スナップショットの削除に失敗", zap.Error(err))
	}
}

// publicContent はデフォルトとマージし、未承認のレビューを取り除く。
func publicContent(p *content.Partial) content.Content {
	return content.Merge(content.Defaults(), p).Public()
}

func (s *SiteService) readSnapshot(ctx context.Context) (content.Content, bool) {
	if s.cache == nil {
		return content.Content{}, false
	}
	data, err := s.cache.Get(ctx, SnapshotKey)
	if err != nil {
		s.logger.Debug("スナップショットを利用できません", zap.Error(err))
		return content.Content{}, false
	}
	var c content.Content
	if err := json.Unmarshal(data, &c); err != nil {
		s.logger.Warn("スナップショットのデコードに失敗", zap.Error(err))
		return content.Content{}, false
	}
	return c, true
}

func (s *SiteService) writeSnapshot(ctx context.Context, c content.Content) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(c)
	if err != nil {
		s.logger.Warn("スナップショットのエンコードに失敗", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, SnapshotKey, data, s.ttl); err != nil {
		s.logger.Warn("スナップショットの保存に失敗", zap.Error(err))
	}
}
