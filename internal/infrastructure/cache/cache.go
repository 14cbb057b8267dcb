// Package cache はマージ済みコンテンツのスナップショットや確認トークンを保持するキャッシュ層。
// 値は []byte で扱い、インメモリと Redis の両実装が同じインターフェースを満たす。
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrCacheMiss is returned when a key is absent or expired.
	ErrCacheMiss = errors.New("cache: miss")
	// ErrCacheClosed is returned after Close.
	ErrCacheClosed = errors.New("cache: closed")
)

// Cache is implemented by every backend. Implementations are safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value. A zero ttl uses the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Take は値を取得すると同時に削除する。単回利用トークン向け。
	Take(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Type       string
	RedisURL   string
	Prefix     string
	DefaultTTL time.Duration
}

// New は Type に応じたキャッシュを返す。"redis" 以外はインメモリ。
func New(opts Options) (Cache, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Type)) {
	case "redis":
		c, err := NewRedisCache(RedisOptions{
			URL:        opts.RedisURL,
			Prefix:     opts.Prefix,
			DefaultTTL: opts.DefaultTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("Redis キャッシュの初期化に失敗: %w", err)
		}
		return c, nil
	case "", "memory":
		return NewMemoryCache(opts.DefaultTTL), nil
	default:
		return nil, fmt.Errorf("未対応のキャッシュ種別です: %s", opts.Type)
	}
}
