package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/nasam-site/internal/content"
)

func TestSiteServiceUsesPreloadedContent(t *testing.T) {
	source := &fakeSource{}
	svc := NewSiteService(SiteServiceConfig{
		Fetcher:   NewFetcher(source, nil, 0),
		Preloaded: &content.Partial{Hero: &content.Hero{Title: "Injected"}},
	})

	c, err := svc.Content(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Injected", c.Hero.Title)
	assert.Equal(t, content.Defaults().Company, c.Company)
	assert.Zero(t, source.calls.Load(), "fetcher must not run")
}

func TestSiteServiceCachesSnapshot(t *testing.T) {
	source := &fakeSource{company: &content.Company{Name: "Remote Co"}}
	cache := newMapCache()
	svc := NewSiteService(SiteServiceConfig{Fetcher: NewFetcher(source, nil, 0), Cache: cache})
	ctx := context.Background()

	first, err := svc.Content(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Remote Co", first.Company.Name)
	assert.True(t, cache.has(SnapshotKey))
	assert.Equal(t, DefaultSnapshotTTL, cache.ttls[SnapshotKey])

	calls := source.calls.Load()
	second, err := svc.Content(ctx)
	require.NoError(t, err)
	assert.Equal(t, calls, source.calls.Load(), "served from cache")
	assert.Equal(t, first.Company, second.Company)
	assert.Equal(t, len(first.Projects), len(second.Projects))

	svc.Invalidate(ctx)
	assert.False(t, cache.has(SnapshotKey))
	_, err = svc.Content(ctx)
	require.NoError(t, err)
	assert.Greater(t, source.calls.Load(), calls)
}

func TestSiteServiceSkipsCachingPartialFailures(t *testing.T) {
	source := &fakeSource{fail: map[content.Section]error{content.SectionHero: errMissing}}
	cache := newMapCache()
	svc := NewSiteService(SiteServiceConfig{Fetcher: NewFetcher(source, nil, 0), Cache: cache})

	c, err := svc.Content(context.Background())
	require.NoError(t, err)
	assert.Equal(t, content.Defaults().Hero, c.Hero)
	assert.False(t, cache.has(SnapshotKey))
}

func TestSiteServiceWithoutStoreReturnsDefaults(t *testing.T) {
	svc := NewSiteService(SiteServiceConfig{})
	c, err := svc.Content(context.Background())
	require.NoError(t, err)
	assert.Equal(t, content.Defaults(), c)
}

func TestSiteServiceCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSiteService(SiteServiceConfig{}).Content(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSiteServiceDropsUnapprovedReviews(t *testing.T) {
	approved, pending := true, false
	reviews := []content.Review{
		{Name: "Approved Person", Approved: &approved},
		{Name: "Pending Person", Approved: &pending},
		{Name: "Unmoderated Person"},
	}

	t.Run("preloaded", func(t *testing.T) {
		svc := NewSiteService(SiteServiceConfig{Preloaded: &content.Partial{Reviews: reviews}})
		c, err := svc.Content(context.Background())
		require.NoError(t, err)
		require.Len(t, c.Reviews, 1)
		assert.Equal(t, "Approved Person", c.Reviews[0].Name)
	})

	t.Run("fetched and cached", func(t *testing.T) {
		source := &fakeSource{reviews: reviews}
		cache := newMapCache()
		svc := NewSiteService(SiteServiceConfig{Fetcher: NewFetcher(source, nil, 0), Cache: cache})
		ctx := context.Background()

		c, err := svc.Refresh(ctx)
		require.NoError(t, err)
		require.Len(t, c.Reviews, 1)
		assert.Equal(t, "Approved Person", c.Reviews[0].Name)

		cached, err := svc.Content(ctx)
		require.NoError(t, err)
		require.Len(t, cached.Reviews, 1)
		assert.Equal(t, "Approved Person", cached.Reviews[0].Name)
	})
}
