package redis

import (
	"context"
	"testing"
	"time"

	"lms-api/internal/domain/course"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRateLimiterAllowAuth(t *testing.T) {
	mr, client := newTestClient(t)
	limiter := NewRateLimiter(client, RateLimitConfig{AuthLimit: 2, AuthWindow: time.Minute})
	ctx := context.Background()

	first, err := limiter.AllowAuth(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	assert.Equal(t, 1, first.Remaining)
	assert.Equal(t, 2, first.Limit)

	second, err := limiter.AllowAuth(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, second.Allowed)
	assert.Equal(t, 0, second.Remaining)

	third, err := limiter.AllowAuth(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, third.Allowed)
	assert.Greater(t, third.ResetIn, time.Duration(0))

	other, err := limiter.AllowAuth(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed, "limits are per IP")

	mr.FastForward(time.Minute + time.Second)

	again, err := limiter.AllowAuth(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, again.Allowed, "window should have expired")
}

func TestRateLimiterReset(t *testing.T) {
	_, client := newTestClient(t)
	limiter := NewRateLimiter(client, RateLimitConfig{AuthLimit: 1, AuthWindow: time.Minute})
	ctx := context.Background()

	_, err := limiter.AllowAuth(ctx, "ip")
	require.NoError(t, err)
	blocked, err := limiter.AllowAuth(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, blocked.Allowed)

	require.NoError(t, limiter.ResetAuth(ctx, "ip"))

	again, err := limiter.AllowAuth(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, again.Allowed)
	assert.Equal(t, 0, again.Remaining)
}

func TestNewRateLimiterFallsBackToDefaults(t *testing.T) {
	_, client := newTestClient(t)
	limiter := NewRateLimiter(client, RateLimitConfig{})
	assert.Equal(t, DefaultRateLimitConfig(), limiter.config)
}

func strPtr(s string) *string { return &s }

func TestCourseCacheListAndCourse(t *testing.T) {
	mr, client := newTestClient(t)
	cache := NewCourseCache(client, time.Minute)
	ctx := context.Background()

	_, ok, err := cache.GetList(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	version, err := cache.Version(ctx)
	require.NoError(t, err)
	assert.Zero(t, version)

	items := []course.Course{
		{ID: "a1", Title: strPtr("One"), Description: strPtr("first"), CreatedAt: strPtr("2024-01-02T05:04:05+02:00")},
		{ID: "b2", Title: nil, Description: strPtr("second")},
	}
	require.NoError(t, cache.SetList(ctx, version, items))

	list, ok, err := cache.GetList(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, strPtr("2024-01-02T05:04:05+02:00"), list[0].CreatedAt)
	assert.Nil(t, list[1].CreatedAt)
	assert.Nil(t, list[1].Title)

	require.NoError(t, cache.SetCourse(ctx, version, items[1]))
	got, ok, err := cache.GetCourse(ctx, "b2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, strPtr("second"), got.Description)

	assert.Equal(t, time.Minute, mr.TTL(courseKeyPrefix+"b2"))

	require.NoError(t, cache.Invalidate(ctx, "b2"))
	_, ok, err = cache.GetCourse(ctx, "b2")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = cache.GetList(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCourseCacheRejectsWritesFromBeforeInvalidate(t *testing.T) {
	_, client := newTestClient(t)
	cache := NewCourseCache(client, time.Minute)
	ctx := context.Background()

	before, err := cache.Version(ctx)
	require.NoError(t, err)

	require.NoError(t, cache.Invalidate(ctx, "a1"))

	stale := course.Course{ID: "a1", Title: strPtr("old")}
	require.NoError(t, cache.SetCourse(ctx, before, stale))
	require.NoError(t, cache.SetList(ctx, before, []course.Course{stale}))

	_, ok, err := cache.GetCourse(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = cache.GetList(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	after, err := cache.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	require.NoError(t, cache.SetCourse(ctx, after, course.Course{ID: "a1", Title: strPtr("new")}))
	got, ok, err := cache.GetCourse(ctx, "a1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, strPtr("new"), got.Title)
}

func TestCourseCacheEmptyListIsAHit(t *testing.T) {
	_, client := newTestClient(t)
	cache := NewCourseCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.SetList(ctx, 0, nil))

	list, ok, err := cache.GetList(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, list)
}

func TestConnectFailsOnUnreachableServer(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Host()
	port := mr.Port()
	mr.Close()

	_, err = Connect(context.Background(), Config{Host: addr, Port: port})
	assert.Error(t, err)
}
