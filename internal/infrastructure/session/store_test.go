package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-blog-writer-api/internal/infrastructure/persistence/redis"
)

func TestMemoryStore_GetMissingIsEmpty(t *testing.T) {
	s := NewMemoryStore(0, 0)
	defer s.Close()

	got, err := s.Get(context.Background(), "nope", FieldOutline)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryStore_SetThenGet(t *testing.T) {
	s := NewMemoryStore(0, 0)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "s1", FieldTrendsSummary, "interest is rising"))
	got, err := s.Get(ctx, "s1", FieldTrendsSummary)
	require.NoError(t, err)
	assert.Equal(t, "interest is rising", got)

	// 其他字段不受影响
	got, err = s.Get(ctx, "s1", FieldOutline)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryStore_EmptySetIsNoOp(t *testing.T) {
	s := NewMemoryStore(0, 0)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "s1", FieldOutline, "X"))
	require.NoError(t, s.Set(ctx, "s1", FieldOutline, ""))
	require.NoError(t, s.Set(ctx, "s1", FieldOutline, "   "))

	got, err := s.Get(ctx, "s1", FieldOutline)
	require.NoError(t, err)
	assert.Equal(t, "X", got)
}

func TestMemoryStore_Clear(t *testing.T) {
	s := NewMemoryStore(0, 0)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "s1", FieldResearchSummary, "summary"))
	require.NoError(t, s.Clear(ctx, "s1"))

	got, err := s.Get(ctx, "s1", FieldResearchSummary)
	require.NoError(t, err)
	assert.Empty(t, got)

	// 清除不存在的会话不报错
	require.NoError(t, s.Clear(ctx, "never-existed"))
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	s := NewMemoryStore(10*time.Millisecond, 0)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "s1", FieldOutline, "outline"))
	time.Sleep(30 * time.Millisecond)

	got, err := s.Get(ctx, "s1", FieldOutline)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryStore_MaxSessionsEvictsOldest(t *testing.T) {
	s := NewMemoryStore(0, 2)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", FieldOutline, "1"))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, s.Set(ctx, "b", FieldOutline, "2"))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, s.Set(ctx, "c", FieldOutline, "3"))

	got, err := s.Get(ctx, "a", FieldOutline)
	require.NoError(t, err)
	assert.Empty(t, got, "oldest session should have been evicted")

	got, err = s.Get(ctx, "c", FieldOutline)
	require.NoError(t, err)
	assert.Equal(t, "3", got)
}

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(redis.NewClientFromRedis(rdb), ttl), mr
}

func TestRedisStore_SetThenGet(t *testing.T) {
	s, _ := newRedisStore(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "s1", FieldOutline, "1. Intro"))
	got, err := s.Get(ctx, "s1", FieldOutline)
	require.NoError(t, err)
	assert.Equal(t, "1. Intro", got)
}

func TestRedisStore_GetMissingIsEmpty(t *testing.T) {
	s, _ := newRedisStore(t, 0)

	got, err := s.Get(context.Background(), "nope", FieldTrendsSummary)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisStore_EmptySetIsNoOp(t *testing.T) {
	s, _ := newRedisStore(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "s1", FieldOutline, "X"))
	require.NoError(t, s.Set(ctx, "s1", FieldOutline, ""))

	got, err := s.Get(ctx, "s1", FieldOutline)
	require.NoError(t, err)
	assert.Equal(t, "X", got)
}

func TestRedisStore_Clear(t *testing.T) {
	s, mr := newRedisStore(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "s1", FieldOutline, "outline"))
	require.NoError(t, s.Clear(ctx, "s1"))

	assert.False(t, mr.Exists("session:s1"))
	require.NoError(t, s.Clear(ctx, "never-existed"))
}

func TestRedisStore_TTLSetOnWrite(t *testing.T) {
	s, mr := newRedisStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "s1", FieldOutline, "outline"))
	assert.Greater(t, mr.TTL("session:s1"), time.Duration(0))
}
