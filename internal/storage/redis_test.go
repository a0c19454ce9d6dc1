package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ats-filter-go/internal/constants"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisFromClient(client), mr
}

func TestRedis_JDTextCache(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	_, err := r.GetCachedJDText(ctx, "job-1")
	assert.True(t, errors.Is(err, ErrNotFound), "未缓存时应返回 ErrNotFound")

	require.NoError(t, r.SetCachedJDText(ctx, "job-1", "Looking for a Python developer", 0))
	text, err := r.GetCachedJDText(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "Looking for a Python developer", text)

	key := fmt.Sprintf(constants.KeyJobDescriptionText, "job-1")
	assert.Equal(t, "app:job:text:job-1", key)
	assert.Equal(t, constants.JDCacheDuration, mr.TTL(key), "ttl<=0 时使用默认24小时")

	mr.FastForward(constants.JDCacheDuration + time.Second)
	_, err = r.GetCachedJDText(ctx, "job-1")
	assert.True(t, errors.Is(err, ErrNotFound), "过期后应返回 ErrNotFound")
}

func TestRedis_URLTextCache(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, r.SetCachedURLText(ctx, "abc123", "jd from url", time.Hour))
	text, err := r.GetCachedURLText(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "jd from url", text)
	assert.Equal(t, time.Hour, mr.TTL("app:job:url:abc123"))
}

func TestRedis_StopWords(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	words, err := r.LoadStopWords(ctx, "english")
	require.NoError(t, err)
	assert.Empty(t, words, "集合不存在时返回空列表")

	n, err := r.SeedStopWords(ctx, "English", []string{"the", "a", "with"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = r.SeedStopWords(ctx, "english", []string{"for", "and"})
	require.NoError(t, err)
	assert.Equal(t, 2, n, "重新写入应整体替换")

	members, err := mr.Members("app:stopwords:set:english")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"for", "and"}, members)

	words, err = r.LoadStopWords(ctx, "ENGLISH")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"for", "and"}, words)

	_, err = r.SeedStopWords(ctx, "english", nil)
	assert.Error(t, err)
}

func TestRedis_Unavailable(t *testing.T) {
	r, mr := newTestRedis(t)
	require.NoError(t, r.Ping(context.Background()))
	mr.Close()

	assert.Error(t, r.Ping(context.Background()), "服务端关闭后 Ping 应失败")

	_, err := r.LoadStopWords(context.Background(), "english")
	assert.Error(t, err)
	_, err = r.GetCachedJDText(context.Background(), "job-1")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound), "连接失败不应被当作缓存未命中")
}
