package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedUser struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestGetSetJSON(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	var got cachedUser
	found, err := GetJSON(ctx, UserKey(1), &got)
	require.NoError(t, err)
	assert.False(t, found)

	want := cachedUser{ID: 1, Name: "ada"}
	require.NoError(t, SetJSON(ctx, UserKey(1), want, UserTTL))

	found, err = GetJSON(ctx, UserKey(1), &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}

func TestAsideFetchesOnceThenServesFromCache(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedUser) func() error {
		return func() error {
			calls++
			*dest = cachedUser{ID: 7, Name: "grace"}
			return nil
		}
	}

	var first cachedUser
	require.NoError(t, Aside(ctx, UserKey(7), &first, UserTTL, fetch(&first)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "grace", first.Name)

	var second cachedUser
	require.NoError(t, Aside(ctx, UserKey(7), &second, UserTTL, fetch(&second)))
	assert.Equal(t, 1, calls, "second read should hit the cache")
	assert.Equal(t, first, second)
}

func TestAsideRefetchesAfterExpiry(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	load := func(dest *cachedUser) func() error {
		return func() error {
			calls++
			*dest = cachedUser{ID: 2, Name: "lin"}
			return nil
		}
	}

	var u cachedUser
	require.NoError(t, Aside(ctx, UserKey(2), &u, time.Minute, load(&u)))
	mr.FastForward(2 * time.Minute)

	var again cachedUser
	require.NoError(t, Aside(ctx, UserKey(2), &again, time.Minute, load(&again)))
	assert.Equal(t, 2, calls)
}

func TestInvalidatePostClearsFeed(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, PostKey(3), cachedUser{ID: 3}, PostTTL))
	require.NoError(t, SetJSON(ctx, FeedKey, []uint{3}, FeedTTL))

	InvalidatePost(ctx, 3)

	assert.False(t, mr.Exists(PostKey(3)))
	assert.False(t, mr.Exists(FeedKey))
}

func TestNilClientIsSafe(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	var got cachedUser
	found, err := GetJSON(ctx, UserKey(1), &got)
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, SetJSON(ctx, UserKey(1), got, UserTTL))
	Invalidate(ctx, UserKey(1))
}
