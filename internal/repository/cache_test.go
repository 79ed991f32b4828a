package repository

import (
	"context"
	"testing"

	"learnfromus/internal/cache"
	"learnfromus/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })
	return mr
}

func TestUserRepository_CacheHitKeepsPasswordHash(t *testing.T) {
	mr := setupCache(t)
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice", "alice@x.com")

	first, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hashed", first.Password)
	assert.True(t, mr.Exists(cache.UserKey(user.ID)))

	// second read is served from the cache and must carry the hash too
	second, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hashed", second.Password)
	assert.Equal(t, "alice@x.com", second.Email)
}

func TestUserRepository_UpdateAfterCachedReadKeepsHash(t *testing.T) {
	setupCache(t)
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "bob", "bob@x.com")

	// warm the cache, then read through it
	_, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	cached, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)

	cached.Username = "robert"
	require.NoError(t, repo.Update(ctx, cached))

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, "robert", stored.Username)
	assert.Equal(t, "hashed", stored.Password)
}

func TestPostRepository_FirstPageIsCachedAndInvalidated(t *testing.T) {
	mr := setupCache(t)
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createTestUser(t, db, "carol", "carol@x.com")

	first := &models.Post{AuthorID: author.ID, Title: "First", Content: "Long enough content.", Section: "backend", Slug: "first-1", Published: true}
	require.NoError(t, repo.Create(ctx, first, []string{"golang"}))

	posts, err := repo.ListPublished(ctx, 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.True(t, mr.Exists(cache.FeedKey))

	// served from the cache: a row inserted behind the repository's back
	// does not show up until the key is invalidated
	sneaky := &models.Post{AuthorID: author.ID, Title: "Sneaky", Content: "Long enough content.", Section: "backend", Slug: "sneaky-1", Published: true}
	require.NoError(t, db.Create(sneaky).Error)

	posts, err = repo.ListPublished(ctx, 20, 0)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, "First", posts[0].Title)
	assert.Equal(t, "carol", posts[0].AuthorName)
	assert.Equal(t, []string{"golang"}, posts[0].TagNames)

	// a write through the repository drops the key
	second := &models.Post{AuthorID: author.ID, Title: "Second", Content: "Long enough content.", Section: "backend", Slug: "second-1", Published: true}
	require.NoError(t, repo.Create(ctx, second, nil))
	assert.False(t, mr.Exists(cache.FeedKey))

	posts, err = repo.ListPublished(ctx, 20, 0)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}

func TestFollowRepository_EdgesInvalidateProfiles(t *testing.T) {
	mr := setupCache(t)
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice", "alice@x.com")
	bob := createTestUser(t, db, "bob", "bob@x.com")

	require.NoError(t, cache.SetJSON(ctx, cache.ProfileKey(alice.ID), "stale", cache.ProfileTTL))
	require.NoError(t, cache.SetJSON(ctx, cache.ProfileKey(bob.ID), "stale", cache.ProfileTTL))

	require.NoError(t, repo.Follow(ctx, alice.ID, bob.ID))
	assert.False(t, mr.Exists(cache.ProfileKey(alice.ID)))
	assert.False(t, mr.Exists(cache.ProfileKey(bob.ID)))

	require.NoError(t, cache.SetJSON(ctx, cache.ProfileKey(bob.ID), "stale", cache.ProfileTTL))
	require.NoError(t, repo.Unfollow(ctx, alice.ID, bob.ID))
	assert.False(t, mr.Exists(cache.ProfileKey(bob.ID)))
}
