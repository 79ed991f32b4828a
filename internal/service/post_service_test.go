package service

import (
	"context"
	"testing"

	"learnfromus/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostServiceCreateValidation(t *testing.T) {
	svc := NewPostService(noopPostRepo())

	tests := []struct {
		name  string
		input CreatePostInput
	}{
		{"missing title", CreatePostInput{AuthorID: 1, Content: "long enough body", Section: "backend"}},
		{"short title", CreatePostInput{AuthorID: 1, Title: "abc", Content: "long enough body", Section: "backend"}},
		{"title only spaces", CreatePostInput{AuthorID: 1, Title: "    ", Content: "long enough body", Section: "backend"}},
		{"missing content", CreatePostInput{AuthorID: 1, Title: "A fine title", Section: "backend"}},
		{"short content", CreatePostInput{AuthorID: 1, Title: "A fine title", Content: "tiny", Section: "backend"}},
		{"missing section", CreatePostInput{AuthorID: 1, Title: "A fine title", Content: "long enough body"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, models.CodeValidation, appErrCode(t, err))
		})
	}
}

func TestPostServiceLengthBoundsCountRunes(t *testing.T) {
	svc := NewPostService(noopPostRepo())
	ctx := context.Background()

	// 4 runes of CJK is 12 bytes; the minimum is 4 characters
	_, err := svc.CreatePost(ctx, CreatePostInput{
		AuthorID: 1, Title: "深入理解", Content: "値型と参照型の違いを解説する", Section: "backend",
	})
	require.NoError(t, err)

	_, err = svc.CreatePost(ctx, CreatePostInput{
		AuthorID: 1, Title: "理解", Content: "値型と参照型の違いを解説する", Section: "backend",
	})
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, appErrCode(t, err))

	_, err = svc.CreatePost(ctx, CreatePostInput{
		AuthorID: 1, Title: "深入理解", Content: "短すぎる本文", Section: "backend",
	})
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, appErrCode(t, err))
}

func TestPostServiceCreateNormalizes(t *testing.T) {
	var gotPost *models.Post
	var gotTags []string
	posts := noopPostRepo()
	posts.createFn = func(_ context.Context, p *models.Post, tags []string) error {
		gotPost = p
		gotTags = tags
		p.ID = 1
		return nil
	}

	svc := NewPostService(posts)

	created, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: 7,
		Title:    "  Sharding Postgres  ",
		Content:  "  lessons from production  ",
		Section:  "System Design",
		Tags:     []string{"Databases", "databases", "Scaling", ""},
	})
	require.NoError(t, err)
	require.NotNil(t, gotPost)
	assert.Equal(t, "Sharding Postgres", gotPost.Title)
	assert.Equal(t, "lessons from production", gotPost.Content)
	assert.Equal(t, "system-design", gotPost.Section)
	assert.True(t, gotPost.Published)
	assert.Contains(t, gotPost.Slug, "sharding-postgres-")
	assert.Equal(t, []string{"databases", "scaling"}, gotTags)
	assert.Equal(t, uint(1), created.ID)
}

func TestPostServiceUpdateOwnershipAndSlug(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(context.Context, uint) (*models.Post, error) {
		return &models.Post{ID: 5, AuthorID: 1, Slug: "original-slug-x", Published: true}, nil
	}
	var updated *models.Post
	posts.updateFn = func(_ context.Context, p *models.Post, _ []string) error {
		updated = p
		return nil
	}

	svc := NewPostService(posts)

	_, err := svc.UpdatePost(context.Background(), UpdatePostInput{
		UserID: 2, PostID: 5,
		Title: "Changed title", Content: "changed body of text", Section: "backend",
	})
	require.Error(t, err)
	assert.Equal(t, models.CodeForbidden, appErrCode(t, err))
	assert.Nil(t, updated, "forbidden update must leave the post untouched")

	result, err := svc.UpdatePost(context.Background(), UpdatePostInput{
		UserID: 1, PostID: 5,
		Title: "Changed title", Content: "changed body of text", Section: "backend",
	})
	require.NoError(t, err)
	assert.Equal(t, "original-slug-x", result.Slug, "slug is fixed at creation")
	assert.Equal(t, "Changed title", result.Title)
}

func TestPostServiceUpdateMissingPost(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}

	svc := NewPostService(posts)

	_, err := svc.UpdatePost(context.Background(), UpdatePostInput{
		UserID: 1, PostID: 404,
		Title: "A fine title", Content: "long enough body", Section: "backend",
	})
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, appErrCode(t, err))
}

func TestPostServiceDelete(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(context.Context, uint) (*models.Post, error) {
		return &models.Post{ID: 5, AuthorID: 1}, nil
	}
	deleted := false
	posts.deleteFn = func(context.Context, uint) error {
		deleted = true
		return nil
	}

	svc := NewPostService(posts)

	err := svc.DeletePost(context.Background(), 2, 5)
	require.Error(t, err)
	assert.Equal(t, models.CodeForbidden, appErrCode(t, err))
	assert.False(t, deleted)

	require.NoError(t, svc.DeletePost(context.Background(), 1, 5))
	assert.True(t, deleted)
}

func TestPostServiceGetPostHidesUnpublished(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(context.Context, uint) (*models.Post, error) {
		return &models.Post{ID: 5, Published: false}, nil
	}

	svc := NewPostService(posts)

	_, err := svc.GetPost(context.Background(), 5)
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, appErrCode(t, err))
}

func TestPostServiceListClampsPagination(t *testing.T) {
	var gotLimit, gotOffset int
	posts := noopPostRepo()
	posts.listPublishedFn = func(_ context.Context, limit, offset int) ([]*models.Post, error) {
		gotLimit, gotOffset = limit, offset
		return nil, nil
	}

	svc := NewPostService(posts)

	_, err := svc.ListPosts(context.Background(), ListPostsInput{Limit: 1000, Offset: -5})
	require.NoError(t, err)
	assert.Equal(t, 100, gotLimit)
	assert.Zero(t, gotOffset)

	_, err = svc.ListPosts(context.Background(), ListPostsInput{})
	require.NoError(t, err)
	assert.Equal(t, 20, gotLimit)
}
