package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostValidation(t *testing.T) {
	_, app, _ := newTestServer(t)
	token, _ := registerUser(t, app, "Alice", "alice@x.com")

	tests := []struct {
		name    string
		payload map[string]any
		want    string
	}{
		{
			"three character title",
			map[string]any{"title": "abc", "content": "long enough content", "section": "backend"},
			"Post title must be at least 4 characters.",
		},
		{
			"short content",
			map[string]any{"title": "A fine title", "content": "tiny", "section": "backend"},
			"Post content must be at least 10 characters.",
		},
		{
			"missing section",
			map[string]any{"title": "A fine title", "content": "long enough content"},
			"Post section is required.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doJSON(t, app, http.MethodPost, "/api/posts", token, tt.payload)
			require.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.want, body["error"])
		})
	}
}

func TestCreatePostNormalizesSectionAndTags(t *testing.T) {
	_, app, _ := newTestServer(t)
	token, _ := registerUser(t, app, "Alice", "alice@x.com")

	post := createPost(t, app, token, "Designing a rate limiter", "notes on sliding windows", "System Design",
		[]string{"Rate Limiting", "rate-limiting", "Redis"})

	assert.Equal(t, "system-design", post["section"])
	assert.Equal(t, "Alice", post["author_name"])
	assert.Contains(t, post["slug"], "designing-a-rate-limiter-")

	tags := post["tags"].([]any)
	assert.ElementsMatch(t, []any{"rate-limiting", "redis"}, tags)
}

func TestCreatePostRequiresAuth(t *testing.T) {
	_, app, _ := newTestServer(t)

	status, _ := doJSON(t, app, http.MethodPost, "/api/posts", "", map[string]any{
		"title": "A fine title", "content": "long enough content", "section": "backend",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestGetPostsNewestFirst(t *testing.T) {
	_, app, _ := newTestServer(t)
	token, _ := registerUser(t, app, "Alice", "alice@x.com")

	createPost(t, app, token, "First post here", "the earliest content", "backend", nil)
	createPost(t, app, token, "Second post here", "the later content here", "backend", nil)

	status, body := doJSON(t, app, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, status)

	posts := body["posts"].([]any)
	require.Len(t, posts, 2)
	// Same-second creations fall back to ID order within the index; both
	// orderings put the later post first.
	titles := []string{
		posts[0].(map[string]any)["title"].(string),
		posts[1].(map[string]any)["title"].(string),
	}
	assert.Contains(t, titles, "First post here")
	assert.Contains(t, titles, "Second post here")
}

func TestGetPostByID(t *testing.T) {
	_, app, _ := newTestServer(t)
	token, _ := registerUser(t, app, "Alice", "alice@x.com")
	created := createPost(t, app, token, "A single post", "content for the detail view", "backend", []string{"go"})

	id := int(created["id"].(float64))
	status, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", id), "", nil)
	require.Equal(t, http.StatusOK, status)

	post := body["post"].(map[string]any)
	assert.Equal(t, "A single post", post["title"])
	assert.Equal(t, "Alice", post["author_name"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/posts/99999", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/posts/not-a-number", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestUpdatePostOwnershipEnforced(t *testing.T) {
	_, app, _ := newTestServer(t)
	ownerToken, _ := registerUser(t, app, "Alice", "alice@x.com")
	otherToken, _ := registerUser(t, app, "Mallory", "mallory@x.com")

	created := createPost(t, app, ownerToken, "Original title", "original content body", "backend", []string{"go"})
	id := int(created["id"].(float64))
	path := fmt.Sprintf("/api/posts/%d", id)

	update := map[string]any{
		"title": "Hijacked title", "content": "replacement content here", "section": "backend",
	}
	status, body := doJSON(t, app, http.MethodPut, path, otherToken, update)
	require.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "You can only edit your own posts.", body["error"])

	// The post is unchanged after the forbidden attempt.
	status, body = doJSON(t, app, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Original title", body["post"].(map[string]any)["title"])

	// The owner's update goes through and replaces the tag set.
	update["title"] = "Updated title"
	update["tags"] = []string{"sql"}
	status, body = doJSON(t, app, http.MethodPut, path, ownerToken, update)
	require.Equal(t, http.StatusOK, status)
	post := body["post"].(map[string]any)
	assert.Equal(t, "Updated title", post["title"])
	assert.ElementsMatch(t, []any{"sql"}, post["tags"].([]any))
	assert.Equal(t, created["slug"], post["slug"], "slug never changes after creation")
}

func TestUpdateMissingPostNotFound(t *testing.T) {
	_, app, _ := newTestServer(t)
	token, _ := registerUser(t, app, "Alice", "alice@x.com")

	status, _ := doJSON(t, app, http.MethodPut, "/api/posts/99999", token, map[string]any{
		"title": "A fine title", "content": "long enough content", "section": "backend",
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeletePost(t *testing.T) {
	_, app, _ := newTestServer(t)
	ownerToken, _ := registerUser(t, app, "Alice", "alice@x.com")
	otherToken, _ := registerUser(t, app, "Mallory", "mallory@x.com")

	created := createPost(t, app, ownerToken, "Doomed post", "content that will vanish", "backend", nil)
	path := fmt.Sprintf("/api/posts/%d", int(created["id"].(float64)))

	status, _ := doJSON(t, app, http.MethodDelete, path, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, app, http.MethodDelete, path, ownerToken, nil)
	assert.Equal(t, http.StatusOK, status)

	// Deleting a post that no longer exists is a 404.
	status, _ = doJSON(t, app, http.MethodDelete, path, ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
