// Package client is a Go client for the learnfromus API with an explicit
// in-memory store for application state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// User is a member as returned by the API. Email is empty on public
// projections.
type User struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
}

// Post is a forum post as returned by the API.
type Post struct {
	ID         uint      `json:"id"`
	AuthorID   uint      `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Section    string    `json:"section"`
	Slug       string    `json:"slug"`
	Published  bool      `json:"published"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Session pairs a bearer token with the user it authenticates.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Profile is another member's public page.
type Profile struct {
	User           User   `json:"user"`
	Posts          []Post `json:"posts"`
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
	ViewerFollows  bool   `json:"viewer_follows"`
}

// Following is the authenticated user's followed members and their posts.
type Following struct {
	Users []User `json:"users"`
	Posts []Post `json:"posts"`
}

// Section is one entry of the posting vocabulary.
type Section struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SectionGroup groups related sections.
type SectionGroup struct {
	Title    string    `json:"title"`
	Sections []Section `json:"items"`
}

// PostInput is the payload for creating or updating a post.
type PostInput struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Section string   `json:"section"`
	Tags    []string `json:"tags"`
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// APIError is a non-2xx response decoded from the server's error payload.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("api: request failed (status %d)", e.Status)
}

// Client talks to a learnfromus API server. The zero value is not usable;
// construct with New. Client is safe for concurrent use once the token is
// set; SetToken itself is not synchronized.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken sets the bearer token up front, e.g. from a saved session.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current bearer token.
func (c *Client) Token() string { return c.token }

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(respBody, apiErr)
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Register creates an account and retains the returned token.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", input, &session); err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

// Login authenticates and retains the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var session Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &session); err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Posts lists published posts, newest first.
func (c *Client) Posts(ctx context.Context) ([]Post, error) {
	var out struct {
		Posts []Post `json:"posts"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/posts", nil, &out); err != nil {
		return nil, err
	}
	return out.Posts, nil
}

// Post fetches a single published post by id.
func (c *Client) Post(ctx context.Context, id uint) (*Post, error) {
	var out struct {
		Post Post `json:"post"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/posts/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Post, nil
}

// CreatePost publishes a new post.
func (c *Client) CreatePost(ctx context.Context, input PostInput) (*Post, error) {
	var out struct {
		Post Post `json:"post"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/posts", input, &out); err != nil {
		return nil, err
	}
	return &out.Post, nil
}

// UpdatePost rewrites a post you own, replacing its tag set.
func (c *Client) UpdatePost(ctx context.Context, id uint, input PostInput) (*Post, error) {
	var out struct {
		Post Post `json:"post"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/posts/%d", id), input, &out); err != nil {
		return nil, err
	}
	return &out.Post, nil
}

// DeletePost removes a post you own.
func (c *Client) DeletePost(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d", id), nil, nil)
}

// UserProfile fetches another member's public page. With a token set, the
// response says whether the viewer follows them.
func (c *Client) UserProfile(ctx context.Context, id uint) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Follow starts following a user. Following someone you already follow is a
// no-op on the server.
func (c *Client) Follow(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", id), nil, nil)
}

// Unfollow stops following a user.
func (c *Client) Unfollow(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%d/follow", id), nil, nil)
}

// Following lists the users the authenticated user follows and their
// published posts.
func (c *Client) Following(ctx context.Context) (*Following, error) {
	var following Following
	if err := c.do(ctx, http.MethodGet, "/api/account/following", nil, &following); err != nil {
		return nil, err
	}
	return &following, nil
}

// UpdateProfile changes the display name. The server re-issues the token so
// its name claim stays current; the client retains the new one.
func (c *Client) UpdateProfile(ctx context.Context, name string) (*Session, error) {
	body := map[string]string{"name": name}
	var session Session
	if err := c.do(ctx, http.MethodPatch, "/api/account/profile", body, &session); err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

// UpdatePassword changes the password after verifying the current one.
func (c *Client) UpdatePassword(ctx context.Context, current, updated string) error {
	body := map[string]string{"currentPassword": current, "newPassword": updated}
	return c.do(ctx, http.MethodPatch, "/api/account/password", body, nil)
}

// DeleteAccount removes the authenticated account and everything it owns,
// then clears the retained token.
func (c *Client) DeleteAccount(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/api/account", nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

// Sections fetches the grouped posting vocabulary.
func (c *Client) Sections(ctx context.Context) ([]SectionGroup, error) {
	var out struct {
		Groups []SectionGroup `json:"groups"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/sections", nil, &out); err != nil {
		return nil, err
	}
	return out.Groups, nil
}
