package client

import (
	"context"
	"sort"
	"sync"
)

// Store is an explicit application-state cache over a Client: the published
// post collection, the signed-in user, and their follow set. Reads come from
// memory; mutations go to the server first and are applied locally only after
// they succeed. Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	client    *Client
	posts     []Post
	user      *User
	following map[uint]bool
}

// NewStore creates a Store over the given client. Call Refresh to populate it.
func NewStore(c *Client) *Store {
	return &Store{client: c, following: make(map[uint]bool)}
}

// Refresh replaces the cached state with a full fetch: the published post
// collection, and the current user plus follow set when a token is held.
func (s *Store) Refresh(ctx context.Context) error {
	posts, err := s.client.Posts(ctx)
	if err != nil {
		return err
	}

	var user *User
	following := make(map[uint]bool)
	if s.client.Token() != "" {
		user, err = s.client.Me(ctx)
		if err != nil {
			return err
		}
		fw, err := s.client.Following(ctx)
		if err != nil {
			return err
		}
		for _, u := range fw.Users {
			following[u.ID] = true
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = posts
	s.user = user
	s.following = following
	return nil
}

// SignUp registers an account and loads its state.
func (s *Store) SignUp(ctx context.Context, input RegisterInput) (*Session, error) {
	session, err := s.client.Register(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

// SignIn authenticates and loads the account's state.
func (s *Store) SignIn(ctx context.Context, email, password string) (*Session, error) {
	session, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

// SignOut drops the token and the account-scoped state. Cached posts are
// kept; they are public data.
func (s *Store) SignOut() {
	s.client.SetToken("")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.following = make(map[uint]bool)
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *Store) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Posts returns a copy of the cached post collection, newest first.
func (s *Store) Posts() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// Post returns the post by id, from the cache when present and from the
// server otherwise. A server hit is folded into the cache.
func (s *Store) Post(ctx context.Context, id uint) (*Post, error) {
	s.mu.RLock()
	for i := range s.posts {
		if s.posts[i].ID == id {
			p := s.posts[i]
			s.mu.RUnlock()
			return &p, nil
		}
	}
	s.mu.RUnlock()

	post, err := s.client.Post(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.upsertLocked(*post)
	s.mu.Unlock()
	return post, nil
}

// CreatePost publishes a post and folds the server's version into the cache.
func (s *Store) CreatePost(ctx context.Context, input PostInput) (*Post, error) {
	post, err := s.client.CreatePost(ctx, input)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.upsertLocked(*post)
	s.mu.Unlock()
	return post, nil
}

// UpdatePost rewrites a post and folds the server's version into the cache.
func (s *Store) UpdatePost(ctx context.Context, id uint, input PostInput) (*Post, error) {
	post, err := s.client.UpdatePost(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.upsertLocked(*post)
	s.mu.Unlock()
	return post, nil
}

// DeletePost removes a post on the server and from the cache.
func (s *Store) DeletePost(ctx context.Context, id uint) error {
	if err := s.client.DeletePost(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			break
		}
	}
	return nil
}

// Follow starts following a user and records the edge locally.
func (s *Store) Follow(ctx context.Context, id uint) error {
	if err := s.client.Follow(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.following[id] = true
	s.mu.Unlock()
	return nil
}

// Unfollow stops following a user and drops the local edge.
func (s *Store) Unfollow(ctx context.Context, id uint) error {
	if err := s.client.Unfollow(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.following, id)
	s.mu.Unlock()
	return nil
}

// IsFollowing reports the locally known follow state for a user.
func (s *Store) IsFollowing(id uint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.following[id]
}

// Feed returns the cached posts authored by followed users, newest first.
func (s *Store) Feed() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Post
	for _, p := range s.posts {
		if s.following[p.AuthorID] {
			out = append(out, p)
		}
	}
	return out
}

// upsertLocked inserts or replaces a post and restores newest-first order.
// Caller holds s.mu.
func (s *Store) upsertLocked(post Post) {
	for i := range s.posts {
		if s.posts[i].ID == post.ID {
			s.posts[i] = post
			return
		}
	}
	s.posts = append(s.posts, post)
	sort.SliceStable(s.posts, func(i, j int) bool {
		return s.posts[i].CreatedAt.After(s.posts[j].CreatedAt)
	})
}
