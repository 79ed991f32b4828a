package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"learnfromus/internal/middleware"
	"learnfromus/internal/models"
	"learnfromus/internal/observability"
	"learnfromus/internal/repository"
	"learnfromus/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	AuthorID uint
	Title    string
	Content  string
	Section  string
	Tags     []string
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Title   string
	Content string
	Section string
	Tags    []string
}

type ListPostsInput struct {
	Limit  int
	Offset int
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

const (
	maxTitleLen   = 300
	maxContentLen = 50000
)

// validatePostFields trims and checks the shared create/update fields,
// returning the cleaned values.
func validatePostFields(title, content, section string) (string, string, string, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	section = validation.NormalizeSection(section)

	if title == "" {
		return "", "", "", models.NewValidationError("Post title is required.")
	}
	if utf8.RuneCountInString(title) < 4 {
		return "", "", "", models.NewValidationError("Post title must be at least 4 characters.")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "", "", "", models.NewValidationError("Post title must not exceed 300 characters.")
	}
	if content == "" {
		return "", "", "", models.NewValidationError("Post content is required.")
	}
	if utf8.RuneCountInString(content) < 10 {
		return "", "", "", models.NewValidationError("Post content must be at least 10 characters.")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return "", "", "", models.NewValidationError("Post content must not exceed 50000 characters.")
	}
	if section == "" {
		return "", "", "", models.NewValidationError("Post section is required.")
	}
	return title, content, section, nil
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}
	return s.postRepo.ListPublished(ctx, limit, offset)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.Published {
		return nil, models.NewNotFoundError("Post", id)
	}
	return post, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "post.create")
	defer span.End()

	title, content, section, err := validatePostFields(in.Title, in.Content, in.Section)
	if err != nil {
		middleware.PostWrites.WithLabelValues("create", "rejected").Inc()
		return nil, err
	}
	tags := validation.NormalizeTags(in.Tags)

	post := &models.Post{
		AuthorID:  in.AuthorID,
		Title:     title,
		Content:   content,
		Section:   section,
		Slug:      validation.Slugify(title),
		Published: true,
	}

	span.AddAttributes(
		attribute.String("post.section", section),
		attribute.Int("post.tags", len(tags)),
	)

	if err := s.postRepo.Create(ctx, post, tags); err != nil {
		span.SetError(err)
		middleware.PostWrites.WithLabelValues("create", "error").Inc()
		return nil, err
	}

	middleware.PostWrites.WithLabelValues("create", "ok").Inc()
	return post, nil
}

// UpdatePost replaces title, content, section and the entire tag set. Only
// the author may update; the slug is fixed at creation and never changes.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "post.update")
	defer span.End()

	title, content, section, err := validatePostFields(in.Title, in.Content, in.Section)
	if err != nil {
		middleware.PostWrites.WithLabelValues("update", "rejected").Inc()
		return nil, err
	}
	tags := validation.NormalizeTags(in.Tags)

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		middleware.PostWrites.WithLabelValues("update", "error").Inc()
		return nil, err
	}
	if post.AuthorID != in.UserID {
		middleware.PostWrites.WithLabelValues("update", "forbidden").Inc()
		return nil, models.NewForbiddenError("You can only edit your own posts.")
	}

	post.Title = title
	post.Content = content
	post.Section = section

	if err := s.postRepo.Update(ctx, post, tags); err != nil {
		span.SetError(err)
		middleware.PostWrites.WithLabelValues("update", "error").Inc()
		return nil, err
	}

	middleware.PostWrites.WithLabelValues("update", "ok").Inc()
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return models.NewForbiddenError("You can only delete your own posts.")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		middleware.PostWrites.WithLabelValues("delete", "error").Inc()
		return err
	}
	middleware.PostWrites.WithLabelValues("delete", "ok").Inc()
	return nil
}
