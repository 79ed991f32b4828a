package repository

import (
	"context"
	"errors"

	"learnfromus/internal/cache"
	"learnfromus/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations. Create and
// Update take the normalized tag names alongside the post; both run in a
// single transaction so a failure anywhere leaves no partial rows behind.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post, tagNames []string) error
	Update(ctx context.Context, post *models.Post, tagNames []string) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListPublished(ctx context.Context, limit, offset int) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error)
	ListFollowed(ctx context.Context, followerID uint, limit, offset int) ([]*models.Post, error)
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// upsertTags ensures a tag row exists for every name and returns the rows in
// input order. Tags are shared vocabulary; they are created lazily and never
// deleted.
func upsertTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	rows := make([]models.Tag, len(names))
	for i, name := range names {
		rows[i] = models.Tag{Name: name}
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return nil, err
	}

	// Re-read: DoNothing leaves IDs unset for rows that already existed.
	var tags []models.Tag
	if err := tx.Where("name IN ?", names).Find(&tags).Error; err != nil {
		return nil, err
	}

	byName := make(map[string]models.Tag, len(tags))
	for _, t := range tags {
		byName[t.Name] = t
	}
	ordered := make([]models.Tag, 0, len(names))
	for _, name := range names {
		if t, ok := byName[name]; ok {
			ordered = append(ordered, t)
		}
	}
	return ordered, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post, tagNames []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := upsertTags(tx, tagNames)
		if err != nil {
			return err
		}
		post.Tags = tags
		return tx.Create(post).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A post with this slug already exists.")
		}
		return models.NewInternalError(err)
	}

	post.ResolveTagNames()
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidateProfile(ctx, post.AuthorID)
	return nil
}

// Update saves the post fields and replaces the whole tag set. The old links
// are dropped and the normalized set re-attached inside the same transaction.
func (r *postRepository) Update(ctx context.Context, post *models.Post, tagNames []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(post).Error; err != nil {
			return err
		}
		tags, err := upsertTags(tx, tagNames)
		if err != nil {
			return err
		}
		return tx.Model(post).Association("Tags").Replace(tags)
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	post.Tags = nil
	post.TagNames = append([]string{}, tagNames...)
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidateProfile(ctx, post.AuthorID)
	return nil
}

// withAuthorName joins users so author_name is selected alongside the post
// columns.
func withAuthorName(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Post{}).
		Select("posts.*, users.username AS author_name").
		Joins("JOIN users ON users.id = posts.author_id")
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := withAuthorName(r.db.WithContext(ctx)).
		Preload("Tags").
		Where("posts.id = ?", id).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	post.ResolveTagNames()
	return &post, nil
}

// feedPageSize is the landing-page size, the only published listing hot
// enough to cache.
const feedPageSize = 20

func (r *postRepository) ListPublished(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	query := func(dest *[]*models.Post) error {
		err := withAuthorName(r.db.WithContext(ctx)).
			Preload("Tags").
			Where("posts.published = ?", true).
			Order("posts.created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(dest).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		for _, p := range *dest {
			p.ResolveTagNames()
		}
		return nil
	}

	var posts []*models.Post
	if limit == feedPageSize && offset == 0 {
		if err := cache.Aside(ctx, cache.FeedKey, &posts, cache.FeedTTL, func() error {
			return query(&posts)
		}); err != nil {
			return nil, err
		}
		return posts, nil
	}

	if err := query(&posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := withAuthorName(r.db.WithContext(ctx)).
		Preload("Tags").
		Where("posts.author_id = ? AND posts.published = ?", authorID, true).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, p := range posts {
		p.ResolveTagNames()
	}
	return posts, nil
}

// ListFollowed returns published posts authored by users the follower
// follows, newest first.
func (r *postRepository) ListFollowed(ctx context.Context, followerID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := withAuthorName(r.db.WithContext(ctx)).
		Preload("Tags").
		Joins("JOIN follows ON follows.followee_id = posts.author_id").
		Where("follows.follower_id = ? AND posts.published = ?", followerID, true).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, p := range posts {
		p.ResolveTagNames()
	}
	return posts, nil
}

// Delete removes the post; the post_tags links go with it through the
// cascade. Tag rows themselves are kept.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	var post models.Post
	if err := r.db.WithContext(ctx).Select("id", "author_id").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", id)
		}
		return models.NewInternalError(err)
	}

	result := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidateProfile(ctx, post.AuthorID)
	return nil
}
