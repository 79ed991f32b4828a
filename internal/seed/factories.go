// Package seed provides helpers to create demo and test data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"learnfromus/internal/models"
	"learnfromus/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedPassword is the plaintext password shared by all seeded users.
const SeedPassword = "password123"

// tagVocabulary is the pool CreatePost samples from. Everything is already
// in slug form so seeded tags look like organic user input after
// normalization.
var tagVocabulary = []string{
	"golang", "postgres", "redis", "docker", "kubernetes", "testing",
	"api-design", "performance", "security", "react", "typescript",
	"databases", "scaling", "rate-limiting", "caching", "observability",
	"ci-cd", "microservices", "grpc", "rest", "career", "interviews",
	"pytorch", "transformers", "sql", "spark", "airflow", "ab-testing",
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and by tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, opts: opts, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Bio:      gofakeit.Sentence(10),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = SeedPassword
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureTags upserts the given tag names and returns the persisted rows.
// Existing tags are reused rather than duplicated.
func (f *Factory) EnsureTags(names []string) ([]models.Tag, error) {
	rows := make([]models.Tag, 0, len(names))
	for _, name := range names {
		rows = append(rows, models.Tag{Name: name})
	}
	if len(rows) > 0 {
		if err := f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return nil, err
		}
	}
	var tags []models.Tag
	if err := f.db.Where("name IN ?", names).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// CreatePost constructs and persists a sample post for the given user,
// attached to a random section with up to four tags from the vocabulary.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	sections := models.AllSections()
	title := gofakeit.Sentence(5)

	post := &models.Post{
		AuthorID: user.ID,
		Title:    title,
		Content:  gofakeit.Paragraph(1, 3, 5, "\n"),
		Section:  sections[f.rand.Intn(len(sections))].Value,
		Slug:     validation.Slugify(title),
		// a slice of seeded posts stay drafts so published-only reads
		// have something to filter
		Published: f.rand.Float32() < 0.85,
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rand.Intn(maxDays)
	hoursBack := f.rand.Intn(24)
	minsBack := f.rand.Intn(60)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	tags, err := f.EnsureTags(f.sampleTags())
	if err != nil {
		return nil, err
	}
	post.Tags = tags

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateFollow persists a follow edge between two users. Duplicate edges are
// ignored so the seeder can be rerun safely.
func (f *Factory) CreateFollow(follower, followee *models.User) error {
	follow := &models.Follow{
		FollowerID: follower.ID,
		FolloweeID: followee.ID,
	}
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(follow).Error
}

func (f *Factory) sampleTags() []string {
	count := f.rand.Intn(4) + 1
	picked := make([]string, 0, count)
	for _, i := range f.rand.Perm(len(tagVocabulary))[:count] {
		picked = append(picked, tagVocabulary[i])
	}
	return validation.NormalizeTags(picked)
}
