package seed

import (
	"fmt"
	"log"

	"learnfromus/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	MaxDays     int
	ShouldClean bool
	SkipBcrypt  bool
}

// Seeder populates the database with demo data through a Factory.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts)}
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	s := NewSeeder(db, opts)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	users, err := s.SeedUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	posts, err := s.SeedPosts(users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	edges, err := s.SeedFollowMesh(users)
	if err != nil {
		return fmt.Errorf("failed to create follows: %w", err)
	}
	log.Printf("✓ %d follow edges created", edges)

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

// ClearAll removes every row the seeder may have written, children first so
// foreign keys never block the sweep.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	for _, stmt := range []string{
		"DELETE FROM post_tags",
		"DELETE FROM follows",
		"DELETE FROM posts",
		"DELETE FROM tags",
		"DELETE FROM users",
	} {
		if err := s.db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedUsers creates count users. The first few are well-known accounts with
// stable credentials so the frontend always has someone to log in as.
func (s *Seeder) SeedUsers(count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	if count >= 3 {
		for _, name := range []string{"alice", "bob", "test"} {
			name := name
			user, err := s.factory.CreateUser(func(u *models.User) {
				u.Username = name
				u.Email = fmt.Sprintf("%s@example.com", name)
				u.Bio = "One of the OGs."
			})
			if err != nil {
				log.Printf("Failed to create user %s: %v", name, err)
				continue
			}
			users = append(users, user)
		}
	}

	for i := len(users); i < count; i++ {
		user, err := s.factory.CreateUser(func(u *models.User) {
			// suffix keeps generated usernames unique across the run
			u.Username = fmt.Sprintf("%s%d", u.Username, i)
		})
		if err != nil {
			log.Printf("Failed to create user #%d: %v", i, err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

// SeedPosts creates count posts spread across the users.
func (s *Seeder) SeedPosts(users []*models.User, count int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[s.factory.rand.Intn(len(users))]
		post, err := s.factory.CreatePost(author)
		if err != nil {
			log.Printf("Failed to create post #%d: %v", i, err)
			continue
		}
		posts = append(posts, post)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d posts...", i)
		}
	}
	return posts, nil
}

// SeedFollowMesh makes each user follow roughly a fifth of the others, so
// following feeds have content without everyone following everyone.
func (s *Seeder) SeedFollowMesh(users []*models.User) (int, error) {
	edges := 0
	for _, follower := range users {
		for _, followee := range users {
			if follower.ID == followee.ID {
				continue
			}
			if s.factory.rand.Float32() >= 0.2 {
				continue
			}
			if err := s.factory.CreateFollow(follower, followee); err != nil {
				return edges, err
			}
			edges++
		}
	}
	return edges, nil
}
