// Package service contains the application's business logic, sitting between
// the HTTP handlers and the repositories.
package service

import (
	"context"

	"learnfromus/internal/auth"
	"learnfromus/internal/cache"
	"learnfromus/internal/models"
	"learnfromus/internal/repository"
	"learnfromus/internal/validation"
)

type UserService struct {
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
	verifier   auth.CredentialVerifier
	issuer     auth.Issuer
}

func NewUserService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
	verifier auth.CredentialVerifier,
	issuer auth.Issuer,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		postRepo:   postRepo,
		followRepo: followRepo,
		verifier:   verifier,
		issuer:     issuer,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthResult pairs a freshly issued token with the user it is bound to.
type AuthResult struct {
	Token string
	User  *models.User
}

// Profile is a user's public page: identity, counts, published posts, and
// whether the viewer already follows them.
type Profile struct {
	User           models.PublicUser `json:"user"`
	Posts          []*models.Post    `json:"posts"`
	FollowerCount  int64             `json:"follower_count"`
	FollowingCount int64             `json:"following_count"`
	ViewerFollows  bool              `json:"viewer_follows"`
}

// FollowingOverview is the viewer's following page: the users they follow
// and a combined feed of those users' posts.
type FollowingOverview struct {
	Users []models.PublicUser `json:"users"`
	Posts []*models.Post      `json:"posts"`
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := validation.NormalizeDisplayName(in.Name)
	email := validation.NormalizeEmail(in.Email)

	if err := validation.ValidateDisplayName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	// Friendly pre-checks; the unique indexes still backstop races.
	if existing, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Email or username already exists.")
	}
	if existing, err := s.userRepo.GetByUsername(ctx, name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Email or username already exists.")
	}

	hashed, err := s.verifier.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{Username: name, Email: email, Password: hashed}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Login authenticates by normalized email. Both the unknown-email and
// wrong-password paths return the identical error so a caller cannot probe
// which addresses are registered.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := validation.NormalizeEmail(in.Email)
	if email == "" {
		return nil, models.NewValidationError("Email is required.")
	}
	if in.Password == "" {
		return nil, models.NewValidationError("Password is required.")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials.")
	}
	if err := s.verifier.Compare(user.Password, in.Password); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials.")
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile assembles a user's public page. viewerID is zero when the
// request is anonymous. The viewer-independent part is cached under the
// profile key; the viewer's follow state is looked up fresh on every request
// so one viewer's answer never serves another.
func (s *UserService) GetProfile(ctx context.Context, userID, viewerID uint) (*Profile, error) {
	var profile Profile
	err := cache.Aside(ctx, cache.ProfileKey(userID), &profile, cache.ProfileTTL, func() error {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		posts, err := s.postRepo.ListByAuthor(ctx, user.ID, 50, 0)
		if err != nil {
			return err
		}
		followers, err := s.followRepo.FollowerCount(ctx, user.ID)
		if err != nil {
			return err
		}
		following, err := s.followRepo.FollowingCount(ctx, user.ID)
		if err != nil {
			return err
		}

		profile = Profile{
			User:           user.Public(),
			Posts:          posts,
			FollowerCount:  followers,
			FollowingCount: following,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if viewerID != 0 && viewerID != userID {
		viewerFollows, err := s.followRepo.IsFollowing(ctx, viewerID, userID)
		if err != nil {
			return nil, err
		}
		profile.ViewerFollows = viewerFollows
	} else {
		profile.ViewerFollows = false
	}
	return &profile, nil
}

// GetFollowingOverview returns the users the viewer follows plus a combined
// newest-first feed of their published posts.
func (s *UserService) GetFollowingOverview(ctx context.Context, viewerID uint) (*FollowingOverview, error) {
	followed, err := s.followRepo.Following(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.ListFollowed(ctx, viewerID, 100, 0)
	if err != nil {
		return nil, err
	}

	users := make([]models.PublicUser, 0, len(followed))
	for i := range followed {
		users = append(users, followed[i].Public())
	}
	return &FollowingOverview{Users: users, Posts: posts}, nil
}

// UpdateDisplayName changes the user's public name. Because the name is
// embedded in the bearer token claims, a new token is issued alongside the
// updated user.
func (s *UserService) UpdateDisplayName(ctx context.Context, userID uint, name string) (*AuthResult, error) {
	name = validation.NormalizeDisplayName(name)
	if err := validation.ValidateDisplayName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Username = name
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// UpdatePassword verifies the current credential before accepting the new
// one. The mismatch path is an authentication failure, not validation.
func (s *UserService) UpdatePassword(ctx context.Context, userID uint, current, next string) error {
	if err := validation.ValidatePassword(next); err != nil {
		return models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.verifier.Compare(user.Password, current); err != nil {
		return models.NewUnauthorizedError("Invalid credentials.")
	}

	hashed, err := s.verifier.Hash(next)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.Password = hashed
	return s.userRepo.Update(ctx, user)
}

// DeleteAccount removes the user; posts, tag links and follow edges in both
// directions cascade away with the row.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}
