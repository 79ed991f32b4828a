package service

import (
	"context"

	"learnfromus/internal/middleware"
	"learnfromus/internal/models"
	"learnfromus/internal/repository"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// Follow creates the edge from the acting user to the target. Following a
// user you already follow is a no-op, not an error.
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID uint) error {
	if followerID == followeeID {
		return models.NewValidationError("You cannot follow yourself.")
	}
	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		return err
	}

	if err := s.followRepo.Follow(ctx, followerID, followeeID); err != nil {
		return err
	}
	middleware.FollowEvents.WithLabelValues("follow").Inc()
	return nil
}

// Unfollow removes the edge. Unfollowing a user you never followed succeeds
// without error.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	if followerID == followeeID {
		return models.NewValidationError("You cannot follow yourself.")
	}
	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		return err
	}

	if err := s.followRepo.Unfollow(ctx, followerID, followeeID); err != nil {
		return err
	}
	middleware.FollowEvents.WithLabelValues("unfollow").Inc()
	return nil
}

// IsFollowing reports whether follower currently follows followee.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.followRepo.IsFollowing(ctx, followerID, followeeID)
}
