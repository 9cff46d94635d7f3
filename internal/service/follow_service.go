package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/repository"
)

// FollowService provides follow-relation business logic.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow subscribes the user to the named author. Following yourself and
// following someone you already follow are both silent no-ops.
func (s *FollowService) Follow(ctx context.Context, userID uint, username string) (*models.User, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if author.ID == userID {
		// Never stored, never an error.
		return author, nil
	}
	if err := s.followRepo.Create(ctx, userID, author.ID); err != nil {
		return nil, err
	}
	return author, nil
}

// Unfollow removes the user's subscription to the named author. Unfollowing
// someone you do not follow is a silent no-op.
func (s *FollowService) Unfollow(ctx context.Context, userID uint, username string) (*models.User, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.followRepo.Delete(ctx, userID, author.ID); err != nil {
		return nil, err
	}
	return author, nil
}

// IsFollowing reports whether the user follows the author.
func (s *FollowService) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	return s.followRepo.Exists(ctx, userID, authorID)
}
