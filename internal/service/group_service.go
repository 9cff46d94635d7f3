package service

import (
	"context"
	"strings"

	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/validation"
)

// GroupService provides group administration business logic. Groups are
// created and removed by operators, not by end users.
type GroupService struct {
	groupRepo repository.GroupRepository
}

// NewGroupService returns a new GroupService.
func NewGroupService(groupRepo repository.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

// CreateGroup validates and stores a new group.
func (s *GroupService) CreateGroup(ctx context.Context, title, slug, description string) (*models.Group, error) {
	if strings.TrimSpace(title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if err := validation.ValidateGroupSlug(slug); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if _, err := s.groupRepo.GetBySlug(ctx, slug); err == nil {
		return nil, models.NewValidationError("Slug is already taken")
	}

	group := &models.Group{
		Title:       title,
		Slug:        slug,
		Description: description,
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroups returns all groups ordered by title.
func (s *GroupService) ListGroups(ctx context.Context) ([]models.Group, error) {
	return s.groupRepo.List(ctx)
}

// DeleteGroup removes the group, keeping its posts ungrouped.
func (s *GroupService) DeleteGroup(ctx context.Context, id uint) error {
	return s.groupRepo.Delete(ctx, id)
}
