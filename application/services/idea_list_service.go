package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hangout-backend/application/ports"
	"hangout-backend/domain/entities"
	pkgerrors "hangout-backend/pkg/errors"
)

// IdeaListService manages a group's curated idea lists and their members.
type IdeaListService struct {
	ideaListRepo ports.IdeaListRepository
	logger       *zap.Logger
}

// NewIdeaListService creates a new idea list service
func NewIdeaListService(
	ideaListRepo ports.IdeaListRepository,
	logger *zap.Logger,
) *IdeaListService {
	return &IdeaListService{
		ideaListRepo: ideaListRepo,
		logger:       logger,
	}
}

// CreateIdeaListInput carries the caller-supplied fields for a new list.
type CreateIdeaListInput struct {
	GroupID     string
	Name        string
	Category    string
	Description string
	CreatedBy   string
}

// CreateIdeaList creates an empty list inside a group.
func (s *IdeaListService) CreateIdeaList(ctx context.Context, input CreateIdeaListInput) (*entities.IdeaList, error) {
	list, err := entities.NewIdeaList(input.GroupID, input.Name, input.Category, input.CreatedBy)
	if err != nil {
		return nil, err
	}
	list.Description = input.Description

	if err := s.ideaListRepo.SaveIdeaList(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to save idea list: %w", err)
	}

	s.logger.Info("Idea list created",
		zap.String("listID", list.ID),
		zap.String("groupID", list.GroupID),
		zap.String("name", list.Name),
	)
	return list, nil
}

// GetIdeaList loads one list with its members, newest idea first.
func (s *IdeaListService) GetIdeaList(ctx context.Context, groupID, listID string) (*entities.IdeaList, error) {
	list, err := s.ideaListRepo.FindWithMembersByID(ctx, groupID, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to load idea list: %w", err)
	}
	if list == nil {
		return nil, pkgerrors.ErrIdeaListNotFound
	}
	return list, nil
}

// ListIdeaLists returns every list in the group with members attached,
// newest list first. Lists without ideas come back with an empty member
// collection.
func (s *IdeaListService) ListIdeaLists(ctx context.Context, groupID string) ([]*entities.IdeaList, error) {
	lists, err := s.ideaListRepo.FindAllWithMembersByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list idea lists: %w", err)
	}
	return lists, nil
}

// UpdateIdeaListInput names the fields a list update may change. Nil
// pointers leave the stored value untouched.
type UpdateIdeaListInput struct {
	GroupID     string
	ListID      string
	Name        *string
	Category    *string
	Description *string
}

// UpdateIdeaList rewrites the list metadata. Members are untouched.
func (s *IdeaListService) UpdateIdeaList(ctx context.Context, input UpdateIdeaListInput) (*entities.IdeaList, error) {
	list, err := s.ideaListRepo.FindIdeaListByID(ctx, input.GroupID, input.ListID)
	if err != nil {
		return nil, fmt.Errorf("failed to load idea list: %w", err)
	}
	if list == nil {
		return nil, pkgerrors.ErrIdeaListNotFound
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.NewValidationError("list name cannot be empty")
		}
		list.Name = *input.Name
	}
	if input.Category != nil {
		list.Category = *input.Category
	}
	if input.Description != nil {
		list.Description = *input.Description
	}
	list.UpdatedAt = time.Now()

	if err := s.ideaListRepo.SaveIdeaList(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to save idea list: %w", err)
	}

	s.logger.Info("Idea list updated",
		zap.String("listID", list.ID),
		zap.String("groupID", list.GroupID),
	)
	return list, nil
}

// DeleteIdeaList removes the list and all of its members in one batched
// delete. Deleting a list that does not exist is a no-op.
func (s *IdeaListService) DeleteIdeaList(ctx context.Context, groupID, listID string) error {
	if err := s.ideaListRepo.DeleteWithAllMembers(ctx, groupID, listID); err != nil {
		return fmt.Errorf("failed to delete idea list: %w", err)
	}

	s.logger.Info("Idea list deleted",
		zap.String("listID", listID),
		zap.String("groupID", groupID),
	)
	return nil
}

// AddIdeaInput carries one new idea for a list.
type AddIdeaInput struct {
	GroupID string
	ListID  string
	Name    string
	URL     string
	Note    string
	AddedBy string
}

// AddIdea appends an idea to an existing list. The existence check is
// advisory: a store failure during the check reads as an absent list and the
// write is rejected rather than risking an orphaned member.
func (s *IdeaListService) AddIdea(ctx context.Context, input AddIdeaInput) (*entities.IdeaListMember, error) {
	if !s.ideaListRepo.IdeaListExists(ctx, input.GroupID, input.ListID) {
		return nil, pkgerrors.ErrIdeaListNotFound
	}

	member, err := entities.NewIdeaListMember(input.GroupID, input.ListID, input.Name, input.AddedBy)
	if err != nil {
		return nil, err
	}
	member.URL = input.URL
	member.Note = input.Note

	if err := s.ideaListRepo.SaveIdeaListMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to save idea: %w", err)
	}

	s.logger.Info("Idea added to list",
		zap.String("listID", input.ListID),
		zap.String("ideaID", member.ID),
	)
	return member, nil
}

// GetIdea loads a single idea from a list.
func (s *IdeaListService) GetIdea(ctx context.Context, groupID, listID, ideaID string) (*entities.IdeaListMember, error) {
	member, err := s.ideaListRepo.FindIdeaListMemberByID(ctx, groupID, listID, ideaID)
	if err != nil {
		return nil, fmt.Errorf("failed to load idea: %w", err)
	}
	if member == nil {
		return nil, pkgerrors.ErrIdeaNotFound
	}
	return member, nil
}

// RemoveIdea deletes one idea from a list. Removing an idea that does not
// exist is a no-op.
func (s *IdeaListService) RemoveIdea(ctx context.Context, groupID, listID, ideaID string) error {
	if err := s.ideaListRepo.DeleteIdeaListMember(ctx, groupID, listID, ideaID); err != nil {
		return fmt.Errorf("failed to remove idea: %w", err)
	}
	return nil
}

// ListIdeas returns the members of one list, newest first.
func (s *IdeaListService) ListIdeas(ctx context.Context, groupID, listID string) ([]*entities.IdeaListMember, error) {
	members, err := s.ideaListRepo.FindMembersByListID(ctx, groupID, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}
	return members, nil
}
