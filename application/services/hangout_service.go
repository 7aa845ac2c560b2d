package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"hangout-backend/application/ports"
	"hangout-backend/domain/config"
	"hangout-backend/domain/entities"
	"hangout-backend/domain/events"
	pkgerrors "hangout-backend/pkg/errors"
)

// HangoutService coordinates the hangout lifecycle: canonical writes, group
// visibility, interest levels, and the reminder stamp used by the dispatcher.
type HangoutService struct {
	hangoutRepo ports.HangoutRepository
	publisher   ports.EventPublisher
	logger      *zap.Logger
}

// NewHangoutService creates a new hangout service
func NewHangoutService(
	hangoutRepo ports.HangoutRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *HangoutService {
	return &HangoutService{
		hangoutRepo: hangoutRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// CreateHangoutInput carries the caller-supplied fields for a new hangout.
type CreateHangoutInput struct {
	Title       string
	Description string
	Location    string
	StartTime   *time.Time
	EndTime     *time.Time
	GroupIDs    []string
	CreatedBy   string
}

// CreateHangout writes a new hangout and its per-group feed pointers in one
// transaction, then announces the creation.
func (s *HangoutService) CreateHangout(ctx context.Context, input CreateHangoutInput) (*entities.Hangout, error) {
	hangout, err := entities.NewHangout(input.CreatedBy, input.Title, input.GroupIDs)
	if err != nil {
		return nil, err
	}
	hangout.Description = input.Description
	hangout.Location = input.Location
	hangout.StartTime = input.StartTime
	hangout.EndTime = input.EndTime

	s.logger.Debug("Creating hangout",
		zap.String("hangoutID", hangout.ID),
		zap.Strings("groupIDs", hangout.GroupIDs),
	)

	if err := s.hangoutRepo.Create(ctx, hangout); err != nil {
		return nil, fmt.Errorf("failed to create hangout: %w", err)
	}

	publishEvent(ctx, s.publisher, s.logger,
		events.NewHangoutCreated(hangout.ID, hangout.GroupIDs, hangout.CreatedBy, hangout.CreatedAt))

	s.logger.Info("Hangout created",
		zap.String("hangoutID", hangout.ID),
		zap.Int("groups", len(hangout.GroupIDs)),
	)
	return hangout, nil
}

// GetHangout loads a hangout together with every recorded interest level.
func (s *HangoutService) GetHangout(ctx context.Context, hangoutID string) (*entities.Hangout, []*entities.InterestLevel, error) {
	hangout, attendance, err := s.hangoutRepo.FindWithAttendance(ctx, hangoutID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load hangout: %w", err)
	}
	if hangout == nil {
		return nil, nil, pkgerrors.ErrHangoutNotFound
	}
	return hangout, attendance, nil
}

// UpdateHangoutInput names the fields a hangout update may change. Nil
// pointers leave the stored value untouched.
type UpdateHangoutInput struct {
	HangoutID   string
	Title       *string
	Description *string
	Location    *string
	StartTime   *time.Time
	EndTime     *time.Time
}

// UpdateHangout applies the changed fields and rewrites the canonical record
// plus all group pointers under an optimistic version check. A concurrent
// writer surfaces as a conflict the caller may retry.
func (s *HangoutService) UpdateHangout(ctx context.Context, input UpdateHangoutInput) (*entities.Hangout, error) {
	hangout, err := s.hangoutRepo.FindByID(ctx, input.HangoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to load hangout: %w", err)
	}
	if hangout == nil {
		return nil, pkgerrors.ErrHangoutNotFound
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.NewValidationError("title cannot be empty")
		}
		hangout.Title = *input.Title
	}
	if input.Description != nil {
		hangout.Description = *input.Description
	}
	if input.Location != nil {
		hangout.Location = *input.Location
	}
	if input.StartTime != nil {
		hangout.StartTime = input.StartTime
	}
	if input.EndTime != nil {
		hangout.EndTime = input.EndTime
	}

	if err := s.hangoutRepo.Update(ctx, hangout); err != nil {
		return nil, fmt.Errorf("failed to update hangout: %w", err)
	}

	publishEvent(ctx, s.publisher, s.logger,
		events.NewHangoutUpdated(hangout.ID, hangout.GroupIDs, hangout.UpdatedAt))

	s.logger.Info("Hangout updated",
		zap.String("hangoutID", hangout.ID),
		zap.Int("version", hangout.Version),
	)
	return hangout, nil
}

// DeleteHangout removes the hangout partition and every group pointer.
func (s *HangoutService) DeleteHangout(ctx context.Context, hangoutID string) error {
	hangout, err := s.hangoutRepo.FindByID(ctx, hangoutID)
	if err != nil {
		return fmt.Errorf("failed to load hangout: %w", err)
	}
	if hangout == nil {
		return pkgerrors.ErrHangoutNotFound
	}

	if err := s.hangoutRepo.Delete(ctx, hangoutID); err != nil {
		return fmt.Errorf("failed to delete hangout: %w", err)
	}

	publishEvent(ctx, s.publisher, s.logger,
		events.NewHangoutDeleted(hangout.ID, hangout.GroupIDs, time.Now()))

	s.logger.Info("Hangout deleted", zap.String("hangoutID", hangoutID))
	return nil
}

// AssociateGroup shares an existing hangout with one more group. The version
// checked update rewrites the canonical record and creates the new group's
// feed pointer alongside the existing ones.
func (s *HangoutService) AssociateGroup(ctx context.Context, hangoutID, groupID string) (*entities.Hangout, error) {
	hangout, err := s.hangoutRepo.FindByID(ctx, hangoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to load hangout: %w", err)
	}
	if hangout == nil {
		return nil, pkgerrors.ErrHangoutNotFound
	}
	for _, id := range hangout.GroupIDs {
		if id == groupID {
			return nil, pkgerrors.ErrGroupAlreadyAssociated
		}
	}
	if len(hangout.GroupIDs) >= config.MaxGroupsPerHangout {
		return nil, pkgerrors.NewValidationError("hangout cannot belong to more than 25 groups")
	}

	hangout.GroupIDs = append(hangout.GroupIDs, groupID)
	if err := s.hangoutRepo.Update(ctx, hangout); err != nil {
		return nil, fmt.Errorf("failed to associate group: %w", err)
	}

	publishEvent(ctx, s.publisher, s.logger,
		events.NewHangoutUpdated(hangout.ID, hangout.GroupIDs, hangout.UpdatedAt))

	s.logger.Info("Group associated with hangout",
		zap.String("hangoutID", hangoutID),
		zap.String("groupID", groupID),
	)
	return hangout, nil
}

// DisassociateGroup withdraws a hangout from one of its groups. The feed
// pointer goes first: if the canonical update then loses its version race,
// the association survives and the next successful update restores the
// pointer from the canonical group list.
func (s *HangoutService) DisassociateGroup(ctx context.Context, hangoutID, groupID string) (*entities.Hangout, error) {
	hangout, err := s.hangoutRepo.FindByID(ctx, hangoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to load hangout: %w", err)
	}
	if hangout == nil {
		return nil, pkgerrors.ErrHangoutNotFound
	}

	idx := -1
	for i, id := range hangout.GroupIDs {
		if id == groupID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, pkgerrors.ErrGroupNotAssociated
	}
	if len(hangout.GroupIDs) == 1 {
		return nil, pkgerrors.ErrLastGroupAssociation
	}

	if err := s.hangoutRepo.DeletePointer(ctx, groupID, hangoutID); err != nil {
		return nil, fmt.Errorf("failed to remove group pointer: %w", err)
	}

	hangout.GroupIDs = append(hangout.GroupIDs[:idx], hangout.GroupIDs[idx+1:]...)
	if err := s.hangoutRepo.Update(ctx, hangout); err != nil {
		return nil, fmt.Errorf("failed to disassociate group: %w", err)
	}

	publishEvent(ctx, s.publisher, s.logger,
		events.NewHangoutUpdated(hangout.ID, hangout.GroupIDs, hangout.UpdatedAt))

	s.logger.Info("Group disassociated from hangout",
		zap.String("hangoutID", hangoutID),
		zap.String("groupID", groupID),
	)
	return hangout, nil
}

// ListGroupFeed returns the group's hangout pointers, most recently created
// first.
func (s *HangoutService) ListGroupFeed(ctx context.Context, groupID string) ([]*entities.HangoutPointer, error) {
	pointers, err := s.hangoutRepo.FindPointersByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group feed: %w", err)
	}
	return pointers, nil
}

// SetInterestLevelInput carries one user's response to a hangout.
type SetInterestLevelInput struct {
	HangoutID     string
	UserID        string
	Status        entities.InterestStatus
	Notes         string
	UserName      string
	MainImagePath string
}

// SetInterestLevel records or replaces the user's response to a hangout.
func (s *HangoutService) SetInterestLevel(ctx context.Context, input SetInterestLevelInput) (*entities.InterestLevel, error) {
	hangout, err := s.hangoutRepo.FindByID(ctx, input.HangoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to load hangout: %w", err)
	}
	if hangout == nil {
		return nil, pkgerrors.ErrHangoutNotFound
	}

	level, err := entities.NewInterestLevel(input.HangoutID, input.UserID, input.Status)
	if err != nil {
		return nil, err
	}
	level.Notes = input.Notes
	level.UserName = input.UserName
	level.MainImagePath = input.MainImagePath

	saved, err := s.hangoutRepo.SaveInterestLevel(ctx, level)
	if err != nil {
		return nil, fmt.Errorf("failed to save interest level: %w", err)
	}

	publishEvent(ctx, s.publisher, s.logger,
		events.NewInterestLevelChanged(input.HangoutID, input.UserID, string(input.Status), saved.UpdatedAt))

	return saved, nil
}

// RemoveInterestLevel clears the user's response. Removing a response that
// was never recorded is a no-op.
func (s *HangoutService) RemoveInterestLevel(ctx context.Context, hangoutID, userID string) error {
	if err := s.hangoutRepo.DeleteInterestLevel(ctx, hangoutID, userID); err != nil {
		return fmt.Errorf("failed to remove interest level: %w", err)
	}
	return nil
}

// ListInterestLevels returns every recorded response for a hangout.
func (s *HangoutService) ListInterestLevels(ctx context.Context, hangoutID string) ([]*entities.InterestLevel, error) {
	levels, err := s.hangoutRepo.ListInterestLevels(ctx, hangoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interest levels: %w", err)
	}
	return levels, nil
}

// MarkReminderSent claims the reminder send for a hangout. Exactly one
// caller wins the claim; later and concurrent callers get false with no
// error and must not notify.
func (s *HangoutService) MarkReminderSent(ctx context.Context, hangoutID string) (bool, error) {
	hangout, err := s.hangoutRepo.FindByID(ctx, hangoutID)
	if err != nil {
		return false, fmt.Errorf("failed to load hangout: %w", err)
	}
	if hangout == nil {
		return false, pkgerrors.ErrHangoutNotFound
	}

	now := time.Now()
	won, err := s.hangoutRepo.SetReminderSentAtIfNull(ctx, hangoutID, now)
	if err != nil {
		return false, fmt.Errorf("failed to claim reminder send: %w", err)
	}
	if !won {
		s.logger.Debug("Reminder already sent", zap.String("hangoutID", hangoutID))
		return false, nil
	}

	publishEvent(ctx, s.publisher, s.logger,
		events.NewHangoutReminderDue(hangout.ID, hangout.Title, now))

	s.logger.Info("Reminder dispatched", zap.String("hangoutID", hangoutID))
	return true, nil
}

// ScheduleReminder records which scheduler resource is armed for the
// hangout.
func (s *HangoutService) ScheduleReminder(ctx context.Context, hangoutID, scheduleName string) error {
	if err := s.hangoutRepo.UpdateReminderScheduleName(ctx, hangoutID, scheduleName); err != nil {
		return fmt.Errorf("failed to record reminder schedule: %w", err)
	}
	return nil
}

// RearmReminder points the hangout at a new scheduler resource and clears
// the sent stamp so the next due run can win the claim again.
func (s *HangoutService) RearmReminder(ctx context.Context, hangoutID, scheduleName string) error {
	if err := s.hangoutRepo.UpdateReminderScheduleName(ctx, hangoutID, scheduleName); err != nil {
		return fmt.Errorf("failed to record reminder schedule: %w", err)
	}
	if err := s.hangoutRepo.ClearReminderSentAt(ctx, hangoutID); err != nil {
		return fmt.Errorf("failed to clear reminder stamp: %w", err)
	}
	return nil
}
