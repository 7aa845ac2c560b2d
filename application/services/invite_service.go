package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hangout-backend/application/ports"
	"hangout-backend/domain/entities"
	"hangout-backend/domain/events"
	pkgerrors "hangout-backend/pkg/errors"
)

// InviteService issues and redeems the short human-typable codes that let
// users join a group.
type InviteService struct {
	inviteRepo ports.InviteCodeRepository
	publisher  ports.EventPublisher
	logger     *zap.Logger
}

// NewInviteService creates a new invite service
func NewInviteService(
	inviteRepo ports.InviteCodeRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *InviteService {
	return &InviteService{
		inviteRepo: inviteRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// CreateInviteCodeInput carries the fields for a new invite code. A nil
// ExpiresAt creates a code that stays usable until deactivated.
type CreateInviteCodeInput struct {
	GroupID   string
	CreatedBy string
	ExpiresAt *time.Time
}

// CreateInviteCode generates a fresh code for the group. The generated code
// is checked against the code index exactly once; the caller retries on the
// (vanishingly rare) collision.
func (s *InviteService) CreateInviteCode(ctx context.Context, input CreateInviteCodeInput) (*entities.InviteCode, error) {
	code, err := entities.NewInviteCode(input.GroupID, input.CreatedBy, input.ExpiresAt)
	if err != nil {
		return nil, err
	}

	taken, err := s.inviteRepo.CodeExists(ctx, code.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to check code uniqueness: %w", err)
	}
	if taken {
		return nil, pkgerrors.ErrInviteCodeCollision
	}

	if err := s.inviteRepo.Save(ctx, code); err != nil {
		return nil, fmt.Errorf("failed to save invite code: %w", err)
	}

	publishEvent(ctx, s.publisher, s.logger,
		events.NewInviteCodeCreated(code.ID, code.GroupID, code.CreatedAt))

	s.logger.Info("Invite code created",
		zap.String("inviteCodeID", code.ID),
		zap.String("groupID", code.GroupID),
	)
	return code, nil
}

// FindActiveCode returns the group's oldest usable code, or nil when the
// group has none.
func (s *InviteService) FindActiveCode(ctx context.Context, groupID string) (*entities.InviteCode, error) {
	code, err := s.inviteRepo.FindActiveCodeForGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to find active code: %w", err)
	}
	return code, nil
}

// ListGroupCodes returns every code the group has issued, oldest first.
func (s *InviteService) ListGroupCodes(ctx context.Context, groupID string) ([]*entities.InviteCode, error) {
	codes, err := s.inviteRepo.FindAllByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invite codes: %w", err)
	}
	return codes, nil
}

// RedeemCode resolves a typed-in code to its group. Redemption does not
// consume the code; it stays usable until it expires or is deactivated.
func (s *InviteService) RedeemCode(ctx context.Context, code, userID string) (string, error) {
	found, err := s.inviteRepo.FindByCode(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to look up invite code: %w", err)
	}
	if found == nil {
		return "", pkgerrors.ErrInviteCodeNotFound
	}
	if !found.IsUsable(time.Now()) {
		return "", pkgerrors.ErrInviteCodeNotUsable
	}

	publishEvent(ctx, s.publisher, s.logger,
		events.NewInviteCodeRedeemed(found.ID, found.GroupID, userID, time.Now()))

	s.logger.Info("Invite code redeemed",
		zap.String("inviteCodeID", found.ID),
		zap.String("groupID", found.GroupID),
		zap.String("userID", userID),
	)
	return found.GroupID, nil
}

// DeactivateCode turns off a code without deleting its history. Deactivating
// an already inactive code is a no-op.
func (s *InviteService) DeactivateCode(ctx context.Context, inviteCodeID string) error {
	code, err := s.inviteRepo.FindByID(ctx, inviteCodeID)
	if err != nil {
		return fmt.Errorf("failed to load invite code: %w", err)
	}
	if code == nil {
		return pkgerrors.ErrInviteCodeNotFound
	}
	if !code.Active {
		return nil
	}

	code.Active = false
	if err := s.inviteRepo.Save(ctx, code); err != nil {
		return fmt.Errorf("failed to save invite code: %w", err)
	}

	s.logger.Info("Invite code deactivated", zap.String("inviteCodeID", inviteCodeID))
	return nil
}

// DeleteCode removes a code entirely. Deleting an absent code is a no-op.
func (s *InviteService) DeleteCode(ctx context.Context, inviteCodeID string) error {
	if err := s.inviteRepo.Delete(ctx, inviteCodeID); err != nil {
		return fmt.Errorf("failed to delete invite code: %w", err)
	}
	return nil
}
