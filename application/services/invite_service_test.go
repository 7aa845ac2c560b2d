package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hangout-backend/domain/entities"
	"hangout-backend/domain/events"
	pkgerrors "hangout-backend/pkg/errors"
)

func newTestInviteService(repo *fakeInviteRepo, publisher *fakePublisher) *InviteService {
	return NewInviteService(repo, publisher, zap.NewNop())
}

func storedInviteCode(t *testing.T) *entities.InviteCode {
	t.Helper()
	code, err := entities.NewInviteCode(testGroupA, testUserID, nil)
	require.NoError(t, err)
	return code
}

func TestInviteService_CreateInviteCode_ChecksUniquenessThenSaves(t *testing.T) {
	// Arrange
	var checkedCode string
	var saved *entities.InviteCode
	repo := &fakeInviteRepo{
		codeExistsFn: func(ctx context.Context, code string) (bool, error) {
			checkedCode = code
			return false, nil
		},
		saveFn: func(ctx context.Context, code *entities.InviteCode) error {
			saved = code
			return nil
		},
	}
	publisher := &fakePublisher{}
	service := newTestInviteService(repo, publisher)

	// Act
	code, err := service.CreateInviteCode(context.Background(), CreateInviteCodeInput{
		GroupID:   testGroupA,
		CreatedBy: testUserID,
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Same(t, code, saved)
	assert.Equal(t, code.Code, checkedCode)
	assert.Equal(t, testGroupA, saved.GroupID)
	assert.True(t, saved.Active)

	require.Equal(t, []string{"invite.created"}, publisher.eventTypes())
	event := publisher.published[0].(events.InviteCodeCreated)
	assert.Equal(t, code.ID, event.InviteCodeID)
}

func TestInviteService_CreateInviteCode_Collision(t *testing.T) {
	// Arrange
	saveCalls := 0
	repo := &fakeInviteRepo{
		codeExistsFn: func(ctx context.Context, code string) (bool, error) {
			return true, nil
		},
		saveFn: func(ctx context.Context, code *entities.InviteCode) error {
			saveCalls++
			return nil
		},
	}
	service := newTestInviteService(repo, &fakePublisher{})

	// Act
	_, err := service.CreateInviteCode(context.Background(), CreateInviteCodeInput{
		GroupID:   testGroupA,
		CreatedBy: testUserID,
	})

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrInviteCodeCollision))
	assert.Zero(t, saveCalls)

	var domainErr *pkgerrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.True(t, domainErr.Retryable)
}

func TestInviteService_CreateInviteCode_UniquenessCheckFailure(t *testing.T) {
	// Arrange
	repo := &fakeInviteRepo{
		codeExistsFn: func(ctx context.Context, code string) (bool, error) {
			return false, pkgerrors.NewDatabaseError("code exists", errors.New("throttled"))
		},
	}
	publisher := &fakePublisher{}
	service := newTestInviteService(repo, publisher)

	// Act
	_, err := service.CreateInviteCode(context.Background(), CreateInviteCodeInput{
		GroupID:   testGroupA,
		CreatedBy: testUserID,
	})

	// Assert
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeDatabase))
	assert.Empty(t, publisher.published)
}

func TestInviteService_RedeemCode_ReturnsGroup(t *testing.T) {
	// Arrange
	code := storedInviteCode(t)
	repo := &fakeInviteRepo{
		findByCodeFn: func(ctx context.Context, raw string) (*entities.InviteCode, error) {
			assert.Equal(t, code.Code, raw)
			return code, nil
		},
	}
	publisher := &fakePublisher{}
	service := newTestInviteService(repo, publisher)

	// Act
	groupID, err := service.RedeemCode(context.Background(), code.Code, "user-2")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, testGroupA, groupID)

	require.Equal(t, []string{"invite.redeemed"}, publisher.eventTypes())
	event := publisher.published[0].(events.InviteCodeRedeemed)
	assert.Equal(t, "user-2", event.UserID)
	assert.Equal(t, testGroupA, event.GroupID)
}

func TestInviteService_RedeemCode_UnknownCode(t *testing.T) {
	// Arrange
	service := newTestInviteService(&fakeInviteRepo{}, &fakePublisher{})

	// Act
	_, err := service.RedeemCode(context.Background(), "ZZZZZZZZ", "user-2")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrInviteCodeNotFound))
}

func TestInviteService_RedeemCode_UnusableCode(t *testing.T) {
	expired := storedInviteCode(t)
	past := time.Now().Add(-time.Hour)
	expired.ExpiresAt = &past

	inactive := storedInviteCode(t)
	inactive.Active = false

	tests := []struct {
		name string
		code *entities.InviteCode
	}{
		{name: "expired code", code: expired},
		{name: "deactivated code", code: inactive},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			repo := &fakeInviteRepo{
				findByCodeFn: func(ctx context.Context, raw string) (*entities.InviteCode, error) {
					return tc.code, nil
				},
			}
			publisher := &fakePublisher{}
			service := newTestInviteService(repo, publisher)

			// Act
			_, err := service.RedeemCode(context.Background(), tc.code.Code, "user-2")

			// Assert
			require.Error(t, err)
			assert.True(t, errors.Is(err, pkgerrors.ErrInviteCodeNotUsable))
			assert.Empty(t, publisher.published)
		})
	}
}

func TestInviteService_DeactivateCode_Saves(t *testing.T) {
	// Arrange
	code := storedInviteCode(t)
	var saved *entities.InviteCode
	repo := &fakeInviteRepo{
		findByIDFn: func(ctx context.Context, inviteCodeID string) (*entities.InviteCode, error) {
			return code, nil
		},
		saveFn: func(ctx context.Context, c *entities.InviteCode) error {
			saved = c
			return nil
		},
	}
	service := newTestInviteService(repo, &fakePublisher{})

	// Act
	err := service.DeactivateCode(context.Background(), code.ID)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.False(t, saved.Active)
}

func TestInviteService_DeactivateCode_AlreadyInactive(t *testing.T) {
	// Arrange
	code := storedInviteCode(t)
	code.Active = false
	saveCalls := 0
	repo := &fakeInviteRepo{
		findByIDFn: func(ctx context.Context, inviteCodeID string) (*entities.InviteCode, error) {
			return code, nil
		},
		saveFn: func(ctx context.Context, c *entities.InviteCode) error {
			saveCalls++
			return nil
		},
	}
	service := newTestInviteService(repo, &fakePublisher{})

	// Act
	err := service.DeactivateCode(context.Background(), code.ID)

	// Assert
	require.NoError(t, err)
	assert.Zero(t, saveCalls)
}

func TestInviteService_DeactivateCode_Missing(t *testing.T) {
	// Arrange
	service := newTestInviteService(&fakeInviteRepo{}, &fakePublisher{})

	// Act
	err := service.DeactivateCode(context.Background(), "b06f1d1d-9ffe-4f1a-8a8f-111111111111")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrInviteCodeNotFound))
}

func TestInviteService_FindActiveCode_NoneIsNotAnError(t *testing.T) {
	// Arrange
	service := newTestInviteService(&fakeInviteRepo{}, &fakePublisher{})

	// Act
	code, err := service.FindActiveCode(context.Background(), testGroupA)

	// Assert
	require.NoError(t, err)
	assert.Nil(t, code)
}
