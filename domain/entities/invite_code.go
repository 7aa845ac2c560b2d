package entities

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"

	pkgerrors "hangout-backend/pkg/errors"
)

// inviteCodeAlphabet deliberately omits easily-confused characters (0/O, 1/I).
const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const inviteCodeLength = 8

// InviteCode is a redeemable code granting access to a group. A code is
// usable iff Active is true and ExpiresAt is either unset or still in the
// future at read time.
type InviteCode struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	GroupID   string     `json:"groupId"`
	CreatedBy string     `json:"createdBy"`
	Active    bool       `json:"active"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// NewInviteCode issues a fresh code for the group. expiresAt may be nil for
// a non-expiring code.
func NewInviteCode(groupID, createdBy string, expiresAt *time.Time) (*InviteCode, error) {
	if _, err := uuid.Parse(groupID); err != nil {
		return nil, pkgerrors.NewValidationError("groupId must be a valid UUID")
	}
	if createdBy == "" {
		return nil, pkgerrors.NewValidationError("createdBy cannot be empty")
	}

	code, err := generateInviteCode()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to generate invite code").WithCause(err)
	}

	return &InviteCode{
		ID:        uuid.New().String(),
		Code:      code,
		GroupID:   groupID,
		CreatedBy: createdBy,
		Active:    true,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}, nil
}

// IsUsable reports whether the code can be redeemed at the given instant.
func (c *InviteCode) IsUsable(now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.ExpiresAt != nil && !c.ExpiresAt.After(now) {
		return false
	}
	return true
}

func generateInviteCode() (string, error) {
	buf := make([]byte, inviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(buf), nil
}
