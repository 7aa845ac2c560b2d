package entities

import (
	"time"

	"github.com/google/uuid"

	pkgerrors "hangout-backend/pkg/errors"
)

// InterestStatus is a user's attendance response to an event.
type InterestStatus string

const (
	InterestGoing      InterestStatus = "GOING"
	InterestInterested InterestStatus = "INTERESTED"
	InterestNotGoing   InterestStatus = "NOT_GOING"
)

// Valid reports whether the status is one of the known responses.
func (s InterestStatus) Valid() bool {
	switch s {
	case InterestGoing, InterestInterested, InterestNotGoing:
		return true
	}
	return false
}

// InterestLevel records one user's current response to one event. It lives
// in the event's partition so that the event and all responses can be read
// in a single range query. UserName and MainImagePath are denormalized from
// the user profile at write time.
type InterestLevel struct {
	EventID       string         `json:"eventId"`
	UserID        string         `json:"userId"`
	Status        InterestStatus `json:"status"`
	Notes         string         `json:"notes,omitempty"`
	UserName      string         `json:"userName,omitempty"`
	MainImagePath string         `json:"mainImagePath,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// NewInterestLevel creates a response for (eventID, userID). Saving an
// InterestLevel for a pair that already has one overwrites the previous
// response.
func NewInterestLevel(eventID, userID string, status InterestStatus) (*InterestLevel, error) {
	if _, err := uuid.Parse(eventID); err != nil {
		return nil, pkgerrors.NewValidationError("eventId must be a valid UUID")
	}
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userId cannot be empty")
	}
	if !status.Valid() {
		return nil, pkgerrors.NewValidationError("status must be GOING, INTERESTED or NOT_GOING")
	}

	now := time.Now()
	return &InterestLevel{
		EventID:   eventID,
		UserID:    userID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
