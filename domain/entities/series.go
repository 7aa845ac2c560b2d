package entities

import (
	"time"

	"github.com/google/uuid"

	"hangout-backend/domain/config"
	pkgerrors "hangout-backend/pkg/errors"
)

// EventSeries is an ordered grouping of Hangouts ("part 1", "part 2", ...).
// HangoutIDs preserves insertion order; Version is compared and incremented
// through a conditional write on every series mutation.
type EventSeries struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"groupId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	HangoutIDs  []string  `json:"hangoutIds"`
	CreatedBy   string    `json:"createdBy"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewEventSeries creates a series seeded with its initial hangout ids, in
// order. The first id is the converted standalone hangout, the second the
// newly created part.
func NewEventSeries(groupID, title, createdBy string, hangoutIDs []string) (*EventSeries, error) {
	if _, err := uuid.Parse(groupID); err != nil {
		return nil, pkgerrors.NewValidationError("groupId must be a valid UUID")
	}
	if title == "" {
		return nil, pkgerrors.NewValidationError("series title cannot be empty")
	}
	if len(title) > config.MaxTitleLength {
		return nil, pkgerrors.NewValidationError("series title is too long")
	}
	if len(hangoutIDs) == 0 {
		return nil, pkgerrors.NewValidationError("series must contain at least one hangout")
	}

	now := time.Now()
	return &EventSeries{
		ID:         uuid.New().String(),
		GroupID:    groupID,
		Title:      title,
		HangoutIDs: hangoutIDs,
		CreatedBy:  createdBy,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Pointer derives the group's denormalized copy of the series.
func (s *EventSeries) Pointer() *SeriesPointer {
	return &SeriesPointer{
		SeriesID:  s.ID,
		GroupID:   s.GroupID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// SeriesPointer is the per-group denormalized copy of an EventSeries,
// analogous to HangoutPointer.
type SeriesPointer struct {
	SeriesID  string    `json:"seriesId"`
	GroupID   string    `json:"groupId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
