package entities

import (
	"time"

	"github.com/google/uuid"

	"hangout-backend/domain/config"
	pkgerrors "hangout-backend/pkg/errors"
)

// Hangout is the canonical record for a single event. Exactly one Hangout
// item exists per event; every group the event is shared with sees it
// through a HangoutPointer copy instead.
type Hangout struct {
	ID                   string     `json:"id"`
	GroupIDs             []string   `json:"groupIds"`
	Title                string     `json:"title"`
	Description          string     `json:"description,omitempty"`
	Location             string     `json:"location,omitempty"`
	StartTime            *time.Time `json:"startTime,omitempty"`
	EndTime              *time.Time `json:"endTime,omitempty"`
	CreatedBy            string     `json:"createdBy"`
	SeriesID             string     `json:"seriesId,omitempty"`
	ReminderSentAt       *time.Time `json:"reminderSentAt,omitempty"`
	ReminderScheduleName string     `json:"reminderScheduleName,omitempty"`
	Version              int        `json:"version"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// NewHangout creates a canonical Hangout owned by createdBy and shared with
// the given groups. Version starts at 1 and increases by one on every
// mutating write.
func NewHangout(createdBy, title string, groupIDs []string) (*Hangout, error) {
	if createdBy == "" {
		return nil, pkgerrors.NewValidationError("createdBy cannot be empty")
	}
	if title == "" {
		return nil, pkgerrors.NewValidationError("title cannot be empty")
	}
	if len(title) > config.MaxTitleLength {
		return nil, pkgerrors.NewValidationError("title is too long")
	}
	if len(groupIDs) == 0 {
		return nil, pkgerrors.NewValidationError("hangout must belong to at least one group")
	}
	if len(groupIDs) > config.MaxGroupsPerHangout {
		return nil, pkgerrors.NewValidationError("hangout cannot belong to more than 25 groups")
	}
	for _, groupID := range groupIDs {
		if _, err := uuid.Parse(groupID); err != nil {
			return nil, pkgerrors.NewValidationError("groupId must be a valid UUID: " + groupID)
		}
	}

	now := time.Now()
	return &Hangout{
		ID:        uuid.New().String(),
		GroupIDs:  groupIDs,
		Title:     title,
		CreatedBy: createdBy,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsPartOfSeries reports whether this hangout has been attached to a series.
func (h *Hangout) IsPartOfSeries() bool {
	return h.SeriesID != ""
}

// Pointers derives one HangoutPointer per associated group, carrying the
// denormalized subset group feeds read.
func (h *Hangout) Pointers() []*HangoutPointer {
	pointers := make([]*HangoutPointer, 0, len(h.GroupIDs))
	for _, groupID := range h.GroupIDs {
		pointers = append(pointers, &HangoutPointer{
			HangoutID: h.ID,
			GroupID:   groupID,
			Title:     h.Title,
			Location:  h.Location,
			StartTime: h.StartTime,
			SeriesID:  h.SeriesID,
			CreatedAt: h.CreatedAt,
			UpdatedAt: h.UpdatedAt,
		})
	}
	return pointers
}

// HangoutPointer is the per-group denormalized read copy of a Hangout. It has
// no lifecycle of its own: it is written when its canonical Hangout is
// created or associated with a group, and its SeriesID must always match the
// canonical record after any transaction completes.
type HangoutPointer struct {
	HangoutID string     `json:"hangoutId"`
	GroupID   string     `json:"groupId"`
	Title     string     `json:"title"`
	Location  string     `json:"location,omitempty"`
	StartTime *time.Time `json:"startTime,omitempty"`
	SeriesID  string     `json:"seriesId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
