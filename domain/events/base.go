package events

import (
	"time"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Hangout Events

// HangoutCreated is raised when a new hangout is created
type HangoutCreated struct {
	BaseEvent
	HangoutID string   `json:"hangout_id"`
	GroupIDs  []string `json:"group_ids"`
	CreatedBy string   `json:"created_by"`
}

// NewHangoutCreated creates a HangoutCreated event
func NewHangoutCreated(hangoutID string, groupIDs []string, createdBy string, timestamp time.Time) HangoutCreated {
	return HangoutCreated{
		BaseEvent: BaseEvent{
			AggregateID: hangoutID,
			EventType:   TypeHangoutCreated,
			Timestamp:   timestamp,
			Version:     1,
		},
		HangoutID: hangoutID,
		GroupIDs:  groupIDs,
		CreatedBy: createdBy,
	}
}

// HangoutUpdated is raised when hangout details change
type HangoutUpdated struct {
	BaseEvent
	HangoutID string   `json:"hangout_id"`
	GroupIDs  []string `json:"group_ids"`
}

// NewHangoutUpdated creates a HangoutUpdated event
func NewHangoutUpdated(hangoutID string, groupIDs []string, timestamp time.Time) HangoutUpdated {
	return HangoutUpdated{
		BaseEvent: BaseEvent{
			AggregateID: hangoutID,
			EventType:   TypeHangoutUpdated,
			Timestamp:   timestamp,
			Version:     1,
		},
		HangoutID: hangoutID,
		GroupIDs:  groupIDs,
	}
}

// HangoutDeleted is raised when a hangout and its pointers are removed
type HangoutDeleted struct {
	BaseEvent
	HangoutID string   `json:"hangout_id"`
	GroupIDs  []string `json:"group_ids"`
}

// NewHangoutDeleted creates a HangoutDeleted event
func NewHangoutDeleted(hangoutID string, groupIDs []string, timestamp time.Time) HangoutDeleted {
	return HangoutDeleted{
		BaseEvent: BaseEvent{
			AggregateID: hangoutID,
			EventType:   TypeHangoutDeleted,
			Timestamp:   timestamp,
			Version:     1,
		},
		HangoutID: hangoutID,
		GroupIDs:  groupIDs,
	}
}

// HangoutReminderDue is raised when a hangout's reminder window opens.
// Consumed by the reminder dispatcher, which claims the send via a
// conditional write before notifying.
type HangoutReminderDue struct {
	BaseEvent
	HangoutID string `json:"hangout_id"`
	Title     string `json:"title"`
}

// NewHangoutReminderDue creates a HangoutReminderDue event
func NewHangoutReminderDue(hangoutID, title string, timestamp time.Time) HangoutReminderDue {
	return HangoutReminderDue{
		BaseEvent: BaseEvent{
			AggregateID: hangoutID,
			EventType:   TypeHangoutReminderDue,
			Timestamp:   timestamp,
			Version:     1,
		},
		HangoutID: hangoutID,
		Title:     title,
	}
}

// Interest Events

// InterestLevelChanged is raised when a user sets or changes attendance
type InterestLevelChanged struct {
	BaseEvent
	HangoutID string `json:"hangout_id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
}

// NewInterestLevelChanged creates an InterestLevelChanged event
func NewInterestLevelChanged(hangoutID, userID, status string, timestamp time.Time) InterestLevelChanged {
	return InterestLevelChanged{
		BaseEvent: BaseEvent{
			AggregateID: hangoutID,
			EventType:   TypeInterestLevelChanged,
			Timestamp:   timestamp,
			Version:     1,
		},
		HangoutID: hangoutID,
		UserID:    userID,
		Status:    status,
	}
}

// Series Events

// SeriesCreated is raised when an event series is formed
type SeriesCreated struct {
	BaseEvent
	SeriesID   string   `json:"series_id"`
	GroupID    string   `json:"group_id"`
	HangoutIDs []string `json:"hangout_ids"`
}

// NewSeriesCreated creates a SeriesCreated event
func NewSeriesCreated(seriesID, groupID string, hangoutIDs []string, timestamp time.Time) SeriesCreated {
	return SeriesCreated{
		BaseEvent: BaseEvent{
			AggregateID: seriesID,
			EventType:   TypeSeriesCreated,
			Timestamp:   timestamp,
			Version:     1,
		},
		SeriesID:   seriesID,
		GroupID:    groupID,
		HangoutIDs: hangoutIDs,
	}
}

// SeriesPartAdded is raised when a new hangout joins an existing series
type SeriesPartAdded struct {
	BaseEvent
	SeriesID  string `json:"series_id"`
	HangoutID string `json:"hangout_id"`
}

// NewSeriesPartAdded creates a SeriesPartAdded event
func NewSeriesPartAdded(seriesID, hangoutID string, timestamp time.Time) SeriesPartAdded {
	return SeriesPartAdded{
		BaseEvent: BaseEvent{
			AggregateID: seriesID,
			EventType:   TypeSeriesPartAdded,
			Timestamp:   timestamp,
			Version:     1,
		},
		SeriesID:  seriesID,
		HangoutID: hangoutID,
	}
}

// SeriesPartRemoved is raised when a hangout is detached from its series
type SeriesPartRemoved struct {
	BaseEvent
	SeriesID  string `json:"series_id"`
	HangoutID string `json:"hangout_id"`
}

// NewSeriesPartRemoved creates a SeriesPartRemoved event
func NewSeriesPartRemoved(seriesID, hangoutID string, timestamp time.Time) SeriesPartRemoved {
	return SeriesPartRemoved{
		BaseEvent: BaseEvent{
			AggregateID: seriesID,
			EventType:   TypeSeriesPartRemoved,
			Timestamp:   timestamp,
			Version:     1,
		},
		SeriesID:  seriesID,
		HangoutID: hangoutID,
	}
}

// Invite Events

// InviteCodeCreated is raised when a group issues a new invite code
type InviteCodeCreated struct {
	BaseEvent
	InviteCodeID string `json:"invite_code_id"`
	GroupID      string `json:"group_id"`
}

// NewInviteCodeCreated creates an InviteCodeCreated event
func NewInviteCodeCreated(inviteCodeID, groupID string, timestamp time.Time) InviteCodeCreated {
	return InviteCodeCreated{
		BaseEvent: BaseEvent{
			AggregateID: inviteCodeID,
			EventType:   TypeInviteCodeCreated,
			Timestamp:   timestamp,
			Version:     1,
		},
		InviteCodeID: inviteCodeID,
		GroupID:      groupID,
	}
}

// InviteCodeRedeemed is raised when a user joins a group through a code
type InviteCodeRedeemed struct {
	BaseEvent
	InviteCodeID string `json:"invite_code_id"`
	GroupID      string `json:"group_id"`
	UserID       string `json:"user_id"`
}

// NewInviteCodeRedeemed creates an InviteCodeRedeemed event
func NewInviteCodeRedeemed(inviteCodeID, groupID, userID string, timestamp time.Time) InviteCodeRedeemed {
	return InviteCodeRedeemed{
		BaseEvent: BaseEvent{
			AggregateID: inviteCodeID,
			EventType:   TypeInviteCodeRedeemed,
			Timestamp:   timestamp,
			Version:     1,
		},
		InviteCodeID: inviteCodeID,
		GroupID:      groupID,
		UserID:       userID,
	}
}
