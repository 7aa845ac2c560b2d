package ports

import (
	"context"
	"time"

	"hangout-backend/domain/entities"
	"hangout-backend/domain/events"
)

// HangoutRepository defines the interface for hangout persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type HangoutRepository interface {
	// Create persists a canonical hangout and one pointer per associated group
	// in a single transaction
	Create(ctx context.Context, hangout *entities.Hangout) error

	// FindByID retrieves the canonical hangout record, nil when absent
	FindByID(ctx context.Context, hangoutID string) (*entities.Hangout, error)

	// FindWithAttendance retrieves the canonical record together with every
	// attendance record from the same partition in one query
	FindWithAttendance(ctx context.Context, hangoutID string) (*entities.Hangout, []*entities.InterestLevel, error)

	// FindPointersByGroupID retrieves the denormalized hangout pointers that
	// make up a group's feed
	FindPointersByGroupID(ctx context.Context, groupID string) ([]*entities.HangoutPointer, error)

	// Update rewrites the canonical record under an optimistic version check
	// and syncs the denormalized fields onto every pointer
	Update(ctx context.Context, hangout *entities.Hangout) error

	// Delete enumerates the hangout partition and the per-group pointers, then
	// removes them in batched writes
	Delete(ctx context.Context, hangoutID string) error

	// SavePointer writes a single group pointer (group association)
	SavePointer(ctx context.Context, pointer *entities.HangoutPointer) error

	// DeletePointer removes a single group pointer (group disassociation)
	DeletePointer(ctx context.Context, groupID, hangoutID string) error

	// SaveInterestLevel upserts an attendance record keyed by (event, user) and
	// refreshes its UpdatedAt
	SaveInterestLevel(ctx context.Context, interest *entities.InterestLevel) (*entities.InterestLevel, error)

	// DeleteInterestLevel removes an attendance record; deleting an absent
	// record is not an error
	DeleteInterestLevel(ctx context.Context, eventID, userID string) error

	// ListInterestLevels retrieves all attendance records for an event
	ListInterestLevels(ctx context.Context, eventID string) ([]*entities.InterestLevel, error)

	// SetReminderSentAtIfNull stamps ReminderSentAt only when it is not already
	// set. Returns true when this caller won the write, false when another
	// writer got there first.
	SetReminderSentAtIfNull(ctx context.Context, eventID string, sentAt time.Time) (bool, error)

	// UpdateReminderScheduleName records the scheduler resource armed for the
	// hangout's reminder
	UpdateReminderScheduleName(ctx context.Context, eventID, scheduleName string) error

	// ClearReminderSentAt removes the reminder stamp so the gate can be won
	// again after re-arming
	ClearReminderSentAt(ctx context.Context, eventID string) error
}

// EventSeriesRepository defines the interface for series persistence
type EventSeriesRepository interface {
	// CreateSeriesWithNewPart atomically creates a series from an existing
	// hangout plus a new one: series create, existing-hangout link (version
	// checked), existing-pointer links, new-hangout create, new-pointer
	// creates, then any extra pre-built items (series pointers)
	CreateSeriesWithNewPart(ctx context.Context, series *entities.EventSeries, existing *entities.Hangout, existingPointers []*entities.HangoutPointer, newHangout *entities.Hangout, newPointers []*entities.HangoutPointer, seriesPointers []*entities.SeriesPointer) error

	// AddPartToExistingSeries atomically appends a hangout to the series
	// member list (version checked) and creates the hangout with its pointers
	AddPartToExistingSeries(ctx context.Context, seriesID string, newHangout *entities.Hangout, newPointers []*entities.HangoutPointer, seriesPointers []*entities.SeriesPointer) error

	// RemovePartFromSeries atomically stores the rebuilt member list (version
	// checked) and unlinks the hangout and its pointers from the series
	RemovePartFromSeries(ctx context.Context, series *entities.EventSeries, hangout *entities.Hangout, pointers []*entities.HangoutPointer) error

	// FindByID retrieves a series by its ID, nil when absent
	FindByID(ctx context.Context, seriesID string) (*entities.EventSeries, error)

	// FindPointersByGroupID retrieves the series pointers for a group
	FindPointersByGroupID(ctx context.Context, groupID string) ([]*entities.SeriesPointer, error)
}

// IdeaListRepository defines the interface for idea list persistence
type IdeaListRepository interface {
	// SaveIdeaList upserts a list metadata record
	SaveIdeaList(ctx context.Context, list *entities.IdeaList) error

	// FindIdeaListByID retrieves list metadata only, nil when absent
	FindIdeaListByID(ctx context.Context, groupID, listID string) (*entities.IdeaList, error)

	// DeleteIdeaList removes the metadata record only
	DeleteIdeaList(ctx context.Context, groupID, listID string) error

	// IdeaListExists reports whether the metadata record is present. Any store
	// failure reads as false, never as an error.
	IdeaListExists(ctx context.Context, groupID, listID string) bool

	// SaveIdeaListMember upserts a member record
	SaveIdeaListMember(ctx context.Context, member *entities.IdeaListMember) error

	// FindIdeaListMemberByID retrieves a single member, nil when absent
	FindIdeaListMemberByID(ctx context.Context, groupID, listID, ideaID string) (*entities.IdeaListMember, error)

	// DeleteIdeaListMember removes a single member record
	DeleteIdeaListMember(ctx context.Context, groupID, listID, ideaID string) error

	// FindAllWithMembersByGroupID reads every list row and member row for the
	// group in one query and returns lists (CreatedAt desc) with their members
	// attached (AddedTime desc)
	FindAllWithMembersByGroupID(ctx context.Context, groupID string) ([]*entities.IdeaList, error)

	// FindWithMembersByID reads one list and its members in one query; member
	// rows without a metadata row read as not found
	FindWithMembersByID(ctx context.Context, groupID, listID string) (*entities.IdeaList, error)

	// FindMembersByListID retrieves a list's members, AddedTime desc
	FindMembersByListID(ctx context.Context, groupID, listID string) ([]*entities.IdeaListMember, error)

	// DeleteWithAllMembers enumerates the list prefix and removes the metadata
	// row and every member in batched deletes
	DeleteWithAllMembers(ctx context.Context, groupID, listID string) error
}

// InviteCodeRepository defines the interface for invite code persistence
type InviteCodeRepository interface {
	// Save upserts an invite code with its code and group index projections
	Save(ctx context.Context, code *entities.InviteCode) error

	// FindByID retrieves a code by its ID, nil when absent
	FindByID(ctx context.Context, inviteCodeID string) (*entities.InviteCode, error)

	// FindByCode resolves the code string through the code index, nil when
	// absent
	FindByCode(ctx context.Context, code string) (*entities.InviteCode, error)

	// FindAllByGroupID retrieves every code issued for a group in creation
	// order
	FindAllByGroupID(ctx context.Context, groupID string) ([]*entities.InviteCode, error)

	// FindActiveCodeForGroup returns the first currently usable code for the
	// group in creation order, nil when none qualifies
	FindActiveCodeForGroup(ctx context.Context, groupID string) (*entities.InviteCode, error)

	// Delete removes a code by its ID
	Delete(ctx context.Context, inviteCodeID string) error

	// CodeExists reports whether a code string is already taken
	CodeExists(ctx context.Context, code string) (bool, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
