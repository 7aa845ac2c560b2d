package entities

import (
	"time"

	"github.com/google/uuid"

	pkgerrors "hangout-backend/pkg/errors"
)

// IdeaList is a named curated list within a group (restaurants to try,
// trip ideas, ...). The list and its members share the group partition under
// a common sort-key prefix so one range query returns the whole aggregate.
type IdeaList struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"groupId"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Members is populated only by the aggregation reads; it is never
	// persisted on the list item itself.
	Members []*IdeaListMember `json:"members,omitempty"`
}

// NewIdeaList creates an empty list in the given group.
func NewIdeaList(groupID, name, category, createdBy string) (*IdeaList, error) {
	if _, err := uuid.Parse(groupID); err != nil {
		return nil, pkgerrors.NewValidationError("groupId must be a valid UUID")
	}
	if name == "" {
		return nil, pkgerrors.NewValidationError("list name cannot be empty")
	}

	now := time.Now()
	return &IdeaList{
		ID:        uuid.New().String(),
		GroupID:   groupID,
		Name:      name,
		Category:  category,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IdeaListMember is a single idea within an IdeaList. Members have no
// lifecycle beyond their parent: deleting the list deletes every member in
// the same batch.
type IdeaListMember struct {
	ID        string    `json:"id"`
	ListID    string    `json:"listId"`
	GroupID   string    `json:"groupId"`
	Name      string    `json:"name"`
	URL       string    `json:"url,omitempty"`
	Note      string    `json:"note,omitempty"`
	AddedBy   string    `json:"addedBy"`
	AddedTime time.Time `json:"addedTime"`
}

// NewIdeaListMember creates an idea inside the given list.
func NewIdeaListMember(groupID, listID, name, addedBy string) (*IdeaListMember, error) {
	if _, err := uuid.Parse(groupID); err != nil {
		return nil, pkgerrors.NewValidationError("groupId must be a valid UUID")
	}
	if _, err := uuid.Parse(listID); err != nil {
		return nil, pkgerrors.NewValidationError("listId must be a valid UUID")
	}
	if name == "" {
		return nil, pkgerrors.NewValidationError("idea name cannot be empty")
	}

	return &IdeaListMember{
		ID:        uuid.New().String(),
		ListID:    listID,
		GroupID:   groupID,
		Name:      name,
		AddedBy:   addedBy,
		AddedTime: time.Now(),
	}, nil
}
