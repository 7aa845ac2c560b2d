package dynamodb

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	pkgerrors "hangout-backend/pkg/errors"
)

// Single-table key layout. Every entity lives in one table addressed by
// (PK, SK). GSI1 (CodeIndex) resolves invite codes by code string; GSI2
// (GroupIndex) lists a group's children in creation order.
//
//	Hangout         EVENT#<hangoutId>        / METADATA
//	HangoutPointer  GROUP#<groupId>          / HANGOUT#<hangoutId>
//	InterestLevel   EVENT#<eventId>          / ATTENDANCE#<userId>
//	EventSeries     SERIES#<seriesId>        / METADATA
//	SeriesPointer   GROUP#<groupId>          / SERIES#<seriesId>
//	IdeaList        GROUP#<groupId>          / IDEALIST#<listId>#METADATA
//	IdeaListMember  GROUP#<groupId>          / IDEALIST#<listId>#MEMBER#<ideaId>
//	InviteCode      INVITECODE#<id>          / METADATA

const (
	codeIndexName  = "CodeIndex"
	groupIndexName = "GroupIndex"

	skMetadata = "METADATA"

	skPrefixHangout    = "HANGOUT#"
	skPrefixAttendance = "ATTENDANCE#"
	skPrefixSeries     = "SERIES#"
	skPrefixIdeaList   = "IDEALIST#"

	entityTypeHangout        = "HANGOUT"
	entityTypeHangoutPointer = "HANGOUT_POINTER"
	entityTypeInterestLevel  = "INTEREST_LEVEL"
	entityTypeEventSeries    = "EVENT_SERIES"
	entityTypeSeriesPointer  = "SERIES_POINTER"
	entityTypeIdeaList       = "IDEA_LIST"
	entityTypeIdeaListMember = "IDEA_LIST_MEMBER"
	entityTypeInviteCode     = "INVITE_CODE"
)

func eventPK(hangoutID string) string { return fmt.Sprintf("EVENT#%s", hangoutID) }

func groupPK(groupID string) string { return fmt.Sprintf("GROUP#%s", groupID) }

func seriesPK(seriesID string) string { return fmt.Sprintf("SERIES#%s", seriesID) }

func inviteCodePK(inviteCodeID string) string { return fmt.Sprintf("INVITECODE#%s", inviteCodeID) }

func hangoutSK(hangoutID string) string { return fmt.Sprintf("HANGOUT#%s", hangoutID) }

func attendanceSK(userID string) string { return fmt.Sprintf("ATTENDANCE#%s", userID) }

func seriesSK(seriesID string) string { return fmt.Sprintf("SERIES#%s", seriesID) }

func ideaListMetadataSK(listID string) string {
	return fmt.Sprintf("IDEALIST#%s#METADATA", listID)
}

func ideaListMemberSK(listID, ideaID string) string {
	return fmt.Sprintf("IDEALIST#%s#MEMBER#%s", listID, ideaID)
}

// ideaListSKPrefix covers one list's metadata row and every member row.
func ideaListSKPrefix(listID string) string { return fmt.Sprintf("IDEALIST#%s#", listID) }

// ideaListMemberSKPrefix covers one list's member rows only.
func ideaListMemberSKPrefix(listID string) string {
	return fmt.Sprintf("IDEALIST#%s#MEMBER#", listID)
}

func codeGSI1PK(code string) string { return fmt.Sprintf("CODE#%s", code) }

// createdGSI2SK orders a group's children by creation time on GroupIndex.
func createdGSI2SK(t time.Time) string {
	return fmt.Sprintf("CREATED#%s", t.UTC().Format(time.RFC3339))
}

// validateID rejects malformed identifiers before any store call is made.
func validateID(field, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return pkgerrors.NewValidationError(fmt.Sprintf("%s must be a valid UUID", field))
	}
	return nil
}

// itemSortKey reads the raw sort key off an unmarshalled query row. Rows are
// demultiplexed by sort-key shape before full unmarshalling.
func itemSortKey(item map[string]types.AttributeValue) string {
	if v, ok := item["SK"].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}
