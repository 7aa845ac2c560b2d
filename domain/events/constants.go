package events

// Event sources - These define where events originate from
const (
	// SourceBackend is the primary backend service source
	SourceBackend = "hangout.backend"

	// SourceReminderDispatcher is the reminder-dispatcher Lambda source
	SourceReminderDispatcher = "hangout.reminderDispatcher"
)

// Event types - These define the types of events in the system
const (
	// Hangout events
	TypeHangoutCreated     = "hangout.created"
	TypeHangoutUpdated     = "hangout.updated"
	TypeHangoutDeleted     = "hangout.deleted"
	TypeHangoutReminderDue = "hangout.reminder_due"

	// Interest events
	TypeInterestLevelChanged = "hangout.interest_changed"

	// Series events
	TypeSeriesCreated     = "series.created"
	TypeSeriesPartAdded   = "series.part_added"
	TypeSeriesPartRemoved = "series.part_removed"

	// Invite events
	TypeInviteCodeCreated  = "invite.created"
	TypeInviteCodeRedeemed = "invite.redeemed"
)
