package models

// Status is the moderation lifecycle stage of a note. Deletion is a hard
// delete, not a status; flagging is an orthogonal boolean.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusArchived Status = "archived"
)

// ValidStatus reports whether s is a known lifecycle stage.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusApproved, StatusArchived:
		return true
	}
	return false
}

// Event is an owner-initiated moderation action.
type Event string

const (
	EventApprove Event = "approve"
	EventArchive Event = "archive"
	EventDelete  Event = "delete"
)

// ValidEvent reports whether e is a known moderation event.
func ValidEvent(e Event) bool {
	switch e {
	case EventApprove, EventArchive, EventDelete:
		return true
	}
	return false
}

// transitions is the status edge table. EventDelete is handled separately:
// it is allowed from every status and removes the row.
var transitions = map[Status]map[Event]Status{
	StatusPending:  {EventApprove: StatusApproved},
	StatusApproved: {EventArchive: StatusArchived},
	StatusArchived: {},
}

// NextStatus returns the status reached by applying event to from. The
// second return is false when the edge does not exist. EventDelete always
// resolves (the caller removes the row instead of updating it).
func NextStatus(from Status, event Event) (Status, bool) {
	if event == EventDelete {
		return from, ValidStatus(from)
	}
	next, ok := transitions[from][event]
	return next, ok
}
