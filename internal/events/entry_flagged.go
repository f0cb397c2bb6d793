package events

import "time"

const EntryFlaggedTopic = "timesheet.entry.flagged.v1"

// EntryFlaggedEvent is emitted when the compliance evaluator raises the
// attention flag on an entry. The notification consumer turns it into
// an in-app notification and a WhatsApp message.
type EntryFlaggedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EntryID    string    `json:"entry_id"`
	EmployeeID string    `json:"employee_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}
