package events

import "time"

const EntryReviewedTopic = "timesheet.entry.reviewed.v1"

// EntryReviewedEvent is emitted when a manager approves or rejects an
// entry, or the auto-approval job approves it.
type EntryReviewedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EntryID    string    `json:"entry_id"`
	EmployeeID string    `json:"employee_id"`
	Approved   bool      `json:"approved"`
	Comment    string    `json:"comment,omitempty"`
	ReviewedBy string    `json:"reviewed_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
