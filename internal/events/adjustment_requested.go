package events

import "time"

const AdjustmentRequestedTopic = "timesheet.adjustment.requested.v1"

type AdjustmentRequestedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EntryID    string    `json:"entry_id"`
	EmployeeID string    `json:"employee_id"`
	Protocol   string    `json:"protocol"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}
