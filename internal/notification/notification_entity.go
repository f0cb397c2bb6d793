package notification

import (
	"time"

	"github.com/google/uuid"
)

const (
	KindAbsent             = "ABSENT"
	KindIncompleteHours    = "INCOMPLETE_HOURS"
	KindEntryFlagged       = "ENTRY_FLAGGED"
	KindEntryReviewed      = "ENTRY_REVIEWED"
	KindAdjustmentReceived = "ADJUSTMENT_RECEIVED"
)

type Notification struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind       string    `gorm:"type:varchar(40);not null"`
	Title      string    `gorm:"type:varchar(255);not null"`
	Message    string    `gorm:"type:text;not null"`
	Read       bool      `gorm:"default:false;index"`
	// ReplyComment holds the employee's answer, e.g. a justification
	// for missing hours.
	ReplyComment string `gorm:"type:text"`
	RepliedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
