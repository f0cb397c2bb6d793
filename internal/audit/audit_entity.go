package audit

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionLogin             = "LOGIN"
	ActionLogout            = "LOGOUT"
	ActionLoginFailed       = "LOGIN_FAILED"
	ActionCreate            = "CREATE"
	ActionEdit              = "EDIT"
	ActionDelete            = "DELETE"
	ActionApprove           = "APPROVE"
	ActionReject            = "REJECT"
	ActionAdjustmentRequest = "ADJUSTMENT_REQUEST"
	ActionAdjustmentApprove = "ADJUSTMENT_APPROVE"
	ActionExport            = "EXPORT"
)

// Log is one appended trail row. ActorID is nil for actions taken by
// background jobs.
type Log struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ActorID   *uuid.UUID `gorm:"type:uuid;index"`
	Action    string     `gorm:"type:varchar(30);not null;index"`
	Model     string     `gorm:"type:varchar(50);not null"`
	ObjectID  string     `gorm:"type:varchar(50)"`
	Details   string     `gorm:"type:text"`
	IPAddress string     `gorm:"type:varchar(45)"`
	CreatedAt time.Time  `gorm:"index"`
}

func (Log) TableName() string { return "audit_logs" }
