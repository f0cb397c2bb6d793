package timesheet

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"go-timesheet/internal/clt"
)

// Workflow status values are kept in Portuguese: they are the contract
// with the payroll export consumers.
const (
	StatusInReview            = "EM_ANALISE"
	StatusApproved            = "APROVADO"
	StatusRejected            = "REJEITADO"
	StatusAdjustmentRequested = "SOLICITACAO_AJUSTE"

	AdjustmentPending  = "PENDENTE"
	AdjustmentApproved = "APROVADO"

	LocationOnSite  = "INT"
	LocationOffSite = "EXT"
)

// Entry is one recorded work interval. Start and End are seconds since
// midnight; End numerically below Start means the shift crosses
// midnight. End stays nil while the employee is checked in.
type Entry struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// The partial unique index backs the single-open-entry rule against
	// concurrent check-ins.
	EmployeeID uuid.UUID      `gorm:"type:uuid;not null;index:idx_entry_employee_date;uniqueIndex:uq_entry_open,where:end_seconds IS NULL"`
	Date       time.Time      `gorm:"type:date;not null;index:idx_entry_employee_date;index:idx_entry_date"`
	Start      clt.TimeOfDay  `gorm:"column:start_seconds;not null"`
	End        *clt.TimeOfDay `gorm:"column:end_seconds"`

	Location     string     `gorm:"type:varchar(3);not null;default:'INT'"`
	ProjectID    *uuid.UUID `gorm:"type:uuid"`
	ClientCodeID *uuid.UUID `gorm:"type:uuid"`
	CostCenterID *uuid.UUID `gorm:"type:uuid"`

	VehicleID    *uuid.UUID `gorm:"type:uuid"`
	VehicleModel string     `gorm:"type:varchar(100)"`
	VehiclePlate string     `gorm:"type:varchar(20)"`

	HelperID *uuid.UUID `gorm:"type:uuid"`
	Notes    string     `gorm:"type:text"`

	OnCall        bool
	OnCallDate    *time.Time `gorm:"type:date"`
	SleepAway     bool
	SleepAwayDate *time.Time `gorm:"type:date"`

	Latitude  *float64
	Longitude *float64

	// GroupingID ties together the slices of one pro-rata submission.
	GroupingID *uuid.UUID `gorm:"type:uuid;index"`

	Status             string  `gorm:"type:varchar(20);not null;default:'EM_ANALISE';index"`
	AdjustmentStatus   *string `gorm:"type:varchar(20)"`
	AdjustmentReason   string  `gorm:"type:text"`
	AdjustmentProtocol string  `gorm:"type:varchar(20)"`
	ReviewComment      string  `gorm:"type:text"`
	EditCount          int     `gorm:"default:0"`

	// Attention and AlertReason are written only by the compliance
	// evaluator.
	Attention   bool   `gorm:"default:false"`
	AlertReason string `gorm:"type:text"`

	RegisteredBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Entry) TableName() string { return "timesheet_entries" }

// Open reports whether the entry is still checked in.
func (e *Entry) Open() bool { return e.End == nil }

// Interval converts the row into the rules engine's shape.
func (e *Entry) Interval() clt.Interval {
	return clt.Interval{
		ID:    e.ID,
		Date:  e.Date,
		Start: e.Start,
		End:   e.End,
		Label: fmt.Sprintf("%s %s", e.Date.Format("2006-01-02"), e.Start.Clock()),
	}
}

// DurationSeconds is the overnight-aware worked time, zero while open.
func (e *Entry) DurationSeconds() int {
	iv := e.Interval()
	return iv.Seconds()
}

// EntryHistory keeps the pre-edit snapshot of an entry so a reviewer
// can compare versions.
type EntryHistory struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EntryID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Snapshot   []byte    `gorm:"type:jsonb;not null"`
	EditedBy   uuid.UUID `gorm:"type:uuid;not null"`
	EditNumber int       `gorm:"not null"`
	CreatedAt  time.Time
}

func (EntryHistory) TableName() string { return "timesheet_entry_history" }
