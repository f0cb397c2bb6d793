package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-timesheet/internal/clt"
)

type Employee struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName string    `gorm:"type:varchar(255);not null"`
	Email    string    `gorm:"type:varchar(255);uniqueIndex:uq_employee_email;not null"`
	// Phone is stored as typed by the user; normalization for the
	// messaging gateway happens at send time.
	Phone    string `gorm:"type:varchar(32)"`
	JobTitle string `gorm:"type:varchar(120)"`
	City     string `gorm:"type:varchar(120)"`
	State    string `gorm:"type:varchar(2)"`
	// Per-employee schedule override. Nil means the standard target.
	TargetSeconds    *int
	ToleranceSeconds *int
	Active           bool `gorm:"default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

// RoleCategory classifies the job title for target exemption.
func (e *Employee) RoleCategory() clt.RoleCategory {
	return clt.ParseRoleCategory(e.JobTitle)
}
