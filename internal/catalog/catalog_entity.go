package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Project is an internal job site ("obra") billed by code.
type Project struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code      string    `gorm:"type:varchar(20);uniqueIndex:uq_project_code;not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Active    bool      `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClientCode is an external billing reference used instead of a
// project when work is done for a client site.
type ClientCode struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code      string    `gorm:"type:varchar(20);uniqueIndex:uq_client_code;not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Active    bool      `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CostCenter justifies off-site work. When AllowsAllocation is set the
// entry must still carry a project or client code for billing.
type CostCenter struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string    `gorm:"type:varchar(255);not null"`
	AllowsAllocation bool      `gorm:"default:false"`
	Active           bool      `gorm:"default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Vehicle struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Plate       string    `gorm:"type:varchar(10);uniqueIndex:uq_vehicle_plate;not null"`
	Description string    `gorm:"type:varchar(120);not null"`
	Active      bool      `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
