package timesheet

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"go-timesheet/internal/clt"
)

// Actor identifies who is performing an operation; the service uses it
// for ownership checks and the audit trail.
type Actor struct {
	UserID     uuid.UUID
	EmployeeID uuid.UUID
	Role       string
	IP         string
}

// LocationRequest is the billing reference shared by create and edit
// payloads.
type LocationRequest struct {
	Location     string `json:"location" binding:"required,oneof=INT EXT"`
	ProjectID    string `json:"project_id,omitempty" binding:"omitempty,uuid"`
	ClientCodeID string `json:"client_code_id,omitempty" binding:"omitempty,uuid"`
	CostCenterID string `json:"cost_center_id,omitempty" binding:"omitempty,uuid"`
}

// AllocationRequest is one extra location in a pro-rata submission.
type AllocationRequest struct {
	ProjectID    string `json:"project_id,omitempty" binding:"omitempty,uuid"`
	ClientCodeID string `json:"client_code_id,omitempty" binding:"omitempty,uuid"`
}

type CreateEntryRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Date       string `json:"date" binding:"required,datetime=2006-01-02"`
	Start      string `json:"start" binding:"required"`
	End        string `json:"end" binding:"required"`
	LocationRequest

	VehicleID    string `json:"vehicle_id,omitempty" binding:"omitempty,uuid"`
	VehicleModel string `json:"vehicle_model,omitempty" binding:"max=100"`
	VehiclePlate string `json:"vehicle_plate,omitempty" binding:"max=20"`
	HelperID     string `json:"helper_id,omitempty" binding:"omitempty,uuid"`
	Notes        string `json:"notes,omitempty"`

	OnCall        bool   `json:"on_call,omitempty"`
	OnCallDate    string `json:"on_call_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	SleepAway     bool   `json:"sleep_away,omitempty"`
	SleepAwayDate string `json:"sleep_away_date,omitempty" binding:"omitempty,datetime=2006-01-02"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// Allocations fans the interval out pro rata over the extra
	// locations, the main location taking the first slice.
	Allocations []AllocationRequest `json:"allocations,omitempty" binding:"omitempty,dive"`
}

type UpdateEntryRequest struct {
	Date  string `json:"date" binding:"required,datetime=2006-01-02"`
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
	LocationRequest

	VehicleID    string `json:"vehicle_id,omitempty" binding:"omitempty,uuid"`
	VehicleModel string `json:"vehicle_model,omitempty" binding:"max=100"`
	VehiclePlate string `json:"vehicle_plate,omitempty" binding:"max=20"`
	HelperID     string `json:"helper_id,omitempty" binding:"omitempty,uuid"`
	Notes        string `json:"notes,omitempty"`
}

type CheckInRequest struct {
	LocationRequest

	VehicleID    string   `json:"vehicle_id,omitempty" binding:"omitempty,uuid"`
	VehicleModel string   `json:"vehicle_model,omitempty" binding:"max=100"`
	VehiclePlate string   `json:"vehicle_plate,omitempty" binding:"max=20"`
	HelperID     string   `json:"helper_id,omitempty" binding:"omitempty,uuid"`
	Notes        string   `json:"notes,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

type AdjustmentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ReviewRequest struct {
	Approve bool   `json:"approve"`
	Comment string `json:"comment" binding:"required"`
}

type EntryResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Start      string `json:"start"`
	End        string `json:"end,omitempty"`
	Duration   string `json:"duration"`

	Location     string `json:"location"`
	ProjectID    string `json:"project_id,omitempty"`
	ClientCodeID string `json:"client_code_id,omitempty"`
	CostCenterID string `json:"cost_center_id,omitempty"`
	VehicleID    string `json:"vehicle_id,omitempty"`
	VehicleModel string `json:"vehicle_model,omitempty"`
	VehiclePlate string `json:"vehicle_plate,omitempty"`
	HelperID     string `json:"helper_id,omitempty"`
	Notes        string `json:"notes,omitempty"`

	GroupingID         string `json:"grouping_id,omitempty"`
	Status             string `json:"status"`
	AdjustmentStatus   string `json:"adjustment_status,omitempty"`
	AdjustmentReason   string `json:"adjustment_reason,omitempty"`
	AdjustmentProtocol string `json:"adjustment_protocol,omitempty"`
	ReviewComment      string `json:"review_comment,omitempty"`
	EditCount          int    `json:"edit_count"`

	Attention   bool   `json:"attention"`
	AlertReason string `json:"alert_reason,omitempty"`

	CreatedAt string `json:"created_at"`
}

type HistoryResponse struct {
	ID         string          `json:"id"`
	EditNumber int             `json:"edit_number"`
	EditedBy   string          `json:"edited_by"`
	Snapshot   json.RawMessage `json:"snapshot"`
	CreatedAt  string          `json:"created_at"`
}

func uuidString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func mapToResponse(e *Entry) EntryResponse {
	out := EntryResponse{
		ID:                 e.ID.String(),
		EmployeeID:         e.EmployeeID.String(),
		Date:               e.Date.Format("2006-01-02"),
		Start:              e.Start.Clock(),
		Duration:           clt.FormatDuration(e.DurationSeconds()),
		Location:           e.Location,
		ProjectID:          uuidString(e.ProjectID),
		ClientCodeID:       uuidString(e.ClientCodeID),
		CostCenterID:       uuidString(e.CostCenterID),
		VehicleID:          uuidString(e.VehicleID),
		VehicleModel:       e.VehicleModel,
		VehiclePlate:       e.VehiclePlate,
		HelperID:           uuidString(e.HelperID),
		Notes:              e.Notes,
		GroupingID:         uuidString(e.GroupingID),
		Status:             e.Status,
		AdjustmentReason:   e.AdjustmentReason,
		AdjustmentProtocol: e.AdjustmentProtocol,
		ReviewComment:      e.ReviewComment,
		EditCount:          e.EditCount,
		Attention:          e.Attention,
		AlertReason:        e.AlertReason,
		CreatedAt:          e.CreatedAt.UTC().Format(time.RFC3339),
	}
	if e.End != nil {
		out.End = e.End.Clock()
	}
	if e.AdjustmentStatus != nil {
		out.AdjustmentStatus = *e.AdjustmentStatus
	}
	return out
}

func mapToResponses(entries []*Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, mapToResponse(e))
	}
	return out
}
