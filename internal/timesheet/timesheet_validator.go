package timesheet

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"go-timesheet/internal/catalog"
	"go-timesheet/internal/clt"
	"go-timesheet/internal/shared/apperror"
)

// LocationCatalog is the slice of the catalog the validator consults.
type LocationCatalog interface {
	ProjectActive(ctx context.Context, id string) (bool, error)
	ClientCodeActive(ctx context.Context, id string) (bool, error)
	CostCenterByID(ctx context.Context, id string) (*catalog.CostCenter, error)
	VehicleActive(ctx context.Context, id string) (bool, error)
}

// locationFields is the normalized billing reference. The validator
// returns a fresh value instead of mutating the request, so cleared
// fields are explicit.
type locationFields struct {
	Location     string
	ProjectID    *uuid.UUID
	ClientCodeID *uuid.UUID
	CostCenterID *uuid.UUID
}

func invalidInput(message string) *apperror.AppError {
	return apperror.New(apperror.CodeInvalidInput, message, http.StatusBadRequest)
}

func parseOptionalUUID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// resolveLocation applies the billing rules: on-site work bills exactly
// one of project or client code; off-site work requires a cost center,
// which either demands an allocation target or forbids one.
func (s *service) resolveLocation(ctx context.Context, req LocationRequest) (locationFields, error) {
	out := locationFields{Location: req.Location}

	projectID, err := parseOptionalUUID(req.ProjectID)
	if err != nil {
		return out, invalidInput("Invalid project reference")
	}
	clientCodeID, err := parseOptionalUUID(req.ClientCodeID)
	if err != nil {
		return out, invalidInput("Invalid client code reference")
	}
	costCenterID, err := parseOptionalUUID(req.CostCenterID)
	if err != nil {
		return out, invalidInput("Invalid cost center reference")
	}

	switch req.Location {
	case LocationOnSite:
		if projectID != nil && clientCodeID != nil {
			return out, invalidInput("Select either the project or the client code, not both")
		}
		if projectID == nil && clientCodeID == nil {
			return out, invalidInput("Provide the project or the client code")
		}
		// On-site work never carries a cost center.
		out.ProjectID = projectID
		out.ClientCodeID = clientCodeID

	case LocationOffSite:
		if costCenterID == nil {
			return out, invalidInput("Select the cost center justifying off-site work")
		}
		cc, err := s.catalog.CostCenterByID(ctx, costCenterID.String())
		if err != nil {
			return out, err
		}
		out.CostCenterID = costCenterID

		if cc.AllowsAllocation {
			if projectID != nil && clientCodeID != nil {
				return out, invalidInput("Select either the project or the client code, not both")
			}
			if projectID == nil && clientCodeID == nil {
				return out, invalidInput("This cost center requires a project or client code for billing")
			}
			out.ProjectID = projectID
			out.ClientCodeID = clientCodeID
		}
		// Otherwise the billing reference is cleared: the cost center
		// alone absorbs the time.

	default:
		return out, invalidInput("Location must be INT or EXT")
	}

	if out.ProjectID != nil {
		active, err := s.catalog.ProjectActive(ctx, out.ProjectID.String())
		if err != nil {
			return out, err
		}
		if !active {
			return out, invalidInput("The selected project is not active")
		}
	}
	if out.ClientCodeID != nil {
		active, err := s.catalog.ClientCodeActive(ctx, out.ClientCodeID.String())
		if err != nil {
			return out, err
		}
		if !active {
			return out, invalidInput("The selected client code is not active")
		}
	}

	return out, nil
}

func (s *service) resolveVehicle(ctx context.Context, vehicleID, model, plate string) (*uuid.UUID, string, string, error) {
	if vehicleID != "" {
		id, err := uuid.Parse(vehicleID)
		if err != nil {
			return nil, "", "", invalidInput("Invalid vehicle reference")
		}
		active, err := s.catalog.VehicleActive(ctx, vehicleID)
		if err != nil {
			return nil, "", "", err
		}
		if !active {
			return nil, "", "", invalidInput("The selected vehicle is not active")
		}
		// A registered vehicle wins over manual fields.
		return &id, "", "", nil
	}
	return nil, model, plate, nil
}

// checkConflict loads the candidate's neighbours and runs the overlap
// detector. excludeID skips the entry being edited.
func (s *service) checkConflict(ctx context.Context, cand clt.Interval, employeeID string, excludeID uuid.UUID) error {
	sameDay, err := s.repo.ListByEmployeeAndDate(ctx, employeeID, cand.Date)
	if err != nil {
		return err
	}
	prevDay, err := s.repo.ListByEmployeeAndDate(ctx, employeeID, cand.Date.AddDate(0, 0, -1))
	if err != nil {
		return err
	}

	if conflict := clt.FindConflict(cand, toIntervals(sameDay), toIntervals(prevDay), excludeID); conflict != nil {
		return apperror.New(apperror.CodeConflict, conflict.Message(), http.StatusConflict)
	}
	return nil
}

func toIntervals(entries []Entry) []clt.Interval {
	out := make([]clt.Interval, 0, len(entries))
	for i := range entries {
		out = append(out, entries[i].Interval())
	}
	return out
}
