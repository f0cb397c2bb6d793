package catalog

type CreateProjectRequest struct {
	Code string `json:"code" binding:"required,max=20"`
	Name string `json:"name" binding:"required,max=255"`
}

type CreateClientCodeRequest struct {
	Code string `json:"code" binding:"required,max=20"`
	Name string `json:"name" binding:"required,max=255"`
}

type CreateCostCenterRequest struct {
	Name             string `json:"name" binding:"required,max=255"`
	AllowsAllocation bool   `json:"allows_allocation"`
}

type CreateVehicleRequest struct {
	Plate       string `json:"plate" binding:"required,max=10"`
	Description string `json:"description" binding:"required,max=120"`
}

// OptionResponse is the shape the entry form consumes for every
// catalog kind.
type OptionResponse struct {
	ID               string `json:"id"`
	Code             string `json:"code,omitempty"`
	Name             string `json:"name"`
	AllowsAllocation bool   `json:"allows_allocation,omitempty"`
}

// Options bundles the active catalog rows the entry form needs in one
// payload.
type Options struct {
	Projects    []OptionResponse `json:"projects"`
	ClientCodes []OptionResponse `json:"client_codes"`
	CostCenters []OptionResponse `json:"cost_centers"`
	Vehicles    []OptionResponse `json:"vehicles"`
}
