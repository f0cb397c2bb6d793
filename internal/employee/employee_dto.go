package employee

type CreateEmployeeRequest struct {
	FullName         string `json:"full_name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone"`
	JobTitle         string `json:"job_title"`
	City             string `json:"city"`
	State            string `json:"state" binding:"omitempty,len=2"`
	TargetSeconds    *int   `json:"target_seconds" binding:"omitempty,min=0"`
	ToleranceSeconds *int   `json:"tolerance_seconds" binding:"omitempty,min=0"`
}

type UpdateEmployeeRequest struct {
	FullName         string `json:"full_name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone"`
	JobTitle         string `json:"job_title"`
	City             string `json:"city"`
	State            string `json:"state" binding:"omitempty,len=2"`
	TargetSeconds    *int   `json:"target_seconds" binding:"omitempty,min=0"`
	ToleranceSeconds *int   `json:"tolerance_seconds" binding:"omitempty,min=0"`
	Active           *bool  `json:"active"`
}

type EmployeeResponse struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	JobTitle     string `json:"job_title,omitempty"`
	RoleCategory string `json:"role_category"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Active       bool   `json:"active"`
}

func mapToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID.String(),
		FullName:     e.FullName,
		Email:        e.Email,
		Phone:        e.Phone,
		JobTitle:     e.JobTitle,
		RoleCategory: e.RoleCategory().String(),
		City:         e.City,
		State:        e.State,
		Active:       e.Active,
	}
}

func mapToListResponse(list []Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(list))
	for _, e := range list {
		out = append(out, mapToResponse(e))
	}
	return out
}
