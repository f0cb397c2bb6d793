package report

// DashboardRow is one employee's standing for the requested day.
type DashboardRow struct {
	EmployeeID    string `json:"employee_id"`
	Name          string `json:"name"`
	WorkedSeconds int    `json:"worked_seconds"`
	Worked        string `json:"worked"`
	TargetSeconds int    `json:"target_seconds"`
	Target        string `json:"target"`
	// Balance is worked minus target, signed HH:MM.
	BalanceSeconds int    `json:"balance_seconds"`
	Balance        string `json:"balance"`
	AlertReason    string `json:"alert_reason,omitempty"`
}

type DashboardResponse struct {
	Date             string         `json:"date"`
	Ok               []DashboardRow `json:"ok"`
	Incomplete       []DashboardRow `json:"incomplete"`
	Absent           []DashboardRow `json:"absent"`
	Skipped          int            `json:"skipped"`
	AdherencePercent float64        `json:"adherence_percent"`
}

// ExportRow is the flat shape consumed by the payroll integration.
type ExportRow struct {
	ID            string   `json:"id"`
	EmployeeID    string   `json:"employee_id"`
	EmployeeName  string   `json:"employee_name"`
	Date          string   `json:"date"`
	Start         string   `json:"start"`
	End           string   `json:"end,omitempty"`
	Duration      string   `json:"duration"`
	Location      string   `json:"location"`
	Status        string   `json:"status"`
	Attention     bool     `json:"attention"`
	AlertReason   string   `json:"alert_reason,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	ReviewComment string   `json:"review_comment,omitempty"`
}

type SweepResult struct {
	Absent     int `json:"absent"`
	Incomplete int `json:"incomplete"`
	Skipped    int `json:"skipped"`
}
