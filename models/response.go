package models

// ErrorResponse is the generic error envelope returned by every handler.
type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid request body"`
	Details string `json:"details,omitempty" example:"validation failed"`
}

type LoginSuccessResponse struct {
	Message  string   `json:"message" example:"Login successful"`
	Token    string   `json:"token" example:"v2.local.Ft9QcxZhJXEYyb7-bMM..."`
	Employee Employee `json:"employee"`
}

type RegisterSuccessResponse struct {
	Message  string   `json:"message" example:"Registration successful"`
	Token    string   `json:"token" example:"v2.local.Ft9QcxZhJXEYyb7-bMM..."`
	Employee Employee `json:"employee"`
}

type EmployeeListResponse struct {
	Employees []Employee `json:"employees"`
	Total     int64      `json:"total" example:"42"`
	Page      int64      `json:"page" example:"1"`
	Limit     int64      `json:"limit" example:"20"`
}

type MessageResponse struct {
	Message string `json:"message" example:"OK"`
}

// SalaryStructureResponse is a salary structure plus its derived totals.
type SalaryStructureResponse struct {
	SalaryStructure
	TotalAllowances float64 `json:"total_allowances" example:"1200"`
	TotalDeductions float64 `json:"total_deductions" example:"950"`
	NetSalary       float64 `json:"net_salary" example:"5250"`
}
