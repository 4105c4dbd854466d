package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleEmployee = "employee"
)

type Employee struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	EmployeeID     string             `json:"employee_id" bson:"employee_id,omitempty"`
	Email          string             `json:"email" bson:"email,omitempty"`
	Password       string             `json:"-" bson:"password,omitempty"`
	Role           string             `json:"role" bson:"role,omitempty"`
	FirstName      string             `json:"first_name" bson:"first_name,omitempty"`
	LastName       string             `json:"last_name" bson:"last_name,omitempty"`
	Phone          string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Address        string             `json:"address,omitempty" bson:"address,omitempty"`
	City           string             `json:"city,omitempty" bson:"city,omitempty"`
	State          string             `json:"state,omitempty" bson:"state,omitempty"`
	ZipCode        string             `json:"zip_code,omitempty" bson:"zip_code,omitempty"`
	ProfilePicture string             `json:"profile_picture,omitempty" bson:"profile_picture,omitempty"`
	Department     string             `json:"department,omitempty" bson:"department,omitempty"`
	Designation    string             `json:"designation,omitempty" bson:"designation,omitempty"`
	JoinDate       string             `json:"join_date,omitempty" bson:"join_date,omitempty"`
	EmploymentType string             `json:"employment_type,omitempty" bson:"employment_type,omitempty"`
	IsActive       bool               `json:"is_active" bson:"is_active"`
	IsVerified     bool               `json:"is_verified" bson:"is_verified"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at,omitempty"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at,omitempty"`
}

// FullName joins first and last name for display and joined views.
func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// IsAdmin reports whether the employee may use the admin surface. Both the
// admin and hr roles share it.
func (e *Employee) IsAdmin() bool {
	return e.Role == RoleAdmin || e.Role == RoleHR
}

type EmployeeRegisterPayload struct {
	EmployeeID string `json:"employee_id" validate:"required,min=3,max=20"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=50,hasuppercase"`
	FirstName  string `json:"first_name" validate:"required,min=2,max=100"`
	LastName   string `json:"last_name" validate:"omitempty,max=100"`
}

type EmployeeCreatePayload struct {
	EmployeeID     string `json:"employee_id" validate:"required,min=3,max=20"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8,max=50,hasuppercase"`
	Role           string `json:"role" validate:"required,oneof=admin hr employee"`
	FirstName      string `json:"first_name" validate:"required,min=2,max=100"`
	LastName       string `json:"last_name" validate:"omitempty,max=100"`
	Phone          string `json:"phone" validate:"omitempty,max=20"`
	Department     string `json:"department"`
	Designation    string `json:"designation"`
	JoinDate       string `json:"join_date" validate:"omitempty,datetime=2006-01-02"`
	EmploymentType string `json:"employment_type" validate:"omitempty,oneof=full-time part-time contract intern"`
}

type EmployeeLoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type EmployeeUpdatePayload struct {
	FirstName      string `json:"first_name,omitempty" validate:"omitempty,min=2,max=100"`
	LastName       string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Phone          string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address        string `json:"address,omitempty" validate:"omitempty,max=255"`
	City           string `json:"city,omitempty" validate:"omitempty,max=100"`
	State          string `json:"state,omitempty" validate:"omitempty,max=100"`
	ZipCode        string `json:"zip_code,omitempty" validate:"omitempty,max=20"`
	ProfilePicture string `json:"profile_picture,omitempty" validate:"omitempty,url"`
	Department     string `json:"department,omitempty"`
	Designation    string `json:"designation,omitempty"`
	JoinDate       string `json:"join_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EmploymentType string `json:"employment_type,omitempty" validate:"omitempty,oneof=full-time part-time contract intern"`
}

type ChangePasswordPayload struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=50,hasuppercase"`
}

type DepartmentCount struct {
	Department string `bson:"_id" json:"department"`
	Count      int64  `bson:"count" json:"count"`
}

type DashboardStats struct {
	TotalEmployees         int64             `json:"total_employees"`
	ActiveEmployees        int64             `json:"active_employees"`
	PresentToday           int64             `json:"present_today"`
	OnLeaveToday           int64             `json:"on_leave_today"`
	PendingLeaveRequests   int64             `json:"pending_leave_requests"`
	NewJoinersLast30Days   int64             `json:"new_joiners_last_30_days"`
	DepartmentDistribution []DepartmentCount `json:"department_distribution"`
}
