package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AttendanceStatusPresent = "present"
	AttendanceStatusAbsent  = "absent"
	AttendanceStatusHalfDay = "half-day"
	AttendanceStatusLeave   = "leave"
)

type Attendance struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	EmployeeID primitive.ObjectID `json:"employee_id" bson:"employee_id,omitempty"`
	Date       string             `json:"date" bson:"date,omitempty"`
	CheckIn    *time.Time         `json:"check_in,omitempty" bson:"check_in,omitempty"`
	CheckOut   *time.Time         `json:"check_out,omitempty" bson:"check_out,omitempty"`
	Status     string             `json:"status" bson:"status,omitempty"`
	Notes      string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at,omitempty"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at,omitempty"`
}

// HoursWorked returns the worked duration in hours rounded to one decimal,
// or nil when either timestamp is missing.
func (a *Attendance) HoursWorked() *float64 {
	if a.CheckIn == nil || a.CheckOut == nil {
		return nil
	}
	hours := a.CheckOut.Sub(*a.CheckIn).Hours()
	rounded := math.Round(hours*10) / 10
	return &rounded
}

type AttendanceUpdatePayload struct {
	Status string `json:"status" validate:"required,oneof=present absent half-day leave"`
	Notes  string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type AttendanceWithEmployee struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	EmployeeID     primitive.ObjectID `json:"employee_id" bson:"employee_id"`
	Date           string             `json:"date" bson:"date"`
	CheckIn        *time.Time         `json:"check_in,omitempty" bson:"check_in,omitempty"`
	CheckOut       *time.Time         `json:"check_out,omitempty" bson:"check_out,omitempty"`
	Status         string             `json:"status" bson:"status"`
	Notes          string             `json:"notes,omitempty" bson:"notes,omitempty"`
	EmployeeCode   string             `json:"employee_code" bson:"employee_code"`
	EmployeeName   string             `json:"employee_name" bson:"employee_name"`
	EmployeeEmail  string             `json:"employee_email" bson:"employee_email"`
	Department     string             `json:"department,omitempty" bson:"department,omitempty"`
	Designation    string             `json:"designation,omitempty" bson:"designation,omitempty"`
	ProfilePicture string             `json:"profile_picture,omitempty" bson:"profile_picture,omitempty"`
}
