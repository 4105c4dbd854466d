package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

type LeaveType struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name,omitempty"`
	Description    string             `json:"description,omitempty" bson:"description,omitempty"`
	MaxDaysPerYear int                `json:"max_days_per_year" bson:"max_days_per_year"`
	IsPaid         bool               `json:"is_paid" bson:"is_paid"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at,omitempty"`
}

type LeaveTypePayload struct {
	Name           string `json:"name" validate:"required,min=3,max=50"`
	Description    string `json:"description" validate:"omitempty,max=255"`
	MaxDaysPerYear int    `json:"max_days_per_year" validate:"required,min=1,max=366"`
	IsPaid         *bool  `json:"is_paid" validate:"required"`
}

type LeaveRequest struct {
	ID            primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	EmployeeID    primitive.ObjectID  `json:"employee_id" bson:"employee_id,omitempty"`
	LeaveTypeID   primitive.ObjectID  `json:"leave_type_id" bson:"leave_type_id,omitempty"`
	StartDate     string              `json:"start_date" bson:"start_date,omitempty"`
	EndDate       string              `json:"end_date" bson:"end_date,omitempty"`
	TotalDays     int                 `json:"total_days" bson:"total_days,omitempty"`
	Reason        string              `json:"reason,omitempty" bson:"reason,omitempty"`
	Status        string              `json:"status" bson:"status,omitempty"`
	ReviewedBy    *primitive.ObjectID `json:"reviewed_by,omitempty" bson:"reviewed_by,omitempty"`
	ReviewComment string              `json:"review_comment,omitempty" bson:"review_comment,omitempty"`
	ReviewedAt    *time.Time          `json:"reviewed_at,omitempty" bson:"reviewed_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at" bson:"created_at,omitempty"`
	UpdatedAt     time.Time           `json:"updated_at" bson:"updated_at,omitempty"`
}

// CanReview reports whether the request still accepts a review decision.
// Approved and rejected are terminal.
func (r *LeaveRequest) CanReview() bool {
	return r.Status == LeaveStatusPending
}

// LeaveDaysInclusive counts the days between two yyyy-mm-dd dates, both
// endpoints included. Returns 0 when either date is malformed or the end
// precedes the start.
func LeaveDaysInclusive(startDate, endDate string) int {
	const layout = "2006-01-02"
	start, err := time.Parse(layout, startDate)
	if err != nil {
		return 0
	}
	end, err := time.Parse(layout, endDate)
	if err != nil {
		return 0
	}
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

type LeaveRequestCreatePayload struct {
	LeaveTypeID string `json:"leave_type_id" validate:"required"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"required,datetime=2006-01-02,gtefield=StartDate"`
	Reason      string `json:"reason" validate:"omitempty,max=500"`
}

type LeaveReviewPayload struct {
	Status        string `json:"status" validate:"required,oneof=approved rejected"`
	ReviewComment string `json:"review_comment,omitempty" validate:"omitempty,max=500"`
}

type LeaveRequestWithDetails struct {
	LeaveRequest  `bson:",inline"`
	EmployeeCode  string `json:"employee_code" bson:"employee_code"`
	EmployeeName  string `json:"employee_name" bson:"employee_name"`
	LeaveTypeName string `json:"leave_type_name" bson:"leave_type_name"`
	IsPaid        bool   `json:"is_paid" bson:"is_paid"`
}

type LeaveBalance struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	EmployeeID    primitive.ObjectID `json:"employee_id" bson:"employee_id,omitempty"`
	LeaveTypeID   primitive.ObjectID `json:"leave_type_id" bson:"leave_type_id,omitempty"`
	Year          int                `json:"year" bson:"year,omitempty"`
	TotalDays     int                `json:"total_days" bson:"total_days"`
	UsedDays      int                `json:"used_days" bson:"used_days"`
	RemainingDays int                `json:"remaining_days" bson:"remaining_days"`
}

type LeaveBalanceWithType struct {
	LeaveBalance  `bson:",inline"`
	LeaveTypeName string `json:"leave_type_name" bson:"leave_type_name"`
	IsPaid        bool   `json:"is_paid" bson:"is_paid"`
}
