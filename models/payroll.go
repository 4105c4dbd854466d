package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusProcessed = "processed"
	PaymentStatusPaid      = "paid"
)

type SalaryStructure struct {
	ID                 primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	EmployeeID         primitive.ObjectID `json:"employee_id" bson:"employee_id,omitempty"`
	BasicSalary        float64            `json:"basic_salary" bson:"basic_salary"`
	HousingAllowance   float64            `json:"housing_allowance" bson:"housing_allowance"`
	TransportAllowance float64            `json:"transport_allowance" bson:"transport_allowance"`
	MedicalAllowance   float64            `json:"medical_allowance" bson:"medical_allowance"`
	OtherAllowances    float64            `json:"other_allowances" bson:"other_allowances"`
	TaxDeduction       float64            `json:"tax_deduction" bson:"tax_deduction"`
	InsuranceDeduction float64            `json:"insurance_deduction" bson:"insurance_deduction"`
	OtherDeductions    float64            `json:"other_deductions" bson:"other_deductions"`
	EffectiveDate      string             `json:"effective_date" bson:"effective_date,omitempty"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at,omitempty"`
	UpdatedAt          time.Time          `json:"updated_at" bson:"updated_at,omitempty"`
}

func (s *SalaryStructure) TotalAllowances() float64 {
	return s.HousingAllowance + s.TransportAllowance + s.MedicalAllowance + s.OtherAllowances
}

func (s *SalaryStructure) TotalDeductions() float64 {
	return s.TaxDeduction + s.InsuranceDeduction + s.OtherDeductions
}

// NetSalary is always derived, never stored on the structure. Payroll rows
// carry their own frozen copy taken at generation time.
func (s *SalaryStructure) NetSalary() float64 {
	return s.BasicSalary + s.TotalAllowances() - s.TotalDeductions()
}

type SalaryStructurePayload struct {
	BasicSalary        float64 `json:"basic_salary" validate:"required,min=0"`
	HousingAllowance   float64 `json:"housing_allowance" validate:"min=0"`
	TransportAllowance float64 `json:"transport_allowance" validate:"min=0"`
	MedicalAllowance   float64 `json:"medical_allowance" validate:"min=0"`
	OtherAllowances    float64 `json:"other_allowances" validate:"min=0"`
	TaxDeduction       float64 `json:"tax_deduction" validate:"min=0"`
	InsuranceDeduction float64 `json:"insurance_deduction" validate:"min=0"`
	OtherDeductions    float64 `json:"other_deductions" validate:"min=0"`
	EffectiveDate      string  `json:"effective_date" validate:"omitempty,datetime=2006-01-02"`
}

type Payroll struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	EmployeeID    primitive.ObjectID `json:"employee_id" bson:"employee_id,omitempty"`
	Month         int                `json:"month" bson:"month"`
	Year          int                `json:"year" bson:"year"`
	BasicSalary   float64            `json:"basic_salary" bson:"basic_salary"`
	Allowances    float64            `json:"allowances" bson:"allowances"`
	Deductions    float64            `json:"deductions" bson:"deductions"`
	Bonus         float64            `json:"bonus" bson:"bonus"`
	NetSalary     float64            `json:"net_salary" bson:"net_salary"`
	PaymentStatus string             `json:"payment_status" bson:"payment_status,omitempty"`
	PaymentDate   *time.Time         `json:"payment_date,omitempty" bson:"payment_date,omitempty"`
	Notes         string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at,omitempty"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at,omitempty"`
}

// ComputeNet fixes the snapshot total from the row's own frozen figures,
// independent of later salary structure edits.
func (p *Payroll) ComputeNet() float64 {
	return p.BasicSalary + p.Allowances - p.Deductions + p.Bonus
}

type PayrollRunPayload struct {
	EmployeeID string  `json:"employee_id" validate:"required"`
	Month      int     `json:"month" validate:"required,min=1,max=12"`
	Year       int     `json:"year" validate:"required,min=2000,max=2100"`
	Bonus      float64 `json:"bonus" validate:"min=0"`
	Notes      string  `json:"notes" validate:"omitempty,max=500"`
}

type PayrollStatusPayload struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending processed paid"`
}

type PayrollWithEmployee struct {
	Payroll      `bson:",inline"`
	EmployeeCode string `json:"employee_code" bson:"employee_code"`
	EmployeeName string `json:"employee_name" bson:"employee_name"`
}
