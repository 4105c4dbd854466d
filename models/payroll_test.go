package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSalaryStructureTotals(t *testing.T) {
	s := &SalaryStructure{
		BasicSalary:        5000,
		HousingAllowance:   800,
		TransportAllowance: 200,
		MedicalAllowance:   150,
		OtherAllowances:    50,
		TaxDeduction:       600,
		InsuranceDeduction: 250,
		OtherDeductions:    100,
	}

	assert.Equal(t, 1200.0, s.TotalAllowances())
	assert.Equal(t, 950.0, s.TotalDeductions())
	assert.Equal(t, 5250.0, s.NetSalary())
}

func TestPayrollComputeNet(t *testing.T) {
	p := &Payroll{
		BasicSalary: 5000,
		Allowances:  1200,
		Deductions:  950,
		Bonus:       500,
	}

	assert.Equal(t, 5750.0, p.ComputeNet())
}

// A payroll row keeps the figures it was generated with; recomputing the net
// must not consult the live salary structure.
func TestPayrollSnapshotIndependence(t *testing.T) {
	s := &SalaryStructure{BasicSalary: 5000, HousingAllowance: 1000, TaxDeduction: 500}

	p := &Payroll{
		BasicSalary: s.BasicSalary,
		Allowances:  s.TotalAllowances(),
		Deductions:  s.TotalDeductions(),
	}
	p.NetSalary = p.ComputeNet()

	s.BasicSalary = 9000

	assert.Equal(t, 5500.0, p.NetSalary)
	assert.Equal(t, p.NetSalary, p.ComputeNet())
}
