package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"dayflow/models"
	"dayflow/pkg/paseto"
	"dayflow/repository"
)

type fakePayrollRepo struct {
	structure *models.SalaryStructure
	createErr error
	created   []*models.Payroll
}

func (f *fakePayrollRepo) FindStructureByEmployee(ctx context.Context, employeeID primitive.ObjectID) (*models.SalaryStructure, error) {
	return f.structure, nil
}

func (f *fakePayrollRepo) UpsertStructure(ctx context.Context, employeeID primitive.ObjectID, payload *models.SalaryStructurePayload) error {
	return nil
}

func (f *fakePayrollRepo) CreatePayroll(ctx context.Context, payroll *models.Payroll) (*mongo.InsertOneResult, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, payroll)
	return &mongo.InsertOneResult{InsertedID: payroll.ID}, nil
}

func (f *fakePayrollRepo) FindPayrollByID(ctx context.Context, id primitive.ObjectID) (*models.Payroll, error) {
	return nil, nil
}

func (f *fakePayrollRepo) FindPayrollByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.Payroll, error) {
	return []models.Payroll{}, nil
}

func (f *fakePayrollRepo) FindAllPayrollWithEmployees(ctx context.Context, limit int64) ([]models.PayrollWithEmployee, error) {
	return []models.PayrollWithEmployee{}, nil
}

func (f *fakePayrollRepo) UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status string, paymentDate *time.Time) (*mongo.UpdateResult, error) {
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

type fakeEmployeeFinder struct {
	employee *models.Employee
}

func (f *fakeEmployeeFinder) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error) {
	return f.employee, nil
}

func newPayrollTestApp(payrollRepo *fakePayrollRepo, finder *fakeEmployeeFinder) *fiber.App {
	handler := NewPayrollHandler(payrollRepo, finder)

	app := fiber.New()
	app.Use(withClaims(&paseto.Claims{EmployeeID: primitive.NewObjectID(), Role: models.RoleAdmin}))
	app.Post("/admin/payroll/run", handler.RunPayroll)
	return app
}

func TestRunPayroll(t *testing.T) {
	employee := &models.Employee{ID: primitive.NewObjectID(), EmployeeID: "EMP010", Email: "kim@dayflow.com"}
	structure := &models.SalaryStructure{
		EmployeeID:       employee.ID,
		BasicSalary:      5000,
		HousingAllowance: 1000,
		TaxDeduction:     500,
	}
	run := models.PayrollRunPayload{
		EmployeeID: employee.ID.Hex(),
		Month:      3,
		Year:       2026,
		Bonus:      250,
	}

	t.Run("snapshots the structure with bonus", func(t *testing.T) {
		payrollRepo := &fakePayrollRepo{structure: structure}
		app := newPayrollTestApp(payrollRepo, &fakeEmployeeFinder{employee: employee})

		resp := postJSON(t, app, "/admin/payroll/run", run)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		require.Len(t, payrollRepo.created, 1)
		row := payrollRepo.created[0]
		assert.Equal(t, 5000.0, row.BasicSalary)
		assert.Equal(t, 1000.0, row.Allowances)
		assert.Equal(t, 500.0, row.Deductions)
		assert.Equal(t, 5750.0, row.NetSalary)
		assert.Equal(t, models.PaymentStatusPending, row.PaymentStatus)
	})

	t.Run("duplicate month maps to conflict", func(t *testing.T) {
		payrollRepo := &fakePayrollRepo{structure: structure, createErr: repository.ErrPayrollExists}
		app := newPayrollTestApp(payrollRepo, &fakeEmployeeFinder{employee: employee})

		resp := postJSON(t, app, "/admin/payroll/run", run)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("other insert failures map to internal error", func(t *testing.T) {
		payrollRepo := &fakePayrollRepo{structure: structure, createErr: errors.New("connection reset")}
		app := newPayrollTestApp(payrollRepo, &fakeEmployeeFinder{employee: employee})

		resp := postJSON(t, app, "/admin/payroll/run", run)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("missing salary structure", func(t *testing.T) {
		payrollRepo := &fakePayrollRepo{}
		app := newPayrollTestApp(payrollRepo, &fakeEmployeeFinder{employee: employee})

		resp := postJSON(t, app, "/admin/payroll/run", run)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}
