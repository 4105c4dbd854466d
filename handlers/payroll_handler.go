package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"dayflow/models"
	"dayflow/pkg/paseto"
	util "dayflow/pkg/utils"
	"dayflow/repository"
)

// EmployeeFinder is the slice of the employee repository payroll needs.
type EmployeeFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error)
}

type PayrollHandler struct {
	payrollRepo  repository.PayrollRepository
	employeeRepo EmployeeFinder
}

func NewPayrollHandler(payrollRepo repository.PayrollRepository, employeeRepo EmployeeFinder) *PayrollHandler {
	return &PayrollHandler{
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
	}
}

// GetMySalaryStructure godoc
// @Summary Own salary structure
// @Description Returns the structure with derived allowance, deduction and net totals.
// @Tags Payroll
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.SalaryStructureResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /payroll/salary/me [get]
func (h *PayrollHandler) GetMySalaryStructure(c *fiber.Ctx) error {
	claims, ok := c.Locals("employee").(*paseto.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	structure, err := h.payrollRepo.FindStructureByEmployee(ctx, claims.EmployeeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch salary structure"})
	}
	if structure == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No salary structure on file"})
	}

	return c.Status(fiber.StatusOK).JSON(models.SalaryStructureResponse{
		SalaryStructure: *structure,
		TotalAllowances: structure.TotalAllowances(),
		TotalDeductions: structure.TotalDeductions(),
		NetSalary:       structure.NetSalary(),
	})
}

// GetSalaryStructure godoc
// @Summary An employee's salary structure (admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param employeeId path string true "Employee object ID"
// @Success 200 {object} models.SalaryStructureResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/salary/{employeeId} [get]
func (h *PayrollHandler) GetSalaryStructure(c *fiber.Ctx) error {
	employeeID, err := primitive.ObjectIDFromHex(c.Params("employeeId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid employee ID"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	structure, err := h.payrollRepo.FindStructureByEmployee(ctx, employeeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch salary structure"})
	}
	if structure == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No salary structure on file"})
	}

	return c.Status(fiber.StatusOK).JSON(models.SalaryStructureResponse{
		SalaryStructure: *structure,
		TotalAllowances: structure.TotalAllowances(),
		TotalDeductions: structure.TotalDeductions(),
		NetSalary:       structure.NetSalary(),
	})
}

// UpsertSalaryStructure godoc
// @Summary Create or update an employee's salary structure (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param employeeId path string true "Employee object ID"
// @Param structure body models.SalaryStructurePayload true "Salary components"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "Employee not found"
// @Router /admin/salary/{employeeId} [put]
func (h *PayrollHandler) UpsertSalaryStructure(c *fiber.Ctx) error {
	employeeID, err := primitive.ObjectIDFromHex(c.Params("employeeId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid employee ID"})
	}

	var payload models.SalaryStructurePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	employee, err := h.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to look up employee"})
	}
	if employee == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Employee not found"})
	}

	if err := h.payrollRepo.UpsertStructure(ctx, employeeID, &payload); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save salary structure"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Salary structure saved"})
}

// RunPayroll godoc
// @Summary Generate a payroll row for an employee and month (admin)
// @Description Snapshots the current salary structure into a frozen payroll row. One row per employee per month.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param run body models.PayrollRunPayload true "Employee, period and bonus"
// @Success 201 {object} models.Payroll
// @Failure 404 {object} models.ErrorResponse "Employee or salary structure missing"
// @Failure 409 {object} models.ErrorResponse "Payroll already generated for this month"
// @Router /admin/payroll/run [post]
func (h *PayrollHandler) RunPayroll(c *fiber.Ctx) error {
	var payload models.PayrollRunPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	employeeID, err := primitive.ObjectIDFromHex(payload.EmployeeID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid employee ID"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	employee, err := h.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to look up employee"})
	}
	if employee == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Employee not found"})
	}

	structure, err := h.payrollRepo.FindStructureByEmployee(ctx, employeeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch salary structure"})
	}
	if structure == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Employee has no salary structure on file"})
	}

	now := time.Now()
	payroll := &models.Payroll{
		ID:            primitive.NewObjectID(),
		EmployeeID:    employeeID,
		Month:         payload.Month,
		Year:          payload.Year,
		BasicSalary:   structure.BasicSalary,
		Allowances:    structure.TotalAllowances(),
		Deductions:    structure.TotalDeductions(),
		Bonus:         payload.Bonus,
		PaymentStatus: models.PaymentStatusPending,
		Notes:         payload.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	payroll.NetSalary = payroll.ComputeNet()

	if _, err := h.payrollRepo.CreatePayroll(ctx, payroll); err != nil {
		if errors.Is(err, repository.ErrPayrollExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate payroll"})
	}

	return c.Status(fiber.StatusCreated).JSON(payroll)
}

// GetMyPayroll godoc
// @Summary Own payroll history
// @Tags Payroll
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Payroll
// @Router /payroll/me [get]
func (h *PayrollHandler) GetMyPayroll(c *fiber.Ctx) error {
	claims, ok := c.Locals("employee").(*paseto.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	history, err := h.payrollRepo.FindPayrollByEmployee(ctx, claims.EmployeeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch payroll history"})
	}

	return c.Status(fiber.StatusOK).JSON(history)
}

// GetAllPayroll godoc
// @Summary Recent payroll rows across all employees (admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max rows (default 50)"
// @Success 200 {array} models.PayrollWithEmployee
// @Router /admin/payroll [get]
func (h *PayrollHandler) GetAllPayroll(c *fiber.Ctx) error {
	limit := int64(c.QueryInt("limit", 50))
	if limit < 1 || limit > 500 {
		limit = 50
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	payrollList, err := h.payrollRepo.FindAllPayrollWithEmployees(ctx, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch payroll list"})
	}

	return c.Status(fiber.StatusOK).JSON(payrollList)
}

// UpdatePayrollStatus godoc
// @Summary Update a payroll row's payment status (admin)
// @Description Moving to paid stamps payment_date with the current time.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payroll row ID"
// @Param status body models.PayrollStatusPayload true "New payment status"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/payroll/{id}/status [put]
func (h *PayrollHandler) UpdatePayrollStatus(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payroll ID"})
	}

	var payload models.PayrollStatusPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	var paymentDate *time.Time
	if payload.PaymentStatus == models.PaymentStatusPaid {
		now := time.Now()
		paymentDate = &now
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	result, err := h.payrollRepo.UpdatePaymentStatus(ctx, id, payload.PaymentStatus, paymentDate)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update payment status"})
	}
	if result.MatchedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payroll row not found"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Payment status updated"})
}
