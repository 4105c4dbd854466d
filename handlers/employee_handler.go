package handlers

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"dayflow/models"
	"dayflow/pkg/paseto"
	"dayflow/pkg/password"
	util "dayflow/pkg/utils"
	"dayflow/repository"
)

type EmployeeHandler struct {
	employeeRepo *repository.EmployeeRepository
	leaveRepo    repository.LeaveRepository
}

func NewEmployeeHandler(employeeRepo *repository.EmployeeRepository, leaveRepo repository.LeaveRepository) *EmployeeHandler {
	return &EmployeeHandler{
		employeeRepo: employeeRepo,
		leaveRepo:    leaveRepo,
	}
}

// GetAllEmployees godoc
// @Summary List employees
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Match against name, email or employee ID"
// @Param department query string false "Filter by department"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 20)"
// @Success 200 {object} models.EmployeeListResponse
// @Router /admin/employees [get]
func (h *EmployeeHandler) GetAllEmployees(c *fiber.Ctx) error {
	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 20))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := bson.M{}
	if search := c.Query("search"); search != "" {
		filter["$or"] = []bson.M{
			{"first_name": bson.M{"$regex": search, "$options": "i"}},
			{"last_name": bson.M{"$regex": search, "$options": "i"}},
			{"email": bson.M{"$regex": search, "$options": "i"}},
			{"employee_id": bson.M{"$regex": search, "$options": "i"}},
		}
	}
	if department := c.Query("department"); department != "" {
		filter["department"] = department
	}
	if active := c.Query("active"); active != "" {
		filter["is_active"] = active == "true"
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	employees, total, err := h.employeeRepo.GetAllEmployees(ctx, filter, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch employees"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"employees": employees,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

// CreateEmployee godoc
// @Summary Create employee (admin)
// @Description Admin-side employee creation; unlike self-registration, any role may be assigned.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param employee body models.EmployeeCreatePayload true "Employee data"
// @Success 201 {object} models.MessageResponse
// @Failure 409 {object} models.ErrorResponse "Email or employee ID already exists"
// @Router /admin/employees [post]
func (h *EmployeeHandler) CreateEmployee(c *fiber.Ctx) error {
	var payload models.EmployeeCreatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	hashedPassword, err := password.HashPassword(payload.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	newEmployee := &models.Employee{
		EmployeeID:     payload.EmployeeID,
		Email:          payload.Email,
		Password:       hashedPassword,
		Role:           payload.Role,
		FirstName:      payload.FirstName,
		LastName:       payload.LastName,
		Phone:          payload.Phone,
		Department:     payload.Department,
		Designation:    payload.Designation,
		JoinDate:       payload.JoinDate,
		EmploymentType: payload.EmploymentType,
		IsActive:       true,
		IsVerified:     true,
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	result, err := h.employeeRepo.CreateEmployee(ctx, newEmployee)
	if err != nil {
		if errors.Is(err, repository.ErrEmployeeExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create employee"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Employee created",
		"employee_id": result.InsertedID,
	})
}

// GetEmployeeByID godoc
// @Summary Get one employee
// @Description Employees can read their own profile; admin and hr can read anyone's.
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee object ID"
// @Success 200 {object} models.Employee
// @Failure 404 {object} models.ErrorResponse
// @Router /employees/{id} [get]
func (h *EmployeeHandler) GetEmployeeByID(c *fiber.Ctx) error {
	claims, ok := c.Locals("employee").(*paseto.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid employee ID"})
	}

	if id != claims.EmployeeID && !claims.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	employee, err := h.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch employee"})
	}
	if employee == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Employee not found"})
	}

	return c.Status(fiber.StatusOK).JSON(employee)
}

// UpdateEmployee godoc
// @Summary Update employee profile
// @Description Employees can edit their own contact fields; admin and hr can edit anyone.
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee object ID"
// @Param employee body models.EmployeeUpdatePayload true "Fields to update"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *fiber.Ctx) error {
	claims, ok := c.Locals("employee").(*paseto.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid employee ID"})
	}

	if id != claims.EmployeeID && !claims.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
	}

	var payload models.EmployeeUpdatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	updateData := bson.M{}
	setIfPresent := func(key, value string) {
		if value != "" {
			updateData[key] = value
		}
	}
	setIfPresent("first_name", payload.FirstName)
	setIfPresent("last_name", payload.LastName)
	setIfPresent("phone", payload.Phone)
	setIfPresent("address", payload.Address)
	setIfPresent("city", payload.City)
	setIfPresent("state", payload.State)
	setIfPresent("zip_code", payload.ZipCode)
	setIfPresent("profile_picture", payload.ProfilePicture)
	setIfPresent("join_date", payload.JoinDate)
	setIfPresent("employment_type", payload.EmploymentType)

	// Department and designation are organizational facts, admin-editable only.
	if claims.IsAdmin() {
		setIfPresent("department", payload.Department)
		setIfPresent("designation", payload.Designation)
	}

	if len(updateData) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No fields to update"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	result, err := h.employeeRepo.UpdateEmployee(ctx, id, updateData)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if result.MatchedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Employee not found"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Employee updated"})
}

// DeactivateEmployee godoc
// @Summary Deactivate employee
// @Description Soft-deactivation; the row is kept and login is refused.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee object ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/employees/{id}/deactivate [put]
func (h *EmployeeHandler) DeactivateEmployee(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid employee ID"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	result, err := h.employeeRepo.SetActive(ctx, id, false)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to deactivate employee"})
	}
	if result.MatchedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Employee not found"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Employee deactivated"})
}

// DeleteEmployee godoc
// @Summary Delete employee
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee object ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/employees/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid employee ID"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	result, err := h.employeeRepo.DeleteEmployee(ctx, id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete employee"})
	}
	if result.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Employee not found"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Employee deleted"})
}

// GetDashboardStats godoc
// @Summary Admin dashboard statistics
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.DashboardStats
// @Router /admin/dashboard-stats [get]
func (h *EmployeeHandler) GetDashboardStats(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	pendingLeaves, err := h.leaveRepo.CountPendingRequests(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to count pending leave requests"})
	}

	stats, err := h.employeeRepo.GetDashboardStats(ctx, pendingLeaves)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}

// GetEmployeeBadge godoc
// @Summary Employee badge QR code
// @Description Returns a QR code PNG (base64 data URI) encoding the employee code, for printable badges.
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Employee object ID"
// @Success 200 {object} object{employee_code=string,badge_image=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /employees/{id}/badge [get]
func (h *EmployeeHandler) GetEmployeeBadge(c *fiber.Ctx) error {
	claims, ok := c.Locals("employee").(*paseto.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid employee ID"})
	}

	if id != claims.EmployeeID && !claims.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	employee, err := h.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch employee"})
	}
	if employee == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Employee not found"})
	}

	png, err := qrcode.Encode(employee.EmployeeID, qrcode.Medium, 256)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate badge image"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"employee_code": employee.EmployeeID,
		"badge_image":   "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	})
}
