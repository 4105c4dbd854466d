package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"dayflow/models"
	"dayflow/pkg/paseto"
	"dayflow/pkg/password"
	util "dayflow/pkg/utils"
	"dayflow/repository"
)

type AuthHandler struct {
	employeeRepo *repository.EmployeeRepository
	tokenMaker   *paseto.Maker
}

func NewAuthHandler(employeeRepo *repository.EmployeeRepository, tokenMaker *paseto.Maker) *AuthHandler {
	return &AuthHandler{
		employeeRepo: employeeRepo,
		tokenMaker:   tokenMaker,
	}
}

// Register godoc
// @Summary Self-service registration
// @Description Creates an employee account. Self-registered accounts always get the employee role; admin and hr accounts are created through the admin endpoint.
// @Tags Auth
// @Accept json
// @Produce json
// @Param employee body models.EmployeeRegisterPayload true "Registration data"
// @Success 201 {object} models.RegisterSuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Email or employee ID already exists"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var payload models.EmployeeRegisterPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	if existing, err := h.employeeRepo.FindByEmail(ctx, payload.Email); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check existing accounts"})
	} else if existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email or employee ID already exists"})
	}
	if existing, err := h.employeeRepo.FindByEmployeeCode(ctx, payload.EmployeeID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check existing accounts"})
	} else if existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email or employee ID already exists"})
	}

	hashedPassword, err := password.HashPassword(payload.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	newEmployee := &models.Employee{
		EmployeeID: payload.EmployeeID,
		Email:      payload.Email,
		Password:   hashedPassword,
		Role:       models.RoleEmployee,
		FirstName:  payload.FirstName,
		LastName:   payload.LastName,
		IsActive:   true,
	}

	if _, err := h.employeeRepo.CreateEmployee(ctx, newEmployee); err != nil {
		if errors.Is(err, repository.ErrEmployeeExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create account"})
	}

	token, err := h.tokenMaker.GenerateToken(newEmployee)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Registration successful",
		"token":    token,
		"employee": newEmployee,
	})
}

// Login godoc
// @Summary Login
// @Description Authenticates an active employee by email and password and returns a PASETO token. Failures never disclose whether the email exists.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body models.EmployeeLoginPayload true "Login credentials"
// @Success 200 {object} models.LoginSuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse "Invalid email or password"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var payload models.EmployeeLoginPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	employee, err := h.employeeRepo.FindActiveByEmail(ctx, payload.Email)
	if err != nil || employee == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	if !password.CheckPasswordHash(payload.Password, employee.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	token, err := h.tokenMaker.GenerateToken(employee)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":  "Login successful",
		"token":    token,
		"employee": employee,
	})
}

// ChangePassword godoc
// @Summary Change password
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param password body models.ChangePasswordPayload true "Old and new password"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse "Old password does not match"
// @Router /employees/change-password [post]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	claims, ok := c.Locals("employee").(*paseto.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated or session data corrupted"})
	}

	var payload models.ChangePasswordPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	employee, err := h.employeeRepo.FindByID(ctx, claims.EmployeeID)
	if err != nil || employee == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Employee not found"})
	}

	if !password.CheckPasswordHash(payload.OldPassword, employee.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Old password does not match"})
	}

	if payload.NewPassword == payload.OldPassword {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "New password must differ from the old password"})
	}

	newHashedPassword, err := password.HashPassword(payload.NewPassword)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash new password"})
	}

	if err := h.employeeRepo.UpdatePassword(ctx, claims.EmployeeID, newHashedPassword); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update password"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Password changed successfully"})
}

// Logout godoc
// @Summary Logout
// @Description Tokens are stateless; logout acknowledges and leaves token disposal to the client.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if _, ok := c.Locals("employee").(*paseto.Claims); !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logout successful. Discard the token on the client side.",
	})
}
