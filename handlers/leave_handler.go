package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"dayflow/models"
	"dayflow/pkg/paseto"
	util "dayflow/pkg/utils"
	"dayflow/repository"
)

type LeaveHandler struct {
	leaveRepo      repository.LeaveRepository
	attendanceRepo repository.AttendanceRepository
}

func NewLeaveHandler(leaveRepo repository.LeaveRepository, attendanceRepo repository.AttendanceRepository) *LeaveHandler {
	return &LeaveHandler{
		leaveRepo:      leaveRepo,
		attendanceRepo: attendanceRepo,
	}
}

// GetLeaveTypes godoc
// @Summary List leave types
// @Tags Leave
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.LeaveType
// @Router /leave/types [get]
func (h *LeaveHandler) GetLeaveTypes(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	types, err := h.leaveRepo.FindAllLeaveTypes(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch leave types"})
	}

	return c.Status(fiber.StatusOK).JSON(types)
}

// CreateLeaveType godoc
// @Summary Create a leave type (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param leaveType body models.LeaveTypePayload true "Leave type data"
// @Success 201 {object} models.LeaveType
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/leave/types [post]
func (h *LeaveHandler) CreateLeaveType(c *fiber.Ctx) error {
	var payload models.LeaveTypePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	leaveType := &models.LeaveType{
		Name:           payload.Name,
		Description:    payload.Description,
		MaxDaysPerYear: payload.MaxDaysPerYear,
		IsPaid:         *payload.IsPaid,
	}

	if _, err := h.leaveRepo.CreateLeaveType(ctx, leaveType); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create leave type"})
	}

	return c.Status(fiber.StatusCreated).JSON(leaveType)
}

// UpdateLeaveType godoc
// @Summary Update a leave type (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Leave type ID"
// @Param leaveType body models.LeaveTypePayload true "Leave type data"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/leave/types/{id} [put]
func (h *LeaveHandler) UpdateLeaveType(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid leave type ID"})
	}

	var payload models.LeaveTypePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	result, err := h.leaveRepo.UpdateLeaveType(ctx, id, &payload)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update leave type"})
	}
	if result.MatchedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Leave type not found"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Leave type updated"})
}

// DeleteLeaveType godoc
// @Summary Delete a leave type (admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Leave type ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/leave/types/{id} [delete]
func (h *LeaveHandler) DeleteLeaveType(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid leave type ID"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	result, err := h.leaveRepo.DeleteLeaveType(ctx, id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete leave type"})
	}
	if result.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Leave type not found"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Leave type deleted"})
}

// CreateLeaveRequest godoc
// @Summary Submit a leave request
// @Description Creates a pending request. Total days are computed server-side from the inclusive date range.
// @Tags Leave
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.LeaveRequestCreatePayload true "Leave request data"
// @Success 201 {object} models.LeaveRequest
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "Unknown leave type"
// @Router /leave/requests [post]
func (h *LeaveHandler) CreateLeaveRequest(c *fiber.Ctx) error {
	claims, ok := c.Locals("employee").(*paseto.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	var payload models.LeaveRequestCreatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	leaveTypeID, err := primitive.ObjectIDFromHex(payload.LeaveTypeID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid leave type ID"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	leaveType, err := h.leaveRepo.FindLeaveTypeByID(ctx, leaveTypeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to look up leave type"})
	}
	if leaveType == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Leave type not found"})
	}

	totalDays := models.LeaveDaysInclusive(payload.StartDate, payload.EndDate)
	if totalDays == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "End date must not precede start date"})
	}

	startDate, _ := time.Parse("2006-01-02", payload.StartDate)
	balance, err := h.leaveRepo.FindBalance(ctx, claims.EmployeeID, leaveTypeID, startDate.Year())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check leave balance"})
	}
	if balance == nil {
		// Employees created after startup have no seeded balance row yet;
		// open one from the type's yearly allowance so the quota still binds.
		balance = &models.LeaveBalance{
			EmployeeID:    claims.EmployeeID,
			LeaveTypeID:   leaveTypeID,
			Year:          startDate.Year(),
			TotalDays:     leaveType.MaxDaysPerYear,
			RemainingDays: leaveType.MaxDaysPerYear,
		}
		if err := h.leaveRepo.UpsertBalance(ctx, balance); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to initialize leave balance"})
		}
	}
	if balance.RemainingDays < totalDays {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Insufficient leave balance for the requested range"})
	}

	now := time.Now()
	request := &models.LeaveRequest{
		ID:          primitive.NewObjectID(),
		EmployeeID:  claims.EmployeeID,
		LeaveTypeID: leaveTypeID,
		StartDate:   payload.StartDate,
		EndDate:     payload.EndDate,
		TotalDays:   totalDays,
		Reason:      payload.Reason,
		Status:      models.LeaveStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := h.leaveRepo.CreateRequest(ctx, request); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create leave request"})
	}

	return c.Status(fiber.StatusCreated).JSON(request)
}

// GetMyLeaveRequests godoc
// @Summary Own leave requests
// @Tags Leave
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.LeaveRequest
// @Router /leave/requests/me [get]
func (h *LeaveHandler) GetMyLeaveRequests(c *fiber.Ctx) error {
	claims, ok := c.Locals("employee").(*paseto.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	requests, err := h.leaveRepo.FindRequestsByEmployee(ctx, claims.EmployeeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch leave requests"})
	}

	return c.Status(fiber.StatusOK).JSON(requests)
}

// GetMyLeaveBalances godoc
// @Summary Own leave balances for a year
// @Tags Leave
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year (defaults to current)"
// @Success 200 {array} models.LeaveBalanceWithType
// @Router /leave/balances/me [get]
func (h *LeaveHandler) GetMyLeaveBalances(c *fiber.Ctx) error {
	claims, ok := c.Locals("employee").(*paseto.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	year := c.QueryInt("year", time.Now().Year())

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	balances, err := h.leaveRepo.FindBalancesByEmployee(ctx, claims.EmployeeID, year)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch leave balances"})
	}

	return c.Status(fiber.StatusOK).JSON(balances)
}

// GetAllLeaveRequests godoc
// @Summary All leave requests with employee and type details (admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {array} models.LeaveRequestWithDetails
// @Router /admin/leave/requests [get]
func (h *LeaveHandler) GetAllLeaveRequests(c *fiber.Ctx) error {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	requests, err := h.leaveRepo.FindAllRequestsWithDetails(ctx, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch leave requests"})
	}

	return c.Status(fiber.StatusOK).JSON(requests)
}

// ReviewLeaveRequest godoc
// @Summary Approve or reject a leave request (admin)
// @Description Pending requests only; approved and rejected are terminal. Approval debits the year's leave balance and writes leave attendance rows for the covered dates.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Leave request ID"
// @Param review body models.LeaveReviewPayload true "Decision"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Request already reviewed"
// @Router /admin/leave/requests/{id}/review [put]
func (h *LeaveHandler) ReviewLeaveRequest(c *fiber.Ctx) error {
	claims, ok := c.Locals("employee").(*paseto.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid leave request ID"})
	}

	var payload models.LeaveReviewPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	request, err := h.leaveRepo.FindRequestByID(ctx, id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch leave request"})
	}
	if request == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Leave request not found"})
	}
	if !request.CanReview() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Leave request has already been reviewed"})
	}

	result, err := h.leaveRepo.ReviewRequest(ctx, id, payload.Status, claims.EmployeeID, payload.ReviewComment)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to review leave request"})
	}
	if result.MatchedCount == 0 {
		// Lost the race against another reviewer.
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Leave request has already been reviewed"})
	}

	if payload.Status == models.LeaveStatusApproved {
		h.applyApproval(ctx, request)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Leave request " + payload.Status})
}

// applyApproval debits the balance and marks the covered dates as leave in
// attendance. Ranges crossing a year boundary debit each calendar year for
// the days falling in it. Failures here do not roll back the approval
// itself; they are logged and get fixed by an admin correction.
func (h *LeaveHandler) applyApproval(ctx context.Context, request *models.LeaveRequest) {
	start, err := time.Parse("2006-01-02", request.StartDate)
	if err != nil {
		log.Printf("Cannot apply approval for request %s: bad start date %q", request.ID.Hex(), request.StartDate)
		return
	}

	now := time.Now()
	daysPerYear := make(map[int]int)
	for i := 0; i < request.TotalDays; i++ {
		day := start.AddDate(0, 0, i)
		daysPerYear[day.Year()]++

		attendance := &models.Attendance{
			ID:         primitive.NewObjectID(),
			EmployeeID: request.EmployeeID,
			Date:       day.Format("2006-01-02"),
			Status:     models.AttendanceStatusLeave,
			Notes:      "Approved leave",
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		// A present row for the same date wins; the unique index makes the
		// leave row a no-op there.
		if _, err := h.attendanceRepo.CreateAttendance(ctx, attendance); err != nil && !errors.Is(err, repository.ErrAttendanceExists) {
			log.Printf("Failed to write leave attendance for %s on %s: %v", request.EmployeeID.Hex(), attendance.Date, err)
		}
	}

	for year, days := range daysPerYear {
		if err := h.leaveRepo.AddUsedDays(ctx, request.EmployeeID, request.LeaveTypeID, year, days); err != nil {
			log.Printf("Failed to debit leave balance for %s (%d days in %d): %v", request.EmployeeID.Hex(), days, year, err)
		}
	}
}
