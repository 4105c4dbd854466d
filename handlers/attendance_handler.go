package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"dayflow/models"
	"dayflow/pkg/paseto"
	util "dayflow/pkg/utils"
	"dayflow/repository"
)

type AttendanceHandler struct {
	repo repository.AttendanceRepository
}

func NewAttendanceHandler(repo repository.AttendanceRepository) *AttendanceHandler {
	return &AttendanceHandler{repo: repo}
}

const dateLayout = "2006-01-02"

// CheckIn godoc
// @Summary Check in for today
// @Description Creates today's attendance row with status present. Rejected when a row already exists for today.
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Attendance
// @Failure 409 {object} models.ErrorResponse "Already checked in today"
// @Router /attendance/check-in [post]
func (h *AttendanceHandler) CheckIn(c *fiber.Ctx) error {
	claims, ok := c.Locals("employee").(*paseto.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	now := time.Now()
	today := now.Format(dateLayout)

	existing, err := h.repo.FindByEmployeeAndDate(ctx, claims.EmployeeID, today)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check today's attendance"})
	}
	if existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Already checked in today"})
	}

	attendance := &models.Attendance{
		ID:         primitive.NewObjectID(),
		EmployeeID: claims.EmployeeID,
		Date:       today,
		CheckIn:    &now,
		Status:     models.AttendanceStatusPresent,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := h.repo.CreateAttendance(ctx, attendance); err != nil {
		// The unique (employee_id, date) index backstops a concurrent double
		// check-in that slipped past the lookup above.
		if errors.Is(err, repository.ErrAttendanceExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record check-in"})
	}

	return c.Status(fiber.StatusCreated).JSON(attendance)
}

// CheckOut godoc
// @Summary Check out for today
// @Description Stamps check_out on today's row. Requires a prior check-in without a check-out.
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Attendance
// @Failure 404 {object} models.ErrorResponse "No check-in today"
// @Failure 409 {object} models.ErrorResponse "Already checked out"
// @Router /attendance/check-out [post]
func (h *AttendanceHandler) CheckOut(c *fiber.Ctx) error {
	claims, ok := c.Locals("employee").(*paseto.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	now := time.Now()
	today := now.Format(dateLayout)

	attendance, err := h.repo.FindByEmployeeAndDate(ctx, claims.EmployeeID, today)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check today's attendance"})
	}
	if attendance == nil || attendance.CheckIn == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No check-in recorded for today"})
	}
	if attendance.CheckOut != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Already checked out today"})
	}

	if _, err := h.repo.UpdateCheckout(ctx, attendance.ID, now); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check out"})
	}

	attendance.CheckOut = &now
	attendance.UpdatedAt = now
	return c.Status(fiber.StatusOK).JSON(attendance)
}

type attendanceWithHours struct {
	models.Attendance
	HoursWorked *float64 `json:"hours_worked,omitempty"`
}

// GetMyAttendance godoc
// @Summary Own attendance history
// @Description Rows for the authenticated employee in a date range (defaults to the current week), with derived hours worked.
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "Range start (yyyy-mm-dd)"
// @Param end_date query string false "Range end (yyyy-mm-dd)"
// @Success 200 {array} models.Attendance
// @Router /attendance/me [get]
func (h *AttendanceHandler) GetMyAttendance(c *fiber.Ctx) error {
	claims, ok := c.Locals("employee").(*paseto.Claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	now := time.Now()
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	weekStart := now.AddDate(0, 0, 1-weekday)

	startDate := c.Query("start_date", weekStart.Format(dateLayout))
	endDate := c.Query("end_date", weekStart.AddDate(0, 0, 6).Format(dateLayout))
	if _, err := time.Parse(dateLayout, startDate); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date format"})
	}
	if _, err := time.Parse(dateLayout, endDate); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid end_date format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	history, err := h.repo.FindByEmployeeInRange(ctx, claims.EmployeeID, startDate, endDate)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch attendance history"})
	}

	results := make([]attendanceWithHours, 0, len(history))
	for _, a := range history {
		results = append(results, attendanceWithHours{Attendance: a, HoursWorked: a.HoursWorked()})
	}

	return c.Status(fiber.StatusOK).JSON(results)
}

// GetTodayAttendance godoc
// @Summary Today's attendance, all employees
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param date query string false "Day to list (yyyy-mm-dd, defaults to today)"
// @Success 200 {array} models.AttendanceWithEmployee
// @Router /admin/attendance/today [get]
func (h *AttendanceHandler) GetTodayAttendance(c *fiber.Ctx) error {
	date := c.Query("date", time.Now().Format(dateLayout))
	if _, err := time.Parse(dateLayout, date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date format"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	attendanceList, err := h.repo.GetDayAttendanceWithEmployees(ctx, date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch attendance list"})
	}

	return c.Status(fiber.StatusOK).JSON(attendanceList)
}

// GetAllAttendance godoc
// @Summary Attendance history, all employees
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param employee_id query string false "Filter by employee object ID"
// @Param status query string false "Filter by status"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 20)"
// @Success 200 {object} object{attendance=[]models.AttendanceWithEmployee,total=int}
// @Router /admin/attendance [get]
func (h *AttendanceHandler) GetAllAttendance(c *fiber.Ctx) error {
	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 20))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := bson.M{}
	if employeeID := c.Query("employee_id"); employeeID != "" {
		id, err := primitive.ObjectIDFromHex(employeeID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid employee_id"})
		}
		filter["employee_id"] = id
	}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	attendance, total, err := h.repo.GetAllWithEmployees(ctx, filter, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch attendance history"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"attendance": attendance,
		"total":      total,
	})
}

// UpdateAttendance godoc
// @Summary Correct an attendance row (admin)
// @Description Administrative origin of the absent, half-day and leave statuses; employees only ever produce present rows.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendance object ID"
// @Param attendance body models.AttendanceUpdatePayload true "Status and notes"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/attendance/{id} [put]
func (h *AttendanceHandler) UpdateAttendance(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid attendance ID"})
	}

	var payload models.AttendanceUpdatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	result, err := h.repo.UpdateAttendance(ctx, id, &payload)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update attendance"})
	}
	if result.MatchedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Attendance row not found"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Attendance updated"})
}
