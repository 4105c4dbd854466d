package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/teambition/rrule-go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"dayflow/models"
	util "dayflow/pkg/utils"
	"dayflow/repository"
)

type WorkScheduleHandler struct {
	scheduleRepo  *repository.WorkScheduleRepository
	holidayAPIURL string
}

func NewWorkScheduleHandler(scheduleRepo *repository.WorkScheduleRepository, holidayAPIURL string) *WorkScheduleHandler {
	return &WorkScheduleHandler{
		scheduleRepo:  scheduleRepo,
		holidayAPIURL: holidayAPIURL,
	}
}

// CreateWorkSchedule godoc
// @Summary Create a work schedule rule (admin)
// @Description A rule is either a single dated entry or, with a recurrence rule, a pattern expanded over requested ranges.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param schedule body models.WorkSchedulePayload true "Schedule rule"
// @Success 201 {object} models.WorkSchedule
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/work-schedules [post]
func (h *WorkScheduleHandler) CreateWorkSchedule(c *fiber.Ctx) error {
	var payload models.WorkSchedulePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	if payload.RecurrenceRule != "" {
		if _, err := rrule.StrToROption(payload.RecurrenceRule); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid recurrence rule", "details": err.Error()})
		}
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	schedule := &models.WorkSchedule{
		Date:           strings.TrimSpace(payload.Date),
		StartTime:      strings.TrimSpace(payload.StartTime),
		EndTime:        strings.TrimSpace(payload.EndTime),
		Note:           payload.Note,
		RecurrenceRule: payload.RecurrenceRule,
	}

	created, err := h.scheduleRepo.Create(ctx, schedule)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create work schedule"})
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetWorkScheduleByID godoc
// @Summary Fetch a schedule rule
// @Tags WorkSchedules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule rule ID"
// @Success 200 {object} models.WorkSchedule
// @Failure 404 {object} models.ErrorResponse
// @Router /work-schedules/{id} [get]
func (h *WorkScheduleHandler) GetWorkScheduleByID(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid work schedule ID"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	schedule, err := h.scheduleRepo.FindByID(ctx, id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch work schedule"})
	}
	if schedule == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Work schedule not found"})
	}

	return c.Status(fiber.StatusOK).JSON(schedule)
}

// GetWorkSchedules godoc
// @Summary Expanded work schedule for a date range
// @Description Expands recurrence rules over the range and drops national holidays.
// @Tags WorkSchedules
// @Produce json
// @Security BearerAuth
// @Param start_date query string true "Range start (yyyy-mm-dd)"
// @Param end_date query string true "Range end (yyyy-mm-dd)"
// @Success 200 {array} models.WorkSchedule
// @Failure 400 {object} models.ErrorResponse
// @Router /work-schedules [get]
func (h *WorkScheduleHandler) GetWorkSchedules(c *fiber.Ctx) error {
	const layout = "2006-01-02"

	startDate, err := time.Parse(layout, c.Query("start_date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date format"})
	}
	endDate, err := time.Parse(layout, c.Query("end_date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid end_date format"})
	}
	if endDate.Before(startDate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_date must not precede start_date"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	rules, err := h.scheduleRepo.FindAll(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch schedule rules"})
	}

	holidayMap, err := util.GetHolidayMap(h.holidayAPIURL, startDate.Format("2006"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch holidays"})
	}
	if startDate.Year() != endDate.Year() {
		if nextYear, err := util.GetHolidayMap(h.holidayAPIURL, endDate.Format("2006")); err == nil {
			for date, val := range nextYear {
				holidayMap[date] = val
			}
		}
	}

	schedules := []models.WorkSchedule{}

	for _, rule := range rules {
		if rule.RecurrenceRule != "" {
			rOption, err := rrule.StrToROption(rule.RecurrenceRule)
			if err != nil {
				continue
			}

			ruleStart, err := time.Parse(layout, rule.Date)
			if err != nil {
				continue
			}
			rOption.Dtstart = ruleStart

			rr, err := rrule.NewRRule(*rOption)
			if err != nil {
				continue
			}

			ruleSet := rrule.Set{}
			ruleSet.RRule(rr)

			for _, instance := range ruleSet.Between(startDate, endDate, true) {
				instanceDate := instance.Format(layout)
				if holidayMap[instanceDate] {
					continue
				}
				schedules = append(schedules, models.WorkSchedule{
					ID:             rule.ID,
					Date:           instanceDate,
					StartTime:      rule.StartTime,
					EndTime:        rule.EndTime,
					Note:           rule.Note,
					RecurrenceRule: rule.RecurrenceRule,
				})
			}
			continue
		}

		ruleDate, err := time.Parse(layout, rule.Date)
		if err != nil {
			continue
		}
		if !ruleDate.Before(startDate) && !ruleDate.After(endDate) && !holidayMap[rule.Date] {
			schedules = append(schedules, rule)
		}
	}

	return c.Status(fiber.StatusOK).JSON(schedules)
}

// GetHolidays godoc
// @Summary National holidays for a year
// @Tags WorkSchedules
// @Produce json
// @Security BearerAuth
// @Param year query string false "Year (defaults to current)"
// @Success 200 {array} models.Holiday
// @Router /work-schedules/holidays [get]
func (h *WorkScheduleHandler) GetHolidays(c *fiber.Ctx) error {
	year := c.Query("year", time.Now().Format("2006"))

	holidays, err := util.GetHolidays(h.holidayAPIURL, year)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch holidays"})
	}

	return c.Status(fiber.StatusOK).JSON(holidays)
}

// UpdateWorkSchedule godoc
// @Summary Update a schedule rule (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule rule ID"
// @Param schedule body models.WorkSchedulePayload true "Schedule rule"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/work-schedules/{id} [put]
func (h *WorkScheduleHandler) UpdateWorkSchedule(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid work schedule ID"})
	}

	var payload models.WorkSchedulePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errs := util.ValidateStruct(payload); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	if payload.RecurrenceRule != "" {
		if _, err := rrule.StrToROption(payload.RecurrenceRule); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid recurrence rule", "details": err.Error()})
		}
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	if err := h.scheduleRepo.UpdateByID(ctx, id, &payload); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Work schedule not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update work schedule"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Work schedule updated"})
}

// DeleteWorkSchedule godoc
// @Summary Delete a schedule rule (admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule rule ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/work-schedules/{id} [delete]
func (h *WorkScheduleHandler) DeleteWorkSchedule(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid work schedule ID"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	if err := h.scheduleRepo.DeleteByID(ctx, id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Work schedule not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete work schedule"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Work schedule deleted"})
}
