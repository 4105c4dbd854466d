package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"dayflow/models"
	"dayflow/pkg/paseto"
)

type fakeLeaveRepo struct {
	leaveType     *models.LeaveType
	balance       *models.LeaveBalance
	request       *models.LeaveRequest
	created       []*models.LeaveRequest
	upserted      []*models.LeaveBalance
	debits        map[int]int
	debitErr      error
	reviewMatched int64
}

func (f *fakeLeaveRepo) CreateLeaveType(ctx context.Context, leaveType *models.LeaveType) (*mongo.InsertOneResult, error) {
	return &mongo.InsertOneResult{}, nil
}

func (f *fakeLeaveRepo) FindAllLeaveTypes(ctx context.Context) ([]models.LeaveType, error) {
	return []models.LeaveType{}, nil
}

func (f *fakeLeaveRepo) FindLeaveTypeByID(ctx context.Context, id primitive.ObjectID) (*models.LeaveType, error) {
	return f.leaveType, nil
}

func (f *fakeLeaveRepo) UpdateLeaveType(ctx context.Context, id primitive.ObjectID, payload *models.LeaveTypePayload) (*mongo.UpdateResult, error) {
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (f *fakeLeaveRepo) DeleteLeaveType(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func (f *fakeLeaveRepo) CreateRequest(ctx context.Context, req *models.LeaveRequest) (*mongo.InsertOneResult, error) {
	f.created = append(f.created, req)
	return &mongo.InsertOneResult{InsertedID: req.ID}, nil
}

func (f *fakeLeaveRepo) FindRequestByID(ctx context.Context, id primitive.ObjectID) (*models.LeaveRequest, error) {
	return f.request, nil
}

func (f *fakeLeaveRepo) FindRequestsByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.LeaveRequest, error) {
	return []models.LeaveRequest{}, nil
}

func (f *fakeLeaveRepo) FindAllRequestsWithDetails(ctx context.Context, filter bson.M) ([]models.LeaveRequestWithDetails, error) {
	return []models.LeaveRequestWithDetails{}, nil
}

func (f *fakeLeaveRepo) ReviewRequest(ctx context.Context, id primitive.ObjectID, status string, reviewerID primitive.ObjectID, comment string) (*mongo.UpdateResult, error) {
	return &mongo.UpdateResult{MatchedCount: f.reviewMatched}, nil
}

func (f *fakeLeaveRepo) CountPendingRequests(ctx context.Context) (int64, error) {
	return 0, nil
}

func (f *fakeLeaveRepo) FindBalancesByEmployee(ctx context.Context, employeeID primitive.ObjectID, year int) ([]models.LeaveBalanceWithType, error) {
	return []models.LeaveBalanceWithType{}, nil
}

func (f *fakeLeaveRepo) FindBalance(ctx context.Context, employeeID, leaveTypeID primitive.ObjectID, year int) (*models.LeaveBalance, error) {
	return f.balance, nil
}

func (f *fakeLeaveRepo) UpsertBalance(ctx context.Context, balance *models.LeaveBalance) error {
	f.upserted = append(f.upserted, balance)
	f.balance = balance
	return nil
}

func (f *fakeLeaveRepo) AddUsedDays(ctx context.Context, employeeID, leaveTypeID primitive.ObjectID, year, days int) error {
	if f.debits == nil {
		f.debits = make(map[int]int)
	}
	f.debits[year] += days
	return f.debitErr
}

type fakeAttendanceRepo struct {
	rows      []*models.Attendance
	createErr error
	existing  *models.Attendance
}

func (f *fakeAttendanceRepo) CreateAttendance(ctx context.Context, attendance *models.Attendance) (*mongo.InsertOneResult, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.rows = append(f.rows, attendance)
	return &mongo.InsertOneResult{InsertedID: attendance.ID}, nil
}

func (f *fakeAttendanceRepo) FindByEmployeeAndDate(ctx context.Context, employeeID primitive.ObjectID, date string) (*models.Attendance, error) {
	return f.existing, nil
}

func (f *fakeAttendanceRepo) UpdateCheckout(ctx context.Context, attendanceID primitive.ObjectID, checkOut time.Time) (*mongo.UpdateResult, error) {
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (f *fakeAttendanceRepo) UpdateAttendance(ctx context.Context, id primitive.ObjectID, payload *models.AttendanceUpdatePayload) (*mongo.UpdateResult, error) {
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (f *fakeAttendanceRepo) FindByEmployeeInRange(ctx context.Context, employeeID primitive.ObjectID, startDate, endDate string) ([]models.Attendance, error) {
	return []models.Attendance{}, nil
}

func (f *fakeAttendanceRepo) GetDayAttendanceWithEmployees(ctx context.Context, date string) ([]models.AttendanceWithEmployee, error) {
	return []models.AttendanceWithEmployee{}, nil
}

func (f *fakeAttendanceRepo) GetAllWithEmployees(ctx context.Context, filter bson.M, page, limit int64) ([]models.AttendanceWithEmployee, int64, error) {
	return []models.AttendanceWithEmployee{}, 0, nil
}

func withClaims(claims *paseto.Claims) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("employee", claims)
		return c.Next()
	}
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func newLeaveTestApp(leaveRepo *fakeLeaveRepo, attendanceRepo *fakeAttendanceRepo, claims *paseto.Claims) *fiber.App {
	handler := NewLeaveHandler(leaveRepo, attendanceRepo)

	app := fiber.New()
	app.Use(withClaims(claims))
	app.Post("/leave/requests", handler.CreateLeaveRequest)
	app.Put("/admin/leave/requests/:id/review", handler.ReviewLeaveRequest)
	return app
}

func TestCreateLeaveRequestWithoutBalanceRow(t *testing.T) {
	claims := &paseto.Claims{EmployeeID: primitive.NewObjectID(), Role: models.RoleEmployee}
	leaveType := &models.LeaveType{ID: primitive.NewObjectID(), Name: "Annual Leave", MaxDaysPerYear: 20, IsPaid: true}

	t.Run("range exceeding the yearly allowance is rejected", func(t *testing.T) {
		leaveRepo := &fakeLeaveRepo{leaveType: leaveType}
		app := newLeaveTestApp(leaveRepo, &fakeAttendanceRepo{}, claims)

		resp := postJSON(t, app, "/leave/requests", models.LeaveRequestCreatePayload{
			LeaveTypeID: leaveType.ID.Hex(),
			StartDate:   "2026-01-01",
			EndDate:     "2026-12-31",
		})

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Empty(t, leaveRepo.created)

		// The missing balance row was opened from the type's allowance.
		require.Len(t, leaveRepo.upserted, 1)
		assert.Equal(t, 20, leaveRepo.upserted[0].TotalDays)
		assert.Equal(t, 2026, leaveRepo.upserted[0].Year)
	})

	t.Run("range within the yearly allowance is accepted", func(t *testing.T) {
		leaveRepo := &fakeLeaveRepo{leaveType: leaveType}
		app := newLeaveTestApp(leaveRepo, &fakeAttendanceRepo{}, claims)

		resp := postJSON(t, app, "/leave/requests", models.LeaveRequestCreatePayload{
			LeaveTypeID: leaveType.ID.Hex(),
			StartDate:   "2026-03-02",
			EndDate:     "2026-03-06",
		})

		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		require.Len(t, leaveRepo.created, 1)
		assert.Equal(t, 5, leaveRepo.created[0].TotalDays)
		assert.Equal(t, models.LeaveStatusPending, leaveRepo.created[0].Status)
	})

	t.Run("exhausted balance is rejected", func(t *testing.T) {
		leaveRepo := &fakeLeaveRepo{
			leaveType: leaveType,
			balance: &models.LeaveBalance{
				EmployeeID:    claims.EmployeeID,
				LeaveTypeID:   leaveType.ID,
				Year:          2026,
				TotalDays:     20,
				UsedDays:      19,
				RemainingDays: 1,
			},
		}
		app := newLeaveTestApp(leaveRepo, &fakeAttendanceRepo{}, claims)

		resp := postJSON(t, app, "/leave/requests", models.LeaveRequestCreatePayload{
			LeaveTypeID: leaveType.ID.Hex(),
			StartDate:   "2026-03-02",
			EndDate:     "2026-03-03",
		})

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Empty(t, leaveRepo.created)
	})
}

func reviewRequest(t *testing.T, app *fiber.App, id primitive.ObjectID, status string) *http.Response {
	t.Helper()

	payload, err := json.Marshal(models.LeaveReviewPayload{Status: status})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/admin/leave/requests/"+id.Hex()+"/review", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestReviewApprovalDebitsEachCalendarYear(t *testing.T) {
	reviewer := &paseto.Claims{EmployeeID: primitive.NewObjectID(), Role: models.RoleAdmin}
	request := &models.LeaveRequest{
		ID:          primitive.NewObjectID(),
		EmployeeID:  primitive.NewObjectID(),
		LeaveTypeID: primitive.NewObjectID(),
		StartDate:   "2026-12-30",
		EndDate:     "2027-01-02",
		TotalDays:   4,
		Status:      models.LeaveStatusPending,
	}

	leaveRepo := &fakeLeaveRepo{request: request, reviewMatched: 1}
	attendanceRepo := &fakeAttendanceRepo{}
	app := newLeaveTestApp(leaveRepo, attendanceRepo, reviewer)

	resp := reviewRequest(t, app, request.ID, models.LeaveStatusApproved)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, map[int]int{2026: 2, 2027: 2}, leaveRepo.debits)

	require.Len(t, attendanceRepo.rows, 4)
	assert.Equal(t, "2026-12-30", attendanceRepo.rows[0].Date)
	assert.Equal(t, "2027-01-02", attendanceRepo.rows[3].Date)
	for _, row := range attendanceRepo.rows {
		assert.Equal(t, models.AttendanceStatusLeave, row.Status)
		assert.Equal(t, request.EmployeeID, row.EmployeeID)
	}
}

func TestReviewRejectionLeavesBalanceUntouched(t *testing.T) {
	reviewer := &paseto.Claims{EmployeeID: primitive.NewObjectID(), Role: models.RoleHR}
	request := &models.LeaveRequest{
		ID:          primitive.NewObjectID(),
		EmployeeID:  primitive.NewObjectID(),
		LeaveTypeID: primitive.NewObjectID(),
		StartDate:   "2026-03-02",
		EndDate:     "2026-03-06",
		TotalDays:   5,
		Status:      models.LeaveStatusPending,
	}

	leaveRepo := &fakeLeaveRepo{request: request, reviewMatched: 1}
	attendanceRepo := &fakeAttendanceRepo{}
	app := newLeaveTestApp(leaveRepo, attendanceRepo, reviewer)

	resp := reviewRequest(t, app, request.ID, models.LeaveStatusRejected)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Empty(t, leaveRepo.debits)
	assert.Empty(t, attendanceRepo.rows)
}

func TestReviewAlreadyReviewedConflicts(t *testing.T) {
	reviewer := &paseto.Claims{EmployeeID: primitive.NewObjectID(), Role: models.RoleAdmin}
	request := &models.LeaveRequest{
		ID:        primitive.NewObjectID(),
		StartDate: "2026-03-02",
		EndDate:   "2026-03-06",
		TotalDays: 5,
		Status:    models.LeaveStatusApproved,
	}

	leaveRepo := &fakeLeaveRepo{request: request}
	app := newLeaveTestApp(leaveRepo, &fakeAttendanceRepo{}, reviewer)

	resp := reviewRequest(t, app, request.ID, models.LeaveStatusRejected)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Empty(t, leaveRepo.debits)
}
