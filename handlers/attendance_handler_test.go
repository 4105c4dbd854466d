package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"dayflow/models"
	"dayflow/pkg/paseto"
	"dayflow/repository"
)

func newAttendanceTestApp(repo *fakeAttendanceRepo) *fiber.App {
	handler := NewAttendanceHandler(repo)

	app := fiber.New()
	app.Use(withClaims(&paseto.Claims{EmployeeID: primitive.NewObjectID(), Role: models.RoleEmployee}))
	app.Post("/attendance/check-in", handler.CheckIn)
	app.Post("/attendance/check-out", handler.CheckOut)
	return app
}

func checkIn(t *testing.T, app *fiber.App) *http.Response {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/attendance/check-in", nil))
	require.NoError(t, err)
	return resp
}

func TestCheckIn(t *testing.T) {
	t.Run("first check-in of the day", func(t *testing.T) {
		repo := &fakeAttendanceRepo{}
		resp := checkIn(t, newAttendanceTestApp(repo))

		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		require.Len(t, repo.rows, 1)
		assert.Equal(t, models.AttendanceStatusPresent, repo.rows[0].Status)
		assert.NotNil(t, repo.rows[0].CheckIn)
		assert.Nil(t, repo.rows[0].CheckOut)
	})

	t.Run("existing row conflicts", func(t *testing.T) {
		now := time.Now()
		repo := &fakeAttendanceRepo{existing: &models.Attendance{CheckIn: &now}}
		resp := checkIn(t, newAttendanceTestApp(repo))

		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("index race maps to conflict", func(t *testing.T) {
		repo := &fakeAttendanceRepo{createErr: repository.ErrAttendanceExists}
		resp := checkIn(t, newAttendanceTestApp(repo))

		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("other insert failures map to internal error", func(t *testing.T) {
		repo := &fakeAttendanceRepo{createErr: errors.New("connection reset")}
		resp := checkIn(t, newAttendanceTestApp(repo))

		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	})
}

func TestCheckOut(t *testing.T) {
	t.Run("without a check-in", func(t *testing.T) {
		app := newAttendanceTestApp(&fakeAttendanceRepo{})
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/attendance/check-out", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("already checked out", func(t *testing.T) {
		now := time.Now()
		app := newAttendanceTestApp(&fakeAttendanceRepo{existing: &models.Attendance{CheckIn: &now, CheckOut: &now}})
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/attendance/check-out", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("open row is closed", func(t *testing.T) {
		now := time.Now()
		app := newAttendanceTestApp(&fakeAttendanceRepo{existing: &models.Attendance{ID: primitive.NewObjectID(), CheckIn: &now}})
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/attendance/check-out", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
