package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"dayflow/models"
	"dayflow/pkg/paseto"
	util "dayflow/pkg/utils"
)

func newTestApp(t *testing.T) (*fiber.App, *paseto.Maker) {
	t.Helper()

	key, err := util.GenerateBase64Key(32)
	require.NoError(t, err)

	maker, err := paseto.NewMaker(key)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/protected", AuthMiddleware(maker), func(c *fiber.Ctx) error {
		claims := c.Locals("employee").(*paseto.Claims)
		return c.JSON(fiber.Map{"email": claims.Email})
	})
	app.Get("/admin", AuthMiddleware(maker), AdminMiddleware(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	return app, maker
}

func tokenFor(t *testing.T, maker *paseto.Maker, role string) string {
	t.Helper()

	token, err := maker.GenerateToken(&models.Employee{
		ID:         primitive.NewObjectID(),
		EmployeeID: "EMP007",
		Email:      "sam@dayflow.com",
		Role:       role,
	})
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	app, maker := newTestApp(t)

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abcdef")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-real-token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, maker, models.RoleEmployee))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestAdminMiddleware(t *testing.T) {
	app, maker := newTestApp(t)

	tests := []struct {
		role string
		want int
	}{
		{models.RoleAdmin, fiber.StatusOK},
		{models.RoleHR, fiber.StatusOK},
		{models.RoleEmployee, fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, maker, tt.role))
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
