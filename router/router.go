package router

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"dayflow/config"
	"dayflow/config/middleware"
	_ "dayflow/docs"
	"dayflow/handlers"
	"dayflow/pkg/paseto"
	"dayflow/repository"
)

func SetupRoutes(app *fiber.App, tokenMaker *paseto.Maker, cfg *config.AppConfig) {
	// Repositories
	employeeRepo := repository.NewEmployeeRepository()
	attendanceRepo := repository.NewAttendanceRepository()
	leaveRepo := repository.NewLeaveRepository()
	payrollRepo := repository.NewPayrollRepository()
	scheduleRepo := repository.NewWorkScheduleRepository()

	// Handlers
	authHandler := handlers.NewAuthHandler(employeeRepo, tokenMaker)
	employeeHandler := handlers.NewEmployeeHandler(employeeRepo, leaveRepo)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceRepo)
	leaveHandler := handlers.NewLeaveHandler(leaveRepo, attendanceRepo)
	payrollHandler := handlers.NewPayrollHandler(payrollRepo, employeeRepo)
	scheduleHandler := handlers.NewWorkScheduleHandler(scheduleRepo, cfg.HolidayAPIURL)

	// Health check & docs
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Dayflow HR API",
			"status":  "running",
			"docs":    "/docs/index.html",
		})
	})
	app.Get("/docs/*", swagger.HandlerDefault)

	api := app.Group("/api/v1")

	// Authentication
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", middleware.AuthMiddleware(tokenMaker), authHandler.Logout)

	// Employees
	employeeGroup := api.Group("/employees", middleware.AuthMiddleware(tokenMaker))
	employeeGroup.Post("/change-password", authHandler.ChangePassword)
	employeeGroup.Get("/:id", employeeHandler.GetEmployeeByID)
	employeeGroup.Put("/:id", employeeHandler.UpdateEmployee)
	employeeGroup.Get("/:id/badge", employeeHandler.GetEmployeeBadge)

	// Attendance
	attendanceGroup := api.Group("/attendance", middleware.AuthMiddleware(tokenMaker))
	attendanceGroup.Post("/check-in", attendanceHandler.CheckIn)
	attendanceGroup.Post("/check-out", attendanceHandler.CheckOut)
	attendanceGroup.Get("/me", attendanceHandler.GetMyAttendance)

	// Leave
	leaveGroup := api.Group("/leave", middleware.AuthMiddleware(tokenMaker))
	leaveGroup.Get("/types", leaveHandler.GetLeaveTypes)
	leaveGroup.Post("/requests", leaveHandler.CreateLeaveRequest)
	leaveGroup.Get("/requests/me", leaveHandler.GetMyLeaveRequests)
	leaveGroup.Get("/balances/me", leaveHandler.GetMyLeaveBalances)

	// Payroll
	payrollGroup := api.Group("/payroll", middleware.AuthMiddleware(tokenMaker))
	payrollGroup.Get("/salary/me", payrollHandler.GetMySalaryStructure)
	payrollGroup.Get("/me", payrollHandler.GetMyPayroll)

	// Work schedules
	scheduleGroup := api.Group("/work-schedules", middleware.AuthMiddleware(tokenMaker))
	scheduleGroup.Get("/", scheduleHandler.GetWorkSchedules)
	scheduleGroup.Get("/holidays", scheduleHandler.GetHolidays)
	scheduleGroup.Get("/:id", scheduleHandler.GetWorkScheduleByID)

	// Admin
	adminGroup := api.Group("/admin", middleware.AuthMiddleware(tokenMaker), middleware.AdminMiddleware())
	adminGroup.Get("/employees", employeeHandler.GetAllEmployees)
	adminGroup.Post("/employees", employeeHandler.CreateEmployee)
	adminGroup.Put("/employees/:id/deactivate", employeeHandler.DeactivateEmployee)
	adminGroup.Delete("/employees/:id", employeeHandler.DeleteEmployee)
	adminGroup.Get("/dashboard-stats", employeeHandler.GetDashboardStats)

	adminGroup.Get("/attendance", attendanceHandler.GetAllAttendance)
	adminGroup.Get("/attendance/today", attendanceHandler.GetTodayAttendance)
	adminGroup.Put("/attendance/:id", attendanceHandler.UpdateAttendance)

	adminGroup.Post("/leave/types", leaveHandler.CreateLeaveType)
	adminGroup.Put("/leave/types/:id", leaveHandler.UpdateLeaveType)
	adminGroup.Delete("/leave/types/:id", leaveHandler.DeleteLeaveType)
	adminGroup.Get("/leave/requests", leaveHandler.GetAllLeaveRequests)
	adminGroup.Put("/leave/requests/:id/review", leaveHandler.ReviewLeaveRequest)

	adminGroup.Get("/salary/:employeeId", payrollHandler.GetSalaryStructure)
	adminGroup.Put("/salary/:employeeId", payrollHandler.UpsertSalaryStructure)
	adminGroup.Post("/payroll/run", payrollHandler.RunPayroll)
	adminGroup.Get("/payroll", payrollHandler.GetAllPayroll)
	adminGroup.Put("/payroll/:id/status", payrollHandler.UpdatePayrollStatus)

	adminGroup.Post("/work-schedules", scheduleHandler.CreateWorkSchedule)
	adminGroup.Put("/work-schedules/:id", scheduleHandler.UpdateWorkSchedule)
	adminGroup.Delete("/work-schedules/:id", scheduleHandler.DeleteWorkSchedule)

	log.Println("All routes registered. Swagger available at /docs/index.html")
}
