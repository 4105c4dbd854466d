package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"dayflow/config"
	_ "dayflow/docs"
	"dayflow/pkg/paseto"
	"dayflow/repository"
	"dayflow/router"
	"dayflow/seeder"
	_ "time/tzdata"
)

// @title Dayflow HR API
// @version 1.0
// @description HR management API covering employees, attendance, leave workflows and payroll.
//
// @contact.name API Support
// @contact.email support@dayflow.dev
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:3000
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the PASETO token.
//
// @tag.name Auth
// @tag.description Authentication endpoints
//
// @tag.name Employees
// @tag.description Employee profile endpoints
//
// @tag.name Attendance
// @tag.description Daily check-in and check-out
//
// @tag.name Leave
// @tag.description Leave types, requests and balances
//
// @tag.name Payroll
// @tag.description Salary structure and payroll history
//
// @tag.name WorkSchedules
// @tag.description Company work schedule and holidays
//
// @tag.name Admin
// @tag.description Admin and HR only endpoints
func main() {
	cfg := config.LoadConfig()

	config.MongoConnect()
	defer config.DisconnectDB()
	config.InitDatabase()

	tokenMaker, err := paseto.NewMaker(cfg.PasetoSecret)
	if err != nil {
		log.Fatalf("Failed to initialize token maker: %v", err)
	}

	employeeRepo := repository.NewEmployeeRepository()
	leaveRepo := repository.NewLeaveRepository()
	seeder.SeedAdmin(employeeRepo)
	seeder.SeedLeaveTypes(leaveRepo, employeeRepo)

	app := fiber.New()

	config.SetupCORS(app)
	app.Use(logger.New())

	router.SetupRoutes(app, tokenMaker, cfg)

	log.Printf("Server running on port %s", cfg.Port)
	log.Printf("API documentation: http://localhost:%s/docs/index.html", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
