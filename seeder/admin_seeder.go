package seeder

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"dayflow/models"
	"dayflow/pkg/password"
	"dayflow/repository"
)

// SeedAdmin guarantees a first admin account exists so a fresh deployment
// can be logged into. Safe to call on every start.
func SeedAdmin(employeeRepo *repository.EmployeeRepository) {
	log.Println("Seeding admin account...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminEmail := "admin@dayflow.com"
	existing, err := employeeRepo.FindByEmail(ctx, adminEmail)
	if err == nil && existing != nil {
		log.Println("Admin account already exists, skipping.")
		return
	}

	hashedPassword, err := password.HashPassword("admin123")
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin := &models.Employee{
		ID:          primitive.NewObjectID(),
		EmployeeID:  "EMP001",
		Email:       adminEmail,
		Password:    hashedPassword,
		Role:        models.RoleAdmin,
		FirstName:   "System",
		LastName:    "Administrator",
		Department:  "Management",
		Designation: "HR Administrator",
		IsActive:    true,
	}

	if _, err := employeeRepo.CreateEmployee(ctx, admin); err != nil {
		log.Printf("Failed to seed admin account: %v", err)
		return
	}
	log.Printf("Admin account (%s) created.", admin.Email)
}
