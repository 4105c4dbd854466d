package seeder

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"dayflow/models"
	"dayflow/repository"
)

// SeedLeaveTypes inserts the standard leave types on first run and then
// tops up the current-year balances for every active employee.
func SeedLeaveTypes(leaveRepo repository.LeaveRepository, employeeRepo *repository.EmployeeRepository) {
	log.Println("Seeding leave types...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	standardTypes := []models.LeaveType{
		{Name: "Annual Leave", Description: "Paid yearly vacation allowance", MaxDaysPerYear: 20, IsPaid: true},
		{Name: "Sick Leave", Description: "Paid leave for illness", MaxDaysPerYear: 10, IsPaid: true},
		{Name: "Casual Leave", Description: "Short-notice personal leave", MaxDaysPerYear: 7, IsPaid: true},
		{Name: "Unpaid Leave", Description: "Leave without pay", MaxDaysPerYear: 30, IsPaid: false},
	}

	existingTypes, err := leaveRepo.FindAllLeaveTypes(ctx)
	if err != nil {
		log.Printf("Failed to read leave types: %v", err)
		return
	}

	existingByName := make(map[string]models.LeaveType, len(existingTypes))
	for _, t := range existingTypes {
		existingByName[t.Name] = t
	}

	for i := range standardTypes {
		if found, ok := existingByName[standardTypes[i].Name]; ok {
			standardTypes[i] = found
			continue
		}
		if _, err := leaveRepo.CreateLeaveType(ctx, &standardTypes[i]); err != nil {
			log.Printf("Failed to seed leave type %q: %v", standardTypes[i].Name, err)
			continue
		}
		log.Printf("Leave type %q created.", standardTypes[i].Name)
	}

	seedBalances(ctx, leaveRepo, employeeRepo, standardTypes)
}

func seedBalances(ctx context.Context, leaveRepo repository.LeaveRepository, employeeRepo *repository.EmployeeRepository, types []models.LeaveType) {
	year := time.Now().Year()

	employees, _, err := employeeRepo.GetAllEmployees(ctx, bson.M{"is_active": true}, 1, 1000)
	if err != nil {
		log.Printf("Failed to list employees for balance seeding: %v", err)
		return
	}

	for _, employee := range employees {
		for _, leaveType := range types {
			if leaveType.ID.IsZero() {
				continue
			}
			existing, err := leaveRepo.FindBalance(ctx, employee.ID, leaveType.ID, year)
			if err != nil || existing != nil {
				continue
			}
			balance := &models.LeaveBalance{
				EmployeeID:  employee.ID,
				LeaveTypeID: leaveType.ID,
				Year:        year,
				TotalDays:   leaveType.MaxDaysPerYear,
			}
			if err := leaveRepo.UpsertBalance(ctx, balance); err != nil {
				log.Printf("Failed to seed balance for %s / %s: %v", employee.Email, leaveType.Name, err)
			}
		}
	}

	log.Println("Leave balances ensured for the current year.")
}
