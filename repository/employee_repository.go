package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dayflow/config"
	"dayflow/models"
)

// ErrEmployeeExists reports a unique-index conflict on email or employee code.
var ErrEmployeeExists = errors.New("email or employee ID already exists")

type EmployeeRepository struct {
	collection           *mongo.Collection
	attendanceCollection *mongo.Collection
	leaveCollection      *mongo.Collection
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{
		collection:           config.GetCollection(config.EmployeeCollection),
		attendanceCollection: config.GetCollection(config.AttendanceCollection),
		leaveCollection:      config.GetCollection(config.LeaveRequestCollection),
	}
}

func (r *EmployeeRepository) CreateEmployee(ctx context.Context, employee *models.Employee) (*mongo.InsertOneResult, error) {
	employee.ID = primitive.NewObjectID()
	employee.CreatedAt = time.Now()
	employee.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, employee)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmployeeExists
		}
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	return result, nil
}

func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var employee models.Employee

	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&employee)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find employee by email: %w", err)
	}
	return &employee, nil
}

// FindActiveByEmail scopes the lookup to active rows, the way login does.
func (r *EmployeeRepository) FindActiveByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var employee models.Employee

	err := r.collection.FindOne(ctx, bson.M{"email": email, "is_active": true}).Decode(&employee)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active employee by email: %w", err)
	}
	return &employee, nil
}

func (r *EmployeeRepository) FindByEmployeeCode(ctx context.Context, code string) (*models.Employee, error) {
	var employee models.Employee

	err := r.collection.FindOne(ctx, bson.M{"employee_id": code}).Decode(&employee)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find employee by code: %w", err)
	}
	return &employee, nil
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error) {
	var employee models.Employee

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&employee)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find employee by ID: %w", err)
	}
	return &employee, nil
}

func (r *EmployeeRepository) UpdateEmployee(ctx context.Context, id primitive.ObjectID, updateData bson.M) (*mongo.UpdateResult, error) {
	updateData["updated_at"] = time.Now()
	update := bson.M{"$set": updateData}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmployeeExists
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	return result, nil
}

func (r *EmployeeRepository) DeleteEmployee(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to delete employee: %w", err)
	}
	return result, nil
}

func (r *EmployeeRepository) GetAllEmployees(ctx context.Context, filter bson.M, page, limit int64) ([]models.Employee, int64, error) {
	findOptions := options.Find()
	findOptions.SetSkip((page - 1) * limit)
	findOptions.SetLimit(limit)
	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find employees: %w", err)
	}
	defer cursor.Close(ctx)

	var employees []models.Employee
	if err = cursor.All(ctx, &employees); err != nil {
		return nil, 0, fmt.Errorf("failed to decode employees: %w", err)
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	return employees, total, nil
}

func (r *EmployeeRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error {
	update := bson.M{
		"$set": bson.M{
			"password":   hashedPassword,
			"updated_at": time.Now(),
		},
	}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// SetActive flips the soft-deactivation flag instead of removing the row.
func (r *EmployeeRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) (*mongo.UpdateResult, error) {
	update := bson.M{
		"$set": bson.M{
			"is_active":  active,
			"updated_at": time.Now(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update active flag: %w", err)
	}
	return result, nil
}

func (r *EmployeeRepository) GetDashboardStats(ctx context.Context, pendingLeaves int64) (*models.DashboardStats, error) {
	totalEmployees, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count employees: %w", err)
	}

	activeEmployees, err := r.collection.CountDocuments(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, fmt.Errorf("failed to count active employees: %w", err)
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	newJoiners, err := r.collection.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": thirtyDaysAgo}})
	if err != nil {
		return nil, fmt.Errorf("failed to count new joiners: %w", err)
	}

	today := time.Now().Format("2006-01-02")
	presentToday, err := r.attendanceCollection.CountDocuments(ctx, bson.M{"date": today, "status": models.AttendanceStatusPresent})
	if err != nil {
		return nil, fmt.Errorf("failed to count today's attendance: %w", err)
	}

	onLeaveToday, err := r.attendanceCollection.CountDocuments(ctx, bson.M{"date": today, "status": models.AttendanceStatusLeave})
	if err != nil {
		return nil, fmt.Errorf("failed to count employees on leave: %w", err)
	}

	pipeline := []bson.M{
		{"$match": bson.M{"department": bson.M{"$ne": ""}}},
		{"$group": bson.M{
			"_id":   "$department",
			"count": bson.M{"$sum": 1},
		}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate department distribution: %w", err)
	}
	defer cursor.Close(ctx)

	var departmentCounts []models.DepartmentCount
	if err = cursor.All(ctx, &departmentCounts); err != nil {
		return nil, fmt.Errorf("failed to decode department distribution: %w", err)
	}

	return &models.DashboardStats{
		TotalEmployees:         totalEmployees,
		ActiveEmployees:        activeEmployees,
		PresentToday:           presentToday,
		OnLeaveToday:           onLeaveToday,
		PendingLeaveRequests:   pendingLeaves,
		NewJoinersLast30Days:   newJoiners,
		DepartmentDistribution: departmentCounts,
	}, nil
}
