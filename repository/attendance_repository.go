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

// ErrAttendanceExists reports a unique-index conflict on (employee, date).
var ErrAttendanceExists = errors.New("attendance already recorded for this date")

type AttendanceRepository interface {
	CreateAttendance(ctx context.Context, attendance *models.Attendance) (*mongo.InsertOneResult, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID primitive.ObjectID, date string) (*models.Attendance, error)
	UpdateCheckout(ctx context.Context, attendanceID primitive.ObjectID, checkOut time.Time) (*mongo.UpdateResult, error)
	UpdateAttendance(ctx context.Context, id primitive.ObjectID, payload *models.AttendanceUpdatePayload) (*mongo.UpdateResult, error)
	FindByEmployeeInRange(ctx context.Context, employeeID primitive.ObjectID, startDate, endDate string) ([]models.Attendance, error)
	GetDayAttendanceWithEmployees(ctx context.Context, date string) ([]models.AttendanceWithEmployee, error)
	GetAllWithEmployees(ctx context.Context, filter bson.M, page, limit int64) ([]models.AttendanceWithEmployee, int64, error)
}

type attendanceRepository struct {
	collection *mongo.Collection
}

func NewAttendanceRepository() AttendanceRepository {
	return &attendanceRepository{
		collection: config.GetCollection(config.AttendanceCollection),
	}
}

func (r *attendanceRepository) CreateAttendance(ctx context.Context, attendance *models.Attendance) (*mongo.InsertOneResult, error) {
	res, err := r.collection.InsertOne(ctx, attendance)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAttendanceExists
		}
		return nil, fmt.Errorf("failed to create attendance: %w", err)
	}
	return res, nil
}

func (r *attendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID primitive.ObjectID, date string) (*models.Attendance, error) {
	var attendance models.Attendance
	filter := bson.M{"employee_id": employeeID, "date": date}

	err := r.collection.FindOne(ctx, filter).Decode(&attendance)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find attendance by employee and date: %w", err)
	}
	return &attendance, nil
}

func (r *attendanceRepository) UpdateCheckout(ctx context.Context, attendanceID primitive.ObjectID, checkOut time.Time) (*mongo.UpdateResult, error) {
	update := bson.M{
		"$set": bson.M{
			"check_out":  checkOut,
			"updated_at": time.Now(),
		},
	}
	res, err := r.collection.UpdateByID(ctx, attendanceID, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update check-out: %w", err)
	}
	return res, nil
}

func (r *attendanceRepository) UpdateAttendance(ctx context.Context, id primitive.ObjectID, payload *models.AttendanceUpdatePayload) (*mongo.UpdateResult, error) {
	set := bson.M{
		"status":     payload.Status,
		"updated_at": time.Now(),
	}
	if payload.Notes != "" {
		set["notes"] = payload.Notes
	}

	res, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to update attendance: %w", err)
	}
	return res, nil
}

func (r *attendanceRepository) FindByEmployeeInRange(ctx context.Context, employeeID primitive.ObjectID, startDate, endDate string) ([]models.Attendance, error) {
	filter := bson.M{
		"employee_id": employeeID,
		"date": bson.M{
			"$gte": startDate,
			"$lte": endDate,
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find attendance history: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Attendance
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode attendance history: %w", err)
	}

	if len(results) == 0 {
		return []models.Attendance{}, nil
	}
	return results, nil
}

func employeeLookupStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: config.EmployeeCollection},
			{Key: "localField", Value: "employee_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "employeeDetails"},
		}}},
		{{Key: "$unwind", Value: "$employeeDetails"}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 1},
			{Key: "employee_id", Value: 1},
			{Key: "date", Value: 1},
			{Key: "check_in", Value: 1},
			{Key: "check_out", Value: 1},
			{Key: "status", Value: 1},
			{Key: "notes", Value: 1},
			{Key: "employee_code", Value: "$employeeDetails.employee_id"},
			{Key: "employee_name", Value: bson.D{{Key: "$concat", Value: bson.A{"$employeeDetails.first_name", " ", "$employeeDetails.last_name"}}}},
			{Key: "employee_email", Value: "$employeeDetails.email"},
			{Key: "department", Value: "$employeeDetails.department"},
			{Key: "designation", Value: "$employeeDetails.designation"},
			{Key: "profile_picture", Value: "$employeeDetails.profile_picture"},
		}}},
	}
}

func (r *attendanceRepository) GetDayAttendanceWithEmployees(ctx context.Context, date string) ([]models.AttendanceWithEmployee, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "date", Value: date}}}},
	}
	pipeline = append(pipeline, employeeLookupStages()...)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate day attendance: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.AttendanceWithEmployee
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode day attendance: %w", err)
	}

	if len(results) == 0 {
		return []models.AttendanceWithEmployee{}, nil
	}
	return results, nil
}

func (r *attendanceRepository) GetAllWithEmployees(ctx context.Context, filter bson.M, page, limit int64) ([]models.AttendanceWithEmployee, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance rows: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}, {Key: "check_in", Value: -1}}}},
		{{Key: "$skip", Value: (page - 1) * limit}},
		{{Key: "$limit", Value: limit}},
	}
	pipeline = append(pipeline, employeeLookupStages()...)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to aggregate attendance history: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.AttendanceWithEmployee
	if err = cursor.All(ctx, &results); err != nil {
		return nil, 0, fmt.Errorf("failed to decode attendance history: %w", err)
	}

	if len(results) == 0 {
		return []models.AttendanceWithEmployee{}, total, nil
	}
	return results, total, nil
}
