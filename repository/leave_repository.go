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

type LeaveRepository interface {
	// Leave types
	CreateLeaveType(ctx context.Context, leaveType *models.LeaveType) (*mongo.InsertOneResult, error)
	FindAllLeaveTypes(ctx context.Context) ([]models.LeaveType, error)
	FindLeaveTypeByID(ctx context.Context, id primitive.ObjectID) (*models.LeaveType, error)
	UpdateLeaveType(ctx context.Context, id primitive.ObjectID, payload *models.LeaveTypePayload) (*mongo.UpdateResult, error)
	DeleteLeaveType(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error)

	// Leave requests
	CreateRequest(ctx context.Context, req *models.LeaveRequest) (*mongo.InsertOneResult, error)
	FindRequestByID(ctx context.Context, id primitive.ObjectID) (*models.LeaveRequest, error)
	FindRequestsByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.LeaveRequest, error)
	FindAllRequestsWithDetails(ctx context.Context, filter bson.M) ([]models.LeaveRequestWithDetails, error)
	ReviewRequest(ctx context.Context, id primitive.ObjectID, status string, reviewerID primitive.ObjectID, comment string) (*mongo.UpdateResult, error)
	CountPendingRequests(ctx context.Context) (int64, error)

	// Leave balances
	FindBalancesByEmployee(ctx context.Context, employeeID primitive.ObjectID, year int) ([]models.LeaveBalanceWithType, error)
	FindBalance(ctx context.Context, employeeID, leaveTypeID primitive.ObjectID, year int) (*models.LeaveBalance, error)
	UpsertBalance(ctx context.Context, balance *models.LeaveBalance) error
	AddUsedDays(ctx context.Context, employeeID, leaveTypeID primitive.ObjectID, year, days int) error
}

type leaveRepository struct {
	typeCollection    *mongo.Collection
	requestCollection *mongo.Collection
	balanceCollection *mongo.Collection
}

func NewLeaveRepository() LeaveRepository {
	return &leaveRepository{
		typeCollection:    config.GetCollection(config.LeaveTypeCollection),
		requestCollection: config.GetCollection(config.LeaveRequestCollection),
		balanceCollection: config.GetCollection(config.LeaveBalanceCollection),
	}
}

func (r *leaveRepository) CreateLeaveType(ctx context.Context, leaveType *models.LeaveType) (*mongo.InsertOneResult, error) {
	leaveType.ID = primitive.NewObjectID()
	leaveType.CreatedAt = time.Now()

	res, err := r.typeCollection.InsertOne(ctx, leaveType)
	if err != nil {
		return nil, fmt.Errorf("failed to create leave type: %w", err)
	}
	return res, nil
}

func (r *leaveRepository) FindAllLeaveTypes(ctx context.Context) ([]models.LeaveType, error) {
	cursor, err := r.typeCollection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find leave types: %w", err)
	}
	defer cursor.Close(ctx)

	var types []models.LeaveType
	if err = cursor.All(ctx, &types); err != nil {
		return nil, fmt.Errorf("failed to decode leave types: %w", err)
	}

	if len(types) == 0 {
		return []models.LeaveType{}, nil
	}
	return types, nil
}

func (r *leaveRepository) FindLeaveTypeByID(ctx context.Context, id primitive.ObjectID) (*models.LeaveType, error) {
	var leaveType models.LeaveType

	err := r.typeCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&leaveType)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find leave type: %w", err)
	}
	return &leaveType, nil
}

func (r *leaveRepository) UpdateLeaveType(ctx context.Context, id primitive.ObjectID, payload *models.LeaveTypePayload) (*mongo.UpdateResult, error) {
	update := bson.M{
		"$set": bson.M{
			"name":              payload.Name,
			"description":       payload.Description,
			"max_days_per_year": payload.MaxDaysPerYear,
			"is_paid":           *payload.IsPaid,
		},
	}
	res, err := r.typeCollection.UpdateByID(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update leave type: %w", err)
	}
	return res, nil
}

func (r *leaveRepository) DeleteLeaveType(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	res, err := r.typeCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to delete leave type: %w", err)
	}
	return res, nil
}

func (r *leaveRepository) CreateRequest(ctx context.Context, req *models.LeaveRequest) (*mongo.InsertOneResult, error) {
	res, err := r.requestCollection.InsertOne(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create leave request: %w", err)
	}
	return res, nil
}

func (r *leaveRepository) FindRequestByID(ctx context.Context, id primitive.ObjectID) (*models.LeaveRequest, error) {
	var request models.LeaveRequest

	err := r.requestCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find leave request: %w", err)
	}
	return &request, nil
}

func (r *leaveRepository) FindRequestsByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.LeaveRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.requestCollection.Find(ctx, bson.M{"employee_id": employeeID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find leave requests by employee: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.LeaveRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode leave requests: %w", err)
	}

	if len(requests) == 0 {
		return []models.LeaveRequest{}, nil
	}
	return requests, nil
}

func (r *leaveRepository) FindAllRequestsWithDetails(ctx context.Context, filter bson.M) ([]models.LeaveRequestWithDetails, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: config.EmployeeCollection},
			{Key: "localField", Value: "employee_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "employeeInfo"},
		}}},
		{{Key: "$unwind", Value: "$employeeInfo"}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: config.LeaveTypeCollection},
			{Key: "localField", Value: "leave_type_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "typeInfo"},
		}}},
		{{Key: "$unwind", Value: "$typeInfo"}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "employee_code", Value: "$employeeInfo.employee_id"},
			{Key: "employee_name", Value: bson.D{{Key: "$concat", Value: bson.A{"$employeeInfo.first_name", " ", "$employeeInfo.last_name"}}}},
			{Key: "leave_type_name", Value: "$typeInfo.name"},
			{Key: "is_paid", Value: "$typeInfo.is_paid"},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "employeeInfo", Value: 0},
			{Key: "typeInfo", Value: 0},
		}}},
	}

	cursor, err := r.requestCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate leave requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.LeaveRequestWithDetails
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode leave requests with details: %w", err)
	}

	if len(requests) == 0 {
		return []models.LeaveRequestWithDetails{}, nil
	}
	return requests, nil
}

// ReviewRequest applies the decision only while the request is still pending,
// so a second reviewer cannot overwrite a terminal status.
func (r *leaveRepository) ReviewRequest(ctx context.Context, id primitive.ObjectID, status string, reviewerID primitive.ObjectID, comment string) (*mongo.UpdateResult, error) {
	now := time.Now()
	filter := bson.M{"_id": id, "status": models.LeaveStatusPending}
	update := bson.M{
		"$set": bson.M{
			"status":         status,
			"reviewed_by":    reviewerID,
			"review_comment": comment,
			"reviewed_at":    now,
			"updated_at":     now,
		},
	}

	result, err := r.requestCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to review leave request: %w", err)
	}
	return result, nil
}

func (r *leaveRepository) CountPendingRequests(ctx context.Context) (int64, error) {
	count, err := r.requestCollection.CountDocuments(ctx, bson.M{"status": models.LeaveStatusPending})
	if err != nil {
		return 0, fmt.Errorf("failed to count pending requests: %w", err)
	}
	return count, nil
}

func (r *leaveRepository) FindBalancesByEmployee(ctx context.Context, employeeID primitive.ObjectID, year int) ([]models.LeaveBalanceWithType, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "employee_id", Value: employeeID}, {Key: "year", Value: year}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: config.LeaveTypeCollection},
			{Key: "localField", Value: "leave_type_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "typeInfo"},
		}}},
		{{Key: "$unwind", Value: "$typeInfo"}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "leave_type_name", Value: "$typeInfo.name"},
			{Key: "is_paid", Value: "$typeInfo.is_paid"},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "typeInfo", Value: 0}}}},
	}

	cursor, err := r.balanceCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate leave balances: %w", err)
	}
	defer cursor.Close(ctx)

	var balances []models.LeaveBalanceWithType
	if err = cursor.All(ctx, &balances); err != nil {
		return nil, fmt.Errorf("failed to decode leave balances: %w", err)
	}

	if len(balances) == 0 {
		return []models.LeaveBalanceWithType{}, nil
	}
	return balances, nil
}

func (r *leaveRepository) FindBalance(ctx context.Context, employeeID, leaveTypeID primitive.ObjectID, year int) (*models.LeaveBalance, error) {
	var balance models.LeaveBalance
	filter := bson.M{"employee_id": employeeID, "leave_type_id": leaveTypeID, "year": year}

	err := r.balanceCollection.FindOne(ctx, filter).Decode(&balance)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find leave balance: %w", err)
	}
	return &balance, nil
}

func (r *leaveRepository) UpsertBalance(ctx context.Context, balance *models.LeaveBalance) error {
	filter := bson.M{
		"employee_id":   balance.EmployeeID,
		"leave_type_id": balance.LeaveTypeID,
		"year":          balance.Year,
	}
	update := bson.M{
		"$set": bson.M{
			"total_days":     balance.TotalDays,
			"used_days":      balance.UsedDays,
			"remaining_days": balance.TotalDays - balance.UsedDays,
		},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
	}

	_, err := r.balanceCollection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert leave balance: %w", err)
	}
	return nil
}

// AddUsedDays increments used_days and decrements remaining_days in one
// update, keeping remaining = total - used without a read-modify-write.
func (r *leaveRepository) AddUsedDays(ctx context.Context, employeeID, leaveTypeID primitive.ObjectID, year, days int) error {
	filter := bson.M{"employee_id": employeeID, "leave_type_id": leaveTypeID, "year": year}
	update := bson.M{
		"$inc": bson.M{
			"used_days":      days,
			"remaining_days": -days,
		},
	}

	result, err := r.balanceCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update used days: %w", err)
	}
	if result.MatchedCount == 0 {
		return errors.New("leave balance not found")
	}
	return nil
}
