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

// ErrPayrollExists reports a unique-index conflict on (employee, month, year).
var ErrPayrollExists = errors.New("payroll already generated for this month")

type PayrollRepository interface {
	FindStructureByEmployee(ctx context.Context, employeeID primitive.ObjectID) (*models.SalaryStructure, error)
	UpsertStructure(ctx context.Context, employeeID primitive.ObjectID, payload *models.SalaryStructurePayload) error
	CreatePayroll(ctx context.Context, payroll *models.Payroll) (*mongo.InsertOneResult, error)
	FindPayrollByID(ctx context.Context, id primitive.ObjectID) (*models.Payroll, error)
	FindPayrollByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.Payroll, error)
	FindAllPayrollWithEmployees(ctx context.Context, limit int64) ([]models.PayrollWithEmployee, error)
	UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status string, paymentDate *time.Time) (*mongo.UpdateResult, error)
}

type payrollRepository struct {
	structureCollection *mongo.Collection
	payrollCollection   *mongo.Collection
}

func NewPayrollRepository() PayrollRepository {
	return &payrollRepository{
		structureCollection: config.GetCollection(config.SalaryStructureCollection),
		payrollCollection:   config.GetCollection(config.PayrollCollection),
	}
}

func (r *payrollRepository) FindStructureByEmployee(ctx context.Context, employeeID primitive.ObjectID) (*models.SalaryStructure, error) {
	var structure models.SalaryStructure

	err := r.structureCollection.FindOne(ctx, bson.M{"employee_id": employeeID}).Decode(&structure)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find salary structure: %w", err)
	}
	return &structure, nil
}

// UpsertStructure inserts the employee's structure row or updates it in
// place, matching the admin editor's save semantics.
func (r *payrollRepository) UpsertStructure(ctx context.Context, employeeID primitive.ObjectID, payload *models.SalaryStructurePayload) error {
	now := time.Now()
	set := bson.M{
		"basic_salary":        payload.BasicSalary,
		"housing_allowance":   payload.HousingAllowance,
		"transport_allowance": payload.TransportAllowance,
		"medical_allowance":   payload.MedicalAllowance,
		"other_allowances":    payload.OtherAllowances,
		"tax_deduction":       payload.TaxDeduction,
		"insurance_deduction": payload.InsuranceDeduction,
		"other_deductions":    payload.OtherDeductions,
		"updated_at":          now,
	}
	if payload.EffectiveDate != "" {
		set["effective_date"] = payload.EffectiveDate
	}
	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"created_at": now,
		},
	}

	_, err := r.structureCollection.UpdateOne(ctx, bson.M{"employee_id": employeeID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert salary structure: %w", err)
	}
	return nil
}

func (r *payrollRepository) CreatePayroll(ctx context.Context, payroll *models.Payroll) (*mongo.InsertOneResult, error) {
	res, err := r.payrollCollection.InsertOne(ctx, payroll)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrPayrollExists
		}
		return nil, fmt.Errorf("failed to create payroll: %w", err)
	}
	return res, nil
}

func (r *payrollRepository) FindPayrollByID(ctx context.Context, id primitive.ObjectID) (*models.Payroll, error) {
	var payroll models.Payroll

	err := r.payrollCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&payroll)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find payroll: %w", err)
	}
	return &payroll, nil
}

func (r *payrollRepository) FindPayrollByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.Payroll, error) {
	opts := options.Find().SetSort(bson.D{{Key: "year", Value: -1}, {Key: "month", Value: -1}})

	cursor, err := r.payrollCollection.Find(ctx, bson.M{"employee_id": employeeID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find payroll history: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Payroll
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode payroll history: %w", err)
	}

	if len(results) == 0 {
		return []models.Payroll{}, nil
	}
	return results, nil
}

func (r *payrollRepository) FindAllPayrollWithEmployees(ctx context.Context, limit int64) ([]models.PayrollWithEmployee, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "year", Value: -1}, {Key: "month", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: config.EmployeeCollection},
			{Key: "localField", Value: "employee_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "employeeInfo"},
		}}},
		{{Key: "$unwind", Value: "$employeeInfo"}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "employee_code", Value: "$employeeInfo.employee_id"},
			{Key: "employee_name", Value: bson.D{{Key: "$concat", Value: bson.A{"$employeeInfo.first_name", " ", "$employeeInfo.last_name"}}}},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "employeeInfo", Value: 0}}}},
	}

	cursor, err := r.payrollCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payroll list: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.PayrollWithEmployee
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode payroll list: %w", err)
	}

	if len(results) == 0 {
		return []models.PayrollWithEmployee{}, nil
	}
	return results, nil
}

func (r *payrollRepository) UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status string, paymentDate *time.Time) (*mongo.UpdateResult, error) {
	set := bson.M{
		"payment_status": status,
		"updated_at":     time.Now(),
	}
	if paymentDate != nil {
		set["payment_date"] = *paymentDate
	}

	res, err := r.payrollCollection.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	return res, nil
}
