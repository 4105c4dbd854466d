package config

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var MongoConn *mongo.Client

var DBName = "dayflow-db"

var (
	EmployeeCollection        = "employees"
	AttendanceCollection      = "attendance"
	LeaveTypeCollection       = "leave_types"
	LeaveRequestCollection    = "leave_requests"
	LeaveBalanceCollection    = "leave_balance"
	SalaryStructureCollection = "salary_structure"
	PayrollCollection         = "payroll"
	WorkScheduleCollection    = "work_schedules"
)

func MongoConnect() {
	mongoURI := os.Getenv("MONGOSTRING")
	if mongoURI == "" {
		log.Fatal("MONGOSTRING is not set")
	}

	client, err := mongo.NewClient(options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to create MongoDB client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = client.Connect(ctx); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	log.Println("Connected to MongoDB")
	MongoConn = client
}

func GetCollection(collectionName string) *mongo.Collection {
	if MongoConn == nil {
		log.Fatal("MongoDB client is not initialized. Call MongoConnect() first")
	}
	return MongoConn.Database(DBName).Collection(collectionName)
}

// InitDatabase creates the unique indexes the data model relies on:
// one employee per email and per employee code, one attendance row per
// employee and date, one balance row per employee, leave type and year,
// and one payroll row per employee, month and year.
func InitDatabase() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		EmployeeCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "employee_id", Value: 1}}, Options: unique},
		},
		AttendanceCollection: {
			{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "date", Value: 1}}, Options: unique},
		},
		LeaveBalanceCollection: {
			{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "leave_type_id", Value: 1}, {Key: "year", Value: 1}}, Options: unique},
		},
		PayrollCollection: {
			{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "month", Value: 1}, {Key: "year", Value: 1}}, Options: unique},
		},
		LeaveRequestCollection: {
			{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := GetCollection(collection).Indexes().CreateMany(ctx, models); err != nil {
			log.Fatalf("Failed to create indexes for %s: %v", collection, err)
		}
	}

	log.Println("Database indexes ensured")
}

func DisconnectDB() {
	if MongoConn != nil {
		if err := MongoConn.Disconnect(context.Background()); err != nil {
			log.Fatalf("Error disconnecting from MongoDB: %v", err)
		}
		log.Println("Disconnected from MongoDB")
	}
}
