package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"dayflow/config"
	"dayflow/models"
)

type WorkScheduleRepository struct {
	collection *mongo.Collection
}

func NewWorkScheduleRepository() *WorkScheduleRepository {
	return &WorkScheduleRepository{
		collection: config.GetCollection(config.WorkScheduleCollection),
	}
}

func (r *WorkScheduleRepository) Create(ctx context.Context, schedule *models.WorkSchedule) (*models.WorkSchedule, error) {
	schedule.ID = primitive.NewObjectID()
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to create work schedule: %w", err)
	}
	return schedule, nil
}

func (r *WorkScheduleRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.WorkSchedule, error) {
	var schedule models.WorkSchedule

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find work schedule: %w", err)
	}
	return &schedule, nil
}

func (r *WorkScheduleRepository) FindAll(ctx context.Context) ([]models.WorkSchedule, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find work schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []models.WorkSchedule
	if err = cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("failed to decode work schedules: %w", err)
	}

	if len(schedules) == 0 {
		return []models.WorkSchedule{}, nil
	}
	return schedules, nil
}

func (r *WorkScheduleRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, payload *models.WorkSchedulePayload) error {
	update := bson.M{
		"$set": bson.M{
			"date":            payload.Date,
			"start_time":      payload.StartTime,
			"end_time":        payload.EndTime,
			"note":            payload.Note,
			"recurrence_rule": payload.RecurrenceRule,
			"updated_at":      time.Now(),
		},
	}

	result, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to update work schedule: %w", err)
	}
	if result.MatchedCount == 0 {
		return errors.New("work schedule not found")
	}
	return nil
}

func (r *WorkScheduleRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete work schedule: %w", err)
	}
	if res.DeletedCount == 0 {
		return errors.New("work schedule not found")
	}
	return nil
}
