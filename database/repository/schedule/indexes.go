package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the schedule collections.
func (r *mongoScheduleRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	weeklyModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Primary resolver query pattern.
		{
			Keys: bson.D{
				{Key: "doctor_id", Value: 1},
				{Key: "branch_id", Value: 1},
				{Key: "day_of_week", Value: 1},
				{Key: "active", Value: 1},
			},
			Options: options.Index().SetName("doctor_branch_day_idx"),
		},
	}
	if _, err := r.weeklyColl.Indexes().CreateMany(ctx, weeklyModels); err != nil {
		return fmt.Errorf("failed to create weekly schedule indexes: %w", err)
	}

	overrideModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// At most one override per (doctor, branch, date).
		{
			Keys: bson.D{
				{Key: "doctor_id", Value: 1},
				{Key: "branch_id", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("unique_doctor_branch_date"),
		},
	}
	if _, err := r.overrideColl.Indexes().CreateMany(ctx, overrideModels); err != nil {
		return fmt.Errorf("failed to create schedule override indexes: %w", err)
	}
	return nil
}
