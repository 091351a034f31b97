package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the appointment collections.
func (r *mongoAppointmentRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	apptModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// The overlap-preventing constraint: no two active appointments for
		// the same doctor may share a (date, start). Cancelled and no-show
		// appointments clear the active flag and fall out of the index, so
		// their slots become bookable again.
		{
			Keys: bson.D{
				{Key: "doctor_id", Value: 1},
				{Key: "date", Value: 1},
				{Key: "start", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"active": true}).
				SetName("unique_active_doctor_date_start"),
		},
		// Primary conflict-filter query pattern.
		{
			Keys:    bson.D{{Key: "doctor_id", Value: 1}, {Key: "date", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("doctor_date_status_idx"),
		},
	}
	if _, err := r.apptColl.Indexes().CreateMany(ctx, apptModels); err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}

	logModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "appointment_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("appointment_created_idx"),
		},
	}
	if _, err := r.logColl.Indexes().CreateMany(ctx, logModels); err != nil {
		return fmt.Errorf("failed to create appointment log indexes: %w", err)
	}
	return nil
}
