package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medibook/models"
)

func (r *mongoScheduleRepo) GetWeeklySchedules(ctx context.Context, doctorID, branchID string, dayOfWeek int, date string) ([]models.WeeklySchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Validity bounds are inclusive "YYYY-MM-DD" strings, so lexicographic
	// comparison matches chronological order.
	filter := bson.M{
		"doctor_id":   doctorID,
		"branch_id":   branchID,
		"day_of_week": dayOfWeek,
		"active":      true,
		"$and": bson.A{
			bson.M{"$or": bson.A{
				bson.M{"valid_from": bson.M{"$exists": false}},
				bson.M{"valid_from": ""},
				bson.M{"valid_from": bson.M{"$lte": date}},
			}},
			bson.M{"$or": bson.A{
				bson.M{"valid_until": bson.M{"$exists": false}},
				bson.M{"valid_until": ""},
				bson.M{"valid_until": bson.M{"$gte": date}},
			}},
		},
	}

	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := r.weeklyColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.WeeklySchedule
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode weekly schedules: %w", err)
	}
	return rows, nil
}

func (r *mongoScheduleRepo) ListWeeklySchedules(ctx context.Context, doctorID, branchID string) ([]models.WeeklySchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"doctor_id": doctorID, "branch_id": branchID}
	opts := options.Find().SetSort(bson.D{{Key: "day_of_week", Value: 1}, {Key: "start", Value: 1}})
	cursor, err := r.weeklyColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.WeeklySchedule
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode weekly schedules: %w", err)
	}
	return rows, nil
}

// ReplaceWeeklySchedules deletes the existing set and inserts the new one,
// matching the delete-then-reinsert update model of the schedule editor.
func (r *mongoScheduleRepo) ReplaceWeeklySchedules(ctx context.Context, doctorID, branchID string, rows []models.WeeklySchedule) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := r.weeklyColl.DeleteMany(ctx, bson.M{"doctor_id": doctorID, "branch_id": branchID}); err != nil {
		return fmt.Errorf("failed to clear weekly schedules: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	now := time.Now()
	docs := make([]interface{}, len(rows))
	for i, row := range rows {
		row.DoctorID = doctorID
		row.BranchID = branchID
		if row.ID == "" {
			row.ID = uuid.New().String()
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		docs[i] = row
	}
	if _, err := r.weeklyColl.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert weekly schedules: %w", err)
	}
	return nil
}

func (r *mongoScheduleRepo) GetOverride(ctx context.Context, doctorID, branchID, date string) (*models.ScheduleOverride, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"doctor_id": doctorID, "branch_id": branchID, "date": date}
	var ov models.ScheduleOverride
	err := r.overrideColl.FindOne(ctx, filter).Decode(&ov)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch schedule override: %w", err)
	}
	return &ov, nil
}

// UpsertOverride enforces the at-most-one-override-per-(doctor, branch, date)
// invariant through an upsert keyed on that triple; the unique compound index
// backs it under concurrency.
func (r *mongoScheduleRepo) UpsertOverride(ctx context.Context, ov *models.ScheduleOverride) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if ov.ID == "" {
		ov.ID = uuid.New().String()
	}
	ov.UpdatedAt = time.Now()

	filter := bson.M{"doctor_id": ov.DoctorID, "branch_id": ov.BranchID, "date": ov.Date}
	update := bson.M{
		"$set": bson.M{
			"available":  ov.Available,
			"start":      ov.Start,
			"end":        ov.End,
			"reason":     ov.Reason,
			"updated_at": ov.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"id":        ov.ID,
			"doctor_id": ov.DoctorID,
			"branch_id": ov.BranchID,
			"date":      ov.Date,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.overrideColl.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert schedule override: %w", err)
	}
	return nil
}
