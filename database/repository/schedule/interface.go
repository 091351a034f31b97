package scheduleRepo

import (
	"context"

	"medibook/database"
	"medibook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ScheduleRepository defines the data access methods used by the schedule
// resolver and the schedule admin endpoints.
type ScheduleRepository interface {
	// GetWeeklySchedules retrieves the active weekly rows for a
	// (doctor, branch, day-of-week) whose validity window covers date.
	GetWeeklySchedules(ctx context.Context, doctorID, branchID string, dayOfWeek int, date string) ([]models.WeeklySchedule, error)
	// ListWeeklySchedules retrieves every weekly row for a (doctor, branch).
	ListWeeklySchedules(ctx context.Context, doctorID, branchID string) ([]models.WeeklySchedule, error)
	// ReplaceWeeklySchedules replaces the full weekly set for a (doctor, branch).
	// An update is a logical full replacement, not a patch.
	ReplaceWeeklySchedules(ctx context.Context, doctorID, branchID string, rows []models.WeeklySchedule) error
	// GetOverride retrieves the override for an exact (doctor, branch, date),
	// or (nil, nil) when none exists.
	GetOverride(ctx context.Context, doctorID, branchID, date string) (*models.ScheduleOverride, error)
	// UpsertOverride writes the override keyed on (doctor, branch, date).
	UpsertOverride(ctx context.Context, ov *models.ScheduleOverride) error
	// EnsureIndexes creates the collection indexes backing the invariants above.
	EnsureIndexes() error
}

type mongoScheduleRepo struct {
	weeklyColl   *mongo.Collection
	overrideColl *mongo.Collection
}

// NewMongoScheduleRepo constructs a new MongoDB ScheduleRepository.
func NewMongoScheduleRepo() ScheduleRepository {
	db := database.DB()
	return &mongoScheduleRepo{
		weeklyColl:   db.Collection("weekly_schedules"),
		overrideColl: db.Collection("schedule_overrides"),
	}
}
