package appointmentRepo

import (
	"context"
	"errors"

	"medibook/database"
	"medibook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrSlotTaken is returned when an insert or reschedule violates the
// (doctor, date, start) uniqueness constraint on active appointments. It is
// the sole signal of a lost booking race; callers translate it into a
// user-facing conflict and must not retry blindly.
var ErrSlotTaken = errors.New("appointment slot already taken")

// AppointmentRepository defines the data access methods used by the booking
// transaction and the status lifecycle.
type AppointmentRepository interface {
	// CreateWithLog inserts the appointment and its creation audit row in a
	// single session transaction. Returns ErrSlotTaken on a uniqueness
	// violation.
	CreateWithLog(ctx context.Context, appt *models.Appointment, logEntry *models.AppointmentLog) error
	// GetByID fetches one appointment, or (nil, nil) when it does not exist.
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// ListForDoctorDate fetches a doctor's appointments on a date, excluding
	// the given statuses.
	ListForDoctorDate(ctx context.Context, doctorID, date string, exclude []models.AppointmentStatus) ([]models.Appointment, error)
	// UpdateWithLog replaces the appointment document and appends an audit
	// row in a single session transaction. Returns ErrSlotTaken when the
	// update collides with the active-slot uniqueness constraint.
	UpdateWithLog(ctx context.Context, appt *models.Appointment, logEntry *models.AppointmentLog) error
	// NextAppointmentNumber atomically reserves the next sequence value for
	// the given year.
	NextAppointmentNumber(ctx context.Context, year int) (int, error)
	// ListLogs returns the audit trail for an appointment, oldest first.
	ListLogs(ctx context.Context, appointmentID string) ([]models.AppointmentLog, error)
	// ListOverdue returns active appointments on the given date whose end
	// time (minutes from midnight) is at or before cutoffMinutes and whose
	// status is one of the given set. Used by the no-show sweep.
	ListOverdue(ctx context.Context, date string, cutoffMinutes int, statuses []models.AppointmentStatus) ([]models.Appointment, error)
	// EnsureIndexes creates the collection indexes, including the partial
	// unique index that rejects double-bookings.
	EnsureIndexes() error
}

type mongoAppointmentRepo struct {
	apptColl    *mongo.Collection
	logColl     *mongo.Collection
	counterColl *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new MongoDB AppointmentRepository.
func NewMongoAppointmentRepo() AppointmentRepository {
	db := database.DB()
	return &mongoAppointmentRepo{
		apptColl:    db.Collection("appointments"),
		logColl:     db.Collection("appointment_logs"),
		counterColl: db.Collection("counters"),
	}
}
