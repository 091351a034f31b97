package scheduling

import (
	"context"

	"medibook/models"
)

// SchedulingEngine computes bookable time slots and reserves them without
// double-booking. Read methods are stateless snapshots; only booking and
// the lifecycle mutations require the store's uniqueness guarantee.
type SchedulingEngine interface {
	// EffectiveIntervals resolves a doctor's working windows for a date at a
	// branch, applying override precedence over the weekly schedule.
	EffectiveIntervals(ctx context.Context, doctorID, branchID, date string) ([]models.Interval, error)
	// AvailableSlots steps the effective intervals by the service duration
	// and tags every candidate available or booked.
	AvailableSlots(ctx context.Context, doctorID, branchID, date, serviceID string) ([]models.TimeSlot, error)
	// BookAppointment reserves a slot. A lost race surfaces as a conflict
	// error; the caller must re-query availability before offering again.
	BookAppointment(ctx context.Context, req BookingRequest) (*models.Appointment, error)
	// UpdateStatus advances the appointment lifecycle, rejecting transitions
	// the state machine does not allow.
	UpdateStatus(ctx context.Context, req StatusUpdateRequest) (*models.Appointment, error)
	// Reschedule moves an appointment to a new date/time and resets it to
	// pending; a confirmed appointment must be re-confirmed after a move.
	Reschedule(ctx context.Context, req RescheduleRequest) (*models.Appointment, error)
	// GetAppointment fetches one appointment.
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	// ListAppointments fetches a doctor's appointments on a date.
	ListAppointments(ctx context.Context, doctorID, date string) ([]models.Appointment, error)
	// AppointmentLogs returns the audit trail, oldest first.
	AppointmentLogs(ctx context.Context, appointmentID string) ([]models.AppointmentLog, error)
}

// BookingRequest carries everything needed to reserve a slot. Times are
// minutes from midnight; End may be zero, in which case it is derived from
// the service duration.
type BookingRequest struct {
	PatientID string
	DoctorID  string
	ServiceID string
	BranchID  string
	Date      string // "YYYY-MM-DD"
	Start     int
	End       int
	Notes     string
	Channel   models.BookingChannel
	ActorID   string
}

// StatusUpdateRequest advances one appointment to a new lifecycle state.
type StatusUpdateRequest struct {
	AppointmentID      string
	NewStatus          models.AppointmentStatus
	ActorID            string
	CancellationReason string
}

// RescheduleRequest moves an appointment to a new slot.
type RescheduleRequest struct {
	AppointmentID string
	NewDate       string
	NewStart      int
	NewEnd        int
	ActorID       string
}
