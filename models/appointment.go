package models

import "time"

// AppointmentStatus enumerates the appointment lifecycle states.
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusCheckedIn  AppointmentStatus = "checked_in"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

// BookingChannel records how an appointment was made.
type BookingChannel string

const (
	ChannelOnline BookingChannel = "online"
	ChannelPhone  BookingChannel = "phone"
	ChannelWalkIn BookingChannel = "walk_in"
)

// InactiveStatuses are excluded when computing slot availability.
var InactiveStatuses = []AppointmentStatus{StatusCancelled, StatusNoShow}

// Appointment is a reservation of a doctor's time slot by a patient.
// Times are minutes from midnight; Date is "YYYY-MM-DD". Appointments are
// never physically deleted; cancellation is a status change.
//
// Active mirrors the status: it is true until the appointment enters
// cancelled or no_show, and backs the partial unique index on
// (doctor_id, date, start) that prevents double-booking.
type Appointment struct {
	ID                string            `bson:"id" json:"id"`
	AppointmentNumber string            `bson:"appointment_number" json:"appointment_number"` // e.g., "APT-2026-00042"
	PatientID         string            `bson:"patient_id" json:"patient_id"`
	DoctorID          string            `bson:"doctor_id" json:"doctor_id"`
	ServiceID         string            `bson:"service_id" json:"service_id"`
	BranchID          string            `bson:"branch_id" json:"branch_id"`
	Date              string            `bson:"date" json:"date"`
	Start             int               `bson:"start" json:"start"`
	End               int               `bson:"end" json:"end"`
	DurationMinutes   int               `bson:"duration_minutes" json:"duration_minutes"`
	Status            AppointmentStatus `bson:"status" json:"status"`
	Channel           BookingChannel    `bson:"channel" json:"channel"`
	Notes             string            `bson:"notes,omitempty" json:"notes,omitempty"`
	Paid              bool              `bson:"paid" json:"paid"`
	Active            bool              `bson:"active" json:"active"`
	CreatedAt         time.Time         `bson:"created_at" json:"created_at"`

	CheckedInAt        *time.Time `bson:"checked_in_at,omitempty" json:"checked_in_at,omitempty"`
	CheckedInBy        string     `bson:"checked_in_by,omitempty" json:"checked_in_by,omitempty"`
	CompletedAt        *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CancelledAt        *time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	CancelledBy        string     `bson:"cancelled_by,omitempty" json:"cancelled_by,omitempty"`
	CancellationReason string     `bson:"cancellation_reason,omitempty" json:"cancellation_reason,omitempty"`
}

// Terminal reports whether the appointment has reached a final state.
func (a *Appointment) Terminal() bool {
	switch a.Status {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}
