package models

import "time"

// Audit log actions.
const (
	LogActionCreated       = "created"
	LogActionStatusChanged = "status_changed"
	LogActionRescheduled   = "rescheduled"
)

// AppointmentLog is one append-only audit row per state-changing action on
// an appointment. Rows are immutable once written.
type AppointmentLog struct {
	ID            string       `bson:"id" json:"id"`
	AppointmentID string       `bson:"appointment_id" json:"appointment_id"`
	Action        string       `bson:"action" json:"action"`
	Previous      *Appointment `bson:"previous,omitempty" json:"previous,omitempty"`
	New           *Appointment `bson:"new,omitempty" json:"new,omitempty"`
	ActorID       string       `bson:"actor_id" json:"actor_id"`
	CreatedAt     time.Time    `bson:"created_at" json:"created_at"`
}
