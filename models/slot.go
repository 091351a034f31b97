package models

// TimeSlot is a derived booking candidate for a given doctor, branch, date
// and service. It is recomputed on every availability query and never
// persisted. Unavailable slots carry the occupying appointment's ID when
// an exact-start match exists, as a display convenience.
type TimeSlot struct {
	Start         int    `json:"start"` // minutes from midnight
	End           int    `json:"end"`
	StartTime     string `json:"start_time"` // "HH:MM:SS"
	EndTime       string `json:"end_time"`
	Available     bool   `json:"available"`
	AppointmentID string `json:"appointment_id,omitempty"`
}
