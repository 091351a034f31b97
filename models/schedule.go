package models

import "time"

// WeeklySchedule is one recurring working block for a doctor at a branch.
// Times are stored as minutes from midnight (e.g., 540 for 9:00 AM).
// Multiple rows may exist for the same (doctor, branch, day) as long as
// their [Start, End) windows do not overlap; updates replace the full set.
type WeeklySchedule struct {
	ID                  string     `bson:"id" json:"id"`
	DoctorID            string     `bson:"doctor_id" json:"doctor_id"`
	BranchID            string     `bson:"branch_id" json:"branch_id"`
	DayOfWeek           int        `bson:"day_of_week" json:"day_of_week"` // 0=Sunday .. 6=Saturday
	Start               int        `bson:"start" json:"start"`
	End                 int        `bson:"end" json:"end"`
	SlotDurationMinutes int        `bson:"slot_duration_minutes" json:"slot_duration_minutes"`
	Active              bool       `bson:"active" json:"active"`
	ValidFrom           string     `bson:"valid_from,omitempty" json:"valid_from,omitempty"`   // "YYYY-MM-DD", inclusive
	ValidUntil          string     `bson:"valid_until,omitempty" json:"valid_until,omitempty"` // "YYYY-MM-DD", inclusive
	CreatedAt           time.Time  `bson:"created_at" json:"created_at"`
}

// ScheduleOverride is a date-specific exception for a (doctor, branch) pair.
// At most one override exists per (doctor, branch, date); writes are upserts
// keyed on that triple. Available=false makes the whole date unbookable;
// Available=true with explicit times replaces the weekly times for the date.
type ScheduleOverride struct {
	ID        string    `bson:"id" json:"id"`
	DoctorID  string    `bson:"doctor_id" json:"doctor_id"`
	BranchID  string    `bson:"branch_id" json:"branch_id"`
	Date      string    `bson:"date" json:"date"` // "YYYY-MM-DD"
	Available bool      `bson:"available" json:"available"`
	Start     *int      `bson:"start,omitempty" json:"start,omitempty"` // minutes from midnight; only meaningful when Available
	End       *int      `bson:"end,omitempty" json:"end,omitempty"`
	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Interval is a continuous working window on a specific date, after
// override precedence has been applied.
type Interval struct {
	Start int    `json:"start"` // minutes from midnight
	End   int    `json:"end"`
	Label string `json:"label,omitempty"` // e.g., "09:00:00 - 12:00:00"
}
