package scheduling

import (
	"context"
	"fmt"
	"time"

	"medibook/models"
)

// EffectiveIntervals resolves the working windows for (doctor, branch, date).
// Precedence: an override with available=false closes the whole date; an
// override with available=true and explicit times replaces the day's weekly
// rows with that single window; an override without times falls back to
// each row's own times. With no weekly rows for that weekday the result is
// always empty: an override can restrict or adjust a working day, never
// invent one.
func (se *DefaultSchedulingEngine) EffectiveIntervals(ctx context.Context, doctorID, branchID, date string) ([]models.Interval, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, NewValidationError("invalid date %q: want YYYY-MM-DD", date)
	}

	if err := se.checkDoctorBranch(ctx, doctorID, branchID); err != nil {
		return nil, err
	}

	rows, err := se.Schedules.GetWeeklySchedules(ctx, doctorID, branchID, int(day.Weekday()), date)
	if err != nil {
		return nil, NewUpstreamError("failed to fetch weekly schedules", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	override, err := se.Schedules.GetOverride(ctx, doctorID, branchID, date)
	if err != nil {
		return nil, NewUpstreamError("failed to fetch schedule override", err)
	}
	if override != nil && !override.Available {
		return nil, nil
	}

	if override != nil && override.Start != nil && override.End != nil {
		start, end := *override.Start, *override.End
		if !validClockRange(start, end) {
			return nil, nil
		}
		return []models.Interval{newInterval(start, end)}, nil
	}

	intervals := make([]models.Interval, 0, len(rows))
	for _, row := range rows {
		if !validClockRange(row.Start, row.End) {
			continue
		}
		intervals = append(intervals, newInterval(row.Start, row.End))
	}
	return intervals, nil
}

func newInterval(start, end int) models.Interval {
	return models.Interval{
		Start: start,
		End:   end,
		Label: fmt.Sprintf("%s - %s", FormatClock(start), FormatClock(end)),
	}
}

// checkDoctorBranch verifies both registry references exist.
func (se *DefaultSchedulingEngine) checkDoctorBranch(ctx context.Context, doctorID, branchID string) error {
	doctor, err := se.Catalog.GetDoctorByID(ctx, doctorID)
	if err != nil {
		return NewUpstreamError("failed to fetch doctor", err)
	}
	if doctor == nil {
		return NewNotFoundError("doctor %s not found", doctorID)
	}
	branch, err := se.Catalog.GetBranchByID(ctx, branchID)
	if err != nil {
		return NewUpstreamError("failed to fetch branch", err)
	}
	if branch == nil {
		return NewNotFoundError("branch %s not found", branchID)
	}
	return nil
}
