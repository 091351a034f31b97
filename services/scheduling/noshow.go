package scheduling

import (
	"context"
	"time"

	"medibook/models"
	"medibook/utils"

	"go.uber.org/zap"
)

// SweepActor is recorded on audit rows written by the no-show sweep.
const SweepActor = "system:noshow-sweep"

// sweepStatuses are the states a stale appointment can be swept from.
var sweepStatuses = []models.AppointmentStatus{models.StatusPending, models.StatusConfirmed}

// SweepNoShows transitions appointments the patient never showed up for to
// no_show: anything still pending or confirmed whose end time passed more
// than graceMinutes ago. Yesterday is swept in full to catch appointments
// that straddled the last run of the day. Returns the number of
// appointments moved.
func (se *DefaultSchedulingEngine) SweepNoShows(ctx context.Context, now time.Time, graceMinutes int) (int, error) {
	logger := utils.GetLogger()

	type window struct {
		date   string
		cutoff int
	}
	windows := []window{
		{date: now.AddDate(0, 0, -1).Format("2006-01-02"), cutoff: minutesPerDay},
	}
	todayCutoff := now.Hour()*60 + now.Minute() - graceMinutes
	if todayCutoff > 0 {
		windows = append(windows, window{date: now.Format("2006-01-02"), cutoff: todayCutoff})
	}

	swept := 0
	for _, w := range windows {
		appts, err := se.Appointments.ListOverdue(ctx, w.date, w.cutoff, sweepStatuses)
		if err != nil {
			return swept, NewUpstreamError("failed to list overdue appointments", err)
		}
		for _, appt := range appts {
			_, err := se.UpdateStatus(ctx, StatusUpdateRequest{
				AppointmentID: appt.ID,
				NewStatus:     models.StatusNoShow,
				ActorID:       SweepActor,
			})
			if err != nil {
				// A transition lost to a concurrent check-in is fine; skip it.
				logger.Warn("no-show sweep skipped appointment",
					zap.String("appointment", appt.AppointmentNumber), zap.Error(err))
				continue
			}
			swept++
		}
	}
	if swept > 0 {
		logger.Info("no-show sweep finished", zap.Int("swept", swept))
	}
	return swept, nil
}
