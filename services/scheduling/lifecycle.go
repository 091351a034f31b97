package scheduling

import (
	"context"
	"time"

	appointmentRepo "medibook/database/repository/appointment"
	"medibook/models"
	"medibook/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// allowedTransitions is the closed status graph. Cancellation and no-show
// branch off every non-terminal state; completed, cancelled and no_show are
// terminal.
var allowedTransitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.StatusPending:    {models.StatusConfirmed, models.StatusCancelled, models.StatusNoShow},
	models.StatusConfirmed:  {models.StatusCheckedIn, models.StatusCancelled, models.StatusNoShow},
	models.StatusCheckedIn:  {models.StatusInProgress, models.StatusCancelled, models.StatusNoShow},
	models.StatusInProgress: {models.StatusCompleted, models.StatusCancelled, models.StatusNoShow},
	models.StatusCompleted:  nil,
	models.StatusCancelled:  nil,
	models.StatusNoShow:     nil,
}

// TransitionAllowed reports whether the status graph permits from -> to.
func TransitionAllowed(from, to models.AppointmentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UpdateStatus applies one lifecycle transition: fetch current (so the
// audit row carries a meaningful previous snapshot), validate against the
// transition table, set the status-specific timestamps, and persist the
// update together with its status_changed audit row.
func (se *DefaultSchedulingEngine) UpdateStatus(ctx context.Context, req StatusUpdateRequest) (*models.Appointment, error) {
	if _, ok := allowedTransitions[req.NewStatus]; !ok {
		return nil, NewValidationError("unknown status %q", req.NewStatus)
	}

	appt, err := se.GetAppointment(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if !TransitionAllowed(appt.Status, req.NewStatus) {
		return nil, NewValidationError("cannot move appointment %s from %s to %s",
			appt.AppointmentNumber, appt.Status, req.NewStatus)
	}

	previous := *appt
	now := time.Now()
	appt.Status = req.NewStatus
	switch req.NewStatus {
	case models.StatusCheckedIn:
		appt.CheckedInAt = &now
		appt.CheckedInBy = req.ActorID
	case models.StatusCompleted:
		appt.CompletedAt = &now
	case models.StatusCancelled:
		appt.CancelledAt = &now
		appt.CancelledBy = req.ActorID
		appt.CancellationReason = req.CancellationReason
		appt.Active = false
	case models.StatusNoShow:
		appt.Active = false
	}

	logEntry := &models.AppointmentLog{
		ID:            uuid.New().String(),
		AppointmentID: appt.ID,
		Action:        models.LogActionStatusChanged,
		Previous:      &previous,
		New:           appt,
		ActorID:       req.ActorID,
		CreatedAt:     now,
	}
	if err := se.Appointments.UpdateWithLog(ctx, appt, logEntry); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, NewNotFoundError("appointment %s not found", req.AppointmentID)
		}
		return nil, NewUpstreamError("failed to update appointment status", err)
	}

	se.invalidateAvailability(ctx, appt.DoctorID, appt.Date)
	utils.GetLogger().Info("appointment status changed",
		zap.String("appointment", appt.AppointmentNumber),
		zap.String("from", string(previous.Status)),
		zap.String("to", string(appt.Status)),
		zap.String("actor", req.ActorID),
	)
	return appt, nil
}

// Reschedule moves an appointment to a new date/time. The slot is validated
// the same way booking validates it, the status resets to pending (a
// confirmed appointment loses its confirmation and must be re-confirmed)
// and the move is logged with action rescheduled.
func (se *DefaultSchedulingEngine) Reschedule(ctx context.Context, req RescheduleRequest) (*models.Appointment, error) {
	if _, err := time.Parse("2006-01-02", req.NewDate); err != nil {
		return nil, NewValidationError("invalid date %q: want YYYY-MM-DD", req.NewDate)
	}

	appt, err := se.GetAppointment(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Terminal() {
		return nil, NewValidationError("cannot reschedule appointment %s in terminal state %s",
			appt.AppointmentNumber, appt.Status)
	}

	end := req.NewEnd
	if end <= req.NewStart {
		end = AddMinutes(req.NewStart, appt.DurationMinutes)
	}
	if !validClockRange(req.NewStart, end) {
		return nil, NewValidationError("invalid time window %s - %s", FormatClock(req.NewStart), FormatClock(end))
	}

	sameSlot := req.NewDate == appt.Date && req.NewStart == appt.Start && end == appt.End
	if !sameSlot {
		if err := se.checkRequestedSlot(ctx, appt.DoctorID, appt.BranchID, req.NewDate, appt.ServiceID, req.NewStart, end); err != nil {
			return nil, err
		}
	}

	previous := *appt
	now := time.Now()
	oldDate := appt.Date
	appt.Date = req.NewDate
	appt.Start = req.NewStart
	appt.End = end
	appt.DurationMinutes = end - req.NewStart
	appt.Status = models.StatusPending

	logEntry := &models.AppointmentLog{
		ID:            uuid.New().String(),
		AppointmentID: appt.ID,
		Action:        models.LogActionRescheduled,
		Previous:      &previous,
		New:           appt,
		ActorID:       req.ActorID,
		CreatedAt:     now,
	}
	if err := se.Appointments.UpdateWithLog(ctx, appt, logEntry); err != nil {
		switch err {
		case appointmentRepo.ErrSlotTaken:
			return nil, NewConflictError("this time is no longer available, please choose another")
		case mongo.ErrNoDocuments:
			return nil, NewNotFoundError("appointment %s not found", req.AppointmentID)
		}
		return nil, NewUpstreamError("failed to reschedule appointment", err)
	}

	se.invalidateAvailability(ctx, appt.DoctorID, oldDate)
	se.invalidateAvailability(ctx, appt.DoctorID, appt.Date)
	utils.GetLogger().Info("appointment rescheduled",
		zap.String("appointment", appt.AppointmentNumber),
		zap.String("date", appt.Date),
		zap.String("start", FormatClock(appt.Start)),
		zap.String("actor", req.ActorID),
	)
	return appt, nil
}
