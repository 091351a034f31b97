package scheduling

import (
	"context"
	"fmt"
	"time"

	appointmentRepo "medibook/database/repository/appointment"
	"medibook/models"
	"medibook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookAppointment validates the requested slot against a fresh availability
// snapshot, then reserves it. Serialization is delegated entirely to the
// store's unique (doctor, date, start) constraint on active appointments: a
// violation means the race was lost and surfaces as a conflict error. The
// engine never retries, since retrying without re-fetching availability
// could select another already-taken slot.
func (se *DefaultSchedulingEngine) BookAppointment(ctx context.Context, req BookingRequest) (*models.Appointment, error) {
	if req.PatientID == "" {
		return nil, NewValidationError("patient_id is required")
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, NewValidationError("invalid date %q: want YYYY-MM-DD", req.Date)
	}

	svc, err := se.Catalog.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		return nil, NewUpstreamError("failed to fetch service", err)
	}
	if svc == nil {
		return nil, NewNotFoundError("service %s not found", req.ServiceID)
	}

	end := req.End
	if end <= req.Start {
		end = AddMinutes(req.Start, svc.DurationMinutes)
	}
	if !validClockRange(req.Start, end) {
		return nil, NewValidationError("invalid time window %s - %s", FormatClock(req.Start), FormatClock(end))
	}

	if err := se.checkRequestedSlot(ctx, req.DoctorID, req.BranchID, req.Date, req.ServiceID, req.Start, end); err != nil {
		return nil, err
	}

	number, err := se.nextNumber(ctx)
	if err != nil {
		return nil, err
	}

	channel := req.Channel
	if channel == "" {
		channel = models.ChannelOnline
	}

	now := time.Now()
	appt := &models.Appointment{
		ID:                uuid.New().String(),
		AppointmentNumber: number,
		PatientID:         req.PatientID,
		DoctorID:          req.DoctorID,
		ServiceID:         req.ServiceID,
		BranchID:          req.BranchID,
		Date:              req.Date,
		Start:             req.Start,
		End:               end,
		DurationMinutes:   end - req.Start,
		Status:            models.StatusPending,
		Channel:           channel,
		Notes:             req.Notes,
		Active:            true,
		CreatedAt:         now,
	}
	logEntry := &models.AppointmentLog{
		ID:            uuid.New().String(),
		AppointmentID: appt.ID,
		Action:        models.LogActionCreated,
		New:           appt,
		ActorID:       req.ActorID,
		CreatedAt:     now,
	}

	if err := se.Appointments.CreateWithLog(ctx, appt, logEntry); err != nil {
		if err == appointmentRepo.ErrSlotTaken {
			return nil, NewConflictError("this time is no longer available, please choose another")
		}
		return nil, NewUpstreamError("failed to create appointment", err)
	}

	se.invalidateAvailability(ctx, req.DoctorID, req.Date)
	utils.GetLogger().Info("appointment booked",
		zap.String("appointment", appt.AppointmentNumber),
		zap.String("doctor", appt.DoctorID),
		zap.String("date", appt.Date),
		zap.String("start", FormatClock(appt.Start)),
	)
	return appt, nil
}

// checkRequestedSlot runs the read path for the requested window before any
// write is attempted: a window outside every candidate is a validation
// error, an occupied candidate is a conflict.
func (se *DefaultSchedulingEngine) checkRequestedSlot(ctx context.Context, doctorID, branchID, date, serviceID string, start, end int) error {
	slots, err := se.AvailableSlots(ctx, doctorID, branchID, date, serviceID)
	if err != nil {
		return err
	}
	for _, slot := range slots {
		if slot.Start != start || slot.End != end {
			continue
		}
		if !slot.Available {
			return NewConflictError("this time is no longer available, please choose another")
		}
		return nil
	}
	return NewValidationError("requested slot %s - %s is outside the doctor's schedule for %s",
		FormatClock(start), FormatClock(end), date)
}

// nextNumber builds the year-scoped human-readable identifier, e.g.
// "APT-2026-00042". The sequence is advanced by an atomic store-side
// counter, so concurrent bookings never share a number; numbers reserved
// by bookings that later fail leave gaps, which is accepted.
func (se *DefaultSchedulingEngine) nextNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	seq, err := se.Appointments.NextAppointmentNumber(ctx, year)
	if err != nil {
		return "", NewUpstreamError("failed to assign appointment number", err)
	}
	prefix := se.NumberPrefix
	if prefix == "" {
		prefix = "APT"
	}
	return fmt.Sprintf("%s-%d-%05d", prefix, year, seq), nil
}
