package scheduling

import (
	"context"

	"medibook/models"
)

// GenerateSlots steps each interval by durationMinutes, emitting candidates
// [cursor, cursor+duration) until the next candidate would run past the
// interval end. Intervals are stepped independently from their own starts;
// no slot straddles two intervals.
func GenerateSlots(intervals []models.Interval, durationMinutes int) []models.TimeSlot {
	if durationMinutes <= 0 {
		return nil
	}
	var slots []models.TimeSlot
	for _, iv := range intervals {
		for cursor := iv.Start; AddMinutes(cursor, durationMinutes) <= iv.End; cursor = AddMinutes(cursor, durationMinutes) {
			end := AddMinutes(cursor, durationMinutes)
			slots = append(slots, models.TimeSlot{
				Start:     cursor,
				End:       end,
				StartTime: FormatClock(cursor),
				EndTime:   FormatClock(end),
				Available: true,
			})
		}
	}
	return slots
}

// MarkConflicts tags each candidate against the existing appointments.
// Every candidate is kept — callers can tell a fully booked day from a
// non-working one. An unavailable slot links the first appointment whose
// start matches the candidate's exactly, when one exists.
func MarkConflicts(candidates []models.TimeSlot, appointments []models.Appointment) []models.TimeSlot {
	for i := range candidates {
		slot := &candidates[i]
		for j := range appointments {
			appt := &appointments[j]
			if !Overlaps(slot.Start, slot.End, appt.Start, appt.End) {
				continue
			}
			slot.Available = false
			if slot.AppointmentID == "" && appt.Start == slot.Start {
				slot.AppointmentID = appt.ID
			}
		}
	}
	return candidates
}

// AvailableSlots computes the bookable candidates for a doctor, branch,
// date and service. The result is a snapshot: it may be stale by the time
// a booking is attempted, which the reservation path handles by treating
// the store's uniqueness violation as the losing signal.
func (se *DefaultSchedulingEngine) AvailableSlots(ctx context.Context, doctorID, branchID, date, serviceID string) ([]models.TimeSlot, error) {
	svc, err := se.Catalog.GetServiceByID(ctx, serviceID)
	if err != nil {
		return nil, NewUpstreamError("failed to fetch service", err)
	}
	if svc == nil {
		return nil, NewNotFoundError("service %s not found", serviceID)
	}
	if svc.DurationMinutes <= 0 {
		return nil, NewValidationError("service %s has no usable duration", serviceID)
	}

	key := availabilityCacheKey(doctorID, date, branchID, serviceID)
	if cached := se.cachedSlots(ctx, key); cached != nil {
		return cached, nil
	}

	intervals, err := se.EffectiveIntervals(ctx, doctorID, branchID, date)
	if err != nil {
		return nil, err
	}

	candidates := GenerateSlots(intervals, svc.DurationMinutes)
	if len(candidates) > 0 {
		appts, err := se.Appointments.ListForDoctorDate(ctx, doctorID, date, models.InactiveStatuses)
		if err != nil {
			return nil, NewUpstreamError("failed to fetch existing appointments", err)
		}
		candidates = MarkConflicts(candidates, appts)
	}

	se.storeSlots(ctx, key, candidates)
	return candidates, nil
}
