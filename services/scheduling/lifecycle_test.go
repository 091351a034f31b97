package scheduling

import (
	"context"
	"testing"

	"medibook/models"
)

func TestTransitionAllowed(t *testing.T) {
	tests := []struct {
		from, to models.AppointmentStatus
		want     bool
	}{
		{models.StatusPending, models.StatusConfirmed, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusPending, models.StatusNoShow, true},
		{models.StatusPending, models.StatusCheckedIn, false},
		{models.StatusPending, models.StatusCompleted, false},
		{models.StatusConfirmed, models.StatusCheckedIn, true},
		{models.StatusConfirmed, models.StatusCompleted, false},
		{models.StatusCheckedIn, models.StatusInProgress, true},
		{models.StatusCheckedIn, models.StatusConfirmed, false},
		{models.StatusInProgress, models.StatusCompleted, true},
		{models.StatusInProgress, models.StatusCancelled, true},
		{models.StatusCompleted, models.StatusCancelled, false},
		{models.StatusCancelled, models.StatusPending, false},
		{models.StatusNoShow, models.StatusConfirmed, false},
	}
	for _, tt := range tests {
		if got := TransitionAllowed(tt.from, tt.to); got != tt.want {
			t.Errorf("TransitionAllowed(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

// bookTestAppointment books a 600-630 slot on the standard Monday schedule
// and returns the engine plus the new appointment.
func bookTestAppointment(t *testing.T) (*DefaultSchedulingEngine, *fakeScheduleRepo, *models.Appointment) {
	t.Helper()
	engine, schedules, _, _ := newTestEngine()
	schedules.weekly = []models.WeeklySchedule{mondaySchedule(540, 720)}
	appt, err := engine.BookAppointment(context.Background(), testBookingRequest(600))
	if err != nil {
		t.Fatalf("BookAppointment: %v", err)
	}
	return engine, schedules, appt
}

func advance(t *testing.T, engine *DefaultSchedulingEngine, id string, status models.AppointmentStatus) *models.Appointment {
	t.Helper()
	appt, err := engine.UpdateStatus(context.Background(), StatusUpdateRequest{
		AppointmentID: id,
		NewStatus:     status,
		ActorID:       "staff-1",
	})
	if err != nil {
		t.Fatalf("UpdateStatus to %s: %v", status, err)
	}
	return appt
}

func TestUpdateStatusHappyPath(t *testing.T) {
	engine, _, appt := bookTestAppointment(t)

	advance(t, engine, appt.ID, models.StatusConfirmed)

	checkedIn := advance(t, engine, appt.ID, models.StatusCheckedIn)
	if checkedIn.CheckedInAt == nil || checkedIn.CheckedInBy != "staff-1" {
		t.Errorf("check-in did not record time/actor: %+v", checkedIn)
	}

	advance(t, engine, appt.ID, models.StatusInProgress)

	done := advance(t, engine, appt.ID, models.StatusCompleted)
	if done.CompletedAt == nil {
		t.Error("completion did not record time")
	}
	if !done.Active {
		t.Error("completed appointment should stay active; its slot was consumed")
	}

	logs, err := engine.AppointmentLogs(context.Background(), appt.ID)
	if err != nil {
		t.Fatalf("AppointmentLogs: %v", err)
	}
	// created + four status changes, oldest first.
	if len(logs) != 5 {
		t.Fatalf("got %d log entries, want 5", len(logs))
	}
	if logs[0].Action != models.LogActionCreated {
		t.Errorf("first log action = %s, want created", logs[0].Action)
	}
	for _, entry := range logs[1:] {
		if entry.Action != models.LogActionStatusChanged {
			t.Errorf("log action = %s, want status_changed", entry.Action)
		}
		if entry.Previous == nil || entry.New == nil {
			t.Errorf("status_changed log missing snapshots: %+v", entry)
		}
	}
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	engine, _, appt := bookTestAppointment(t)

	_, err := engine.UpdateStatus(context.Background(), StatusUpdateRequest{
		AppointmentID: appt.ID,
		NewStatus:     models.StatusCompleted,
		ActorID:       "staff-1",
	})
	if !IsValidation(err) {
		t.Fatalf("pending -> completed: got %v, want validation error", err)
	}
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	engine, _, appt := bookTestAppointment(t)

	_, err := engine.UpdateStatus(context.Background(), StatusUpdateRequest{
		AppointmentID: appt.ID,
		NewStatus:     models.AppointmentStatus("archived"),
		ActorID:       "staff-1",
	})
	if !IsValidation(err) {
		t.Fatalf("unknown status: got %v, want validation error", err)
	}
}

func TestUpdateStatusUnknownAppointment(t *testing.T) {
	engine, _, _, _ := newTestEngine()
	_, err := engine.UpdateStatus(context.Background(), StatusUpdateRequest{
		AppointmentID: "missing",
		NewStatus:     models.StatusConfirmed,
		ActorID:       "staff-1",
	})
	if !IsNotFound(err) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestCancelRecordsReasonAndReleasesSlot(t *testing.T) {
	engine, _, appt := bookTestAppointment(t)

	cancelled, err := engine.UpdateStatus(context.Background(), StatusUpdateRequest{
		AppointmentID:      appt.ID,
		NewStatus:          models.StatusCancelled,
		ActorID:            "pat-1",
		CancellationReason: "feeling better",
	})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.CancelledAt == nil || cancelled.CancelledBy != "pat-1" || cancelled.CancellationReason != "feeling better" {
		t.Errorf("cancellation fields not recorded: %+v", cancelled)
	}
	if cancelled.Active {
		t.Error("cancelled appointment still active")
	}

	slots, err := engine.AvailableSlots(context.Background(), "doc-1", "branch-1", testMonday, "svc-30")
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	for _, slot := range slots {
		if !slot.Available {
			t.Errorf("slot %s still blocked after cancellation", slot.StartTime)
		}
	}
}

func TestNoShowReleasesSlot(t *testing.T) {
	engine, _, appt := bookTestAppointment(t)

	swept := advance(t, engine, appt.ID, models.StatusNoShow)
	if swept.Active {
		t.Error("no_show appointment still active")
	}
	if _, err := engine.BookAppointment(context.Background(), testBookingRequest(600)); err != nil {
		t.Fatalf("rebooking after no_show: %v", err)
	}
}

func TestRescheduleResetsToPending(t *testing.T) {
	engine, _, appt := bookTestAppointment(t)
	advance(t, engine, appt.ID, models.StatusConfirmed)

	const nextMonday = "2025-06-09"
	moved, err := engine.Reschedule(context.Background(), RescheduleRequest{
		AppointmentID: appt.ID,
		NewDate:       nextMonday,
		NewStart:      540,
		ActorID:       "staff-1",
	})
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if moved.Status != models.StatusPending {
		t.Errorf("status after reschedule = %s, want pending", moved.Status)
	}
	if moved.Date != nextMonday || moved.Start != 540 || moved.End != 570 {
		t.Errorf("moved to %s [%d,%d), want %s [540,570)", moved.Date, moved.Start, moved.End, nextMonday)
	}

	logs, err := engine.AppointmentLogs(context.Background(), appt.ID)
	if err != nil {
		t.Fatalf("AppointmentLogs: %v", err)
	}
	last := logs[len(logs)-1]
	if last.Action != models.LogActionRescheduled {
		t.Errorf("last log action = %s, want rescheduled", last.Action)
	}
	if last.Previous == nil || last.Previous.Date != testMonday {
		t.Errorf("rescheduled log does not carry the old slot: %+v", last.Previous)
	}

	// The old slot is free again.
	if _, err := engine.BookAppointment(context.Background(), testBookingRequest(600)); err != nil {
		t.Fatalf("booking the vacated slot: %v", err)
	}
}

func TestRescheduleIntoTakenSlot(t *testing.T) {
	engine, _, appt := bookTestAppointment(t)

	other, err := engine.BookAppointment(context.Background(), testBookingRequest(630))
	if err != nil {
		t.Fatalf("second booking: %v", err)
	}

	_, err = engine.Reschedule(context.Background(), RescheduleRequest{
		AppointmentID: appt.ID,
		NewDate:       testMonday,
		NewStart:      other.Start,
		ActorID:       "staff-1",
	})
	if !IsConflict(err) {
		t.Fatalf("reschedule into taken slot: got %v, want conflict", err)
	}
}

func TestRescheduleOutsideSchedule(t *testing.T) {
	engine, _, appt := bookTestAppointment(t)

	_, err := engine.Reschedule(context.Background(), RescheduleRequest{
		AppointmentID: appt.ID,
		NewDate:       testMonday,
		NewStart:      780, // past the 12:00 close
		ActorID:       "staff-1",
	})
	if !IsValidation(err) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestRescheduleTerminalAppointment(t *testing.T) {
	engine, _, appt := bookTestAppointment(t)
	advance(t, engine, appt.ID, models.StatusCancelled)

	_, err := engine.Reschedule(context.Background(), RescheduleRequest{
		AppointmentID: appt.ID,
		NewDate:       testMonday,
		NewStart:      660,
		ActorID:       "staff-1",
	})
	if !IsValidation(err) {
		t.Fatalf("got %v, want validation error", err)
	}
}
