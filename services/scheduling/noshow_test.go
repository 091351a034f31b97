package scheduling

import (
	"context"
	"testing"
	"time"

	"medibook/models"
)

func TestSweepNoShows(t *testing.T) {
	engine, schedules, _, _ := newTestEngine()
	schedules.weekly = []models.WeeklySchedule{mondaySchedule(540, 720)}

	stale, err := engine.BookAppointment(context.Background(), testBookingRequest(540)) // ends 09:30
	if err != nil {
		t.Fatalf("booking stale: %v", err)
	}
	seen, err := engine.BookAppointment(context.Background(), testBookingRequest(570)) // ends 10:00
	if err != nil {
		t.Fatalf("booking seen: %v", err)
	}
	advance(t, engine, seen.ID, models.StatusConfirmed)
	advance(t, engine, seen.ID, models.StatusCheckedIn)
	upcoming, err := engine.BookAppointment(context.Background(), testBookingRequest(660)) // ends 11:30
	if err != nil {
		t.Fatalf("booking upcoming: %v", err)
	}

	// 10:30 on the appointment day with a 15 minute grace: the 09:30 end is
	// overdue, the checked-in patient is untouchable, 11:30 is in the future.
	now, err := time.Parse("2006-01-02 15:04", testMonday+" 10:30")
	if err != nil {
		t.Fatalf("parse now: %v", err)
	}
	swept, err := engine.SweepNoShows(context.Background(), now, 15)
	if err != nil {
		t.Fatalf("SweepNoShows: %v", err)
	}
	if swept != 1 {
		t.Fatalf("swept = %d, want 1", swept)
	}

	got, err := engine.GetAppointment(context.Background(), stale.ID)
	if err != nil {
		t.Fatalf("GetAppointment: %v", err)
	}
	if got.Status != models.StatusNoShow || got.Active {
		t.Errorf("stale appointment = %s active=%v, want no_show inactive", got.Status, got.Active)
	}

	for _, id := range []string{seen.ID, upcoming.ID} {
		appt, err := engine.GetAppointment(context.Background(), id)
		if err != nil {
			t.Fatalf("GetAppointment: %v", err)
		}
		if appt.Status == models.StatusNoShow {
			t.Errorf("appointment %s swept, should have been left alone", appt.AppointmentNumber)
		}
	}

	logs, err := engine.AppointmentLogs(context.Background(), stale.ID)
	if err != nil {
		t.Fatalf("AppointmentLogs: %v", err)
	}
	if last := logs[len(logs)-1]; last.ActorID != SweepActor {
		t.Errorf("sweep log actor = %s, want %s", last.ActorID, SweepActor)
	}
}

func TestSweepNoShowsPreviousDay(t *testing.T) {
	engine, schedules, _, _ := newTestEngine()
	schedules.weekly = []models.WeeklySchedule{mondaySchedule(540, 720)}

	appt, err := engine.BookAppointment(context.Background(), testBookingRequest(690)) // ends 12:00
	if err != nil {
		t.Fatalf("booking: %v", err)
	}

	// Early the next morning, before the grace window could matter today:
	// everything from yesterday is overdue regardless of its end time.
	now, err := time.Parse("2006-01-02 15:04", "2025-06-03 00:05")
	if err != nil {
		t.Fatalf("parse now: %v", err)
	}
	swept, err := engine.SweepNoShows(context.Background(), now, 30)
	if err != nil {
		t.Fatalf("SweepNoShows: %v", err)
	}
	if swept != 1 {
		t.Fatalf("swept = %d, want 1", swept)
	}
	got, err := engine.GetAppointment(context.Background(), appt.ID)
	if err != nil {
		t.Fatalf("GetAppointment: %v", err)
	}
	if got.Status != models.StatusNoShow {
		t.Errorf("status = %s, want no_show", got.Status)
	}
}
