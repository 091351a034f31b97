package scheduling

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"medibook/models"
)

func testBookingRequest(start int) BookingRequest {
	return BookingRequest{
		PatientID: "pat-1",
		DoctorID:  "doc-1",
		ServiceID: "svc-30",
		BranchID:  "branch-1",
		Date:      testMonday,
		Start:     start,
		Channel:   models.ChannelOnline,
		ActorID:   "pat-1",
	}
}

func TestBookAppointment(t *testing.T) {
	engine, schedules, appts, _ := newTestEngine()
	schedules.weekly = []models.WeeklySchedule{mondaySchedule(540, 720)}

	appt, err := engine.BookAppointment(context.Background(), testBookingRequest(600))
	if err != nil {
		t.Fatalf("BookAppointment: %v", err)
	}
	if appt.Status != models.StatusPending {
		t.Errorf("status = %s, want pending", appt.Status)
	}
	if !appt.Active {
		t.Error("new appointment not active")
	}
	if appt.End != 630 || appt.DurationMinutes != 30 {
		t.Errorf("window [%d,%d) duration %d, want [600,630) 30", appt.Start, appt.End, appt.DurationMinutes)
	}
	wantNumber := fmt.Sprintf("APT-%d-00001", time.Now().Year())
	if appt.AppointmentNumber != wantNumber {
		t.Errorf("number = %s, want %s", appt.AppointmentNumber, wantNumber)
	}

	logs, err := appts.ListLogs(context.Background(), appt.ID)
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	if len(logs) != 1 || logs[0].Action != models.LogActionCreated {
		t.Fatalf("logs = %+v, want one created entry", logs)
	}
	if logs[0].ActorID != "pat-1" || logs[0].New == nil {
		t.Errorf("created log missing actor or snapshot: %+v", logs[0])
	}
}

func TestBookAppointmentNumbersIncrease(t *testing.T) {
	engine, schedules, _, _ := newTestEngine()
	schedules.weekly = []models.WeeklySchedule{mondaySchedule(540, 720)}

	var last string
	for i, start := range []int{540, 570, 600} {
		appt, err := engine.BookAppointment(context.Background(), testBookingRequest(start))
		if err != nil {
			t.Fatalf("booking %d: %v", i, err)
		}
		if last != "" && appt.AppointmentNumber <= last {
			t.Errorf("number %s not after %s", appt.AppointmentNumber, last)
		}
		last = appt.AppointmentNumber
	}
}

func TestBookAppointmentValidation(t *testing.T) {
	engine, schedules, _, _ := newTestEngine()
	schedules.weekly = []models.WeeklySchedule{mondaySchedule(540, 720)}

	tests := []struct {
		name  string
		mut   func(*BookingRequest)
		check func(error) bool
		want  string
	}{
		{
			name:  "missing patient",
			mut:   func(r *BookingRequest) { r.PatientID = "" },
			check: IsValidation, want: "validation",
		},
		{
			name:  "bad date",
			mut:   func(r *BookingRequest) { r.Date = "06/02/2025" },
			check: IsValidation, want: "validation",
		},
		{
			name:  "unknown service",
			mut:   func(r *BookingRequest) { r.ServiceID = "svc-missing" },
			check: IsNotFound, want: "not found",
		},
		{
			name:  "unknown doctor",
			mut:   func(r *BookingRequest) { r.DoctorID = "doc-missing" },
			check: IsNotFound, want: "not found",
		},
		{
			name:  "outside working hours",
			mut:   func(r *BookingRequest) { r.Start = 780 },
			check: IsValidation, want: "validation",
		},
		{
			name:  "misaligned start",
			mut:   func(r *BookingRequest) { r.Start = 555 },
			check: IsValidation, want: "validation",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testBookingRequest(600)
			tt.mut(&req)
			_, err := engine.BookAppointment(context.Background(), req)
			if !tt.check(err) {
				t.Errorf("got %v, want %s error", err, tt.want)
			}
		})
	}
}

func TestBookAppointmentConflict(t *testing.T) {
	engine, schedules, _, _ := newTestEngine()
	schedules.weekly = []models.WeeklySchedule{mondaySchedule(540, 720)}

	if _, err := engine.BookAppointment(context.Background(), testBookingRequest(600)); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	_, err := engine.BookAppointment(context.Background(), testBookingRequest(600))
	if !IsConflict(err) {
		t.Fatalf("second booking: got %v, want conflict", err)
	}
}

// Two racing requests for the identical slot: exactly one wins, the other
// sees a conflict. The uniqueness constraint is the only serialization
// point, so the snapshot both requests validated against does not matter.
func TestBookAppointmentConcurrentRace(t *testing.T) {
	engine, schedules, appts, _ := newTestEngine()
	schedules.weekly = []models.WeeklySchedule{mondaySchedule(540, 720)}

	const attempts = 2
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := testBookingRequest(600)
			req.PatientID = fmt.Sprintf("pat-%d", i)
			req.ActorID = req.PatientID
			_, errs[i] = engine.BookAppointment(context.Background(), req)
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case IsConflict(err):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Fatalf("got %d successes and %d conflicts, want exactly 1 and 1", successes, conflicts)
	}

	// The no-overlap invariant must hold after the race.
	booked, err := appts.ListForDoctorDate(context.Background(), "doc-1", testMonday, models.InactiveStatuses)
	if err != nil {
		t.Fatalf("ListForDoctorDate: %v", err)
	}
	for i := range booked {
		for j := i + 1; j < len(booked); j++ {
			if Overlaps(booked[i].Start, booked[i].End, booked[j].Start, booked[j].End) {
				t.Fatalf("appointments %s and %s overlap", booked[i].ID, booked[j].ID)
			}
		}
	}
}

func TestBookAppointmentReleasedSlotIsBookable(t *testing.T) {
	engine, schedules, _, _ := newTestEngine()
	schedules.weekly = []models.WeeklySchedule{mondaySchedule(540, 720)}

	first, err := engine.BookAppointment(context.Background(), testBookingRequest(600))
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := engine.UpdateStatus(context.Background(), StatusUpdateRequest{
		AppointmentID:      first.ID,
		NewStatus:          models.StatusCancelled,
		ActorID:            "pat-1",
		CancellationReason: "can't make it",
	}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	second, err := engine.BookAppointment(context.Background(), testBookingRequest(600))
	if err != nil {
		t.Fatalf("rebooking cancelled slot: %v", err)
	}
	if second.ID == first.ID {
		t.Error("rebooking reused the cancelled appointment")
	}
}
