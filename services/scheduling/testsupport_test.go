package scheduling

import (
	"context"
	"sync"

	appointmentRepo "medibook/database/repository/appointment"
	"medibook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// fakeScheduleRepo is an in-memory ScheduleRepository.
type fakeScheduleRepo struct {
	weekly    []models.WeeklySchedule
	overrides map[string]models.ScheduleOverride // doctor|branch|date
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{overrides: make(map[string]models.ScheduleOverride)}
}

func overrideKey(doctorID, branchID, date string) string {
	return doctorID + "|" + branchID + "|" + date
}

func (f *fakeScheduleRepo) GetWeeklySchedules(_ context.Context, doctorID, branchID string, dayOfWeek int, date string) ([]models.WeeklySchedule, error) {
	var rows []models.WeeklySchedule
	for _, row := range f.weekly {
		if row.DoctorID != doctorID || row.BranchID != branchID || row.DayOfWeek != dayOfWeek || !row.Active {
			continue
		}
		if row.ValidFrom != "" && date < row.ValidFrom {
			continue
		}
		if row.ValidUntil != "" && date > row.ValidUntil {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (f *fakeScheduleRepo) ListWeeklySchedules(_ context.Context, doctorID, branchID string) ([]models.WeeklySchedule, error) {
	var rows []models.WeeklySchedule
	for _, row := range f.weekly {
		if row.DoctorID == doctorID && row.BranchID == branchID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (f *fakeScheduleRepo) ReplaceWeeklySchedules(_ context.Context, doctorID, branchID string, rows []models.WeeklySchedule) error {
	var kept []models.WeeklySchedule
	for _, row := range f.weekly {
		if row.DoctorID != doctorID || row.BranchID != branchID {
			kept = append(kept, row)
		}
	}
	f.weekly = append(kept, rows...)
	return nil
}

func (f *fakeScheduleRepo) GetOverride(_ context.Context, doctorID, branchID, date string) (*models.ScheduleOverride, error) {
	if ov, ok := f.overrides[overrideKey(doctorID, branchID, date)]; ok {
		return &ov, nil
	}
	return nil, nil
}

func (f *fakeScheduleRepo) UpsertOverride(_ context.Context, ov *models.ScheduleOverride) error {
	f.overrides[overrideKey(ov.DoctorID, ov.BranchID, ov.Date)] = *ov
	return nil
}

func (f *fakeScheduleRepo) EnsureIndexes() error { return nil }

// fakeAppointmentRepo is an in-memory AppointmentRepository enforcing the
// same unique (doctor, date, start) constraint on active appointments that
// the Mongo partial index provides, so booking races behave identically.
type fakeAppointmentRepo struct {
	mu       sync.Mutex
	appts    map[string]models.Appointment
	logs     []models.AppointmentLog
	counters map[int]int
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{
		appts:    make(map[string]models.Appointment),
		counters: make(map[int]int),
	}
}

func (f *fakeAppointmentRepo) slotTakenLocked(appt *models.Appointment) bool {
	if !appt.Active {
		return false
	}
	for _, existing := range f.appts {
		if existing.ID == appt.ID || !existing.Active {
			continue
		}
		if existing.DoctorID == appt.DoctorID && existing.Date == appt.Date && existing.Start == appt.Start {
			return true
		}
	}
	return false
}

func (f *fakeAppointmentRepo) CreateWithLog(_ context.Context, appt *models.Appointment, logEntry *models.AppointmentLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.slotTakenLocked(appt) {
		return appointmentRepo.ErrSlotTaken
	}
	f.appts[appt.ID] = *appt
	f.logs = append(f.logs, *logEntry)
	return nil
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if appt, ok := f.appts[id]; ok {
		return &appt, nil
	}
	return nil, nil
}

func (f *fakeAppointmentRepo) ListForDoctorDate(_ context.Context, doctorID, date string, exclude []models.AppointmentStatus) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	excluded := make(map[models.AppointmentStatus]bool, len(exclude))
	for _, s := range exclude {
		excluded[s] = true
	}
	var appts []models.Appointment
	for _, appt := range f.appts {
		if appt.DoctorID == doctorID && appt.Date == date && !excluded[appt.Status] {
			appts = append(appts, appt)
		}
	}
	return appts, nil
}

func (f *fakeAppointmentRepo) UpdateWithLog(_ context.Context, appt *models.Appointment, logEntry *models.AppointmentLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.appts[appt.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	if f.slotTakenLocked(appt) {
		return appointmentRepo.ErrSlotTaken
	}
	f.appts[appt.ID] = *appt
	f.logs = append(f.logs, *logEntry)
	return nil
}

func (f *fakeAppointmentRepo) NextAppointmentNumber(_ context.Context, year int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[year]++
	return f.counters[year], nil
}

func (f *fakeAppointmentRepo) ListLogs(_ context.Context, appointmentID string) ([]models.AppointmentLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var logs []models.AppointmentLog
	for _, l := range f.logs {
		if l.AppointmentID == appointmentID {
			logs = append(logs, l)
		}
	}
	return logs, nil
}

func (f *fakeAppointmentRepo) ListOverdue(_ context.Context, date string, cutoffMinutes int, statuses []models.AppointmentStatus) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[models.AppointmentStatus]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}
	var appts []models.Appointment
	for _, appt := range f.appts {
		if appt.Date == date && appt.Active && appt.End <= cutoffMinutes && wanted[appt.Status] {
			appts = append(appts, appt)
		}
	}
	return appts, nil
}

func (f *fakeAppointmentRepo) EnsureIndexes() error { return nil }

// fakeCatalogRepo is an in-memory CatalogRepository.
type fakeCatalogRepo struct {
	doctors  map[string]models.Doctor
	branches map[string]models.Branch
	services map[string]models.HospitalService
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		doctors:  make(map[string]models.Doctor),
		branches: make(map[string]models.Branch),
		services: make(map[string]models.HospitalService),
	}
}

func (f *fakeCatalogRepo) GetDoctorByID(_ context.Context, id string) (*models.Doctor, error) {
	if d, ok := f.doctors[id]; ok {
		return &d, nil
	}
	return nil, nil
}

func (f *fakeCatalogRepo) GetBranchByID(_ context.Context, id string) (*models.Branch, error) {
	if b, ok := f.branches[id]; ok {
		return &b, nil
	}
	return nil, nil
}

func (f *fakeCatalogRepo) GetServiceByID(_ context.Context, id string) (*models.HospitalService, error) {
	if s, ok := f.services[id]; ok {
		return &s, nil
	}
	return nil, nil
}

// newTestEngine assembles an engine over fresh fakes with one doctor,
// branch and 30-minute service pre-registered.
func newTestEngine() (*DefaultSchedulingEngine, *fakeScheduleRepo, *fakeAppointmentRepo, *fakeCatalogRepo) {
	schedules := newFakeScheduleRepo()
	appts := newFakeAppointmentRepo()
	catalog := newFakeCatalogRepo()
	catalog.doctors["doc-1"] = models.Doctor{ID: "doc-1", HospitalID: "hosp-1", FullName: "Dr. Amina Hassan", Active: true}
	catalog.branches["branch-1"] = models.Branch{ID: "branch-1", HospitalID: "hosp-1", Name: "Main Campus", Active: true}
	catalog.services["svc-30"] = models.HospitalService{ID: "svc-30", HospitalID: "hosp-1", Name: "General Consultation", DurationMinutes: 30, Active: true}

	engine := &DefaultSchedulingEngine{
		Schedules:    schedules,
		Appointments: appts,
		Catalog:      catalog,
		NumberPrefix: "APT",
	}
	return engine, schedules, appts, catalog
}
