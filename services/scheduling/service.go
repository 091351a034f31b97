package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appointmentRepo "medibook/database/repository/appointment"
	catalogRepo "medibook/database/repository/catalog"
	scheduleRepo "medibook/database/repository/schedule"
	"medibook/models"
	"medibook/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DefaultSchedulingEngine is the production implementation. All
// collaborators are injected explicitly so tests can substitute in-memory
// fakes; the engine holds no process-wide state of its own.
type DefaultSchedulingEngine struct {
	Schedules    scheduleRepo.ScheduleRepository
	Appointments appointmentRepo.AppointmentRepository
	Catalog      catalogRepo.CatalogRepository

	// Cache is optional; when nil, availability is recomputed on every call.
	Cache        *redis.Client
	CacheTTL     time.Duration
	NumberPrefix string // e.g., "APT"
}

func (se *DefaultSchedulingEngine) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := se.Appointments.GetByID(ctx, id)
	if err != nil {
		return nil, NewUpstreamError("failed to fetch appointment", err)
	}
	if appt == nil {
		return nil, NewNotFoundError("appointment %s not found", id)
	}
	return appt, nil
}

func (se *DefaultSchedulingEngine) ListAppointments(ctx context.Context, doctorID, date string) ([]models.Appointment, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, NewValidationError("invalid date %q: want YYYY-MM-DD", date)
	}
	appts, err := se.Appointments.ListForDoctorDate(ctx, doctorID, date, nil)
	if err != nil {
		return nil, NewUpstreamError("failed to list appointments", err)
	}
	return appts, nil
}

func (se *DefaultSchedulingEngine) AppointmentLogs(ctx context.Context, appointmentID string) ([]models.AppointmentLog, error) {
	if _, err := se.GetAppointment(ctx, appointmentID); err != nil {
		return nil, err
	}
	logs, err := se.Appointments.ListLogs(ctx, appointmentID)
	if err != nil {
		return nil, NewUpstreamError("failed to list appointment logs", err)
	}
	return logs, nil
}

func availabilityCacheKey(doctorID, date, branchID, serviceID string) string {
	return fmt.Sprintf("availability:%s:%s:%s:%s", doctorID, date, branchID, serviceID)
}

func (se *DefaultSchedulingEngine) cachedSlots(ctx context.Context, key string) []models.TimeSlot {
	if se.Cache == nil {
		return nil
	}
	raw, err := se.Cache.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	var slots []models.TimeSlot
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil
	}
	return slots
}

func (se *DefaultSchedulingEngine) storeSlots(ctx context.Context, key string, slots []models.TimeSlot) {
	if se.Cache == nil {
		return
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	ttl := se.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if err := se.Cache.Set(ctx, key, raw, ttl).Err(); err != nil {
		utils.GetLogger().Warn("failed to cache availability", zap.String("key", key), zap.Error(err))
	}
}

// invalidateAvailability drops every cached availability snapshot for a
// doctor's date, across branches and services.
func (se *DefaultSchedulingEngine) invalidateAvailability(ctx context.Context, doctorID, date string) {
	if se.Cache == nil {
		return
	}
	pattern := fmt.Sprintf("availability:%s:%s:*", doctorID, date)
	iter := se.Cache.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := se.Cache.Del(ctx, iter.Val()).Err(); err != nil {
			utils.GetLogger().Warn("failed to invalidate availability cache", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		utils.GetLogger().Warn("availability cache scan failed", zap.String("pattern", pattern), zap.Error(err))
	}
}
