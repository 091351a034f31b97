package handlers

import (
	"net/http"
	"time"

	scheduleRepo "medibook/database/repository/schedule"
	"medibook/models"
	"medibook/services/scheduling"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScheduleAdminHandler serves the schedule write paths used by doctors and
// hospital admins: full weekly replacement and date overrides.
type ScheduleAdminHandler struct {
	Schedules scheduleRepo.ScheduleRepository
	Logger    *zap.Logger
}

func NewScheduleAdminHandler(schedules scheduleRepo.ScheduleRepository, logger *zap.Logger) *ScheduleAdminHandler {
	return &ScheduleAdminHandler{Schedules: schedules, Logger: logger}
}

type weeklyRowInput struct {
	DayOfWeek           int    `json:"day_of_week"`
	StartTime           string `json:"start_time" binding:"required"` // "HH:MM:SS"
	EndTime             string `json:"end_time" binding:"required"`
	SlotDurationMinutes int    `json:"slot_duration_minutes"`
	ValidFrom           string `json:"valid_from,omitempty"`
	ValidUntil          string `json:"valid_until,omitempty"`
}

type replaceWeeklyInput struct {
	Rows []weeklyRowInput `json:"rows" binding:"required"`
}

// ReplaceWeeklySchedules replaces the full weekly set for a (doctor,
// branch). Rows for the same day must not overlap: overlap is rejected at
// write time so the resolver never has to reconcile conflicting rows.
func (h *ScheduleAdminHandler) ReplaceWeeklySchedules(c *gin.Context) {
	doctorID := c.Param("doctorID")
	branchID := c.Param("branchID")

	var input replaceWeeklyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	rows := make([]models.WeeklySchedule, 0, len(input.Rows))
	for _, in := range input.Rows {
		if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
			utils.JSONError(c, http.StatusUnprocessableEntity, "invalid schedule", "day_of_week must be 0-6")
			return
		}
		start, err := scheduling.ParseClock(in.StartTime)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid start_time", err.Error())
			return
		}
		end, err := scheduling.ParseClock(in.EndTime)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid end_time", err.Error())
			return
		}
		if start >= end {
			utils.JSONError(c, http.StatusUnprocessableEntity, "invalid schedule", "start time must be before end time")
			return
		}
		for _, dateStr := range []string{in.ValidFrom, in.ValidUntil} {
			if dateStr == "" {
				continue
			}
			if _, err := time.Parse("2006-01-02", dateStr); err != nil {
				utils.JSONError(c, http.StatusBadRequest, "invalid validity date", err.Error())
				return
			}
		}
		rows = append(rows, models.WeeklySchedule{
			DoctorID:            doctorID,
			BranchID:            branchID,
			DayOfWeek:           in.DayOfWeek,
			Start:               start,
			End:                 end,
			SlotDurationMinutes: in.SlotDurationMinutes,
			Active:              true,
			ValidFrom:           in.ValidFrom,
			ValidUntil:          in.ValidUntil,
		})
	}

	// Same-day rows must be disjoint.
	for i := range rows {
		for j := i + 1; j < len(rows); j++ {
			if rows[i].DayOfWeek != rows[j].DayOfWeek {
				continue
			}
			if scheduling.Overlaps(rows[i].Start, rows[i].End, rows[j].Start, rows[j].End) {
				utils.JSONError(c, http.StatusUnprocessableEntity, "invalid schedule",
					"weekly rows for the same day must not overlap")
				return
			}
		}
	}

	if err := h.Schedules.ReplaceWeeklySchedules(c.Request.Context(), doctorID, branchID, rows); err != nil {
		utils.JSONError(c, http.StatusBadGateway, "upstream failure", err.Error())
		return
	}

	h.Logger.Info("weekly schedules replaced",
		zap.String("doctor", doctorID), zap.String("branch", branchID), zap.Int("rows", len(rows)))
	c.JSON(http.StatusOK, gin.H{"doctor_id": doctorID, "branch_id": branchID, "rows": len(rows)})
}

type overrideInput struct {
	Date      string  `json:"date" binding:"required"`
	Available bool    `json:"available"`
	StartTime *string `json:"start_time,omitempty"` // "HH:MM:SS", only meaningful when available
	EndTime   *string `json:"end_time,omitempty"`
	Reason    string  `json:"reason,omitempty"`
}

// UpsertOverride writes the date-specific exception for a (doctor, branch,
// date). Times outside an available=true override are rejected; a closed
// day needs no times.
func (h *ScheduleAdminHandler) UpsertOverride(c *gin.Context) {
	doctorID := c.Param("doctorID")
	branchID := c.Param("branchID")

	var input overrideInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	ov := &models.ScheduleOverride{
		DoctorID:  doctorID,
		BranchID:  branchID,
		Date:      input.Date,
		Available: input.Available,
		Reason:    input.Reason,
	}
	if input.StartTime != nil || input.EndTime != nil {
		if !input.Available {
			utils.JSONError(c, http.StatusUnprocessableEntity, "invalid override",
				"times are only meaningful on an available override")
			return
		}
		if input.StartTime == nil || input.EndTime == nil {
			utils.JSONError(c, http.StatusUnprocessableEntity, "invalid override",
				"start_time and end_time must be set together")
			return
		}
		start, err := scheduling.ParseClock(*input.StartTime)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid start_time", err.Error())
			return
		}
		end, err := scheduling.ParseClock(*input.EndTime)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid end_time", err.Error())
			return
		}
		if start >= end {
			utils.JSONError(c, http.StatusUnprocessableEntity, "invalid override",
				"start time must be before end time")
			return
		}
		ov.Start = &start
		ov.End = &end
	}

	if err := h.Schedules.UpsertOverride(c.Request.Context(), ov); err != nil {
		utils.JSONError(c, http.StatusBadGateway, "upstream failure", err.Error())
		return
	}

	h.Logger.Info("schedule override upserted",
		zap.String("doctor", doctorID), zap.String("branch", branchID),
		zap.String("date", input.Date), zap.Bool("available", input.Available))
	c.JSON(http.StatusOK, ov)
}

// GetWeeklySchedules lists the stored weekly set for a (doctor, branch).
func (h *ScheduleAdminHandler) GetWeeklySchedules(c *gin.Context) {
	rows, err := h.Schedules.ListWeeklySchedules(c.Request.Context(), c.Param("doctorID"), c.Param("branchID"))
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "upstream failure", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}
