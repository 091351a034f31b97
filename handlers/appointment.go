package handlers

import (
	"net/http"

	"medibook/middleware"
	"medibook/models"
	"medibook/services/scheduling"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppointmentHandler serves booking and lifecycle mutations.
type AppointmentHandler struct {
	Engine scheduling.SchedulingEngine
	Logger *zap.Logger
}

func NewAppointmentHandler(engine scheduling.SchedulingEngine, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{Engine: engine, Logger: logger}
}

type bookAppointmentInput struct {
	PatientID string `json:"patient_id" binding:"required"`
	DoctorID  string `json:"doctor_id" binding:"required"`
	ServiceID string `json:"service_id" binding:"required"`
	BranchID  string `json:"branch_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"` // "HH:MM:SS"
	EndTime   string `json:"end_time,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Channel   string `json:"channel,omitempty"`
}

// BookAppointment reserves a slot. A lost booking race returns 409 with a
// message the client can show as-is; the client should re-fetch
// availability before offering slots again.
func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	var input bookAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	start, err := scheduling.ParseClock(input.StartTime)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid start_time", err.Error())
		return
	}
	end := 0
	if input.EndTime != "" {
		if end, err = scheduling.ParseClock(input.EndTime); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid end_time", err.Error())
			return
		}
	}

	appt, err := h.Engine.BookAppointment(c.Request.Context(), scheduling.BookingRequest{
		PatientID: input.PatientID,
		DoctorID:  input.DoctorID,
		ServiceID: input.ServiceID,
		BranchID:  input.BranchID,
		Date:      input.Date,
		Start:     start,
		End:       end,
		Notes:     input.Notes,
		Channel:   models.BookingChannel(input.Channel),
		ActorID:   middleware.ActorID(c),
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

type updateStatusInput struct {
	Status             string `json:"status" binding:"required"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var input updateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	appt, err := h.Engine.UpdateStatus(c.Request.Context(), scheduling.StatusUpdateRequest{
		AppointmentID:      c.Param("id"),
		NewStatus:          models.AppointmentStatus(input.Status),
		ActorID:            middleware.ActorID(c),
		CancellationReason: input.CancellationReason,
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

type rescheduleInput struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"` // "HH:MM:SS"
	EndTime   string `json:"end_time,omitempty"`
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	var input rescheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	start, err := scheduling.ParseClock(input.StartTime)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid start_time", err.Error())
		return
	}
	end := 0
	if input.EndTime != "" {
		if end, err = scheduling.ParseClock(input.EndTime); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid end_time", err.Error())
			return
		}
	}

	appt, err := h.Engine.Reschedule(c.Request.Context(), scheduling.RescheduleRequest{
		AppointmentID: c.Param("id"),
		NewDate:       input.Date,
		NewStart:      start,
		NewEnd:        end,
		ActorID:       middleware.ActorID(c),
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	appt, err := h.Engine.GetAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	doctorID := c.Query("doctorId")
	date := c.Query("date")
	if doctorID == "" || date == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "doctorId and date query parameters are required")
		return
	}
	appts, err := h.Engine.ListAppointments(c.Request.Context(), doctorID, date)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

func (h *AppointmentHandler) GetAppointmentLogs(c *gin.Context) {
	logs, err := h.Engine.AppointmentLogs(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
