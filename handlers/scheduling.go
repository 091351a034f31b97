package handlers

import (
	"net/http"

	"medibook/services/scheduling"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SchedulingHandler serves the read side of the booking engine: effective
// schedules and availability snapshots.
type SchedulingHandler struct {
	Engine scheduling.SchedulingEngine
	Logger *zap.Logger
}

func NewSchedulingHandler(engine scheduling.SchedulingEngine, logger *zap.Logger) *SchedulingHandler {
	return &SchedulingHandler{Engine: engine, Logger: logger}
}

// GetAvailableSlots returns every slot candidate for a doctor/branch/date/
// service, each tagged available or booked. A fully booked day still
// returns its slots, so clients can distinguish it from a non-working day.
func (h *SchedulingHandler) GetAvailableSlots(c *gin.Context) {
	doctorID := c.Param("doctorID")
	branchID := c.Param("branchID")
	date := c.Query("date")
	serviceID := c.Query("serviceId")
	if date == "" || serviceID == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "date and serviceId query parameters are required")
		return
	}

	slots, err := h.Engine.AvailableSlots(c.Request.Context(), doctorID, branchID, date, serviceID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"doctor_id": doctorID,
		"branch_id": branchID,
		"date":      date,
		"slots":     slots,
	})
}

// GetEffectiveSchedule returns the resolved working intervals for a date.
func (h *SchedulingHandler) GetEffectiveSchedule(c *gin.Context) {
	doctorID := c.Param("doctorID")
	branchID := c.Param("branchID")
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "date query parameter is required")
		return
	}

	intervals, err := h.Engine.EffectiveIntervals(c.Request.Context(), doctorID, branchID, date)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"doctor_id": doctorID,
		"branch_id": branchID,
		"date":      date,
		"intervals": intervals,
		"working":   len(intervals) > 0,
	})
}

// respondEngineError maps the engine's error taxonomy onto HTTP statuses.
// Conflicts are expected and recoverable, so they carry the engine's
// user-facing message rather than a generic failure.
func respondEngineError(c *gin.Context, err error) {
	switch {
	case scheduling.IsNotFound(err):
		utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
	case scheduling.IsValidation(err):
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid request", err.Error())
	case scheduling.IsConflict(err):
		utils.JSONError(c, http.StatusConflict, "this time is no longer available, please choose another", err.Error())
	default:
		utils.JSONError(c, http.StatusBadGateway, "upstream failure", err.Error())
	}
}
