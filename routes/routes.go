package routes

import (
	"medibook/handlers"
	"medibook/middleware"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handler sets the router wires up.
type HandlerBundle struct {
	Scheduling    *handlers.SchedulingHandler
	Appointments  *handlers.AppointmentHandler
	ScheduleAdmin *handlers.ScheduleAdminHandler
}

// RegisterRoutes wires all endpoints onto the router. Read endpoints for
// slots and schedules are public (patients browse before signing in); every
// mutation requires an authenticated acting identity for the audit trail.
func RegisterRoutes(r *gin.Engine, b *HandlerBundle) {
	sched := r.Group("/api/scheduling")
	{
		sched.GET("/doctors/:doctorID/branches/:branchID/slots", b.Scheduling.GetAvailableSlots)
		sched.GET("/doctors/:doctorID/branches/:branchID/schedule", b.Scheduling.GetEffectiveSchedule)
	}

	schedAdmin := r.Group("/api/scheduling", middleware.ActorAuthMiddleware())
	{
		schedAdmin.GET("/doctors/:doctorID/branches/:branchID/weekly", b.ScheduleAdmin.GetWeeklySchedules)
		schedAdmin.PUT("/doctors/:doctorID/branches/:branchID/weekly", b.ScheduleAdmin.ReplaceWeeklySchedules)
		schedAdmin.PUT("/doctors/:doctorID/branches/:branchID/overrides", b.ScheduleAdmin.UpsertOverride)
	}

	appts := r.Group("/api/appointments", middleware.ActorAuthMiddleware())
	{
		appts.POST("", b.Appointments.BookAppointment)
		appts.GET("", b.Appointments.ListAppointments)
		appts.GET("/:id", b.Appointments.GetAppointment)
		appts.GET("/:id/logs", b.Appointments.GetAppointmentLogs)
		appts.PATCH("/:id/status", b.Appointments.UpdateStatus)
		appts.PATCH("/:id/reschedule", b.Appointments.Reschedule)
	}
}
