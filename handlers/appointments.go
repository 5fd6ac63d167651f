package handlers

import (
	"net/http"

	"beamhealth/services/appointment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AppointmentHandler struct {
	Service appointment.AppointmentService
}

func NewAppointmentHandler(svc appointment.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Service: svc}
}

// GetActiveAppointmentHandler handles GET /api/appointments/active.
// An empty object means nothing is in progress.
func (h *AppointmentHandler) GetActiveAppointmentHandler(c *gin.Context) {
	active, err := h.Service.GetActiveAppointment(c.Request.Context())
	if err != nil {
		writeError(c, err, "Error fetching active appointment")
		return
	}
	if active == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, active)
}

// ListAppointmentsHandler handles GET /api/appointments.
func (h *AppointmentHandler) ListAppointmentsHandler(c *gin.Context) {
	apts, err := h.Service.ListAppointments(c.Request.Context())
	if err != nil {
		writeError(c, err, "Error fetching appointments")
		return
	}
	c.JSON(http.StatusOK, apts)
}

// DebugAppointmentsHandler handles GET /api/debug/appointments.
func (h *AppointmentHandler) DebugAppointmentsHandler(c *gin.Context) {
	snap, err := h.Service.DebugSnapshot(c.Request.Context())
	if err != nil {
		writeError(c, err, "Error reading appointments")
		return
	}
	getLogger(c).Debug("Appointment debug snapshot",
		zap.Int("total", snap.TotalAppointments),
		zap.Int("booked", snap.BookedAppointments),
	)
	c.JSON(http.StatusOK, snap)
}
