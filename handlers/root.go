package handlers

import (
	"net/http"

	"beamhealth/utils"

	"github.com/gin-gonic/gin"
)

var endpoints = gin.H{
	"transcribe":         "/transcribe",
	"patients":           "/api/patients",
	"insurances":         "/api/insurances",
	"appointments":       "/api/appointments",
	"active_appointment": "/api/appointments/active",
	"encounter_summary":  "/api/encounter-summary",
	"send_email":         "/api/send-email",
	"health":             "/health",
}

// RootHandler handles GET / with a banner and endpoint map.
func RootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Beam Health Backend API is running", "endpoints": endpoints})
}

// HealthHandler handles GET /health with the monitor's latest snapshot.
func HealthHandler(monitor *utils.HealthMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := monitor.Status()
		code := http.StatusOK
		if !status.Healthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status": statusLabel(status.Healthy),
			"health": status,
		})
	}
}

func statusLabel(healthy bool) string {
	if healthy {
		return "ok"
	}
	return "degraded"
}
