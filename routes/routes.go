package routes

import (
	"strings"
	"time"

	"beamhealth/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterAppointmentRoutes registers appointment endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.GET("", hb.ListAppointmentsHandler)
		api.GET("/active", hb.GetActiveAppointmentHandler)
	}
	r.GET("/api/debug/appointments", hb.DebugAppointmentsHandler)
}

// RegisterPatientRoutes registers patient and insurance endpoints.
func RegisterPatientRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/patients")
	{
		api.GET("", hb.ListPatientsHandler)
		api.GET("/:id", hb.GetPatientHandler)
		api.GET("/:id/current-appointment", hb.CurrentAppointmentHandler)
	}
	r.GET("/api/insurances", hb.ListInsurancesHandler)
}

// RegisterAIRoutes registers transcription and summary endpoints.
func RegisterAIRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/transcribe", hb.TranscribeHandler)
	r.POST("/api/encounter-summary", hb.EncounterSummaryHandler)
}

// RegisterNotificationRoutes registers the mock email endpoint.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/send-email", hb.SendEmailHandler)
}

// RegisterHealthRoute registers the banner, health and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/", hb.RootHandler)
	r.GET("/health", hb.HealthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// CORSConfig builds the CORS policy from a comma-separated origin list;
// "*" allows every origin.
func CORSConfig(allowedOrigins string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}

	var origins []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, allowedOrigins string) {
	r.Use(cors.New(CORSConfig(allowedOrigins)))

	RegisterHealthRoute(r, hb)
	RegisterAppointmentRoutes(r, hb)
	RegisterPatientRoutes(r, hb)
	RegisterAIRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
}
