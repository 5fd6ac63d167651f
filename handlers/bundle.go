package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all your endpoint handlers into one struct.
type HandlerBundle struct {
	RootHandler   gin.HandlerFunc
	HealthHandler gin.HandlerFunc

	// Appointment endpoints
	GetActiveAppointmentHandler gin.HandlerFunc
	ListAppointmentsHandler     gin.HandlerFunc
	DebugAppointmentsHandler    gin.HandlerFunc

	// Patient endpoints
	ListPatientsHandler       gin.HandlerFunc
	GetPatientHandler         gin.HandlerFunc
	CurrentAppointmentHandler gin.HandlerFunc
	ListInsurancesHandler     gin.HandlerFunc

	// AI endpoints
	TranscribeHandler       gin.HandlerFunc
	EncounterSummaryHandler gin.HandlerFunc

	// Notification endpoints
	SendEmailHandler gin.HandlerFunc
}

// NewHandlerBundle wires handler methods into the bundle.
func NewHandlerBundle(
	appointments *AppointmentHandler,
	patients *PatientHandler,
	intelligence *IntelligenceHandler,
	email *EmailHandler,
	health gin.HandlerFunc,
) *HandlerBundle {
	return &HandlerBundle{
		RootHandler:   RootHandler,
		HealthHandler: health,

		GetActiveAppointmentHandler: appointments.GetActiveAppointmentHandler,
		ListAppointmentsHandler:     appointments.ListAppointmentsHandler,
		DebugAppointmentsHandler:    appointments.DebugAppointmentsHandler,

		ListPatientsHandler:       patients.ListPatientsHandler,
		GetPatientHandler:         patients.GetPatientHandler,
		CurrentAppointmentHandler: patients.CurrentAppointmentHandler,
		ListInsurancesHandler:     patients.ListInsurancesHandler,

		TranscribeHandler:       intelligence.TranscribeHandler,
		EncounterSummaryHandler: intelligence.EncounterSummaryHandler,

		SendEmailHandler: email.SendEmailHandler,
	}
}
