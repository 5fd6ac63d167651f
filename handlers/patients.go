package handlers

import (
	"net/http"
	"strconv"

	"beamhealth/services/appointment"
	"beamhealth/services/patient"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PatientHandler struct {
	Patients     patient.PatientService
	Appointments appointment.AppointmentService
}

func NewPatientHandler(patients patient.PatientService, appointments appointment.AppointmentService) *PatientHandler {
	return &PatientHandler{Patients: patients, Appointments: appointments}
}

// ListPatientsHandler handles GET /api/patients.
func (h *PatientHandler) ListPatientsHandler(c *gin.Context) {
	patients, err := h.Patients.GetAllPatients(c.Request.Context())
	if err != nil {
		writeError(c, err, "Error fetching patients")
		return
	}
	c.JSON(http.StatusOK, patients)
}

// GetPatientHandler handles GET /api/patients/:id.
func (h *PatientHandler) GetPatientHandler(c *gin.Context) {
	id, ok := patientIDParam(c)
	if !ok {
		return
	}
	p, err := h.Patients.GetPatientByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Error fetching patient")
		return
	}
	c.JSON(http.StatusOK, p)
}

// CurrentAppointmentHandler handles GET /api/patients/:id/current-appointment.
// The body is null when the patient has nothing upcoming.
func (h *PatientHandler) CurrentAppointmentHandler(c *gin.Context) {
	id, ok := patientIDParam(c)
	if !ok {
		return
	}
	apt, err := h.Appointments.GetUpcomingForPatient(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Error fetching current appointment")
		return
	}
	if apt == nil {
		getLogger(c).Debug("No upcoming appointment", zap.Int("patient_id", id))
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, apt)
}

// ListInsurancesHandler handles GET /api/insurances.
func (h *PatientHandler) ListInsurancesHandler(c *gin.Context) {
	insurances, err := h.Patients.ListInsurances(c.Request.Context())
	if err != nil {
		writeError(c, err, "Error fetching insurances")
		return
	}
	c.JSON(http.StatusOK, insurances)
}

func patientIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid patient ID", err)
		return 0, false
	}
	return id, true
}
