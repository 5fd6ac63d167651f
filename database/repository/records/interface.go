package recordsRepo

import (
	"context"
	"errors"

	"beamhealth/metrics"
	"beamhealth/models"

	"go.uber.org/zap"
)

// ErrDataUnavailable means the backing record store could not be read.
var ErrDataUnavailable = errors.New("data unavailable")

// Repository supplies full snapshots of the clinic's records.
type Repository interface {
	ListAppointments(ctx context.Context) ([]models.Appointment, error)
	ListPatients(ctx context.Context) ([]models.Patient, error)
	ListInsurances(ctx context.Context) ([]models.Insurance, error)
}

// StoredIDs describes what a collection already holds. Count includes
// records whose id could not be read; IDs only the readable ones.
type StoredIDs struct {
	IDs   []int
	Count int
}

// Max returns the highest readable id, or 0.
func (s StoredIDs) Max() int {
	max := 0
	for _, id := range s.IDs {
		if id > max {
			max = id
		}
	}
	return max
}

// Seeder appends generated records; existing records are never rewritten.
// Used by the seed command only.
type Seeder interface {
	PatientIDs(ctx context.Context) (StoredIDs, error)
	AppointmentIDs(ctx context.Context) (StoredIDs, error)
	AppendPatients(ctx context.Context, patients []models.Patient) error
	AppendAppointments(ctx context.Context, appointments []models.Appointment) error
}

const (
	kindAppointment = "appointment"
	kindPatient     = "patient"
	kindInsurance   = "insurance"
)

// skipRecord logs a record that could not be decoded; the rest of the snapshot is kept.
func skipRecord(logger *zap.Logger, kind string, index int, err error) {
	logger.Warn("Skipping unreadable record",
		zap.String("kind", kind),
		zap.Int("index", index),
		zap.Error(err),
	)
}

// reportAppointments publishes the unusable-record count for one
// appointment snapshot: undecodable entries plus entries whose start
// cannot be parsed.
func reportAppointments(apts []models.Appointment, skipped int) {
	for _, a := range apts {
		if _, err := a.StartTime(); err != nil {
			skipped++
		}
	}
	metrics.SetMalformedRecords(kindAppointment, skipped)
}
