package appointment

import (
	"context"
	"fmt"
	"time"

	recordsRepo "beamhealth/database/repository/records"
	"beamhealth/metrics"
	"beamhealth/models"

	"go.uber.org/zap"
)

// debugSampleSize caps how many booked records DebugSnapshot returns.
const debugSampleSize = 5

// AppointmentService answers appointment queries over the record store.
type AppointmentService interface {
	ListAppointments(ctx context.Context) ([]models.Appointment, error)
	GetActiveAppointment(ctx context.Context) (*models.Appointment, error)
	GetUpcomingForPatient(ctx context.Context, patientID int) (*models.Appointment, error)
	DebugSnapshot(ctx context.Context) (*DebugSnapshot, error)
}

// DebugSnapshot summarises the appointment store for troubleshooting.
type DebugSnapshot struct {
	TotalAppointments  int                  `json:"total_appointments"`
	BookedAppointments int                  `json:"booked_appointments"`
	CurrentTime        string               `json:"current_time"`
	LocalTime          string               `json:"local_time"`
	SampleBooked       []models.Appointment `json:"sample_booked"`
}

// DefaultAppointmentService implements AppointmentService.
type DefaultAppointmentService struct {
	Repo   recordsRepo.Repository
	Clock  Clock
	Logger *zap.Logger

	// Zone is the fixed offset appointment start values are written in.
	Zone *time.Location
	// ServerLocation is the zone used for per-patient upcoming lookups;
	// nil means time.Local.
	ServerLocation *time.Location
}

func NewAppointmentService(repo recordsRepo.Repository, clock Clock, zone *time.Location, logger *zap.Logger) *DefaultAppointmentService {
	return &DefaultAppointmentService{
		Repo:   repo,
		Clock:  clock,
		Zone:   zone,
		Logger: logger,
	}
}

func (s *DefaultAppointmentService) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	apts, err := s.Repo.ListAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListAppointments: %w", err)
	}
	return apts, nil
}

// GetActiveAppointment returns nil with a nil error when nothing is in progress.
func (s *DefaultAppointmentService) GetActiveAppointment(ctx context.Context) (*models.Appointment, error) {
	apts, err := s.Repo.ListAppointments(ctx)
	if err != nil {
		metrics.IncActiveLookup("error")
		return nil, fmt.Errorf("GetActiveAppointment: %w", err)
	}

	active, ok := ResolveActive(apts, s.Clock.Now(), s.Zone, s.Logger)
	if !ok {
		metrics.IncActiveLookup("none")
		s.Logger.Info("No active appointment", zap.Int("appointments", len(apts)))
		return nil, nil
	}
	metrics.IncActiveLookup("found")
	s.Logger.Info("Returning active appointment",
		zap.Int("appointment_id", active.ID),
		zap.Int("patient_id", *active.PatientID),
	)
	return active, nil
}

// GetUpcomingForPatient compares against the server's local clock reading,
// not the fixed appointment zone.
func (s *DefaultAppointmentService) GetUpcomingForPatient(ctx context.Context, patientID int) (*models.Appointment, error) {
	apts, err := s.Repo.ListAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetUpcomingForPatient: %w", err)
	}
	upcoming, ok := NextUpcomingForPatient(apts, patientID, s.serverNow(), s.Logger)
	if !ok {
		return nil, nil
	}
	return upcoming, nil
}

func (s *DefaultAppointmentService) DebugSnapshot(ctx context.Context) (*DebugSnapshot, error) {
	apts, err := s.Repo.ListAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("DebugSnapshot: %w", err)
	}

	booked := make([]models.Appointment, 0)
	for _, a := range apts {
		if a.IsAssigned() {
			booked = append(booked, a)
		}
	}
	sample := booked
	if len(sample) > debugSampleSize {
		sample = sample[:debugSampleSize]
	}

	now := s.Clock.Now()
	return &DebugSnapshot{
		TotalAppointments:  len(apts),
		BookedAppointments: len(booked),
		CurrentTime:        models.WallClock(s.serverNow()).Format("2006-01-02T15:04:05"),
		LocalTime:          models.WallClock(now.In(s.Zone)).Format("2006-01-02T15:04:05"),
		SampleBooked:       sample,
	}, nil
}

func (s *DefaultAppointmentService) serverNow() time.Time {
	loc := s.ServerLocation
	if loc == nil {
		loc = time.Local
	}
	return s.Clock.Now().In(loc)
}
