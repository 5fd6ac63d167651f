package appointment

import (
	"time"

	"beamhealth/models"

	"go.uber.org/zap"
)

// ResolveActive returns the booked, patient-assigned appointment whose
// window [start, start+duration) contains now. now is converted to zone
// before comparison because start values are stored as wall-clock time in
// that zone. When several windows overlap the earliest start wins; equal
// starts keep input order. Records with an unparseable start are skipped.
func ResolveActive(appointments []models.Appointment, now time.Time, zone *time.Location, logger *zap.Logger) (*models.Appointment, bool) {
	localNow := models.WallClock(now.In(zone))
	logger.Debug("Resolving active appointment",
		zap.Time("utc_now", now.UTC()),
		zap.Time("local_now", localNow),
		zap.String("zone", zone.String()),
	)

	var (
		best      *models.Appointment
		bestStart time.Time
		booked    int
		active    int
	)
	for i := range appointments {
		apt := &appointments[i]
		if !apt.IsAssigned() {
			continue
		}
		booked++

		start, err := apt.StartTime()
		if err != nil {
			logger.Warn("Skipping invalid appointment entry", zap.Int("appointment_id", apt.ID), zap.Error(err))
			continue
		}
		end := start.Add(apt.Duration())
		if localNow.Before(start) || !localNow.Before(end) {
			continue
		}

		active++
		logger.Debug("Found active appointment",
			zap.Int("appointment_id", apt.ID),
			zap.Int("patient_id", *apt.PatientID),
			zap.Time("start", start),
			zap.Time("end", end),
		)
		if best == nil || start.Before(bestStart) {
			best = apt
			bestStart = start
		}
	}

	logger.Debug("Scanned booked appointments", zap.Int("booked", booked), zap.Int("active", active))
	if best == nil {
		logger.Debug("No active appointment found")
		return nil, false
	}
	if active > 1 {
		logger.Warn("Overlapping active appointments, returning earliest start",
			zap.Int("active", active),
			zap.Int("appointment_id", best.ID),
		)
	}

	result := *best
	return &result, true
}

// NextUpcomingForPatient returns the earliest booked appointment for
// patientID starting at or after now. Unlike ResolveActive, now is used
// as its own wall-clock reading with no zone conversion.
func NextUpcomingForPatient(appointments []models.Appointment, patientID int, now time.Time, logger *zap.Logger) (*models.Appointment, bool) {
	wallNow := models.WallClock(now)

	var (
		best      *models.Appointment
		bestStart time.Time
	)
	for i := range appointments {
		apt := &appointments[i]
		if apt.Status != models.StatusBooked || apt.PatientID == nil || *apt.PatientID != patientID {
			continue
		}
		start, err := apt.StartTime()
		if err != nil {
			logger.Warn("Skipping invalid appointment entry", zap.Int("appointment_id", apt.ID), zap.Error(err))
			continue
		}
		if start.Before(wallNow) {
			continue
		}
		if best == nil || start.Before(bestStart) {
			best = apt
			bestStart = start
		}
	}
	if best == nil {
		return nil, false
	}
	result := *best
	return &result, true
}
