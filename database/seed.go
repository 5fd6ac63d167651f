package database

import (
	"context"
	"fmt"
	"time"

	recordsRepo "beamhealth/database/repository/records"
	"beamhealth/models"

	"go.uber.org/zap"
)

// DefaultSeedDates are the clinic days generated when none are given.
var DefaultSeedDates = []string{"2025-12-12", "2025-12-15"}

var samplePatients = []models.Patient{
	{FirstName: "Sarah", LastName: "Johnson", DOB: "1988-03-15", Email: "sarah.johnson@example.com", Phone: "5553334444", Gender: "female"},
	{FirstName: "Michael", LastName: "Chen", DOB: "1992-11-08", Email: "michael.chen@example.com", Phone: "5556667777", Gender: "male"},
	{FirstName: "Emily", LastName: "Rodriguez", DOB: "1987-06-20", Email: "emily.rodriguez@example.com", Phone: "5558889999", Gender: "female"},
	{FirstName: "David", LastName: "Kim", DOB: "1995-09-12", Email: "david.kim@example.com", Phone: "5550001111", Gender: "male"},
	{FirstName: "Jessica", LastName: "Martinez", DOB: "1991-04-25", Email: "jessica.martinez@example.com", Phone: "5552223333", Gender: "female"},
	{FirstName: "Robert", LastName: "Taylor", DOB: "1986-12-30", Email: "robert.taylor@example.com", Phone: "5554445555", Gender: "male"},
	{FirstName: "Amanda", LastName: "Anderson", DOB: "1994-07-18", Email: "amanda.anderson@example.com", Phone: "5556668888", Gender: "female"},
	{FirstName: "James", LastName: "Wilson", DOB: "1989-01-22", Email: "james.wilson@example.com", Phone: "5557778888", Gender: "male"},
	{FirstName: "Lisa", LastName: "Brown", DOB: "1993-05-14", Email: "lisa.brown@example.com", Phone: "5559990000", Gender: "female"},
	{FirstName: "Christopher", LastName: "Davis", DOB: "1990-08-07", Email: "chris.davis@example.com", Phone: "5551112222", Gender: "male"},
}

// SeedOptions controls slot generation.
type SeedOptions struct {
	Dates        []string
	StartHour    int
	EndHour      int
	SlotDuration int
}

func (o SeedOptions) withDefaults() SeedOptions {
	if len(o.Dates) == 0 {
		o.Dates = DefaultSeedDates
	}
	if o.StartHour == 0 && o.EndHour == 0 {
		o.StartHour, o.EndHour = 9, 16
	}
	if o.SlotDuration <= 0 {
		o.SlotDuration = models.DefaultSlotDuration
	}
	return o
}

// SeedResult reports what a seed run added.
type SeedResult struct {
	AddedPatients     int `json:"added_patients"`
	TotalPatients     int `json:"total_patients"`
	AddedAppointments int `json:"added_appointments"`
	TotalAppointments int `json:"total_appointments"`
	Booked            int `json:"booked"`
}

// GenerateSeed builds the sample patients and a day of slots per date.
// Every other new slot is booked, cycling through the readable existing
// patients followed by the new ones. IDs continue from the highest
// readable stored ID. Only the new records are returned.
func GenerateSeed(patients, appointments recordsRepo.StoredIDs, opts SeedOptions) ([]models.Patient, []models.Appointment, *SeedResult, error) {
	opts = opts.withDefaults()
	if opts.EndHour <= opts.StartHour || opts.StartHour < 0 || opts.EndHour > 24 {
		return nil, nil, nil, fmt.Errorf("invalid clinic hours %d-%d", opts.StartHour, opts.EndHour)
	}

	nextPatientID := patients.Max() + 1
	newPatients := make([]models.Patient, 0, len(samplePatients))
	for _, p := range samplePatients {
		p.ID = nextPatientID
		nextPatientID++
		newPatients = append(newPatients, p)
	}

	patientIDs := append([]int(nil), patients.IDs...)
	for _, p := range newPatients {
		patientIDs = append(patientIDs, p.ID)
	}

	nextAptID := appointments.Max() + 1
	var newApts []models.Appointment
	result := &SeedResult{AddedPatients: len(newPatients)}
	for _, date := range opts.Dates {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("invalid seed date %q: %w", date, err)
		}
		slot := day.Add(time.Duration(opts.StartHour) * time.Hour)
		end := day.Add(time.Duration(opts.EndHour) * time.Hour)
		for i := 0; slot.Before(end); i++ {
			duration := opts.SlotDuration
			apt := models.Appointment{
				ID:           nextAptID,
				Status:       models.StatusAvailable,
				Start:        slot.Format("2006-01-02T15:04:05"),
				SlotDuration: &duration,
			}
			if i%2 == 0 {
				pid := patientIDs[result.Booked%len(patientIDs)]
				apt.Status = models.StatusBooked
				apt.PatientID = &pid
				result.Booked++
			}
			newApts = append(newApts, apt)
			nextAptID++
			slot = slot.Add(time.Duration(opts.SlotDuration) * time.Minute)
		}
	}

	result.AddedAppointments = len(newApts)
	result.TotalPatients = patients.Count + len(newPatients)
	result.TotalAppointments = appointments.Count + len(newApts)
	return newPatients, newApts, result, nil
}

// Seed appends generated records to the store. Records already stored
// are kept as they are, including ones the API cannot decode. Missing
// data files count as empty.
func Seed(ctx context.Context, seeder recordsRepo.Seeder, opts SeedOptions, logger *zap.Logger) (*SeedResult, error) {
	patients, err := seeder.PatientIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("Seed: %w", err)
	}
	appointments, err := seeder.AppointmentIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("Seed: %w", err)
	}
	if unreadable := patients.Count - len(patients.IDs); unreadable > 0 {
		logger.Warn("Keeping patients without a readable id", zap.Int("count", unreadable))
	}
	if unreadable := appointments.Count - len(appointments.IDs); unreadable > 0 {
		logger.Warn("Keeping appointments without a readable id", zap.Int("count", unreadable))
	}

	newPatients, newApts, result, err := GenerateSeed(patients, appointments, opts)
	if err != nil {
		return nil, fmt.Errorf("Seed: %w", err)
	}
	if err := seeder.AppendPatients(ctx, newPatients); err != nil {
		return nil, fmt.Errorf("Seed: %w", err)
	}
	if err := seeder.AppendAppointments(ctx, newApts); err != nil {
		return nil, fmt.Errorf("Seed: %w", err)
	}

	logger.Info("Seeded records",
		zap.Int("added_patients", result.AddedPatients),
		zap.Int("total_patients", result.TotalPatients),
		zap.Int("added_appointments", result.AddedAppointments),
		zap.Int("total_appointments", result.TotalAppointments),
		zap.Int("booked", result.Booked),
	)
	return result, nil
}
