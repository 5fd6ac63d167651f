// File: models/appointment.go
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type AppointmentStatus string

const (
	StatusAvailable AppointmentStatus = "available"
	StatusBooked    AppointmentStatus = "booked"
)

// DefaultSlotDuration applies when a record has no slot_duration.
const DefaultSlotDuration = 30

// wallClockLayouts are the accepted forms of a zone-less start value.
var wallClockLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Appointment is one scheduled or available slot.
type Appointment struct {
	ID           int               `bson:"id" json:"id"`
	Status       AppointmentStatus `bson:"status" json:"status"`
	Start        string            `bson:"start" json:"start"`                 // wall-clock time, no zone
	SlotDuration *int              `bson:"slot_duration" json:"slot_duration"` // minutes; nil means DefaultSlotDuration
	PatientID    *int              `bson:"patient_id" json:"patient_id"`       // set only once booked

	// raw keeps the record exactly as it was read so it can be echoed back.
	raw json.RawMessage
}

func (a *Appointment) UnmarshalJSON(data []byte) error {
	type plain Appointment
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Appointment(p)
	a.raw = append(json.RawMessage(nil), data...)
	return nil
}

// SetRaw attaches the stored form of a record decoded from another
// source, so it is echoed back in full.
func (a *Appointment) SetRaw(raw json.RawMessage) {
	a.raw = raw
}

func (a Appointment) MarshalJSON() ([]byte, error) {
	if len(a.raw) > 0 {
		return a.raw, nil
	}
	type plain Appointment
	return json.Marshal(plain(a))
}

// IsAssigned reports whether the slot is booked for a patient.
func (a Appointment) IsAssigned() bool {
	return a.Status == StatusBooked && a.PatientID != nil
}

// Duration returns the slot length, falling back to DefaultSlotDuration.
func (a Appointment) Duration() time.Duration {
	minutes := DefaultSlotDuration
	if a.SlotDuration != nil {
		minutes = *a.SlotDuration
	}
	return time.Duration(minutes) * time.Minute
}

// StartTime parses Start as a wall-clock value. The result is expressed in
// UTC only as a carrier; it carries no zone meaning.
func (a Appointment) StartTime() (time.Time, error) {
	return ParseWallClock(a.Start)
}

// ParseWallClock parses a timestamp that has no zone indicator.
func ParseWallClock(value string) (time.Time, error) {
	for _, layout := range wallClockLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid wall-clock timestamp %q", value)
}

// WallClock strips the zone from t, keeping the date and clock reading.
func WallClock(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
