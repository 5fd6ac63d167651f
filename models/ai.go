// File: models/ai.go
package models

import (
	"encoding/json"
	"time"
)

// TranscriptSegment is one speaker turn of a diarized transcription.
type TranscriptSegment struct {
	ID      string  `json:"id"`
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
	Start   float64 `json:"start"` // seconds from the beginning of the audio
	End     float64 `json:"end"`
}

// Transcription is what POST /transcribe returns.
type Transcription struct {
	ID             string              `json:"id"`
	Text           string              `json:"text"`
	Segments       []TranscriptSegment `json:"segments"`
	Duration       float64             `json:"duration"`
	Language       string              `json:"language,omitempty"`
	PatientID      *int                `json:"patient_id"`
	AppointmentID  *int                `json:"appointment_id"`
	Timestamp      time.Time           `json:"timestamp"`
	AudioArchiveID string              `json:"audio_archive_id,omitempty"`
}

// SummaryContent is the structured note produced by the language model.
type SummaryContent struct {
	VisitSummary         string   `json:"visit_summary"`
	DiagnosticAssessment string   `json:"diagnostic_assessment"`
	TreatmentCarePlan    string   `json:"treatment_care_plan"`
	FollowUpDuration     string   `json:"follow_up_duration"` // e.g. "2 weeks", never a date
	FollowUpReason       string   `json:"follow_up_reason"`
	PatientInstructions  string   `json:"patient_instructions"`
	FollowUpQuestions    []string `json:"follow_up_questions"`
}

// EncounterSummary is SummaryContent plus request metadata.
type EncounterSummary struct {
	SummaryContent
	PatientID     int       `json:"patient_id"`
	AppointmentID *int      `json:"appointment_id"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// EncounterSummaryRequest is the body of POST /api/encounter-summary.
// Transcription is kept raw: clients send either a diarized object, an
// object with plain text, or a bare string.
type EncounterSummaryRequest struct {
	Transcription json.RawMessage `json:"transcription" binding:"required"`
	PatientID     *int            `json:"patient_id" binding:"required"`
	AppointmentID *int            `json:"appointment_id"`
}
