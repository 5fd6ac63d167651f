package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"beamhealth/metrics"
	"beamhealth/models"
	"beamhealth/services/patient"

	"go.uber.org/zap"
)

const fallbackPatientName = "Patient"

// PatientLookup is the slice of the patient service the summary flow needs.
type PatientLookup interface {
	GetPatientByID(ctx context.Context, id int) (*models.Patient, error)
}

// EncounterService produces encounter summaries from transcriptions.
type EncounterService struct {
	Summarizer Summarizer
	Patients   PatientLookup
	Store      SummaryStore // optional
	Timeout    time.Duration
	Logger     *zap.Logger

	now func() time.Time
}

func NewEncounterService(summarizer Summarizer, patients PatientLookup, store SummaryStore, timeout time.Duration, logger *zap.Logger) *EncounterService {
	return &EncounterService{
		Summarizer: summarizer,
		Patients:   patients,
		Store:      store,
		Timeout:    timeout,
		Logger:     logger,
		now:        time.Now,
	}
}

// GenerateSummary either returns a complete summary or an error; nothing
// partial is returned.
func (s *EncounterService) GenerateSummary(ctx context.Context, req models.EncounterSummaryRequest) (*models.EncounterSummary, error) {
	if req.PatientID == nil {
		return nil, fmt.Errorf("%w: patient_id is required", ErrInvalidRequest)
	}
	patientID := *req.PatientID

	transcript, err := TranscriptText(req.Transcription)
	if err != nil {
		return nil, err
	}

	name, err := s.patientName(ctx, patientID)
	if err != nil {
		return nil, err
	}

	logger := s.Logger.With(zap.Int("patient_id", patientID))
	key := SummaryKey(patientID, transcript)
	content := s.cached(ctx, key, logger)
	if content == nil {
		content, err = s.summarize(ctx, BuildSummaryPrompt(name, transcript))
		if err != nil {
			logger.Error("Error generating encounter summary", zap.Error(err))
			return nil, err
		}
		if s.Store != nil {
			if err := s.Store.Set(ctx, key, content); err != nil {
				logger.Warn("Failed to cache encounter summary", zap.Error(err))
			}
		}
	}

	logger.Info("Encounter summary generated", zap.Int("transcript_chars", len(transcript)))
	return &models.EncounterSummary{
		SummaryContent: *content,
		PatientID:      patientID,
		AppointmentID:  req.AppointmentID,
		GeneratedAt:    s.clock(),
	}, nil
}

func (s *EncounterService) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// patientName falls back to a generic label when the patient is unknown.
func (s *EncounterService) patientName(ctx context.Context, id int) (string, error) {
	p, err := s.Patients.GetPatientByID(ctx, id)
	var nf patient.NotFoundError
	if errors.As(err, &nf) {
		return fallbackPatientName, nil
	}
	if err != nil {
		return "", err
	}
	if name := p.FullName(); name != "" {
		return name, nil
	}
	return fallbackPatientName, nil
}

func (s *EncounterService) cached(ctx context.Context, key string, logger *zap.Logger) *models.SummaryContent {
	if s.Store == nil {
		return nil
	}
	content, ok, err := s.Store.Get(ctx, key)
	if err != nil {
		logger.Warn("Summary cache lookup failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	logger.Debug("Summary cache hit")
	return content
}

func (s *EncounterService) summarize(ctx context.Context, prompt string) (*models.SummaryContent, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	started := time.Now()
	content, err := s.Summarizer.Summarize(ctx, prompt)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ObserveProviderCall(geminiProvider, outcome, time.Since(started))
	if err != nil {
		var pe *ProviderError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, newProviderError(geminiProvider, err)
	}
	return content, nil
}
