package ai

import (
	"context"
	"errors"
	"time"

	"beamhealth/metrics"
	"beamhealth/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AudioArchiver keeps a copy of uploaded consultation audio.
type AudioArchiver interface {
	ArchiveAudio(ctx context.Context, audio []byte, filename string) (string, error)
}

// TranscriptionService proxies consultation audio to the Transcriber and
// annotates the result with the visit it belongs to.
type TranscriptionService struct {
	Transcriber Transcriber
	Archive     AudioArchiver // optional
	Timeout     time.Duration
	Logger      *zap.Logger
}

func NewTranscriptionService(transcriber Transcriber, archive AudioArchiver, timeout time.Duration, logger *zap.Logger) *TranscriptionService {
	return &TranscriptionService{
		Transcriber: transcriber,
		Archive:     archive,
		Timeout:     timeout,
		Logger:      logger,
	}
}

func (s *TranscriptionService) Transcribe(ctx context.Context, audio []byte, filename string, patientID, appointmentID *int) (*models.Transcription, error) {
	if filename == "" {
		filename = defaultFilename
	}
	logger := s.Logger.With(zap.String("filename", filename), zap.Int("bytes", len(audio)))
	logger.Info("Sending audio for transcription")

	callCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	started := time.Now()
	result, err := s.Transcriber.Transcribe(callCtx, audio, filename)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ObserveProviderCall(speechProvider, outcome, time.Since(started))
	if err != nil {
		if errors.Is(err, ErrAudioTooLarge) {
			logger.Warn("Audio rejected before recognition", zap.Error(err))
			return nil, err
		}
		logger.Error("Transcription failed", zap.Error(err))
		var pe *ProviderError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, newProviderError(speechProvider, err)
	}

	result.ID = uuid.New().String()
	result.PatientID = patientID
	result.AppointmentID = appointmentID
	result.Timestamp = time.Now()

	if s.Archive != nil {
		archiveID, err := s.Archive.ArchiveAudio(ctx, audio, filename)
		if err != nil {
			logger.Warn("Audio archive failed", zap.Error(err))
		} else {
			result.AudioArchiveID = archiveID
		}
	}

	logger.Info("Transcription successful", zap.Int("segments", len(result.Segments)))
	return result, nil
}
