package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"beamhealth/models"
	"beamhealth/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AudioTranscriber is satisfied by *ai.TranscriptionService.
type AudioTranscriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string, patientID, appointmentID *int) (*models.Transcription, error)
}

// SummaryGenerator is satisfied by *ai.EncounterService.
type SummaryGenerator interface {
	GenerateSummary(ctx context.Context, req models.EncounterSummaryRequest) (*models.EncounterSummary, error)
}

type IntelligenceHandler struct {
	Transcriber   AudioTranscriber
	Summaries     SummaryGenerator
	MaxAudioBytes int64
}

func NewIntelligenceHandler(transcriber AudioTranscriber, summaries SummaryGenerator, maxAudioBytes int64) *IntelligenceHandler {
	return &IntelligenceHandler{
		Transcriber:   transcriber,
		Summaries:     summaries,
		MaxAudioBytes: maxAudioBytes,
	}
}

// TranscribeHandler handles POST /transcribe. The audio arrives as the
// multipart "file" field; patient_id and appointment_id may be given in
// the query string or as form fields.
func (h *IntelligenceHandler) TranscribeHandler(c *gin.Context) {
	logger := getLogger(c)

	if h.MaxAudioBytes > 0 {
		// Leave headroom for the multipart envelope and form fields.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxAudioBytes+1<<20)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.JSONError(c, http.StatusRequestEntityTooLarge, "Audio file too large", err.Error())
			return
		}
		badRequest(c, "Audio file is required", err)
		return
	}
	if h.MaxAudioBytes > 0 && fileHeader.Size > h.MaxAudioBytes {
		utils.JSONError(c, http.StatusRequestEntityTooLarge, "Audio file too large",
			fmt.Sprintf("%d bytes exceeds limit of %d", fileHeader.Size, h.MaxAudioBytes))
		return
	}

	patientID, err := optionalIntParam(c, "patient_id")
	if err != nil {
		badRequest(c, "Invalid patient_id", err)
		return
	}
	appointmentID, err := optionalIntParam(c, "appointment_id")
	if err != nil {
		badRequest(c, "Invalid appointment_id", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		badRequest(c, "Unable to read audio file", err)
		return
	}
	defer file.Close()
	audio, err := io.ReadAll(file)
	if err != nil {
		badRequest(c, "Unable to read audio file", err)
		return
	}
	if len(audio) == 0 {
		badRequest(c, "Audio file is empty", errors.New("zero-length upload"))
		return
	}

	logger.Info("Received audio file",
		zap.String("filename", fileHeader.Filename),
		zap.String("content_type", fileHeader.Header.Get("Content-Type")),
		zap.Int("bytes", len(audio)),
		zap.Any("patient_id", patientID),
		zap.Any("appointment_id", appointmentID),
	)

	result, err := h.Transcriber.Transcribe(c.Request.Context(), audio, fileHeader.Filename, patientID, appointmentID)
	if err != nil {
		writeError(c, err, "Transcription error")
		return
	}
	c.JSON(http.StatusOK, result)
}

// EncounterSummaryHandler handles POST /api/encounter-summary.
func (h *IntelligenceHandler) EncounterSummaryHandler(c *gin.Context) {
	var req models.EncounterSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid encounter summary request", err)
		return
	}

	summary, err := h.Summaries.GenerateSummary(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Error generating encounter summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// optionalIntParam reads an integer from the query string, falling back to
// the form body. Absent or empty means nil.
func optionalIntParam(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		raw = c.PostForm(name)
	}
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
