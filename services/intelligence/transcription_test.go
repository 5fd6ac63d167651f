package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"beamhealth/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTranscriber struct {
	result   *models.Transcription
	err      error
	block    bool
	filename string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte, filename string) (*models.Transcription, error) {
	f.filename = filename
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	out := *f.result
	return &out, nil
}

type fakeArchive struct {
	id    string
	err   error
	calls int
}

func (f *fakeArchive) ArchiveAudio(ctx context.Context, audio []byte, filename string) (string, error) {
	f.calls++
	return f.id, f.err
}

func diarized() *models.Transcription {
	return &models.Transcription{
		Text: "hello there",
		Segments: []models.TranscriptSegment{
			{ID: "seg_0", Speaker: "A", Text: "hello", End: 0.5},
			{ID: "seg_1", Speaker: "B", Text: "there", Start: 0.5, End: 1},
		},
		Duration: 1,
	}
}

func TestTranscribeAnnotatesResult(t *testing.T) {
	transcriber := &fakeTranscriber{result: diarized()}
	archive := &fakeArchive{id: "consultations/abc"}
	svc := NewTranscriptionService(transcriber, archive, time.Minute, zap.NewNop())

	got, err := svc.Transcribe(context.Background(), []byte("audio"), "visit.wav", intPtr(7), intPtr(31))
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, 7, *got.PatientID)
	assert.Equal(t, 31, *got.AppointmentID)
	assert.False(t, got.Timestamp.IsZero())
	assert.Len(t, got.Segments, 2)
	assert.Equal(t, "consultations/abc", got.AudioArchiveID)
	assert.Equal(t, "visit.wav", transcriber.filename)
	assert.Equal(t, 1, archive.calls)
}

func TestTranscribeDefaults(t *testing.T) {
	transcriber := &fakeTranscriber{result: diarized()}
	svc := NewTranscriptionService(transcriber, nil, time.Minute, zap.NewNop())

	got, err := svc.Transcribe(context.Background(), []byte("audio"), "", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, defaultFilename, transcriber.filename)
	assert.Nil(t, got.PatientID)
	assert.Nil(t, got.AppointmentID)
	assert.Empty(t, got.AudioArchiveID)
}

func TestTranscribeArchiveFailureIsNotFatal(t *testing.T) {
	archive := &fakeArchive{err: errors.New("upload refused")}
	svc := NewTranscriptionService(&fakeTranscriber{result: diarized()}, archive, time.Minute, zap.NewNop())

	got, err := svc.Transcribe(context.Background(), []byte("audio"), "visit.webm", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got.AudioArchiveID)
}

func TestTranscribeProviderFailures(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		svc := NewTranscriptionService(&fakeTranscriber{err: errors.New("bad audio")}, nil, time.Minute, zap.NewNop())

		_, err := svc.Transcribe(context.Background(), []byte("audio"), "visit.webm", nil, nil)
		var pe *ProviderError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "speech", pe.Provider)
		assert.False(t, pe.Timeout())
	})

	t.Run("AlreadyWrapped", func(t *testing.T) {
		wrapped := newProviderError(speechProvider, errors.New("quota"))
		svc := NewTranscriptionService(&fakeTranscriber{err: wrapped}, nil, time.Minute, zap.NewNop())

		_, err := svc.Transcribe(context.Background(), []byte("audio"), "visit.webm", nil, nil)
		assert.Same(t, wrapped, err)
	})

	t.Run("Timeout", func(t *testing.T) {
		svc := NewTranscriptionService(&fakeTranscriber{block: true}, nil, 10*time.Millisecond, zap.NewNop())

		_, err := svc.Transcribe(context.Background(), []byte("audio"), "visit.webm", nil, nil)
		var pe *ProviderError
		require.True(t, errors.As(err, &pe))
		assert.True(t, pe.Timeout())
	})
	t.Run("AudioTooLarge", func(t *testing.T) {
		tooLarge := fmt.Errorf("%w: 12000000 bytes after conversion", ErrAudioTooLarge)
		svc := NewTranscriptionService(&fakeTranscriber{err: tooLarge}, nil, time.Minute, zap.NewNop())

		_, err := svc.Transcribe(context.Background(), []byte("audio"), "visit.m4a", nil, nil)
		assert.ErrorIs(t, err, ErrAudioTooLarge)
		var pe *ProviderError
		assert.False(t, errors.As(err, &pe))
	})
}
