package cron

import (
	"context"
	"errors"
	"testing"

	"beamhealth/models"
	"beamhealth/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingDeliverer struct {
	got []models.EmailPayload
	err error
}

func (r *recordingDeliverer) Deliver(ctx context.Context, p models.EmailPayload) error {
	r.got = append(r.got, p)
	return r.err
}

func TestHandleEmailTask(t *testing.T) {
	d := &recordingDeliverer{}
	task, _, err := tasks.NewEmailTask(models.EmailPayload{ID: "e-1", ToEmail: "sarah@example.com", Subject: "Hi"})
	require.NoError(t, err)

	require.NoError(t, handleEmailTask(d, zap.NewNop())(context.Background(), task))
	require.Len(t, d.got, 1)
	assert.Equal(t, "sarah@example.com", d.got[0].ToEmail)
}

func TestHandleEmailTaskInvalidPayloadSkipsRetry(t *testing.T) {
	d := &recordingDeliverer{}
	task := asynq.NewTask(tasks.TypeSendEmail, []byte("not json"))

	err := handleEmailTask(d, zap.NewNop())(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, d.got)
}

func TestHandleEmailTaskDeliveryError(t *testing.T) {
	d := &recordingDeliverer{err: errors.New("smtp unavailable")}
	task, _, err := tasks.NewEmailTask(models.EmailPayload{ToEmail: "sarah@example.com"})
	require.NoError(t, err)

	err = handleEmailTask(d, zap.NewNop())(context.Background(), task)
	assert.ErrorContains(t, err, "smtp unavailable")
}
