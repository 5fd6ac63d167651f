package notification

import (
	"context"
	"fmt"
	"time"

	"beamhealth/models"
	"beamhealth/services/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the part of *asynq.Client the queued sender uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueuedEmailSender hands mail to the email worker instead of delivering
// it inline. The receipt is identical to the inline sender's.
type QueuedEmailSender struct {
	client Enqueuer
	logger *zap.Logger
}

func NewQueuedEmailSender(client Enqueuer, logger *zap.Logger) *QueuedEmailSender {
	return &QueuedEmailSender{client: client, logger: logger}
}

func (s *QueuedEmailSender) SendEmail(ctx context.Context, req models.EmailRequest) (*models.EmailReceipt, error) {
	payload := models.EmailPayload{
		ID:          uuid.New().String(),
		ToEmail:     req.ToEmail,
		Subject:     req.Subject,
		Body:        req.Body,
		RequestedAt: time.Now(),
	}
	task, opts, err := tasks.NewEmailTask(payload)
	if err != nil {
		return nil, fmt.Errorf("QueuedEmailSender: failed to build task: %w", err)
	}
	info, err := s.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return nil, fmt.Errorf("QueuedEmailSender: failed to enqueue email: %w", err)
	}
	s.logger.Info("Email queued", zap.String("email_id", payload.ID), zap.String("task_id", info.ID), zap.String("queue", info.Queue))
	return receipt(req.ToEmail, payload.RequestedAt), nil
}
