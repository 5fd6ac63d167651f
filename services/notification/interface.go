package notification

import (
	"context"
	"time"

	"beamhealth/models"

	"go.uber.org/zap"
)

const mockSentMessage = "Email sent successfully (mock)"

// EmailSender accepts an outgoing patient email. No implementation
// performs real delivery.
type EmailSender interface {
	SendEmail(ctx context.Context, req models.EmailRequest) (*models.EmailReceipt, error)
}

// LogEmailSender "delivers" mail by writing it to the log.
type LogEmailSender struct {
	Logger *zap.Logger
	now    func() time.Time
}

func NewLogEmailSender(logger *zap.Logger) *LogEmailSender {
	return &LogEmailSender{Logger: logger, now: time.Now}
}

func (s *LogEmailSender) SendEmail(ctx context.Context, req models.EmailRequest) (*models.EmailReceipt, error) {
	sentAt := s.clock()
	if err := s.Deliver(ctx, models.EmailPayload{
		ToEmail:     req.ToEmail,
		Subject:     req.Subject,
		Body:        req.Body,
		RequestedAt: sentAt,
	}); err != nil {
		return nil, err
	}
	return receipt(req.ToEmail, sentAt), nil
}

// Deliver is shared with the queue worker.
func (s *LogEmailSender) Deliver(ctx context.Context, p models.EmailPayload) error {
	s.Logger.Info("Email would be sent",
		zap.String("email_id", p.ID),
		zap.String("to", p.ToEmail),
		zap.String("subject", p.Subject),
		zap.String("body", p.Body),
	)
	return nil
}

func (s *LogEmailSender) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

func receipt(to string, sentAt time.Time) *models.EmailReceipt {
	return &models.EmailReceipt{
		Success: true,
		Message: mockSentMessage,
		To:      to,
		SentAt:  sentAt,
	}
}
