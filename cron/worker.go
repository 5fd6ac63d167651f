package cron

import (
	"context"
	"fmt"
	"time"

	"beamhealth/models"
	"beamhealth/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Deliverer performs the actual (mock) delivery of a queued email.
type Deliverer interface {
	Deliver(ctx context.Context, p models.EmailPayload) error
}

// EmailWorker consumes queued emails.
type EmailWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	redis  *redis.Client
	logger *zap.Logger
	stop   chan struct{}
}

// InitEmailWorker starts the email worker in the background.
func InitEmailWorker(opt asynq.RedisClientOpt, deliverer Deliverer, logger *zap.Logger) (*EmailWorker, error) {
	srv := asynq.NewServer(
		opt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				tasks.EmailQueue: 1,
			},
			Logger: logger.Sugar().Named("asynq"),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendEmail, handleEmailTask(deliverer, logger))

	w := &EmailWorker{
		srv:    srv,
		mux:    mux,
		redis:  redis.NewClient(&redis.Options{Addr: opt.Addr, Password: opt.Password, DB: opt.DB}),
		logger: logger,
		stop:   make(chan struct{}),
	}

	logger.Info("[EmailWorker] Starting async worker...")
	const maxAttempts = 5
	for attempts := 1; ; attempts++ {
		err := srv.Start(mux)
		if err == nil {
			break
		}
		logger.Warn("[EmailWorker] Failed to start worker",
			zap.Int("attempt", attempts), zap.Int("max_attempts", maxAttempts), zap.Error(err))
		if attempts == maxAttempts {
			w.redis.Close()
			return nil, fmt.Errorf("email worker: max retry attempts reached: %w", err)
		}
		time.Sleep(time.Duration(attempts*2) * time.Second)
	}

	go w.monitorRedisConnection()
	return w, nil
}

// Shutdown stops accepting tasks and waits for running ones.
func (w *EmailWorker) Shutdown() {
	close(w.stop)
	w.srv.Shutdown()
	w.redis.Close()
}

func handleEmailTask(deliverer Deliverer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseEmailTask(task)
		if err != nil {
			logger.Error("[EmailHandler] Invalid payload", zap.Error(err))
			return fmt.Errorf("invalid email payload: %v: %w", err, asynq.SkipRetry)
		}
		if err := deliverer.Deliver(ctx, p); err != nil {
			logger.Error("[EmailHandler] Failed to deliver email", zap.String("email_id", p.ID), zap.Error(err))
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func (w *EmailWorker) monitorRedisConnection() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			if err := w.redis.Ping(context.Background()).Err(); err != nil {
				w.logger.Warn("[EmailWorker] Redis connection lost", zap.Error(err))
			}
		}
	}
}
