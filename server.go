package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"beamhealth/config"
	"beamhealth/cron"
	recordsRepo "beamhealth/database/repository/records"
	"beamhealth/handlers"
	"beamhealth/metrics"
	"beamhealth/middleware"
	"beamhealth/routes"
	"beamhealth/services/appointment"
	ai "beamhealth/services/intelligence"
	"beamhealth/services/notification"
	"beamhealth/services/patient"
	"beamhealth/services/storage"
	"beamhealth/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func runServer(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	metrics.Register()

	repo, _, closeRecords, err := openRecords(ctx, cfg, cfg.RecordSource, cfg.DataDir, logger)
	if err != nil {
		return err
	}
	defer closeRecords()

	// Redis is optional; without it summaries are not cached and email is sent inline.
	var cacheClient *redis.Client
	if cfg.RedisEnabled() {
		cacheClient, err = utils.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisCacheDB)
		if err != nil {
			logger.Warn("Redis unavailable, continuing without summary cache", zap.Error(err))
		} else {
			defer cacheClient.Close()
		}
	}

	// services.
	zone := appointment.FixedOffsetZone(cfg.LocalUTCOffsetHours)
	appointmentService := appointment.NewAppointmentService(repo, appointment.SystemClock{}, zone, logger.Named("appointments"))
	patientService := patient.NewPatientService(repo, logger.Named("patients"))

	transcriber, err := ai.NewGoogleTranscriber(ctx, cfg.GoogleServiceAccountFile, ai.SpeechConfig{
		Language:    cfg.SpeechLanguage,
		Model:       cfg.SpeechModel,
		MaxSpeakers: cfg.SpeechMaxSpeakers,
	}, logger.Named("speech"))
	if err != nil {
		return err
	}
	defer transcriber.Close()

	gemini, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.SummaryTemperature)
	if err != nil {
		return err
	}
	defer gemini.Close()

	var archive ai.AudioArchiver
	if cfg.CloudinaryURL != "" {
		cld, err := storage.NewCloudinaryArchive(cfg.CloudinaryURL, cfg.AudioArchiveFolder)
		if err != nil {
			return err
		}
		archive = cld
	}
	transcriptionService := ai.NewTranscriptionService(transcriber, archive, cfg.ProviderTimeout, logger.Named("transcription"))

	var summaryStore ai.SummaryStore
	if cacheClient != nil {
		summaryStore = ai.NewRedisSummaryStore(cacheClient, cfg.SummaryCacheTTL)
	}
	encounterService := ai.NewEncounterService(gemini, patientService, summaryStore, cfg.ProviderTimeout, logger.Named("encounter"))

	logSender := notification.NewLogEmailSender(logger.Named("email"))
	var emailSender notification.EmailSender = logSender
	if cfg.EmailQueueEnabled && cfg.RedisEnabled() {
		queueOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisQueueDB}
		worker, err := cron.InitEmailWorker(queueOpt, logSender, logger.Named("email-worker"))
		if err != nil {
			return err
		}
		defer worker.Shutdown()

		queue := asynq.NewClient(queueOpt)
		defer queue.Close()
		emailSender = notification.NewQueuedEmailSender(queue, logger.Named("email"))
	}

	monitor := utils.NewHealthMonitor(utils.HealthCheckInterval, healthChecks(repo, cacheClient))
	monitor.Start(ctx)

	// handlers.
	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewAppointmentHandler(appointmentService),
		handlers.NewPatientHandler(patientService, appointmentService),
		handlers.NewIntelligenceHandler(transcriptionService, encounterService, cfg.MaxAudioBytes),
		handlers.NewEmailHandler(emailSender),
		handlers.HealthHandler(monitor),
	)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(logger))
	router.Use(utils.ErrorHandler())
	router.Use(middleware.Metrics())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle, cfg.CORSAllowedOrigins)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	serverErr := make(chan error, 1)
	logger.Info("Starting server", zap.String("addr", srv.Addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}
	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}

func healthChecks(repo recordsRepo.Repository, cacheClient *redis.Client) map[string]utils.HealthCheck {
	checks := map[string]utils.HealthCheck{
		"records": func(ctx context.Context) error {
			_, err := repo.ListAppointments(ctx)
			return err
		},
	}
	if cacheClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return cacheClient.Ping(ctx).Err()
		}
	}
	return checks
}
