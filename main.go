package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"beamhealth/config"
	"beamhealth/database"
	recordsRepo "beamhealth/database/repository/records"
	"beamhealth/services/appointment"
	"beamhealth/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "beamhealth",
		Short: "Beam Health clinical-visit support API",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadConfig(); err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			utils.InitializeLogger(config.AppConfig.Env, config.AppConfig.LogLevel)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(config.AppConfig, utils.GetLogger())
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(activeCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(config.AppConfig, utils.GetLogger())
		},
	}
}

func activeCmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "active",
		Short: "Print the appointment in progress as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.AppConfig
			logger := utils.GetLogger()

			var clock appointment.Clock = appointment.SystemClock{}
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at value: %w", err)
				}
				clock = appointment.FixedClock{At: t}
			}

			ctx := cmd.Context()
			repo, _, cleanup, err := openRecords(ctx, cfg, cfg.RecordSource, cfg.DataDir, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			svc := appointment.NewAppointmentService(repo, clock, appointment.FixedOffsetZone(cfg.LocalUTCOffsetHours), logger)
			active, err := svc.GetActiveAppointment(ctx)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if active == nil {
				return enc.Encode(struct{}{})
			}
			return enc.Encode(active)
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "evaluate at this instant (RFC3339) instead of now")
	return cmd
}

func seedCmd() *cobra.Command {
	var (
		dir   string
		mongo bool
		dates []string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Append sample patients and appointment slots to the record store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.AppConfig
			logger := utils.GetLogger()

			source := "file"
			if mongo {
				source = "mongo"
			}
			if dir == "" {
				dir = cfg.DataDir
			}

			ctx := cmd.Context()
			_, seeder, cleanup, err := openRecords(ctx, cfg, source, dir, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := database.Seed(ctx, seeder, database.SeedOptions{Dates: dates}, logger)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "data directory for JSON records (defaults to DATA_DIR)")
	cmd.Flags().BoolVar(&mongo, "mongo", false, "seed the MongoDB database at DATABASE_URL instead of JSON files")
	cmd.Flags().StringSliceVar(&dates, "dates", database.DefaultSeedDates, "clinic days to generate slots for (YYYY-MM-DD)")
	return cmd
}

// openRecords returns the configured record store. The cleanup func is
// always safe to call.
func openRecords(ctx context.Context, cfg config.Config, source, dir string, logger *zap.Logger) (recordsRepo.Repository, recordsRepo.Seeder, func(), error) {
	switch source {
	case "", "file":
		repo := recordsRepo.NewFileRepository(dir, logger)
		logger.Info("Using file record source", zap.String("dir", dir))
		return repo, repo, func() {}, nil
	case "mongo":
		client, err := database.NewMongoClient(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("Connected to MongoDB successfully", zap.String("database", cfg.DatabaseName))
		repo := recordsRepo.NewMongoRepository(client, cfg.DatabaseName, logger)
		if err := repo.EnsureIndexes(ctx); err != nil {
			logger.Warn("Could not ensure record indexes", zap.Error(err))
		}
		cleanup := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				logger.Warn("MongoDB disconnect failed", zap.Error(err))
			}
		}
		return repo, repo, cleanup, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown RECORD_SOURCE %q (want file or mongo)", source)
	}
}
