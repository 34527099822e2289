package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/saipavansp/incubez-talent-stories/api/controllers"
	"github.com/saipavansp/incubez-talent-stories/api/routes"
	"github.com/saipavansp/incubez-talent-stories/internal/ingest"
	"github.com/saipavansp/incubez-talent-stories/internal/notify"
	"github.com/saipavansp/incubez-talent-stories/internal/submissions"
	"github.com/saipavansp/incubez-talent-stories/pkg/config"
	"github.com/saipavansp/incubez-talent-stories/pkg/db"
	"github.com/saipavansp/incubez-talent-stories/pkg/logger"
	"github.com/saipavansp/incubez-talent-stories/pkg/metrics"
	pkgredis "github.com/saipavansp/incubez-talent-stories/pkg/redis"
	"github.com/saipavansp/incubez-talent-stories/pkg/sheets"
	"github.com/saipavansp/incubez-talent-stories/pkg/storage/r2"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	repo := submissions.NewRepository(dbClient)
	if err := repo.Migrate(); err != nil {
		logg.Error(context.Background(), "failed to run migrations", err)
		os.Exit(1)
	}

	readiness := map[string]controllers.Pinger{"db": dbClient}

	var idemStore pkgredis.IdempotencyStore
	if cfg.Redis.Enabled() {
		redisClient, err := pkgredis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		idemStore = redisClient
		readiness["redis"] = redisClient
	}

	var store submissions.ObjectStore
	if cfg.FeatureFlags.UseObjectStore {
		r2Client, err := r2.NewClient(context.Background(), cfg.R2, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap object store", err)
			os.Exit(1)
		}
		store = r2Client
		readiness["objectStore"] = r2Client
	}

	var sink submissions.RecordSink
	if cfg.FeatureFlags.UseRecordSink {
		sheetsClient, err := sheets.NewClient(context.Background(), cfg.Sheets, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap sheets client", err)
			os.Exit(1)
		}
		sink = sheetsClient
	}

	pipelineMetrics := metrics.NewPipelineMetrics(prometheus.DefaultRegisterer)

	dispatcher := notify.NewDispatcher(
		notify.NewMailer(cfg.SMTP),
		cfg.SMTP,
		cfg.App.ClientURL,
		cfg.Sheets.SpreadsheetID,
		cfg.FeatureFlags.UseNotifications,
		logg,
		pipelineMetrics,
	)

	service := submissions.NewService(repo, store, sink, dispatcher, submissions.Options{
		StoreEnabled: cfg.FeatureFlags.UseObjectStore,
		SinkEnabled:  cfg.FeatureFlags.UseRecordSink,
	}, logg, pipelineMetrics)

	reader, err := ingest.New(cfg.Upload.ScratchDir)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare upload scratch dir", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, service, reader, idemStore, readiness),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error shutting down api server", err)
		}
		dispatcher.Wait()
		logg.Info(ctx, "api server shutting down gracefully")
	}
}
