package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"mindlink/internal/analyzer"
	"mindlink/internal/config"
	"mindlink/internal/publisher"
	"mindlink/internal/server"
	"mindlink/internal/service"
	"mindlink/internal/storage/postgres"
	"mindlink/internal/worker"
	"mindlink/internal/youtube"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
		URL:        cfg.RabbitMQ.URL,
		Exchange:   cfg.RabbitMQ.Exchange,
		RoutingKey: cfg.RabbitMQ.RoutingKey,
		QueueName:  cfg.RabbitMQ.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", "error", err)
		os.Exit(1)
	}
	defer rabbitMQ.Close()

	noteStore := postgres.NewNoteStore(db)
	videoNoteStore := postgres.NewVideoNoteStore(db)
	txManager := postgres.NewTransactionManager(db)

	var metadataFetcher service.MetadataFetcher = youtube.NewOEmbed(youtube.OEmbedConfig{
		BaseURL:   cfg.YouTube.OEmbedBaseURL,
		Timeout:   cfg.YouTube.Timeout,
		UserAgent: cfg.YouTube.UserAgent,
	}, logger)

	if cfg.YouTube.APIKey != "" {
		ytService, err := yt.NewService(ctx, option.WithAPIKey(cfg.YouTube.APIKey))
		if err != nil {
			logger.Error("failed to init youtube data api", "error", err)
			os.Exit(1)
		}
		metadataFetcher = youtube.NewDataAPI(ytService)
		logger.Info("using youtube data api for metadata")
	}

	transcriptClient := youtube.NewTranscriptClient(youtube.TranscriptConfig{
		BaseURL:   cfg.YouTube.WatchBaseURL,
		Timeout:   cfg.YouTube.Timeout,
		UserAgent: cfg.YouTube.UserAgent,
		RateLimit: cfg.YouTube.RateLimit,
	}, logger)

	// Degrades to heuristics internally when the key is missing or calls fail.
	contentAnalyzer := analyzer.New(analyzer.Config{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
	}, logger)

	ingestService := service.NewIngestService(metadataFetcher, transcriptClient, contentAnalyzer, logger)
	noteService := service.NewNoteService(ingestService, noteStore, videoNoteStore, txManager, rabbitMQ, logger)

	ingestWorker := worker.New(noteService, worker.Config{
		QueueSize:  cfg.Worker.QueueSize,
		JobTimeout: cfg.Worker.JobTimeout,
	}, logger)

	srv := server.NewServer(noteService, ingestWorker, cfg.Server, logger)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	go func() {
		if err := ingestWorker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("worker error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
	}()

	logger.Info("starting mindlink",
		"addr_port", cfg.Server.Port,
		"queue_size", cfg.Worker.QueueSize,
	)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
