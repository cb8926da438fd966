package main

import (
	"context"
	"database/sql"
	"errors"
	"fileshare/internal/adapters/eventbroker"
	"fileshare/internal/adapters/eventbroker/nats"
	"fileshare/internal/adapters/handlers/http/auth"
	"fileshare/internal/adapters/handlers/http/chi"
	file2 "fileshare/internal/adapters/handlers/http/chi/v1/file"
	"fileshare/internal/adapters/repository/memory"
	"fileshare/internal/adapters/repository/postgres"
	"fileshare/internal/adapters/storage/filesystem"
	"fileshare/internal/adapters/storage/minio"
	"fileshare/internal/config"
	"fileshare/internal/core/port"
	"fileshare/internal/core/service/access"
	"fileshare/internal/core/service/cleanup"
	"fileshare/internal/core/service/upload"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	//repositories
	unitOfWork, closeDB, err := initUnitOfWork(cfg.Database, logger)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer closeDB()

	//storage
	contentStore, err := initContentStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init content store", "error", err)
		os.Exit(1)
	}
	chunkStore, err := filesystem.NewChunkStore(cfg.Storage.ChunkDir)
	if err != nil {
		logger.Error("failed to init chunk store", "error", err)
		os.Exit(1)
	}

	//events
	publisher, err := initPublisher(ctx, cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to init event publisher", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("failed to close event publisher", "error", err)
		}
	}()

	uploadService := upload.NewUploadService(unitOfWork, chunkStore, contentStore, publisher, cfg.Upload, logger)
	accessService := access.NewAccessService(unitOfWork, contentStore, publisher, logger)
	cleanupService := cleanup.NewCleanupService(unitOfWork, contentStore, chunkStore, publisher, cfg.Upload.IdleSessionTimeout, logger)

	//http
	authMiddleware := auth.NewMiddleware(cfg.Auth.JWTSecret, logger)
	fileHandler := file2.NewFileHandlerV1(uploadService, accessService, authMiddleware, cfg.Upload, cfg.Server.RequestTimeout, logger)

	router := chi.NewRouter(logger, fileHandler, chi.RouterOptions{
		Env:          cfg.Env.Env,
		MaxBodyBytes: cfg.Upload.MaxRequestBody(),
	})
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// init cleanup task
	wg.Add(1)
	go func() {
		defer wg.Done()
		cleanup.Schedule(ctx, cleanupService, cfg.Upload.SweepEvery, logger)
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

}

func initUnitOfWork(cfg config.DatabaseConfig, logger *slog.Logger) (port.UnitOfWork, func(), error) {
	if cfg.Driver == config.DatabaseDriverMemory {
		logger.Warn("using in-memory metadata store, records are lost on restart")
		return memory.NewUnitOfWork(), func() {}, nil
	}

	db, err := initDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("db connection established")

	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}
	return postgres.NewUnitOfWork(db), closeDB, nil
}

func initDB(cfg config.DatabaseConfig) (*sql.DB, error) {

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}

func initContentStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (port.ContentStore, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendMinio:
		adapter, err := minio.NewAdapter(ctx, cfg.Minio, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("minio content store initialized", "bucket", cfg.Minio.BucketName)
		return adapter, nil
	default:
		store, err := filesystem.NewContentStore(cfg.Storage.DataDir, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("filesystem content store initialized", "dir", cfg.Storage.DataDir)
		return store, nil
	}
}

func initPublisher(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (port.EventPublisher, error) {
	if cfg.URL == "" {
		logger.Info("NATS_URL not set, file events are not published")
		return eventbroker.NewNoopPublisher(logger), nil
	}

	publisher, err := nats.NewNATSPublisher(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("NATS publisher initialized", "subject", cfg.Subject)
	return publisher, nil
}
