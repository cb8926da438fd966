// Command audit consumes file events from JetStream and keeps them in the file_events table.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fileshare/internal/adapters/eventbroker/nats"
	"fileshare/internal/adapters/repository/postgres"
	"fileshare/internal/config"
	"fileshare/internal/core/service/audit"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
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

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.NATS.URL == "" {
		logger.Error("NATS_URL is required by the audit consumer")
		os.Exit(1)
	}

	// Initialize database
	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()
	logger.Info("db connection established")

	// Initialize services
	unitOfWork := postgres.NewUnitOfWork(db)
	auditService := audit.NewAuditService(unitOfWork, logger)

	// Initialize NATS consumer
	natsConsumer, err := nats.NewNATSConsumer(cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to create NATS consumer", "error", err)
		os.Exit(1)
	}
	logger.Info("NATS consumer initialized")

	// Subscribe to NATS
	if err := natsConsumer.Subscribe(ctx, auditService); err != nil {
		logger.Error("failed to subscribe to NATS", "error", err)
		natsConsumer.Close()
		os.Exit(1)
	}
	logger.Info("NATS subscription active")

	// Wait for termination signal
	<-ctx.Done()
	logger.Info("gracefully shutting down audit consumer")

	closed := make(chan error, 1)
	go func() {
		closed <- natsConsumer.Close()
	}()

	select {
	case err := <-closed:
		if err != nil {
			logger.Error("failed to close NATS consumer during shutdown", "error", err)
		}
	case <-time.After(cfg.Server.ShutdownTimeout):
		logger.Warn("shutdown timeout exceeded")
	}

	logger.Info("audit consumer shutdown complete")
}

func initDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	if cfg.Driver != config.DatabaseDriverPostgres {
		return nil, errors.New("the audit consumer requires DB_DRIVER=postgres")
	}

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
