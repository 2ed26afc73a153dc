package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"snakebnb/internal/config"
	"snakebnb/internal/host"
	"snakebnb/internal/storage"
	"snakebnb/internal/storage/ch"
	"snakebnb/internal/storage/mongodb"
	"snakebnb/internal/storage/stubs"
)

// App represents the application
type App struct {
	config *config.Config
	logger *zap.Logger
	db     storage.Storage
	host   *host.Host
	out    io.Writer
}

// New creates and initializes a new application instance bound to the terminal
func New() (*App, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	app := &App{config: cfg, logger: logger, out: os.Stdout}

	logger.Info("Starting Snake BnB", zap.String("storage_backend", cfg.StorageBackend))

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initHost(os.Stdin, os.Stdout)

	return app, nil
}

// initDatabase connects the configured storage backend
func (a *App) initDatabase() error {
	var db storage.Storage
	switch a.config.StorageBackend {
	case config.BackendClickHouse:
		tlsStatus := "without TLS"
		if a.config.ClickHouseUseTLS {
			tlsStatus = "with TLS"
		}
		a.logger.Info("Connecting to ClickHouse",
			zap.String("host", a.config.ClickHouseHost),
			zap.Int("port", a.config.ClickHousePort),
			zap.String("database", a.config.ClickHouseDatabase),
			zap.String("user", a.config.ClickHouseUser),
			zap.String("tls", tlsStatus),
		)
		clickhouseDB, err := ch.NewClickHouseDB(
			a.config.ClickHouseHost,
			a.config.ClickHousePort,
			a.config.ClickHouseDatabase,
			a.config.ClickHouseUser,
			a.config.ClickHousePassword,
			a.config.ClickHouseUseTLS,
		)
		if err != nil {
			return fmt.Errorf("failed to connect to ClickHouse: %w", err)
		}
		db = clickhouseDB
	case config.BackendMongo:
		a.logger.Info("Connecting to MongoDB", zap.String("database", a.config.MongoDatabase))
		mongoDB, err := mongodb.NewMongoDB(a.config.MongoURI, a.config.MongoDatabase)
		if err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		db = mongoDB
	default:
		a.logger.Info("Using in-memory storage; data is lost on exit")
		db = stubs.NewMockDB()
	}

	if err := db.Initialize(context.Background()); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.logger.Info("Database initialized successfully")

	a.db = db
	return nil
}

// initHost creates the host-mode session on the given streams
func (a *App) initHost(in io.Reader, out io.Writer) {
	a.out = out
	a.host = host.NewHost(a.db, in, out, a.logger, !a.config.NoColor)
}

// Run starts the interactive session and blocks until the user exits or
// the process receives SIGINT/SIGTERM
func (a *App) Run() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The session blocks on terminal reads, so it runs beside the signal wait
	errChan := make(chan error, 1)
	go func() {
		errChan <- a.runModes(ctx)
	}()

	var runErr error
	select {
	case <-sigChan:
		a.logger.Info("Received shutdown signal")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "bye")
	case runErr = <-errChan:
	}

	if err := a.Shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// runModes keeps one session alive across mode changes. Host mode is the
// only mode this application provides.
func (a *App) runModes(ctx context.Context) error {
	session := &host.Session{}
	for {
		result, err := a.host.Run(ctx, session)
		if err != nil {
			return fmt.Errorf("host session failed: %w", err)
		}

		switch result {
		case host.ChangeMode:
			a.logger.Info("Mode change requested")
			fmt.Fprintln(a.out, "Guest mode is not available; staying in host mode.")
			fmt.Fprintln(a.out)
		default:
			return nil
		}
	}
}

// Shutdown releases the storage backend and flushes logs
func (a *App) Shutdown() error {
	var err error
	if a.db != nil {
		if err = a.db.Close(); err != nil {
			a.logger.Error("Error closing database", zap.Error(err))
		}
	}

	a.logger.Info("Shutdown complete")
	_ = a.logger.Sync()
	return err
}
