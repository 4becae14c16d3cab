package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/moodlog-api/internal/classification"
	"github.com/phrazzld/moodlog-api/internal/config"
	"github.com/phrazzld/moodlog-api/internal/platform/gemini"
	"github.com/phrazzld/moodlog-api/internal/platform/huggingface"
	"github.com/phrazzld/moodlog-api/internal/platform/postgres"
	"github.com/phrazzld/moodlog-api/internal/service"
	"github.com/phrazzld/moodlog-api/internal/service/auth"
	"github.com/phrazzld/moodlog-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore  store.UserStore
	entryStore store.EntryStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	classifier       classification.Classifier
	journalService   service.JournalService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, bcrypt.DefaultCost, logger)
	app.entryStore = postgres.NewPostgresEntryStore(db, logger)

	app.classifier, err = setupClassifier(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize classifier: %w", err)
	}
	logger.Info("Emotion classifier initialized",
		"provider", cfg.Classifier.Provider,
		"model", cfg.Classifier.Model)

	app.journalService, err = service.NewJournalService(
		db,
		app.userStore,
		app.entryStore,
		app.classifier,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create journal service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupClassifier builds the configured emotion classifier provider.
func setupClassifier(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (classification.Classifier, error) {
	switch cfg.Classifier.Provider {
	case "huggingface":
		return huggingface.NewClassifier(
			logger.With("component", "classifier"),
			cfg.Classifier,
		)
	case "gemini":
		return gemini.NewClassifier(
			ctx,
			logger.With("component", "classifier"),
			cfg.Classifier,
		)
	default:
		return nil, fmt.Errorf("%w: unknown classifier provider %q",
			classification.ErrInvalidConfig, cfg.Classifier.Provider)
	}
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
