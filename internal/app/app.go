package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goalpace/internal/config"
	"github.com/templui/goalpace/internal/db"
	"github.com/templui/goalpace/internal/repository"
	"github.com/templui/goalpace/internal/service"
	"github.com/templui/goalpace/internal/storage"
)

type App struct {
	Cfg          *config.Config
	DB           *sqlx.DB
	AuthService  *service.AuthService
	EmailService *service.EmailService
	GoalService  *service.GoalService
	StatsService *service.StatsService

	done chan struct{}
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	eventRepository := repository.NewProgressEventRepository(database)

	// Storage (optional)
	var archive storage.Archive
	s3Archive, err := storage.New(ctx, cfg)
	switch {
	case err == nil:
		archive = s3Archive
	case errors.Is(err, storage.ErrNotConfigured):
		slog.Info("export archive disabled", "reason", "S3_BUCKET not set")
	default:
		database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(userRepository, emailService, cfg.JWTSecret, cfg.JWTExpiry)
	goalService := service.NewGoalService(
		goalRepository,
		eventRepository,
		userRepository,
		emailService,
		archive,
		cfg.LocaleTag(),
	)
	statsService := service.NewStatsService(goalRepository, eventRepository, cfg.StatsDefaultWindow)

	return &App{
		Cfg:          cfg,
		DB:           database,
		AuthService:  authService,
		EmailService: emailService,
		GoalService:  goalService,
		StatsService: statsService,
		done:         make(chan struct{}),
	}, nil
}

// Done is closed by Close; background workers stop on it.
func (a *App) Done() <-chan struct{} {
	return a.done
}

func (a *App) Close() error {
	select {
	case <-a.done:
	default:
		close(a.done)
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
