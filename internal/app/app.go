package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/goalpulse/goalpulse/internal/config"
	"github.com/goalpulse/goalpulse/internal/db"
	"github.com/goalpulse/goalpulse/internal/reminder"
	"github.com/goalpulse/goalpulse/internal/repository"
	"github.com/goalpulse/goalpulse/internal/service"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	Location            *time.Location
	AuthService         *service.AuthService
	UserService         *service.UserService
	GoalService         *service.GoalService
	NotificationService *service.NotificationService
	EmailService        *service.EmailService
	SMSService          *service.SMSService
	Runner              *reminder.Runner
	Scheduler           *reminder.Scheduler // nil when REMINDER_ENABLED=false
}

func New(cfg *config.Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a, err := FromDB(cfg, database, loc)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	return a, nil
}

// FromDB wires repositories, services and reminders on an open, migrated database.
func FromDB(cfg *config.Config, database *sqlx.DB, loc *time.Location) (*App, error) {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	notificationRepository := repository.NewNotificationRepository(database)

	// Services
	emailService := service.NewEmailService(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppName, cfg.IsDevelopment())
	smsService := service.NewSMSService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber, cfg.IsDevelopment())
	authService := service.NewAuthService(userRepository, emailService, cfg.JWTSecret, cfg.JWTExpiry)
	userService := service.NewUserService(userRepository, notificationRepository, smsService, cfg.AppName)
	goalService := service.NewGoalService(goalRepository, loc)
	notificationService := service.NewNotificationService(notificationRepository)

	// Reminders
	runner := reminder.NewRunner(goalRepository, smsService, reminder.Options{
		Location:                loc,
		AppName:                 cfg.AppName,
		IncludeUndatedRecurring: cfg.ReminderIncludeUndatedRecurring,
		Recorder:                notificationRepository,
		Logger:                  slog.Default().With("component", "reminder"),
	})

	var scheduler *reminder.Scheduler
	if cfg.ReminderEnabled {
		specs := reminder.Specs{
			Briefing:   cfg.ReminderBriefingSpec,
			Passive:    cfg.ReminderPassiveSpec,
			Persistent: cfg.ReminderPersistentSpec,
			Reset:      cfg.ReminderResetSpec,
		}
		var err error
		scheduler, err = reminder.NewScheduler(runner, specs, loc, slog.Default().With("component", "scheduler"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize reminder scheduler: %w", err)
		}
	}

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		Location:            loc,
		AuthService:         authService,
		UserService:         userService,
		GoalService:         goalService,
		NotificationService: notificationService,
		EmailService:        emailService,
		SMSService:          smsService,
		Runner:              runner,
		Scheduler:           scheduler,
	}, nil
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
