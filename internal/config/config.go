package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret  string
	JWTExpiry  time.Duration
	CORSOrigin string
	TrustProxy bool

	// SMS
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string

	// Reminders
	ReminderEnabled                 bool
	ReminderTimezone                string // IANA name, empty means process local
	ReminderBriefingSpec            string
	ReminderPassiveSpec             string
	ReminderPersistentSpec          string
	ReminderResetSpec               string
	ReminderIncludeUndatedRecurring bool
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "GoalPulse"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8080"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/goalpulse.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Security
		JWTSecret:  envRequired("JWT_SECRET"),
		JWTExpiry:  envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days
		CORSOrigin: envString("CORS_ORIGIN", "http://localhost:3000"),
		TrustProxy: envBool("TRUSTED_PROXY", false), // honour X-Forwarded-For / X-Real-IP

		// SMS (optional in development, required in production)
		TwilioAccountSID:  envString("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   envString("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber: envString("TWILIO_PHONE_NUMBER", ""),

		// Email
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Reminders
		ReminderEnabled:                 envBool("REMINDER_ENABLED", true),
		ReminderTimezone:                envString("REMINDER_TIMEZONE", ""),
		ReminderBriefingSpec:            envString("REMINDER_BRIEFING_SPEC", "0 8 * * *"),
		ReminderPassiveSpec:             envString("REMINDER_PASSIVE_SPEC", "0 18 * * *"),
		ReminderPersistentSpec:          envString("REMINDER_PERSISTENT_SPEC", "0 9,12,15,18 * * *"),
		ReminderResetSpec:               envString("REMINDER_RESET_SPEC", "0 0 * * *"),
		ReminderIncludeUndatedRecurring: envBool("REMINDER_INCLUDE_UNDATED_RECURRING", false),
	}

	err = cfg.Validate()
	if err != nil {
		slog.Error("invalid configuration", "error", err,
			"hint", "set APP_ENV=development for local testing with sms and email log mode")
		os.Exit(1)
	}

	return cfg
}

// Validate checks settings that would otherwise fail at the first reminder.
// Development may leave out Twilio and Resend credentials; messages are logged instead.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	if c.IsProduction() {
		if c.TwilioAccountSID == "" || c.TwilioAuthToken == "" || c.TwilioPhoneNumber == "" {
			errs = append(errs, errors.New("production deployment requires TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_PHONE_NUMBER"))
		}
		if c.ResendAPIKey == "" {
			errs = append(errs, errors.New("production deployment requires RESEND_API_KEY"))
		}
	}

	return errors.Join(errs...)
}

// Location is the time zone reminder specs and "today" are evaluated in.
func (c *Config) Location() (*time.Location, error) {
	if c.ReminderTimezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.ReminderTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_TIMEZONE %q: %w", c.ReminderTimezone, err)
	}
	return loc, nil
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
