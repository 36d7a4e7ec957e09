package main

import (
	"net/http"
	"os"
	"time"

	"github.com/ashu917/Car-rental/internal/config"
	"github.com/ashu917/Car-rental/internal/handler"
	"github.com/ashu917/Car-rental/internal/logger"
	"github.com/ashu917/Car-rental/internal/metrics"
	"github.com/ashu917/Car-rental/internal/service"
	"github.com/ashu917/Car-rental/internal/store"
)

type App struct {
	logger   *logger.Logger
	cfg      *config.Config
	settings *config.Settings
	loc      *time.Location
	store    *store.SQLiteStore
	emailSvc *service.EmailService
}

func main() {
	app := &App{
		logger: logger.New(),
	}

	if err := app.run(); err != nil {
		app.logger.Error("Application error", logger.Error(err))
		os.Exit(1)
	}
}

func (a *App) run() error {
	if err := a.initialize(); err != nil {
		return err
	}
	defer func() {
		if err := a.store.Close(); err != nil {
			a.logger.Error("Failed to close store", logger.Error(err))
		}
	}()

	m := metrics.New()
	authSvc := service.NewAuthService(a.store, a.cfg.JWTSecret)
	bookingSvc := service.NewBookingService(a.logger, a.store, a.mailer(), m, a.loc)
	fleetSvc := service.NewFleetService(a.logger, a.store, m, a.loc)

	api := handler.New(a.logger, authSvc, bookingSvc, fleetSvc, a.store, a.loc)

	a.logger.Info("Server listening",
		logger.Action("startup"),
		logger.Status("ready"),
		logger.F("ADDR", a.settings.Server.Addr),
		logger.F("TIMEZONE", a.settings.Booking.Timezone))

	return http.ListenAndServe(a.settings.Server.Addr, api.Routes())
}

func (a *App) initialize() error {
	settingsPath := getEnvOrDefault("SETTINGS_PATH", "./data/settings.toml")
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		a.logger.Error("Failed to load settings", logger.Error(err), logger.F("path", settingsPath))
		return err
	}
	a.settings = settings

	loc, err := settings.DayBoundaryLocation()
	if err != nil {
		a.logger.Error("Failed to resolve booking timezone", logger.Error(err))
		return err
	}
	a.loc = loc

	envPath := ".env"
	cfg, err := config.LoadWithFile(envPath)
	if err != nil {
		a.logger.Error("Failed to load infrastructure config", logger.Error(err), logger.F("path", envPath))
		return err
	}
	a.cfg = cfg

	st, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		a.logger.Error("Failed to open database", logger.Error(err), logger.F("path", cfg.DBPath))
		return err
	}
	a.store = st

	a.initEmail()
	return nil
}

// initEmail wires the notification mailer when SMTP credentials are present.
// Without them the server still runs, it just skips status emails.
func (a *App) initEmail() {
	if a.cfg.SMTPUsername == "" || a.cfg.SMTPPassword == "" {
		a.logger.Info("Email service not configured (SMTP_USERNAME/SMTP_PASSWORD missing)")
		return
	}

	emailSvc, err := service.NewEmailService(a.cfg.SMTPHost, a.cfg.SMTPPort, a.cfg.SMTPUsername, a.cfg.SMTPPassword, a.cfg.SMTPFrom, a.cfg.TestEmailOnly)
	if err != nil {
		a.logger.Warn("Email service not available, emails will not be sent", logger.Error(err))
		return
	}
	a.emailSvc = emailSvc

	if a.cfg.TestEmailOnly != "" {
		a.logger.Info("Email service initialized (TEST MODE)", logger.Status("ready"), logger.F("TEST_EMAIL", a.cfg.TestEmailOnly))
	} else {
		a.logger.Info("Email service initialized", logger.Status("ready"))
	}
}

// mailer returns the email sender as the interface the booking service takes.
// A plain nil *EmailService inside a non-nil interface would dodge the
// service's nil check, so convert only when the mailer exists.
func (a *App) mailer() service.EmailSender {
	if a.emailSvc == nil {
		return nil
	}
	return a.emailSvc
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
