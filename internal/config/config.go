package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds infrastructure settings sourced from environment variables.
// Secrets live here, never in the TOML settings file.
type Config struct {
	DBPath       string
	JWTSecret    string
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	// TestEmailOnly redirects all outbound mail to one address when set.
	TestEmailOnly string
}

// Load loads configuration from environment variables only.
func Load() (*Config, error) {
	return LoadWithFile("")
}

// LoadWithFile loads configuration from an optional .env file and environment
// variables. Variables already set in the environment win over the file.
func LoadWithFile(envFile string) (*Config, error) {
	// Attempt to load .env file if provided, but don't fail if it doesn't exist.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		DBPath:        getEnvOrDefault("DB_PATH", "./data/rental.db"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SMTPHost:      getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		TestEmailOnly: os.Getenv("TEST_EMAIL_ONLY"),
	}
	cfg.SMTPFrom = getEnvOrDefault("SMTP_FROM", cfg.SMTPUsername)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required fields are set. SMTP settings are
// optional: without them the server runs with notifications disabled.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	return nil
}

// Settings holds user-facing, non-sensitive behavior settings.
// Source: TOML configuration file; every field has a working default.
type Settings struct {
	Server  ServerSettings  `toml:"server"`
	Booking BookingSettings `toml:"booking"`
}

type ServerSettings struct {
	Addr string `toml:"addr"`
}

type BookingSettings struct {
	// Timezone names the location whose calendar days bound rentals.
	Timezone string `toml:"timezone"`
}

// DefaultSettings are used when no settings file exists.
func DefaultSettings() *Settings {
	return &Settings{
		Server:  ServerSettings{Addr: ":8080"},
		Booking: BookingSettings{Timezone: "UTC"},
	}
}

// LoadSettings loads the TOML settings file, falling back to defaults for
// a missing file or missing fields.
func LoadSettings(path string) (*Settings, error) {
	cfg := DefaultSettings()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("failed to load settings file: %w", err)
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Booking.Timezone == "" {
		cfg.Booking.Timezone = "UTC"
	}
	return cfg, nil
}

// DayBoundaryLocation resolves the configured booking timezone.
func (s *Settings) DayBoundaryLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Booking.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid booking timezone %q: %w", s.Booking.Timezone, err)
	}
	return loc, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
