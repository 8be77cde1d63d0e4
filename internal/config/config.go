package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/attendance"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// AttendanceConfig holds the organization's attendance policy. The three
// tolerance windows are distinct knobs, never derived from one another.
type AttendanceConfig struct {
	OrgTimezone          string
	OnTimeBufferMinutes  int
	LatenessGraceMinutes int
	AbsenceCutoffMinutes int
	OvertimeMultiplier   string
	StaleEntryMaxHours   int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "shiftwise"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance policy configuration
	onTimeBuffer, err := strconv.Atoi(getEnv("ONTIME_BUFFER_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid ONTIME_BUFFER_MINUTES: %w", err)
	}
	latenessGrace, err := strconv.Atoi(getEnv("LATENESS_GRACE_MINUTES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid LATENESS_GRACE_MINUTES: %w", err)
	}
	absenceCutoff, err := strconv.Atoi(getEnv("ABSENCE_CUTOFF_MINUTES", "180"))
	if err != nil {
		return nil, fmt.Errorf("invalid ABSENCE_CUTOFF_MINUTES: %w", err)
	}
	staleMaxHours, err := strconv.Atoi(getEnv("STALE_ENTRY_MAX_HOURS", "16"))
	if err != nil {
		return nil, fmt.Errorf("invalid STALE_ENTRY_MAX_HOURS: %w", err)
	}

	config.Attendance = AttendanceConfig{
		OrgTimezone:          getEnv("ORG_TIMEZONE", "UTC"),
		OnTimeBufferMinutes:  onTimeBuffer,
		LatenessGraceMinutes: latenessGrace,
		AbsenceCutoffMinutes: absenceCutoff,
		OvertimeMultiplier:   getEnv("OVERTIME_MULTIPLIER", "1.5"),
		StaleEntryMaxHours:   staleMaxHours,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.LoadLocation(c.Attendance.OrgTimezone); err != nil {
		return fmt.Errorf("invalid ORG_TIMEZONE: %w", err)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the organization's operating timezone. Validate has
// already checked it parses.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Attendance.OrgTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Policy returns the attendance policy as consumed by the classifier.
func (c *Config) Policy() attendance.Policy {
	return attendance.Policy{
		OnTimeBufferMinutes:  c.Attendance.OnTimeBufferMinutes,
		LatenessGraceMinutes: c.Attendance.LatenessGraceMinutes,
		AbsenceCutoffMinutes: c.Attendance.AbsenceCutoffMinutes,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
