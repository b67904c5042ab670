package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string

	StorageBackend string
	PatientsFile   string
	AlertsFile     string
	SQLitePath     string
	PostgresDSN    string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3Key          string
	S3PathStyle    bool

	ReminderPoll time.Duration
	MonitorPoll  time.Duration

	HTTPAddr    string
	APIToken    string
	JWTSecret   string
	CORSOrigins []string
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads .env (if any) and the environment once per process and panics
// on invalid configuration.
func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()
		c, err := FromEnv()
		if err != nil {
			panic("Invalid config: " + err.Error())
		}
		cfg = c
	})
	return cfg
}

// FromEnv parses the current environment without caching.
func FromEnv() (*Config, error) {
	var errs []error
	c := &Config{
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		StorageBackend: getEnv("STORAGE_BACKEND", "file"),
		PatientsFile:   getEnv("PATIENTS_FILE", "data/patients.json"),
		AlertsFile:     getEnv("ALERTS_FILE", "data/alerts.log"),
		SQLitePath:     getEnv("SQLITE_PATH", "data/wardwatch.db"),
		PostgresDSN:    getEnv("POSTGRES_DSN", ""),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:     getEnv("S3_ENDPOINT", ""),
		S3Key:          getEnv("S3_KEY", "patients.json"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8088"),
		APIToken:       getEnv("API_TOKEN", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
	}
	var err error
	if c.S3PathStyle, err = getBool("S3_PATH_STYLE", false); err != nil {
		errs = append(errs, err)
	}
	if c.ReminderPoll, err = getDuration("REMINDER_POLL", 10*time.Second); err != nil {
		errs = append(errs, err)
	}
	if c.MonitorPoll, err = getDuration("MONITOR_POLL", 15*time.Second); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("LOG_LEVEL must be one of: debug, info, warn, error")
	}
	switch c.StorageBackend {
	case "file":
		if c.PatientsFile == "" {
			return errors.New("File storage requires PATIENTS_FILE to be set")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET is required when STORAGE_BACKEND=s3")
		}
	case "memory":
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of: file, sqlite, postgres, s3, memory (got %q)", c.StorageBackend)
	}
	if c.AlertsFile == "" {
		return errors.New("ALERTS_FILE must be set")
	}
	if c.ReminderPoll <= 0 || c.MonitorPoll <= 0 {
		return errors.New("REMINDER_POLL and MONITOR_POLL must be positive durations")
	}
	return nil
}

// ValidateServer checks the settings only the HTTP server needs.
func (c *Config) ValidateServer() error {
	if c.HTTPAddr == "" {
		return errors.New("HTTP_ADDR must be set")
	}
	if c.Env == "development" {
		if c.APIToken == "" && c.JWTSecret == "" {
			return errors.New("API_TOKEN or JWT_SECRET is required for the server")
		}
		return nil
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required outside development")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
