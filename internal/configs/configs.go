/*
Package configs is responsible for loading and parsing the application's configuration settings.

All settings come from environment variables and are read once at startup. Missing LiveKit
credentials are not a startup error: the service still boots and reports the problem on
every issuance or directory call.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Observer admission modes.
const (
	// ObserverSerialized serializes observer admission per room and holds issued slots.
	ObserverSerialized = "serialized"

	// ObserverBestEffort counts observers from the directory only, with no lock.
	ObserverBestEffort = "best-effort"
)

// LiveKitConfig holds the credentials that authorize token issuance and room queries.
type LiveKitConfig struct {
	APIKey    string
	APISecret string
	URL       string
}

// Complete reports whether key, secret and URL are all set.
func (c LiveKitConfig) Complete() bool {
	return c.APIKey != "" && c.APISecret != "" && c.URL != ""
}

// AppConfig contains all configuration parameters required for the application to run.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int
	LogLevel    string

	// Security Settings
	AllowedOrigins []string
	IssueRate      float64
	IssueBurst     int

	// Conferencing backend
	LiveKit LiveKitConfig

	// Observer admission
	ObserverAdmission string
	ObserverHold      time.Duration
	RedisAddr         string
	RedisPassword     string

	// Database Settings (optional, enables the issuance audit log)
	DatabaseDSN string

	// AuditToken, when set, is the bearer token required by the audit listing.
	AuditToken string
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadConfig reads and parses the application configuration from environment variables.
// It provides default values for each configuration item and performs necessary type conversions and validation.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	port, err := envInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port < 1024 || port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", port, 1024, 65535)
	}
	cfg.Port = port

	cfg.LogLevel = strings.TrimSpace(os.Getenv("LOG_LEVEL"))

	// --- Security Settings ---
	if originsStr := os.Getenv("ALLOWED_ORIGINS"); originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	if cfg.IssueRate, err = envFloat("ISSUE_RATE", 2); err != nil {
		return nil, err
	}
	if cfg.IssueBurst, err = envInt("ISSUE_BURST", 20); err != nil {
		return nil, err
	}
	if cfg.IssueRate <= 0 || cfg.IssueBurst <= 0 {
		return nil, fmt.Errorf("ISSUE_RATE and ISSUE_BURST must be positive")
	}

	// --- Conferencing backend ---
	cfg.LiveKit = LiveKitConfig{
		APIKey:    strings.TrimSpace(os.Getenv("LIVEKIT_API_KEY")),
		APISecret: strings.TrimSpace(os.Getenv("LIVEKIT_API_SECRET")),
		URL:       strings.TrimSpace(os.Getenv("LIVEKIT_URL")),
	}

	// --- Observer admission ---
	cfg.ObserverAdmission = strings.ToLower(strings.TrimSpace(os.Getenv("OBSERVER_ADMISSION")))
	switch cfg.ObserverAdmission {
	case "":
		cfg.ObserverAdmission = ObserverSerialized
	case ObserverSerialized, ObserverBestEffort:
	default:
		return nil, fmt.Errorf("invalid OBSERVER_ADMISSION %q: want %q or %q", cfg.ObserverAdmission, ObserverSerialized, ObserverBestEffort)
	}

	holdSeconds, err := envInt("OBSERVER_HOLD_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	if holdSeconds < 0 {
		return nil, fmt.Errorf("OBSERVER_HOLD_SECONDS must not be negative, got %d", holdSeconds)
	}
	cfg.ObserverHold = time.Duration(holdSeconds) * time.Second

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	// --- Database Settings ---
	cfg.DatabaseDSN = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.AuditToken = strings.TrimSpace(os.Getenv("AUDIT_TOKEN"))

	return cfg, nil
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return f, nil
}
