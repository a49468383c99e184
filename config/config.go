package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the server and the reminder scanner.
type Config struct {
	Port             string
	FrontendURL      string
	JWTSecret        string
	ScanInterval     time.Duration
	ScanLookahead    time.Duration
	PopupAutoDismiss time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: No .env file found or failed to load")
	}

	cfg := Config{
		Port:             strings.TrimSpace(os.Getenv("PORT")),
		FrontendURL:      strings.TrimSpace(os.Getenv("FRONTEND_URL")),
		JWTSecret:        strings.TrimSpace(os.Getenv("JWT_SECRET_KEY")),
		ScanInterval:     parseDuration(os.Getenv("SCAN_INTERVAL")),
		ScanLookahead:    parseDuration(os.Getenv("SCAN_LOOKAHEAD")),
		PopupAutoDismiss: parseDuration(os.Getenv("POPUP_AUTO_DISMISS")),
	}

	if cfg.Port == "" {
		cfg.Port = "5000"
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:5173"
	}
	if cfg.ScanInterval == 0 {
		cfg.ScanInterval = 10 * time.Second
	}
	if cfg.ScanLookahead == 0 {
		cfg.ScanLookahead = 15 * time.Second
	}
	if cfg.PopupAutoDismiss == 0 {
		cfg.PopupAutoDismiss = 10 * time.Second
	}

	// The lookahead must cover at least one full scan interval or a task due
	// between two scans could be missed.
	if cfg.ScanLookahead < cfg.ScanInterval {
		cfg.ScanLookahead = cfg.ScanInterval
	}

	return cfg, nil
}

func parseDuration(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}
