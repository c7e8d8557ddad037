package config

import (
	"os"
	"strconv"
	"time"
)

// LoadFromEnv loads configuration from environment variables
// Environment variables override default and file values
func LoadFromEnv(cfg *Config) {
	// Database configuration
	if dbPath := os.Getenv("FOCUSWATCH_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	// Watcher configuration
	if interval, ok := envDuration("FOCUSWATCH_POLL_INTERVAL"); ok {
		if interval >= cfg.Watcher.MinPollInterval && interval <= cfg.Watcher.MaxPollInterval {
			cfg.Watcher.PollInterval = interval
		}
	}

	if window, ok := envDuration("FOCUSWATCH_DEBOUNCE_WINDOW"); ok && window >= 0 {
		cfg.Watcher.DebounceWindow = window
	}

	if chime := os.Getenv("FOCUSWATCH_CHIME"); chime != "" {
		if val, err := strconv.ParseBool(chime); err == nil {
			cfg.Watcher.Chime = val
		}
	}

	// Daemon configuration
	if pidFile := os.Getenv("FOCUSWATCH_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	// Report configuration
	if maxGap, ok := envDuration("FOCUSWATCH_REPORT_MAX_GAP"); ok && maxGap > 0 {
		cfg.Report.MaxGap = maxGap
	}

	if timeZone := os.Getenv("FOCUSWATCH_TIMEZONE"); timeZone != "" {
		cfg.Report.TimeZone = timeZone
	}

	// Web configuration
	if webHost := os.Getenv("FOCUSWATCH_WEB_HOST"); webHost != "" {
		cfg.Web.Host = webHost
	}

	if webPort := os.Getenv("FOCUSWATCH_WEB_PORT"); webPort != "" {
		if port, err := strconv.Atoi(webPort); err == nil && port > 0 && port <= 65535 {
			cfg.Web.Port = port
		}
	}

	// Logging configuration
	if level := os.Getenv("FOCUSWATCH_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if logFile := os.Getenv("FOCUSWATCH_LOG_FILE"); logFile != "" {
		cfg.Log.File = logFile
	}
}

// envDuration parses a Go duration ("250ms", "2s"). A bare integer is read
// as milliseconds.
func envDuration(key string) (time.Duration, bool) {
	value := os.Getenv(key)
	if value == "" {
		return 0, false
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond, true
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, false
	}
	return d, true
}

// New creates a new Config with default values and loads from environment
func New() *Config {
	cfg := Default()
	LoadFromEnv(cfg)
	return cfg
}
