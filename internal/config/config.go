package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Watcher configuration
	Watcher WatcherConfig

	// Daemon configuration
	Daemon DaemonConfig

	// Report configuration
	Report ReportConfig

	// Web server configuration
	Web WebConfig

	// Logging configuration
	Log LogConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string // Path to SQLite database file
}

// WatcherConfig holds focus watcher configuration
type WatcherConfig struct {
	PollInterval    time.Duration // How often the backend is queried
	DebounceWindow  time.Duration // How long a change must hold before it is reported
	MinPollInterval time.Duration // Minimum allowed poll interval
	MaxPollInterval time.Duration // Maximum allowed poll interval
	Chime           bool          // Play tones when watching starts and stops
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string // Path to PID file for daemon management
}

// ReportConfig holds report generation configuration
type ReportConfig struct {
	MaxGap   time.Duration // Longest gap between two changes counted as focus time
	TimeZone string
}

// WebConfig holds web server configuration
type WebConfig struct {
	Host string // Host to bind web server to
	Port int    // Port for web server
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string // zerolog level name
	File  string // Optional log file, empty logs to stderr only
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "", // Empty means use default ~/.config/focuswatch/focuswatch.db
		},
		Watcher: WatcherConfig{
			PollInterval:    250 * time.Millisecond,
			DebounceWindow:  75 * time.Millisecond,
			MinPollInterval: 10 * time.Millisecond,
			MaxPollInterval: 10 * time.Second,
			Chime:           false,
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("%s/focuswatch-%d.pid", os.TempDir(), os.Getuid()),
		},
		Report: ReportConfig{
			MaxGap:   5 * time.Minute,
			TimeZone: "Local",
		},
		Web: WebConfig{
			Host: "localhost",
			Port: 10000 + os.Getuid(), // Default port based on user ID
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate watcher timing
	if c.Watcher.PollInterval < c.Watcher.MinPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be less than minimum (%v)",
			c.Watcher.PollInterval, c.Watcher.MinPollInterval)
	}

	if c.Watcher.PollInterval > c.Watcher.MaxPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be greater than maximum (%v)",
			c.Watcher.PollInterval, c.Watcher.MaxPollInterval)
	}

	if c.Watcher.DebounceWindow < 0 {
		return fmt.Errorf("debounce window cannot be negative")
	}

	if c.Report.MaxGap <= 0 {
		return fmt.Errorf("report max gap must be positive, got %v", c.Report.MaxGap)
	}

	if _, err := time.LoadLocation(c.Report.TimeZone); err != nil {
		return fmt.Errorf("invalid report time zone %q: %w", c.Report.TimeZone, err)
	}

	// Validate web config
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}

	if c.Web.Host == "" {
		return fmt.Errorf("web host cannot be empty")
	}

	// Validate daemon config
	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	return nil
}

// SetPollInterval sets the poll interval with validation
func (c *Config) SetPollInterval(interval time.Duration) error {
	if interval < c.Watcher.MinPollInterval {
		return fmt.Errorf("poll interval cannot be less than %v", c.Watcher.MinPollInterval)
	}
	if interval > c.Watcher.MaxPollInterval {
		return fmt.Errorf("poll interval cannot be greater than %v", c.Watcher.MaxPollInterval)
	}
	c.Watcher.PollInterval = interval
	return nil
}

// SetDebounceWindow sets the debounce window with validation
func (c *Config) SetDebounceWindow(window time.Duration) error {
	if window < 0 {
		return fmt.Errorf("debounce window cannot be negative")
	}
	c.Watcher.DebounceWindow = window
	return nil
}

// SetWebPort sets the web server port with validation
func (c *Config) SetWebPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	c.Web.Port = port
	return nil
}

// Location returns the report time zone, falling back to local time.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Report.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Database:
    Path: %s
  Watcher:
    Poll Interval: %v
    Debounce Window: %v
    Min Interval: %v
    Max Interval: %v
    Chime: %v
  Daemon:
    PID File: %s
  Report:
    Max Gap: %v
    Time Zone: %s
  Web:
    Host: %s
    Port: %d
  Log:
    Level: %s
    File: %s`,
		c.Database.Path,
		c.Watcher.PollInterval,
		c.Watcher.DebounceWindow,
		c.Watcher.MinPollInterval,
		c.Watcher.MaxPollInterval,
		c.Watcher.Chime,
		c.Daemon.PIDFile,
		c.Report.MaxGap,
		c.Report.TimeZone,
		c.Web.Host,
		c.Web.Port,
		c.Log.Level,
		c.Log.File,
	)
}
