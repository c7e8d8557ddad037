package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the on-disk format. Durations are Go duration strings
// and unset keys leave the current value alone.
type fileConfig struct {
	Database struct {
		Path string `toml:"path" yaml:"path"`
	} `toml:"database" yaml:"database"`

	Watcher struct {
		PollInterval   string `toml:"poll_interval" yaml:"poll_interval"`
		DebounceWindow string `toml:"debounce_window" yaml:"debounce_window"`
		Chime          *bool  `toml:"chime" yaml:"chime"`
	} `toml:"watcher" yaml:"watcher"`

	Daemon struct {
		PIDFile string `toml:"pid_file" yaml:"pid_file"`
	} `toml:"daemon" yaml:"daemon"`

	Report struct {
		MaxGap   string `toml:"max_gap" yaml:"max_gap"`
		TimeZone string `toml:"time_zone" yaml:"time_zone"`
	} `toml:"report" yaml:"report"`

	Web struct {
		Host string `toml:"host" yaml:"host"`
		Port int    `toml:"port" yaml:"port"`
	} `toml:"web" yaml:"web"`

	Log struct {
		Level string `toml:"level" yaml:"level"`
		File  string `toml:"file" yaml:"file"`
	} `toml:"log" yaml:"log"`
}

// DefaultPath returns ~/.config/focuswatch/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, "focuswatch", "config.toml"), nil
}

// LoadFile applies the file at path on top of cfg. The format follows the
// extension: .toml, .yaml or .yml.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &fc); err != nil {
			return fmt.Errorf("decode TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("decode YAML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}

	return fc.apply(cfg)
}

// Load builds the effective configuration: defaults, then the config file,
// then environment overrides. An empty path uses FOCUSWATCH_CONFIG or the
// default location; a missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("FOCUSWATCH_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			if err := LoadFile(cfg, path); err != nil {
				return nil, err
			}
		}
	}

	LoadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (fc *fileConfig) apply(cfg *Config) error {
	if fc.Database.Path != "" {
		cfg.Database.Path = fc.Database.Path
	}

	if err := setDuration(&cfg.Watcher.PollInterval, fc.Watcher.PollInterval, "watcher.poll_interval"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Watcher.DebounceWindow, fc.Watcher.DebounceWindow, "watcher.debounce_window"); err != nil {
		return err
	}
	if fc.Watcher.Chime != nil {
		cfg.Watcher.Chime = *fc.Watcher.Chime
	}

	if fc.Daemon.PIDFile != "" {
		cfg.Daemon.PIDFile = fc.Daemon.PIDFile
	}

	if err := setDuration(&cfg.Report.MaxGap, fc.Report.MaxGap, "report.max_gap"); err != nil {
		return err
	}
	if fc.Report.TimeZone != "" {
		cfg.Report.TimeZone = fc.Report.TimeZone
	}

	if fc.Web.Host != "" {
		cfg.Web.Host = fc.Web.Host
	}
	if fc.Web.Port != 0 {
		cfg.Web.Port = fc.Web.Port
	}

	if fc.Log.Level != "" {
		cfg.Log.Level = fc.Log.Level
	}
	if fc.Log.File != "" {
		cfg.Log.File = fc.Log.File
	}

	return nil
}

func setDuration(dst *time.Duration, value, key string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*dst = d
	return nil
}
