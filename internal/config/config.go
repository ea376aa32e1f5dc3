package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration lets yaml carry Go duration strings like "20s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	DBPath         string `yaml:"db_path"`
	MigrationsPath string `yaml:"migrations_path"`
	User           string `yaml:"user"` // owner identity for all commands

	LogLevel  string `yaml:"log_level"` // "debug" | "info" | "warn" | "error"
	PrettyLog bool   `yaml:"pretty_log"`

	MaxBookmarks    int      `yaml:"max_bookmarks"`     // hard import ceiling
	MaxFileSize     int64    `yaml:"max_file_size"`     // upload bytes, checked before parsing
	ExportBatchSize int      `yaml:"export_batch_size"` // rows fetched per export batch
	FetchTimeout    Duration `yaml:"fetch_timeout"`     // per-page metadata fetch
}

func Default() *Config {
	return &Config{
		DBPath:          "linkvault.sqlite",
		MigrationsPath:  "migrations",
		User:            "local",
		LogLevel:        "info",
		PrettyLog:       true,
		MaxBookmarks:    5000,
		MaxFileSize:     10 * 1024 * 1024,
		ExportBatchSize: 100,
		FetchTimeout:    Duration(20 * time.Second),
	}
}

// Load reads a YAML config file over the defaults. A missing path (or
// an empty one) yields the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.MaxBookmarks <= 0 {
		cfg.MaxBookmarks = Default().MaxBookmarks
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = Default().MaxFileSize
	}
	if cfg.ExportBatchSize <= 0 {
		cfg.ExportBatchSize = Default().ExportBatchSize
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = Default().FetchTimeout
	}
	if cfg.User == "" {
		cfg.User = Default().User
	}

	return cfg, nil
}
