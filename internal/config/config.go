package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"incident-analysis/internal/reliability"
)

// Default values for the service configuration
const (
	DefaultDatabasePath      = "incidents.db"
	DefaultPort              = 8080
	DefaultUploadsDir        = "uploads"
	DefaultMaxUploadBytes    = 100 << 20
	DefaultTimezone          = "Local"
	DefaultLogLevel          = "info"
	DefaultSnapshotInterval  = time.Hour
	DefaultSnapshotRetention = 90 * 24 * time.Hour
)

// Config holds all configuration for the incident analysis service
type Config struct {
	DatabasePath   string            `yaml:"database_path"`
	Port           int               `yaml:"port"`
	UploadsDir     string            `yaml:"uploads_dir"`
	MaxUploadBytes int64             `yaml:"max_upload_bytes"`
	Timezone       string            `yaml:"timezone"`
	LogLevel       string            `yaml:"log_level"`
	Reliability    ReliabilityConfig `yaml:"reliability"`
	Snapshots      SnapshotConfig    `yaml:"snapshots"`
}

// ReliabilityConfig holds the network constants used by the index computation
type ReliabilityConfig struct {
	TotalCustomers            int              `yaml:"total_customers"`
	AveragePowerPerCustomerKw float64          `yaml:"average_power_per_customer_kw"`
	Estimation                EstimationConfig `yaml:"estimation"`
}

// EstimationConfig selects how missing outage data is handled.
// Mode is one of: skip | fixed.
type EstimationConfig struct {
	Mode              string  `yaml:"mode"`
	DurationHours     float64 `yaml:"duration_hours"`
	AffectedCustomers int     `yaml:"affected_customers"`
}

// SnapshotConfig controls the periodic metrics snapshots
type SnapshotConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Interval  time.Duration `yaml:"interval"`
	Retention time.Duration `yaml:"retention"`
	Ranges    []string      `yaml:"ranges"`
}

// Default returns a Config populated with default values
func Default() Config {
	ranges := make([]string, 0, len(reliability.RangeLabels))
	for _, l := range reliability.RangeLabels {
		ranges = append(ranges, string(l))
	}

	return Config{
		DatabasePath:   DefaultDatabasePath,
		Port:           DefaultPort,
		UploadsDir:     DefaultUploadsDir,
		MaxUploadBytes: DefaultMaxUploadBytes,
		Timezone:       DefaultTimezone,
		LogLevel:       DefaultLogLevel,
		Reliability: ReliabilityConfig{
			TotalCustomers:            reliability.DefaultTotalCustomers,
			AveragePowerPerCustomerKw: reliability.DefaultAveragePowerPerCustomerKw,
			Estimation:                EstimationConfig{Mode: reliability.EstimationSkip},
		},
		Snapshots: SnapshotConfig{
			Enabled:   true,
			Interval:  DefaultSnapshotInterval,
			Retention: DefaultSnapshotRetention,
			Ranges:    ranges,
		},
	}
}

// Load reads a YAML config file on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if c.UploadsDir == "" {
		return fmt.Errorf("uploads directory cannot be empty")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload size must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Reliability.TotalCustomers <= 0 {
		return fmt.Errorf("total customers must be positive")
	}
	if c.Reliability.AveragePowerPerCustomerKw < 0 {
		return fmt.Errorf("average power per customer cannot be negative")
	}
	if _, err := c.estimationPolicy(); err != nil {
		return err
	}
	if c.Snapshots.Enabled {
		if c.Snapshots.Interval <= 0 {
			return fmt.Errorf("snapshot interval must be positive")
		}
		if c.Snapshots.Retention <= 0 {
			return fmt.Errorf("snapshot retention must be positive")
		}
		for _, r := range c.Snapshots.Ranges {
			if _, err := reliability.ParseRangeLabel(r); err != nil {
				return fmt.Errorf("snapshot range %q: %w", r, err)
			}
		}
	}
	return nil
}

// Location resolves the configured timezone
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ReliabilityParams builds the engine parameters from the configuration
func (c *Config) ReliabilityParams() (reliability.Params, error) {
	loc, err := c.Location()
	if err != nil {
		return reliability.Params{}, err
	}
	policy, err := c.estimationPolicy()
	if err != nil {
		return reliability.Params{}, err
	}
	return reliability.Params{
		TotalCustomers:            c.Reliability.TotalCustomers,
		AveragePowerPerCustomerKw: c.Reliability.AveragePowerPerCustomerKw,
		Estimation:                policy,
		Location:                  loc,
	}, nil
}

func (c *Config) estimationPolicy() (reliability.EstimationPolicy, error) {
	e := c.Reliability.Estimation
	return reliability.PolicyFor(e.Mode, e.DurationHours, e.AffectedCustomers)
}
