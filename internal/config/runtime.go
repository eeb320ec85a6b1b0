// Package config provides centralized configuration for glowtrack runtime values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/manav03panchal/glowtrack/internal/errors"
)

// AppName is the directory name used under the XDG config and data homes.
const AppName = "glowtrack"

// RuntimeConfig holds all runtime configuration values.
type RuntimeConfig struct {
	Schedule ScheduleConfig `yaml:"schedule"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	Storage  StorageConfig  `yaml:"storage"`
	Watch    WatchConfig    `yaml:"watch"`
}

// ScheduleConfig holds the cadence anchors used to compute fire times.
type ScheduleConfig struct {
	// AnchorHour and AnchorMinute are the local time of day every delivery fires at.
	// Default: 09:00
	AnchorHour   int `yaml:"anchor_hour"`
	AnchorMinute int `yaml:"anchor_minute"`

	// WeeklyDay is the weekday weekly deliveries fire on.
	// Default: monday
	WeeklyDay string `yaml:"weekly_day"`

	// MonthlyDay is the day of month monthly deliveries fire on (1-28).
	// Default: 1
	MonthlyDay int `yaml:"monthly_day"`
}

// DispatchConfig holds immediate-send configuration.
type DispatchConfig struct {
	// ImmediateRetries is how many times a failed immediate hand-off is retried.
	// Default: 1
	ImmediateRetries int `yaml:"immediate_retries"`
}

// StorageConfig holds storage-related configuration.
type StorageConfig struct {
	// MinFreeSpace is the minimum free space required for write operations.
	// Default: 10MB
	MinFreeSpace uint64 `yaml:"min_free_space"`
}

// WatchConfig holds configuration for the foreground watch loop.
type WatchConfig struct {
	// TickSpec is the cron spec of the fire-and-reconcile job.
	// Default: "@every 1m"
	TickSpec string `yaml:"tick_spec"`

	// SleepThreshold is the gap between ticks that indicates the machine slept.
	// Deliveries that came due during the gap are still fired once.
	// Default: 1h
	SleepThreshold time.Duration `yaml:"sleep_threshold"`
}

// DefaultRuntimeConfig returns the default runtime configuration.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		Schedule: ScheduleConfig{
			AnchorHour:   9,
			AnchorMinute: 0,
			WeeklyDay:    "monday",
			MonthlyDay:   1,
		},
		Dispatch: DispatchConfig{
			ImmediateRetries: 1,
		},
		Storage: StorageConfig{
			MinFreeSpace: 10 * 1024 * 1024,
		},
		Watch: WatchConfig{
			TickSpec:       "@every 1m",
			SleepThreshold: time.Hour,
		},
	}
}

// DefaultPath returns the default config file path following the XDG spec.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// Load builds the runtime config: defaults, then the YAML file at path (a
// missing file is not an error), then GLOWTRACK_* environment overrides.
func Load(path string) (*RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(errors.ErrInvalidConfig, "parse %s: %v", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, errors.NewSystemErrorWithOp("read config", err.Error(), err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromEnv loads configuration overrides from environment variables.
func (c *RuntimeConfig) loadFromEnv() {
	if v := os.Getenv("GLOWTRACK_ANCHOR"); v != "" {
		if h, m, ok := parseClock(v); ok {
			c.Schedule.AnchorHour = h
			c.Schedule.AnchorMinute = m
		}
	}
	if v := os.Getenv("GLOWTRACK_WEEKLY_DAY"); v != "" {
		c.Schedule.WeeklyDay = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("GLOWTRACK_MONTHLY_DAY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Schedule.MonthlyDay = n
		}
	}
	if v := os.Getenv("GLOWTRACK_IMMEDIATE_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Dispatch.ImmediateRetries = n
		}
	}
	if v := os.Getenv("GLOWTRACK_MIN_FREE_SPACE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Storage.MinFreeSpace = n
		}
	}
	if v := os.Getenv("GLOWTRACK_WATCH_TICK"); v != "" {
		c.Watch.TickSpec = v
	}
	if v := os.Getenv("GLOWTRACK_SLEEP_THRESHOLD"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Watch.SleepThreshold = d
		}
	}
}

// parseClock parses "HH:MM".
func parseClock(s string) (int, int, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}

// Weekday returns the configured weekly weekday.
func (s ScheduleConfig) Weekday() time.Weekday {
	d, _ := ParseWeekday(s.WeeklyDay)
	return d
}

// ParseWeekday parses a weekday name ("monday", "mon") case-insensitively.
func ParseWeekday(name string) (time.Weekday, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, true
		}
	}
	return time.Sunday, false
}

// Validate checks that every configured value is in range.
func (c *RuntimeConfig) Validate() error {
	if c.Schedule.AnchorHour < 0 || c.Schedule.AnchorHour > 23 {
		return invalid("schedule.anchor_hour", "must be between 0 and 23")
	}
	if c.Schedule.AnchorMinute < 0 || c.Schedule.AnchorMinute > 59 {
		return invalid("schedule.anchor_minute", "must be between 0 and 59")
	}
	if _, ok := ParseWeekday(c.Schedule.WeeklyDay); !ok {
		return invalid("schedule.weekly_day", "must be a weekday name")
	}
	// Days past the 28th do not exist in every month.
	if c.Schedule.MonthlyDay < 1 || c.Schedule.MonthlyDay > 28 {
		return invalid("schedule.monthly_day", "must be between 1 and 28")
	}
	if c.Dispatch.ImmediateRetries < 0 || c.Dispatch.ImmediateRetries > 5 {
		return invalid("dispatch.immediate_retries", "must be between 0 and 5")
	}
	if strings.TrimSpace(c.Watch.TickSpec) == "" {
		return invalid("watch.tick_spec", "must not be empty")
	}
	if c.Watch.SleepThreshold < time.Minute {
		return invalid("watch.sleep_threshold", "must be at least 1m")
	}
	return nil
}

func invalid(field, msg string) error {
	return fmt.Errorf("%w: %s %s", errors.ErrInvalidConfig, field, msg)
}
