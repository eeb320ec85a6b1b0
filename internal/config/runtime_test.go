package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/glowtrack/internal/errors"
)

func TestDefaultRuntimeConfig(t *testing.T) {
	cfg := DefaultRuntimeConfig()

	assert.Equal(t, 9, cfg.Schedule.AnchorHour)
	assert.Equal(t, 0, cfg.Schedule.AnchorMinute)
	assert.Equal(t, time.Monday, cfg.Schedule.Weekday())
	assert.Equal(t, 1, cfg.Schedule.MonthlyDay)
	assert.Equal(t, 1, cfg.Dispatch.ImmediateRetries)
	assert.Equal(t, uint64(10*1024*1024), cfg.Storage.MinFreeSpace)
	assert.Equal(t, "@every 1m", cfg.Watch.TickSpec)
	assert.Equal(t, time.Hour, cfg.Watch.SleepThreshold)
	assert.NoError(t, cfg.Validate())
}

func TestDefaultPath(t *testing.T) {
	path := DefaultPath()
	assert.Contains(t, path, AppName)
	assert.Equal(t, "config.yaml", filepath.Base(path))
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultRuntimeConfig(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
schedule:
  anchor_hour: 7
  anchor_minute: 30
  weekly_day: fri
watch:
  sleep_threshold: 2h
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Schedule.AnchorHour)
	assert.Equal(t, 30, cfg.Schedule.AnchorMinute)
	assert.Equal(t, time.Friday, cfg.Schedule.Weekday())
	assert.Equal(t, 1, cfg.Schedule.MonthlyDay, "unset keys keep defaults")
	assert.Equal(t, 2*time.Hour, cfg.Watch.SleepThreshold)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schedule: [unclosed"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GLOWTRACK_ANCHOR", "20:15")
	t.Setenv("GLOWTRACK_WEEKLY_DAY", "Sunday")
	t.Setenv("GLOWTRACK_MONTHLY_DAY", "15")
	t.Setenv("GLOWTRACK_IMMEDIATE_RETRIES", "0")
	t.Setenv("GLOWTRACK_WATCH_TICK", "@every 30s")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Schedule.AnchorHour)
	assert.Equal(t, 15, cfg.Schedule.AnchorMinute)
	assert.Equal(t, time.Sunday, cfg.Schedule.Weekday())
	assert.Equal(t, 15, cfg.Schedule.MonthlyDay)
	assert.Equal(t, 0, cfg.Dispatch.ImmediateRetries)
	assert.Equal(t, "@every 30s", cfg.Watch.TickSpec)
}

func TestLoadFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("GLOWTRACK_ANCHOR", "quarter past nine")
	t.Setenv("GLOWTRACK_IMMEDIATE_RETRIES", "-3")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Schedule.AnchorHour)
	assert.Equal(t, 1, cfg.Dispatch.ImmediateRetries)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RuntimeConfig)
	}{
		{"hour_high", func(c *RuntimeConfig) { c.Schedule.AnchorHour = 24 }},
		{"minute_negative", func(c *RuntimeConfig) { c.Schedule.AnchorMinute = -1 }},
		{"weekday", func(c *RuntimeConfig) { c.Schedule.WeeklyDay = "funday" }},
		{"monthly_day_31", func(c *RuntimeConfig) { c.Schedule.MonthlyDay = 31 }},
		{"monthly_day_zero", func(c *RuntimeConfig) { c.Schedule.MonthlyDay = 0 }},
		{"retries", func(c *RuntimeConfig) { c.Dispatch.ImmediateRetries = 9 }},
		{"tick", func(c *RuntimeConfig) { c.Watch.TickSpec = " " }},
		{"sleep", func(c *RuntimeConfig) { c.Watch.SleepThreshold = time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRuntimeConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
		})
	}
}

func TestParseWeekday(t *testing.T) {
	d, ok := ParseWeekday("WED")
	assert.True(t, ok)
	assert.Equal(t, time.Wednesday, d)

	_, ok = ParseWeekday("")
	assert.False(t, ok)
}
