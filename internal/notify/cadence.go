package notify

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/manav03panchal/glowtrack/internal/config"
	"github.com/manav03panchal/glowtrack/internal/errors"
	"github.com/manav03panchal/glowtrack/internal/model"
)

// Cadence maps a Frequency to its next fire time. Every frequency fires at the
// same local anchor time of day; Weekly adds a weekday and Monthly a day of
// month.
type Cadence struct {
	cfg       config.ScheduleConfig
	schedules map[model.Frequency]cron.Schedule
	specs     map[model.Frequency]string
}

// DefaultCadence returns the cadence for the default schedule configuration
// (09:00 local, weekly on Monday, monthly on the 1st).
func DefaultCadence() *Cadence {
	c, err := NewCadence(config.DefaultRuntimeConfig().Schedule)
	if err != nil {
		panic(err)
	}
	return c
}

// NewCadence builds a cadence from the schedule configuration.
func NewCadence(cfg config.ScheduleConfig) (*Cadence, error) {
	weekday, ok := config.ParseWeekday(cfg.WeeklyDay)
	if !ok {
		return nil, fmt.Errorf("%w: schedule.weekly_day %q", errors.ErrInvalidConfig, cfg.WeeklyDay)
	}

	specs := map[model.Frequency]string{
		model.Daily:   fmt.Sprintf("%d %d * * *", cfg.AnchorMinute, cfg.AnchorHour),
		model.Weekly:  fmt.Sprintf("%d %d * * %d", cfg.AnchorMinute, cfg.AnchorHour, int(weekday)),
		model.Monthly: fmt.Sprintf("%d %d %d * *", cfg.AnchorMinute, cfg.AnchorHour, cfg.MonthlyDay),
	}

	schedules := make(map[model.Frequency]cron.Schedule, len(specs))
	for freq, spec := range specs {
		sched, err := cron.ParseStandard(spec)
		if err != nil {
			return nil, fmt.Errorf("%w: %s cadence %q: %v", errors.ErrInvalidConfig, freq, spec, err)
		}
		schedules[freq] = sched
	}

	return &Cadence{cfg: cfg, schedules: schedules, specs: specs}, nil
}

// Next returns the first fire time for freq strictly after now, in now's
// location. It reports false for Never.
func (c *Cadence) Next(freq model.Frequency, now time.Time) (time.Time, bool) {
	sched, ok := c.schedules[freq]
	if !ok {
		return time.Time{}, false
	}
	next := sched.Next(now)
	if next.IsZero() {
		return time.Time{}, false
	}
	return next, true
}

// Spec returns the cron expression used for freq, or "" for Never.
func (c *Cadence) Spec(freq model.Frequency) string {
	return c.specs[freq]
}

// Describe returns a short human description of when freq fires.
func (c *Cadence) Describe(freq model.Frequency) string {
	at := fmt.Sprintf("%02d:%02d", c.cfg.AnchorHour, c.cfg.AnchorMinute)
	switch freq {
	case model.Daily:
		return "every day at " + at
	case model.Weekly:
		weekday, _ := config.ParseWeekday(c.cfg.WeeklyDay)
		return fmt.Sprintf("every %s at %s", weekday, at)
	case model.Monthly:
		return fmt.Sprintf("on day %d of every month at %s", c.cfg.MonthlyDay, at)
	default:
		return "never"
	}
}

// Config returns the schedule configuration the cadence was built from.
func (c *Cadence) Config() config.ScheduleConfig {
	return c.cfg
}
