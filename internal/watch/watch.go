// Package watch runs glowtrack in the foreground: it fires deliveries as they
// come due, schedules the next occurrence and follows config file edits.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"github.com/manav03panchal/glowtrack/internal/config"
	"github.com/manav03panchal/glowtrack/internal/errors"
	"github.com/manav03panchal/glowtrack/internal/logging"
	"github.com/manav03panchal/glowtrack/internal/model"
	"github.com/manav03panchal/glowtrack/internal/notify"
)

// Engine is the part of the notification engine the loop drives.
type Engine interface {
	Reconcile(ctx context.Context) *notify.ReconcileReport
	RefreshAuthorization(ctx context.Context) (model.AuthorizationState, error)
	SetCadence(c *notify.Cadence)
}

// Firer delivers the scheduled deliveries that have come due.
type Firer interface {
	FireDue(ctx context.Context, now time.Time) ([]model.ScheduledDelivery, error)
}

// Options configures a Loop.
type Options struct {
	// TickSpec is the cron spec of the fire-and-reconcile job.
	TickSpec string
	// SleepThreshold is the tick gap reported as a system sleep.
	SleepThreshold time.Duration
	// ConfigPath is watched for changes. Empty disables reloading.
	ConfigPath string
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// TickResult describes one tick.
type TickResult struct {
	At     time.Time
	Fired  []model.ScheduledDelivery
	Report *notify.ReconcileReport
	// Slept is set when the gap since the previous tick exceeded the sleep threshold.
	Slept bool
	Err   error
}

// Loop drives the Scheduled → Fired → Scheduled cycle.
type Loop struct {
	engine Engine
	firer  Firer
	opts   Options

	mu       sync.Mutex
	lastTick time.Time
	ticks    int
}

// New creates a loop.
func New(engine Engine, firer Firer, opts Options) *Loop {
	defaults := config.DefaultRuntimeConfig().Watch
	if opts.TickSpec == "" {
		opts.TickSpec = defaults.TickSpec
	}
	if opts.SleepThreshold <= 0 {
		opts.SleepThreshold = defaults.SleepThreshold
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.ConfigPath != "" {
		opts.ConfigPath = filepath.Clean(opts.ConfigPath)
	}
	return &Loop{engine: engine, firer: firer, opts: opts}
}

// Ticks returns the number of completed ticks.
func (l *Loop) Ticks() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ticks
}

// Tick refreshes the authorization state, fires due deliveries and
// reconciles so fired categories get their next occurrence. Deliveries that
// came due while the machine slept are fired once.
func (l *Loop) Tick(ctx context.Context) TickResult {
	now := l.opts.Clock()

	l.mu.Lock()
	gap := now.Sub(l.lastTick)
	slept := !l.lastTick.IsZero() && gap > l.opts.SleepThreshold
	l.lastTick = now
	l.mu.Unlock()

	result := TickResult{At: now, Slept: slept}
	if slept {
		logging.InfoContext(ctx, "resumed after sleep", "gap", gap.Round(time.Second))
	}

	// Overdue entries fire before a state change can reschedule them.
	var errs []error
	fired, err := l.firer.FireDue(ctx, now)
	if err != nil {
		logging.WarnContext(ctx, "firing due deliveries failed", logging.KeyError, err)
		errs = append(errs, err)
	}
	result.Fired = fired

	if _, err := l.engine.RefreshAuthorization(ctx); err != nil {
		errs = append(errs, err)
	}

	result.Report = l.engine.Reconcile(ctx)
	if err := result.Report.Err(); err != nil {
		errs = append(errs, err)
	}
	result.Err = errors.Join(errs...)

	l.mu.Lock()
	l.ticks++
	l.mu.Unlock()

	logging.DebugContext(ctx, "tick",
		"fired", len(fired),
		"scheduled", len(result.Report.Scheduled),
		"cancelled", len(result.Report.Cancelled))
	return result
}

// Reload reads the config file and applies the new cadence.
func (l *Loop) Reload(ctx context.Context) error {
	cfg, err := config.Load(l.opts.ConfigPath)
	if err != nil {
		logging.WarnContext(ctx, "config reload rejected", logging.KeyPath, l.opts.ConfigPath, logging.KeyError, err)
		return err
	}
	cadence, err := notify.NewCadence(cfg.Schedule)
	if err != nil {
		logging.WarnContext(ctx, "config reload rejected", logging.KeyPath, l.opts.ConfigPath, logging.KeyError, err)
		return err
	}

	l.engine.SetCadence(cadence)
	report := l.engine.Reconcile(ctx)
	logging.InfoContext(ctx, "config reloaded",
		logging.KeyPath, l.opts.ConfigPath,
		"scheduled", len(report.Scheduled),
		"cancelled", len(report.Cancelled))
	return nil
}

// Run ticks once, then on every TickSpec occurrence, until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	c := cron.New(
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{})),
	)
	if _, err := c.AddFunc(l.opts.TickSpec, func() { l.Tick(ctx) }); err != nil {
		return fmt.Errorf("%w: watch.tick_spec %q: %v", errors.ErrInvalidConfig, l.opts.TickSpec, err)
	}

	events, watchErrs, closeWatcher := l.watchConfig(ctx)
	defer closeWatcher()

	l.Tick(ctx)

	c.Start()
	defer func() {
		<-c.Stop().Done()
	}()

	logging.InfoContext(ctx, "watching", "tick", l.opts.TickSpec, logging.KeyPath, l.opts.ConfigPath)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !l.isConfigEvent(ev) {
				continue
			}
			logging.DebugContext(ctx, "config changed", logging.KeyPath, ev.Name, "op", ev.Op.String())
			_ = l.Reload(ctx)

		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			logging.WarnContext(ctx, "config watcher error", logging.KeyError, err)
		}
	}
}

// watchConfig watches the directory of the config file, so the file may be
// created or replaced after the loop starts.
func (l *Loop) watchConfig(ctx context.Context) (<-chan fsnotify.Event, <-chan error, func()) {
	noop := func() {}
	if l.opts.ConfigPath == "" {
		return nil, nil, noop
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logging.WarnContext(ctx, "config reload disabled", logging.KeyError, err)
		return nil, nil, noop
	}
	dir := filepath.Dir(l.opts.ConfigPath)
	if err := w.Add(dir); err != nil {
		logging.WarnContext(ctx, "config reload disabled", logging.KeyPath, dir, logging.KeyError, err)
		w.Close()
		return nil, nil, noop
	}
	return w.Events, w.Errors, func() { w.Close() }
}

func (l *Loop) isConfigEvent(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != l.opts.ConfigPath {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

// cronLogger routes cron's own logging through slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logging.DebugLog("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logging.Error("cron: "+msg, append(keysAndValues, logging.KeyError, err)...)
}
