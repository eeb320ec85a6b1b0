// Package runtime provides the application runtime context for glowtrack.
// It is the composition root: one engine per process, wired to badger-backed
// local authorities.
package runtime

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/manav03panchal/glowtrack/internal/config"
	"github.com/manav03panchal/glowtrack/internal/engine"
	"github.com/manav03panchal/glowtrack/internal/logging"
	"github.com/manav03panchal/glowtrack/internal/notify"
	"github.com/manav03panchal/glowtrack/internal/output"
	"github.com/manav03panchal/glowtrack/internal/platform"
	"github.com/manav03panchal/glowtrack/internal/storage"
)

// Context holds the application runtime context.
type Context struct {
	DB         *storage.DB
	Config     *config.RuntimeConfig
	ConfigPath string
	Formatter  *output.Formatter

	// Local authorities
	Permission *platform.PermissionAuthority
	Delivery   *platform.DeliveryAuthority

	Engine *engine.Engine

	// Debug mode
	Debug bool
}

// Options configures the runtime context.
type Options struct {
	DBPath     string
	InMemory   bool
	ConfigPath string
	Format     output.Format
	ColorMode  output.ColorMode
	Debug      bool

	// Prompter answers the consent prompt. Nil uses the terminal prompt.
	Prompter platform.Prompter
	// Out receives delivered notifications. Nil uses stdout.
	Out io.Writer
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		DBPath:     storage.DefaultPath(),
		ConfigPath: config.DefaultPath(),
		Format:     output.FormatCLI,
		ColorMode:  output.ColorAuto,
	}
}

// New creates a new runtime context. The engine is constructed but not
// started; call Start to load the authorization state.
func New(opts Options) (*Context, error) {
	// Check for environment variable override
	if envPath := os.Getenv("GLOWTRACK_DATABASE"); envPath != "" {
		if envPath == ":memory:" {
			opts.InMemory = true
		} else {
			opts.DBPath = envPath
		}
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	cadence, err := notify.NewCadence(cfg.Schedule)
	if err != nil {
		return nil, err
	}

	// Open database
	db, err := storage.Open(storage.Options{
		Path:         opts.DBPath,
		InMemory:     opts.InMemory,
		MinFreeSpace: cfg.Storage.MinFreeSpace,
	})
	if err != nil {
		return nil, err
	}

	// Create formatter
	formatter := output.NewFormatter()
	formatter.Format = opts.Format
	formatter.ColorMode = opts.ColorMode

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	renderer := platform.BannerRenderer
	if opts.Format != output.FormatCLI || opts.ColorMode == output.ColorNever {
		renderer = platform.PlainRenderer
	}
	deliveryOpts := []platform.DeliveryOption{platform.WithRenderer(renderer)}
	if opts.Clock != nil {
		deliveryOpts = append(deliveryOpts, platform.WithDeliveryClock(opts.Clock))
	}
	delivery := platform.NewDeliveryAuthority(storage.NewDeliveryRepo(db), out, deliveryOpts...)

	prompter := opts.Prompter
	if prompter == nil {
		prompter = platform.NewTUIPrompter()
	}
	permission := platform.NewPermissionAuthority(storage.NewPermissionRepo(db), prompter)

	retries := cfg.Dispatch.ImmediateRetries
	eng := engine.New(engine.Options{
		Records:          db,
		Permission:       permission,
		Delivery:         delivery,
		Cadence:          cadence,
		Clock:            opts.Clock,
		ImmediateRetries: &retries,
	})

	logging.DebugLog("runtime ready",
		logging.KeyPath, db.Path(),
		"config", opts.ConfigPath,
		"format", string(opts.Format),
	)

	return &Context{
		DB:         db,
		Config:     cfg,
		ConfigPath: opts.ConfigPath,
		Formatter:  formatter,
		Permission: permission,
		Delivery:   delivery,
		Engine:     eng,
		Debug:      opts.Debug,
	}, nil
}

// Start loads the persisted authorization state into the engine. A failing
// query leaves the state not determined and is only logged.
func (c *Context) Start(ctx context.Context) {
	if _, err := c.Engine.Start(ctx); err != nil {
		logging.WarnContext(ctx, "authorization query failed", logging.KeyError, err)
	}
}

// Close closes the runtime context.
func (c *Context) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// IsCLI returns true if output format is CLI.
func (c *Context) IsCLI() bool {
	return c.Formatter.Format == output.FormatCLI
}
