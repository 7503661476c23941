package main

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nowplaying/internal/services"
	"github.com/desertthunder/nowplaying/internal/shared"
	"github.com/desertthunder/nowplaying/internal/store"
	"github.com/urfave/cli/v3"
)

// Setup resolves configuration once before any action runs and applies command-line overrides.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.config == nil {
		config, err := shared.ResolveConfig(cmd.String("config"))
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	if d := cmd.Duration("interval"); d > 0 {
		r.config.Poller.Interval = d.String()
	}
	if path := cmd.String("cover"); path != "" {
		r.config.Poller.CoverPath = path
	}

	level := shared.ParseLogLevel(r.config.Log.Level)
	if cmd.Bool("debug") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)

	if r.store == nil {
		r.store = store.NewEnvFileStore(r.config.Store.Path, r.config.Store.Key)
	}
	if r.httpClient == nil {
		r.httpClient = services.NewHTTPClient(services.HTTPOpts{
			Timeout:   r.config.Poller.Timeout(),
			RateLimit: r.config.Poller.RateLimit,
		})
	}

	r.logger.Debug("configuration resolved", "config", cmd.String("config"), "store", r.config.Store.Path)
	return ctx, nil
}

// Init writes config.toml from the embedded template.
func (r *Runner) Init(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.writePlain("✓ Config file created at %s\n", path)
	r.writePlain("  Set client_id and client_secret under [credentials.spotify], then run: nowplaying auth\n")
	return nil
}
