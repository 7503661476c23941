// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// rootCommand runs the playback monitor when invoked without a subcommand.
func rootCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "nowplaying",
		Usage:   "Show what is playing on Spotify and keep its cover art on disk",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Show the interactive now playing view",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "Delay between polls (overrides [poller] interval)",
			},
			&cli.StringFlag{
				Name:  "cover",
				Usage: "Cover art file path (overrides [poller] cover_path)",
			},
		},
		Before:   r.Setup,
		Action:   r.Watch,
		Commands: r.register(),
	}
}

// authCommand forces the interactive authorization grant
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Authorize with Spotify in the browser and save the refresh token",
		Action: r.Auth,
	}
}

// currentCommand polls once
func currentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "current",
		Usage: "Print the currently playing track as JSON",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Current,
	}
}

// initCommand writes a starter config file
func initCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "init",
		Usage:  "Create config.toml from the built-in template",
		Action: r.Init,
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"ui"},
		Usage:   "Launch the interactive now playing view",
		Action:  r.TUI,
	}
}
