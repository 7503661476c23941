package main

import (
	"context"

	"github.com/desertthunder/nowplaying/internal/tasks"
	"github.com/desertthunder/nowplaying/internal/ui"
	"github.com/urfave/cli/v3"
)

// Watch authenticates and runs the playback monitor until interrupted.
//
// The root command's action; --tui hands off to [Runner.TUI].
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("tui") {
		return r.TUI(ctx, cmd)
	}

	session, ok, err := r.authenticate(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return r.writePlainln("Stopping playback monitor...")
	}

	monitor := r.newMonitor(r.newPlayer(session))
	display := ui.NewDisplay(r.output)

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		display.Consume(progress)
	}()

	r.logger.Info("monitoring playback", "interval", r.config.Poller.PollInterval(), "cover", r.config.Poller.CoverPath)
	err = monitor.Run(ctx, progress)
	close(progress)
	<-done

	return err
}

// Current polls once and prints the result as JSON.
func (r *Runner) Current(ctx context.Context, cmd *cli.Command) error {
	session, ok, err := r.authenticate(ctx)
	if err != nil || !ok {
		return err
	}

	np, err := r.newPlayer(session).Fetch(ctx)
	if err != nil {
		return err
	}

	return r.writeJSON(np, cmd.Bool("pretty"))
}
