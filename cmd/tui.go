package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/nowplaying/internal/shared"
	"github.com/desertthunder/nowplaying/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive now playing view.
//
// Authorization happens first on the plain terminal, since it may need to print a URL.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	session, ok, err := r.authenticate(ctx)
	if err != nil || !ok {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.newMonitor(r.newPlayer(session)))
	p := tea.NewProgram(model)

	_, err = p.Run()
	model.Shutdown()
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return model.Err()
}
