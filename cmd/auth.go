package main

import (
	"context"

	"github.com/desertthunder/nowplaying/internal/services"
	"github.com/urfave/cli/v3"
)

// Auth runs the browser authorization grant even when a refresh token is already stored.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	session, err := r.newSession()
	if err != nil {
		return err
	}

	r.logger.Info("starting authorization", "redirect", r.config.Server.Addr()+r.config.Server.CallbackPath)

	if err := session.Authorize(ctx); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Refresh token saved to %s\n\n", r.config.Store.Path)
	r.writePlain("You can now run: nowplaying\n")
	return nil
}

// authenticate gets a usable session, starting the interactive grant only when no refresh token is known.
//
// An interrupt during authorization is reported as ok=false with a nil error.
func (r *Runner) authenticate(ctx context.Context) (session *services.Session, ok bool, err error) {
	session, err = r.newSession()
	if err != nil {
		return nil, false, err
	}

	if err := session.Authenticate(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	return session, true, nil
}
