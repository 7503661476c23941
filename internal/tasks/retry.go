package tasks

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/shared"
)

const (
	defaultMaxRetries     = 3
	defaultInitialBackoff = 500 * time.Millisecond
	defaultMaxBackoff     = 10 * time.Second
)

// newBackOff builds the policy for one iteration: exponential from initial, capped at
// maxRetries attempts and bound to ctx.
func newBackOff(ctx context.Context, initial time.Duration, maxRetries int) backoff.BackOff {
	if maxRetries <= 0 {
		// WithMaxRetries treats zero as unlimited.
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.MaxInterval = defaultMaxBackoff
	b.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(maxRetries)), ctx)
}

// fetchWithRetry runs one poll. Transient errors are retried per the policy;
// permanent ones stop it at once.
func (m *Monitor) fetchWithRetry(ctx context.Context, progress chan<- ProgressUpdate) (*models.NowPlaying, error) {
	var np *models.NowPlaying
	attempt := 0

	op := func() error {
		var err error
		np, err = m.fetcher.Fetch(ctx)
		if err == nil {
			return nil
		}
		if shared.IsTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	notify := func(err error, wait time.Duration) {
		attempt++
		m.logger.Warn("transient poll failure", "attempt", attempt, "wait", wait, "error", err)
		sendProgress(progress, retryUpdate(attempt, wait, err))
	}

	if err := backoff.RetryNotify(op, newBackOff(ctx, m.initialBackoff, m.maxRetries), notify); err != nil {
		return nil, err
	}
	return np, nil
}
