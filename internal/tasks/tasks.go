package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nowplaying/internal/cover"
	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/services"
	"github.com/desertthunder/nowplaying/internal/shared"
)

const defaultPollInterval = 2 * time.Second

// MonitorOpts contains configuration options for creating a [Monitor].
type MonitorOpts struct {
	Fetcher        services.NowPlayingFetcher
	Cover          *cover.Cache
	Interval       time.Duration // Delay between polls (default: 2s)
	MaxRetries     int           // Retries per poll for transient failures (default: 3, negative disables)
	InitialBackoff time.Duration // First retry delay (default: 500ms)
	Logger         *log.Logger
}

// Monitor polls playback on a fixed cadence and keeps the cover file in step with it.
type Monitor struct {
	fetcher        services.NowPlayingFetcher
	cover          *cover.Cache
	interval       time.Duration
	maxRetries     int
	initialBackoff time.Duration
	logger         *log.Logger
}

// NewMonitor creates a [Monitor].
func NewMonitor(opts MonitorOpts) *Monitor {
	if opts.Cover == nil {
		opts.Cover = cover.New("")
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultPollInterval
	}
	switch {
	case opts.MaxRetries == 0:
		opts.MaxRetries = defaultMaxRetries
	case opts.MaxRetries < 0:
		opts.MaxRetries = 0
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = defaultInitialBackoff
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Monitor{
		fetcher:        opts.Fetcher,
		cover:          opts.Cover,
		interval:       opts.Interval,
		maxRetries:     opts.MaxRetries,
		initialBackoff: opts.InitialBackoff,
		logger:         shared.WithLogger(opts.Logger, "component", "monitor"),
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run polls until ctx is done or a poll fails for good.
//
// Cancellation is a clean stop and returns nil. Either way the cover file is removed before returning.
func (m *Monitor) Run(ctx context.Context, progress chan<- ProgressUpdate) error {
	if m.fetcher == nil {
		return fmt.Errorf("%w: no fetcher configured", shared.ErrMissingConfig)
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		if err := m.Poll(ctx, progress); err != nil {
			if ctx.Err() != nil {
				return m.stop(progress)
			}
			m.clearCover()
			m.logger.Debug("poll loop failed", "error", err)
			sendProgress(progress, failedUpdate(err))
			return err
		}

		select {
		case <-ctx.Done():
			return m.stop(progress)
		case <-ticker.C:
		}
	}
}

// Poll runs a single iteration: fetch (with retries), report, and update the cover file.
func (m *Monitor) Poll(ctx context.Context, progress chan<- ProgressUpdate) error {
	np, err := m.fetchWithRetry(ctx, progress)
	if err != nil {
		return err
	}
	if np == nil {
		np = models.NothingPlaying()
	}

	if !np.Active() {
		sendProgress(progress, idleUpdate(np))
		m.clearCover()
		return nil
	}

	sendProgress(progress, playingUpdate(np))
	if !np.HasArtwork() {
		m.clearCover()
		return nil
	}

	if err := m.cover.Write(np.Artwork); err != nil {
		return err
	}
	m.logger.Debug("cover art updated", "track", np.Track, "bytes", len(np.Artwork))
	return nil
}

func (m *Monitor) stop(progress chan<- ProgressUpdate) error {
	m.clearCover()
	m.logger.Debug("poll loop cancelled")
	sendProgress(progress, stoppedUpdate())
	return nil
}

// clearCover removes the cover file, logging only when something was actually removed or removal failed.
func (m *Monitor) clearCover() {
	removed, err := m.cover.Remove()
	switch {
	case err != nil:
		m.logger.Warn("failed to remove cover art", "path", m.cover.Path, "error", err)
	case removed:
		m.logger.Debug("cover art removed", "path", m.cover.Path)
	}
}
