package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nowplaying/internal/cover"
	"github.com/desertthunder/nowplaying/internal/services"
	"github.com/desertthunder/nowplaying/internal/shared"
	"github.com/desertthunder/nowplaying/internal/store"
	"github.com/desertthunder/nowplaying/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	store       store.TokenStore
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	openBrowser shared.BrowserOpener
	endpoint    *oauth2.Endpoint
	baseURL     string
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Nil fields are filled from the resolved configuration in [Runner.Setup].
type RunnerOpts struct {
	Config      *shared.Config
	Store       store.TokenStore
	HTTPClient  *http.Client
	Logger      *log.Logger
	Output      io.Writer
	OpenBrowser shared.BrowserOpener
	Endpoint    *oauth2.Endpoint // Token and authorize URLs, defaults to Spotify's
	BaseURL     string           // Web API base, defaults to Spotify's
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	return &Runner{
		config:      opts.Config,
		store:       opts.Store,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
		openBrowser: opts.OpenBrowser,
		endpoint:    opts.Endpoint,
		baseURL:     opts.BaseURL,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		authCommand, currentCommand, initCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the logger for commands that cannot share the terminal, like the TUI.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) newSession() (*services.Session, error) {
	return services.NewSession(services.SessionOpts{
		Credentials:  r.config.Credentials.Spotify,
		Store:        r.store,
		HTTPClient:   r.httpClient,
		Logger:       r.logger,
		Output:       r.output,
		OpenBrowser:  r.openBrowser,
		CallbackAddr: r.config.Server.Addr(),
		CallbackPath: r.config.Server.CallbackPath,
		AuthTimeout:  r.config.Server.Timeout(),
		Endpoint:     r.endpoint,
	})
}

func (r *Runner) newPlayer(tokens services.TokenProvider) *services.Player {
	return services.NewPlayer(services.PlayerOpts{
		Tokens:     tokens,
		HTTPClient: r.httpClient,
		BaseURL:    r.baseURL,
		Logger:     r.logger,
	})
}

func (r *Runner) newMonitor(fetcher services.NowPlayingFetcher) *tasks.Monitor {
	return tasks.NewMonitor(tasks.MonitorOpts{
		Fetcher:    fetcher,
		Cover:      cover.New(r.config.Poller.CoverPath),
		Interval:   r.config.Poller.PollInterval(),
		MaxRetries: r.config.Poller.MaxRetries,
		Logger:     r.logger,
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
