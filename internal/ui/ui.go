package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/tasks"
)

const maxBarWidth = 60

// MonitorRunner is satisfied by [tasks.Monitor].
type MonitorRunner interface {
	Run(ctx context.Context, progress chan<- tasks.ProgressUpdate) error
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	cancel       context.CancelFunc
	monitor      MonitorRunner
	progressChan chan tasks.ProgressUpdate
	done         chan error
	stopped      chan struct{}
	current      *models.NowPlaying
	status       string
	retrying     bool
	stopping     bool
	err          error
	width        int
	spinner      spinner.Model
	bar          progress.Model
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model that runs monitor until the user quits or ctx is done.
func NewModel(ctx context.Context, monitor MonitorRunner) *Model {
	ctx, cancel := context.WithCancel(ctx)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.playing

	return &Model{
		ctx:     ctx,
		cancel:  cancel,
		monitor: monitor,
		status:  "Waiting for playback...",
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(40)),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Err returns the error the monitor stopped with, nil after a clean quit.
func (m *Model) Err() error {
	return m.err
}

// Shutdown cancels the monitor and waits for it to return, for when the program exits without a clean quit.
func (m *Model) Shutdown() {
	m.cancel()
	if m.stopped != nil {
		<-m.stopped
	}
}

// Init starts the monitor and the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startMonitor())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(min(msg.Width-4, maxBarWidth), 10)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			if !m.stopping {
				m.stopping = true
				m.status = "Stopping playback monitor..."
				m.cancel()
			}
			return m, nil
		case key.Matches(msg, m.keys.help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.apply(msg.data.(tasks.ProgressUpdate))
			return m, m.waitForProgress()
		case MsgMonitorStopped:
			if err, ok := msg.data.(error); ok {
				m.err = err
			}
			m.cancel()
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *Model) apply(u tasks.ProgressUpdate) {
	switch u.Phase {
	case tasks.Playing, tasks.Idle:
		m.current = u.NowPlaying
		m.status = u.Message
		m.retrying = false
	case tasks.Retrying:
		m.retrying = true
		m.status = u.Message
	case tasks.Stopped:
		m.status = u.Message
	case tasks.Failed:
		m.err = u.Err
	}
}

// View renders the now playing screen.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Now Playing"))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	case m.current.Active():
		b.WriteString(m.renderTrack())
		if m.retrying || m.stopping {
			b.WriteString("\n" + styles.warn.Render(m.status) + "\n")
		}
	default:
		b.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(), m.status))
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderTrack() string {
	np := m.current

	var b strings.Builder
	title := styles.track
	if len(np.Colors) > 0 {
		title = title.Foreground(lipgloss.Color(np.Colors[0]))
	}
	b.WriteString(title.Render(np.Track) + "\n")
	b.WriteString(np.Artists + "\n")
	if np.Album != "" {
		b.WriteString(styles.help.Render(np.Album) + "\n")
	}
	if np.Duration > 0 {
		ratio := float64(np.Progress) / float64(np.Duration)
		b.WriteString(fmt.Sprintf("\n%s %s / %s\n", m.bar.ViewAs(min(ratio, 1)), formatMS(np.Progress), formatMS(np.Duration)))
	}
	if !np.HasArtwork() {
		b.WriteString(styles.help.Render("no cover art") + "\n")
	}
	return b.String()
}

func formatMS(ms int) string {
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func (m *Model) startMonitor() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.done = make(chan error, 1)
	m.stopped = make(chan struct{})

	go func() {
		defer close(m.stopped)
		m.done <- m.monitor.Run(m.ctx, m.progressChan)
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progressChan, done := m.progressChan, m.done
	return func() tea.Msg {
		update, ok := <-progressChan
		if !ok {
			return monitorStoppedMsg(<-done)
		}
		return progressUpdateMsg(update)
	}
}
