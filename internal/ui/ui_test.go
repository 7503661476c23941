package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/tasks"
)

func track(name string, playing bool) *models.NowPlaying {
	return &models.NowPlaying{
		State:     models.Playing,
		Track:     name,
		Artists:   "Artist A, Artist B",
		Album:     "Album",
		IsPlaying: playing,
	}
}

// fakeMonitor sends its updates, then blocks until ctx is done when block is set.
type fakeMonitor struct {
	updates []tasks.ProgressUpdate
	err     error
	block   bool
	sawDone chan struct{}
}

func (f *fakeMonitor) Run(ctx context.Context, progress chan<- tasks.ProgressUpdate) error {
	for _, u := range f.updates {
		progress <- u
	}
	if f.block {
		<-ctx.Done()
		if f.sawDone != nil {
			close(f.sawDone)
		}
	}
	return f.err
}

func TestDisplay(t *testing.T) {
	t.Run("prints a track line once per track", func(t *testing.T) {
		var buf bytes.Buffer
		d := NewDisplay(&buf)

		d.Render(tasks.ProgressUpdate{Phase: tasks.Playing, NowPlaying: track("Song", true)})
		d.Render(tasks.ProgressUpdate{Phase: tasks.Playing, NowPlaying: track("Song", true)})
		d.Render(tasks.ProgressUpdate{Phase: tasks.Playing, NowPlaying: track("Other", true)})

		out := buf.String()
		if got := strings.Count(out, "Song - Artist A, Artist B (Album)"); got != 1 {
			t.Errorf("expected one line for Song, got %d in %q", got, out)
		}
		if !strings.Contains(out, "Other - Artist A, Artist B (Album)") {
			t.Errorf("expected line for Other, got %q", out)
		}
	})

	t.Run("status updates rewrite one line", func(t *testing.T) {
		var buf bytes.Buffer
		d := NewDisplay(&buf)

		d.Render(tasks.ProgressUpdate{Phase: tasks.Idle, Message: "No track currently playing"})
		d.Render(tasks.ProgressUpdate{Phase: tasks.Idle, Message: "Paused"})

		out := buf.String()
		if strings.Contains(out, "\n") {
			t.Errorf("status line should not end with newline, got %q", out)
		}
		want := "\rPaused" + strings.Repeat(" ", len("No track currently playing")-len("Paused"))
		if !strings.HasSuffix(out, want) {
			t.Errorf("expected padded rewrite %q, got %q", want, out)
		}
	})

	t.Run("track after status starts a new line", func(t *testing.T) {
		var buf bytes.Buffer
		d := NewDisplay(&buf)

		d.Render(tasks.ProgressUpdate{Phase: tasks.Playing, NowPlaying: track("Song", true)})
		d.Render(tasks.ProgressUpdate{Phase: tasks.Idle, Message: "No track currently playing"})
		d.Render(tasks.ProgressUpdate{Phase: tasks.Playing, NowPlaying: track("Song", true)})

		out := buf.String()
		if got := strings.Count(out, "Song - Artist A"); got != 2 {
			t.Errorf("expected track line to be printed again after idle, got %d in %q", got, out)
		}
		if !strings.Contains(out, "No track currently playing\n") {
			t.Errorf("expected status line to be closed, got %q", out)
		}
	})

	t.Run("stopped closes the status line and prints the message", func(t *testing.T) {
		var buf bytes.Buffer
		d := NewDisplay(&buf)

		d.Render(tasks.ProgressUpdate{Phase: tasks.Idle, Message: "idle"})
		d.Render(tasks.ProgressUpdate{Phase: tasks.Stopped, Message: "Stopping playback monitor..."})

		if want := "\ridle\nStopping playback monitor...\n"; buf.String() != want {
			t.Errorf("expected %q, got %q", want, buf.String())
		}
	})

	t.Run("failed does not print the error", func(t *testing.T) {
		var buf bytes.Buffer
		d := NewDisplay(&buf)

		d.Render(tasks.ProgressUpdate{Phase: tasks.Failed, Message: "Error: boom", Err: errors.New("boom")})

		if strings.Contains(buf.String(), "boom") {
			t.Errorf("expected no error output, got %q", buf.String())
		}
	})

	t.Run("consume drains until closed", func(t *testing.T) {
		var buf bytes.Buffer
		d := NewDisplay(&buf)

		updates := make(chan tasks.ProgressUpdate, 2)
		updates <- tasks.ProgressUpdate{Phase: tasks.Playing, NowPlaying: track("Song", true)}
		updates <- tasks.ProgressUpdate{Phase: tasks.Stopped, Message: "Stopping playback monitor..."}
		close(updates)

		d.Consume(updates)

		if !strings.HasSuffix(buf.String(), "Stopping playback monitor...\n") {
			t.Errorf("expected stop message last, got %q", buf.String())
		}
	})
}

func TestModel(t *testing.T) {
	t.Run("runs the monitor and quits when it stops", func(t *testing.T) {
		monitor := &fakeMonitor{updates: []tasks.ProgressUpdate{
			{Phase: tasks.Playing, Message: "Song", NowPlaying: track("Song", true)},
		}}
		m := NewModel(context.Background(), monitor)
		m.Init()

		msg := m.waitForProgress()()
		if got, ok := msg.(Msg); !ok || got.kind != MsgProgressUpdate {
			t.Fatalf("expected progress message, got %#v", msg)
		}
		m.Update(msg)
		if m.current == nil || m.current.Track != "Song" {
			t.Errorf("expected current track Song, got %+v", m.current)
		}

		msg = m.waitForProgress()()
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("expected tea.QuitMsg")
		}
		if m.Err() != nil {
			t.Errorf("expected nil error, got %v", m.Err())
		}
	})

	t.Run("keeps the monitor error", func(t *testing.T) {
		m := NewModel(context.Background(), &fakeMonitor{})
		boom := errors.New("boom")

		m.Update(monitorStoppedMsg(boom))

		if !errors.Is(m.Err(), boom) {
			t.Errorf("expected boom, got %v", m.Err())
		}
		if !strings.Contains(m.View(), "Error: boom") {
			t.Errorf("expected error in view, got %q", m.View())
		}
	})

	t.Run("quit key cancels the monitor", func(t *testing.T) {
		m := NewModel(context.Background(), &fakeMonitor{})

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

		if cmd != nil {
			t.Errorf("expected no command until the monitor stops")
		}
		if !m.stopping || m.status != "Stopping playback monitor..." {
			t.Errorf("expected stopping state, got stopping=%v status=%q", m.stopping, m.status)
		}
		if m.ctx.Err() == nil {
			t.Errorf("expected context to be cancelled")
		}
	})

	t.Run("help key toggles full help", func(t *testing.T) {
		m := NewModel(context.Background(), &fakeMonitor{})

		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})

		if !m.help.ShowAll {
			t.Errorf("expected full help")
		}
	})

	t.Run("shutdown waits for the monitor", func(t *testing.T) {
		monitor := &fakeMonitor{block: true, sawDone: make(chan struct{})}
		m := NewModel(context.Background(), monitor)
		m.Init()

		done := make(chan struct{})
		go func() {
			m.Shutdown()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("shutdown did not return")
		}
		select {
		case <-monitor.sawDone:
		default:
			t.Errorf("expected monitor to observe cancellation")
		}
	})

	t.Run("shutdown without init returns", func(t *testing.T) {
		m := NewModel(context.Background(), &fakeMonitor{})
		m.Shutdown()
	})
}

func TestView(t *testing.T) {
	tests := []struct {
		name   string
		update tasks.ProgressUpdate
		want   []string
	}{
		{
			name:   "playing track",
			update: tasks.ProgressUpdate{Phase: tasks.Playing, NowPlaying: &models.NowPlaying{State: models.Playing, Track: "Song", Artists: "Artist", Album: "Album", IsPlaying: true, Colors: []string{"#112233"}, Progress: 61000, Duration: 180000}},
			want:   []string{"Song", "Artist", "Album", "1:01 / 3:00", "no cover art"},
		},
		{
			name:   "idle",
			update: tasks.ProgressUpdate{Phase: tasks.Idle, Message: "No track currently playing", NowPlaying: models.NothingPlaying()},
			want:   []string{"No track currently playing"},
		},
		{
			name:   "paused",
			update: tasks.ProgressUpdate{Phase: tasks.Idle, Message: "Paused: Song - Artist", NowPlaying: track("Song", false)},
			want:   []string{"Paused: Song - Artist"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(context.Background(), &fakeMonitor{})
			m.apply(tt.update)

			view := m.View()
			for _, want := range tt.want {
				if !strings.Contains(view, want) {
					t.Errorf("expected view to contain %q, got %q", want, view)
				}
			}
		})
	}
}

func TestFormatMS(t *testing.T) {
	tests := map[int]string{0: "0:00", 999: "0:00", 61000: "1:01", 600000: "10:00"}
	for ms, want := range tests {
		if got := formatMS(ms); got != want {
			t.Errorf("formatMS(%d) = %q, want %q", ms, got, want)
		}
	}
}
