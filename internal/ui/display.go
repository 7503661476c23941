package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/tasks"
)

// Display writes monitor updates to a terminal.
//
// A track line is printed once per track; status messages share one line that is
// rewritten in place with a carriage return. Failures only close the status line.
type Display struct {
	w       io.Writer
	palette *Palette
	last    string // last track line printed
	status  int    // visible width of the open status line, zero when none
}

// NewDisplay creates a [Display] writing to w.
func NewDisplay(w io.Writer) *Display {
	return &Display{w: w, palette: styles}
}

// Consume renders updates until the channel is closed.
func (d *Display) Consume(updates <-chan tasks.ProgressUpdate) {
	for u := range updates {
		d.Render(u)
	}
}

// Render writes one update.
func (d *Display) Render(u tasks.ProgressUpdate) {
	switch u.Phase {
	case tasks.Playing:
		line := trackLine(u.NowPlaying)
		if line == d.last {
			return
		}
		d.last = line
		d.endStatus()
		fmt.Fprintln(d.w, d.palette.playing.Render("♪")+" "+d.palette.track.Render(line))
	case tasks.Idle:
		d.last = ""
		d.statusLine(u.Message)
	case tasks.Retrying:
		d.last = ""
		d.statusLine(d.palette.warn.Render(u.Message))
	case tasks.Stopped:
		d.endStatus()
		fmt.Fprintln(d.w, u.Message)
	case tasks.Failed:
		// The caller reports the error itself.
		d.endStatus()
	}
}

func trackLine(np *models.NowPlaying) string {
	if np == nil {
		return ""
	}
	if np.Album == "" {
		return np.String()
	}
	return fmt.Sprintf("%s (%s)", np.String(), np.Album)
}

// statusLine overwrites the current status line, padding out leftovers from a longer previous message.
func (d *Display) statusLine(msg string) {
	width := lipgloss.Width(msg)
	pad := ""
	if d.status > width {
		pad = strings.Repeat(" ", d.status-width)
	}
	fmt.Fprintf(d.w, "\r%s%s", msg, pad)
	d.status = width
}

func (d *Display) endStatus() {
	if d.status > 0 {
		fmt.Fprintln(d.w)
		d.status = 0
	}
}
