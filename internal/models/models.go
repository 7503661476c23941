// package models defines the data model for the now playing monitor
package models

import "fmt"

// PlaybackState tags a [NowPlaying] result.
type PlaybackState int

const (
	// Nothing means no track is loaded on any device; a NowPlaying in this state carries no payload.
	Nothing PlaybackState = iota
	// Playing means a track is loaded. It may still be paused, see [NowPlaying.IsPlaying].
	Playing
)

func (s PlaybackState) String() string {
	switch s {
	case Playing:
		return "playing"
	default:
		return "nothing"
	}
}

// NowPlaying is the normalized result of one poll. Produced fresh each time and never retained.
type NowPlaying struct {
	State     PlaybackState `json:"state"`
	TrackID   string        `json:"track_id,omitempty"`
	Track     string        `json:"track,omitempty"`
	Artists   string        `json:"artists,omitempty"` // Artist names joined with ", "
	Album     string        `json:"album,omitempty"`
	ImageURL  string        `json:"image_url,omitempty"`
	Artwork   []byte        `json:"-"`                // Cover art bytes, nil when absent or the download failed
	Colors    []string      `json:"colors,omitempty"` // Dominant cover colours as #rrggbb, most prominent first
	IsPlaying bool          `json:"is_playing"`
	Progress  int           `json:"progress_ms,omitempty"`
	Duration  int           `json:"duration_ms,omitempty"`
}

// NothingPlaying returns the payload-free result.
func NothingPlaying() *NowPlaying {
	return &NowPlaying{State: Nothing}
}

// Active reports whether a track is loaded and not paused.
func (n *NowPlaying) Active() bool {
	return n != nil && n.State == Playing && n.IsPlaying
}

// HasArtwork reports whether cover art bytes were fetched.
func (n *NowPlaying) HasArtwork() bool {
	return n != nil && len(n.Artwork) > 0
}

// String renders the single-line form used by the status display.
func (n *NowPlaying) String() string {
	switch {
	case n == nil || n.State == Nothing:
		return "No track currently playing"
	case !n.IsPlaying:
		return fmt.Sprintf("Paused: %s - %s", n.Track, n.Artists)
	default:
		return fmt.Sprintf("%s - %s", n.Track, n.Artists)
	}
}
