package tasks

import (
	"fmt"
	"time"

	"github.com/desertthunder/nowplaying/internal/models"
)

// ProgressUpdate represents one event from the poll loop.
//
// Sent to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase      Phase              // Event kind
	Attempt    int                // Retry attempt, only set for [Retrying]
	Message    string             // Human-readable message for display
	NowPlaying *models.NowPlaying // Poll result for [Playing] and [Idle]
	Err        error              // Failure for [Retrying] and [Failed]
	Wait       time.Duration      // Delay before the next attempt for [Retrying]
}

// Poll loop phase enumeration
type Phase int

const (
	Playing Phase = iota
	Idle
	Retrying
	Stopped
	Failed
)

func (p Phase) String() string {
	switch p {
	case Playing:
		return "playing"
	case Idle:
		return "idle"
	case Retrying:
		return "retrying"
	case Stopped:
		return "stopped"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

func playingUpdate(np *models.NowPlaying) ProgressUpdate {
	return ProgressUpdate{
		Phase:      Playing,
		Message:    np.String(),
		NowPlaying: np,
	}
}

func idleUpdate(np *models.NowPlaying) ProgressUpdate {
	return ProgressUpdate{
		Phase:      Idle,
		Message:    np.String(),
		NowPlaying: np,
	}
}

func retryUpdate(attempt int, wait time.Duration, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Retrying,
		Attempt: attempt,
		Message: fmt.Sprintf("Retrying in %s (attempt %d): %v", wait.Round(time.Millisecond), attempt, err),
		Err:     err,
		Wait:    wait,
	}
}

func stoppedUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Stopped,
		Message: "Stopping playback monitor...",
	}
}

func failedUpdate(err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Failed,
		Message: fmt.Sprintf("Error: %v", err),
		Err:     err,
	}
}
