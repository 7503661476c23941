// Package ui renders the playback monitor.
//
// Two front ends consume the same [tasks.ProgressUpdate] stream:
//  1. [Display] : plain terminal output. Each new track gets its own line; idle, paused and
//     retry states overwrite a single status line with a carriage return.
//  2. [Model] : a bubbletea now-playing view with a spinner, track progress bar and help.
//
// The [Model] runs the [tasks.Monitor] on its own goroutine and reads updates via a
// channel, in bubbletea/Elm's Init/Update/View pattern. Quitting cancels the monitor and
// waits for it to stop so the cover file is gone before the program exits.
package ui
