// Package tasks runs the playback monitor.
//
// # Poll Loop
//
// [Monitor.Run] calls the fetcher once immediately and then on every tick of the interval:
//
//  1. An actively playing track is reported with [Playing]; its cover art is written to the
//     cover file, or the file is removed when the track has no artwork.
//  2. Anything else (nothing loaded, paused) is reported with [Idle] and the cover file is removed.
//
// # Retries
//
// Transient failures ([shared.IsTransient]: 429, 5xx and timeouts) are retried inside the
// iteration with exponential backoff, up to MaxRetries times. Each retry is reported with
// [Retrying]. Any other error, or running out of retries, ends the loop.
//
// # Progress Reporting
//
// Updates are sent on an optional channel without blocking; a full channel drops the update.
// The plain status line and the TUI both render from this channel.
//
// # Cleanup
//
// Whenever Run returns, for cancellation or failure, the cover file has been removed.
package tasks
