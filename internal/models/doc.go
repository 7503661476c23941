// Package models defines the domain types shared by the poller, the poll loop and the displays.
//
// [NowPlaying] is a tagged result: [Nothing] carries no payload, [Playing] carries the track name,
// the comma-joined artists, the optional cover art and the paused/playing flag.
package models
