// package services defines the Spotify Web API clients: the OAuth [Session] and the now playing [Player]
package services

import (
	"context"

	"github.com/desertthunder/nowplaying/internal/models"
)

// TokenProvider hands out an access token that is valid right now.
type TokenProvider interface {
	EnsureValidToken(ctx context.Context) (string, error)
}

// Authenticator establishes the token state before polling starts.
type Authenticator interface {
	TokenProvider
	Authenticate(ctx context.Context) error
}

// NowPlayingFetcher produces one [models.NowPlaying] per call.
type NowPlayingFetcher interface {
	Fetch(ctx context.Context) (*models.NowPlaying, error)
}

var (
	_ Authenticator     = (*Session)(nil)
	_ NowPlayingFetcher = (*Player)(nil)
)
