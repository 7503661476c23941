package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/shared"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// maxImageBytes caps cover art downloads; Spotify's largest covers are well under this.
const maxImageBytes = 10 << 20

// PlayerOpts contains configuration options for creating a [Player].
type PlayerOpts struct {
	Tokens     TokenProvider
	HTTPClient *http.Client
	BaseURL    string // Defaults to https://api.spotify.com/v1
	Logger     *log.Logger
}

// Player asks the Web API what the user is listening to. Each [Player.Fetch] yields one [models.NowPlaying].
type Player struct {
	tokens     TokenProvider
	httpClient *http.Client
	baseURL    string
	logger     *log.Logger
}

// NewPlayer creates a [Player].
func NewPlayer(opts PlayerOpts) *Player {
	if opts.HTTPClient == nil {
		opts.HTTPClient = NewHTTPClient(HTTPOpts{})
	}
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Player{
		tokens:     opts.Tokens,
		httpClient: opts.HTTPClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		logger:     shared.WithLogger(opts.Logger, "component", "player"),
	}
}

// Fetch polls the currently playing endpoint once.
//
// 204 or an empty body is [models.Nothing]. Any status other than 200 and 204 fails with
// [shared.ErrPollFailed] carrying the code. A failed cover download only drops the artwork.
func (p *Player) Fetch(ctx context.Context) (*models.NowPlaying, error) {
	token, err := p.tokens.EnsureValidToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/me/player/currently-playing", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, shared.WrapNetErr(shared.ErrPollFailed, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return models.NothingPlaying(), nil
	case http.StatusOK:
	default:
		io.Copy(io.Discard, resp.Body)
		return nil, shared.NewStatusError(shared.ErrPollFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, shared.WrapNetErr(shared.ErrPollFailed, err)
	}

	current, err := decodeCurrentlyPlaying(body)
	if err != nil {
		return nil, err
	}
	if current == nil || current.Item == nil {
		return models.NothingPlaying(), nil
	}

	np := normalize(current)
	if np.ImageURL != "" {
		art, err := p.fetchImage(ctx, np.ImageURL)
		if err != nil {
			p.logger.Debug("continuing without artwork", "error", err)
		} else {
			np.Artwork = art
			np.Colors = dominantColors(art)
		}
	}

	return np, nil
}

func decodeCurrentlyPlaying(body []byte) (*SpotifyCurrentlyPlaying, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var current SpotifyCurrentlyPlaying
	if err := json.Unmarshal(trimmed, &current); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", shared.ErrPollFailed, err)
	}
	return &current, nil
}

// normalize flattens the API payload. The first album image is taken as the largest, per Spotify's ordering.
func normalize(current *SpotifyCurrentlyPlaying) *models.NowPlaying {
	track := current.Item

	names := make([]string, 0, len(track.Artists))
	for _, a := range track.Artists {
		names = append(names, a.Name)
	}

	np := &models.NowPlaying{
		State:     models.Playing,
		TrackID:   track.ID,
		Track:     track.Name,
		Artists:   strings.Join(names, ", "),
		Album:     track.Album.Name,
		IsPlaying: true,
		Progress:  current.ProgressMS,
		Duration:  track.DurationMS,
	}
	if current.IsPlaying != nil {
		np.IsPlaying = *current.IsPlaying
	}
	if len(track.Album.Images) > 0 {
		np.ImageURL = track.Album.Images[0].URL
	}
	return np
}

// fetchImage downloads cover art. Failures are reported as [shared.ErrImageFetchFailed].
func (p *Player) fetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrImageFetchFailed, err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, shared.WrapNetErr(shared.ErrImageFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, shared.NewStatusError(shared.ErrImageFetchFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, shared.WrapNetErr(shared.ErrImageFetchFailed, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body", shared.ErrImageFetchFailed)
	}
	return data, nil
}
