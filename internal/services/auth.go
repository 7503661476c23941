// Spotify OAuth2 authorization code + refresh token session
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nowplaying/internal/server"
	"github.com/desertthunder/nowplaying/internal/shared"
	"github.com/desertthunder/nowplaying/internal/store"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// Scopes requested during the interactive grant.
var Scopes = []string{
	"user-read-currently-playing",
	"user-read-playback-state",
}

// SpotifyEndpoint is the production authorization server.
var SpotifyEndpoint = oauth2.Endpoint{
	AuthURL:   spotifyAuthURL,
	TokenURL:  spotifyTokenURL,
	AuthStyle: oauth2.AuthStyleInHeader,
}

// SessionOpts contains configuration options for creating a [Session].
type SessionOpts struct {
	Credentials  shared.SpotifyConfig
	Store        store.TokenStore
	HTTPClient   *http.Client
	Logger       *log.Logger
	Output       io.Writer            // Receives the user-facing authorization prompts
	OpenBrowser  shared.BrowserOpener // Defaults to [shared.OpenBrowser]
	CallbackAddr string               // Defaults to localhost:8080
	CallbackPath string               // Defaults to /callback
	AuthTimeout  time.Duration        // Bounded wait for the redirect, defaults to 2 minutes
	Endpoint     *oauth2.Endpoint     // Defaults to [SpotifyEndpoint]
	Now          func() time.Time
}

// Session produces a currently valid access token on demand and manages the one-time interactive grant.
//
// It is the only writer of the token state and of the [store.TokenStore].
type Session struct {
	config       *oauth2.Config
	store        store.TokenStore
	httpClient   *http.Client
	logger       *log.Logger
	output       io.Writer
	openBrowser  shared.BrowserOpener
	callbackAddr string
	callbackPath string
	authTimeout  time.Duration
	now          func() time.Time

	mu    sync.Mutex
	token *oauth2.Token
}

// NewSession creates a [Session] for the given credentials.
//
// The refresh token persisted in the store wins over one passed in via credentials, since the store sees rotations.
func NewSession(opts SessionOpts) (*Session, error) {
	if err := opts.Credentials.Validate(); err != nil {
		return nil, err
	}
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore("")
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = NewHTTPClient(HTTPOpts{})
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}
	if opts.CallbackAddr == "" {
		opts.CallbackAddr = "localhost:8080"
	}
	if opts.CallbackPath == "" {
		opts.CallbackPath = "/callback"
	}
	if opts.AuthTimeout <= 0 {
		opts.AuthTimeout = 2 * time.Minute
	}
	if opts.Endpoint == nil {
		opts.Endpoint = &SpotifyEndpoint
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	redirectURI := opts.Credentials.RedirectURI
	if redirectURI == "" {
		redirectURI = "http://" + opts.CallbackAddr + opts.CallbackPath
	}

	refreshToken, err := opts.Store.Load()
	if err != nil {
		return nil, err
	}
	if refreshToken == "" {
		refreshToken = opts.Credentials.RefreshToken
	}

	s := &Session{
		config: &oauth2.Config{
			ClientID:     opts.Credentials.ClientID,
			ClientSecret: opts.Credentials.ClientSecret,
			RedirectURL:  redirectURI,
			Scopes:       Scopes,
			Endpoint:     *opts.Endpoint,
		},
		store:        opts.Store,
		httpClient:   opts.HTTPClient,
		logger:       shared.WithLogger(opts.Logger, "component", "auth"),
		output:       opts.Output,
		openBrowser:  opts.OpenBrowser,
		callbackAddr: opts.CallbackAddr,
		callbackPath: opts.CallbackPath,
		authTimeout:  opts.AuthTimeout,
		now:          opts.Now,
	}
	if refreshToken != "" {
		s.token = &oauth2.Token{RefreshToken: refreshToken}
	}

	return s, nil
}

// AuthURL returns the authorization URL the user visits to grant access.
func (s *Session) AuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// Authenticate refreshes immediately when a refresh token is known, and otherwise runs the interactive grant:
// open the authorization URL, wait for the redirect on the local callback listener and exchange the code.
func (s *Session) Authenticate(ctx context.Context) error {
	if s.RefreshToken() != "" {
		s.logger.Debug("refresh token found, skipping interactive authorization")
		return s.Refresh(ctx)
	}

	s.logger.Info("no refresh token found, starting new OAuth flow")
	return s.Authorize(ctx)
}

// Authorize runs the interactive grant regardless of any stored refresh token.
func (s *Session) Authorize(ctx context.Context) error {
	code, err := s.awaitCode(ctx)
	if err != nil {
		return err
	}
	return s.Exchange(ctx, code)
}

func (s *Session) awaitCode(ctx context.Context) (string, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}

	handler := server.NewCallbackHandler(s.callbackPath, state)
	listener, err := server.Listen(s.callbackAddr, handler, s.logger)
	if err != nil {
		return "", err
	}

	authURL := s.AuthURL(state)
	fmt.Fprintf(s.output, "→ Opening browser for Spotify authorization...\n")
	if err := s.openBrowser(authURL); err != nil {
		s.logger.Warn("failed to open browser automatically", "error", err)
		fmt.Fprintf(s.output, "⚠ Could not open browser automatically.\nPlease open this URL in your browser:\n%s\n\n", authURL)
	}
	fmt.Fprintf(s.output, "→ Waiting for authorization (%v timeout)...\n", s.authTimeout)

	return listener.Wait(ctx, s.authTimeout)
}

// Exchange trades an authorization code for tokens and persists the refresh token.
//
// A non-success response from the provider yields [shared.ErrAuthExchangeFailed] with its status code.
func (s *Session) Exchange(ctx context.Context, code string) error {
	ctx, cancel := s.exchangeContext(ctx)
	defer cancel()

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return s.tokenError(ctx, shared.ErrAuthExchangeFailed, err)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	s.logger.Info("authorization successful", "expires", token.Expiry.Format(time.RFC3339))

	if token.RefreshToken == "" {
		s.logger.Warn("token response carried no refresh token")
		return nil
	}
	return s.persist(token.RefreshToken)
}

// Refresh exchanges the stored refresh token for a new access token.
//
// A rotated refresh token replaces the old one and is persisted. A non-success response from the provider
// yields [shared.ErrRefreshFailed] with its status code.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Session) refreshLocked(ctx context.Context) error {
	if s.token == nil || s.token.RefreshToken == "" {
		return shared.ErrNoRefreshToken
	}
	previous := s.token.RefreshToken

	ctx, cancel := s.exchangeContext(ctx)
	defer cancel()

	token, err := s.config.TokenSource(ctx, &oauth2.Token{RefreshToken: previous}).Token()
	if err != nil {
		return s.tokenError(ctx, shared.ErrRefreshFailed, err)
	}
	if token.RefreshToken == "" {
		token.RefreshToken = previous
	}
	s.token = token

	s.logger.Debug("access token refreshed", "expires", token.Expiry.Format(time.RFC3339))

	if token.RefreshToken != previous {
		s.logger.Info("refresh token rotated")
		return s.persist(token.RefreshToken)
	}
	return nil
}

// EnsureValidToken returns the cached access token while it is unexpired, refreshing synchronously otherwise.
//
// A token with no expiry counts as expired.
func (s *Session) EnsureValidToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.validLocked() {
		return s.token.AccessToken, nil
	}
	if err := s.refreshLocked(ctx); err != nil {
		return "", err
	}
	return s.token.AccessToken, nil
}

// Token returns a copy of the current token state, or nil before any exchange.
func (s *Session) Token() *oauth2.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return nil
	}
	t := *s.token
	return &t
}

// RefreshToken returns the long-lived credential currently held, or "".
func (s *Session) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return ""
	}
	return s.token.RefreshToken
}

func (s *Session) validLocked() bool {
	t := s.token
	return t != nil && t.AccessToken != "" && !t.Expiry.IsZero() && s.now().Before(t.Expiry)
}

func (s *Session) persist(refreshToken string) error {
	if err := s.store.Save(refreshToken); err != nil {
		return fmt.Errorf("failed to persist refresh token: %w", err)
	}
	s.logger.Debug("refresh token saved")
	return nil
}

// exchangeContext routes oauth2's token requests through our client and bounds them with its timeout.
func (s *Session) exchangeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	if s.httpClient.Timeout > 0 {
		return context.WithTimeout(ctx, s.httpClient.Timeout)
	}
	return context.WithCancel(ctx)
}

func (s *Session) tokenError(ctx context.Context, kind error, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		s.logger.Debug("token endpoint rejected request",
			"status", re.Response.StatusCode,
			"error", re.ErrorCode,
			"description", re.ErrorDescription)
		return shared.NewStatusError(kind, re.Response.StatusCode)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return shared.WrapNetErr(kind, ctxErr)
	}
	return shared.WrapNetErr(kind, err)
}
