// Package services talks to the Spotify Web API.
//
// # Auth Session
//
// [Session] owns the OAuth2 token state. [Session.Authenticate] refreshes straight away when a refresh token
// is known and otherwise runs the one-time interactive grant through the local callback listener
// (internal/server). [Session.EnsureValidToken] returns the cached access token while unexpired and performs
// exactly one synchronous refresh otherwise; there is no background refresh. Rotated refresh tokens are
// written to the [store.TokenStore].
//
// # Player
//
// [Player.Fetch] calls GET /me/player/currently-playing with the bearer token and normalizes the response
// into a [models.NowPlaying]. Cover art is downloaded synchronously; a failed download degrades to no artwork.
//
// # Transport
//
// [NewHTTPClient] gives every outbound call an explicit timeout, a User-Agent and a shared rate limiter.
//
// # Error Handling
//
// Upstream failures carry their status code in a [shared.StatusError]:
//   - [shared.ErrAuthExchangeFailed] : authorization code exchange rejected
//   - [shared.ErrRefreshFailed] : refresh token exchange rejected
//   - [shared.ErrPollFailed] : currently playing returned something other than 200/204
//   - [shared.ErrImageFetchFailed] : cover art download failed (never returned from Fetch)
//
// Deadline and timeout failures are additionally tagged [shared.ErrNetworkTimeout].
package services
