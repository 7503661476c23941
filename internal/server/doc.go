// Package server provides the local HTTP listener used once, during first-time Spotify authorization.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering; [RequestLogger]
// logs each request without its query string.
//
// # OAuth Callback
//
// [CallbackHandler] captures the authorization code from the redirect. It validates the state parameter,
// answers with a success or failure page and hands the result over a single-slot channel. Only the first
// request is processed.
//
// [CallbackListener] binds the fixed callback address, serves the handler on its own goroutine and is torn
// down by [CallbackListener.Wait] as soon as the result arrives or the bounded wait expires.
package server
