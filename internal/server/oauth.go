package server

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nowplaying/internal/shared"
)

// CallbackResult is the outcome of the single authorization redirect.
type CallbackResult struct {
	Code string
	err  error
}

func (c CallbackResult) Error() error {
	return c.err
}

// CallbackHandler captures the authorization code from the provider's redirect.
//
// Only the first request is processed; later requests are rejected.
type CallbackHandler struct {
	path        string
	state       string
	resultChan  chan CallbackResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewCallbackHandler creates a handler for path. When state is non-empty the redirect must echo it back.
func NewCallbackHandler(path, state string) *CallbackHandler {
	if path == "" {
		path = "/callback"
	}
	return &CallbackHandler{
		path:       path,
		state:      state,
		resultChan: make(chan CallbackResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{h.path}
}

// ServeHTTP parses the redirect query, stores the code if present and answers with a success or failure page.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	query := r.URL.Query()

	if h.state != "" && query.Get("state") != h.state {
		h.Send(CallbackResult{err: fmt.Errorf("%w: invalid state parameter", shared.ErrAuthorizationDenied)})
		writePage(w, http.StatusBadRequest, "Authorization failed!", "Invalid state parameter. Please try again.")
		return
	}

	code := query.Get("code")
	if code == "" {
		reason := query.Get("error")
		if reason == "" {
			reason = "no code in redirect"
		}
		h.Send(CallbackResult{err: fmt.Errorf("%w: %s", shared.ErrAuthorizationDenied, reason)})
		writePage(w, http.StatusBadRequest, "Authorization failed!", "Please try again.")
		return
	}

	h.Send(CallbackResult{Code: code})
	writePage(w, http.StatusOK, "✓ Authorization successful!", "You can close this window and return to the terminal.")
}

// Send delivers the result through the channel (only once).
func (h *CallbackHandler) Send(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel. It receives exactly one value and is then closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}

func writePage(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
    <title>%[1]s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%[1]s</h1>
        <p>%[2]s</p>
    </div>
</body>
</html>
`, html.EscapeString(title), html.EscapeString(message))
}

// CallbackListener is the short-lived local HTTP server that receives the authorization redirect.
type CallbackListener struct {
	handler *CallbackHandler
	srv     *http.Server
	ln      net.Listener
	errs    chan error
	logger  *log.Logger
	closed  sync.Once
}

// Listen binds addr and starts serving handler on a background goroutine.
func Listen(addr string, handler *CallbackHandler, logger *log.Logger) (*CallbackListener, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind callback listener on %s: %w", addr, err)
	}

	router := NewBasicRouter()
	router.Use(RequestLogger(logger))
	router.Handler(http.MethodGet, handler)

	l := &CallbackListener{
		handler: handler,
		srv:     &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second},
		ln:      ln,
		errs:    make(chan error, 1),
		logger:  logger,
	}

	go func() {
		logger.Debug("callback listener started", "addr", ln.Addr().String())
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.errs <- err
		}
	}()

	return l, nil
}

// Addr returns the bound address, useful when listening on port 0.
func (l *CallbackListener) Addr() string {
	return l.ln.Addr().String()
}

// Wait blocks until the callback arrives, the server fails, ctx ends or timeout elapses, then stops listening.
func (l *CallbackListener) Wait(ctx context.Context, timeout time.Duration) (string, error) {
	defer l.Close()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-l.handler.Result():
		if result.Error() != nil {
			return "", result.Error()
		}
		return result.Code, nil
	case err := <-l.errs:
		return "", fmt.Errorf("callback server error: %w", err)
	case <-timer.C:
		return "", fmt.Errorf("%w after %v", shared.ErrCallbackTimeout, timeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close shuts the server down, letting an in-flight response finish.
func (l *CallbackListener) Close() error {
	var err error
	l.closed.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err = l.srv.Shutdown(ctx); err != nil {
			l.logger.Warn("error shutting down callback listener", "error", err)
		}
	})
	return err
}
