package services

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// UserAgent identifies outbound requests.
const UserAgent = "nowplaying/0.1 (+https://github.com/desertthunder/nowplaying)"

// HTTPOpts configures [NewHTTPClient].
type HTTPOpts struct {
	Timeout   time.Duration     // Hard cap on every request, including reading the body
	RateLimit float64           // Requests per second; zero disables limiting
	Base      http.RoundTripper // Defaults to [http.DefaultTransport]
}

// NewHTTPClient builds the client used for token exchanges, API polls and image downloads.
//
// Every call has an explicit timeout; requests wait on a shared [rate.Limiter] before hitting the network.
func NewHTTPClient(opts HTTPOpts) *http.Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Base == nil {
		opts.Base = http.DefaultTransport
	}

	var rt http.RoundTripper = &uaRoundTripper{rt: opts.Base}
	if opts.RateLimit > 0 {
		rt = &limitedRoundTripper{rt: rt, limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), 1)}
	}

	return &http.Client{Transport: rt, Timeout: opts.Timeout}
}

type uaRoundTripper struct {
	rt http.RoundTripper
}

func (u *uaRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", UserAgent)
	}
	return u.rt.RoundTrip(req)
}

type limitedRoundTripper struct {
	rt      http.RoundTripper
	limiter *rate.Limiter
}

func (l *limitedRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := l.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return l.rt.RoundTrip(req)
}
