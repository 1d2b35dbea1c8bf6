package edge

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/yanqian/hiking-guide/pkg/errors"
	"github.com/yanqian/hiking-guide/pkg/metrics"
)

// DefaultAPIBaseURL is used when no base origin is configured.
const DefaultAPIBaseURL = "https://api.hikingweatherguide.com"

// Response header values stamped on every forwarded response.
const (
	DefaultAllowOrigin  = "https://hikingweatherguide.com"
	DefaultAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	DefaultAllowHeaders = "Content-Type, Authorization"
)

var (
	// ErrEmptyPath is returned when the captured remainder has no segments.
	ErrEmptyPath = errors.New("forward path must contain at least one segment")
	// ErrDotSegment is returned when a remainder segment is "." or "..",
	// literal or percent-encoded, which would let it climb out of /api/.
	ErrDotSegment = errors.New("forward path must not contain dot segments")
)

// Config controls where requests are forwarded and which origin may read them.
type Config struct {
	APIBaseURL   string
	AllowOrigin  string
	AllowMethods string
	AllowHeaders string
	Timeout      time.Duration
}

// Forwarder rewrites the destination host of /api requests and relays them.
type Forwarder struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

// NewForwarder builds a forwarder, filling unset values with the defaults.
func NewForwarder(cfg Config, logger *slog.Logger) *Forwarder {
	base := strings.TrimSpace(cfg.APIBaseURL)
	if base == "" {
		base = DefaultAPIBaseURL
	}
	if cfg.AllowOrigin == "" {
		cfg.AllowOrigin = DefaultAllowOrigin
	}
	if cfg.AllowMethods == "" {
		cfg.AllowMethods = DefaultAllowMethods
	}
	if cfg.AllowHeaders == "" {
		cfg.AllowHeaders = DefaultAllowHeaders
	}
	cfg.APIBaseURL = base
	return &Forwarder{
		cfg:     cfg,
		baseURL: strings.TrimRight(base, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			// The backend's redirects belong to the caller.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger.With("component", "edge.forwarder"),
		now:    time.Now,
	}
}

// DestinationURL joins the base origin, the fixed /api/ prefix and the
// captured remainder.
func (f *Forwarder) DestinationURL(path string) (string, error) {
	remainder := strings.TrimLeft(path, "/")
	if remainder == "" {
		return "", ErrEmptyPath
	}
	for _, segment := range strings.Split(remainder, "/") {
		if isDotSegment(segment) {
			return "", ErrDotSegment
		}
	}
	return f.baseURL + "/api/" + remainder, nil
}

func isDotSegment(segment string) bool {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		decoded = segment
	}
	return decoded == "." || decoded == ".."
}

// Forward replays the inbound request against the backend. The caller owns
// the returned response body.
func (f *Forwarder) Forward(ctx context.Context, inbound *http.Request, path string) (*http.Response, error) {
	destination, err := f.DestinationURL(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "build destination", err)
	}
	if inbound.URL != nil && inbound.URL.RawQuery != "" {
		destination += "?" + inbound.URL.RawQuery
	}

	target, err := url.Parse(destination)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "parse destination", err)
	}

	req, err := http.NewRequestWithContext(ctx, inbound.Method, target.String(), inbound.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "build forward request", err)
	}
	req.Header = inbound.Header.Clone()
	req.ContentLength = inbound.ContentLength
	req.TransferEncoding = inbound.TransferEncoding
	if inbound.Body == nil || inbound.Body == http.NoBody {
		req.Body = http.NoBody
	}

	start := f.now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		metrics.ObserveForwardFailure()
		f.logger.Error("forward request failed", "method", inbound.Method, "destination", target.Redacted(), "error", err)
		return nil, apperrors.Wrap(apperrors.CodeUpstream, "backend unreachable", err)
	}
	elapsed := f.now().Sub(start)
	metrics.ObserveForward(inbound.Method, resp.StatusCode, elapsed)
	f.logger.Debug("forwarded", "method", inbound.Method, "destination", target.Redacted(), "status", resp.StatusCode, "latency_ms", elapsed.Milliseconds())
	return resp, nil
}

// ApplyCORS overwrites the CORS headers. Values already present, such as
// ones the backend set, are replaced rather than merged.
func (f *Forwarder) ApplyCORS(h http.Header) {
	h.Set("Access-Control-Allow-Origin", f.cfg.AllowOrigin)
	h.Set("Access-Control-Allow-Methods", f.cfg.AllowMethods)
	h.Set("Access-Control-Allow-Headers", f.cfg.AllowHeaders)
}
