package edge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/hiking-guide/pkg/errors"
)

func TestDestinationURL(t *testing.T) {
	f := NewForwarder(Config{APIBaseURL: "https://backend.example"}, newTestLogger())

	got, err := f.DestinationURL("foo/bar")
	require.NoError(t, err)
	require.Equal(t, "https://backend.example/api/foo/bar", got)

	got, err = f.DestinationURL("/trails")
	require.NoError(t, err)
	require.Equal(t, "https://backend.example/api/trails", got)
}

func TestDestinationURLTrimsTrailingSlashOnBase(t *testing.T) {
	f := NewForwarder(Config{APIBaseURL: "https://backend.example/"}, newTestLogger())

	got, err := f.DestinationURL("recommendation")
	require.NoError(t, err)
	require.Equal(t, "https://backend.example/api/recommendation", got)
}

func TestDestinationURLRejectsEmptyRemainder(t *testing.T) {
	f := NewForwarder(Config{}, newTestLogger())

	_, err := f.DestinationURL("/")
	require.ErrorIs(t, err, ErrEmptyPath)
}

func TestDestinationURLRejectsDotSegments(t *testing.T) {
	f := NewForwarder(Config{APIBaseURL: "https://backend.example"}, newTestLogger())

	for _, path := range []string{"..", "../admin", "%2e%2e/admin", "%2E%2e/admin", "trails/./x", "trails/%2e", "a/b/.."} {
		_, err := f.DestinationURL(path)
		require.ErrorIs(t, err, ErrDotSegment, path)
	}

	got, err := f.DestinationURL("trails/..hidden/v1.2")
	require.NoError(t, err)
	require.Equal(t, "https://backend.example/api/trails/..hidden/v1.2", got)
}

func TestForwardDotSegmentNeverReachesBackend(t *testing.T) {
	f := NewForwarder(Config{APIBaseURL: "https://backend.example"}, newTestLogger())
	f.httpClient.Transport = roundTripFunc(func(r *http.Request) (*http.Response, error) {
		t.Fatalf("unexpected backend call to %s", r.URL)
		return nil, nil
	})

	_, err := f.Forward(context.Background(), httptest.NewRequest(http.MethodGet, "/api/%2e%2e/admin", nil), "%2e%2e/admin")
	require.ErrorIs(t, err, ErrDotSegment)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestNewForwarderDefaults(t *testing.T) {
	f := NewForwarder(Config{}, newTestLogger())
	got, err := f.DestinationURL("trails")
	require.NoError(t, err)
	require.Equal(t, DefaultAPIBaseURL+"/api/trails", got)

	h := http.Header{}
	f.ApplyCORS(h)
	require.Equal(t, "https://hikingweatherguide.com", h.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", h.Get("Access-Control-Allow-Methods"))
	require.Equal(t, "Content-Type, Authorization", h.Get("Access-Control-Allow-Headers"))
}

func TestApplyCORSOverwritesExistingValues(t *testing.T) {
	f := NewForwarder(Config{}, newTestLogger())
	h := http.Header{}
	h.Add("Access-Control-Allow-Origin", "*")
	h.Add("Access-Control-Allow-Origin", "https://evil.example")
	h.Set("Access-Control-Allow-Methods", "GET")

	f.ApplyCORS(h)

	require.Equal(t, []string{"https://hikingweatherguide.com"}, h.Values("Access-Control-Allow-Origin"))
	require.Equal(t, []string{"GET, POST, PUT, DELETE, OPTIONS"}, h.Values("Access-Control-Allow-Methods"))
}

func TestForwardUsesExactDestinationAndVerbatimRequest(t *testing.T) {
	var captured *http.Request
	var body string
	f := NewForwarder(Config{APIBaseURL: "https://backend.example"}, newTestLogger())
	f.httpClient.Transport = roundTripFunc(func(r *http.Request) (*http.Response, error) {
		captured = r
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		body = string(data)
		return &http.Response{
			StatusCode: http.StatusCreated,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`{"ok":true}`)),
			Request:    r,
		}, nil
	})

	inbound := httptest.NewRequest(http.MethodPut, "https://hikingweatherguide.com/api/foo/bar", strings.NewReader(`{"a":1}`))
	inbound.Header.Set("Content-Type", "application/json")
	inbound.Header.Set("Authorization", "Bearer token")
	inbound.Header.Add("X-Custom", "one")
	inbound.Header.Add("X-Custom", "two")

	resp, err := f.Forward(context.Background(), inbound, "foo/bar")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "https://backend.example/api/foo/bar", captured.URL.String())
	require.Equal(t, http.MethodPut, captured.Method)
	require.Equal(t, "application/json", captured.Header.Get("Content-Type"))
	require.Equal(t, "Bearer token", captured.Header.Get("Authorization"))
	require.Equal(t, []string{"one", "two"}, captured.Header.Values("X-Custom"))
	require.Equal(t, `{"a":1}`, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestForwardKeepsQueryString(t *testing.T) {
	var captured string
	f := NewForwarder(Config{APIBaseURL: "https://backend.example"}, newTestLogger())
	f.httpClient.Transport = roundTripFunc(func(r *http.Request) (*http.Response, error) {
		captured = r.URL.String()
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Header: http.Header{}, Request: r}, nil
	})

	inbound := httptest.NewRequest(http.MethodGet, "/api/trails?difficulty=easy", nil)
	resp, err := f.Forward(context.Background(), inbound, "trails")
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, "https://backend.example/api/trails?difficulty=easy", captured)
}

func TestForwardDoesNotFollowRedirects(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/elsewhere", http.StatusFound)
	}))
	defer backend.Close()

	f := NewForwarder(Config{APIBaseURL: backend.URL}, newTestLogger())
	resp, err := f.Forward(context.Background(), httptest.NewRequest(http.MethodGet, "/api/old", nil), "old")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/api/elsewhere", resp.Header.Get("Location"))
}

func TestForwardTransportFailure(t *testing.T) {
	f := NewForwarder(Config{APIBaseURL: "https://backend.example"}, newTestLogger())
	f.httpClient.Transport = roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	})

	_, err := f.Forward(context.Background(), httptest.NewRequest(http.MethodGet, "/api/trails", nil), "trails")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstream))
}

func TestForwardEmptyPath(t *testing.T) {
	f := NewForwarder(Config{}, newTestLogger())

	_, err := f.Forward(context.Background(), httptest.NewRequest(http.MethodGet, "/api/", nil), "")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.ErrorIs(t, err, ErrEmptyPath)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return fn(r)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
