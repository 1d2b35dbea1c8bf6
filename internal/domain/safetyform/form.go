package safetyform

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/yanqian/hiking-guide/internal/domain/trail"
	"github.com/yanqian/hiking-guide/pkg/metrics"
)

// Default form inputs.
const (
	DefaultTrailID     = "108"
	DefaultDescription = "Planning to start at 2pm, hiking solo with a light pack; the sky looks a bit overcast."
)

// User facing messages. The underlying error is only logged.
const (
	SubmitErrorMessage = "query failed, please confirm the API service is healthy"
	TrailsErrorMessage = "trail list unavailable, you can still enter a trail id"
)

// TrailAPI is the backend surface the form depends on.
type TrailAPI interface {
	ListTrails(ctx context.Context) ([]trail.Trail, error)
	Recommend(ctx context.Context, req trail.RecommendationRequest) (trail.RecommendationResult, error)
}

// Config seeds the initial form inputs.
type Config struct {
	DefaultTrailID     string
	DefaultDescription string
}

// State is a point-in-time copy of the form.
type State struct {
	TrailID     string
	Trails      []trail.Option
	UserDesc    string
	Result      *trail.RecommendationResult
	Loading     bool
	Error       string
	TrailsError string
}

// Form holds the trail safety form state. It is safe for concurrent use;
// only the most recently issued submission may write its outcome.
type Form struct {
	api    TrailAPI
	logger *slog.Logger

	mu     sync.Mutex
	state  State
	seq    uint64
	mounts uint64
}

// NewForm constructs a form with default inputs filled in.
func NewForm(cfg Config, api TrailAPI, logger *slog.Logger) *Form {
	trailID := strings.TrimSpace(cfg.DefaultTrailID)
	if trailID == "" {
		trailID = DefaultTrailID
	}
	desc := cfg.DefaultDescription
	if strings.TrimSpace(desc) == "" {
		desc = DefaultDescription
	}
	return &Form{
		api:    api,
		logger: logger.With("component", "safetyform"),
		state: State{
			TrailID:  trailID,
			UserDesc: desc,
		},
	}
}

// Mount loads the trail selector options. A failure leaves the options
// empty and raises a banner; submission stays available.
func (f *Form) Mount(ctx context.Context) {
	f.mu.Lock()
	f.mounts++
	token := f.mounts
	f.mu.Unlock()

	trails, err := f.api.ListTrails(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if token != f.mounts {
		return
	}
	if err != nil {
		f.logger.Error("list trails failed", "error", err)
		f.state.Trails = nil
		f.state.TrailsError = TrailsErrorMessage
		return
	}
	f.state.Trails = trail.ToOptions(trails)
	f.state.TrailsError = ""
}

// SetTrailID updates the selected or typed trail identifier.
func (f *Form) SetTrailID(id string) {
	f.mu.Lock()
	f.state.TrailID = id
	f.mu.Unlock()
}

// SetUserDesc updates the free-text hike description.
func (f *Form) SetUserDesc(desc string) {
	f.mu.Lock()
	f.state.UserDesc = desc
	f.mu.Unlock()
}

// Submit posts the current inputs to the recommendation endpoint and
// records the outcome. It reports whether this call's outcome was applied;
// false means a newer submission superseded it.
func (f *Form) Submit(ctx context.Context) bool {
	f.mu.Lock()
	f.seq++
	token := f.seq
	f.state.Loading = true
	f.state.Error = ""
	f.state.Result = nil
	req := trail.RecommendationRequest{
		TrailID:      f.state.TrailID,
		UserPathDesc: f.state.UserDesc,
	}
	f.mu.Unlock()

	result, err := f.api.Recommend(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if token != f.seq {
		f.logger.Debug("discarding stale recommendation", "token", token, "latest", f.seq)
		metrics.ObserveRecommendation("stale")
		return false
	}
	f.state.Loading = false
	if err != nil {
		f.logger.Error("recommendation failed", "trail_id", req.TrailID, "error", err)
		f.state.Error = SubmitErrorMessage
		metrics.ObserveRecommendation("failure")
		return true
	}
	f.state.Result = &result
	metrics.ObserveRecommendation("success")
	return true
}

// CanSubmit reports whether the submit control is enabled.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.state.Loading
}

// Snapshot returns a copy of the current state.
func (f *Form) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.state
	if f.state.Trails != nil {
		out.Trails = append([]trail.Option(nil), f.state.Trails...)
	}
	if f.state.Result != nil {
		res := *f.state.Result
		out.Result = &res
	}
	return out
}
