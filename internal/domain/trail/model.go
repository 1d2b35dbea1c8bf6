package trail

import (
	"encoding/json"
	"strconv"
)

// Trail is a hiking route as listed by the backend.
type Trail struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Difficulty  string `json:"difficulty"`
	ReviewCount int    `json:"review_count"`
}

// Option is a selector entry derived from a Trail.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ToOptions maps trails to selector options, preserving order.
func ToOptions(trails []Trail) []Option {
	options := make([]Option, 0, len(trails))
	for _, t := range trails {
		options = append(options, Option{Value: strconv.Itoa(t.ID), Label: t.Name})
	}
	return options
}

// RecommendationRequest is posted to the recommendation endpoint.
type RecommendationRequest struct {
	TrailID      string `json:"trail_id"`
	UserPathDesc string `json:"user_path_desc"`
}

// RecommendationResult is the backend's safety verdict for a described hike.
type RecommendationResult struct {
	SafetyScore    float64 `json:"safety_score"`
	Recommendation string  `json:"recommendation"`
	Reasoning      string  `json:"reasoning"`
}

// UnmarshalJSON accepts the legacy {safety_score, message} payload and
// folds message into Recommendation.
func (r *RecommendationResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		SafetyScore    float64 `json:"safety_score"`
		Recommendation string  `json:"recommendation"`
		Reasoning      string  `json:"reasoning"`
		Message        string  `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.SafetyScore = raw.SafetyScore
	r.Recommendation = raw.Recommendation
	r.Reasoning = raw.Reasoning
	if r.Recommendation == "" {
		r.Recommendation = raw.Message
	}
	return nil
}
