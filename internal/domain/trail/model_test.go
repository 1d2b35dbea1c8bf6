package trail

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToOptionsPreservesOrder(t *testing.T) {
	trails := []Trail{
		{ID: 108, Name: "Qixing Mountain", Location: "Taipei", Difficulty: "moderate", ReviewCount: 12},
		{ID: 7, Name: "Elephant Mountain", Location: "Taipei", Difficulty: "easy", ReviewCount: 40},
		{ID: 2001, Name: "Jiaming Lake", Location: "Taitung", Difficulty: "hard"},
	}

	options := ToOptions(trails)

	require.Equal(t, []Option{
		{Value: "108", Label: "Qixing Mountain"},
		{Value: "7", Label: "Elephant Mountain"},
		{Value: "2001", Label: "Jiaming Lake"},
	}, options)
}

func TestToOptionsEmpty(t *testing.T) {
	require.Empty(t, ToOptions(nil))
}

func TestRecommendationResultDecode(t *testing.T) {
	var res RecommendationResult
	require.NoError(t, json.Unmarshal([]byte(`{"safety_score":4,"recommendation":"go","reasoning":"clear skies"}`), &res))
	require.Equal(t, RecommendationResult{SafetyScore: 4, Recommendation: "go", Reasoning: "clear skies"}, res)
}

func TestRecommendationResultDecodeLegacyMessage(t *testing.T) {
	var res RecommendationResult
	require.NoError(t, json.Unmarshal([]byte(`{"safety_score":72,"message":"carry a rain shell"}`), &res))
	require.Equal(t, 72.0, res.SafetyScore)
	require.Equal(t, "carry a rain shell", res.Recommendation)
	require.Empty(t, res.Reasoning)
}

func TestRecommendationRequestWireNames(t *testing.T) {
	payload, err := json.Marshal(RecommendationRequest{TrailID: "108", UserPathDesc: "test"})
	require.NoError(t, err)
	require.JSONEq(t, `{"trail_id":"108","user_path_desc":"test"}`, string(payload))
}
