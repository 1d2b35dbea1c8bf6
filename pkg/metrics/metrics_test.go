package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveForwardCountsByStatus(t *testing.T) {
	before := testutil.ToFloat64(forwardedTotal.WithLabelValues("GET", "204"))

	ObserveForward("GET", 204, 15*time.Millisecond)
	ObserveForward("GET", 204, 5*time.Millisecond)

	require.Equal(t, before+2, testutil.ToFloat64(forwardedTotal.WithLabelValues("GET", "204")))
}

func TestObserveRecommendationOutcome(t *testing.T) {
	before := testutil.ToFloat64(recommendationOutcomes.WithLabelValues("stale"))

	ObserveRecommendation("stale")

	require.Equal(t, before+1, testutil.ToFloat64(recommendationOutcomes.WithLabelValues("stale")))
}
