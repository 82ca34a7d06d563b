package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetricsHandler(t *testing.T) {
	RecordDecision("TRIP", "APPROVE")
	RecordSweep("bonus_reset", 2)
	RecordSweep("project_expired", 0)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	body := w.Body.String()
	require.Contains(t, body, "# HELP")
	require.Contains(t, body, `trip_approval_decisions_total{decision="APPROVE",kind="TRIP"} 1`)
	require.Contains(t, body, `trip_approval_sweep_items_total{item="bonus_reset"} 2`)
	require.NotContains(t, body, `item="project_expired"`)
}
