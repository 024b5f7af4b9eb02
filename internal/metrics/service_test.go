package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(reg)

	svc.IncMatchesProcessed()
	svc.IncFormationUpdates("swap")
	svc.IncFormationUpdates("swap")
	svc.IncMatchEvents("GOAL")

	assert.Equal(t, 1.0, testutil.ToFloat64(svc.MatchesProcessed))
	assert.Equal(t, 2.0, testutil.ToFloat64(svc.FormationUpdates.WithLabelValues("swap")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.MatchEvents.WithLabelValues("GOAL")))

	rr := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "touchline_formation_updates_total")
}
