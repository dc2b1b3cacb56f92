package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveAnalysis(t *testing.T) {
	m := New()
	m.ObserveAnalysis("proportion", "ok", 3*time.Millisecond)
	m.ObserveAnalysis("proportion", "ok", time.Millisecond)
	m.ObserveAnalysis("mean", "NO_USABLE_DATA", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.analysesTotal.WithLabelValues("proportion", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analysesTotal.WithLabelValues("mean", "NO_USABLE_DATA")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.analysisDuration))
}

func TestObserveAdvisory(t *testing.T) {
	m := New()
	m.ObserveAdvisory("INSUFFICIENT_GROUP_SIZE")
	m.ObserveAdvisory("INSUFFICIENT_GROUP_SIZE")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.advisoriesTotal.WithLabelValues("INSUFFICIENT_GROUP_SIZE")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/inference", "GET", 200, 10*time.Millisecond)
	m.ObserveRequest("", "GET", 404, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `bankinfer_http_request_duration_seconds_count{method="GET",route="/api/inference",status="200"} 1`)
	assert.Contains(t, string(body), `route="unmatched"`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestServersDoNotShareRegistries(t *testing.T) {
	a, b := New(), New()
	a.ObserveAdvisory("NO_USABLE_DATA")

	assert.Equal(t, 0.0, testutil.ToFloat64(b.advisoriesTotal.WithLabelValues("NO_USABLE_DATA")))
}
