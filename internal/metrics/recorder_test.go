package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	r := NewPrometheusRecorder()
	r.ObserveRequest("gemini-2.5-flash", "structured", true, "", 120*time.Millisecond)
	r.ObserveRequest("gemini-2.5-flash", "structured", false, "malformed", 80*time.Millisecond)
	r.ObserveRequest("gemini-2.5-flash", "structured", true, "", 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.requestsTotal.WithLabelValues("gemini-2.5-flash", "structured", "success", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requestsTotal.WithLabelValues("gemini-2.5-flash", "structured", "error", "malformed")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.requestDuration))
}

func TestTokensHistoryAndRefresh(t *testing.T) {
	r := NewPrometheusRecorder()
	r.ObserveTokens("m", "text", 10, 4)
	r.IncHistory("push")
	r.IncHistory("push")
	r.IncRefresh("skipped")

	assert.Equal(t, 10.0, testutil.ToFloat64(r.tokensTotal.WithLabelValues("m", "text", "prompt")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.tokensTotal.WithLabelValues("m", "text", "completion")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.historyTotal.WithLabelValues("push")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.refreshTotal.WithLabelValues("skipped")))
}

func TestRecordersAreIsolated(t *testing.T) {
	a := NewPrometheusRecorder()
	b := NewPrometheusRecorder()
	a.IncHistory("undo")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.historyTotal.WithLabelValues("undo")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewPrometheusRecorder()
	r.IncHistory("redo")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `persona_history_actions_total{action="redo"} 1`))
}

func TestNopSatisfiesRecorder(t *testing.T) {
	var rec Recorder = Nop{}
	rec.ObserveRequest("m", "op", true, "", time.Second)
	rec.IncHistory("push")
}
