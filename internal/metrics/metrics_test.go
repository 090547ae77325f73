package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordInbound(t *testing.T) {
	m := New("kitroom")

	m.RecordInbound("양말", 5, false)
	m.RecordInbound("양말", 3, true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.InboundTotal.WithLabelValues("양말")))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.InboundUnits.WithLabelValues("양말")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StockLinesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StockLinesMerged))
}

func TestRecordDistribution(t *testing.T) {
	m := New("kitroom")

	m.RecordDistribution("player", 2)
	m.RecordInsufficientStock("신발")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DistributionsTotal.WithLabelValues("player")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DistributedUnits.WithLabelValues("player")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InsufficientStock.WithLabelValues("신발")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordInbound("양말", 1, false)
		m.RecordDistribution("staff", 1)
		m.RecordInsufficientStock("양말")
		m.RecordHTTPRequest("GET", "GET /stock", 200, time.Millisecond)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New("kitroom")
	m.RecordHTTPRequest("GET", "GET /stock", 200, 5*time.Millisecond)
	m.RecordHTTPRequest("GET", "", 404, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `kitroom_http_requests_total{method="GET",path="GET /stock",status="200"} 1`))
	assert.True(t, strings.Contains(body, `path="unmatched"`))
}
