package monitoring

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

func TestMetricsRecordPredictions(t *testing.T) {
	m := NewMetrics()
	m.ObservePrediction("low", time.Millisecond)
	m.ObservePrediction("low", time.Millisecond)
	m.ObservePrediction("high", time.Millisecond)
	m.ObserveSchemaMismatch()
	m.SetModel(0.93, 120)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.predictions.WithLabelValues("low")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.predictions.WithLabelValues("high")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.schemaMismatches))
	assert.Equal(t, 0.93, testutil.ToFloat64(m.modelRSquared))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `healthrisk_predictions_total{level="low"} 2`), body)
	assert.Contains(t, body, "healthrisk_model_training_samples 120")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObservePrediction("low", time.Millisecond)
	m.ObserveSchemaMismatch()
	m.SetModel(1, 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestObservePredictionsRecordsLatencyOnce(t *testing.T) {
	m := NewMetrics()
	m.ObservePredictions([]string{"low", "high", "high"}, 3*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.predictions.WithLabelValues("low")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.predictions.WithLabelValues("high")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.latency))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "healthrisk_prediction_duration_seconds_count 1")
}
