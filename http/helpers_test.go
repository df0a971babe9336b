package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"healthrisk/ml"
	"healthrisk/monitoring"
)

var testColumns = []string{"Age", "BMI", "BloodPressure", "Cholesterol", "Glucose", "Smoking", "RiskScore"}

var testPatients = [][]float64{
	{40, 25, 120, 200, 100, 0},
	{60, 30, 140, 250, 150, 1},
	{25, 22, 110, 180, 85, 0},
	{70, 35, 160, 280, 180, 1},
	{50, 28, 130, 220, 120, 0},
	{33, 19, 100, 160, 75, 1},
	{45, 32, 150, 240, 95, 0},
	{58, 24, 125, 190, 160, 1},
	{29, 38, 170, 265, 140, 0},
	{66, 21, 95, 155, 72, 1},
}

func testRisk(p []float64) float64 {
	return 0.5*p[0] + 0.4*p[1] + 0.1*p[2] + 0.05*p[3] + 0.1*p[4] + 8.5*p[5] - 17
}

func newTestPipeline(t *testing.T) *ml.Pipeline {
	t.Helper()
	rows := make([][]float64, len(testPatients))
	for i, p := range testPatients {
		rows[i] = append(append([]float64(nil), p...), testRisk(p))
	}
	ds, err := ml.NewDataset(testColumns, rows)
	require.NoError(t, err)
	model, err := ml.Train(ds)
	require.NoError(t, err)
	pipeline, err := ml.NewPipelineFromModel(ds, model, ml.PipelineConfig{CacheSize: 16}, nil)
	require.NoError(t, err)
	return pipeline
}

func newTestServer(t *testing.T) (*Server, *monitoring.Metrics) {
	t.Helper()
	metrics := monitoring.NewMetrics()
	return NewServer(DefaultServerConfig(), newTestPipeline(t), metrics, nil), metrics
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}
