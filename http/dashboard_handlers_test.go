package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardPage(t *testing.T) {
	s, _ := newTestServer(t)
	rr := do(t, s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))

	body := rr.Body.String()
	assert.Contains(t, body, "Healthcare Risk Score Prediction")
	assert.Contains(t, body, `name="BloodPressure"`)
	assert.Contains(t, body, `type="radio" name="Smoking"`)
	assert.Contains(t, body, "10 of 10 rows")
	assert.Contains(t, body, "<th>RiskScore</th>")
	assert.Contains(t, body, `src="/static/dashboard.js"`)
}

func TestDashboardUnknownPath(t *testing.T) {
	s, _ := newTestServer(t)
	rr := do(t, s, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDashboardStaticAssets(t *testing.T) {
	s, _ := newTestServer(t)

	rr := do(t, s, http.MethodGet, "/static/dashboard.js", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/api/ws/predict")

	rr = do(t, s, http.MethodGet, "/static/dashboard.css", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}
