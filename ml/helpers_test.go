package ml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var scenarioColumns = []string{"Age", "BMI", "BloodPressure", "Cholesterol", "Glucose", "Smoking", "RiskScore"}

var scenarioPatients = [][]float64{
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

// scenarioRisk is the exact linear relation behind the scenario rows.
func scenarioRisk(p []float64) float64 {
	return 0.5*p[0] + 0.4*p[1] + 0.1*p[2] + 0.05*p[3] + 0.1*p[4] + 8.5*p[5] - 17
}

// scenarioDataset returns the patients with their risk score. noise is added
// to the target with alternating sign.
func scenarioDataset(t *testing.T, noise float64) *Dataset {
	t.Helper()
	rows := make([][]float64, len(scenarioPatients))
	for i, p := range scenarioPatients {
		sign := 1.0
		if i%2 == 1 {
			sign = -1
		}
		rows[i] = append(append([]float64(nil), p...), scenarioRisk(p)+sign*noise*float64(i%3))
	}
	ds, err := NewDataset(scenarioColumns, rows)
	require.NoError(t, err)
	return ds
}
