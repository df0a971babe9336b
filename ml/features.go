package ml

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// TargetColumn is the outcome column the model is fit to predict.
const TargetColumn = "RiskScore"

// PatientQuery is one patient row in the training feature order.
type PatientQuery struct {
	Age           float64 `json:"age"`
	BMI           float64 `json:"bmi"`
	BloodPressure float64 `json:"blood_pressure"`
	Cholesterol   float64 `json:"cholesterol"`
	Glucose       float64 `json:"glucose"`
	Smoking       float64 `json:"smoking"`
}

// FeatureRange documents the expected input range of a feature. Ranges are
// informational and never enforced by the predictor.
type FeatureRange struct {
	Name    string  `json:"name"`
	Label   string  `json:"label"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Default float64 `json:"default"`
	Binary  bool    `json:"binary,omitempty"`
}

func FeatureNames() []string {
	return []string{
		"Age",
		"BMI",
		"BloodPressure",
		"Cholesterol",
		"Glucose",
		"Smoking",
	}
}

func FeatureRanges() []FeatureRange {
	return []FeatureRange{
		{Name: "Age", Label: "Age (years)", Min: 18, Max: 80, Step: 1, Default: 40},
		{Name: "BMI", Label: "BMI", Min: 15, Max: 40, Step: 0.1, Default: 25},
		{Name: "BloodPressure", Label: "Blood Pressure (mmHg)", Min: 90, Max: 180, Step: 1, Default: 120},
		{Name: "Cholesterol", Label: "Cholesterol (mg/dL)", Min: 150, Max: 300, Step: 1, Default: 200},
		{Name: "Glucose", Label: "Glucose Level (mg/dL)", Min: 70, Max: 200, Step: 1, Default: 100},
		{Name: "Smoking", Label: "Smoking Habit", Min: 0, Max: 1, Step: 1, Default: 0, Binary: true},
	}
}

// DefaultPatient returns the query the dashboard starts from.
func DefaultPatient() PatientQuery {
	defaults := make(map[string]float64)
	for _, r := range FeatureRanges() {
		defaults[r.Name] = r.Default
	}
	return PatientQuery{
		Age:           defaults["Age"],
		BMI:           defaults["BMI"],
		BloodPressure: defaults["BloodPressure"],
		Cholesterol:   defaults["Cholesterol"],
		Glucose:       defaults["Glucose"],
		Smoking:       defaults["Smoking"],
	}
}

func FeatureVector(q PatientQuery) []float64 {
	return []float64{
		q.Age,
		q.BMI,
		q.BloodPressure,
		q.Cholesterol,
		q.Glucose,
		q.Smoking,
	}
}

// Frame returns q as a single-row frame with the canonical column order.
func (q PatientQuery) Frame() *Frame {
	return &Frame{
		Columns: FeatureNames(),
		Rows:    [][]float64{FeatureVector(q)},
	}
}

// Warnings lists inputs outside their documented range.
func (q PatientQuery) Warnings() []string {
	var warnings []string
	values := FeatureVector(q)
	for i, r := range FeatureRanges() {
		v := values[i]
		if r.Binary {
			if v != 0 && v != 1 {
				warnings = append(warnings, fmt.Sprintf("%s should be 0 or 1, got %g", r.Name, v))
			}
			continue
		}
		if v < r.Min || v > r.Max {
			warnings = append(warnings, fmt.Sprintf("%s %g is outside the typical range %g-%g", r.Name, v, r.Min, r.Max))
		}
	}
	if q.BMI < 10 || q.BMI > 60 {
		warnings = append(warnings, "BMI value looks unusual. Please verify.")
	}
	return warnings
}

type patientPayload struct {
	Age           *float64 `json:"age"`
	BMI           *float64 `json:"bmi"`
	BloodPressure *float64 `json:"blood_pressure"`
	Cholesterol   *float64 `json:"cholesterol"`
	Glucose       *float64 `json:"glucose"`
	Smoking       *float64 `json:"smoking"`
}

// ParsePatientQuery decodes a JSON patient. Missing or unknown fields are
// reported as ErrSchemaMismatch; malformed JSON is returned as is.
func ParsePatientQuery(data []byte) (PatientQuery, error) {
	var payload patientPayload
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		if strings.HasPrefix(err.Error(), "json: unknown field ") {
			return PatientQuery{}, fmt.Errorf("%w: %s", ErrSchemaMismatch, strings.TrimPrefix(err.Error(), "json: "))
		}
		return PatientQuery{}, fmt.Errorf("invalid patient payload: %w", err)
	}

	fields := map[string]*float64{
		"age":            payload.Age,
		"bmi":            payload.BMI,
		"blood_pressure": payload.BloodPressure,
		"cholesterol":    payload.Cholesterol,
		"glucose":        payload.Glucose,
		"smoking":        payload.Smoking,
	}
	var missing []string
	for _, key := range []string{"age", "bmi", "blood_pressure", "cholesterol", "glucose", "smoking"} {
		if fields[key] == nil {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return PatientQuery{}, fmt.Errorf("%w: missing fields %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}

	return PatientQuery{
		Age:           *payload.Age,
		BMI:           *payload.BMI,
		BloodPressure: *payload.BloodPressure,
		Cholesterol:   *payload.Cholesterol,
		Glucose:       *payload.Glucose,
		Smoking:       *payload.Smoking,
	}, nil
}
