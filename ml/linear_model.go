package ml

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// LinearModel is an ordinary least squares fit: one weight per feature plus
// an intercept. It is immutable once built.
type LinearModel struct {
	features  []string
	coef      []float64
	weights   map[string]float64
	intercept float64
	diag      Diagnostics
}

// Train fits a model predicting TargetColumn from every other column of ds.
func Train(ds *Dataset) (*LinearModel, error) {
	return TrainWithTarget(ds, TargetColumn)
}

func TrainWithTarget(ds *Dataset, target string) (*LinearModel, error) {
	x, y, features, err := BuildTrainingSet(ds, target)
	if err != nil {
		return nil, err
	}
	beta, err := solveLeastSquares(x, y)
	if err != nil {
		return nil, err
	}

	coef := make([]float64, len(features))
	for i := range coef {
		coef[i] = beta.AtVec(i + 1)
	}
	model, err := NewLinearModel(features, coef, beta.AtVec(0))
	if err != nil {
		return nil, err
	}
	model.diag = fitDiagnostics(x, y, beta)
	return model, nil
}

// NewLinearModel builds a model from known weights.
func NewLinearModel(features []string, coef []float64, intercept float64) (*LinearModel, error) {
	if len(features) != len(coef) {
		return nil, fmt.Errorf("%w: %d features but %d coefficients", ErrTraining, len(features), len(coef))
	}
	weights := make(map[string]float64, len(features))
	for i, name := range features {
		if _, dup := weights[name]; dup {
			return nil, fmt.Errorf("%w: duplicate feature %q", ErrTraining, name)
		}
		weights[name] = coef[i]
	}
	return &LinearModel{
		features:  append([]string(nil), features...),
		coef:      append([]float64(nil), coef...),
		weights:   weights,
		intercept: intercept,
	}, nil
}

func fitDiagnostics(x *mat.Dense, y, beta *mat.VecDense) Diagnostics {
	n := y.Len()
	var fitted mat.VecDense
	fitted.MulVec(x, beta)

	estimates := make([]float64, n)
	values := make([]float64, n)
	var sumSquares, maxResidual float64
	for i := 0; i < n; i++ {
		estimates[i] = fitted.AtVec(i)
		values[i] = y.AtVec(i)
		residual := values[i] - estimates[i]
		sumSquares += residual * residual
		maxResidual = math.Max(maxResidual, math.Abs(residual))
	}

	r2 := stat.RSquaredFrom(estimates, values, nil)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		r2 = 0
	}
	return Diagnostics{
		Samples:     n,
		RSquared:    r2,
		RMSE:        math.Sqrt(sumSquares / float64(n)),
		MaxResidual: maxResidual,
	}
}

// Predict scores every row of frame. The frame columns must equal Features()
// in name, count and order. Rows whose score is not finite are rejected.
func (m *LinearModel) Predict(frame *Frame) ([]float64, error) {
	if frame == nil {
		return nil, fmt.Errorf("%w: no input", ErrSchemaMismatch)
	}
	if err := m.checkSchema(frame.Columns); err != nil {
		return nil, err
	}
	scores := make([]float64, len(frame.Rows))
	for i, row := range frame.Rows {
		if len(row) != len(m.coef) {
			return nil, fmt.Errorf("%w: row %d has %d values, expected %d", ErrSchemaMismatch, i+1, len(row), len(m.coef))
		}
		score := m.intercept + floats.Dot(m.coef, row)
		if math.IsNaN(score) || math.IsInf(score, 0) {
			return nil, fmt.Errorf("%w: row %d produces a non-finite score", ErrSchemaMismatch, i+1)
		}
		scores[i] = score
	}
	return scores, nil
}

// PredictPatient scores a single patient.
func (m *LinearModel) PredictPatient(q PatientQuery) (float64, error) {
	scores, err := m.Predict(q.Frame())
	if err != nil {
		return 0, err
	}
	return scores[0], nil
}

func (m *LinearModel) checkSchema(columns []string) error {
	if len(columns) != len(m.features) {
		return fmt.Errorf("%w: expected %d columns %v, got %d %v", ErrSchemaMismatch, len(m.features), m.features, len(columns), columns)
	}
	for i, name := range columns {
		if name == m.features[i] {
			continue
		}
		if _, known := m.weights[name]; known {
			return fmt.Errorf("%w: column %q at position %d, expected %q", ErrSchemaMismatch, name, i+1, m.features[i])
		}
		return fmt.Errorf("%w: unknown column %q, expected %q", ErrSchemaMismatch, name, m.features[i])
	}
	return nil
}

func (m *LinearModel) Features() []string {
	return append([]string(nil), m.features...)
}

func (m *LinearModel) Intercept() float64 {
	return m.intercept
}

func (m *LinearModel) Coefficient(name string) (float64, bool) {
	w, ok := m.weights[name]
	return w, ok
}

// Coefficients returns a copy of the feature name to weight mapping.
func (m *LinearModel) Coefficients() map[string]float64 {
	out := make(map[string]float64, len(m.weights))
	for k, v := range m.weights {
		out[k] = v
	}
	return out
}

// Impacts returns the coefficients sorted by ascending weight.
func (m *LinearModel) Impacts() []Impact {
	impacts := make([]Impact, len(m.features))
	for i, name := range m.features {
		impacts[i] = Impact{Feature: name, Weight: m.coef[i]}
	}
	sort.SliceStable(impacts, func(i, j int) bool {
		return impacts[i].Weight < impacts[j].Weight
	})
	return impacts
}

func (m *LinearModel) Diagnostics() Diagnostics {
	return m.diag
}
