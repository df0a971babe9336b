package ml

// RiskModel is the read side of a fitted model used by the presentation layer.
type RiskModel interface {
	Features() []string
	Predict(frame *Frame) ([]float64, error)
	Intercept() float64
	Coefficients() map[string]float64
	Impacts() []Impact
	Diagnostics() Diagnostics
}

// Impact is one coefficient bar in the feature importance chart.
type Impact struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// Diagnostics describes how well the model fits its training data.
type Diagnostics struct {
	Samples     int     `json:"samples"`
	RSquared    float64 `json:"r_squared"`
	RMSE        float64 `json:"rmse"`
	MaxResidual float64 `json:"max_residual"`
}
