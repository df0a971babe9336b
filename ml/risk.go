package ml

import "math"

// RiskLevel buckets a risk score for display.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

const (
	moderateThreshold = 50
	highThreshold     = 70
)

// Classify buckets score as Low (<50), Moderate (50-70) or High (>=70).
func Classify(score float64) RiskLevel {
	switch {
	case score < moderateThreshold:
		return RiskLow
	case score < highThreshold:
		return RiskModerate
	default:
		return RiskHigh
	}
}

func (l RiskLevel) Label() string {
	switch l {
	case RiskLow:
		return "Low Health Risk"
	case RiskModerate:
		return "Moderate Health Risk"
	case RiskHigh:
		return "High Health Risk"
	default:
		return "Unknown"
	}
}

// Progress maps score onto the 0-100 indicator. The score itself is unbounded;
// only the indicator is clamped.
func Progress(score float64) int {
	switch {
	case math.IsNaN(score) || score <= 0:
		return 0
	case score >= 100:
		return 100
	default:
		return int(score)
	}
}

// Prediction is the result shown for one patient.
type Prediction struct {
	Score    float64   `json:"score"`
	Level    RiskLevel `json:"level"`
	Label    string    `json:"label"`
	Progress int       `json:"progress"`
	Warnings []string  `json:"warnings,omitempty"`
}

func NewPrediction(score float64) Prediction {
	level := Classify(score)
	return Prediction{
		Score:    score,
		Level:    level,
		Label:    level.Label(),
		Progress: Progress(score),
	}
}

// clone copies p so callers never share its Warnings slice.
func (p Prediction) clone() Prediction {
	p.Warnings = append([]string(nil), p.Warnings...)
	return p
}
