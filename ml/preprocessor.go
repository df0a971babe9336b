package ml

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnStats summarises one dataset column.
type ColumnStats struct {
	Name   string  `json:"name"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Summary computes per-column statistics in column order.
func (d *Dataset) Summary() []ColumnStats {
	summary := make([]ColumnStats, len(d.columns))
	for i, name := range d.columns {
		values, _ := d.Column(name)
		summary[i] = columnStats(name, values)
	}
	return summary
}

func columnStats(name string, values []float64) ColumnStats {
	stats := ColumnStats{Name: name, Count: len(values)}
	if len(values) == 0 {
		return stats
	}
	stats.Min = floats.Min(values)
	stats.Max = floats.Max(values)
	stats.Mean, stats.StdDev = stat.MeanStdDev(values, nil)
	if math.IsNaN(stats.StdDev) {
		stats.StdDev = 0
	}
	return stats
}
