package telemetry

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Distribution
	}{
		{"empty slice", nil, Distribution{}},
		{"single element", []float64{5}, Distribution{Mean: 5, P10: 5, P50: 5, P90: 5}},
		{"constant", []float64{2, 2, 2, 2}, Distribution{Mean: 2, P10: 2, P50: 2, P90: 2}},
		{"one to ten", []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, Distribution{
			Mean: 5.5, Std: math.Sqrt(8.25), P10: 1, P50: 5, P90: 9,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.values)
			check := func(field string, got, want float64) {
				if math.Abs(got-want) > 1e-9 {
					t.Errorf("%s = %v, want %v", field, got, want)
				}
			}
			check("mean", got.Mean, tt.want.Mean)
			check("std", got.Std, tt.want.Std)
			check("p10", got.P10, tt.want.P10)
			check("p50", got.P50, tt.want.P50)
			check("p90", got.P90, tt.want.P90)
		})
	}
}

func TestSummarizeDoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Summarize(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input was modified: %v", values)
	}
}
