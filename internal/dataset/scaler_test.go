package dataset

import (
	"math"
	"testing"
)

func TestStandardScalerFitTransform(t *testing.T) {
	train := [][]float64{
		{1, 10},
		{3, 30},
		{5, 50},
	}

	var scaler StandardScaler
	scaled, err := scaler.FitTransform(train)
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	if scaler.Mean[0] != 3 || scaler.Mean[1] != 30 {
		t.Errorf("fitted mean = %v, want [3 30]", scaler.Mean)
	}

	// Each scaled column must be centered on zero.
	for j := 0; j < 2; j++ {
		var sum float64
		for _, row := range scaled {
			sum += row[j]
		}
		if math.Abs(sum) > 1e-9 {
			t.Errorf("column %d sum = %v, want 0", j, sum)
		}
	}
}

// The scaler is fitted on the training partition only; transforming the test
// partition must not change the fitted parameters.
func TestStandardScalerNoLeakage(t *testing.T) {
	train := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	test := [][]float64{{100, 200}, {300, 400}}

	var scaler StandardScaler
	if err := scaler.Fit(train); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	meanBefore := append([]float64(nil), scaler.Mean...)
	stdBefore := append([]float64(nil), scaler.Std...)

	if _, err := scaler.Transform(test); err != nil {
		t.Fatalf("Transform: %v", err)
	}

	for j := range meanBefore {
		if scaler.Mean[j] != meanBefore[j] || scaler.Std[j] != stdBefore[j] {
			t.Fatalf("fitted parameters changed after transforming test data")
		}
	}
}

func TestStandardScalerConstantColumn(t *testing.T) {
	train := [][]float64{{7, 1}, {7, 2}, {7, 3}}

	var scaler StandardScaler
	scaled, err := scaler.FitTransform(train)
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	for _, row := range scaled {
		if math.IsNaN(row[0]) || math.IsInf(row[0], 0) {
			t.Fatalf("constant column produced %v", row[0])
		}
	}
}

func TestStandardScalerErrors(t *testing.T) {
	var scaler StandardScaler

	if _, err := scaler.Transform([][]float64{{1}}); err == nil {
		t.Error("expected error from unfitted scaler")
	}

	if err := scaler.Fit(nil); err == nil {
		t.Error("expected error from fitting empty data")
	}
}
