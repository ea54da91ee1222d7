package dataset

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler centers each feature column on its mean and scales it to
// unit variance. The fitted parameters must come from the training partition
// only; Transform never updates them.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

func (s *StandardScaler) Fit(x [][]float64) error {
	if len(x) == 0 || len(x[0]) == 0 {
		return fmt.Errorf("cannot fit scaler on empty data")
	}

	cols := len(x[0])
	s.Mean = make([]float64, cols)
	s.Std = make([]float64, cols)

	col := make([]float64, len(x))
	for j := 0; j < cols; j++ {
		for i, row := range x {
			if len(row) != cols {
				return fmt.Errorf("row %d has %d columns, expected %d", i, len(row), cols)
			}
			col[i] = row[j]
		}

		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			// Constant column; leave it centered but unscaled.
			std = 1
		}

		s.Mean[j] = mean
		s.Std[j] = std
	}

	return nil
}

func (s *StandardScaler) Transform(x [][]float64) ([][]float64, error) {
	if s.Mean == nil {
		return nil, fmt.Errorf("scaler is not fitted")
	}

	out := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != len(s.Mean) {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i, len(row), len(s.Mean))
		}

		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Std[j]
		}
		out[i] = scaled
	}

	return out, nil
}

func (s *StandardScaler) FitTransform(x [][]float64) ([][]float64, error) {
	if err := s.Fit(x); err != nil {
		return nil, err
	}

	return s.Transform(x)
}
