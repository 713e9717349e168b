package features

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Scaler standardizes feature columns to zero mean and unit variance. Fitted
// parameters are exported so the scaler round-trips through the artifact
// bundle; serving must use the exact parameters fitted at training time.
type Scaler struct {
	Mean []float64
	Std  []float64
}

// FitScaler computes per-column mean and standard deviation.
func FitScaler(x *mat.Dense) (*Scaler, error) {
	rows, cols := x.Dims()
	if rows < 2 {
		return nil, errors.New("need at least two rows to fit scaler")
	}

	s := &Scaler{
		Mean: make([]float64, cols),
		Std:  make([]float64, cols),
	}
	for c := 0; c < cols; c++ {
		sum := 0.0
		for r := 0; r < rows; r++ {
			sum += x.At(r, c)
		}
		mean := sum / float64(rows)

		sq := 0.0
		for r := 0; r < rows; r++ {
			d := x.At(r, c) - mean
			sq += d * d
		}
		std := math.Sqrt(sq / float64(rows))
		if std == 0 {
			// Constant column: transform maps it to zero.
			std = 1
		}

		s.Mean[c] = mean
		s.Std[c] = std
	}
	return s, nil
}

// Dim returns the feature cardinality the scaler was fitted on.
func (s *Scaler) Dim() int { return len(s.Mean) }

// Transform standardizes a matrix. The column count must match the fitted
// dimension; a mismatch means the scaler and the model disagree about the
// feature layout.
func (s *Scaler) Transform(x *mat.Dense) (*mat.Dense, error) {
	rows, cols := x.Dims()
	if cols != s.Dim() {
		return nil, fmt.Errorf("scaler fitted on %d features, got %d", s.Dim(), cols)
	}

	out := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out.Set(r, c, (x.At(r, c)-s.Mean[c])/s.Std[c])
		}
	}
	return out, nil
}
