package model

import (
	"fmt"
	"math"
)

// Metrics holds hold-out evaluation results for a trained model.
type Metrics struct {
	MAE  float64
	RMSE float64
}

// Evaluate computes MAE and RMSE between actuals and predictions.
func Evaluate(actual, predicted []float64) (Metrics, error) {
	if len(actual) == 0 {
		return Metrics{}, fmt.Errorf("no values to evaluate")
	}
	if len(actual) != len(predicted) {
		return Metrics{}, fmt.Errorf("actual has %d values, predicted has %d", len(actual), len(predicted))
	}

	var absSum, sqSum float64
	for i := range actual {
		d := actual[i] - predicted[i]
		absSum += math.Abs(d)
		sqSum += d * d
	}
	n := float64(len(actual))
	return Metrics{
		MAE:  absSum / n,
		RMSE: math.Sqrt(sqSum / n),
	}, nil
}
