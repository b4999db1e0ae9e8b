package training

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// RSquared is the coefficient of determination of predictions against the
// observed values.
func RSquared(observed, predicted []float64) float64 {
	return stat.RSquaredFrom(predicted, observed, nil)
}

// RMSE is the root mean squared error.
func RMSE(observed, predicted []float64) float64 {
	if len(observed) == 0 {
		return 0
	}
	sum := 0.0
	for i := range observed {
		d := observed[i] - predicted[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(observed)))
}

// MAE is the mean absolute error.
func MAE(observed, predicted []float64) float64 {
	if len(observed) == 0 {
		return 0
	}
	sum := 0.0
	for i := range observed {
		sum += math.Abs(observed[i] - predicted[i])
	}
	return sum / float64(len(observed))
}
