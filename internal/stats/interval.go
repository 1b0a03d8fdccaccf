package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Interval is a two-sided confidence interval around a sample mean.
type Interval struct {
	Mean       float64 `json:"mean" yaml:"mean"`
	Lower      float64 `json:"lower" yaml:"lower"`
	Upper      float64 `json:"upper" yaml:"upper"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// TConfInt returns the Student t confidence interval for the mean of
// values: mean ± t(1-(1-c)/2, n-1) * s/sqrt(n).
func TConfInt(values []float64, confidence float64) (Interval, error) {
	if !(confidence > 0 && confidence < 1) {
		return Interval{}, ErrInvalidConfidence
	}
	n := len(values)
	if n < 2 {
		return Interval{}, ErrTooFewObservations
	}

	mean, std := stat.MeanStdDev(values, nil)
	se := std / math.Sqrt(float64(n))

	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}.Quantile(1 - (1-confidence)/2)
	half := t * se

	return Interval{
		Mean:       mean,
		Lower:      mean - half,
		Upper:      mean + half,
		Confidence: confidence,
	}, nil
}
