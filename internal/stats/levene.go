package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Levene tests H0: all groups have equal variances. Deviations are
// taken from each group's median (the Brown-Forsythe variant).
func Levene(groups ...[]float64) (TestResult, error) {
	res := TestResult{Name: "Levene"}

	k := len(groups)
	if k < 2 {
		return res, fmt.Errorf("%w: levene needs at least 2 groups, got %d", ErrTooFewObservations, k)
	}

	deviations := make([][]float64, k)
	means := make([]float64, k)
	var total int
	var grand float64
	for i, g := range groups {
		if len(g) < 2 {
			return res, fmt.Errorf("%w: levene group %d has %d values", ErrTooFewObservations, i, len(g))
		}
		med := Median(g)
		d := make([]float64, len(g))
		for j, v := range g {
			d[j] = math.Abs(v - med)
		}
		deviations[i] = d
		means[i] = stat.Mean(d, nil)
		total += len(d)
		for _, v := range d {
			grand += v
		}
	}
	grand /= float64(total)

	var between, within float64
	for i, d := range deviations {
		between += float64(len(d)) * (means[i] - grand) * (means[i] - grand)
		for _, v := range d {
			within += (v - means[i]) * (v - means[i])
		}
	}
	if within == 0 {
		return res, fmt.Errorf("%w: levene deviations are constant within every group", ErrZeroRange)
	}

	dfBetween := float64(k - 1)
	dfWithin := float64(total - k)
	w := (dfWithin / dfBetween) * (between / within)

	res.Statistic = w
	res.PValue = clampProbability(distuv.F{D1: dfBetween, D2: dfWithin}.Survival(w))
	return res, nil
}
