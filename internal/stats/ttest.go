package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// StudentT is the independent two-sample t-test assuming equal
// variances (pooled estimate, n1+n2-2 degrees of freedom).
func StudentT(a, b []float64) (TestResult, error) {
	res := TestResult{Name: "Independent two-sample t-test (equal variances)"}
	if err := checkTwoSamples(a, b); err != nil {
		return res, err
	}

	n1, n2 := float64(len(a)), float64(len(b))
	m1, v1 := stat.MeanVariance(a, nil)
	m2, v2 := stat.MeanVariance(b, nil)

	df := n1 + n2 - 2
	pooled := ((n1-1)*v1 + (n2-1)*v2) / df
	se := math.Sqrt(pooled * (1/n1 + 1/n2))
	if se == 0 {
		return res, ErrZeroRange
	}

	res.Statistic = (m1 - m2) / se
	res.PValue = twoSidedT(res.Statistic, df)
	return res, nil
}

// WelchT is the two-sample t-test without the equal-variance
// assumption, using Welch-Satterthwaite degrees of freedom.
func WelchT(a, b []float64) (TestResult, error) {
	res := TestResult{Name: "Welch's t-test (unequal variances)"}
	if err := checkTwoSamples(a, b); err != nil {
		return res, err
	}

	n1, n2 := float64(len(a)), float64(len(b))
	m1, v1 := stat.MeanVariance(a, nil)
	m2, v2 := stat.MeanVariance(b, nil)

	s1, s2 := v1/n1, v2/n2
	se := math.Sqrt(s1 + s2)
	if se == 0 {
		return res, ErrZeroRange
	}
	df := (s1 + s2) * (s1 + s2) / (s1*s1/(n1-1) + s2*s2/(n2-1))

	res.Statistic = (m1 - m2) / se
	res.PValue = twoSidedT(res.Statistic, df)
	return res, nil
}

func checkTwoSamples(a, b []float64) error {
	if len(a) < 2 || len(b) < 2 {
		return fmt.Errorf("%w: t-test needs 2 values per group, got %d and %d", ErrTooFewObservations, len(a), len(b))
	}
	return nil
}

func twoSidedT(t, df float64) float64 {
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return clampProbability(2 * dist.Survival(math.Abs(t)))
}
