package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ProportionsZTest performs a pooled two-proportion z-test of
// H0: pA = pB against a two-sided alternative. Counts may be fractional,
// e.g. summed clicks over a reporting period.
func ProportionsZTest(aSucc, aTrials, bSucc, bTrials float64) (TestResult, error) {
	res := TestResult{Name: "Two-sample proportion z-test"}

	// Need data from both variants
	if aTrials <= 0 || bTrials <= 0 {
		return res, ErrTooFewObservations
	}
	if aSucc < 0 || aSucc > aTrials || bSucc < 0 || bSucc > bTrials {
		return res, ErrInvalidProportion
	}

	// Calculate proportions
	pA := aSucc / aTrials
	pB := bSucc / bTrials

	// Pooled proportion under null hypothesis (pA = pB)
	pooledP := (aSucc + bSucc) / (aTrials + bTrials)

	// Standard error of the difference
	se := math.Sqrt(pooledP * (1 - pooledP) * (1/aTrials + 1/bTrials))

	if se == 0 {
		// Both rates are 0 or both are 1
		res.PValue = 1
		return res, nil
	}

	z := (pA - pB) / se
	res.Statistic = z
	res.PValue = clampProbability(2 * distuv.UnitNormal.Survival(math.Abs(z)))

	return res, nil
}
