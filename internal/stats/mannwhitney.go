package stats

import (
	"fmt"
	"sort"

	"golang.org/x/perf/benchstat"
)

// MannWhitneyU is the two-sided Mann-Whitney rank-sum test of
// H0: both samples come from the same distribution. The statistic is U
// for the first sample, counting ties as one half.
//
// The p-value comes from benchstat.UTest: the exact U distribution
// (tie-aware when ties exist) for small groups, otherwise the normal
// approximation with tie and continuity correction.
func MannWhitneyU(a, b []float64) (TestResult, error) {
	res := TestResult{Name: "Mann-Whitney U test"}

	n1, n2 := len(a), len(b)
	if n1 == 0 || n2 == 0 {
		return res, fmt.Errorf("%w: mann-whitney needs values in both groups, got %d and %d", ErrTooFewObservations, n1, n2)
	}
	if allEqual(a, b) {
		return res, ErrZeroRange
	}

	combined := make([]float64, 0, n1+n2)
	combined = append(combined, a...)
	combined = append(combined, b...)
	ranks := rankData(combined)

	var r1 float64
	for _, r := range ranks[:n1] {
		r1 += r
	}
	res.Statistic = r1 - float64(n1*(n1+1))/2

	p, err := benchstat.UTest(
		&benchstat.Metrics{RValues: append([]float64(nil), a...)},
		&benchstat.Metrics{RValues: append([]float64(nil), b...)},
	)
	if err != nil {
		return res, fmt.Errorf("mann-whitney: %w", err)
	}
	res.PValue = clampProbability(p)
	return res, nil
}

func allEqual(a, b []float64) bool {
	first := a[0]
	for _, s := range [][]float64{a, b} {
		for _, v := range s {
			if v != first {
				return false
			}
		}
	}
	return true
}

// rankData assigns average ranks, 1-based.
func rankData(x []float64) []float64 {
	order := make([]int, len(x))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return x[order[i]] < x[order[j]] })

	ranks := make([]float64, len(x))
	for i := 0; i < len(order); {
		j := i
		for j+1 < len(order) && x[order[j+1]] == x[order[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}
	return ranks
}
