// Package stats implements the statistics behind a two-group A/B
// comparison: descriptive summaries, t confidence intervals, the
// Shapiro-Wilk and Levene assumption checks, Student, Welch and
// Mann-Whitney comparisons, and the two-proportion z-test.
//
// Every hypothesis test returns a TestResult. A null hypothesis is
// rejected when its p-value is strictly below the significance level:
//
//	res, err := stats.ShapiroWilk(values)
//	if err != nil {
//	    return err
//	}
//	if stats.Rejects(res.PValue, 0.05) {
//	    // not normal
//	}
//
// The test to run for the final comparison is chosen by SelectTest from
// the assumption-check p-values.
package stats
