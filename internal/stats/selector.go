package stats

import "fmt"

// TestKind identifies the final two-sample comparison.
type TestKind string

const (
	TestKindStudent     TestKind = "student"
	TestKindWelch       TestKind = "welch"
	TestKindMannWhitney TestKind = "mannwhitney"
)

// Title is the human-readable name of the test.
func (k TestKind) Title() string {
	switch k {
	case TestKindStudent:
		return "Independent two-sample t-test (equal variances)"
	case TestKindWelch:
		return "Welch's t-test (unequal variances)"
	case TestKindMannWhitney:
		return "Mann-Whitney U test"
	default:
		return string(k)
	}
}

// Parametric reports whether the test assumes normal data.
func (k TestKind) Parametric() bool {
	return k == TestKindStudent || k == TestKindWelch
}

// SelectTest picks the final comparison from the assumption checks.
// Rejected normality in either group selects Mann-Whitney and the
// homogeneity p-value is ignored; otherwise homogeneity decides between
// the pooled and Welch t-tests.
func SelectTest(normControlP, normTestP, homogeneityP, alpha float64) TestKind {
	if Rejects(normControlP, alpha) || Rejects(normTestP, alpha) {
		return TestKindMannWhitney
	}
	if Rejects(homogeneityP, alpha) {
		return TestKindWelch
	}
	return TestKindStudent
}

// RunTest executes the selected comparison on the two groups.
func RunTest(kind TestKind, a, b []float64) (TestResult, error) {
	switch kind {
	case TestKindStudent:
		return StudentT(a, b)
	case TestKindWelch:
		return WelchT(a, b)
	case TestKindMannWhitney:
		return MannWhitneyU(a, b)
	default:
		return TestResult{}, fmt.Errorf("unknown test kind %q", kind)
	}
}
