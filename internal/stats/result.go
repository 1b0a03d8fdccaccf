package stats

import "errors"

var (
	ErrTooFewObservations = errors.New("too few observations")
	ErrZeroRange          = errors.New("values have zero spread")
	ErrInvalidConfidence  = errors.New("confidence level must be between 0 and 1")
	ErrInvalidProportion  = errors.New("successes must be between 0 and trials")
)

// DefaultAlpha is the significance level used when none is configured.
const DefaultAlpha = 0.05

// TestResult is the outcome of a single hypothesis test.
type TestResult struct {
	Name      string  `json:"name" yaml:"name"`
	Statistic float64 `json:"statistic" yaml:"statistic"`
	PValue    float64 `json:"p_value" yaml:"p_value"`
}

// Rejects reports whether p rejects the null hypothesis at alpha.
// A p-value equal to alpha does not reject.
func Rejects(p, alpha float64) bool {
	return p < alpha
}

func clampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
